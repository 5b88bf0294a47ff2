// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"testing"

	"github.com/patrickascher/queryinterface/query/types"
	"github.com/stretchr/testify/assert"
	"gopkg.in/guregu/null.v4"
)

// TestDescribeRows tests the conversion of describe rows into columns.
func TestDescribeRows(t *testing.T) {
	asserts := assert.New(t)

	columns, err := DescribeRows("users", []map[string]interface{}{
		{"name": "id", "position": int64(1), "nullable": int64(0), "pk": int64(1), "uniq": int64(0), "type": "int(11)", "dflt": nil, "length": nil, "auto_increment": int64(1), "comment": ""},
		{"name": "name", "position": int64(2), "nullable": int64(1), "pk": false, "uniq": true, "type": "varchar(20)", "dflt": "'a'", "length": int64(20), "auto_increment": false, "comment": "full name"},
		{"name": "state", "position": int64(3), "nullable": true, "pk": false, "uniq": false, "type": "enum('a','b')"},
	})
	asserts.NoError(err)
	asserts.Equal(3, len(columns))

	id := columns["id"]
	asserts.Equal("users", id.Table)
	asserts.Equal(1, id.Position)
	asserts.False(id.AllowNull)
	asserts.True(id.PrimaryKey)
	asserts.True(id.AutoIncrement)
	asserts.False(id.DefaultValue.Valid)
	asserts.False(id.Comment.Valid)
	asserts.Equal(types.INTEGER, id.Type.Kind())

	name := columns["name"]
	asserts.True(name.Unique)
	asserts.Equal(null.StringFrom("'a'"), name.DefaultValue)
	asserts.Equal(null.IntFrom(20), name.Length)
	asserts.Equal(null.StringFrom("full name"), name.Comment)
	asserts.Equal(types.TEXT, name.Type.Kind())

	state := columns["state"]
	asserts.Equal(types.SELECT, state.Type.Kind())
	items, ok := state.Type.(types.Items)
	if asserts.True(ok) {
		asserts.Equal([]string{"a", "b"}, items.Items())
	}
}

// TestGroupIndexes tests that index rows are grouped by name in order.
func TestGroupIndexes(t *testing.T) {
	asserts := assert.New(t)

	indexes, err := GroupIndexes("users", []map[string]interface{}{
		{"name": "PRIMARY", "column_name": "id", "pk": int64(1), "uniq": int64(1), "method": "BTREE", "sort": "ASC"},
		{"name": "users_name_email", "column_name": "name", "pk": int64(0), "uniq": int64(0), "sort": "DESC", "length": int64(10), "collate": "utf8mb4_bin"},
		{"name": "users_name_email", "column_name": "email", "pk": int64(0), "uniq": int64(0), "sort": "ASC"},
	})
	asserts.NoError(err)
	asserts.Equal([]Index{
		{Name: "PRIMARY", Table: "users", Primary: true, Unique: true, Method: "BTREE", Fields: []IndexField{{Name: "id", Order: "ASC"}}},
		{Name: "users_name_email", Table: "users", Fields: []IndexField{{Name: "name", Order: "DESC", Length: 10, Collate: "utf8mb4_bin"}, {Name: "email", Order: "ASC"}}},
	}, indexes)
}

// TestGroupConstraints tests:
// - grouping by name.
// - unique fields and referenced fields.
// - foreign keys per column.
func TestGroupConstraints(t *testing.T) {
	asserts := assert.New(t)

	constraints, err := GroupConstraints([]map[string]interface{}{
		{"name": "users_pkey", "tbl": "users", "type": "PRIMARY KEY", "column_name": "id"},
		{"name": "users_roles_fk", "tbl": "users", "type": "FOREIGN KEY", "column_name": "role_id", "ref_table": "roles", "ref_column": "id", "on_update": "NO ACTION", "on_delete": "CASCADE"},
		{"name": "users_roles_fk", "tbl": "users", "type": "FOREIGN KEY", "column_name": "role_name", "ref_table": "roles", "ref_column": "name", "on_update": "NO ACTION", "on_delete": "CASCADE"},
		{"name": "users_roles_fk", "tbl": "users", "type": "FOREIGN KEY", "column_name": "role_id", "ref_table": "roles", "ref_column": "id"},
		{"name": "users_ck", "tbl": "users", "type": "CHECK", "definition": "CHECK (id > 0)"},
	})
	asserts.NoError(err)
	if asserts.Equal(3, len(constraints)) {
		asserts.Equal([]string{"id"}, constraints[0].Fields)
		asserts.Equal([]string{"role_id", "role_name"}, constraints[1].Fields)
		asserts.Equal([]string{"id", "name"}, constraints[1].ReferencedFields)
		asserts.Equal("roles", constraints[1].ReferencedTable)
		asserts.Equal("CASCADE", constraints[1].OnDelete)
		asserts.Nil(constraints[2].Fields)
		asserts.Equal(null.StringFrom("CHECK (id > 0)"), constraints[2].Definition)
	}

	fks := ForeignKeysOf("public", constraints)
	asserts.Equal([]ForeignKey{
		{Name: "users_roles_fk", Primary: Relation{Schema: "public", Table: "users", Column: "role_id"}, Secondary: Relation{Schema: "public", Table: "roles", Column: "id"}, OnUpdate: "NO ACTION", OnDelete: "CASCADE"},
		{Name: "users_roles_fk", Primary: Relation{Schema: "public", Table: "users", Column: "role_name"}, Secondary: Relation{Schema: "public", Table: "roles", Column: "name"}, OnUpdate: "NO ACTION", OnDelete: "CASCADE"},
	}, fks)
}
