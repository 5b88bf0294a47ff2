// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"fmt"
	"testing"

	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/query/types"
	"github.com/stretchr/testify/assert"
)

// TestSelectBase tests the rendered select statement.
func TestSelectBase(t *testing.T) {
	asserts := assert.New(t)
	a := newAnsi(Features{})

	stmt, args, err := a.SelectBuilder(Table("users")).String()
	asserts.NoError(err)
	asserts.Equal(`SELECT * FROM "users"`, stmt)
	asserts.Nil(args)

	stmt, args, err = a.SelectBuilder(Table("public.users u")).
		Columns("u.id", "name n", DbExpr("COUNT(*) AS cnt")).
		Where("id > ?", 1).
		Where("name IN (?)", []string{"a", "b"}).
		Group("u.id").
		Having("COUNT(*) > ?", 2).
		Order("-id", "name").
		Limit(10).
		Offset(5).
		String()
	asserts.NoError(err)
	asserts.Equal(`SELECT "u"."id", "name" AS "n", COUNT(*) AS cnt FROM "public"."users" AS "u" WHERE id > ? AND name IN (?, ?) GROUP BY u.id HAVING COUNT(*) > ? ORDER BY id DESC, name ASC LIMIT 10 OFFSET 5`, stmt)
	asserts.Equal([]interface{}{1, "a", "b", 2}, args)

	// the condition is copied
	c := condition.New().SetWhere("id = ?", 1)
	sel := a.SelectBuilder(Table("users")).Condition(c)
	c.SetWhere("name = ?", "a")
	stmt, args, err = sel.String()
	asserts.NoError(err)
	asserts.Equal(`SELECT * FROM "users" WHERE id = ?`, stmt)
	asserts.Equal([]interface{}{1}, args)
}

// TestInsertBase tests:
// - sorted columns.
// - batches.
// - literals and default functions.
// - ignore, on conflict and returning.
// - error if a value is missing.
func TestInsertBase(t *testing.T) {
	asserts := assert.New(t)
	a := newAnsi(Features{Returning: true})

	values := []map[string]interface{}{
		{"name": "a", "id": 1, "created": types.Literal("NOW()")},
		{"name": "b", "id": 2, "created": types.Literal("NOW()")},
		{"name": "c", "id": 3, "created": types.Literal("NOW()")},
	}
	stmts, args, err := a.InsertBuilder(Table("users")).Values(values).Batch(2).String()
	asserts.NoError(err)
	asserts.Equal([]string{
		`INSERT INTO "users" ("created", "id", "name") VALUES (NOW(), ?, ?), (NOW(), ?, ?)`,
		`INSERT INTO "users" ("created", "id", "name") VALUES (NOW(), ?, ?)`,
	}, stmts)
	asserts.Equal([][]interface{}{{1, "a", 2, "b"}, {3, "c"}}, args)

	stmts, _, err = a.InsertBuilder(Table("users")).Values(values[:1]).Columns("id").Ignore(true).Returning("id").String()
	asserts.NoError(err)
	asserts.Equal([]string{`INSERT INTO "users" ("id") VALUES (?) ON CONFLICT DO NOTHING RETURNING "id"`}, stmts)

	stmts, _, err = a.InsertBuilder(Table("users")).Values(values[:1]).Columns("id", "name").OnConflict(OnConflict{Fields: []string{"id"}, Update: []string{"name"}}).String()
	asserts.NoError(err)
	asserts.Equal([]string{`INSERT INTO "users" ("id", "name") VALUES (?, ?) ON CONFLICT ("id") DO UPDATE SET "name" = EXCLUDED."name"`}, stmts)

	// insert ignore keyword
	m := newAnsi(Features{InsertIgnore: "IGNORE"})
	stmts, _, err = m.InsertBuilder(Table("users")).Values(values[:1]).Columns("id").Ignore(true).String()
	asserts.NoError(err)
	asserts.Equal([]string{`INSERT IGNORE INTO "users" ("id") VALUES (?)`}, stmts)

	// error: no values
	_, _, err = a.InsertBuilder(Table("users")).String()
	asserts.Error(err)

	// error: column value is missing
	_, _, err = a.InsertBuilder(Table("users")).Values(values[:1]).Columns("unknown").String()
	asserts.Error(err)
	asserts.Equal(fmt.Sprintf(ErrColumn, "unknown", "users"), err.Error())
}

// TestUpdateBase tests the rendered update statement with and without native limit support.
func TestUpdateBase(t *testing.T) {
	asserts := assert.New(t)
	a := newAnsi(Features{Returning: true, LimitOnUpdate: true})

	stmt, args, err := a.UpdateBuilder(Table("users")).
		Set(map[string]interface{}{"name": "a", "logins": types.Literal(`"logins" + 1`)}).
		Where("id = ?", 1).
		Returning("id").
		String()
	asserts.NoError(err)
	asserts.Equal(`UPDATE "users" SET "logins" = "logins" + 1, "name" = ? WHERE id = ? RETURNING "id"`, stmt)
	asserts.Equal([]interface{}{"a", 1}, args)

	stmt, _, err = a.UpdateBuilder(Table("users")).Set(map[string]interface{}{"name": "a"}).Limit(2).String()
	asserts.NoError(err)
	asserts.Equal(`UPDATE "users" SET "name" = ? LIMIT 2`, stmt)

	// error: limit without row identifier
	n := newAnsi(Features{})
	_, _, err = n.UpdateBuilder(Table("users")).Set(map[string]interface{}{"name": "a"}).Limit(2).String()
	asserts.ErrorIs(err, ErrNotSupported)

	// error: no values
	_, _, err = a.UpdateBuilder(Table("users")).String()
	asserts.Error(err)
	asserts.Equal(fmt.Sprintf(ErrValueMissing, "update", "users"), err.Error())
}

// TestDeleteBase tests that only the WHERE clauses of the condition are used.
func TestDeleteBase(t *testing.T) {
	asserts := assert.New(t)
	a := newAnsi(Features{LimitOnUpdate: true})

	stmt, args, err := a.DeleteBuilder(Table("users")).Condition(condition.New().SetWhere("id > ?", 1).SetOrder("id").SetGroup("id")).String()
	asserts.NoError(err)
	asserts.Equal(`DELETE FROM "users" WHERE id > ?`, stmt)
	asserts.Equal([]interface{}{1}, args)

	stmt, _, err = a.DeleteBuilder(Table("users")).Limit(1).String()
	asserts.NoError(err)
	asserts.Equal(`DELETE FROM "users" LIMIT 1`, stmt)
}

// TestReturnsRows tests that only statements with rows are queried and quoted text is ignored.
func TestReturnsRows(t *testing.T) {
	asserts := assert.New(t)

	tests := []struct {
		typ  string
		stmt string
		rows bool
	}{
		{typ: SELECT, stmt: "anything", rows: true},
		{typ: RAW, stmt: "  select 1", rows: true},
		{typ: RAW, stmt: "PRAGMA foreign_keys", rows: true},
		{typ: UPDATE, stmt: "UPDATE t SET a = 1 RETURNING id", rows: true},
		{typ: RAW, stmt: "INSERT INTO t (a) VALUES (1) returning *", rows: true},
		{typ: RAW, stmt: "UPDATE t SET a = 'returning customer'", rows: false},
		{typ: RAW, stmt: "UPDATE t SET a = 'it''s returning'", rows: false},
		{typ: RAW, stmt: `UPDATE t SET "returning" = 1`, rows: false},
		{typ: DELETE, stmt: "DELETE FROM t", rows: false},
	}
	for _, tt := range tests {
		asserts.Equal(tt.rows, returnsRows(tt.typ, tt.stmt), tt.stmt)
	}
}
