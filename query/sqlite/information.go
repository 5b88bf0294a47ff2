// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"context"
	"fmt"

	"github.com/patrickascher/queryinterface/query"
)

// Error messages.
var (
	ErrTableDoesNotExist = "sqlite: table %s does not exist"
)

// information helper struct.
type information struct {
	table  query.TableName
	sqlite *sqlite
}

// Describe the defined table.
// A column is unique if a single column unique index exists on it.
func (i *information) Describe(ctx context.Context) (map[string]query.Column, error) {
	name := tableName(i.table)
	stmt := "SELECT p.name AS name, p.cid + 1 AS position, p.\"notnull\" = 0 AS nullable, p.pk > 0 AS pk, " +
		"EXISTS(SELECT 1 FROM pragma_index_list(?1) il WHERE il.\"unique\" = 1 AND il.origin <> 'pk' " +
		"AND (SELECT COUNT(*) FROM pragma_index_info(il.name)) = 1 AND (SELECT ii.name FROM pragma_index_info(il.name) ii) = p.name) AS uniq, " +
		"p.type AS type, p.dflt_value AS dflt, " +
		"(p.pk > 0 AND upper(p.type) = 'INTEGER' AND (SELECT m.sql FROM sqlite_master m WHERE m.type = 'table' AND m.name = ?1) LIKE '%AUTOINCREMENT%') AS auto_increment " +
		"FROM pragma_table_info(?1) p ORDER BY p.cid"

	res, err := i.sqlite.Run(ctx, stmt, []interface{}{name}, query.QueryOptions{Type: query.DESCRIBE})
	if err != nil {
		return nil, err
	}
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf(ErrTableDoesNotExist, i.table.String())
	}
	return query.DescribeRows(name, res.Rows)
}

// Indexes of the table.
// The rowid primary key has no index and is not returned.
func (i *information) Indexes(ctx context.Context) ([]query.Index, error) {
	name := tableName(i.table)
	stmt := "SELECT il.name AS name, COALESCE(ix.name, '') AS column_name, il.origin = 'pk' AS pk, il.\"unique\" AS uniq, " +
		"CASE WHEN ix.\"desc\" = 1 THEN 'DESC' ELSE 'ASC' END AS sort, NULLIF(ix.coll, 'BINARY') AS \"collate\" " +
		"FROM pragma_index_list(?1) il JOIN pragma_index_xinfo(il.name) ix ON ix.key = 1 ORDER BY il.name, ix.seqno"

	res, err := i.sqlite.Run(ctx, stmt, []interface{}{name}, query.QueryOptions{Type: query.SHOWINDEXES})
	if err != nil {
		return nil, err
	}
	return query.GroupIndexes(name, res.Rows)
}

// Constraints of the table, filtered by name if set.
// Foreign keys are named by their table and id, because sqlite does not store the name.
func (i *information) Constraints(ctx context.Context, name string) ([]query.ConstraintInfo, error) {
	tbl := tableName(i.table)
	stmt := "SELECT * FROM (" +
		"SELECT ?1 || '_pkey' AS name, ?1 AS tbl, 'PRIMARY KEY' AS type, p.name AS column_name, NULL AS ref_table, NULL AS ref_column, NULL AS on_update, NULL AS on_delete, p.pk AS seq " +
		"FROM pragma_table_info(?1) p WHERE p.pk > 0 " +
		"UNION ALL " +
		"SELECT il.name, ?1, 'UNIQUE', ii.name, NULL, NULL, NULL, NULL, ii.seqno " +
		"FROM pragma_index_list(?1) il JOIN pragma_index_info(il.name) ii WHERE il.\"unique\" = 1 AND il.origin <> 'pk' " +
		"UNION ALL " +
		"SELECT ?1 || '_' || f.id || '_fkey', ?1, 'FOREIGN KEY', f.\"from\", f.\"table\", f.\"to\", f.on_update, f.on_delete, f.seq " +
		"FROM pragma_foreign_key_list(?1) f" +
		")"
	args := []interface{}{tbl}
	if name != "" {
		stmt += " WHERE name = ?2"
		args = append(args, name)
	}
	stmt += " ORDER BY name, seq"

	res, err := i.sqlite.Run(ctx, stmt, args, query.QueryOptions{Type: query.SHOWCONSTRAINTS})
	if err != nil {
		return nil, err
	}
	return query.GroupConstraints(res.Rows)
}

// ForeignKeys will return the foreign keys for the defined table.
func (i *information) ForeignKeys(ctx context.Context) ([]query.ForeignKey, error) {
	constraints, err := i.Constraints(ctx, "")
	if err != nil {
		return nil, err
	}
	return query.ForeignKeysOf("", constraints), nil
}
