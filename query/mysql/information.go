// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"context"
	"fmt"

	"github.com/patrickascher/queryinterface/query"
)

// Error messages.
var (
	ErrTableDoesNotExist = "mysql: table %s does not exist"
)

// information helper struct.
type information struct {
	table query.TableName
	mysql *mysql
}

// schema returns the condition for the table schema and its argument.
func (i *information) schema(column string) (string, []interface{}) {
	if i.table.Schema != "" {
		return column + " = ?", []interface{}{i.table.Schema}
	}
	return column + " = DATABASE()", nil
}

// Describe the defined table.
func (i *information) Describe(ctx context.Context) (map[string]query.Column, error) {
	where, args := i.schema("c.TABLE_SCHEMA")
	stmt := "SELECT c.COLUMN_NAME AS name, c.ORDINAL_POSITION AS position, c.IS_NULLABLE = 'YES' AS nullable, " +
		"c.COLUMN_KEY = 'PRI' AS pk, c.COLUMN_KEY = 'UNI' AS uniq, c.COLUMN_TYPE AS type, c.COLUMN_DEFAULT AS dflt, " +
		"c.CHARACTER_MAXIMUM_LENGTH AS length, c.EXTRA LIKE '%auto_increment%' AS auto_increment, c.COLUMN_COMMENT AS comment " +
		"FROM information_schema.COLUMNS c WHERE " + where + " AND c.TABLE_NAME = ? ORDER BY c.ORDINAL_POSITION"

	res, err := i.mysql.Run(ctx, stmt, append(args, i.table.TableName), query.QueryOptions{Type: query.DESCRIBE})
	if err != nil {
		return nil, err
	}
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf(ErrTableDoesNotExist, i.table.String())
	}
	return query.DescribeRows(i.table.TableName, res.Rows)
}

// Indexes of the table.
func (i *information) Indexes(ctx context.Context) ([]query.Index, error) {
	where, args := i.schema("s.TABLE_SCHEMA")
	stmt := "SELECT s.INDEX_NAME AS name, s.COLUMN_NAME AS column_name, s.INDEX_NAME = 'PRIMARY' AS pk, s.NON_UNIQUE = 0 AS uniq, " +
		"s.INDEX_TYPE AS method, CASE s.COLLATION WHEN 'D' THEN 'DESC' WHEN 'A' THEN 'ASC' ELSE '' END AS sort, s.SUB_PART AS length " +
		"FROM information_schema.STATISTICS s WHERE " + where + " AND s.TABLE_NAME = ? ORDER BY s.INDEX_NAME, s.SEQ_IN_INDEX"

	res, err := i.mysql.Run(ctx, stmt, append(args, i.table.TableName), query.QueryOptions{Type: query.SHOWINDEXES})
	if err != nil {
		return nil, err
	}
	return query.GroupIndexes(i.table.TableName, res.Rows)
}

// Constraints of the table, filtered by name if set.
func (i *information) Constraints(ctx context.Context, name string) ([]query.ConstraintInfo, error) {
	where, args := i.schema("tc.TABLE_SCHEMA")
	stmt := "SELECT tc.CONSTRAINT_NAME AS name, tc.TABLE_NAME AS tbl, tc.CONSTRAINT_TYPE AS type, kcu.COLUMN_NAME AS column_name, " +
		"kcu.REFERENCED_TABLE_NAME AS ref_table, kcu.REFERENCED_COLUMN_NAME AS ref_column, rc.UPDATE_RULE AS on_update, rc.DELETE_RULE AS on_delete " +
		"FROM information_schema.TABLE_CONSTRAINTS tc " +
		"LEFT JOIN information_schema.KEY_COLUMN_USAGE kcu ON kcu.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA AND kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME AND kcu.TABLE_NAME = tc.TABLE_NAME " +
		"LEFT JOIN information_schema.REFERENTIAL_CONSTRAINTS rc ON rc.CONSTRAINT_SCHEMA = tc.CONSTRAINT_SCHEMA AND rc.CONSTRAINT_NAME = tc.CONSTRAINT_NAME " +
		"WHERE " + where + " AND tc.TABLE_NAME = ?"
	args = append(args, i.table.TableName)
	if name != "" {
		stmt += " AND tc.CONSTRAINT_NAME = ?"
		args = append(args, name)
	}
	stmt += " ORDER BY tc.CONSTRAINT_NAME, kcu.ORDINAL_POSITION"

	res, err := i.mysql.Run(ctx, stmt, args, query.QueryOptions{Type: query.SHOWCONSTRAINTS})
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
	return query.ForeignKeysOf(i.table.Schema, constraints), nil
}
