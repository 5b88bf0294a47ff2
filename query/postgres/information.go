// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"context"
	"fmt"

	"github.com/patrickascher/queryinterface/query"
	"github.com/patrickascher/queryinterface/query/condition"
)

// Error messages.
var (
	ErrTableDoesNotExist = "postgres: table %s does not exist"
)

// referential actions of pg_constraint.
const actionSQL = "CASE %s WHEN 'a' THEN 'NO ACTION' WHEN 'r' THEN 'RESTRICT' WHEN 'c' THEN 'CASCADE' WHEN 'n' THEN 'SET NULL' WHEN 'd' THEN 'SET DEFAULT' END"

// information helper struct.
type information struct {
	table    query.TableName
	postgres *postgres
}

// schema returns the condition for the table schema and its argument.
func (i *information) schema(column string) (string, []interface{}) {
	if i.table.Schema != "" {
		return column + " = ?", []interface{}{i.table.Schema}
	}
	return column + " = current_schema()", nil
}

// run replaces the placeholders and executes the statement.
func (i *information) run(ctx context.Context, stmt string, args []interface{}, typ string) (query.Result, error) {
	return i.postgres.Run(ctx, condition.ReplacePlaceholders(stmt, i.postgres.Placeholder()), args, query.QueryOptions{Type: typ})
}

// Describe the defined table.
// Enum columns are returned as enum('a','b').
func (i *information) Describe(ctx context.Context) (map[string]query.Column, error) {
	where, args := i.schema("c.table_schema")
	stmt := "SELECT c.column_name AS name, c.ordinal_position AS position, c.is_nullable = 'YES' AS nullable, " +
		"EXISTS(SELECT 1 FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage k ON k.constraint_name = tc.constraint_name AND k.table_schema = tc.table_schema AND k.table_name = tc.table_name " +
		"WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = c.table_schema AND tc.table_name = c.table_name AND k.column_name = c.column_name) AS pk, " +
		"EXISTS(SELECT 1 FROM information_schema.table_constraints tc JOIN information_schema.key_column_usage k ON k.constraint_name = tc.constraint_name AND k.table_schema = tc.table_schema AND k.table_name = tc.table_name " +
		"WHERE tc.constraint_type = 'UNIQUE' AND tc.table_schema = c.table_schema AND tc.table_name = c.table_name AND k.column_name = c.column_name) AS uniq, " +
		"CASE WHEN c.data_type = 'USER-DEFINED' AND EXISTS(SELECT 1 FROM pg_type t WHERE t.typname = c.udt_name AND t.typtype = 'e') " +
		"THEN 'enum(' || (SELECT string_agg(quote_literal(e.enumlabel), ',' ORDER BY e.enumsortorder) FROM pg_enum e JOIN pg_type t ON t.oid = e.enumtypid WHERE t.typname = c.udt_name) || ')' " +
		"WHEN c.data_type IN ('USER-DEFINED', 'ARRAY') THEN c.udt_name ELSE c.data_type END AS type, " +
		"c.column_default AS dflt, c.character_maximum_length AS length, " +
		"(COALESCE(c.column_default LIKE 'nextval(%', false) OR c.is_identity = 'YES') AS auto_increment, " +
		"col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position) AS comment " +
		"FROM information_schema.columns c WHERE " + where + " AND c.table_name = ? ORDER BY c.ordinal_position"

	res, err := i.run(ctx, stmt, append(args, i.table.TableName), query.DESCRIBE)
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
	where, args := i.schema("ns.nspname")
	stmt := "SELECT i.relname AS name, a.attname AS column_name, ix.indisprimary AS pk, ix.indisunique AS uniq, am.amname AS method, " +
		"CASE WHEN (ix.indoption[(k.n - 1)::int] & 1) = 1 THEN 'DESC' ELSE 'ASC' END AS sort, co.collname AS \"collate\" " +
		"FROM pg_index ix " +
		"JOIN pg_class t ON t.oid = ix.indrelid " +
		"JOIN pg_class i ON i.oid = ix.indexrelid " +
		"JOIN pg_namespace ns ON ns.oid = t.relnamespace " +
		"JOIN pg_am am ON am.oid = i.relam " +
		"CROSS JOIN LATERAL unnest(ix.indkey::int2[]) WITH ORDINALITY AS k(attnum, n) " +
		"JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum " +
		"LEFT JOIN pg_collation co ON co.oid = ix.indcollation[(k.n - 1)::int] AND co.collname <> 'default' " +
		"WHERE " + where + " AND t.relname = ? ORDER BY i.relname, k.n"

	res, err := i.run(ctx, stmt, append(args, i.table.TableName), query.SHOWINDEXES)
	if err != nil {
		return nil, err
	}
	return query.GroupIndexes(i.table.TableName, res.Rows)
}

// Constraints of the table, filtered by name if set.
func (i *information) Constraints(ctx context.Context, name string) ([]query.ConstraintInfo, error) {
	where, args := i.schema("ns.nspname")
	stmt := "SELECT con.conname AS name, cl.relname AS tbl, " +
		"CASE con.contype WHEN 'p' THEN 'PRIMARY KEY' WHEN 'u' THEN 'UNIQUE' WHEN 'f' THEN 'FOREIGN KEY' WHEN 'c' THEN 'CHECK' WHEN 'x' THEN 'EXCLUDE' END AS type, " +
		"a.attname AS column_name, rcl.relname AS ref_table, ra.attname AS ref_column, " +
		fmt.Sprintf(actionSQL, "con.confupdtype") + " AS on_update, " +
		fmt.Sprintf(actionSQL, "con.confdeltype") + " AS on_delete, " +
		"pg_get_constraintdef(con.oid) AS definition " +
		"FROM pg_constraint con " +
		"JOIN pg_class cl ON cl.oid = con.conrelid " +
		"JOIN pg_namespace ns ON ns.oid = cl.relnamespace " +
		"LEFT JOIN LATERAL unnest(con.conkey) WITH ORDINALITY AS k(attnum, n) ON true " +
		"LEFT JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = k.attnum " +
		"LEFT JOIN pg_class rcl ON rcl.oid = con.confrelid " +
		"LEFT JOIN pg_attribute ra ON ra.attrelid = con.confrelid AND ra.attnum = con.confkey[k.n::int] " +
		"WHERE " + where + " AND cl.relname = ?"
	args = append(args, i.table.TableName)
	if name != "" {
		stmt += " AND con.conname = ?"
		args = append(args, name)
	}
	stmt += " ORDER BY con.conname, k.n"

	res, err := i.run(ctx, stmt, args, query.SHOWCONSTRAINTS)
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
