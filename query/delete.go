// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"strings"

	cond "github.com/patrickascher/queryinterface/query/condition"
)

// DeleteBase is the default Delete builder.
// A limit is rendered natively or as a sub select, depending on the dialect features.
type DeleteBase struct {
	Provider Provider

	DTable     TableName
	DCondition cond.Condition
	DLimit     int
}

// Condition replaces the WHERE clauses with the ones of c.
// All other parts of c are ignored.
func (d *DeleteBase) Condition(c cond.Condition) Delete {
	d.DCondition = whereOnly(c)
	return d
}

// Where adds a WHERE clause.
func (d *DeleteBase) Where(condition string, args ...interface{}) Delete {
	if d.DCondition == nil {
		d.DCondition = cond.New()
	}
	d.DCondition.SetWhere(condition, args...)
	return d
}

// Limit the deleted rows.
func (d *DeleteBase) Limit(limit int) Delete {
	d.DLimit = limit
	return d
}

// String returns the rendered statement and arguments.
func (d *DeleteBase) String() (stmt string, args []interface{}, err error) {
	return d.Render()
}

// Exec the statement.
func (d *DeleteBase) Exec(ctx context.Context, opts QueryOptions) (Result, error) {
	stmt, args, err := d.Render()
	if err != nil {
		return Result{}, err
	}
	if opts.Type == "" {
		opts.Type = DELETE
	}
	return d.Provider.Run(ctx, stmt, args, opts)
}

// Render the statement with the dialect placeholder.
func (d *DeleteBase) Render() (stmt string, args []interface{}, err error) {
	table := d.Provider.QuoteTable(d.DTable)
	where, args, err := renderCondition(d.DCondition)
	if err == nil {
		where, err = limitStmt(d.Provider, table, where, d.DLimit)
	}
	if err != nil {
		return "", nil, err
	}

	stmt = strings.TrimSpace("DELETE FROM " + table + " " + where)
	return cond.ReplacePlaceholders(stmt, d.Provider.Placeholder()), args, nil
}
