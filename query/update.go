// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/query/types"
)

// UpdateBase can be embedded and changed for different providers.
// All functions and variables are therefore exported.
type UpdateBase struct {
	Provider Provider

	UTable     TableName
	UColumns   []string
	UValues    map[string]interface{}
	UCondition condition.Condition
	UReturning []string
	ULimit     int
}

// Set the values.
// A types.Literal value is added as it is, e.g. "count" = "count" + 1.
func (u *UpdateBase) Set(values map[string]interface{}) Update {
	u.UValues = values
	return u
}

// Columns define a fixed column order for the update.
// If the columns are not set manually, all keys of the Values will be added.
// Only Values will be updated which are defined here. This means, you can use Columns as a whitelist.
func (u *UpdateBase) Columns(cols ...string) Update {
	u.UColumns = cols
	return u
}

// Condition adds a copy of your own condition to the stmt.
// Only WHERE conditions will be used.
func (u *UpdateBase) Condition(c condition.Condition) Update {
	u.UCondition = whereOnly(c)
	return u
}

// Where - please see the condition.Where documentation.
func (u *UpdateBase) Where(condition string, args ...interface{}) Update {
	u.createCondition()
	u.UCondition.SetWhere(condition, args...)
	return u
}

// Returning sets the returned columns, if the dialect supports it.
func (u *UpdateBase) Returning(columns ...string) Update {
	u.UReturning = columns
	return u
}

// Limit the updated rows.
func (u *UpdateBase) Limit(limit int) Update {
	u.ULimit = limit
	return u
}

// String returns the rendered statement and arguments.
func (u *UpdateBase) String() (stmt string, args []interface{}, err error) {
	return u.Render()
}

// Exec the statement.
func (u *UpdateBase) Exec(ctx context.Context, opts QueryOptions) (Result, error) {
	stmt, args, err := u.Render()
	if err != nil {
		return Result{}, err
	}
	if opts.Type == "" {
		opts.Type = UPDATE
	}
	return u.Provider.Run(ctx, stmt, args, opts)
}

// Render the sql query.
func (u *UpdateBase) Render() (stmt string, args []interface{}, err error) {

	//no value is set
	if len(u.UValues) == 0 {
		return "", nil, fmt.Errorf(ErrValueMissing, "update", u.UTable.String())
	}

	// set columns if the were not set manually.
	columns := u.UColumns
	if len(columns) == 0 {
		columns = columnsOf(u.UValues)
	}

	var arguments []interface{}
	sqlColumns := make([]string, len(columns))
	for i, column := range columns {
		val, ok := u.UValues[column]
		if !ok {
			return "", nil, fmt.Errorf(ErrColumn, column, u.UTable.String())
		}
		switch v := val.(type) {
		case types.Literal:
			sqlColumns[i] = u.Provider.QuoteIdentifier(column) + " = " + string(v)
			continue
		case types.DefaultFn:
			val = v.Value()
		}
		sqlColumns[i] = u.Provider.QuoteIdentifier(column) + " = " + condition.PLACEHOLDER
		arguments = append(arguments, val)
	}

	// render sql
	table := u.Provider.QuoteTable(u.UTable)
	updateStmt := "UPDATE " + table + " SET " + strings.Join(sqlColumns, ", ")
	conditionStmt, condArgs, err := renderCondition(u.UCondition)
	if err != nil {
		return "", nil, err
	}
	arguments = append(arguments, condArgs...)

	limited, err := limitStmt(u.Provider, table, conditionStmt, u.ULimit)
	if err != nil {
		return "", nil, err
	}
	if limited != "" {
		updateStmt += " " + limited
	}

	if len(u.UReturning) > 0 {
		if r := u.Provider.ReturningSQL(u.UReturning); r != "" {
			updateStmt += " " + r
		}
	}

	return condition.ReplacePlaceholders(updateStmt, u.Provider.Placeholder()), arguments, nil
}

// createCondition helper to create a condition if none was set yet.
func (u *UpdateBase) createCondition() {
	if u.UCondition == nil {
		u.UCondition = condition.New()
	}
}

// limitStmt adds the limit to the where condition.
// Dialects without LIMIT on UPDATE and DELETE use a sub select over the row identifier.
func limitStmt(p Provider, table string, where string, limit int) (string, error) {
	if limit <= 0 {
		return where, nil
	}
	if p.Features().LimitOnUpdate {
		return strings.TrimSpace(where + " LIMIT " + strconv.Itoa(limit)), nil
	}
	rid := p.RowIdentifier()
	if rid == "" {
		return "", ErrNotSupported
	}
	sub := "SELECT " + rid + " FROM " + table
	if where != "" {
		sub += " " + where
	}
	return "WHERE " + rid + " IN (" + sub + " LIMIT " + strconv.Itoa(limit) + ")", nil
}
