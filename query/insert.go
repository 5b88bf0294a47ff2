// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/query/types"
)

const defaultBatchSize = 50

// InsertBase can be embedded and changed for different providers.
// All functions and variables are therefore exported.
type InsertBase struct {
	Provider Provider

	ITable      TableName
	IValues     []map[string]interface{}
	IColumns    []string
	IBatchSize  int
	IReturning  []string
	IIgnore     bool
	IOnConflict *OnConflict
}

// Batch sets the batching size.
// Default batching size is 50.
func (i *InsertBase) Batch(size int) Insert {
	i.IBatchSize = size
	return i
}

// Columns define a fixed column order for the insert.
// If the columns are not set manually, all keys of the first value set will be added.
// Only Values will be inserted which are defined here. This means, you can use Columns as a whitelist.
func (i *InsertBase) Columns(c ...string) Insert {
	i.IColumns = c
	return i
}

// Values sets the insert data.
func (i *InsertBase) Values(values []map[string]interface{}) Insert {
	i.IValues = values
	return i
}

// Returning sets the returned columns, if the dialect supports it.
func (i *InsertBase) Returning(columns ...string) Insert {
	i.IReturning = columns
	return i
}

// Ignore duplicate rows.
func (i *InsertBase) Ignore(ignore bool) Insert {
	i.IIgnore = ignore
	return i
}

// OnConflict defines the conflict handling.
func (i *InsertBase) OnConflict(c OnConflict) Insert {
	i.IOnConflict = &c
	return i
}

// String returns the rendered statements and arguments.
func (i *InsertBase) String() ([]string, [][]interface{}, error) {
	return i.Render()
}

// Exec the statements.
// If the insert is batched and no transaction exists, all batches run in a new transaction.
func (i *InsertBase) Exec(ctx context.Context, opts QueryOptions) (InsertResult, error) {
	stmts, args, err := i.Render()
	if err != nil {
		return InsertResult{}, err
	}
	if opts.Type == "" {
		opts.Type = INSERT
	}

	var tx *Transaction
	if len(stmts) > 1 && opts.Transaction == nil && TransactionFromContext(ctx) == nil {
		tx, err = i.Provider.StartTransaction(ctx, TransactionOptions{})
		if err != nil {
			return InsertResult{}, err
		}
		opts.Transaction = tx
	}

	var rv InsertResult
	for n := range stmts {
		var res Result
		res, err = i.Provider.Run(ctx, stmts[n], args[n], opts)
		if err != nil {
			break
		}
		rv.RowsAffected += res.RowsAffected
		rv.Rows = append(rv.Rows, res.Rows...)
		if res.LastInsertID != 0 {
			rv.ID = res.LastInsertID
		}
	}

	if tx != nil {
		if err != nil {
			_ = i.Provider.RollbackTransaction(ctx, tx)
			return InsertResult{}, err
		}
		err = i.Provider.CommitTransaction(ctx, tx)
	}
	if err != nil {
		return InsertResult{}, err
	}

	if rv.ID == 0 && len(rv.Rows) > 0 {
		rv.ID = idOf(rv.Rows[len(rv.Rows)-1])
	}
	return rv, nil
}

// Render the sql query.
func (i *InsertBase) Render() ([]string, [][]interface{}, error) {

	// error if no value is set
	if len(i.IValues) == 0 {
		return nil, nil, fmt.Errorf(ErrValueMissing, "insert", i.ITable.String())
	}

	// set columns if the were not set manually.
	columns := i.IColumns
	if len(columns) == 0 {
		columns = columnsOf(i.IValues[0])
	}

	quoted := make([]string, len(columns))
	for n, c := range columns {
		quoted[n] = i.Provider.QuoteIdentifier(c)
	}

	stmt := "INSERT "
	features := i.Provider.Features()
	if i.IIgnore && features.InsertIgnore != "" {
		stmt += features.InsertIgnore + " "
	}
	stmt += "INTO " + i.Provider.QuoteTable(i.ITable) + " (" + strings.Join(quoted, ", ") + ") VALUES "

	var suffix string
	if i.IOnConflict != nil {
		suffix += " " + i.Provider.OnConflictSQL(*i.IOnConflict)
	} else if i.IIgnore && features.InsertIgnore == "" {
		suffix += " " + i.Provider.OnConflictSQL(OnConflict{DoNothing: true})
	}
	if len(i.IReturning) > 0 {
		if r := i.Provider.ReturningSQL(i.IReturning); r != "" {
			suffix += " " + r
		}
	}

	size := i.IBatchSize
	if size <= 0 {
		size = defaultBatchSize
	}

	var stmts []string
	var arguments [][]interface{}
	for start := 0; start < len(i.IValues); start += size {
		end := start + size
		if end > len(i.IValues) {
			end = len(i.IValues)
		}

		var rows []string
		var args []interface{}
		for _, valueSet := range i.IValues[start:end] {
			row := make([]string, len(columns))
			for n, column := range columns {
				val, ok := valueSet[column]
				if !ok {
					return nil, nil, fmt.Errorf(ErrColumn, column, i.ITable.String())
				}
				switch v := val.(type) {
				case types.Literal:
					row[n] = string(v)
					continue
				case types.DefaultFn:
					val = v.Value()
				}
				row[n] = condition.PLACEHOLDER
				args = append(args, val)
			}
			rows = append(rows, "("+strings.Join(row, ", ")+")")
		}
		stmts = append(stmts, condition.ReplacePlaceholders(stmt+strings.Join(rows, ", ")+suffix, i.Provider.Placeholder()))
		arguments = append(arguments, args)
	}

	return stmts, arguments, nil
}

// idOf returns the id column of a returned row as int64.
func idOf(row map[string]interface{}) int64 {
	switch v := row["id"].(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	}
	return 0
}
