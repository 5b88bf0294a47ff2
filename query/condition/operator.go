// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package condition

import (
	"fmt"
	"reflect"
	"sort"
)

// all allowed sql operators.
const (
	EQ      = "= ?"
	NEQ     = "!= ?"
	NULL    = "IS NULL"
	NOTNULL = "IS NOT NULL"
	GT      = "> ?"
	GTE     = ">= ?"
	LT      = "< ?"
	LTE     = "<= ?"
	LIKE    = "LIKE ?"
	NOTLIKE = "NOT LIKE ?"
	IN      = "IN (?)"
	NOTIN   = "NOT IN (?)"
)

// ErrOperator - Error message.
var ErrOperator = "query: operator %#v is not allowed"

// IsOperatorAllowed will return false if the operator is not implemented.
func IsOperatorAllowed(s string) bool {
	switch s {
	case EQ, NEQ, NULL, NOTNULL, GT, GTE, LT, LTE, LIKE, NOTLIKE, IN, NOTIN:
		return true
	default:
		return false
	}
}

// FromMap creates a WHERE condition out of a column/value map.
// A nil value is rendered as IS NULL, slices and arrays as IN (?).
// Columns are sorted to get a stable statement.
//
//	FromMap(map[string]interface{}{"id": []int{1, 2}, "deleted_at": nil})
//	// WHERE deleted_at IS NULL AND id IN (?, ?)
func FromMap(values map[string]interface{}) Condition {
	c := New()
	columns := make([]string, 0, len(values))
	for column := range values {
		columns = append(columns, column)
	}
	sort.Strings(columns)

	for _, column := range columns {
		v := values[column]
		switch {
		case v == nil:
			c.SetWhereOp(column, NULL, nil)
		case isList(v):
			c.SetWhereOp(column, IN, v)
		default:
			c.SetWhereOp(column, EQ, v)
		}
	}
	return c
}

// isList reports if the value is a slice or array, []byte excluded.
func isList(v interface{}) bool {
	if _, ok := v.([]byte); ok {
		return false
	}
	k := reflect.ValueOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

// whereOp renders a column with an operator.
func whereOp(column string, op string, value interface{}) (string, []interface{}, error) {
	if !IsOperatorAllowed(op) {
		return "", nil, fmt.Errorf(ErrOperator, op)
	}
	if op == NULL || op == NOTNULL {
		return column + " " + op, nil, nil
	}
	return column + " " + op, []interface{}{value}, nil
}
