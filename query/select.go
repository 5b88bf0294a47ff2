// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"sort"
	"strings"

	"github.com/patrickascher/queryinterface/query/condition"
)

// SelectBase is the default Select builder.
// Dialects embed it and only override what differs.
type SelectBase struct {
	Provider Provider

	STable     TableName
	SColumns   []string
	SCondition condition.Condition
}

// Columns define the selected columns.
// If the columns are not set manually, * will be used.
func (s *SelectBase) Columns(columns ...string) Select {
	s.SColumns = columns
	return s
}

// First returns the first row or nil if no row exists.
// The limit is set to 1 and the offset is kept.
func (s *SelectBase) First(ctx context.Context, opts QueryOptions) (map[string]interface{}, error) {
	s.cond().SetLimit(1)
	rows, err := s.All(ctx, opts)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// All returns all rows.
func (s *SelectBase) All(ctx context.Context, opts QueryOptions) ([]map[string]interface{}, error) {
	stmt, args, err := s.Render()
	if err != nil {
		return nil, err
	}
	if opts.Type == "" {
		opts.Type = SELECT
	}
	res, err := s.Provider.Run(ctx, stmt, args, opts)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// Render the statement with the dialect placeholder.
func (s *SelectBase) Render() (string, []interface{}, error) {
	columns := "*"
	if len(s.SColumns) > 0 {
		quoted := make([]string, len(s.SColumns))
		for i, c := range s.SColumns {
			quoted[i] = s.Provider.QuoteIdentifier(c)
		}
		columns = strings.Join(quoted, ", ")
	}

	selectStmt := "SELECT " + columns + " FROM " + s.Provider.QuoteTable(s.STable)
	conditionStmt, args, err := renderCondition(s.SCondition)
	if err != nil {
		return "", nil, err
	}
	if conditionStmt != "" {
		selectStmt += " " + conditionStmt
	}

	return condition.ReplacePlaceholders(selectStmt, s.Provider.Placeholder()), args, nil
}

// String returns the rendered statement and arguments.
func (s *SelectBase) String() (string, []interface{}, error) {
	return s.Render()
}

// Condition replaces the condition with a copy of c.
func (s *SelectBase) Condition(c condition.Condition) Select {
	if c != nil {
		c = c.Copy()
	}
	s.SCondition = c
	return s
}

// Join adds a join. The table is quoted, the join condition is used as it is.
func (s *SelectBase) Join(joinType int, table string, condition string, args ...interface{}) Select {
	s.cond().SetJoin(joinType, s.Provider.QuoteIdentifier(table), condition, args...)
	return s
}

// Where adds a WHERE clause, see condition.SetWhere.
func (s *SelectBase) Where(condition string, args ...interface{}) Select {
	s.cond().SetWhere(condition, args...)
	return s
}

func (s *SelectBase) Group(group ...string) Select {
	s.cond().SetGroup(group...)
	return s
}

// Having adds a HAVING clause.
func (s *SelectBase) Having(condition string, args ...interface{}) Select {
	s.cond().SetHaving(condition, args...)
	return s
}

// Order replaces the ORDER BY columns. A - prefix sorts descending.
func (s *SelectBase) Order(order ...string) Select {
	s.cond().SetOrder(order...)
	return s
}

func (s *SelectBase) Limit(limit int) Select {
	s.cond().SetLimit(limit)
	return s
}

func (s *SelectBase) Offset(offset int) Select {
	s.cond().SetOffset(offset)
	return s
}

// cond returns the condition and creates it on first use.
func (s *SelectBase) cond() condition.Condition {
	if s.SCondition == nil {
		s.SCondition = condition.New()
	}
	return s.SCondition
}

// renderCondition renders the condition with the ? placeholder.
func renderCondition(c condition.Condition) (string, []interface{}, error) {
	if c == nil {
		return "", nil, nil
	}
	return c.Render(condition.Placeholder{Char: condition.PLACEHOLDER})
}

// whereOnly returns a copy of the condition with only the WHERE clauses.
func whereOnly(c condition.Condition) condition.Condition {
	if c == nil {
		return nil
	}
	c = c.Copy()
	c.Reset(condition.HAVING, condition.LIMIT, condition.ORDER, condition.OFFSET, condition.GROUP, condition.JOIN)
	return c
}

// columnsOf returns the sorted keys of the values.
func columnsOf(values map[string]interface{}) []string {
	columns := make([]string, 0, len(values))
	for c := range values {
		columns = append(columns, c)
	}
	sort.Strings(columns)
	return columns
}
