// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package condition provides a sql condition builder.
// Clauses are written with the ? placeholder, which is replaced by the dialect placeholder on Render.
// The first error of a builder call is kept and returned by Error and Render.
package condition

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Error messages.
var (
	ErrValue               = "query: %s was called with no value(s)"
	ErrCrossJoin           = errors.New("query: cross joins are not allowed to have a join condition")
	ErrJoinType            = "query: join type %d is not allowed"
	ErrJoinTable           = errors.New("query: join table is mandatory")
	ErrPlaceholderMismatch = "query: %v placeholder(%d) and arguments(%d) does not fit"
)

// Clause is a rendered WHERE, HAVING or JOIN part with its arguments.
type Clause interface {
	Arguments() []interface{}
	Condition() string
}

// Condition interface.
type Condition interface {
	SetWhere(condition string, args ...interface{}) Condition
	SetWhereOp(column string, op string, value interface{}) Condition
	Where() []Clause
	SetJoin(joinType int, table string, condition string, args ...interface{}) Condition
	Join() []Clause
	SetHaving(condition string, args ...interface{}) Condition
	Having() []Clause
	SetLimit(limit int) Condition
	Limit() int
	SetOffset(offset int) Condition
	Offset() int
	SetGroup(group ...string) Condition
	Group() []string
	SetOrder(order ...string) Condition
	Order() []string

	Copy() Condition
	Merge(Condition)
	Reset(...int)
	Error() error
	Render(b Placeholder) (string, []interface{}, error)
}

// Condition parts, used by Reset.
const (
	WHERE = iota + 1
	HAVING
	LIMIT
	ORDER
	OFFSET
	GROUP
	JOIN
)

// Allowed join types.
const (
	LEFT = iota + 1
	RIGHT
	INNER
	CROSS
)

// joinKeywords by join type.
var joinKeywords = map[int]string{
	LEFT:  "LEFT JOIN",
	RIGHT: "RIGHT JOIN",
	INNER: "INNER JOIN",
	CROSS: "CROSS JOIN",
}

type clause struct {
	condition string
	arguments []interface{}
}

// Condition returns the sql of the clause.
func (c *clause) Condition() string {
	return c.condition
}

// Arguments of the clause.
func (c *clause) Arguments() []interface{} {
	return c.arguments
}

type condition struct {
	where  []Clause
	having []Clause
	join   []Clause
	group  []string
	order  []string
	limit  int
	offset int
	err    error
}

// New creates a new Condition instance.
func New() Condition {
	return &condition{}
}

// setErr keeps the first error.
func (c *condition) setErr(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Merge b into the condition.
// WHERE, HAVING and JOIN clauses are appended. GROUP, ORDER, LIMIT and OFFSET of b replace the existing ones, if set.
func (c *condition) Merge(b Condition) {
	if b == nil {
		return
	}
	c.where = append(c.where, b.Where()...)
	c.having = append(c.having, b.Having()...)
	c.join = append(c.join, b.Join()...)

	if group := b.Group(); len(group) > 0 {
		c.group = append([]string(nil), group...)
	}
	if order := b.Order(); len(order) > 0 {
		c.order = append([]string(nil), order...)
	}
	if limit := b.Limit(); limit != 0 {
		c.limit = limit
	}
	if offset := b.Offset(); offset != 0 {
		c.offset = offset
	}
	if err := b.Error(); err != nil {
		c.setErr(err)
	}
}

// Copy returns an independent condition with the same clauses.
func (c *condition) Copy() Condition {
	return &condition{
		where:  cloneClauses(c.where),
		having: cloneClauses(c.having),
		join:   cloneClauses(c.join),
		group:  cloneStrings(c.group),
		order:  cloneStrings(c.order),
		limit:  c.limit,
		offset: c.offset,
		err:    c.err,
	}
}

func cloneClauses(c []Clause) []Clause {
	if c == nil {
		return nil
	}
	return append(make([]Clause, 0, len(c)), c...)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// Error returns the first error of the builder calls.
func (c *condition) Error() error {
	return c.err
}

// SetWhere adds a WHERE clause. Multiple clauses are chained by AND.
// A slice or array argument is expanded to one placeholder per element.
//
//	c.SetWhere("id = ?", 1)
//	c.SetWhere("id IN (?)", []int{10, 11, 12})
func (c *condition) SetWhere(condition string, args ...interface{}) Condition {
	if cl, ok := c.newClause(condition, args); ok {
		c.where = append(c.where, cl)
	}
	return c
}

// SetWhereOp adds a WHERE clause of a column, one of the allowed operators and the value.
// The value is ignored for NULL and NOTNULL.
//
//	c.SetWhereOp("id", condition.IN, []int{1, 2})
func (c *condition) SetWhereOp(column string, op string, value interface{}) Condition {
	stmt, args, err := whereOp(column, op, value)
	if err != nil {
		c.setErr(err)
		return c
	}
	return c.SetWhere(stmt, args...)
}

// Where returns the WHERE clauses.
func (c *condition) Where() []Clause {
	return c.where
}

// SetJoin adds a LEFT, RIGHT, INNER or CROSS join.
// The table is used as it is, so it must be quoted by the caller.
// A CROSS join must not have a condition.
func (c *condition) SetJoin(joinType int, table string, condition string, args ...interface{}) Condition {
	keyword, ok := joinKeywords[joinType]
	if !ok {
		c.setErr(fmt.Errorf(ErrJoinType, joinType))
		return c
	}
	if table == "" {
		c.setErr(ErrJoinTable)
		return c
	}

	condition = strings.TrimSpace(condition)
	if joinType == CROSS {
		if condition != "" || len(args) > 0 {
			c.setErr(ErrCrossJoin)
			return c
		}
		c.join = append(c.join, &clause{condition: keyword + " " + table})
		return c
	}

	if cl, ok := c.newClause(keyword+" "+table+" ON "+condition, args); ok {
		c.join = append(c.join, cl)
	}
	return c
}

// Join returns the JOIN clauses.
func (c *condition) Join() []Clause {
	return c.join
}

// SetHaving adds a HAVING clause. Multiple clauses are chained by AND.
// Slice arguments are expanded like in SetWhere.
func (c *condition) SetHaving(condition string, args ...interface{}) Condition {
	if cl, ok := c.newClause(condition, args); ok {
		c.having = append(c.having, cl)
	}
	return c
}

// Having returns the HAVING clauses.
func (c *condition) Having() []Clause {
	return c.having
}

// SetLimit of the condition. Zero means no limit.
func (c *condition) SetLimit(limit int) Condition {
	c.limit = limit
	return c
}

// Limit of the condition.
func (c *condition) Limit() int {
	return c.limit
}

// SetOffset of the condition.
func (c *condition) SetOffset(offset int) Condition {
	c.offset = offset
	return c
}

// Offset of the condition.
func (c *condition) Offset() int {
	return c.offset
}

// SetGroup replaces the GROUP BY columns.
func (c *condition) SetGroup(group ...string) Condition {
	c.group = nil
	if isEmpty(group) {
		c.setErr(fmt.Errorf(ErrValue, "SetGroup"))
		return c
	}
	c.group = cloneStrings(group)
	return c
}

// Group returns the GROUP BY columns.
func (c *condition) Group() []string {
	return c.group
}

// SetOrder replaces the ORDER BY columns.
// A - prefix sorts descending, otherwise ASC is added if no direction is set.
//
//	c.SetOrder("name", "-id") // ORDER BY name ASC, id DESC
func (c *condition) SetOrder(order ...string) Condition {
	c.order = nil
	if isEmpty(order) {
		c.setErr(fmt.Errorf(ErrValue, "SetOrder"))
		return c
	}
	c.order = make([]string, len(order))
	for i, o := range order {
		c.order[i] = orderTerm(o)
	}
	return c
}

// orderTerm normalizes the sort direction of a column.
func orderTerm(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		return strings.TrimSpace(s[1:]) + " DESC"
	}
	fields := strings.Fields(s)
	if n := len(fields); n > 1 {
		if dir := strings.ToUpper(fields[n-1]); dir == "ASC" || dir == "DESC" {
			return strings.Join(fields[:n-1], " ") + " " + dir
		}
	}
	return s + " ASC"
}

// Order returns the ORDER BY columns.
func (c *condition) Order() []string {
	return c.order
}

// Reset all or the given parts of the condition.
func (c *condition) Reset(parts ...int) {
	if len(parts) == 0 {
		*c = condition{}
		return
	}
	for _, p := range parts {
		switch p {
		case WHERE:
			c.where = nil
		case HAVING:
			c.having = nil
		case JOIN:
			c.join = nil
		case LIMIT:
			c.limit = 0
		case OFFSET:
			c.offset = 0
		case ORDER:
			c.order = nil
		case GROUP:
			c.group = nil
		}
	}
}

// Render the condition as sql string and arguments.
// The parts are rendered in the order JOIN, WHERE, GROUP BY, HAVING, ORDER BY, LIMIT, OFFSET.
func (c *condition) Render(p Placeholder) (string, []interface{}, error) {
	if c.err != nil {
		return "", nil, c.err
	}

	var parts []string
	var args []interface{}
	add := func(prefix string, sep string, clauses []Clause) {
		if len(clauses) == 0 {
			return
		}
		sql := make([]string, len(clauses))
		for i, cl := range clauses {
			sql[i] = cl.Condition()
			args = append(args, cl.Arguments()...)
		}
		parts = append(parts, prefix+strings.Join(sql, sep))
	}

	add("", " ", c.join)
	add("WHERE ", " AND ", c.where)
	if len(c.group) > 0 {
		parts = append(parts, "GROUP BY "+strings.Join(c.group, ", "))
	}
	add("HAVING ", " AND ", c.having)
	if len(c.order) > 0 {
		parts = append(parts, "ORDER BY "+strings.Join(c.order, ", "))
	}
	if c.limit > 0 {
		parts = append(parts, "LIMIT "+strconv.Itoa(c.limit))
	}
	if c.offset > 0 {
		parts = append(parts, "OFFSET "+strconv.Itoa(c.offset))
	}

	return ReplacePlaceholders(strings.Join(parts, " "), p), args, nil
}

// ReplacePlaceholders replaces every ? outside of quoted strings with the dialect placeholder.
func ReplacePlaceholders(stmt string, p Placeholder) string {
	if !p.hasCounter() && p.Char == PLACEHOLDER {
		return stmt
	}
	positions := placeholders(stmt)
	if len(positions) == 0 {
		return stmt
	}

	var b strings.Builder
	last := 0
	for _, pos := range positions {
		b.WriteString(stmt[last:pos])
		b.WriteString(p.placeholder())
		last = pos + 1
	}
	b.WriteString(stmt[last:])
	return b.String()
}

// newClause expands the arguments and records an error.
func (c *condition) newClause(stmt string, args []interface{}) (*clause, bool) {
	stmt, args, err := expand(strings.TrimSpace(stmt), args)
	if err != nil {
		c.setErr(err)
		return nil, false
	}
	return &clause{condition: stmt, arguments: args}, true
}

// expand replaces the placeholder of a slice or array argument with one placeholder per element.
// An empty list is rendered as NULL.
func expand(stmt string, args []interface{}) (string, []interface{}, error) {
	positions := placeholders(stmt)
	if len(positions) != len(args) {
		return "", nil, fmt.Errorf(ErrPlaceholderMismatch, stmt, len(positions), len(args))
	}
	if len(args) == 0 {
		return stmt, nil, nil
	}

	var b strings.Builder
	var rv []interface{}
	last := 0
	for i, pos := range positions {
		b.WriteString(stmt[last:pos])
		last = pos + 1

		if !isList(args[i]) {
			b.WriteString(PLACEHOLDER)
			rv = append(rv, args[i])
			continue
		}
		list := reflect.ValueOf(args[i])
		if list.Len() == 0 {
			b.WriteString("NULL")
			continue
		}
		for n := 0; n < list.Len(); n++ {
			if n > 0 {
				b.WriteString(", ")
			}
			b.WriteString(PLACEHOLDER)
			rv = append(rv, list.Index(n).Interface())
		}
	}
	b.WriteString(stmt[last:])
	return b.String(), rv, nil
}

// placeholders returns the positions of all ? outside of quoted strings and identifiers.
func placeholders(stmt string) []int {
	var rv []int
	for i := 0; i < len(stmt); i++ {
		switch stmt[i] {
		case '\'', '"', '`':
			i = QuoteEnd(stmt, i) - 1
		case '?':
			rv = append(rv, i)
		}
	}
	return rv
}

// QuoteEnd returns the index after the quoted string or identifier which starts at start.
// Doubled quotes are part of the string, backslash escapes are skipped in single quoted strings.
// The length of stmt is returned if the quote is not closed.
func QuoteEnd(stmt string, start int) int {
	q := stmt[start]
	for i := start + 1; i < len(stmt); i++ {
		switch stmt[i] {
		case '\\':
			if q == '\'' {
				i++
			}
		case q:
			if i+1 < len(stmt) && stmt[i+1] == q {
				i++
				continue
			}
			return i + 1
		}
	}
	return len(stmt)
}

func isEmpty(s []string) bool {
	return len(s) == 0 || (len(s) == 1 && s[0] == "")
}
