// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/query/types"
	"github.com/stretchr/testify/assert"
	"gopkg.in/guregu/null.v4"
)

// TestGeneratorBase_Quote tests the identifier and table quoting.
func TestGeneratorBase_Quote(t *testing.T) {
	asserts := assert.New(t)
	g := newAnsi(Features{})

	asserts.Equal(`"users"`, g.QuoteIdentifier("users"))
	asserts.Equal(`"u"."name"`, g.QuoteIdentifier("u.name"))
	asserts.Equal(`"users" AS "u"`, g.QuoteIdentifier("users u"))
	asserts.Equal(`"users" AS "u"`, g.QuoteIdentifier("users AS u"))
	asserts.Equal(`"users"`, g.QuoteIdentifier(`us"ers`))
	asserts.Equal(`"u".*`, g.QuoteIdentifiers("u.*"))
	asserts.Equal("COUNT(*)", g.QuoteIdentifier(DbExpr("COUNT(*)")))

	asserts.Equal(`"public"."users"`, g.QuoteTable(Table("public.users")))
	asserts.Equal(`"users" AS "u"`, g.QuoteTable(Table("users u")))
	asserts.Equal(`"public_users"`, g.QuoteTable(TableName{Schema: "public", Delimiter: "_", TableName: "users"}))
}

// TestGeneratorBase_Escape tests the value escaping.
func TestGeneratorBase_Escape(t *testing.T) {
	asserts := assert.New(t)
	g := newAnsi(Features{})
	now := time.Date(2021, 1, 2, 3, 4, 5, 6000000, time.UTC)
	i := 5

	var tests = []struct {
		value interface{}
		sql   string
	}{
		{nil, "NULL"},
		{"it's", "'it''s'"},
		{"!NOW()", "'!NOW()'"},
		{types.Literal("NOW()"), "NOW()"},
		{[]byte("ab"), "X'6162'"},
		{true, "true"},
		{false, "false"},
		{now, "'2021-01-02 03:04:05.006'"},
		{int64(-3), "-3"},
		{uint8(3), "3"},
		{1.5, "1.5"},
		{float32(2.25), "2.25"},
		{&i, "5"},
		{(*int)(nil), "NULL"},
		{[]interface{}{1, "a"}, "1, 'a'"},
		{null.StringFrom("x"), "'x'"},
		{null.String{}, "NULL"},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.value), func(t *testing.T) {
			asserts.Equal(test.sql, g.Escape(test.value))
		})
	}

	asserts.Equal(`'a\'b\\c\n'`, EscapeBackslash("a'b\\c\n"))
}

// TestFormatReplacements tests:
// - named and positional replacements.
// - quotes, comments and casts are skipped.
// - missing names and count mismatch.
func TestFormatReplacements(t *testing.T) {
	asserts := assert.New(t)
	g := newAnsi(Features{})

	stmt, err := FormatReplacements("SELECT * FROM t WHERE a = :a AND b = ':a' AND c::text = :c -- :x", map[string]interface{}{"a": 1, "c": "x"}, g.Escape)
	asserts.NoError(err)
	asserts.Equal("SELECT * FROM t WHERE a = 1 AND b = ':a' AND c::text = 'x' -- :x", stmt)

	stmt, err = FormatReplacements("SELECT * FROM t WHERE a = ? AND b IN (?) /* ? */", []interface{}{"x", []int{1, 2}}, g.Escape)
	asserts.NoError(err)
	asserts.Equal("SELECT * FROM t WHERE a = 'x' AND b IN (1, 2) /* ? */", stmt)

	// error: missing name
	_, err = FormatReplacements("SELECT :a", map[string]interface{}{}, g.Escape)
	asserts.Equal(fmt.Sprintf(ErrReplacement, "a"), err.Error())

	// error: count mismatch
	_, err = FormatReplacements("SELECT ?", []interface{}{1, 2}, g.Escape)
	asserts.Equal(fmt.Sprintf(ErrPlaceholderCount, 1, 2), err.Error())

	// error: type
	_, err = FormatReplacements("SELECT ?", 1, g.Escape)
	asserts.Equal(ErrReplacementType, err)
}

// TestFormatBind tests the bind parameters with a ? and a numeric placeholder.
func TestFormatBind(t *testing.T) {
	asserts := assert.New(t)
	numeric := condition.Placeholder{Char: "$", Numeric: true}
	question := condition.Placeholder{Char: "?"}

	stmt, args, err := FormatBind("SELECT $a, $b, $a, '$c'", map[string]interface{}{"a": 1, "b": 2}, numeric)
	asserts.NoError(err)
	asserts.Equal("SELECT $1, $2, $1, '$c'", stmt)
	asserts.Equal([]interface{}{1, 2}, args)

	stmt, args, err = FormatBind("SELECT $a, $b, $a", map[string]interface{}{"a": 1, "b": 2}, question)
	asserts.NoError(err)
	asserts.Equal("SELECT ?, ?, ?", stmt)
	asserts.Equal([]interface{}{1, 2, 1}, args)

	stmt, args, err = FormatBind("SELECT $2, $1", []interface{}{1, 2}, question)
	asserts.NoError(err)
	asserts.Equal("SELECT ?, ?", stmt)
	asserts.Equal([]interface{}{2, 1}, args)

	stmt, args, err = FormatBind("SELECT $1 WHERE x = $$a$$", []interface{}{1}, numeric)
	asserts.NoError(err)
	asserts.Equal("SELECT $1 WHERE x = $$a$$", stmt)
	asserts.Equal([]interface{}{1}, args)

	// error: position
	_, _, err = FormatBind("SELECT $3", []interface{}{1}, question)
	asserts.Error(err)

	// error: mismatch with replacements
	_, err = newAnsi(Features{}).Query(bg, "SELECT 1", QueryOptions{Bind: []interface{}{1}, Replacements: []interface{}{1}})
	asserts.Equal(ErrBindMismatch, err)
}
