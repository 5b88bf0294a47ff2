// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package stringer provides the naming helpers used to derive database identifiers.
package stringer

import (
	"strings"

	"github.com/jinzhu/inflection"
	"github.com/serenize/snaker"
)

// CamelToSnake of the given string.
func CamelToSnake(s string) string {
	return snaker.CamelToSnake(s)
}

// SnakeToCamel of the given string.
func SnakeToCamel(s string) string {
	return snaker.SnakeToCamel(s)
}

// Plural of the given string.
func Plural(s string) string {
	return inflection.Plural(s)
}

// Singular of the given string.
func Singular(s string) string {
	return inflection.Singular(s)
}

// TableName converts a go type name into a pluralized snake case table name.
//
//	TableName("OrderItem") // order_items
func TableName(typeName string) string {
	return Plural(CamelToSnake(typeName))
}

// Identifier joins the parts in snake case by an underscore.
// Dots and spaces are replaced, empty parts are skipped.
//
//	Identifier("users", "firstName", "last name") // users_first_name_last_name
func Identifier(parts ...string) string {
	var rv []string
	for _, p := range parts {
		p = strings.NewReplacer(".", "_", " ", "_", "-", "_").Replace(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		rv = append(rv, strings.ToLower(CamelToSnake(p)))
	}
	return strings.Join(rv, "_")
}
