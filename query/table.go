// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import "strings"

// TableName identifies a table, optionally qualified by a schema and an alias.
// Delimiter is used by dialects without schemas (sqlite), where the schema becomes a table prefix.
type TableName struct {
	Schema    string
	Delimiter string
	TableName string
	As        string
}

// Table parses "schema.table" or "schema.table alias".
func Table(name string) TableName {
	return ParseTableName(name)
}

// ParseTableName parses "schema.table", "table alias" and "table AS alias".
func ParseTableName(name string) TableName {
	t := TableName{}
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return t
	}
	if len(parts) > 1 {
		t.As = parts[len(parts)-1]
	}
	if i := strings.LastIndex(parts[0], "."); i > 0 {
		t.Schema = parts[0][:i]
		t.TableName = parts[0][i+1:]
		return t
	}
	t.TableName = parts[0]
	return t
}

// String returns the unquoted name.
func (t TableName) String() string {
	name := t.TableName
	if t.Schema != "" {
		name = t.Schema + t.delimiter() + name
	}
	return name
}

// delimiter between schema and table.
func (t TableName) delimiter() string {
	if t.Delimiter != "" {
		return t.Delimiter
	}
	return "."
}

// IsZero reports if no table name is set.
func (t TableName) IsZero() bool {
	return t.TableName == ""
}
