// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package types provides the dialect neutral data types.
//
// DataType is used to define columns (CREATE TABLE, ADD COLUMN, ...). Each dialect renders it to its own sql type.
// Type is the other direction: a described database column is sanitized to one of the kinds below.
package types

import (
	"regexp"
	"strconv"
	"strings"
)

// sanitized kinds over multiple databases.
const (
	BOOL        = "Bool"
	INTEGER     = "Integer"
	FLOAT       = "Float"
	TEXT        = "Text"
	TEXTAREA    = "TextArea"
	TIME        = "Time"
	DATE        = "Date"
	DATETIME    = "DateTime"
	SELECT      = "Select"
	MULTISELECT = "MultiSelect"
	BINARY      = "Binary"
	JSON        = "Json"
	UUID        = "Uuid"
)

// Interface of the types to access the sanitized kind and the raw sql data.
type Interface interface {
	Kind() string
	Raw() string
}

// Items is implemented by types with a fixed value set.
type Items interface {
	Items() []string
}

// Type is a described database column type.
// Size is set for text types, Min and Max for integers and Values for enums and sets.
type Type struct {
	kind string
	raw  string

	Size   int
	Min    int64
	Max    uint64
	Values []string
}

// Kind returns the sanitized kind.
func (t *Type) Kind() string {
	return t.kind
}

// Raw returns the database type.
func (t *Type) Raw() string {
	return t.raw
}

// Items returns the enum or set values.
func (t *Type) Items() []string {
	return t.Values
}

// New returns a *Type with the given kind and raw type.
func New(kind string, raw string) *Type {
	return &Type{kind: kind, raw: raw}
}

// integer ranges by prefix.
var integers = []struct {
	prefix      string
	min         int64
	max         uint64
	unsignedMax uint64
}{
	{"bigint", -9223372036854775808, 9223372036854775807, 18446744073709551615},
	{"mediumint", -8388608, 8388607, 16777215},
	{"smallint", -32768, 32767, 65535},
	{"tinyint", -128, 127, 255},
	{"int", -2147483648, 2147483647, 4294967295},
	{"serial", 1, 2147483647, 2147483647},
	{"bigserial", 1, 9223372036854775807, 9223372036854775807},
}

// textareas and their sizes.
var textareas = []struct {
	prefix string
	size   int
}{
	{"tinytext", 255},
	{"mediumtext", 16777215},
	{"longtext", 4294967295},
	{"text", 65535},
}

var lengthRegex = regexp.MustCompile(`\((\d+)\)`)

// Parse converts a raw database type of mysql, postgres or sqlite into a sanitized Type.
// The length is used for text types if the raw type does not define one.
// Unknown types return a TEXT kind.
func Parse(raw string, length int) *Type {
	r := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(r, "tinyint(1)"), strings.HasPrefix(r, "enum(0,1)"), strings.HasPrefix(r, "bool"):
		return New(BOOL, raw)
	case r == "uuid":
		return New(UUID, raw)
	case strings.HasPrefix(r, "json"):
		return New(JSON, raw)
	case strings.HasPrefix(r, "blob"), strings.HasPrefix(r, "bytea"), strings.HasPrefix(r, "binary"), strings.HasPrefix(r, "varbinary"), strings.HasSuffix(r, "blob"):
		return New(BINARY, raw)
	case strings.HasPrefix(r, "enum("):
		return values(New(SELECT, raw), raw[5:len(raw)-1])
	case strings.HasPrefix(r, "set("):
		return values(New(MULTISELECT, raw), raw[4:len(raw)-1])
	case strings.HasPrefix(r, "time"):
		if strings.HasPrefix(r, "timestamp") {
			return New(DATETIME, raw)
		}
		return New(TIME, raw)
	case r == "date":
		return New(DATE, raw)
	case strings.HasPrefix(r, "datetime"):
		return New(DATETIME, raw)
	case strings.HasPrefix(r, "decimal"), strings.HasPrefix(r, "numeric"), strings.HasPrefix(r, "float"),
		strings.HasPrefix(r, "double"), strings.HasPrefix(r, "real"):
		return New(FLOAT, raw)
	}

	for _, i := range integers {
		if strings.HasPrefix(r, i.prefix) && !strings.HasPrefix(r, "interval") {
			t := New(INTEGER, raw)
			t.Min, t.Max = i.min, i.max
			if strings.HasSuffix(r, "unsigned") {
				t.Min, t.Max = 0, i.unsignedMax
			}
			return t
		}
	}

	for _, ta := range textareas {
		if strings.HasPrefix(r, ta.prefix) {
			t := New(TEXTAREA, raw)
			t.Size = ta.size
			return t
		}
	}

	t := New(TEXT, raw)
	t.Size = length
	if m := lengthRegex.FindStringSubmatch(r); len(m) == 2 {
		t.Size, _ = strconv.Atoi(m[1])
	}
	return t
}

// values adds the comma separated and quoted enum values.
func values(t *Type, list string) *Type {
	for _, v := range strings.Split(list, ",") {
		t.Values = append(t.Values, strings.Trim(strings.TrimSpace(v), "'"))
	}
	return t
}
