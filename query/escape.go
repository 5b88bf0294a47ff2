// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/query/types"
)

// TimeFormat is used to escape time values.
const TimeFormat = "2006-01-02 15:04:05.000"

// QuoteIdentifier quotes the string with the providers quote character.
// If query.DbExpr was used, the string will not be quoted.
// "go.users AS u" will be converted to `go`.`users` AS `u`
func (g *GeneratorBase) QuoteIdentifier(name string) string {
	// don't escape query.DbExpr()
	if isDbExpr(name) {
		return name[1:]
	}

	q := g.Provider.QuoteChar()
	name = strings.Replace(name, q, "", -1)

	// check if an alias was used
	alias := strings.Fields(name)
	if len(alias) == 0 {
		return q + q
	}
	rv := g.Provider.QuoteIdentifiers(alias[0])
	if len(alias) >= 2 {
		rv += " AS " + q + alias[len(alias)-1] + q
	}
	return rv
}

// QuoteIdentifiers quotes every part of a dotted name.
// A * is never quoted.
func (g *GeneratorBase) QuoteIdentifiers(name string) string {
	q := g.Provider.QuoteChar()
	parts := strings.Split(strings.Replace(name, q, "", -1), ".")
	for i, p := range parts {
		if p == "*" {
			continue
		}
		parts[i] = q + p + q
	}
	return strings.Join(parts, ".")
}

// QuoteTable quotes the table with its schema and alias.
func (g *GeneratorBase) QuoteTable(table TableName) string {
	q := g.Provider.QuoteChar()
	name := g.Provider.QuoteIdentifiers(table.TableName)
	if table.Schema != "" {
		if table.Delimiter != "" && table.Delimiter != "." {
			name = g.Provider.QuoteIdentifiers(table.Schema + table.Delimiter + table.TableName)
		} else {
			name = g.Provider.QuoteIdentifiers(table.Schema) + "." + name
		}
	}
	if table.As != "" {
		name += " AS " + q + strings.Replace(table.As, q, "", -1) + q
	}
	return name
}

// Escape a value to be used inline in a statement.
// Strings are quoted, nil is NULL, slices are comma separated and types.Literal is returned as it is.
func (g *GeneratorBase) Escape(value interface{}) string {
	return EscapeValue(value, EscapeANSI, g.Provider.Escape)
}

// EscapeANSI quotes a string the ANSI way.
func EscapeANSI(s string) string {
	return "'" + strings.Replace(s, "'", "''", -1) + "'"
}

// EscapeBackslash quotes a string and escapes special characters with a backslash.
func EscapeBackslash(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\x1a':
			b.WriteString(`\Z`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// EscapeValue converts the value to its sql representation with the given string quote function.
// nested is used for slice elements, so dialect overrides are respected.
func EscapeValue(value interface{}, str func(string) string, nested func(interface{}) string) string {
	switch v := value.(type) {
	case nil:
		return "NULL"
	case types.Literal:
		return string(v)
	case types.DefaultFn:
		return nested(v.Value())
	case string:
		return str(v)
	case []byte:
		return "X'" + hex.EncodeToString(v) + "'"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case time.Time:
		return str(v.UTC().Format(TimeFormat))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return "NULL"
		}
		return nested(dv)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return "NULL"
		}
		return nested(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		parts := make([]string, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts[i] = nested(rv.Index(i).Interface())
		}
		return strings.Join(parts, ", ")
	}
	return str(fmt.Sprint(value))
}

// parameter kinds of a statement.
const (
	paramQuestion = iota + 1
	paramColon
	paramDollarNumber
	paramDollarName
)

// scanParameters calls fn for every parameter outside of quotes and comments.
// The parameter is replaced by the returned string.
func scanParameters(stmt string, fn func(kind int, name string) (string, error)) (string, error) {
	var b strings.Builder
	n := len(stmt)
	for i := 0; i < n; i++ {
		c := stmt[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := condition.QuoteEnd(stmt, i)
			b.WriteString(stmt[i:end])
			i = end - 1
		case c == '-' && i+1 < n && stmt[i+1] == '-':
			end := strings.IndexByte(stmt[i:], '\n')
			if end == -1 {
				end = n - i
			}
			b.WriteString(stmt[i : i+end])
			i += end - 1
		case c == '/' && i+1 < n && stmt[i+1] == '*':
			end := strings.Index(stmt[i+2:], "*/")
			if end == -1 {
				b.WriteString(stmt[i:])
				i = n
				continue
			}
			b.WriteString(stmt[i : i+end+4])
			i += end + 3
		case c == '?':
			r, err := fn(paramQuestion, "")
			if err != nil {
				return "", err
			}
			b.WriteString(r)
		case c == ':' && i+1 < n && stmt[i+1] == ':':
			// postgres cast
			b.WriteString("::")
			i++
		case c == ':' && i+1 < n && isNameStart(stmt[i+1]) && (i == 0 || stmt[i-1] != ':'):
			end := nameEnd(stmt, i+1)
			r, err := fn(paramColon, stmt[i+1:end])
			if err != nil {
				return "", err
			}
			b.WriteString(r)
			i = end - 1
		case c == '$' && i+1 < n && stmt[i+1] >= '0' && stmt[i+1] <= '9':
			end := i + 1
			for end < n && stmt[end] >= '0' && stmt[end] <= '9' {
				end++
			}
			r, err := fn(paramDollarNumber, stmt[i+1:end])
			if err != nil {
				return "", err
			}
			b.WriteString(r)
			i = end - 1
		case c == '$':
			// dollar quoted string $tag$ ... $tag$
			end := nameEnd(stmt, i+1)
			if end < n && stmt[end] == '$' {
				tag := stmt[i : end+1]
				closing := strings.Index(stmt[end+1:], tag)
				if closing == -1 {
					b.WriteString(stmt[i:])
					i = n
					continue
				}
				stop := end + 1 + closing + len(tag)
				b.WriteString(stmt[i:stop])
				i = stop - 1
				continue
			}
			if end > i+1 {
				r, err := fn(paramDollarName, stmt[i+1:end])
				if err != nil {
					return "", err
				}
				b.WriteString(r)
				i = end - 1
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func nameEnd(stmt string, i int) int {
	for i < len(stmt) && (isNameStart(stmt[i]) || (stmt[i] >= '0' && stmt[i] <= '9')) {
		i++
	}
	return i
}

// FormatReplacements inlines the escaped replacements.
// A map replaces :name, a slice replaces ? in order.
func FormatReplacements(stmt string, replacements interface{}, escape func(interface{}) string) (string, error) {
	switch r := replacements.(type) {
	case nil:
		return stmt, nil
	case map[string]interface{}:
		return scanParameters(stmt, func(kind int, name string) (string, error) {
			switch kind {
			case paramColon:
				v, ok := r[name]
				if !ok {
					return "", fmt.Errorf(ErrReplacement, name)
				}
				return escape(v), nil
			case paramQuestion:
				return "?", nil
			case paramDollarNumber:
				return "$" + name, nil
			}
			return "$" + name, nil
		})
	case []interface{}:
		i := 0
		rv, err := scanParameters(stmt, func(kind int, name string) (string, error) {
			switch kind {
			case paramQuestion:
				if i >= len(r) {
					return "", fmt.Errorf(ErrPlaceholderCount, i+1, len(r))
				}
				i++
				return escape(r[i-1]), nil
			case paramColon:
				return ":" + name, nil
			}
			return "$" + name, nil
		})
		if err == nil && i != len(r) {
			err = fmt.Errorf(ErrPlaceholderCount, i, len(r))
		}
		return rv, err
	}
	return "", ErrReplacementType
}

// FormatBind converts the bind parameters to the dialect placeholder and returns the driver arguments.
// A map binds $name, a slice binds $1, $2 ...
func FormatBind(stmt string, bind interface{}, p condition.Placeholder) (string, []interface{}, error) {
	var args []interface{}
	switch b := bind.(type) {
	case nil:
		return stmt, nil, nil
	case map[string]interface{}:
		positions := map[string]int{}
		rv, err := scanParameters(stmt, func(kind int, name string) (string, error) {
			switch kind {
			case paramDollarName:
				v, ok := b[name]
				if !ok {
					return "", fmt.Errorf(ErrReplacement, name)
				}
				if p.Numeric {
					if pos, ok := positions[name]; ok {
						return p.Char + strconv.Itoa(pos), nil
					}
					args = append(args, v)
					positions[name] = len(args)
					return p.Char + strconv.Itoa(len(args)), nil
				}
				args = append(args, v)
				return p.Char, nil
			case paramColon:
				return ":" + name, nil
			case paramQuestion:
				return "?", nil
			}
			return "$" + name, nil
		})
		return rv, args, err
	case []interface{}:
		if p.Numeric {
			return stmt, b, nil
		}
		rv, err := scanParameters(stmt, func(kind int, name string) (string, error) {
			switch kind {
			case paramDollarNumber:
				pos, _ := strconv.Atoi(name)
				if pos < 1 || pos > len(b) {
					return "", fmt.Errorf(ErrPlaceholderCount, pos, len(b))
				}
				args = append(args, b[pos-1])
				return p.Char, nil
			case paramColon:
				return ":" + name, nil
			case paramQuestion:
				return "?", nil
			}
			return "$" + name, nil
		})
		return rv, args, err
	}
	return "", nil, ErrReplacementType
}
