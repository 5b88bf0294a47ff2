// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"database/sql"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/patrickascher/queryinterface/stringer"
)

// scanRows reads all rows into maps.
// Byte values are converted to strings and numbers, except for binary columns.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	var rv []map[string]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptr := make([]interface{}, len(columns))
		for i := range values {
			ptr[i] = &values[i]
		}
		if err = rows.Scan(ptr...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, c := range columns {
			row[c] = normalize(colTypes[i].DatabaseTypeName(), values[i])
		}
		rv = append(rv, row)
	}
	return rv, rows.Err()
}

// normalize converts driver bytes by the database type.
func normalize(typeName string, v interface{}) interface{} {
	b, ok := v.([]byte)
	if !ok {
		return v
	}

	t := strings.ToUpper(typeName)
	switch {
	case strings.Contains(t, "BLOB") || strings.Contains(t, "BINARY") || t == "BYTEA" || t == "GEOMETRY":
		return b
	case strings.HasSuffix(t, "INT") || t == "INTEGER" || t == "YEAR":
		if i, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(string(b), 10, 64); err == nil {
			return u
		}
	case t == "FLOAT" || t == "DOUBLE" || t == "REAL":
		if f, err := strconv.ParseFloat(string(b), 64); err == nil {
			return f
		}
	}
	return string(b)
}

// shape applies the Plain, Nest and Model options to the result.
func shape(res Result, opts QueryOptions) (Result, error) {
	if opts.Plain && len(res.Rows) > 1 {
		res.Rows = res.Rows[:1]
	}
	if opts.Nest {
		for i, row := range res.Rows {
			res.Rows[i] = nest(row)
		}
	}
	if opts.Model != nil && !opts.Raw {
		if err := Hydrate(res.Rows, opts.Model); err != nil {
			return res, err
		}
	}
	return res, nil
}

// nest converts the keys "a.b" into nested maps.
func nest(row map[string]interface{}) map[string]interface{} {
	rv := make(map[string]interface{}, len(row))
	for k, v := range row {
		parts := strings.Split(k, ".")
		m := rv
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]interface{})
			if !ok {
				child = make(map[string]interface{})
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = v
	}
	return rv
}

// Hydrate decodes the rows into the model.
// The model must be a ptr to a struct, which gets the first row, or a ptr to a slice.
// Struct fields are matched by the "db" tag or the field name.
func Hydrate(rows []map[string]interface{}, model interface{}) error {
	v := reflect.ValueOf(model)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrModel
	}

	var input interface{}
	switch v.Elem().Kind() {
	case reflect.Struct, reflect.Map:
		if len(rows) == 0 {
			return nil
		}
		input = rows[0]
	case reflect.Slice:
		input = rows
	default:
		return ErrModel
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "db",
		WeaklyTypedInput: true,
		Result:           model,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(TimeFormat),
			bytesToString,
		),
	})
	if err != nil {
		return wrapErr(err)
	}
	return wrapErr(dec.Decode(input))
}

// bytesToString decodes []byte into string fields.
func bytesToString(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if b, ok := data.([]byte); ok && to.Kind() == reflect.String {
		return string(b), nil
	}
	if t, ok := data.(time.Time); ok && to.Kind() == reflect.String {
		return t.Format(TimeFormat), nil
	}
	return data, nil
}

// ModelTable returns the pluralized snake case table name of the model type.
//
//	ModelTable(&[]OrderItem{}) // order_items
func ModelTable(model interface{}) TableName {
	t := reflect.TypeOf(model)
	for t != nil && (t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice) {
		t = t.Elem()
	}
	if t == nil {
		return TableName{}
	}
	return TableName{TableName: stringer.TableName(t.Name())}
}
