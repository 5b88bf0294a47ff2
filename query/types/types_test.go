// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package types_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/patrickascher/queryinterface/query/types"
	"github.com/stretchr/testify/assert"
)

// TestParse tests the type sanitizing over different dialect types.
func TestParse(t *testing.T) {
	asserts := assert.New(t)

	var tests = []struct {
		raw    string
		length int
		kind   string
		size   int
	}{
		{raw: "tinyint(1)", kind: types.BOOL},
		{raw: "boolean", kind: types.BOOL},
		{raw: "int(11) unsigned", kind: types.INTEGER},
		{raw: "INTEGER", kind: types.INTEGER},
		{raw: "bigint", kind: types.INTEGER},
		{raw: "decimal(10,2)", kind: types.FLOAT},
		{raw: "double precision", kind: types.FLOAT},
		{raw: "varchar(255)", kind: types.TEXT, size: 255},
		{raw: "character varying", length: 100, kind: types.TEXT, size: 100},
		{raw: "mediumtext", kind: types.TEXTAREA, size: 16777215},
		{raw: "text", kind: types.TEXTAREA, size: 65535},
		{raw: "time", kind: types.TIME},
		{raw: "timestamp with time zone", kind: types.DATETIME},
		{raw: "DATETIME", kind: types.DATETIME},
		{raw: "date", kind: types.DATE},
		{raw: "uuid", kind: types.UUID},
		{raw: "jsonb", kind: types.JSON},
		{raw: "bytea", kind: types.BINARY},
		{raw: "interval", kind: types.TEXT},
	}

	for _, test := range tests {
		typ := types.Parse(test.raw, test.length)
		asserts.Equal(test.kind, typ.Kind(), test.raw)
		asserts.Equal(test.raw, typ.Raw())
		asserts.Equal(test.size, typ.Size, test.raw)
	}

	// integer ranges
	typ := types.Parse("int(10) unsigned", 0)
	asserts.Equal(int64(0), typ.Min)
	asserts.Equal(uint64(4294967295), typ.Max)
	typ = types.Parse("smallint", 0)
	asserts.Equal(int64(-32768), typ.Min)

	// enum and set values
	typ = types.Parse("enum('active','deleted')", 0)
	asserts.Equal(types.SELECT, typ.Kind())
	asserts.Equal([]string{"active", "deleted"}, typ.Items())
	typ = types.Parse("set('a','b')", 0)
	asserts.Equal(types.MULTISELECT, typ.Kind())
	asserts.Equal([]string{"a", "b"}, typ.Values)
}

// TestDataType tests the constructors and modifiers.
func TestDataType(t *testing.T) {
	asserts := assert.New(t)

	asserts.Equal(types.DataType{Key: types.KeyString, Length: 255}, types.String())
	asserts.Equal(100, types.String(100).Length)
	asserts.True(types.Integer().AsUnsigned().AsZerofill().Unsigned)
	asserts.False(types.Integer().Unsigned)
	asserts.Equal(types.DataType{Key: types.KeyDecimal, Precision: 10, Scale: 2}, types.Decimal(10, 2))
	asserts.Equal([]string{"a", "b"}, types.Enum("a", "b").Values)
	asserts.True(types.DataType{}.IsZero())
}

// TestDefaultFn tests the client side defaults.
func TestDefaultFn(t *testing.T) {
	asserts := assert.New(t)

	_, err := uuid.Parse(types.UUIDV4.Value().(string))
	asserts.NoError(err)
	asserts.IsType(time.Time{}, types.NOW.Value())
	asserts.Nil(types.DefaultFn("unknown").Value())
}
