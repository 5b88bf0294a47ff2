// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package types

import (
	"time"

	"github.com/google/uuid"
)

// DataType keys.
const (
	KeyString   = "STRING"
	KeyChar     = "CHAR"
	KeyText     = "TEXT"
	KeyInteger  = "INTEGER"
	KeyBigInt   = "BIGINT"
	KeySmallInt = "SMALLINT"
	KeyFloat    = "FLOAT"
	KeyDouble   = "DOUBLE"
	KeyDecimal  = "DECIMAL"
	KeyBoolean  = "BOOLEAN"
	KeyDate     = "DATE"
	KeyDateOnly = "DATEONLY"
	KeyTime     = "TIME"
	KeyUUID     = "UUID"
	KeyJSON     = "JSON"
	KeyJSONB    = "JSONB"
	KeyBlob     = "BLOB"
	KeyEnum     = "ENUM"
	KeyRaw      = "RAW"
)

// DataType is a dialect neutral column type.
// The zero value is not a valid type.
type DataType struct {
	Key       string
	Length    int
	Precision int
	Scale     int
	Values    []string
	Unsigned  bool
	Zerofill  bool
	Binary    bool
	Raw       string
}

// IsZero reports if no type was set.
func (d DataType) IsZero() bool {
	return d.Key == ""
}

// AsUnsigned marks a numeric type as unsigned (mysql).
func (d DataType) AsUnsigned() DataType {
	d.Unsigned = true
	return d
}

// AsZerofill marks a numeric type as zerofill (mysql).
func (d DataType) AsZerofill() DataType {
	d.Zerofill = true
	return d
}

// AsBinary marks a string type as binary.
func (d DataType) AsBinary() DataType {
	d.Binary = true
	return d
}

// String type, the default length is 255.
func String(length ...int) DataType {
	return DataType{Key: KeyString, Length: optional(length, 255)}
}

// Char type, the default length is 255.
func Char(length ...int) DataType {
	return DataType{Key: KeyChar, Length: optional(length, 255)}
}

// Text type.
func Text() DataType {
	return DataType{Key: KeyText}
}

// Integer type.
func Integer() DataType {
	return DataType{Key: KeyInteger}
}

// BigInt type.
func BigInt() DataType {
	return DataType{Key: KeyBigInt}
}

// SmallInt type.
func SmallInt() DataType {
	return DataType{Key: KeySmallInt}
}

// Float type.
func Float() DataType {
	return DataType{Key: KeyFloat}
}

// Double type.
func Double() DataType {
	return DataType{Key: KeyDouble}
}

// Decimal type with precision and scale.
func Decimal(precision, scale int) DataType {
	return DataType{Key: KeyDecimal, Precision: precision, Scale: scale}
}

// Boolean type.
func Boolean() DataType {
	return DataType{Key: KeyBoolean}
}

// Date is a date with time.
func Date() DataType {
	return DataType{Key: KeyDate}
}

// DateOnly is a date without time.
func DateOnly() DataType {
	return DataType{Key: KeyDateOnly}
}

// Time type.
func Time() DataType {
	return DataType{Key: KeyTime}
}

// UUIDType is an uuid column.
func UUIDType() DataType {
	return DataType{Key: KeyUUID}
}

// JSONType is a json column.
func JSONType() DataType {
	return DataType{Key: KeyJSON}
}

// JSONB is a binary json column. Dialects without jsonb use json.
func JSONB() DataType {
	return DataType{Key: KeyJSONB}
}

// Blob type.
func Blob() DataType {
	return DataType{Key: KeyBlob}
}

// Enum type with the allowed values.
func Enum(values ...string) DataType {
	return DataType{Key: KeyEnum, Values: values}
}

// RawType is rendered as it is.
func RawType(raw string) DataType {
	return DataType{Key: KeyRaw, Raw: raw}
}

// optional returns the first value or the default.
func optional(v []int, def int) int {
	if len(v) > 0 && v[0] > 0 {
		return v[0]
	}
	return def
}

// DefaultFn is a default value which is resolved on the client side at insert time.
type DefaultFn string

// Client side defaults.
const (
	UUIDV4 DefaultFn = "UUIDV4"
	NOW    DefaultFn = "NOW"
)

// Value resolves the default.
func (d DefaultFn) Value() interface{} {
	switch d {
	case UUIDV4:
		return uuid.NewString()
	case NOW:
		return time.Now()
	}
	return nil
}

// Literal is a default value which is rendered without escaping.
//
//	Literal("CURRENT_TIMESTAMP")
type Literal string
