// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/patrickascher/queryinterface/query/types"
)

// Referential actions.
const (
	CASCADE    = "CASCADE"
	RESTRICT   = "RESTRICT"
	SETNULL    = "SET NULL"
	SETDEFAULT = "SET DEFAULT"
	NOACTION   = "NO ACTION"
)

// Deferrable modes (postgres).
const (
	InitiallyDeferred  = "INITIALLY DEFERRED"
	InitiallyImmediate = "INITIALLY IMMEDIATE"
	NotDeferrable      = "NOT DEFERRABLE"
)

// Attribute is a column definition.
// The order of the attributes is kept on CreateTable.
type Attribute struct {
	Field string `validate:"required"`
	Type  types.DataType
	// AllowNull defaults to true.
	AllowNull *bool
	// DefaultValue is escaped, types.Literal is rendered as it is and types.DefaultFn is resolved on insert.
	DefaultValue  interface{}
	Unique        bool
	UniqueName    string
	PrimaryKey    bool
	AutoIncrement bool
	Comment       string
	References    *References
	OnUpdate      string `validate:"omitempty,oneof=CASCADE RESTRICT 'SET NULL' 'SET DEFAULT' 'NO ACTION'"`
	OnDelete      string `validate:"omitempty,oneof=CASCADE RESTRICT 'SET NULL' 'SET DEFAULT' 'NO ACTION'"`
	// First and After position the column (mysql).
	First bool
	After string
}

// References of a foreign key column.
type References struct {
	Table      TableName
	Key        string
	Deferrable string
}

// Nullable reports if NULL values are allowed.
func (a Attribute) Nullable() bool {
	return a.AllowNull == nil || *a.AllowNull
}

// NotNull is a helper for Attribute.AllowNull.
func NotNull() *bool {
	b := false
	return &b
}

// descriptor validation.
var validate = newValidator()

// newValidator registers the struct level validations of the descriptors.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(constraintValidation, Constraint{})
	v.RegisterStructValidation(indexValidation, IndexOptions{})
	return v
}

// validateAttributes checks all attributes and that at least one exists.
func validateAttributes(attributes []Attribute) error {
	if len(attributes) == 0 {
		return ErrAttributeMissing
	}
	for _, a := range attributes {
		if a.Type.IsZero() {
			return fmt.Errorf(ErrValueMissing, "type", a.Field)
		}
		if err := validate.Struct(a); err != nil {
			return wrapErr(err)
		}
	}
	return nil
}
