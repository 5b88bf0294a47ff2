// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"github.com/go-playground/validator/v10"
	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/stringer"
)

// Constraint types.
const (
	ConstraintUnique     = "UNIQUE"
	ConstraintDefault    = "DEFAULT"
	ConstraintCheck      = "CHECK"
	ConstraintPrimaryKey = "PRIMARY KEY"
	ConstraintForeignKey = "FOREIGN KEY"
)

// Constraint describes a table constraint.
// Only the fields of the constraint Type are used:
//
//	UNIQUE:      Fields
//	DEFAULT:     Fields (one), DefaultValue
//	CHECK:       Fields, Where
//	PRIMARY KEY: Fields
//	FOREIGN KEY: Fields, References, OnDelete, OnUpdate
type Constraint struct {
	Type         string `validate:"required,oneof=UNIQUE DEFAULT CHECK 'PRIMARY KEY' 'FOREIGN KEY'"`
	Name         string
	Fields       []string `validate:"required,min=1"`
	DefaultValue interface{}
	Where        condition.Condition
	References   *ConstraintReferences
	OnDelete     string `validate:"omitempty,oneof=CASCADE RESTRICT 'SET NULL' 'SET DEFAULT' 'NO ACTION'"`
	OnUpdate     string `validate:"omitempty,oneof=CASCADE RESTRICT 'SET NULL' 'SET DEFAULT' 'NO ACTION'"`
	Deferrable   string `validate:"omitempty,oneof='INITIALLY DEFERRED' 'INITIALLY IMMEDIATE' 'NOT DEFERRABLE'"`
}

// ConstraintReferences of a foreign key constraint.
type ConstraintReferences struct {
	Table TableName
	Field string `validate:"required"`
}

// NameConstraint returns the name or <table>_<fields>_<type>.
func NameConstraint(table TableName, c Constraint) string {
	if c.Name != "" {
		return c.Name
	}
	suffix := map[string]string{
		ConstraintUnique:     "uk",
		ConstraintDefault:    "df",
		ConstraintCheck:      "ck",
		ConstraintPrimaryKey: "pk",
		ConstraintForeignKey: referencedTable(c) + "_fk",
	}[c.Type]
	parts := append([]string{table.TableName}, c.Fields...)
	return stringer.Identifier(append(parts, suffix)...)
}

// referencedTable returns the referenced table name of a foreign key.
func referencedTable(c Constraint) string {
	if c.References == nil {
		return ""
	}
	return c.References.Table.TableName
}

// ValidateConstraint checks that the constraint has all fields its type requires.
func ValidateConstraint(c Constraint) error {
	return Validate(c)
}

// Validate a descriptor struct like Trigger or Function by its validate tags.
func Validate(s interface{}) error {
	return wrapErr(validate.Struct(s))
}

// constraintValidation checks the type specific fields.
func constraintValidation(sl validator.StructLevel) {
	c := sl.Current().Interface().(Constraint)
	switch c.Type {
	case ConstraintForeignKey:
		if c.References == nil || c.References.Table.IsZero() {
			sl.ReportError(c.References, "References", "References", "required", "")
		}
	case ConstraintCheck:
		if c.Where == nil || len(c.Where.Where()) == 0 {
			sl.ReportError(c.Where, "Where", "Where", "required", "")
		}
	case ConstraintDefault:
		if c.DefaultValue == nil {
			sl.ReportError(c.DefaultValue, "DefaultValue", "DefaultValue", "required", "")
		}
		if len(c.Fields) != 1 {
			sl.ReportError(c.Fields, "Fields", "Fields", "len", "1")
		}
	}
	if c.Type != ConstraintForeignKey && (c.OnDelete != "" || c.OnUpdate != "" || c.References != nil) {
		sl.ReportError(c.OnDelete, "OnDelete", "OnDelete", "foreignkey", "")
	}
}
