// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

// Parameter directions.
const (
	DirectionIn       = "IN"
	DirectionOut      = "OUT"
	DirectionInOut    = "INOUT"
	DirectionVariadic = "VARIADIC"
)

// Trigger timings.
const (
	TriggerBefore          = "BEFORE"
	TriggerAfter           = "AFTER"
	TriggerInsteadOf       = "INSTEAD OF"
	TriggerAfterConstraint = "AFTER CONSTRAINT"
)

// FunctionParam of a stored function.
type FunctionParam struct {
	Type      string `validate:"required"`
	Name      string
	Direction string `validate:"omitempty,oneof=IN OUT INOUT VARIADIC"`
}

// FunctionVariable is declared in the function body.
type FunctionVariable struct {
	Name    string `validate:"required"`
	Type    string `validate:"required"`
	Default string
}

// Function describes a stored function.
type Function struct {
	Name      string             `validate:"required"`
	Params    []FunctionParam    `validate:"dive"`
	Returns   string             `validate:"required"`
	Language  string             `validate:"required"`
	Body      string             `validate:"required"`
	Variables []FunctionVariable `validate:"dive"`
	// Options like IMMUTABLE or LEAKPROOF.
	Options []string
	// Replace an existing function.
	Force bool
}

// TriggerEvent is an event a trigger fires on.
// Columns are only used for UPDATE.
type TriggerEvent struct {
	Name    string `validate:"required,oneof=INSERT UPDATE DELETE TRUNCATE"`
	Columns []string
}

// Trigger describes a table trigger which executes a function.
type Trigger struct {
	Name     string `validate:"required"`
	Table    TableName
	Timing   string         `validate:"required,oneof=BEFORE AFTER 'INSTEAD OF' 'AFTER CONSTRAINT'"`
	Events   []TriggerEvent `validate:"required,min=1,dive"`
	Function string         `validate:"required"`
	// FunctionArgs are passed to the function.
	FunctionArgs []string
	// Options like "FOR EACH ROW".
	Options []string
}
