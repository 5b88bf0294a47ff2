// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"errors"
	"fmt"
	"strings"
)

// Error messages.
var (
	ErrDbNotSet          = errors.New("query: DB is not set")
	ErrNotSupported      = errors.New("query: operation is not supported by the dialect")
	ErrTxFinished        = errors.New("query: transaction has already been finished")
	ErrValueMissing      = "query: no %s value is set (%s)"
	ErrColumn            = "query: column (%s) does not exist in (%s)"
	ErrReplacement       = "query: named replacement %#v has no value"
	ErrBindMismatch      = errors.New("query: replacements and bind can not be used together")
	ErrReplacementType   = errors.New("query: replacements and bind must be a map[string]interface{} or []interface{}")
	ErrPlaceholderCount  = "query: statement has %d placeholders but %d values were given"
	ErrModel             = errors.New("query: model must be a ptr to a struct or slice")
	ErrDataType          = "query: data type %#v is not supported by %s"
	ErrConstraintMissing = "query: constraint %#v does not exist on %s"
	ErrDefaultValue      = "query: default value %#v can not be set as column default by %s"
	ErrAttributeMissing  = errors.New("query: at least one attribute is required")
)

// Database error kinds.
var (
	ErrUniqueConstraint     = errors.New("query: unique constraint error")
	ErrForeignKeyConstraint = errors.New("query: foreign key constraint error")
	ErrExclusionConstraint  = errors.New("query: exclusion constraint error")
	ErrTimeout              = errors.New("query: timeout error")
	ErrConnection           = errors.New("query: connection error")
	ErrUnknown              = errors.New("query: database error")
)

// DatabaseError is a classified driver error.
// Use errors.Is with one of the kinds above to check it.
type DatabaseError struct {
	Kind   error
	Fields []string
	Table  string
	Index  string
	SQL    string
	Err    error
}

// Error implements the error interface.
func (e *DatabaseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Index != "" {
		b.WriteString(" on " + e.Index)
	}
	if len(e.Fields) > 0 {
		b.WriteString(" (" + strings.Join(e.Fields, ", ") + ")")
	}
	if e.Err != nil {
		b.WriteString(": " + e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the driver error.
func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// Is reports if the target is the kind of the error.
func (e *DatabaseError) Is(target error) bool {
	return e.Kind == target
}

// NewDatabaseError creates a DatabaseError. A nil kind is ErrUnknown.
func NewDatabaseError(kind error, err error, sql string) *DatabaseError {
	if kind == nil {
		kind = ErrUnknown
	}
	return &DatabaseError{Kind: kind, Err: err, SQL: sql}
}

// wrapErr prefixes the error if it is not a DatabaseError already.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	var dbErr *DatabaseError
	if errors.As(err, &dbErr) {
		return err
	}
	return fmt.Errorf("query: %w", err)
}
