// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"github.com/go-playground/validator/v10"
	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/stringer"
)

// Index types.
const (
	FULLTEXT = "FULLTEXT"
	SPATIAL  = "SPATIAL"
	UNIQUE   = "UNIQUE"
)

// IndexOptions describe an index.
// If no name is set, the name is <table>_<field1>_<field2> in snake case.
type IndexOptions struct {
	Name   string
	Unique bool
	Type   string `validate:"omitempty,oneof=FULLTEXT SPATIAL UNIQUE"`
	// Using is the index method, like BTREE, HASH, GIST or GIN.
	Using  string
	Fields []IndexField `validate:"required,min=1,dive"`
	// Where is the predicate of a partial index.
	Where        condition.Condition
	Concurrently bool
	// Parser of a FULLTEXT index (mysql).
	Parser string
	// Prefix is added to the generated name.
	Prefix string
	// Operator class for all fields (postgres).
	Operator string
}

// IndexField is a column of an index.
type IndexField struct {
	Name    string `validate:"required"`
	Order   string `validate:"omitempty,oneof=ASC DESC"`
	Collate string
	Length  int `validate:"gte=0"`
	// Operator class (postgres).
	Operator string
}

// Fields is a helper to create index fields by name.
func Fields(names ...string) []IndexField {
	rv := make([]IndexField, len(names))
	for i, n := range names {
		rv[i] = IndexField{Name: n}
	}
	return rv
}

// IsUnique reports if the index is unique.
func (o IndexOptions) IsUnique() bool {
	return o.Unique || o.Type == UNIQUE
}

// fieldNames returns the column names.
func (o IndexOptions) fieldNames() []string {
	rv := make([]string, len(o.Fields))
	for i, f := range o.Fields {
		rv[i] = f.Name
	}
	return rv
}

// NameIndex returns the index name or the generated one.
func NameIndex(table TableName, opts IndexOptions) string {
	if opts.Name != "" {
		return opts.Name
	}
	parts := append([]string{opts.Prefix, table.TableName}, opts.fieldNames()...)
	return stringer.Identifier(parts...)
}

// NameIndexes sets the generated name on all indexes without one.
func NameIndexes(indexes []IndexOptions, table TableName) []IndexOptions {
	rv := make([]IndexOptions, len(indexes))
	for i, idx := range indexes {
		idx.Name = NameIndex(table, idx)
		rv[i] = idx
	}
	return rv
}

// indexValidation checks the options which depend on each other.
func indexValidation(sl validator.StructLevel) {
	idx := sl.Current().Interface().(IndexOptions)
	if idx.Parser != "" && idx.Type != FULLTEXT {
		sl.ReportError(idx.Parser, "Parser", "Parser", "fulltext", "")
	}
	if idx.Unique && idx.Type != "" && idx.Type != UNIQUE {
		sl.ReportError(idx.Type, "Type", "Type", "unique", "")
	}
}
