// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"github.com/patrickascher/queryinterface/query/types"
	"github.com/patrickascher/queryinterface/slicer"
	"gopkg.in/guregu/null.v4"
)

// Column represents a described database table column.
type Column struct {
	Table         string
	Name          string
	Position      int
	AllowNull     bool
	PrimaryKey    bool
	Unique        bool
	Type          types.Interface
	DefaultValue  null.String
	Length        null.Int
	AutoIncrement bool
	Comment       null.String
}

// ForeignKey represents a table relation.
type ForeignKey struct {
	Name      string
	Primary   Relation
	Secondary Relation
	OnUpdate  string
	OnDelete  string
}

// Relation defines the table and column of a relation.
type Relation struct {
	Schema string
	Table  string
	Column string
}

// Index is a described table index.
type Index struct {
	Name    string
	Table   string
	Primary bool
	Unique  bool
	Method  string
	Fields  []IndexField
}

// ConstraintInfo is a described table constraint.
type ConstraintInfo struct {
	Name             string
	Table            string
	Type             string
	Fields           []string
	ReferencedTable  string
	ReferencedFields []string
	OnUpdate         string
	OnDelete         string
	Definition       null.String
}

// ColumnRow is the row of a describe statement.
// Dialects alias their information schema columns to these names and hydrate the result.
type ColumnRow struct {
	Name          string  `db:"name"`
	Position      int     `db:"position"`
	Nullable      bool    `db:"nullable"`
	PrimaryKey    bool    `db:"pk"`
	Unique        bool    `db:"uniq"`
	Type          string  `db:"type"`
	DefaultValue  *string `db:"dflt"`
	Length        *int64  `db:"length"`
	AutoIncrement bool    `db:"auto_increment"`
	Comment       *string `db:"comment"`
}

// Column converts the row into a Column with a sanitized type.
func (r ColumnRow) Column(table string) Column {
	c := Column{
		Table:         table,
		Name:          r.Name,
		Position:      r.Position,
		AllowNull:     r.Nullable,
		PrimaryKey:    r.PrimaryKey,
		Unique:        r.Unique,
		DefaultValue:  null.StringFromPtr(r.DefaultValue),
		Length:        null.IntFromPtr(r.Length),
		AutoIncrement: r.AutoIncrement,
	}
	if r.Comment != nil && *r.Comment != "" {
		c.Comment = null.StringFrom(*r.Comment)
	}
	c.Type = types.Parse(r.Type, int(c.Length.Int64))
	return c
}

// IndexRow is one column of an index.
type IndexRow struct {
	Name    string  `db:"name"`
	Column  string  `db:"column_name"`
	Primary bool    `db:"pk"`
	Unique  bool    `db:"uniq"`
	Method  string  `db:"method"`
	Order   string  `db:"sort"`
	Length  *int64  `db:"length"`
	Collate *string `db:"collate"`
}

// ConstraintRow is one column of a constraint.
type ConstraintRow struct {
	Name            string  `db:"name"`
	Table           string  `db:"tbl"`
	Type            string  `db:"type"`
	Column          *string `db:"column_name"`
	ReferencedTable *string `db:"ref_table"`
	ReferencedField *string `db:"ref_column"`
	OnUpdate        *string `db:"on_update"`
	OnDelete        *string `db:"on_delete"`
	Definition      *string `db:"definition"`
}

// DescribeRows hydrates the rows and converts them to columns by name.
func DescribeRows(table string, rows []map[string]interface{}) (map[string]Column, error) {
	var described []ColumnRow
	if err := Hydrate(rows, &described); err != nil {
		return nil, err
	}
	rv := make(map[string]Column, len(described))
	for _, r := range described {
		rv[r.Name] = r.Column(table)
	}
	return rv, nil
}

// GroupIndexes hydrates the rows and groups them by the index name, in order of appearance.
func GroupIndexes(table string, rows []map[string]interface{}) ([]Index, error) {
	var described []IndexRow
	if err := Hydrate(rows, &described); err != nil {
		return nil, err
	}

	var rv []Index
	pos := map[string]int{}
	for _, r := range described {
		i, ok := pos[r.Name]
		if !ok {
			rv = append(rv, Index{Name: r.Name, Table: table, Primary: r.Primary, Unique: r.Unique || r.Primary, Method: r.Method})
			i = len(rv) - 1
			pos[r.Name] = i
		}
		f := IndexField{Name: r.Column, Order: r.Order}
		if r.Length != nil {
			f.Length = int(*r.Length)
		}
		if r.Collate != nil {
			f.Collate = *r.Collate
		}
		rv[i].Fields = append(rv[i].Fields, f)
	}
	return rv, nil
}

// GroupConstraints hydrates the rows and groups them by the constraint name, in order of appearance.
func GroupConstraints(rows []map[string]interface{}) ([]ConstraintInfo, error) {
	var described []ConstraintRow
	if err := Hydrate(rows, &described); err != nil {
		return nil, err
	}

	var rv []ConstraintInfo
	pos := map[string]int{}
	for _, r := range described {
		i, ok := pos[r.Name]
		if !ok {
			rv = append(rv, ConstraintInfo{
				Name:       r.Name,
				Table:      r.Table,
				Type:       r.Type,
				OnUpdate:   deref(r.OnUpdate),
				OnDelete:   deref(r.OnDelete),
				Definition: null.StringFromPtr(r.Definition),
			})
			i = len(rv) - 1
			pos[r.Name] = i
			rv[i].ReferencedTable = deref(r.ReferencedTable)
		}
		if r.Column != nil {
			rv[i].Fields = appendUnique(rv[i].Fields, *r.Column)
		}
		if r.ReferencedField != nil {
			rv[i].ReferencedFields = appendUnique(rv[i].ReferencedFields, *r.ReferencedField)
		}
	}
	return rv, nil
}

// ForeignKeysOf returns a ForeignKey for every column of the foreign key constraints.
func ForeignKeysOf(schema string, constraints []ConstraintInfo) []ForeignKey {
	var rv []ForeignKey
	for _, c := range constraints {
		if c.Type != ConstraintForeignKey {
			continue
		}
		for n, field := range c.Fields {
			fk := ForeignKey{
				Name:      c.Name,
				Primary:   Relation{Schema: schema, Table: c.Table, Column: field},
				Secondary: Relation{Schema: schema, Table: c.ReferencedTable},
				OnUpdate:  c.OnUpdate,
				OnDelete:  c.OnDelete,
			}
			if n < len(c.ReferencedFields) {
				fk.Secondary.Column = c.ReferencedFields[n]
			}
			rv = append(rv, fk)
		}
	}
	return rv
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func appendUnique(list []string, s string) []string {
	if _, exists := slicer.Exists(list, s); exists {
		return list
	}
	return append(list, s)
}
