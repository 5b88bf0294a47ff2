// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/patrickascher/queryinterface/query"
	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/query/types"
	"github.com/patrickascher/queryinterface/slicer"
)

// savepoint of a table recreation.
const recreateSavepoint = "recreate_table"

// autoIndexPrefix of indexes sqlite creates for inline unique and primary keys.
const autoIndexPrefix = "sqlite_autoindex_"

// withoutForeignKeys runs fn on a single connection with disabled foreign keys.
// The pragma has no effect inside a transaction, there the checks are deferred to the commit.
func (s *sqlite) withoutForeignKeys(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.Session(ctx, func(ctx context.Context) error {
		if _, err := s.Query(ctx, "PRAGMA foreign_keys = OFF", query.QueryOptions{}); err != nil {
			return err
		}
		err := fn(ctx)
		if _, resetErr := s.Query(ctx, "PRAGMA foreign_keys = ON", query.QueryOptions{}); err == nil {
			err = resetErr
		}
		return err
	})
}

// DropAllTables drops all tables with disabled foreign keys.
func (s *sqlite) DropAllTables(ctx context.Context, opts query.DropOptions) error {
	return s.withoutForeignKeys(ctx, func(ctx context.Context) error {
		return s.Base.DropAllTables(ctx, opts)
	})
}

// BulkDelete deletes the rows. A truncate with RestartIdentity resets the auto increment sequence afterwards.
// The number of deleted rows is returned.
func (s *sqlite) BulkDelete(ctx context.Context, table query.TableName, where condition.Condition, opts query.DeleteOptions) (int64, error) {
	n, err := s.Base.BulkDelete(ctx, table, where, opts)
	if err != nil || !opts.Truncate || !opts.RestartIdentity {
		return n, err
	}

	// the sequence table only exists after an auto increment table was created.
	res, err := s.Query(ctx, "SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'sqlite_sequence'", query.QueryOptions{Type: query.SELECT, Transaction: opts.Transaction})
	if err != nil || len(res.Rows) == 0 {
		return n, err
	}
	_, err = s.Run(ctx, s.resetSequenceQuery(table), nil, query.QueryOptions{Type: query.BULKDELETE, Transaction: opts.Transaction, Logging: opts.Logging})
	return n, err
}

// ChangeColumn recreates the table with the changed column.
func (s *sqlite) ChangeColumn(ctx context.Context, table query.TableName, attribute query.Attribute) error {
	return s.recreateTable(ctx, table, func(attributes []query.Attribute) ([]query.Attribute, error) {
		for i, a := range attributes {
			if a.Field == attribute.Field {
				attributes[i] = attribute
				return attributes, nil
			}
		}
		return nil, fmt.Errorf(query.ErrColumn, attribute.Field, table.String())
	})
}

// RemoveColumn recreates the table without the column.
func (s *sqlite) RemoveColumn(ctx context.Context, table query.TableName, column string) error {
	return s.recreateTable(ctx, table, func(attributes []query.Attribute) ([]query.Attribute, error) {
		for i, a := range attributes {
			if a.Field == column {
				return append(attributes[:i], attributes[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf(query.ErrColumn, column, table.String())
	})
}

// RemoveConstraint drops a unique index.
// Primary keys, foreign keys and unique column constraints are part of the table definition, so the table is recreated without them.
func (s *sqlite) RemoveConstraint(ctx context.Context, table query.TableName, name string) error {
	constraints, err := s.Information(table).Constraints(ctx, name)
	if err != nil {
		return err
	}
	if len(constraints) == 0 {
		return fmt.Errorf(query.ErrConstraintMissing, name, table.String())
	}
	c := constraints[0]
	if c.Type == query.ConstraintUnique && !strings.HasPrefix(c.Name, autoIndexPrefix) {
		return s.Base.RemoveConstraint(ctx, table, name)
	}

	return s.recreateTable(ctx, table, func(attributes []query.Attribute) ([]query.Attribute, error) {
		for i := range attributes {
			if _, exists := slicer.Exists(c.Fields, attributes[i].Field); !exists {
				continue
			}
			switch c.Type {
			case query.ConstraintPrimaryKey:
				attributes[i].PrimaryKey = false
				attributes[i].AutoIncrement = false
			case query.ConstraintForeignKey:
				attributes[i].References = nil
				attributes[i].OnDelete = ""
				attributes[i].OnUpdate = ""
			case query.ConstraintUnique:
				attributes[i].Unique = false
			}
		}
		return attributes, nil
	})
}

// recreateTable copies the data into a backup, creates the table with the changed attributes and copies the data back.
// Columns which exist before and after are copied. Indexes are created again if all their fields still exist.
func (s *sqlite) recreateTable(ctx context.Context, table query.TableName, change func([]query.Attribute) ([]query.Attribute, error)) error {
	info := s.Information(table)
	columns, err := info.Describe(ctx)
	if err != nil {
		return err
	}
	fks, err := info.ForeignKeys(ctx)
	if err != nil {
		return err
	}
	indexes, err := info.Indexes(ctx)
	if err != nil {
		return err
	}

	attributes, err := change(attributesOf(columns, fks))
	if err != nil {
		return err
	}
	create, err := s.CreateTableQuery(table, attributes, query.TableOptions{})
	if err != nil {
		return err
	}

	var fields []string
	var copied []string
	for _, a := range attributes {
		fields = append(fields, a.Field)
		if _, ok := columns[a.Field]; ok {
			copied = append(copied, s.QuoteIdentifier(a.Field))
		}
	}
	cols := strings.Join(copied, ", ")
	backup := s.QuoteIdentifier(tableName(table) + "_backup")

	stmts := []string{
		"PRAGMA defer_foreign_keys = ON",
		"CREATE TABLE " + backup + " AS SELECT " + cols + " FROM " + s.QuoteTable(table),
		"DROP TABLE " + s.QuoteTable(table),
		create,
		"INSERT INTO " + s.QuoteTable(table) + " (" + cols + ") SELECT " + cols + " FROM " + backup,
		"DROP TABLE " + backup,
	}
	for _, idx := range indexes {
		if idx.Primary || strings.HasPrefix(idx.Name, autoIndexPrefix) || !indexFieldsExist(idx, fields) {
			continue
		}
		stmt, err := s.AddIndexQuery(table, query.IndexOptions{Name: idx.Name, Unique: idx.Unique, Fields: idx.Fields})
		if err != nil {
			return err
		}
		stmts = append(stmts, stmt)
	}

	return s.withoutForeignKeys(ctx, func(ctx context.Context) error {
		if _, err := s.Query(ctx, "SAVEPOINT "+recreateSavepoint, query.QueryOptions{}); err != nil {
			return err
		}
		for _, stmt := range stmts {
			if _, err := s.Query(ctx, stmt, query.QueryOptions{}); err != nil {
				_, _ = s.Query(ctx, "ROLLBACK TO "+recreateSavepoint, query.QueryOptions{})
				_, _ = s.Query(ctx, "RELEASE "+recreateSavepoint, query.QueryOptions{})
				return err
			}
		}
		_, err := s.Query(ctx, "RELEASE "+recreateSavepoint, query.QueryOptions{})
		return err
	})
}

// attributesOf converts the described columns back to attributes, ordered by their position.
func attributesOf(columns map[string]query.Column, fks []query.ForeignKey) []query.Attribute {
	ordered := make([]query.Column, 0, len(columns))
	for _, c := range columns {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	rv := make([]query.Attribute, len(ordered))
	for i, c := range ordered {
		a := query.Attribute{
			Field:         c.Name,
			PrimaryKey:    c.PrimaryKey,
			Unique:        c.Unique && !c.PrimaryKey,
			AutoIncrement: c.AutoIncrement,
		}
		if c.Type != nil {
			a.Type = types.RawType(c.Type.Raw())
		} else {
			a.Type = types.RawType("")
		}
		if !c.AllowNull {
			a.AllowNull = query.NotNull()
		}
		if c.DefaultValue.Valid {
			a.DefaultValue = types.Literal(c.DefaultValue.String)
		}
		for _, fk := range fks {
			if fk.Primary.Column == c.Name {
				a.References = &query.References{Table: query.TableName{TableName: fk.Secondary.Table}, Key: fk.Secondary.Column}
				a.OnDelete = fk.OnDelete
				a.OnUpdate = fk.OnUpdate
			}
		}
		rv[i] = a
	}
	return rv
}

// indexFieldsExist reports if all index fields are in the list.
func indexFieldsExist(idx query.Index, fields []string) bool {
	for _, f := range idx.Fields {
		if _, exists := slicer.Exists(fields, f.Name); !exists {
			return false
		}
	}
	return true
}
