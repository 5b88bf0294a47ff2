// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"strings"

	"github.com/patrickascher/queryinterface/query"
	"github.com/patrickascher/queryinterface/query/types"
)

// DataTypeSQL renders the sqlite type names, which define the column affinity.
func (s *sqlite) DataTypeSQL(dt types.DataType) (string, error) {
	switch dt.Key {
	case types.KeyBoolean:
		return "TINYINT(1)", nil
	case types.KeyDate:
		return "DATETIME", nil
	case types.KeyJSONB:
		return "JSON", nil
	case types.KeyEnum:
		return "TEXT", nil
	}
	return s.GeneratorBase.DataTypeSQL(dt)
}

// AttributeSQL renders auto increments as INTEGER PRIMARY KEY AUTOINCREMENT and enums with a CHECK.
func (s *sqlite) AttributeSQL(table query.TableName, attr query.Attribute, ctx query.AttributeContext) (string, error) {
	autoIncrement := attr.AutoIncrement && attr.PrimaryKey && ctx == query.CreateTableContext
	if autoIncrement {
		attr.Type = types.Integer()
	}
	def, err := s.GeneratorBase.AttributeSQL(table, attr, ctx)
	if err != nil {
		return "", err
	}
	if autoIncrement {
		def += " AUTOINCREMENT"
	}
	if attr.Type.Key == types.KeyEnum && len(attr.Type.Values) > 0 {
		def += " CHECK (" + s.QuoteIdentifier(attr.Field) + " IN (" + s.Escape(attr.Type.Values) + "))"
	}
	return def, nil
}

// CreateSchemaQuery is a no-op, schemas are a table prefix.
func (s *sqlite) CreateSchemaQuery(schema string) (string, error) {
	return "", nil
}

// DropSchemaQuery is a no-op, schemas are a table prefix.
func (s *sqlite) DropSchemaQuery(schema string) (string, error) {
	return "", nil
}

// ShowSchemasQuery returns the attached databases.
func (s *sqlite) ShowSchemasQuery() (string, error) {
	return "SELECT name AS schema_name FROM pragma_database_list", nil
}

// VersionQuery returns the sqlite library version.
func (s *sqlite) VersionQuery() string {
	return "SELECT sqlite_version() AS version"
}

// TableExistsQuery checks the sqlite_master.
func (s *sqlite) TableExistsQuery(table query.TableName) (string, []interface{}) {
	return "SELECT name AS table_name FROM sqlite_master WHERE type = 'table' AND name = ?", []interface{}{tableName(table)}
}

// RenameTableQuery renames the table. The schema of the old table is kept, if none is set.
func (s *sqlite) RenameTableQuery(before query.TableName, after query.TableName) string {
	if after.Schema == "" {
		after.Schema = before.Schema
	}
	return "ALTER TABLE " + s.QuoteTable(before) + " RENAME TO " + s.QuoteIdentifier(tableName(after))
}

// ShowTablesQuery returns all user tables.
func (s *sqlite) ShowTablesQuery() string {
	return "SELECT name AS table_name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\\_%' ESCAPE '\\' ORDER BY name"
}

// TruncateQuery deletes all rows. The auto increment sequence is reset by BulkDelete.
func (s *sqlite) TruncateQuery(table query.TableName, opts query.DeleteOptions) string {
	return "DELETE FROM " + s.QuoteTable(table)
}

// resetSequenceQuery resets the auto increment sequence of the table.
func (s *sqlite) resetSequenceQuery(table query.TableName) string {
	return "DELETE FROM sqlite_sequence WHERE name = " + s.Escape(tableName(table))
}

// AddColumnQuery adds the column. Unique columns get a unique index, because sqlite can not add them inline.
func (s *sqlite) AddColumnQuery(table query.TableName, attr query.Attribute) (string, error) {
	unique := attr.Unique
	attr.Unique = false
	attr.PrimaryKey = false
	stmt, err := s.GeneratorBase.AddColumnQuery(table, attr)
	if err != nil {
		return "", err
	}
	if unique {
		name := attr.UniqueName
		if name == "" {
			name = query.NameConstraint(table, query.Constraint{Type: query.ConstraintUnique, Fields: []string{attr.Field}})
		}
		stmt += "; CREATE UNIQUE INDEX IF NOT EXISTS " + s.QuoteIdentifier(name) + " ON " + s.QuoteTable(table) + " (" + s.QuoteIdentifier(attr.Field) + ")"
	}
	return stmt, nil
}

// ChangeColumnQuery is not supported, the table is recreated instead.
func (s *sqlite) ChangeColumnQuery(table query.TableName, attr query.Attribute) (string, error) {
	return "", query.ErrNotSupported
}

// AddConstraintQuery adds a UNIQUE constraint as unique index.
func (s *sqlite) AddConstraintQuery(table query.TableName, c query.Constraint) (string, error) {
	if err := query.ValidateConstraint(c); err != nil {
		return "", err
	}
	if c.Type != query.ConstraintUnique {
		return "", query.ErrNotSupported
	}
	fields := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		fields[i] = s.QuoteIdentifier(f)
	}
	return "CREATE UNIQUE INDEX IF NOT EXISTS " + s.QuoteIdentifier(query.NameConstraint(table, c)) + " ON " + s.QuoteTable(table) + " (" + strings.Join(fields, ", ") + ")", nil
}

// RemoveConstraintQuery drops a unique index. Other constraints are removed by RemoveConstraint.
func (s *sqlite) RemoveConstraintQuery(table query.TableName, name string) string {
	return "DROP INDEX IF EXISTS " + s.QuoteIdentifier(name)
}

// RowIdentifier is the sqlite rowid.
func (s *sqlite) RowIdentifier() string {
	return "rowid"
}

// StartTransactionQuery begins a DEFERRED, IMMEDIATE or EXCLUSIVE transaction or creates a savepoint.
func (s *sqlite) StartTransactionQuery(tx *query.Transaction) string {
	if tx.IsNested() {
		return s.GeneratorBase.StartTransactionQuery(tx)
	}
	typ := tx.Options.Type
	if typ == "" {
		typ = query.Deferred
	}
	return "BEGIN " + typ + " TRANSACTION"
}

// SetIsolationLevelQuery toggles the read uncommitted mode of the connection.
// All other levels are serializable.
func (s *sqlite) SetIsolationLevelQuery(level string, tx *query.Transaction) string {
	if tx != nil && tx.IsNested() {
		return ""
	}
	switch level {
	case query.ReadUncommitted:
		return "PRAGMA read_uncommitted = 1"
	case query.ReadCommitted, query.RepeatableRead, query.Serializable:
		return "PRAGMA read_uncommitted = 0"
	}
	return ""
}
