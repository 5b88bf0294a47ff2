// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/patrickascher/queryinterface/query"
	"github.com/patrickascher/queryinterface/query/types"
)

// DataTypeSQL renders the mysql data type.
func (m *mysql) DataTypeSQL(dt types.DataType) (string, error) {
	var typ string
	switch dt.Key {
	case types.KeyString:
		typ = "VARCHAR(" + strconv.Itoa(dt.Length) + ")"
	case types.KeyChar:
		typ = "CHAR(" + strconv.Itoa(dt.Length) + ")"
	case types.KeyInteger:
		typ = "INT"
	case types.KeyBoolean:
		typ = "TINYINT(1)"
	case types.KeyDate:
		typ = "DATETIME"
	case types.KeyUUID:
		typ = "CHAR(36) BINARY"
	case types.KeyJSONB:
		typ = "JSON"
	case types.KeyEnum:
		values := make([]string, len(dt.Values))
		for i, v := range dt.Values {
			values[i] = m.Escape(v)
		}
		typ = "ENUM(" + strings.Join(values, ", ") + ")"
	default:
		var err error
		if typ, err = m.GeneratorBase.DataTypeSQL(dt); err != nil {
			return "", err
		}
	}

	if dt.Binary && (dt.Key == types.KeyString || dt.Key == types.KeyChar) {
		typ += " BINARY"
	}
	switch dt.Key {
	case types.KeyInteger, types.KeyBigInt, types.KeySmallInt, types.KeyFloat, types.KeyDouble, types.KeyDecimal:
		if dt.Unsigned {
			typ += " UNSIGNED"
		}
		if dt.Zerofill {
			typ += " ZEROFILL"
		}
	}
	return typ, nil
}

// AttributeSQL adds AUTO_INCREMENT, COMMENT and the position of the column.
func (m *mysql) AttributeSQL(table query.TableName, attr query.Attribute, ctx query.AttributeContext) (string, error) {
	def, err := m.GeneratorBase.AttributeSQL(table, attr, ctx)
	if err != nil {
		return "", err
	}
	if attr.AutoIncrement {
		def += " AUTO_INCREMENT"
	}
	if attr.Comment != "" {
		def += " COMMENT " + m.Escape(attr.Comment)
	}
	if ctx != query.CreateTableContext {
		if attr.First {
			def += " FIRST"
		} else if attr.After != "" {
			def += " AFTER " + m.QuoteIdentifier(attr.After)
		}
	}
	return def, nil
}

// CreateDatabaseQuery creates the database with charset and collation.
func (m *mysql) CreateDatabaseQuery(name string, opts query.DatabaseOptions) (string, error) {
	stmt := "CREATE DATABASE IF NOT EXISTS " + m.QuoteIdentifier(name)
	if opts.Charset != "" {
		stmt += " DEFAULT CHARACTER SET " + m.Escape(opts.Charset)
	}
	if opts.Collate != "" {
		stmt += " DEFAULT COLLATE " + m.Escape(opts.Collate)
	}
	return stmt, nil
}

// DropSchemaQuery drops the schema, which is a database in mysql.
func (m *mysql) DropSchemaQuery(schema string) (string, error) {
	return "DROP SCHEMA IF EXISTS " + m.QuoteIdentifier(schema), nil
}

// ShowSchemasQuery returns all user databases.
func (m *mysql) ShowSchemasQuery() (string, error) {
	return "SELECT SCHEMA_NAME AS schema_name FROM information_schema.schemata WHERE SCHEMA_NAME NOT IN ('mysql', 'information_schema', 'performance_schema', 'sys')", nil
}

// CreateTableQuery adds the table options.
func (m *mysql) CreateTableQuery(table query.TableName, attributes []query.Attribute, opts query.TableOptions) (string, error) {
	stmt, err := m.GeneratorBase.CreateTableQuery(table, attributes, opts)
	if err != nil {
		return "", err
	}

	engine := opts.Engine
	if engine == "" {
		engine = "InnoDB"
	}
	stmt += " ENGINE=" + engine
	if opts.Charset != "" {
		stmt += " DEFAULT CHARSET=" + opts.Charset
	}
	if opts.Collate != "" {
		stmt += " COLLATE " + opts.Collate
	}
	if opts.Comment != "" {
		stmt += " COMMENT " + m.Escape(opts.Comment)
	}
	if opts.RowFormat != "" {
		stmt += " ROW_FORMAT=" + opts.RowFormat
	}
	if opts.InitialAutoIncrement > 0 {
		stmt += " AUTO_INCREMENT=" + strconv.Itoa(opts.InitialAutoIncrement)
	}
	return stmt, nil
}

// TableExistsQuery checks the information schema of the current database.
func (m *mysql) TableExistsQuery(table query.TableName) (string, []interface{}) {
	if table.Schema != "" {
		return "SELECT TABLE_NAME AS table_name FROM information_schema.tables WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?", []interface{}{table.Schema, table.TableName}
	}
	return "SELECT TABLE_NAME AS table_name FROM information_schema.tables WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?", []interface{}{table.TableName}
}

// RenameTableQuery renames the table.
func (m *mysql) RenameTableQuery(before query.TableName, after query.TableName) string {
	if after.Schema == "" {
		after.Schema = before.Schema
	}
	return "RENAME TABLE " + m.QuoteTable(before) + " TO " + m.QuoteTable(after)
}

// ShowTablesQuery returns all tables of the current database.
func (m *mysql) ShowTablesQuery() string {
	return "SELECT TABLE_SCHEMA AS table_schema, TABLE_NAME AS table_name FROM information_schema.tables WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE' ORDER BY TABLE_NAME"
}

// TruncateQuery truncates the table. The auto increment is always reset.
func (m *mysql) TruncateQuery(table query.TableName, opts query.DeleteOptions) string {
	return "TRUNCATE TABLE " + m.QuoteTable(table)
}

// AddColumnQuery adds the column and its foreign key.
// Inline references are ignored by mysql.
func (m *mysql) AddColumnQuery(table query.TableName, attr query.Attribute) (string, error) {
	ref := attr.References
	attr.References = nil
	stmt, err := m.GeneratorBase.AddColumnQuery(table, attr)
	if err != nil {
		return "", err
	}
	if ref != nil {
		attr.References = ref
		stmt += ", ADD FOREIGN KEY (" + m.QuoteIdentifier(attr.Field) + ") " + m.ReferencesSQL(attr)
	}
	return stmt, nil
}

// ChangeColumnQuery modifies the column definition.
func (m *mysql) ChangeColumnQuery(table query.TableName, attr query.Attribute) (string, error) {
	if attr.Type.IsZero() {
		return "", fmt.Errorf(query.ErrValueMissing, "type", attr.Field)
	}
	def, err := m.AttributeSQL(table, attr, query.ChangeColumnContext)
	if err != nil {
		return "", err
	}
	col := m.QuoteIdentifier(attr.Field)
	stmt := "ALTER TABLE " + m.QuoteTable(table) + " MODIFY COLUMN " + col + " " + def
	if attr.Unique {
		stmt += ", ADD UNIQUE (" + col + ")"
	}
	if attr.References != nil {
		stmt += ", ADD FOREIGN KEY (" + col + ") " + m.ReferencesSQL(attr)
	}
	return stmt, nil
}

// AddIndexQuery creates an index.
// FULLTEXT and SPATIAL are added as index type, the parser is only allowed for FULLTEXT.
func (m *mysql) AddIndexQuery(table query.TableName, opts query.IndexOptions) (string, error) {
	if len(opts.Fields) == 0 {
		return "", fmt.Errorf(query.ErrValueMissing, "index field", table.String())
	}
	if opts.Parser != "" && opts.Type != query.FULLTEXT {
		return "", fmt.Errorf("mysql: parser %#v is only allowed on a FULLTEXT index", opts.Parser)
	}

	fields := make([]query.IndexField, len(opts.Fields))
	for i, f := range opts.Fields {
		fields[i] = query.IndexField{Name: f.Name, Order: f.Order, Length: f.Length}
	}
	opts.Fields = fields
	opts.Operator = ""

	stmt := "CREATE "
	switch {
	case opts.Type == query.FULLTEXT || opts.Type == query.SPATIAL:
		stmt += opts.Type + " "
	case opts.IsUnique():
		stmt += "UNIQUE "
	}
	stmt += "INDEX " + m.QuoteIdentifier(query.NameIndex(table, opts)) + " ON " + m.QuoteTable(table) + " (" + m.IndexFieldsSQL(opts) + ")"
	if opts.Using != "" {
		stmt += " USING " + opts.Using
	}
	if opts.Parser != "" {
		stmt += " WITH PARSER " + opts.Parser
	}
	return stmt, nil
}

// RemoveIndexQuery drops the index of the table.
func (m *mysql) RemoveIndexQuery(table query.TableName, name string) string {
	return "DROP INDEX " + m.QuoteIdentifier(name) + " ON " + m.QuoteTable(table)
}

// removeConstraintQuery drops a constraint by its type.
func (m *mysql) removeConstraintQuery(table query.TableName, name string, typ string) string {
	stmt := "ALTER TABLE " + m.QuoteTable(table) + " DROP "
	switch typ {
	case query.ConstraintForeignKey:
		return stmt + "FOREIGN KEY " + m.QuoteIdentifier(name)
	case query.ConstraintUnique:
		return stmt + "INDEX " + m.QuoteIdentifier(name)
	case query.ConstraintPrimaryKey:
		return stmt + "PRIMARY KEY"
	case query.ConstraintCheck:
		return stmt + "CHECK " + m.QuoteIdentifier(name)
	}
	return stmt + "CONSTRAINT " + m.QuoteIdentifier(name)
}

// OnConflictSQL renders ON DUPLICATE KEY UPDATE.
// Without update columns the first conflict field is set to itself.
func (m *mysql) OnConflictSQL(conflict query.OnConflict) string {
	columns := conflict.Update
	if conflict.DoNothing || len(columns) == 0 {
		field := "id"
		if len(conflict.Fields) > 0 {
			field = conflict.Fields[0]
		}
		col := m.QuoteIdentifier(field)
		return "ON DUPLICATE KEY UPDATE " + col + " = " + col
	}
	set := make([]string, len(columns))
	for i, c := range columns {
		col := m.QuoteIdentifier(c)
		set[i] = col + " = VALUES(" + col + ")"
	}
	return "ON DUPLICATE KEY UPDATE " + strings.Join(set, ", ")
}

// SetAutocommitQuery sets the autocommit mode of the session.
func (m *mysql) SetAutocommitQuery(autocommit bool) string {
	if autocommit {
		return "SET autocommit = 1"
	}
	return "SET autocommit = 0"
}
