// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/query/types"
)

// GeneratorBase renders ANSI sql. Dialects embed it and overwrite the parts which differ.
// All dialect dependent calls are made over the Provider, so overwritten methods are used.
type GeneratorBase struct {
	Provider Provider
}

// Placeholder returns the ? placeholder.
func (g *GeneratorBase) Placeholder() condition.Placeholder {
	return condition.Placeholder{Char: condition.PLACEHOLDER}
}

// QuoteChar returns the ANSI identifier quote.
func (g *GeneratorBase) QuoteChar() string {
	return `"`
}

// DataTypeSQL renders the ANSI data type.
func (g *GeneratorBase) DataTypeSQL(dt types.DataType) (string, error) {
	switch dt.Key {
	case types.KeyString:
		return "VARCHAR(" + strconv.Itoa(dt.Length) + ")", nil
	case types.KeyChar:
		return "CHAR(" + strconv.Itoa(dt.Length) + ")", nil
	case types.KeyText:
		return "TEXT", nil
	case types.KeyInteger:
		return "INTEGER", nil
	case types.KeyBigInt:
		return "BIGINT", nil
	case types.KeySmallInt:
		return "SMALLINT", nil
	case types.KeyFloat:
		return "FLOAT", nil
	case types.KeyDouble:
		return "DOUBLE PRECISION", nil
	case types.KeyDecimal:
		if dt.Precision > 0 {
			return fmt.Sprintf("DECIMAL(%d,%d)", dt.Precision, dt.Scale), nil
		}
		return "DECIMAL", nil
	case types.KeyBoolean:
		return "BOOLEAN", nil
	case types.KeyDate:
		return "TIMESTAMP", nil
	case types.KeyDateOnly:
		return "DATE", nil
	case types.KeyTime:
		return "TIME", nil
	case types.KeyUUID:
		return "UUID", nil
	case types.KeyJSON, types.KeyJSONB:
		return "JSON", nil
	case types.KeyBlob:
		return "BLOB", nil
	case types.KeyEnum:
		return "VARCHAR(255)", nil
	case types.KeyRaw:
		return dt.Raw, nil
	}
	return "", fmt.Errorf(ErrDataType, dt.Key, g.Provider.Name())
}

// DefaultSQL returns the escaped default value.
// types.NOW is rendered as CURRENT_TIMESTAMP, all other client side defaults are skipped.
func (g *GeneratorBase) DefaultSQL(value interface{}) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case types.DefaultFn:
		if v == types.NOW {
			return "CURRENT_TIMESTAMP", true
		}
		return "", false
	}
	return g.Provider.Escape(value), true
}

// AttributeSQL renders the column definition without references.
func (g *GeneratorBase) AttributeSQL(table TableName, attr Attribute, ctx AttributeContext) (string, error) {
	typ, err := g.Provider.DataTypeSQL(attr.Type)
	if err != nil {
		return "", err
	}
	parts := []string{typ}
	if !attr.Nullable() {
		parts = append(parts, "NOT NULL")
	}
	if d, ok := g.Provider.DefaultSQL(attr.DefaultValue); ok {
		parts = append(parts, "DEFAULT "+d)
	}
	if attr.Unique && attr.UniqueName == "" && ctx != ChangeColumnContext {
		parts = append(parts, "UNIQUE")
	}
	if attr.PrimaryKey && ctx != ChangeColumnContext {
		parts = append(parts, "PRIMARY KEY")
	}
	return strings.Join(parts, " "), nil
}

// ReferencesSQL renders the REFERENCES clause of the attribute.
func (g *GeneratorBase) ReferencesSQL(attr Attribute) string {
	r := attr.References
	if r == nil {
		return ""
	}
	key := r.Key
	if key == "" {
		key = "id"
	}
	return g.referenceActions("REFERENCES "+g.Provider.QuoteTable(r.Table)+" ("+g.Provider.QuoteIdentifier(key)+")", attr.OnDelete, attr.OnUpdate, r.Deferrable)
}

// referenceActions adds ON DELETE, ON UPDATE and DEFERRABLE.
func (g *GeneratorBase) referenceActions(stmt string, onDelete string, onUpdate string, deferrable string) string {
	if onDelete != "" {
		stmt += " ON DELETE " + onDelete
	}
	if onUpdate != "" {
		stmt += " ON UPDATE " + onUpdate
	}
	if deferrable != "" && g.Provider.Features().Deferrable {
		if deferrable == NotDeferrable {
			stmt += " " + NotDeferrable
		} else {
			stmt += " DEFERRABLE " + deferrable
		}
	}
	return stmt
}

// quoteList quotes all identifiers and joins them by a comma.
func (g *GeneratorBase) quoteList(names []string) string {
	rv := make([]string, len(names))
	for i, n := range names {
		rv[i] = g.Provider.QuoteIdentifier(n)
	}
	return strings.Join(rv, ", ")
}

// CreateDatabaseQuery is not supported by default.
func (g *GeneratorBase) CreateDatabaseQuery(name string, opts DatabaseOptions) (string, error) {
	return "", ErrNotSupported
}

// DropDatabaseQuery drops the database if it exists.
func (g *GeneratorBase) DropDatabaseQuery(name string) (string, error) {
	if !g.Provider.Features().Databases {
		return "", ErrNotSupported
	}
	return "DROP DATABASE IF EXISTS " + g.Provider.QuoteIdentifier(name), nil
}

// CreateSchemaQuery creates the schema if it does not exist.
func (g *GeneratorBase) CreateSchemaQuery(schema string) (string, error) {
	if !g.Provider.Features().Schemas {
		return "", ErrNotSupported
	}
	return "CREATE SCHEMA IF NOT EXISTS " + g.Provider.QuoteIdentifier(schema), nil
}

// DropSchemaQuery drops the schema with all its objects.
func (g *GeneratorBase) DropSchemaQuery(schema string) (string, error) {
	if !g.Provider.Features().Schemas {
		return "", ErrNotSupported
	}
	return "DROP SCHEMA IF EXISTS " + g.Provider.QuoteIdentifier(schema) + " CASCADE", nil
}

// ShowSchemasQuery returns all user schemas as schema_name.
func (g *GeneratorBase) ShowSchemasQuery() (string, error) {
	return "SELECT schema_name FROM information_schema.schemata WHERE schema_name NOT IN ('information_schema', 'public') AND schema_name NOT LIKE 'pg\\_%'", nil
}

// VersionQuery returns the version as version.
func (g *GeneratorBase) VersionQuery() string {
	return "SELECT VERSION() AS version"
}

// CreateTableQuery creates the table if it does not exist.
// Composite primary keys, named unique keys and references are added as table constraints.
func (g *GeneratorBase) CreateTableQuery(table TableName, attributes []Attribute, opts TableOptions) (string, error) {
	if err := validateAttributes(attributes); err != nil {
		return "", err
	}

	var pks []string
	for _, a := range attributes {
		if a.PrimaryKey {
			pks = append(pks, a.Field)
		}
	}

	var columns []string
	var constraints []string
	uniques := map[string][]string{}
	for name, fields := range opts.UniqueKeys {
		uniques[name] = fields
	}

	for _, a := range attributes {
		if len(pks) > 1 {
			a.PrimaryKey = false
		}
		def, err := g.Provider.AttributeSQL(table, a, CreateTableContext)
		if err != nil {
			return "", err
		}
		columns = append(columns, g.Provider.QuoteIdentifier(a.Field)+" "+def)

		if a.Unique && a.UniqueName != "" {
			uniques[a.UniqueName] = append(uniques[a.UniqueName], a.Field)
		}
		if a.References != nil {
			constraints = append(constraints, "FOREIGN KEY ("+g.Provider.QuoteIdentifier(a.Field)+") "+g.Provider.ReferencesSQL(a))
		}
	}

	if len(pks) > 1 {
		columns = append(columns, "PRIMARY KEY ("+g.quoteList(pks)+")")
	}

	names := make([]string, 0, len(uniques))
	for name := range uniques {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		columns = append(columns, "CONSTRAINT "+g.Provider.QuoteIdentifier(name)+" UNIQUE ("+g.quoteList(uniques[name])+")")
	}

	columns = append(columns, constraints...)
	return "CREATE TABLE IF NOT EXISTS " + g.Provider.QuoteTable(table) + " (" + strings.Join(columns, ", ") + ")", nil
}

// TableExistsQuery checks the information schema of the current schema.
func (g *GeneratorBase) TableExistsQuery(table TableName) (string, []interface{}) {
	if table.Schema != "" {
		return "SELECT table_name FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", []interface{}{table.Schema, table.TableName}
	}
	return "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?", []interface{}{table.TableName}
}

// DropTableQuery drops the table if it exists.
func (g *GeneratorBase) DropTableQuery(table TableName, opts DropOptions) string {
	stmt := "DROP TABLE IF EXISTS " + g.Provider.QuoteTable(table)
	if opts.Cascade && g.Provider.Features().Cascade {
		stmt += " CASCADE"
	}
	return stmt
}

// RenameTableQuery renames the table.
func (g *GeneratorBase) RenameTableQuery(before TableName, after TableName) string {
	return "ALTER TABLE " + g.Provider.QuoteTable(before) + " RENAME TO " + g.Provider.QuoteIdentifier(after.TableName)
}

// ShowTablesQuery returns table_schema and table_name of all tables in the current schema.
func (g *GeneratorBase) ShowTablesQuery() string {
	return "SELECT table_schema, table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type LIKE '%TABLE' ORDER BY table_name"
}

// TruncateQuery removes all rows of the table.
func (g *GeneratorBase) TruncateQuery(table TableName, opts DeleteOptions) string {
	stmt := "TRUNCATE " + g.Provider.QuoteTable(table)
	if opts.RestartIdentity {
		stmt += " RESTART IDENTITY"
	}
	if opts.Cascade && g.Provider.Features().Cascade {
		stmt += " CASCADE"
	}
	return stmt
}

// AddColumnQuery adds the column with an inline reference.
func (g *GeneratorBase) AddColumnQuery(table TableName, attr Attribute) (string, error) {
	if err := validateAttributes([]Attribute{attr}); err != nil {
		return "", err
	}
	def, err := g.Provider.AttributeSQL(table, attr, AddColumnContext)
	if err != nil {
		return "", err
	}
	stmt := "ALTER TABLE " + g.Provider.QuoteTable(table) + " ADD COLUMN " + g.Provider.QuoteIdentifier(attr.Field) + " " + def
	if attr.References != nil {
		stmt += " " + g.Provider.ReferencesSQL(attr)
	}
	return stmt, nil
}

// RemoveColumnQuery drops the column.
func (g *GeneratorBase) RemoveColumnQuery(table TableName, column string) string {
	return "ALTER TABLE " + g.Provider.QuoteTable(table) + " DROP COLUMN " + g.Provider.QuoteIdentifier(column)
}

// ChangeColumnQuery alters type, null, default, unique and references of the column.
func (g *GeneratorBase) ChangeColumnQuery(table TableName, attr Attribute) (string, error) {
	if err := validateAttributes([]Attribute{attr}); err != nil {
		return "", err
	}
	typ, err := g.Provider.DataTypeSQL(attr.Type)
	if err != nil {
		return "", err
	}

	col := g.Provider.QuoteIdentifier(attr.Field)
	clauses := []string{"ALTER COLUMN " + col + " TYPE " + typ}
	if attr.Nullable() {
		clauses = append(clauses, "ALTER COLUMN "+col+" DROP NOT NULL")
	} else {
		clauses = append(clauses, "ALTER COLUMN "+col+" SET NOT NULL")
	}
	if d, ok := g.Provider.DefaultSQL(attr.DefaultValue); ok {
		clauses = append(clauses, "ALTER COLUMN "+col+" SET DEFAULT "+d)
	} else {
		clauses = append(clauses, "ALTER COLUMN "+col+" DROP DEFAULT")
	}
	if attr.Unique {
		name := attr.UniqueName
		if name == "" {
			name = NameConstraint(table, Constraint{Type: ConstraintUnique, Fields: []string{attr.Field}})
		}
		clauses = append(clauses, "ADD CONSTRAINT "+g.Provider.QuoteIdentifier(name)+" UNIQUE ("+col+")")
	}
	if attr.References != nil {
		clauses = append(clauses, "ADD FOREIGN KEY ("+col+") "+g.Provider.ReferencesSQL(attr))
	}
	return "ALTER TABLE " + g.Provider.QuoteTable(table) + " " + strings.Join(clauses, ", "), nil
}

// RenameColumnQuery renames the column.
func (g *GeneratorBase) RenameColumnQuery(table TableName, before string, after string) string {
	return "ALTER TABLE " + g.Provider.QuoteTable(table) + " RENAME COLUMN " + g.Provider.QuoteIdentifier(before) + " TO " + g.Provider.QuoteIdentifier(after)
}

// IndexFieldsSQL renders the index columns with collation, operator class, length and order.
func (g *GeneratorBase) IndexFieldsSQL(opts IndexOptions) string {
	fields := make([]string, len(opts.Fields))
	for i, f := range opts.Fields {
		s := g.Provider.QuoteIdentifier(f.Name)
		if f.Length > 0 {
			s += "(" + strconv.Itoa(f.Length) + ")"
		}
		if f.Collate != "" {
			s += " COLLATE " + g.Provider.QuoteIdentifier(f.Collate)
		}
		op := f.Operator
		if op == "" {
			op = opts.Operator
		}
		if op != "" {
			s += " " + op
		}
		if f.Order != "" {
			s += " " + f.Order
		}
		fields[i] = s
	}
	return strings.Join(fields, ", ")
}

// WhereSQL renders a condition with inlined escaped values.
func (g *GeneratorBase) WhereSQL(c condition.Condition) (string, error) {
	if c == nil {
		return "", nil
	}
	stmt, args, err := c.Render(condition.Placeholder{Char: condition.PLACEHOLDER})
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return stmt, nil
	}
	return FormatReplacements(stmt, args, g.Provider.Escape)
}

// AddIndexQuery creates an index.
func (g *GeneratorBase) AddIndexQuery(table TableName, opts IndexOptions) (string, error) {
	if err := validate.Struct(opts); err != nil {
		return "", wrapErr(err)
	}
	features := g.Provider.Features()

	stmt := "CREATE "
	if opts.IsUnique() {
		stmt += "UNIQUE "
	}
	stmt += "INDEX "
	if opts.Concurrently && features.IndexConcurrently {
		stmt += "CONCURRENTLY "
	}
	stmt += "IF NOT EXISTS " + g.Provider.QuoteIdentifier(NameIndex(table, opts)) + " ON " + g.Provider.QuoteTable(table)
	if opts.Using != "" && features.IndexUsing {
		stmt += " USING " + opts.Using
	}
	stmt += " (" + g.IndexFieldsSQL(opts) + ")"

	if opts.Where != nil && features.PartialIndex {
		where, err := g.WhereSQL(opts.Where)
		if err != nil {
			return "", err
		}
		stmt += " " + where
	}
	return stmt, nil
}

// RemoveIndexQuery drops the index.
func (g *GeneratorBase) RemoveIndexQuery(table TableName, name string) string {
	idx := g.Provider.QuoteIdentifier(name)
	if table.Schema != "" && g.Provider.Features().Schemas {
		idx = g.Provider.QuoteIdentifier(table.Schema) + "." + idx
	}
	return "DROP INDEX IF EXISTS " + idx
}

// ConstraintSQL renders the constraint definition after the name.
func (g *GeneratorBase) ConstraintSQL(table TableName, c Constraint) (string, error) {
	switch c.Type {
	case ConstraintUnique:
		return "UNIQUE (" + g.quoteList(c.Fields) + ")", nil
	case ConstraintPrimaryKey:
		return "PRIMARY KEY (" + g.quoteList(c.Fields) + ")", nil
	case ConstraintCheck:
		where, err := g.WhereSQL(c.Where)
		if err != nil {
			return "", err
		}
		return "CHECK (" + strings.TrimPrefix(where, "WHERE ") + ")", nil
	case ConstraintForeignKey:
		ref := "FOREIGN KEY (" + g.quoteList(c.Fields) + ") REFERENCES " + g.Provider.QuoteTable(c.References.Table) + " (" + g.Provider.QuoteIdentifier(c.References.Field) + ")"
		return g.referenceActions(ref, c.OnDelete, c.OnUpdate, c.Deferrable), nil
	}
	return "", fmt.Errorf(ErrDataType, c.Type, g.Provider.Name())
}

// AddConstraintQuery adds the constraint.
// A DEFAULT constraint sets the column default.
func (g *GeneratorBase) AddConstraintQuery(table TableName, c Constraint) (string, error) {
	if err := ValidateConstraint(c); err != nil {
		return "", err
	}
	if c.Type == ConstraintDefault {
		d, ok := g.Provider.DefaultSQL(c.DefaultValue)
		if !ok {
			return "", fmt.Errorf(ErrDefaultValue, c.DefaultValue, g.Provider.Name())
		}
		return "ALTER TABLE " + g.Provider.QuoteTable(table) + " ALTER COLUMN " + g.Provider.QuoteIdentifier(c.Fields[0]) + " SET DEFAULT " + d, nil
	}
	def, err := g.Provider.ConstraintSQL(table, c)
	if err != nil {
		return "", err
	}
	return "ALTER TABLE " + g.Provider.QuoteTable(table) + " ADD CONSTRAINT " + g.Provider.QuoteIdentifier(NameConstraint(table, c)) + " " + def, nil
}

// RemoveConstraintQuery drops the constraint.
func (g *GeneratorBase) RemoveConstraintQuery(table TableName, name string) string {
	return "ALTER TABLE " + g.Provider.QuoteTable(table) + " DROP CONSTRAINT " + g.Provider.QuoteIdentifier(name)
}

// SelectBuilder returns a new select.
func (g *GeneratorBase) SelectBuilder(table TableName) Select {
	return &SelectBase{Provider: g.Provider, STable: table}
}

// InsertBuilder returns a new insert.
func (g *GeneratorBase) InsertBuilder(table TableName) Insert {
	return &InsertBase{Provider: g.Provider, ITable: table}
}

// UpdateBuilder returns a new update.
func (g *GeneratorBase) UpdateBuilder(table TableName) Update {
	return &UpdateBase{Provider: g.Provider, UTable: table}
}

// DeleteBuilder returns a new delete.
func (g *GeneratorBase) DeleteBuilder(table TableName) Delete {
	return &DeleteBase{Provider: g.Provider, DTable: table}
}

// OnConflictSQL renders ON CONFLICT ... DO NOTHING or DO UPDATE.
func (g *GeneratorBase) OnConflictSQL(conflict OnConflict) string {
	stmt := "ON CONFLICT"
	if len(conflict.Fields) > 0 {
		stmt += " (" + g.quoteList(conflict.Fields) + ")"
	}
	if conflict.DoNothing || len(conflict.Update) == 0 {
		return stmt + " DO NOTHING"
	}
	set := make([]string, len(conflict.Update))
	for i, c := range conflict.Update {
		col := g.Provider.QuoteIdentifier(c)
		set[i] = col + " = EXCLUDED." + col
	}
	return stmt + " DO UPDATE SET " + strings.Join(set, ", ")
}

// ReturningSQL renders the RETURNING clause.
func (g *GeneratorBase) ReturningSQL(columns []string) string {
	if !g.Provider.Features().Returning {
		return ""
	}
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "*") {
		return "RETURNING *"
	}
	return "RETURNING " + g.quoteList(columns)
}

// RowIdentifier is not defined by default.
func (g *GeneratorBase) RowIdentifier() string {
	return ""
}

// StartTransactionQuery starts a transaction or creates a savepoint.
func (g *GeneratorBase) StartTransactionQuery(tx *Transaction) string {
	if tx.IsNested() {
		return "SAVEPOINT " + g.Provider.QuoteIdentifier(tx.ID)
	}
	if tx.Options.ReadOnly {
		return "START TRANSACTION READ ONLY"
	}
	return "START TRANSACTION"
}

// SetIsolationLevelQuery sets the isolation level. Savepoints have no own level.
func (g *GeneratorBase) SetIsolationLevelQuery(level string, tx *Transaction) string {
	if tx != nil && tx.IsNested() {
		return ""
	}
	switch level {
	case ReadUncommitted, ReadCommitted, RepeatableRead, Serializable:
		return "SET TRANSACTION ISOLATION LEVEL " + level
	}
	return ""
}

// SetAutocommitQuery is not supported by default.
func (g *GeneratorBase) SetAutocommitQuery(autocommit bool) string {
	return ""
}

// DeferConstraintsQuery is not supported by default.
func (g *GeneratorBase) DeferConstraintsQuery(constraints []string) string {
	return ""
}

// CommitTransactionQuery commits or releases the savepoint.
func (g *GeneratorBase) CommitTransactionQuery(tx *Transaction) string {
	if tx.IsNested() {
		return "RELEASE SAVEPOINT " + g.Provider.QuoteIdentifier(tx.ID)
	}
	return "COMMIT"
}

// RollbackTransactionQuery rolls back or to the savepoint.
func (g *GeneratorBase) RollbackTransactionQuery(tx *Transaction) string {
	if tx.IsNested() {
		return "ROLLBACK TO SAVEPOINT " + g.Provider.QuoteIdentifier(tx.ID)
	}
	return "ROLLBACK"
}

// CreateTriggerQuery is not supported by default.
func (g *GeneratorBase) CreateTriggerQuery(trigger Trigger) (string, error) {
	return "", ErrNotSupported
}

// DropTriggerQuery is not supported by default.
func (g *GeneratorBase) DropTriggerQuery(table TableName, name string) (string, error) {
	return "", ErrNotSupported
}

// RenameTriggerQuery is not supported by default.
func (g *GeneratorBase) RenameTriggerQuery(table TableName, before string, after string) (string, error) {
	return "", ErrNotSupported
}

// CreateFunctionQuery is not supported by default.
func (g *GeneratorBase) CreateFunctionQuery(fn Function) (string, error) {
	return "", ErrNotSupported
}

// DropFunctionQuery is not supported by default.
func (g *GeneratorBase) DropFunctionQuery(name string, params []FunctionParam) (string, error) {
	return "", ErrNotSupported
}

// RenameFunctionQuery is not supported by default.
func (g *GeneratorBase) RenameFunctionQuery(before string, params []FunctionParam, after string) (string, error) {
	return "", ErrNotSupported
}
