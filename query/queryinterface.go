// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/query/types"
	"github.com/patrickascher/queryinterface/slicer"
	"gopkg.in/guregu/null.v4"
)

// exec runs a generated statement. Empty statements are skipped.
func (b *Base) exec(ctx context.Context, stmt string, typ string) (Result, error) {
	if stmt == "" {
		return Result{}, nil
	}
	return b.Provider.Run(ctx, stmt, nil, QueryOptions{Type: typ})
}

// execGenerated runs the statement of a generator function.
func (b *Base) execGenerated(ctx context.Context, stmt string, err error) error {
	if err != nil {
		return err
	}
	_, err = b.exec(ctx, stmt, RAW)
	return err
}

// CreateDatabase creates a new database.
func (b *Base) CreateDatabase(ctx context.Context, name string, opts DatabaseOptions) error {
	stmt, err := b.Provider.CreateDatabaseQuery(name, opts)
	return b.execGenerated(ctx, stmt, err)
}

// DropDatabase drops the database if it exists.
func (b *Base) DropDatabase(ctx context.Context, name string) error {
	stmt, err := b.Provider.DropDatabaseQuery(name)
	return b.execGenerated(ctx, stmt, err)
}

// CreateSchema creates the schema if it does not exist.
func (b *Base) CreateSchema(ctx context.Context, schema string) error {
	stmt, err := b.Provider.CreateSchemaQuery(schema)
	return b.execGenerated(ctx, stmt, err)
}

// DropSchema drops the schema if it exists.
func (b *Base) DropSchema(ctx context.Context, schema string) error {
	stmt, err := b.Provider.DropSchemaQuery(schema)
	return b.execGenerated(ctx, stmt, err)
}

// DropAllSchemas drops all schemas except the skipped ones.
func (b *Base) DropAllSchemas(ctx context.Context, skip ...string) error {
	schemas, err := b.Provider.ShowAllSchemas(ctx)
	if err != nil {
		return err
	}
	for _, s := range slicer.Filter(schemas, skip) {
		if err = b.Provider.DropSchema(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// ShowAllSchemas returns all user schemas.
func (b *Base) ShowAllSchemas(ctx context.Context) ([]string, error) {
	stmt, err := b.Provider.ShowSchemasQuery()
	if err != nil {
		return nil, err
	}
	res, err := b.exec(ctx, stmt, SELECT)
	if err != nil {
		return nil, err
	}
	return stringColumn(res.Rows, "schema_name"), nil
}

// DatabaseVersion returns the server version.
func (b *Base) DatabaseVersion(ctx context.Context) (string, error) {
	res, err := b.exec(ctx, b.Provider.VersionQuery(), VERSION)
	if err != nil {
		return "", err
	}
	if v := stringColumn(res.Rows, "version"); len(v) > 0 {
		return v[0], nil
	}
	return "", nil
}

// CreateTable creates the table if it does not exist.
func (b *Base) CreateTable(ctx context.Context, table TableName, attributes []Attribute, opts TableOptions) error {
	stmt, err := b.Provider.CreateTableQuery(table, attributes, opts)
	return b.execGenerated(ctx, stmt, err)
}

// TableExists reports if the table exists.
func (b *Base) TableExists(ctx context.Context, table TableName) (bool, error) {
	stmt, args := b.Provider.TableExistsQuery(table)
	res, err := b.Provider.Run(ctx, condition.ReplacePlaceholders(stmt, b.Provider.Placeholder()), args, QueryOptions{Type: SHOWTABLES})
	if err != nil {
		return false, err
	}
	return len(res.Rows) > 0, nil
}

// DropTable drops the table if it exists.
func (b *Base) DropTable(ctx context.Context, table TableName, opts DropOptions) error {
	_, err := b.exec(ctx, b.Provider.DropTableQuery(table, opts), RAW)
	return err
}

// DropAllTables drops all tables of the current schema except the skipped ones.
// Tables are dropped with CASCADE, if the dialect supports it.
func (b *Base) DropAllTables(ctx context.Context, opts DropOptions) error {
	tables, err := b.Provider.ShowAllTables(ctx)
	if err != nil {
		return err
	}
	opts.Cascade = opts.Cascade || b.Provider.Features().Cascade
	for _, t := range tables {
		if _, exists := slicer.Exists(opts.Skip, t.TableName); exists {
			continue
		}
		if err = b.Provider.DropTable(ctx, t, opts); err != nil {
			return err
		}
	}
	return nil
}

// DropAllEnums is only supported by dialects with enum types.
func (b *Base) DropAllEnums(ctx context.Context) error {
	return ErrNotSupported
}

// RenameTable renames the table.
func (b *Base) RenameTable(ctx context.Context, before TableName, after TableName) error {
	_, err := b.exec(ctx, b.Provider.RenameTableQuery(before, after), RAW)
	return err
}

// ShowAllTables returns all tables of the current schema.
func (b *Base) ShowAllTables(ctx context.Context) ([]TableName, error) {
	res, err := b.exec(ctx, b.Provider.ShowTablesQuery(), SHOWTABLES)
	if err != nil {
		return nil, err
	}
	tables := make([]TableName, 0, len(res.Rows))
	for _, row := range res.Rows {
		t := TableName{TableName: fmt.Sprint(row["table_name"])}
		if s, ok := row["table_schema"].(string); ok {
			t.Schema = s
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// DescribeTable returns the columns of the table by name.
func (b *Base) DescribeTable(ctx context.Context, table TableName) (map[string]Column, error) {
	return b.Provider.Information(table).Describe(ctx)
}

// AddColumn adds a column to the table.
func (b *Base) AddColumn(ctx context.Context, table TableName, attribute Attribute) error {
	stmt, err := b.Provider.AddColumnQuery(table, attribute)
	return b.execGenerated(ctx, stmt, err)
}

// RemoveColumn drops the column.
func (b *Base) RemoveColumn(ctx context.Context, table TableName, column string) error {
	_, err := b.exec(ctx, b.Provider.RemoveColumnQuery(table, column), RAW)
	return err
}

// ChangeColumn changes the column definition.
func (b *Base) ChangeColumn(ctx context.Context, table TableName, attribute Attribute) error {
	stmt, err := b.Provider.ChangeColumnQuery(table, attribute)
	return b.execGenerated(ctx, stmt, err)
}

// RenameColumn renames the column.
func (b *Base) RenameColumn(ctx context.Context, table TableName, before string, after string) error {
	_, err := b.exec(ctx, b.Provider.RenameColumnQuery(table, before, after), RAW)
	return err
}

// AddIndex creates an index. The name is generated if it is not set.
func (b *Base) AddIndex(ctx context.Context, table TableName, opts IndexOptions) error {
	stmt, err := b.Provider.AddIndexQuery(table, opts)
	return b.execGenerated(ctx, stmt, err)
}

// ShowIndex returns all indexes of the table.
func (b *Base) ShowIndex(ctx context.Context, table TableName) ([]Index, error) {
	return b.Provider.Information(table).Indexes(ctx)
}

// RemoveIndex drops an index by its name.
// If more than one argument is given, they are handled as fields and the generated name is used.
func (b *Base) RemoveIndex(ctx context.Context, table TableName, nameOrFields ...string) error {
	if len(nameOrFields) == 0 {
		return fmt.Errorf(ErrValueMissing, "index", table.String())
	}
	name := nameOrFields[0]
	if len(nameOrFields) > 1 {
		name = NameIndex(table, IndexOptions{Fields: Fields(nameOrFields...)})
	}
	_, err := b.exec(ctx, b.Provider.RemoveIndexQuery(table, name), RAW)
	return err
}

// AddConstraint adds a constraint to the table.
func (b *Base) AddConstraint(ctx context.Context, table TableName, c Constraint) error {
	stmt, err := b.Provider.AddConstraintQuery(table, c)
	return b.execGenerated(ctx, stmt, err)
}

// ShowConstraint returns the constraints of the table, filtered by name if set.
func (b *Base) ShowConstraint(ctx context.Context, table TableName, name string) ([]ConstraintInfo, error) {
	return b.Provider.Information(table).Constraints(ctx, name)
}

// RemoveConstraint drops the constraint.
func (b *Base) RemoveConstraint(ctx context.Context, table TableName, name string) error {
	_, err := b.exec(ctx, b.Provider.RemoveConstraintQuery(table, name), RAW)
	return err
}

// GetForeignKeyReferencesForTable returns all foreign keys of the table.
func (b *Base) GetForeignKeyReferencesForTable(ctx context.Context, table TableName) ([]ForeignKey, error) {
	return b.Provider.Information(table).ForeignKeys(ctx)
}

// GetForeignKeysForTables returns the foreign key names by table.
func (b *Base) GetForeignKeysForTables(ctx context.Context, tables ...TableName) (map[string][]string, error) {
	rv := make(map[string][]string, len(tables))
	for _, t := range tables {
		fks, err := b.Provider.GetForeignKeyReferencesForTable(ctx, t)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(fks))
		for _, fk := range fks {
			names = append(names, fk.Name)
		}
		rv[t.String()] = slicer.Unique(names)
	}
	return rv, nil
}

// Insert a single row.
// The ID is the last insert id of the driver or the returned id column.
func (b *Base) Insert(ctx context.Context, table TableName, values map[string]interface{}, opts InsertOptions) (InsertResult, error) {
	if len(values) == 0 {
		return InsertResult{}, fmt.Errorf(ErrValueMissing, "insert", table.String())
	}
	if opts.Type == "" {
		opts.Type = INSERT
	}
	return b.Provider.InsertBuilder(table).
		Values([]map[string]interface{}{values}).
		Ignore(opts.IgnoreDuplicates).
		Returning(opts.Returning...).
		Exec(ctx, opts.QueryOptions)
}

// Upsert inserts the row or updates the updateValues columns with the inserted values on a conflict.
// If no conflict fields are set, id is used if it is part of the values.
// Created is only valid for dialects which report it.
func (b *Base) Upsert(ctx context.Context, table TableName, insertValues map[string]interface{}, updateValues map[string]interface{}, opts UpsertOptions) (InsertResult, null.Bool, error) {
	if len(insertValues) == 0 {
		return InsertResult{}, null.Bool{}, fmt.Errorf(ErrValueMissing, "upsert", table.String())
	}

	conflict := OnConflict{Fields: opts.ConflictFields, Update: columnsOf(updateValues)}
	if len(conflict.Fields) == 0 {
		if _, ok := insertValues["id"]; ok {
			conflict.Fields = []string{"id"}
		}
	}
	if len(conflict.Update) == 0 {
		conflict.DoNothing = true
	}

	if opts.Type == "" {
		opts.Type = UPSERT
	}
	res, err := b.Provider.InsertBuilder(table).
		Values([]map[string]interface{}{insertValues}).
		OnConflict(conflict).
		Returning(opts.Returning...).
		Exec(ctx, opts.QueryOptions)
	if err != nil {
		return InsertResult{}, null.Bool{}, err
	}

	if !b.Provider.Features().UpsertCreated {
		return res, null.Bool{}, nil
	}
	return res, null.BoolFrom(res.RowsAffected == 1), nil
}

// BulkInsert inserts all rows in batches.
func (b *Base) BulkInsert(ctx context.Context, table TableName, rows []map[string]interface{}, opts BulkInsertOptions) (InsertResult, error) {
	if opts.Type == "" {
		opts.Type = INSERT
	}
	builder := b.Provider.InsertBuilder(table).
		Values(rows).
		Batch(opts.Batch).
		Ignore(opts.IgnoreDuplicates).
		Returning(opts.Returning...)
	if len(opts.UpdateOnDuplicate) > 0 {
		builder.OnConflict(OnConflict{Fields: opts.ConflictFields, Update: opts.UpdateOnDuplicate})
	}
	return builder.Exec(ctx, opts.QueryOptions)
}

// Update the rows matching the condition.
func (b *Base) Update(ctx context.Context, table TableName, values map[string]interface{}, where condition.Condition, opts UpdateOptions) (Result, error) {
	if opts.Type == "" {
		opts.Type = UPDATE
	}
	return b.update(ctx, table, values, where, opts)
}

// BulkUpdate updates all rows matching the condition.
func (b *Base) BulkUpdate(ctx context.Context, table TableName, values map[string]interface{}, where condition.Condition, opts UpdateOptions) (Result, error) {
	if opts.Type == "" {
		opts.Type = BULKUPDATE
	}
	return b.update(ctx, table, values, where, opts)
}

func (b *Base) update(ctx context.Context, table TableName, values map[string]interface{}, where condition.Condition, opts UpdateOptions) (Result, error) {
	return b.Provider.UpdateBuilder(table).
		Set(values).
		Condition(where).
		Returning(opts.Returning...).
		Limit(opts.Limit).
		Exec(ctx, opts.QueryOptions)
}

// Delete the rows matching the condition and returns the number of deleted rows.
func (b *Base) Delete(ctx context.Context, table TableName, where condition.Condition, opts DeleteOptions) (int64, error) {
	if opts.Type == "" {
		opts.Type = DELETE
	}
	res, err := b.Provider.DeleteBuilder(table).Condition(where).Limit(opts.Limit).Exec(ctx, opts.QueryOptions)
	return res.RowsAffected, err
}

// BulkDelete deletes all rows matching the condition or truncates the table.
func (b *Base) BulkDelete(ctx context.Context, table TableName, where condition.Condition, opts DeleteOptions) (int64, error) {
	if opts.Type == "" {
		opts.Type = BULKDELETE
	}
	if opts.Truncate {
		res, err := b.Provider.Run(ctx, b.Provider.TruncateQuery(table, opts), nil, opts.QueryOptions)
		return res.RowsAffected, err
	}
	res, err := b.Provider.DeleteBuilder(table).Condition(where).Limit(opts.Limit).Exec(ctx, opts.QueryOptions)
	return res.RowsAffected, err
}

// Select returns all rows.
// The rows are hydrated into the model, if set.
// If the table is not set, it is derived from the model type name.
func (b *Base) Select(ctx context.Context, table TableName, opts SelectOptions) ([]map[string]interface{}, error) {
	if table.IsZero() && opts.Model != nil {
		table = ModelTable(opts.Model)
	}
	c := condition.New()
	if opts.Where != nil {
		c = opts.Where.Copy()
	}
	if len(opts.Order) > 0 {
		c.SetOrder(opts.Order...)
	}
	if len(opts.Group) > 0 {
		c.SetGroup(opts.Group...)
	}
	if opts.Having != nil {
		if err := opts.Having.Error(); err != nil {
			return nil, err
		}
		having := append(append([]condition.Clause(nil), opts.Having.Where()...), opts.Having.Having()...)
		for _, h := range having {
			c.SetHaving(h.Condition(), h.Arguments()...)
		}
	}
	if opts.Limit > 0 {
		c.SetLimit(opts.Limit)
	}
	if opts.Offset > 0 {
		c.SetOffset(opts.Offset)
	}
	if opts.Type == "" {
		opts.Type = SELECT
	}
	return b.Provider.SelectBuilder(table).Columns(opts.Attributes...).Condition(c).All(ctx, opts.QueryOptions)
}

// Increment adds the amounts to the columns of the matching rows.
// Extra values are set as well.
func (b *Base) Increment(ctx context.Context, table TableName, where condition.Condition, amounts map[string]interface{}, extra map[string]interface{}, opts IncrementOptions) (Result, error) {
	return b.increment(ctx, table, where, amounts, extra, opts, "+")
}

// Decrement subtracts the amounts from the columns of the matching rows.
func (b *Base) Decrement(ctx context.Context, table TableName, where condition.Condition, amounts map[string]interface{}, extra map[string]interface{}, opts IncrementOptions) (Result, error) {
	return b.increment(ctx, table, where, amounts, extra, opts, "-")
}

func (b *Base) increment(ctx context.Context, table TableName, where condition.Condition, amounts map[string]interface{}, extra map[string]interface{}, opts IncrementOptions, op string) (Result, error) {
	values := make(map[string]interface{}, len(amounts)+len(extra))
	for k, v := range extra {
		values[k] = v
	}
	for col, amount := range amounts {
		quoted := b.Provider.QuoteIdentifier(col)
		values[col] = types.Literal(quoted + " " + op + " " + b.Provider.Escape(amount))
	}
	if opts.Type == "" {
		opts.Type = UPDATE
	}
	return b.Provider.UpdateBuilder(table).
		Set(values).
		Condition(where).
		Returning(opts.Returning...).
		Exec(ctx, opts.QueryOptions)
}

// RawSelect returns the value of the attribute of the first row, or nil if no row exists.
func (b *Base) RawSelect(ctx context.Context, table TableName, opts SelectOptions, attribute string) (interface{}, error) {
	if len(opts.Attributes) == 0 {
		opts.Attributes = []string{attribute}
	}
	opts.Plain = true
	opts.Raw = true
	opts.Model = nil
	rows, err := b.Provider.Select(ctx, table, opts)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	row := rows[0]
	if v, ok := row[attribute]; ok {
		return v, nil
	}
	if len(row) == 1 {
		for _, v := range row {
			return v, nil
		}
	}
	return nil, fmt.Errorf(ErrColumn, attribute, table.String())
}

// CreateTrigger creates the trigger.
func (b *Base) CreateTrigger(ctx context.Context, trigger Trigger) error {
	stmt, err := b.Provider.CreateTriggerQuery(trigger)
	return b.execGenerated(ctx, stmt, err)
}

// DropTrigger drops the trigger.
func (b *Base) DropTrigger(ctx context.Context, table TableName, name string) error {
	stmt, err := b.Provider.DropTriggerQuery(table, name)
	return b.execGenerated(ctx, stmt, err)
}

// RenameTrigger renames the trigger.
func (b *Base) RenameTrigger(ctx context.Context, table TableName, before string, after string) error {
	stmt, err := b.Provider.RenameTriggerQuery(table, before, after)
	return b.execGenerated(ctx, stmt, err)
}

// CreateFunction creates or replaces the function.
func (b *Base) CreateFunction(ctx context.Context, fn Function) error {
	stmt, err := b.Provider.CreateFunctionQuery(fn)
	return b.execGenerated(ctx, stmt, err)
}

// DropFunction drops the function.
func (b *Base) DropFunction(ctx context.Context, name string, params []FunctionParam) error {
	stmt, err := b.Provider.DropFunctionQuery(name, params)
	return b.execGenerated(ctx, stmt, err)
}

// RenameFunction renames the function.
func (b *Base) RenameFunction(ctx context.Context, before string, params []FunctionParam, after string) error {
	stmt, err := b.Provider.RenameFunctionQuery(before, params, after)
	return b.execGenerated(ctx, stmt, err)
}

// stringColumn returns the column of all rows as string.
func stringColumn(rows []map[string]interface{}, column string) []string {
	rv := make([]string, 0, len(rows))
	for _, row := range rows {
		v, ok := row[column]
		if !ok {
			v, ok = row[strings.ToUpper(column)]
		}
		if ok && v != nil {
			rv = append(rv, fmt.Sprint(v))
		}
	}
	return rv
}
