// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"database/sql"

	"github.com/patrickascher/queryinterface/logger"
	"github.com/patrickascher/queryinterface/query/condition"
	"github.com/patrickascher/queryinterface/query/types"
	"gopkg.in/guregu/null.v4"
)

// QueryInterface is the dialect independent way to issue DDL and DML statements.
// All operations run in the transaction of QueryOptions or the context, if one is set.
type QueryInterface interface {
	Name() string
	Config() Config
	DB() *sql.DB
	Close() error
	SetLogger(logger.Manager)
	Features() Features

	QuoteIdentifier(name string) string
	QuoteIdentifiers(name string) string
	QuoteTable(table TableName) string
	Escape(value interface{}) string

	Query(ctx context.Context, stmt string, opts QueryOptions) (Result, error)

	CreateDatabase(ctx context.Context, name string, opts DatabaseOptions) error
	DropDatabase(ctx context.Context, name string) error
	CreateSchema(ctx context.Context, schema string) error
	DropSchema(ctx context.Context, schema string) error
	DropAllSchemas(ctx context.Context, skip ...string) error
	ShowAllSchemas(ctx context.Context) ([]string, error)
	DatabaseVersion(ctx context.Context) (string, error)

	CreateTable(ctx context.Context, table TableName, attributes []Attribute, opts TableOptions) error
	TableExists(ctx context.Context, table TableName) (bool, error)
	DropTable(ctx context.Context, table TableName, opts DropOptions) error
	DropAllTables(ctx context.Context, opts DropOptions) error
	DropAllEnums(ctx context.Context) error
	RenameTable(ctx context.Context, before TableName, after TableName) error
	ShowAllTables(ctx context.Context) ([]TableName, error)
	DescribeTable(ctx context.Context, table TableName) (map[string]Column, error)

	AddColumn(ctx context.Context, table TableName, attribute Attribute) error
	RemoveColumn(ctx context.Context, table TableName, column string) error
	ChangeColumn(ctx context.Context, table TableName, attribute Attribute) error
	RenameColumn(ctx context.Context, table TableName, before string, after string) error

	AddIndex(ctx context.Context, table TableName, opts IndexOptions) error
	ShowIndex(ctx context.Context, table TableName) ([]Index, error)
	RemoveIndex(ctx context.Context, table TableName, nameOrFields ...string) error

	AddConstraint(ctx context.Context, table TableName, c Constraint) error
	ShowConstraint(ctx context.Context, table TableName, name string) ([]ConstraintInfo, error)
	RemoveConstraint(ctx context.Context, table TableName, name string) error
	GetForeignKeyReferencesForTable(ctx context.Context, table TableName) ([]ForeignKey, error)
	GetForeignKeysForTables(ctx context.Context, tables ...TableName) (map[string][]string, error)

	Insert(ctx context.Context, table TableName, values map[string]interface{}, opts InsertOptions) (InsertResult, error)
	Upsert(ctx context.Context, table TableName, insertValues map[string]interface{}, updateValues map[string]interface{}, opts UpsertOptions) (InsertResult, null.Bool, error)
	BulkInsert(ctx context.Context, table TableName, rows []map[string]interface{}, opts BulkInsertOptions) (InsertResult, error)
	Update(ctx context.Context, table TableName, values map[string]interface{}, where condition.Condition, opts UpdateOptions) (Result, error)
	BulkUpdate(ctx context.Context, table TableName, values map[string]interface{}, where condition.Condition, opts UpdateOptions) (Result, error)
	Delete(ctx context.Context, table TableName, where condition.Condition, opts DeleteOptions) (int64, error)
	BulkDelete(ctx context.Context, table TableName, where condition.Condition, opts DeleteOptions) (int64, error)
	Select(ctx context.Context, table TableName, opts SelectOptions) ([]map[string]interface{}, error)
	Increment(ctx context.Context, table TableName, where condition.Condition, amounts map[string]interface{}, extra map[string]interface{}, opts IncrementOptions) (Result, error)
	Decrement(ctx context.Context, table TableName, where condition.Condition, amounts map[string]interface{}, extra map[string]interface{}, opts IncrementOptions) (Result, error)
	RawSelect(ctx context.Context, table TableName, opts SelectOptions, attribute string) (interface{}, error)

	CreateTrigger(ctx context.Context, trigger Trigger) error
	DropTrigger(ctx context.Context, table TableName, name string) error
	RenameTrigger(ctx context.Context, table TableName, before string, after string) error
	CreateFunction(ctx context.Context, fn Function) error
	DropFunction(ctx context.Context, name string, params []FunctionParam) error
	RenameFunction(ctx context.Context, before string, params []FunctionParam, after string) error

	StartTransaction(ctx context.Context, opts TransactionOptions) (*Transaction, error)
	SetIsolationLevel(ctx context.Context, tx *Transaction, level string) error
	DeferConstraints(ctx context.Context, tx *Transaction, constraints ...string) error
	SetAutocommit(ctx context.Context, tx *Transaction, autocommit bool) error
	CommitTransaction(ctx context.Context, tx *Transaction) error
	RollbackTransaction(ctx context.Context, tx *Transaction) error
	// Session runs fn on a single connection. Nothing happens if a transaction is already set.
	Session(ctx context.Context, fn func(ctx context.Context) error) error
}

// Provider is implemented by every dialect.
type Provider interface {
	QueryInterface
	Generator
	Open() error
	Information(table TableName) Information
	// FormatError classifies the driver error into a DatabaseError.
	FormatError(err error, stmt string) error
	// Run executes a rendered statement with dialect placeholders.
	Run(ctx context.Context, stmt string, args []interface{}, opts QueryOptions) (Result, error)
}

// Generator renders the dialect specific sql.
type Generator interface {
	Placeholder() condition.Placeholder
	QuoteChar() string
	QuoteIdentifier(name string) string
	QuoteIdentifiers(name string) string
	QuoteTable(table TableName) string
	Escape(value interface{}) string
	DefaultSQL(value interface{}) (string, bool)

	DataTypeSQL(dt types.DataType) (string, error)
	AttributeSQL(table TableName, attr Attribute, ctx AttributeContext) (string, error)
	ReferencesSQL(attr Attribute) string
	ConstraintSQL(table TableName, c Constraint) (string, error)

	CreateDatabaseQuery(name string, opts DatabaseOptions) (string, error)
	DropDatabaseQuery(name string) (string, error)
	CreateSchemaQuery(schema string) (string, error)
	DropSchemaQuery(schema string) (string, error)
	ShowSchemasQuery() (string, error)
	VersionQuery() string

	CreateTableQuery(table TableName, attributes []Attribute, opts TableOptions) (string, error)
	TableExistsQuery(table TableName) (string, []interface{})
	DropTableQuery(table TableName, opts DropOptions) string
	RenameTableQuery(before TableName, after TableName) string
	ShowTablesQuery() string
	TruncateQuery(table TableName, opts DeleteOptions) string

	AddColumnQuery(table TableName, attr Attribute) (string, error)
	RemoveColumnQuery(table TableName, column string) string
	ChangeColumnQuery(table TableName, attr Attribute) (string, error)
	RenameColumnQuery(table TableName, before string, after string) string

	AddIndexQuery(table TableName, opts IndexOptions) (string, error)
	RemoveIndexQuery(table TableName, name string) string
	AddConstraintQuery(table TableName, c Constraint) (string, error)
	RemoveConstraintQuery(table TableName, name string) string

	SelectBuilder(table TableName) Select
	InsertBuilder(table TableName) Insert
	UpdateBuilder(table TableName) Update
	DeleteBuilder(table TableName) Delete
	OnConflictSQL(conflict OnConflict) string
	ReturningSQL(columns []string) string
	// RowIdentifier is used for LIMIT on UPDATE and DELETE, if the dialect has no native support.
	RowIdentifier() string

	StartTransactionQuery(tx *Transaction) string
	SetIsolationLevelQuery(level string, tx *Transaction) string
	SetAutocommitQuery(autocommit bool) string
	DeferConstraintsQuery(constraints []string) string
	CommitTransactionQuery(tx *Transaction) string
	RollbackTransactionQuery(tx *Transaction) string

	CreateTriggerQuery(trigger Trigger) (string, error)
	DropTriggerQuery(table TableName, name string) (string, error)
	RenameTriggerQuery(table TableName, before string, after string) (string, error)
	CreateFunctionQuery(fn Function) (string, error)
	DropFunctionQuery(name string, params []FunctionParam) (string, error)
	RenameFunctionQuery(before string, params []FunctionParam, after string) (string, error)
}

// Information describes a table.
type Information interface {
	Describe(ctx context.Context) (map[string]Column, error)
	Indexes(ctx context.Context) ([]Index, error)
	Constraints(ctx context.Context, name string) ([]ConstraintInfo, error)
	ForeignKeys(ctx context.Context) ([]ForeignKey, error)
}

// Features of a dialect.
type Features struct {
	Databases bool
	Schemas   bool
	Returning bool
	// InsertIgnore is the keyword after INSERT, if empty ON CONFLICT DO NOTHING is used.
	InsertIgnore string
	// Upsert reports if the dialect reports created or updated rows.
	UpsertCreated     bool
	LimitOnUpdate     bool
	Triggers          bool
	Functions         bool
	EnumTypes         bool
	IndexConcurrently bool
	IndexUsing        bool
	PartialIndex      bool
	Deferrable        bool
	// IsolationBeforeBegin reports if the isolation level must be set before the transaction starts.
	IsolationBeforeBegin bool
	// Cascade reports if DROP TABLE and TRUNCATE support CASCADE.
	Cascade bool
	// Constraints which can be added with ALTER TABLE.
	Constraints []string
}

// AttributeContext defines where an attribute is rendered.
type AttributeContext int

// Attribute contexts.
const (
	CreateTableContext AttributeContext = iota + 1
	AddColumnContext
	ChangeColumnContext
)

// Select builder.
type Select interface {
	Columns(...string) Select
	Condition(c condition.Condition) Select
	Join(joinType int, table string, condition string, args ...interface{}) Select
	Where(condition string, args ...interface{}) Select
	Group(group ...string) Select
	Having(condition string, args ...interface{}) Select
	Order(order ...string) Select
	Limit(limit int) Select
	Offset(offset int) Select

	String() (string, []interface{}, error)
	First(ctx context.Context, opts QueryOptions) (map[string]interface{}, error)
	All(ctx context.Context, opts QueryOptions) ([]map[string]interface{}, error)
}

// Insert builder.
type Insert interface {
	Batch(int) Insert
	Columns(...string) Insert
	Values([]map[string]interface{}) Insert
	Returning(...string) Insert
	Ignore(bool) Insert
	OnConflict(OnConflict) Insert

	String() ([]string, [][]interface{}, error)
	Exec(ctx context.Context, opts QueryOptions) (InsertResult, error)
}

// Update builder.
type Update interface {
	Set(map[string]interface{}) Update
	Columns(...string) Update
	Condition(condition.Condition) Update
	Where(string, ...interface{}) Update
	Returning(...string) Update
	Limit(int) Update

	String() (string, []interface{}, error)
	Exec(ctx context.Context, opts QueryOptions) (Result, error)
}

// Delete builder.
type Delete interface {
	Condition(c condition.Condition) Delete
	Where(string, ...interface{}) Delete
	Limit(int) Delete

	String() (string, []interface{}, error)
	Exec(ctx context.Context, opts QueryOptions) (Result, error)
}
