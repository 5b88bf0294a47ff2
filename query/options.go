// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"github.com/patrickascher/queryinterface/logger"
	"github.com/patrickascher/queryinterface/query/condition"
)

// Query types.
const (
	SELECT          = "SELECT"
	INSERT          = "INSERT"
	UPDATE          = "UPDATE"
	BULKUPDATE      = "BULKUPDATE"
	BULKDELETE      = "BULKDELETE"
	DELETE          = "DELETE"
	UPSERT          = "UPSERT"
	RAW             = "RAW"
	DESCRIBE        = "DESCRIBE"
	SHOWTABLES      = "SHOWTABLES"
	SHOWINDEXES     = "SHOWINDEXES"
	VERSION         = "VERSION"
	FOREIGNKEYS     = "FOREIGNKEYS"
	SHOWCONSTRAINTS = "SHOWCONSTRAINTS"
)

// QueryOptions control how a statement is executed and how the result is shaped.
type QueryOptions struct {
	// Type of the query, RAW is used if empty.
	Type string
	// Raw skips the model hydration.
	Raw bool
	// Nest converts "a.b" keys into nested maps.
	Nest bool
	// Plain returns only the first row.
	Plain bool
	// Replacements are escaped and inlined into the statement.
	// map[string]interface{} for :name or []interface{} for ? placeholders.
	Replacements interface{}
	// Bind values are passed to the driver.
	// map[string]interface{} for $name or []interface{} for $1 placeholders.
	Bind interface{}
	// Model is a ptr to a struct or slice of structs which gets hydrated with the result.
	Model interface{}
	Retry *Retry
	// Logging overrides the logger of the dialect.
	Logging     logger.Manager
	Benchmark   bool
	Transaction *Transaction
	// UseMaster is a connection pool hint, it is added to the log entry.
	UseMaster bool
}

// DatabaseOptions for CreateDatabase.
type DatabaseOptions struct {
	Charset  string
	Collate  string
	Encoding string
	Template string
	Ctype    string
}

// TableOptions for CreateTable.
type TableOptions struct {
	Engine               string
	Charset              string
	Collate              string
	Comment              string
	RowFormat            string
	InitialAutoIncrement int
	// UniqueKeys are composite unique keys by name.
	UniqueKeys map[string][]string
}

// DropOptions for DropTable and DropAllTables.
type DropOptions struct {
	Cascade bool
	// Skip tables on DropAllTables.
	Skip []string
}

// InsertOptions for Insert.
type InsertOptions struct {
	Returning        []string
	IgnoreDuplicates bool
	QueryOptions
}

// UpsertOptions for Upsert.
type UpsertOptions struct {
	ConflictFields []string
	Returning      []string
	QueryOptions
}

// BulkInsertOptions for BulkInsert.
type BulkInsertOptions struct {
	// Batch size, default 50.
	Batch             int
	IgnoreDuplicates  bool
	UpdateOnDuplicate []string
	ConflictFields    []string
	Returning         []string
	QueryOptions
}

// UpdateOptions for Update and BulkUpdate.
type UpdateOptions struct {
	Returning []string
	Limit     int
	QueryOptions
}

// DeleteOptions for Delete and BulkDelete.
type DeleteOptions struct {
	Limit           int
	Truncate        bool
	Cascade         bool
	RestartIdentity bool
	QueryOptions
}

// SelectOptions for Select and RawSelect.
// Order, Group, Having, Limit and Offset are merged into a copy of the Where condition.
type SelectOptions struct {
	Attributes []string
	Where      condition.Condition
	Order      []string
	Group      []string
	// Having clauses are added to the HAVING of the statement. Its where and having clauses are used.
	Having condition.Condition
	Limit  int
	Offset int
	QueryOptions
}

// IncrementOptions for Increment and Decrement.
type IncrementOptions struct {
	Returning []string
	QueryOptions
}

// OnConflict describes the conflict handling of an insert.
type OnConflict struct {
	Fields    []string
	DoNothing bool
	// Update are the columns which get updated with the inserted value.
	Update []string
}

// InsertResult of Insert, Upsert and BulkInsert.
type InsertResult struct {
	ID           int64
	Rows         []map[string]interface{}
	RowsAffected int64
}

// Result of an executed statement.
type Result struct {
	Rows         []map[string]interface{}
	RowsAffected int64
	LastInsertID int64
}
