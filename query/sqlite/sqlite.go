// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sqlite provides the sqlite3 dialect. It is registered as "sqlite".
//
// Schemas are emulated as table prefix: the table "admin.users" is stored as "admin_users".
// An in-memory database is used if no storage is configured.
package sqlite

import (
	"database/sql"
	"strconv"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/patrickascher/queryinterface/query"
)

// Memory is the storage of an in-memory database.
const Memory = ":memory:"

type sqlite struct {
	query.Base
	query.GeneratorBase
}

// init registers the provider under sqlite.
func init() {
	err := query.Register("sqlite", newSqlite)
	if err != nil {
		panic(err)
	}
}

// newSqlite creates a new query.Provider.
// An in-memory database only lives as long as its connection, so the pool is reduced to one connection.
func newSqlite(cfg query.Config) (query.Provider, error) {
	if cfg.Storage == "" {
		cfg.Storage = Memory
	}
	if cfg.Storage == Memory {
		cfg.MaxOpenConnections = 1
		cfg.MaxIdleConnections = 1
		cfg.MaxConnLifetime = 0
	}

	s := &sqlite{}
	s.Base.Provider = s
	s.GeneratorBase.Provider = s
	s.Base.Config = cfg
	return s, nil
}

// Config returns the query.Config.
func (s *sqlite) Config() query.Config {
	return s.Base.Config
}

// Features of sqlite.
func (s *sqlite) Features() query.Features {
	return query.Features{
		Returning:            true,
		InsertIgnore:         "OR IGNORE",
		PartialIndex:         true,
		IsolationBeforeBegin: true,
		Constraints:          []string{query.ConstraintUnique},
	}
}

// DSN of the config. Foreign keys are enabled and the timeout is used as busy timeout.
func (s *sqlite) DSN() (string, error) {
	timeout, err := s.Base.Config.TimeoutDuration()
	if err != nil {
		return "", err
	}
	return s.Base.Config.Storage + "?_foreign_keys=1&_busy_timeout=" + strconv.FormatInt(timeout.Milliseconds(), 10), nil
}

// Open creates a new *sql.DB.
func (s *sqlite) Open() error {
	dsn, err := s.DSN()
	if err != nil {
		return err
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}

	s.SetDB(db)

	// call base Open function.
	return s.Base.Open()
}

// Information will return a query.Information.
func (s *sqlite) Information(table query.TableName) query.Information {
	return &information{table: table, sqlite: s}
}

// tableName returns the name of the table in the database, with the schema as prefix.
func tableName(table query.TableName) string {
	if table.Schema != "" {
		return table.Schema + "_" + table.TableName
	}
	return table.TableName
}

// QuoteTable quotes the table with the schema as prefix.
func (s *sqlite) QuoteTable(table query.TableName) string {
	if table.Schema != "" && table.Delimiter == "" {
		table.Delimiter = "_"
	}
	return s.GeneratorBase.QuoteTable(table)
}
