// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mysql provides the mysql dialect. It is registered as "mysql".
package mysql

import (
	"database/sql"
	"net"
	"strconv"

	driver "github.com/go-sql-driver/mysql"
	"github.com/patrickascher/queryinterface/query"
)

type mysql struct {
	query.Base
	query.GeneratorBase
}

// init registers the provider under mysql.
func init() {
	err := query.Register("mysql", newMysql)
	if err != nil {
		panic(err)
	}
}

// newMysql creates a new query.Provider.
func newMysql(cfg query.Config) (query.Provider, error) {
	m := &mysql{}
	m.Base.Provider = m
	m.GeneratorBase.Provider = m
	m.Base.Config = cfg
	return m, nil
}

// Config returns the query.Config.
func (m *mysql) Config() query.Config {
	return m.Base.Config
}

// Features of mysql.
func (m *mysql) Features() query.Features {
	return query.Features{
		Databases:            true,
		Schemas:              true,
		InsertIgnore:         "IGNORE",
		UpsertCreated:        true,
		LimitOnUpdate:        true,
		IndexUsing:           true,
		IsolationBeforeBegin: true,
		Constraints:          []string{query.ConstraintUnique, query.ConstraintCheck, query.ConstraintPrimaryKey, query.ConstraintForeignKey, query.ConstraintDefault},
	}
}

// QuoteChar for mysql.
func (m *mysql) QuoteChar() string {
	return "`"
}

// Escape uses backslash escaping for strings.
func (m *mysql) Escape(value interface{}) string {
	return query.EscapeValue(value, query.EscapeBackslash, m.Escape)
}

// DSN of the config.
func (m *mysql) DSN() (string, error) {
	cfg := m.Base.Config
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return "", err
	}

	c := driver.NewConfig()
	c.User = cfg.Username
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Database
	c.ParseTime = true
	c.Timeout = timeout
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c.FormatDSN(), nil
}

// Open creates a new *sql.DB.
func (m *mysql) Open() error {
	dsn, err := m.DSN()
	if err != nil {
		return err
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}

	m.SetDB(db)

	// call base Open function.
	return m.Base.Open()
}

// Information will return a query.Information.
func (m *mysql) Information(table query.TableName) query.Information {
	return &information{table: table, mysql: m}
}
