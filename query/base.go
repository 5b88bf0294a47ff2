// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/patrickascher/queryinterface/logger"
	"github.com/patrickascher/queryinterface/query/condition"
)

// Base struct includes the configuration, logger and the statement execution.
// The QueryInterface operations are implemented on Base and can be overwritten by the dialect.
type Base struct {
	db       *sql.DB
	Config   Config
	Logger   logger.Manager
	Provider Provider
}

// executor is implemented by *sql.DB and *sql.Conn.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// SetDB sets the *sql.DB.
func (b *Base) SetDB(db *sql.DB) {
	b.db = db
}

// DB returns the *sql.DB.
func (b *Base) DB() *sql.DB {
	return b.db
}

// SetLogger sets the logger for all statements.
func (b *Base) SetLogger(l logger.Manager) {
	b.Logger = l
}

// Name of the dialect.
func (b *Base) Name() string {
	return b.Config.Provider
}

// Open will set some basic sql Settings and check the connection.
// all defined config.PreQuery will run here.
func (b *Base) Open() error {

	if b.db == nil {
		return ErrDbNotSet
	}

	// settings
	b.db.SetMaxIdleConns(b.Config.MaxIdleConnections) // go default 2
	b.db.SetMaxOpenConns(b.Config.MaxOpenConnections) // go default 0
	b.db.SetConnMaxLifetime(b.Config.MaxConnLifetime) // go default 0

	timeout, err := b.Config.TimeoutDuration()
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// check connection
	if err = b.db.PingContext(ctx); err != nil {
		return b.Provider.FormatError(err, "")
	}

	// add pre query
	for _, v := range b.Config.PreQuery {
		if _, err = b.db.ExecContext(ctx, v); err != nil {
			return fmt.Errorf("query: %w", err)
		}
	}

	return nil
}

// Close the database.
func (b *Base) Close() error {
	if b.db == nil {
		return ErrDbNotSet
	}
	return b.db.Close()
}

// Query runs a raw statement.
// Replacements are escaped and inlined, bind parameters are passed to the driver.
func (b *Base) Query(ctx context.Context, stmt string, opts QueryOptions) (Result, error) {
	if opts.Replacements != nil && opts.Bind != nil {
		return Result{}, ErrBindMismatch
	}

	var err error
	if opts.Replacements != nil {
		if stmt, err = FormatReplacements(stmt, opts.Replacements, b.Provider.Escape); err != nil {
			return Result{}, err
		}
	}
	var args []interface{}
	if opts.Bind != nil {
		if stmt, args, err = FormatBind(stmt, opts.Bind, b.Provider.Placeholder()); err != nil {
			return Result{}, err
		}
	}
	if opts.Type == "" {
		opts.Type = RAW
	}
	return b.Run(ctx, stmt, args, opts)
}

// Run executes the statement in the transaction of the options or context.
// The statement is logged on DEBUG with its duration and retried by the retry policy.
func (b *Base) Run(ctx context.Context, stmt string, args []interface{}, opts QueryOptions) (Result, error) {
	ex, tx, err := b.executor(ctx, opts)
	if err != nil {
		return Result{}, err
	}

	retry := b.Config.Retry
	if opts.Retry != nil {
		if err = opts.Retry.validate(); err != nil {
			return Result{}, err
		}
		retry = *opts.Retry
	}

	var res Result
	for attempt := 0; ; attempt++ {
		log := b.statementLogger(opts, tx, args)
		res, err = execute(ctx, ex, stmt, args, opts.Type)
		if err == nil {
			b.logStatement(log, opts, stmt, nil)
			break
		}
		err = b.Provider.FormatError(err, stmt)
		b.logStatement(log, opts, stmt, err)
		if !retry.retryable(err, attempt) {
			return Result{}, err
		}
		if log != nil {
			log.Warning("retry %d/%d: %s", attempt+1, retry.Max, err.Error())
		}
		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(retry.delay(attempt)):
		}
	}

	return shape(res, opts)
}

// executor returns the connection of the transaction or the *sql.DB.
func (b *Base) executor(ctx context.Context, opts QueryOptions) (executor, *Transaction, error) {
	tx := opts.Transaction
	if tx == nil {
		tx = TransactionFromContext(ctx)
	}
	if tx != nil {
		if err := tx.checkOpen(); err != nil {
			return nil, nil, err
		}
		return tx.root().conn, tx, nil
	}
	if b.db == nil {
		return nil, nil, ErrDbNotSet
	}
	return b.db, nil, nil
}

// statementLogger returns a logger with the statement fields and a timer.
func (b *Base) statementLogger(opts QueryOptions, tx *Transaction, args []interface{}) logger.Manager {
	l := opts.Logging
	if l == nil {
		l = b.Logger
	}
	if l == nil {
		return nil
	}

	typ := opts.Type
	if typ == "" {
		typ = RAW
	}
	fields := logger.Fields{"dialect": b.Config.Provider, "type": typ}
	if tx != nil {
		fields["tx"] = tx.ID
	}
	if opts.UseMaster {
		fields["master"] = true
	}
	if b.Config.Debug && len(args) > 0 {
		fields["args"] = args
	}
	return l.WithFields(fields).WithTimer()
}

// logStatement logs on DEBUG or INFO if benchmarking is enabled.
func (b *Base) logStatement(log logger.Manager, opts QueryOptions, stmt string, err error) {
	if log == nil {
		return
	}
	if err != nil {
		log = log.WithFields(logger.Fields{"error": err.Error()})
	}
	if opts.Benchmark {
		log.Info(stmt)
		return
	}
	log.Debug(stmt)
}

// rowStatement matches statements which return rows.
var rowStatement = regexp.MustCompile(`(?is)^\s*(SELECT|SHOW|PRAGMA|WITH|DESCRIBE|DESC|EXPLAIN|VALUES)\b`)

// returningClause matches a RETURNING clause, quoted strings must be removed before.
var returningClause = regexp.MustCompile(`(?i)\bRETURNING\b`)

// returnsRows reports if the statement must be queried instead of executed.
func returnsRows(typ string, stmt string) bool {
	switch typ {
	case SELECT, DESCRIBE, SHOWTABLES, SHOWINDEXES, VERSION, FOREIGNKEYS, SHOWCONSTRAINTS:
		return true
	}
	return rowStatement.MatchString(stmt) || returningClause.MatchString(unquoted(stmt))
}

// unquoted replaces quoted strings and identifiers of the statement by a space.
func unquoted(stmt string) string {
	var b strings.Builder
	for i := 0; i < len(stmt); i++ {
		switch c := stmt[i]; c {
		case '\'', '"', '`':
			i = condition.QuoteEnd(stmt, i) - 1
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// execute runs the statement on the executor.
func execute(ctx context.Context, ex executor, stmt string, args []interface{}, typ string) (Result, error) {
	var res Result
	if returnsRows(typ, stmt) {
		rows, err := ex.QueryContext(ctx, stmt, args...)
		if err != nil {
			return res, err
		}
		defer rows.Close()
		res.Rows, err = scanRows(rows)
		if err != nil {
			return res, err
		}
		res.RowsAffected = int64(len(res.Rows))
		return res, nil
	}

	r, err := ex.ExecContext(ctx, stmt, args...)
	if err != nil {
		return res, err
	}
	res.RowsAffected, _ = r.RowsAffected()
	// not every driver supports it.
	if id, err := r.LastInsertId(); err == nil {
		res.LastInsertID = id
	}
	return res, nil
}
