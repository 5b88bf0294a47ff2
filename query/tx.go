// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/segmentio/ksuid"
)

// Error messages.
var (
	ErrNoTx = errors.New("query: no tx exists")
)

// Isolation levels.
const (
	ReadUncommitted = "READ UNCOMMITTED"
	ReadCommitted   = "READ COMMITTED"
	RepeatableRead  = "REPEATABLE READ"
	Serializable    = "SERIALIZABLE"
)

// Transaction types (sqlite).
const (
	Deferred  = "DEFERRED"
	Immediate = "IMMEDIATE"
	Exclusive = "EXCLUSIVE"
)

// finish states.
const (
	committed  = "commit"
	rolledBack = "rollback"
)

// TransactionOptions for StartTransaction.
type TransactionOptions struct {
	Isolation string `validate:"omitempty,oneof='READ UNCOMMITTED' 'READ COMMITTED' 'REPEATABLE READ' SERIALIZABLE"`
	ReadOnly  bool
	// Type of a sqlite transaction.
	Type string `validate:"omitempty,oneof=DEFERRED IMMEDIATE EXCLUSIVE"`
	// Parent creates a savepoint in the parent transaction.
	Parent *Transaction
	// Deferrable defers the DeferredConstraints or all constraints if none are set (postgres).
	Deferrable          bool
	DeferredConstraints []string
	// Autocommit mode of the session (mysql).
	Autocommit *bool
}

// Transaction is a unit of work on a single connection.
// A nested transaction is a savepoint of its parent and shares the connection.
type Transaction struct {
	ID      string
	Options TransactionOptions

	parent  *Transaction
	conn    *sql.Conn
	session bool

	mu          sync.Mutex
	finished    string
	afterCommit []func(*Transaction)
}

// newTransaction creates a transaction with a unique id.
func newTransaction(opts TransactionOptions) *Transaction {
	return &Transaction{ID: ksuid.New().String(), Options: opts, parent: opts.Parent}
}

// Parent returns the parent transaction or nil.
func (t *Transaction) Parent() *Transaction {
	return t.parent
}

// IsNested reports if the transaction is a savepoint.
func (t *Transaction) IsNested() bool {
	return t.parent != nil
}

// Finished returns "commit" or "rollback" once the transaction is done, otherwise an empty string.
func (t *Transaction) Finished() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

// AfterCommit adds a hook which is called after a successful commit.
// Hooks of a nested transaction are called when the outermost transaction commits.
func (t *Transaction) AfterCommit(fn func(*Transaction)) {
	t.mu.Lock()
	t.afterCommit = append(t.afterCommit, fn)
	t.mu.Unlock()
}

// root returns the outermost transaction.
func (t *Transaction) root() *Transaction {
	for t.parent != nil {
		t = t.parent
	}
	return t
}

// checkOpen returns an error if the transaction or one of its parents is finished.
func (t *Transaction) checkOpen() error {
	if t == nil {
		return ErrNoTx
	}
	for tx := t; tx != nil; tx = tx.parent {
		if tx.Finished() != "" {
			return ErrTxFinished
		}
	}
	return nil
}

// finish sets the final state and returns the hooks which must be called.
func (t *Transaction) finish(state string) []func(*Transaction) {
	t.mu.Lock()
	t.finished = state
	hooks := t.afterCommit
	t.afterCommit = nil
	t.mu.Unlock()

	if state != committed {
		return nil
	}
	// hooks of a savepoint are moved to the parent.
	if t.parent != nil {
		for _, h := range hooks {
			t.parent.AfterCommit(h)
		}
		return nil
	}
	return hooks
}

// txKey is the context key of the transaction.
type txKey struct{}

// ContextWithTransaction returns a context which carries the transaction.
// All operations which get this context run in the transaction.
func ContextWithTransaction(ctx context.Context, tx *Transaction) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TransactionFromContext returns the transaction of the context or nil.
func TransactionFromContext(ctx context.Context) *Transaction {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txKey{}).(*Transaction)
	return tx
}

// StartTransaction creates a new transaction on its own connection.
// If a parent is set, a savepoint is created instead.
// Isolation level, autocommit and deferred constraints are set if the dialect supports it.
func (b *Base) StartTransaction(ctx context.Context, opts TransactionOptions) (*Transaction, error) {
	if err := validate.Struct(opts); err != nil {
		return nil, wrapErr(err)
	}

	tx := newTransaction(opts)
	if tx.parent != nil {
		if err := tx.parent.checkOpen(); err != nil {
			return nil, err
		}
		tx.conn = tx.parent.root().conn
	} else {
		if b.db == nil {
			return nil, ErrDbNotSet
		}
		conn, err := b.db.Conn(ctx)
		if err != nil {
			return nil, b.Provider.FormatError(err, "")
		}
		tx.conn = conn
	}

	if err := b.beginTransaction(ctx, tx); err != nil {
		if tx.parent == nil {
			_ = tx.conn.Close()
		}
		tx.finish(rolledBack)
		return nil, err
	}
	return tx, nil
}

// beginTransaction runs all statements to start the transaction.
func (b *Base) beginTransaction(ctx context.Context, tx *Transaction) error {
	features := b.Provider.Features()
	opts := tx.Options
	var stmts []string

	if !tx.IsNested() {
		if opts.Autocommit != nil {
			stmts = append(stmts, b.Provider.SetAutocommitQuery(*opts.Autocommit))
		}
		if opts.Isolation != "" && features.IsolationBeforeBegin {
			stmts = append(stmts, b.Provider.SetIsolationLevelQuery(opts.Isolation, tx))
		}
	}
	stmts = append(stmts, b.Provider.StartTransactionQuery(tx))
	if !tx.IsNested() && opts.Isolation != "" && !features.IsolationBeforeBegin {
		stmts = append(stmts, b.Provider.SetIsolationLevelQuery(opts.Isolation, tx))
	}
	if opts.Deferrable {
		stmts = append(stmts, b.Provider.DeferConstraintsQuery(opts.DeferredConstraints))
	}

	for _, stmt := range stmts {
		if stmt == "" {
			continue
		}
		if _, err := b.Run(ctx, stmt, nil, QueryOptions{Transaction: tx}); err != nil {
			return err
		}
	}
	return nil
}

// SetIsolationLevel of a running transaction.
// Error will return if the dialect does not support it or the transaction is nested.
func (b *Base) SetIsolationLevel(ctx context.Context, tx *Transaction, level string) error {
	if err := tx.checkOpen(); err != nil {
		return err
	}
	stmt := b.Provider.SetIsolationLevelQuery(level, tx)
	if stmt == "" {
		return ErrNotSupported
	}
	_, err := b.Run(ctx, stmt, nil, QueryOptions{Transaction: tx})
	return err
}

// DeferConstraints defers the given or all constraints until the commit.
func (b *Base) DeferConstraints(ctx context.Context, tx *Transaction, constraints ...string) error {
	if err := tx.checkOpen(); err != nil {
		return err
	}
	stmt := b.Provider.DeferConstraintsQuery(constraints)
	if stmt == "" {
		return ErrNotSupported
	}
	_, err := b.Run(ctx, stmt, nil, QueryOptions{Transaction: tx})
	return err
}

// SetAutocommit of the transaction connection.
func (b *Base) SetAutocommit(ctx context.Context, tx *Transaction, autocommit bool) error {
	if err := tx.checkOpen(); err != nil {
		return err
	}
	stmt := b.Provider.SetAutocommitQuery(autocommit)
	if stmt == "" {
		return ErrNotSupported
	}
	_, err := b.Run(ctx, stmt, nil, QueryOptions{Transaction: tx})
	return err
}

// CommitTransaction commits the transaction or releases the savepoint.
// The after commit hooks are called on success.
// Error will return if the transaction was already finished.
func (b *Base) CommitTransaction(ctx context.Context, tx *Transaction) error {
	if err := tx.checkOpen(); err != nil {
		return err
	}
	_, err := b.Run(ctx, b.Provider.CommitTransactionQuery(tx), nil, QueryOptions{Transaction: tx})
	if err != nil {
		return err
	}

	hooks := tx.finish(committed)
	b.release(tx)
	for _, h := range hooks {
		h(tx)
	}
	return nil
}

// RollbackTransaction rolls back the transaction or to the savepoint.
// Error will return if the transaction was already finished.
func (b *Base) RollbackTransaction(ctx context.Context, tx *Transaction) error {
	if err := tx.checkOpen(); err != nil {
		return err
	}
	_, err := b.Run(ctx, b.Provider.RollbackTransactionQuery(tx), nil, QueryOptions{Transaction: tx})
	tx.finish(rolledBack)
	b.release(tx)
	return err
}

// release returns the connection of an outermost transaction to the pool.
func (b *Base) release(tx *Transaction) {
	if tx.parent == nil && tx.conn != nil {
		_ = tx.conn.Close()
	}
}

// Session runs fn on a single connection of the pool.
// If the context already carries a transaction, fn is called with it.
func (b *Base) Session(ctx context.Context, fn func(ctx context.Context) error) error {
	if TransactionFromContext(ctx) != nil {
		return fn(ctx)
	}
	if b.db == nil {
		return ErrDbNotSet
	}
	conn, err := b.db.Conn(ctx)
	if err != nil {
		return b.Provider.FormatError(err, "")
	}
	tx := newTransaction(TransactionOptions{})
	tx.conn = conn
	tx.session = true
	defer func() {
		tx.finish(committed)
		_ = conn.Close()
	}()
	return fn(ContextWithTransaction(ctx, tx))
}
