// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTransaction_finish tests:
// - the finished state.
// - hooks of a savepoint are moved to the parent.
// - hooks are dropped on rollback.
func TestTransaction_finish(t *testing.T) {
	asserts := assert.New(t)

	root := newTransaction(TransactionOptions{})
	nested := newTransaction(TransactionOptions{Parent: root})
	asserts.NotEqual(root.ID, nested.ID)
	asserts.True(nested.IsNested())
	asserts.Equal(root, nested.root())

	var called []string
	root.AfterCommit(func(*Transaction) { called = append(called, "root") })
	nested.AfterCommit(func(*Transaction) { called = append(called, "nested") })

	asserts.Nil(nested.finish(committed))
	asserts.Equal(committed, nested.Finished())
	asserts.Equal(ErrTxFinished, nested.checkOpen())
	asserts.NoError(root.checkOpen())

	hooks := root.finish(committed)
	asserts.Equal(2, len(hooks))
	for _, h := range hooks {
		h(root)
	}
	asserts.Equal([]string{"root", "nested"}, called)

	// rollback
	tx := newTransaction(TransactionOptions{})
	tx.AfterCommit(func(*Transaction) { called = append(called, "tx") })
	asserts.Nil(tx.finish(rolledBack))
	asserts.Equal(rolledBack, tx.Finished())

	// a savepoint of a finished parent is finished as well
	child := newTransaction(TransactionOptions{Parent: tx})
	asserts.Equal(ErrTxFinished, child.checkOpen())

	// every ancestor is checked
	parent := newTransaction(TransactionOptions{})
	child = newTransaction(TransactionOptions{Parent: parent})
	grandchild := newTransaction(TransactionOptions{Parent: child})
	asserts.NoError(grandchild.checkOpen())
	asserts.Nil(parent.finish(rolledBack))
	asserts.Equal("", child.Finished())
	asserts.Equal(ErrTxFinished, grandchild.checkOpen())

	var none *Transaction
	asserts.Equal(ErrNoTx, none.checkOpen())
}

// TestTransaction_context tests the transaction of a context.
func TestTransaction_context(t *testing.T) {
	asserts := assert.New(t)

	asserts.Nil(TransactionFromContext(bg))

	tx := newTransaction(TransactionOptions{})
	ctx := ContextWithTransaction(bg, tx)
	asserts.Equal(tx, TransactionFromContext(ctx))

	// executor fails on a finished transaction
	a := newAnsi(Features{})
	tx.finish(committed)
	_, _, err := a.executor(ctx, QueryOptions{})
	asserts.Equal(ErrTxFinished, err)

	// no db is set
	_, _, err = a.executor(bg, QueryOptions{})
	asserts.Equal(ErrDbNotSet, err)
	_, err = a.StartTransaction(bg, TransactionOptions{})
	asserts.Equal(ErrDbNotSet, err)
	asserts.Equal(ErrDbNotSet, a.Session(bg, nil))

	// invalid options
	_, err = a.StartTransaction(bg, TransactionOptions{Isolation: "unknown"})
	asserts.Error(err)
}
