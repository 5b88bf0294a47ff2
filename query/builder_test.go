// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/patrickascher/queryinterface/query"
	"github.com/patrickascher/queryinterface/query/mocks"
	"github.com/patrickascher/queryinterface/registry"
	"github.com/stretchr/testify/assert"
)

// TestBuilder tests if the Register and New works correct.
func TestBuilder(t *testing.T) {
	asserts := assert.New(t)
	mock := new(mocks.Provider)

	var cfg query.Config
	testRegister(asserts, mock, &cfg)
	testNew(asserts, mock, &cfg)

	// check the mock expectations
	mock.AssertExpectations(t)
}

// testRegister registers a mock and error mock instance.
func testRegister(asserts *assert.Assertions, mock query.Provider, cfg *query.Config) {
	err := query.Register("mock", func(c query.Config) (query.Provider, error) {
		*cfg = c
		return mock, nil
	})
	asserts.NoError(err)

	err = query.Register("mockErr", func(query.Config) (query.Provider, error) { return nil, errors.New("an error") })
	asserts.NoError(err)

	asserts.Contains(query.Dialects(), "mock")
	asserts.Contains(query.Dialects(), "mockErr")
}

// testNew tests:
// - error if the provider does not exist.
// - error if the config is invalid.
// - error if the provider factory returns one.
// - error if the provider.Open() function returns one.
// - correct set and config defaults.
// - DbExpr quote function.
func testNew(asserts *assert.Assertions, mock *mocks.Provider, cfg *query.Config) {

	// error: query provider does not exist.
	builder, err := query.New("mock-does-not-exist", query.Config{})
	asserts.Error(err)
	asserts.Equal(fmt.Sprintf(registry.ErrUnknownEntry, "query_mock-does-not-exist"), errors.Unwrap(err).Error())
	asserts.Nil(builder)

	// error: invalid config
	builder, err = query.New("mock", query.Config{Port: 70000})
	asserts.Error(err)
	asserts.Nil(builder)

	// error: invalid timeout
	builder, err = query.New("mock", query.Config{Timeout: "soon"})
	asserts.Error(err)
	asserts.Nil(builder)

	// error: provider factory function returns an error
	builder, err = query.New("mockErr", query.Config{})
	asserts.Error(err)
	asserts.Equal("an error", errors.Unwrap(err).Error())
	asserts.Nil(builder)

	// error: provider open function returns an error
	mock.On("Open").Once().Return(errors.New("an error"))
	builder, err = query.New("mock", query.Config{})
	asserts.Error(err)
	asserts.Equal("an error", errors.Unwrap(err).Error())
	asserts.Nil(builder)

	// ok
	mock.On("Open").Once().Return(nil)
	builder, err = query.New("mock", query.Config{Timeout: "1m"})
	asserts.NoError(err)
	asserts.NotNil(builder)

	// defaults are merged
	asserts.Equal("mock", cfg.Provider)
	asserts.Equal("1m", cfg.Timeout)
	asserts.Equal(2, cfg.MaxIdleConnections)
	asserts.Equal("100ms", cfg.Retry.Backoff)

	// SetLogger
	mock.On("SetLogger", nil).Once()
	builder.SetLogger(nil)

	// Query
	mock.On("Query", context.Background(), "SELECT 1", query.QueryOptions{}).Once().Return(query.Result{RowsAffected: 1}, nil)
	res, err := builder.Query(context.Background(), "SELECT 1", query.QueryOptions{})
	asserts.NoError(err)
	asserts.Equal(int64(1), res.RowsAffected)

	// Config
	mock.On("Config").Once().Return(query.Config{})
	asserts.Equal(query.Config{}, builder.Config())

	// QuoteIdentifier
	mock.On("QuoteIdentifier", "test").Once().Return("`test`")
	asserts.Equal("`test`", builder.QuoteIdentifier("test"))

	// DB Expr
	asserts.Equal("!test", query.DbExpr("test"))
}
