// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mocks

import (
	"context"

	"github.com/patrickascher/queryinterface/logger"
	"github.com/patrickascher/queryinterface/query"
	"github.com/stretchr/testify/mock"
)

// Provider is a mock type for the query.Provider type.
// Only the mocked functions can be called, all other functions of the embedded interface panic.
type Provider struct {
	query.Provider
	mock.Mock
}

// Open provides a mock function with given fields:
func (_m *Provider) Open() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Config provides a mock function with given fields:
func (_m *Provider) Config() query.Config {
	ret := _m.Called()

	var r0 query.Config
	if rf, ok := ret.Get(0).(func() query.Config); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(query.Config)
	}

	return r0
}

// Name provides a mock function with given fields:
func (_m *Provider) Name() string {
	ret := _m.Called()
	return ret.String(0)
}

// SetLogger provides a mock function with given fields: _a0
func (_m *Provider) SetLogger(_a0 logger.Manager) {
	_m.Called(_a0)
}

// QuoteIdentifier provides a mock function with given fields: name
func (_m *Provider) QuoteIdentifier(name string) string {
	ret := _m.Called(name)
	return ret.String(0)
}

// Query provides a mock function with given fields: ctx, stmt, opts
func (_m *Provider) Query(ctx context.Context, stmt string, opts query.QueryOptions) (query.Result, error) {
	ret := _m.Called(ctx, stmt, opts)

	var r0 query.Result
	if rf, ok := ret.Get(0).(func(context.Context, string, query.QueryOptions) query.Result); ok {
		r0 = rf(ctx, stmt, opts)
	} else {
		r0 = ret.Get(0).(query.Result)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, query.QueryOptions) error); ok {
		r1 = rf(ctx, stmt, opts)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Close provides a mock function with given fields:
func (_m *Provider) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}
