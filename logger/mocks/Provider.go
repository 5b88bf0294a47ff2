// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mocks

import (
	"github.com/patrickascher/queryinterface/logger"
	"github.com/stretchr/testify/mock"
)

// Provider is a mock type for the logger.Provider type.
type Provider struct {
	mock.Mock
}

// Log provides a mock function with given fields: entry
func (_m *Provider) Log(entry logger.Entry) {
	_m.Called(entry)
}
