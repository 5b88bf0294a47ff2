// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package config_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/patrickascher/queryinterface/config"
	"github.com/patrickascher/queryinterface/config/mocks"
	"github.com/patrickascher/queryinterface/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type dbConfig struct {
	Provider string `validate:"required"`
	Port     int    `validate:"gte=0"`
}

// TestLoad tests:
// - ptr check.
// - unknown and wrong provider type.
// - provider error.
// - validation after parsing.
func TestLoad(t *testing.T) {
	asserts := assert.New(t)
	cfg := dbConfig{}
	options := "options"
	mockProvider := new(mocks.Interface)

	asserts.NoError(registry.Set("config-mock", mockProvider))
	asserts.NoError(registry.Set("config-err-interface", "wrong"))

	// error: no ptr
	asserts.Equal(config.ErrPointer, config.Load("config-mock", cfg, options))

	// error: wrong type
	asserts.Equal(config.ErrInterface, config.Load("config-err-interface", &cfg, options))

	// error: provider does not exist
	err := config.Load("config-not-existing", &cfg, options)
	asserts.Equal(fmt.Sprintf("config: "+registry.ErrUnknownEntry, "config-not-existing"), err.Error())

	// error: provider error
	mockProvider.On("Parse", &cfg, options).Once().Return(errors.New("an error"))
	err = config.Load("config-mock", &cfg, options)
	asserts.Equal(errors.New("an error"), err)

	// error: validation fails, provider is required
	mockProvider.On("Parse", &cfg, options).Once().Return(nil)
	err = config.Load("config-mock", &cfg, options)
	asserts.Error(err)
	asserts.Contains(err.Error(), "Provider")

	// ok
	mockProvider.On("Parse", &cfg, options).Once().Return(nil).Run(func(args mock.Arguments) {
		args.Get(0).(*dbConfig).Provider = "sqlite"
	})
	asserts.NoError(config.Load("config-mock", &cfg, options))
	asserts.Equal("sqlite", cfg.Provider)

	mockProvider.AssertExpectations(t)
}
