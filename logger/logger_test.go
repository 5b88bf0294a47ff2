// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logger_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/patrickascher/queryinterface/logger"
	"github.com/patrickascher/queryinterface/logger/mocks"
	"github.com/patrickascher/queryinterface/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestManager tests registration, get, levels, withFields and withTimer.
func TestManager(t *testing.T) {
	asserts := assert.New(t)
	mockProvider := new(mocks.Provider)

	asserts.NoError(logger.Register("mock", mockProvider))
	testGet(asserts)
	testLevels(asserts, mockProvider)
	testNew(asserts, mockProvider)
	testWithFieldsTimer(asserts, mockProvider)

	mockProvider.AssertExpectations(t)
}

// testGet tests if the provider is existing.
func testGet(asserts *assert.Assertions) {
	log, err := logger.Get("mock")
	asserts.NoError(err)
	asserts.Equal("*logger.manager", reflect.TypeOf(log).String())

	// error: does not exist
	log, err = logger.Get("notExisting")
	asserts.Nil(log)
	asserts.Equal(fmt.Errorf("logger: "+registry.ErrUnknownEntry, "logger_notExisting").Error(), err.Error())

	// error: type does not implement the logger.Manager.
	asserts.NoError(registry.Set("logger_wrongType", "wrong"))
	log, err = logger.Get("wrongType")
	asserts.Nil(log)
	asserts.Equal(logger.ErrProvider, err)
}

// testLevels tests if only levels equal or greater the configured level reach the provider.
func testLevels(asserts *assert.Assertions, mockProvider *mocks.Provider) {
	log, err := logger.Get("mock")
	asserts.NoError(err)

	levels := []logger.Level{logger.TRACE, logger.DEBUG, logger.INFO, logger.WARNING, logger.ERROR, logger.PANIC}
	for i, lvl := range levels {
		log.SetLogLevel(lvl)
		mockProvider.On("Log", mock.AnythingOfType("logger.Entry")).Times(len(levels) - i).Return()

		log.Trace("Trace")
		log.Debug("Debug")
		log.Info("Info")
		log.Warning("Warning")
		log.Error("Error")
		log.Panic("Panic")
	}

	asserts.False(log.Enabled(logger.ERROR))
	asserts.True(log.Enabled(logger.PANIC))
	asserts.Equal("unknown level", logger.Level(-2).String())
	asserts.Equal("WARNING", logger.WARNING.String())
}

// testNew tests if a copy keeps the level but has no reference to the parent.
func testNew(asserts *assert.Assertions, mockProvider *mocks.Provider) {
	var entry logger.Entry
	log, err := logger.Get("mock")
	asserts.NoError(err)
	log.SetLogLevel(logger.WARNING)

	log2 := log.New()
	asserts.NotEqual(fmt.Sprintf("%p", log), fmt.Sprintf("%p", log2))

	// the parent level is copied.
	log2.Info("skipped")

	// the copy has its own level.
	log2.SetLogLevel(logger.TRACE)
	log.Trace("skipped")
	mockProvider.On("Log", mock.AnythingOfType("logger.Entry")).Once().Return().Run(func(args mock.Arguments) {
		entry = args.Get(0).(logger.Entry)
	})
	log2.Trace("SELECT %d", 1)
	asserts.Equal(logger.TRACE, entry.Level)
	asserts.Equal("SELECT 1", entry.Message)
}

// testWithFieldsTimer tests:
// - fields are merged.
// - caller fields are added.
// - the timer survives WithFields.
func testWithFieldsTimer(asserts *assert.Assertions, mockProvider *mocks.Provider) {
	var entry logger.Entry
	log, err := logger.Get("mock")
	asserts.NoError(err)
	log.SetLogLevel(logger.TRACE)
	log.SetCallerFields(false)

	mockProvider.On("Log", mock.AnythingOfType("logger.Entry")).Once().Return().Run(func(args mock.Arguments) {
		entry = args.Get(0).(logger.Entry)
	})
	log.WithFields(logger.Fields{"dialect": "sqlite"}).WithFields(logger.Fields{"tx": "1"}).Info("Info")
	asserts.Equal(logger.Fields{"dialect": "sqlite", "tx": "1"}, entry.Fields)
	asserts.Equal(map[string]interface{}{"dialect": "sqlite", "tx": "1"}, entry.Fields.Map())

	mockProvider.On("Log", mock.AnythingOfType("logger.Entry")).Once().Return().Run(func(args mock.Arguments) {
		entry = args.Get(0).(logger.Entry)
	})
	caller := log.WithFields(logger.Fields{"dialect": "sqlite"})
	caller.SetCallerFields(true)
	caller.Debug("caller")
	asserts.Equal(3, len(entry.Fields))
	asserts.Contains(entry.Fields["file"], "logger_test.go")

	mockProvider.On("Log", mock.AnythingOfType("logger.Entry")).Once().Return().Run(func(args mock.Arguments) {
		entry = args.Get(0).(logger.Entry)
	})
	log.WithTimer().WithFields(logger.Fields{"dialect": "sqlite"}).Debug("timer")
	asserts.Equal(2, len(entry.Fields))
	_, ok := entry.Fields["duration"]
	asserts.True(ok)
}

// TestParseLevel tests the level names.
func TestParseLevel(t *testing.T) {
	asserts := assert.New(t)

	for _, lvl := range []logger.Level{logger.TRACE, logger.DEBUG, logger.INFO, logger.WARNING, logger.ERROR, logger.PANIC} {
		parsed, err := logger.ParseLevel(lvl.String())
		asserts.NoError(err)
		asserts.Equal(lvl, parsed)
	}

	lvl, err := logger.ParseLevel("warning")
	asserts.NoError(err)
	asserts.Equal(logger.WARNING, lvl)

	_, err = logger.ParseLevel("verbose")
	asserts.Error(err)
}
