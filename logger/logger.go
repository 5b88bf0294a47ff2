// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logger provides the logging interface of the query interface.
// Providers wrap existing go loggers, so the backend can change without touching the callers.
// Log level, fields, durations and caller information can be added to every entry.
package logger

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/patrickascher/queryinterface/registry"
)

// ErrProvider - Error message.
var ErrProvider = errors.New("logger: provider does not implement logger.Manager")

// registryPrefix for the registry package.
const registryPrefix = "logger_"

// Level - the higher the more critical
const (
	TRACE Level = iota - 1
	DEBUG
	INFO
	WARNING
	ERROR
	PANIC
)

// Level of a log entry.
type Level int32

// String converts the level code.
func (lvl Level) String() string {
	switch lvl {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case PANIC:
		return "PANIC"
	default:
		return "unknown level"
	}
}

// ParseLevel converts the level name, as returned by Level.String, case insensitive.
func ParseLevel(name string) (Level, error) {
	for lvl := TRACE; lvl <= PANIC; lvl++ {
		if strings.EqualFold(lvl.String(), name) {
			return lvl, nil
		}
	}
	return DEBUG, fmt.Errorf("logger: unknown level %#v", name)
}

// Provider interface.
type Provider interface {
	Log(Entry)
}

// Manager interface.
// Messages are formatted with fmt.Sprintf if arguments are given.
type Manager interface {
	Trace(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Panic(msg string, args ...interface{})

	New() Manager
	WithFields(Fields) Manager
	WithTimer() Manager
	Enabled(Level) bool

	SetCallerFields(bool)
	SetLogLevel(Level)
}

// Fields can be used to add more details to a log message.
type Fields map[string]interface{}

// Map converts the Fields to a map[string]interface{}.
func (f Fields) Map() map[string]interface{} {
	return f
}

// Entry holds all information of a log message.
type Entry struct {
	Level     Level
	Timestamp time.Time
	Message   string
	Fields    Fields
}

// manager holds the provider and the entry configuration.
// Fields are copied on every derived instance.
type manager struct {
	mu       sync.RWMutex
	provider Provider
	fields   Fields

	callerInfo bool
	timer      time.Time
	lvl        Level
}

// Register a new logger provider by name.
func Register(name string, provider Provider) error {
	return registry.Set(registryPrefix+name, &manager{provider: provider})
}

// Get a logger by the registered name.
// Default log level is DEBUG.
func Get(name string) (Manager, error) {
	m, err := registry.Get(registryPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	// the value could have been set directly over the registry.
	if rv, ok := m.(Manager); ok {
		return rv, nil
	}
	return nil, ErrProvider
}

// SetCallerFields will add the fields "line" and "file" to the Entry.
func (m *manager) SetCallerFields(b bool) {
	m.mu.Lock()
	m.callerInfo = b
	m.mu.Unlock()
}

// SetLogLevel defines the minimum level which gets logged.
func (m *manager) SetLogLevel(lvl Level) {
	m.mu.Lock()
	m.lvl = lvl
	m.mu.Unlock()
}

// Enabled reports if the level would be logged.
func (m *manager) Enabled(lvl Level) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lvl >= m.lvl
}

// New creates a copy of the manager.
func (m *manager) New() Manager {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fields := make(Fields, len(m.fields))
	for k, v := range m.fields {
		fields[k] = v
	}
	return &manager{lvl: m.lvl, provider: m.provider, fields: fields, callerInfo: m.callerInfo, timer: m.timer}
}

// WithTimer adds the field "duration" to the next entry.
func (m *manager) WithTimer() Manager {
	instance := m.New().(*manager)
	instance.timer = time.Now()
	return instance
}

// WithFields returns a new Manager with the fields merged into the existing ones.
func (m *manager) WithFields(fields Fields) Manager {
	instance := m.New().(*manager)
	for k, v := range fields {
		instance.fields[k] = v
	}
	return instance
}

// Trace log.
func (m *manager) Trace(msg string, args ...interface{}) {
	m.log(TRACE, msg, args)
}

// Debug log.
func (m *manager) Debug(msg string, args ...interface{}) {
	m.log(DEBUG, msg, args)
}

// Info log.
func (m *manager) Info(msg string, args ...interface{}) {
	m.log(INFO, msg, args)
}

// Warning log.
func (m *manager) Warning(msg string, args ...interface{}) {
	m.log(WARNING, msg, args)
}

// Error log.
func (m *manager) Error(msg string, args ...interface{}) {
	m.log(ERROR, msg, args)
}

// Panic log.
func (m *manager) Panic(msg string, args ...interface{}) {
	m.log(PANIC, msg, args)
}

// log passes the entry to the provider if the level is enabled.
func (m *manager) log(lvl Level, msg string, args []interface{}) {
	if !m.Enabled(lvl) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	m.provider.Log(m.newEntry(msg, lvl))
}

// newEntry creates the Entry for the provider.
func (m *manager) newEntry(msg string, lvl Level) Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e := Entry{Message: msg, Level: lvl, Timestamp: time.Now()}
	e.Fields = make(Fields, len(m.fields)+3)
	for k, v := range m.fields {
		e.Fields[k] = v
	}

	if !m.timer.IsZero() {
		e.Fields["duration"] = time.Since(m.timer)
	}

	if m.callerInfo {
		// skip newEntry, log and the level method.
		_, file, line, _ := runtime.Caller(3)
		e.Fields["line"] = line
		e.Fields["file"] = file
	}

	return e
}
