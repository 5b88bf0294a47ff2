// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/patrickascher/queryinterface/structer"
	"github.com/peterhellberg/duration"
)

// Config sql struct.
type Config struct {
	Provider string `validate:"required"`

	Username string
	Password string
	Host     string
	Port     int `validate:"gte=0,lte=65535"`
	Database string
	// Schema is the default postgres search path.
	Schema string
	// Storage is the sqlite file or ":memory:".
	Storage string
	SSLMode string

	MaxIdleConnections int `validate:"gte=0"`
	MaxOpenConnections int `validate:"gte=0"`
	MaxConnLifetime    time.Duration
	// Timeout accepts a go duration ("30s") or a RFC3339 duration ("PT30S").
	Timeout string

	PreQuery []string
	Retry    Retry
	// Debug logs every statement with its arguments.
	Debug bool
}

// Retry policy of a query.
// A failed query is only retried if the error message contains one of the Match strings.
type Retry struct {
	Max   int `validate:"gte=0"`
	Match []string
	// Backoff is parsed like Config.Timeout.
	Backoff string
	// BackoffExponent multiplies the backoff on every attempt.
	BackoffExponent float64 `validate:"gte=0"`
}

// defaultConfig values.
var defaultConfig = Config{
	MaxIdleConnections: 2,
	Timeout:            "30s",
	Retry:              Retry{Backoff: "100ms", BackoffExponent: 1.1},
}

// ErrDuration - Error message.
var ErrDuration = "query: invalid duration %#v: %w"

// ParseDuration parses a go duration ("1m30s") or a RFC3339 duration ("PT1M30S").
// An empty string is zero.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf(ErrDuration, s, err)
	}
	return d, nil
}

// TimeoutDuration parses the timeout.
func (c Config) TimeoutDuration() (time.Duration, error) {
	return ParseDuration(c.Timeout)
}

// withDefaults fills the zero values of the config and checks the durations.
func (c Config) withDefaults() (Config, error) {
	if err := structer.Merge(&c, defaultConfig); err != nil {
		return c, err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return c, err
	}
	return c, c.Retry.validate()
}

// retryable reports if the error should be retried.
func (r Retry) retryable(err error, attempt int) bool {
	if err == nil || attempt >= r.Max {
		return false
	}
	msg := err.Error()
	for _, m := range r.Match {
		if m != "" && strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// validate checks the backoff duration.
func (r Retry) validate() error {
	_, err := ParseDuration(r.Backoff)
	return err
}

// delay returns the waiting time before the given attempt.
// The backoff must be validated before.
func (r Retry) delay(attempt int) time.Duration {
	base, err := ParseDuration(r.Backoff)
	if err != nil || base <= 0 {
		return 0
	}
	exp := r.BackoffExponent
	if exp <= 0 {
		exp = 1
	}
	return time.Duration(float64(base) * math.Pow(exp, float64(attempt)))
}
