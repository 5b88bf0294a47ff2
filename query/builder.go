// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package query provides the QueryInterface, a dialect independent way to issue DDL and DML statements.
//
// Every dialect (mysql, postgres, sqlite) embeds the Base executor and the GeneratorBase and overrides
// the parts where the database behaves differently. Dialects register themselves in an init function
// and are created with New.
//
// Features: unique placeholder for all dialects, batching for large inserts, nested transactions with savepoints,
// classified database errors, retry policies, hydration into structs and statement logging with durations.
package query

import (
	"fmt"

	"github.com/patrickascher/queryinterface/config"
	"github.com/patrickascher/queryinterface/registry"
)

// internals
const (
	registryPrefix = "query_"
	dbExpr         = "!"
)

type providerFn func(Config) (Provider, error)

// Register the query provider.
func Register(name string, p func(Config) (Provider, error)) error {
	return registry.Set(registryPrefix+name, providerFn(p))
}

// Dialects returns the names of all registered dialects.
func Dialects() []string {
	return registry.Names(registryPrefix)
}

// New creates a new QueryInterface with the given dialect and configuration.
// The configuration is validated and merged with the defaults.
// Error will return if the dialect was not registered, the config is invalid, the provider factory or the provider Open function will return one.
func New(name string, cfg Config) (QueryInterface, error) {

	// check if the query provider is registered.
	r, err := registry.Get(registryPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	if cfg.Provider == "" {
		cfg.Provider = name
	}
	cfg, err = cfg.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if err = config.Validate(&cfg); err != nil {
		return nil, err
	}

	// get the provider instance.
	p, err := r.(providerFn)(cfg)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	// open the connection.
	err = p.Open()
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return p, nil
}

// DbExpr expressions will not get quoted.
func DbExpr(s string) string {
	return dbExpr + s
}

// isDbExpr reports if the string was created by DbExpr.
func isDbExpr(s string) bool {
	return len(s) > 0 && s[0:1] == dbExpr
}
