// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package postgres provides the postgres dialect over pgx. It is registered as "postgres".
package postgres

import (
	"encoding/hex"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/patrickascher/queryinterface/query"
	"github.com/patrickascher/queryinterface/query/condition"
)

type postgres struct {
	query.Base
	query.GeneratorBase
}

// init registers the provider under postgres.
func init() {
	err := query.Register("postgres", newPostgres)
	if err != nil {
		panic(err)
	}
}

// newPostgres creates a new query.Provider.
func newPostgres(cfg query.Config) (query.Provider, error) {
	p := &postgres{}
	p.Base.Provider = p
	p.GeneratorBase.Provider = p
	p.Base.Config = cfg
	return p, nil
}

// Config returns the query.Config.
func (p *postgres) Config() query.Config {
	return p.Base.Config
}

// Features of postgres.
func (p *postgres) Features() query.Features {
	return query.Features{
		Databases:         true,
		Schemas:           true,
		Returning:         true,
		Triggers:          true,
		Functions:         true,
		EnumTypes:         true,
		IndexConcurrently: true,
		IndexUsing:        true,
		PartialIndex:      true,
		Deferrable:        true,
		Cascade:           true,
		Constraints:       []string{query.ConstraintUnique, query.ConstraintCheck, query.ConstraintPrimaryKey, query.ConstraintForeignKey, query.ConstraintDefault},
	}
}

// Placeholder returns the numeric $n placeholder.
func (p *postgres) Placeholder() condition.Placeholder {
	return condition.Placeholder{Char: "$", Numeric: true}
}

// Escape quotes strings the ANSI way. NUL characters are removed and bytes are rendered as bytea.
func (p *postgres) Escape(value interface{}) string {
	if b, ok := value.([]byte); ok {
		return `'\x` + hex.EncodeToString(b) + `'::bytea`
	}
	return query.EscapeValue(value, func(s string) string {
		return query.EscapeANSI(strings.Replace(s, "\x00", "", -1))
	}, p.Escape)
}

// ConnConfig returns the pgx connection config.
// The schema is set as search_path.
func (p *postgres) ConnConfig() (*pgx.ConnConfig, error) {
	cfg := p.Base.Config
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.Username, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}

	c, err := pgx.ParseConfig(u.String())
	if err != nil {
		return nil, err
	}
	if cfg.Schema != "" {
		c.RuntimeParams["search_path"] = cfg.Schema
	}
	c.ConnectTimeout = timeout
	return c, nil
}

// Open creates a new *sql.DB over the pgx stdlib driver.
func (p *postgres) Open() error {
	c, err := p.ConnConfig()
	if err != nil {
		return err
	}

	p.SetDB(stdlib.OpenDB(*c))

	// call base Open function.
	return p.Base.Open()
}

// Information will return a query.Information.
func (p *postgres) Information(table query.TableName) query.Information {
	return &information{table: table, postgres: p}
}
