// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package queryinterface opens a query.QueryInterface from a configuration file.
//
// The mysql, postgres and sqlite dialects are registered. A configuration file looks like:
//
//	database:
//	  provider: postgres
//	  host: localhost
//	  port: 5432
//	  username: app
//	  database: app
//	  timeout: 10s
//	  retry:
//	    max: 3
//	    match: deadlock,could not serialize
//	log:
//	  level: DEBUG
//	  json: true
package queryinterface

import (
	"io"
	"os"

	"github.com/patrickascher/queryinterface/config"
	"github.com/patrickascher/queryinterface/config/viper"
	"github.com/patrickascher/queryinterface/logger"
	"github.com/patrickascher/queryinterface/logger/logrus"
	"github.com/patrickascher/queryinterface/query"
	// registered dialects
	_ "github.com/patrickascher/queryinterface/query/mysql"
	_ "github.com/patrickascher/queryinterface/query/postgres"
	_ "github.com/patrickascher/queryinterface/query/sqlite"
)

// LoggerName is the registered logger of the statements.
const LoggerName = "queryinterface"

// Config of the configuration file.
type Config struct {
	Database query.Config
	Log      Log
}

// Log configuration. Statements are logged on DEBUG, if no level is set, nothing is logged.
type Log struct {
	Level string `validate:"omitempty,oneof=TRACE DEBUG INFO WARNING ERROR PANIC trace debug info warning error panic"`
	JSON  bool
}

// output of the logger.
var output io.Writer = os.Stderr

// Open loads the configuration file and opens the configured dialect.
func Open(options viper.Options) (query.QueryInterface, error) {
	var cfg Config
	if err := config.Load(config.VIPER, &cfg, options); err != nil {
		return nil, err
	}
	return OpenConfig(cfg)
}

// OpenConfig opens the dialect of the configuration and sets the logger.
func OpenConfig(cfg Config) (query.QueryInterface, error) {
	qi, err := query.New(cfg.Database.Provider, cfg.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Log.Level == "" {
		return qi, nil
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		_ = qi.Close()
		return nil, err
	}
	qi.SetLogger(log)
	return qi, nil
}

// newLogger returns a copy of the registered logrus logger with the configured level.
func newLogger(cfg Log) (logger.Manager, error) {
	lvl, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	log, err := logger.Get(LoggerName)
	if err != nil {
		if err = logger.Register(LoggerName, logrus.NewWithOutput(output, cfg.JSON)); err != nil {
			return nil, err
		}
		if log, err = logger.Get(LoggerName); err != nil {
			return nil, err
		}
	}

	log = log.New()
	log.SetLogLevel(lvl)
	return log, nil
}
