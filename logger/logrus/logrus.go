// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logrus is the logrus provider for the logger package. Its a wrapper for https://github.com/sirupsen/logrus.
// The logrus instance can be configured by the exported Instance field.
package logrus

import (
	"io"

	"github.com/patrickascher/queryinterface/logger"
	"github.com/sirupsen/logrus"
)

// New creates a new logrus provider.
// The provider level is TRACE, filtering happens in the logger.Manager.
func New() *Provider {
	log := logrus.New()
	log.SetLevel(logrus.TraceLevel)
	return &Provider{Instance: log}
}

// NewWithOutput creates a provider with a text formatter writing to w.
func NewWithOutput(w io.Writer, json bool) *Provider {
	p := New()
	p.Instance.SetOutput(w)
	if json {
		p.Instance.SetFormatter(&logrus.JSONFormatter{})
	} else {
		p.Instance.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	return p
}

// Provider wraps a *logrus.Logger.
type Provider struct {
	Instance *logrus.Logger
}

// Log passes the entry to logrus.
func (p *Provider) Log(entry logger.Entry) {
	e := p.Instance.WithFields(entry.Fields.Map()).WithTime(entry.Timestamp)
	switch entry.Level {
	case logger.TRACE:
		e.Trace(entry.Message)
	case logger.DEBUG:
		e.Debug(entry.Message)
	case logger.INFO:
		e.Info(entry.Message)
	case logger.WARNING:
		e.Warning(entry.Message)
	case logger.ERROR:
		e.Error(entry.Message)
	case logger.PANIC:
		e.Panic(entry.Message)
	}
}
