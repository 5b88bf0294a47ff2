// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package query

import (
	"context"
)

// ansi is a dialect with the default generator, used to test the rendered statements.
type ansi struct {
	Base
	GeneratorBase
	features Features
}

func newAnsi(f Features) *ansi {
	a := &ansi{features: f}
	a.Base.Provider = a
	a.GeneratorBase.Provider = a
	a.Base.Config = Config{Provider: "ansi"}
	return a
}

func (a *ansi) Config() Config {
	return a.Base.Config
}

func (a *ansi) Features() Features {
	return a.features
}

func (a *ansi) Information(table TableName) Information {
	return nil
}

func (a *ansi) FormatError(err error, stmt string) error {
	if err == nil {
		return nil
	}
	return NewDatabaseError(ErrUnknown, err, stmt)
}

// compile time check.
var _ Provider = (*ansi)(nil)

// background context for the tests.
var bg = context.Background()
