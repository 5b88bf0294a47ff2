// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config provides a config manager for any provider that implements the config.Interface.
// It will load the parsed values into a configuration struct and validate it afterwards.
//
// Struct fields are validated by their `validate` tags (github.com/go-playground/validator).
package config

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/patrickascher/queryinterface/registry"
)

// all pre-defined providers.
const (
	VIPER = "config_viper"
)

// Error messages
var (
	ErrInterface = errors.New("config: the type does not implement config.Interface")
	ErrPointer   = errors.New("config: the config argument must be a ptr")
)

// validate is shared, it caches the struct information.
var validate = validator.New()

// Interface for the config provider.
type Interface interface {
	Parse(config interface{}, options interface{}) error
}

// Load a configuration by provider and options.
// The cfg must be a ptr to the configuration struct.
// Error will return if the cfg is no ptr, the provider is unknown, parsing or validation fails.
func Load(provider string, cfg interface{}, options interface{}) error {
	if reflect.ValueOf(cfg).Kind() != reflect.Ptr {
		return ErrPointer
	}

	instance, err := registry.Get(provider)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	p, ok := instance.(Interface)
	if !ok {
		return ErrInterface
	}

	if err = p.Parse(cfg, options); err != nil {
		return err
	}

	return Validate(cfg)
}

// Validate the configuration struct by its validate tags.
// Non struct values are not validated.
func Validate(cfg interface{}) error {
	v := reflect.Indirect(reflect.ValueOf(cfg))
	if v.Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
