// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry provides a concurrency safe container for named providers.
// Dialects, logger providers and config providers register themselves here, mostly in an init function.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Error messages
var (
	ErrUnknownEntry       = "registry: unknown registry name %#v, maybe you forgot to import the provider"
	ErrMandatoryArguments = errors.New("registry: one or more arguments have a zero-value")
	ErrAlreadyExists      = "registry: %v is already registered"
)

// store of all registered values.
var (
	mu        sync.RWMutex
	entries   = make(map[string]interface{})
	validator []Validate
)

// Validate defines a prefix and a custom function which is called before a value with that prefix is added.
// The function receives the registry name and the value.
type Validate struct {
	Prefix string
	Fn     func(string, interface{}) error
}

// Validator adds a validation function for a name prefix.
// Error will return if the prefix or function is empty or the prefix is already guarded.
func Validator(validate Validate) error {
	if validate.Prefix == "" || validate.Fn == nil {
		return ErrMandatoryArguments
	}

	mu.Lock()
	defer mu.Unlock()
	if v := validatorOf(validate.Prefix); v != nil && v.Prefix == validate.Prefix {
		return fmt.Errorf(ErrAlreadyExists, "validator prefix "+validate.Prefix)
	}
	validator = append(validator, validate)
	return nil
}

// validatorOf returns the validator whose prefix matches the name.
func validatorOf(name string) *Validate {
	for i := range validator {
		if strings.HasPrefix(name, validator[i].Prefix) {
			return &validator[i]
		}
	}
	return nil
}

// Set a value by name.
// Name and value must be non-zero and the name must be unique.
func Set(name string, value interface{}) error {
	if value == nil || name == "" {
		return ErrMandatoryArguments
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[name]; exists {
		return fmt.Errorf(ErrAlreadyExists, name)
	}
	if v := validatorOf(name); v != nil {
		if err := v.Fn(name, value); err != nil {
			return fmt.Errorf("registry: %w", err)
		}
	}

	entries[name] = value
	return nil
}

// Get returns the value by its registered name.
func Get(name string) (interface{}, error) {
	mu.RLock()
	defer mu.RUnlock()

	v, ok := entries[name]
	if !ok {
		return nil, fmt.Errorf(ErrUnknownEntry, name)
	}
	return v, nil
}

// Names returns all registered names with the given prefix, sorted and without the prefix.
func Names(prefix string) []string {
	mu.RLock()
	defer mu.RUnlock()

	var rv []string
	for n := range entries {
		if strings.HasPrefix(n, prefix) {
			rv = append(rv, strings.TrimPrefix(n, prefix))
		}
	}
	sort.Strings(rv)
	return rv
}
