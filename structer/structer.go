// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package structer wraps github.com/imdario/mergo to fill option structs with their defaults.
package structer

import (
	"github.com/imdario/mergo"
)

// Merge options.
const (
	Override = iota + 1
	OverrideWithZeroValue
)

// Merge will fill all zero value fields of dst with the values of src.
// Override replaces non zero values of dst as well.
func Merge(dst interface{}, src interface{}, opts ...int) error {
	return mergo.Merge(dst, src, options(opts)...)
}

// MergeByMap will set the map values onto the dst struct.
func MergeByMap(dst interface{}, src map[string]interface{}, opts ...int) error {
	return mergo.Map(dst, src, options(opts)...)
}

// options converts the structer options to mergo options.
func options(opts []int) []func(*mergo.Config) {
	var rv []func(*mergo.Config)
	for _, o := range opts {
		switch o {
		case Override:
			rv = append(rv, mergo.WithOverride)
		case OverrideWithZeroValue:
			rv = append(rv, mergo.WithOverride, mergo.WithOverwriteWithEmptyValue)
		}
	}
	return rv
}
