// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package slicer provides small slice helpers.
package slicer

import "strings"

// Exists checks if the search value exists in the slice.
// If it exists, the position and true will return.
func Exists[T comparable](slice []T, search T) (int, bool) {
	for i, s := range slice {
		if s == search {
			return i, true
		}
	}
	return 0, false
}

// StringPrefixExists returns all entries of the slice which start with the prefix.
func StringPrefixExists(slice []string, prefix string) []string {
	var rv []string
	for _, s := range slice {
		if strings.HasPrefix(s, prefix) {
			rv = append(rv, s)
		}
	}
	return rv
}

// Unique removes duplicates and keeps the order of the first occurrence.
func Unique[T comparable](slice []T) []T {
	keys := make(map[T]struct{}, len(slice))
	list := make([]T, 0, len(slice))
	for _, entry := range slice {
		if _, ok := keys[entry]; !ok {
			keys[entry] = struct{}{}
			list = append(list, entry)
		}
	}
	return list
}

// Filter returns all entries which are not part of the skip slice.
func Filter[T comparable](slice []T, skip []T) []T {
	var rv []T
	for _, s := range slice {
		if _, ok := Exists(skip, s); !ok {
			rv = append(rv, s)
		}
	}
	return rv
}
