// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package slicer_test

import (
	"testing"

	"github.com/patrickascher/queryinterface/slicer"
	"github.com/stretchr/testify/assert"
)

func TestExists(t *testing.T) {
	pool := []string{"users", "roles"}

	k, exists := slicer.Exists(pool, "roles")
	assert.True(t, exists)
	assert.Equal(t, 1, k)

	k, exists = slicer.Exists(pool, "groups")
	assert.False(t, exists)
	assert.Equal(t, 0, k)
}

func TestStringPrefixExists(t *testing.T) {
	pool := []string{"enum_users_state", "enum_users_role", "users"}

	assert.Equal(t, 2, len(slicer.StringPrefixExists(pool, "enum_")))
	assert.Equal(t, 0, len(slicer.StringPrefixExists(pool, "pg_")))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, slicer.Unique([]string{"a", "b", "a"}))
}

func TestFilter(t *testing.T) {
	assert.Equal(t, []string{"users"}, slicer.Filter([]string{"users", "SequelizeMeta", "roles"}, []string{"SequelizeMeta", "roles"}))
	assert.Nil(t, slicer.Filter([]string{"roles"}, []string{"roles"}))
}
