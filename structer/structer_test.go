// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package structer_test

import (
	"testing"

	"github.com/patrickascher/queryinterface/structer"
	"github.com/stretchr/testify/assert"
)

type options struct {
	Batch   int
	Backoff string
}

// TestMerge tests if the zero values are filled.
func TestMerge(t *testing.T) {
	asserts := assert.New(t)

	dst := options{Batch: 10}
	err := structer.Merge(&dst, options{Batch: 50, Backoff: "100ms"})
	asserts.NoError(err)
	asserts.Equal(options{Batch: 10, Backoff: "100ms"}, dst)

	// override
	err = structer.Merge(&dst, options{Batch: 50}, structer.Override)
	asserts.NoError(err)
	asserts.Equal(options{Batch: 50, Backoff: "100ms"}, dst)
}

// TestMergeByMap tests the map merge with override and zero value override.
func TestMergeByMap(t *testing.T) {
	asserts := assert.New(t)

	dst := options{Backoff: "1s"}
	err := structer.MergeByMap(&dst, map[string]interface{}{"Backoff": "2s", "Batch": 5}, structer.Override)
	asserts.NoError(err)
	asserts.Equal(options{Batch: 5, Backoff: "2s"}, dst)

	err = structer.MergeByMap(&dst, map[string]interface{}{"Backoff": "2s", "Batch": 0}, structer.OverrideWithZeroValue)
	asserts.NoError(err)
	asserts.Equal(options{Batch: 0, Backoff: "2s"}, dst)
}
