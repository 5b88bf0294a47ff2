// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package queryinterface

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/patrickascher/queryinterface/config/viper"
	"github.com/patrickascher/queryinterface/query"
	"github.com/stretchr/testify/assert"
)

const sqliteCfg = `
database:
  provider: sqlite
  storage: ":memory:"
  timeout: 5s
log:
  level: debug
`

// TestOpen tests:
// - error if the file or provider is invalid.
// - the dialect is opened with the file configuration.
// - statements are logged.
func TestOpen(t *testing.T) {
	asserts := assert.New(t)
	buf := new(bytes.Buffer)
	output = buf

	dir := t.TempDir()
	asserts.NoError(os.WriteFile(filepath.Join(dir, "db.yaml"), []byte(sqliteCfg), 0644))
	asserts.NoError(os.WriteFile(filepath.Join(dir, "unknown.yaml"), []byte("database:\n  provider: oracle\n"), 0644))
	asserts.NoError(os.WriteFile(filepath.Join(dir, "level.yaml"), []byte("database:\n  provider: sqlite\nlog:\n  level: verbose\n"), 0644))

	// error: file does not exist
	_, err := Open(viper.Options{FileName: "missing.yaml", FilePath: dir})
	asserts.Error(err)

	// error: provider is not registered
	_, err = Open(viper.Options{FileName: "unknown.yaml", FilePath: dir})
	asserts.Error(err)

	// error: invalid log level
	_, err = Open(viper.Options{FileName: "level.yaml", FilePath: dir})
	asserts.Error(err)

	// ok
	qi, err := Open(viper.Options{FileName: "db.yaml", FilePath: dir})
	if asserts.NoError(err) {
		defer qi.Close()
		asserts.Equal("sqlite", qi.Name())
		asserts.Equal(":memory:", qi.Config().Storage)

		version, err := qi.DatabaseVersion(context.Background())
		asserts.NoError(err)
		asserts.NotEmpty(version)
		asserts.Contains(buf.String(), "sqlite_version()")
		asserts.Contains(buf.String(), "dialect=sqlite")
		asserts.Contains(buf.String(), "type=VERSION")
	}
}

// TestOpenConfig tests that no logger is set without a level.
func TestOpenConfig(t *testing.T) {
	asserts := assert.New(t)

	qi, err := OpenConfig(Config{Database: query.Config{Provider: "sqlite"}})
	if asserts.NoError(err) {
		defer qi.Close()
		asserts.Equal([]string{"mysql", "postgres", "sqlite"}, query.Dialects())
	}
}
