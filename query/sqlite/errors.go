// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sqlite

import (
	"context"
	"errors"
	"regexp"
	"strings"

	driver "github.com/mattn/go-sqlite3"
	"github.com/patrickascher/queryinterface/query"
)

// uniqueRegex extracts the columns of "UNIQUE constraint failed: users.email, users.name".
var uniqueRegex = regexp.MustCompile(`constraint failed: (.+)$`)

// FormatError classifies the sqlite error by its extended code.
func (s *sqlite) FormatError(err error, stmt string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return query.NewDatabaseError(query.ErrTimeout, err, stmt)
	}

	var sqErr driver.Error
	if !errors.As(err, &sqErr) {
		return err
	}

	switch sqErr.ExtendedCode {
	case driver.ErrConstraintUnique, driver.ErrConstraintPrimaryKey:
		e := query.NewDatabaseError(query.ErrUniqueConstraint, err, stmt)
		if match := uniqueRegex.FindStringSubmatch(sqErr.Error()); len(match) == 2 {
			for _, col := range strings.Split(match[1], ",") {
				col = strings.TrimSpace(col)
				if i := strings.LastIndex(col, "."); i >= 0 {
					e.Table = col[:i]
					col = col[i+1:]
				}
				e.Fields = append(e.Fields, col)
			}
		}
		return e
	case driver.ErrConstraintForeignKey:
		return query.NewDatabaseError(query.ErrForeignKeyConstraint, err, stmt)
	}

	switch sqErr.Code {
	case driver.ErrBusy, driver.ErrLocked, driver.ErrInterrupt:
		return query.NewDatabaseError(query.ErrTimeout, err, stmt)
	case driver.ErrCantOpen, driver.ErrNotADB, driver.ErrIoErr:
		return query.NewDatabaseError(query.ErrConnection, err, stmt)
	}
	return query.NewDatabaseError(query.ErrUnknown, err, stmt)
}
