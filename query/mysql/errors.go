// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"regexp"
	"strings"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/patrickascher/queryinterface/query"
)

// mysql error numbers.
const (
	errDuplicateEntry    = 1062
	errRowIsReferenced   = 1451
	errNoReferencedRow   = 1452
	errLockWaitTimeout   = 1205
	errQueryInterrupted  = 3024
	errRowIsReferenced2  = 1217
	errNoReferencedRow2  = 1216
	errDuplicateEntryKey = 1586
)

var (
	duplicateRegex  = regexp.MustCompile(`Duplicate entry '(.*)' for key '([^']+)'`)
	foreignKeyRegex = regexp.MustCompile("CONSTRAINT `([^`]+)` FOREIGN KEY \\(`([^`]+)`\\) REFERENCES `([^`]+)`")
)

// FormatError classifies the mysql error.
func (m *mysql) FormatError(err error, stmt string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return query.NewDatabaseError(query.ErrTimeout, err, stmt)
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysqlDriver.ErrInvalidConn) {
		return query.NewDatabaseError(query.ErrConnection, err, stmt)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return query.NewDatabaseError(query.ErrTimeout, err, stmt)
		}
		return query.NewDatabaseError(query.ErrConnection, err, stmt)
	}

	var myErr *mysqlDriver.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}

	switch myErr.Number {
	case errDuplicateEntry, errDuplicateEntryKey:
		e := query.NewDatabaseError(query.ErrUniqueConstraint, err, stmt)
		if match := duplicateRegex.FindStringSubmatch(myErr.Message); len(match) == 3 {
			e.Index = match[2]
			if i := strings.LastIndex(e.Index, "."); i >= 0 {
				e.Table = e.Index[:i]
				e.Index = e.Index[i+1:]
			}
		}
		return e
	case errRowIsReferenced, errNoReferencedRow, errRowIsReferenced2, errNoReferencedRow2:
		e := query.NewDatabaseError(query.ErrForeignKeyConstraint, err, stmt)
		if match := foreignKeyRegex.FindStringSubmatch(myErr.Message); len(match) == 4 {
			e.Index = match[1]
			e.Fields = []string{match[2]}
			e.Table = match[3]
		}
		return e
	case errLockWaitTimeout, errQueryInterrupted:
		return query.NewDatabaseError(query.ErrTimeout, err, stmt)
	}
	return query.NewDatabaseError(query.ErrUnknown, err, stmt)
}
