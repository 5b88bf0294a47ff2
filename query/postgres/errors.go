// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/patrickascher/queryinterface/query"
)

// SQLSTATE codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeExclusionViolation  = "23P01"
	codeQueryCanceled       = "57014"
	codeLockNotAvailable    = "55P03"
	classConnection         = "08"
)

// detailKeyRegex extracts the fields of "Key (a, b)=(1, 2) already exists.".
var detailKeyRegex = regexp.MustCompile(`Key \((.+?)\)=`)

// FormatError classifies the postgres error by its SQLSTATE.
func (p *postgres) FormatError(err error, stmt string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return query.NewDatabaseError(query.ErrTimeout, err, stmt)
	}
	if errors.Is(err, driver.ErrBadConn) {
		return query.NewDatabaseError(query.ErrConnection, err, stmt)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		var netErr net.Error
		var connErr *pgconn.ConnectError
		if errors.As(err, &netErr) || errors.As(err, &connErr) {
			return query.NewDatabaseError(query.ErrConnection, err, stmt)
		}
		return err
	}

	var e *query.DatabaseError
	switch pgErr.Code {
	case codeUniqueViolation:
		e = query.NewDatabaseError(query.ErrUniqueConstraint, err, stmt)
	case codeForeignKeyViolation:
		e = query.NewDatabaseError(query.ErrForeignKeyConstraint, err, stmt)
	case codeExclusionViolation:
		e = query.NewDatabaseError(query.ErrExclusionConstraint, err, stmt)
	case codeQueryCanceled, codeLockNotAvailable:
		return query.NewDatabaseError(query.ErrTimeout, err, stmt)
	default:
		if strings.HasPrefix(pgErr.Code, classConnection) {
			return query.NewDatabaseError(query.ErrConnection, err, stmt)
		}
		return query.NewDatabaseError(query.ErrUnknown, err, stmt)
	}

	e.Table = pgErr.TableName
	e.Index = pgErr.ConstraintName
	if match := detailKeyRegex.FindStringSubmatch(pgErr.Detail); len(match) == 2 {
		for _, f := range strings.Split(match[1], ",") {
			e.Fields = append(e.Fields, strings.Trim(strings.TrimSpace(f), `"`))
		}
	}
	return e
}
