// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mysql

import (
	"context"
	"fmt"

	"github.com/patrickascher/queryinterface/query"
)

// DropAllTables drops all tables with disabled foreign key checks.
func (m *mysql) DropAllTables(ctx context.Context, opts query.DropOptions) error {
	return m.Session(ctx, func(ctx context.Context) error {
		if _, err := m.Query(ctx, "SET FOREIGN_KEY_CHECKS = 0", query.QueryOptions{}); err != nil {
			return err
		}
		err := m.Base.DropAllTables(ctx, opts)
		if _, resetErr := m.Query(ctx, "SET FOREIGN_KEY_CHECKS = 1", query.QueryOptions{}); err == nil {
			err = resetErr
		}
		return err
	})
}

// RemoveConstraint looks up the constraint type, because mysql drops every type differently.
func (m *mysql) RemoveConstraint(ctx context.Context, table query.TableName, name string) error {
	constraints, err := m.Information(table).Constraints(ctx, name)
	if err != nil {
		return err
	}
	if len(constraints) == 0 {
		return fmt.Errorf(query.ErrConstraintMissing, name, table.String())
	}
	_, err = m.Query(ctx, m.removeConstraintQuery(table, name, constraints[0].Type), query.QueryOptions{})
	return err
}
