// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"context"
	"fmt"

	"github.com/patrickascher/queryinterface/query"
)

// DropAllEnums drops all enum types of the current schema.
func (p *postgres) DropAllEnums(ctx context.Context) error {
	res, err := p.Run(ctx, "SELECT n.nspname AS schema_name, t.typname AS name FROM pg_type t JOIN pg_namespace n ON n.oid = t.typnamespace WHERE t.typtype = 'e' AND n.nspname = current_schema()", nil, query.QueryOptions{Type: query.SELECT})
	if err != nil {
		return err
	}
	for _, row := range res.Rows {
		stmt := "DROP TYPE IF EXISTS " + p.QuoteIdentifier(fmt.Sprint(row["schema_name"])) + "." + p.QuoteIdentifier(fmt.Sprint(row["name"])) + " CASCADE"
		if _, err = p.Run(ctx, stmt, nil, query.QueryOptions{Type: query.RAW}); err != nil {
			return err
		}
	}
	return nil
}
