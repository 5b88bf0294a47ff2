// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"fmt"
	"strings"

	"github.com/patrickascher/queryinterface/query"
	"github.com/patrickascher/queryinterface/query/types"
)

// DataTypeSQL renders the postgres data type.
// Enums need the table and are rendered by AttributeSQL.
func (p *postgres) DataTypeSQL(dt types.DataType) (string, error) {
	switch dt.Key {
	case types.KeyDate:
		return "TIMESTAMP WITH TIME ZONE", nil
	case types.KeyBlob:
		return "BYTEA", nil
	case types.KeyJSON:
		return "JSON", nil
	case types.KeyJSONB:
		return "JSONB", nil
	case types.KeyFloat:
		return "REAL", nil
	}
	return p.GeneratorBase.DataTypeSQL(dt)
}

// enumType returns the quoted type name of an enum column.
func (p *postgres) enumType(table query.TableName, field string) string {
	name := "enum_" + table.TableName + "_" + field
	if table.Schema != "" {
		return p.QuoteIdentifier(table.Schema) + "." + p.QuoteIdentifier(name)
	}
	return p.QuoteIdentifier(name)
}

// enumSQL creates the enum type of the attribute, if it does not exist yet.
func (p *postgres) enumSQL(table query.TableName, attr query.Attribute) string {
	values := make([]string, len(attr.Type.Values))
	for i, v := range attr.Type.Values {
		values[i] = p.Escape(v)
	}
	return "DO $$ BEGIN CREATE TYPE " + p.enumType(table, attr.Field) + " AS ENUM(" + strings.Join(values, ", ") + "); EXCEPTION WHEN duplicate_object THEN null; END $$;"
}

// columnType replaces enums by their type and auto increments by serials.
func (p *postgres) columnType(table query.TableName, attr query.Attribute) query.Attribute {
	switch {
	case attr.Type.Key == types.KeyEnum:
		attr.Type = types.DataType{Key: types.KeyRaw, Raw: p.enumType(table, attr.Field)}
	case attr.AutoIncrement:
		switch attr.Type.Key {
		case types.KeyInteger:
			attr.Type = types.DataType{Key: types.KeyRaw, Raw: "SERIAL"}
		case types.KeyBigInt:
			attr.Type = types.DataType{Key: types.KeyRaw, Raw: "BIGSERIAL"}
		case types.KeySmallInt:
			attr.Type = types.DataType{Key: types.KeyRaw, Raw: "SMALLSERIAL"}
		}
	}
	return attr
}

// commentSQL returns the COMMENT ON COLUMN statement.
func (p *postgres) commentSQL(table query.TableName, attr query.Attribute) string {
	return "COMMENT ON COLUMN " + p.QuoteTable(table) + "." + p.QuoteIdentifier(attr.Field) + " IS " + p.Escape(attr.Comment) + ";"
}

// AttributeSQL renders enums as their own type and auto increments as serial.
func (p *postgres) AttributeSQL(table query.TableName, attr query.Attribute, ctx query.AttributeContext) (string, error) {
	return p.GeneratorBase.AttributeSQL(table, p.columnType(table, attr), ctx)
}

// CreateDatabaseQuery creates the database with encoding, collation, ctype and template.
func (p *postgres) CreateDatabaseQuery(name string, opts query.DatabaseOptions) (string, error) {
	stmt := "CREATE DATABASE " + p.QuoteIdentifier(name)
	if opts.Encoding != "" {
		stmt += " ENCODING = " + p.Escape(opts.Encoding)
	}
	if opts.Collate != "" {
		stmt += " LC_COLLATE = " + p.Escape(opts.Collate)
	}
	if opts.Ctype != "" {
		stmt += " LC_CTYPE = " + p.Escape(opts.Ctype)
	}
	if opts.Template != "" {
		stmt += " TEMPLATE = " + p.QuoteIdentifier(opts.Template)
	}
	return stmt, nil
}

// VersionQuery returns the server version.
func (p *postgres) VersionQuery() string {
	return "SELECT current_setting('server_version') AS version"
}

// CreateTableQuery creates the enum types before the table and adds the comments afterwards.
func (p *postgres) CreateTableQuery(table query.TableName, attributes []query.Attribute, opts query.TableOptions) (string, error) {
	stmt, err := p.GeneratorBase.CreateTableQuery(table, attributes, opts)
	if err != nil {
		return "", err
	}

	var before, after []string
	for _, a := range attributes {
		if a.Type.Key == types.KeyEnum {
			before = append(before, p.enumSQL(table, a))
		}
		if a.Comment != "" {
			after = append(after, p.commentSQL(table, a))
		}
	}
	if opts.Comment != "" {
		after = append(after, "COMMENT ON TABLE "+p.QuoteTable(table)+" IS "+p.Escape(opts.Comment)+";")
	}
	if len(before) == 0 && len(after) == 0 {
		return stmt, nil
	}
	return strings.Join(append(append(before, stmt+";"), after...), " "), nil
}

// AddColumnQuery creates the enum type and the comment of the column.
func (p *postgres) AddColumnQuery(table query.TableName, attr query.Attribute) (string, error) {
	stmt, err := p.GeneratorBase.AddColumnQuery(table, attr)
	if err != nil {
		return "", err
	}
	return p.wrapColumn(table, attr, stmt), nil
}

// ChangeColumnQuery casts enum columns to their type.
// Values of an existing enum type are not altered.
func (p *postgres) ChangeColumnQuery(table query.TableName, attr query.Attribute) (string, error) {
	if attr.Type.IsZero() {
		return "", fmt.Errorf(query.ErrValueMissing, "type", attr.Field)
	}
	changed := attr
	if attr.Type.Key == types.KeyEnum {
		changed.Type = types.DataType{Key: types.KeyRaw, Raw: p.enumType(table, attr.Field)}
	}
	stmt, err := p.GeneratorBase.ChangeColumnQuery(table, changed)
	if err != nil {
		return "", err
	}
	if attr.Type.Key == types.KeyEnum {
		typ := changed.Type.Raw
		stmt = strings.Replace(stmt, " TYPE "+typ, " TYPE "+typ+" USING ("+p.QuoteIdentifier(attr.Field)+"::"+typ+")", 1)
	}
	return p.wrapColumn(table, attr, stmt), nil
}

// wrapColumn adds the enum creation before and the comment after the column statement.
func (p *postgres) wrapColumn(table query.TableName, attr query.Attribute, stmt string) string {
	if attr.Type.Key != types.KeyEnum && attr.Comment == "" {
		return stmt
	}
	stmt += ";"
	if attr.Type.Key == types.KeyEnum {
		stmt = p.enumSQL(table, attr) + " " + stmt
	}
	if attr.Comment != "" {
		stmt += " " + p.commentSQL(table, attr)
	}
	return stmt
}

// RowIdentifier is the physical row id.
func (p *postgres) RowIdentifier() string {
	return "ctid"
}

// DeferConstraintsQuery defers all or the named constraints.
func (p *postgres) DeferConstraintsQuery(constraints []string) string {
	if len(constraints) == 0 {
		return "SET CONSTRAINTS ALL DEFERRED"
	}
	names := make([]string, len(constraints))
	for i, c := range constraints {
		names[i] = p.QuoteIdentifier(c)
	}
	return "SET CONSTRAINTS " + strings.Join(names, ", ") + " DEFERRED"
}

// CreateTriggerQuery creates a trigger which executes a function.
func (p *postgres) CreateTriggerQuery(trigger query.Trigger) (string, error) {
	if err := query.Validate(trigger); err != nil {
		return "", err
	}

	stmt := "CREATE "
	timing := trigger.Timing
	if timing == query.TriggerAfterConstraint {
		stmt += "CONSTRAINT "
		timing = query.TriggerAfter
	}
	stmt += "TRIGGER " + p.QuoteIdentifier(trigger.Name) + " " + timing + " "

	events := make([]string, len(trigger.Events))
	for i, e := range trigger.Events {
		events[i] = e.Name
		if e.Name == "UPDATE" && len(e.Columns) > 0 {
			cols := make([]string, len(e.Columns))
			for n, c := range e.Columns {
				cols[n] = p.QuoteIdentifier(c)
			}
			events[i] += " OF " + strings.Join(cols, ", ")
		}
	}
	stmt += strings.Join(events, " OR ") + " ON " + p.QuoteTable(trigger.Table)
	if len(trigger.Options) > 0 {
		stmt += " " + strings.Join(trigger.Options, " ")
	}
	return stmt + " EXECUTE FUNCTION " + p.QuoteIdentifier(trigger.Function) + "(" + strings.Join(trigger.FunctionArgs, ", ") + ")", nil
}

// DropTriggerQuery drops the trigger of the table.
func (p *postgres) DropTriggerQuery(table query.TableName, name string) (string, error) {
	return "DROP TRIGGER IF EXISTS " + p.QuoteIdentifier(name) + " ON " + p.QuoteTable(table) + " RESTRICT", nil
}

// RenameTriggerQuery renames the trigger of the table.
func (p *postgres) RenameTriggerQuery(table query.TableName, before string, after string) (string, error) {
	return "ALTER TRIGGER " + p.QuoteIdentifier(before) + " ON " + p.QuoteTable(table) + " RENAME TO " + p.QuoteIdentifier(after), nil
}

// paramsSQL renders the function parameters.
// withNames is false for the signature of drop and rename.
func (p *postgres) paramsSQL(params []query.FunctionParam, withNames bool) string {
	rv := make([]string, len(params))
	for i, param := range params {
		var parts []string
		if param.Direction != "" {
			parts = append(parts, param.Direction)
		}
		if withNames && param.Name != "" {
			parts = append(parts, p.QuoteIdentifier(param.Name))
		}
		rv[i] = strings.Join(append(parts, param.Type), " ")
	}
	return strings.Join(rv, ", ")
}

// CreateFunctionQuery creates or replaces the function.
// A plpgsql body is wrapped in BEGIN and END with the declared variables.
func (p *postgres) CreateFunctionQuery(fn query.Function) (string, error) {
	if err := query.Validate(fn); err != nil {
		return "", err
	}

	stmt := "CREATE "
	if fn.Force {
		stmt += "OR REPLACE "
	}
	stmt += "FUNCTION " + p.QuoteIdentifier(fn.Name) + "(" + p.paramsSQL(fn.Params, true) + ") RETURNS " + fn.Returns + " AS $func$ "

	body := fn.Body
	if strings.EqualFold(fn.Language, "plpgsql") {
		body = "BEGIN " + body + " END;"
		if len(fn.Variables) > 0 {
			vars := make([]string, len(fn.Variables))
			for i, v := range fn.Variables {
				vars[i] = p.QuoteIdentifier(v.Name) + " " + v.Type
				if v.Default != "" {
					vars[i] += " := " + v.Default
				}
				vars[i] += ";"
			}
			body = "DECLARE " + strings.Join(vars, " ") + " " + body
		}
	}
	stmt += body + " $func$ LANGUAGE " + fn.Language
	if len(fn.Options) > 0 {
		stmt += " " + strings.Join(fn.Options, " ")
	}
	return stmt + ";", nil
}

// DropFunctionQuery drops the function with the given signature.
func (p *postgres) DropFunctionQuery(name string, params []query.FunctionParam) (string, error) {
	return "DROP FUNCTION IF EXISTS " + p.QuoteIdentifier(name) + "(" + p.paramsSQL(params, false) + ") RESTRICT;", nil
}

// RenameFunctionQuery renames the function with the given signature.
func (p *postgres) RenameFunctionQuery(before string, params []query.FunctionParam, after string) (string, error) {
	return "ALTER FUNCTION " + p.QuoteIdentifier(before) + "(" + p.paramsSQL(params, false) + ") RENAME TO " + p.QuoteIdentifier(after) + ";", nil
}
