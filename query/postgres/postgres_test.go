// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/patrickascher/queryinterface/query"
	"github.com/patrickascher/queryinterface/query/types"
	"github.com/stretchr/testify/assert"
)

func testPostgres() *postgres {
	p, _ := newPostgres(query.Config{Provider: "postgres", Host: "127.0.0.1", Port: 5432, Username: "postgres", Password: "p@ss", Database: "test", Schema: "app", SSLMode: "disable", Timeout: "10s"})
	return p.(*postgres)
}

// TestPostgres_ConnConfig tests the pgx config.
func TestPostgres_ConnConfig(t *testing.T) {
	asserts := assert.New(t)
	p := testPostgres()

	c, err := p.ConnConfig()
	asserts.NoError(err)
	asserts.Equal("127.0.0.1", c.Host)
	asserts.Equal(uint16(5432), c.Port)
	asserts.Equal("postgres", c.User)
	asserts.Equal("p@ss", c.Password)
	asserts.Equal("test", c.Database)
	asserts.Equal("app", c.RuntimeParams["search_path"])
	asserts.Equal(10*time.Second, c.ConnectTimeout)
	asserts.Contains(query.Dialects(), "postgres")

	p.Base.Config.Timeout = "x"
	_, err = p.ConnConfig()
	asserts.Error(err)
}

// TestPostgres_Escape tests the string and bytea escaping.
func TestPostgres_Escape(t *testing.T) {
	asserts := assert.New(t)
	p := testPostgres()

	asserts.Equal(`'it''s'`, p.Escape("it's"))
	asserts.Equal(`'ab'`, p.Escape("a\x00b"))
	asserts.Equal(`'\x0102'::bytea`, p.Escape([]byte{1, 2}))
	asserts.Equal(`'a', 'b'`, p.Escape([]string{"a", "b"}))
	asserts.Equal("$", p.Placeholder().Char)
	asserts.True(p.Placeholder().Numeric)
}

// TestPostgres_Generator tests the postgres specific statements.
func TestPostgres_Generator(t *testing.T) {
	asserts := assert.New(t)
	p := testPostgres()
	users := query.Table("users")
	enum := `DO $$ BEGIN CREATE TYPE "enum_users_state" AS ENUM('a', 'b'); EXCEPTION WHEN duplicate_object THEN null; END $$;`

	stmt, err := p.CreateTableQuery(users, []query.Attribute{
		{Field: "id", Type: types.Integer(), PrimaryKey: true, AutoIncrement: true, AllowNull: query.NotNull()},
		{Field: "state", Type: types.Enum("a", "b"), Comment: "the state"},
		{Field: "created_at", Type: types.Date(), DefaultValue: types.NOW},
		{Field: "data", Type: types.JSONB()},
	}, query.TableOptions{Comment: "all users"})
	asserts.NoError(err)
	asserts.Equal(enum+` CREATE TABLE IF NOT EXISTS "users" ("id" SERIAL NOT NULL PRIMARY KEY, "state" "enum_users_state", "created_at" TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP, "data" JSONB); COMMENT ON COLUMN "users"."state" IS 'the state'; COMMENT ON TABLE "users" IS 'all users';`, stmt)

	stmt, err = p.CreateTableQuery(users, []query.Attribute{{Field: "id", Type: types.BigInt(), AutoIncrement: true}}, query.TableOptions{})
	asserts.NoError(err)
	asserts.Equal(`CREATE TABLE IF NOT EXISTS "users" ("id" BIGSERIAL)`, stmt)

	stmt, err = p.AddColumnQuery(users, query.Attribute{Field: "state", Type: types.Enum("a", "b")})
	asserts.NoError(err)
	asserts.Equal(enum+` ALTER TABLE "users" ADD COLUMN "state" "enum_users_state";`, stmt)

	stmt, err = p.AddColumnQuery(users, query.Attribute{Field: "bio", Type: types.Text(), Comment: "about"})
	asserts.NoError(err)
	asserts.Equal(`ALTER TABLE "users" ADD COLUMN "bio" TEXT; COMMENT ON COLUMN "users"."bio" IS 'about';`, stmt)

	stmt, err = p.ChangeColumnQuery(users, query.Attribute{Field: "state", Type: types.Enum("a", "b")})
	asserts.NoError(err)
	asserts.Equal(enum+` ALTER TABLE "users" ALTER COLUMN "state" TYPE "enum_users_state" USING ("state"::"enum_users_state"), ALTER COLUMN "state" DROP NOT NULL, ALTER COLUMN "state" DROP DEFAULT;`, stmt)

	_, err = p.ChangeColumnQuery(users, query.Attribute{Field: "state"})
	asserts.Error(err)

	stmt, err = p.AddIndexQuery(users, query.IndexOptions{Fields: query.Fields("name"), Using: "GIN", Concurrently: true})
	asserts.NoError(err)
	asserts.Equal(`CREATE INDEX CONCURRENTLY IF NOT EXISTS "users_name" ON "users" USING GIN ("name")`, stmt)

	stmt, err = p.CreateDatabaseQuery("db", query.DatabaseOptions{Encoding: "UTF8", Collate: "C", Ctype: "C", Template: "template0"})
	asserts.NoError(err)
	asserts.Equal(`CREATE DATABASE "db" ENCODING = 'UTF8' LC_COLLATE = 'C' LC_CTYPE = 'C' TEMPLATE = "template0"`, stmt)

	asserts.Equal("SELECT current_setting('server_version') AS version", p.VersionQuery())
	asserts.Equal(`DROP TABLE IF EXISTS "users" CASCADE`, p.DropTableQuery(users, query.DropOptions{Cascade: true}))
	asserts.Equal("SET CONSTRAINTS ALL DEFERRED", p.DeferConstraintsQuery(nil))
	asserts.Equal(`SET CONSTRAINTS "a", "b" DEFERRED`, p.DeferConstraintsQuery([]string{"a", "b"}))
}

// TestPostgres_Builder tests the numeric placeholders, RETURNING and the ctid limit.
func TestPostgres_Builder(t *testing.T) {
	asserts := assert.New(t)
	p := testPostgres()
	users := query.Table("users")

	stmts, args, err := p.InsertBuilder(users).Values([]map[string]interface{}{{"id": 1, "name": "a"}}).Ignore(true).Returning("id").String()
	asserts.NoError(err)
	asserts.Equal([]string{`INSERT INTO "users" ("id", "name") VALUES ($1, $2) ON CONFLICT DO NOTHING RETURNING "id"`}, stmts)
	asserts.Equal([][]interface{}{{1, "a"}}, args)

	stmts, _, err = p.InsertBuilder(users).Values([]map[string]interface{}{{"id": 1, "name": "a"}}).OnConflict(query.OnConflict{Fields: []string{"id"}, Update: []string{"name"}}).String()
	asserts.NoError(err)
	asserts.Equal([]string{`INSERT INTO "users" ("id", "name") VALUES ($1, $2) ON CONFLICT ("id") DO UPDATE SET "name" = EXCLUDED."name"`}, stmts)

	stmt, uargs, err := p.UpdateBuilder(users).Set(map[string]interface{}{"name": "b"}).Where("id > ?", 1).Limit(2).String()
	asserts.NoError(err)
	asserts.Equal(`UPDATE "users" SET "name" = $1 WHERE ctid IN (SELECT ctid FROM "users" WHERE id > $2 LIMIT 2)`, stmt)
	asserts.Equal([]interface{}{"b", 1}, uargs)
}

// TestPostgres_TriggerFunction tests the trigger and function statements.
func TestPostgres_TriggerFunction(t *testing.T) {
	asserts := assert.New(t)
	p := testPostgres()
	users := query.Table("users")

	stmt, err := p.CreateTriggerQuery(query.Trigger{
		Name:         "trg",
		Table:        users,
		Timing:       query.TriggerAfter,
		Events:       []query.TriggerEvent{{Name: "INSERT"}, {Name: "UPDATE", Columns: []string{"name"}}},
		Function:     "notify",
		FunctionArgs: []string{"'x'"},
		Options:      []string{"FOR EACH ROW"},
	})
	asserts.NoError(err)
	asserts.Equal(`CREATE TRIGGER "trg" AFTER INSERT OR UPDATE OF "name" ON "users" FOR EACH ROW EXECUTE FUNCTION "notify"('x')`, stmt)

	stmt, err = p.CreateTriggerQuery(query.Trigger{Name: "trg", Table: users, Timing: query.TriggerAfterConstraint, Events: []query.TriggerEvent{{Name: "DELETE"}}, Function: "check"})
	asserts.NoError(err)
	asserts.Equal(`CREATE CONSTRAINT TRIGGER "trg" AFTER DELETE ON "users" EXECUTE FUNCTION "check"()`, stmt)

	_, err = p.CreateTriggerQuery(query.Trigger{Name: "trg", Table: users, Timing: query.TriggerAfter, Function: "notify"})
	asserts.Error(err)

	stmt, err = p.DropTriggerQuery(users, "trg")
	asserts.NoError(err)
	asserts.Equal(`DROP TRIGGER IF EXISTS "trg" ON "users" RESTRICT`, stmt)
	stmt, err = p.RenameTriggerQuery(users, "trg", "trg2")
	asserts.NoError(err)
	asserts.Equal(`ALTER TRIGGER "trg" ON "users" RENAME TO "trg2"`, stmt)

	params := []query.FunctionParam{{Type: "integer", Name: "a"}, {Type: "integer", Name: "b", Direction: query.DirectionIn}}
	stmt, err = p.CreateFunctionQuery(query.Function{
		Name:      "add",
		Params:    params,
		Returns:   "integer",
		Language:  "plpgsql",
		Body:      "RETURN a + b + c;",
		Variables: []query.FunctionVariable{{Name: "c", Type: "integer", Default: "1"}},
		Options:   []string{"IMMUTABLE"},
		Force:     true,
	})
	asserts.NoError(err)
	asserts.Equal(`CREATE OR REPLACE FUNCTION "add"("a" integer, IN "b" integer) RETURNS integer AS $func$ DECLARE "c" integer := 1; BEGIN RETURN a + b + c; END; $func$ LANGUAGE plpgsql IMMUTABLE;`, stmt)

	stmt, err = p.CreateFunctionQuery(query.Function{Name: "one", Returns: "integer", Language: "sql", Body: "SELECT 1"})
	asserts.NoError(err)
	asserts.Equal(`CREATE FUNCTION "one"() RETURNS integer AS $func$ SELECT 1 $func$ LANGUAGE sql;`, stmt)

	_, err = p.CreateFunctionQuery(query.Function{Name: "one"})
	asserts.Error(err)

	stmt, err = p.DropFunctionQuery("add", params)
	asserts.NoError(err)
	asserts.Equal(`DROP FUNCTION IF EXISTS "add"(integer, IN integer) RESTRICT;`, stmt)
	stmt, err = p.RenameFunctionQuery("add", params, "sum")
	asserts.NoError(err)
	asserts.Equal(`ALTER FUNCTION "add"(integer, IN integer) RENAME TO "sum";`, stmt)
}

// TestPostgres_FormatError tests the SQLSTATE classification.
func TestPostgres_FormatError(t *testing.T) {
	asserts := assert.New(t)
	p := testPostgres()

	err := p.FormatError(&pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_email_key", Detail: "Key (email, name)=(a, b) already exists."}, "INSERT")
	asserts.True(errors.Is(err, query.ErrUniqueConstraint))
	var dbErr *query.DatabaseError
	asserts.True(errors.As(err, &dbErr))
	asserts.Equal("users", dbErr.Table)
	asserts.Equal("users_email_key", dbErr.Index)
	asserts.Equal([]string{"email", "name"}, dbErr.Fields)
	asserts.Equal("INSERT", dbErr.SQL)

	err = p.FormatError(&pgconn.PgError{Code: "23503", TableName: "users", ConstraintName: "users_role_id_fkey", Detail: `Key (role_id)=(3) is not present in table "roles".`}, "")
	asserts.True(errors.Is(err, query.ErrForeignKeyConstraint))
	asserts.True(errors.As(err, &dbErr))
	asserts.Equal([]string{"role_id"}, dbErr.Fields)

	asserts.True(errors.Is(p.FormatError(&pgconn.PgError{Code: "23P01"}, ""), query.ErrExclusionConstraint))
	asserts.True(errors.Is(p.FormatError(&pgconn.PgError{Code: "57014"}, ""), query.ErrTimeout))
	asserts.True(errors.Is(p.FormatError(&pgconn.PgError{Code: "08006"}, ""), query.ErrConnection))
	asserts.True(errors.Is(p.FormatError(&pgconn.PgError{Code: "42P01"}, ""), query.ErrUnknown))
	asserts.True(errors.Is(p.FormatError(context.DeadlineExceeded, ""), query.ErrTimeout))

	plain := errors.New("plain")
	asserts.Equal(plain, p.FormatError(plain, ""))
	asserts.Nil(p.FormatError(nil, ""))
}
