// Package postgresql reads PostgreSQL schemas from the public schema using
// information_schema and the pg_catalog tables.
package postgresql

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"schemasync/internal/introspect"
)

func init() {
	introspect.Register("pgsql", "pgx", New)
}

type catalog struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) introspect.Catalog {
	return &catalog{db: db}
}

func (c *catalog) TableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.db.SelectContext(ctx, &names, `
		SELECT tablename FROM pg_tables
		WHERE schemaname = 'public'
		ORDER BY tablename
	`)
	return names, err
}

func (c *catalog) HasTable(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := c.db.GetContext(ctx, &exists, `
		SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname = 'public' AND tablename = $1)
	`, table)
	return exists, err
}

// TableMeta reports only the comment; PostgreSQL has no table engine, and
// charset and collation belong to the database.
func (c *catalog) TableMeta(ctx context.Context, table string) (introspect.TableMeta, error) {
	var comments []*string
	err := c.db.SelectContext(ctx, &comments, `
		SELECT obj_description(c.oid, 'pg_class')
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = 'public' AND c.relname = $1 AND c.relkind IN ('r', 'p')
	`, table)
	if err != nil || len(comments) == 0 {
		return introspect.TableMeta{}, err
	}
	return introspect.TableMeta{Comment: introspect.EmptyToNil(comments[0])}, nil
}
