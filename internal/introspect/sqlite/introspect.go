// Package sqlite reads SQLite schemas through sqlite_master and the table,
// index and foreign key pragmas.
package sqlite

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"schemasync/internal/introspect"
)

func init() {
	introspect.Register("sqlite", "sqlite", New)
}

type catalog struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) introspect.Catalog {
	return &catalog{db: db}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (c *catalog) TableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.db.SelectContext(ctx, &names, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	return names, err
}

func (c *catalog) HasTable(ctx context.Context, table string) (bool, error) {
	var n int
	err := c.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
	return n > 0, err
}

// TableMeta is empty: SQLite has no engine, charset, collation or comment
// at table level.
func (c *catalog) TableMeta(context.Context, string) (introspect.TableMeta, error) {
	return introspect.TableMeta{}, nil
}
