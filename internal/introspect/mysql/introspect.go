// Package mysql reads MySQL and MariaDB schemas from information_schema and
// the SHOW statements. Both servers share one catalog implementation.
package mysql

import (
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"schemasync/internal/introspect"
)

func init() {
	introspect.Register("mysql", "mysql", New)
	introspect.Register("mariadb", "mysql", New)
}

type catalog struct {
	db *sqlx.DB
}

// New returns the MySQL catalog over db. Queries run against the database
// selected by the connection.
func New(db *sqlx.DB) introspect.Catalog {
	return &catalog{db: db}
}

func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
