// Package mssql reads SQL Server schemas from the dbo schema using
// INFORMATION_SCHEMA and the sys catalog views.
package mssql

import (
	"context"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"

	"schemasync/internal/introspect"
)

func init() {
	introspect.Register("sqlsrv", "sqlserver", New)
}

// objectID resolves a dbo table name to its object id inside a query.
const objectID = "OBJECT_ID(QUOTENAME('dbo') + '.' + QUOTENAME(@p1))"

type catalog struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) introspect.Catalog {
	return &catalog{db: db}
}

func (c *catalog) TableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.db.SelectContext(ctx, &names, `
		SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = 'dbo'
		ORDER BY TABLE_NAME
	`)
	return names, err
}

func (c *catalog) HasTable(ctx context.Context, table string) (bool, error) {
	var n int
	err := c.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = 'dbo' AND TABLE_NAME = @p1
	`, table)
	return n > 0, err
}

// TableMeta reports the MS_Description property as the comment; engine,
// charset and collation have no table level equivalent.
func (c *catalog) TableMeta(ctx context.Context, table string) (introspect.TableMeta, error) {
	var comments []*string
	err := c.db.SelectContext(ctx, &comments, `
		SELECT CAST(ep.value AS NVARCHAR(4000))
		FROM sys.extended_properties ep
		WHERE ep.major_id = `+objectID+`
			AND ep.minor_id = 0
			AND ep.name = 'MS_Description'
	`, table)
	if err != nil || len(comments) == 0 {
		return introspect.TableMeta{}, err
	}
	return introspect.TableMeta{Comment: introspect.EmptyToNil(comments[0])}, nil
}
