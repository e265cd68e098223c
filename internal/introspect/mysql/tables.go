package mysql

import (
	"context"
	"database/sql"
	"errors"

	"schemasync/internal/introspect"
)

type tableRow struct {
	Engine    *string `db:"engine"`
	Collation *string `db:"collation"`
	Charset   *string `db:"charset"`
	Comment   *string `db:"comment"`
}

func (c *catalog) TableNames(ctx context.Context) ([]string, error) {
	var names []string
	err := c.db.SelectContext(ctx, &names, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`)
	return names, err
}

func (c *catalog) HasTable(ctx context.Context, table string) (bool, error) {
	var n int
	err := c.db.GetContext(ctx, &n, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ? AND table_type = 'BASE TABLE'
	`, table)
	return n > 0, err
}

func (c *catalog) TableMeta(ctx context.Context, table string) (introspect.TableMeta, error) {
	var row tableRow
	err := c.db.GetContext(ctx, &row, `
		SELECT
			t.engine AS engine,
			t.table_collation AS collation,
			ccsa.character_set_name AS charset,
			t.table_comment AS comment
		FROM information_schema.tables t
		LEFT JOIN information_schema.collation_character_set_applicability ccsa
			ON ccsa.collation_name = t.table_collation
		WHERE t.table_schema = DATABASE() AND t.table_name = ?
	`, table)
	if errors.Is(err, sql.ErrNoRows) {
		return introspect.TableMeta{}, nil
	}
	if err != nil {
		return introspect.TableMeta{}, err
	}

	return introspect.TableMeta{
		Engine:    introspect.EmptyToNil(row.Engine),
		Charset:   introspect.EmptyToNil(row.Charset),
		Collation: introspect.EmptyToNil(row.Collation),
		Comment:   introspect.EmptyToNil(row.Comment),
	}, nil
}
