package mysql

import (
	"context"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/introspect"
)

// columnRow is one row of SHOW FULL COLUMNS.
type columnRow struct {
	Field      string  `db:"Field"`
	Type       string  `db:"Type"`
	Collation  *string `db:"Collation"`
	Null       string  `db:"Null"`
	Key        string  `db:"Key"`
	Default    *string `db:"Default"`
	Extra      string  `db:"Extra"`
	Privileges string  `db:"Privileges"`
	Comment    string  `db:"Comment"`
}

func (c *catalog) Columns(ctx context.Context, table string) ([]*core.Column, error) {
	var rows []columnRow
	if err := c.db.SelectContext(ctx, &rows, "SHOW FULL COLUMNS FROM "+quoteIdent(table)); err != nil {
		return nil, err
	}

	cols := make([]*core.Column, 0, len(rows))
	for _, r := range rows {
		col := ColumnFromType(r.Field, r.Type, strings.Contains(r.Extra, "auto_increment"))
		col.Nullable = r.Null == "YES"
		// SHOW COLUMNS reports the default unquoted, so it is kept as text.
		if r.Default != nil {
			col.Default = *r.Default
		}
		col.Collation = introspect.EmptyToNil(r.Collation)
		col.Comment = introspect.EmptyToNil(&r.Comment)
		cols = append(cols, col)
	}
	return cols, nil
}
