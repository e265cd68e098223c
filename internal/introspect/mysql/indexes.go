package mysql

import (
	"context"
	"strings"

	"schemasync/internal/core"
)

type indexRow struct {
	Name      string  `db:"index_name"`
	NonUnique int     `db:"non_unique"`
	Seq       int     `db:"seq_in_index"`
	Column    *string `db:"column_name"`
	IndexType string  `db:"index_type"`
}

type foreignKeyRow struct {
	Name             string `db:"constraint_name"`
	Column           string `db:"column_name"`
	ReferencedTable  string `db:"referenced_table_name"`
	ReferencedColumn string `db:"referenced_column_name"`
	UpdateRule       string `db:"update_rule"`
	DeleteRule       string `db:"delete_rule"`
}

func (c *catalog) Indexes(ctx context.Context, table string) ([]*core.Index, error) {
	var rows []indexRow
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			index_name AS index_name,
			non_unique AS non_unique,
			seq_in_index AS seq_in_index,
			column_name AS column_name,
			index_type AS index_type
		FROM information_schema.statistics
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY index_name, seq_in_index
	`, table)
	if err != nil {
		return nil, err
	}

	var out []*core.Index
	byName := make(map[string]*core.Index)
	for _, r := range rows {
		idx, ok := byName[r.Name]
		if !ok {
			idx = newIndex(r)
			byName[r.Name] = idx
			out = append(out, idx)
		}
		// Functional key parts have no column.
		if r.Column != nil {
			idx.Columns = append(idx.Columns, *r.Column)
		}
	}
	return out, nil
}

func newIndex(r indexRow) *core.Index {
	method := strings.ToUpper(r.IndexType)
	idx := &core.Index{Name: r.Name, Columns: []string{}}

	switch {
	case r.Name == "PRIMARY":
		idx.Name = "primary"
		idx.Type = core.IndexPrimary
	case method == "FULLTEXT":
		idx.Type = core.IndexFulltext
	case method == "SPATIAL":
		idx.Type = core.IndexSpatial
	case r.NonUnique == 0:
		idx.Type = core.IndexUnique
	default:
		idx.Type = core.IndexIndex
	}
	// FULLTEXT and SPATIAL are already carried by the index type.
	if method != "" && method != "BTREE" && method != "FULLTEXT" && method != "SPATIAL" {
		idx.Algorithm = &method
	}
	return idx
}

func (c *catalog) ForeignKeys(ctx context.Context, table string) ([]*core.ForeignKey, error) {
	var rows []foreignKeyRow
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			kcu.constraint_name AS constraint_name,
			kcu.column_name AS column_name,
			kcu.referenced_table_name AS referenced_table_name,
			kcu.referenced_column_name AS referenced_column_name,
			rc.update_rule AS update_rule,
			rc.delete_rule AS delete_rule
		FROM information_schema.key_column_usage kcu
		JOIN information_schema.referential_constraints rc
			ON kcu.constraint_name = rc.constraint_name
			AND kcu.table_schema = rc.constraint_schema
			AND kcu.table_name = rc.table_name
		WHERE kcu.table_schema = DATABASE()
			AND kcu.table_name = ?
			AND kcu.referenced_table_name IS NOT NULL
		ORDER BY kcu.constraint_name, kcu.ordinal_position
	`, table)
	if err != nil {
		return nil, err
	}

	var out []*core.ForeignKey
	byName := make(map[string]*core.ForeignKey)
	for _, r := range rows {
		fk, ok := byName[r.Name]
		if !ok {
			fk = core.NewForeignKey(r.Name, nil, r.ReferencedTable, nil, r.UpdateRule, r.DeleteRule)
			byName[r.Name] = fk
			out = append(out, fk)
		}
		fk.Columns = append(fk.Columns, r.Column)
		fk.ReferencedColumns = append(fk.ReferencedColumns, r.ReferencedColumn)
	}
	return out, nil
}
