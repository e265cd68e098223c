package postgresql

import (
	"context"
	"strings"

	"schemasync/internal/core"
)

type indexRow struct {
	Name      string `db:"index_name"`
	Column    string `db:"column_name"`
	IsUnique  bool   `db:"is_unique"`
	IsPrimary bool   `db:"is_primary"`
	Method    string `db:"index_type"`
}

type foreignKeyRow struct {
	Name             string `db:"constraint_name"`
	Column           string `db:"column_name"`
	ReferencedTable  string `db:"foreign_table_name"`
	ReferencedColumn string `db:"foreign_column_name"`
	UpdateRule       string `db:"update_rule"`
	DeleteRule       string `db:"delete_rule"`
}

func (c *catalog) Indexes(ctx context.Context, table string) ([]*core.Index, error) {
	var rows []indexRow
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			i.relname AS index_name,
			a.attname AS column_name,
			ix.indisunique AS is_unique,
			ix.indisprimary AS is_primary,
			am.amname AS index_type
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_am am ON am.oid = i.relam
		JOIN pg_namespace n ON n.oid = t.relnamespace
		CROSS JOIN LATERAL unnest(ix.indkey::int2[]) WITH ORDINALITY AS k(attnum, ord)
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
		WHERE n.nspname = 'public' AND t.relname = $1
		ORDER BY i.relname, k.ord
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
		idx.Columns = append(idx.Columns, r.Column)
	}
	return out, nil
}

func newIndex(r indexRow) *core.Index {
	method := strings.ToLower(r.Method)
	idx := &core.Index{Name: r.Name, Columns: []string{}}

	switch {
	case r.IsPrimary:
		idx.Name = "primary"
		idx.Type = core.IndexPrimary
	case r.IsUnique:
		idx.Type = core.IndexUnique
	case method == "gin" || method == "gist":
		idx.Type = core.IndexFulltext
	default:
		idx.Type = core.IndexIndex
	}
	if method != "" && method != "btree" && idx.Type != core.IndexFulltext {
		idx.Algorithm = &method
	}
	return idx
}

// ForeignKeys pairs local and referenced columns by their position in the
// constraint's key arrays.
func (c *catalog) ForeignKeys(ctx context.Context, table string) ([]*core.ForeignKey, error) {
	var rows []foreignKeyRow
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			con.conname AS constraint_name,
			att.attname AS column_name,
			ref.relname AS foreign_table_name,
			ratt.attname AS foreign_column_name,
			CASE con.confupdtype
				WHEN 'c' THEN 'CASCADE' WHEN 'r' THEN 'RESTRICT' WHEN 'n' THEN 'SET NULL'
				WHEN 'd' THEN 'SET DEFAULT' ELSE 'NO ACTION' END AS update_rule,
			CASE con.confdeltype
				WHEN 'c' THEN 'CASCADE' WHEN 'r' THEN 'RESTRICT' WHEN 'n' THEN 'SET NULL'
				WHEN 'd' THEN 'SET DEFAULT' ELSE 'NO ACTION' END AS delete_rule
		FROM pg_constraint con
		JOIN pg_class cls ON cls.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = cls.relnamespace
		JOIN pg_class ref ON ref.oid = con.confrelid
		CROSS JOIN LATERAL unnest(con.conkey, con.confkey) WITH ORDINALITY AS k(attnum, refattnum, ord)
		JOIN pg_attribute att ON att.attrelid = con.conrelid AND att.attnum = k.attnum
		JOIN pg_attribute ratt ON ratt.attrelid = con.confrelid AND ratt.attnum = k.refattnum
		WHERE con.contype = 'f' AND n.nspname = 'public' AND cls.relname = $1
		ORDER BY con.conname, k.ord
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
