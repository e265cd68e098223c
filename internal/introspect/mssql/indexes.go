package mssql

import (
	"context"
	"strings"

	"schemasync/internal/core"
)

type indexRow struct {
	Name      string `db:"index_name"`
	Column    string `db:"column_name"`
	IsUnique  bool   `db:"is_unique"`
	IsPrimary bool   `db:"is_primary_key"`
	TypeDesc  string `db:"index_type"`
}

type foreignKeyRow struct {
	Name             string `db:"constraint_name"`
	Column           string `db:"column_name"`
	ReferencedTable  string `db:"referenced_table"`
	ReferencedColumn string `db:"referenced_column"`
	OnUpdate         string `db:"on_update"`
	OnDelete         string `db:"on_delete"`
}

func (c *catalog) Indexes(ctx context.Context, table string) ([]*core.Index, error) {
	var rows []indexRow
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			i.name AS index_name,
			col.name AS column_name,
			i.is_unique,
			i.is_primary_key,
			i.type_desc AS index_type
		FROM sys.indexes i
		JOIN sys.index_columns ic ON i.object_id = ic.object_id AND i.index_id = ic.index_id
		JOIN sys.columns col ON ic.object_id = col.object_id AND ic.column_id = col.column_id
		WHERE i.object_id = `+objectID+`
			AND i.name IS NOT NULL
			AND ic.is_included_column = 0
		ORDER BY i.name, ic.key_ordinal
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
	desc := strings.ToUpper(r.TypeDesc)
	idx := &core.Index{Name: r.Name, Columns: []string{}}

	switch {
	case r.IsPrimary:
		idx.Name = "primary"
		idx.Type = core.IndexPrimary
	case r.IsUnique:
		idx.Type = core.IndexUnique
	case desc == "SPATIAL":
		idx.Type = core.IndexSpatial
	default:
		idx.Type = core.IndexIndex
	}
	// Primary keys are clustered by default, so only secondary indexes
	// carry their storage kind.
	if idx.Type != core.IndexPrimary && idx.Type != core.IndexSpatial && desc != "" && desc != "NONCLUSTERED" {
		idx.Algorithm = &desc
	}
	return idx
}

func (c *catalog) ForeignKeys(ctx context.Context, table string) ([]*core.ForeignKey, error) {
	var rows []foreignKeyRow
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			fk.name AS constraint_name,
			COL_NAME(fkc.parent_object_id, fkc.parent_column_id) AS column_name,
			OBJECT_NAME(fkc.referenced_object_id) AS referenced_table,
			COL_NAME(fkc.referenced_object_id, fkc.referenced_column_id) AS referenced_column,
			fk.update_referential_action_desc AS on_update,
			fk.delete_referential_action_desc AS on_delete
		FROM sys.foreign_keys fk
		JOIN sys.foreign_key_columns fkc ON fk.object_id = fkc.constraint_object_id
		WHERE fk.parent_object_id = `+objectID+`
		ORDER BY fk.name, fkc.constraint_column_id
	`, table)
	if err != nil {
		return nil, err
	}

	var out []*core.ForeignKey
	byName := make(map[string]*core.ForeignKey)
	for _, r := range rows {
		fk, ok := byName[r.Name]
		if !ok {
			// NO_ACTION and SET_NULL are normalized to their spaced form.
			fk = core.NewForeignKey(r.Name, nil, r.ReferencedTable, nil, r.OnUpdate, r.OnDelete)
			byName[r.Name] = fk
			out = append(out, fk)
		}
		fk.Columns = append(fk.Columns, r.Column)
		fk.ReferencedColumns = append(fk.ReferencedColumns, r.ReferencedColumn)
	}
	return out, nil
}
