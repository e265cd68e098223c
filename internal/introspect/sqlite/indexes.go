package sqlite

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"schemasync/internal/core"
)

// indexListRow holds a row from PRAGMA index_list().
type indexListRow struct {
	Seq     int    `db:"seq"`
	Name    string `db:"name"`
	Unique  int    `db:"unique"`
	Origin  string `db:"origin"`
	Partial int    `db:"partial"`
}

// indexInfoRow holds a row from PRAGMA index_info().
type indexInfoRow struct {
	SeqNo int     `db:"seqno"`
	CID   int     `db:"cid"`
	Name  *string `db:"name"`
}

// foreignKeyRow holds a row from PRAGMA foreign_key_list().
type foreignKeyRow struct {
	ID       int     `db:"id"`
	Seq      int     `db:"seq"`
	Table    string  `db:"table"`
	From     string  `db:"from"`
	To       *string `db:"to"`
	OnUpdate string  `db:"on_update"`
	OnDelete string  `db:"on_delete"`
	Match    string  `db:"match"`
}

func (c *catalog) Indexes(ctx context.Context, table string) ([]*core.Index, error) {
	var list []indexListRow
	if err := c.db.SelectContext(ctx, &list, "PRAGMA index_list("+quoteIdent(table)+")"); err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	var out []*core.Index
	for _, l := range list {
		var info []indexInfoRow
		if err := c.db.SelectContext(ctx, &info, "PRAGMA index_info("+quoteIdent(l.Name)+")"); err != nil {
			return nil, err
		}
		sort.Slice(info, func(i, j int) bool { return info[i].SeqNo < info[j].SeqNo })

		idx := &core.Index{Name: l.Name, Type: core.IndexIndex, Columns: []string{}}
		switch {
		case l.Origin == "pk":
			idx.Name = "primary"
			idx.Type = core.IndexPrimary
		case l.Unique == 1:
			idx.Type = core.IndexUnique
		}
		for _, col := range info {
			if col.Name != nil {
				idx.Columns = append(idx.Columns, *col.Name)
			}
		}
		out = append(out, idx)
	}

	if slices.ContainsFunc(out, func(idx *core.Index) bool { return idx.Type == core.IndexPrimary }) {
		return out, nil
	}
	// An INTEGER PRIMARY KEY is the rowid and has no index of its own.
	pk, err := c.primaryKeyColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(pk) > 0 {
		out = append(out, &core.Index{Name: "primary", Type: core.IndexPrimary, Columns: pk})
	}
	return out, nil
}

// primaryKeyColumns returns the primary key columns in key order.
func (c *catalog) primaryKeyColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := c.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}
	var pk []tableInfoRow
	for _, r := range rows {
		if r.PK > 0 {
			pk = append(pk, r)
		}
	}
	sort.Slice(pk, func(i, j int) bool { return pk[i].PK < pk[j].PK })

	cols := make([]string, 0, len(pk))
	for _, r := range pk {
		cols = append(cols, r.Name)
	}
	return cols, nil
}

// ForeignKeys groups the pragma rows by constraint id. SQLite does not keep
// constraint names, so they are named fk_{table}_{referenced}_{id}.
func (c *catalog) ForeignKeys(ctx context.Context, table string) ([]*core.ForeignKey, error) {
	var rows []foreignKeyRow
	if err := c.db.SelectContext(ctx, &rows, "PRAGMA foreign_key_list("+quoteIdent(table)+")"); err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ID != rows[j].ID {
			return rows[i].ID < rows[j].ID
		}
		return rows[i].Seq < rows[j].Seq
	})

	var out []*core.ForeignKey
	byID := make(map[int]*core.ForeignKey)
	for _, r := range rows {
		fk, ok := byID[r.ID]
		if !ok {
			name := fmt.Sprintf("fk_%s_%s_%d", table, r.Table, r.ID)
			fk = core.NewForeignKey(name, nil, r.Table, nil, r.OnUpdate, r.OnDelete)
			byID[r.ID] = fk
			out = append(out, fk)
		}
		fk.Columns = append(fk.Columns, r.From)
		if r.To != nil {
			fk.ReferencedColumns = append(fk.ReferencedColumns, *r.To)
		}
	}

	// A REFERENCES clause without columns targets the parent's primary key.
	for _, fk := range out {
		if len(fk.ReferencedColumns) > 0 {
			continue
		}
		pk, err := c.primaryKeyColumns(ctx, fk.ReferencedTable)
		if err != nil {
			return nil, err
		}
		fk.ReferencedColumns = pk
	}
	return out, nil
}
