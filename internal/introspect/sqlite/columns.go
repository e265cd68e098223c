package sqlite

import (
	"context"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/introspect"
)

// tableInfoRow holds a row from PRAGMA table_info().
type tableInfoRow struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

func (c *catalog) tableInfo(ctx context.Context, table string) ([]tableInfoRow, error) {
	var rows []tableInfoRow
	err := c.db.SelectContext(ctx, &rows, "PRAGMA table_info("+quoteIdent(table)+")")
	return rows, err
}

func (c *catalog) Columns(ctx context.Context, table string) ([]*core.Column, error) {
	rows, err := c.tableInfo(ctx, table)
	if err != nil {
		return nil, err
	}

	pkCount := 0
	for _, r := range rows {
		if r.PK > 0 {
			pkCount++
		}
	}

	cols := make([]*core.Column, 0, len(rows))
	for _, r := range rows {
		info := introspect.ParseTypeString(r.Type)
		// Only a lone INTEGER PRIMARY KEY aliases the rowid.
		autoInc := r.PK > 0 && pkCount == 1 && info.Base == "integer"
		col := &core.Column{
			Name:          r.Name,
			Type:          MapType(info, autoInc),
			Nullable:      r.NotNull == 0,
			Default:       introspect.ParseDefault(r.Default),
			AutoIncrement: autoInc,
			Unsigned:      info.Unsigned,
		}
		switch col.Type {
		case core.TypeString, core.TypeChar:
			col.Length = info.Length
		case core.TypeDecimal, core.TypeFloat:
			col.Precision, col.Scale = info.Precision, info.Scale
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// MapType follows SQLite's type affinity rules: the declared type is matched
// by substring, in the order SQLite itself applies them.
func MapType(info introspect.TypeInfo, autoIncrement bool) core.ColumnType {
	base := strings.ToUpper(info.Base)
	length := 0
	if info.Length != nil {
		length = *info.Length
	}

	switch {
	case base == "INTEGER" && autoIncrement:
		return core.TypeIncrements
	case strings.Contains(base, "INT"):
		return core.TypeInteger
	case strings.Contains(base, "CHAR") || strings.Contains(base, "CLOB") || base == "TEXT":
		switch {
		case length == 36:
			return core.TypeUUID
		case length == 26:
			return core.TypeULID
		case base == "TEXT":
			return core.TypeText
		}
		return core.TypeString
	case strings.Contains(base, "BLOB") || base == "":
		return core.TypeBinary
	case strings.Contains(base, "REAL") || strings.Contains(base, "FLOA") || strings.Contains(base, "DOUB"):
		return core.TypeFloat
	case strings.Contains(base, "BOOL"):
		return core.TypeBoolean
	case strings.Contains(base, "DATE"):
		return core.TypeDate
	case strings.Contains(base, "TIME"):
		return core.TypeDateTime
	case strings.Contains(base, "DECIMAL") || strings.Contains(base, "NUMERIC"):
		return core.TypeDecimal
	case base == "JSON":
		return core.TypeJSON
	}
	return core.TypeUnknown
}
