package mssql

import (
	"context"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/introspect"
)

var types = map[string]core.ColumnType{
	"bit":              core.TypeBoolean,
	"decimal":          core.TypeDecimal,
	"numeric":          core.TypeDecimal,
	"money":            core.TypeDecimal,
	"float":            core.TypeDouble,
	"real":             core.TypeFloat,
	"char":             core.TypeChar,
	"nchar":            core.TypeChar,
	"varchar":          core.TypeString,
	"nvarchar":         core.TypeString,
	"text":             core.TypeText,
	"ntext":            core.TypeText,
	"xml":              core.TypeText,
	"binary":           core.TypeBinary,
	"varbinary":        core.TypeBinary,
	"image":            core.TypeBinary,
	"date":             core.TypeDate,
	"datetime":         core.TypeDateTime,
	"datetime2":        core.TypeDateTime,
	"smalldatetime":    core.TypeDateTime,
	"datetimeoffset":   core.TypeDateTimeTz,
	"time":             core.TypeTime,
	"uniqueidentifier": core.TypeUUID,
	"geography":        core.TypeGeography,
	"geometry":         core.TypeGeometry,
}

// integerTypes maps an integer type to its identity and plain type.
var integerTypes = map[string][2]core.ColumnType{
	"bigint":   {core.TypeBigIncrements, core.TypeBigInteger},
	"int":      {core.TypeIncrements, core.TypeInteger},
	"smallint": {core.TypeSmallIncrements, core.TypeSmallInteger},
	"tinyint":  {core.TypeTinyIncrements, core.TypeTinyInteger},
}

type columnRow struct {
	Name       string  `db:"COLUMN_NAME"`
	DataType   string  `db:"DATA_TYPE"`
	IsNullable string  `db:"IS_NULLABLE"`
	Default    *string `db:"COLUMN_DEFAULT"`
	MaxLength  *int    `db:"CHARACTER_MAXIMUM_LENGTH"`
	Precision  *int    `db:"NUMERIC_PRECISION"`
	Scale      *int    `db:"NUMERIC_SCALE"`
	Collation  *string `db:"COLLATION_NAME"`
	IsIdentity *int    `db:"IS_IDENTITY"`
	Comment    *string `db:"COLUMN_COMMENT"`
}

func (c *catalog) Columns(ctx context.Context, table string) ([]*core.Column, error) {
	var rows []columnRow
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.IS_NULLABLE,
			c.COLUMN_DEFAULT,
			c.CHARACTER_MAXIMUM_LENGTH,
			CAST(c.NUMERIC_PRECISION AS INT) AS NUMERIC_PRECISION,
			c.NUMERIC_SCALE,
			c.COLLATION_NAME,
			COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') AS IS_IDENTITY,
			CAST(ep.value AS NVARCHAR(4000)) AS COLUMN_COMMENT
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN sys.extended_properties ep
			ON ep.major_id = OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME))
			AND ep.minor_id = COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'ColumnId')
			AND ep.name = 'MS_Description'
		WHERE c.TABLE_SCHEMA = 'dbo' AND c.TABLE_NAME = @p1
		ORDER BY c.ORDINAL_POSITION
	`, table)
	if err != nil {
		return nil, err
	}

	cols := make([]*core.Column, 0, len(rows))
	for _, r := range rows {
		autoInc := r.IsIdentity != nil && *r.IsIdentity == 1
		col := &core.Column{
			Name:          r.Name,
			Type:          MapType(r.DataType, autoInc),
			Nullable:      r.IsNullable == "YES",
			Default:       ParseDefault(r.Default),
			AutoIncrement: autoInc,
			Collation:     r.Collation,
			Comment:       introspect.EmptyToNil(r.Comment),
		}
		switch col.Type {
		case core.TypeChar, core.TypeString:
			// max types report -1
			if r.MaxLength != nil && *r.MaxLength > 0 {
				col.Length = r.MaxLength
			}
		case core.TypeDecimal:
			col.Precision, col.Scale = r.Precision, r.Scale
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// MapType maps a SQL Server data type onto the shared column types.
func MapType(dataType string, autoIncrement bool) core.ColumnType {
	dataType = strings.ToLower(dataType)
	if sizes, ok := integerTypes[dataType]; ok {
		if autoIncrement {
			return sizes[0]
		}
		return sizes[1]
	}
	if t, ok := types[dataType]; ok {
		return t
	}
	return core.TypeUnknown
}

// ParseDefault unwraps the parentheses SQL Server stores defaults in, such
// as ((0)) or (N'text'), and decodes the literal.
func ParseDefault(raw *string) any {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	for wrapped(v) {
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	if len(v) >= 3 && (v[0] == 'N' || v[0] == 'n') && v[1] == '\'' {
		v = v[1:]
	}
	return introspect.ParseDefault(&v)
}

// wrapped reports whether the whole of v is one parenthesized group.
func wrapped(v string) bool {
	if len(v) < 2 || v[0] != '(' || v[len(v)-1] != ')' {
		return false
	}
	depth := 0
	for i := 0; i < len(v); i++ {
		switch v[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i < len(v)-1 {
				return false
			}
		}
	}
	return depth == 0
}
