package postgresql

import (
	"context"
	"regexp"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/introspect"
)

var castRe = regexp.MustCompile(`(::[\w\s"\[\]]+)+$`)

var types = map[string]core.ColumnType{
	"numeric":                     core.TypeDecimal,
	"decimal":                     core.TypeDecimal,
	"float8":                      core.TypeDouble,
	"double precision":            core.TypeDouble,
	"float4":                      core.TypeFloat,
	"real":                        core.TypeFloat,
	"bpchar":                      core.TypeChar,
	"char":                        core.TypeChar,
	"character":                   core.TypeChar,
	"varchar":                     core.TypeString,
	"character varying":           core.TypeString,
	"text":                        core.TypeText,
	"bytea":                       core.TypeBinary,
	"bool":                        core.TypeBoolean,
	"boolean":                     core.TypeBoolean,
	"date":                        core.TypeDate,
	"timestamp":                   core.TypeDateTime,
	"timestamp without time zone": core.TypeDateTime,
	"timestamptz":                 core.TypeDateTimeTz,
	"timestamp with time zone":    core.TypeDateTimeTz,
	"time":                        core.TypeTime,
	"time without time zone":      core.TypeTime,
	"timetz":                      core.TypeTimeTz,
	"time with time zone":         core.TypeTimeTz,
	"json":                        core.TypeJSON,
	"jsonb":                       core.TypeJSONB,
	"uuid":                        core.TypeUUID,
	"inet":                        core.TypeIPAddress,
	"macaddr":                     core.TypeMacAddress,
	"macaddr8":                    core.TypeMacAddress,
	"geometry":                    core.TypeGeometry,
	"geography":                   core.TypeGeography,
	"point":                       core.TypePoint,
}

// integerTypes maps an integer udt name to its auto-increment and plain type.
var integerTypes = map[string][2]core.ColumnType{
	"int8":        {core.TypeBigIncrements, core.TypeBigInteger},
	"bigint":      {core.TypeBigIncrements, core.TypeBigInteger},
	"bigserial":   {core.TypeBigIncrements, core.TypeBigInteger},
	"int4":        {core.TypeIncrements, core.TypeInteger},
	"integer":     {core.TypeIncrements, core.TypeInteger},
	"serial":      {core.TypeIncrements, core.TypeInteger},
	"int2":        {core.TypeSmallIncrements, core.TypeSmallInteger},
	"smallint":    {core.TypeSmallIncrements, core.TypeSmallInteger},
	"smallserial": {core.TypeSmallIncrements, core.TypeSmallInteger},
}

type columnRow struct {
	Name       string  `db:"column_name"`
	UDTName    string  `db:"udt_name"`
	IsNullable string  `db:"is_nullable"`
	Default    *string `db:"column_default"`
	IsIdentity string  `db:"is_identity"`
	MaxLength  *int    `db:"character_maximum_length"`
	Precision  *int    `db:"numeric_precision"`
	Scale      *int    `db:"numeric_scale"`
	Collation  *string `db:"collation_name"`
	Comment    *string `db:"column_comment"`
}

func (c *catalog) Columns(ctx context.Context, table string) ([]*core.Column, error) {
	var rows []columnRow
	err := c.db.SelectContext(ctx, &rows, `
		SELECT
			c.column_name,
			c.udt_name,
			c.is_nullable,
			c.column_default,
			c.is_identity,
			c.character_maximum_length,
			c.numeric_precision,
			c.numeric_scale,
			c.collation_name,
			col_description(cls.oid, c.ordinal_position::int) AS column_comment
		FROM information_schema.columns c
		JOIN pg_namespace n ON n.nspname = c.table_schema
		JOIN pg_class cls ON cls.relname = c.table_name AND cls.relnamespace = n.oid
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position
	`, table)
	if err != nil {
		return nil, err
	}

	cols := make([]*core.Column, 0, len(rows))
	for _, r := range rows {
		autoInc := r.IsIdentity == "YES" || (r.Default != nil && strings.Contains(*r.Default, "nextval("))
		col := &core.Column{
			Name:          r.Name,
			Type:          MapType(r.UDTName, autoInc),
			Nullable:      r.IsNullable == "YES",
			Default:       ParseDefault(r.Default),
			AutoIncrement: autoInc,
			Collation:     r.Collation,
			Comment:       introspect.EmptyToNil(r.Comment),
		}
		switch col.Type {
		case core.TypeChar, core.TypeString:
			col.Length = r.MaxLength
		case core.TypeDecimal:
			col.Precision, col.Scale = r.Precision, r.Scale
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// MapType maps a PostgreSQL udt name onto the shared column types.
func MapType(udt string, autoIncrement bool) core.ColumnType {
	udt = strings.ToLower(udt)
	if sizes, ok := integerTypes[udt]; ok {
		if autoIncrement {
			return sizes[0]
		}
		return sizes[1]
	}
	if t, ok := types[udt]; ok {
		return t
	}
	return core.TypeUnknown
}

// ParseDefault strips the type cast PostgreSQL appends to defaults and
// decodes the literal. Sequence defaults are reported as no default.
func ParseDefault(raw *string) any {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if strings.Contains(v, "nextval(") {
		return nil
	}
	v = castRe.ReplaceAllString(v, "")
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	return introspect.ParseDefault(&v)
}
