package mysql

import (
	"regexp"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/introspect"
)

var enumRe = regexp.MustCompile(`(?i)^\s*(enum|set)\((.+)\)\s*$`)

var simpleTypes = map[string]core.ColumnType{
	"decimal":            core.TypeDecimal,
	"numeric":            core.TypeDecimal,
	"double":             core.TypeDouble,
	"float":              core.TypeFloat,
	"varchar":            core.TypeString,
	"text":               core.TypeText,
	"mediumtext":         core.TypeMediumText,
	"longtext":           core.TypeLongText,
	"tinytext":           core.TypeTinyText,
	"blob":               core.TypeBinary,
	"binary":             core.TypeBinary,
	"varbinary":          core.TypeBinary,
	"mediumblob":         core.TypeBinary,
	"longblob":           core.TypeBinary,
	"tinyblob":           core.TypeBinary,
	"date":               core.TypeDate,
	"datetime":           core.TypeDateTime,
	"timestamp":          core.TypeTimestamp,
	"time":               core.TypeTime,
	"year":               core.TypeYear,
	"json":               core.TypeJSON,
	"enum":               core.TypeEnum,
	"set":                core.TypeSet,
	"geometry":           core.TypeGeometry,
	"point":              core.TypePoint,
	"linestring":         core.TypeLineString,
	"polygon":            core.TypePolygon,
	"geometrycollection": core.TypeGeometryCollection,
	"multipoint":         core.TypeMultiPoint,
	"multilinestring":    core.TypeMultiLineString,
	"multipolygon":       core.TypeMultiPolygon,
}

// integerTypes maps each integer size to its auto-increment, unsigned and
// signed column types.
var integerTypes = map[string][3]core.ColumnType{
	"bigint":    {core.TypeBigIncrements, core.TypeUnsignedBigInteger, core.TypeBigInteger},
	"int":       {core.TypeIncrements, core.TypeUnsignedInteger, core.TypeInteger},
	"integer":   {core.TypeIncrements, core.TypeUnsignedInteger, core.TypeInteger},
	"mediumint": {core.TypeMediumIncrements, core.TypeUnsignedMediumInteger, core.TypeMediumInteger},
	"smallint":  {core.TypeSmallIncrements, core.TypeUnsignedSmallInteger, core.TypeSmallInteger},
	"tinyint":   {core.TypeTinyIncrements, core.TypeUnsignedTinyInteger, core.TypeTinyInteger},
}

// MapType maps a parsed MySQL column type onto the shared column types.
func MapType(info introspect.TypeInfo, autoIncrement bool) core.ColumnType {
	if sizes, ok := integerTypes[info.Base]; ok {
		switch {
		case info.Base == "tinyint" && info.Length != nil && *info.Length == 1:
			return core.TypeBoolean
		case autoIncrement:
			return sizes[0]
		case info.Unsigned:
			return sizes[1]
		default:
			return sizes[2]
		}
	}
	if info.Base == "char" {
		switch {
		case info.Length != nil && *info.Length == 36:
			return core.TypeUUID
		case info.Length != nil && *info.Length == 26:
			return core.TypeULID
		}
		return core.TypeChar
	}
	if t, ok := simpleTypes[info.Base]; ok {
		return t
	}
	return core.TypeUnknown
}

// ColumnFromType builds a column from a raw MySQL type such as
// "bigint unsigned" or "enum('a','b')". Size arguments are kept only where
// they carry meaning: length for char and varchar, precision and scale for
// the fractional types.
func ColumnFromType(name, rawType string, autoIncrement bool) *core.Column {
	info := introspect.ParseTypeString(rawType)
	col := &core.Column{
		Name:          name,
		Type:          MapType(info, autoIncrement),
		AutoIncrement: autoIncrement,
		Unsigned:      info.Unsigned,
		AllowedValues: EnumValues(rawType),
	}

	switch col.Type {
	case core.TypeChar, core.TypeString:
		col.Length = info.Length
	case core.TypeDecimal, core.TypeDouble, core.TypeFloat:
		col.Precision, col.Scale = info.Precision, info.Scale
	}
	return col
}

// EnumValues decodes the value list of an enum or set type. Other types
// yield nil.
func EnumValues(rawType string) []string {
	m := enumRe.FindStringSubmatch(rawType)
	if m == nil {
		return nil
	}
	return splitQuoted(m[2])
}

// splitQuoted splits 'a','b c','it''s' into its values. Quotes are doubled
// inside a value, the way MySQL prints them.
func splitQuoted(list string) []string {
	values := []string{}
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(list); i++ {
		ch := list[i]
		switch {
		case ch == '\'' && inQuote && i+1 < len(list) && list[i+1] == '\'':
			cur.WriteByte('\'')
			i++
		case ch == '\'':
			inQuote = !inQuote
		case ch == ',' && !inQuote:
			values = append(values, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	return append(values, strings.TrimSpace(cur.String()))
}
