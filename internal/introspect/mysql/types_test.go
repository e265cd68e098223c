package mysql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"schemasync/internal/core"
	"schemasync/internal/introspect"
)

func TestMapType(t *testing.T) {
	tests := []struct {
		raw     string
		autoInc bool
		want    core.ColumnType
	}{
		{"bigint unsigned", true, core.TypeBigIncrements},
		{"bigint unsigned", false, core.TypeUnsignedBigInteger},
		{"bigint(20)", false, core.TypeBigInteger},
		{"int(10) unsigned", true, core.TypeIncrements},
		{"int", false, core.TypeInteger},
		{"mediumint unsigned", false, core.TypeUnsignedMediumInteger},
		{"smallint", true, core.TypeSmallIncrements},
		{"tinyint(1)", false, core.TypeBoolean},
		{"tinyint(4)", false, core.TypeTinyInteger},
		{"tinyint unsigned", false, core.TypeUnsignedTinyInteger},
		{"decimal(10,2)", false, core.TypeDecimal},
		{"double", false, core.TypeDouble},
		{"float", false, core.TypeFloat},
		{"char(36)", false, core.TypeUUID},
		{"char(26)", false, core.TypeULID},
		{"char(2)", false, core.TypeChar},
		{"varchar(255)", false, core.TypeString},
		{"longtext", false, core.TypeLongText},
		{"varbinary(16)", false, core.TypeBinary},
		{"timestamp", false, core.TypeTimestamp},
		{"datetime(6)", false, core.TypeDateTime},
		{"year", false, core.TypeYear},
		{"json", false, core.TypeJSON},
		{"enum('a','b')", false, core.TypeEnum},
		{"set('x')", false, core.TypeSet},
		{"multipolygon", false, core.TypeMultiPolygon},
		{"bit(8)", false, core.TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, MapType(introspect.ParseTypeString(tt.raw), tt.autoInc))
		})
	}
}

func TestColumnFromType(t *testing.T) {
	id := ColumnFromType("id", "bigint unsigned", true)
	assert.Equal(t, core.TypeBigIncrements, id.Type)
	assert.True(t, id.Unsigned)
	assert.True(t, id.AutoIncrement)
	assert.Nil(t, id.Length)

	name := ColumnFromType("name", "varchar(191)", false)
	assert.Equal(t, 191, *name.Length)

	uuid := ColumnFromType("uuid", "char(36)", false)
	assert.Nil(t, uuid.Length)

	flag := ColumnFromType("active", "tinyint(1)", false)
	assert.Nil(t, flag.Length)

	amount := ColumnFromType("amount", "decimal(12,4) unsigned", false)
	assert.Equal(t, 12, *amount.Precision)
	assert.Equal(t, 4, *amount.Scale)
	assert.True(t, amount.Unsigned)
	assert.Nil(t, amount.Length)

	role := ColumnFromType("role", "enum('admin','member')", false)
	assert.Equal(t, []string{"admin", "member"}, role.AllowedValues)
	assert.Nil(t, ColumnFromType("n", "int", false).AllowedValues)
}

func TestEnumValues(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"enum('a','b')", []string{"a", "b"}},
		{"ENUM('a', 'b')", []string{"a", "b"}},
		{"set('read','write','admin')", []string{"read", "write", "admin"}},
		{"enum('it''s','x,y')", []string{"it's", "x,y"}},
		{"enum('')", []string{""}},
		{"varchar(10)", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, EnumValues(tt.raw))
		})
	}
}

func TestNewIndexClassification(t *testing.T) {
	col := "c"
	tests := []struct {
		name      string
		row       indexRow
		wantName  string
		wantType  core.IndexType
		algorithm *string
	}{
		{"primary", indexRow{Name: "PRIMARY", IndexType: "BTREE", Column: &col}, "primary", core.IndexPrimary, nil},
		{"unique", indexRow{Name: "u", NonUnique: 0, IndexType: "BTREE"}, "u", core.IndexUnique, nil},
		{"plain", indexRow{Name: "i", NonUnique: 1, IndexType: "BTREE"}, "i", core.IndexIndex, nil},
		{"fulltext", indexRow{Name: "f", NonUnique: 1, IndexType: "FULLTEXT"}, "f", core.IndexFulltext, nil},
		{"spatial", indexRow{Name: "s", NonUnique: 1, IndexType: "SPATIAL"}, "s", core.IndexSpatial, nil},
		{"hash", indexRow{Name: "h", NonUnique: 1, IndexType: "HASH"}, "h", core.IndexIndex, core.Ptr("HASH")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := newIndex(tt.row)
			assert.Equal(t, tt.wantName, idx.Name)
			assert.Equal(t, tt.wantType, idx.Type)
			assert.Equal(t, tt.algorithm, idx.Algorithm)
		})
	}
}
