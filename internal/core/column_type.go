package core

import "strings"

// ColumnType is the dialect-agnostic logical column kind. Both the migration
// analyzer and every introspector normalize onto this closed set.
type ColumnType string

const (
	TypeBigInteger            ColumnType = "bigInteger"
	TypeInteger               ColumnType = "integer"
	TypeMediumInteger         ColumnType = "mediumInteger"
	TypeSmallInteger          ColumnType = "smallInteger"
	TypeTinyInteger           ColumnType = "tinyInteger"
	TypeUnsignedBigInteger    ColumnType = "unsignedBigInteger"
	TypeUnsignedInteger       ColumnType = "unsignedInteger"
	TypeUnsignedMediumInteger ColumnType = "unsignedMediumInteger"
	TypeUnsignedSmallInteger  ColumnType = "unsignedSmallInteger"
	TypeUnsignedTinyInteger   ColumnType = "unsignedTinyInteger"

	TypeID               ColumnType = "id"
	TypeBigIncrements    ColumnType = "bigIncrements"
	TypeIncrements       ColumnType = "increments"
	TypeMediumIncrements ColumnType = "mediumIncrements"
	TypeSmallIncrements  ColumnType = "smallIncrements"
	TypeTinyIncrements   ColumnType = "tinyIncrements"

	TypeDecimal ColumnType = "decimal"
	TypeDouble  ColumnType = "double"
	TypeFloat   ColumnType = "float"

	TypeChar       ColumnType = "char"
	TypeString     ColumnType = "string"
	TypeText       ColumnType = "text"
	TypeMediumText ColumnType = "mediumText"
	TypeLongText   ColumnType = "longText"
	TypeTinyText   ColumnType = "tinyText"

	TypeBinary  ColumnType = "binary"
	TypeBoolean ColumnType = "boolean"

	TypeDate        ColumnType = "date"
	TypeDateTime    ColumnType = "dateTime"
	TypeDateTimeTz  ColumnType = "dateTimeTz"
	TypeTime        ColumnType = "time"
	TypeTimeTz      ColumnType = "timeTz"
	TypeTimestamp   ColumnType = "timestamp"
	TypeTimestampTz ColumnType = "timestampTz"
	TypeYear        ColumnType = "year"

	TypeJSON  ColumnType = "json"
	TypeJSONB ColumnType = "jsonb"

	TypeUUID         ColumnType = "uuid"
	TypeULID         ColumnType = "ulid"
	TypeForeignUUID  ColumnType = "foreignUuid"
	TypeForeignULID  ColumnType = "foreignUlid"
	TypeForeignID    ColumnType = "foreignId"
	TypeForeignIDFor ColumnType = "foreignIdFor"

	TypeEnum ColumnType = "enum"
	TypeSet  ColumnType = "set"

	TypeIPAddress  ColumnType = "ipAddress"
	TypeMacAddress ColumnType = "macAddress"

	TypeMorphs             ColumnType = "morphs"
	TypeNullableMorphs     ColumnType = "nullableMorphs"
	TypeUUIDMorphs         ColumnType = "uuidMorphs"
	TypeNullableUUIDMorphs ColumnType = "nullableUuidMorphs"
	TypeULIDMorphs         ColumnType = "ulidMorphs"
	TypeNullableULIDMorphs ColumnType = "nullableUlidMorphs"

	TypeRememberToken      ColumnType = "rememberToken"
	TypeSoftDeletes        ColumnType = "softDeletes"
	TypeSoftDeletesTz      ColumnType = "softDeletesTz"
	TypeTimestamps         ColumnType = "timestamps"
	TypeTimestampsTz       ColumnType = "timestampsTz"
	TypeNullableTimestamps ColumnType = "nullableTimestamps"

	TypeGeometry           ColumnType = "geometry"
	TypeGeography          ColumnType = "geography"
	TypePoint              ColumnType = "point"
	TypeLineString         ColumnType = "lineString"
	TypePolygon            ColumnType = "polygon"
	TypeGeometryCollection ColumnType = "geometryCollection"
	TypeMultiPoint         ColumnType = "multiPoint"
	TypeMultiLineString    ColumnType = "multiLineString"
	TypeMultiPolygon       ColumnType = "multiPolygon"
	TypeMultiPolygonZ      ColumnType = "multiPolygonZ"

	TypeVector  ColumnType = "vector"
	TypeUnknown ColumnType = "unknown"
)

var columnTypes = []ColumnType{
	TypeBigInteger, TypeInteger, TypeMediumInteger, TypeSmallInteger, TypeTinyInteger,
	TypeUnsignedBigInteger, TypeUnsignedInteger, TypeUnsignedMediumInteger, TypeUnsignedSmallInteger, TypeUnsignedTinyInteger,
	TypeID, TypeBigIncrements, TypeIncrements, TypeMediumIncrements, TypeSmallIncrements, TypeTinyIncrements,
	TypeDecimal, TypeDouble, TypeFloat,
	TypeChar, TypeString, TypeText, TypeMediumText, TypeLongText, TypeTinyText,
	TypeBinary, TypeBoolean,
	TypeDate, TypeDateTime, TypeDateTimeTz, TypeTime, TypeTimeTz, TypeTimestamp, TypeTimestampTz, TypeYear,
	TypeJSON, TypeJSONB,
	TypeUUID, TypeULID, TypeForeignUUID, TypeForeignULID, TypeForeignID, TypeForeignIDFor,
	TypeEnum, TypeSet,
	TypeIPAddress, TypeMacAddress,
	TypeMorphs, TypeNullableMorphs, TypeUUIDMorphs, TypeNullableUUIDMorphs, TypeULIDMorphs, TypeNullableULIDMorphs,
	TypeRememberToken, TypeSoftDeletes, TypeSoftDeletesTz, TypeTimestamps, TypeTimestampsTz, TypeNullableTimestamps,
	TypeGeometry, TypeGeography, TypePoint, TypeLineString, TypePolygon, TypeGeometryCollection,
	TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon, TypeMultiPolygonZ,
	TypeVector, TypeUnknown,
}

var columnTypeSet = func() map[ColumnType]struct{} {
	m := make(map[ColumnType]struct{}, len(columnTypes))
	for _, t := range columnTypes {
		m[t] = struct{}{}
	}
	return m
}()

// ColumnTypes returns every known column type in declaration order.
func ColumnTypes() []ColumnType {
	out := make([]ColumnType, len(columnTypes))
	copy(out, columnTypes)
	return out
}

// ParseColumnType returns the ColumnType named by s, or TypeUnknown.
func ParseColumnType(s string) ColumnType {
	t := ColumnType(s)
	if _, ok := columnTypeSet[t]; ok {
		return t
	}
	return TypeUnknown
}

func (t ColumnType) String() string { return string(t) }

// IsValid reports whether t is part of the enumeration.
func (t ColumnType) IsValid() bool {
	_, ok := columnTypeSet[t]
	return ok
}

func (t ColumnType) IsInteger() bool {
	switch t {
	case TypeBigInteger, TypeInteger, TypeMediumInteger, TypeSmallInteger, TypeTinyInteger,
		TypeUnsignedBigInteger, TypeUnsignedInteger, TypeUnsignedMediumInteger, TypeUnsignedSmallInteger, TypeUnsignedTinyInteger,
		TypeForeignID, TypeForeignIDFor:
		return true
	}
	return t.IsAutoIncrement()
}

func (t ColumnType) IsUnsigned() bool {
	switch t {
	case TypeUnsignedBigInteger, TypeUnsignedInteger, TypeUnsignedMediumInteger, TypeUnsignedSmallInteger, TypeUnsignedTinyInteger,
		TypeForeignID, TypeForeignIDFor:
		return true
	}
	return t.IsAutoIncrement()
}

func (t ColumnType) IsAutoIncrement() bool {
	switch t {
	case TypeID, TypeBigIncrements, TypeIncrements, TypeMediumIncrements, TypeSmallIncrements, TypeTinyIncrements:
		return true
	}
	return false
}

func (t ColumnType) IsString() bool {
	switch t {
	case TypeChar, TypeString, TypeText, TypeMediumText, TypeLongText, TypeTinyText:
		return true
	}
	return false
}

func (t ColumnType) IsNumeric() bool {
	switch t {
	case TypeDecimal, TypeDouble, TypeFloat:
		return true
	}
	return t.IsInteger()
}

func (t ColumnType) IsDateTime() bool {
	switch t {
	case TypeDate, TypeDateTime, TypeDateTimeTz, TypeTime, TypeTimeTz, TypeTimestamp, TypeTimestampTz, TypeYear:
		return true
	}
	return false
}

func (t ColumnType) IsSpatial() bool {
	switch t {
	case TypeGeometry, TypeGeography, TypePoint, TypeLineString, TypePolygon, TypeGeometryCollection,
		TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon, TypeMultiPolygonZ:
		return true
	}
	return false
}

// Canonical folds builder aliases onto the type a database reports for them.
// It is meant for equality checks; the original value is what gets displayed.
func (t ColumnType) Canonical() ColumnType {
	switch t {
	case TypeID:
		return TypeBigIncrements
	case TypeForeignID, TypeForeignIDFor:
		return TypeUnsignedBigInteger
	case TypeForeignUUID:
		return TypeUUID
	case TypeForeignULID:
		return TypeULID
	}
	return t
}

// IndexType classifies an index.
type IndexType string

const (
	IndexPrimary  IndexType = "primary"
	IndexUnique   IndexType = "unique"
	IndexIndex    IndexType = "index"
	IndexFulltext IndexType = "fulltext"
	IndexSpatial  IndexType = "spatial"
)

// ParseIndexType accepts the builder names as well as common catalog
// spellings (PRIMARY KEY, PRI, UNI, MUL, KEY). Anything else is a plain index.
func ParseIndexType(s string) IndexType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "primary", "primary key", "pri":
		return IndexPrimary
	case "unique", "uni":
		return IndexUnique
	case "fulltext":
		return IndexFulltext
	case "spatial", "spatialindex":
		return IndexSpatial
	default:
		return IndexIndex
	}
}

func (t IndexType) String() string { return string(t) }

func (t IndexType) IsUnique() bool {
	return t == IndexPrimary || t == IndexUnique
}

func (t IndexType) Label() string {
	switch t {
	case IndexPrimary:
		return "Primary Key"
	case IndexUnique:
		return "Unique"
	case IndexFulltext:
		return "Fulltext"
	case IndexSpatial:
		return "Spatial"
	default:
		return "Index"
	}
}

// DiffStatus tags every diff entity.
type DiffStatus string

const (
	StatusAdded     DiffStatus = "added"
	StatusRemoved   DiffStatus = "removed"
	StatusModified  DiffStatus = "modified"
	StatusUnchanged DiffStatus = "unchanged"
)

func (s DiffStatus) String() string { return string(s) }

// HasDifference is true for every status except unchanged.
func (s DiffStatus) HasDifference() bool {
	return s != StatusUnchanged
}

func (s DiffStatus) Label() string {
	switch s {
	case StatusAdded:
		return "Added"
	case StatusRemoved:
		return "Removed"
	case StatusModified:
		return "Modified"
	default:
		return "Unchanged"
	}
}

// Color is the display color name used by presentation layers.
func (s DiffStatus) Color() string {
	switch s {
	case StatusAdded:
		return "green"
	case StatusRemoved:
		return "red"
	case StatusModified:
		return "yellow"
	default:
		return "gray"
	}
}
