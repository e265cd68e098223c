package migration

import (
	"strings"

	"schemasync/internal/core"
)

func (b *blueprint) multiColumn(c call) {
	switch c.method {
	case "timestamps", "nullableTimestamps":
		nullable := c.method == "nullableTimestamps"
		b.op.putColumn(&core.Column{Name: "created_at", Type: core.TypeTimestamp, Nullable: nullable})
		b.op.putColumn(&core.Column{Name: "updated_at", Type: core.TypeTimestamp, Nullable: nullable})
	case "timestampsTz":
		b.op.putColumn(&core.Column{Name: "created_at", Type: core.TypeTimestampTz, Nullable: true})
		b.op.putColumn(&core.Column{Name: "updated_at", Type: core.TypeTimestampTz, Nullable: true})
	case "softDeletes", "softDeletesTz":
		name := "deleted_at"
		if s, ok := stringValue(c.arg(0)); ok {
			name = s
		}
		typ := core.TypeTimestamp
		if c.method == "softDeletesTz" {
			typ = core.TypeTimestampTz
		}
		b.op.putColumn(&core.Column{Name: name, Type: typ, Nullable: true})
	case "rememberToken":
		b.op.putColumn(&core.Column{Name: "remember_token", Type: core.TypeString, Length: core.Ptr(100), Nullable: true})
	default:
		b.morphs(c)
	}
}

// morphs expands the polymorphic relation helpers into {name}_type and
// {name}_id plus their composite index.
func (b *blueprint) morphs(c call) {
	name := "taggable"
	if s, ok := stringValue(c.arg(0)); ok {
		name = s
	}
	nullable := strings.HasPrefix(c.method, "nullable")

	idCol := &core.Column{Name: name + "_id", Nullable: nullable}
	switch strings.ToLower(strings.TrimPrefix(c.method, "nullable")) {
	case "uuidmorphs":
		idCol.Type = core.TypeUUID
	case "ulidmorphs":
		idCol.Type = core.TypeULID
	default:
		idCol.Type = core.TypeUnsignedBigInteger
		idCol.Unsigned = true
	}

	b.op.putColumn(&core.Column{Name: name + "_type", Type: core.TypeString, Length: core.Ptr(255), Nullable: nullable})
	b.op.putColumn(idCol)

	cols := []string{name + "_type", name + "_id"}
	idxName := IndexName(b.op.Table, cols, "index")
	if s, ok := stringValue(c.arg(1)); ok {
		idxName = s
	}
	b.op.putIndex(&core.Index{Name: idxName, Type: core.IndexIndex, Columns: cols})
}

// column handles a column-definition chain: the head names the type and
// column, every following call is a modifier.
func (b *blueprint) column(chain []call) {
	head := chain[0]

	var name string
	if head.method == "id" {
		name = "id"
		if s, ok := stringValue(head.arg(0)); ok {
			name = s
		}
	} else {
		s, ok := stringValue(head.arg(0))
		if !ok {
			return
		}
		name = s
	}

	col := baseColumn(name, head)

	actions := referentialActions{}
	var constrained *call
	for i := 1; i < len(chain); i++ {
		m := chain[i]
		switch m.method {
		case "constrained":
			constrained = &chain[i]
		case "unique":
			idx := &core.Index{Name: IndexName(b.op.Table, []string{col.Name}, "unique"), Type: core.IndexUnique, Columns: []string{col.Name}}
			if s, ok := stringValue(m.arg(0)); ok {
				idx.Name = s
			}
			b.op.putIndex(idx)
		case "primary":
			b.op.putIndex(&core.Index{Name: "primary", Type: core.IndexPrimary, Columns: []string{col.Name}})
		case "index":
			idx := &core.Index{Name: IndexName(b.op.Table, []string{col.Name}, "index"), Type: core.IndexIndex, Columns: []string{col.Name}}
			if s, ok := stringValue(m.arg(0)); ok {
				idx.Name = s
			}
			b.op.putIndex(idx)
		case "fulltext", "fullText":
			b.op.putIndex(&core.Index{Name: IndexName(b.op.Table, []string{col.Name}, "fulltext"), Type: core.IndexFulltext, Columns: []string{col.Name}})
		case "spatialIndex":
			b.op.putIndex(&core.Index{Name: IndexName(b.op.Table, []string{col.Name}, "spatialindex"), Type: core.IndexSpatial, Columns: []string{col.Name}})
		default:
			applyModifier(col, m)
			actions.apply(m)
		}
	}

	b.op.putColumn(col)

	if constrained != nil {
		refTable, ok := stringValue(constrained.arg(0))
		if !ok {
			refTable = strings.ReplaceAll(col.Name, "_id", "") + "s"
		}
		refCol := "id"
		if s, ok := stringValue(constrained.arg(1)); ok {
			refCol = s
		}
		b.op.putForeignKey(core.NewForeignKey(
			IndexName(b.op.Table, []string{col.Name}, "foreign"),
			[]string{col.Name}, refTable, []string{refCol},
			actions.onUpdate, actions.onDelete,
		))
	}
}

// baseColumn builds the column for a type-defining call. A method with no
// known type still defines a column, typed unknown, so it shows up in diffs.
func baseColumn(name string, head call) *core.Column {
	method := head.method
	col := &core.Column{Name: name}

	switch method {
	case "id":
		col.Type = core.TypeID
		col.AutoIncrement = true
		col.Unsigned = true
		return col
	case "foreignId", "foreignIdFor":
		col.Type = core.TypeUnsignedBigInteger
		col.Unsigned = true
		return col
	case "string", "char":
		col.Type = core.ParseColumnType(method)
		col.Length = core.Ptr(255)
		if n, ok := intValue(head.arg(1)); ok {
			col.Length = core.Ptr(n)
		}
		return col
	case "decimal", "float", "double", "unsignedDecimal":
		col.Type = core.ParseColumnType(strings.TrimPrefix(strings.ToLower(method), "unsigned"))
		col.Unsigned = strings.HasPrefix(method, "unsigned")
		col.Precision = core.Ptr(8)
		col.Scale = core.Ptr(2)
		if n, ok := intValue(head.arg(1)); ok {
			col.Precision = core.Ptr(n)
		}
		if n, ok := intValue(head.arg(2)); ok {
			col.Scale = core.Ptr(n)
		}
		return col
	case "enum", "set":
		col.Type = core.ParseColumnType(method)
		col.AllowedValues = stringList(head.arg(1))
		if col.AllowedValues == nil {
			col.AllowedValues = []string{}
		}
		return col
	}

	typ := core.ParseColumnType(method)
	col.Type = typ
	if typ.IsAutoIncrement() {
		col.AutoIncrement = true
		col.Unsigned = true
	}
	if strings.HasPrefix(method, "unsigned") {
		col.Unsigned = true
	}
	if typ.IsInteger() && !typ.IsAutoIncrement() {
		// integer($name, $autoIncrement = false, $unsigned = false)
		if ai, ok := boolValue(head.arg(1)); ok && ai {
			col.AutoIncrement = true
		}
		if u, ok := boolValue(head.arg(2)); ok && u {
			col.Unsigned = true
		}
	}
	return col
}

// applyModifier applies one chained column modifier.
func applyModifier(col *core.Column, m call) {
	switch m.method {
	case "nullable":
		col.Nullable = true
		if v, ok := boolValue(m.arg(0)); ok {
			col.Nullable = v
		}
	case "default":
		if v, ok := value(m.arg(0)); ok {
			col.Default = v
		}
	case "useCurrent":
		col.Default = "CURRENT_TIMESTAMP"
	case "unsigned":
		col.Unsigned = true
	case "autoIncrement":
		col.AutoIncrement = true
	case "comment":
		if s, ok := stringValue(m.arg(0)); ok {
			col.Comment = &s
		}
	case "charset":
		if s, ok := stringValue(m.arg(0)); ok {
			col.Charset = &s
		}
	case "collation":
		if s, ok := stringValue(m.arg(0)); ok {
			col.Collation = &s
		}
	case "after":
		if s, ok := stringValue(m.arg(0)); ok {
			col.After = &s
		}
	case "first":
		col.First = true
	case "virtualAs":
		if s, ok := stringValue(m.arg(0)); ok {
			col.VirtualAs = &s
		}
	case "storedAs":
		if s, ok := stringValue(m.arg(0)); ok {
			col.StoredAs = &s
		}
	case "invisible":
		col.Invisible = true
	}
}
