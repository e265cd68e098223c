package diff

import (
	"strings"

	"schemasync/internal/core"
)

func compareColumn(name string, e, a *core.Column, hasE, hasA bool) *ColumnDiff {
	cd := &ColumnDiff{Name: name}
	if hasE {
		cd.Expected = e
	}
	if hasA {
		cd.Actual = a
	}
	if hasE && hasA {
		cd.Changes = columnFieldChanges(e, a)
	}
	cd.Status = statusFor(hasE, hasA, cd.Changes)
	return cd
}

// columnFieldChanges compares the tracked column properties. Types are
// compared by their canonical form so builder aliases match catalog types.
func columnFieldChanges(e, a *core.Column) Changes {
	c := &fieldChangeCollector{}

	c.Add("type", e.Type, a.Type, e.Type.Canonical() == a.Type.Canonical())
	c.Add("nullable", e.Nullable, a.Nullable, e.Nullable == a.Nullable)
	c.Add("default", e.Default, a.Default, defaultsEqual(e.Default, a.Default))
	c.Add("length", intPtrValue(e.Length), intPtrValue(a.Length), intPtrEq(e.Length, a.Length))
	c.Add("unsigned", e.Unsigned, a.Unsigned, e.Unsigned == a.Unsigned)
	c.Add("autoIncrement", e.AutoIncrement, a.AutoIncrement, e.AutoIncrement == a.AutoIncrement)
	c.Add("precision", intPtrValue(e.Precision), intPtrValue(a.Precision), intPtrEq(e.Precision, a.Precision))
	c.Add("scale", intPtrValue(e.Scale), intPtrValue(a.Scale), intPtrEq(e.Scale, a.Scale))
	c.Add("allowedValues", e.AllowedValues, a.AllowedValues, equalStrings(e.AllowedValues, a.AllowedValues))

	return c.Changes()
}

func compareIndex(name string, e, a *core.Index, hasE, hasA bool) *IndexDiff {
	id := &IndexDiff{Name: name}
	if hasE {
		id.Expected = e
	}
	if hasA {
		id.Actual = a
	}
	if hasE && hasA {
		c := &fieldChangeCollector{}
		c.Add("type", e.Type, a.Type, e.Type == a.Type)
		c.Add("columns", e.Columns, a.Columns, equalStrings(e.Columns, a.Columns))
		c.Add("algorithm", strPtrValue(e.Algorithm), strPtrValue(a.Algorithm), strPtrEq(e.Algorithm, a.Algorithm))
		id.Changes = c.Changes()
	}
	id.Status = statusFor(hasE, hasA, id.Changes)
	return id
}

func compareForeignKey(name string, e, a *core.ForeignKey, hasE, hasA bool) *ForeignKeyDiff {
	fd := &ForeignKeyDiff{Name: name}
	if hasE {
		fd.Expected = e
	}
	if hasA {
		fd.Actual = a
	}
	if hasE && hasA {
		c := &fieldChangeCollector{}
		c.Add("columns", e.Columns, a.Columns, equalStrings(e.Columns, a.Columns))
		c.Add("referencedTable", e.ReferencedTable, a.ReferencedTable, e.ReferencedTable == a.ReferencedTable)
		c.Add("referencedColumns", e.ReferencedColumns, a.ReferencedColumns, equalStrings(e.ReferencedColumns, a.ReferencedColumns))
		c.Add("onUpdate", e.OnUpdate, a.OnUpdate, strings.EqualFold(e.OnUpdate, a.OnUpdate))
		c.Add("onDelete", e.OnDelete, a.OnDelete, strings.EqualFold(e.OnDelete, a.OnDelete))
		fd.Changes = c.Changes()
	}
	fd.Status = statusFor(hasE, hasA, fd.Changes)
	return fd
}
