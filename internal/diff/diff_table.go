package diff

import "schemasync/internal/core"

func compareTables(expected, actual *core.Table) *TableDiff {
	td := &TableDiff{
		Name:     expected.Name,
		Expected: expected,
		Actual:   actual,
	}

	pairNamed(expected.Columns, actual.Columns, func(name string, e, a *core.Column, hasE, hasA bool) {
		td.Columns = append(td.Columns, compareColumn(name, e, a, hasE, hasA))
	})
	pairNamed(expected.Indexes, actual.Indexes, func(name string, e, a *core.Index, hasE, hasA bool) {
		td.Indexes = append(td.Indexes, compareIndex(name, e, a, hasE, hasA))
	})
	pairNamed(expected.ForeignKeys, actual.ForeignKeys, func(name string, e, a *core.ForeignKey, hasE, hasA bool) {
		td.ForeignKeys = append(td.ForeignKeys, compareForeignKey(name, e, a, hasE, hasA))
	})

	td.Changes = tableOptionChanges(expected, actual)

	td.Status = core.StatusUnchanged
	if len(td.Changes) > 0 ||
		anyDifferent(td.Columns) || anyDifferent(td.Indexes) || anyDifferent(td.ForeignKeys) {
		td.Status = core.StatusModified
	}
	ensureSlices(td)
	return td
}

// tableOptionChanges compares engine, charset and collation only when both
// sides report a value.
func tableOptionChanges(expected, actual *core.Table) Changes {
	c := &fieldChangeCollector{}
	addOption := func(field string, e, a *string) {
		if e == nil || a == nil {
			return
		}
		c.Add(field, *e, *a, *e == *a)
	}
	addOption("engine", expected.Engine, actual.Engine)
	addOption("charset", expected.Charset, actual.Charset)
	addOption("collation", expected.Collation, actual.Collation)
	return c.Changes()
}

func addedTable(t *core.Table) *TableDiff {
	td := &TableDiff{Name: t.Name, Status: core.StatusAdded, Actual: t}
	for _, c := range t.Columns {
		td.Columns = append(td.Columns, &ColumnDiff{Name: c.Name, Status: core.StatusAdded, Actual: c})
	}
	for _, idx := range t.Indexes {
		td.Indexes = append(td.Indexes, &IndexDiff{Name: idx.Name, Status: core.StatusAdded, Actual: idx})
	}
	for _, fk := range t.ForeignKeys {
		td.ForeignKeys = append(td.ForeignKeys, &ForeignKeyDiff{Name: fk.Name, Status: core.StatusAdded, Actual: fk})
	}
	ensureSlices(td)
	return td
}

func removedTable(t *core.Table) *TableDiff {
	td := &TableDiff{Name: t.Name, Status: core.StatusRemoved, Expected: t}
	for _, c := range t.Columns {
		td.Columns = append(td.Columns, &ColumnDiff{Name: c.Name, Status: core.StatusRemoved, Expected: c})
	}
	for _, idx := range t.Indexes {
		td.Indexes = append(td.Indexes, &IndexDiff{Name: idx.Name, Status: core.StatusRemoved, Expected: idx})
	}
	for _, fk := range t.ForeignKeys {
		td.ForeignKeys = append(td.ForeignKeys, &ForeignKeyDiff{Name: fk.Name, Status: core.StatusRemoved, Expected: fk})
	}
	ensureSlices(td)
	return td
}

func ensureSlices(td *TableDiff) {
	if td.Columns == nil {
		td.Columns = []*ColumnDiff{}
	}
	if td.Indexes == nil {
		td.Indexes = []*IndexDiff{}
	}
	if td.ForeignKeys == nil {
		td.ForeignKeys = []*ForeignKeyDiff{}
	}
}

func anyDifferent[T statused](items []T) bool {
	for _, item := range items {
		if item.diffStatus().HasDifference() {
			return true
		}
	}
	return false
}

func statusFor(hasExpected, hasActual bool, changes Changes) core.DiffStatus {
	switch {
	case !hasActual:
		return core.StatusRemoved
	case !hasExpected:
		return core.StatusAdded
	case len(changes) > 0:
		return core.StatusModified
	default:
		return core.StatusUnchanged
	}
}
