// Package diff compares an expected schema (reconstructed from migrations)
// with an actual one (introspected from a database) and produces a tree of
// status-tagged differences down to individual columns, indexes and foreign keys.
package diff

import (
	"encoding/json"

	"schemasync/internal/core"
)

// Change holds the expected and actual value of one differing property.
type Change struct {
	Expected any `json:"expected"`
	Actual   any `json:"actual"`
}

// Changes maps a property name to its change. It serializes as {} when empty.
type Changes map[string]Change

func (c Changes) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]Change(c))
}

// Has reports whether the named property changed.
func (c Changes) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// SchemaDiff is the result of comparing two schemas. Tables are sorted by name.
type SchemaDiff struct {
	Tables         []*TableDiff `json:"tables"`
	HasDifferences bool         `json:"hasDifferences"`
}

// TableDiff represents the differences of one table.
type TableDiff struct {
	Name        string            `json:"name"`
	Status      core.DiffStatus   `json:"status"`
	Expected    *core.Table       `json:"expected"`
	Actual      *core.Table       `json:"actual"`
	Columns     []*ColumnDiff     `json:"columns"`
	Indexes     []*IndexDiff      `json:"indexes"`
	ForeignKeys []*ForeignKeyDiff `json:"foreignKeys"`
	Changes     Changes           `json:"changes"`
}

// ColumnDiff represents the differences of one column.
type ColumnDiff struct {
	Name     string          `json:"name"`
	Status   core.DiffStatus `json:"status"`
	Expected *core.Column    `json:"expected"`
	Actual   *core.Column    `json:"actual"`
	Changes  Changes         `json:"changes"`
}

// IndexDiff represents the differences of one index.
type IndexDiff struct {
	Name     string          `json:"name"`
	Status   core.DiffStatus `json:"status"`
	Expected *core.Index     `json:"expected"`
	Actual   *core.Index     `json:"actual"`
	Changes  Changes         `json:"changes"`
}

// ForeignKeyDiff represents the differences of one foreign key.
type ForeignKeyDiff struct {
	Name     string           `json:"name"`
	Status   core.DiffStatus  `json:"status"`
	Expected *core.ForeignKey `json:"expected"`
	Actual   *core.ForeignKey `json:"actual"`
	Changes  Changes          `json:"changes"`
}

// GetName methods implement the Named interface for sorting.
func (td *TableDiff) GetName() string      { return td.Name }
func (cd *ColumnDiff) GetName() string     { return cd.Name }
func (id *IndexDiff) GetName() string      { return id.Name }
func (fd *ForeignKeyDiff) GetName() string { return fd.Name }

// Diff compares expected with actual. It never fails and does not modify
// either schema. A nil schema is treated as empty.
func Diff(expected, actual *core.DatabaseSchema) *SchemaDiff {
	d := &SchemaDiff{Tables: []*TableDiff{}}

	for _, et := range tables(expected) {
		at := actual.Table(et.Name)
		if at == nil {
			d.Tables = append(d.Tables, removedTable(et))
			continue
		}
		d.Tables = append(d.Tables, compareTables(et, at))
	}

	for _, at := range tables(actual) {
		if expected.HasTable(at.Name) {
			continue
		}
		d.Tables = append(d.Tables, addedTable(at))
	}

	sortNamed(d.Tables)

	for _, td := range d.Tables {
		if td.Status.HasDifference() {
			d.HasDifferences = true
			break
		}
	}
	return d
}

// Table returns the diff of the named table or nil.
func (d *SchemaDiff) Table(name string) *TableDiff {
	for _, td := range d.Tables {
		if td.Name == name {
			return td
		}
	}
	return nil
}

func (d *SchemaDiff) AddedTables() []*TableDiff {
	return filterStatus(d.Tables, core.StatusAdded)
}

func (d *SchemaDiff) RemovedTables() []*TableDiff {
	return filterStatus(d.Tables, core.StatusRemoved)
}

func (d *SchemaDiff) ModifiedTables() []*TableDiff {
	return filterStatus(d.Tables, core.StatusModified)
}

func (d *SchemaDiff) UnchangedTables() []*TableDiff {
	return filterStatus(d.Tables, core.StatusUnchanged)
}

// TablesWithDifferences returns every table whose status is not unchanged.
func (d *SchemaDiff) TablesWithDifferences() []*TableDiff {
	var out []*TableDiff
	for _, td := range d.Tables {
		if td.Status.HasDifference() {
			out = append(out, td)
		}
	}
	return out
}

// MarshalJSON adds the summary next to the tables.
func (d *SchemaDiff) MarshalJSON() ([]byte, error) {
	type alias SchemaDiff
	return json.Marshal(struct {
		*alias
		Summary Summary `json:"summary"`
	}{alias: (*alias)(d), Summary: d.Summary()})
}

// HasDifferences reports whether the table or any of its children differ.
func (td *TableDiff) HasDifferences() bool {
	return td.Status.HasDifference()
}

// HasColumnDifferences reports whether any column differs.
func (td *TableDiff) HasColumnDifferences() bool {
	for _, cd := range td.Columns {
		if cd.Status.HasDifference() {
			return true
		}
	}
	return false
}

// Column returns the diff of the named column or nil.
func (td *TableDiff) Column(name string) *ColumnDiff {
	for _, cd := range td.Columns {
		if cd.Name == name {
			return cd
		}
	}
	return nil
}

func (td *TableDiff) AddedColumns() []*ColumnDiff {
	return filterStatus(td.Columns, core.StatusAdded)
}

func (td *TableDiff) RemovedColumns() []*ColumnDiff {
	return filterStatus(td.Columns, core.StatusRemoved)
}

func (td *TableDiff) ModifiedColumns() []*ColumnDiff {
	return filterStatus(td.Columns, core.StatusModified)
}

func (td *TableDiff) AddedIndexes() []*IndexDiff {
	return filterStatus(td.Indexes, core.StatusAdded)
}

func (td *TableDiff) RemovedIndexes() []*IndexDiff {
	return filterStatus(td.Indexes, core.StatusRemoved)
}

func (td *TableDiff) ModifiedIndexes() []*IndexDiff {
	return filterStatus(td.Indexes, core.StatusModified)
}

func (td *TableDiff) MarshalJSON() ([]byte, error) {
	type alias TableDiff
	return json.Marshal(struct {
		*alias
		HasDifferences bool `json:"hasDifferences"`
	}{alias: (*alias)(td), HasDifferences: td.HasDifferences()})
}

func tables(s *core.DatabaseSchema) []*core.Table {
	if s == nil {
		return nil
	}
	return s.Tables
}
