// Package core contains the normalized schema model shared by the migration
// analyzer, the database introspectors and the differ. Every source of schema
// information is converted into these types before anything is compared.
//
// Values are treated as immutable once published: builders work on clones.
package core

import (
	"slices"
	"strings"
)

// Column represents a column of a table.
type Column struct {
	Name          string     `json:"name"`
	Type          ColumnType `json:"type"`
	Nullable      bool       `json:"nullable"`
	Default       any        `json:"default"`
	AutoIncrement bool       `json:"autoIncrement"`
	Unsigned      bool       `json:"unsigned"`
	Length        *int       `json:"length"`
	Precision     *int       `json:"precision"`
	Scale         *int       `json:"scale"`
	Charset       *string    `json:"charset"`
	Collation     *string    `json:"collation"`
	Comment       *string    `json:"comment"`
	AllowedValues []string   `json:"allowedValues"`
	After         *string    `json:"after"`
	First         bool       `json:"first"`
	VirtualAs     *string    `json:"virtualAs"`
	StoredAs      *string    `json:"storedAs"`
	Invisible     bool       `json:"invisible"`
}

// Index represents an index of a table.
type Index struct {
	Name      string    `json:"name"`
	Type      IndexType `json:"type"`
	Columns   []string  `json:"columns"`
	Algorithm *string   `json:"algorithm"`
	Language  *string   `json:"language"`
}

// ForeignKey represents a foreign key of a table. Columns and
// ReferencedColumns are paired by position.
type ForeignKey struct {
	Name              string   `json:"name"`
	Columns           []string `json:"columns"`
	ReferencedTable   string   `json:"referencedTable"`
	ReferencedColumns []string `json:"referencedColumns"`
	OnUpdate          string   `json:"onUpdate"`
	OnDelete          string   `json:"onDelete"`
}

// Table represents a table. Columns, indexes and foreign keys keep their
// declaration order and are unique by name.
type Table struct {
	Name        string        `json:"name"`
	Columns     []*Column     `json:"columns"`
	Indexes     []*Index      `json:"indexes"`
	ForeignKeys []*ForeignKey `json:"foreignKeys"`
	Engine      *string       `json:"engine"`
	Charset     *string       `json:"charset"`
	Collation   *string       `json:"collation"`
	Comment     *string       `json:"comment"`
}

// DatabaseSchema is the root aggregate owning all tables.
type DatabaseSchema struct {
	Tables     []*Table
	Connection *string
}

// GetName methods implement the Named interface used for sorting and lookup.
func (c *Column) GetName() string      { return c.Name }
func (i *Index) GetName() string       { return i.Name }
func (fk *ForeignKey) GetName() string { return fk.Name }
func (t *Table) GetName() string       { return t.Name }

// NewForeignKey builds a foreign key with normalized referential actions.
func NewForeignKey(name string, columns []string, refTable string, refColumns []string, onUpdate, onDelete string) *ForeignKey {
	return &ForeignKey{
		Name:              name,
		Columns:           columns,
		ReferencedTable:   refTable,
		ReferencedColumns: refColumns,
		OnUpdate:          NormalizeAction(onUpdate),
		OnDelete:          NormalizeAction(onDelete),
	}
}

// NormalizeAction upper-cases a referential action and turns catalog
// spellings like "set_null" into "SET NULL". Empty means NO ACTION.
func NormalizeAction(action string) string {
	a := strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(action), "_", " "))
	if a == "" {
		return "NO ACTION"
	}
	return strings.Join(strings.Fields(a), " ")
}

// NewTable creates an empty table with non-nil child slices.
func NewTable(name string) *Table {
	return &Table{
		Name:        name,
		Columns:     []*Column{},
		Indexes:     []*Index{},
		ForeignKeys: []*ForeignKey{},
	}
}

// Column returns the named column or nil.
func (t *Table) Column(name string) *Column {
	return findNamed(t.Columns, name)
}

func (t *Table) HasColumn(name string) bool {
	return t.Column(name) != nil
}

// Index returns the named index or nil.
func (t *Table) Index(name string) *Index {
	return findNamed(t.Indexes, name)
}

// ForeignKey returns the named foreign key or nil.
func (t *Table) ForeignKey(name string) *ForeignKey {
	return findNamed(t.ForeignKeys, name)
}

// ColumnNames returns column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey returns the primary index, if any.
func (t *Table) PrimaryKey() *Index {
	for _, idx := range t.Indexes {
		if idx.Type == IndexPrimary {
			return idx
		}
	}
	return nil
}

// PutColumn adds c, replacing a column with the same name in place.
func (t *Table) PutColumn(c *Column) {
	t.Columns = putNamed(t.Columns, c)
}

func (t *Table) PutIndex(idx *Index) {
	t.Indexes = putNamed(t.Indexes, idx)
}

func (t *Table) PutForeignKey(fk *ForeignKey) {
	t.ForeignKeys = putNamed(t.ForeignKeys, fk)
}

func (t *Table) RemoveColumn(name string) {
	t.Columns = removeNamed(t.Columns, name)
}

func (t *Table) RemoveIndex(name string) {
	t.Indexes = removeNamed(t.Indexes, name)
}

func (t *Table) RemoveForeignKey(name string) {
	t.ForeignKeys = removeNamed(t.ForeignKeys, name)
}

// RenameColumn renames a column in place and rewrites index and foreign key
// column references. It reports whether the column existed.
func (t *Table) RenameColumn(from, to string) bool {
	c := t.Column(from)
	if c == nil {
		return false
	}
	c.Name = to
	for _, idx := range t.Indexes {
		replaceName(idx.Columns, from, to)
	}
	for _, fk := range t.ForeignKeys {
		replaceName(fk.Columns, from, to)
	}
	return true
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Name:        t.Name,
		Columns:     make([]*Column, len(t.Columns)),
		Indexes:     make([]*Index, len(t.Indexes)),
		ForeignKeys: make([]*ForeignKey, len(t.ForeignKeys)),
		Engine:      clonePtr(t.Engine),
		Charset:     clonePtr(t.Charset),
		Collation:   clonePtr(t.Collation),
		Comment:     clonePtr(t.Comment),
	}
	for i, c := range t.Columns {
		out.Columns[i] = c.Clone()
	}
	for i, idx := range t.Indexes {
		out.Indexes[i] = idx.Clone()
	}
	for i, fk := range t.ForeignKeys {
		out.ForeignKeys[i] = fk.Clone()
	}
	return out
}

func (c *Column) Clone() *Column {
	if c == nil {
		return nil
	}
	out := *c
	out.Length = clonePtr(c.Length)
	out.Precision = clonePtr(c.Precision)
	out.Scale = clonePtr(c.Scale)
	out.Charset = clonePtr(c.Charset)
	out.Collation = clonePtr(c.Collation)
	out.Comment = clonePtr(c.Comment)
	out.After = clonePtr(c.After)
	out.VirtualAs = clonePtr(c.VirtualAs)
	out.StoredAs = clonePtr(c.StoredAs)
	out.AllowedValues = slices.Clone(c.AllowedValues)
	return &out
}

func (i *Index) Clone() *Index {
	if i == nil {
		return nil
	}
	out := *i
	out.Columns = slices.Clone(i.Columns)
	out.Algorithm = clonePtr(i.Algorithm)
	out.Language = clonePtr(i.Language)
	return &out
}

func (fk *ForeignKey) Clone() *ForeignKey {
	if fk == nil {
		return nil
	}
	out := *fk
	out.Columns = slices.Clone(fk.Columns)
	out.ReferencedColumns = slices.Clone(fk.ReferencedColumns)
	return &out
}

// NewDatabaseSchema creates an empty schema for the given connection label.
func NewDatabaseSchema(connection string) *DatabaseSchema {
	s := &DatabaseSchema{Tables: []*Table{}}
	if connection != "" {
		s.Connection = &connection
	}
	return s
}

// Table returns the named table or nil.
func (s *DatabaseSchema) Table(name string) *Table {
	if s == nil {
		return nil
	}
	return findNamed(s.Tables, name)
}

func (s *DatabaseSchema) HasTable(name string) bool {
	return s.Table(name) != nil
}

// TableNames returns table names in schema order.
func (s *DatabaseSchema) TableNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

func (s *DatabaseSchema) Count() int {
	if s == nil {
		return 0
	}
	return len(s.Tables)
}

func (s *DatabaseSchema) IsEmpty() bool {
	return s.Count() == 0
}

// PutTable adds t, replacing a table with the same name in place.
func (s *DatabaseSchema) PutTable(t *Table) {
	s.Tables = putNamed(s.Tables, t)
}

func (s *DatabaseSchema) RemoveTable(name string) {
	s.Tables = removeNamed(s.Tables, name)
}

// Without returns a copy of the schema that omits the named tables.
func (s *DatabaseSchema) Without(names []string) *DatabaseSchema {
	out := &DatabaseSchema{Tables: make([]*Table, 0, s.Count()), Connection: clonePtr(s.Connection)}
	for _, t := range s.Tables {
		if slices.Contains(names, t.Name) {
			continue
		}
		out.Tables = append(out.Tables, t)
	}
	return out
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Named is implemented by model types with a name identifier.
type Named interface {
	GetName() string
}

func findNamed[T Named](items []T, name string) T {
	var zero T
	for _, item := range items {
		if item.GetName() == name {
			return item
		}
	}
	return zero
}

func putNamed[T Named](items []T, item T) []T {
	for i, existing := range items {
		if existing.GetName() == item.GetName() {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func removeNamed[T Named](items []T, name string) []T {
	return slices.DeleteFunc(items, func(item T) bool {
		return item.GetName() == name
	})
}

func replaceName(names []string, from, to string) {
	for i, n := range names {
		if n == from {
			names[i] = to
		}
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
