package migration

import "schemasync/internal/core"

// OperationType is the kind of a table-level schema operation.
type OperationType string

const (
	OpCreate       OperationType = "create"
	OpTable        OperationType = "table"
	OpDrop         OperationType = "drop"
	OpDropIfExists OperationType = "dropIfExists"
	OpRename       OperationType = "rename"
)

// Operation is one literal Schema:: call found in a migration's up method.
type Operation struct {
	Type        OperationType
	Table       string
	NewName     string
	Columns     []*core.Column
	Indexes     []*core.Index
	ForeignKeys []*core.ForeignKey
	Drops       Drops
	Renames     []ColumnRename
	Engine      *string
	Charset     *string
	Collation   *string
	Comment     *string
}

// Drops lists what an alter operation removes.
type Drops struct {
	Columns     []string
	Indexes     []string
	ForeignKeys []string
	// Primary is set by dropPrimary without an explicit name.
	Primary bool
}

// ColumnRename is a renameColumn call.
type ColumnRename struct {
	From string
	To   string
}

// IsEmpty reports whether nothing is dropped.
func (d Drops) IsEmpty() bool {
	return len(d.Columns) == 0 && len(d.Indexes) == 0 && len(d.ForeignKeys) == 0 && !d.Primary
}

func (op *Operation) putColumn(c *core.Column) {
	for i, existing := range op.Columns {
		if existing.Name == c.Name {
			op.Columns[i] = c
			return
		}
	}
	op.Columns = append(op.Columns, c)
}

func (op *Operation) putIndex(idx *core.Index) {
	for i, existing := range op.Indexes {
		if existing.Name == idx.Name {
			op.Indexes[i] = idx
			return
		}
	}
	op.Indexes = append(op.Indexes, idx)
}

func (op *Operation) putForeignKey(fk *core.ForeignKey) {
	for i, existing := range op.ForeignKeys {
		if existing.Name == fk.Name {
			op.ForeignKeys[i] = fk
			return
		}
	}
	op.ForeignKeys = append(op.ForeignKeys, fk)
}
