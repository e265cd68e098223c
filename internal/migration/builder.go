package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"schemasync/internal/core"
)

// filePattern selects migration files inside the migrations directory.
const filePattern = "*.php"

// primaryIndexName is the name every primary key index is stored under, so
// the migration side lines up with what the introspectors report.
const primaryIndexName = "primary"

// Files returns the migration files in dir sorted by file name. Migration
// names are timestamp prefixed, so this is authoring order. A missing
// directory yields no files.
func Files(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat migrations directory: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Slice(files, func(i, j int) bool {
		return filepath.Base(files[i]) < filepath.Base(files[j])
	})
	return files, nil
}

// Parse builds the schema declared by the migrations in dir, leaving out the
// ignored tables. A broken migration aborts the whole parse.
func Parse(dir string, ignored []string) (*core.DatabaseSchema, error) {
	files, err := Files(dir)
	if err != nil {
		return nil, err
	}

	var ops []Operation
	for _, f := range files {
		fileOps, err := AnalyzeFile(f)
		if err != nil {
			return nil, err
		}
		ops = append(ops, fileOps...)
	}
	return Build(ops, ignored), nil
}

// Build folds operations, in order, into a schema.
func Build(ops []Operation, ignored []string) *core.DatabaseSchema {
	s := core.NewDatabaseSchema("")
	for i := range ops {
		apply(s, &ops[i])
	}
	return s.Without(ignored)
}

func apply(s *core.DatabaseSchema, op *Operation) {
	switch op.Type {
	case OpCreate:
		s.PutTable(newTable(op))
	case OpTable:
		existing := s.Table(op.Table)
		if existing == nil {
			s.PutTable(newTable(op))
			return
		}
		s.PutTable(alterTable(existing, op))
	case OpDrop, OpDropIfExists:
		s.RemoveTable(op.Table)
	case OpRename:
		existing := s.Table(op.Table)
		if existing == nil || op.NewName == "" {
			return
		}
		renamed := existing.Clone()
		renamed.Name = op.NewName
		s.RemoveTable(op.Table)
		s.PutTable(renamed)
	}
}

func newTable(op *Operation) *core.Table {
	t := core.NewTable(op.Table)
	t.Engine, t.Charset, t.Collation, t.Comment = op.Engine, op.Charset, op.Collation, op.Comment
	mergeInto(t, op)
	ensurePrimaryKey(t)
	return t
}

// alterTable returns a modified copy of t; the published table is untouched.
func alterTable(t *core.Table, op *Operation) *core.Table {
	out := t.Clone()
	for _, r := range op.Renames {
		out.RenameColumn(r.From, r.To)
	}
	if op.Drops.Primary {
		for _, idx := range slices.Clone(out.Indexes) {
			if idx.Type == core.IndexPrimary {
				out.RemoveIndex(idx.Name)
			}
		}
	}
	for _, name := range op.Drops.Indexes {
		out.RemoveIndex(name)
	}
	for _, name := range op.Drops.ForeignKeys {
		out.RemoveForeignKey(name)
	}

	mergeInto(out, op)

	for _, name := range op.Drops.Columns {
		dropColumn(out, name)
	}
	if op.Engine != nil {
		out.Engine = op.Engine
	}
	if op.Charset != nil {
		out.Charset = op.Charset
	}
	if op.Collation != nil {
		out.Collation = op.Collation
	}
	if op.Comment != nil {
		out.Comment = op.Comment
	}
	ensurePrimaryKey(out)
	return out
}

// mergeInto adds the operation's columns, indexes and foreign keys,
// overwriting entries with the same name.
func mergeInto(t *core.Table, op *Operation) {
	for _, c := range op.Columns {
		col := c.Clone()
		if col.Type == "" {
			col.Type = core.TypeString
		}
		t.PutColumn(col)
	}
	for _, idx := range op.Indexes {
		idx = idx.Clone()
		if idx.Type == core.IndexPrimary {
			idx.Name = primaryIndexName
		}
		t.PutIndex(idx)
	}
	for _, fk := range op.ForeignKeys {
		t.PutForeignKey(fk.Clone())
	}
}

// dropColumn removes a column together with the indexes and foreign keys
// that reference it, which is what the database does as well.
func dropColumn(t *core.Table, name string) {
	t.RemoveColumn(name)
	for _, idx := range slices.Clone(t.Indexes) {
		if slices.Contains(idx.Columns, name) {
			t.RemoveIndex(idx.Name)
		}
	}
	for _, fk := range slices.Clone(t.ForeignKeys) {
		if slices.Contains(fk.Columns, name) {
			t.RemoveForeignKey(fk.Name)
		}
	}
}

// ensurePrimaryKey adds the implicit primary key of auto-incrementing
// columns when no primary index was declared.
func ensurePrimaryKey(t *core.Table) {
	if t.PrimaryKey() != nil {
		return
	}
	for _, c := range t.Columns {
		if c.AutoIncrement {
			t.PutIndex(&core.Index{Name: primaryIndexName, Type: core.IndexPrimary, Columns: []string{c.Name}})
			return
		}
	}
}
