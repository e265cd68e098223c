package output

import (
	"fmt"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/diff"
	"schemasync/internal/inspector"
)

type summaryFormatter struct{}

// FormatDiff formats a schema diff as a compact summary.
// Example output:
//
//	Tables:       +1, ~2, -0, =12
//	Columns:      +5, ~2, -0
//	Indexes:      +1, ~0, -2
//	Foreign keys: +0, ~0, -1
func (summaryFormatter) FormatDiff(d *diff.SchemaDiff) (string, error) {
	if d == nil {
		return "No tables compared.\n", nil
	}
	s := d.Summary()

	var sb strings.Builder
	sb.WriteString("Schema Diff Summary\n")
	sb.WriteString("===================\n\n")

	fmt.Fprintf(&sb, "Tables:       +%d, ~%d, -%d, =%d\n", s.AddedTables, s.ModifiedTables, s.RemovedTables, s.UnchangedTables)
	fmt.Fprintf(&sb, "Columns:      +%d, ~%d, -%d\n", s.AddedColumns, s.ModifiedColumns, s.RemovedColumns)
	fmt.Fprintf(&sb, "Indexes:      +%d, ~%d, -%d\n", s.AddedIndexes, s.ModifiedIndexes, s.RemovedIndexes)
	fmt.Fprintf(&sb, "Foreign keys: +%d, ~%d, -%d\n", s.AddedForeignKeys, s.ModifiedForeignKeys, s.RemovedForeignKeys)

	writeTableDetails(&sb, d.TablesWithDifferences())

	if d.HasDifferences {
		sb.WriteString("\nStatus: out of sync\n")
	} else {
		sb.WriteString("\nStatus: in sync\n")
	}
	return sb.String(), nil
}

func writeTableDetails(sb *strings.Builder, tables []*diff.TableDiff) {
	if len(tables) == 0 {
		return
	}

	sb.WriteString("\nDetails:\n")
	for _, td := range tables {
		switch td.Status {
		case core.StatusAdded:
			fmt.Fprintf(sb, "  + %s (only in database)\n", td.Name)
		case core.StatusRemoved:
			fmt.Fprintf(sb, "  - %s (only in migrations)\n", td.Name)
		default:
			fmt.Fprintf(sb, "  ~ %s (%s)\n", td.Name, countTableChanges(td))
		}
	}
}

// countTableChanges returns a human-readable summary of changes in a table.
func countTableChanges(td *diff.TableDiff) string {
	var parts []string

	if n := len(td.AddedColumns()); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d cols", n))
	}
	if n := len(td.RemovedColumns()); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d cols", n))
	}
	if n := len(td.ModifiedColumns()); n > 0 {
		parts = append(parts, fmt.Sprintf("~%d cols", n))
	}
	if n := len(td.AddedIndexes()); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d idx", n))
	}
	if n := len(td.RemovedIndexes()); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d idx", n))
	}
	if n := len(td.ModifiedIndexes()); n > 0 {
		parts = append(parts, fmt.Sprintf("~%d idx", n))
	}
	var fkAdded, fkRemoved, fkModified int
	for _, fd := range td.ForeignKeys {
		switch fd.Status {
		case core.StatusAdded:
			fkAdded++
		case core.StatusRemoved:
			fkRemoved++
		case core.StatusModified:
			fkModified++
		}
	}
	if fkAdded > 0 {
		parts = append(parts, fmt.Sprintf("+%d fk", fkAdded))
	}
	if fkRemoved > 0 {
		parts = append(parts, fmt.Sprintf("-%d fk", fkRemoved))
	}
	if fkModified > 0 {
		parts = append(parts, fmt.Sprintf("~%d fk", fkModified))
	}

	if len(parts) == 0 {
		return "options changed"
	}
	return strings.Join(parts, ", ")
}

func (summaryFormatter) FormatTableDiff(td *diff.TableDiff) (string, error) {
	if td == nil {
		return "", nil
	}
	if td.Status == core.StatusModified {
		return fmt.Sprintf("%s: %s (%s)\n", td.Name, td.Status, countTableChanges(td)), nil
	}
	return fmt.Sprintf("%s: %s\n", td.Name, td.Status), nil
}

func (summaryFormatter) FormatTables(tables []*core.Table) (string, error) {
	var cols, idx, fks int
	for _, t := range tables {
		cols += len(t.Columns)
		idx += len(t.Indexes)
		fks += len(t.ForeignKeys)
	}
	return fmt.Sprintf("%s, %s, %s, %s\n",
		plural(len(tables), "table"),
		plural(cols, "column"),
		plural(idx, "index"),
		plural(fks, "foreign key")), nil
}

func (summaryFormatter) FormatTable(t *core.Table) (string, error) {
	if t == nil {
		return "", nil
	}
	return fmt.Sprintf("%s: %s, %s, %s\n",
		t.Name,
		plural(len(t.Columns), "column"),
		plural(len(t.Indexes), "index"),
		plural(len(t.ForeignKeys), "foreign key")), nil
}

func (summaryFormatter) FormatMigrations(dir string, files []inspector.MigrationFile) (string, error) {
	return fmt.Sprintf("%s in %s\n", plural(len(files), "migration"), dir), nil
}
