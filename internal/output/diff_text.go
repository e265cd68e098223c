package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"schemasync/internal/core"
	"schemasync/internal/diff"
)

var (
	mutedColor = color.New(color.FgHiBlack)
	titleColor = color.New(color.Bold)
)

// palette maps the color names of core.DiffStatus to terminal attributes.
var palette = map[string]*color.Color{
	"green":  color.New(color.FgGreen),
	"red":    color.New(color.FgRed),
	"yellow": color.New(color.FgYellow),
	"gray":   mutedColor,
}

func statusColor(s core.DiffStatus) *color.Color {
	if c, ok := palette[s.Color()]; ok {
		return c
	}
	return mutedColor
}

func statusMarker(s core.DiffStatus) string {
	switch s {
	case core.StatusAdded:
		return "+"
	case core.StatusRemoved:
		return "-"
	case core.StatusModified:
		return "~"
	default:
		return "="
	}
}

// formatDiffText returns a string representation of all differences between
// the migrations and the database.
func formatDiffText(d *diff.SchemaDiff) string {
	if d == nil || !d.HasDifferences {
		return statusColor(core.StatusAdded).Sprint("Database schema matches the migrations.") + "\n"
	}

	changed := d.TablesWithDifferences()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s, %s with differences)\n",
		titleColor.Sprint("Schema differences"),
		plural(len(d.Tables), "table"),
		plural(len(changed), "table"))

	for _, td := range changed {
		sb.WriteByte('\n')
		writeTableDiffText(&sb, td)
	}
	writeLegend(&sb)
	return sb.String()
}

func writeTableDiffText(sb *strings.Builder, td *diff.TableDiff) {
	c := statusColor(td.Status)
	fmt.Fprintf(sb, "%s %s %s\n", c.Sprint(statusMarker(td.Status)), titleColor.Sprint(td.Name), c.Sprint(td.Status.Label()))

	if td.Status != core.StatusModified {
		fmt.Fprintf(sb, "    %s, %s, %s\n",
			plural(len(td.Columns), "column"),
			plural(len(td.Indexes), "index"),
			plural(len(td.ForeignKeys), "foreign key"))
		return
	}

	writeChanges(sb, "    ", td.Changes)
	writeColumnDiffs(sb, td.Columns)
	writeIndexDiffs(sb, td.Indexes)
	writeForeignKeyDiffs(sb, td.ForeignKeys)
}

func writeColumnDiffs(sb *strings.Builder, cols []*diff.ColumnDiff) {
	for _, cd := range cols {
		if !cd.Status.HasDifference() {
			continue
		}
		col := cd.Expected
		if col == nil {
			col = cd.Actual
		}
		writeEntry(sb, "column", cd.Name, string(col.Type), cd.Status)
		writeChanges(sb, "        ", cd.Changes)
	}
}

func writeIndexDiffs(sb *strings.Builder, indexes []*diff.IndexDiff) {
	for _, id := range indexes {
		if !id.Status.HasDifference() {
			continue
		}
		idx := id.Expected
		if idx == nil {
			idx = id.Actual
		}
		writeEntry(sb, "index", id.Name, string(idx.Type)+" "+formatValue(idx.Columns), id.Status)
		writeChanges(sb, "        ", id.Changes)
	}
}

func writeForeignKeyDiffs(sb *strings.Builder, fks []*diff.ForeignKeyDiff) {
	for _, fd := range fks {
		if !fd.Status.HasDifference() {
			continue
		}
		fk := fd.Expected
		if fk == nil {
			fk = fd.Actual
		}
		detail := fmt.Sprintf("(%s) -> %s(%s)", strings.Join(fk.Columns, ", "), fk.ReferencedTable, strings.Join(fk.ReferencedColumns, ", "))
		writeEntry(sb, "foreign key", fd.Name, detail, fd.Status)
		writeChanges(sb, "        ", fd.Changes)
	}
}

func writeEntry(sb *strings.Builder, kind, name, detail string, status core.DiffStatus) {
	c := statusColor(status)
	fmt.Fprintf(sb, "    %s %s %s %s %s\n", c.Sprint(statusMarker(status)), kind, name, mutedColor.Sprint(detail), c.Sprint(status.Label()))
}

// writeChanges lists changed properties in name order as migrations -> database.
func writeChanges(sb *strings.Builder, indent string, changes diff.Changes) {
	fields := make([]string, 0, len(changes))
	for f := range changes {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		ch := changes[f]
		fmt.Fprintf(sb, "%s%s: %s -> %s\n", indent, f, formatValue(ch.Expected), formatValue(ch.Actual))
	}
}

func writeLegend(sb *strings.Builder) {
	fmt.Fprintf(sb, "\n%s\n", mutedColor.Sprint("+ only in the database, - only in the migrations, ~ differs (migrations -> database)"))
}
