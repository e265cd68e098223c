package output

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"schemasync/internal/core"
	"schemasync/internal/diff"
	"schemasync/internal/inspector"
)

type humanFormatter struct{}

func (humanFormatter) FormatDiff(d *diff.SchemaDiff) (string, error) {
	return formatDiffText(d), nil
}

func (humanFormatter) FormatTableDiff(td *diff.TableDiff) (string, error) {
	if td == nil {
		return "", nil
	}
	var sb strings.Builder
	writeTableDiffText(&sb, td)
	return sb.String(), nil
}

func (humanFormatter) FormatTables(tables []*core.Table) (string, error) {
	if len(tables) == 0 {
		return "No tables found.\n", nil
	}
	data := pterm.TableData{{"Table", "Columns", "Indexes", "Foreign keys", "Engine"}}
	for _, t := range tables {
		data = append(data, []string{
			t.Name,
			fmt.Sprint(len(t.Columns)),
			fmt.Sprint(len(t.Indexes)),
			fmt.Sprint(len(t.ForeignKeys)),
			optional(t.Engine),
		})
	}
	out, err := renderTable(data)
	if err != nil {
		return "", err
	}
	return out + fmt.Sprintf("\n%s\n", plural(len(tables), "table")), nil
}

func (humanFormatter) FormatTable(t *core.Table) (string, error) {
	if t == nil {
		return "", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", titleColor.Sprint(t.Name))

	cols := pterm.TableData{{"Column", "Type", "Nullable", "Default", "Extra"}}
	for _, c := range t.Columns {
		cols = append(cols, []string{c.Name, columnType(c), yesNo(c.Nullable), columnDefault(c), columnExtra(c)})
	}
	out, err := renderTable(cols)
	if err != nil {
		return "", err
	}
	sb.WriteString(out)

	if len(t.Indexes) > 0 {
		idx := pterm.TableData{{"Index", "Type", "Columns"}}
		for _, i := range t.Indexes {
			idx = append(idx, []string{i.Name, i.Type.Label(), strings.Join(i.Columns, ", ")})
		}
		if out, err = renderTable(idx); err != nil {
			return "", err
		}
		sb.WriteString("\n" + out)
	}

	if len(t.ForeignKeys) > 0 {
		fks := pterm.TableData{{"Foreign key", "Columns", "References", "On update", "On delete"}}
		for _, fk := range t.ForeignKeys {
			fks = append(fks, []string{
				fk.Name,
				strings.Join(fk.Columns, ", "),
				fk.ReferencedTable + "(" + strings.Join(fk.ReferencedColumns, ", ") + ")",
				fk.OnUpdate,
				fk.OnDelete,
			})
		}
		if out, err = renderTable(fks); err != nil {
			return "", err
		}
		sb.WriteString("\n" + out)
	}
	return sb.String(), nil
}

func (humanFormatter) FormatMigrations(dir string, files []inspector.MigrationFile) (string, error) {
	if len(files) == 0 {
		return fmt.Sprintf("No migrations found in %s.\n", dir), nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n\n", titleColor.Sprint("Migrations in"), dir)
	for i, f := range files {
		fmt.Fprintf(&sb, "%4d  %s\n", i+1, f.File)
	}
	fmt.Fprintf(&sb, "\n%s\n", plural(len(files), "migration"))
	return sb.String(), nil
}

func renderTable(data pterm.TableData) (string, error) {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", fmt.Errorf("render table: %w", err)
	}
	return out + "\n", nil
}

func columnType(c *core.Column) string {
	typ := string(c.Type)
	switch {
	case c.Length != nil:
		typ += fmt.Sprintf("(%d)", *c.Length)
	case c.Precision != nil && c.Scale != nil:
		typ += fmt.Sprintf("(%d,%d)", *c.Precision, *c.Scale)
	case len(c.AllowedValues) > 0:
		typ += "(" + strings.Join(c.AllowedValues, ", ") + ")"
	}
	if c.Unsigned && !c.Type.IsUnsigned() {
		typ += " unsigned"
	}
	return typ
}

func columnDefault(c *core.Column) string {
	if c.Default == nil {
		return ""
	}
	return formatValue(c.Default)
}

func columnExtra(c *core.Column) string {
	var parts []string
	if c.AutoIncrement {
		parts = append(parts, "auto_increment")
	}
	if c.StoredAs != nil {
		parts = append(parts, "stored as "+*c.StoredAs)
	}
	if c.VirtualAs != nil {
		parts = append(parts, "virtual as "+*c.VirtualAs)
	}
	if c.Comment != nil && *c.Comment != "" {
		parts = append(parts, "comment "+fmt.Sprintf("%q", *c.Comment))
	}
	return strings.Join(parts, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
