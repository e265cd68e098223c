// Package output renders comparison results for the command line. Three
// formats are available: human (the default), json and summary.
package output

import (
	"fmt"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/diff"
	"schemasync/internal/inspector"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatHuman   Format = "human"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter renders each kind of result the CLI prints.
type Formatter interface {
	FormatDiff(*diff.SchemaDiff) (string, error)
	FormatTableDiff(*diff.TableDiff) (string, error)
	FormatTables([]*core.Table) (string, error)
	FormatTable(*core.Table) (string, error)
	FormatMigrations(dir string, files []inspector.MigrationFile) (string, error)
}

// NewFormatter creates a new Formatter instance based on the given name.
// If no format is specified, defaults to human format.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'human', 'json', or 'summary'", name)
	}
}

// formatValue renders a change value or column default for text output.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	case core.ColumnType:
		return string(x)
	case core.IndexType:
		return string(x)
	case []string:
		return "[" + strings.Join(x, ", ") + "]"
	default:
		return fmt.Sprint(x)
	}
}

func plural(n int, word string) string {
	switch {
	case n == 1:
	case strings.HasSuffix(word, "x"):
		word += "es"
	default:
		word += "s"
	}
	return fmt.Sprintf("%d %s", n, word)
}
