package output

import (
	"encoding/json"

	"schemasync/internal/core"
	"schemasync/internal/diff"
	"schemasync/internal/inspector"
)

type jsonFormatter struct{}

type tablesPayload struct {
	Tables []*core.Table `json:"tables"`
	Count  int           `json:"count"`
}

type migrationsPayload struct {
	Migrations []inspector.MigrationFile `json:"migrations"`
	Count      int                       `json:"count"`
	Path       string                    `json:"path"`
}

type Payload interface {
	*diff.SchemaDiff | *diff.TableDiff | *core.Table | tablesPayload | migrationsPayload
}

func (jsonFormatter) FormatDiff(d *diff.SchemaDiff) (string, error) {
	if d == nil {
		d = &diff.SchemaDiff{Tables: []*diff.TableDiff{}}
	}
	return marshalJSON(d)
}

func (jsonFormatter) FormatTableDiff(td *diff.TableDiff) (string, error) {
	return marshalJSON(td)
}

func (jsonFormatter) FormatTables(tables []*core.Table) (string, error) {
	if tables == nil {
		tables = []*core.Table{}
	}
	return marshalJSON(tablesPayload{Tables: tables, Count: len(tables)})
}

func (jsonFormatter) FormatTable(t *core.Table) (string, error) {
	return marshalJSON(t)
}

func (jsonFormatter) FormatMigrations(dir string, files []inspector.MigrationFile) (string, error) {
	if files == nil {
		files = []inspector.MigrationFile{}
	}
	return marshalJSON(migrationsPayload{Migrations: files, Count: len(files), Path: dir})
}

func marshalJSON[T Payload](payload T) (string, error) {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
