package toml

import (
	"errors"
	"fmt"
	"strings"

	"schemasync/internal/core"
)

// tomlTable maps [[tables]].
type tomlTable struct {
	Name        string           `toml:"name"`
	Engine      string           `toml:"engine"`
	Charset     string           `toml:"charset"`
	Collation   string           `toml:"collation"`
	Comment     string           `toml:"comment"`
	Timestamps  bool             `toml:"timestamps"`
	Columns     []tomlColumn     `toml:"columns"`
	Indexes     []tomlIndex      `toml:"indexes"`
	ForeignKeys []tomlForeignKey `toml:"foreign_keys"`
}

func convertTable(tt *tomlTable) (*core.Table, error) {
	if strings.TrimSpace(tt.Name) == "" {
		return nil, errors.New("table name is empty")
	}

	t := core.NewTable(tt.Name)
	t.Engine = optional(tt.Engine)
	t.Charset = optional(tt.Charset)
	t.Collation = optional(tt.Collation)
	t.Comment = optional(tt.Comment)

	var primary []string
	for i := range tt.Columns {
		tc := &tt.Columns[i]
		if t.HasColumn(tc.Name) {
			return nil, fmt.Errorf("duplicate column %q", tc.Name)
		}
		col, err := convertColumn(tc)
		if err != nil {
			return nil, err
		}
		t.PutColumn(col)

		if tc.PrimaryKey {
			primary = append(primary, col.Name)
		}
		if tc.Unique {
			t.PutIndex(&core.Index{Name: indexName(t.Name, []string{col.Name}, core.IndexUnique), Type: core.IndexUnique, Columns: []string{col.Name}})
		}
		if tc.References != "" {
			fk, err := columnForeignKey(t.Name, tc)
			if err != nil {
				return nil, err
			}
			t.PutForeignKey(fk)
		}
	}

	if tt.Timestamps {
		for _, name := range []string{"created_at", "updated_at"} {
			if !t.HasColumn(name) {
				t.PutColumn(&core.Column{Name: name, Type: core.TypeTimestamp, Nullable: true})
			}
		}
	}

	if len(primary) > 0 {
		t.PutIndex(&core.Index{Name: "primary", Type: core.IndexPrimary, Columns: primary})
	}

	for i := range tt.Indexes {
		idx, err := convertIndex(t.Name, &tt.Indexes[i])
		if err != nil {
			return nil, err
		}
		if idx.Type == core.IndexPrimary && len(primary) > 0 {
			return nil, errors.New("primary key declared on both columns and indexes")
		}
		t.PutIndex(idx)
	}

	for i := range tt.ForeignKeys {
		fk, err := convertForeignKey(t.Name, &tt.ForeignKeys[i])
		if err != nil {
			return nil, err
		}
		t.PutForeignKey(fk)
	}

	if err := validateReferences(t); err != nil {
		return nil, err
	}
	return t, nil
}

// validateReferences verifies that every index and foreign key column is a
// column of the table.
func validateReferences(t *core.Table) error {
	for _, idx := range t.Indexes {
		for _, c := range idx.Columns {
			if !t.HasColumn(c) {
				return fmt.Errorf("index %q references nonexistent column %q", idx.Name, c)
			}
		}
	}
	for _, fk := range t.ForeignKeys {
		for _, c := range fk.Columns {
			if !t.HasColumn(c) {
				return fmt.Errorf("foreign key %q references nonexistent column %q", fk.Name, c)
			}
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
