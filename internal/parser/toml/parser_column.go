package toml

import (
	"errors"
	"fmt"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/migration"
)

// tomlColumn maps [[tables.columns]].
type tomlColumn struct {
	Name          string   `toml:"name"`
	Type          string   `toml:"type"`
	Nullable      bool     `toml:"nullable"`
	AutoIncrement bool     `toml:"auto_increment"`
	Unsigned      bool     `toml:"unsigned"`
	Length        *int     `toml:"length"`
	Precision     *int     `toml:"precision"`
	Scale         *int     `toml:"scale"`
	Charset       string   `toml:"charset"`
	Collation     string   `toml:"collation"`
	Comment       string   `toml:"comment"`
	Values        []string `toml:"values"`

	// Default accepts string, bool, or number from TOML and is kept as
	// decoded.
	Default any `toml:"default"`

	PrimaryKey bool `toml:"primary_key"`
	Unique     bool `toml:"unique"`

	// References is "table.column". OnUpdate and OnDelete apply to it.
	References string `toml:"references"`
	OnUpdate   string `toml:"on_update"`
	OnDelete   string `toml:"on_delete"`
}

func convertColumn(tc *tomlColumn) (*core.Column, error) {
	if strings.TrimSpace(tc.Name) == "" {
		return nil, errors.New("column name is empty")
	}

	typ, err := resolveColumnType(tc.Type)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", tc.Name, err)
	}

	return &core.Column{
		Name:          tc.Name,
		Type:          typ,
		Nullable:      tc.Nullable,
		Default:       tc.Default,
		AutoIncrement: tc.AutoIncrement || typ.IsAutoIncrement(),
		Unsigned:      tc.Unsigned || typ.IsUnsigned(),
		Length:        tc.Length,
		Precision:     tc.Precision,
		Scale:         tc.Scale,
		Charset:       optional(tc.Charset),
		Collation:     optional(tc.Collation),
		Comment:       optional(tc.Comment),
		AllowedValues: tc.Values,
	}, nil
}

// resolveColumnType accepts any column type identifier, case-insensitively.
func resolveColumnType(raw string) (core.ColumnType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("type is empty")
	}
	for _, t := range core.ColumnTypes() {
		if strings.EqualFold(string(t), raw) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown column type %q", raw)
}

func columnForeignKey(table string, tc *tomlColumn) (*core.ForeignKey, error) {
	refTable, refColumn, ok := parseReferences(tc.References)
	if !ok {
		return nil, fmt.Errorf("invalid references %q: expected format \"table.column\"", tc.References)
	}
	name := migration.IndexName(table, []string{tc.Name}, "foreign")
	return core.NewForeignKey(name, []string{tc.Name}, refTable, []string{refColumn}, tc.OnUpdate, tc.OnDelete), nil
}

func parseReferences(ref string) (table, column string, ok bool) {
	table, column, found := strings.Cut(strings.TrimSpace(ref), ".")
	if !found || table == "" || column == "" || strings.Contains(column, ".") {
		return "", "", false
	}
	return table, column, true
}
