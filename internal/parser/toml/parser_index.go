package toml

import (
	"errors"
	"fmt"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/migration"
)

// tomlIndex maps [[tables.indexes]].
type tomlIndex struct {
	Name      string   `toml:"name"`
	Type      string   `toml:"type"`
	Columns   []string `toml:"columns"`
	Algorithm string   `toml:"algorithm"`
}

// tomlForeignKey maps [[tables.foreign_keys]].
type tomlForeignKey struct {
	Name              string   `toml:"name"`
	Columns           []string `toml:"columns"`
	ReferencedTable   string   `toml:"referenced_table"`
	ReferencedColumns []string `toml:"referenced_columns"`
	OnUpdate          string   `toml:"on_update"`
	OnDelete          string   `toml:"on_delete"`
}

var validActions = map[string]bool{
	"CASCADE":     true,
	"SET NULL":    true,
	"SET DEFAULT": true,
	"RESTRICT":    true,
	"NO ACTION":   true,
}

func convertIndex(table string, ti *tomlIndex) (*core.Index, error) {
	if len(ti.Columns) == 0 {
		name := ti.Name
		if name == "" {
			name = "(unnamed)"
		}
		return nil, fmt.Errorf("index %s has no columns", name)
	}

	typ := core.IndexIndex
	if ti.Type != "" {
		typ = core.IndexType(strings.ToLower(ti.Type))
		switch typ {
		case core.IndexPrimary, core.IndexUnique, core.IndexIndex, core.IndexFulltext, core.IndexSpatial:
		default:
			return nil, fmt.Errorf("index %q has unknown type %q", ti.Name, ti.Type)
		}
	}

	idx := &core.Index{Name: ti.Name, Type: typ, Columns: ti.Columns, Algorithm: optional(ti.Algorithm)}
	switch {
	case typ == core.IndexPrimary:
		idx.Name = "primary"
	case idx.Name == "":
		idx.Name = indexName(table, ti.Columns, typ)
	}
	return idx, nil
}

func convertForeignKey(table string, tf *tomlForeignKey) (*core.ForeignKey, error) {
	if len(tf.Columns) == 0 {
		return nil, errors.New("foreign key has no columns")
	}
	if tf.ReferencedTable == "" {
		return nil, fmt.Errorf("foreign key on %v has no referenced table", tf.Columns)
	}
	if len(tf.ReferencedColumns) != len(tf.Columns) {
		return nil, fmt.Errorf("foreign key on %v: %d referenced columns for %d columns", tf.Columns, len(tf.ReferencedColumns), len(tf.Columns))
	}

	name := tf.Name
	if name == "" {
		name = migration.IndexName(table, tf.Columns, "foreign")
	}
	fk := core.NewForeignKey(name, tf.Columns, tf.ReferencedTable, tf.ReferencedColumns, tf.OnUpdate, tf.OnDelete)
	for _, a := range []string{fk.OnUpdate, fk.OnDelete} {
		if !validActions[a] {
			return nil, fmt.Errorf("foreign key %q has unknown action %q", name, a)
		}
	}
	return fk, nil
}

func indexName(table string, columns []string, typ core.IndexType) string {
	suffix := string(typ)
	if typ == core.IndexSpatial {
		suffix = "spatialindex"
	}
	return migration.IndexName(table, columns, suffix)
}
