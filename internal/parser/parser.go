// Package parser loads schema snapshots from files. A snapshot stands in for
// a live database when one is not reachable: a MySQL dump, a JSON document
// written by the json formatter, or a hand-written TOML schema.
package parser

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"schemasync/internal/core"
	"schemasync/internal/parser/mysql"
	"schemasync/internal/parser/toml"
)

// Parser reads one snapshot format.
type Parser interface {
	ParseFile(path string) (*core.DatabaseSchema, error)
}

type mysqlDump struct {
	connection string
}

func (m mysqlDump) ParseFile(path string) (*core.DatabaseSchema, error) {
	return mysql.NewParser().ParseFile(path, m.connection)
}

type jsonSnapshot struct{}

func (jsonSnapshot) ParseFile(path string) (*core.DatabaseSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var s core.DatabaseSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &s, nil
}

// ForFile picks the parser for path by its extension. connection labels
// formats that do not carry one.
func ForFile(path, connection string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sql":
		return mysqlDump{connection: connection}, nil
	case ".json":
		return jsonSnapshot{}, nil
	case ".toml":
		return toml.NewParser(), nil
	default:
		return nil, &UnsupportedFormatError{Path: path}
	}
}

// LoadSnapshot reads the snapshot at path.
func LoadSnapshot(path, connection string) (*core.DatabaseSchema, error) {
	p, err := ForFile(path, connection)
	if err != nil {
		return nil, err
	}
	return p.ParseFile(path)
}

type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return "unsupported file format: " + e.Path
}
