// Package toml reads a hand-written schema snapshot in TOML. The format
// describes tables the way the value model does, with a few column level
// shortcuts (primary_key, unique, references, timestamps) that expand into
// indexes and foreign keys named the Laravel way.
package toml

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"schemasync/internal/core"
)

// schemaFile is the top-level TOML document.
type schemaFile struct {
	Connection string      `toml:"connection"`
	Tables     []tomlTable `toml:"tables"`
}

// Parser reads TOML schema snapshots.
type Parser struct{}

// NewParser creates a new TOML snapshot parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile opens the file at the given path and parses it as a TOML snapshot.
func (p *Parser) ParseFile(path string) (*core.DatabaseSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("toml: open file %q: %w", path, err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse reads TOML content from r.
func (p *Parser) Parse(r io.Reader) (*core.DatabaseSchema, error) {
	var sf schemaFile
	if _, err := toml.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("toml: decode error: %w", err)
	}

	return convert(&sf)
}

func convert(sf *schemaFile) (*core.DatabaseSchema, error) {
	s := core.NewDatabaseSchema(sf.Connection)
	for i := range sf.Tables {
		tt := &sf.Tables[i]
		if s.HasTable(tt.Name) {
			return nil, fmt.Errorf("toml: duplicate table %q", tt.Name)
		}
		t, err := convertTable(tt)
		if err != nil {
			return nil, fmt.Errorf("toml: table %q: %w", tt.Name, err)
		}
		s.PutTable(t)
	}
	return s, nil
}
