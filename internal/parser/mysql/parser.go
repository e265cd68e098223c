// Package mysql reads a schema-only MySQL dump, as written by
// mysqldump --no-data, into the same value model the live introspectors
// produce. Column types go through the MySQL catalog type table so that a
// dump and a live database describe the same table identically.
package mysql

import (
	"fmt"
	"os"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"

	"schemasync/internal/core"
)

type Parser struct {
	p *parser.Parser
}

func NewParser() *Parser {
	return &Parser{
		p: parser.New(),
	}
}

// ParseFile reads and parses the dump at path.
func (p *Parser) ParseFile(path, connection string) (*core.DatabaseSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read MySQL dump: %w", err)
	}
	return p.Parse(string(data), connection)
}

// Parse converts every CREATE TABLE in sql. ALTER TABLE ... ADD statements
// for tables created earlier in the dump are applied as well; other
// statements are ignored.
func (p *Parser) Parse(sql, connection string) (*core.DatabaseSchema, error) {
	stmtNodes, _, err := p.p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse MySQL dump: %w", err)
	}

	s := core.NewDatabaseSchema(connection)
	for _, stmtNode := range stmtNodes {
		switch stmt := stmtNode.(type) {
		case *ast.CreateTableStmt:
			s.PutTable(p.convertCreateTable(stmt))
		case *ast.AlterTableStmt:
			if t := s.Table(stmt.Table.Name.O); t != nil {
				p.applyAlterTable(t, stmt)
			}
		case *ast.DropTableStmt:
			for _, tn := range stmt.Tables {
				s.RemoveTable(tn.Name.O)
			}
		}
	}
	return s, nil
}

func (p *Parser) convertCreateTable(stmt *ast.CreateTableStmt) *core.Table {
	table := core.NewTable(stmt.Table.Name.O)
	parseTableOptions(stmt.Options, table)
	p.parseColumns(stmt.Cols, table)
	p.parseConstraints(stmt.Constraints, table)
	return table
}

func (p *Parser) applyAlterTable(table *core.Table, stmt *ast.AlterTableStmt) {
	for _, spec := range stmt.Specs {
		switch spec.Tp {
		case ast.AlterTableAddConstraint:
			p.applyConstraint(table, spec.Constraint)
		case ast.AlterTableAddColumns:
			p.parseColumns(spec.NewColumns, table)
		case ast.AlterTableOption:
			parseTableOptions(spec.Options, table)
		}
	}
}
