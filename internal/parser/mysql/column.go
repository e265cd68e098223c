package mysql

import (
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"
	"github.com/pingcap/tidb/pkg/parser/format"
	pmysql "github.com/pingcap/tidb/pkg/parser/mysql"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"schemasync/internal/core"
	catalog "schemasync/internal/introspect/mysql"
)

func (p *Parser) parseColumns(cols []*ast.ColumnDef, table *core.Table) {
	for _, colDef := range cols {
		col := newColumnFromDef(colDef)
		for _, opt := range colDef.Options {
			p.applyColumnOption(table, col, opt)
		}
		table.PutColumn(col)
	}
}

// newColumnFromDef maps the declared type with the live catalog's rules.
// Auto increment is decided before the type so integer keys map onto their
// increments variant.
func newColumnFromDef(colDef *ast.ColumnDef) *core.Column {
	raw := colDef.Tp.CompactStr()
	if pmysql.HasUnsignedFlag(colDef.Tp.GetFlag()) {
		raw += " unsigned"
	}
	autoInc := false
	for _, opt := range colDef.Options {
		if opt != nil && opt.Tp == ast.ColumnOptionAutoIncrement {
			autoInc = true
		}
	}

	col := catalog.ColumnFromType(colDef.Name.Name.O, raw, autoInc)
	col.Nullable = true
	if c := colDef.Tp.GetCollate(); c != "" {
		col.Collation = &c
	}
	if c := colDef.Tp.GetCharset(); c != "" && c != "binary" {
		col.Charset = &c
	}
	return col
}

func (p *Parser) applyColumnOption(table *core.Table, col *core.Column, opt *ast.ColumnOption) {
	if opt == nil {
		return
	}

	switch opt.Tp {
	case ast.ColumnOptionNotNull:
		col.Nullable = false
	case ast.ColumnOptionNull:
		col.Nullable = true
	case ast.ColumnOptionPrimaryKey:
		// Primary key columns are implicitly NOT NULL.
		col.Nullable = false
		applyPrimaryKey(table, []string{col.Name})
	case ast.ColumnOptionDefaultValue:
		col.Default = defaultValue(p.exprToString(opt.Expr))
	case ast.ColumnOptionUniqKey:
		addIndex(table, col.Name, core.IndexUnique, []string{col.Name})
	case ast.ColumnOptionFulltext:
		addIndex(table, col.Name, core.IndexFulltext, []string{col.Name})
	case ast.ColumnOptionComment:
		if s := p.exprToString(opt.Expr); s != nil && *s != "" {
			col.Comment = s
		}
	case ast.ColumnOptionCollate:
		if opt.StrValue != "" {
			v := opt.StrValue
			col.Collation = &v
		}
	case ast.ColumnOptionReference:
		// InnoDB parses and ignores inline REFERENCES clauses.
	case ast.ColumnOptionGenerated:
		if s := p.exprToString(opt.Expr); s != nil {
			if opt.Stored {
				col.StoredAs = s
			} else {
				col.VirtualAs = s
			}
		}
	}
}

// defaultValue renders a default the way SHOW COLUMNS reports it: literal
// text without quotes, NULL as no default.
func defaultValue(s *string) any {
	if s == nil || strings.EqualFold(*s, "NULL") {
		return nil
	}
	v := *s
	if strings.EqualFold(v, "CURRENT_TIMESTAMP()") {
		v = "CURRENT_TIMESTAMP"
	}
	return v
}

func (p *Parser) exprToString(expr ast.ExprNode) *string {
	if expr == nil {
		return nil
	}

	var sb strings.Builder
	restoreCtx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := expr.Restore(restoreCtx); err != nil {
		return nil
	}
	s := strings.TrimSpace(sb.String())

	if unquoted, ok := tryUnquoteSQLStringLiteral(s); ok {
		return &unquoted
	}

	return &s
}

func tryUnquoteSQLStringLiteral(s string) (string, bool) {
	if len(s) < 2 || s[len(s)-1] != '\'' {
		return "", false
	}

	if s[0] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'"), true
	}

	q := strings.IndexByte(s, '\'')
	if q <= 0 {
		return "", false
	}
	if !isSQLStringIntroducer(strings.TrimSpace(s[:q])) {
		return "", false
	}
	return strings.ReplaceAll(s[q+1:len(s)-1], "''", "'"), true
}

// isSQLStringIntroducer matches N and charset introducers such as _utf8mb4.
func isSQLStringIntroducer(prefix string) bool {
	if strings.EqualFold(prefix, "N") {
		return true
	}
	if !strings.HasPrefix(prefix, "_") || len(prefix) == 1 {
		return false
	}
	for _, r := range prefix[1:] {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
