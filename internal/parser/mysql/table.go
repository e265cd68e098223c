package mysql

import (
	"strconv"

	"github.com/pingcap/tidb/pkg/parser/ast"

	"schemasync/internal/core"
)

func parseTableOptions(opts []*ast.TableOption, table *core.Table) {
	for _, opt := range opts {
		if opt == nil || opt.StrValue == "" {
			continue
		}
		v := opt.StrValue
		switch opt.Tp {
		case ast.TableOptionEngine:
			table.Engine = &v
		case ast.TableOptionCharset:
			table.Charset = &v
		case ast.TableOptionCollate:
			table.Collation = &v
		case ast.TableOptionComment:
			table.Comment = &v
		}
	}
}

func (p *Parser) parseConstraints(constraints []*ast.Constraint, table *core.Table) {
	for _, constraint := range constraints {
		p.applyConstraint(table, constraint)
	}
}

func constraintColumns(constraint *ast.Constraint) []string {
	columns := make([]string, 0, len(constraint.Keys))
	for _, key := range constraint.Keys {
		// Functional key parts have no column.
		if key.Column != nil {
			columns = append(columns, key.Column.Name.O)
		}
	}
	return columns
}

func (p *Parser) applyConstraint(table *core.Table, constraint *ast.Constraint) {
	if constraint == nil {
		return
	}
	columns := constraintColumns(constraint)

	switch constraint.Tp {
	case ast.ConstraintPrimaryKey:
		applyPrimaryKey(table, columns)
	case ast.ConstraintUniq, ast.ConstraintUniqKey, ast.ConstraintUniqIndex:
		addIndex(table, constraint.Name, core.IndexUnique, columns)
	case ast.ConstraintIndex, ast.ConstraintKey, ast.ConstraintVector, ast.ConstraintColumnar:
		addIndex(table, constraint.Name, core.IndexIndex, columns)
	case ast.ConstraintFulltext:
		addIndex(table, constraint.Name, core.IndexFulltext, columns)
	case ast.ConstraintForeignKey:
		applyForeignKey(table, constraint.Name, columns, constraint.Refer)
	}
}

func applyPrimaryKey(table *core.Table, columns []string) {
	table.PutIndex(&core.Index{Name: "primary", Type: core.IndexPrimary, Columns: columns})
}

// addIndex stores an index. Unnamed indexes get the name MySQL assigns: the
// first column, suffixed _2, _3, ... on collision.
func addIndex(table *core.Table, name string, typ core.IndexType, columns []string) {
	if name == "" && len(columns) > 0 {
		name = columns[0]
		for n := 2; table.Index(name) != nil; n++ {
			name = columns[0] + "_" + strconv.Itoa(n)
		}
	}
	table.PutIndex(&core.Index{Name: name, Type: typ, Columns: columns})
}

func applyForeignKey(table *core.Table, name string, columns []string, refer *ast.ReferenceDef) {
	if refer == nil || refer.Table == nil {
		return
	}
	refCols := make([]string, 0, len(refer.IndexPartSpecifications))
	for _, spec := range refer.IndexPartSpecifications {
		if spec.Column != nil {
			refCols = append(refCols, spec.Column.Name.O)
		}
	}

	var onUpdate, onDelete string
	if refer.OnUpdate != nil {
		onUpdate = refer.OnUpdate.ReferOpt.String()
	}
	if refer.OnDelete != nil {
		onDelete = refer.OnDelete.ReferOpt.String()
	}
	if name == "" {
		name = table.Name + "_ibfk_" + strconv.Itoa(len(table.ForeignKeys)+1)
	}
	table.PutForeignKey(core.NewForeignKey(name, columns, refer.Table.Name.O, refCols, onUpdate, onDelete))
}
