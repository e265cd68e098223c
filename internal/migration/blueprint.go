package migration

import (
	"strings"

	"github.com/VKCOM/php-parser/pkg/ast"

	"schemasync/internal/core"
)

var dropMethods = map[string]bool{
	"dropColumn":               true,
	"dropColumns":              true,
	"dropPrimary":              true,
	"dropUnique":               true,
	"dropIndex":                true,
	"dropFullText":             true,
	"dropSpatialIndex":         true,
	"dropForeign":              true,
	"dropConstrainedForeignId": true,
	"dropSoftDeletes":          true,
	"dropSoftDeletesTz":        true,
	"dropTimestamps":           true,
	"dropTimestampsTz":         true,
	"dropRememberToken":        true,
	"dropMorphs":               true,
}

var indexMethods = map[string]core.IndexType{
	"primary":      core.IndexPrimary,
	"unique":       core.IndexUnique,
	"index":        core.IndexIndex,
	"fulltext":     core.IndexFulltext,
	"fullText":     core.IndexFulltext,
	"spatialIndex": core.IndexSpatial,
}

var multiColumnMethods = map[string]bool{
	"timestamps":         true,
	"nullableTimestamps": true,
	"timestampsTz":       true,
	"softDeletes":        true,
	"softDeletesTz":      true,
	"rememberToken":      true,
	"morphs":             true,
	"nullableMorphs":     true,
	"uuidMorphs":         true,
	"nullableUuidMorphs": true,
	"ulidMorphs":         true,
	"nullableUlidMorphs": true,
}

// tableAttributes are blueprint calls that set table options instead of
// defining a column.
var tableAttributes = map[string]bool{
	"engine":    true,
	"charset":   true,
	"collation": true,
	"comment":   true,
}

// ignoredMethods take a name as first argument but define no column.
var ignoredMethods = map[string]bool{
	"renameIndex":  true,
	"rename":       true,
	"drop":         true,
	"dropIfExists": true,
	"create":       true,
	"after":        true,
}

// blueprint accumulates the effect of one create/table closure onto op.
type blueprint struct {
	op *Operation
}

func (b *blueprint) statement(stmt ast.Vertex) {
	es, ok := stmt.(*ast.StmtExpression)
	if !ok {
		return
	}
	switch expr := es.Expr.(type) {
	case *ast.ExprMethodCall:
		chain := methodChain(expr)
		if len(chain) == 0 {
			return
		}
		b.dispatch(chain)
	case *ast.ExprAssign:
		b.propertyAssign(expr)
	}
}

func (b *blueprint) dispatch(chain []call) {
	head := chain[0]
	switch {
	case head.method == "renameColumn":
		b.renameColumn(head)
	case dropMethods[head.method]:
		b.drop(head)
	case indexMethods[head.method] != "" && len(head.args) > 0:
		b.index(head, indexMethods[head.method])
	case head.method == "foreign":
		b.foreign(chain)
	case multiColumnMethods[head.method]:
		b.multiColumn(head)
	case tableAttributes[head.method] && len(chain) == 1:
		b.tableAttribute(head.method, head.arg(0))
	case ignoredMethods[head.method]:
	default:
		b.column(chain)
	}
}

// propertyAssign handles $table->engine = 'InnoDB' and friends.
func (b *blueprint) propertyAssign(expr *ast.ExprAssign) {
	pf, ok := expr.Var.(*ast.ExprPropertyFetch)
	if !ok {
		return
	}
	name := nameText(pf.Prop)
	if tableAttributes[name] {
		b.tableAttribute(name, expr.Expr)
	}
}

func (b *blueprint) tableAttribute(name string, arg ast.Vertex) {
	s, ok := stringValue(arg)
	if !ok {
		return
	}
	switch name {
	case "engine":
		b.op.Engine = &s
	case "charset":
		b.op.Charset = &s
	case "collation":
		b.op.Collation = &s
	case "comment":
		b.op.Comment = &s
	}
}

func (b *blueprint) renameColumn(c call) {
	from, ok1 := stringValue(c.arg(0))
	to, ok2 := stringValue(c.arg(1))
	if ok1 && ok2 {
		b.op.Renames = append(b.op.Renames, ColumnRename{From: from, To: to})
	}
}

func (b *blueprint) drop(c call) {
	d := &b.op.Drops
	switch c.method {
	case "dropColumn", "dropColumns":
		for _, arg := range c.args {
			d.Columns = append(d.Columns, stringList(arg)...)
		}
	case "dropSoftDeletes", "dropSoftDeletesTz":
		name := "deleted_at"
		if s, ok := stringValue(c.arg(0)); ok {
			name = s
		}
		d.Columns = append(d.Columns, name)
	case "dropTimestamps", "dropTimestampsTz":
		d.Columns = append(d.Columns, "created_at", "updated_at")
	case "dropRememberToken":
		d.Columns = append(d.Columns, "remember_token")
	case "dropMorphs":
		name, ok := stringValue(c.arg(0))
		if !ok {
			return
		}
		d.Columns = append(d.Columns, name+"_type", name+"_id")
		d.Indexes = append(d.Indexes, IndexName(b.op.Table, []string{name + "_type", name + "_id"}, "index"))
	case "dropPrimary":
		if name, ok := b.dropTarget(c.arg(0), "primary"); ok {
			d.Indexes = append(d.Indexes, name)
		}
		d.Primary = true
	case "dropUnique":
		if name, ok := b.dropTarget(c.arg(0), "unique"); ok {
			d.Indexes = append(d.Indexes, name)
		}
	case "dropIndex":
		if name, ok := b.dropTarget(c.arg(0), "index"); ok {
			d.Indexes = append(d.Indexes, name)
		}
	case "dropFullText":
		if name, ok := b.dropTarget(c.arg(0), "fulltext"); ok {
			d.Indexes = append(d.Indexes, name)
		}
	case "dropSpatialIndex":
		if name, ok := b.dropTarget(c.arg(0), "spatialindex"); ok {
			d.Indexes = append(d.Indexes, name)
		}
	case "dropForeign":
		if name, ok := b.dropTarget(c.arg(0), "foreign"); ok {
			d.ForeignKeys = append(d.ForeignKeys, name)
		}
	case "dropConstrainedForeignId":
		col, ok := stringValue(c.arg(0))
		if !ok {
			return
		}
		d.ForeignKeys = append(d.ForeignKeys, IndexName(b.op.Table, []string{col}, "foreign"))
		d.Columns = append(d.Columns, col)
	}
}

// dropTarget resolves the name given to a drop call: a string is the name
// itself, an array of columns yields the conventional generated name.
func (b *blueprint) dropTarget(arg ast.Vertex, suffix string) (string, bool) {
	if s, ok := stringValue(arg); ok {
		return s, true
	}
	if arr, ok := arg.(*ast.ExprArray); ok {
		return IndexName(b.op.Table, stringItems(arr), suffix), true
	}
	return "", false
}

func (b *blueprint) index(c call, typ core.IndexType) {
	cols := stringList(c.arg(0))
	if len(cols) == 0 {
		return
	}
	name, ok := stringValue(c.arg(1))
	if !ok {
		name = IndexName(b.op.Table, cols, c.method)
	}
	b.op.putIndex(&core.Index{Name: name, Type: typ, Columns: cols})
}

func (b *blueprint) foreign(chain []call) {
	head := chain[0]
	cols := stringList(head.arg(0))
	if len(cols) == 0 {
		return
	}
	name, ok := stringValue(head.arg(1))
	if !ok {
		name = IndexName(b.op.Table, cols, "foreign")
	}

	var refTable string
	var refCols []string
	actions := referentialActions{}
	for _, m := range chain[1:] {
		switch m.method {
		case "references":
			refCols = stringList(m.arg(0))
		case "on":
			refTable, _ = stringValue(m.arg(0))
		default:
			actions.apply(m)
		}
	}
	if refTable == "" {
		return
	}
	b.op.putForeignKey(core.NewForeignKey(name, cols, refTable, refCols, actions.onUpdate, actions.onDelete))
}

// referentialActions collects onUpdate/onDelete from a modifier chain.
type referentialActions struct {
	onUpdate string
	onDelete string
}

func (r *referentialActions) apply(m call) {
	switch m.method {
	case "onUpdate":
		r.onUpdate, _ = stringValue(m.arg(0))
	case "onDelete":
		r.onDelete, _ = stringValue(m.arg(0))
	case "cascadeOnUpdate":
		r.onUpdate = "cascade"
	case "cascadeOnDelete":
		r.onDelete = "cascade"
	case "restrictOnUpdate":
		r.onUpdate = "restrict"
	case "restrictOnDelete":
		r.onDelete = "restrict"
	case "nullOnUpdate":
		r.onUpdate = "set null"
	case "nullOnDelete":
		r.onDelete = "set null"
	case "noActionOnUpdate":
		r.onUpdate = "no action"
	case "noActionOnDelete":
		r.onDelete = "no action"
	}
}

// IndexName builds the conventional generated name {table}_{cols}_{suffix},
// lower-cased with dashes and dots replaced.
func IndexName(table string, columns []string, suffix string) string {
	name := table + "_" + strings.Join(columns, "_") + "_" + suffix
	return strings.ToLower(strings.NewReplacer("-", "_", ".", "_").Replace(name))
}
