// Package migration reconstructs the schema declared by Laravel migration
// files without running them. Each file is parsed into a PHP syntax tree, the
// literal Schema:: calls inside its up method are turned into operations, and
// the operations of all files are folded into a core.DatabaseSchema.
package migration

import (
	"fmt"
	"os"
	"strings"

	"github.com/VKCOM/php-parser/pkg/ast"
	"github.com/VKCOM/php-parser/pkg/conf"
	phperrors "github.com/VKCOM/php-parser/pkg/errors"
	"github.com/VKCOM/php-parser/pkg/parser"
	"github.com/VKCOM/php-parser/pkg/version"
	"github.com/VKCOM/php-parser/pkg/visitor"
	"github.com/VKCOM/php-parser/pkg/visitor/traverser"
)

var phpVersion = &version.Version{Major: 8, Minor: 0}

// schemaMethods are the Schema facade calls that change structure.
var schemaMethods = map[string]OperationType{
	"create":       OpCreate,
	"table":        OpTable,
	"drop":         OpDrop,
	"dropIfExists": OpDropIfExists,
	"rename":       OpRename,
	"dropColumns":  OpTable,
}

// AnalyzeFile parses one migration file into its ordered operations.
func AnalyzeFile(path string) ([]Operation, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, &MigrationParseError{File: path, Reason: err.Error(), Err: err}
	}
	return analyze(path, src)
}

// Analyze parses migration source held in memory.
func Analyze(src []byte) ([]Operation, error) {
	return analyze(inlineSource, src)
}

func analyze(file string, src []byte) ([]Operation, error) {
	var syntaxErrs []*phperrors.Error
	root, err := parser.Parse(src, conf.Config{
		Version: phpVersion,
		ErrorHandlerFunc: func(e *phperrors.Error) {
			syntaxErrs = append(syntaxErrs, e)
		},
	})
	if err != nil {
		return nil, &MigrationParseError{File: file, Reason: err.Error(), Err: err}
	}
	if len(syntaxErrs) > 0 {
		return nil, &MigrationParseError{File: file, Reason: describeSyntaxError(syntaxErrs[0])}
	}
	if root == nil {
		return nil, &MigrationParseError{File: file, Reason: "empty syntax tree"}
	}

	a := &analyzer{}
	a.walk(root)
	return a.ops, nil
}

func describeSyntaxError(e *phperrors.Error) string {
	if e.Pos != nil {
		return fmt.Sprintf("%s at line %d", e.Msg, e.Pos.StartLine)
	}
	return e.Msg
}

// analyzer holds the operations of a single source; a new one is used per file.
type analyzer struct {
	ops []Operation
}

// upFinder collects the bodies of every method named up, in source order.
type upFinder struct {
	visitor.Null
	bodies []ast.Vertex
}

func (f *upFinder) StmtClassMethod(n *ast.StmtClassMethod) {
	if strings.EqualFold(nameText(n.Name), "up") {
		f.bodies = append(f.bodies, n.Stmt)
	}
}

// schemaCalls visits every call below an up body, whatever control flow or
// closure it sits in. An up method nested in another up body is reached
// twice, so calls already seen are skipped.
type schemaCalls struct {
	visitor.Null
	a    *analyzer
	seen map[ast.Vertex]bool
}

func (c *schemaCalls) ExprStaticCall(n *ast.ExprStaticCall) { c.visit(n) }
func (c *schemaCalls) ExprMethodCall(n *ast.ExprMethodCall) { c.visit(n) }

func (c *schemaCalls) visit(n ast.Vertex) {
	if c.seen[n] {
		return
	}
	c.seen[n] = true
	c.a.schemaCall(n)
}

func (a *analyzer) walk(root ast.Vertex) {
	finder := &upFinder{}
	traverser.NewTraverser(finder).Traverse(root)

	calls := traverser.NewTraverser(&schemaCalls{a: a, seen: make(map[ast.Vertex]bool)})
	for _, body := range finder.bodies {
		calls.Traverse(body)
	}
}

// schemaCall records Schema::method(...) and Schema::connection(..)->method(...).
func (a *analyzer) schemaCall(expr ast.Vertex) {
	var method string
	var args []ast.Vertex

	switch n := expr.(type) {
	case *ast.ExprStaticCall:
		if !isSchemaClass(n.Class) {
			return
		}
		method = nameText(n.Call)
		args = argExprs(n.Args)
	case *ast.ExprMethodCall:
		sc, ok := n.Var.(*ast.ExprStaticCall)
		if !ok || !isSchemaClass(sc.Class) || nameText(sc.Call) != "connection" {
			return
		}
		method = nameText(n.Method)
		args = argExprs(n.Args)
	default:
		return
	}

	opType, ok := schemaMethods[method]
	if !ok || len(args) == 0 {
		return
	}
	table, ok := stringValue(args[0])
	if !ok {
		return
	}

	op := Operation{Type: opType, Table: table}
	switch method {
	case "rename":
		if len(args) > 1 {
			op.NewName, _ = stringValue(args[1])
		}
	case "dropColumns":
		for _, arg := range args[1:] {
			op.Drops.Columns = append(op.Drops.Columns, stringList(arg)...)
		}
	case "create", "table":
		if body := closureBody(args[1:]); body != nil {
			b := &blueprint{op: &op}
			for _, stmt := range body {
				b.statement(stmt)
			}
		}
	}
	a.ops = append(a.ops, op)
}

// isSchemaClass matches Schema and any namespaced name ending in \Schema.
func isSchemaClass(v ast.Vertex) bool {
	name := nameText(v)
	return name == "Schema" || strings.HasSuffix(name, `\Schema`)
}

// closureBody returns the statements of the first closure argument. An arrow
// function body is returned as a single expression statement.
func closureBody(args []ast.Vertex) []ast.Vertex {
	for _, arg := range args {
		switch fn := arg.(type) {
		case *ast.ExprClosure:
			return fn.Stmts
		case *ast.ExprArrowFunction:
			return []ast.Vertex{&ast.StmtExpression{Expr: fn.Expr}}
		}
	}
	return nil
}

// methodChain flattens $table->a(..)->b(..)->c(..) into [a, b, c]. The walk
// is iterative: it follows receivers until they stop being method calls.
func methodChain(mc *ast.ExprMethodCall) []call {
	var chain []call
	var cur ast.Vertex = mc
	for {
		m, ok := cur.(*ast.ExprMethodCall)
		if !ok {
			break
		}
		id, ok := m.Method.(*ast.Identifier)
		if !ok {
			break
		}
		chain = append(chain, call{method: string(id.Value), args: argExprs(m.Args)})
		cur = m.Var
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
