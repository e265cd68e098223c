package migration

import (
	"strconv"
	"strings"

	"github.com/VKCOM/php-parser/pkg/ast"
)

// call is one link of a fluent method chain.
type call struct {
	method string
	args   []ast.Vertex
}

func (c call) arg(i int) ast.Vertex {
	if i < 0 || i >= len(c.args) {
		return nil
	}
	return c.args[i]
}

// argExprs unwraps *ast.Argument nodes into their expressions.
func argExprs(args []ast.Vertex) []ast.Vertex {
	out := make([]ast.Vertex, 0, len(args))
	for _, a := range args {
		if arg, ok := a.(*ast.Argument); ok {
			out = append(out, arg.Expr)
			continue
		}
		out = append(out, a)
	}
	return out
}

// value evaluates a literal expression. Only strings, numbers, the
// true/false/null constants, negated numbers and arrays of strings are
// understood; anything else reports ok=false.
func value(v ast.Vertex) (any, bool) {
	switch n := v.(type) {
	case *ast.ScalarString:
		return unquote(n.Value), true
	case *ast.ScalarLnumber:
		i, err := strconv.ParseInt(strings.ReplaceAll(string(n.Value), "_", ""), 0, 64)
		if err != nil {
			return nil, false
		}
		return i, true
	case *ast.ScalarDnumber:
		f, err := strconv.ParseFloat(strings.ReplaceAll(string(n.Value), "_", ""), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case *ast.ExprUnaryMinus:
		inner, ok := value(n.Expr)
		if !ok {
			return nil, false
		}
		switch x := inner.(type) {
		case int64:
			return -x, true
		case float64:
			return -x, true
		}
		return nil, false
	case *ast.ExprConstFetch:
		name := strings.ToLower(nameText(n.Const))
		switch name {
		case "true":
			return true, true
		case "false":
			return false, true
		case "null":
			return nil, true
		}
		return name, true
	case *ast.ExprArray:
		return stringItems(n), true
	}
	return nil, false
}

func stringValue(v ast.Vertex) (string, bool) {
	if s, ok := v.(*ast.ScalarString); ok {
		return unquote(s.Value), true
	}
	return "", false
}

func intValue(v ast.Vertex) (int, bool) {
	val, ok := value(v)
	if !ok {
		return 0, false
	}
	switch x := val.(type) {
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	}
	return 0, false
}

func boolValue(v ast.Vertex) (bool, bool) {
	val, ok := value(v)
	if !ok {
		return false, false
	}
	switch x := val.(type) {
	case bool:
		return x, true
	case int64:
		return x != 0, true
	}
	return false, false
}

// stringList accepts either a string or an array of strings.
func stringList(v ast.Vertex) []string {
	switch n := v.(type) {
	case *ast.ScalarString:
		return []string{unquote(n.Value)}
	case *ast.ExprArray:
		return stringItems(n)
	}
	return nil
}

func stringItems(arr *ast.ExprArray) []string {
	out := []string{}
	for _, item := range arr.Items {
		ai, ok := item.(*ast.ExprArrayItem)
		if !ok || ai == nil {
			continue
		}
		if s, ok := stringValue(ai.Val); ok {
			out = append(out, s)
		}
	}
	return out
}

// nameText renders an identifier or (qualified) name node.
func nameText(v ast.Vertex) string {
	switch n := v.(type) {
	case *ast.Identifier:
		return string(n.Value)
	case *ast.Name:
		return partsText(n.Parts)
	case *ast.NameFullyQualified:
		return `\` + partsText(n.Parts)
	case *ast.NameRelative:
		return `namespace\` + partsText(n.Parts)
	}
	return ""
}

func partsText(parts []ast.Vertex) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if np, ok := p.(*ast.NamePart); ok {
			segs = append(segs, string(np.Value))
		}
	}
	return strings.Join(segs, `\`)
}

// unquote strips PHP string quotes and resolves the escapes that matter
// for identifiers and simple defaults.
func unquote(raw []byte) string {
	s := string(raw)
	if len(s) < 2 {
		return s
	}
	switch {
	case s[0] == '\'' && s[len(s)-1] == '\'':
		s = s[1 : len(s)-1]
		return strings.NewReplacer(`\'`, `'`, `\\`, `\`).Replace(s)
	case s[0] == '"' && s[len(s)-1] == '"':
		s = s[1 : len(s)-1]
		return strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\$`, `$`, `\n`, "\n", `\t`, "\t", `\r`, "\r").Replace(s)
	}
	return s
}
