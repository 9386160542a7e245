package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/driver"
	"github.com/neuro-lang/neuroc/token"
)

// dumpProgram renders an AST in the requested format: pretty is the
// source-equivalent printer, json a structural dump.
func dumpProgram(prog *ast.Program, format string) (string, error) {
	switch format {
	case "pretty":
		return ast.Print(prog), nil
	case "json":
		items := make([]jsonNode, len(prog.Items))
		for i, fn := range prog.Items {
			items[i] = funcToJSON(fn)
		}
		data, err := json.MarshalIndent(map[string]interface{}{"items": items}, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format %q (want pretty or json)", format)
	}
}

// dumpTokens renders a token stream, one token per line in pretty mode.
func dumpTokens(toks []token.Token, c *driver.Compilation, format string) (string, error) {
	switch format {
	case "pretty":
		var b strings.Builder
		for _, t := range toks {
			pos := c.SourceMap.Position(t.Span.Start)
			fmt.Fprintf(&b, "%-16s %q at %d:%d\n", t.Kind, t.Text, pos.Line, pos.Column)
		}
		return b.String(), nil
	case "json":
		type jsonToken struct {
			Kind  string `json:"kind"`
			Text  string `json:"text"`
			Start int    `json:"start"`
			End   int    `json:"end"`
		}
		out := make([]jsonToken, len(toks))
		for i, t := range toks {
			out[i] = jsonToken{Kind: t.Kind.String(), Text: t.Text, Start: t.Span.Start, End: t.Span.End}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	default:
		return "", fmt.Errorf("unknown format %q (want pretty or json)", format)
	}
}

// jsonNode is one AST node flattened for JSON output: a node kind plus its
// kind-specific fields.
type jsonNode map[string]interface{}

func funcToJSON(fn *ast.FuncDecl) jsonNode {
	params := make([]jsonNode, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = jsonNode{"name": p.Name, "type": p.Type.Name}
	}
	n := jsonNode{
		"node":   "func",
		"name":   fn.Name,
		"params": params,
		"body":   stmtsToJSON(fn.Body),
	}
	if fn.ReturnType != nil {
		n["return_type"] = fn.ReturnType.Name
	}
	return n
}

func stmtsToJSON(stmts []ast.Stmt) []jsonNode {
	out := make([]jsonNode, len(stmts))
	for i, s := range stmts {
		out[i] = stmtToJSON(s)
	}
	return out
}

func stmtToJSON(stmt ast.Stmt) jsonNode {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		n := jsonNode{"node": "var_decl", "name": s.Name, "mutable": s.Mutable}
		if s.DeclaredType != nil {
			n["type"] = s.DeclaredType.Name
		}
		if s.Init != nil {
			n["init"] = exprToJSON(s.Init)
		}
		return n
	case *ast.Assign:
		return jsonNode{"node": "assign", "target": s.TargetName, "value": exprToJSON(s.Value)}
	case *ast.Return:
		n := jsonNode{"node": "return"}
		if s.Value != nil {
			n["value"] = exprToJSON(s.Value)
		}
		return n
	case *ast.If:
		n := jsonNode{"node": "if", "cond": exprToJSON(s.Cond), "then": stmtsToJSON(s.Then)}
		if len(s.ElseIf) > 0 {
			chain := make([]jsonNode, len(s.ElseIf))
			for i, ei := range s.ElseIf {
				chain[i] = jsonNode{"cond": exprToJSON(ei.Cond), "body": stmtsToJSON(ei.Body)}
			}
			n["else_if"] = chain
		}
		if s.Else != nil {
			n["else"] = stmtsToJSON(s.Else)
		}
		return n
	case *ast.While:
		return jsonNode{"node": "while", "cond": exprToJSON(s.Cond), "body": stmtsToJSON(s.Body)}
	case *ast.ForRange:
		return jsonNode{
			"node": "for", "var": s.Var,
			"start": exprToJSON(s.Start), "end": exprToJSON(s.EndExclusive),
			"body": stmtsToJSON(s.Body),
		}
	case *ast.Break:
		return jsonNode{"node": "break"}
	case *ast.Continue:
		return jsonNode{"node": "continue"}
	case *ast.ExprStmt:
		return jsonNode{"node": "expr_stmt", "expr": exprToJSON(s.X)}
	default:
		return jsonNode{"node": fmt.Sprintf("%T", stmt)}
	}
}

func exprToJSON(expr ast.Expr) jsonNode {
	switch e := expr.(type) {
	case *ast.Literal:
		switch e.Kind {
		case ast.StringLiteral:
			return jsonNode{"node": "string", "value": e.StringValue}
		case ast.BoolLiteral:
			return jsonNode{"node": "bool", "value": e.BoolValue}
		case ast.FloatLiteral:
			return jsonNode{"node": "float", "text": e.Text}
		default:
			return jsonNode{"node": "int", "text": e.Text}
		}
	case *ast.Ident:
		return jsonNode{"node": "ident", "name": e.Name}
	case *ast.Unary:
		return jsonNode{"node": "unary", "op": e.Op.String(), "operand": exprToJSON(e.X)}
	case *ast.Binary:
		return jsonNode{"node": "binary", "op": e.Op.String(), "left": exprToJSON(e.Left), "right": exprToJSON(e.Right)}
	case *ast.Call:
		args := make([]jsonNode, len(e.Args))
		for i, a := range e.Args {
			args[i] = exprToJSON(a)
		}
		return jsonNode{"node": "call", "callee": e.Callee, "args": args}
	case *ast.Paren:
		return jsonNode{"node": "paren", "expr": exprToJSON(e.X)}
	default:
		return jsonNode{"node": fmt.Sprintf("%T", expr)}
	}
}
