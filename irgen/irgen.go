// Package irgen lowers a type-checked NEURO AST to textual LLVM IR. It
// consumes the *sema.SemanticInfo produced by the analyzer so it never
// re-derives a type the checker already resolved.
//
// Emission is purely a function of the AST and SemanticInfo: no process
// time, randomness, or map-iteration order ever reaches the output, so
// emitting the same program twice yields byte-identical IR.
package irgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/neuro-lang/neuroc/ast"
	"github.com/neuro-lang/neuroc/diag"
	"github.com/neuro-lang/neuroc/sema"
	"github.com/neuro-lang/neuroc/sourcemap"
	"github.com/neuro-lang/neuroc/types"
)

// localInfo is what the second lowering pass needs to read or write a
// declared variable: its alloca pointer register and its type.
type localInfo struct {
	reg string
	typ types.Type
}

// loopLabels is the break/continue target pair for one enclosing loop.
type loopLabels struct {
	breakTo    string
	continueTo string
}

// Emitter holds all state for lowering one Program to one IR module.
type Emitter struct {
	info *sema.SemanticInfo

	out strings.Builder

	// string pool: insertion-ordered, never ranged as a map, so output
	// never depends on map-iteration order.
	strOrder []string
	strIndex map[string]int

	// per-function state, reset at the start of each function
	allocas   strings.Builder
	body      strings.Builder
	regCount  int
	lblCount  int
	scope     []map[string]localInfo
	allocaReg map[ast.Stmt]string
	loops     []loopLabels
	curRet    types.Type
	curBBOpen bool   // whether the current basic block still needs a terminator
	lastLabel string // label most recently opened by emitLabel
}

// Emit lowers prog to one LLVM IR text module named moduleName. info must
// be the SemanticInfo sema.Analyze produced for the same prog.
func Emit(prog *ast.Program, info *sema.SemanticInfo, moduleName string) (string, *diag.Diagnostic) {
	e := &Emitter{
		info:     info,
		strIndex: make(map[string]int),
	}

	e.out.WriteString(fmt.Sprintf("; ModuleID = '%s'\n", moduleName))
	e.out.WriteString(fmt.Sprintf("source_filename = \"%s\"\n\n", moduleName))

	var bodies []string
	for _, fn := range prog.Items {
		text, err := e.emitFunc(fn)
		if err != nil {
			return "", err
		}
		bodies = append(bodies, text)
	}

	e.emitStringGlobals()
	e.out.WriteString("\n")
	for _, b := range bodies {
		e.out.WriteString(b)
		e.out.WriteString("\n")
	}

	return e.out.String(), nil
}

// emitFunc lowers one function declaration to a `define ...` block,
// returning its IR text (string globals are collected into the module
// level pool as a side effect and emitted once, up front, by Emit).
func (e *Emitter) emitFunc(fn *ast.FuncDecl) (string, *diag.Diagnostic) {
	e.allocas.Reset()
	e.body.Reset()
	e.regCount = 0
	e.lblCount = 0
	e.scope = []map[string]localInfo{{}}
	e.allocaReg = make(map[ast.Stmt]string)
	e.loops = nil
	e.curBBOpen = true
	e.lastLabel = "entry"
	e.allocas.WriteString("entry:\n")

	retType := types.Type{Kind: types.Void}
	if fn.ReturnType != nil {
		retType, _ = types.Lookup(fn.ReturnType.Name)
	}
	e.curRet = retType

	paramTypes := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		paramTypes[i], _ = types.Lookup(p.Type.Name)
	}

	// Entry-block allocas: one per parameter, storing the incoming SSA
	// argument, then one per local declaration found anywhere in the body —
	// exactly one alloca per parameter and per local, all in the entry
	// block.
	for i, p := range fn.Params {
		addr := "%" + p.Name + ".addr"
		lt := llvmType(paramTypes[i])
		st := storageType(paramTypes[i])
		e.allocas.WriteString(fmt.Sprintf("  %s = alloca %s\n", addr, st))
		if paramTypes[i].Kind == types.Bool {
			ext := e.newTemp()
			e.allocas.WriteString(fmt.Sprintf("  %s = zext i1 %%%s to i8\n", ext, p.Name))
			e.allocas.WriteString(fmt.Sprintf("  store i8 %s, i8* %s\n", ext, addr))
		} else {
			e.allocas.WriteString(fmt.Sprintf("  store %s %%%s, %s* %s\n", lt, p.Name, lt, addr))
		}
		e.scope[0][p.Name] = localInfo{reg: addr, typ: paramTypes[i]}
	}
	e.collectLocals(fn.Body)

	if err := e.lowerBody(fn, fn.Body); err != nil {
		return "", err
	}
	if e.curBBOpen {
		e.emitDefaultReturn()
	}

	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fmt.Sprintf("%s %%%s", llvmType(paramTypes[i]), p.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "define %s @%s(%s) {\n", llvmType(retType), fn.Name, strings.Join(params, ", "))
	b.WriteString(e.allocas.String())
	b.WriteString(e.body.String())
	b.WriteString("}\n")
	return b.String(), nil
}

// emitDefaultReturn closes a function body that fell off the end of its
// last block without an explicit terminator — only reachable for a void
// function (sema's Pass C rejects this for any non-void function).
func (e *Emitter) emitDefaultReturn() {
	if e.curRet.Kind == types.Void {
		e.body.WriteString("  ret void\n")
	} else {
		e.body.WriteString(fmt.Sprintf("  ret %s %s\n", llvmType(e.curRet), zeroLiteral(e.curRet)))
	}
}

// collectLocals walks fn's body recursively — in the same structural
// order sema's passB checks it — emitting one alloca per declaration into
// e.allocas and recording its register under the declaring node's
// identity, so the second (lowering) pass can look it up without
// redoing scope resolution from scratch.
func (e *Emitter) collectLocals(body []ast.Stmt) {
	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.VarDecl:
			t := e.varDeclType(s)
			reg := e.newLocalAlloca(s.Name, t)
			e.allocaReg[s] = reg
		case *ast.If:
			e.collectLocals(s.Then)
			for _, ei := range s.ElseIf {
				e.collectLocals(ei.Body)
			}
			if s.Else != nil {
				e.collectLocals(s.Else)
			}
		case *ast.While:
			e.collectLocals(s.Body)
		case *ast.ForRange:
			i32 := types.Type{Kind: types.I32}
			reg := e.newLocalAlloca(s.Var, i32)
			e.allocaReg[s] = reg
			e.collectLocals(s.Body)
		}
	}
}

// varDeclType resolves a VarDecl's final type the same way sema did: the
// declared annotation if present, otherwise the initializer's checked
// type (already recorded in SemanticInfo.ExprTypes).
func (e *Emitter) varDeclType(s *ast.VarDecl) types.Type {
	if s.DeclaredType != nil {
		if t, ok := types.Lookup(s.DeclaredType.Name); ok {
			return t
		}
	}
	if s.Init != nil {
		return e.info.ExprTypes[s.Init]
	}
	return types.Type{Kind: types.I32}
}

func (e *Emitter) newLocalAlloca(name string, t types.Type) string {
	e.regCount++
	reg := "%" + name + "." + strconv.Itoa(e.regCount)
	e.allocas.WriteString(fmt.Sprintf("  %s = alloca %s\n", reg, storageType(t)))
	return reg
}

// newTemp allocates a fresh SSA temporary register for an intermediate
// value within the current function.
func (e *Emitter) newTemp() string {
	e.regCount++
	return "%t" + strconv.Itoa(e.regCount)
}

// newLabel allocates a fresh basic-block label within the current function.
func (e *Emitter) newLabel(prefix string) string {
	e.lblCount++
	return prefix + strconv.Itoa(e.lblCount)
}

func (e *Emitter) emitLine(format string, args ...interface{}) {
	e.body.WriteString("  " + fmt.Sprintf(format, args...) + "\n")
}

func (e *Emitter) emitLabel(name string) {
	e.body.WriteString(name + ":\n")
	e.curBBOpen = true
	e.lastLabel = name
}

func (e *Emitter) pushScope() { e.scope = append(e.scope, map[string]localInfo{}) }
func (e *Emitter) popScope()  { e.scope = e.scope[:len(e.scope)-1] }

func (e *Emitter) declare(name string, info localInfo) {
	e.scope[len(e.scope)-1][name] = info
}

func (e *Emitter) lookup(name string) localInfo {
	for i := len(e.scope) - 1; i >= 0; i-- {
		if info, ok := e.scope[i][name]; ok {
			return info
		}
	}
	// sema already guarantees every reachable identifier resolves; a miss
	// here would be an irgen bug, not a user error.
	panic("irgen: undeclared identifier " + name + " reached emission")
}

func (e *Emitter) pushLoop(l loopLabels) { e.loops = append(e.loops, l) }
func (e *Emitter) popLoop()              { e.loops = e.loops[:len(e.loops)-1] }

// currentLoop returns the innermost loop's branch targets. ok is false
// outside any loop; sema rejects break/continue there, so a miss can only
// mean the emitter was handed an unchecked tree, and the caller reports a
// diagnostic rather than indexing into an empty stack.
func (e *Emitter) currentLoop() (loopLabels, bool) {
	if len(e.loops) == 0 {
		return loopLabels{}, false
	}
	return e.loops[len(e.loops)-1], true
}

// unsupported reports a construct sema accepts but irgen deliberately does
// not lower (e.g. string '+': sema-legal, an UnsupportedOperation here).
func (e *Emitter) unsupported(span sourcemap.Span, msg string) *diag.Diagnostic {
	return &diag.Diagnostic{
		Severity: diag.Error,
		Message:  msg,
		Span:     &span,
		Code:     diag.CodeLLVM + "001",
	}
}
