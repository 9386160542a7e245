package sema

import (
	"github.com/neuro-lang/neuroc/sourcemap"
	"github.com/neuro-lang/neuroc/types"
)

// Symbol is either a Variable or a Function, resolved by name lookup.
type Symbol struct {
	Name string
	Span sourcemap.Span

	IsFunction bool

	// Variable fields
	VarType Type
	Mutable bool

	// Function fields
	ParamTypes []Type
	ReturnType Type // types.Void when the function has no return type
}

// Type is an alias kept local to sema so call sites read naturally; it is
// exactly types.Type.
type Type = types.Type

// Frame is one level of the scope stack: the name->symbol map owned by one
// block. Frames are simple map values, owned by a vector — no back-pointers
// or weak links.
type Frame map[string]Symbol

// Scope is a stack of Frames. The bottom frame holds every top-level
// function symbol, collected before statement-level analysis begins
// (Pass A). It is a local value of the analyzer, never shared
// across compilations.
type Scope struct {
	frames []Frame
}

// NewScope creates a scope with one (global) frame.
func NewScope() *Scope {
	return &Scope{frames: []Frame{{}}}
}

// Push begins a new block, starting a new frame.
func (s *Scope) Push() {
	s.frames = append(s.frames, Frame{})
}

// Pop discards the innermost frame's entries, ending its block.
func (s *Scope) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// DeclareInCurrent registers sym in the innermost frame. It reports false if
// a symbol of that name is already declared in this frame (redefinition in
// the same frame is a hard error; shadowing across frames is
// allowed and not reported here).
func (s *Scope) DeclareInCurrent(sym Symbol) bool {
	cur := s.frames[len(s.frames)-1]
	if _, exists := cur[sym.Name]; exists {
		return false
	}
	cur[sym.Name] = sym
	return true
}

// DeclareGlobal registers sym in the bottom (global) frame, used by Pass A
// to collect function symbols before any block is entered.
func (s *Scope) DeclareGlobal(sym Symbol) bool {
	global := s.frames[0]
	if _, exists := global[sym.Name]; exists {
		return false
	}
	global[sym.Name] = sym
	return true
}

// Lookup walks the frame stack innermost-first, so inner scopes shadow outer
// ones, and returns the first match.
func (s *Scope) Lookup(name string) (Symbol, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym, ok := s.frames[i][name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}
