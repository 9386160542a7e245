// Package types defines the semantic type model NEURO's checker and IR
// emitter share: the closed set of base types, function types, and the
// internal "unknown" sentinel used only during numeric-literal inference.
package types

import (
	"fmt"
	"math/big"
	"strings"
)

// Kind identifies a type's shape.
type Kind int

const (
	Unknown Kind = iota // never exported past sema; placeholder during inference
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Bool
	String
	Void
	Func
)

// Type is a structurally-compared value type: two Types are equal iff their
// Kind (and, for Func, their Params/Return) match — never by identity.
type Type struct {
	Kind   Kind
	Params []Type // only meaningful for Kind == Func
	Return *Type  // only meaningful for Kind == Func
}

var baseNames = map[Kind]string{
	Unknown: "unknown",
	I8:      "i8", I16: "i16", I32: "i32", I64: "i64",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64",
	F32: "f32", F64: "f64",
	Bool: "bool", String: "string", Void: "void",
}

// byName is the closed set of base type names recognized in source. A
// "func" type never appears here: function types are synthesized from a
// Function symbol, not written by the user. The internal "unknown" is left
// out too, so source can never name it.
var byName = func() map[string]Kind {
	m := make(map[string]Kind, len(baseNames))
	for k, name := range baseNames {
		if k == Unknown {
			continue
		}
		m[name] = k
	}
	return m
}()

// Lookup resolves a base type name from source, e.g. "i32" or "bool".
func Lookup(name string) (Type, bool) {
	k, ok := byName[name]
	if !ok {
		return Type{}, false
	}
	return Type{Kind: k}, true
}

func (t Type) String() string {
	if t.Kind == Func {
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		ret := "void"
		if t.Return != nil {
			ret = t.Return.String()
		}
		return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), ret)
	}
	if name, ok := baseNames[t.Kind]; ok {
		return name
	}
	return "?"
}

// Equal reports structural equality.
func Equal(a, b Type) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind != Func {
		return true
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !Equal(a.Params[i], b.Params[i]) {
			return false
		}
	}
	if (a.Return == nil) != (b.Return == nil) {
		return false
	}
	if a.Return != nil && !Equal(*a.Return, *b.Return) {
		return false
	}
	return true
}

// IsInteger reports whether k is one of the signed/unsigned integer kinds.
func IsInteger(k Kind) bool {
	switch k {
	case I8, I16, I32, I64, U8, U16, U32, U64:
		return true
	}
	return false
}

// IsSignedInteger reports whether k is one of the signed integer kinds.
func IsSignedInteger(k Kind) bool {
	switch k {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

// IsUnsignedInteger reports whether k is one of the unsigned integer kinds.
func IsUnsignedInteger(k Kind) bool {
	switch k {
	case U8, U16, U32, U64:
		return true
	}
	return false
}

// IsFloat reports whether k is f32 or f64.
func IsFloat(k Kind) bool {
	return k == F32 || k == F64
}

// IsNumeric reports whether k is an integer or float kind.
func IsNumeric(k Kind) bool {
	return IsInteger(k) || IsFloat(k)
}

// intRange returns [min, max] for an integer kind.
func intRange(k Kind) (min, max *big.Int) {
	bits := map[Kind]int{I8: 8, I16: 16, I32: 32, I64: 64, U8: 8, U16: 16, U32: 32, U64: 64}[k]
	one := big.NewInt(1)
	if IsSignedInteger(k) {
		max = new(big.Int).Lsh(one, uint(bits-1))
		max.Sub(max, one)
		min = new(big.Int).Neg(new(big.Int).Add(max, one))
		return min, max
	}
	max = new(big.Int).Lsh(one, uint(bits))
	max.Sub(max, one)
	return big.NewInt(0), max
}

// FitsInteger reports whether the arbitrary-precision value val fits within
// the min-max range of integer kind k.
func FitsInteger(val *big.Int, k Kind) bool {
	min, max := intRange(k)
	return val.Cmp(min) >= 0 && val.Cmp(max) <= 0
}

// IntMin and IntMax expose an integer kind's bounds for diagnostics.
func IntMin(k Kind) *big.Int { min, _ := intRange(k); return min }
func IntMax(k Kind) *big.Int { _, max := intRange(k); return max }
