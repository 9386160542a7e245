package backend

import (
	"fmt"

	"github.com/neuro-lang/neuroc/types"
)

// Value is a runtime value the tree-walking interpreter produces. Integer
// kinds store their two's-complement bit pattern in Bits, masked to their
// declared width, exactly as irgen's same-width-regardless-of-sign IR
// lowering does; signedness only resurfaces at comparison/div/rem.
type Value struct {
	Kind types.Kind
	Bits uint64
	F    float64
	S    string
}

func intBool(b bool) Value {
	if b {
		return Value{Kind: types.Bool, Bits: 1}
	}
	return Value{Kind: types.Bool, Bits: 0}
}

func bitWidth(k types.Kind) uint {
	switch k {
	case types.I8, types.U8:
		return 8
	case types.I16, types.U16:
		return 16
	case types.I32, types.U32:
		return 32
	case types.I64, types.U64:
		return 64
	default:
		return 64
	}
}

func maskTo(bits uint64, width uint) uint64 {
	if width >= 64 {
		return bits
	}
	return bits & ((uint64(1) << width) - 1)
}

// intValue builds an integer Value of kind k from a raw signed magnitude,
// masking and sign-wrapping to the kind's declared width.
func intValue(k types.Kind, v int64) Value {
	return Value{Kind: k, Bits: maskTo(uint64(v), bitWidth(k))}
}

// asSigned sign-extends v's bit pattern per its declared width — the view
// arithmetic and comparisons use for a signed integer kind.
func (v Value) asSigned() int64 {
	width := bitWidth(v.Kind)
	bits := v.Bits
	if width < 64 && bits&(uint64(1)<<(width-1)) != 0 {
		bits |= ^uint64(0) << width
	}
	return int64(bits)
}

// asUnsigned is the unsigned view of v's bit pattern.
func (v Value) asUnsigned() uint64 {
	return v.Bits
}

func (v Value) String() string {
	switch {
	case types.IsFloat(v.Kind):
		return fmt.Sprintf("%g", v.F)
	case v.Kind == types.Bool:
		return fmt.Sprintf("%t", v.Bits != 0)
	case v.Kind == types.String:
		return v.S
	case types.IsSignedInteger(v.Kind):
		return fmt.Sprintf("%d", v.asSigned())
	case types.IsUnsignedInteger(v.Kind):
		return fmt.Sprintf("%d", v.asUnsigned())
	default:
		return "<void>"
	}
}
