package irgen

import "github.com/neuro-lang/neuroc/types"

// llvmType lowers a NEURO base type to its LLVM IR spelling. Signed and
// unsigned integers of the same width share one IR type; signedness only
// resurfaces at instruction selection (icmp/div/rem/ext).
func llvmType(t types.Type) string {
	switch t.Kind {
	case types.I8, types.U8:
		return "i8"
	case types.I16, types.U16:
		return "i16"
	case types.I32, types.U32:
		return "i32"
	case types.I64, types.U64:
		return "i64"
	case types.F32:
		return "float"
	case types.F64:
		return "double"
	case types.Bool:
		return "i1"
	case types.String:
		return "i8*"
	case types.Void:
		return "void"
	default:
		return "i8"
	}
}

// storageType is the type a value of t occupies in memory (alloca/store/
// load). It matches llvmType for everything except bool: a bool lives as
// i1 in SSA registers but as i8 in memory, so loads/stores at a bool
// alloca go through a trunc/zext at the boundary.
func storageType(t types.Type) string {
	if t.Kind == types.Bool {
		return "i8"
	}
	return llvmType(t)
}

// zeroLiteral returns the LLVM literal for a type's zero value, used for
// `ret <zeroinitializer>`-equivalent returns in a non-void function: a bare
// `return`, or a body that falls off its end (void functions get `ret void`).
func zeroLiteral(t types.Type) string {
	switch {
	case types.IsFloat(t.Kind):
		return "0.0"
	case t.Kind == types.Bool:
		return "0"
	case t.Kind == types.String:
		return "null"
	default:
		return "0"
	}
}
