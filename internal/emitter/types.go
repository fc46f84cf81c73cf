package emitter

import (
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/config"
)

// cType maps an Sn Type to the C type emitted code declares locals and
// parameters as. Value types map to their natural C equivalent; heap types
// (spec GLOSSARY "Heap-typed value") map to opaque runtime pointer types,
// which doubles as the "heap types pass by reference" default parameter
// rule (spec §4.3): passing the pointer by value already models reference
// passing, with no extra indirection needed in the emitted signature.
func cType(t ast.Type) string {
	switch t.(type) {
	case *ast.IntType:
		return "long"
	case *ast.DoubleType:
		return "double"
	case *ast.CharType:
		return "char"
	case *ast.BoolType:
		return "bool"
	case *ast.StringType:
		return "RtString *"
	case *ast.ArrayType:
		return "RtArray *"
	case *ast.FunctionType:
		return "RtClosure *"
	case *ast.VoidType:
		return "void"
	default:
		return "void"
	}
}

// rtSuffix returns the rt_*_<suffix> element-type suffix (spec §6.2: "for
// each element type T ∈ {long, double, char, bool, string}") for t. Used
// both for array element types and for the type of a value being converted/
// compared/arithmetic'd directly.
func rtSuffix(t ast.Type) string {
	if arr, ok := t.(*ast.ArrayType); ok {
		t = arr.Element
	}
	if s, ok := config.ElementTypeSuffixes[t.String()]; ok {
		return s
	}
	return "long"
}
