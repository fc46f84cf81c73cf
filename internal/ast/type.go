package ast

import (
	"strings"

	"github.com/RealOrko/sindarin-sub010/internal/arena"
)

// Type is Sn's shared value lattice (spec §3 "Type"). Unlike funxy's
// Hindley-Milner types (TVar/TApp/TCon with unification), Sn's type system
// is a closed, non-generic set of eight variants; "unifying" two Types
// degenerates to structural equality, so there is no substitution map and
// no type-variable machinery here at all.
//
// Types are arena-owned and immutable once created; the same *ArrayType or
// *FunctionType value may be (and typically is) referenced from many AST
// nodes.
type Type interface {
	isType()
	// String renders the canonical textual form (spec §4.1
	// "ast_type_to_string"), e.g. "int", "double[]", "fn(int,string): bool".
	String() string
}

type IntType struct{}
type DoubleType struct{}
type CharType struct{}
type StringType struct{}
type BoolType struct{}
type VoidType struct{}

func (*IntType) isType()    {}
func (*DoubleType) isType() {}
func (*CharType) isType()   {}
func (*StringType) isType() {}
func (*BoolType) isType()   {}
func (*VoidType) isType()   {}

func (*IntType) String() string    { return "int" }
func (*DoubleType) String() string { return "double" }
func (*CharType) String() string   { return "char" }
func (*StringType) String() string { return "string" }
func (*BoolType) String() string   { return "bool" }
func (*VoidType) String() string   { return "void" }

// ArrayType is Array(element) in spec §3.
type ArrayType struct {
	Element Type
}

func (*ArrayType) isType() {}
func (a *ArrayType) String() string {
	if a.Element == nil {
		return "<invalid>[]"
	}
	return a.Element.String() + "[]"
}

// FunctionType is Function(return, params) in spec §3.
type FunctionType struct {
	Return Type
	Params []Type
}

func (*FunctionType) isType() {}
func (f *FunctionType) String() string {
	var b strings.Builder
	b.WriteString("fn(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(",")
		}
		if p == nil {
			b.WriteString("<invalid>")
		} else {
			b.WriteString(p.String())
		}
	}
	b.WriteString("): ")
	if f.Return == nil {
		b.WriteString("<invalid>")
	} else {
		b.WriteString(f.Return.String())
	}
	return b.String()
}

// ErrorType is the sentinel the checker assigns to an expression whose
// inference failed (spec §7 "Recovery policy": "a sentinel 'error type'
// propagates without generating cascade diagnostics"). It is a Type so it
// can flow through SetType/Type() like any other inferred type, but
// TypeEquals never considers it equal to anything (including another
// ErrorType), so a single bad sub-expression can't silently satisfy a
// type-equality check higher up the tree. The emitter never runs on a
// module that produced one, since the checker reports failure whenever any
// diagnostic was recorded.
type ErrorType struct{}

func (*ErrorType) isType()        {}
func (*ErrorType) String() string { return "<error>" }

// TheErrorType is the single shared ErrorType instance.
var TheErrorType Type = &ErrorType{}

// IsErrorType reports whether t is the error-type sentinel.
func IsErrorType(t Type) bool {
	_, ok := t.(*ErrorType)
	return ok
}

// Singleton instances for the argument-free primitive types. Since Type
// values are immutable and structurally compared, every caller can safely
// share these rather than allocating a fresh one from the arena per use;
// array/function types, which carry data, are always allocated per spec
// §3 ("Types are arena-owned").
var (
	TheIntType    = &IntType{}
	TheDoubleType = &DoubleType{}
	TheCharType   = &CharType{}
	TheStringType = &StringType{}
	TheBoolType   = &BoolType{}
	TheVoidType   = &VoidType{}
)

// NewArrayType allocates an Array(element) type from the arena.
func NewArrayType(a *arena.Arena, element Type) Type {
	t := arena.Alloc[ArrayType](a)
	t.Element = element
	return t
}

// NewFunctionType allocates a Function(return, params) type from the arena.
// params is copied into an arena-owned slice so later mutation of the
// caller's slice cannot retroactively change the type.
func NewFunctionType(a *arena.Arena, ret Type, params []Type) Type {
	t := arena.Alloc[FunctionType](a)
	t.Return = ret
	cp := arena.AllocSlice[Type](a, len(params))
	copy(cp, params)
	t.Params = cp
	return t
}

// IsHeapType reports whether a value of type t requires out-of-band storage
// (spec GLOSSARY "Heap-typed value"): arrays, strings, and function values.
// Int/Double/Char/Bool are value types.
func IsHeapType(t Type) bool {
	switch t.(type) {
	case *ArrayType, *StringType, *FunctionType:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether t is int or double.
func IsNumeric(t Type) bool {
	switch t.(type) {
	case *IntType, *DoubleType:
		return true
	default:
		return false
	}
}

// TypeEquals is ast_type_equals (spec §4.1): compares discriminants, then
// recursively the element type (arrays) or the return type and parameter
// tuple (functions).
func TypeEquals(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch at := a.(type) {
	case *IntType:
		_, ok := b.(*IntType)
		return ok
	case *DoubleType:
		_, ok := b.(*DoubleType)
		return ok
	case *CharType:
		_, ok := b.(*CharType)
		return ok
	case *StringType:
		_, ok := b.(*StringType)
		return ok
	case *BoolType:
		_, ok := b.(*BoolType)
		return ok
	case *VoidType:
		_, ok := b.(*VoidType)
		return ok
	case *ArrayType:
		bt, ok := b.(*ArrayType)
		if !ok {
			return false
		}
		return TypeEquals(at.Element, bt.Element)
	case *FunctionType:
		bt, ok := b.(*FunctionType)
		if !ok {
			return false
		}
		if len(at.Params) != len(bt.Params) {
			return false
		}
		for i := range at.Params {
			if !TypeEquals(at.Params[i], bt.Params[i]) {
				return false
			}
		}
		return TypeEquals(at.Return, bt.Return)
	default:
		return false
	}
}

// CloneType deep-copies t into arena a (spec §8: "ast_type_equals(
// ast_clone_type(t), t) holds for all t").
func CloneType(a *arena.Arena, t Type) Type {
	switch tt := t.(type) {
	case nil:
		return nil
	case *ErrorType:
		return TheErrorType
	case *IntType:
		return TheIntType
	case *DoubleType:
		return TheDoubleType
	case *CharType:
		return TheCharType
	case *StringType:
		return TheStringType
	case *BoolType:
		return TheBoolType
	case *VoidType:
		return TheVoidType
	case *ArrayType:
		return NewArrayType(a, CloneType(a, tt.Element))
	case *FunctionType:
		params := make([]Type, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = CloneType(a, p)
		}
		return NewFunctionType(a, CloneType(a, tt.Return), params)
	default:
		return nil
	}
}

// TypeToString is ast_type_to_string (spec §4.1).
func TypeToString(t Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}
