package checker

import (
	"github.com/RealOrko/sindarin-sub010/internal/arena"
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/config"
)

// resolveMember implements spec §4.3 "Member": "dispatched on object type; a
// closed set of built-in methods/properties per type ... with fixed
// signatures." There is no user-defined method dispatch in Sn — every
// member name is looked up against one of the two fixed tables below.
//
// A property (".length") resolves directly to its value type; a method
// resolves to a *ast.FunctionType so a following Call node type-checks its
// argument list through the ordinary Call rules, without the checker
// needing a second, method-specific arity/type path.
func (c *Checker) resolveMember(objType ast.Type, name string) (ast.Type, bool) {
	switch t := objType.(type) {
	case *ast.ArrayType:
		return arrayMember(c.arena, t, name)
	case *ast.StringType:
		return stringMember(c.arena, name)
	default:
		return nil, false
	}
}

func fn(a *arena.Arena, ret ast.Type, params ...ast.Type) ast.Type {
	return ast.NewFunctionType(a, ret, params)
}

// arrayMember covers spec §4.3's array method list: ".length" plus
// "push/pop/insert/remove/reverse/clone/concat/indexOf/contains/join/clear".
func arrayMember(a *arena.Arena, t *ast.ArrayType, name string) (ast.Type, bool) {
	elem := t.Element
	switch name {
	case config.MethodLength:
		return ast.TheIntType, true
	case config.MethodPush:
		return fn(a, ast.TheVoidType, elem), true
	case config.MethodPop:
		return fn(a, elem), true
	case config.MethodInsert:
		return fn(a, ast.TheVoidType, ast.TheIntType, elem), true
	case config.MethodRemove:
		return fn(a, ast.TheVoidType, ast.TheIntType), true
	case config.MethodReverse:
		return fn(a, ast.TheVoidType), true
	case config.MethodClone:
		return fn(a, t), true
	case config.MethodConcat:
		return fn(a, t, t), true
	case config.MethodIndexOf:
		return fn(a, ast.TheIntType, elem), true
	case config.MethodContains:
		return fn(a, ast.TheBoolType, elem), true
	case config.MethodJoin:
		return fn(a, ast.TheStringType, ast.TheStringType), true
	case config.MethodClear:
		return fn(a, ast.TheVoidType), true
	default:
		return nil, false
	}
}

// stringMember covers spec §4.3's string method list:
// "toUpper/toLower/trim/substring/indexOf/startsWith/endsWith/contains/
// replace/split" plus ".length".
func stringMember(a *arena.Arena, name string) (ast.Type, bool) {
	switch name {
	case config.MethodLength:
		return ast.TheIntType, true
	case config.MethodToUpper:
		return fn(a, ast.TheStringType), true
	case config.MethodToLower:
		return fn(a, ast.TheStringType), true
	case config.MethodTrim:
		return fn(a, ast.TheStringType), true
	case config.MethodSubstring:
		return fn(a, ast.TheStringType, ast.TheIntType, ast.TheIntType), true
	case config.MethodIndexOf:
		return fn(a, ast.TheIntType, ast.TheStringType), true
	case config.MethodStartsWith:
		return fn(a, ast.TheBoolType, ast.TheStringType), true
	case config.MethodEndsWith:
		return fn(a, ast.TheBoolType, ast.TheStringType), true
	case config.MethodContains:
		return fn(a, ast.TheBoolType, ast.TheStringType), true
	case config.MethodReplace:
		return fn(a, ast.TheStringType, ast.TheStringType, ast.TheStringType), true
	case config.MethodSplit:
		return fn(a, ast.NewArrayType(a, ast.TheStringType), ast.TheStringType), true
	default:
		return nil, false
	}
}
