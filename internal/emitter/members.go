package emitter

import (
	"fmt"

	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/config"
	"github.com/RealOrko/sindarin-sub010/internal/diagnostics"
)

// emitMethodCall lowers a call through a MemberExpr callee (arr.push(x),
// str.trim(), ...) directly to its rt_* builtin, mirroring the fixed method
// tables internal/checker/members.go type-checks against.
func (e *Emitter) emitMethodCall(mem *ast.MemberExpr, obj string, ot ast.Type, args []string) string {
	switch t := ot.(type) {
	case *ast.ArrayType:
		return e.arrayMethodCall(t, mem.Name, obj, args)
	case *ast.StringType:
		return e.stringMethodCall(mem.Name, obj, args)
	default:
		e.sink.Add(diagnostics.New(diagnostics.CodeInternalConsistency, mem.GetToken(), "no built-in method %q on %s", mem.Name, ast.TypeToString(ot)))
		return "0"
	}
}

// arrayMethodCall lowers the fixed array method set (spec §6.2 "array
// ops"). push/insert/remove/reverse/clear mutate in place and have no
// useful value, so their call is hoisted as its own statement and the
// expression position yields a void-typed placeholder.
func (e *Emitter) arrayMethodCall(t *ast.ArrayType, name, obj string, args []string) string {
	suf := rtSuffix(t)
	switch name {
	case config.MethodPush:
		e.write("rt_array_push_%s(%s, %s, %s);", suf, e.allocArena, obj, args[0])
		return "((void)0)"
	case config.MethodPop:
		return fmt.Sprintf("rt_array_pop_%s(%s)", suf, obj)
	case config.MethodInsert:
		e.write("rt_array_insert_%s(%s, %s, %s, %s);", suf, e.allocArena, obj, args[0], args[1])
		return "((void)0)"
	case config.MethodRemove:
		e.write("rt_array_remove_%s(%s, %s);", suf, obj, args[0])
		return "((void)0)"
	case config.MethodReverse:
		e.write("rt_array_reverse_%s(%s);", suf, obj)
		return "((void)0)"
	case config.MethodClear:
		e.write("rt_array_clear_%s(%s);", suf, obj)
		return "((void)0)"
	case config.MethodClone:
		return fmt.Sprintf("rt_array_clone_%s(%s, %s)", suf, e.allocArena, obj)
	case config.MethodConcat:
		return fmt.Sprintf("rt_array_concat_%s(%s, %s, %s)", suf, e.allocArena, obj, args[0])
	case config.MethodIndexOf:
		return fmt.Sprintf("rt_array_indexOf_%s(%s, %s)", suf, obj, args[0])
	case config.MethodContains:
		return fmt.Sprintf("rt_array_contains_%s(%s, %s)", suf, obj, args[0])
	case config.MethodJoin:
		return fmt.Sprintf("rt_array_join_%s(%s, %s, %s)", suf, e.allocArena, obj, args[0])
	default:
		return "0"
	}
}

// stringMethodCall lowers the fixed string method set (spec §6.2 "string
// ops").
func (e *Emitter) stringMethodCall(name, obj string, args []string) string {
	switch name {
	case config.MethodToUpper:
		return fmt.Sprintf("rt_str_toUpper(%s, %s)", e.allocArena, obj)
	case config.MethodToLower:
		return fmt.Sprintf("rt_str_toLower(%s, %s)", e.allocArena, obj)
	case config.MethodTrim:
		return fmt.Sprintf("rt_str_trim(%s, %s)", e.allocArena, obj)
	case config.MethodSubstring:
		return fmt.Sprintf("rt_str_substring(%s, %s, %s, %s)", e.allocArena, obj, args[0], args[1])
	case config.MethodIndexOf:
		return fmt.Sprintf("rt_str_indexOf(%s, %s)", obj, args[0])
	case config.MethodStartsWith:
		return fmt.Sprintf("rt_str_startsWith(%s, %s)", obj, args[0])
	case config.MethodEndsWith:
		return fmt.Sprintf("rt_str_endsWith(%s, %s)", obj, args[0])
	case config.MethodContains:
		return fmt.Sprintf("rt_str_contains(%s, %s)", obj, args[0])
	case config.MethodReplace:
		return fmt.Sprintf("rt_str_replace(%s, %s, %s, %s)", e.allocArena, obj, args[0], args[1])
	case config.MethodSplit:
		return fmt.Sprintf("rt_str_split(%s, %s, %s)", e.allocArena, obj, args[0])
	default:
		return "0"
	}
}
