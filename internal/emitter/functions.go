package emitter

import (
	"fmt"
	"strings"

	"github.com/RealOrko/sindarin-sub010/internal/ast"
)

// paramSpec is an extra C parameter prepended before a function's Sn
// parameters (used for a lambda's capture-struct pointer).
type paramSpec struct {
	cType string
	name  string
}

// emitFunction lowers one Sn top-level function (spec §4.4 "forward
// declarations of all user functions" + "function bodies").
func (e *Emitter) emitFunction(fn *ast.FunctionStmt) {
	e.emitFunctionLike(cFuncName(fn.Name), fn.Params, fn.ReturnType, fn.Body, fn.Modifier, nil)
}

// emitLambda lowers a captured lambda expression to a top-level
// `__lambda_<id>__` C function (spec §4.4), generating its capture struct
// type alongside it. Value-typed captures are threaded in by pointer
// (spec §4.3: "Captures of mutable locals are by reference"); heap-typed
// captures are threaded in directly, since their C type is already a
// pointer into arena-owned storage.
func (e *Emitter) emitLambda(lam *ast.LambdaExpr) {
	cName := fmt.Sprintf("__lambda_%d__", lam.LambdaID)
	capType := cName + "_Capture"

	if len(lam.CapturedVars) > 0 {
		var cap strings.Builder
		fmt.Fprintf(&cap, "typedef struct {\n")
		for i, name := range lam.CapturedVars {
			t := lam.CapturedTypes[i]
			if ast.IsHeapType(t) {
				fmt.Fprintf(&cap, "    %s %s;\n", cType(t), name)
			} else {
				fmt.Fprintf(&cap, "    %s *%s;\n", cType(t), name)
			}
		}
		fmt.Fprintf(&cap, "} %s;\n\n", capType)
		e.forward.WriteString(cap.String())
	}

	var extra []paramSpec
	if len(lam.CapturedVars) > 0 {
		extra = []paramSpec{{cType: capType + " *", name: "__captures__"}}
	}

	e.emitFunctionLikeWithPrelude(cName, lam.Params, lam.ReturnType, lam.Body.Statements, lam.Modifier, extra, func() {
		for i, name := range lam.CapturedVars {
			t := lam.CapturedTypes[i]
			if ast.IsHeapType(t) {
				e.write("%s %s = __captures__->%s;", cType(t), name, name)
			} else {
				e.write("%s *%s = __captures__->%s;", cType(t), name, name)
				e.refVars[name] = true
			}
		}
	})
}

// emitFunctionLike lowers a function-shaped body (a real Sn function or the
// synthesized implicit main) with no extra prelude statements; lambdas go
// through emitFunctionLikeWithPrelude directly.
func (e *Emitter) emitFunctionLike(cName string, params []ast.Parameter, ret ast.Type, body []ast.Stmt, mod ast.FunctionModifier, extra []paramSpec) {
	e.emitFunctionLikeWithPrelude(cName, params, ret, body, mod, extra, nil)
}

// emitFunctionLikeWithPrelude implements spec §4.4's arena and return
// lowering: an implicit `__caller_arena__` parameter, a fresh
// `__arena_<n>__` created on entry and destroyed at a single labeled exit,
// and (for `as val` parameters) a deep copy performed before the body runs.
// prelude, when non-nil, emits additional statements (lambda capture
// unpacking) after the arena is created but before `as val` copies.
func (e *Emitter) emitFunctionLikeWithPrelude(cName string, params []ast.Parameter, ret ast.Type, body []ast.Stmt, mod ast.FunctionModifier, extra []paramSpec, prelude func()) {
	e.arenaSeq++
	arenaVar := fmt.Sprintf("__arena_%d__", e.arenaSeq)

	retC := cType(ret)
	var sig strings.Builder
	fmt.Fprintf(&sig, "%s %s(RtArena *__caller_arena__", retC, cName)
	for _, p := range extra {
		fmt.Fprintf(&sig, ", %s %s", p.cType, p.name)
	}
	for _, p := range params {
		fmt.Fprintf(&sig, ", %s %s", cType(p.Type), p.Name.Lexeme)
	}
	sig.WriteString(")")
	fmt.Fprintf(&e.forward, "%s;\n", sig.String())

	savedCur, savedIndent := e.cur, e.curIndent
	savedArenaVar, savedAllocArena := e.funcArenaVar, e.allocArena
	savedLabel, savedRet, savedMod, savedHasRet := e.returnLabel, e.returnType, e.funcModifier, e.hasReturnVal
	savedLoopStack := e.loopCtxStack
	savedRefVars, savedValVars := e.refVars, e.valVars

	var body_ strings.Builder
	e.cur = &body_
	e.curIndent = 1
	e.funcArenaVar = arenaVar
	e.allocArena = arenaVar
	e.returnLabel = cName + "_return"
	e.returnType = ret
	e.funcModifier = mod
	e.loopCtxStack = nil
	e.refVars = map[string]bool{}
	e.valVars = map[string]ast.Type{}
	hasRet := !ast.TypeEquals(ret, ast.TheVoidType)
	e.hasReturnVal = hasRet

	e.write("RtArena *%s = rt_arena_create(__caller_arena__);", arenaVar)
	if hasRet {
		e.write("%s _return_value = %s;", retC, zeroLiteral(retC))
	}

	if prelude != nil {
		prelude()
	}

	for _, p := range params {
		if p.MemQualifier == ast.MemAsVal {
			e.emitValCopyParam(p)
		}
	}

	for _, stmt := range body {
		e.emitStmt(stmt)
	}

	e.write("%s:", e.returnLabel)
	e.write("rt_arena_destroy(%s);", arenaVar)
	if hasRet {
		e.write("return _return_value;")
	} else {
		e.write("return;")
	}

	fmt.Fprintf(&e.bodies, "%s {\n%s}\n\n", sig.String(), body_.String())

	e.cur, e.curIndent = savedCur, savedIndent
	e.funcArenaVar, e.allocArena = savedArenaVar, savedAllocArena
	e.returnLabel, e.returnType, e.funcModifier, e.hasReturnVal = savedLabel, savedRet, savedMod, savedHasRet
	e.loopCtxStack = savedLoopStack
	e.refVars, e.valVars = savedRefVars, savedValVars
}

// emitValCopyParam implements the `as val` parameter rule (spec §4.3:
// "forces deep copy on entry"): the parameter is reassigned to a clone of
// itself allocated from the function's own arena, so subsequent mutation
// inside the body never touches the caller's storage.
func (e *Emitter) emitValCopyParam(p ast.Parameter) {
	name := p.Name.Lexeme
	switch t := p.Type.(type) {
	case *ast.ArrayType:
		e.write("%s = rt_array_clone_%s(%s, %s);", name, rtSuffix(t), e.funcArenaVar, name)
	case *ast.StringType:
		e.write("%s = rt_str_clone(%s, %s);", name, e.funcArenaVar, name)
	default:
		// Function-valued `as val` parameters have no clone operation
		// (closures are immutable once created); nothing to copy.
	}
}

// zeroLiteral is the C zero value for a _return_value local of type retC.
func zeroLiteral(retC string) string {
	switch retC {
	case "long":
		return "0"
	case "double":
		return "0.0"
	case "char":
		return "'\\0'"
	case "bool":
		return "false"
	default:
		return "NULL"
	}
}

// writeMain implements spec §4.4 "(d) a main body if a Sn main exists or
// an implicit one if top-level statements are present".
func (e *Emitter) writeMain(mainFn *ast.FunctionStmt, topLevel []ast.Stmt) {
	switch {
	case mainFn != nil:
		e.writeCMain(cFuncName("main"), mainFn.ReturnType)
	case len(topLevel) > 0:
		e.emitFunctionLike("sn_main", nil, ast.TheVoidType, topLevel, ast.ModDefault, nil)
		e.writeCMain("sn_main", ast.TheVoidType)
	default:
		e.bodies.WriteString("int main(void) {\n    return 0;\n}\n")
	}
}

// writeCMain emits the C entry point, which runs the whole program inside
// one root arena (spec §5: "the arena ... must be safely destroyed on both
// success and any error path"). A Sn `main` declared to return int becomes
// the process exit status (spec §8 scenario 1: "Emitted program exits with
// status 14").
func (e *Emitter) writeCMain(cName string, retType ast.Type) {
	b := &e.bodies
	b.WriteString("int main(void) {\n")
	b.WriteString("    RtArena *__root_arena__ = rt_arena_create(NULL);\n")
	if ast.TypeEquals(retType, ast.TheIntType) {
		fmt.Fprintf(b, "    long __result__ = %s(__root_arena__);\n", cName)
		b.WriteString("    rt_arena_destroy(__root_arena__);\n")
		b.WriteString("    return (int)__result__;\n")
	} else {
		fmt.Fprintf(b, "    %s(__root_arena__);\n", cName)
		b.WriteString("    rt_arena_destroy(__root_arena__);\n")
		b.WriteString("    return 0;\n")
	}
	b.WriteString("}\n")
}
