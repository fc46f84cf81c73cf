package emitter

import (
	"fmt"

	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/diagnostics"
)

// loopCtx tracks one active loop's arena variable and the labels break/
// continue lower to, so a nested break/continue can clean up exactly its
// own loop's arena and no other (spec §4.4 loop-arena lowering).
type loopCtx struct {
	arenaVar      string
	continueLabel string
	breakLabel    string
}

func (e *Emitter) pushLoop() loopCtx {
	e.loopArenaSeq++
	lc := loopCtx{
		arenaVar:      fmt.Sprintf("__loop_arena_%d__", e.loopArenaSeq),
		continueLabel: fmt.Sprintf("__loop_continue_%d__", e.loopArenaSeq),
		breakLabel:    fmt.Sprintf("__loop_break_%d__", e.loopArenaSeq),
	}
	e.loopCtxStack = append(e.loopCtxStack, lc)
	return lc
}

func (e *Emitter) popLoop() {
	e.loopCtxStack = e.loopCtxStack[:len(e.loopCtxStack)-1]
}

func (e *Emitter) currentLoop() (loopCtx, bool) {
	if len(e.loopCtxStack) == 0 {
		return loopCtx{}, false
	}
	return e.loopCtxStack[len(e.loopCtxStack)-1], true
}

// VisitModule is required to satisfy ast.Visitor; emitModule is invoked
// directly by Emit, so this is only reached if something Accepts a Module
// through the generic Visitor interface.
func (e *Emitter) VisitModule(m *ast.Module) {
	e.emitModule(m)
}

// emitStmt dispatches s through Accept, mirroring checker.checkStmt.
func (e *Emitter) emitStmt(s ast.Stmt) {
	if ast.IsNil(s) {
		return
	}
	s.Accept(e)
}

func (e *Emitter) VisitExpressionStmt(s *ast.ExpressionStmt) {
	v := e.emitExpr(s.Expr)
	if v == "" {
		return
	}
	e.write("%s;", v)
}

// isLvalue reports whether x lowers to a C expression that `&` can bind to
// directly: a plain variable reference (VisitVariable emits either the bare
// C name, or `(*name)` for an existing `as ref` local -- both addressable).
// Anything else (literals, calls, binary/unary expressions, member/array
// access, a nil/absent initializer, ...) lowers to a C rvalue and needs a
// backing temporary before its address can be taken.
func (e *Emitter) isLvalue(x ast.Expr) bool {
	v, ok := x.(*ast.VariableExpr)
	return ok && !e.declaredFunctions[v.Name]
}

// VisitVarDecl implements the local-declaration memory-qualifier lowering
// (spec §4.3/§4.4): `as val` locals are deep-copied from their initializer
// on declaration (mirroring emitValCopyParam's parameter rule); `as ref`
// locals become a C pointer aliasing their initializer's storage (via a
// backing temporary when that initializer is not itself a C lvalue), and
// every subsequent reference to the name is dereferenced (see refVars in
// VisitVariable/VisitAssign/VisitIncrement/VisitDecrement).
func (e *Emitter) VisitVarDecl(s *ast.VarDeclStmt) {
	ct := cType(s.Type)
	var init string
	if !ast.IsNil(s.Initializer) {
		init = e.emitExpr(s.Initializer)
	} else {
		init = zeroLiteral(ct)
	}

	switch s.MemQualifier {
	case ast.MemAsRef:
		e.refVars[s.Name] = true
		if e.isLvalue(s.Initializer) {
			e.write("%s *%s = &(%s);", ct, s.Name, init)
		} else {
			// init is not a C lvalue (a literal, call result, or other
			// rvalue) -- `&` would be invalid C applied to it directly, so
			// give it a backing local first and bind the pointer to that.
			backing := e.freshTemp("refinit")
			e.write("%s %s = %s;", ct, backing, init)
			e.write("%s *%s = &%s;", ct, s.Name, backing)
		}
	case ast.MemAsVal:
		e.valVars[s.Name] = s.Type
		switch s.Type.(type) {
		case *ast.ArrayType:
			e.write("%s %s = rt_array_clone_%s(%s, %s);", ct, s.Name, rtSuffix(s.Type), e.allocArena, init)
		case *ast.StringType:
			e.write("%s %s = rt_str_clone(%s, %s);", ct, s.Name, e.allocArena, init)
		default:
			e.write("%s %s = %s;", ct, s.Name, init)
		}
	default:
		e.write("%s %s = %s;", ct, s.Name, init)
	}
}

// VisitFunction is only reached for a FunctionStmt nested inside a body;
// top-level functions are lowered directly by emitModule/emitFunction.
// Sn's lambda expression already covers function-valued locals, so a
// nested Function statement has no lowering and is rejected here rather
// than silently dropped.
func (e *Emitter) VisitFunction(s *ast.FunctionStmt) {
	e.sink.Add(diagnostics.New(diagnostics.CodeInternalConsistency, s.GetToken(), "nested function declarations do not lower to C; only module-level functions and lambda expressions do"))
}

// VisitReturn implements spec §4.4's single-exit return lowering: evaluate
// the value (if any), stash it in `_return_value`, then `goto` the
// function's one labeled exit. A `shared` function returning any heap-typed
// value, and a `default` function returning a string (spec §4.3: "Default
// functions ... allow string returns copied to the caller" — only array
// returns are rejected for Default, validateReturnTypeForModifier), has any
// heap allocation performed by the returned expression charged to the
// caller's arena instead of the callee's own (about to be destroyed) one,
// so the value survives the callee's return instead of pointing into freed
// arena storage.
func (e *Emitter) VisitReturn(s *ast.ReturnStmt) {
	if ast.IsNil(s.Value) {
		e.write("goto %s;", e.returnLabel)
		return
	}
	_, isString := e.returnType.(*ast.StringType)
	escapesToCaller := (e.funcModifier == ast.ModShared && ast.IsHeapType(e.returnType)) ||
		(e.funcModifier == ast.ModDefault && isString)

	savedAlloc := e.allocArena
	if escapesToCaller {
		e.allocArena = "__caller_arena__"
	}
	v := e.emitExpr(s.Value)
	e.allocArena = savedAlloc
	e.write("_return_value = %s;", v)
	e.write("goto %s;", e.returnLabel)
}

func (e *Emitter) VisitBlock(s *ast.BlockStmt) {
	for _, stmt := range s.Statements {
		e.emitStmt(stmt)
	}
}

func (e *Emitter) VisitIf(s *ast.IfStmt) {
	cond := e.emitExpr(s.Condition)
	e.write("if (%s) {", cond)
	e.curIndent++
	e.emitStmt(s.Then)
	e.curIndent--
	e.write("}")
	if !ast.IsNil(s.Else) {
		e.write("else {")
		e.curIndent++
		e.emitStmt(s.Else)
		e.curIndent--
		e.write("}")
	}
}

// VisitWhile lowers to a C while whose body is wrapped in the standard
// per-iteration loop-arena prologue/epilogue (spec §4.4 "loop bodies
// additionally create/destroy a __loop_arena_<n>__ per iteration"). The
// condition expression is assumed to be free of side-effecting hoisted
// statements, since it is re-embedded verbatim into the C `while (...)`
// header and re-evaluated by C on every iteration.
func (e *Emitter) VisitWhile(s *ast.WhileStmt) {
	cond := e.emitExpr(s.Condition)
	e.write("while (%s) {", cond)
	e.curIndent++
	lc := e.emitLoopBody(s.Body, nil)
	e.curIndent--
	e.write("}")
	e.write("%s: ;", lc.breakLabel)
}

// VisitFor desugars the three-clause for into an initializer followed by an
// equivalent while, run inside its own C block so the initializer's
// declared name doesn't leak. continue still has to run the increment
// clause before re-checking the condition, so the continue label sits
// right before the increment rather than right before the arena destroy
// (see emitLoopBody's incFn parameter).
func (e *Emitter) VisitFor(s *ast.ForStmt) {
	e.write("{")
	e.curIndent++
	if !ast.IsNil(s.Initializer) {
		e.emitStmt(s.Initializer)
	}
	cond := "true"
	if !ast.IsNil(s.Condition) {
		cond = e.emitExpr(s.Condition)
	}
	e.write("while (%s) {", cond)
	e.curIndent++
	var incFn func()
	if !ast.IsNil(s.Increment) {
		incFn = func() {
			inc := e.emitExpr(s.Increment)
			e.write("%s;", inc)
		}
	}
	lc := e.emitLoopBody(s.Body, incFn)
	e.curIndent--
	e.write("}")
	e.write("%s: ;", lc.breakLabel)
	e.curIndent--
	e.write("}")
}

// VisitForEach materializes the iterable (an array, or a range already
// lowered to an array by VisitRange) once, then index-iterates it,
// fetching the per-iteration element inside the loop-arena-guarded body
// (spec §8 scenario 6: "for x in 1..3 { print(x) }" iterates three times).
func (e *Emitter) VisitForEach(s *ast.ForEachStmt) {
	elem := ast.Type(ast.TheIntType)
	if at, ok := s.Iterable.Type().(*ast.ArrayType); ok {
		elem = at.Element
	}
	suf := rtSuffix(elem)

	iterExpr := e.emitExpr(s.Iterable)
	arrTmp := e.freshTemp("iter")
	e.write("RtArray *%s = %s;", arrTmp, iterExpr)

	idxTmp := e.freshTemp("idx")
	e.write("long %s;", idxTmp)
	e.write("for (%s = 0; %s < rt_array_length_%s(%s); %s++) {", idxTmp, idxTmp, suf, arrTmp, idxTmp)
	e.curIndent++
	lc := e.emitLoopBody(s.Body, nil, func() {
		e.write("%s %s = rt_array_get_%s(%s, %s);", cType(elem), s.VarName, suf, arrTmp, idxTmp)
	})
	e.curIndent--
	e.write("}")
	e.write("%s: ;", lc.breakLabel)
}

// emitLoopBody writes the per-iteration prologue (loop arena create, any
// extra binder such as forEach's element fetch), the body, the continue
// label, an optional increment (for-loops only), and the arena destroy —
// in that order, so continue re-runs the increment before cleanup while
// break (emitted from VisitBreak) skips straight past all of it.
func (e *Emitter) emitLoopBody(body *ast.BlockStmt, incFn func(), binders ...func()) loopCtx {
	lc := e.pushLoop()
	e.write("RtArena *%s = rt_arena_create(%s);", lc.arenaVar, e.funcArenaVar)
	for _, b := range binders {
		b()
	}
	savedAlloc := e.allocArena
	e.allocArena = lc.arenaVar
	e.emitStmt(body)
	e.write("%s: ;", lc.continueLabel)
	if incFn != nil {
		incFn()
	}
	e.allocArena = savedAlloc
	e.write("rt_arena_destroy(%s);", lc.arenaVar)
	e.popLoop()
	return lc
}

func (e *Emitter) VisitImport(s *ast.ImportStmt) {
	// Module/import resolution beyond single-file compilation is a
	// non-goal; nothing to emit.
}

func (e *Emitter) VisitBreak(s *ast.BreakStmt) {
	lc, ok := e.currentLoop()
	if !ok {
		return
	}
	e.write("rt_arena_destroy(%s);", lc.arenaVar)
	e.write("goto %s;", lc.breakLabel)
}

func (e *Emitter) VisitContinue(s *ast.ContinueStmt) {
	lc, ok := e.currentLoop()
	if !ok {
		return
	}
	e.write("goto %s;", lc.continueLabel)
}

func (e *Emitter) VisitInvalidExpr(x *ast.InvalidExpr) {
	e.sink.Add(diagnostics.New(diagnostics.CodeInternalConsistency, x.GetToken(), "invalid expression node reached the emitter: %s", x.Reason))
	e.exprOut = "0"
}

func (e *Emitter) VisitInvalidStmt(s *ast.InvalidStmt) {
	e.sink.Add(diagnostics.New(diagnostics.CodeInternalConsistency, s.GetToken(), "invalid statement node reached the emitter: %s", s.Reason))
}
