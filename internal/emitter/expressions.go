package emitter

import (
	"fmt"
	"strings"

	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/config"
	"github.com/RealOrko/sindarin-sub010/internal/diagnostics"
)

// emitExpr dispatches e through Accept, mirroring checker.checkExpr, and
// returns the C expression text it produced. Sub-lowerings that need extra
// statements (a temp array, a hoisted closure cast) write them via e.write
// before returning their result as a plain expression reference.
func (e *Emitter) emitExpr(x ast.Expr) string {
	if ast.IsNil(x) {
		return "0"
	}
	x.Accept(e)
	return e.exprOut
}

func (e *Emitter) VisitLiteral(x *ast.LiteralExpr) {
	switch x.LitType.(type) {
	case *ast.IntType:
		e.exprOut = fmt.Sprintf("%vL", x.Value)
	case *ast.DoubleType:
		e.exprOut = fmt.Sprintf("%v", x.Value)
	case *ast.CharType:
		e.exprOut = fmt.Sprintf("'%c'", x.Value)
	case *ast.BoolType:
		if b, _ := x.Value.(bool); b {
			e.exprOut = "true"
		} else {
			e.exprOut = "false"
		}
	case *ast.StringType:
		s, _ := x.Value.(string)
		e.exprOut = fmt.Sprintf("rt_string_literal(%s, %q)", e.allocArena, s)
	default:
		e.exprOut = "0"
	}
}

func (e *Emitter) VisitVariable(x *ast.VariableExpr) {
	if e.declaredFunctions[x.Name] {
		e.exprOut = cFuncName(x.Name)
		return
	}
	if e.refVars[x.Name] {
		e.exprOut = fmt.Sprintf("(*%s)", x.Name)
		return
	}
	e.exprOut = x.Name
}

// VisitAssign hoists the assignment out as its own C statement (applying
// the same `as val` clone-on-write rule as VisitVarDecl/emitValCopyParam)
// and yields the assigned variable as the expression's value, since Sn
// permits assignment to appear as a sub-expression.
func (e *Emitter) VisitAssign(x *ast.AssignExpr) {
	v := e.emitExpr(x.Value)
	if vt, isVal := e.valVars[x.Name]; isVal {
		switch vt.(type) {
		case *ast.ArrayType:
			v = fmt.Sprintf("rt_array_clone_%s(%s, %s)", rtSuffix(vt), e.allocArena, v)
		case *ast.StringType:
			v = fmt.Sprintf("rt_str_clone(%s, %s)", e.allocArena, v)
		}
	}
	target := x.Name
	if e.refVars[x.Name] {
		target = fmt.Sprintf("(*%s)", x.Name)
	}
	e.write("%s = %s;", target, v)
	e.exprOut = target
}

func commonNumericSuffix(a, b ast.Type) string {
	_, aDouble := a.(*ast.DoubleType)
	_, bDouble := b.(*ast.DoubleType)
	if aDouble || bDouble {
		return "double"
	}
	return "long"
}

// castTo wraps expr in a C cast to suf's C type if from doesn't already
// match it, used to bridge an int operand into a double-typed comparison
// or arithmetic result.
func castTo(expr string, from ast.Type, suf string) string {
	target := suf2c(suf)
	if cType(from) == target {
		return expr
	}
	return fmt.Sprintf("((%s)%s)", target, expr)
}

func (e *Emitter) VisitBinary(x *ast.BinaryExpr) {
	l := e.emitExpr(x.Left)
	r := e.emitExpr(x.Right)
	lt, rt := x.Left.Type(), x.Right.Type()

	switch x.Op {
	case "+", "-", "*", "/":
		if _, ok := lt.(*ast.StringType); ok {
			e.exprOut = fmt.Sprintf("rt_str_concat(%s, %s, %s)", e.allocArena, l, r)
			return
		}
		suf := commonNumericSuffix(lt, rt)
		l, r = castTo(l, lt, suf), castTo(r, rt, suf)
		fn := map[string]string{"+": "add", "-": "sub", "*": "mul", "/": "div"}[x.Op]
		e.exprOut = fmt.Sprintf("rt_%s_%s(%s, %s)", fn, suf, l, r)
	case "%":
		e.exprOut = fmt.Sprintf("rt_mod_long(%s, %s)", l, r)
	case "==", "!=":
		suf := rtSuffix(lt)
		if ast.IsNumeric(lt) {
			suf = commonNumericSuffix(lt, rt)
			l, r = castTo(l, lt, suf), castTo(r, rt, suf)
		}
		call := fmt.Sprintf("rt_eq_%s(%s, %s)", suf, l, r)
		if x.Op == "!=" {
			call = "(!" + call + ")"
		}
		e.exprOut = call
	case "<", "<=", ">", ">=":
		suf := rtSuffix(lt)
		if ast.IsNumeric(lt) {
			suf = commonNumericSuffix(lt, rt)
			l, r = castTo(l, lt, suf), castTo(r, rt, suf)
		}
		switch x.Op {
		case "<":
			e.exprOut = fmt.Sprintf("rt_lt_%s(%s, %s)", suf, l, r)
		case ">":
			e.exprOut = fmt.Sprintf("rt_lt_%s(%s, %s)", suf, r, l)
		case "<=":
			e.exprOut = fmt.Sprintf("(!rt_lt_%s(%s, %s))", suf, r, l)
		case ">=":
			e.exprOut = fmt.Sprintf("(!rt_lt_%s(%s, %s))", suf, l, r)
		}
	case "&&":
		e.exprOut = fmt.Sprintf("(%s && %s)", l, r)
	case "||":
		e.exprOut = fmt.Sprintf("(%s || %s)", l, r)
	default:
		e.sink.Add(diagnostics.New(diagnostics.CodeInternalConsistency, x.GetToken(), "unknown binary operator %q", x.Op))
		e.exprOut = "0"
	}
}

func (e *Emitter) VisitUnary(x *ast.UnaryExpr) {
	v := e.emitExpr(x.Operand)
	switch x.Op {
	case "-":
		e.exprOut = fmt.Sprintf("(-%s)", v)
	case "!":
		e.exprOut = fmt.Sprintf("(!%s)", v)
	default:
		e.sink.Add(diagnostics.New(diagnostics.CodeInternalConsistency, x.GetToken(), "unknown unary operator %q", x.Op))
		e.exprOut = v
	}
}

// incDecAddr returns the C lvalue address expression for a ++/-- operand,
// which the checker guarantees is a plain *ast.VariableExpr of int type.
func (e *Emitter) incDecAddr(operand ast.Expr) string {
	v, ok := operand.(*ast.VariableExpr)
	if !ok {
		return "0"
	}
	if e.refVars[v.Name] {
		return v.Name
	}
	return "&" + v.Name
}

func (e *Emitter) VisitIncrement(x *ast.IncrementExpr) {
	e.exprOut = fmt.Sprintf("rt_post_inc_long(%s)", e.incDecAddr(x.Operand))
}

func (e *Emitter) VisitDecrement(x *ast.DecrementExpr) {
	e.exprOut = fmt.Sprintf("rt_post_dec_long(%s)", e.incDecAddr(x.Operand))
}

// VisitArray lowers an array literal. A spread-free literal takes the fast
// path: a static C initializer array handed to rt_array_create_<suffix> in
// one call. Any spread element forces the general push/concat-loop path,
// since C's fixed-size initializer syntax can't express "however many
// elements the spread source turns out to have" (spec §4.4 array lowering).
func (e *Emitter) VisitArray(x *ast.ArrayExpr) {
	elem := ast.Type(ast.TheIntType)
	if at, ok := x.Type().(*ast.ArrayType); ok {
		elem = at.Element
	}
	suf := rtSuffix(elem)
	tmp := e.freshTemp("arr")

	hasSpread := false
	for _, el := range x.Elements {
		if _, ok := el.(*ast.SpreadExpr); ok {
			hasSpread = true
			break
		}
	}

	if !hasSpread {
		if len(x.Elements) == 0 {
			e.write("RtArray *%s = rt_array_create_%s(%s, 0, NULL);", tmp, suf, e.allocArena)
		} else {
			vals := make([]string, len(x.Elements))
			for i, el := range x.Elements {
				vals[i] = e.emitExpr(el)
			}
			data := e.freshTemp("arrdata")
			e.write("%s %s[] = { %s };", suf2c(suf), data, strings.Join(vals, ", "))
			e.write("RtArray *%s = rt_array_create_%s(%s, %d, %s);", tmp, suf, e.allocArena, len(vals), data)
		}
		e.exprOut = tmp
		return
	}

	e.write("RtArray *%s = rt_array_create_%s(%s, 0, NULL);", tmp, suf, e.allocArena)
	for _, el := range x.Elements {
		if sp, ok := el.(*ast.SpreadExpr); ok {
			sv := e.emitExpr(sp.Array)
			e.write("%s = rt_array_concat_%s(%s, %s, %s);", tmp, suf, e.allocArena, tmp, sv)
			continue
		}
		v := e.emitExpr(el)
		e.write("rt_array_push_%s(%s, %s, %s);", suf, e.allocArena, tmp, v)
	}
	e.exprOut = tmp
}

func (e *Emitter) VisitArrayAccess(x *ast.ArrayAccessExpr) {
	suf := "long"
	if at, ok := x.Array.Type().(*ast.ArrayType); ok {
		suf = rtSuffix(at)
	}
	arr := e.emitExpr(x.Array)
	idx := e.emitExpr(x.Index)
	e.exprOut = fmt.Sprintf("rt_array_get_%s(%s, %s)", suf, arr, idx)
}

// VisitArraySlice lowers to rt_array_slice_<suffix>, passing the C LONG_MIN
// sentinel for any omitted bound (spec §4.4: "missing bounds lower to
// sentinel values interpreted by the runtime").
func (e *Emitter) VisitArraySlice(x *ast.ArraySliceExpr) {
	suf := "long"
	if at, ok := x.Array.Type().(*ast.ArrayType); ok {
		suf = rtSuffix(at)
	}
	arr := e.emitExpr(x.Array)
	bound := func(b ast.Expr) string {
		if ast.IsNil(b) {
			return "LONG_MIN"
		}
		return e.emitExpr(b)
	}
	start, end, step := bound(x.Start), bound(x.End), bound(x.Step)
	e.exprOut = fmt.Sprintf("rt_array_slice_%s(%s, %s, %s, %s, %s)", suf, e.allocArena, arr, start, end, step)
}

// VisitRange lowers to an eagerly-materialized array, inclusive of both
// endpoints (spec §8 scenario 6: "for x in 1..3" iterates three times,
// printing 1, 2, 3).
func (e *Emitter) VisitRange(x *ast.RangeExpr) {
	start := e.emitExpr(x.Start)
	end := e.emitExpr(x.End)
	e.exprOut = fmt.Sprintf("rt_array_range_long(%s, %s, %s)", e.allocArena, start, end)
}

// VisitSpread is only reached when a spread appears somewhere other than
// directly inside an array literal (handled specially by VisitArray) or a
// call argument list (rejected specially by VisitCall); fall back to the
// underlying array's own value.
func (e *Emitter) VisitSpread(x *ast.SpreadExpr) {
	e.exprOut = e.emitExpr(x.Array)
}

// VisitInterpolated implements the seed-then-fold lowering: start from the
// empty string, then fold in one rt_str_concat(rt_to_string_<suffix>(part))
// per part. For an N-part interpolation this emits exactly N concat calls
// and exactly one rt_to_string_<suffix> call per part (spec §8 scenario 5:
// a 2-part interpolation emits rt_to_string_string, rt_to_string_long, and
// rt_str_concat exactly twice).
func (e *Emitter) VisitInterpolated(x *ast.InterpolatedExpr) {
	tmp := e.freshTemp("interp")
	e.write("RtString *%s = rt_string_literal(%s, \"\");", tmp, e.allocArena)
	for _, part := range x.Parts {
		suf := rtSuffix(part.Type())
		pv := e.emitExpr(part)
		converted := fmt.Sprintf("rt_to_string_%s(%s, %s)", suf, e.allocArena, pv)
		e.write("%s = rt_str_concat(%s, %s, %s);", tmp, e.allocArena, tmp, converted)
	}
	e.exprOut = tmp
}

// VisitMember handles the one member access that is a value rather than a
// method: `.length`. Any other name denotes a built-in method and is
// resolved at its call site by VisitCall's MemberExpr special case; a
// standalone (uncalled) method reference has no first-class representation
// in the runtime ABI, since built-in methods aren't closures.
func (e *Emitter) VisitMember(x *ast.MemberExpr) {
	if x.Name != config.MethodLength {
		e.sink.Add(diagnostics.New(diagnostics.CodeInternalConsistency, x.GetToken(), "built-in method %q must be called directly, not used as a value", x.Name))
		e.exprOut = "0"
		return
	}
	obj := e.emitExpr(x.Object)
	switch t := x.Object.Type().(type) {
	case *ast.ArrayType:
		e.exprOut = fmt.Sprintf("rt_array_length_%s(%s)", rtSuffix(t), obj)
	case *ast.StringType:
		e.exprOut = fmt.Sprintf("rt_str_length(%s)", obj)
	default:
		e.exprOut = "0"
	}
}

// VisitLambda queues the lambda for top-level emission (its actual C
// function is written once, after every ordinary function, by emitModule's
// pendingLambdas drain) and produces the fat-pointer rt_closure_create call
// that captures the current values of its free variables (spec §4.3
// "Lambda"; §4.4 "Closures"). Value-typed captures are captured by address
// (so mutation inside the lambda is visible to the enclosing scope, and
// vice versa); heap-typed captures are captured by their existing pointer.
func (e *Emitter) VisitLambda(x *ast.LambdaExpr) {
	e.lambdaSeq++
	x.LambdaID = e.lambdaSeq
	cName := fmt.Sprintf("__lambda_%d__", x.LambdaID)

	if len(x.CapturedVars) == 0 {
		e.pendingLambdas = append(e.pendingLambdas, x)
		e.exprOut = fmt.Sprintf("rt_closure_create(%s, (void *)%s, NULL)", e.allocArena, cName)
		return
	}

	capType := cName + "_Capture"
	capVar := e.freshTemp("cap")
	e.write("%s *%s = (%s *)rt_arena_alloc(%s, sizeof(%s));", capType, capVar, capType, e.allocArena, capType)
	for i, name := range x.CapturedVars {
		t := x.CapturedTypes[i]
		if ast.IsHeapType(t) {
			e.write("%s->%s = %s;", capVar, name, name)
		} else if e.refVars[name] {
			e.write("%s->%s = %s;", capVar, name, name)
		} else {
			e.write("%s->%s = &%s;", capVar, name, name)
		}
	}
	e.pendingLambdas = append(e.pendingLambdas, x)
	e.exprOut = fmt.Sprintf("rt_closure_create(%s, (void *)%s, (void *)%s)", e.allocArena, cName, capVar)
}

// closureSignature renders the C function-pointer type a closure value of
// type ft is cast to before being invoked.
func closureSignature(ft *ast.FunctionType) (retC string, sig string) {
	retC = "void"
	if ft != nil {
		retC = cType(ft.Return)
	}
	var b strings.Builder
	b.WriteString("RtArena *, void *")
	if ft != nil {
		for _, p := range ft.Params {
			b.WriteString(", ")
			b.WriteString(cType(p))
		}
	}
	return retC, b.String()
}

// VisitCall distinguishes three callee shapes: a direct reference to a
// top-level function (lowers to a plain sn_<name> call, no closure
// indirection), a method member access (lowers to the matching rt_* builtin
// via emitMethodCall), and any other function-typed value (a closure call,
// cast through its statically-known signature before invoking). Spread
// arguments can't be lowered in call position: C calls are fixed-arity, so
// "however many elements the spread source has" can't be spliced into a
// call's argument list the way it can into an array literal's push loop.
func (e *Emitter) VisitCall(x *ast.CallExpr) {
	for _, a := range x.Arguments {
		if _, ok := a.(*ast.SpreadExpr); ok {
			e.sink.Add(diagnostics.New(diagnostics.CodeInternalConsistency, x.GetToken(), "spread arguments are not supported in call position; spread only inside array literals"))
			e.exprOut = "0"
			return
		}
	}

	if mem, ok := x.Callee.(*ast.MemberExpr); ok {
		obj := e.emitExpr(mem.Object)
		ot := mem.Object.Type()
		args := make([]string, len(x.Arguments))
		for i, a := range x.Arguments {
			args[i] = e.emitExpr(a)
		}
		e.exprOut = e.emitMethodCall(mem, obj, ot, args)
		return
	}

	args := make([]string, len(x.Arguments))
	for i, a := range x.Arguments {
		args[i] = e.emitExpr(a)
	}

	if v, ok := x.Callee.(*ast.VariableExpr); ok && e.declaredFunctions[v.Name] {
		allArgs := append([]string{e.allocArena}, args...)
		e.exprOut = fmt.Sprintf("%s(%s)", cFuncName(v.Name), strings.Join(allArgs, ", "))
		return
	}

	closureExpr := e.emitExpr(x.Callee)
	tmp := e.freshTemp("closure")
	e.write("RtClosure *%s = %s;", tmp, closureExpr)
	ft, _ := x.Callee.Type().(*ast.FunctionType)
	retC, sig := closureSignature(ft)
	allArgs := append([]string{e.allocArena, fmt.Sprintf("rt_closure_env(%s)", tmp)}, args...)
	e.exprOut = fmt.Sprintf("((%s (*)(%s))rt_closure_fn(%s))(%s)", retC, sig, tmp, strings.Join(allArgs, ", "))
}
