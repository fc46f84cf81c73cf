package checker

import (
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/diagnostics"
	"github.com/RealOrko/sindarin-sub010/internal/symbols"
)

// checkExprExpect is checkExpr with an expected type threaded in, used
// anywhere spec §4.3 lets an empty array literal "borrow the declared
// target type from surrounding context" (VarDecl initializers, call
// arguments, return values, assignments).
func (c *Checker) checkExprExpect(e ast.Expr, expected ast.Type) ast.Type {
	if arr, ok := e.(*ast.ArrayExpr); ok && len(arr.Elements) == 0 {
		if _, isArr := expected.(*ast.ArrayType); isArr {
			arr.SetType(expected)
			return expected
		}
		c.errAt(diagnostics.CodeTypeMismatch, arr.GetToken(), "cannot infer type of empty array literal without surrounding context")
		arr.SetType(ast.TheErrorType)
		return ast.TheErrorType
	}
	return c.checkExpr(e)
}

// --- Literal, Variable, Assign ---

func (c *Checker) VisitLiteral(e *ast.LiteralExpr) {
	e.SetType(e.LitType)
}

func (c *Checker) VisitVariable(e *ast.VariableExpr) {
	sym, found := c.lookupMaybeCapture(e.Name)
	if !found {
		c.errAt(diagnostics.CodeUndefinedName, e.GetToken(), "undefined name %q", e.Name)
		e.SetType(ast.TheErrorType)
		return
	}
	e.SetType(sym.Type)
}

func (c *Checker) VisitAssign(e *ast.AssignExpr) {
	sym, found := c.lookupMaybeCapture(e.Name)
	if !found {
		c.errAt(diagnostics.CodeUndefinedName, e.GetToken(), "undefined name %q", e.Name)
		c.checkExpr(e.Value)
		e.SetType(ast.TheErrorType)
		return
	}
	rhs := c.checkExprExpect(e.Value, sym.Type)
	if !ast.IsErrorType(rhs) && !ast.TypeEquals(rhs, sym.Type) {
		c.errAt(diagnostics.CodeTypeMismatch, e.GetToken(), "assignment to %q: %s", e.Name, typeMismatchMsg(sym.Type, rhs))
		e.SetType(ast.TheErrorType)
		return
	}
	e.SetType(sym.Type)
}

// --- Binary, Unary, Increment, Decrement ---

func (c *Checker) VisitBinary(e *ast.BinaryExpr) {
	lt := c.checkExpr(e.Left)
	rt := c.checkExpr(e.Right)
	if ast.IsErrorType(lt) || ast.IsErrorType(rt) {
		e.SetType(ast.TheErrorType)
		return
	}
	switch e.Op {
	case "+", "-", "*", "/":
		if e.Op == "+" && ast.TypeEquals(lt, ast.TheStringType) && ast.TypeEquals(rt, ast.TheStringType) {
			e.SetType(ast.TheStringType)
			return
		}
		if !ast.IsNumeric(lt) || !ast.IsNumeric(rt) {
			c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "operator %q requires numeric operands, got %s and %s", e.Op, ast.TypeToString(lt), ast.TypeToString(rt))
			e.SetType(ast.TheErrorType)
			return
		}
		e.SetType(arithmeticResult(lt, rt))
	case "%":
		if !ast.TypeEquals(lt, ast.TheIntType) || !ast.TypeEquals(rt, ast.TheIntType) {
			c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "operator %% requires int operands, got %s and %s", ast.TypeToString(lt), ast.TypeToString(rt))
			e.SetType(ast.TheErrorType)
			return
		}
		e.SetType(ast.TheIntType)
	case "==", "!=":
		if !ast.TypeEquals(lt, rt) {
			c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "operator %q requires equal-typed operands, got %s and %s", e.Op, ast.TypeToString(lt), ast.TypeToString(rt))
			e.SetType(ast.TheErrorType)
			return
		}
		e.SetType(ast.TheBoolType)
	case "<", "<=", ">", ">=":
		okNumeric := ast.IsNumeric(lt) && ast.IsNumeric(rt)
		okString := ast.TypeEquals(lt, ast.TheStringType) && ast.TypeEquals(rt, ast.TheStringType)
		if !okNumeric && !okString {
			c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "operator %q requires two numerics or two strings, got %s and %s", e.Op, ast.TypeToString(lt), ast.TypeToString(rt))
			e.SetType(ast.TheErrorType)
			return
		}
		e.SetType(ast.TheBoolType)
	case "&&", "||":
		if !ast.TypeEquals(lt, ast.TheBoolType) || !ast.TypeEquals(rt, ast.TheBoolType) {
			c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "operator %q requires bool operands, got %s and %s", e.Op, ast.TypeToString(lt), ast.TypeToString(rt))
			e.SetType(ast.TheErrorType)
			return
		}
		e.SetType(ast.TheBoolType)
	default:
		c.internalError(e.GetToken(), "unknown binary operator %q", e.Op)
		e.SetType(ast.TheErrorType)
	}
}

func arithmeticResult(a, b ast.Type) ast.Type {
	if ast.TypeEquals(a, ast.TheDoubleType) || ast.TypeEquals(b, ast.TheDoubleType) {
		return ast.TheDoubleType
	}
	return ast.TheIntType
}

func (c *Checker) VisitUnary(e *ast.UnaryExpr) {
	t := c.checkExpr(e.Operand)
	if ast.IsErrorType(t) {
		e.SetType(ast.TheErrorType)
		return
	}
	switch e.Op {
	case "!":
		if !ast.TypeEquals(t, ast.TheBoolType) {
			c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "operator ! requires bool operand, got %s", ast.TypeToString(t))
			e.SetType(ast.TheErrorType)
			return
		}
		e.SetType(ast.TheBoolType)
	case "-":
		if !ast.IsNumeric(t) {
			c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "unary - requires numeric operand, got %s", ast.TypeToString(t))
			e.SetType(ast.TheErrorType)
			return
		}
		e.SetType(t)
	default:
		c.internalError(e.GetToken(), "unknown unary operator %q", e.Op)
		e.SetType(ast.TheErrorType)
	}
}

func (c *Checker) checkIncDec(tok ast.Expr, operand ast.Expr, verb string) ast.Type {
	v, ok := operand.(*ast.VariableExpr)
	if !ok {
		c.errAt(diagnostics.CodeInvalidOperand, tok.GetToken(), "%s operand must be an assignable variable", verb)
		return ast.TheErrorType
	}
	t := c.checkExpr(operand)
	if ast.IsErrorType(t) {
		return ast.TheErrorType
	}
	if !ast.TypeEquals(t, ast.TheIntType) {
		c.errAt(diagnostics.CodeInvalidOperand, tok.GetToken(), "%s operand %q must be of integer type, got %s", verb, v.Name, ast.TypeToString(t))
		return ast.TheErrorType
	}
	return ast.TheIntType
}

func (c *Checker) VisitIncrement(e *ast.IncrementExpr) {
	e.SetType(c.checkIncDec(e, e.Operand, "increment"))
}

func (c *Checker) VisitDecrement(e *ast.DecrementExpr) {
	e.SetType(c.checkIncDec(e, e.Operand, "decrement"))
}

// --- Array, ArrayAccess, ArraySlice, Range, Spread ---

func (c *Checker) VisitArray(e *ast.ArrayExpr) {
	if len(e.Elements) == 0 {
		c.errAt(diagnostics.CodeTypeMismatch, e.GetToken(), "cannot infer type of empty array literal without surrounding context")
		e.SetType(ast.TheErrorType)
		return
	}
	var elemType ast.Type
	bad := false
	for _, el := range e.Elements {
		var t ast.Type
		if sp, ok := el.(*ast.SpreadExpr); ok {
			t = c.checkSpread(sp)
		} else {
			t = c.checkExpr(el)
		}
		if ast.IsErrorType(t) {
			bad = true
			continue
		}
		if elemType == nil {
			elemType = t
		} else if !ast.TypeEquals(elemType, t) {
			c.errAt(diagnostics.CodeTypeMismatch, el.GetToken(), "array literal element %s", typeMismatchMsg(elemType, t))
			bad = true
		}
	}
	if bad || elemType == nil {
		e.SetType(ast.TheErrorType)
		return
	}
	e.SetType(ast.NewArrayType(c.arena, elemType))
}

// checkSpread checks a Spread node used inside an array literal or call
// argument list and returns the *element* type it contributes (spec
// §4.3 "Spread": "operand must be array; only valid inside array literals
// and call argument lists").
func (c *Checker) checkSpread(e *ast.SpreadExpr) ast.Type {
	t := c.checkExpr(e.Array)
	if ast.IsErrorType(t) {
		e.SetType(ast.TheErrorType)
		return ast.TheErrorType
	}
	arr, ok := t.(*ast.ArrayType)
	if !ok {
		c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "spread operand must be an array, got %s", ast.TypeToString(t))
		e.SetType(ast.TheErrorType)
		return ast.TheErrorType
	}
	e.SetType(t)
	return arr.Element
}

func (c *Checker) VisitSpread(e *ast.SpreadExpr) {
	c.checkSpread(e)
}

func (c *Checker) VisitArrayAccess(e *ast.ArrayAccessExpr) {
	at := c.checkExpr(e.Array)
	it := c.checkExpr(e.Index)
	if ast.IsErrorType(at) || ast.IsErrorType(it) {
		e.SetType(ast.TheErrorType)
		return
	}
	arr, ok := at.(*ast.ArrayType)
	if !ok {
		c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "array access operand must be an array, got %s", ast.TypeToString(at))
		e.SetType(ast.TheErrorType)
		return
	}
	if !ast.TypeEquals(it, ast.TheIntType) {
		c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "array index must be int, got %s", ast.TypeToString(it))
		e.SetType(ast.TheErrorType)
		return
	}
	e.SetType(arr.Element)
}

func (c *Checker) VisitArraySlice(e *ast.ArraySliceExpr) {
	at := c.checkExpr(e.Array)
	if ast.IsErrorType(at) {
		e.SetType(ast.TheErrorType)
		return
	}
	if _, ok := at.(*ast.ArrayType); !ok {
		c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "slice operand must be an array, got %s", ast.TypeToString(at))
		e.SetType(ast.TheErrorType)
		return
	}
	bad := false
	for _, bound := range []ast.Expr{e.Start, e.End, e.Step} {
		if ast.IsNil(bound) {
			continue
		}
		bt := c.checkExpr(bound)
		if ast.IsErrorType(bt) {
			bad = true
			continue
		}
		if !ast.TypeEquals(bt, ast.TheIntType) {
			c.errAt(diagnostics.CodeInvalidOperand, bound.GetToken(), "slice bound must be int, got %s", ast.TypeToString(bt))
			bad = true
		}
	}
	if bad {
		e.SetType(ast.TheErrorType)
		return
	}
	e.SetType(at)
}

func (c *Checker) VisitRange(e *ast.RangeExpr) {
	st := c.checkExpr(e.Start)
	et := c.checkExpr(e.End)
	if ast.IsErrorType(st) || ast.IsErrorType(et) {
		e.SetType(ast.TheErrorType)
		return
	}
	if !ast.TypeEquals(st, ast.TheIntType) || !ast.TypeEquals(et, ast.TheIntType) {
		c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "range endpoints must be int, got %s and %s", ast.TypeToString(st), ast.TypeToString(et))
		e.SetType(ast.TheErrorType)
		return
	}
	e.SetType(ast.NewArrayType(c.arena, ast.TheIntType))
}

// --- Call ---

func (c *Checker) VisitCall(e *ast.CallExpr) {
	ct := c.checkExpr(e.Callee)
	if ast.IsErrorType(ct) {
		for _, arg := range e.Arguments {
			c.checkExpr(arg)
		}
		e.SetType(ast.TheErrorType)
		return
	}
	fn, ok := ct.(*ast.FunctionType)
	if !ok {
		c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "call target must be a function, got %s", ast.TypeToString(ct))
		for _, arg := range e.Arguments {
			c.checkExpr(arg)
		}
		e.SetType(ast.TheErrorType)
		return
	}

	// Spread arguments expand inline, so argument-count checking only
	// applies when there is no spread in the argument list. A spread
	// argument is only checked to be an array: neither its element type nor
	// the arity it expands to is compared against the parameter list.
	hasSpread := false
	for _, arg := range e.Arguments {
		if _, ok := arg.(*ast.SpreadExpr); ok {
			hasSpread = true
		}
	}
	if !hasSpread && len(e.Arguments) != len(fn.Params) {
		c.errAt(diagnostics.CodeArityMismatch, e.GetToken(), "call expects %d argument(s), got %d", len(fn.Params), len(e.Arguments))
	}
	bad := false
	for i, arg := range e.Arguments {
		if sp, ok := arg.(*ast.SpreadExpr); ok {
			c.checkSpread(sp)
			continue
		}
		var expected ast.Type
		if i < len(fn.Params) {
			expected = fn.Params[i]
		}
		at := c.checkExprExpect(arg, expected)
		if ast.IsErrorType(at) {
			bad = true
			continue
		}
		if expected != nil && !ast.TypeEquals(at, expected) {
			c.errAt(diagnostics.CodeTypeMismatch, arg.GetToken(), "argument %d: %s", i+1, typeMismatchMsg(expected, at))
			bad = true
		}
	}
	if bad {
		e.SetType(ast.TheErrorType)
		return
	}
	e.SetType(fn.Return)
}

// --- Interpolated ---

func (c *Checker) VisitInterpolated(e *ast.InterpolatedExpr) {
	bad := false
	for _, part := range e.Parts {
		t := c.checkExpr(part)
		if ast.IsErrorType(t) {
			bad = true
			continue
		}
		if !isStringConvertible(t) {
			c.errAt(diagnostics.CodeInvalidOperand, part.GetToken(), "interpolated part of type %s is not convertible to string", ast.TypeToString(t))
			bad = true
		}
	}
	if bad {
		e.SetType(ast.TheErrorType)
		return
	}
	e.SetType(ast.TheStringType)
}

func isStringConvertible(t ast.Type) bool {
	switch t.(type) {
	case *ast.IntType, *ast.DoubleType, *ast.CharType, *ast.StringType, *ast.BoolType:
		return true
	default:
		return false
	}
}

// --- Member ---

func (c *Checker) VisitMember(e *ast.MemberExpr) {
	ot := c.checkExpr(e.Object)
	if ast.IsErrorType(ot) {
		e.SetType(ast.TheErrorType)
		return
	}
	t, ok := c.resolveMember(ot, e.Name)
	if !ok {
		c.errAt(diagnostics.CodeInvalidOperand, e.GetToken(), "%s has no member %q", ast.TypeToString(ot), e.Name)
		e.SetType(ast.TheErrorType)
		return
	}
	e.SetType(t)
}

// --- Lambda ---

func (c *Checker) VisitLambda(e *ast.LambdaExpr) {
	boundary := c.scope
	c.openScope()
	for _, p := range e.Params {
		c.scope.Declare(p.Name.Lexeme, symbolFromParam(p))
	}

	savedMod, savedRet := c.currentFuncMod, c.currentReturnType
	c.currentFuncMod = e.Modifier
	c.currentReturnType = e.ReturnType

	c.lambdaBoundaries = append(c.lambdaBoundaries, boundary)
	c.lambdaCaptures = append(c.lambdaCaptures, e)

	for _, stmt := range e.Body.Statements {
		c.checkStmt(stmt)
	}

	c.lambdaBoundaries = c.lambdaBoundaries[:len(c.lambdaBoundaries)-1]
	c.lambdaCaptures = c.lambdaCaptures[:len(c.lambdaCaptures)-1]
	c.currentFuncMod, c.currentReturnType = savedMod, savedRet
	c.closeScope()

	paramTypes := make([]ast.Type, len(e.Params))
	for i, p := range e.Params {
		paramTypes[i] = p.Type
	}
	e.SetType(ast.NewFunctionType(c.arena, e.ReturnType, paramTypes))
}

func symbolFromParam(p ast.Parameter) symbols.Symbol {
	return symbols.Symbol{Type: p.Type, MemQualifier: p.MemQualifier, Kind: ast.KindParameter}
}
