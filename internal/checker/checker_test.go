package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RealOrko/sindarin-sub010/internal/arena"
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/checker"
	"github.com/RealOrko/sindarin-sub010/internal/config"
	"github.com/RealOrko/sindarin-sub010/internal/diagnostics"
	"github.com/RealOrko/sindarin-sub010/internal/token"
)

func tok(kind token.Kind, lexeme string, line int) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Filename: "fixture.sn"}
}

func intLit(a *arena.Arena, line int, v int64) ast.Expr {
	return ast.NewLiteral(a, tok(token.INT, "int-lit", line), v, ast.TheIntType, false)
}

func runCheck(t *testing.T, a *arena.Arena, stmts []ast.Stmt) ([]*diagnostics.Diagnostic, bool) {
	t.Helper()
	m := ast.NewModule(a, "fixture.sn")
	m.Statements = stmts
	return checker.Check(a, m, config.DefaultOptions())
}

func codes(diags []*diagnostics.Diagnostic) []diagnostics.Code {
	cs := make([]diagnostics.Code, len(diags))
	for i, d := range diags {
		cs[i] = d.Code
	}
	return cs
}

// --- Memory-qualifier rules (spec §8 scenario 2) ---

func TestVarDecl_AsRefOnValueType_Accepted(t *testing.T) {
	a := arena.New("t")
	decl := ast.NewVarDecl(a, tok(token.VAR, "x", 1), "x", ast.TheIntType, intLit(a, 1, 1), ast.MemAsRef)
	diags, ok := runCheck(t, a, []ast.Stmt{decl})
	assert.True(t, ok)
	assert.Empty(t, diags)
}

func TestVarDecl_AsRefOnHeapType_Rejected(t *testing.T) {
	a := arena.New("t")
	arrType := ast.NewArrayType(a, ast.TheIntType)
	init := ast.NewArray(a, tok(token.LBRACE, "{", 1), []ast.Expr{intLit(a, 1, 1)})
	decl := ast.NewVarDecl(a, tok(token.VAR, "x", 1), "x", arrType, init, ast.MemAsRef)
	diags, ok := runCheck(t, a, []ast.Stmt{decl})
	require.False(t, ok)
	assert.Contains(t, codes(diags), diagnostics.CodeInvalidMemoryQualifier)
}

func TestVarDecl_AsValOnValueType_Rejected(t *testing.T) {
	a := arena.New("t")
	decl := ast.NewVarDecl(a, tok(token.VAR, "x", 1), "x", ast.TheIntType, intLit(a, 1, 1), ast.MemAsVal)
	diags, ok := runCheck(t, a, []ast.Stmt{decl})
	require.False(t, ok)
	assert.Contains(t, codes(diags), diagnostics.CodeInvalidMemoryQualifier)
}

func TestVarDecl_AsValOnHeapType_Accepted(t *testing.T) {
	a := arena.New("t")
	arrType := ast.NewArrayType(a, ast.TheIntType)
	init := ast.NewArray(a, tok(token.LBRACE, "{", 1), []ast.Expr{intLit(a, 1, 1)})
	decl := ast.NewVarDecl(a, tok(token.VAR, "x", 1), "x", arrType, init, ast.MemAsVal)
	diags, ok := runCheck(t, a, []ast.Stmt{decl})
	assert.True(t, ok)
	assert.Empty(t, diags)
}

// --- Function-modifier rules (spec §8 scenario 3) ---

func arrayReturningFunc(a *arena.Arena, mod ast.FunctionModifier) ast.Stmt {
	arrType := ast.NewArrayType(a, ast.TheIntType)
	body := []ast.Stmt{
		ast.NewReturn(a, tok(token.RETURN, "return", 1),
			ast.NewArray(a, tok(token.LBRACE, "{", 1), []ast.Expr{intLit(a, 1, 1)})),
	}
	return ast.NewFunction(a, tok(token.FN, "f", 1), "f", nil, arrType, body, mod)
}

func TestFunction_PrivateArrayReturn_Rejected(t *testing.T) {
	a := arena.New("t")
	diags, ok := runCheck(t, a, []ast.Stmt{arrayReturningFunc(a, ast.ModPrivate)})
	require.False(t, ok)
	assert.Contains(t, codes(diags), diagnostics.CodeInvalidReturnType)
}

func TestFunction_SharedArrayReturn_Accepted(t *testing.T) {
	a := arena.New("t")
	diags, ok := runCheck(t, a, []ast.Stmt{arrayReturningFunc(a, ast.ModShared)})
	assert.True(t, ok)
	assert.Empty(t, diags)
}

func TestFunction_DefaultArrayReturn_Rejected(t *testing.T) {
	a := arena.New("t")
	diags, ok := runCheck(t, a, []ast.Stmt{arrayReturningFunc(a, ast.ModDefault)})
	require.False(t, ok)
	assert.Contains(t, codes(diags), diagnostics.CodeInvalidReturnType)
}

// --- Binary arithmetic (spec §4.3 "Binary") ---

func TestBinary_IntPlusInt_IsInt(t *testing.T) {
	a := arena.New("t")
	bin := ast.NewBinary(a, tok(token.PLUS, "+", 1), intLit(a, 1, 2), "+", intLit(a, 1, 3))
	stmt := ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 1), bin)
	diags, ok := runCheck(t, a, []ast.Stmt{stmt})
	require.True(t, ok)
	assert.Empty(t, diags)
	assert.True(t, ast.TypeEquals(bin.Type(), ast.TheIntType))
}

func TestBinary_IntPlusDouble_IsDouble(t *testing.T) {
	a := arena.New("t")
	dbl := ast.NewLiteral(a, tok(token.DOUBLE, "1.5", 1), 1.5, ast.TheDoubleType, false)
	bin := ast.NewBinary(a, tok(token.PLUS, "+", 1), intLit(a, 1, 2), "+", dbl)
	stmt := ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 1), bin)
	_, ok := runCheck(t, a, []ast.Stmt{stmt})
	require.True(t, ok)
	assert.True(t, ast.TypeEquals(bin.Type(), ast.TheDoubleType))
}

func TestBinary_BoolPlusInt_Rejected(t *testing.T) {
	a := arena.New("t")
	boolLit := ast.NewLiteral(a, tok(token.TRUE, "true", 1), true, ast.TheBoolType, false)
	bin := ast.NewBinary(a, tok(token.PLUS, "+", 1), boolLit, "+", intLit(a, 1, 1))
	stmt := ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 1), bin)
	diags, ok := runCheck(t, a, []ast.Stmt{stmt})
	require.False(t, ok)
	assert.Contains(t, codes(diags), diagnostics.CodeInvalidOperand)
}

// --- Break/Continue outside loop (spec §4.3 "Break/Continue") ---

func TestBreak_OutsideLoop_Rejected(t *testing.T) {
	a := arena.New("t")
	diags, ok := runCheck(t, a, []ast.Stmt{ast.NewBreak(a, tok(token.BREAK, "break", 1))})
	require.False(t, ok)
	assert.Contains(t, codes(diags), diagnostics.CodeBreakOutsideLoop)
}

func TestBreak_InsideWhile_Accepted(t *testing.T) {
	a := arena.New("t")
	cond := ast.NewLiteral(a, tok(token.TRUE, "true", 1), true, ast.TheBoolType, false)
	body := ast.NewBlock(a, tok(token.LBRACE, "{", 1), []ast.Stmt{ast.NewBreak(a, tok(token.BREAK, "break", 1))})
	loop := ast.NewWhile(a, tok(token.WHILE, "while", 1), cond, body)
	diags, ok := runCheck(t, a, []ast.Stmt{loop})
	assert.True(t, ok)
	assert.Empty(t, diags)
}

// --- ForEach over range (spec §8 scenario 6, type-level) ---

func TestForEach_OverRange_BindsIntElement(t *testing.T) {
	a := arena.New("t")
	start := intLit(a, 1, 1)
	end := intLit(a, 1, 3)
	rng := ast.NewRange(a, tok(token.DOT_DOT, "..", 1), start, end)
	varRef := ast.NewVariable(a, tok(token.IDENT, "x", 1), "x")
	body := ast.NewBlock(a, tok(token.LBRACE, "{", 1), []ast.Stmt{
		ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 1), varRef),
	})
	loop := ast.NewForEach(a, tok(token.FOR, "for", 1), "x", rng, body)
	diags, ok := runCheck(t, a, []ast.Stmt{loop})
	require.True(t, ok)
	assert.Empty(t, diags)
	assert.True(t, ast.TypeEquals(varRef.Type(), ast.TheIntType))
}

// --- Undefined name ---

func TestVariable_Undefined_Rejected(t *testing.T) {
	a := arena.New("t")
	ref := ast.NewVariable(a, tok(token.IDENT, "nope", 1), "nope")
	stmt := ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 1), ref)
	diags, ok := runCheck(t, a, []ast.Stmt{stmt})
	require.False(t, ok)
	assert.Contains(t, codes(diags), diagnostics.CodeUndefinedName)
}

// --- Forward reference / mutual recursion (spec §4.2) ---

func TestFunction_ForwardReferenceAndMutualRecursion_Accepted(t *testing.T) {
	a := arena.New("t")
	// fn isEven(n: int): bool => { return isOdd(n) }
	callIsOdd := ast.NewCall(a, tok(token.IDENT, "isOdd", 1),
		ast.NewVariable(a, tok(token.IDENT, "isOdd", 1), "isOdd"),
		[]ast.Expr{ast.NewVariable(a, tok(token.IDENT, "n", 1), "n")})
	isEven := ast.NewFunction(a, tok(token.FN, "isEven", 1), "isEven",
		[]ast.Parameter{{Name: tok(token.IDENT, "n", 1), Type: ast.TheIntType}},
		ast.TheBoolType,
		[]ast.Stmt{ast.NewReturn(a, tok(token.RETURN, "return", 1), callIsOdd)},
		ast.ModDefault)

	callIsEven := ast.NewCall(a, tok(token.IDENT, "isEven", 2),
		ast.NewVariable(a, tok(token.IDENT, "isEven", 2), "isEven"),
		[]ast.Expr{ast.NewVariable(a, tok(token.IDENT, "n", 2), "n")})
	isOdd := ast.NewFunction(a, tok(token.FN, "isOdd", 2), "isOdd",
		[]ast.Parameter{{Name: tok(token.IDENT, "n", 2), Type: ast.TheIntType}},
		ast.TheBoolType,
		[]ast.Stmt{ast.NewReturn(a, tok(token.RETURN, "return", 2), callIsEven)},
		ast.ModDefault)

	diags, ok := runCheck(t, a, []ast.Stmt{isEven, isOdd})
	require.True(t, ok)
	assert.Empty(t, diags)
}

// --- Lambda capture (spec §4.3 "Lambda") ---

func TestLambda_CapturesOuterLocal(t *testing.T) {
	a := arena.New("t")
	outerDecl := ast.NewVarDecl(a, tok(token.VAR, "n", 1), "n", ast.TheIntType, intLit(a, 1, 10), ast.MemDefault)

	capturedRef := ast.NewVariable(a, tok(token.IDENT, "n", 2), "n")
	lambdaBody := ast.NewBlock(a, tok(token.LBRACE, "{", 2), []ast.Stmt{
		ast.NewReturn(a, tok(token.RETURN, "return", 2), capturedRef),
	})
	lambda := ast.NewLambda(a, tok(token.FN, "fn", 2), nil, ast.TheIntType, lambdaBody, ast.ModDefault)
	holder := ast.NewVarDecl(a, tok(token.VAR, "f", 2), "f",
		ast.NewFunctionType(a, ast.TheIntType, nil), lambda, ast.MemDefault)

	diags, ok := runCheck(t, a, []ast.Stmt{outerDecl, holder})
	require.True(t, ok)
	assert.Empty(t, diags)

	le := lambda.(*ast.LambdaExpr)
	require.Len(t, le.CapturedVars, 1)
	assert.Equal(t, "n", le.CapturedVars[0])
	assert.True(t, ast.TypeEquals(le.CapturedTypes[0], ast.TheIntType))
}

// --- Array/string member dispatch ---

func TestMember_ArrayPush_TypeChecks(t *testing.T) {
	a := arena.New("t")
	arrType := ast.NewArrayType(a, ast.TheIntType)
	arrDecl := ast.NewVarDecl(a, tok(token.VAR, "xs", 1), "xs", arrType,
		ast.NewArray(a, tok(token.LBRACE, "{", 1), []ast.Expr{intLit(a, 1, 1)}), ast.MemDefault)

	call := ast.NewCall(a, tok(token.DOT, ".", 2),
		ast.NewMember(a, tok(token.DOT, ".", 2), ast.NewVariable(a, tok(token.IDENT, "xs", 2), "xs"), "push"),
		[]ast.Expr{intLit(a, 2, 4)})
	stmt := ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 2), call)

	diags, ok := runCheck(t, a, []ast.Stmt{arrDecl, stmt})
	require.True(t, ok)
	assert.Empty(t, diags)
}

func TestMember_StringLength_IsInt(t *testing.T) {
	a := arena.New("t")
	strDecl := ast.NewVarDecl(a, tok(token.VAR, "s", 1), "s", ast.TheStringType,
		ast.NewLiteral(a, tok(token.STRING, "hi", 1), "hi", ast.TheStringType, false), ast.MemDefault)
	lengthExpr := ast.NewMember(a, tok(token.DOT, ".", 2), ast.NewVariable(a, tok(token.IDENT, "s", 2), "s"), "length")
	stmt := ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 2), lengthExpr)

	diags, ok := runCheck(t, a, []ast.Stmt{strDecl, stmt})
	require.True(t, ok)
	assert.Empty(t, diags)
	assert.True(t, ast.TypeEquals(lengthExpr.Type(), ast.TheIntType))
}
