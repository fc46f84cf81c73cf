package emitter_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RealOrko/sindarin-sub010/internal/arena"
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/checker"
	"github.com/RealOrko/sindarin-sub010/internal/config"
	"github.com/RealOrko/sindarin-sub010/internal/emitter"
	"github.com/RealOrko/sindarin-sub010/internal/token"
)

func tok(kind token.Kind, lexeme string, line int) token.Token {
	return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Filename: "fixture.sn"}
}

func intLit(a *arena.Arena, line int, v int64) ast.Expr {
	return ast.NewLiteral(a, tok(token.INT, "int-lit", line), v, ast.TheIntType, false)
}

// emitModule runs the checker then the emitter over stmts, failing the test
// immediately if either stage rejects the fixture (the emitter must never
// run over a module the checker rejected).
func emitModule(t *testing.T, a *arena.Arena, stmts []ast.Stmt) string {
	t.Helper()
	m := ast.NewModule(a, "fixture.sn")
	m.Statements = stmts
	opts := config.DefaultOptions()

	checkDiags, ok := checker.Check(a, m, opts)
	require.True(t, ok, "checker rejected fixture: %v", checkDiags)

	src, _, emitDiags, ok := emitter.Emit(a, m, opts)
	require.True(t, ok, "emitter rejected fixture: %v", emitDiags)
	return src
}

// --- Arithmetic / exit-status lowering (spec §8 scenario 1) ---

func TestEmit_MainReturningArithmeticExpression_LowersToRtCalls(t *testing.T) {
	a := arena.New("t")
	// fn main(): int => { return 2 * 3 + 2 * 4 } -- 6 + 8 == 14
	left := ast.NewBinary(a, tok(token.STAR, "*", 1), intLit(a, 1, 2), "*", intLit(a, 1, 3))
	right := ast.NewBinary(a, tok(token.STAR, "*", 1), intLit(a, 1, 2), "*", intLit(a, 1, 4))
	sum := ast.NewBinary(a, tok(token.PLUS, "+", 1), left, "+", right)
	body := []ast.Stmt{ast.NewReturn(a, tok(token.RETURN, "return", 1), sum)}
	fn := ast.NewFunction(a, tok(token.FN, "main", 1), "main", nil, ast.TheIntType, body, ast.ModDefault)

	src := emitModule(t, a, []ast.Stmt{fn})

	assert.Contains(t, src, "_return_value = rt_add_long(rt_mul_long(")
	assert.Contains(t, src, "rt_mul_long(2L, 3L), rt_mul_long(2L, 4L))")
	assert.Contains(t, src, "int main(void) {")
	assert.Contains(t, src, "(int)__result__")
}

// --- Default-modifier string return escapes to the caller's arena ---

// TestEmit_DefaultFunctionReturningString_EscapesToCallerArena locks in the
// fix for a Default-modifier function returning a string (spec §4.3:
// "Default functions ... allow string returns copied to the caller" --
// only array returns are rejected for Default). The returned RtString must
// be allocated from __caller_arena__, not the function's own activation
// arena, which is destroyed immediately before control reaches the caller.
func TestEmit_DefaultFunctionReturningString_EscapesToCallerArena(t *testing.T) {
	a := arena.New("t")
	greeting := ast.NewLiteral(a, tok(token.STRING, "hi", 1), "hi", ast.TheStringType, false)
	body := []ast.Stmt{ast.NewReturn(a, tok(token.RETURN, "return", 1), greeting)}
	fn := ast.NewFunction(a, tok(token.FN, "greet", 1), "greet", nil, ast.TheStringType, body, ast.ModDefault)
	mainBody := []ast.Stmt{ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 1),
		ast.NewCall(a, tok(token.LPAREN, "(", 2), ast.NewVariable(a, tok(token.IDENT, "greet", 2), "greet"), nil))}
	main := ast.NewFunction(a, tok(token.FN, "main", 2), "main", nil, ast.TheVoidType, mainBody, ast.ModDefault)

	src := emitModule(t, a, []ast.Stmt{fn, main})

	assert.Contains(t, src, `_return_value = rt_string_literal(__caller_arena__, "hi");`)
	assert.NotContains(t, src, "rt_str_clone(__arena_")
}

// --- Shared per-iteration loop arena (spec §8 scenario 4 / loop-arena design) ---

func TestEmit_WhileLoopBody_CreatesAndDestroysPerIterationArena(t *testing.T) {
	a := arena.New("t")
	cond := ast.NewLiteral(a, tok(token.TRUE, "true", 1), true, ast.TheBoolType, false)
	body := ast.NewBlock(a, tok(token.LBRACE, "{", 1), []ast.Stmt{
		ast.NewBreak(a, tok(token.BREAK, "break", 1)),
	})
	loop := ast.NewWhile(a, tok(token.WHILE, "while", 1), cond, body)
	fn := ast.NewFunction(a, tok(token.FN, "main", 1), "main", nil, ast.TheVoidType, []ast.Stmt{loop}, ast.ModDefault)

	src := emitModule(t, a, []ast.Stmt{fn})

	assert.Contains(t, src, "__loop_arena_1__ = rt_arena_create(__arena_1__);")
	assert.Contains(t, src, "rt_arena_destroy(__loop_arena_")
	assert.Contains(t, src, "goto __loop_break_")
}

func TestEmit_ForLoopContinue_StillRunsIncrementBeforeConditionRecheck(t *testing.T) {
	a := arena.New("t")
	initDecl := ast.NewVarDecl(a, tok(token.VAR, "i", 1), "i", ast.TheIntType, intLit(a, 1, 0), ast.MemDefault)
	cond := ast.NewBinary(a, tok(token.LT, "<", 1), ast.NewVariable(a, tok(token.IDENT, "i", 1), "i"), "<", intLit(a, 1, 3))
	inc := ast.NewIncrement(a, tok(token.PLUS_PLUS, "++", 1), ast.NewVariable(a, tok(token.IDENT, "i", 1), "i"))
	body := ast.NewBlock(a, tok(token.LBRACE, "{", 1), []ast.Stmt{
		ast.NewContinue(a, tok(token.CONTINUE, "continue", 1)),
	})
	loop := ast.NewFor(a, tok(token.FOR, "for", 1), initDecl, cond, inc, body)
	fn := ast.NewFunction(a, tok(token.FN, "main", 1), "main", nil, ast.TheVoidType, []ast.Stmt{loop}, ast.ModDefault)

	src := emitModule(t, a, []ast.Stmt{fn})

	// The continue label must precede the increment statement, and the
	// increment must run before the arena is destroyed -- otherwise a
	// continue would skip the increment clause entirely. Positions are
	// taken inside sn_main's body, past the runtime extern declarations.
	mainSrc := src[strings.Index(src, "void sn_main(RtArena *__caller_arena__) {"):]
	contIdx := strings.Index(mainSrc, "__loop_continue_1__: ;")
	incIdx := strings.Index(mainSrc, "rt_post_inc_long(")
	destroyIdx := strings.Index(mainSrc, "rt_arena_destroy(__loop_arena_")
	require.NotEqual(t, -1, contIdx)
	require.NotEqual(t, -1, incIdx)
	require.NotEqual(t, -1, destroyIdx)
	assert.True(t, contIdx < incIdx, "continue label must precede the increment")
	assert.True(t, incIdx < destroyIdx, "increment must run before the arena is destroyed")
}

// --- String interpolation (spec §8 scenario 5) ---

func TestEmit_TwoPartInterpolation_ProducesExactlyTwoConcatCalls(t *testing.T) {
	a := arena.New("t")
	name := ast.NewLiteral(a, tok(token.STRING, "x", 1), "x", ast.TheStringType, false)
	n := intLit(a, 1, 3)
	interp := ast.NewInterpolated(a, tok(token.STRING, "interp", 1), []ast.Expr{name, n})
	body := []ast.Stmt{ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 1), interp)}
	fn := ast.NewFunction(a, tok(token.FN, "main", 1), "main", nil, ast.TheVoidType, body, ast.ModDefault)

	src := emitModule(t, a, []ast.Stmt{fn})

	// Counted inside sn_main's body: the runtime extern header also
	// declares rt_str_concat and the rt_to_string_* helpers.
	mainSrc := src[strings.Index(src, "void sn_main(RtArena *__caller_arena__) {"):]
	assert.Contains(t, mainSrc, "rt_to_string_string(")
	assert.Contains(t, mainSrc, "rt_to_string_long(")
	assert.Equal(t, 2, strings.Count(mainSrc, "rt_str_concat("))
}

// --- forEach over an inclusive range (spec §8 scenario 6) ---

func TestEmit_ForEachOverRange_LowersToInclusiveArrayRangeAndIndexLoop(t *testing.T) {
	a := arena.New("t")
	start := intLit(a, 1, 1)
	end := intLit(a, 1, 3)
	rng := ast.NewRange(a, tok(token.DOT_DOT, "..", 1), start, end)
	varRef := ast.NewVariable(a, tok(token.IDENT, "x", 1), "x")
	body := ast.NewBlock(a, tok(token.LBRACE, "{", 1), []ast.Stmt{
		ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 1), varRef),
	})
	loop := ast.NewForEach(a, tok(token.FOR, "for", 1), "x", rng, body)
	fn := ast.NewFunction(a, tok(token.FN, "main", 1), "main", nil, ast.TheVoidType, []ast.Stmt{loop}, ast.ModDefault)

	src := emitModule(t, a, []ast.Stmt{fn})

	assert.Contains(t, src, "= rt_array_range_long(__arena_1__, 1L, 3L);")
	assert.Contains(t, src, "< rt_array_length_long(__iter_")
	assert.Contains(t, src, "long x = rt_array_get_long(__iter_")
}

// --- `as ref` / `as val` memory-qualifier lowering (spec §8 scenario 2, code shape) ---

func TestEmit_AsRefLocal_LowersToPointerWithDereferenceOnUse(t *testing.T) {
	a := arena.New("t")
	// `as ref` aliasing an existing variable: the initializer is itself an
	// lvalue, so no backing temporary is needed -- `&(y)` is valid C.
	y := ast.NewVarDecl(a, tok(token.VAR, "y", 1), "y", ast.TheIntType, intLit(a, 1, 1), ast.MemDefault)
	decl := ast.NewVarDecl(a, tok(token.VAR, "x", 1), "x", ast.TheIntType, ast.NewVariable(a, tok(token.IDENT, "y", 1), "y"), ast.MemAsRef)
	use := ast.NewExpressionStmt(a, tok(token.SEMICOLON, ";", 1),
		ast.NewAssign(a, tok(token.ASSIGN, "=", 2), "x", intLit(a, 1, 2)))
	fn := ast.NewFunction(a, tok(token.FN, "main", 1), "main", nil, ast.TheVoidType, []ast.Stmt{y, decl, use}, ast.ModDefault)

	src := emitModule(t, a, []ast.Stmt{fn})

	assert.Contains(t, src, "*x = &(y)")
	assert.Contains(t, src, "(*x) = ")
}

// TestEmit_AsRefLocal_WithLiteralInitializer_MaterializesBackingTemp is the
// exact repro from spec §8 scenario 2 (`x: int as ref = 1`): the initializer
// is a literal, not an addressable lvalue, so `&(1L)` would be invalid C.
func TestEmit_AsRefLocal_WithLiteralInitializer_MaterializesBackingTemp(t *testing.T) {
	a := arena.New("t")
	decl := ast.NewVarDecl(a, tok(token.VAR, "x", 1), "x", ast.TheIntType, intLit(a, 1, 1), ast.MemAsRef)
	fn := ast.NewFunction(a, tok(token.FN, "main", 1), "main", nil, ast.TheVoidType, []ast.Stmt{decl}, ast.ModDefault)

	src := emitModule(t, a, []ast.Stmt{fn})

	assert.NotContains(t, src, "&(1L)")
	assert.Contains(t, src, "__refinit_")
	assert.Contains(t, src, "*x = &__refinit_")
}

func TestEmit_AsValLocal_ClonesArrayOnDeclaration(t *testing.T) {
	a := arena.New("t")
	arrType := ast.NewArrayType(a, ast.TheIntType)
	init := ast.NewArray(a, tok(token.LBRACE, "{", 1), []ast.Expr{intLit(a, 1, 1)})
	decl := ast.NewVarDecl(a, tok(token.VAR, "xs", 1), "xs", arrType, init, ast.MemAsVal)
	fn := ast.NewFunction(a, tok(token.FN, "main", 1), "main", nil, ast.TheVoidType, []ast.Stmt{decl}, ast.ModDefault)

	src := emitModule(t, a, []ast.Stmt{fn})

	assert.Contains(t, src, "xs = rt_array_clone_long(__arena_1__, __arr_")
}
