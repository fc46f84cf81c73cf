package checker_test

import (
	"testing"

	"github.com/RealOrko/sindarin-sub010/internal/arena"
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/checker"
	"github.com/RealOrko/sindarin-sub010/internal/config"
	"github.com/RealOrko/sindarin-sub010/internal/token"
)

// FuzzCheck fuzzes the checker against programmatically-generated ASTs.
// There is no lexer/parser in this core (spec §1 "Out of scope: external
// collaborators"), so unlike funxy's tests/fuzz/targets/typechecker_fuzz_test.go
// — which fuzzes source text through a real lexer/parser before handing the
// program to the analyzer — this target consumes the fuzzer's bytes
// directly as a small instruction tape driving astGen, a byte-seeded AST
// builder below. The property under test is the same one funxy's target
// checks: Check must never panic, regardless of how malformed or deeply
// nested the tree is.
func FuzzCheck(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x01, 0x02, 0x00, 0x01})
	f.Add([]byte{0x05, 0x05, 0x05, 0x05, 0x05, 0x05, 0x05, 0x05})
	f.Add([]byte{0x03, 0x00, 0x04, 0x01, 0x02})

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) > 4096 {
			return
		}
		a := arena.New("fuzz")
		g := &astGen{data: data, a: a}
		stmts := g.statements(0)

		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("checker panicked: %v", r)
			}
		}()
		m := ast.NewModule(a, "fuzz.sn")
		m.Statements = stmts
		_, _ = checker.Check(a, m, config.DefaultOptions())
		_ = a
	})
}

// astGen turns an arbitrary byte slice into a bounded-depth, possibly
// ill-typed AST, consuming one byte per decision so the same input always
// generates the same tree (required for fuzz corpus minimization).
type astGen struct {
	data []byte
	pos  int
	a    *arena.Arena
}

func (g *astGen) next() byte {
	if g.pos >= len(g.data) {
		return 0xFF
	}
	b := g.data[g.pos]
	g.pos++
	return b
}

func (g *astGen) arena() *arena.Arena {
	if g.a == nil {
		g.a = arena.New("fuzzgen")
	}
	return g.a
}

var fuzzTypes = []ast.Type{
	ast.TheIntType, ast.TheDoubleType, ast.TheCharType,
	ast.TheStringType, ast.TheBoolType, ast.TheVoidType,
}

func (g *astGen) typ() ast.Type {
	n := g.next() % byte(len(fuzzTypes)+1)
	if int(n) == len(fuzzTypes) {
		return ast.NewArrayType(g.arena(), fuzzTypes[g.next()%byte(len(fuzzTypes))])
	}
	return fuzzTypes[n]
}

func (g *astGen) tok(line int) token.Token {
	return token.Token{Kind: token.IDENT, Lexeme: "g", Line: line, Filename: "fuzz.sn"}
}

func (g *astGen) expr(depth int) ast.Expr {
	if depth > 6 {
		return ast.NewLiteral(g.arena(), g.tok(depth), int64(g.next()), ast.TheIntType, false)
	}
	switch g.next() % 8 {
	case 0:
		return ast.NewLiteral(g.arena(), g.tok(depth), int64(g.next()), g.typ(), false)
	case 1:
		return ast.NewVariable(g.arena(), g.tok(depth), "v")
	case 2:
		ops := []string{"+", "-", "*", "/", "%", "==", "!=", "<", "&&", "||"}
		op := ops[int(g.next())%len(ops)]
		return ast.NewBinary(g.arena(), g.tok(depth), g.expr(depth+1), op, g.expr(depth+1))
	case 3:
		ops := []string{"!", "-"}
		op := ops[int(g.next())%len(ops)]
		return ast.NewUnary(g.arena(), g.tok(depth), op, g.expr(depth+1))
	case 4:
		n := int(g.next() % 4)
		elems := make([]ast.Expr, n)
		for i := range elems {
			elems[i] = g.expr(depth + 1)
		}
		return ast.NewArray(g.arena(), g.tok(depth), elems)
	case 5:
		return ast.NewArrayAccess(g.arena(), g.tok(depth), g.expr(depth+1), g.expr(depth+1))
	case 6:
		return ast.NewMember(g.arena(), g.tok(depth), g.expr(depth+1), "length")
	default:
		return ast.NewAssign(g.arena(), g.tok(depth), "v", g.expr(depth+1))
	}
}

func (g *astGen) stmt(depth int) ast.Stmt {
	if depth > 5 {
		return ast.NewExpressionStmt(g.arena(), g.tok(depth), g.expr(0))
	}
	switch g.next() % 6 {
	case 0:
		return ast.NewVarDecl(g.arena(), g.tok(depth), "v", g.typ(), g.expr(0), ast.MemQualifier(g.next()%3))
	case 1:
		return ast.NewReturn(g.arena(), g.tok(depth), g.expr(0))
	case 2:
		cond := g.expr(0)
		then := ast.NewBlock(g.arena(), g.tok(depth), g.statements(depth+1))
		return ast.NewIf(g.arena(), g.tok(depth), cond, then, nil)
	case 3:
		cond := g.expr(0)
		body := ast.NewBlock(g.arena(), g.tok(depth), g.statements(depth+1))
		return ast.NewWhile(g.arena(), g.tok(depth), cond, body)
	case 4:
		return ast.NewBreak(g.arena(), g.tok(depth))
	default:
		return ast.NewExpressionStmt(g.arena(), g.tok(depth), g.expr(0))
	}
}

func (g *astGen) statements(depth int) []ast.Stmt {
	if depth > 4 {
		return nil
	}
	n := int(g.next() % 5)
	out := make([]ast.Stmt, n)
	for i := range out {
		out[i] = g.stmt(depth + 1)
	}
	return out
}
