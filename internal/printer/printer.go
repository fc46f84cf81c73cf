// Package printer implements the diagnostic-only AST printer (spec §4.5).
// It is grounded on funxy's internal/prettyprinter/code_printer.go: a
// bytes.Buffer-backed visitor that accumulates indented text, generalized
// from "render valid source code" to "render a debug dump of a possibly
// partial tree" — every Visit method here tolerates a nil child and prints
// "<none>" rather than panicking, since its main job is helping diagnose
// parser/checker failures where the tree is incomplete (spec §4.5).
package printer

import (
	"bytes"
	"fmt"

	"github.com/RealOrko/sindarin-sub010/internal/ast"
)

// Printer renders an AST node to an indented debug dump.
type Printer struct {
	buf    bytes.Buffer
	indent int
}

// Print renders n and returns the result. n may be any ast.Node, including
// partially-built or invalid trees.
func Print(n ast.Node) string {
	p := &Printer{}
	p.visit(n)
	return p.buf.String()
}

func (p *Printer) visit(n ast.Node) {
	if ast.IsNil(n) {
		p.line("<none>")
		return
	}
	n.Accept(p)
}

func (p *Printer) line(format string, args ...any) {
	p.buf.WriteString(indentStr(p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func indentStr(n int) string {
	b := make([]byte, n*2)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func (p *Printer) nested(f func()) {
	p.indent++
	f()
	p.indent--
}

// --- Module ---

func (p *Printer) VisitModule(m *ast.Module) {
	p.line("Module %s", m.Filename)
	p.nested(func() {
		for _, s := range m.Statements {
			p.visit(s)
		}
	})
}

// --- Expressions ---

func (p *Printer) VisitBinary(e *ast.BinaryExpr) {
	p.line("Binary %s : %s", e.Op, ast.TypeToString(e.Type()))
	p.nested(func() {
		p.visit(e.Left)
		p.visit(e.Right)
	})
}

func (p *Printer) VisitUnary(e *ast.UnaryExpr) {
	p.line("Unary %s : %s", e.Op, ast.TypeToString(e.Type()))
	p.nested(func() { p.visit(e.Operand) })
}

func (p *Printer) VisitLiteral(e *ast.LiteralExpr) {
	p.line("Literal %v : %s (interpolated=%t)", e.Value, ast.TypeToString(e.Type()), e.IsInterpolated)
}

func (p *Printer) VisitVariable(e *ast.VariableExpr) {
	p.line("Variable %s : %s", e.Name, ast.TypeToString(e.Type()))
}

func (p *Printer) VisitAssign(e *ast.AssignExpr) {
	p.line("Assign %s : %s", e.Name, ast.TypeToString(e.Type()))
	p.nested(func() { p.visit(e.Value) })
}

func (p *Printer) VisitCall(e *ast.CallExpr) {
	p.line("Call : %s", ast.TypeToString(e.Type()))
	p.nested(func() {
		p.visit(e.Callee)
		for _, arg := range e.Arguments {
			p.visit(arg)
		}
	})
}

func (p *Printer) VisitArray(e *ast.ArrayExpr) {
	p.line("Array : %s", ast.TypeToString(e.Type()))
	p.nested(func() {
		for _, el := range e.Elements {
			p.visit(el)
		}
	})
}

func (p *Printer) VisitArrayAccess(e *ast.ArrayAccessExpr) {
	p.line("ArrayAccess : %s", ast.TypeToString(e.Type()))
	p.nested(func() {
		p.visit(e.Array)
		p.visit(e.Index)
	})
}

func (p *Printer) VisitArraySlice(e *ast.ArraySliceExpr) {
	p.line("ArraySlice : %s", ast.TypeToString(e.Type()))
	p.nested(func() {
		p.visit(e.Array)
		p.visit(e.Start)
		p.visit(e.End)
		p.visit(e.Step)
	})
}

func (p *Printer) VisitRange(e *ast.RangeExpr) {
	p.line("Range : %s", ast.TypeToString(e.Type()))
	p.nested(func() {
		p.visit(e.Start)
		p.visit(e.End)
	})
}

func (p *Printer) VisitSpread(e *ast.SpreadExpr) {
	p.line("Spread : %s", ast.TypeToString(e.Type()))
	p.nested(func() { p.visit(e.Array) })
}

func (p *Printer) VisitIncrement(e *ast.IncrementExpr) {
	p.line("Increment : %s", ast.TypeToString(e.Type()))
	p.nested(func() { p.visit(e.Operand) })
}

func (p *Printer) VisitDecrement(e *ast.DecrementExpr) {
	p.line("Decrement : %s", ast.TypeToString(e.Type()))
	p.nested(func() { p.visit(e.Operand) })
}

func (p *Printer) VisitInterpolated(e *ast.InterpolatedExpr) {
	p.line("Interpolated : %s", ast.TypeToString(e.Type()))
	p.nested(func() {
		for _, part := range e.Parts {
			p.visit(part)
		}
	})
}

func (p *Printer) VisitMember(e *ast.MemberExpr) {
	p.line("Member .%s : %s", e.Name, ast.TypeToString(e.Type()))
	p.nested(func() { p.visit(e.Object) })
}

func (p *Printer) VisitLambda(e *ast.LambdaExpr) {
	p.line("Lambda(%s) id=%d : %s", e.Modifier, e.LambdaID, ast.TypeToString(e.Type()))
	p.nested(func() {
		for _, param := range e.Params {
			p.line("Param %s : %s (%s)", param.Name.Lexeme, ast.TypeToString(param.Type), param.MemQualifier)
		}
		p.visit(e.Body)
	})
}

// --- Statements ---

func (p *Printer) VisitExpressionStmt(s *ast.ExpressionStmt) {
	p.line("ExpressionStmt")
	p.nested(func() { p.visit(s.Expr) })
}

func (p *Printer) VisitVarDecl(s *ast.VarDeclStmt) {
	p.line("VarDecl %s : %s (%s)", s.Name, ast.TypeToString(s.Type), s.MemQualifier)
	if !ast.IsNil(s.Initializer) {
		p.nested(func() { p.visit(s.Initializer) })
	}
}

func (p *Printer) VisitFunction(s *ast.FunctionStmt) {
	p.line("Function %s(%s) -> %s", s.Name, s.Modifier, ast.TypeToString(s.ReturnType))
	p.nested(func() {
		for _, param := range s.Params {
			p.line("Param %s : %s (%s)", param.Name.Lexeme, ast.TypeToString(param.Type), param.MemQualifier)
		}
		for _, stmt := range s.Body {
			p.visit(stmt)
		}
	})
}

func (p *Printer) VisitReturn(s *ast.ReturnStmt) {
	p.line("Return")
	if !ast.IsNil(s.Value) {
		p.nested(func() { p.visit(s.Value) })
	}
}

func (p *Printer) VisitBlock(s *ast.BlockStmt) {
	p.line("Block")
	p.nested(func() {
		for _, stmt := range s.Statements {
			p.visit(stmt)
		}
	})
}

func (p *Printer) VisitIf(s *ast.IfStmt) {
	p.line("If")
	p.nested(func() {
		p.visit(s.Condition)
		p.visit(s.Then)
		if !ast.IsNil(s.Else) {
			p.visit(s.Else)
		}
	})
}

func (p *Printer) VisitWhile(s *ast.WhileStmt) {
	p.line("While")
	p.nested(func() {
		p.visit(s.Condition)
		p.visit(s.Body)
	})
}

func (p *Printer) VisitFor(s *ast.ForStmt) {
	p.line("For")
	p.nested(func() {
		if !ast.IsNil(s.Initializer) {
			p.visit(s.Initializer)
		} else {
			p.line("<none>")
		}
		if !ast.IsNil(s.Condition) {
			p.visit(s.Condition)
		} else {
			p.line("<none>")
		}
		if !ast.IsNil(s.Increment) {
			p.visit(s.Increment)
		} else {
			p.line("<none>")
		}
		p.visit(s.Body)
	})
}

func (p *Printer) VisitForEach(s *ast.ForEachStmt) {
	p.line("ForEach %s", s.VarName)
	p.nested(func() {
		p.visit(s.Iterable)
		p.visit(s.Body)
	})
}

func (p *Printer) VisitImport(s *ast.ImportStmt) {
	p.line("Import %s", s.ModuleName)
}

func (p *Printer) VisitBreak(s *ast.BreakStmt) {
	p.line("Break")
}

func (p *Printer) VisitContinue(s *ast.ContinueStmt) {
	p.line("Continue")
}

func (p *Printer) VisitInvalidExpr(e *ast.InvalidExpr) {
	p.line("<invalid expr: %s>", e.Reason)
}

func (p *Printer) VisitInvalidStmt(s *ast.InvalidStmt) {
	p.line("<invalid stmt: %s>", s.Reason)
}
