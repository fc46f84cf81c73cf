// Package ast implements Sn's abstract syntax tree: the Type lattice (see
// type.go), the Expr/Stmt sum types below, their arena-backed constructors,
// and the Visitor double-dispatch interface the checker, emitter, and
// printer all traverse through (spec §3, §4.1).
package ast

import (
	"reflect"

	"github.com/RealOrko/sindarin-sub010/internal/token"
)

// Node is the base interface every AST node satisfies.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
}

// Expr is a Node that produces a value. expr_type (spec §3) starts nil and
// is filled in exactly once, by the checker.
type Expr interface {
	Node
	exprNode()
	GetToken() token.Token
	Type() Type
	SetType(Type)
}

// Stmt is a Node that has no value of its own.
type Stmt interface {
	Node
	stmtNode()
	GetToken() token.Token
}

// ExprMeta is embedded by every concrete Expr to provide the location token
// and the expr_type slot without repeating the same four methods on every
// node (spec §3: "Every expression carries token ... and expr_type").
type ExprMeta struct {
	Tok      token.Token
	ExprType Type
}

func (m *ExprMeta) GetToken() token.Token  { return m.Tok }
func (m *ExprMeta) TokenLiteral() string   { return m.Tok.Lexeme }
func (m *ExprMeta) Type() Type             { return m.ExprType }
func (m *ExprMeta) SetType(t Type)         { m.ExprType = t }
func (m *ExprMeta) HasType() bool          { return m.ExprType != nil }

// StmtMeta is the statement analogue of ExprMeta.
type StmtMeta struct {
	Tok token.Token
}

func (m *StmtMeta) GetToken() token.Token { return m.Tok }
func (m *StmtMeta) TokenLiteral() string  { return m.Tok.Lexeme }

// Parameter is a function/lambda parameter (spec §3 "Parameter"). It is a
// plain value, not a Node: it carries a Token purely for diagnostics, the
// same "pointer to stack array" idiom the spec's Design Notes call out as
// something to avoid reproducing — parameter lists here are just
// length-carrying []Parameter slices.
type Parameter struct {
	Name         token.Token
	Type         Type
	MemQualifier MemQualifier
}

// Module is the root of a compilation unit (spec §3 "Module").
type Module struct {
	Filename   string
	Statements []Stmt
}

func (m *Module) Accept(v Visitor) { v.VisitModule(m) }
func (m *Module) TokenLiteral() string {
	if len(m.Statements) > 0 {
		return m.Statements[0].TokenLiteral()
	}
	return ""
}

// IsNil reports whether n is either a true nil interface or a non-nil
// interface wrapping a nil pointer (a typed nil, e.g. a *BlockStmt(nil)
// stored in a Stmt field). The printer (spec §4.5: "resilient to partial
// trees") relies on this rather than a bare `n == nil` check, since an
// optional child field assigned from a nil-valued concrete pointer
// variable is a typed nil, not a nil interface.
func IsNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
