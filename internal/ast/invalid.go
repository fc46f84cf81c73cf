package ast

import "github.com/RealOrko/sindarin-sub010/internal/token"

// InvalidExpr is the sentinel constructors return when a mandatory child is
// nil (spec §4.1: "return a sentinel 'invalid' result if a mandatory child
// is null"). It carries the location token so diagnostics can still point
// somewhere sensible, but no other constructor ever produces one as a valid
// operand.
type InvalidExpr struct {
	ExprMeta
	Reason string
}

func (e *InvalidExpr) exprNode()        {}
func (e *InvalidExpr) Accept(v Visitor) { v.VisitInvalidExpr(e) }

// InvalidStmt is the statement analogue of InvalidExpr.
type InvalidStmt struct {
	StmtMeta
	Reason string
}

func (s *InvalidStmt) stmtNode()        {}
func (s *InvalidStmt) Accept(v Visitor) { v.VisitInvalidStmt(s) }

// IsInvalidExpr reports whether e is the invalid sentinel.
func IsInvalidExpr(e Expr) bool {
	_, ok := e.(*InvalidExpr)
	return ok
}

// IsInvalidStmt reports whether s is the invalid sentinel.
func IsInvalidStmt(s Stmt) bool {
	_, ok := s.(*InvalidStmt)
	return ok
}

func invalidExpr(tok token.Token, reason string) Expr {
	return &InvalidExpr{ExprMeta: ExprMeta{Tok: tok}, Reason: reason}
}

func invalidStmt(tok token.Token, reason string) Stmt {
	return &InvalidStmt{StmtMeta: StmtMeta{Tok: tok}, Reason: reason}
}
