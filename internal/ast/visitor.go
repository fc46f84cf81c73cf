package ast

// Visitor is implemented by every traversal over the AST: the checker
// (internal/checker), the C emitter (internal/emitter), and the debug
// printer (internal/printer) all dispatch through the same interface
// (spec §2 "C emitter: Walks the type-checked AST", §4.5 "AST printer").
type Visitor interface {
	VisitModule(m *Module)

	// Expressions
	VisitBinary(e *BinaryExpr)
	VisitUnary(e *UnaryExpr)
	VisitLiteral(e *LiteralExpr)
	VisitVariable(e *VariableExpr)
	VisitAssign(e *AssignExpr)
	VisitCall(e *CallExpr)
	VisitArray(e *ArrayExpr)
	VisitArrayAccess(e *ArrayAccessExpr)
	VisitArraySlice(e *ArraySliceExpr)
	VisitRange(e *RangeExpr)
	VisitSpread(e *SpreadExpr)
	VisitIncrement(e *IncrementExpr)
	VisitDecrement(e *DecrementExpr)
	VisitInterpolated(e *InterpolatedExpr)
	VisitMember(e *MemberExpr)
	VisitLambda(e *LambdaExpr)
	VisitInvalidExpr(e *InvalidExpr)

	// Statements
	VisitExpressionStmt(s *ExpressionStmt)
	VisitVarDecl(s *VarDeclStmt)
	VisitFunction(s *FunctionStmt)
	VisitReturn(s *ReturnStmt)
	VisitBlock(s *BlockStmt)
	VisitIf(s *IfStmt)
	VisitWhile(s *WhileStmt)
	VisitFor(s *ForStmt)
	VisitForEach(s *ForEachStmt)
	VisitImport(s *ImportStmt)
	VisitBreak(s *BreakStmt)
	VisitContinue(s *ContinueStmt)
	VisitInvalidStmt(s *InvalidStmt)
}
