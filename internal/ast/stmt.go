package ast

// ExpressionStmt wraps a bare expression statement (spec "Expression{expr}").
type ExpressionStmt struct {
	StmtMeta
	Expr Expr
}

func (s *ExpressionStmt) stmtNode()       {}
func (s *ExpressionStmt) Accept(v Visitor) { v.VisitExpressionStmt(s) }

// VarDeclStmt (spec "VarDecl{name, type, initializer?, mem_qualifier}").
type VarDeclStmt struct {
	StmtMeta
	Name         string
	Type         Type
	Initializer  Expr // nil if absent
	MemQualifier MemQualifier
}

func (s *VarDeclStmt) stmtNode()       {}
func (s *VarDeclStmt) Accept(v Visitor) { v.VisitVarDecl(s) }

// FunctionStmt (spec "Function{name, params[], return_type, body[],
// modifier}").
type FunctionStmt struct {
	StmtMeta
	Name       string
	Params     []Parameter
	ReturnType Type
	Body       []Stmt
	Modifier   FunctionModifier
}

func (s *FunctionStmt) stmtNode()       {}
func (s *FunctionStmt) Accept(v Visitor) { v.VisitFunction(s) }

// ReturnStmt (spec "Return{value?}"). Value is nil for a bare `return`.
type ReturnStmt struct {
	StmtMeta
	Value Expr
}

func (s *ReturnStmt) stmtNode()       {}
func (s *ReturnStmt) Accept(v Visitor) { v.VisitReturn(s) }

// BlockStmt (spec "Block{statements[]}").
type BlockStmt struct {
	StmtMeta
	Statements []Stmt
}

func (s *BlockStmt) stmtNode()       {}
func (s *BlockStmt) Accept(v Visitor) { v.VisitBlock(s) }

// IfStmt (spec "If{condition, then, else?}"). Else is nil when absent.
type IfStmt struct {
	StmtMeta
	Condition Expr
	Then      *BlockStmt
	Else      Stmt // *BlockStmt or *IfStmt (else-if chaining), nil if absent
}

func (s *IfStmt) stmtNode()       {}
func (s *IfStmt) Accept(v Visitor) { v.VisitIf(s) }

// WhileStmt (spec "While{condition, body}").
type WhileStmt struct {
	StmtMeta
	Condition Expr
	Body      *BlockStmt
}

func (s *WhileStmt) stmtNode()       {}
func (s *WhileStmt) Accept(v Visitor) { v.VisitWhile(s) }

// ForStmt: the C-style three-clause loop (spec "For{initializer?,
// condition?, increment?, body}"). All three header fields are optional.
type ForStmt struct {
	StmtMeta
	Initializer Stmt // *VarDeclStmt or *ExpressionStmt, nil if absent
	Condition   Expr // nil if absent
	Increment   Expr // nil if absent
	Body        *BlockStmt
}

func (s *ForStmt) stmtNode()       {}
func (s *ForStmt) Accept(v Visitor) { v.VisitFor(s) }

// ForEachStmt: `for varName in iterable { body }` (spec "ForEach{var_name,
// iterable, body}").
type ForEachStmt struct {
	StmtMeta
	VarName  string
	Iterable Expr
	Body     *BlockStmt
}

func (s *ForEachStmt) stmtNode()       {}
func (s *ForEachStmt) Accept(v Visitor) { v.VisitForEach(s) }

// ImportStmt (spec "Import{module_name}"). Module/import resolution beyond
// single-file compilation is a non-goal (spec §1); this node exists so the
// checker/emitter can recognize and reject or pass through the statement,
// not so the core resolves it.
type ImportStmt struct {
	StmtMeta
	ModuleName string
}

func (s *ImportStmt) stmtNode()       {}
func (s *ImportStmt) Accept(v Visitor) { v.VisitImport(s) }

// BreakStmt (spec "Break").
type BreakStmt struct {
	StmtMeta
}

func (s *BreakStmt) stmtNode()       {}
func (s *BreakStmt) Accept(v Visitor) { v.VisitBreak(s) }

// ContinueStmt (spec "Continue").
type ContinueStmt struct {
	StmtMeta
}

func (s *ContinueStmt) stmtNode()       {}
func (s *ContinueStmt) Accept(v Visitor) { v.VisitContinue(s) }
