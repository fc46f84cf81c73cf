package ast

import (
	"github.com/RealOrko/sindarin-sub010/internal/arena"
	"github.com/RealOrko/sindarin-sub010/internal/token"
)

// dupToken duplicates tok's lexeme into a, resolving spec §9's Open
// Question: every constructor uses exactly this one deep-copy policy, never
// the shallow retain some of the original constructors used. The Invalid
// sentinels returned for a missing child are the exception: they keep the
// caller's token as-is and allocate nothing from the arena.
func dupToken(a *arena.Arena, tok token.Token) token.Token {
	tok.Lexeme = arena.DupString(a, tok.Lexeme)
	return tok
}

// --- Expression constructors (spec §4.1) ---

func NewBinary(a *arena.Arena, tok token.Token, left Expr, op string, right Expr) Expr {
	if left == nil || right == nil {
		return invalidExpr(tok, "binary expression missing operand")
	}
	n := arena.Alloc[BinaryExpr](a)
	n.Tok = dupToken(a, tok)
	n.Left = left
	n.Op = op
	n.Right = right
	return n
}

func NewUnary(a *arena.Arena, tok token.Token, op string, operand Expr) Expr {
	if operand == nil {
		return invalidExpr(tok, "unary expression missing operand")
	}
	n := arena.Alloc[UnaryExpr](a)
	n.Tok = dupToken(a, tok)
	n.Op = op
	n.Operand = operand
	return n
}

func NewLiteral(a *arena.Arena, tok token.Token, value any, litType Type, isInterpolated bool) Expr {
	n := arena.Alloc[LiteralExpr](a)
	n.Tok = dupToken(a, tok)
	n.Value = value
	n.LitType = litType
	n.IsInterpolated = isInterpolated
	return n
}

func NewVariable(a *arena.Arena, tok token.Token, name string) Expr {
	if name == "" {
		return invalidExpr(tok, "variable expression missing name")
	}
	n := arena.Alloc[VariableExpr](a)
	n.Tok = dupToken(a, tok)
	n.Name = arena.DupString(a, name)
	return n
}

func NewAssign(a *arena.Arena, tok token.Token, name string, value Expr) Expr {
	if name == "" || value == nil {
		return invalidExpr(tok, "assign expression missing name or value")
	}
	n := arena.Alloc[AssignExpr](a)
	n.Tok = dupToken(a, tok)
	n.Name = arena.DupString(a, name)
	n.Value = value
	return n
}

func NewCall(a *arena.Arena, tok token.Token, callee Expr, arguments []Expr) Expr {
	if callee == nil {
		return invalidExpr(tok, "call expression missing callee")
	}
	n := arena.Alloc[CallExpr](a)
	n.Tok = dupToken(a, tok)
	n.Callee = callee
	n.Arguments = append(arena.AllocSlice[Expr](a, 0), arguments...)
	return n
}

func NewArray(a *arena.Arena, tok token.Token, elements []Expr) Expr {
	n := arena.Alloc[ArrayExpr](a)
	n.Tok = dupToken(a, tok)
	n.Elements = append(arena.AllocSlice[Expr](a, 0), elements...)
	return n
}

func NewArrayAccess(a *arena.Arena, tok token.Token, array, index Expr) Expr {
	if array == nil || index == nil {
		return invalidExpr(tok, "array access missing array or index")
	}
	n := arena.Alloc[ArrayAccessExpr](a)
	n.Tok = dupToken(a, tok)
	n.Array = array
	n.Index = index
	return n
}

// NewArraySlice: start/end/step may each be nil (spec: "missing bounds
// default to ends; step default 1").
func NewArraySlice(a *arena.Arena, tok token.Token, array, start, end, step Expr) Expr {
	if array == nil {
		return invalidExpr(tok, "array slice missing array")
	}
	n := arena.Alloc[ArraySliceExpr](a)
	n.Tok = dupToken(a, tok)
	n.Array = array
	n.Start = start
	n.End = end
	n.Step = step
	return n
}

func NewRange(a *arena.Arena, tok token.Token, start, end Expr) Expr {
	if start == nil || end == nil {
		return invalidExpr(tok, "range missing endpoint")
	}
	n := arena.Alloc[RangeExpr](a)
	n.Tok = dupToken(a, tok)
	n.Start = start
	n.End = end
	return n
}

func NewSpread(a *arena.Arena, tok token.Token, array Expr) Expr {
	if array == nil {
		return invalidExpr(tok, "spread missing array")
	}
	n := arena.Alloc[SpreadExpr](a)
	n.Tok = dupToken(a, tok)
	n.Array = array
	return n
}

func NewIncrement(a *arena.Arena, tok token.Token, operand Expr) Expr {
	if operand == nil {
		return invalidExpr(tok, "increment missing operand")
	}
	n := arena.Alloc[IncrementExpr](a)
	n.Tok = dupToken(a, tok)
	n.Operand = operand
	return n
}

func NewDecrement(a *arena.Arena, tok token.Token, operand Expr) Expr {
	if operand == nil {
		return invalidExpr(tok, "decrement missing operand")
	}
	n := arena.Alloc[DecrementExpr](a)
	n.Tok = dupToken(a, tok)
	n.Operand = operand
	return n
}

func NewInterpolated(a *arena.Arena, tok token.Token, parts []Expr) Expr {
	if len(parts) == 0 {
		return invalidExpr(tok, "interpolated string missing parts")
	}
	n := arena.Alloc[InterpolatedExpr](a)
	n.Tok = dupToken(a, tok)
	n.Parts = append(arena.AllocSlice[Expr](a, 0), parts...)
	return n
}

func NewMember(a *arena.Arena, tok token.Token, object Expr, name string) Expr {
	if object == nil || name == "" {
		return invalidExpr(tok, "member access missing object or name")
	}
	n := arena.Alloc[MemberExpr](a)
	n.Tok = dupToken(a, tok)
	n.Object = object
	n.Name = arena.DupString(a, name)
	return n
}

func NewLambda(a *arena.Arena, tok token.Token, params []Parameter, returnType Type, body *BlockStmt, modifier FunctionModifier) Expr {
	if body == nil {
		return invalidExpr(tok, "lambda missing body")
	}
	n := arena.Alloc[LambdaExpr](a)
	n.Tok = dupToken(a, tok)
	n.Params = append(arena.AllocSlice[Parameter](a, 0), params...)
	n.ReturnType = returnType
	n.Body = body
	n.Modifier = modifier
	n.LambdaID = -1 // assigned by the emitter at emission time (spec §4.4)
	return n
}

// --- Statement constructors (spec §4.1) ---

func NewExpressionStmt(a *arena.Arena, tok token.Token, expr Expr) Stmt {
	if expr == nil {
		return invalidStmt(tok, "expression statement missing expression")
	}
	n := arena.Alloc[ExpressionStmt](a)
	n.Tok = dupToken(a, tok)
	n.Expr = expr
	return n
}

// NewVarDecl: Initializer may be nil (spec "VarDecl{name, type,
// initializer?, mem_qualifier}").
func NewVarDecl(a *arena.Arena, tok token.Token, name string, typ Type, initializer Expr, mem MemQualifier) Stmt {
	if name == "" || typ == nil {
		return invalidStmt(tok, "var decl missing name or type")
	}
	n := arena.Alloc[VarDeclStmt](a)
	n.Tok = dupToken(a, tok)
	n.Name = arena.DupString(a, name)
	n.Type = typ
	n.Initializer = initializer
	n.MemQualifier = mem
	return n
}

func NewFunction(a *arena.Arena, tok token.Token, name string, params []Parameter, returnType Type, body []Stmt, modifier FunctionModifier) Stmt {
	if name == "" || returnType == nil {
		return invalidStmt(tok, "function missing name or return type")
	}
	n := arena.Alloc[FunctionStmt](a)
	n.Tok = dupToken(a, tok)
	n.Name = arena.DupString(a, name)
	n.Params = append(arena.AllocSlice[Parameter](a, 0), params...)
	n.ReturnType = returnType
	n.Body = append(arena.AllocSlice[Stmt](a, 0), body...)
	n.Modifier = modifier
	return n
}

// NewReturn: value may be nil for a bare `return`.
func NewReturn(a *arena.Arena, tok token.Token, value Expr) Stmt {
	n := arena.Alloc[ReturnStmt](a)
	n.Tok = dupToken(a, tok)
	n.Value = value
	return n
}

func NewBlock(a *arena.Arena, tok token.Token, statements []Stmt) *BlockStmt {
	n := arena.Alloc[BlockStmt](a)
	n.Tok = dupToken(a, tok)
	n.Statements = append(arena.AllocSlice[Stmt](a, 0), statements...)
	return n
}

// NewIf: els may be nil, a *BlockStmt, or (for an else-if chain) an *IfStmt.
func NewIf(a *arena.Arena, tok token.Token, condition Expr, then *BlockStmt, els Stmt) Stmt {
	if condition == nil || then == nil {
		return invalidStmt(tok, "if missing condition or then-branch")
	}
	n := arena.Alloc[IfStmt](a)
	n.Tok = dupToken(a, tok)
	n.Condition = condition
	n.Then = then
	n.Else = els
	return n
}

func NewWhile(a *arena.Arena, tok token.Token, condition Expr, body *BlockStmt) Stmt {
	if condition == nil || body == nil {
		return invalidStmt(tok, "while missing condition or body")
	}
	n := arena.Alloc[WhileStmt](a)
	n.Tok = dupToken(a, tok)
	n.Condition = condition
	n.Body = body
	return n
}

// NewFor: initializer, condition, and increment may each be nil (spec
// "For{initializer?, condition?, increment?, body}").
func NewFor(a *arena.Arena, tok token.Token, initializer Stmt, condition, increment Expr, body *BlockStmt) Stmt {
	if body == nil {
		return invalidStmt(tok, "for missing body")
	}
	n := arena.Alloc[ForStmt](a)
	n.Tok = dupToken(a, tok)
	n.Initializer = initializer
	n.Condition = condition
	n.Increment = increment
	n.Body = body
	return n
}

func NewForEach(a *arena.Arena, tok token.Token, varName string, iterable Expr, body *BlockStmt) Stmt {
	if varName == "" || iterable == nil || body == nil {
		return invalidStmt(tok, "foreach missing var name, iterable, or body")
	}
	n := arena.Alloc[ForEachStmt](a)
	n.Tok = dupToken(a, tok)
	n.VarName = arena.DupString(a, varName)
	n.Iterable = iterable
	n.Body = body
	return n
}

func NewImport(a *arena.Arena, tok token.Token, moduleName string) Stmt {
	if moduleName == "" {
		return invalidStmt(tok, "import missing module name")
	}
	n := arena.Alloc[ImportStmt](a)
	n.Tok = dupToken(a, tok)
	n.ModuleName = arena.DupString(a, moduleName)
	return n
}

func NewBreak(a *arena.Arena, tok token.Token) Stmt {
	n := arena.Alloc[BreakStmt](a)
	n.Tok = dupToken(a, tok)
	return n
}

func NewContinue(a *arena.Arena, tok token.Token) Stmt {
	n := arena.Alloc[ContinueStmt](a)
	n.Tok = dupToken(a, tok)
	return n
}

// NewModule allocates the Module root from the arena; every Expr/Stmt/Type
// reachable from it must come from the same arena (spec §3 "Invariants").
func NewModule(a *arena.Arena, filename string) *Module {
	m := arena.Alloc[Module](a)
	m.Filename = arena.DupString(a, filename)
	return m
}
