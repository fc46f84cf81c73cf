package ast

// BinaryExpr: left op right (spec §3 "Binary{left, op, right}").
type BinaryExpr struct {
	ExprMeta
	Left  Expr
	Op    string
	Right Expr
}

func (e *BinaryExpr) exprNode()        {}
func (e *BinaryExpr) Accept(v Visitor) { v.VisitBinary(e) }

// UnaryExpr: op operand (spec "Unary{op, operand}").
type UnaryExpr struct {
	ExprMeta
	Op      string
	Operand Expr
}

func (e *UnaryExpr) exprNode()        {}
func (e *UnaryExpr) Accept(v Visitor) { v.VisitUnary(e) }

// LiteralExpr: a constant value (spec "Literal{value, type, is_interpolated}").
// IsInterpolated is true only for string literals that came from inside an
// Interpolated part list, distinguishing a bare string literal from one
// that was lexed as one segment of $"...".
type LiteralExpr struct {
	ExprMeta
	Value          any
	LitType        Type
	IsInterpolated bool
}

func (e *LiteralExpr) exprNode()        {}
func (e *LiteralExpr) Accept(v Visitor) { v.VisitLiteral(e) }

// VariableExpr: a name reference (spec "Variable{name}").
type VariableExpr struct {
	ExprMeta
	Name string
}

func (e *VariableExpr) exprNode()        {}
func (e *VariableExpr) Accept(v Visitor) { v.VisitVariable(e) }

// AssignExpr: name = value (spec "Assign{name, value}").
type AssignExpr struct {
	ExprMeta
	Name  string
	Value Expr
}

func (e *AssignExpr) exprNode()        {}
func (e *AssignExpr) Accept(v Visitor) { v.VisitAssign(e) }

// CallExpr: callee(arguments...) (spec "Call{callee, arguments[]}").
type CallExpr struct {
	ExprMeta
	Callee    Expr
	Arguments []Expr
}

func (e *CallExpr) exprNode()        {}
func (e *CallExpr) Accept(v Visitor) { v.VisitCall(e) }

// ArrayExpr: an array literal (spec "Array{elements[]}").
type ArrayExpr struct {
	ExprMeta
	Elements []Expr
}

func (e *ArrayExpr) exprNode()        {}
func (e *ArrayExpr) Accept(v Visitor) { v.VisitArray(e) }

// ArrayAccessExpr: array[index] (spec "ArrayAccess{array, index}").
type ArrayAccessExpr struct {
	ExprMeta
	Array Expr
	Index Expr
}

func (e *ArrayAccessExpr) exprNode()        {}
func (e *ArrayAccessExpr) Accept(v Visitor) { v.VisitArrayAccess(e) }

// ArraySliceExpr: array[start:end:step] (spec "ArraySlice{array, start?,
// end?, step?}"). Start/End/Step are nil when omitted.
type ArraySliceExpr struct {
	ExprMeta
	Array Expr
	Start Expr
	End   Expr
	Step  Expr
}

func (e *ArraySliceExpr) exprNode()        {}
func (e *ArraySliceExpr) Accept(v Visitor) { v.VisitArraySlice(e) }

// RangeExpr: start..end (spec "Range{start, end}").
type RangeExpr struct {
	ExprMeta
	Start Expr
	End   Expr
}

func (e *RangeExpr) exprNode()        {}
func (e *RangeExpr) Accept(v Visitor) { v.VisitRange(e) }

// SpreadExpr: ...array, valid only inside array literals and call argument
// lists (spec "Spread{array}").
type SpreadExpr struct {
	ExprMeta
	Array Expr
}

func (e *SpreadExpr) exprNode()        {}
func (e *SpreadExpr) Accept(v Visitor) { v.VisitSpread(e) }

// IncrementExpr: operand++ (spec "Increment{operand}").
type IncrementExpr struct {
	ExprMeta
	Operand Expr
}

func (e *IncrementExpr) exprNode()        {}
func (e *IncrementExpr) Accept(v Visitor) { v.VisitIncrement(e) }

// DecrementExpr: operand-- (spec "Decrement{operand}").
type DecrementExpr struct {
	ExprMeta
	Operand Expr
}

func (e *DecrementExpr) exprNode()        {}
func (e *DecrementExpr) Accept(v Visitor) { v.VisitDecrement(e) }

// InterpolatedExpr: $"a={1+1}" (spec "Interpolated{parts[]}"). Each part is
// either a *LiteralExpr string segment or an arbitrary expression.
type InterpolatedExpr struct {
	ExprMeta
	Parts []Expr
}

func (e *InterpolatedExpr) exprNode()        {}
func (e *InterpolatedExpr) Accept(v Visitor) { v.VisitInterpolated(e) }

// MemberExpr: object.name (spec "Member{object, name}").
type MemberExpr struct {
	ExprMeta
	Object Expr
	Name   string
}

func (e *MemberExpr) exprNode()        {}
func (e *MemberExpr) Accept(v Visitor) { v.VisitMember(e) }

// LambdaExpr (spec "Lambda{params[], return_type, body, modifier,
// captured_vars[], captured_types[], lambda_id}"). CapturedVars/
// CapturedTypes and LambdaID are filled in by the checker and emitter
// respectively, not by the constructor.
type LambdaExpr struct {
	ExprMeta
	Params        []Parameter
	ReturnType    Type
	Body          *BlockStmt
	Modifier      FunctionModifier
	CapturedVars  []string
	CapturedTypes []Type
	LambdaID      int
}

func (e *LambdaExpr) exprNode()        {}
func (e *LambdaExpr) Accept(v Visitor) { v.VisitLambda(e) }
