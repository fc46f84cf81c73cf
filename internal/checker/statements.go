package checker

import (
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/diagnostics"
	"github.com/RealOrko/sindarin-sub010/internal/symbols"
	"github.com/RealOrko/sindarin-sub010/internal/token"
)

func (c *Checker) VisitExpressionStmt(s *ast.ExpressionStmt) {
	c.checkExpr(s.Expr)
}

// VisitVarDecl implements spec §4.3 "VarDecl" plus the memory-qualifier
// rules: "if initializer present, its type must match declared type;
// initializer of array type with empty literal borrows the declared
// element type."
func (c *Checker) VisitVarDecl(s *ast.VarDeclStmt) {
	c.checkMemQualifier(s.MemQualifier, s.Type, false, s.GetToken(), s.Name)
	if !ast.IsNil(s.Initializer) {
		it := c.checkExprExpect(s.Initializer, s.Type)
		if !ast.IsErrorType(it) && !ast.TypeEquals(it, s.Type) {
			c.errAt(diagnostics.CodeTypeMismatch, s.GetToken(), "var %q: %s", s.Name, typeMismatchMsg(s.Type, it))
		}
	}
	if _, exists := c.scope.LookupInCurrent(s.Name); exists {
		c.errAt(diagnostics.CodeRedeclaration, s.GetToken(), "name %q already declared in this scope", s.Name)
		return
	}
	c.scope.Declare(s.Name, symbols.Symbol{
		Type:         s.Type,
		MemQualifier: s.MemQualifier,
		Kind:         ast.KindVariable,
	})
}

// checkMemQualifier implements spec §4.3 "Memory-qualifier rules":
//   - `as val` legal on heap-typed variables and parameters.
//   - `as ref` legal only on value-typed *variables* (never parameters).
//
// isParam distinguishes a parameter declaration from a variable
// declaration, since `as ref` is only ever legal on the latter.
func (c *Checker) checkMemQualifier(q ast.MemQualifier, t ast.Type, isParam bool, tok token.Token, name string) bool {
	heap := ast.IsHeapType(t)
	switch q {
	case ast.MemDefault:
		if c.opts.StrictQualifiers && isParam && heap {
			c.errAt(diagnostics.CodeInvalidMemoryQualifier, tok, "%q: a heap-typed parameter must be explicitly annotated \"as val\" when strict_qualifiers is on, got %s with no qualifier", name, ast.TypeToString(t))
			return false
		}
		return true
	case ast.MemAsVal:
		if !heap {
			c.errAt(diagnostics.CodeInvalidMemoryQualifier, tok, "%q: \"as val\" is only valid on heap-typed declarations, got %s", name, ast.TypeToString(t))
			return false
		}
		return true
	case ast.MemAsRef:
		if isParam {
			c.errAt(diagnostics.CodeInvalidMemoryQualifier, tok, "%q: \"as ref\" is not valid on parameters", name)
			return false
		}
		if heap {
			c.errAt(diagnostics.CodeInvalidMemoryQualifier, tok, "%q: \"as ref\" is only valid on value-typed variables, got %s", name, ast.TypeToString(t))
			return false
		}
		return true
	default:
		return true
	}
}

// VisitFunction implements spec §4.3 "Function" and the function-modifier
// rules: params are declared in the body's outermost scope, the body is
// checked with expected_return_type/current_function_modifier, and the
// declared return type is validated against the modifier's heap-escape
// rule regardless of what any individual Return statement yields (spec §8
// scenario 3: rejection happens "at the declaration line").
func (c *Checker) VisitFunction(s *ast.FunctionStmt) {
	c.validateReturnTypeForModifier(s.Modifier, s.ReturnType, s)

	c.openScope()
	for _, p := range s.Params {
		c.checkMemQualifier(p.MemQualifier, p.Type, true, p.Name, p.Name.Lexeme)
		if _, exists := c.scope.LookupInCurrent(p.Name.Lexeme); exists {
			c.errAt(diagnostics.CodeRedeclaration, p.Name, "parameter %q already declared", p.Name.Lexeme)
			continue
		}
		c.scope.Declare(p.Name.Lexeme, symbolFromParam(p))
	}

	savedMod, savedRet := c.currentFuncMod, c.currentReturnType
	c.currentFuncMod = s.Modifier
	c.currentReturnType = s.ReturnType
	for _, stmt := range s.Body {
		c.checkStmt(stmt)
	}
	c.currentFuncMod, c.currentReturnType = savedMod, savedRet
	c.closeScope()
}

// validateReturnTypeForModifier enforces spec §4.3 "Function-modifier
// rules": private functions (and, for arrays only, Default functions) may
// not declare a heap-typed array/string return, since their activation
// arena is destroyed on return; shared functions may return heap types
// freely by propagating the caller's arena.
func (c *Checker) validateReturnTypeForModifier(mod ast.FunctionModifier, ret ast.Type, s *ast.FunctionStmt) {
	if mod == ast.ModShared {
		return
	}
	if _, isArray := ret.(*ast.ArrayType); isArray {
		c.errAt(diagnostics.CodeInvalidReturnType, s.GetToken(), "function %q: %s functions may not return an array; its activation arena is destroyed on return (mark it shared)", s.Name, modWord(mod))
		return
	}
	if mod == ast.ModPrivate {
		if _, isString := ret.(*ast.StringType); isString {
			c.errAt(diagnostics.CodeInvalidReturnType, s.GetToken(), "function %q: private functions may not return a string; its activation arena is destroyed on return (mark it shared or remove private)", s.Name)
		}
	}
}

func modWord(m ast.FunctionModifier) string {
	if m == ast.ModPrivate {
		return "private"
	}
	return "default"
}

func (c *Checker) VisitReturn(s *ast.ReturnStmt) {
	if ast.IsNil(s.Value) {
		if !ast.TypeEquals(c.currentReturnType, ast.TheVoidType) {
			c.errAt(diagnostics.CodeTypeMismatch, s.GetToken(), "bare return in function with non-void return type %s", ast.TypeToString(c.currentReturnType))
		}
		return
	}
	if ast.TypeEquals(c.currentReturnType, ast.TheVoidType) {
		c.checkExpr(s.Value)
		c.errAt(diagnostics.CodeTypeMismatch, s.GetToken(), "void function may not return a value")
		return
	}
	vt := c.checkExprExpect(s.Value, c.currentReturnType)
	if !ast.IsErrorType(vt) && !ast.TypeEquals(vt, c.currentReturnType) {
		c.errAt(diagnostics.CodeTypeMismatch, s.GetToken(), "return: %s", typeMismatchMsg(c.currentReturnType, vt))
	}
}

func (c *Checker) VisitBlock(s *ast.BlockStmt) {
	c.openScope()
	for _, stmt := range s.Statements {
		c.checkStmt(stmt)
	}
	c.closeScope()
}

func (c *Checker) checkCondition(e ast.Expr) {
	t := c.checkExpr(e)
	if !ast.IsErrorType(t) && !ast.TypeEquals(t, ast.TheBoolType) {
		c.errAt(diagnostics.CodeTypeMismatch, e.GetToken(), "condition must be bool, got %s", ast.TypeToString(t))
	}
}

func (c *Checker) VisitIf(s *ast.IfStmt) {
	c.checkCondition(s.Condition)
	c.checkStmt(s.Then)
	if !ast.IsNil(s.Else) {
		c.checkStmt(s.Else)
	}
}

func (c *Checker) VisitWhile(s *ast.WhileStmt) {
	c.checkCondition(s.Condition)
	c.loopDepth++
	c.checkStmt(s.Body)
	c.loopDepth--
}

func (c *Checker) VisitFor(s *ast.ForStmt) {
	c.openScope()
	if !ast.IsNil(s.Initializer) {
		c.checkStmt(s.Initializer)
	}
	if !ast.IsNil(s.Condition) {
		c.checkCondition(s.Condition)
	}
	if !ast.IsNil(s.Increment) {
		c.checkExpr(s.Increment)
	}
	c.loopDepth++
	c.checkStmt(s.Body)
	c.loopDepth--
	c.closeScope()
}

// VisitForEach implements spec §4.3 "ForEach": "iterable must be array or
// range; loop variable bound to element type."
func (c *Checker) VisitForEach(s *ast.ForEachStmt) {
	it := c.checkExpr(s.Iterable)
	c.openScope()
	if !ast.IsErrorType(it) {
		arr, ok := it.(*ast.ArrayType)
		if !ok {
			c.errAt(diagnostics.CodeInvalidOperand, s.GetToken(), "forEach iterable must be an array or range, got %s", ast.TypeToString(it))
		} else {
			c.scope.Declare(s.VarName, symbols.Symbol{Type: arr.Element, Kind: ast.KindVariable})
		}
	}
	c.loopDepth++
	c.checkStmt(s.Body)
	c.loopDepth--
	c.closeScope()
}

func (c *Checker) VisitImport(s *ast.ImportStmt) {
	// Module/import resolution beyond single-file compilation is a
	// non-goal (spec §1); the checker accepts the statement structurally
	// without attempting to resolve it.
}

func (c *Checker) VisitBreak(s *ast.BreakStmt) {
	if !c.inLoop() {
		c.errAt(diagnostics.CodeBreakOutsideLoop, s.GetToken(), "break outside loop")
	}
}

func (c *Checker) VisitContinue(s *ast.ContinueStmt) {
	if !c.inLoop() {
		c.errAt(diagnostics.CodeBreakOutsideLoop, s.GetToken(), "continue outside loop")
	}
}

func (c *Checker) VisitInvalidExpr(e *ast.InvalidExpr) {
	c.internalError(e.GetToken(), "invalid expression node: %s", e.Reason)
	e.SetType(ast.TheErrorType)
}

func (c *Checker) VisitInvalidStmt(s *ast.InvalidStmt) {
	c.internalError(s.GetToken(), "invalid statement node: %s", s.Reason)
}
