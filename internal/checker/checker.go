// Package checker implements the single-pass type-and-memory checker
// described in spec §4.3. It walks a parsed Module, annotates every
// Expr's expr_type, and enforces the memory-qualifier and function-
// modifier rules.
//
// Grounded on funxy's internal/analyzer package: a `walker` struct that
// implements ast.Visitor and threads scope/mode state through a naming
// pass then a body pass (internal/analyzer/statements.go VisitProgram).
// Sn's checker keeps that two-pass shape (declare every function's
// signature before checking any body, so forward reference and mutual
// recursion work) but drops everything specific to Hindley-Milner
// inference, traits, and pattern matching, since Sn's type lattice is
// closed and non-generic.
package checker

import (
	"fmt"

	"github.com/RealOrko/sindarin-sub010/internal/arena"
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/config"
	"github.com/RealOrko/sindarin-sub010/internal/diagnostics"
	"github.com/RealOrko/sindarin-sub010/internal/symbols"
	"github.com/RealOrko/sindarin-sub010/internal/token"
)

// Checker is the walker state for a single compilation (spec §4.3).
type Checker struct {
	arena *arena.Arena
	sink  diagnostics.Sink
	opts  config.CompilerOptions

	scope *symbols.Table
	file  string

	// currentFuncMod/currentReturnType are threaded through nested scopes
	// (spec §4.3: "The checker records the effective modifier and threads
	// it through nested scopes").
	currentFuncMod    ast.FunctionModifier
	currentReturnType ast.Type

	loopDepth int

	// lambdaBoundaries/lambdaCaptures are parallel stacks, one entry per
	// lambda currently being checked (lambdas nest), used for free-variable
	// capture analysis (spec §4.3 "Lambda": "captured free variables are
	// recorded in captured_vars/captured_types"). lambdaBoundaries[i] is
	// the scope active just before lambdaCaptures[i]'s parameter scope was
	// opened; see symbols.Table.LookupScoped.
	lambdaBoundaries []*symbols.Table
	lambdaCaptures   []*ast.LambdaExpr
}

// New creates a Checker. a is the arena new Type/Expr values are allocated
// from while checking (e.g. borrowing a declared array element type onto
// an empty array literal).
func New(a *arena.Arena, opts config.CompilerOptions) *Checker {
	return &Checker{arena: a, opts: opts, scope: symbols.New()}
}

// Check type-checks m and returns every diagnostic produced plus the
// spec §9-mandated boolean convenience (ok == len(diags) == 0).
func Check(a *arena.Arena, m *ast.Module, opts config.CompilerOptions) (diags []*diagnostics.Diagnostic, ok bool) {
	c := New(a, opts)
	c.VisitModule(m)
	diags = c.sink.Errors()
	return diags, len(diags) == 0
}

// VisitModule satisfies ast.Visitor (so *Checker is assignable anywhere an
// ast.Visitor is expected, e.g. inside Expr/Stmt Accept methods) and is
// also the checker's own entry point; nothing else calls m.Accept, so this
// is the only place VisitModule runs.
func (c *Checker) VisitModule(m *ast.Module) {
	c.file = m.Filename

	// Pass 1 ("naming"): declare every top-level function's signature in
	// module scope before any body is checked (spec §4.2: "Function
	// symbols are declared in the module-level scope before function
	// bodies are checked, to permit forward reference and mutual
	// recursion").
	for _, stmt := range m.Statements {
		fn, ok := stmt.(*ast.FunctionStmt)
		if !ok {
			continue
		}
		c.declareFunctionSignature(fn)
	}

	// Pass 2: check everything, including function bodies, in module
	// scope. The module scope doubles as the implicit "main" function's
	// scope for top-level statements (spec §4.4: "an implicit [main] if
	// top-level statements are present"), so Return is legal at the top
	// level with an implicit Void return type and Default modifier.
	c.currentFuncMod = ast.ModDefault
	c.currentReturnType = ast.TheVoidType
	for _, stmt := range m.Statements {
		c.checkStmt(stmt)
	}
}

func (c *Checker) declareFunctionSignature(fn *ast.FunctionStmt) {
	if fn.Name == "" {
		return
	}
	if _, exists := c.scope.LookupInCurrent(fn.Name); exists {
		c.errAt(diagnostics.CodeRedeclaration, fn.GetToken(), "function %q already declared in this scope", fn.Name)
		return
	}
	paramTypes := make([]ast.Type, len(fn.Params))
	for i, p := range fn.Params {
		paramTypes[i] = p.Type
	}
	fnType := ast.NewFunctionType(c.arena, fn.ReturnType, paramTypes)
	c.scope.Declare(fn.Name, symbols.Symbol{
		Type:             fnType,
		FunctionModifier: fn.Modifier,
		Kind:             ast.KindFunction,
	})
}

// checkExpr visits e (dispatching through Accept) and returns its
// resulting type. A nil/invalid e yields the error-type sentinel so
// callers can keep going without a cascade of "operand has no type"
// diagnostics (spec §7 "Recovery policy").
func (c *Checker) checkExpr(e ast.Expr) ast.Type {
	if ast.IsNil(e) {
		return ast.TheErrorType
	}
	if ast.IsInvalidExpr(e) {
		inv := e.(*ast.InvalidExpr)
		c.internalError(inv.GetToken(), "invalid expression node: %s", inv.Reason)
		e.SetType(ast.TheErrorType)
		return ast.TheErrorType
	}
	e.Accept(c)
	t := e.Type()
	if t == nil {
		t = ast.TheErrorType
		e.SetType(t)
	}
	return t
}

func (c *Checker) checkStmt(s ast.Stmt) {
	if ast.IsNil(s) {
		return
	}
	if ast.IsInvalidStmt(s) {
		inv := s.(*ast.InvalidStmt)
		c.internalError(inv.GetToken(), "invalid statement node: %s", inv.Reason)
		return
	}
	s.Accept(c)
}

// openScope/closeScope wrap symbols.Table's scope stack (spec §4.2).
func (c *Checker) openScope() {
	c.scope = c.scope.OpenScope()
}

func (c *Checker) closeScope() {
	c.scope = c.scope.CloseScope()
}

// lookupMaybeCapture resolves name in the current scope. If the reference
// occurs inside a lambda body and resolves to a symbol declared outside
// that lambda's own parameter/local scopes, the name is recorded in the
// innermost active lambda's CapturedVars/CapturedTypes (spec §4.3
// "Lambda"; deduplicated, since the same outer local may be referenced
// more than once in a body).
func (c *Checker) lookupMaybeCapture(name string) (symbols.Symbol, bool) {
	if len(c.lambdaBoundaries) == 0 {
		return c.scope.Lookup(name)
	}
	boundary := c.lambdaBoundaries[len(c.lambdaBoundaries)-1]
	sym, found, captured := c.scope.LookupScoped(boundary, name)
	if found && captured {
		lam := c.lambdaCaptures[len(c.lambdaCaptures)-1]
		already := false
		for _, n := range lam.CapturedVars {
			if n == name {
				already = true
				break
			}
		}
		if !already {
			lam.CapturedVars = append(lam.CapturedVars, name)
			lam.CapturedTypes = append(lam.CapturedTypes, sym.Type)
		}
	}
	return sym, found
}

func (c *Checker) inLoop() bool { return c.loopDepth > 0 }

// errAt records a diagnostic located at tok's source position.
func (c *Checker) errAt(code diagnostics.Code, tok token.Token, format string, args ...any) {
	c.sink.Add(diagnostics.New(code, tok, format, args...))
}

// internalError records an InternalConsistency diagnostic: a structural
// problem (e.g. an Invalid sentinel node reaching the checker) rather than
// a user error (spec §7: "Fatal structural problems ... are internal-
// consistency errors, not user errors").
func (c *Checker) internalError(tok token.Token, format string, args ...any) {
	c.errAt(diagnostics.CodeInternalConsistency, tok, format, args...)
}

func typeMismatchMsg(expected, got ast.Type) string {
	return fmt.Sprintf("expected %s, got %s", ast.TypeToString(expected), ast.TypeToString(got))
}
