// Package symbols implements the scoped symbol table described in spec
// §3 ("SymbolTable") and §4.2.
//
// Grounded on funxy's internal/symbols package (Define/Find idiom,
// outer-scope chaining), generalized from funxy's HM-typed Symbol
// (Type/Kind/IsConstant/...) to Sn's simpler
// Symbol{Type, MemQualifier, FunctionModifier, Kind}.
package symbols

import (
	"github.com/RealOrko/sindarin-sub010/internal/ast"
)

// Symbol is a single scope entry (spec §3 "SymbolTable").
type Symbol struct {
	Name             string
	Type             ast.Type
	MemQualifier     ast.MemQualifier
	FunctionModifier ast.FunctionModifier
	Kind             ast.SymbolKind
}

// Table is a stack of scopes, innermost last (spec §3 "SymbolTable": "A
// stack of scopes (innermost last)"). Each scope is implemented as a
// Table node chained to its outer scope, the same shape funxy's
// prelude-as-outer-scope pattern uses, specialized here to "module scope is
// outer of every function scope".
type Table struct {
	outer *Table
	names map[string]Symbol
}

// New creates the module-level (outermost) scope.
func New() *Table {
	return &Table{names: make(map[string]Symbol)}
}

// OpenScope pushes a new scope on top of t and returns it (spec §4.2
// "open_scope"). Callers keep using the returned *Table until CloseScope.
func (t *Table) OpenScope() *Table {
	return &Table{outer: t, names: make(map[string]Symbol)}
}

// CloseScope returns the enclosing scope, discarding everything declared in
// t (spec §4.2 "close_scope": "removes exactly the inner-scope
// declarations"). Calling CloseScope on the outermost scope returns nil.
func (t *Table) CloseScope() *Table {
	return t.outer
}

// Declare adds name to the current (innermost) scope. It refuses
// duplicates in the current scope (spec §4.2: "declare refuses duplicates
// in the current scope") and reports that with ok=false; it does not
// refuse shadowing a name from an outer scope.
func (t *Table) Declare(name string, sym Symbol) (ok bool) {
	if _, exists := t.names[name]; exists {
		return false
	}
	sym.Name = name
	t.names[name] = sym
	return true
}

// Lookup walks from the innermost scope outward (spec §4.2 "lookup(name) →
// Option<&Symbol>").
func (t *Table) Lookup(name string) (Symbol, bool) {
	for s := t; s != nil; s = s.outer {
		if sym, ok := s.names[name]; ok {
			return sym, true
		}
	}
	return Symbol{}, false
}

// LookupInCurrent only checks the innermost scope (spec §4.2
// "lookup_in_current(name)").
func (t *Table) LookupInCurrent(name string) (Symbol, bool) {
	sym, ok := t.names[name]
	return sym, ok
}

// IsOutermost reports whether t has no enclosing scope (the module scope).
func (t *Table) IsOutermost() bool {
	return t.outer == nil
}

// LookupScoped resolves name starting at t, distinguishing a reference that
// resolves without crossing boundaryParent from one that only resolves by
// continuing past it. The checker uses this to decide free-variable capture
// for a lambda (spec §4.3 "Lambda": "captured free variables are recorded in
// captured_vars/captured_types"): boundaryParent is the scope active just
// before the lambda's own parameter scope was opened, so a name declared in
// the lambda's own parameters or nested blocks resolves with captured=false,
// while a name from an enclosing function or module scope resolves with
// captured=true.
func (t *Table) LookupScoped(boundaryParent *Table, name string) (sym Symbol, found bool, captured bool) {
	for s := t; s != nil && s != boundaryParent; s = s.outer {
		if sym, ok := s.names[name]; ok {
			return sym, true, false
		}
	}
	for s := boundaryParent; s != nil; s = s.outer {
		if sym, ok := s.names[name]; ok {
			return sym, true, true
		}
	}
	return Symbol{}, false, false
}
