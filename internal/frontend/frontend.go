// Package frontend pins down the boundary between this core and the
// external lexer/parser (spec §1/§6.1: scanning and parsing are not
// implemented here). It gives the parser contract a named Go type without
// owning grammar or token-stream plumbing; internal/pipeline does not
// import it.
package frontend

import (
	"github.com/RealOrko/sindarin-sub010/internal/arena"
	"github.com/RealOrko/sindarin-sub010/internal/ast"
)

// Parser is anything that can drive internal/ast's constructors to
// produce a *ast.Module for a single source file. A real implementation
// owns its own lexing and recursive-descent (or whatever) parsing; all
// this core requires of it is the ability to hand back a Module built
// from ast.New* calls against the supplied arena, so every node it
// produces is arena-owned exactly like a Module internal/checker and
// internal/emitter's own tests build by hand.
//
// internal/pipeline.Run takes an already-parsed *ast.Module rather than
// a Parser directly, so swapping parser implementations never touches
// the check/emit stages.
type Parser interface {
	Parse(a *arena.Arena, filename string, source []byte) (*ast.Module, error)
}
