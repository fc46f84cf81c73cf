// Package pipeline orchestrates a single compilation: check, then emit,
// then write (spec §4 "Pipeline"). It documents, without implementing, the
// handoff points to the external lexer/parser and C-compiler driver (spec
// §6.1/§6.3): a caller hands in an already-parsed *ast.Module, and gets
// back emitted C source plus the list of diagnostics recorded by every
// stage (Result.Diagnostics).
//
// Grounded on funxy's internal/pipeline.Pipeline{processors}.Run: a tiny
// sequential-stage runner threading a context through each stage. Sn's
// core has exactly two stages (check, emit) with a fixed data dependency
// between them (emit never runs over a module the checker rejected), so
// the processors/context abstraction is flattened into a single Run
// function rather than reproduced as an interface with one real
// implementation.
package pipeline

import (
	"log"

	"github.com/RealOrko/sindarin-sub010/internal/arena"
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/checker"
	"github.com/RealOrko/sindarin-sub010/internal/config"
	"github.com/RealOrko/sindarin-sub010/internal/diagnostics"
	"github.com/RealOrko/sindarin-sub010/internal/emitter"
)

// Options configures a single Run (spec §6.3/§6.4 describe the externally-
// driven surface this mirrors: a C standard/flags set, and a Verbose flag
// for ambient tracing).
type Options struct {
	Compiler config.CompilerOptions

	// OutputPath, when non-empty, has the emitted C source written to it
	// atomically (via emitter.WriteFile) as part of Run.
	OutputPath string
}

// Result is everything a caller needs after a Run: the emitted C source (if
// the compilation succeeded), a traceable BuildID (spec: "stamped into the
// generated C file's header comment ... and into pipeline.Result.BuildID"),
// and every diagnostic recorded by either stage.
type Result struct {
	Source      string
	BuildID     string
	Diagnostics []*diagnostics.Diagnostic
	OK          bool
}

// Run checks m, and on success, emits it to C and (if Options.OutputPath is
// set) writes the result atomically. Emission never runs over a module the
// checker rejected (spec §7: a failed check is terminal — there is no
// partial/best-effort emission).
func Run(m *ast.Module, opts Options) Result {
	a := arena.NewWithChunkSize(m.Filename, opts.Compiler.ArenaChunkBytes)

	checkDiags, ok := checker.Check(a, m, opts.Compiler)
	if opts.Compiler.Verbose {
		log.Printf("pipeline: check of %s produced %d diagnostic(s), ok=%v", m.Filename, len(checkDiags), ok)
	}
	if !ok {
		return Result{Diagnostics: checkDiags, OK: false}
	}

	src, buildID, emitDiags, ok := emitter.Emit(a, m, opts.Compiler)
	allDiags := append(checkDiags, emitDiags...)
	if opts.Compiler.Verbose {
		log.Printf("pipeline: emit of %s (build %s) produced %d diagnostic(s), ok=%v", m.Filename, buildID, len(emitDiags), ok)
		log.Printf("pipeline: arena stats: %s", a.Stats().String())
	}
	if !ok {
		return Result{BuildID: buildID, Diagnostics: allDiags, OK: false}
	}

	if opts.OutputPath != "" {
		if d := emitter.WriteFile(opts.OutputPath, src); d != nil {
			allDiags = append(allDiags, d)
			return Result{Source: src, BuildID: buildID, Diagnostics: allDiags, OK: false}
		}
	}

	return Result{Source: src, BuildID: buildID, Diagnostics: allDiags, OK: true}
}
