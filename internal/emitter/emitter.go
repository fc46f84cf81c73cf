// Package emitter implements the C code generator described in spec §4.4:
// it walks a type-checked Module and lowers it to a self-contained C
// translation unit built on top of the rt_* runtime ABI (spec §6.2).
//
// Grounded on funxy's internal/backend.Backend interface shape (a single
// Run entry point plus a Name), adapted from "evaluate to a Go Object" to
// "lower to a C source string"; the buffer-growing style (accumulate into
// a strings.Builder, return the joined result) is the same one
// internal/printer uses for its bytes.Buffer-backed debug dump.
package emitter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/RealOrko/sindarin-sub010/internal/arena"
	"github.com/RealOrko/sindarin-sub010/internal/ast"
	"github.com/RealOrko/sindarin-sub010/internal/config"
	"github.com/RealOrko/sindarin-sub010/internal/diagnostics"
)

// Emitter is the walker state for lowering a single Module.
type Emitter struct {
	arena *arena.Arena
	opts  config.CompilerOptions
	sink  diagnostics.Sink

	header   strings.Builder
	forward  strings.Builder
	bodies   strings.Builder
	cur      *strings.Builder // the body buffer statements are currently written to
	curIndent int

	buildID string

	arenaSeq     int
	loopArenaSeq int
	lambdaSeq    int
	tempSeq      int

	// pendingLambdas collects LambdaExprs discovered while lowering function
	// bodies; each becomes an additional top-level C function, emitted after
	// every ordinary function (spec §4.4: "Lambdas → emitted as top-level C
	// functions ...; lambda_id is assigned sequentially at emission time").
	pendingLambdas []*ast.LambdaExpr

	// Per-function emission state, saved, reset and restored by
	// emitFunctionLikeWithPrelude.
	funcArenaVar  string // __arena_<n>__ of the function currently being lowered
	allocArena    string // arena var heap-producing expressions currently allocate from
	returnLabel   string
	returnType    ast.Type
	funcModifier  ast.FunctionModifier
	hasReturnVal  bool
	loopCtxStack  []loopCtx
	refVars       map[string]bool    // locals declared `as ref` in the current function
	valVars       map[string]ast.Type // locals declared `as val` in the current function

	// declaredFunctions is the set of Sn-level top-level function names,
	// populated before any body is lowered (mirrors the checker's naming
	// pass) so a Call's callee can be recognized as a direct function
	// reference, rather than a closure value, purely from its name.
	declaredFunctions map[string]bool

	exprOut string // result of the most recent emitExpr dispatch
}

// New creates an Emitter. a is the arena the emitter's own bookkeeping
// allocations (if any) would come from; the generated C text itself lives
// in ordinary Go strings.Builder buffers, since spec §4.4's "arena-backed
// growable strings" describes the compiler's memory discipline at the
// concept level, not a requirement that Go's own string buffers be
// arena-managed (Go already reclaims them via GC).
func New(a *arena.Arena, opts config.CompilerOptions) *Emitter {
	return &Emitter{arena: a, opts: opts, buildID: uuid.NewString()}
}

// Emit lowers m to a complete C translation unit. It must not be called on
// a Module that failed type checking (spec §7: "The emitter does not run
// if the checker reported any error").
func Emit(a *arena.Arena, m *ast.Module, opts config.CompilerOptions) (src string, buildID string, diags []*diagnostics.Diagnostic, ok bool) {
	e := New(a, opts)
	e.emitModule(m)
	diags = e.sink.Errors()
	if e.sink.HasErrors() {
		return "", e.buildID, diags, false
	}
	return e.assemble(), e.buildID, diags, true
}

func (e *Emitter) emitModule(m *ast.Module) {
	e.writeHeader()

	var fns []*ast.FunctionStmt
	var topLevel []ast.Stmt
	var mainFn *ast.FunctionStmt
	e.declaredFunctions = map[string]bool{}
	for _, stmt := range m.Statements {
		if fn, ok := stmt.(*ast.FunctionStmt); ok {
			fns = append(fns, fn)
			e.declaredFunctions[fn.Name] = true
			if fn.Name == "main" {
				mainFn = fn
			}
			continue
		}
		topLevel = append(topLevel, stmt)
	}

	for _, fn := range fns {
		e.emitFunction(fn)
	}

	e.writeMain(mainFn, topLevel)

	// Lambdas discovered while lowering the functions above (including an
	// implicit main built from top-level statements) become additional
	// top-level definitions, emitted after every user function (spec
	// §4.4). Lowering a lambda can itself discover further nested lambdas,
	// so drain the queue rather than ranging once.
	for len(e.pendingLambdas) > 0 {
		lam := e.pendingLambdas[0]
		e.pendingLambdas = e.pendingLambdas[1:]
		e.emitLambda(lam)
	}
}

// assemble joins the header, forward declarations, and bodies into the
// final translation unit, stamping the build-id header comment (SPEC_FULL
// §4: "traceable identity without affecting codegen semantics").
func (e *Emitter) assemble() string {
	var b strings.Builder
	fmt.Fprintf(&b, "/* sn build %s */\n", e.buildID)
	b.WriteString(e.header.String())
	b.WriteString("\n")
	b.WriteString(e.forward.String())
	b.WriteString("\n")
	b.WriteString(e.bodies.String())
	return b.String()
}

// writeHeader emits the fixed block of extern declarations for the subset
// of the runtime ABI (spec §6.2) the emitter's lowering rules below may
// invoke. A real driver links the precompiled runtime object files; these
// declarations only need to make the generated translation unit compile
// standalone against that ABI, so the set is comprehensive rather than
// trimmed to what one particular program uses.
func (e *Emitter) writeHeader() {
	h := &e.header
	h.WriteString("#include <stdbool.h>\n")
	h.WriteString("#include <stddef.h>\n")
	h.WriteString("#include <limits.h>\n\n")
	h.WriteString("typedef struct RtArena RtArena;\n")
	h.WriteString("typedef struct RtString RtString;\n")
	h.WriteString("typedef struct RtArray RtArray;\n")
	h.WriteString("typedef struct RtClosure RtClosure;\n\n")

	h.WriteString("extern RtArena *rt_arena_create(RtArena *parent);\n")
	h.WriteString("extern void rt_arena_destroy(RtArena *arena);\n")
	h.WriteString("extern void *rt_arena_alloc(RtArena *arena, size_t n);\n\n")

	for _, suf := range []string{"long", "double", "char", "bool", "string"} {
		fmt.Fprintf(h, "extern %s rt_add_%s(%s, %s);\n", arithResultCType(suf), suf2c(suf), suf2c(suf))
		fmt.Fprintf(h, "extern %s rt_sub_%s(%s, %s);\n", arithResultCType(suf), suf2c(suf), suf2c(suf))
		fmt.Fprintf(h, "extern %s rt_mul_%s(%s, %s);\n", arithResultCType(suf), suf2c(suf), suf2c(suf))
		fmt.Fprintf(h, "extern %s rt_div_%s(%s, %s);\n", arithResultCType(suf), suf2c(suf), suf2c(suf))
		fmt.Fprintf(h, "extern bool rt_eq_%s(%s, %s);\n", suf2c(suf), suf2c(suf))
		fmt.Fprintf(h, "extern bool rt_lt_%s(%s, %s);\n", suf2c(suf), suf2c(suf))
	}
	h.WriteString("extern long rt_mod_long(long, long);\n")
	h.WriteString("extern long rt_post_inc_long(long *);\n")
	h.WriteString("extern long rt_post_dec_long(long *);\n\n")

	h.WriteString("extern RtString *rt_string_literal(RtArena *arena, const char *data);\n")
	for _, suf := range []string{"long", "double", "char", "bool", "string"} {
		fmt.Fprintf(h, "extern RtString *rt_to_string_%s(RtArena *arena, %s);\n", suf, suf2c(suf))
	}
	h.WriteString("extern RtString *rt_str_concat(RtArena *arena, RtString *, RtString *);\n")
	h.WriteString("extern RtString *rt_str_clone(RtArena *arena, RtString *);\n")
	h.WriteString("extern long rt_str_length(RtString *);\n")
	h.WriteString("extern RtString *rt_str_substring(RtArena *arena, RtString *, long, long);\n")
	h.WriteString("extern RtString *rt_str_split(RtArena *arena, RtString *, RtString *);\n")
	h.WriteString("extern RtString *rt_str_replace(RtArena *arena, RtString *, RtString *, RtString *);\n")
	h.WriteString("extern RtString *rt_str_trim(RtArena *arena, RtString *);\n")
	h.WriteString("extern RtString *rt_str_toUpper(RtArena *arena, RtString *);\n")
	h.WriteString("extern RtString *rt_str_toLower(RtArena *arena, RtString *);\n")
	h.WriteString("extern long rt_str_indexOf(RtString *, RtString *);\n")
	h.WriteString("extern bool rt_str_startsWith(RtString *, RtString *);\n")
	h.WriteString("extern bool rt_str_endsWith(RtString *, RtString *);\n")
	h.WriteString("extern bool rt_str_contains(RtString *, RtString *);\n")
	h.WriteString("extern char rt_str_charAt(RtString *, long);\n\n")

	for _, suf := range []string{"long", "double", "char", "bool", "string"} {
		fmt.Fprintf(h, "extern RtArray *rt_array_create_%s(RtArena *arena, long count, %s *data);\n", suf, suf2c(suf))
		fmt.Fprintf(h, "extern long rt_array_length_%s(RtArray *);\n", suf)
		fmt.Fprintf(h, "extern %s rt_array_get_%s(RtArray *, long);\n", suf2c(suf), suf)
		fmt.Fprintf(h, "extern void rt_array_push_%s(RtArena *arena, RtArray *, %s);\n", suf, suf2c(suf))
		fmt.Fprintf(h, "extern %s rt_array_pop_%s(RtArray *);\n", suf2c(suf), suf)
		fmt.Fprintf(h, "extern void rt_array_insert_%s(RtArena *arena, RtArray *, long, %s);\n", suf, suf2c(suf))
		fmt.Fprintf(h, "extern void rt_array_remove_%s(RtArray *, long);\n", suf)
		fmt.Fprintf(h, "extern void rt_array_reverse_%s(RtArray *);\n", suf)
		fmt.Fprintf(h, "extern RtArray *rt_array_clone_%s(RtArena *arena, RtArray *);\n", suf)
		fmt.Fprintf(h, "extern RtArray *rt_array_concat_%s(RtArena *arena, RtArray *, RtArray *);\n", suf)
		fmt.Fprintf(h, "extern long rt_array_indexOf_%s(RtArray *, %s);\n", suf, suf2c(suf))
		fmt.Fprintf(h, "extern bool rt_array_contains_%s(RtArray *, %s);\n", suf, suf2c(suf))
		fmt.Fprintf(h, "extern RtString *rt_array_join_%s(RtArena *arena, RtArray *, RtString *);\n", suf)
		fmt.Fprintf(h, "extern void rt_array_clear_%s(RtArray *);\n", suf)
		fmt.Fprintf(h, "extern RtArray *rt_array_slice_%s(RtArena *arena, RtArray *, long, long, long);\n", suf)
		fmt.Fprintf(h, "extern bool rt_array_eq_%s(RtArray *, RtArray *);\n", suf)
	}
	h.WriteString("extern RtArray *rt_array_range_long(RtArena *arena, long start, long end);\n\n")

	for _, suf := range []string{"long", "double", "char", "bool", "string"} {
		fmt.Fprintf(h, "extern void rt_print_%s(%s);\n", suf, suf2c(suf))
		fmt.Fprintf(h, "extern void rt_print_array_%s(RtArray *);\n", suf)
	}
	h.WriteString("\n")

	// Closures (spec §4.4 "Lambdas → emitted as top-level C functions ...
	// with an explicit capture struct threaded as a parameter"): a lambda
	// used as a first-class value is a fat pointer pairing its generated C
	// function with an arena-owned capture block; calling through a value
	// of function type casts rt_closure_fn's result back to the statically
	// known signature before invoking it.
	h.WriteString("extern RtClosure *rt_closure_create(RtArena *arena, void *fn, void *captures);\n")
	h.WriteString("extern void *rt_closure_fn(RtClosure *);\n")
	h.WriteString("extern void *rt_closure_env(RtClosure *);\n\n")
}

// cFuncName derives the C symbol for a top-level Sn function named name,
// namespaced to avoid collisions with the runtime's rt_ prefix and C's own
// reserved "main".
func cFuncName(name string) string { return "sn_" + name }

func suf2c(suf string) string {
	switch suf {
	case "long":
		return "long"
	case "double":
		return "double"
	case "char":
		return "char"
	case "bool":
		return "bool"
	case "string":
		return "RtString *"
	default:
		return "long"
	}
}

// arithResultCType is the C type rt_add_<suf>/rt_sub_<suf>/... return:
// strings "add" by concatenating (handled separately by rt_str_concat in
// expression lowering; this declaration exists only so the header is
// self-consistent for every suffix), everything else returns its own type.
func arithResultCType(suf string) string {
	if suf == "string" {
		return "RtString *"
	}
	return suf2c(suf)
}

// write appends indented text to the current body buffer (spec §4.4's
// "function bodies" section of the output, or a lambda's own body while
// one is being lowered).
func (e *Emitter) write(format string, args ...any) {
	e.cur.WriteString(strings.Repeat("    ", e.curIndent))
	fmt.Fprintf(e.cur, format, args...)
	e.cur.WriteByte('\n')
}

func (e *Emitter) freshTemp(prefix string) string {
	e.tempSeq++
	return fmt.Sprintf("__%s_%d__", prefix, e.tempSeq)
}

// WriteFile writes src to path atomically: it writes to a temp file in the
// same directory, then renames over the destination, so a crash or
// concurrent reader never observes a partial file (spec §4.4 "Output":
// "final emission writes the whole file atomically"). An I/O failure is
// reported as a single CodeIOError diagnostic rather than a Go error, to
// match the rest of the compiler's diagnostic-first failure convention.
func WriteFile(path string, src string) *diagnostics.Diagnostic {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".sn-emit-*.c.tmp")
	if err != nil {
		return &diagnostics.Diagnostic{Code: diagnostics.CodeIOError, File: path, Message: fmt.Sprintf("creating temp file: %v", err)}
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &diagnostics.Diagnostic{Code: diagnostics.CodeIOError, File: path, Message: fmt.Sprintf("writing output: %v", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &diagnostics.Diagnostic{Code: diagnostics.CodeIOError, File: path, Message: fmt.Sprintf("closing output: %v", err)}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &diagnostics.Diagnostic{Code: diagnostics.CodeIOError, File: path, Message: fmt.Sprintf("renaming into place: %v", err)}
	}
	return nil
}
