// Package arena implements the bump-style region allocator the rest of the
// compiler uses for every AST node, Type, duplicated token lexeme, symbol
// entry, and emitted text buffer (spec §2.1, §3 "Invariants").
//
// Go does not give user code manual frees, so "allocation" here is mostly
// bookkeeping: Arena hands back Go-heap objects but tracks how many bytes
// and chunks a compilation used, and Reset drops the root reference so the
// whole tree becomes collectible at once — the same "bulk reset, no
// individual frees" discipline the spec describes, translated to a GC'd
// host language rather than reimplemented as raw memory management.
package arena

import (
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/dustin/go-humanize"
)

// defaultChunkSize is the nominal bump-allocation unit tracked for Stats
// when no CompilerOptions.ArenaChunkBytes override is given; it has no
// effect on Go's actual allocator but keeps the accounting shape (bytes per
// chunk, chunk count) the spec's "bump-style region" language implies.
const defaultChunkSize = 4096

// Arena is a region: every allocation made through it is reclaimed together
// when the arena (or its root ancestor) is Reset.
type Arena struct {
	parent    *Arena
	children  []*Arena
	name      string
	chunkSize int64

	bytes  int64
	allocs int64
	dead   bool
}

// New creates a root arena with no parent, using defaultChunkSize for Stats
// accounting.
func New(name string) *Arena {
	return &Arena{name: name, chunkSize: defaultChunkSize}
}

// NewWithChunkSize creates a root arena whose Stats() chunk accounting uses
// chunkBytes instead of defaultChunkSize (config.CompilerOptions.
// ArenaChunkBytes, spec §2.1/§4.1's "bump-style region" sizing knob). A
// non-positive chunkBytes falls back to defaultChunkSize.
func NewWithChunkSize(name string, chunkBytes int) *Arena {
	if chunkBytes <= 0 {
		chunkBytes = defaultChunkSize
	}
	return &Arena{name: name, chunkSize: int64(chunkBytes)}
}

// NewChild creates a child arena whose lifetime is bounded by its parent's:
// destroying the parent also invalidates the child. This mirrors the
// emitter's per-scope and per-loop-iteration arenas (spec §4.4), at the
// compiler's own (not emitted C's) allocation layer.
func (a *Arena) NewChild(name string) *Arena {
	if a.dead {
		panic("arena: NewChild on a destroyed arena")
	}
	c := &Arena{parent: a, name: name, chunkSize: a.chunkSize}
	a.children = append(a.children, c)
	return c
}

// Alloc accounts for an allocation of n bytes and returns a fresh value of
// type T backed by ordinary Go-heap memory. Out-of-memory is not
// something the Go runtime lets us intercept cheaply; per spec §4.1 ("a
// fatal error terminates the process"), a failed allocation request (n<0,
// or use-after-reset) is treated as the fatal condition instead.
func Alloc[T any](a *Arena) *T {
	if a == nil {
		panic("arena: Alloc on nil arena")
	}
	if a.dead {
		fatal("arena: allocation on a destroyed arena %q", a.name)
	}
	var v T
	a.bytes += sizeOf(v)
	a.allocs++
	return &v
}

// AllocSlice accounts for and returns a zero-valued slice of length n.
func AllocSlice[T any](a *Arena, n int) []T {
	if a == nil {
		panic("arena: AllocSlice on nil arena")
	}
	if a.dead {
		fatal("arena: allocation on a destroyed arena %q", a.name)
	}
	if n < 0 {
		fatal("arena: negative slice length %d", n)
	}
	s := make([]T, n)
	var zero T
	a.bytes += sizeOf(zero) * int64(n)
	a.allocs++
	return s
}

// DupString copies s into an arena-owned, independently-backed string so the
// arena's lifetime — not the original buffer's — governs it. This is how
// AST nodes duplicate a Token's Lexeme (spec §3 "Token").
func DupString(a *Arena, s string) string {
	if a == nil {
		panic("arena: DupString on nil arena")
	}
	if a.dead {
		fatal("arena: allocation on a destroyed arena %q", a.name)
	}
	b := make([]byte, len(s))
	copy(b, s)
	a.bytes += int64(len(b))
	a.allocs++
	return string(b)
}

// Reset destroys the arena and every descendant, invalidating all values
// allocated from any of them (spec §3 "Invariants": "arena destruction
// invalidates all of them"). Go's GC will reclaim the backing memory once
// nothing outside the freed tree still references it; Reset's job is to
// enforce the discipline, not to recover bytes by hand.
func (a *Arena) Reset() {
	if a == nil || a.dead {
		return
	}
	for _, c := range a.children {
		c.Reset()
	}
	a.children = nil
	a.dead = true
}

// Live reports whether the arena (and, transitively, every ancestor) has not
// been Reset.
func (a *Arena) Live() bool {
	for n := a; n != nil; n = n.parent {
		if n.dead {
			return false
		}
	}
	return true
}

// Name returns the debug label the arena was created with.
func (a *Arena) Name() string { return a.name }

// Stats summarizes an arena subtree's accounted allocation volume.
type Stats struct {
	Chunks int64
	Bytes  int64
	Allocs int64
}

// String renders Stats using humanize for a friendly byte count, e.g.
// "3.4 kB over 1 chunk(s) (142 allocations)" — surfaced by the pipeline's
// verbose mode (SPEC_FULL.md §2.2, §4).
func (s Stats) String() string {
	return fmt.Sprintf("%s over %d chunk(s) (%d allocations)", humanize.Bytes(uint64(s.Bytes)), s.Chunks, s.Allocs)
}

// Stats walks the arena and all live descendants and totals their
// accounted byte/alloc counts.
func (a *Arena) Stats() Stats {
	var s Stats
	a.collectStats(&s)
	unit := a.chunkSize
	if unit <= 0 {
		unit = defaultChunkSize
	}
	if s.Bytes > 0 {
		s.Chunks = (s.Bytes + unit - 1) / unit
		if s.Chunks == 0 {
			s.Chunks = 1
		}
	}
	return s
}

func (a *Arena) collectStats(s *Stats) {
	s.Bytes += a.bytes
	s.Allocs += a.allocs
	for _, c := range a.children {
		c.collectStats(s)
	}
}

var fatalCount int64

// fatal terminates the process with a diagnostic, per spec §4.1:
// "Out-of-memory from the arena is fatal: the process terminates with an
// error diagnostic." Tests never trigger this path (no test resets an
// arena out from under a live allocation); it exists for the same
// structural-impossibility guard the spec assigns to real OOM.
func fatal(format string, args ...any) {
	atomic.AddInt64(&fatalCount, 1)
	panic(fmt.Sprintf(format, args...))
}

func sizeOf[T any](v T) int64 {
	return int64(unsafe.Sizeof(v))
}
