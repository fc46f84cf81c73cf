package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CompilerOptions is the optional sn.yaml configuration, loaded next to a
// compilation the same way funxy's ext package loads funxy.yaml
// (internal/ext/config.go: a small yaml.v3-tagged struct, no framework).
// Every field has a sensible zero value, so a missing sn.yaml is
// equivalent to CompilerOptions{}.
type CompilerOptions struct {
	// CStd overrides the default C standard (-std=) the driver passes
	// through; empty means DefaultStd.
	CStd string `yaml:"c_std"`

	// StrictQualifiers rejects a heap-typed parameter declared with no
	// memory qualifier, requiring an explicit "as val" instead of letting
	// the default (spec §4.3's plain pass-by-reference semantics) apply
	// silently (internal/checker.checkMemQualifier). Off by default to
	// match spec §4.3's Default semantics.
	StrictQualifiers bool `yaml:"strict_qualifiers"`

	// ArenaChunkBytes sizes the compiler's own Arena accounting unit
	// (internal/arena.NewWithChunkSize, used by internal/pipeline.Run); it
	// does not affect emitted C.
	ArenaChunkBytes int `yaml:"arena_chunk_bytes"`

	// Verbose enables pipeline-level logging of per-stage diagnostic counts
	// and arena stats (SPEC_FULL.md §2.2).
	Verbose bool `yaml:"verbose"`
}

// DefaultOptions returns the zero-config defaults.
func DefaultOptions() CompilerOptions {
	return CompilerOptions{CStd: DefaultStd, ArenaChunkBytes: 4096}
}

// LoadOptions reads and parses an sn.yaml file at path. A missing file is
// not an error: it returns DefaultOptions(), matching the "optional
// project config" convention funxy's ext.Config follows.
func LoadOptions(path string) (CompilerOptions, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return opts, nil
		}
		return opts, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if opts.CStd == "" {
		opts.CStd = DefaultStd
	}
	if opts.ArenaChunkBytes == 0 {
		opts.ArenaChunkBytes = 4096
	}
	return opts, nil
}
