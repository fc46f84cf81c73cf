package ast

// MemQualifier is the source-level memory-discipline annotation on a
// variable declaration or parameter (spec §3 "Enumerations", §4.3 "Memory-
// qualifier rules").
type MemQualifier int

const (
	MemDefault MemQualifier = iota
	MemAsVal
	MemAsRef
)

func (q MemQualifier) String() string {
	switch q {
	case MemAsVal:
		return "as val"
	case MemAsRef:
		return "as ref"
	default:
		return ""
	}
}

// FunctionModifier is a function's shared/private/default annotation
// (spec §3, §4.3 "Function-modifier rules").
type FunctionModifier int

const (
	ModDefault FunctionModifier = iota
	ModShared
	ModPrivate
)

func (m FunctionModifier) String() string {
	switch m {
	case ModShared:
		return "shared"
	case ModPrivate:
		return "private"
	default:
		return ""
	}
}

// SymbolKind classifies a Symbol (spec §3 "SymbolTable").
type SymbolKind int

const (
	KindVariable SymbolKind = iota
	KindFunction
	KindParameter
)

func (k SymbolKind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindParameter:
		return "parameter"
	default:
		return "variable"
	}
}
