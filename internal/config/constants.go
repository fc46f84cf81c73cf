// Package config holds fixed name tables for the emitted C ABI (spec
// §6.2) and the sn.yaml-loaded compiler options (options.go), in the same
// "plain const tables + a small loader" shape as funxy's
// internal/config/constants.go.
package config

// DefaultCC is the C compiler invoked by the external driver when $SN_CC
// is unset (spec §6.3). Reserved: the driver that reads this is an
// external process (spec §1/§6.3 non-goal), not Go code in this module,
// so nothing here calls it — it documents the contract that driver must
// honor.
const DefaultCC = "gcc"

// DefaultStd is the C standard passed via -std=$SN_STD when $SN_STD is
// unset (spec §6.3). Reserved, same as DefaultCC.
const DefaultStd = "c99"

// Environment variable names the external driver recognizes (spec §6.3).
// Reserved, same as DefaultCC: documentation of the driver's contract,
// not consumed by this module.
const (
	EnvCC           = "SN_CC"
	EnvStd          = "SN_STD"
	EnvDebugCFlags  = "SN_DEBUG_CFLAGS"
	EnvReleaseCFlags = "SN_RELEASE_CFLAGS"
	EnvCFlags       = "SN_CFLAGS"
	EnvLDFlags      = "SN_LDFLAGS"
	EnvLDLibs       = "SN_LDLIBS"
)

// Built-in array method names (spec §4.3 "Member").
const (
	MethodLength    = "length"
	MethodPush      = "push"
	MethodPop       = "pop"
	MethodInsert    = "insert"
	MethodRemove    = "remove"
	MethodReverse   = "reverse"
	MethodClone     = "clone"
	MethodConcat    = "concat"
	MethodIndexOf   = "indexOf"
	MethodContains  = "contains"
	MethodJoin      = "join"
	MethodClear     = "clear"
)

// Built-in string method names (spec §4.3 "Member").
const (
	MethodToUpper    = "toUpper"
	MethodToLower    = "toLower"
	MethodTrim       = "trim"
	MethodSubstring  = "substring"
	MethodStartsWith = "startsWith"
	MethodEndsWith   = "endsWith"
	MethodReplace    = "replace"
	MethodSplit      = "split"
)

// ElementTypeSuffixes maps an ast element type's String() form to the
// rt_array_*_<suffix> runtime symbol suffix (spec §6.2: "for each element
// type T ∈ {long, double, char, bool, string}").
var ElementTypeSuffixes = map[string]string{
	"int":    "long",
	"double": "double",
	"char":   "char",
	"bool":   "bool",
	"string": "string",
}
