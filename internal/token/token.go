// Package token defines the wire format produced by the external lexer.
//
// The lexer is an external collaborator (see spec §1/§6.1): it owns
// scanning source bytes into a stream of Tokens. This package only pins
// down the shape both sides agree on.
package token

// Kind tags the lexical category of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// Literals
	IDENT
	INT
	DOUBLE
	CHAR
	STRING
	INTERP_STRING // an interpolated $"..." string literal with {...} parts
	TRUE
	FALSE

	// Operators
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	ASSIGN
	EQ
	NOT_EQ
	LT
	LT_EQ
	GT
	GT_EQ
	AND
	OR
	BANG
	PLUS_PLUS
	MINUS_MINUS
	DOT
	DOT_DOT // range "..", as in 1..3
	COMMA
	COLON
	SEMICOLON
	ARROW // "=>"
	ELLIPSIS // spread "..."

	// Delimiters
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET

	// Keywords
	FN
	RETURN
	IF
	ELSE
	WHILE
	FOR
	IN
	BREAK
	CONTINUE
	IMPORT
	SHARED
	PRIVATE
	AS
	REF
	VAL
	VAR
	INT_TYPE
	DOUBLE_TYPE
	CHAR_TYPE
	STRING_TYPE
	BOOL_TYPE
	VOID_TYPE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", IDENT: "IDENT", INT: "INT", DOUBLE: "DOUBLE",
	CHAR: "CHAR", STRING: "STRING", INTERP_STRING: "INTERP_STRING", TRUE: "TRUE", FALSE: "FALSE",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", ASSIGN: "=",
	EQ: "==", NOT_EQ: "!=", LT: "<", LT_EQ: "<=", GT: ">", GT_EQ: ">=",
	AND: "&&", OR: "||", BANG: "!", PLUS_PLUS: "++", MINUS_MINUS: "--",
	DOT: ".", DOT_DOT: "..", COMMA: ",", COLON: ":", SEMICOLON: ";",
	ARROW: "=>", ELLIPSIS: "...",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	FN: "fn", RETURN: "return", IF: "if", ELSE: "else", WHILE: "while", FOR: "for",
	IN: "in", BREAK: "break", CONTINUE: "continue", IMPORT: "import",
	SHARED: "shared", PRIVATE: "private", AS: "as", REF: "ref", VAL: "val", VAR: "var",
	INT_TYPE: "int", DOUBLE_TYPE: "double", CHAR_TYPE: "char", STRING_TYPE: "string",
	BOOL_TYPE: "bool", VOID_TYPE: "void",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// Token is a single lexeme produced by the external lexer.
//
// Lexeme is a slice into the lexer's source buffer; the AST never retains a
// Token's Lexeme directly — every AST constructor duplicates it into the
// arena (see internal/ast's dupToken, built on arena.DupString) so nodes
// outlive the source buffer. The only exception is the Invalid sentinel a
// constructor returns for a missing child, which keeps the token as given.
type Token struct {
	Kind     Kind
	Lexeme   string
	Line     int
	Filename string
}

// String renders the token for diagnostics and debug printing.
func (t Token) String() string {
	return t.Lexeme
}

// Zero reports whether t is the unset sentinel Token{}.
func (t Token) Zero() bool {
	return t.Kind == ILLEGAL && t.Lexeme == "" && t.Line == 0 && t.Filename == ""
}
