package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	LITERAL
	IDENT
	DATATYPE

	ARITHMETIC
	COMPARISON
	BITWISE
	LOGICAL
	ASSIGN
	REF
	DEREF
	AS

	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LSQUARE
	RSQUARE
	COMMA
	COLON
	ARROW
	EOS

	FN
	LET
	MUT
	CONST
	STATIC
	IF
	ELIF
	ELSE
	WHILE
	LOOP
	BREAK
	CONTINUE
	RETURN
	IMPORT

	// Produced by the parser while rewriting the token sequence.
	SCOPE
	FUNCTION_CALL
	FUNCTION_PARAMS
	ARRAY_LITERAL
	TYPE_CAST
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:             "EOF",
		ILLEGAL:         "ILLEGAL",
		LITERAL:         "LITERAL",
		IDENT:           "IDENT",
		DATATYPE:        "DATATYPE",
		ARITHMETIC:      "ARITHMETIC",
		COMPARISON:      "COMPARISON",
		BITWISE:         "BITWISE",
		LOGICAL:         "LOGICAL",
		ASSIGN:          "ASSIGN",
		REF:             "REF",
		DEREF:           "DEREF",
		AS:              "AS",
		LPAREN:          "LPAREN",
		RPAREN:          "RPAREN",
		LBRACKET:        "LBRACKET",
		RBRACKET:        "RBRACKET",
		LSQUARE:         "LSQUARE",
		RSQUARE:         "RSQUARE",
		COMMA:           "COMMA",
		COLON:           "COLON",
		ARROW:           "ARROW",
		EOS:             "EOS",
		FN:              "FN",
		LET:             "LET",
		MUT:             "MUT",
		CONST:           "CONST",
		STATIC:          "STATIC",
		IF:              "IF",
		ELIF:            "ELIF",
		ELSE:            "ELSE",
		WHILE:           "WHILE",
		LOOP:            "LOOP",
		BREAK:           "BREAK",
		CONTINUE:        "CONTINUE",
		RETURN:          "RETURN",
		IMPORT:          "IMPORT",
		SCOPE:           "SCOPE",
		FUNCTION_CALL:   "FUNCTION_CALL",
		FUNCTION_PARAMS: "FUNCTION_PARAMS",
		ARRAY_LITERAL:   "ARRAY_LITERAL",
		TYPE_CAST:       "TYPE_CAST",
	}
	return data[t]
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Token is a source token as handed over by the lexer. Literal is set only for
// LITERAL tokens; Priority orders operators while the parser folds the
// sequence into nested nodes.
type Token struct {
	Kind     TokenKind
	Value    string
	Literal  LiteralValue
	Priority int
	Location Span
}

func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s(%s)", t.Kind, t.Literal)
	}
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)", t.Kind, t.Value)
	}
	return t.Kind.String()
}
