// Package lexer provides the token model consumed by the SQL grammar and a
// small allocation-free tokenizer that produces it.
package lexer

import (
	"fmt"
	"strings"
)

// TokenType identifies the type of a SQL token.
type TokenType uint16

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENT  // plain, "double quoted" or `backtick quoted`
	NUMBER // 42, 3.14, 1e9
	STRING // 'single quoted'

	// Operators & punctuation
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	DOT       // .
	STAR      // *
	PLUS      // +
	MINUS     // -
	SLASH     // /
	PERCENT   // %
	EQ        // =
	NEQ       // != or <>
	LT        // <
	LTE       // <=
	GT        // >
	GTE       // >=
	AMPERSAND // &
	PIPE      // |
	DBAR      // ||

	// Keywords
	kwSTART // marker
	AND
	AS
	BY
	CONSTRAINT
	CREATE
	FROM
	GROUP
	HAVING
	INSERT
	INTO
	KEY
	NULL_KW
	OR
	PRIMARY
	REFERENCES
	SELECT
	TABLE
	UNIQUE
	VALUES
	WHERE
	kwEND // marker
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return "UNKNOWN"
}

// IsKeyword reports whether the type is a reserved word.
func (t TokenType) IsKeyword() bool {
	return t > kwSTART && t < kwEND
}

var tokenNames = [...]string{
	ILLEGAL:    "ILLEGAL",
	EOF:        "EOF",
	IDENT:      "IDENT",
	NUMBER:     "NUMBER",
	STRING:     "STRING",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACKET:   "[",
	RBRACKET:   "]",
	COMMA:      ",",
	SEMICOLON:  ";",
	DOT:        ".",
	STAR:       "*",
	PLUS:       "+",
	MINUS:      "-",
	SLASH:      "/",
	PERCENT:    "%",
	EQ:         "=",
	NEQ:        "!=",
	LT:         "<",
	LTE:        "<=",
	GT:         ">",
	GTE:        ">=",
	AMPERSAND:  "&",
	PIPE:       "|",
	DBAR:       "||",
	AND:        "AND",
	AS:         "AS",
	BY:         "BY",
	CONSTRAINT: "CONSTRAINT",
	CREATE:     "CREATE",
	FROM:       "FROM",
	GROUP:      "GROUP",
	HAVING:     "HAVING",
	INSERT:     "INSERT",
	INTO:       "INTO",
	KEY:        "KEY",
	NULL_KW:    "NULL",
	OR:         "OR",
	PRIMARY:    "PRIMARY",
	REFERENCES: "REFERENCES",
	SELECT:     "SELECT",
	TABLE:      "TABLE",
	UNIQUE:     "UNIQUE",
	VALUES:     "VALUES",
	WHERE:      "WHERE",
}

// Token represents a single SQL token. Raw is a slice into the original
// input; nothing is copied while lexing.
type Token struct {
	// Raw is the exact bytes from the source (not unescaped).
	Raw []byte
	// Type is the token classification.
	Type TokenType
	// Pos is the byte offset of the first character.
	Pos int32
	// Line and Col are 1-based source positions.
	Line uint32
	Col  uint32
}

// NewToken builds a token of the given type from literal text. It is meant for
// callers that produce tokens without going through the Lexer.
func NewToken(typ TokenType, raw string) Token {
	if raw == "" && typ != IDENT && typ != NUMBER && typ != STRING {
		raw = typ.String()
	}
	return Token{Type: typ, Raw: []byte(raw)}
}

// Is reports whether the token is of the given type.
func (t Token) Is(typ TokenType) bool {
	return t.Type == typ
}

// Equal reports exact-match equality. Keywords and punctuation compare by
// type only; literal tokens also compare their payload.
func (t Token) Equal(o Token) bool {
	if t.Type != o.Type {
		return false
	}
	switch t.Type {
	case IDENT, NUMBER, STRING, ILLEGAL:
		return t.Value() == o.Value()
	}
	return true
}

// Value returns the literal payload of the token: the unquoted name of an
// identifier, the unescaped contents of a string literal, or the text of a
// number. Other tokens return their raw text.
func (t Token) Value() string {
	switch t.Type {
	case IDENT:
		if len(t.Raw) >= 2 && (t.Raw[0] == '"' || t.Raw[0] == '`') && t.Raw[len(t.Raw)-1] == t.Raw[0] {
			return unquote(t.Raw, t.Raw[0])
		}
	case STRING:
		if len(t.Raw) >= 2 && t.Raw[0] == '\'' && t.Raw[len(t.Raw)-1] == '\'' {
			return unquote(t.Raw, '\'')
		}
	}
	return string(t.Raw)
}

// String renders the token for error messages.
func (t Token) String() string {
	switch t.Type {
	case IDENT:
		return fmt.Sprintf("identifier %q", t.Value())
	case NUMBER:
		return "number " + string(t.Raw)
	case STRING:
		return "string " + string(t.Raw)
	case EOF:
		return "end of input"
	case ILLEGAL:
		return fmt.Sprintf("illegal character %q", t.Raw)
	}
	return t.Type.String()
}

// unquote strips the delimiters and collapses doubled delimiters.
func unquote(raw []byte, delim byte) string {
	inner := raw[1 : len(raw)-1]
	if !strings.Contains(string(inner), string(delim)) {
		return string(inner)
	}
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		b.WriteByte(inner[i])
		if inner[i] == delim && i+1 < len(inner) && inner[i+1] == delim {
			i++
		}
	}
	return b.String()
}
