package lexer

import (
	"unicode/utf8"
	"unsafe"
)

// Lexer tokenizes SQL input with zero heap allocations per token.
// It processes bytes directly and uses unsafe string conversion
// to avoid allocations in keyword lookups.
type Lexer struct {
	src  []byte
	pos  int
	line uint32
	col  uint32

	// scratch is reused to build lowercased keyword candidates.
	scratch [len(keywordsByLen)]byte
}

// New creates a Lexer for the given SQL source.
func New(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// NewString creates a Lexer for a string input, avoiding a copy via unsafe.
func NewString(src string) *Lexer {
	b := unsafe.Slice(unsafe.StringData(src), len(src))
	return &Lexer{src: b, line: 1, col: 1}
}

// Reset reuses the lexer with new source, avoiding allocating a new lexer.
func (l *Lexer) Reset(src []byte) {
	l.src = src
	l.pos = 0
	l.line = 1
	l.col = 1
}

// Next returns the next token from the input. Returns EOF when exhausted.
// All returned Token.Raw slices are sub-slices of the original source.
func (l *Lexer) Next() Token {
	for l.pos < len(l.src) {
		start := l.pos
		startLine := l.line
		startCol := l.col
		b := l.src[l.pos]

		switch {
		case b == '\n':
			l.pos++
			l.line++
			l.col = 1

		case b == '\r':
			l.pos++
			if l.pos < len(l.src) && l.src[l.pos] == '\n' {
				l.pos++
			}
			l.line++
			l.col = 1

		case isSpace(b):
			l.pos++
			l.col++
			for l.pos < len(l.src) && isSpace(l.src[l.pos]) {
				l.pos++
				l.col++
			}

		case b == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '-':
			// Single-line comment --
			l.pos += 2
			l.col += 2
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
				l.col++
			}

		case b == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			// Block comment /* ... */
			l.pos += 2
			l.col += 2
			for l.pos < len(l.src) {
				if l.src[l.pos] == '\n' {
					l.line++
					l.col = 1
					l.pos++
				} else if l.src[l.pos] == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
					l.pos += 2
					l.col += 2
					break
				} else {
					l.pos++
					l.col++
				}
			}

		case isDigit(b) || (b == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			return l.lexNumber(start, startLine, startCol)

		case b == '\'':
			return l.lexQuoted(start, startLine, startCol, '\'', STRING)

		case b == '"' || b == '`':
			return l.lexQuoted(start, startLine, startCol, b, IDENT)

		case isAlpha(b):
			return l.lexIdent(start, startLine, startCol)

		default:
			return l.lexPunct(start, startLine, startCol)
		}
	}
	return Token{Type: EOF, Pos: int32(l.pos), Line: l.line, Col: l.col}
}

// lexIdent scans an identifier or keyword.
func (l *Lexer) lexIdent(start int, line, col uint32) Token {
	l.pos++
	l.col++
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
		l.col++
	}
	raw := l.src[start:l.pos]

	n := len(raw)
	if n >= len(l.scratch) {
		// Longer than any keyword.
		return Token{Type: IDENT, Raw: raw, Pos: int32(start), Line: line, Col: col}
	}
	for i, c := range raw {
		if c >= 'A' && c <= 'Z' {
			l.scratch[i] = c + 32
		} else {
			l.scratch[i] = c
		}
	}
	tok := lookupKeyword(l.scratch[:n])
	return Token{Type: tok, Raw: raw, Pos: int32(start), Line: line, Col: col}
}

// lexNumber scans integer or decimal literals with an optional exponent.
func (l *Lexer) lexNumber(start int, line, col uint32) Token {
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
		l.col++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' {
		l.pos++
		l.col++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
			l.col++
		}
	}
	if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
		next := l.pos + 1
		if next < len(l.src) && (l.src[next] == '+' || l.src[next] == '-') {
			next++
		}
		if next < len(l.src) && isDigit(l.src[next]) {
			l.col += uint32(next - l.pos)
			l.pos = next
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
				l.col++
			}
		}
	}
	return Token{Type: NUMBER, Raw: l.src[start:l.pos], Pos: int32(start), Line: line, Col: col}
}

// lexQuoted scans a single, double, or backtick quoted token. A doubled
// delimiter is an escape. An unterminated literal is ILLEGAL.
func (l *Lexer) lexQuoted(start int, line, col uint32, delim byte, typ TokenType) Token {
	l.pos++ // skip opening delimiter
	l.col++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == delim {
			l.pos++
			l.col++
			if l.pos < len(l.src) && l.src[l.pos] == delim {
				l.pos++
				l.col++
				continue
			}
			return Token{Type: typ, Raw: l.src[start:l.pos], Pos: int32(start), Line: line, Col: col}
		}
		if c == '\n' {
			l.line++
			l.col = 1
			l.pos++
			continue
		}
		if c >= utf8.RuneSelf {
			_, size := utf8.DecodeRune(l.src[l.pos:])
			l.pos += size
			l.col++
			continue
		}
		l.pos++
		l.col++
	}
	return Token{Type: ILLEGAL, Raw: l.src[start:l.pos], Pos: int32(start), Line: line, Col: col}
}

// lexPunct handles single and multi-character punctuation/operators.
func (l *Lexer) lexPunct(start int, line, col uint32) Token {
	b := l.src[l.pos]
	l.pos++
	l.col++

	peek := func() byte {
		if l.pos < len(l.src) {
			return l.src[l.pos]
		}
		return 0
	}
	advance := func() {
		l.pos++
		l.col++
	}

	var typ TokenType
	switch b {
	case '(':
		typ = LPAREN
	case ')':
		typ = RPAREN
	case '[':
		typ = LBRACKET
	case ']':
		typ = RBRACKET
	case ',':
		typ = COMMA
	case ';':
		typ = SEMICOLON
	case '.':
		typ = DOT
	case '*':
		typ = STAR
	case '+':
		typ = PLUS
	case '-':
		typ = MINUS
	case '/':
		typ = SLASH
	case '%':
		typ = PERCENT
	case '=':
		typ = EQ
	case '&':
		typ = AMPERSAND
	case '!':
		if peek() == '=' {
			advance()
			typ = NEQ
		} else {
			typ = ILLEGAL
		}
	case '<':
		switch peek() {
		case '=':
			advance()
			typ = LTE
		case '>':
			advance()
			typ = NEQ
		default:
			typ = LT
		}
	case '>':
		if peek() == '=' {
			advance()
			typ = GTE
		} else {
			typ = GT
		}
	case '|':
		if peek() == '|' {
			advance()
			typ = DBAR
		} else {
			typ = PIPE
		}
	default:
		if b >= utf8.RuneSelf {
			_, size := utf8.DecodeRune(l.src[start:])
			l.pos = start + size
		}
		typ = ILLEGAL
	}
	return Token{Type: typ, Raw: l.src[start:l.pos], Pos: int32(start), Line: line, Col: col}
}

// ---- character classification tables ----

var isSpaceTab = [256]bool{' ': true, '\t': true, '\v': true, '\f': true}

func isSpace(c byte) bool { return isSpaceTab[c] }

var identContTable [256]bool

func init() {
	for c := 'a'; c <= 'z'; c++ {
		identContTable[c] = true
	}
	for c := 'A'; c <= 'Z'; c++ {
		identContTable[c] = true
	}
	for c := '0'; c <= '9'; c++ {
		identContTable[c] = true
	}
	identContTable['_'] = true
	identContTable['$'] = true
}

func isIdentCont(c byte) bool { return identContTable[c] }
func isAlpha(c byte) bool     { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' }
func isDigit(c byte) bool     { return c >= '0' && c <= '9' }

// Tokenize lexes all tokens from src into buf, which is truncated first.
// The final token is always EOF. Pass a pre-allocated buffer to avoid
// growing the slice:
//
//	buf := make([]lexer.Token, 0, 128)
//	tokens := lexer.Tokenize(src, buf)
func Tokenize(src []byte, buf []Token) []Token {
	buf = buf[:0]
	l := New(src)
	for {
		t := l.Next()
		buf = append(buf, t)
		if t.Type == EOF {
			break
		}
	}
	return buf
}
