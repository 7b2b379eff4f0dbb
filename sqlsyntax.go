// Package sqlsyntax parses a small SQL dialect into an AST.
//
// The grammar covers SELECT (comma cross joins, subqueries in FROM, WHERE,
// GROUP BY ... HAVING), INSERT (VALUES or SELECT source) and CREATE TABLE
// with column constraints. Parsing is all-or-nothing: one malformed
// statement fails the whole input and the first fatal error is returned.
//
// Usage:
//
//	stmts, err := sqlsyntax.ParseStatements("SELECT id FROM users WHERE id = 1;")
//	p := sqlsyntax.NewString(src)
//	for { stmt, err := p.Next(); if stmt == nil || err != nil { break } ... }
package sqlsyntax

import (
	"errors"

	"github.com/kestrel-db/sqlsyntax/ast"
	"github.com/kestrel-db/sqlsyntax/lexer"
	"github.com/kestrel-db/sqlsyntax/parser"
)

// Re-export core types so callers only import this package.
type (
	Statement       = ast.Statement
	Expr            = ast.Expr
	SelectStmt      = ast.SelectStmt
	InsertStmt      = ast.InsertStmt
	CreateStmt      = ast.CreateStmt
	CreateTableStmt = ast.CreateTableStmt
	RuleError       = parser.RuleError
	Option          = parser.Option
	Token           = lexer.Token
	TokenType       = lexer.TokenType
)

var (
	// ErrNoStatement is returned by ParseStatement for input that holds
	// only empty statements.
	ErrNoStatement = errors.New("sqlsyntax: no statement")

	ErrUnsupported = parser.ErrUnsupported
	ErrTooDeep     = parser.ErrTooDeep
)

// WithMaxDepth limits expression nesting. See parser.WithMaxDepth.
func WithMaxDepth(n int) Option { return parser.WithMaxDepth(n) }

// Parse parses an already tokenized input. A trailing EOF token is optional.
func Parse(tokens []Token, opts ...Option) ([]Statement, error) {
	return parser.Parse(tokens, opts...)
}

// ParseStatements parses semicolon-terminated SQL statements.
func ParseStatements(sql string, opts ...Option) ([]Statement, error) {
	return parser.Parse(tokenize(lexer.NewString(sql), nil), opts...)
}

// ParseStatement parses sql and returns its first statement. Every
// statement in sql must still be well formed.
func ParseStatement(sql string, opts ...Option) (Statement, error) {
	stmts, err := ParseStatements(sql, opts...)
	if err != nil {
		return nil, err
	}
	if len(stmts) == 0 {
		return nil, ErrNoStatement
	}
	return stmts[0], nil
}

// Parser is a reusable, stateful SQL parser.
// Reuse a Parser across calls to amortise token buffer and arena allocations.
type Parser struct {
	p    *parser.Parser
	toks []Token
}

// New creates a Parser backed by the given SQL bytes.
func New(src []byte, opts ...Option) *Parser {
	toks := lexer.Tokenize(src, nil)
	return &Parser{p: parser.New(toks, opts...), toks: toks}
}

// NewString creates a Parser backed by the given SQL string.
func NewString(src string, opts ...Option) *Parser {
	toks := tokenize(lexer.NewString(src), nil)
	return &Parser{p: parser.New(toks, opts...), toks: toks}
}

// Reset reuses the Parser with new input, reusing internal allocations.
// Statements returned before the reset stay valid.
func (p *Parser) Reset(src []byte) {
	p.toks = lexer.Tokenize(src, p.toks)
	p.p.Reset(p.toks)
}

// Next returns the next statement or (nil, nil) at end of input.
func (p *Parser) Next() (Statement, error) {
	return p.p.ParseOne()
}

// All parses all remaining statements.
func (p *Parser) All() ([]Statement, error) {
	return p.p.ParseAll()
}

// Tokenize breaks a SQL string into tokens, ending with EOF.
// The returned tokens reference the original byte slice to avoid copies.
// Provide a pre-allocated buffer to avoid heap allocation:
//
//	buf := make([]sqlsyntax.Token, 0, 128)
//	tokens := sqlsyntax.Tokenize([]byte(sql), buf)
func Tokenize(src []byte, buf []Token) []Token {
	return lexer.Tokenize(src, buf)
}

func tokenize(l *lexer.Lexer, buf []Token) []Token {
	buf = buf[:0]
	for {
		t := l.Next()
		buf = append(buf, t)
		if t.Type == lexer.EOF {
			return buf
		}
	}
}
