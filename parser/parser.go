// Package parser implements the SQL grammar as a backtracking recursive
// descent parser.
//
// Every grammar construct is a Rule over a Cursor. Rules fail in one of two
// ways: softly (ExpectingFirst, nothing consumed, try the next alternative)
// or fatally (everything else, abort the whole parse). Lookahead turns soft
// failures into "no match", which is how alternation is expressed; NotFirst
// turns them into fatal ones once a rule has committed.
package parser

import (
	"github.com/kestrel-db/sqlsyntax/ast"
	"github.com/kestrel-db/sqlsyntax/lexer"
)

// DefaultMaxDepth is the default limit on expression nesting.
const DefaultMaxDepth = 512

// Parser converts a token sequence into statements. A Parser is not safe for
// concurrent use; Reset lets one Parser serve many inputs.
type Parser struct {
	cur Cursor

	// arena owns the memory of expression nodes.
	arena arena

	depth    int
	maxDepth int
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth limits how deeply expressions and subqueries may nest. Inputs beyond the
// limit fail with a TooDeep error. n <= 0 restores the default.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		p.maxDepth = n
	}
}

// New creates a Parser over tokens.
func New(tokens []lexer.Token, opts ...Option) *Parser {
	p := &Parser{cur: NewCursor(tokens), maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// descend enters one nesting level of kind what, failing with TooDeep once
// the limit is reached. Each successful call is paired with ascend.
func (p *Parser) descend(c *Cursor, what string) error {
	if p.depth >= p.maxDepth {
		return newRuleError(TooDeep, what+" nesting exceeds limit", c.peekPtr())
	}
	p.depth++
	return nil
}

func (p *Parser) ascend() { p.depth-- }

// Reset reuses the parser with new input. Statements returned earlier stay
// valid.
func (p *Parser) Reset(tokens []lexer.Token) {
	p.cur = NewCursor(tokens)
	p.arena.reset()
	p.depth = 0
}

// ParseAll parses every remaining statement. Parsing is all-or-nothing: on
// error no statements are returned. Empty statements (a lone ;) produce no
// entry.
func (p *Parser) ParseAll() ([]ast.Statement, error) {
	var stmts []ast.Statement
	for {
		stmt, ok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return stmts, nil
		}
		stmts = append(stmts, stmt)
	}
}

// ParseOne parses the next non-empty statement. It returns (nil, nil) once
// the input is exhausted.
func (p *Parser) ParseOne() (ast.Statement, error) {
	stmt, _, err := p.next()
	return stmt, err
}

func (p *Parser) next() (ast.Statement, bool, error) {
	for {
		stmt, ok, err := Lookahead(&p.cur, p.parseStatement)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		if stmt != nil {
			return stmt, true, nil
		}
	}
	// The alternation only stops matching at end of input or in front of a
	// token no statement can start with.
	if tok, ok := p.cur.Peek(); ok {
		return nil, false, newRuleError(Expecting, "statement", &tok)
	}
	return nil, false, nil
}

// Parse parses a complete token sequence.
func Parse(tokens []lexer.Token, opts ...Option) ([]ast.Statement, error) {
	return New(tokens, opts...).ParseAll()
}

// ParseString tokenizes and parses src.
func ParseString(src string, opts ...Option) ([]ast.Statement, error) {
	return Parse(lexer.Tokenize([]byte(src), nil), opts...)
}

// ---- statement dispatch ----

// parseStatement parses one statement and its terminating semicolon. A bare
// semicolon is an empty statement and yields a nil Statement.
func (p *Parser) parseStatement(c *Cursor) (ast.Statement, error) {
	stmt, err := p.parseStatementBody(c)
	if err != nil {
		return nil, err
	}
	if stmt == nil {
		if err := c.PopExpecting(lexer.SEMICOLON, "semicolon"); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if err := c.PopExpecting(lexer.SEMICOLON, "semicolon"); err != nil {
		return nil, NotFirst(err)
	}
	return stmt, nil
}

func (p *Parser) parseStatementBody(c *Cursor) (ast.Statement, error) {
	if sel, ok, err := Lookahead(c, p.parseSelect); err != nil || ok {
		return statementOrNil(sel, ok), err
	}
	if ins, ok, err := Lookahead(c, p.parseInsert); err != nil || ok {
		return statementOrNil(ins, ok), err
	}
	if cr, ok, err := Lookahead(c, p.parseCreate); err != nil || ok {
		return statementOrNil(cr, ok), err
	}
	return nil, nil
}

// statementOrNil avoids wrapping a typed nil pointer in the interface.
func statementOrNil[T ast.Statement](s T, ok bool) ast.Statement {
	if !ok {
		return nil
	}
	return s
}
