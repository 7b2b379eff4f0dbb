package parser

import (
	"github.com/kestrel-db/sqlsyntax/ast"
	"github.com/kestrel-db/sqlsyntax/lexer"
)

// ---- Expression parsing (precedence climbing) ----

var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.EQ:        ast.Equal,
	lexer.NEQ:       ast.NotEqual,
	lexer.LT:        ast.LessThan,
	lexer.LTE:       ast.LessThanOrEqual,
	lexer.GT:        ast.GreaterThan,
	lexer.GTE:       ast.GreaterThanOrEqual,
	lexer.AND:       ast.And,
	lexer.OR:        ast.Or,
	lexer.PLUS:      ast.Add,
	lexer.MINUS:     ast.Subtract,
	lexer.STAR:      ast.Multiply,
	lexer.AMPERSAND: ast.BitAnd,
	lexer.PIPE:      ast.BitOr,
	lexer.DBAR:      ast.Concatenate,
}

func parseBinaryOp(c *Cursor) (ast.BinaryOp, error) {
	t, ok := c.Peek()
	if !ok {
		return 0, c.Expecting("binary operator")
	}
	op, ok := binaryOps[t.Type]
	if !ok {
		return 0, c.Expecting("binary operator")
	}
	c.pos++
	return op, nil
}

func (p *Parser) parseExpr(c *Cursor) (ast.Expr, error) {
	return p.parsePrecedence(c, 0)
}

// parsePrecedence parses an expression whose binary operators all bind at
// least as tightly as minPrec. An operator below the threshold is left for
// the enclosing call, which started with a lower threshold.
func (p *Parser) parsePrecedence(c *Cursor, minPrec int) (ast.Expr, error) {
	if err := p.descend(c, "expression"); err != nil {
		return nil, err
	}
	defer p.ascend()

	left, err := p.parseBeginning(c)
	if err != nil {
		return nil, err
	}
	for {
		before := *c
		op, ok, err := Lookahead(c, parseBinaryOp)
		if err != nil {
			return nil, NotFirst(err)
		}
		if !ok {
			return left, nil
		}
		prec := op.Precedence()
		if prec < minPrec {
			*c = before
			return left, nil
		}
		// Left associative: the right operand only takes tighter operators.
		right, err := p.parsePrecedence(c, prec+1)
		if err != nil {
			return nil, NotFirst(err)
		}
		left = arenaNode(&p.arena.binaries, ast.BinaryExpr{Op: op, Left: left, Right: right})
	}
}

// parseBeginning parses a unary expression or a primary.
func (p *Parser) parseBeginning(c *Cursor) (ast.Expr, error) {
	if c.PopIf(lexer.PLUS) {
		// Unary plus is a no-op sign.
		e, err := p.parsePrecedence(c, ast.NegatePrecedence)
		if err != nil {
			return nil, NotFirst(err)
		}
		return e, nil
	}
	if c.PopIf(lexer.MINUS) {
		e, err := p.parsePrecedence(c, ast.NegatePrecedence)
		if err != nil {
			return nil, NotFirst(err)
		}
		return arenaNode(&p.arena.unaries, ast.UnaryExpr{Op: ast.Negate, Expr: e}), nil
	}
	if e, ok, err := Lookahead(c, Parens(p.parseExpr)); err != nil {
		return nil, err
	} else if ok {
		return e, nil
	}
	if name, ok := c.PopIfIdent(); ok {
		return p.parseIdentLed(c, name)
	}
	if s, ok := c.PopIfString(); ok {
		return arenaNode(&p.arena.strings, ast.StringLit{Value: s}), nil
	}
	if n, ok := c.PopIfNumber(); ok {
		return arenaNode(&p.arena.numbers, ast.Number{Lit: n}), nil
	}
	return nil, c.Expecting("identifier or number")
}

// parseIdentLed continues after an identifier: a function call, member
// access, or the bare identifier.
func (p *Parser) parseIdentLed(c *Cursor, name string) (ast.Expr, error) {
	if c.PopIf(lexer.LPAREN) {
		if c.PopIf(lexer.STAR) {
			if err := c.PopExpecting(lexer.RPAREN, ") after aggregate asterisk. e.g. (*)"); err != nil {
				return nil, NotFirst(err)
			}
			return &ast.AggregateAllCall{Name: name}, nil
		}
		args, err := CommaDelimited(p.parseExpr)(c)
		if err != nil {
			return nil, NotFirst(err)
		}
		if err := c.PopExpecting(lexer.RPAREN, ") after function arguments"); err != nil {
			return nil, NotFirst(err)
		}
		return &ast.FuncCall{Name: name, Args: args}, nil
	}
	if c.PopIf(lexer.DOT) {
		return nil, newRuleError(Unsupported, "member access", c.peekPtr())
	}
	return arenaNode(&p.arena.idents, ast.Ident{Name: name}), nil
}
