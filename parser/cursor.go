package parser

import "github.com/kestrel-db/sqlsyntax/lexer"

// Cursor is a read position over an immutable token sequence.
//
// A Cursor is a small value: copying it is O(1) and the copy moves
// independently of the original. Speculative parsing saves a copy, runs a
// rule against it, and either commits by assigning the copy back or drops
// it to roll back.
type Cursor struct {
	tokens []lexer.Token
	pos    int
}

// NewCursor returns a cursor at the start of tokens. A trailing EOF token,
// as produced by lexer.Tokenize, is not part of the sequence.
func NewCursor(tokens []lexer.Token) Cursor {
	if n := len(tokens); n > 0 && tokens[n-1].Type == lexer.EOF {
		tokens = tokens[:n-1]
	}
	return Cursor{tokens: tokens}
}

// Pos returns the index of the next token.
func (c *Cursor) Pos() int { return c.pos }

// Remaining returns the number of unconsumed tokens.
func (c *Cursor) Remaining() int { return len(c.tokens) - c.pos }

// Done reports whether every token has been consumed.
func (c *Cursor) Done() bool { return c.pos >= len(c.tokens) }

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (lexer.Token, bool) {
	if c.pos >= len(c.tokens) {
		return lexer.Token{}, false
	}
	return c.tokens[c.pos], true
}

// Pop consumes and returns the next token.
func (c *Cursor) Pop() (lexer.Token, error) {
	if c.pos >= len(c.tokens) {
		return lexer.Token{}, newRuleError(NoMoreTokens, "", nil)
	}
	t := c.tokens[c.pos]
	c.pos++
	return t, nil
}

// PopIf consumes the next token only if it has the given type.
func (c *Cursor) PopIf(typ lexer.TokenType) bool {
	if c.pos < len(c.tokens) && c.tokens[c.pos].Type == typ {
		c.pos++
		return true
	}
	return false
}

func (c *Cursor) popIfValue(typ lexer.TokenType) (string, bool) {
	if c.pos < len(c.tokens) && c.tokens[c.pos].Type == typ {
		v := c.tokens[c.pos].Value()
		c.pos++
		return v, true
	}
	return "", false
}

// PopIfIdent consumes an identifier and returns its name.
func (c *Cursor) PopIfIdent() (string, bool) { return c.popIfValue(lexer.IDENT) }

// PopIfString consumes a string literal and returns its contents.
func (c *Cursor) PopIfString() (string, bool) { return c.popIfValue(lexer.STRING) }

// PopIfNumber consumes a numeric literal and returns its text.
func (c *Cursor) PopIfNumber() (string, bool) { return c.popIfValue(lexer.NUMBER) }

// PopExpecting consumes a token of the given type or fails with
// ExpectingFirst, leaving the cursor where it was.
func (c *Cursor) PopExpecting(typ lexer.TokenType, context string) error {
	if c.PopIf(typ) {
		return nil
	}
	return c.Expecting(context)
}

// PopIdentExpecting consumes an identifier or fails with ExpectingFirst.
func (c *Cursor) PopIdentExpecting(context string) (string, error) {
	if v, ok := c.PopIfIdent(); ok {
		return v, nil
	}
	return "", c.Expecting(context)
}

// PopNumberExpecting consumes a numeric literal or fails with ExpectingFirst.
func (c *Cursor) PopNumberExpecting(context string) (string, error) {
	if v, ok := c.PopIfNumber(); ok {
		return v, nil
	}
	return "", c.Expecting(context)
}

// Expecting builds an ExpectingFirst failure naming the next token, without
// consuming anything.
func (c *Cursor) Expecting(context string) *RuleError {
	return newRuleError(ExpectingFirst, context, c.peekPtr())
}

func (c *Cursor) peekPtr() *lexer.Token {
	t, ok := c.Peek()
	if !ok {
		return nil
	}
	return &t
}
