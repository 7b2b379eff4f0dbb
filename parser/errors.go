package parser

import (
	"errors"
	"fmt"

	"github.com/kestrel-db/sqlsyntax/lexer"
)

// ErrorKind classifies a rule failure.
type ErrorKind uint8

const (
	// ExpectingFirst means the first token examined by a rule did not
	// match and nothing was consumed. It is the only kind an alternation
	// may swallow to try a sibling production.
	ExpectingFirst ErrorKind = iota
	// Expecting means a rule committed to a production and then found
	// malformed input.
	Expecting
	// NoMoreTokens means a token was required but the input was exhausted.
	NoMoreTokens
	// Unsupported means the input uses syntax the grammar recognizes but
	// deliberately does not implement.
	Unsupported
	// TooDeep means expression or subquery nesting exceeded the parser's limit.
	TooDeep
)

var (
	// ErrUnsupported matches errors of kind Unsupported via errors.Is.
	ErrUnsupported = errors.New("unsupported syntax")
	// ErrTooDeep matches errors of kind TooDeep via errors.Is.
	ErrTooDeep = errors.New("nesting too deep")
)

// RuleError records a parse failure.
type RuleError struct {
	Kind ErrorKind
	// Context is a short label of what was expected, e.g. "identifier".
	Context string
	// Token is the offending token, or nil when the input was exhausted.
	Token *lexer.Token
}

func (e *RuleError) Error() string {
	switch e.Kind {
	case NoMoreTokens:
		return "No more tokens"
	case Unsupported:
		return fmt.Sprintf("%s is not supported; got %s", e.Context, e.got())
	case TooDeep:
		return fmt.Sprintf("%s; got %s", e.Context, e.got())
	}
	return fmt.Sprintf("Expecting %s; got %s", e.Context, e.got())
}

func (e *RuleError) got() string {
	if e.Token == nil {
		return "no more tokens"
	}
	return e.Token.String()
}

// Unwrap exposes the sentinel of the fatal kinds that have one.
func (e *RuleError) Unwrap() error {
	switch e.Kind {
	case Unsupported:
		return ErrUnsupported
	case TooDeep:
		return ErrTooDeep
	}
	return nil
}

// Soft reports whether the failure may be backtracked.
func (e *RuleError) Soft() bool {
	return e.Kind == ExpectingFirst
}

// Position returns the 1-based line and column of the offending token.
// ok is false when the input was exhausted.
func (e *RuleError) Position() (line, col uint32, ok bool) {
	if e.Token == nil {
		return 0, 0, false
	}
	return e.Token.Line, e.Token.Col, true
}

func newRuleError(kind ErrorKind, context string, tok *lexer.Token) *RuleError {
	return &RuleError{Kind: kind, Context: context, Token: tok}
}

// isSoft reports whether err is an ExpectingFirst failure.
func isSoft(err error) bool {
	var re *RuleError
	return errors.As(err, &re) && re.Soft()
}

// NotFirst escalates an ExpectingFirst failure to Expecting. Rules call it on
// every sub-parse that runs after their first token was consumed, which
// closes the backtracking window from that point on. Other errors, and nil,
// pass through unchanged.
func NotFirst(err error) error {
	var re *RuleError
	if errors.As(err, &re) && re.Kind == ExpectingFirst {
		return newRuleError(Expecting, re.Context, re.Token)
	}
	return err
}
