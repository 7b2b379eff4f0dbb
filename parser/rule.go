package parser

import "github.com/kestrel-db/sqlsyntax/lexer"

// Rule parses one grammar construct at the cursor.
//
// A rule that fails before consuming any token must return an
// ExpectingFirst error; once it has consumed a token every failure it
// returns must be fatal. On failure the cursor position is unspecified, so
// callers that want to continue after a failure go through Lookahead.
type Rule[T any] func(c *Cursor) (T, error)

// Lookahead attempts r on a copy of the cursor. On success the copy is
// committed and ok is true. An ExpectingFirst failure leaves the cursor
// untouched and reports ok == false with a nil error; this is how
// alternation picks among productions. Any other failure is returned as is,
// also without moving the cursor.
func Lookahead[T any](c *Cursor, r Rule[T]) (v T, ok bool, err error) {
	tentative := *c
	v, err = r(&tentative)
	if err == nil {
		*c = tentative
		return v, true, nil
	}
	var zero T
	if isSoft(err) {
		return zero, false, nil
	}
	return zero, false, err
}

// Series applies r through Lookahead until it stops matching and returns the
// matches in order. Zero matches is not an error.
func Series[T any](c *Cursor, r Rule[T]) ([]T, error) {
	var out []T
	for {
		v, ok, err := Lookahead(c, r)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// CommaDelimited parses r (, r)*. An ExpectingFirst failure of the first
// item propagates unchanged, so an empty list is never accepted; after a
// comma another item is mandatory and its failures are fatal.
func CommaDelimited[T any](r Rule[T]) Rule[[]T] {
	return func(c *Cursor) ([]T, error) {
		first, err := r(c)
		if err != nil {
			return nil, err
		}
		out := []T{first}
		for c.PopIf(lexer.COMMA) {
			v, err := r(c)
			if err != nil {
				return nil, NotFirst(err)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Parens parses ( r ). A missing ( is an ExpectingFirst failure, so the
// whole group can be an optional alternative; once ( is consumed the content
// and the closing ) are mandatory.
func Parens[T any](r Rule[T]) Rule[T] {
	return func(c *Cursor) (T, error) {
		var zero T
		if err := c.PopExpecting(lexer.LPAREN, "("); err != nil {
			return zero, err
		}
		v, err := r(c)
		if err != nil {
			return zero, NotFirst(err)
		}
		if err := c.PopExpecting(lexer.RPAREN, ")"); err != nil {
			return zero, NotFirst(err)
		}
		return v, nil
	}
}

// ParensCommaDelimited parses ( r, r, ... ).
func ParensCommaDelimited[T any](r Rule[T]) Rule[[]T] {
	return Parens(CommaDelimited(r))
}
