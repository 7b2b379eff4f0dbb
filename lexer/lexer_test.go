package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-db/sqlsyntax/lexer"
)

func types(toks []lexer.Token) []lexer.TokenType {
	out := make([]lexer.TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenizeSelect(t *testing.T) {
	toks := lexer.Tokenize([]byte("select a, B from t where a <> 1;"), nil)
	assert.Equal(t, []lexer.TokenType{
		lexer.SELECT, lexer.IDENT, lexer.COMMA, lexer.IDENT, lexer.FROM, lexer.IDENT,
		lexer.WHERE, lexer.IDENT, lexer.NEQ, lexer.NUMBER, lexer.SEMICOLON, lexer.EOF,
	}, types(toks))
	assert.Equal(t, "B", toks[3].Value())
}

func TestTokenizeOperators(t *testing.T) {
	toks := lexer.Tokenize([]byte("= != <> < <= > >= + - * / % & | || ( ) [ ] ."), nil)
	assert.Equal(t, []lexer.TokenType{
		lexer.EQ, lexer.NEQ, lexer.NEQ, lexer.LT, lexer.LTE, lexer.GT, lexer.GTE,
		lexer.PLUS, lexer.MINUS, lexer.STAR, lexer.SLASH, lexer.PERCENT,
		lexer.AMPERSAND, lexer.PIPE, lexer.DBAR,
		lexer.LPAREN, lexer.RPAREN, lexer.LBRACKET, lexer.RBRACKET, lexer.DOT, lexer.EOF,
	}, types(toks))
}

func TestTokenizeLiterals(t *testing.T) {
	toks := lexer.Tokenize([]byte(`'it''s' "Quoted ""name""" `+"`tick`"+` 12 3.5 1e10 .5`), nil)
	require.Len(t, toks, 8)
	assert.Equal(t, lexer.STRING, toks[0].Type)
	assert.Equal(t, "it's", toks[0].Value())
	assert.Equal(t, lexer.IDENT, toks[1].Type)
	assert.Equal(t, `Quoted "name"`, toks[1].Value())
	assert.Equal(t, "tick", toks[2].Value())
	for _, tok := range toks[3:7] {
		assert.Equal(t, lexer.NUMBER, tok.Type)
	}
	assert.Equal(t, "1e10", toks[5].Value())
	assert.Equal(t, ".5", toks[6].Value())
}

func TestTokenizeComments(t *testing.T) {
	toks := lexer.Tokenize([]byte("SELECT -- line\n a /* block\n comment */ FROM t"), nil)
	assert.Equal(t, []lexer.TokenType{lexer.SELECT, lexer.IDENT, lexer.FROM, lexer.IDENT, lexer.EOF}, types(toks))
	assert.Equal(t, uint32(2), toks[1].Line)
	assert.Equal(t, uint32(3), toks[2].Line)
}

func TestTokenizeKeywordsCaseInsensitive(t *testing.T) {
	toks := lexer.Tokenize([]byte("SeLeCt InSeRt ReFeReNcEs nullable"), nil)
	assert.Equal(t, []lexer.TokenType{lexer.SELECT, lexer.INSERT, lexer.REFERENCES, lexer.IDENT, lexer.EOF}, types(toks))
}

func TestTokenizeIllegal(t *testing.T) {
	toks := lexer.Tokenize([]byte("'open"), nil)
	require.Len(t, toks, 2)
	assert.Equal(t, lexer.ILLEGAL, toks[0].Type)

	toks = lexer.Tokenize([]byte("a ! b"), nil)
	assert.Equal(t, lexer.ILLEGAL, toks[1].Type)
}

func TestTokenEqual(t *testing.T) {
	assert.True(t, lexer.NewToken(lexer.IDENT, "a").Equal(lexer.NewToken(lexer.IDENT, `"a"`)))
	assert.False(t, lexer.NewToken(lexer.IDENT, "a").Equal(lexer.NewToken(lexer.IDENT, "b")))
	assert.True(t, lexer.NewToken(lexer.FROM, "from").Equal(lexer.NewToken(lexer.FROM, "FROM")))
	assert.False(t, lexer.NewToken(lexer.NUMBER, "1").Equal(lexer.NewToken(lexer.STRING, "1")))
}

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  lexer.Token
		want string
	}{
		{lexer.NewToken(lexer.FROM, "from"), "FROM"},
		{lexer.NewToken(lexer.NULL_KW, ""), "NULL"},
		{lexer.NewToken(lexer.LPAREN, ""), "("},
		{lexer.NewToken(lexer.IDENT, "users"), `identifier "users"`},
		{lexer.NewToken(lexer.NUMBER, "42"), "number 42"},
		{lexer.NewToken(lexer.STRING, "'x'"), "string 'x'"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.tok.String())
	}
}

func TestIsKeyword(t *testing.T) {
	assert.True(t, lexer.IsKeyword("select"))
	assert.True(t, lexer.IsKeyword("Primary"))
	assert.False(t, lexer.IsKeyword("users"))
	assert.False(t, lexer.IsKeyword(""))
}
