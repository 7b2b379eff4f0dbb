package parser_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-db/sqlsyntax/ast"
	"github.com/kestrel-db/sqlsyntax/lexer"
	"github.com/kestrel-db/sqlsyntax/parser"
)

// ---- helpers ----

func mustParse(t *testing.T, sql string) []ast.Statement {
	t.Helper()
	stmts, err := parser.ParseString(sql)
	require.NoError(t, err, "SQL: %s", sql)
	return stmts
}

func mustParseOne(t *testing.T, sql string) ast.Statement {
	t.Helper()
	stmts := mustParse(t, sql)
	require.Len(t, stmts, 1, "SQL: %s", sql)
	return stmts[0]
}

func parseErr(t *testing.T, sql string) *parser.RuleError {
	t.Helper()
	stmts, err := parser.ParseString(sql)
	require.Error(t, err, "SQL: %s", sql)
	assert.Nil(t, stmts)
	var re *parser.RuleError
	require.ErrorAs(t, err, &re)
	return re
}

// exprOf parses expr as the only column of a SELECT.
func exprOf(t *testing.T, expr string) ast.Expr {
	t.Helper()
	sel := mustParseOne(t, "SELECT "+expr+" FROM t;").(*ast.SelectStmt)
	require.Len(t, sel.Columns, 1)
	return sel.Columns[0].Expr
}

func diff(t *testing.T, want, got any) {
	t.Helper()
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("AST mismatch (-want +got):\n%s", d)
	}
}

func id(name string) *ast.Ident    { return &ast.Ident{Name: name} }
func num(lit string) *ast.Number   { return &ast.Number{Lit: lit} }
func str(v string) *ast.StringLit  { return &ast.StringLit{Value: v} }
func neg(e ast.Expr) *ast.UnaryExpr { return &ast.UnaryExpr{Op: ast.Negate, Expr: e} }

func bin(op ast.BinaryOp, l, r ast.Expr) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r}
}

func from(names ...string) ast.From {
	refs := make([]ast.TableRef, len(names))
	for i, n := range names {
		refs[i] = &ast.SimpleTable{Table: ast.Table{Name: n}}
	}
	return &ast.CrossJoin{Tables: refs}
}

// ---- driver ----

func TestParseEmpty(t *testing.T) {
	assert.Empty(t, mustParse(t, ""))
	assert.Empty(t, mustParse(t, "  -- nothing here\n"))
}

func TestParseEmptyStatements(t *testing.T) {
	assert.Empty(t, mustParse(t, ";"))
	assert.Empty(t, mustParse(t, ";;;"))

	stmts := mustParse(t, "; SELECT * FROM a; ; SELECT * FROM b;;")
	require.Len(t, stmts, 2)
	diff(t, from("a"), stmts[0].(*ast.SelectStmt).From)
	diff(t, from("b"), stmts[1].(*ast.SelectStmt).From)
}

func TestParseMultipleStatementKinds(t *testing.T) {
	stmts := mustParse(t, `
		CREATE TABLE t (a INT);
		INSERT INTO t VALUES (1);
		SELECT a FROM t;`)
	require.Len(t, stmts, 3)
	assert.IsType(t, &ast.CreateTableStmt{}, stmts[0])
	assert.IsType(t, &ast.InsertStmt{}, stmts[1])
	assert.IsType(t, &ast.SelectStmt{}, stmts[2])
}

func TestParseMissingSemicolon(t *testing.T) {
	re := parseErr(t, "SELECT * FROM t")
	assert.Equal(t, parser.Expecting, re.Kind)
	assert.Equal(t, "semicolon", re.Context)
	assert.Nil(t, re.Token)
	assert.Equal(t, "Expecting semicolon; got no more tokens", re.Error())
}

func TestParseLeftoverTokens(t *testing.T) {
	re := parseErr(t, "SELECT * FROM t; foo;")
	assert.Equal(t, parser.Expecting, re.Kind)
	assert.Equal(t, "statement", re.Context)
	require.NotNil(t, re.Token)
	assert.Equal(t, "foo", re.Token.Value())
	assert.Equal(t, `Expecting statement; got identifier "foo"`, re.Error())
}

func TestParseAllOrNothing(t *testing.T) {
	stmts, err := parser.ParseString("SELECT * FROM a; SELECT * FROM b; SELECT FROM c;")
	require.Error(t, err)
	assert.Nil(t, stmts)
}

func TestParseOneAndReset(t *testing.T) {
	p := parser.New(lexer.Tokenize([]byte("; SELECT * FROM a; INSERT INTO b VALUES (1);"), nil))

	s1, err := p.ParseOne()
	require.NoError(t, err)
	assert.IsType(t, &ast.SelectStmt{}, s1)

	s2, err := p.ParseOne()
	require.NoError(t, err)
	assert.IsType(t, &ast.InsertStmt{}, s2)

	s3, err := p.ParseOne()
	require.NoError(t, err)
	assert.Nil(t, s3)

	p.Reset(lexer.Tokenize([]byte("SELECT x FROM c;"), nil))
	stmts, err := p.ParseAll()
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	diff(t, id("x"), stmts[0].(*ast.SelectStmt).Columns[0].Expr)

	// Trees from before the reset are untouched.
	diff(t, from("a"), s1.(*ast.SelectStmt).From)
}

func TestParseTokensWithoutEOF(t *testing.T) {
	toks := []lexer.Token{
		lexer.NewToken(lexer.SELECT, ""),
		lexer.NewToken(lexer.STAR, ""),
		lexer.NewToken(lexer.FROM, ""),
		lexer.NewToken(lexer.IDENT, "t"),
		lexer.NewToken(lexer.SEMICOLON, ""),
	}
	stmts, err := parser.Parse(toks)
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	diff(t, from("t"), stmts[0].(*ast.SelectStmt).From)
}

// ---- SELECT ----

func TestSelectStar(t *testing.T) {
	got := mustParseOne(t, "SELECT * FROM t;")
	want := &ast.SelectStmt{
		Columns: []ast.SelectColumn{{Star: true}},
		From:    from("t"),
	}
	diff(t, want, got)
}

func TestSelectWhere(t *testing.T) {
	got := mustParseOne(t, "SELECT a FROM t WHERE a = 1;")
	want := &ast.SelectStmt{
		Columns: []ast.SelectColumn{{Expr: id("a")}},
		From:    from("t"),
		Where:   bin(ast.Equal, id("a"), num("1")),
	}
	diff(t, want, got)
}

func TestSelectAliases(t *testing.T) {
	got := mustParseOne(t, "SELECT a AS x, b y, *, c FROM t1 AS p, t2 q, t3;")
	want := &ast.SelectStmt{
		Columns: []ast.SelectColumn{
			{Expr: id("a"), Alias: "x"},
			{Expr: id("b"), Alias: "y"},
			{Star: true},
			{Expr: id("c")},
		},
		From: &ast.CrossJoin{Tables: []ast.TableRef{
			&ast.SimpleTable{Table: ast.Table{Name: "t1"}, Alias: "p"},
			&ast.SimpleTable{Table: ast.Table{Name: "t2"}, Alias: "q"},
			&ast.SimpleTable{Table: ast.Table{Name: "t3"}},
		}},
	}
	diff(t, want, got)
}

func TestSelectGroupByHaving(t *testing.T) {
	got := mustParseOne(t, "SELECT dept, count(*) FROM emp WHERE age > 30 GROUP BY dept, team HAVING count(*) > 2;")
	want := &ast.SelectStmt{
		Columns: []ast.SelectColumn{
			{Expr: id("dept")},
			{Expr: &ast.AggregateAllCall{Name: "count"}},
		},
		From:    from("emp"),
		Where:   bin(ast.GreaterThan, id("age"), num("30")),
		GroupBy: []ast.Expr{id("dept"), id("team")},
		Having:  bin(ast.GreaterThan, &ast.AggregateAllCall{Name: "count"}, num("2")),
	}
	diff(t, want, got)
}

func TestSelectSubquery(t *testing.T) {
	got := mustParseOne(t, "SELECT n FROM (SELECT name AS n FROM users WHERE active = 1) AS sub, other;")
	want := &ast.SelectStmt{
		Columns: []ast.SelectColumn{{Expr: id("n")}},
		From: &ast.CrossJoin{Tables: []ast.TableRef{
			&ast.SubqueryTable{
				Subq: &ast.SelectStmt{
					Columns: []ast.SelectColumn{{Expr: id("name"), Alias: "n"}},
					From:    from("users"),
					Where:   bin(ast.Equal, id("active"), num("1")),
				},
				Alias: "sub",
			},
			&ast.SimpleTable{Table: ast.Table{Name: "other"}},
		}},
	}
	diff(t, want, got)
}

func TestSelectQuotedIdentifiers(t *testing.T) {
	sel := mustParseOne(t, `SELECT "select", `+"`from`"+` FROM "my table";`).(*ast.SelectStmt)
	diff(t, id("select"), sel.Columns[0].Expr)
	diff(t, id("from"), sel.Columns[1].Expr)
	diff(t, from("my table"), sel.From)
}

func TestSelectErrors(t *testing.T) {
	tests := []struct {
		sql     string
		context string
		token   string // Value of the offending token; empty for end of input
	}{
		{"SELECT FROM t;", "* or expression for SELECT column", "FROM"},
		{"SELECT a;", "FROM", ";"},
		{"SELECT a FROM;", "subquery or table name", ";"},
		{"SELECT a, FROM t;", "* or expression for SELECT column", "FROM"},
		{"SELECT a FROM t GROUP dept;", "BY after GROUP", "dept"},
		{"SELECT a AS FROM t;", "alias after `as` keyword", "FROM"},
		{"SELECT a FROM t WHERE;", "identifier or number", ";"},
		{"SELECT a FROM (SELECT b FROM c;", ")", ";"},
		{"SELECT a FROM (t);", "SELECT", "t"},
		{"SELECT f(a FROM t;", ") after function arguments", "FROM"},
		{"SELECT count(* FROM t;", ") after aggregate asterisk. e.g. (*)", "FROM"},
		{"SELECT f() FROM t;", "identifier or number", ")"},
		{"SELECT a +", "identifier or number", ""},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			re := parseErr(t, tt.sql)
			assert.Equal(t, parser.Expecting, re.Kind)
			assert.Equal(t, tt.context, re.Context)
			if tt.token == "" {
				assert.Nil(t, re.Token)
				return
			}
			require.NotNil(t, re.Token)
			assert.Equal(t, tt.token, re.Token.Value())
		})
	}
}

func TestSelectErrorMessage(t *testing.T) {
	re := parseErr(t, "SELECT FROM t;")
	assert.Equal(t, "Expecting * or expression for SELECT column; got FROM", re.Error())
	line, col, ok := re.Position()
	require.True(t, ok)
	assert.Equal(t, uint32(1), line)
	assert.Equal(t, uint32(8), col)
}

// ---- expressions ----

func TestExprPrecedence(t *testing.T) {
	tests := []struct {
		expr string
		want ast.Expr
	}{
		{"1 + 2 * 3", bin(ast.Add, num("1"), bin(ast.Multiply, num("2"), num("3")))},
		{"1 * 2 + 3", bin(ast.Add, bin(ast.Multiply, num("1"), num("2")), num("3"))},
		{"1 - 2 - 3", bin(ast.Subtract, bin(ast.Subtract, num("1"), num("2")), num("3"))},
		{"1 * 2 * 3", bin(ast.Multiply, bin(ast.Multiply, num("1"), num("2")), num("3"))},
		{"(1 + 2) * 3", bin(ast.Multiply, bin(ast.Add, num("1"), num("2")), num("3"))},
		{"1 - (2 - 3)", bin(ast.Subtract, num("1"), bin(ast.Subtract, num("2"), num("3")))},
		{"a & b | c", bin(ast.BitOr, bin(ast.BitAnd, id("a"), id("b")), id("c"))},
		{"'a' || b || 'c'", bin(ast.Concatenate, bin(ast.Concatenate, str("a"), id("b")), str("c"))},
		{"a + 1 < b * 2", bin(ast.LessThan, bin(ast.Add, id("a"), num("1")), bin(ast.Multiply, id("b"), num("2")))},
		{
			"a = 1 OR b = 2 AND c != 3",
			bin(ast.Or,
				bin(ast.Equal, id("a"), num("1")),
				bin(ast.And, bin(ast.Equal, id("b"), num("2")), bin(ast.NotEqual, id("c"), num("3")))),
		},
		{
			"a <= 1 AND b >= 2 OR c <> 3",
			bin(ast.Or,
				bin(ast.And, bin(ast.LessThanOrEqual, id("a"), num("1")), bin(ast.GreaterThanOrEqual, id("b"), num("2"))),
				bin(ast.NotEqual, id("c"), num("3"))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			diff(t, tt.want, exprOf(t, tt.expr))
		})
	}
}

func TestExprUnary(t *testing.T) {
	tests := []struct {
		expr string
		want ast.Expr
	}{
		{"-1", neg(num("1"))},
		{"+1", num("1")},
		{"- -a", neg(neg(id("a")))},
		{"-a * b", bin(ast.Multiply, neg(id("a")), id("b"))},
		{"-(a * b)", neg(bin(ast.Multiply, id("a"), id("b")))},
		{"a - -b", bin(ast.Subtract, id("a"), neg(id("b")))},
		{"+a + +b", bin(ast.Add, id("a"), id("b"))},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			diff(t, tt.want, exprOf(t, tt.expr))
		})
	}
}

func TestExprCalls(t *testing.T) {
	diff(t, &ast.AggregateAllCall{Name: "COUNT"}, exprOf(t, "COUNT(*)"))
	diff(t, &ast.FuncCall{Name: "sum", Args: []ast.Expr{id("x")}}, exprOf(t, "sum(x)"))
	diff(t,
		&ast.FuncCall{Name: "f", Args: []ast.Expr{id("a"), bin(ast.Add, num("1"), num("2")), str("s")}},
		exprOf(t, "f(a, 1 + 2, 's')"))
	diff(t,
		&ast.FuncCall{Name: "max", Args: []ast.Expr{&ast.FuncCall{Name: "abs", Args: []ast.Expr{neg(id("v"))}}}},
		exprOf(t, "max(abs(-v))"))
}

func TestExprLiterals(t *testing.T) {
	diff(t, str("it's"), exprOf(t, "'it''s'"))
	diff(t, num("3.25"), exprOf(t, "3.25"))
	diff(t, num("1e10"), exprOf(t, "1e10"))
}

func TestExprMemberAccessUnsupported(t *testing.T) {
	_, err := parser.ParseString("SELECT u.id FROM users u;")
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrUnsupported)

	var re *parser.RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, parser.Unsupported, re.Kind)
	assert.False(t, re.Soft())
	assert.Equal(t, `member access is not supported; got identifier "id"`, re.Error())
}

func TestExprDepthLimit(t *testing.T) {
	deep := strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100)

	_, err := parser.ParseString("SELECT "+deep+" FROM t;", parser.WithMaxDepth(50))
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrTooDeep)

	stmts, err := parser.ParseString("SELECT "+deep+" FROM t;")
	require.NoError(t, err)
	diff(t, num("1"), stmts[0].(*ast.SelectStmt).Columns[0].Expr)

	negs := strings.Repeat("- ", 600) + "1"
	_, err = parser.ParseString("SELECT " + negs + " FROM t;")
	assert.ErrorIs(t, err, parser.ErrTooDeep)
}

func TestSubqueryDepthLimit(t *testing.T) {
	nested := func(n int) string {
		return "SELECT a FROM " + strings.Repeat("(SELECT a FROM ", n) + "t" + strings.Repeat(")", n) + ";"
	}

	_, err := parser.ParseString(nested(200), parser.WithMaxDepth(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, parser.ErrTooDeep)
	var re *parser.RuleError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, parser.TooDeep, re.Kind)
	assert.Equal(t, "subquery nesting exceeds limit", re.Context)

	_, err = parser.ParseString(nested(5000))
	assert.ErrorIs(t, err, parser.ErrTooDeep)

	stmts, err := parser.ParseString(nested(3), parser.WithMaxDepth(10))
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	inner := stmts[0].(*ast.SelectStmt).From.(*ast.CrossJoin).Tables[0]
	assert.IsType(t, &ast.SubqueryTable{}, inner)
}

// ---- INSERT ----

func TestInsertValues(t *testing.T) {
	got := mustParseOne(t, "INSERT INTO t (a, b) VALUES (1, 2), (3, 4);")
	want := &ast.InsertStmt{
		Table:   ast.Table{Name: "t"},
		Columns: []string{"a", "b"},
		Source: &ast.ValuesSource{Rows: [][]ast.Expr{
			{num("1"), num("2")},
			{num("3"), num("4")},
		}},
	}
	diff(t, want, got)
}

func TestInsertWithoutColumns(t *testing.T) {
	got := mustParseOne(t, "INSERT INTO t VALUES ('x', -1 + 2);")
	want := &ast.InsertStmt{
		Table: ast.Table{Name: "t"},
		Source: &ast.ValuesSource{Rows: [][]ast.Expr{
			{str("x"), bin(ast.Add, neg(num("1")), num("2"))},
		}},
	}
	diff(t, want, got)
	assert.Nil(t, got.(*ast.InsertStmt).Columns)
}

func TestInsertSelect(t *testing.T) {
	got := mustParseOne(t, "INSERT INTO archive (id) SELECT id FROM t WHERE old = 1;")
	want := &ast.InsertStmt{
		Table:   ast.Table{Name: "archive"},
		Columns: []string{"id"},
		Source: &ast.SelectSource{Select: &ast.SelectStmt{
			Columns: []ast.SelectColumn{{Expr: id("id")}},
			From:    from("t"),
			Where:   bin(ast.Equal, id("old"), num("1")),
		}},
	}
	diff(t, want, got)
}

func TestInsertErrors(t *testing.T) {
	tests := []struct {
		sql     string
		context string
	}{
		{"INSERT t VALUES (1);", "INTO"},
		{"INSERT INTO VALUES (1);", "table name"},
		{"INSERT INTO t;", "VALUES or SELECT"},
		{"INSERT INTO t VALUES;", "("},
		{"INSERT INTO t VALUES (1), ;", "("},
		{"INSERT INTO t (a,) VALUES (1);", "identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			re := parseErr(t, tt.sql)
			assert.Equal(t, parser.Expecting, re.Kind)
			assert.Equal(t, tt.context, re.Context)
		})
	}
}

// ---- CREATE TABLE ----

func TestCreateTable(t *testing.T) {
	got := mustParseOne(t, "CREATE TABLE t (id INT PRIMARY KEY, name TEXT NULL);")
	want := &ast.CreateTableStmt{
		Table: ast.Table{Name: "t"},
		Columns: []*ast.ColumnDef{
			{Name: "id", TypeName: "INT", Constraints: []ast.ColumnConstraint{{Kind: ast.PrimaryKeyConstraint}}},
			{Name: "name", TypeName: "TEXT", Constraints: []ast.ColumnConstraint{{Kind: ast.NullableConstraint}}},
		},
	}
	diff(t, want, got)
}

func TestCreateTableFull(t *testing.T) {
	got := mustParseOne(t, `
		CREATE TABLE orders (
			id BIGINT CONSTRAINT pk_orders PRIMARY KEY,
			code CHAR(8) UNIQUE NULL,
			tags TEXT[],
			matrix INT(4)[16],
			customer INT REFERENCES customers (id),
			owner INT CONSTRAINT fk_owner REFERENCES users,
			note TEXT
		);`)
	want := &ast.CreateTableStmt{
		Table: ast.Table{Name: "orders"},
		Columns: []*ast.ColumnDef{
			{
				Name: "id", TypeName: "BIGINT",
				Constraints: []ast.ColumnConstraint{{Name: "pk_orders", Kind: ast.PrimaryKeyConstraint}},
			},
			{
				Name: "code", TypeName: "CHAR", TypeSize: "8",
				Constraints: []ast.ColumnConstraint{{Kind: ast.UniqueConstraint}, {Kind: ast.NullableConstraint}},
			},
			{Name: "tags", TypeName: "TEXT", Array: &ast.ArraySize{}},
			{Name: "matrix", TypeName: "INT", TypeSize: "4", Array: &ast.ArraySize{Len: "16"}},
			{
				Name: "customer", TypeName: "INT",
				Constraints: []ast.ColumnConstraint{{
					Kind:       ast.ForeignKeyConstraint,
					References: &ast.ForeignKeyRef{Table: ast.Table{Name: "customers"}, Columns: []string{"id"}},
				}},
			},
			{
				Name: "owner", TypeName: "INT",
				Constraints: []ast.ColumnConstraint{{
					Name:       "fk_owner",
					Kind:       ast.ForeignKeyConstraint,
					References: &ast.ForeignKeyRef{Table: ast.Table{Name: "users"}},
				}},
			},
			{Name: "note", TypeName: "TEXT"},
		},
	}
	diff(t, want, got)

	cols := got.(*ast.CreateTableStmt).Columns
	assert.True(t, cols[2].Array.Dynamic())
	assert.False(t, cols[3].Array.Dynamic())
}

func TestCreateErrors(t *testing.T) {
	tests := []struct {
		sql     string
		context string
	}{
		{"CREATE t (a INT);", "TABLE"},
		{"CREATE TABLE (a INT);", "table name"},
		{"CREATE TABLE t a INT;", "( after table name"},
		{"CREATE TABLE t ();", "column name"},
		{"CREATE TABLE t (a);", "type name"},
		{"CREATE TABLE t (a INT;", ") after table columns and constraints"},
		{"CREATE TABLE t (a CHAR(x));", "column type size"},
		{"CREATE TABLE t (a CHAR(8);", ") after table columns and constraints"},
		{"CREATE TABLE t (a CHAR(8 UNIQUE);", ")"},
		{"CREATE TABLE t (a INT[x]);", "column array size"},
		{"CREATE TABLE t (a INT[4);", "]"},
		{"CREATE TABLE t (a INT PRIMARY);", "KEY after PRIMARY"},
		{"CREATE TABLE t (a INT CONSTRAINT PRIMARY KEY);", "constraint name after CONSTRAINT"},
		{"CREATE TABLE t (a INT CONSTRAINT c);", "column constraint"},
		{"CREATE TABLE t (a INT REFERENCES);", "table name"},
		{"CREATE TABLE t (a INT REFERENCES u ());", "identifier"},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			re := parseErr(t, tt.sql)
			assert.Equal(t, parser.Expecting, re.Kind)
			assert.Equal(t, tt.context, re.Context)
		})
	}
}

func TestIllegalToken(t *testing.T) {
	re := parseErr(t, "SELECT a ! b FROM t;")
	require.NotNil(t, re.Token)
	assert.Equal(t, lexer.ILLEGAL, re.Token.Type)
	assert.Equal(t, "FROM", re.Context)
}
