package sqlsyntax

import (
	"fmt"
	"strings"

	"github.com/kestrel-db/sqlsyntax/ast"
	"github.com/kestrel-db/sqlsyntax/lexer"
)

// Format renders statements as canonical SQL, each terminated by a
// semicolon and separated by a newline. For trees produced by the parser,
// parsing the output yields an AST equal to stmts. A Table with a Database
// renders qualified (db.t), which the grammar does not read back.
func Format(stmts []Statement) (string, error) {
	var r renderer
	for i, stmt := range stmts {
		if i > 0 {
			r.b.WriteByte('\n')
		}
		if err := r.renderStatement(stmt); err != nil {
			return "", err
		}
		r.b.WriteByte(';')
	}
	return r.b.String(), nil
}

// FormatStatement renders a single statement without its terminator.
func FormatStatement(stmt Statement) (string, error) {
	var r renderer
	if err := r.renderStatement(stmt); err != nil {
		return "", err
	}
	return r.b.String(), nil
}

// FormatExpr renders an expression with the fewest parentheses that keep
// its structure.
func FormatExpr(e Expr) string {
	var r renderer
	r.renderExpr(e)
	return r.b.String()
}

type renderer struct {
	b strings.Builder
}

func (r *renderer) renderStatement(stmt Statement) error {
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		r.renderSelect(s)
	case *ast.InsertStmt:
		return r.renderInsert(s)
	case *ast.CreateTableStmt:
		r.renderCreateTable(s)
	default:
		return fmt.Errorf("unsupported statement type %T", s)
	}
	return nil
}

func (r *renderer) renderSelect(s *ast.SelectStmt) {
	r.b.WriteString("SELECT ")
	for i, c := range s.Columns {
		if i > 0 {
			r.b.WriteString(", ")
		}
		if c.Star {
			r.b.WriteByte('*')
			continue
		}
		r.renderExpr(c.Expr)
		r.renderAlias(c.Alias)
	}
	if cj, ok := s.From.(*ast.CrossJoin); ok {
		r.b.WriteString(" FROM ")
		for i, tr := range cj.Tables {
			if i > 0 {
				r.b.WriteString(", ")
			}
			r.renderTableRef(tr)
		}
	}
	if s.Where != nil {
		r.b.WriteString(" WHERE ")
		r.renderExpr(s.Where)
	}
	if len(s.GroupBy) > 0 {
		r.b.WriteString(" GROUP BY ")
		r.renderExprList(s.GroupBy)
		if s.Having != nil {
			r.b.WriteString(" HAVING ")
			r.renderExpr(s.Having)
		}
	}
}

func (r *renderer) renderTableRef(tr ast.TableRef) {
	switch t := tr.(type) {
	case *ast.SimpleTable:
		r.renderTable(t.Table)
		r.renderAlias(t.Alias)
	case *ast.SubqueryTable:
		r.b.WriteByte('(')
		r.renderSelect(t.Subq)
		r.b.WriteByte(')')
		r.renderAlias(t.Alias)
	}
}

func (r *renderer) renderInsert(s *ast.InsertStmt) error {
	r.b.WriteString("INSERT INTO ")
	r.renderTable(s.Table)
	if s.Columns != nil {
		r.b.WriteString(" (")
		r.renderIdentList(s.Columns)
		r.b.WriteByte(')')
	}
	switch src := s.Source.(type) {
	case *ast.ValuesSource:
		r.b.WriteString(" VALUES ")
		for i, row := range src.Rows {
			if i > 0 {
				r.b.WriteString(", ")
			}
			r.b.WriteByte('(')
			r.renderExprList(row)
			r.b.WriteByte(')')
		}
	case *ast.SelectSource:
		r.b.WriteByte(' ')
		r.renderSelect(src.Select)
	default:
		return fmt.Errorf("unsupported insert source %T", src)
	}
	return nil
}

func (r *renderer) renderCreateTable(s *ast.CreateTableStmt) {
	r.b.WriteString("CREATE TABLE ")
	r.renderTable(s.Table)
	r.b.WriteString(" (")
	for i, c := range s.Columns {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.renderColumnDef(c)
	}
	r.b.WriteByte(')')
}

func (r *renderer) renderColumnDef(c *ast.ColumnDef) {
	r.renderIdent(c.Name)
	r.b.WriteByte(' ')
	r.renderIdent(c.TypeName)
	if c.TypeSize != "" {
		r.b.WriteByte('(')
		r.b.WriteString(c.TypeSize)
		r.b.WriteByte(')')
	}
	if c.Array != nil {
		r.b.WriteByte('[')
		r.b.WriteString(c.Array.Len)
		r.b.WriteByte(']')
	}
	for _, cc := range c.Constraints {
		r.b.WriteByte(' ')
		if cc.Name != "" {
			r.b.WriteString("CONSTRAINT ")
			r.renderIdent(cc.Name)
			r.b.WriteByte(' ')
		}
		r.b.WriteString(cc.Kind.String())
		if cc.Kind == ast.ForeignKeyConstraint && cc.References != nil {
			r.b.WriteByte(' ')
			r.renderTable(cc.References.Table)
			if cc.References.Columns != nil {
				r.b.WriteString(" (")
				r.renderIdentList(cc.References.Columns)
				r.b.WriteByte(')')
			}
		}
	}
}

// ---- expressions ----

func (r *renderer) renderExpr(expr Expr) {
	switch e := expr.(type) {
	case *ast.Ident:
		r.renderIdent(e.Name)
	case *ast.Number:
		r.b.WriteString(e.Lit)
	case *ast.StringLit:
		r.b.WriteByte('\'')
		r.b.WriteString(strings.ReplaceAll(e.Value, "'", "''"))
		r.b.WriteByte('\'')
	case *ast.UnaryExpr:
		r.b.WriteString(e.Op.String())
		// A nested sign would otherwise print as a -- comment.
		switch e.Expr.(type) {
		case *ast.BinaryExpr, *ast.UnaryExpr:
			r.renderParens(e.Expr)
		default:
			r.renderExpr(e.Expr)
		}
	case *ast.BinaryExpr:
		prec := e.Op.Precedence()
		r.renderOperand(e.Left, prec)
		r.b.WriteByte(' ')
		r.b.WriteString(e.Op.String())
		r.b.WriteByte(' ')
		// Operators are left associative, so an equal-precedence right
		// operand needs parentheses.
		r.renderOperand(e.Right, prec+1)
	case *ast.FuncCall:
		r.renderIdent(e.Name)
		r.b.WriteByte('(')
		r.renderExprList(e.Args)
		r.b.WriteByte(')')
	case *ast.AggregateAllCall:
		r.renderIdent(e.Name)
		r.b.WriteString("(*)")
	}
}

// renderOperand parenthesizes binary operands that bind looser than minPrec.
func (r *renderer) renderOperand(e Expr, minPrec int) {
	if be, ok := e.(*ast.BinaryExpr); ok && be.Op.Precedence() < minPrec {
		r.renderParens(e)
		return
	}
	r.renderExpr(e)
}

func (r *renderer) renderParens(e Expr) {
	r.b.WriteByte('(')
	r.renderExpr(e)
	r.b.WriteByte(')')
}

func (r *renderer) renderExprList(list []Expr) {
	for i, e := range list {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.renderExpr(e)
	}
}

// ---- names ----

func (r *renderer) renderAlias(alias string) {
	if alias == "" {
		return
	}
	r.b.WriteString(" AS ")
	r.renderIdent(alias)
}

func (r *renderer) renderTable(t ast.Table) {
	if t.Database != "" {
		r.renderIdent(t.Database)
		r.b.WriteByte('.')
	}
	r.renderIdent(t.Name)
}

func (r *renderer) renderIdentList(names []string) {
	for i, n := range names {
		if i > 0 {
			r.b.WriteString(", ")
		}
		r.renderIdent(n)
	}
}

// renderIdent writes name bare when it would lex back as the same
// identifier, and double-quoted otherwise.
func (r *renderer) renderIdent(name string) {
	if isBareIdent(name) {
		r.b.WriteString(name)
		return
	}
	r.b.WriteByte('"')
	r.b.WriteString(strings.ReplaceAll(name, `"`, `""`))
	r.b.WriteByte('"')
}

func isBareIdent(name string) bool {
	if name == "" || lexer.IsKeyword(name) {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
