package parser

import (
	"github.com/kestrel-db/sqlsyntax/ast"
	"github.com/kestrel-db/sqlsyntax/lexer"
)

// ---- INSERT ----

func (p *Parser) parseInsert(c *Cursor) (*ast.InsertStmt, error) {
	if err := c.PopExpecting(lexer.INSERT, "INSERT"); err != nil {
		return nil, err
	}
	if err := c.PopExpecting(lexer.INTO, "INTO"); err != nil {
		return nil, NotFirst(err)
	}
	stmt := &ast.InsertStmt{}

	table, err := parseTable(c)
	if err != nil {
		return nil, NotFirst(err)
	}
	stmt.Table = table

	cols, _, err := Lookahead(c, ParensCommaDelimited(parseIdent))
	if err != nil {
		return nil, NotFirst(err)
	}
	stmt.Columns = cols

	src, err := p.parseInsertSource(c)
	if err != nil {
		return nil, NotFirst(err)
	}
	stmt.Source = src
	return stmt, nil
}

func (p *Parser) parseInsertSource(c *Cursor) (ast.InsertSource, error) {
	if c.PopIf(lexer.VALUES) {
		rows, err := CommaDelimited(ParensCommaDelimited(p.parseExpr))(c)
		if err != nil {
			return nil, NotFirst(err)
		}
		return &ast.ValuesSource{Rows: rows}, nil
	}
	sel, ok, err := Lookahead(c, p.parseSelect)
	if err != nil {
		return nil, err
	}
	if ok {
		return &ast.SelectSource{Select: sel}, nil
	}
	return nil, c.Expecting("VALUES or SELECT")
}
