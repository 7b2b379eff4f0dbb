package parser

import (
	"github.com/kestrel-db/sqlsyntax/ast"
	"github.com/kestrel-db/sqlsyntax/lexer"
)

// ---- SELECT ----

func (p *Parser) parseSelect(c *Cursor) (*ast.SelectStmt, error) {
	if err := c.PopExpecting(lexer.SELECT, "SELECT"); err != nil {
		return nil, err
	}
	if err := p.descend(c, "subquery"); err != nil {
		return nil, err
	}
	defer p.ascend()
	stmt := &ast.SelectStmt{}

	cols, err := CommaDelimited(p.parseSelectColumn)(c)
	if err != nil {
		return nil, NotFirst(err)
	}
	stmt.Columns = cols

	from, err := p.parseFrom(c)
	if err != nil {
		return nil, NotFirst(err)
	}
	stmt.From = from

	if c.PopIf(lexer.WHERE) {
		where, err := p.parseExpr(c)
		if err != nil {
			return nil, NotFirst(err)
		}
		stmt.Where = where
	}

	// HAVING is only recognized after GROUP BY.
	if c.PopIf(lexer.GROUP) {
		if err := c.PopExpecting(lexer.BY, "BY after GROUP"); err != nil {
			return nil, NotFirst(err)
		}
		grp, err := CommaDelimited(p.parseExpr)(c)
		if err != nil {
			return nil, NotFirst(err)
		}
		stmt.GroupBy = grp
		if c.PopIf(lexer.HAVING) {
			hav, err := p.parseExpr(c)
			if err != nil {
				return nil, NotFirst(err)
			}
			stmt.Having = hav
		}
	}
	return stmt, nil
}

func (p *Parser) parseSelectColumn(c *Cursor) (ast.SelectColumn, error) {
	if c.PopIf(lexer.STAR) {
		return ast.SelectColumn{Star: true}, nil
	}
	expr, ok, err := Lookahead(c, p.parseExpr)
	if err != nil {
		return ast.SelectColumn{}, err
	}
	if !ok {
		return ast.SelectColumn{}, c.Expecting("* or expression for SELECT column")
	}
	col := ast.SelectColumn{Expr: expr}
	alias, _, err := Lookahead(c, parseAlias)
	if err != nil {
		return ast.SelectColumn{}, NotFirst(err)
	}
	col.Alias = alias
	return col, nil
}

// parseAlias parses AS name or a bare trailing name.
func parseAlias(c *Cursor) (string, error) {
	if c.PopIf(lexer.AS) {
		name, err := c.PopIdentExpecting("alias after `as` keyword")
		return name, NotFirst(err)
	}
	return c.PopIdentExpecting("alias name or `as` keyword")
}

// ---- FROM ----

func (p *Parser) parseFrom(c *Cursor) (ast.From, error) {
	if err := c.PopExpecting(lexer.FROM, "FROM"); err != nil {
		return nil, err
	}
	tables, err := CommaDelimited(p.parseTableRef)(c)
	if err != nil {
		return nil, NotFirst(err)
	}
	return &ast.CrossJoin{Tables: tables}, nil
}

func (p *Parser) parseTableRef(c *Cursor) (ast.TableRef, error) {
	if sq, ok, err := Lookahead(c, Parens(p.parseSelect)); err != nil {
		return nil, err
	} else if ok {
		alias, _, err := Lookahead(c, parseAlias)
		if err != nil {
			return nil, NotFirst(err)
		}
		return &ast.SubqueryTable{Subq: sq, Alias: alias}, nil
	}
	if t, ok, err := Lookahead(c, parseTable); err != nil {
		return nil, err
	} else if ok {
		alias, _, err := Lookahead(c, parseAlias)
		if err != nil {
			return nil, NotFirst(err)
		}
		return &ast.SimpleTable{Table: t, Alias: alias}, nil
	}
	return nil, c.Expecting("subquery or table name")
}

func parseTable(c *Cursor) (ast.Table, error) {
	name, err := c.PopIdentExpecting("table name")
	if err != nil {
		return ast.Table{}, err
	}
	return ast.Table{Name: name}, nil
}

func parseIdent(c *Cursor) (string, error) {
	return c.PopIdentExpecting("identifier")
}
