package parser

import (
	"github.com/kestrel-db/sqlsyntax/ast"
	"github.com/kestrel-db/sqlsyntax/lexer"
)

// ---- CREATE ----

func (p *Parser) parseCreate(c *Cursor) (ast.CreateStmt, error) {
	if err := c.PopExpecting(lexer.CREATE, "CREATE"); err != nil {
		return nil, err
	}
	stmt, ok, err := Lookahead(c, p.parseCreateTable)
	if err != nil {
		return nil, NotFirst(err)
	}
	if !ok {
		return nil, NotFirst(c.Expecting("TABLE"))
	}
	return stmt, nil
}

func (p *Parser) parseCreateTable(c *Cursor) (*ast.CreateTableStmt, error) {
	if err := c.PopExpecting(lexer.TABLE, "TABLE"); err != nil {
		return nil, err
	}
	table, err := parseTable(c)
	if err != nil {
		return nil, NotFirst(err)
	}
	if err := c.PopExpecting(lexer.LPAREN, "( after table name"); err != nil {
		return nil, NotFirst(err)
	}
	cols, err := CommaDelimited(parseColumnDef)(c)
	if err != nil {
		return nil, NotFirst(err)
	}
	if err := c.PopExpecting(lexer.RPAREN, ") after table columns and constraints"); err != nil {
		return nil, NotFirst(err)
	}
	return &ast.CreateTableStmt{Table: table, Columns: cols}, nil
}

// parseColumnDef parses
//
//	name type [(size)] [[] | [N]] constraint*
func parseColumnDef(c *Cursor) (*ast.ColumnDef, error) {
	name, err := c.PopIdentExpecting("column name")
	if err != nil {
		return nil, err
	}
	typeName, err := c.PopIdentExpecting("type name")
	if err != nil {
		return nil, NotFirst(err)
	}
	col := &ast.ColumnDef{Name: name, TypeName: typeName}

	if c.PopIf(lexer.LPAREN) {
		size, err := c.PopNumberExpecting("column type size")
		if err != nil {
			return nil, NotFirst(err)
		}
		if err := c.PopExpecting(lexer.RPAREN, ")"); err != nil {
			return nil, NotFirst(err)
		}
		col.TypeSize = size
	}

	if c.PopIf(lexer.LBRACKET) {
		col.Array = &ast.ArraySize{}
		if !c.PopIf(lexer.RBRACKET) {
			n, err := c.PopNumberExpecting("column array size")
			if err != nil {
				return nil, NotFirst(err)
			}
			if err := c.PopExpecting(lexer.RBRACKET, "]"); err != nil {
				return nil, NotFirst(err)
			}
			col.Array.Len = n
		}
	}

	constraints, err := Series(c, parseColumnConstraint)
	if err != nil {
		return nil, NotFirst(err)
	}
	col.Constraints = constraints
	return col, nil
}

func parseColumnConstraint(c *Cursor) (ast.ColumnConstraint, error) {
	if c.PopIf(lexer.CONSTRAINT) {
		name, err := c.PopIdentExpecting("constraint name after CONSTRAINT")
		if err != nil {
			return ast.ColumnConstraint{}, NotFirst(err)
		}
		cc, err := parseConstraintType(c)
		if err != nil {
			return ast.ColumnConstraint{}, NotFirst(err)
		}
		cc.Name = name
		return cc, nil
	}
	return parseConstraintType(c)
}

func parseConstraintType(c *Cursor) (ast.ColumnConstraint, error) {
	switch {
	case c.PopIf(lexer.PRIMARY):
		if err := c.PopExpecting(lexer.KEY, "KEY after PRIMARY"); err != nil {
			return ast.ColumnConstraint{}, NotFirst(err)
		}
		return ast.ColumnConstraint{Kind: ast.PrimaryKeyConstraint}, nil
	case c.PopIf(lexer.UNIQUE):
		return ast.ColumnConstraint{Kind: ast.UniqueConstraint}, nil
	case c.PopIf(lexer.NULL_KW):
		return ast.ColumnConstraint{Kind: ast.NullableConstraint}, nil
	case c.PopIf(lexer.REFERENCES):
		table, err := parseTable(c)
		if err != nil {
			return ast.ColumnConstraint{}, NotFirst(err)
		}
		cols, _, err := Lookahead(c, ParensCommaDelimited(parseIdent))
		if err != nil {
			return ast.ColumnConstraint{}, NotFirst(err)
		}
		return ast.ColumnConstraint{
			Kind:       ast.ForeignKeyConstraint,
			References: &ast.ForeignKeyRef{Table: table, Columns: cols},
		}, nil
	}
	return ast.ColumnConstraint{}, c.Expecting("column constraint")
}
