// Package ast defines the SQL Abstract Syntax Tree.
//
// Every syntactic category is a closed set of node types behind a marker
// interface. Composite nodes own their children exclusively; the tree has no
// sharing and no cycles.
package ast

// Node is implemented by every AST node.
type Node interface {
	node()
}

// Statement is a top-level SQL statement: *SelectStmt, *InsertStmt or a
// CreateStmt.
type Statement interface {
	Node
	stmtNode()
}

// Expr is a SQL expression.
type Expr interface {
	Node
	exprNode()
}

// ---- Expressions ----

// Ident is a bare column or value name.
type Ident struct {
	Name string
}

func (n *Ident) node()     {}
func (n *Ident) exprNode() {}

// Number is a numeric literal kept in its source spelling.
type Number struct {
	Lit string
}

func (n *Number) node()     {}
func (n *Number) exprNode() {}

// StringLit is a string literal with quotes removed.
type StringLit struct {
	Value string
}

func (n *StringLit) node()     {}
func (n *StringLit) exprNode() {}

// UnaryExpr is a prefix unary operation.
type UnaryExpr struct {
	Op   UnaryOp
	Expr Expr
}

func (n *UnaryExpr) node()     {}
func (n *UnaryExpr) exprNode() {}

// BinaryExpr is a binary operation: Left Op Right.
type BinaryExpr struct {
	Op          BinaryOp
	Left, Right Expr
}

func (n *BinaryExpr) node()     {}
func (n *BinaryExpr) exprNode() {}

// FuncCall is a function invocation with at least one argument.
type FuncCall struct {
	Name string
	Args []Expr
}

func (n *FuncCall) node()     {}
func (n *FuncCall) exprNode() {}

// AggregateAllCall is an aggregate over every row, e.g. COUNT(*).
type AggregateAllCall struct {
	Name string
}

func (n *AggregateAllCall) node()     {}
func (n *AggregateAllCall) exprNode() {}

// ---- Table references ----

// Table names a table, optionally inside a database.
type Table struct {
	Database string // empty when unqualified
	Name     string
}

// TableRef is an entry of a FROM clause: *SimpleTable or *SubqueryTable.
type TableRef interface {
	Node
	tableRefNode()
}

// SimpleTable is a named table with optional alias.
type SimpleTable struct {
	Table Table
	Alias string // empty when absent
}

func (n *SimpleTable) node()         {}
func (n *SimpleTable) tableRefNode() {}

// SubqueryTable is (SELECT ...) [AS alias].
type SubqueryTable struct {
	Subq  *SelectStmt
	Alias string // empty when absent
}

func (n *SubqueryTable) node()         {}
func (n *SubqueryTable) tableRefNode() {}

// From is the FROM clause of a SELECT. The only form is *CrossJoin.
type From interface {
	Node
	fromNode()
}

// CrossJoin is the implicit cross product of a comma-separated table list.
type CrossJoin struct {
	Tables []TableRef
}

func (n *CrossJoin) node()     {}
func (n *CrossJoin) fromNode() {}

// ---- DML Statements ----

// SelectStmt represents a SELECT statement.
type SelectStmt struct {
	Columns []SelectColumn
	From    From
	Where   Expr
	GroupBy []Expr
	Having  Expr // only set together with GroupBy
}

func (n *SelectStmt) node()     {}
func (n *SelectStmt) stmtNode() {}

// SelectColumn is a single column in a SELECT list: either * or an
// expression with an optional alias.
type SelectColumn struct {
	Star  bool
	Expr  Expr   // nil when Star
	Alias string // empty when absent
}

// InsertStmt represents an INSERT statement.
type InsertStmt struct {
	Table   Table
	Columns []string // nil when the column list is omitted
	Source  InsertSource
}

func (n *InsertStmt) node()     {}
func (n *InsertStmt) stmtNode() {}

// InsertSource is where inserted rows come from: *ValuesSource or
// *SelectSource.
type InsertSource interface {
	Node
	insertSourceNode()
}

// ValuesSource is VALUES (..), (..).
type ValuesSource struct {
	Rows [][]Expr
}

func (n *ValuesSource) node()              {}
func (n *ValuesSource) insertSourceNode() {}

// SelectSource is INSERT ... SELECT.
type SelectSource struct {
	Select *SelectStmt
}

func (n *SelectSource) node()              {}
func (n *SelectSource) insertSourceNode() {}

// ---- DDL Statements ----

// CreateStmt is a CREATE statement. The only form is *CreateTableStmt.
type CreateStmt interface {
	Statement
	createNode()
}

// CreateTableStmt represents CREATE TABLE.
type CreateTableStmt struct {
	Table   Table
	Columns []*ColumnDef
}

func (n *CreateTableStmt) node()       {}
func (n *CreateTableStmt) stmtNode()   {}
func (n *CreateTableStmt) createNode() {}

// ColumnDef defines a table column.
type ColumnDef struct {
	Name        string
	TypeName    string
	TypeSize    string     // numeric literal; empty when absent
	Array       *ArraySize // nil when the column is not an array
	Constraints []ColumnConstraint
}

// ArraySize is the [] or [N] suffix of a column type.
type ArraySize struct {
	Len string // numeric literal; empty for a dynamic array
}

// Dynamic reports whether the array was declared without a size.
func (a *ArraySize) Dynamic() bool { return a.Len == "" }

// ColumnConstraint is one [CONSTRAINT name] constraint clause.
type ColumnConstraint struct {
	Name       string // empty when anonymous
	Kind       ConstraintKind
	References *ForeignKeyRef // set only for ForeignKeyConstraint
}

// ConstraintKind is the type of a column constraint.
type ConstraintKind uint8

const (
	PrimaryKeyConstraint ConstraintKind = iota
	UniqueConstraint
	NullableConstraint
	ForeignKeyConstraint
)

// ForeignKeyRef is REFERENCES table [(columns)].
type ForeignKeyRef struct {
	Table   Table
	Columns []string // nil when omitted
}
