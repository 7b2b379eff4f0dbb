package ast

// UnaryOp is a prefix operator.
type UnaryOp uint8

const (
	Negate UnaryOp = iota
)

// NegatePrecedence is the binding power of unary minus and plus. It is
// higher than that of any binary operator.
const NegatePrecedence = 6

func (op UnaryOp) String() string {
	if op == Negate {
		return "-"
	}
	return "UNKNOWN"
}

// MarshalText renders the operator as its SQL spelling.
func (op UnaryOp) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

// BinaryOp is an infix operator.
type BinaryOp uint8

const (
	Equal BinaryOp = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
	And
	Or
	Add
	Subtract
	Multiply
	BitAnd
	BitOr
	Concatenate
)

var binaryOpNames = [...]string{
	Equal:              "=",
	NotEqual:           "!=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	And:                "AND",
	Or:                 "OR",
	Add:                "+",
	Subtract:           "-",
	Multiply:           "*",
	BitAnd:             "&",
	BitOr:              "|",
	Concatenate:        "||",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "UNKNOWN"
}

// MarshalText renders the operator as its SQL spelling.
func (op BinaryOp) MarshalText() ([]byte, error) { return []byte(op.String()), nil }

// Precedence returns the binding power of the operator. Operators with a
// higher number bind tighter; all binary operators are left associative.
func (op BinaryOp) Precedence() int {
	switch op {
	case Multiply:
		return 5
	case Add, Subtract, BitAnd, BitOr, Concatenate:
		return 4
	case Equal, NotEqual, LessThan, LessThanOrEqual, GreaterThan, GreaterThanOrEqual:
		return 3
	case And:
		return 2
	case Or:
		return 1
	}
	return 0
}

var constraintNames = [...]string{
	PrimaryKeyConstraint: "PRIMARY KEY",
	UniqueConstraint:     "UNIQUE",
	NullableConstraint:   "NULL",
	ForeignKeyConstraint: "REFERENCES",
}

func (k ConstraintKind) String() string {
	if int(k) < len(constraintNames) {
		return constraintNames[k]
	}
	return "UNKNOWN"
}

// MarshalText renders the constraint kind as its SQL spelling.
func (k ConstraintKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
