package ast

import "strings"

// Aggregate identifies a set-aggregating function. The grammar parses
// aggregate calls as ordinary function calls; execution engines use this
// classification to pick an implementation.
type Aggregate uint8

const (
	NotAggregate Aggregate = iota
	AggregateCount
	AggregateAvg
	AggregateSum
	AggregateMin
	AggregateMax
)

var aggregateNames = map[string]Aggregate{
	"count": AggregateCount,
	"avg":   AggregateAvg,
	"sum":   AggregateSum,
	"min":   AggregateMin,
	"max":   AggregateMax,
}

// LookupAggregate classifies a function name, ignoring case.
func LookupAggregate(name string) Aggregate {
	return aggregateNames[strings.ToLower(name)]
}

// Supported reports whether the aggregate has an implementation.
// MIN and MAX are recognized but not implemented.
func (a Aggregate) Supported() bool {
	switch a {
	case AggregateCount, AggregateAvg, AggregateSum:
		return true
	}
	return false
}

func (a Aggregate) String() string {
	switch a {
	case AggregateCount:
		return "COUNT"
	case AggregateAvg:
		return "AVG"
	case AggregateSum:
		return "SUM"
	case AggregateMin:
		return "MIN"
	case AggregateMax:
		return "MAX"
	}
	return ""
}

// CallName returns the function name of a call expression and whether e is
// a call at all.
func CallName(e Expr) (string, bool) {
	switch c := e.(type) {
	case *FuncCall:
		return c.Name, true
	case *AggregateAllCall:
		return c.Name, true
	}
	return "", false
}
