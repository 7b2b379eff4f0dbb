package sqlsyntax

import (
	"fmt"
	"strings"

	"github.com/kestrel-db/sqlsyntax/ast"
)

type FindingSeverity string

const (
	SeverityInfo     FindingSeverity = "info"
	SeverityWarning  FindingSeverity = "warning"
	SeverityCritical FindingSeverity = "critical"
)

// DefaultBulkInsertThreshold is the VALUES row count above which
// BULK_INSERT_SIZE is reported.
const DefaultBulkInsertThreshold = 1000

type AnalysisFinding struct {
	Severity       FindingSeverity `yaml:"severity"`
	Code           string          `yaml:"code"`
	Message        string          `yaml:"message"`
	Problem        string          `yaml:"-"`
	Recommendation string          `yaml:"-"`
	StatementIndex int             `yaml:"statement"`
}

type AnalysisReport struct {
	Valid          bool              `yaml:"valid"`
	StatementCount int               `yaml:"statements"`
	Findings       []AnalysisFinding `yaml:"findings,omitempty"`
}

type AnalysisOptions struct {
	// BulkInsertThreshold overrides DefaultBulkInsertThreshold when > 0.
	BulkInsertThreshold int `yaml:"bulk_insert_threshold"`
	// Disabled lists finding codes that are never reported.
	Disabled []string `yaml:"disabled"`
}

func AnalyzeSQL(sql string) AnalysisReport {
	return AnalyzeSQLWithOptions(sql, AnalysisOptions{})
}

func AnalyzeSQLWithOptions(sql string, opts AnalysisOptions) AnalysisReport {
	stmts, err := ParseStatements(sql)
	if err != nil {
		a := newAnalyzer(opts)
		a.addFinding(SeverityCritical, "PARSE_ERROR", err.Error(), "Fix SQL syntax at the reported token and re-run parsing.", -1)
		return a.report
	}
	return AnalyzeStatements(stmts, opts)
}

// AnalyzeStatements lints statements that were already parsed.
func AnalyzeStatements(stmts []Statement, opts AnalysisOptions) AnalysisReport {
	a := newAnalyzer(opts)
	a.report.Valid = true
	a.report.StatementCount = len(stmts)
	for i, stmt := range stmts {
		a.analyzeStatement(stmt, i)
	}
	return a.report
}

type analyzer struct {
	report   AnalysisReport
	bulk     int
	disabled map[string]bool
}

func newAnalyzer(opts AnalysisOptions) *analyzer {
	a := &analyzer{bulk: opts.BulkInsertThreshold}
	if a.bulk <= 0 {
		a.bulk = DefaultBulkInsertThreshold
	}
	if len(opts.Disabled) > 0 {
		a.disabled = make(map[string]bool, len(opts.Disabled))
		for _, code := range opts.Disabled {
			a.disabled[strings.ToUpper(code)] = true
		}
	}
	return a
}

func (a *analyzer) analyzeStatement(stmt Statement, idx int) {
	switch s := stmt.(type) {
	case *ast.SelectStmt:
		a.analyzeSelect(s, idx)
	case *ast.InsertStmt:
		a.analyzeInsert(s, idx)
	case *ast.CreateTableStmt:
		a.analyzeCreateTable(s, idx)
	}
}

func (a *analyzer) analyzeSelect(s *ast.SelectStmt, idx int) {
	if hasSelectStar(s.Columns) {
		a.addFinding(SeverityWarning, "SELECT_STAR", "Query uses SELECT *; this can read unnecessary columns and break clients if schema changes.", "Select explicit columns needed by the caller (e.g. SELECT id, name) to reduce IO and improve compatibility.", idx)
	}
	if cj, ok := s.From.(*ast.CrossJoin); ok {
		if len(cj.Tables) > 1 && s.Where == nil {
			a.addFinding(SeverityWarning, "CROSS_PRODUCT", fmt.Sprintf("FROM lists %d tables without a WHERE clause, producing their full cartesian product.", len(cj.Tables)), "Add a WHERE predicate relating the tables, or confirm the cross product is intended.", idx)
		}
		for _, tr := range cj.Tables {
			if sq, ok := tr.(*ast.SubqueryTable); ok {
				a.analyzeSelect(sq.Subq, idx)
			}
		}
	}
	for _, c := range s.Columns {
		a.analyzeExpr(c.Expr, idx)
	}
	a.analyzeExpr(s.Where, idx)
	for _, e := range s.GroupBy {
		a.analyzeExpr(e, idx)
	}
	a.analyzeExpr(s.Having, idx)
}

func (a *analyzer) analyzeInsert(s *ast.InsertStmt, idx int) {
	table := s.Table.Name
	if s.Columns == nil {
		a.addFinding(SeverityInfo, "INSERT_IMPLICIT_COLUMNS", fmt.Sprintf("INSERT into %s does not name its target columns.", table), "List the target columns explicitly so the statement survives schema changes.", idx)
	} else if dup, ok := firstDuplicate(s.Columns); ok {
		a.addFinding(SeverityCritical, "DUPLICATE_COLUMN", fmt.Sprintf("Column %s is listed more than once in INSERT into %s.", dup, table), "Remove the repeated column from the column list.", idx)
	}

	switch src := s.Source.(type) {
	case *ast.ValuesSource:
		if len(src.Rows) > a.bulk {
			a.addFinding(SeverityInfo, "BULK_INSERT_SIZE", fmt.Sprintf("VALUES clause has %d rows; this can increase lock time and memory pressure.", len(src.Rows)), "Split into smaller batches (for example 200-1000 rows) and use transactions if needed.", idx)
		}
		want := len(s.Columns)
		for i, row := range src.Rows {
			if s.Columns == nil && i == 0 {
				want = len(row)
				continue
			}
			if len(row) != want {
				a.addFinding(SeverityCritical, "INSERT_ARITY_MISMATCH", fmt.Sprintf("VALUES row %d has %d values; expected %d.", i+1, len(row), want), "Make every row supply exactly one value per target column.", idx)
				break
			}
		}
		for _, row := range src.Rows {
			for _, e := range row {
				a.analyzeExpr(e, idx)
			}
		}
	case *ast.SelectSource:
		sel := src.Select
		if s.Columns != nil && !hasSelectStar(sel.Columns) && len(sel.Columns) != len(s.Columns) {
			a.addFinding(SeverityCritical, "INSERT_ARITY_MISMATCH", fmt.Sprintf("SELECT produces %d columns; INSERT names %d.", len(sel.Columns), len(s.Columns)), "Make the SELECT list match the target column list.", idx)
		}
		a.analyzeSelect(sel, idx)
	}
}

func (a *analyzer) analyzeCreateTable(s *ast.CreateTableStmt, idx int) {
	names := make([]string, len(s.Columns))
	primary := false
	for i, c := range s.Columns {
		names[i] = c.Name
		for _, cc := range c.Constraints {
			if cc.Kind == ast.PrimaryKeyConstraint {
				primary = true
			}
		}
	}
	if dup, ok := firstDuplicate(names); ok {
		a.addFinding(SeverityCritical, "DUPLICATE_COLUMN", fmt.Sprintf("Column %s is defined more than once in table %s.", dup, s.Table.Name), "Rename or remove the repeated column definition.", idx)
	}
	if !primary {
		a.addFinding(SeverityInfo, "NO_PRIMARY_KEY", fmt.Sprintf("Table %s has no PRIMARY KEY column.", s.Table.Name), "Declare a PRIMARY KEY so rows can be addressed and indexed uniquely.", idx)
	}
}

func (a *analyzer) analyzeExpr(e Expr, idx int) {
	if e == nil {
		return
	}
	switch ex := e.(type) {
	case *ast.BinaryExpr:
		if ex.Op == ast.Or {
			a.addFinding(SeverityInfo, "OR_PREDICATE", "OR predicate can reduce index selectivity and lead to less efficient plans.", "Consider splitting into UNION ALL branches or adding composite indexes aligned with predicates.", idx)
		}
		a.analyzeExpr(ex.Left, idx)
		a.analyzeExpr(ex.Right, idx)
	case *ast.UnaryExpr:
		a.analyzeExpr(ex.Expr, idx)
	case *ast.FuncCall:
		a.analyzeAggregate(ex.Name, len(ex.Args), false, idx)
		for _, arg := range ex.Args {
			a.analyzeExpr(arg, idx)
		}
	case *ast.AggregateAllCall:
		a.analyzeAggregate(ex.Name, 0, true, idx)
	}
}

func (a *analyzer) analyzeAggregate(name string, nargs int, star bool, idx int) {
	agg := ast.LookupAggregate(name)
	switch {
	case agg == ast.NotAggregate:
		if star {
			a.addFinding(SeverityWarning, "AGGREGATE_ARGUMENTS", fmt.Sprintf("%s(*) is not an aggregate; only COUNT accepts *.", name), "Pass explicit arguments to the function.", idx)
		}
	case !agg.Supported():
		a.addFinding(SeverityCritical, "UNSUPPORTED_AGGREGATE", fmt.Sprintf("Aggregate %s is recognized but not implemented.", agg), "Compute "+agg.String()+" in the client until the engine implements it.", idx)
	case star && agg != ast.AggregateCount:
		a.addFinding(SeverityWarning, "AGGREGATE_ARGUMENTS", fmt.Sprintf("%s(*) is not meaningful; only COUNT accepts *.", agg), "Pass the column to aggregate, e.g. "+agg.String()+"(amount).", idx)
	case !star && nargs != 1:
		a.addFinding(SeverityWarning, "AGGREGATE_ARGUMENTS", fmt.Sprintf("%s takes exactly one argument; got %d.", agg, nargs), "Call the aggregate with a single expression.", idx)
	}
}

func hasSelectStar(cols []ast.SelectColumn) bool {
	for _, c := range cols {
		if c.Star {
			return true
		}
	}
	return false
}

// firstDuplicate returns the first name that repeats, ignoring case.
func firstDuplicate(names []string) (string, bool) {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		k := strings.ToLower(n)
		if seen[k] {
			return n, true
		}
		seen[k] = true
	}
	return "", false
}

func (a *analyzer) addFinding(sev FindingSeverity, code, problem, recommendation string, idx int) {
	if a.disabled[code] {
		return
	}
	msg := problem
	if recommendation != "" {
		msg += " Recommendation: " + recommendation
	}
	a.report.Findings = append(a.report.Findings, AnalysisFinding{
		Severity:       sev,
		Code:           code,
		Message:        msg,
		Problem:        problem,
		Recommendation: recommendation,
		StatementIndex: idx,
	})
}

func (r AnalysisReport) String() string {
	if !r.Valid {
		if len(r.Findings) == 0 {
			return "invalid SQL"
		}
		return fmt.Sprintf("invalid SQL: %s", r.Findings[0].Problem)
	}
	if len(r.Findings) == 0 {
		return fmt.Sprintf("valid SQL (%d statements), no findings", r.StatementCount)
	}
	return fmt.Sprintf("valid SQL (%d statements), %d finding(s)", r.StatementCount, len(r.Findings))
}
