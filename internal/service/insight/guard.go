package insight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xwb1989/sqlparser"
)

var ErrUnsafeQuery = errors.New("unsafe query")

const (
	GuardKeyword   = "keyword"
	GuardStatement = "statement"
	GuardStrict    = "strict"
)

// Guard decides whether a generated statement may run.
type Guard interface {
	Check(query string) error
}

var DefaultKeywords = []string{"drop", "delete", "insert", "update"}

// KeywordGuard rejects any statement containing one of Keywords, case-insensitively and
// anywhere in the text. It over-rejects (a column named last_update) and under-rejects
// (REPLACE, GRANT); pair it with StatementGuard.
type KeywordGuard struct {
	Keywords []string
}

func (g KeywordGuard) Check(query string) error {
	keywords := g.Keywords
	if keywords == nil {
		keywords = DefaultKeywords
	}

	lowered := strings.ToLower(query)
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return fmt.Errorf("%w: contains %q", ErrUnsafeQuery, kw)
		}
	}

	return nil
}

// StatementGuard parses the statement and only lets a single SELECT or UNION through.
// The parser predates MySQL 8, so CTEs and window functions are rejected as unparsable.
type StatementGuard struct{}

func (StatementGuard) Check(query string) error {
	stmt, err := sqlparser.Parse(query)
	if err != nil {
		return fmt.Errorf("%w: not a single parsable statement: %v", ErrUnsafeQuery, err)
	}

	sel, ok := stmt.(sqlparser.SelectStatement)
	if !ok {
		return fmt.Errorf("%w: %s statements are not allowed", ErrUnsafeQuery, statementKind(stmt))
	}

	return checkSelect(sel)
}

// checkSelect walks unions and parenthesized selects so a lock clause on any part is caught.
func checkSelect(stmt sqlparser.SelectStatement) error {
	switch s := stmt.(type) {
	case *sqlparser.Select:
		if s.Lock != "" {
			return fmt.Errorf("%w: locking reads are not allowed", ErrUnsafeQuery)
		}
		return nil
	case *sqlparser.Union:
		if s.Lock != "" {
			return fmt.Errorf("%w: locking reads are not allowed", ErrUnsafeQuery)
		}
		if err := checkSelect(s.Left); err != nil {
			return err
		}
		return checkSelect(s.Right)
	case *sqlparser.ParenSelect:
		return checkSelect(s.Select)
	}

	return fmt.Errorf("%w: %s statements are not allowed", ErrUnsafeQuery, statementKind(stmt))
}

func statementKind(stmt sqlparser.Statement) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", stmt), "*sqlparser.")
}

// Chain passes only when every guard passes; the first rejection wins.
type Chain []Guard

func (c Chain) Check(query string) error {
	for _, g := range c {
		if err := g.Check(query); err != nil {
			return err
		}
	}
	return nil
}

// NewGuard builds the guard for mode. The empty mode is the keyword denylist.
func NewGuard(mode string) (Guard, error) {
	switch mode {
	case GuardKeyword, "":
		return KeywordGuard{}, nil
	case GuardStatement:
		return StatementGuard{}, nil
	case GuardStrict:
		return Chain{KeywordGuard{}, StatementGuard{}}, nil
	}

	return nil, fmt.Errorf("unknown guard mode %q", mode)
}
