package sqlite

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/stocklist/pkg/types"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// buildWhere converts an equality filter into a WHERE clause over an
// allowlist of columns. Filter keys are sorted so the generated SQL is
// deterministic. Bool values are stored as 0/1.
// Returns ErrInvalidFilter for keys outside the allowlist.
func buildWhere(allowed map[string]bool, filter map[string]any) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		if !allowed[k] {
			return "", nil, fmt.Errorf("%w: %q", types.ErrInvalidFilter, k)
		}
		v := filter[k]
		if b, ok := v.(bool); ok {
			v = boolToInt(b)
		}
		clauses = append(clauses, k+" = ?")
		args = append(args, v)
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
