package postgres

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oksasatya/vaccine-accounts/internal/domain/repository"
)

// liveOnly is prepended to every WHERE clause so soft-deleted rows stay hidden.
const liveOnly = "deleted_at IS NULL"

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildWhere renders f as "deleted_at IS NULL AND col = $n ..." with
// placeholders numbered from argStart. A nil value renders as IS NULL.
func buildWhere(f repository.Filter, argStart int) (string, []any, error) {
	parts := []string{liveOnly}
	args := make([]any, 0, len(f))
	n := argStart
	for _, col := range sortedKeys(f) {
		if _, ok := repository.FilterColumns[col]; !ok {
			return "", nil, fmt.Errorf("%w: %q", repository.ErrUnknownColumn, col)
		}
		v := f[col]
		if v == nil {
			parts = append(parts, col+" IS NULL")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", col, n))
		args = append(args, v)
		n++
	}
	return strings.Join(parts, " AND "), args, nil
}

// buildSet renders ch as "col = $1, ..., updated_at = now()".
func buildSet(ch repository.Changes) (string, []any, error) {
	parts := make([]string, 0, len(ch)+1)
	args := make([]any, 0, len(ch))
	for i, col := range sortedKeys(ch) {
		if _, ok := repository.UpdatableColumns[col]; !ok {
			return "", nil, fmt.Errorf("%w: %q", repository.ErrUnknownColumn, col)
		}
		parts = append(parts, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, ch[col])
	}
	parts = append(parts, "updated_at = now()")
	return strings.Join(parts, ", "), args, nil
}
