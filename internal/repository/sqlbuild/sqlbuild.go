// Package sqlbuild holds the minimal helpers the repositories use to turn a
// filter struct into parameterized SQL. It is the explicit replacement for an
// ORM query builder: conditions, sort whitelists and pagination are all bound
// arguments, never interpolated caller input.
package sqlbuild

import (
	"fmt"
	"strings"

	"goshop/internal/domain"
)

// Builder accumulates WHERE conditions with positional placeholders.
type Builder struct {
	conds []string
	args  []interface{}
}

// Where appends a condition whose single %d verb receives the next
// placeholder index.
func (b *Builder) Where(expr string, val interface{}) {
	b.args = append(b.args, val)
	b.conds = append(b.conds, fmt.Sprintf(expr, len(b.args)))
}

// WhereClause renders the accumulated conditions, empty when there are none.
func (b *Builder) WhereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// Pagination appends OFFSET/LIMIT as bound arguments.
func (b *Builder) Pagination(offset, limit int) string {
	b.args = append(b.args, offset)
	offsetIdx := len(b.args)
	b.args = append(b.args, limit)
	limitIdx := len(b.args)
	return fmt.Sprintf(" OFFSET $%d LIMIT $%d", offsetIdx, limitIdx)
}

// Args returns the bound arguments in placeholder order.
func (b *Builder) Args() []interface{} {
	return b.args
}

// OrderClause resolves a caller-supplied sort key against a whitelist of
// scannable columns. Unknown keys fall back to the default; direction is DESC
// unless explicitly ASC.
func OrderClause(sortBy string, orderBy domain.SortOrder, allowed map[string]string, defaultColumn string) string {
	column, ok := allowed[sortBy]
	if !ok {
		column = defaultColumn
	}
	direction := "DESC"
	if orderBy == domain.OrderAsc {
		direction = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

// LikePattern wraps a term for a contains match.
func LikePattern(s string) string {
	return "%" + s + "%"
}
