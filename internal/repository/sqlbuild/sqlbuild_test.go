package sqlbuild_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goshop/internal/domain"
	"goshop/internal/repository/sqlbuild"
)

func TestBuilder_NoConditions(t *testing.T) {
	b := &sqlbuild.Builder{}

	assert.Equal(t, "", b.WhereClause())
	assert.Empty(t, b.Args())
}

func TestBuilder_NumbersPlaceholdersInOrder(t *testing.T) {
	b := &sqlbuild.Builder{}
	b.Where("name ILIKE $%d", "%phone%")
	b.Where("price >= $%d", 100)

	assert.Equal(t, " WHERE name ILIKE $1 AND price >= $2", b.WhereClause())
	assert.Equal(t, []interface{}{"%phone%", 100}, b.Args())
}

func TestBuilder_PaginationBindsOffsetAndLimit(t *testing.T) {
	b := &sqlbuild.Builder{}
	b.Where("available = $%d", true)

	clause := b.Pagination(20, 10)

	assert.Equal(t, " OFFSET $2 LIMIT $3", clause)
	assert.Equal(t, []interface{}{true, 20, 10}, b.Args())
}

func TestOrderClause_WhitelistedColumn(t *testing.T) {
	allowed := map[string]string{"name": "p.name", "price": "p.price"}

	clause := sqlbuild.OrderClause("price", domain.OrderAsc, allowed, "p.name")

	assert.Equal(t, " ORDER BY p.price ASC", clause)
}

func TestOrderClause_UnknownKeyFallsBackToDefault(t *testing.T) {
	allowed := map[string]string{"name": "p.name"}

	clause := sqlbuild.OrderClause("created_at; DROP TABLE products", domain.OrderAsc, allowed, "p.name")

	assert.Equal(t, " ORDER BY p.name ASC", clause)
}

func TestOrderClause_DirectionDefaultsToDesc(t *testing.T) {
	allowed := map[string]string{"name": "p.name"}

	assert.Equal(t, " ORDER BY p.name DESC", sqlbuild.OrderClause("name", "", allowed, "p.id"))
	assert.Equal(t, " ORDER BY p.name DESC", sqlbuild.OrderClause("name", domain.OrderDesc, allowed, "p.id"))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%shoe%", sqlbuild.LikePattern("shoe"))
}
