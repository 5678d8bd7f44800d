package catalogrepo

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goshop/internal/domain"
	apperror "goshop/internal/errors"
	"goshop/internal/pkg/logger"
)

// Updating a category must replace its parameter links, not just the row:
// the response echoes the new parameters, so the database has to match.
func TestCategoryUpdate_RewritesParameterLinks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCategoryRepository(db, time.Second, logger.NewLogger("error"))

	now := time.Now().UTC()
	category := domain.Category{
		ID:         "cat-1",
		Name:       "Phones",
		URL:        "phones",
		UpdatedAt:  now,
		Parameters: []domain.Parameter{{ID: "par-1"}, {ID: "par-2"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE categories SET").
		WithArgs("Phones", "phones", nil, now, "cat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM category_parameters").
		WithArgs("cat-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO category_parameters").
		WithArgs("cat-1", "par-1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO category_parameters").
		WithArgs("cat-1", "par-2").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Update(context.Background(), category))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryUpdate_UnknownIDRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCategoryRepository(db, time.Second, logger.NewLogger("error"))

	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE categories SET").
		WithArgs("Phones", "phones", nil, now, "ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err = repo.Update(context.Background(), domain.Category{
		ID: "ghost", Name: "Phones", URL: "phones", UpdatedAt: now,
	})

	var nf *apperror.NotFoundError
	assert.ErrorAs(t, err, &nf)
	require.NoError(t, mock.ExpectationsWereMet())
}
