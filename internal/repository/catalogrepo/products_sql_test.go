package catalogrepo

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"goshop/internal/pkg/logger"
)

// The repository runs without redis; writes must not touch a nil cache.
func TestProductDelete_NoCacheConfigured(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProductRepository(db, nil, time.Second, time.Minute, logger.NewLogger("error"))

	mock.ExpectExec("DELETE FROM products").
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "p-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
