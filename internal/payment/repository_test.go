package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPaymentMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

var paymentRowColumns = []string{
	"id", "user_id", "subscription_id", "amount_cents", "status", "processed_at", "created_at",
	"package_name_gr", "package_name_en",
}

func TestListByUser(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	userID := uuid.New()
	now := time.Now()

	// oversized pages are clamped
	mock.ExpectQuery(regexp.QuoteMeta("WHERE pay.user_id = $1 ORDER BY pay.created_at DESC LIMIT $2 OFFSET $3")).
		WithArgs(userID, 50, 0).
		WillReturnRows(sqlmock.NewRows(paymentRowColumns).
			AddRow(uuid.NewString(), userID.String(), uuid.NewString(), 4500, "approved", now, now, "Μηνιαίο", "Monthly"))

	payments, err := repo.ListByUser(context.Background(), userID, 500, -1)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, StatusApproved, payments[0].Status)
	assert.Equal(t, "Monthly", payments[0].PackageNameEN)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPending(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE pay.status = 'pending'")).
		WillReturnRows(sqlmock.NewRows(paymentRowColumns))

	payments, err := repo.ListPending(context.Background())
	require.NoError(t, err)
	assert.Empty(t, payments)
	assert.NotNil(t, payments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRevenue(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'approved' AND processed_at >= $1 AND processed_at < $2")).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"total_cents", "count"}).AddRow(13500, 3))

	rev, err := repo.Revenue(context.Background(), from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(13500), rev.TotalCents)
	assert.Equal(t, 3, rev.Count)
	assert.Equal(t, from, rev.From)
	assert.NoError(t, mock.ExpectationsWereMet())
}
