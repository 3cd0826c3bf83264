package profile

import (
	"context"
	"regexp"
	"testing"
	"time"

	"gymclass/internal/auth"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	return repo, mock, func() { sqlxDB.Close() }
}

var profileRowColumns = []string{
	"id", "email", "phone", "first_name", "last_name", "id_number", "role", "language",
	"referral_code", "referred_by", "created_at", "updated_at",
}

func TestCreate(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	p := &Profile{ID: uuid.New(), Email: "maria@example.com", Role: auth.RoleUser, Language: "gr", ReferralCode: "ABCD1234"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO profiles")).
		WithArgs(p.ID, p.Email, "", "", "", "", "user", "gr", "ABCD1234").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, now, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolations(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	p := &Profile{ID: uuid.New(), Email: "maria@example.com", Role: auth.RoleUser, Language: "gr", ReferralCode: "ABCD1234"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO profiles")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: referralCodeConstraint})
	assert.ErrorIs(t, repo.Create(context.Background(), p), errReferralCodeCollide)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO profiles")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "profiles_pkey"})
	assert.ErrorIs(t, repo.Create(context.Background(), p), ErrProfileExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	id := uuid.New()
	referrer := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(profileRowColumns).
			AddRow(id.String(), "a@b.c", "", "Maria", "P", "", "trainer", "en", "ABCD1234", referrer.String(), now, now))

	p, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, auth.RoleTrainer, p.Role)
	require.NotNil(t, p.ReferredBy)
	assert.Equal(t, referrer, *p.ReferredBy)

	mock.ExpectQuery(regexp.QuoteMeta("FROM profiles WHERE id = $1")).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(profileRowColumns))

	_, err = repo.GetByID(context.Background(), id)
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LinkReferral(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	referee, referrer := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET referred_by = $2")).
		WithArgs(referee, referrer).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO referrals")).
		WithArgs(sqlmock.AnyArg(), referrer, referee).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.LinkReferral(context.Background(), referee, referrer))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_LinkReferral_AlreadyReferredRollsBack(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	referee, referrer := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET referred_by = $2")).
		WithArgs(referee, referrer).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.LinkReferral(context.Background(), referee, referrer)
	assert.ErrorIs(t, err, ErrAlreadyReferred)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReferrals(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	referrer := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM referrals r")).
		WithArgs(referrer).
		WillReturnRows(sqlmock.NewRows([]string{"id", "referrer_id", "referee_id", "first_name", "last_name", "created_at"}).
			AddRow(uuid.NewString(), referrer.String(), uuid.NewString(), "Nikos", "K", time.Now()))

	list, err := repo.ListReferrals(context.Background(), referrer)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "Nikos", list[0].FirstName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
