package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gymclass/internal/apperr"
	"gymclass/internal/auth"
	"gymclass/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const referralCodeConstraint = "profiles_referral_code_key"

var (
	ErrProfileNotFound     = fmt.Errorf("%w: profile not found", apperr.ErrNotFound)
	ErrProfileExists       = fmt.Errorf("%w: profile already exists", apperr.ErrConflict)
	ErrAlreadyReferred     = fmt.Errorf("%w: profile already has a referrer", apperr.ErrConflict)
	errReferralCodeCollide = errors.New("referral code collision")
)

const profileColumns = `id, email, phone, first_name, last_name, id_number, role, language,
		referral_code, referred_by, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (id, email, phone, first_name, last_name, id_number, role, language, referral_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.ID, p.Email, p.Phone, p.FirstName, p.LastName, p.IDNumber, p.Role, p.Language, p.ReferralCode,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	switch {
	case err == nil:
		return nil
	case db.IsUniqueViolation(err, referralCodeConstraint):
		return errReferralCodeCollide
	case db.IsUniqueViolation(err, ""):
		return ErrProfileExists
	default:
		return err
	}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetByReferralCode(ctx context.Context, code string) (*Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE referral_code = $1`

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	query := `
		UPDATE profiles SET
			phone      = COALESCE($2, phone),
			first_name = COALESCE($3, first_name),
			last_name  = COALESCE($4, last_name),
			language   = COALESCE($5, language),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	var p Profile
	err := r.db.GetContext(ctx, &p, query, id, req.Phone, req.FirstName, req.LastName, req.Language)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) SetRole(ctx context.Context, id uuid.UUID, role auth.Role) (*Profile, error) {
	query := `
		UPDATE profiles SET role = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + profileColumns

	var p Profile
	if err := r.db.GetContext(ctx, &p, query, id, role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &p, nil
}

// LinkReferral sets referred_by and records the referral together.
func (r *repository) LinkReferral(ctx context.Context, refereeID, referrerID uuid.UUID) error {
	return db.WithTx(ctx, r.db, 0, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE profiles SET referred_by = $2, updated_at = NOW() WHERE id = $1 AND referred_by IS NULL`,
			refereeID, referrerID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadyReferred
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO referrals (id, referrer_id, referee_id) VALUES ($1, $2, $3)`,
			uuid.New(), referrerID, refereeID,
		)
		if db.IsUniqueViolation(err, "") {
			return ErrAlreadyReferred
		}
		return err
	})
}

func (r *repository) ListReferrals(ctx context.Context, referrerID uuid.UUID) ([]Referral, error) {
	query := `
		SELECT r.id, r.referrer_id, r.referee_id, p.first_name, p.last_name, r.created_at
		FROM referrals r
		JOIN profiles p ON p.id = r.referee_id
		WHERE r.referrer_id = $1
		ORDER BY r.created_at DESC
	`

	referrals := []Referral{}
	if err := r.db.SelectContext(ctx, &referrals, query, referrerID); err != nil {
		return nil, err
	}
	return referrals, nil
}
