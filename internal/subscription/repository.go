package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymclass/internal/apperr"
	"gymclass/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const openPerUserConstraint = "user_subscriptions_one_open_per_user"

var (
	ErrPackageNotFound      = fmt.Errorf("%w: package not found", apperr.ErrNotFound)
	ErrPackageInactive      = fmt.Errorf("%w: package is not available", apperr.ErrNotFound)
	ErrProfileNotFound      = fmt.Errorf("%w: profile not found", apperr.ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("%w: subscription not found", apperr.ErrNotFound)
	ErrNoActiveSubscription = fmt.Errorf("%w: no active subscription", apperr.ErrNotFound)
	ErrOpenSubscription     = fmt.Errorf("%w: user already has a pending or active subscription", apperr.ErrConflict)
	ErrAlreadyDecided       = fmt.Errorf("%w: payment already decided", apperr.ErrConflict)
)

const packageColumns = `id, name_gr, name_en, description_gr, description_en, duration_months,
		sessions_per_week, total_credits, price_cents, is_active, created_at`

const subscriptionColumns = `id, user_id, package_id, status, credits_remaining, payment_status,
		payment_due_date, approved_by, approved_at, starts_at, expires_at, created_at`

type repository struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

func NewRepository(db *sqlx.DB, lockTimeout time.Duration) Repository {
	return &repository{db: db, lockTimeout: lockTimeout}
}

func (r *repository) ListPackages(ctx context.Context, includeInactive bool) ([]Package, error) {
	query := `SELECT ` + packageColumns + ` FROM subscription_packages
		WHERE is_active OR $1
		ORDER BY price_cents, duration_months`

	packages := []Package{}
	if err := r.db.SelectContext(ctx, &packages, query, includeInactive); err != nil {
		return nil, err
	}
	return packages, nil
}

func (r *repository) CreatePackage(ctx context.Context, p *Package) error {
	query := `
		INSERT INTO subscription_packages (id, name_gr, name_en, description_gr, description_en,
			duration_months, sessions_per_week, total_credits, price_cents, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	return r.db.QueryRowxContext(ctx, query,
		p.ID, p.NameGR, p.NameEN, p.DescriptionGR, p.DescriptionEN,
		p.DurationMonths, p.SessionsPerWeek, p.TotalCredits, p.PriceCents, p.IsActive,
	).Scan(&p.CreatedAt)
}

// SetPackageActive is the only mutation allowed on a package; price and
// credits stay fixed once created.
func (r *repository) SetPackageActive(ctx context.Context, id uuid.UUID, active bool) (*Package, error) {
	query := `UPDATE subscription_packages SET is_active = $2 WHERE id = $1 RETURNING ` + packageColumns

	var p Package
	if err := r.db.GetContext(ctx, &p, query, id, active); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Issue creates a pending subscription and its pending payment in one
// transaction. The member's profile row is locked first so concurrent
// issuances for one member are serialized.
func (r *repository) Issue(ctx context.Context, userID, packageID uuid.UUID, now, dueDate time.Time) (*Issued, error) {
	var issued *Issued

	err := db.WithTx(ctx, r.db, r.lockTimeout, func(tx *sqlx.Tx) error {
		var pkg Package
		err := tx.GetContext(ctx, &pkg, `SELECT `+packageColumns+` FROM subscription_packages WHERE id = $1`, packageID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPackageNotFound
			}
			return err
		}
		if !pkg.IsActive {
			return ErrPackageInactive
		}

		var locked uuid.UUID
		err = tx.GetContext(ctx, &locked, `SELECT id FROM profiles WHERE id = $1 FOR UPDATE`, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProfileNotFound
			}
			return err
		}

		// An active subscription past its expiry no longer counts as open.
		if _, err := tx.ExecContext(ctx, `
			UPDATE user_subscriptions SET status = 'expired'
			WHERE user_id = $1 AND status = 'active' AND expires_at <= $2`,
			userID, now,
		); err != nil {
			return err
		}

		open, err := db.Exists(ctx, tx, `
			SELECT EXISTS(
				SELECT 1 FROM user_subscriptions
				WHERE user_id = $1 AND status IN ('pending', 'active')
			)`, userID)
		if err != nil {
			return err
		}
		if open {
			return ErrOpenSubscription
		}

		var sub UserSubscription
		err = tx.GetContext(ctx, &sub, `
			INSERT INTO user_subscriptions (id, user_id, package_id, status, credits_remaining, payment_status, payment_due_date, created_at)
			VALUES ($1, $2, $3, 'pending', $4, 'pending', $5, $6)
			RETURNING `+subscriptionColumns,
			uuid.New(), userID, packageID, pkg.TotalCredits, dueDate, now,
		)
		if err != nil {
			if db.IsUniqueViolation(err, openPerUserConstraint) {
				return ErrOpenSubscription
			}
			return err
		}

		paymentID := uuid.New()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payments (id, user_id, subscription_id, amount_cents, status, created_at)
			VALUES ($1, $2, $3, $4, 'pending', $5)`,
			paymentID, userID, sub.ID, pkg.PriceCents, now,
		); err != nil {
			return err
		}

		issued = &Issued{Subscription: &sub, PaymentID: paymentID, AmountCents: pkg.PriceCents}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issued, nil
}

// Decide applies an approval decision to a subscription and its payment in
// one transaction. Only subscriptions whose payment is still pending can be
// decided.
func (r *repository) Decide(ctx context.Context, subscriptionID, adminID uuid.UUID, approve bool, now time.Time) (*UserSubscription, error) {
	var decided UserSubscription

	err := db.WithTx(ctx, r.db, r.lockTimeout, func(tx *sqlx.Tx) error {
		var current struct {
			PaymentStatus  PaymentStatus `db:"payment_status"`
			DurationMonths int           `db:"duration_months"`
		}
		err := tx.GetContext(ctx, &current, `
			SELECT s.payment_status, p.duration_months
			FROM user_subscriptions s
			JOIN subscription_packages p ON p.id = s.package_id
			WHERE s.id = $1
			FOR UPDATE OF s`, subscriptionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSubscriptionNotFound
			}
			return err
		}
		if current.PaymentStatus != PaymentPending {
			return ErrAlreadyDecided
		}

		paymentStatus := PaymentRejected
		if approve {
			paymentStatus = PaymentApproved
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE payments SET status = $2, processed_at = $3
			WHERE subscription_id = $1 AND status = 'pending'`,
			subscriptionID, paymentStatus, now,
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrAlreadyDecided
		}

		if approve {
			expiresAt := now.AddDate(0, current.DurationMonths, 0)
			err = tx.GetContext(ctx, &decided, `
				UPDATE user_subscriptions
				SET payment_status = 'approved', status = 'active',
					approved_by = $2, approved_at = $3, starts_at = $3, expires_at = $4
				WHERE id = $1 AND payment_status = 'pending'
				RETURNING `+subscriptionColumns,
				subscriptionID, adminID, now, expiresAt,
			)
		} else {
			err = tx.GetContext(ctx, &decided, `
				UPDATE user_subscriptions
				SET payment_status = 'rejected', status = 'cancelled'
				WHERE id = $1 AND payment_status = 'pending'
				RETURNING `+subscriptionColumns,
				subscriptionID,
			)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAlreadyDecided
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &decided, nil
}

func (r *repository) GetActive(ctx context.Context, userID uuid.UUID, now time.Time) (*UserSubscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM user_subscriptions
		WHERE user_id = $1 AND status = 'active' AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY created_at DESC
		LIMIT 1`

	var sub UserSubscription
	if err := r.db.GetContext(ctx, &sub, query, userID, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveSubscription
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]SubscriptionWithPackage, error) {
	query := `
		SELECT
			s.id, s.user_id, s.package_id, s.status, s.credits_remaining, s.payment_status,
			s.payment_due_date, s.approved_by, s.approved_at, s.starts_at, s.expires_at, s.created_at,
			p.name_gr AS package_name_gr,
			p.name_en AS package_name_en,
			p.duration_months, p.total_credits, p.price_cents
		FROM user_subscriptions s
		JOIN subscription_packages p ON p.id = s.package_id
		WHERE s.user_id = $1
		ORDER BY s.created_at DESC
	`

	subs := []SubscriptionWithPackage{}
	if err := r.db.SelectContext(ctx, &subs, query, userID); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *repository) ListPendingApprovals(ctx context.Context) ([]PendingApproval, error) {
	query := `
		SELECT
			s.id AS subscription_id,
			pay.id AS payment_id,
			s.user_id,
			pr.email, pr.first_name, pr.last_name,
			p.name_gr AS package_name_gr,
			p.name_en AS package_name_en,
			pay.amount_cents,
			s.payment_due_date,
			s.created_at
		FROM user_subscriptions s
		JOIN payments pay ON pay.subscription_id = s.id
		JOIN subscription_packages p ON p.id = s.package_id
		JOIN profiles pr ON pr.id = s.user_id
		WHERE s.payment_status = 'pending'
		ORDER BY s.created_at
	`

	pending := []PendingApproval{}
	if err := r.db.SelectContext(ctx, &pending, query); err != nil {
		return nil, err
	}
	return pending, nil
}

// Sweep expires active subscriptions past expires_at and cancels pending
// ones whose payment window has closed.
func (r *repository) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	err := db.WithTx(ctx, r.db, r.lockTimeout, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE user_subscriptions SET status = 'expired'
			WHERE status = 'active' AND expires_at <= $1`, now)
		if err != nil {
			return err
		}
		if result.Expired, err = res.RowsAffected(); err != nil {
			return err
		}

		var lapsed []uuid.UUID
		err = tx.SelectContext(ctx, &lapsed, `
			UPDATE user_subscriptions SET status = 'cancelled', payment_status = 'rejected'
			WHERE status = 'pending' AND payment_status = 'pending' AND payment_due_date <= $1
			RETURNING id`, now)
		if err != nil {
			return err
		}
		result.Lapsed = int64(len(lapsed))
		if len(lapsed) == 0 {
			return nil
		}

		query, args, err := sqlx.In(`
			UPDATE payments SET status = 'rejected', processed_at = ?
			WHERE status = 'pending' AND subscription_id IN (?)`, now, lapsed)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(query), args...)
		return err
	})
	return result, err
}
