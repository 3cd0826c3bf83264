package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const defaultLimit = 50

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const paymentSelect = `
	SELECT
		pay.id, pay.user_id, pay.subscription_id, pay.amount_cents, pay.status,
		pay.processed_at, pay.created_at,
		p.name_gr AS package_name_gr,
		p.name_en AS package_name_en
	FROM payments pay
	JOIN user_subscriptions s ON s.id = pay.subscription_id
	JOIN subscription_packages p ON p.id = s.package_id
`

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]PaymentWithPackage, error) {
	if limit <= 0 || limit > defaultLimit {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	payments := []PaymentWithPackage{}
	err := r.db.SelectContext(ctx, &payments, paymentSelect+`
		WHERE pay.user_id = $1
		ORDER BY pay.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) ListPending(ctx context.Context) ([]PaymentWithPackage, error) {
	payments := []PaymentWithPackage{}
	err := r.db.SelectContext(ctx, &payments, paymentSelect+`
		WHERE pay.status = 'pending'
		ORDER BY pay.created_at
	`)
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) Revenue(ctx context.Context, from, to time.Time) (*Revenue, error) {
	rev := &Revenue{From: from, To: to}
	err := r.db.QueryRowxContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) AS total_cents, COUNT(*) AS count
		FROM payments
		WHERE status = 'approved' AND processed_at >= $1 AND processed_at < $2
	`, from, to).Scan(&rev.TotalCents, &rev.Count)
	if err != nil {
		return nil, err
	}
	return rev, nil
}
