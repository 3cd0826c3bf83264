package dashboard

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) UserSummary(ctx context.Context, userID uuid.UUID, now time.Time, today string, upcomingLimit int) (*UserDashboard, error) {
	d := &UserDashboard{UpcomingBookings: []UpcomingBooking{}}

	var sub struct {
		CreditsRemaining int        `db:"credits_remaining"`
		ExpiresAt        *time.Time `db:"expires_at"`
	}
	err := r.db.GetContext(ctx, &sub, `
		SELECT credits_remaining, expires_at
		FROM user_subscriptions
		WHERE user_id = $1 AND status = 'active'
		  AND (expires_at IS NULL OR expires_at > $2)
		ORDER BY expires_at NULLS LAST
		LIMIT 1
	`, userID, now)
	switch {
	case err == nil:
		d.CreditsRemaining = sub.CreditsRemaining
		d.SubscriptionExpiresAt = sub.ExpiresAt
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, err
	}

	err = r.db.GetContext(ctx, &d.HasPendingPayment, `
		SELECT EXISTS (
			SELECT 1 FROM user_subscriptions
			WHERE user_id = $1 AND payment_status = 'pending' AND status = 'pending'
		)
	`, userID)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &d.UpcomingBookings, `
		SELECT
			b.id AS booking_id, b.session_id, b.qr_code,
			to_char(s.session_date, 'YYYY-MM-DD') AS session_date,
			to_char(s.start_time, 'HH24:MI') AS start_time,
			to_char(s.end_time, 'HH24:MI') AS end_time,
			r.name_gr AS room_name_gr,
			r.name_en AS room_name_en
		FROM bookings b
		JOIN class_sessions s ON s.id = b.session_id
		JOIN rooms r ON r.id = s.room_id
		WHERE b.user_id = $1 AND b.status = 'active' AND s.session_date >= $2::date
		ORDER BY s.session_date, s.start_time
		LIMIT $3
	`, userID, today, upcomingLimit)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &d.TotalBookings, `SELECT COUNT(*) FROM bookings WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (r *repository) AdminSummary(ctx context.Context, dayStart, dayEnd time.Time) (*AdminDashboard, error) {
	d := &AdminDashboard{}
	err := r.db.QueryRowxContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM profiles WHERE role = 'user') AS total_users,
			(SELECT COALESCE(SUM(amount_cents), 0) FROM payments WHERE status = 'approved') AS revenue_cents,
			(SELECT COUNT(*) FROM bookings WHERE created_at >= $1 AND created_at < $2) AS bookings_today,
			(SELECT COUNT(*) FROM user_subscriptions WHERE payment_status = 'pending' AND status = 'pending') AS pending_approvals
	`, dayStart, dayEnd).Scan(&d.TotalUsers, &d.RevenueCents, &d.BookingsToday, &d.PendingApprovals)
	if err != nil {
		return nil, err
	}
	return d, nil
}
