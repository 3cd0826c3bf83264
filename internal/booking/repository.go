package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymclass/internal/apperr"
	"gymclass/internal/db"
	"gymclass/internal/schedule"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	oneActivePerUserConstraint = "bookings_one_active_per_user"
	dateLayout                 = "2006-01-02"
)

var (
	ErrBookingNotFound     = fmt.Errorf("%w: booking not found", apperr.ErrNotFound)
	ErrSessionCancelled    = fmt.Errorf("%w: session is cancelled", apperr.ErrConflict)
	ErrSessionStarted      = fmt.Errorf("%w: session has already started", apperr.ErrConflict)
	ErrSessionFull         = fmt.Errorf("%w: no seats left", apperr.ErrSessionFull)
	ErrAlreadyBooked       = fmt.Errorf("%w: session already booked", apperr.ErrConflict)
	ErrInsufficientCredits = fmt.Errorf("%w: no active subscription with credits", apperr.ErrInsufficientCredits)
	ErrBookingNotActive    = fmt.Errorf("%w: booking is not active", apperr.ErrConflict)
	ErrAlreadyCheckedIn    = fmt.Errorf("%w: booking already checked in", apperr.ErrAlreadyUsed)
)

const bookingColumns = `id, user_id, session_id, subscription_id, qr_code, status,
		checked_in_at, cancelled_at, created_at`

const withSessionQuery = `
	SELECT
		b.id, b.user_id, b.session_id, b.subscription_id, b.qr_code, b.status,
		b.checked_in_at, b.cancelled_at, b.created_at,
		to_char(s.session_date, 'YYYY-MM-DD') AS session_date,
		to_char(s.start_time, 'HH24:MI') AS start_time,
		to_char(s.end_time, 'HH24:MI') AS end_time,
		s.status AS session_status,
		s.trainer_id,
		r.name_gr AS room_name_gr,
		r.name_en AS room_name_en
	FROM bookings b
	JOIN class_sessions s ON s.id = b.session_id
	JOIN rooms r ON r.id = s.room_id
`

type repository struct {
	db          *sqlx.DB
	lockTimeout time.Duration
	loc         *time.Location
}

// NewRepository returns the booking ledger. loc is the venue time zone that
// session dates and times are expressed in.
func NewRepository(db *sqlx.DB, lockTimeout time.Duration, loc *time.Location) Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &repository{db: db, lockTimeout: lockTimeout, loc: loc}
}

// Book reserves a seat and debits a credit in one transaction. The session
// row is locked before the subscription row; cancellation takes them in the
// same order. Every guard is re-checked by the conditional updates, so a
// booking either moves both counters or neither.
func (r *repository) Book(ctx context.Context, userID, sessionID uuid.UUID, qrCode string, now time.Time) (*Ledger, error) {
	var ledger Ledger

	err := db.WithTx(ctx, r.db, r.lockTimeout, func(tx *sqlx.Tx) error {
		var session schedule.ClassSession
		err := tx.GetContext(ctx, &session,
			`SELECT `+schedule.SessionColumns+` FROM class_sessions WHERE id = $1 FOR UPDATE`, sessionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return schedule.ErrSessionNotFound
			}
			return err
		}

		if session.Status == schedule.StatusCancelled {
			return ErrSessionCancelled
		}
		if session.CurrentBookings >= session.MaxCapacity {
			return ErrSessionFull
		}
		start, _, err := session.Window(r.loc)
		if err != nil {
			return err
		}
		if !now.Before(start) {
			return ErrSessionStarted
		}

		booked, err := db.Exists(ctx, tx, `
			SELECT EXISTS(
				SELECT 1 FROM bookings
				WHERE user_id = $1 AND session_id = $2 AND status = 'active'
			)`, userID, sessionID)
		if err != nil {
			return err
		}
		if booked {
			return ErrAlreadyBooked
		}

		var subscriptionID uuid.UUID
		err = tx.GetContext(ctx, &subscriptionID, `
			SELECT id FROM user_subscriptions
			WHERE user_id = $1 AND status = 'active' AND credits_remaining > 0
				AND (expires_at IS NULL OR expires_at > $2)
			ORDER BY expires_at NULLS LAST
			LIMIT 1
			FOR UPDATE`, userID, now)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInsufficientCredits
			}
			return err
		}

		err = tx.GetContext(ctx, &ledger.CreditsRemaining, `
			UPDATE user_subscriptions SET credits_remaining = credits_remaining - 1
			WHERE id = $1 AND credits_remaining > 0
			RETURNING credits_remaining`, subscriptionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInsufficientCredits
			}
			return err
		}

		var updated schedule.ClassSession
		err = tx.GetContext(ctx, &updated, `
			UPDATE class_sessions
			SET current_bookings = current_bookings + 1,
				status = CASE WHEN current_bookings + 1 = max_capacity THEN 'full' ELSE 'available' END
			WHERE id = $1 AND status = 'available' AND current_bookings < max_capacity
			RETURNING `+schedule.SessionColumns, sessionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSessionFull
			}
			return err
		}

		var b Booking
		err = tx.GetContext(ctx, &b, `
			INSERT INTO bookings (id, user_id, session_id, subscription_id, qr_code, status, created_at)
			VALUES ($1, $2, $3, $4, $5, 'active', $6)
			RETURNING `+bookingColumns,
			uuid.New(), userID, sessionID, subscriptionID, qrCode, now,
		)
		if err != nil {
			if db.IsUniqueViolation(err, oneActivePerUserConstraint) {
				return ErrAlreadyBooked
			}
			return err
		}

		ledger.Booking = &b
		ledger.Session = &updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// Cancel releases the seat and refunds the credit of an active booking.
func (r *repository) Cancel(ctx context.Context, bookingID uuid.UUID, now time.Time) (*Ledger, error) {
	var ledger Ledger

	err := db.WithTx(ctx, r.db, r.lockTimeout, func(tx *sqlx.Tx) error {
		var current Booking
		err := tx.GetContext(ctx, &current,
			`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, bookingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotFound
			}
			return err
		}
		if current.Status != StatusActive {
			return ErrBookingNotActive
		}

		var session schedule.ClassSession
		err = tx.GetContext(ctx, &session, `
			UPDATE class_sessions
			SET current_bookings = current_bookings - 1,
				status = CASE WHEN status = 'full' THEN 'available' ELSE status END
			WHERE id = $1 AND current_bookings > 0
			RETURNING `+schedule.SessionColumns, current.SessionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("session %s has no booked seats for active booking %s", current.SessionID, bookingID)
			}
			return err
		}

		err = tx.GetContext(ctx, &ledger.CreditsRemaining, `
			UPDATE user_subscriptions SET credits_remaining = credits_remaining + 1
			WHERE id = $1
			RETURNING credits_remaining`, current.SubscriptionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("subscription %s of booking %s is missing", current.SubscriptionID, bookingID)
			}
			return err
		}

		var b Booking
		err = tx.GetContext(ctx, &b, `
			UPDATE bookings SET status = 'cancelled', cancelled_at = $2
			WHERE id = $1 AND status = 'active'
			RETURNING `+bookingColumns, bookingID, now)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrBookingNotActive
			}
			return err
		}

		ledger.Booking = &b
		ledger.Session = &session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*BookingWithSession, error) {
	var b BookingWithSession
	if err := r.db.GetContext(ctx, &b, withSessionQuery+` WHERE b.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetByQRCode(ctx context.Context, qrCode string) (*BookingWithSession, error) {
	var b BookingWithSession
	if err := r.db.GetContext(ctx, &b, withSessionQuery+` WHERE b.qr_code = $1`, qrCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Complete marks an active booking as checked in. Seats and credits are
// already accounted for.
func (r *repository) Complete(ctx context.Context, id uuid.UUID, now time.Time) (*Booking, error) {
	query := `
		UPDATE bookings SET status = 'completed', checked_in_at = $2
		WHERE id = $1 AND status = 'active'
		RETURNING ` + bookingColumns

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.notActive(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) MarkNoShow(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `
		UPDATE bookings SET status = 'no_show'
		WHERE id = $1 AND status = 'active'
		RETURNING ` + bookingColumns

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.notActive(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// notActive explains why a guarded update on an active booking matched no row.
func (r *repository) notActive(ctx context.Context, id uuid.UUID) error {
	var status Status
	err := r.db.GetContext(ctx, &status, `SELECT status FROM bookings WHERE id = $1`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrBookingNotFound
	case err != nil:
		return err
	case status == StatusCompleted:
		return ErrAlreadyCheckedIn
	default:
		return ErrBookingNotActive
	}
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingWithSession, error) {
	query := withSessionQuery + `
		WHERE b.user_id = $1
		ORDER BY s.session_date DESC, s.start_time DESC
	`

	bookings := []BookingWithSession{}
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]RosterEntry, error) {
	query := `
		SELECT
			b.id, b.user_id, b.session_id, b.subscription_id, b.qr_code, b.status,
			b.checked_in_at, b.cancelled_at, b.created_at,
			p.first_name, p.last_name, p.email, p.phone
		FROM bookings b
		JOIN profiles p ON p.id = b.user_id
		WHERE b.session_id = $1 AND b.status <> 'cancelled'
		ORDER BY p.last_name, p.first_name
	`

	roster := []RosterEntry{}
	if err := r.db.SelectContext(ctx, &roster, query, sessionID); err != nil {
		return nil, err
	}
	return roster, nil
}

func (r *repository) StatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error) {
	query := `
		SELECT
			to_char(s.session_date, 'YYYY-MM-DD') AS day,
			COUNT(*) FILTER (WHERE b.status = 'active') AS active,
			COUNT(*) FILTER (WHERE b.status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE b.status = 'cancelled') AS cancelled,
			COUNT(*) FILTER (WHERE b.status = 'no_show') AS no_show
		FROM bookings b
		JOIN class_sessions s ON s.id = b.session_id
		WHERE s.session_date BETWEEN $1 AND $2
		GROUP BY s.session_date
		ORDER BY s.session_date
	`

	stats := []DayStats{}
	err := r.db.SelectContext(ctx, &stats, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	return stats, nil
}
