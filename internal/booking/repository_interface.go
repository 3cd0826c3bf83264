package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Book(ctx context.Context, userID, sessionID uuid.UUID, qrCode string, now time.Time) (*Ledger, error)
	Cancel(ctx context.Context, bookingID uuid.UUID, now time.Time) (*Ledger, error)
	GetByID(ctx context.Context, id uuid.UUID) (*BookingWithSession, error)
	GetByQRCode(ctx context.Context, qrCode string) (*BookingWithSession, error)
	Complete(ctx context.Context, id uuid.UUID, now time.Time) (*Booking, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]BookingWithSession, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]RosterEntry, error)
	StatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error)
}
