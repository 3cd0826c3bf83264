package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// UserSummary reads the member's dashboard. today is the venue date as
	// YYYY-MM-DD; bookings on sessions from that day on count as upcoming.
	UserSummary(ctx context.Context, userID uuid.UUID, now time.Time, today string, upcomingLimit int) (*UserDashboard, error)
	// AdminSummary counts bookings created in [dayStart, dayEnd).
	AdminSummary(ctx context.Context, dayStart, dayEnd time.Time) (*AdminDashboard, error)
}
