package dashboard

import (
	"time"

	"github.com/google/uuid"
)

type UpcomingBooking struct {
	BookingID   uuid.UUID `db:"booking_id" json:"booking_id"`
	SessionID   uuid.UUID `db:"session_id" json:"session_id"`
	QRCode      string    `db:"qr_code" json:"qr_code"`
	SessionDate string    `db:"session_date" json:"session_date" example:"2026-03-10"`
	StartTime   string    `db:"start_time" json:"start_time" example:"18:00"`
	EndTime     string    `db:"end_time" json:"end_time" example:"19:00"`
	RoomNameGR  string    `db:"room_name_gr" json:"room_name_gr"`
	RoomNameEN  string    `db:"room_name_en" json:"room_name_en"`
}

type UserDashboard struct {
	CreditsRemaining      int               `json:"credits_remaining" example:"6"`
	SubscriptionExpiresAt *time.Time        `json:"subscription_expires_at,omitempty"`
	HasPendingPayment     bool              `json:"has_pending_payment"`
	UpcomingBookings      []UpcomingBooking `json:"upcoming_bookings"`
	TotalBookings         int               `json:"total_bookings" example:"23"`
}

type AdminDashboard struct {
	TotalUsers       int   `json:"total_users" example:"184"`
	RevenueCents     int64 `json:"revenue_cents" example:"1233000"`
	BookingsToday    int   `json:"bookings_today" example:"41"`
	PendingApprovals int   `json:"pending_approvals" example:"3"`
}
