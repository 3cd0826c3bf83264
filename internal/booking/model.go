package booking

import (
	"time"

	"gymclass/internal/schedule"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// Booking is one reserved seat paid for with one credit while active.
type Booking struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	SessionID      uuid.UUID  `db:"session_id" json:"session_id"`
	SubscriptionID uuid.UUID  `db:"subscription_id" json:"subscription_id"`
	QRCode         string     `db:"qr_code" json:"qr_code"`
	Status         Status     `db:"status" json:"status" swaggertype:"string" example:"active"`
	CheckedInAt    *time.Time `db:"checked_in_at" json:"checked_in_at,omitempty"`
	CancelledAt    *time.Time `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type BookingWithSession struct {
	Booking
	SessionDate   string                 `db:"session_date" json:"session_date" example:"2026-03-10"`
	StartTime     string                 `db:"start_time" json:"start_time" example:"18:00"`
	EndTime       string                 `db:"end_time" json:"end_time" example:"19:00"`
	SessionStatus schedule.SessionStatus `db:"session_status" json:"session_status" swaggertype:"string"`
	TrainerID     *uuid.UUID             `db:"trainer_id" json:"trainer_id,omitempty"`
	RoomNameGR    string                 `db:"room_name_gr" json:"room_name_gr"`
	RoomNameEN    string                 `db:"room_name_en" json:"room_name_en"`
}

// Session returns the schedule fields of the booked session.
func (b *BookingWithSession) Session() *schedule.ClassSession {
	return &schedule.ClassSession{
		ID:          b.SessionID,
		TrainerID:   b.TrainerID,
		SessionDate: b.SessionDate,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Status:      b.SessionStatus,
	}
}

type RosterEntry struct {
	Booking
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone"`
}

// Ledger is the state of a booking and both counters it moved, as committed.
type Ledger struct {
	Booking          *Booking               `json:"booking"`
	Session          *schedule.ClassSession `json:"session"`
	CreditsRemaining int                    `json:"credits_remaining" example:"7"`
}

type DayStats struct {
	Day       string `db:"day" json:"day" example:"2026-03-10"`
	Active    int    `db:"active" json:"active"`
	Completed int    `db:"completed" json:"completed"`
	Cancelled int    `db:"cancelled" json:"cancelled"`
	NoShow    int    `db:"no_show" json:"no_show"`
}

type CheckInRequest struct {
	QRCode string `json:"qr_code" binding:"required,max=64"`
}
