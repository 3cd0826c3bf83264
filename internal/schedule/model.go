package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusAvailable SessionStatus = "available"
	StatusFull      SessionStatus = "full"
	StatusCancelled SessionStatus = "cancelled"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type Room struct {
	ID          uuid.UUID `db:"id" json:"id"`
	NameGR      string    `db:"name_gr" json:"name_gr"`
	NameEN      string    `db:"name_en" json:"name_en"`
	MaxCapacity int       `db:"max_capacity" json:"max_capacity"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ClassSession dates and times are wall-clock values in the venue time zone.
type ClassSession struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	RoomID          uuid.UUID     `db:"room_id" json:"room_id"`
	TrainerID       *uuid.UUID    `db:"trainer_id" json:"trainer_id,omitempty"`
	SessionDate     string        `db:"session_date" json:"session_date" example:"2026-03-10"`
	StartTime       string        `db:"start_time" json:"start_time" example:"18:00"`
	EndTime         string        `db:"end_time" json:"end_time" example:"19:00"`
	CurrentBookings int           `db:"current_bookings" json:"current_bookings"`
	MaxCapacity     int           `db:"max_capacity" json:"max_capacity"`
	Status          SessionStatus `db:"status" json:"status" swaggertype:"string" example:"available"`
	CreatedAt       time.Time     `db:"created_at" json:"created_at"`
}

// Window returns the session's start and end instants in loc.
func (s *ClassSession) Window(loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout+" "+timeLayout, s.SessionDate+" "+s.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("session %s start: %w", s.ID, err)
	}
	end, err := time.ParseInLocation(dateLayout+" "+timeLayout, s.SessionDate+" "+s.EndTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("session %s end: %w", s.ID, err)
	}
	return start, end, nil
}

// Describe is the short label used in notifications.
func (s *ClassSession) Describe() string {
	return s.SessionDate + " " + s.StartTime + "-" + s.EndTime
}

func (s *ClassSession) SpotsLeft() int {
	if n := s.MaxCapacity - s.CurrentBookings; n > 0 {
		return n
	}
	return 0
}

type SessionWithDetails struct {
	ClassSession
	RoomNameGR       string `db:"room_name_gr" json:"room_name_gr"`
	RoomNameEN       string `db:"room_name_en" json:"room_name_en"`
	TrainerFirstName string `db:"trainer_first_name" json:"trainer_first_name"`
	TrainerLastName  string `db:"trainer_last_name" json:"trainer_last_name"`
	Available        int    `db:"-" json:"available"`
}

type CreateRoomRequest struct {
	NameGR      string `json:"name_gr" binding:"required,max=100"`
	NameEN      string `json:"name_en" binding:"required,max=100"`
	MaxCapacity int    `json:"max_capacity" binding:"required,min=1"`
}

type CreateSessionRequest struct {
	RoomID      string `json:"room_id" binding:"required,uuid"`
	TrainerID   string `json:"trainer_id" binding:"omitempty,uuid"`
	SessionDate string `json:"session_date" binding:"required,datetime=2006-01-02" example:"2026-03-10"`
	StartTime   string `json:"start_time" binding:"required,datetime=15:04" example:"18:00"`
	EndTime     string `json:"end_time" binding:"required,datetime=15:04" example:"19:00"`
	MaxCapacity int    `json:"max_capacity" binding:"omitempty,min=1"`
}
