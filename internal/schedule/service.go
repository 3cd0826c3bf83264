package schedule

import (
	"context"
	"fmt"
	"time"

	"gymclass/internal/apperr"
	"gymclass/internal/auth"
	"gymclass/internal/logger"

	"github.com/google/uuid"
)

var ErrSessionInvalid = fmt.Errorf("%w: invalid session", apperr.ErrInvalid)

type Service interface {
	CreateRoom(ctx context.Context, actor auth.Actor, req CreateRoomRequest) (*Room, error)
	ListRooms(ctx context.Context, actor auth.Actor) ([]Room, error)
	CreateSession(ctx context.Context, actor auth.Actor, req CreateSessionRequest) (*ClassSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*ClassSession, error)
	CancelSession(ctx context.Context, actor auth.Actor, id uuid.UUID) (*ClassSession, error)
	ListAvailable(ctx context.Context, from, to time.Time) ([]SessionWithDetails, error)
	TrainerSchedule(ctx context.Context, actor auth.Actor, trainerID uuid.UUID, from, to time.Time) ([]SessionWithDetails, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) CreateRoom(ctx context.Context, actor auth.Actor, req CreateRoomRequest) (*Room, error) {
	if err := actor.Authorize(auth.ActionManageSchedule); err != nil {
		return nil, err
	}
	if req.MaxCapacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be at least 1", apperr.ErrInvalid)
	}

	room := &Room{
		ID:          uuid.New(),
		NameGR:      req.NameGR,
		NameEN:      req.NameEN,
		MaxCapacity: req.MaxCapacity,
		IsActive:    true,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}

	logger.Info("room created", "room_id", room.ID, "by", actor.UserID)
	return room, nil
}

func (s *service) ListRooms(ctx context.Context, actor auth.Actor) ([]Room, error) {
	if err := actor.Authorize(auth.ActionManageSchedule); err != nil {
		return nil, err
	}
	return s.repo.ListRooms(ctx)
}

func (s *service) CreateSession(ctx context.Context, actor auth.Actor, req CreateSessionRequest) (*ClassSession, error) {
	if err := actor.Authorize(auth.ActionManageSchedule); err != nil {
		return nil, err
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%w: room_id", ErrSessionInvalid)
	}
	if _, err := time.Parse(dateLayout, req.SessionDate); err != nil {
		return nil, fmt.Errorf("%w: session_date must be YYYY-MM-DD", ErrSessionInvalid)
	}
	start, err := time.Parse(timeLayout, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time must be HH:MM", ErrSessionInvalid)
	}
	end, err := time.Parse(timeLayout, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time must be HH:MM", ErrSessionInvalid)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrSessionInvalid)
	}

	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, fmt.Errorf("%w: room is not active", apperr.ErrConflict)
	}

	capacity := req.MaxCapacity
	if capacity == 0 {
		capacity = room.MaxCapacity
	}
	if capacity < 1 || capacity > room.MaxCapacity {
		return nil, fmt.Errorf("%w: capacity must be between 1 and %d", ErrSessionInvalid, room.MaxCapacity)
	}

	session := &ClassSession{
		ID:          uuid.New(),
		RoomID:      roomID,
		SessionDate: req.SessionDate,
		StartTime:   start.Format(timeLayout),
		EndTime:     end.Format(timeLayout),
		MaxCapacity: capacity,
	}

	if req.TrainerID != "" {
		trainerID, err := uuid.Parse(req.TrainerID)
		if err != nil {
			return nil, fmt.Errorf("%w: trainer_id", ErrSessionInvalid)
		}
		staff, err := s.repo.IsStaff(ctx, trainerID)
		if err != nil {
			return nil, err
		}
		if !staff {
			return nil, fmt.Errorf("%w: trainer_id is not a trainer", ErrSessionInvalid)
		}
		session.TrainerID = &trainerID
	}

	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	logger.Info("session created", "session_id", session.ID, "date", session.SessionDate, "start", session.StartTime)
	return session, nil
}

func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*ClassSession, error) {
	return s.repo.GetSession(ctx, id)
}

// CancelSession closes a session to new bookings. Existing bookings keep
// their seats until they are cancelled through the booking ledger.
func (s *service) CancelSession(ctx context.Context, actor auth.Actor, id uuid.UUID) (*ClassSession, error) {
	if err := actor.Authorize(auth.ActionManageSchedule); err != nil {
		return nil, err
	}

	session, err := s.repo.CancelSession(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info("session cancelled", "session_id", id, "bookings", session.CurrentBookings, "by", actor.UserID)
	return session, nil
}

func (s *service) ListAvailable(ctx context.Context, from, to time.Time) ([]SessionWithDetails, error) {
	return s.repo.ListAvailable(ctx, from, to)
}

// TrainerSchedule lists a trainer's sessions. Trainers only see their own;
// admins may ask for anyone's.
func (s *service) TrainerSchedule(ctx context.Context, actor auth.Actor, trainerID uuid.UUID, from, to time.Time) ([]SessionWithDetails, error) {
	if err := actor.Authorize(auth.ActionViewRoster); err != nil {
		return nil, err
	}
	if trainerID == uuid.Nil {
		trainerID = actor.UserID
	}
	if trainerID != actor.UserID && actor.Role != auth.RoleAdmin {
		return nil, fmt.Errorf("%w: other trainer's schedule", apperr.ErrUnauthorized)
	}
	return s.repo.ListByTrainer(ctx, trainerID, from, to)
}
