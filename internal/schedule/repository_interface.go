package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, id uuid.UUID) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	IsStaff(ctx context.Context, profileID uuid.UUID) (bool, error)
	CreateSession(ctx context.Context, s *ClassSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*ClassSession, error)
	CancelSession(ctx context.Context, id uuid.UUID) (*ClassSession, error)
	ListAvailable(ctx context.Context, from, to time.Time) ([]SessionWithDetails, error)
	ListByTrainer(ctx context.Context, trainerID uuid.UUID, from, to time.Time) ([]SessionWithDetails, error)
}
