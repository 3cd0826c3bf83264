package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gymclass/internal/apperr"
	"gymclass/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrRoomNotFound            = fmt.Errorf("%w: room not found", apperr.ErrNotFound)
	ErrSessionNotFound         = fmt.Errorf("%w: session not found", apperr.ErrNotFound)
	ErrSessionAlreadyCancelled = fmt.Errorf("%w: session already cancelled", apperr.ErrConflict)
)

// SessionColumns selects a class session with its date and times rendered
// as YYYY-MM-DD and HH:MM. Other packages reuse it when locking sessions.
const SessionColumns = `id, room_id, trainer_id,
		to_char(session_date, 'YYYY-MM-DD') AS session_date,
		to_char(start_time, 'HH24:MI') AS start_time,
		to_char(end_time, 'HH24:MI') AS end_time,
		current_bookings, max_capacity, status, created_at`

const detailsQuery = `
	SELECT
		s.id, s.room_id, s.trainer_id,
		to_char(s.session_date, 'YYYY-MM-DD') AS session_date,
		to_char(s.start_time, 'HH24:MI') AS start_time,
		to_char(s.end_time, 'HH24:MI') AS end_time,
		s.current_bookings, s.max_capacity, s.status, s.created_at,
		r.name_gr AS room_name_gr,
		r.name_en AS room_name_en,
		COALESCE(p.first_name, '') AS trainer_first_name,
		COALESCE(p.last_name, '') AS trainer_last_name
	FROM class_sessions s
	JOIN rooms r ON r.id = s.room_id
	LEFT JOIN profiles p ON p.id = s.trainer_id
`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRoom(ctx context.Context, room *Room) error {
	query := `
		INSERT INTO rooms (id, name_gr, name_en, max_capacity, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRowxContext(ctx, query, room.ID, room.NameGR, room.NameEN, room.MaxCapacity, room.IsActive).
		Scan(&room.CreatedAt)
}

func (r *repository) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	query := `SELECT id, name_gr, name_en, max_capacity, is_active, created_at FROM rooms WHERE id = $1`

	var room Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *repository) ListRooms(ctx context.Context) ([]Room, error) {
	query := `SELECT id, name_gr, name_en, max_capacity, is_active, created_at FROM rooms ORDER BY name_en`

	rooms := []Room{}
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *repository) IsStaff(ctx context.Context, profileID uuid.UUID) (bool, error) {
	return db.Exists(ctx, r.db,
		`SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1 AND role IN ('trainer', 'admin'))`, profileID)
}

func (r *repository) CreateSession(ctx context.Context, s *ClassSession) error {
	query := `
		INSERT INTO class_sessions (id, room_id, trainer_id, session_date, start_time, end_time, current_bookings, max_capacity, status)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, 'available')
		RETURNING current_bookings, status, created_at
	`
	return r.db.QueryRowxContext(ctx, query,
		s.ID, s.RoomID, s.TrainerID, s.SessionDate, s.StartTime, s.EndTime, s.MaxCapacity,
	).Scan(&s.CurrentBookings, &s.Status, &s.CreatedAt)
}

func (r *repository) GetSession(ctx context.Context, id uuid.UUID) (*ClassSession, error) {
	query := `SELECT ` + SessionColumns + ` FROM class_sessions WHERE id = $1`

	var s ClassSession
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) CancelSession(ctx context.Context, id uuid.UUID) (*ClassSession, error) {
	query := `
		UPDATE class_sessions SET status = 'cancelled'
		WHERE id = $1 AND status <> 'cancelled'
		RETURNING ` + SessionColumns

	var s ClassSession
	err := r.db.GetContext(ctx, &s, query, id)
	if err == nil {
		return &s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	exists, err := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM class_sessions WHERE id = $1)`, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrSessionNotFound
	}
	return nil, ErrSessionAlreadyCancelled
}

func (r *repository) ListAvailable(ctx context.Context, from, to time.Time) ([]SessionWithDetails, error) {
	query := detailsQuery + `
		WHERE s.status = 'available' AND s.session_date BETWEEN $1 AND $2
		ORDER BY s.session_date, s.start_time
	`
	return r.selectDetails(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
}

func (r *repository) ListByTrainer(ctx context.Context, trainerID uuid.UUID, from, to time.Time) ([]SessionWithDetails, error) {
	query := detailsQuery + `
		WHERE s.trainer_id = $1 AND s.session_date BETWEEN $2 AND $3
		ORDER BY s.session_date, s.start_time
	`
	return r.selectDetails(ctx, query, trainerID, from.Format(dateLayout), to.Format(dateLayout))
}

func (r *repository) selectDetails(ctx context.Context, query string, args ...interface{}) ([]SessionWithDetails, error) {
	sessions := []SessionWithDetails{}
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].Available = sessions[i].SpotsLeft()
	}
	return sessions, nil
}
