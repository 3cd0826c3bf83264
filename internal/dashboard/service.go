package dashboard

import (
	"context"
	"time"

	"gymclass/internal/auth"

	"github.com/google/uuid"
)

const upcomingLimit = 5

type Service interface {
	ForUser(ctx context.Context, userID uuid.UUID) (*UserDashboard, error)
	ForAdmin(ctx context.Context, actor auth.Actor) (*AdminDashboard, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

func (s *service) ForUser(ctx context.Context, userID uuid.UUID) (*UserDashboard, error) {
	now := s.now()
	return s.repo.UserSummary(ctx, userID, now, now.In(s.loc).Format("2006-01-02"), upcomingLimit)
}

func (s *service) ForAdmin(ctx context.Context, actor auth.Actor) (*AdminDashboard, error) {
	if err := actor.Authorize(auth.ActionViewAdminDashboard); err != nil {
		return nil, err
	}
	local := s.now().In(s.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return s.repo.AdminSummary(ctx, dayStart, dayStart.AddDate(0, 0, 1))
}
