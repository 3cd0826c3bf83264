package profile

import (
	"context"

	"gymclass/internal/auth"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByReferralCode(ctx context.Context, code string) (*Profile, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*Profile, error)
	SetRole(ctx context.Context, id uuid.UUID, role auth.Role) (*Profile, error)
	LinkReferral(ctx context.Context, refereeID, referrerID uuid.UUID) error
	ListReferrals(ctx context.Context, referrerID uuid.UUID) ([]Referral, error)
}
