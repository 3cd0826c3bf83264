package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	ListPackages(ctx context.Context, includeInactive bool) ([]Package, error)
	CreatePackage(ctx context.Context, p *Package) error
	SetPackageActive(ctx context.Context, id uuid.UUID, active bool) (*Package, error)

	Issue(ctx context.Context, userID, packageID uuid.UUID, now, dueDate time.Time) (*Issued, error)
	Decide(ctx context.Context, subscriptionID, adminID uuid.UUID, approve bool, now time.Time) (*UserSubscription, error)

	GetActive(ctx context.Context, userID uuid.UUID, now time.Time) (*UserSubscription, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]SubscriptionWithPackage, error)
	ListPendingApprovals(ctx context.Context) ([]PendingApproval, error)
	Sweep(ctx context.Context, now time.Time) (SweepResult, error)
}
