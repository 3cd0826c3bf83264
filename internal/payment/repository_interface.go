package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]PaymentWithPackage, error)
	ListPending(ctx context.Context) ([]PaymentWithPackage, error)
	Revenue(ctx context.Context, from, to time.Time) (*Revenue, error)
}
