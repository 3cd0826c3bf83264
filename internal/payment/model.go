package payment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Payment is the money side of a subscription. It is settled at the venue
// and only ever moves out of pending through an approval decision.
type Payment struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	SubscriptionID uuid.UUID  `db:"subscription_id" json:"subscription_id"`
	AmountCents    int64      `db:"amount_cents" json:"amount_cents" example:"4500"`
	Status         Status     `db:"status" json:"status" swaggertype:"string" example:"approved"`
	ProcessedAt    *time.Time `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type PaymentWithPackage struct {
	Payment
	PackageNameGR string `db:"package_name_gr" json:"package_name_gr"`
	PackageNameEN string `db:"package_name_en" json:"package_name_en"`
}

// Revenue sums approved payments processed in [From, To).
type Revenue struct {
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	TotalCents int64     `db:"total_cents" json:"total_cents"`
	Count      int       `db:"count" json:"count"`
}
