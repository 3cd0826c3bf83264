package subscription

import (
	"time"

	"github.com/google/uuid"
)

type Status string
type PaymentStatus string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"

	PaymentPending  PaymentStatus = "pending"
	PaymentApproved PaymentStatus = "approved"
	PaymentRejected PaymentStatus = "rejected"
)

type Package struct {
	ID              uuid.UUID `db:"id" json:"id"`
	NameGR          string    `db:"name_gr" json:"name_gr"`
	NameEN          string    `db:"name_en" json:"name_en"`
	DescriptionGR   string    `db:"description_gr" json:"description_gr"`
	DescriptionEN   string    `db:"description_en" json:"description_en"`
	DurationMonths  int       `db:"duration_months" json:"duration_months" example:"1"`
	SessionsPerWeek int       `db:"sessions_per_week" json:"sessions_per_week" example:"2"`
	TotalCredits    int       `db:"total_credits" json:"total_credits" example:"8"`
	PriceCents      int64     `db:"price_cents" json:"price_cents" example:"4500"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type UserSubscription struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	UserID           uuid.UUID     `db:"user_id" json:"user_id"`
	PackageID        uuid.UUID     `db:"package_id" json:"package_id"`
	Status           Status        `db:"status" json:"status" swaggertype:"string" example:"pending"`
	CreditsRemaining int           `db:"credits_remaining" json:"credits_remaining"`
	PaymentStatus    PaymentStatus `db:"payment_status" json:"payment_status" swaggertype:"string" example:"pending"`
	PaymentDueDate   *time.Time    `db:"payment_due_date" json:"payment_due_date,omitempty"`
	ApprovedBy       *uuid.UUID    `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt       *time.Time    `db:"approved_at" json:"approved_at,omitempty"`
	StartsAt         *time.Time    `db:"starts_at" json:"starts_at,omitempty"`
	ExpiresAt        *time.Time    `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
}

// Usable reports whether the subscription can pay for a booking at now.
func (s *UserSubscription) Usable(now time.Time) bool {
	if s.Status != StatusActive || s.CreditsRemaining <= 0 {
		return false
	}
	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}

type SubscriptionWithPackage struct {
	UserSubscription
	PackageNameGR  string `db:"package_name_gr" json:"package_name_gr"`
	PackageNameEN  string `db:"package_name_en" json:"package_name_en"`
	DurationMonths int    `db:"duration_months" json:"duration_months"`
	TotalCredits   int    `db:"total_credits" json:"total_credits"`
	PriceCents     int64  `db:"price_cents" json:"price_cents"`
}

// Issued is a freshly issued subscription and the payment awaiting approval.
type Issued struct {
	Subscription *UserSubscription `json:"subscription"`
	PaymentID    uuid.UUID         `json:"payment_id"`
	AmountCents  int64             `json:"amount_cents" example:"4500"`
}

type PendingApproval struct {
	SubscriptionID uuid.UUID  `db:"subscription_id" json:"subscription_id"`
	PaymentID      uuid.UUID  `db:"payment_id" json:"payment_id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Email          string     `db:"email" json:"email"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	PackageNameGR  string     `db:"package_name_gr" json:"package_name_gr"`
	PackageNameEN  string     `db:"package_name_en" json:"package_name_en"`
	AmountCents    int64      `db:"amount_cents" json:"amount_cents"`
	PaymentDueDate *time.Time `db:"payment_due_date" json:"payment_due_date,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// SweepResult counts subscriptions closed by a sweep.
type SweepResult struct {
	Expired int64 `json:"expired"`
	Lapsed  int64 `json:"lapsed"`
}

type CreatePackageRequest struct {
	NameGR          string `json:"name_gr" binding:"required,max=100"`
	NameEN          string `json:"name_en" binding:"required,max=100"`
	DescriptionGR   string `json:"description_gr" binding:"omitempty,max=1000"`
	DescriptionEN   string `json:"description_en" binding:"omitempty,max=1000"`
	DurationMonths  int    `json:"duration_months" binding:"required,min=1,max=24"`
	SessionsPerWeek int    `json:"sessions_per_week" binding:"required,min=1,max=14"`
	TotalCredits    int    `json:"total_credits" binding:"required,min=1"`
	PriceCents      int64  `json:"price_cents" binding:"min=0"`
}

type SetPackageActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type IssueRequest struct {
	PackageID string `json:"package_id" binding:"required,uuid"`
}

type DecisionRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}
