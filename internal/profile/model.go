package profile

import (
	"time"

	"gymclass/internal/auth"
	"gymclass/internal/i18n"

	"github.com/google/uuid"
)

type Profile struct {
	ID           uuid.UUID     `db:"id" json:"id"`
	Email        string        `db:"email" json:"email"`
	Phone        string        `db:"phone" json:"phone"`
	FirstName    string        `db:"first_name" json:"first_name"`
	LastName     string        `db:"last_name" json:"last_name"`
	IDNumber     string        `db:"id_number" json:"id_number"`
	Role         auth.Role     `db:"role" json:"role" swaggertype:"string" example:"user"`
	Language     i18n.Language `db:"language" json:"language" swaggertype:"string" example:"gr"`
	ReferralCode string        `db:"referral_code" json:"referral_code" example:"K7Q2M9XA"`
	ReferredBy   *uuid.UUID    `db:"referred_by" json:"referred_by,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

func (p *Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

type Referral struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ReferrerID uuid.UUID `db:"referrer_id" json:"referrer_id"`
	RefereeID  uuid.UUID `db:"referee_id" json:"referee_id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

type CreateProfileRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"omitempty,max=32"`
	FirstName    string `json:"first_name" binding:"required,max=100"`
	LastName     string `json:"last_name" binding:"required,max=100"`
	IDNumber     string `json:"id_number" binding:"omitempty,max=32"`
	Language     string `json:"language" binding:"omitempty,oneof=gr en"`
	ReferralCode string `json:"referral_code" binding:"omitempty,max=16"`
}

// UpdateProfileRequest carries the self-editable fields. Nil leaves a field
// unchanged.
type UpdateProfileRequest struct {
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Language  *string `json:"language" binding:"omitempty,oneof=gr en"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=user trainer admin"`
}
