package profile

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"

	"gymclass/internal/apperr"
	"gymclass/internal/auth"
	"gymclass/internal/email"
	"gymclass/internal/i18n"
	"gymclass/internal/logger"

	"github.com/google/uuid"
)

const (
	referralCodeLength   = 8
	referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxCodeAttempts      = 5
)

type Service interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, req CreateProfileRequest) (*Profile, error)
	LinkReferral(ctx context.Context, newUserID uuid.UUID, code string)
	GetMe(ctx context.Context, userID uuid.UUID) (*Profile, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error)
	SetRole(ctx context.Context, actor auth.Actor, profileID uuid.UUID, role auth.Role) (*Profile, error)
	ListReferrals(ctx context.Context, userID uuid.UUID) ([]Referral, error)
	Recipient(ctx context.Context, userID uuid.UUID) (email.Recipient, error)
}

type service struct {
	repo    Repository
	newCode func() string
}

func NewService(repo Repository) Service {
	return &service{
		repo:    repo,
		newCode: NewReferralCode,
	}
}

// NewReferralCode returns 8 random uppercase alphanumerics.
func NewReferralCode() string {
	code, err := readReferralCode(rand.Reader)
	if err != nil {
		panic(fmt.Sprintf("profile: reading random referral code: %v", err))
	}
	return code
}

// readReferralCode draws each symbol uniformly from r, skipping bytes at or
// above the largest multiple of the alphabet size.
func readReferralCode(r io.Reader) (string, error) {
	limit := byte(256 - 256%len(referralCodeAlphabet))
	code := make([]byte, 0, referralCodeLength)
	buf := make([]byte, referralCodeLength)
	for len(code) < referralCodeLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, c := range buf {
			if c >= limit || len(code) == referralCodeLength {
				continue
			}
			code = append(code, referralCodeAlphabet[int(c)%len(referralCodeAlphabet)])
		}
	}
	return string(code), nil
}

// NormalizeReferralCode trims and uppercases a user-supplied code.
func NormalizeReferralCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) CreateProfile(ctx context.Context, userID uuid.UUID, req CreateProfileRequest) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: missing user id", apperr.ErrInvalid)
	}

	p := &Profile{
		ID:        userID,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     strings.TrimSpace(req.Phone),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		IDNumber:  strings.TrimSpace(req.IDNumber),
		Role:      auth.RoleUser,
		Language:  i18n.ParseLanguage(req.Language),
	}

	var err error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		p.ReferralCode = s.newCode()
		err = s.repo.Create(ctx, p)
		if !errors.Is(err, errReferralCodeCollide) {
			break
		}
	}
	if err != nil {
		if errors.Is(err, errReferralCodeCollide) {
			return nil, fmt.Errorf("could not allocate a referral code: %w", err)
		}
		return nil, err
	}

	logger.Info("profile created", "user_id", p.ID, "referral_code", p.ReferralCode)

	if req.ReferralCode != "" {
		s.LinkReferral(ctx, p.ID, req.ReferralCode)
		if linked, err := s.repo.GetByID(ctx, p.ID); err == nil {
			p = linked
		}
	}

	return p, nil
}

// LinkReferral attaches newUserID to the owner of code. It never fails the
// caller: unknown codes, self-referrals and storage errors are only logged.
func (s *service) LinkReferral(ctx context.Context, newUserID uuid.UUID, code string) {
	code = NormalizeReferralCode(code)
	if code == "" {
		return
	}

	referrer, err := s.repo.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			logger.Info("referral code not found", "user_id", newUserID, "code", code)
			return
		}
		logger.Error("referral lookup failed", "user_id", newUserID, "error", err)
		return
	}

	if referrer.ID == newUserID {
		logger.Info("self referral ignored", "user_id", newUserID)
		return
	}

	if err := s.repo.LinkReferral(ctx, newUserID, referrer.ID); err != nil {
		logger.Warn("referral link failed", "user_id", newUserID, "referrer_id", referrer.ID, "error", err)
		return
	}

	logger.Info("referral linked", "user_id", newUserID, "referrer_id", referrer.ID)
}

func (s *service) GetMe(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.repo.GetByID(ctx, userID)
}

func (s *service) UpdateMe(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	if req.Language != nil {
		lang := string(i18n.ParseLanguage(*req.Language))
		req.Language = &lang
	}
	return s.repo.Update(ctx, userID, req)
}

func (s *service) SetRole(ctx context.Context, actor auth.Actor, profileID uuid.UUID, role auth.Role) (*Profile, error) {
	if err := actor.Authorize(auth.ActionManageRoles); err != nil {
		return nil, err
	}
	if _, err := auth.ParseRole(string(role)); err != nil {
		return nil, err
	}

	p, err := s.repo.SetRole(ctx, profileID, role)
	if err != nil {
		return nil, err
	}

	logger.Info("role changed", "profile_id", profileID, "role", role, "by", actor.UserID)
	return p, nil
}

func (s *service) ListReferrals(ctx context.Context, userID uuid.UUID) ([]Referral, error) {
	return s.repo.ListReferrals(ctx, userID)
}

func (s *service) Recipient(ctx context.Context, userID uuid.UUID) (email.Recipient, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return email.Recipient{}, err
	}
	return email.Recipient{
		Email:    p.Email,
		Name:     p.FullName(),
		Language: p.Language,
	}, nil
}
