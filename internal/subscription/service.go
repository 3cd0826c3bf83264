package subscription

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gymclass/internal/apperr"
	"gymclass/internal/auth"
	"gymclass/internal/email"
	"gymclass/internal/logger"
	"gymclass/internal/metrics"

	"github.com/google/uuid"
)

// Notifier sends the member-facing emails for approval decisions.
type Notifier interface {
	SendSubscriptionApproved(ctx context.Context, to email.Recipient, credits int, expiresAt time.Time) error
	SendSubscriptionRejected(ctx context.Context, to email.Recipient) error
}

// Directory resolves a member's email address and language.
type Directory interface {
	Recipient(ctx context.Context, userID uuid.UUID) (email.Recipient, error)
}

type Service interface {
	ListPackages(ctx context.Context) ([]Package, error)
	ListAllPackages(ctx context.Context, actor auth.Actor) ([]Package, error)
	CreatePackage(ctx context.Context, actor auth.Actor, req CreatePackageRequest) (*Package, error)
	SetPackageActive(ctx context.Context, actor auth.Actor, id uuid.UUID, active bool) (*Package, error)
	IssueSubscription(ctx context.Context, userID, packageID uuid.UUID) (*Issued, error)
	DecideApproval(ctx context.Context, actor auth.Actor, subscriptionID uuid.UUID, approve bool) (*UserSubscription, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]SubscriptionWithPackage, error)
	GetActive(ctx context.Context, userID uuid.UUID) (*UserSubscription, error)
	ListPendingApprovals(ctx context.Context, actor auth.Actor) ([]PendingApproval, error)
	Sweep(ctx context.Context) (SweepResult, error)
}

type service struct {
	repo          Repository
	notifier      Notifier
	directory     Directory
	paymentWindow time.Duration
	now           func() time.Time
}

// NewService wires the subscription ledger. notifier and directory may be
// nil, in which case no emails are sent.
func NewService(repo Repository, notifier Notifier, directory Directory, paymentWindow time.Duration) Service {
	return &service{
		repo:          repo,
		notifier:      notifier,
		directory:     directory,
		paymentWindow: paymentWindow,
		now:           time.Now,
	}
}

func (s *service) ListPackages(ctx context.Context) ([]Package, error) {
	return s.repo.ListPackages(ctx, false)
}

func (s *service) ListAllPackages(ctx context.Context, actor auth.Actor) ([]Package, error) {
	if err := actor.Authorize(auth.ActionManageCatalog); err != nil {
		return nil, err
	}
	return s.repo.ListPackages(ctx, true)
}

func (s *service) CreatePackage(ctx context.Context, actor auth.Actor, req CreatePackageRequest) (*Package, error) {
	if err := actor.Authorize(auth.ActionManageCatalog); err != nil {
		return nil, err
	}
	if req.TotalCredits <= 0 || req.DurationMonths <= 0 || req.SessionsPerWeek <= 0 || req.PriceCents < 0 {
		return nil, fmt.Errorf("%w: package terms must be positive", apperr.ErrInvalid)
	}

	p := &Package{
		ID:              uuid.New(),
		NameGR:          strings.TrimSpace(req.NameGR),
		NameEN:          strings.TrimSpace(req.NameEN),
		DescriptionGR:   strings.TrimSpace(req.DescriptionGR),
		DescriptionEN:   strings.TrimSpace(req.DescriptionEN),
		DurationMonths:  req.DurationMonths,
		SessionsPerWeek: req.SessionsPerWeek,
		TotalCredits:    req.TotalCredits,
		PriceCents:      req.PriceCents,
		IsActive:        true,
	}
	if err := s.repo.CreatePackage(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("package created", "package_id", p.ID, "credits", p.TotalCredits, "price_cents", p.PriceCents)
	return p, nil
}

func (s *service) SetPackageActive(ctx context.Context, actor auth.Actor, id uuid.UUID, active bool) (*Package, error) {
	if err := actor.Authorize(auth.ActionManageCatalog); err != nil {
		return nil, err
	}
	p, err := s.repo.SetPackageActive(ctx, id, active)
	if err != nil {
		return nil, err
	}

	logger.Info("package activation changed", "package_id", id, "active", active, "by", actor.UserID)
	return p, nil
}

func (s *service) IssueSubscription(ctx context.Context, userID, packageID uuid.UUID) (*Issued, error) {
	now := s.now()
	issued, err := s.repo.Issue(ctx, userID, packageID, now, now.Add(s.paymentWindow))
	if err != nil {
		if apperr.Kind(err) == apperr.ErrTryAgain {
			metrics.RecordLockContention("issue_subscription")
		}
		return nil, err
	}

	metrics.RecordSubscriptionIssued()
	logger.Info("subscription issued",
		"subscription_id", issued.Subscription.ID,
		"payment_id", issued.PaymentID,
		"user_id", userID,
		"package_id", packageID,
		"amount_cents", issued.AmountCents,
	)
	return issued, nil
}

func (s *service) DecideApproval(ctx context.Context, actor auth.Actor, subscriptionID uuid.UUID, approve bool) (*UserSubscription, error) {
	if err := actor.Authorize(auth.ActionDecideApproval); err != nil {
		return nil, err
	}

	sub, err := s.repo.Decide(ctx, subscriptionID, actor.UserID, approve, s.now())
	if err != nil {
		if apperr.Kind(err) == apperr.ErrTryAgain {
			metrics.RecordLockContention("decide_approval")
		}
		return nil, err
	}

	decision := "rejected"
	if approve {
		decision = "approved"
	}
	metrics.RecordDecision(decision)
	logger.Info("subscription "+decision,
		"subscription_id", subscriptionID,
		"user_id", sub.UserID,
		"by", actor.UserID,
	)

	s.notifyDecision(ctx, sub, approve)
	return sub, nil
}

func (s *service) notifyDecision(ctx context.Context, sub *UserSubscription, approved bool) {
	if s.notifier == nil || s.directory == nil {
		return
	}

	to, err := s.directory.Recipient(ctx, sub.UserID)
	if err != nil {
		logger.Warn("decision email skipped", "subscription_id", sub.ID, "error", err)
		return
	}

	if approved {
		var expiresAt time.Time
		if sub.ExpiresAt != nil {
			expiresAt = *sub.ExpiresAt
		}
		err = s.notifier.SendSubscriptionApproved(ctx, to, sub.CreditsRemaining, expiresAt)
	} else {
		err = s.notifier.SendSubscriptionRejected(ctx, to)
	}
	if err != nil {
		logger.Warn("decision email not queued", "subscription_id", sub.ID, "error", err)
	}
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]SubscriptionWithPackage, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) GetActive(ctx context.Context, userID uuid.UUID) (*UserSubscription, error) {
	return s.repo.GetActive(ctx, userID, s.now())
}

func (s *service) ListPendingApprovals(ctx context.Context, actor auth.Actor) ([]PendingApproval, error) {
	if err := actor.Authorize(auth.ActionDecideApproval); err != nil {
		return nil, err
	}
	return s.repo.ListPendingApprovals(ctx)
}

// Sweep closes subscriptions that ran out of time. It is safe to run
// concurrently with the rest of the ledger.
func (s *service) Sweep(ctx context.Context) (SweepResult, error) {
	result, err := s.repo.Sweep(ctx, s.now())
	if err != nil {
		return result, err
	}
	if result.Expired > 0 || result.Lapsed > 0 {
		logger.Info("subscriptions swept", "expired", result.Expired, "lapsed", result.Lapsed)
	}
	return result, nil
}
