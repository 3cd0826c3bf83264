package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymclass/internal/apperr"
	"gymclass/internal/auth"
	"gymclass/internal/email"
	"gymclass/internal/i18n"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) ListPackages(ctx context.Context, includeInactive bool) ([]Package, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Package), args.Error(1)
}

func (m *MockRepository) CreatePackage(ctx context.Context, p *Package) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) SetPackageActive(ctx context.Context, id uuid.UUID, active bool) (*Package, error) {
	args := m.Called(ctx, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Package), args.Error(1)
}

func (m *MockRepository) Issue(ctx context.Context, userID, packageID uuid.UUID, now, dueDate time.Time) (*Issued, error) {
	args := m.Called(ctx, userID, packageID, now, dueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Issued), args.Error(1)
}

func (m *MockRepository) Decide(ctx context.Context, subscriptionID, adminID uuid.UUID, approve bool, now time.Time) (*UserSubscription, error) {
	args := m.Called(ctx, subscriptionID, adminID, approve, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserSubscription), args.Error(1)
}

func (m *MockRepository) GetActive(ctx context.Context, userID uuid.UUID, now time.Time) (*UserSubscription, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserSubscription), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]SubscriptionWithPackage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SubscriptionWithPackage), args.Error(1)
}

func (m *MockRepository) ListPendingApprovals(ctx context.Context) ([]PendingApproval, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PendingApproval), args.Error(1)
}

func (m *MockRepository) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(SweepResult), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendSubscriptionApproved(ctx context.Context, to email.Recipient, credits int, expiresAt time.Time) error {
	return m.Called(ctx, to, credits, expiresAt).Error(0)
}

func (m *MockNotifier) SendSubscriptionRejected(ctx context.Context, to email.Recipient) error {
	return m.Called(ctx, to).Error(0)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Recipient(ctx context.Context, userID uuid.UUID) (email.Recipient, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(email.Recipient), args.Error(1)
}

var (
	admin  = auth.Actor{UserID: uuid.New(), Role: auth.RoleAdmin}
	member = auth.Actor{UserID: uuid.New(), Role: auth.RoleUser}
	fixed  = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
)

func newTestService(repo *MockRepository, notifier *MockNotifier, directory *MockDirectory) *service {
	svc := &service{
		repo:          repo,
		paymentWindow: 48 * time.Hour,
		now:           func() time.Time { return fixed },
	}
	if notifier != nil {
		svc.notifier = notifier
	}
	if directory != nil {
		svc.directory = directory
	}
	return svc
}

func TestIssueSubscription(t *testing.T) {
	ctx := context.Background()
	packageID := uuid.New()

	t.Run("Payment due after the payment window", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil, nil)

		issued := &Issued{
			Subscription: &UserSubscription{ID: uuid.New(), UserID: member.UserID, Status: StatusPending},
			PaymentID:    uuid.New(),
			AmountCents:  4500,
		}
		repo.On("Issue", ctx, member.UserID, packageID, fixed, fixed.Add(48*time.Hour)).Return(issued, nil)

		got, err := svc.IssueSubscription(ctx, member.UserID, packageID)
		require.NoError(t, err)
		assert.Equal(t, issued, got)
		repo.AssertExpectations(t)
	})

	t.Run("Conflict passes through", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil, nil)

		repo.On("Issue", ctx, member.UserID, packageID, fixed, mock.Anything).Return(nil, ErrOpenSubscription)

		_, err := svc.IssueSubscription(ctx, member.UserID, packageID)
		assert.ErrorIs(t, err, apperr.ErrConflict)
	})
}

func TestDecideApproval(t *testing.T) {
	ctx := context.Background()
	subID := uuid.New()
	recipient := email.Recipient{Email: "maria@example.com", Name: "Maria P", Language: i18n.Greek}

	t.Run("Non-admin is rejected before touching storage", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil, nil)

		_, err := svc.DecideApproval(ctx, member, subID, true)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
		repo.AssertNotCalled(t, "Decide", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Approval notifies the member", func(t *testing.T) {
		repo, notifier, directory := new(MockRepository), new(MockNotifier), new(MockDirectory)
		svc := newTestService(repo, notifier, directory)

		expires := fixed.AddDate(0, 1, 0)
		sub := &UserSubscription{ID: subID, UserID: member.UserID, Status: StatusActive, PaymentStatus: PaymentApproved, CreditsRemaining: 8, ExpiresAt: &expires}
		repo.On("Decide", ctx, subID, admin.UserID, true, fixed).Return(sub, nil)
		directory.On("Recipient", ctx, member.UserID).Return(recipient, nil)
		notifier.On("SendSubscriptionApproved", ctx, recipient, 8, expires).Return(nil)

		got, err := svc.DecideApproval(ctx, admin, subID, true)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, got.Status)
		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("Rejection notifies the member", func(t *testing.T) {
		repo, notifier, directory := new(MockRepository), new(MockNotifier), new(MockDirectory)
		svc := newTestService(repo, notifier, directory)

		sub := &UserSubscription{ID: subID, UserID: member.UserID, Status: StatusCancelled, PaymentStatus: PaymentRejected}
		repo.On("Decide", ctx, subID, admin.UserID, false, fixed).Return(sub, nil)
		directory.On("Recipient", ctx, member.UserID).Return(recipient, nil)
		notifier.On("SendSubscriptionRejected", ctx, recipient).Return(nil)

		_, err := svc.DecideApproval(ctx, admin, subID, false)
		require.NoError(t, err)
		notifier.AssertExpectations(t)
	})

	t.Run("Email failure does not fail the decision", func(t *testing.T) {
		repo, notifier, directory := new(MockRepository), new(MockNotifier), new(MockDirectory)
		svc := newTestService(repo, notifier, directory)

		sub := &UserSubscription{ID: subID, UserID: member.UserID, Status: StatusCancelled, PaymentStatus: PaymentRejected}
		repo.On("Decide", ctx, subID, admin.UserID, false, fixed).Return(sub, nil)
		directory.On("Recipient", ctx, member.UserID).Return(recipient, nil)
		notifier.On("SendSubscriptionRejected", ctx, recipient).Return(errors.New("redis down"))

		_, err := svc.DecideApproval(ctx, admin, subID, false)
		assert.NoError(t, err)
	})

	t.Run("Already decided", func(t *testing.T) {
		repo, notifier, directory := new(MockRepository), new(MockNotifier), new(MockDirectory)
		svc := newTestService(repo, notifier, directory)

		repo.On("Decide", ctx, subID, admin.UserID, true, fixed).Return(nil, ErrAlreadyDecided)

		_, err := svc.DecideApproval(ctx, admin, subID, true)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		notifier.AssertNotCalled(t, "SendSubscriptionApproved", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCreatePackage(t *testing.T) {
	ctx := context.Background()
	req := CreatePackageRequest{NameGR: " Μηνιαίο ", NameEN: "Monthly", DurationMonths: 1, SessionsPerWeek: 2, TotalCredits: 8, PriceCents: 4500}

	t.Run("Admin creates an active package", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, nil, nil)

		repo.On("CreatePackage", ctx, mock.MatchedBy(func(p *Package) bool {
			return p.NameGR == "Μηνιαίο" && p.TotalCredits == 8 && p.IsActive && p.ID != uuid.Nil
		})).Return(nil)

		p, err := svc.CreatePackage(ctx, admin, req)
		require.NoError(t, err)
		assert.Equal(t, int64(4500), p.PriceCents)
		repo.AssertExpectations(t)
	})

	t.Run("Member cannot", func(t *testing.T) {
		svc := newTestService(new(MockRepository), nil, nil)

		_, err := svc.CreatePackage(ctx, member, req)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("Zero credits rejected", func(t *testing.T) {
		svc := newTestService(new(MockRepository), nil, nil)

		bad := req
		bad.TotalCredits = 0
		_, err := svc.CreatePackage(ctx, admin, bad)
		assert.ErrorIs(t, err, apperr.ErrInvalid)
	})
}

func TestService_ListPackages(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, nil, nil)

	repo.On("ListPackages", ctx, false).Return([]Package{{NameEN: "Monthly"}}, nil)
	repo.On("ListPackages", ctx, true).Return([]Package{{NameEN: "Monthly"}, {NameEN: "Old"}}, nil)

	active, err := svc.ListPackages(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	all, err := svc.ListAllPackages(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListAllPackages(ctx, member)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestListPendingApprovals_AdminOnly(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, nil, nil)

	repo.On("ListPendingApprovals", ctx).Return([]PendingApproval{{Email: "a@b.c"}}, nil)

	pending, err := svc.ListPendingApprovals(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.ListPendingApprovals(ctx, auth.Actor{UserID: uuid.New(), Role: auth.RoleTrainer})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestService_Sweep(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRepository)
	svc := newTestService(repo, nil, nil)

	repo.On("Sweep", ctx, fixed).Return(SweepResult{Expired: 1, Lapsed: 2}, nil)

	result, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Lapsed)
}
