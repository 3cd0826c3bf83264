package subscription

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymclass/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListPackages(ctx context.Context) ([]Package, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Package), args.Error(1)
}

func (m *MockService) ListAllPackages(ctx context.Context, actor auth.Actor) ([]Package, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Package), args.Error(1)
}

func (m *MockService) CreatePackage(ctx context.Context, actor auth.Actor, req CreatePackageRequest) (*Package, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Package), args.Error(1)
}

func (m *MockService) SetPackageActive(ctx context.Context, actor auth.Actor, id uuid.UUID, active bool) (*Package, error) {
	args := m.Called(ctx, actor, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Package), args.Error(1)
}

func (m *MockService) IssueSubscription(ctx context.Context, userID, packageID uuid.UUID) (*Issued, error) {
	args := m.Called(ctx, userID, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Issued), args.Error(1)
}

func (m *MockService) DecideApproval(ctx context.Context, actor auth.Actor, subscriptionID uuid.UUID, approve bool) (*UserSubscription, error) {
	args := m.Called(ctx, actor, subscriptionID, approve)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserSubscription), args.Error(1)
}

func (m *MockService) ListMine(ctx context.Context, userID uuid.UUID) ([]SubscriptionWithPackage, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SubscriptionWithPackage), args.Error(1)
}

func (m *MockService) GetActive(ctx context.Context, userID uuid.UUID) (*UserSubscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UserSubscription), args.Error(1)
}

func (m *MockService) ListPendingApprovals(ctx context.Context, actor auth.Actor) ([]PendingApproval, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PendingApproval), args.Error(1)
}

func (m *MockService) Sweep(ctx context.Context) (SweepResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(SweepResult), args.Error(1)
}

func newRouter(svc Service, actor auth.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetActor(c, actor)
		c.Next()
	})
	r.GET("/packages", h.ListPackages)
	r.POST("/subscriptions", h.Issue)
	r.GET("/subscriptions", h.ListMine)
	r.PATCH("/admin/packages/:id", h.SetPackageActive)
	r.GET("/admin/approvals", h.ListPendingApprovals)
	r.POST("/admin/subscriptions/:id/decision", h.Decide)
	return r
}

func TestIssue_Handler(t *testing.T) {
	packageID := uuid.New()

	tests := []struct {
		name           string
		body           string
		err            error
		expectedStatus int
	}{
		{"Created", `{"package_id":"` + packageID.String() + `"}`, nil, http.StatusCreated},
		{"Open subscription", `{"package_id":"` + packageID.String() + `"}`, ErrOpenSubscription, http.StatusConflict},
		{"Unknown package", `{"package_id":"` + packageID.String() + `"}`, ErrPackageNotFound, http.StatusNotFound},
		{"Missing package", `{}`, nil, http.StatusBadRequest},
		{"Malformed package", `{"package_id":"abc"}`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			router := newRouter(svc, member)

			if tt.err != nil {
				svc.On("IssueSubscription", mock.Anything, member.UserID, packageID).Return(nil, tt.err)
			} else {
				svc.On("IssueSubscription", mock.Anything, member.UserID, packageID).
					Return(&Issued{Subscription: &UserSubscription{Status: StatusPending}, AmountCents: 4500}, nil)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("POST", "/subscriptions", bytes.NewBufferString(tt.body)))
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestDecide_Handler(t *testing.T) {
	id := uuid.New()

	t.Run("Approve", func(t *testing.T) {
		svc := new(MockService)
		router := newRouter(svc, admin)

		svc.On("DecideApproval", mock.Anything, admin, id, true).
			Return(&UserSubscription{ID: id, Status: StatusActive, PaymentStatus: PaymentApproved}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/subscriptions/"+id.String()+"/decision", bytes.NewBufferString(`{"approve":true}`)))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"active"`)
	})

	t.Run("Explicit false is a rejection", func(t *testing.T) {
		svc := new(MockService)
		router := newRouter(svc, admin)

		svc.On("DecideApproval", mock.Anything, admin, id, false).
			Return(&UserSubscription{ID: id, Status: StatusCancelled, PaymentStatus: PaymentRejected}, nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/subscriptions/"+id.String()+"/decision", bytes.NewBufferString(`{"approve":false}`)))

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Missing decision", func(t *testing.T) {
		router := newRouter(new(MockService), admin)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/subscriptions/"+id.String()+"/decision", bytes.NewBufferString(`{}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Already decided", func(t *testing.T) {
		svc := new(MockService)
		router := newRouter(svc, admin)

		svc.On("DecideApproval", mock.Anything, admin, id, true).Return(nil, ErrAlreadyDecided)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/subscriptions/"+id.String()+"/decision", bytes.NewBufferString(`{"approve":true}`)))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"error":"conflict"`)
	})

	t.Run("Member forbidden", func(t *testing.T) {
		svc := new(MockService)
		router := newRouter(svc, member)

		svc.On("DecideApproval", mock.Anything, member, id, true).Return(nil, member.Authorize(auth.ActionDecideApproval))

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/subscriptions/"+id.String()+"/decision", bytes.NewBufferString(`{"approve":true}`)))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSetPackageActive_Handler(t *testing.T) {
	svc := new(MockService)
	router := newRouter(svc, admin)
	id := uuid.New()

	svc.On("SetPackageActive", mock.Anything, admin, id, false).Return(&Package{ID: id, IsActive: false}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("PATCH", "/admin/packages/"+id.String(), bytes.NewBufferString(`{"is_active":false}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("PATCH", "/admin/packages/nope", bytes.NewBufferString(`{"is_active":false}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListPackages_Handler(t *testing.T) {
	svc := new(MockService)
	router := newRouter(svc, member)

	svc.On("ListPackages", mock.Anything).Return([]Package{{NameEN: "Monthly", TotalCredits: 8}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/packages", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_credits":8`)
}
