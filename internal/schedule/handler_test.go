package schedule

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymclass/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateRoom(ctx context.Context, actor auth.Actor, req CreateRoomRequest) (*Room, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Room), args.Error(1)
}

func (m *MockService) ListRooms(ctx context.Context, actor auth.Actor) ([]Room, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Room), args.Error(1)
}

func (m *MockService) CreateSession(ctx context.Context, actor auth.Actor, req CreateSessionRequest) (*ClassSession, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClassSession), args.Error(1)
}

func (m *MockService) GetSession(ctx context.Context, id uuid.UUID) (*ClassSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClassSession), args.Error(1)
}

func (m *MockService) CancelSession(ctx context.Context, actor auth.Actor, id uuid.UUID) (*ClassSession, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ClassSession), args.Error(1)
}

func (m *MockService) ListAvailable(ctx context.Context, from, to time.Time) ([]SessionWithDetails, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SessionWithDetails), args.Error(1)
}

func (m *MockService) TrainerSchedule(ctx context.Context, actor auth.Actor, trainerID uuid.UUID, from, to time.Time) ([]SessionWithDetails, error) {
	args := m.Called(ctx, actor, trainerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SessionWithDetails), args.Error(1)
}

func newRouter(svc Service, actor auth.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, time.UTC)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		auth.SetActor(c, actor)
		c.Next()
	})
	r.GET("/sessions", h.ListAvailable)
	r.GET("/trainer/sessions", h.TrainerSchedule)
	r.POST("/admin/sessions", h.CreateSession)
	r.POST("/admin/sessions/:id/cancel", h.CancelSession)
	return r
}

func TestListAvailable_Handler(t *testing.T) {
	svc := new(MockService)
	router := newRouter(svc, member)

	from := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	svc.On("ListAvailable", mock.Anything, from, to).
		Return([]SessionWithDetails{{ClassSession: ClassSession{SessionDate: "2026-03-10"}, Available: 4}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/sessions?from=2026-03-09&to=2026-03-15", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"available":4`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/sessions?from=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrainerSchedule_Handler(t *testing.T) {
	svc := new(MockService)
	router := newRouter(svc, trainer)

	svc.On("TrainerSchedule", mock.Anything, trainer, uuid.Nil, mock.Anything, mock.Anything).
		Return([]SessionWithDetails{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/trainer/sessions", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/trainer/sessions?trainer_id=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateSession_Handler(t *testing.T) {
	svc := new(MockService)
	router := newRouter(svc, admin)
	roomID := uuid.New()

	svc.On("CreateSession", mock.Anything, admin, mock.MatchedBy(func(r CreateSessionRequest) bool {
		return r.RoomID == roomID.String()
	})).Return(nil, ErrRoomNotFound)

	body := `{"room_id":"` + roomID.String() + `","session_date":"2026-03-10","start_time":"18:00","end_time":"19:00"}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/sessions", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelSession_Handler(t *testing.T) {
	svc := new(MockService)
	router := newRouter(svc, admin)
	id := uuid.New()

	svc.On("CancelSession", mock.Anything, admin, id).Return(nil, ErrSessionAlreadyCancelled)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/admin/sessions/"+id.String()+"/cancel", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}
