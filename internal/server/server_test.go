package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"gymclass/internal/auth"
	"gymclass/internal/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testConfig = &config.Config{
	Port:           "0",
	LockTimeout:    2 * time.Second,
	JWTSecret:      "test-secret",
	JWTIssuer:      "gymclass-identity",
	JWTAudience:    "gymclass-api",
	PaymentWindow:  48 * time.Hour,
	CheckInEarly:   30 * time.Minute,
	CheckInLate:    15 * time.Minute,
	Location:       time.UTC,
	RateLimitRPS:   1000,
	RateLimitBurst: 1000,
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, kind, to, name, subject, body string) error {
	return m.Called(ctx, kind, to, name, subject, body).Error(0)
}

func newTestServer(t *testing.T, mailer Mailer) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return New(testConfig, NewApp(sqlxDB, testConfig, nil), stubPinger{}, mailer), sqlMock
}

func tokenFor(t *testing.T, role auth.Role) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(auth.TokenConfig{
		Secret:   testConfig.JWTSecret,
		Issuer:   testConfig.JWTIssuer,
		Audience: testConfig.JWTAudience,
	}, uuid.New(), string(role)+"@example.com", role, time.Minute)
	require.NoError(t, err)
	return token
}

func do(s *Server, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/ok", Health(stubPinger{}))
	router.GET("/down", Health(stubPinger{err: errors.New("connection refused")}))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSystemRoutes(t *testing.T) {
	s, _ := newTestServer(t, nil)

	assert.Equal(t, http.StatusOK, do(s, "GET", "/health", "").Code)

	w := do(s, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "gymclass_http_requests_total")
}

func TestRouteGuards(t *testing.T) {
	s, _ := newTestServer(t, nil)
	user := tokenFor(t, auth.RoleUser)
	trainer := tokenFor(t, auth.RoleTrainer)
	admin := tokenFor(t, auth.RoleAdmin)

	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		expectedStatus int
	}{
		{"No token", "GET", "/bookings", "", http.StatusUnauthorized},
		{"Garbage token", "GET", "/bookings", "abc", http.StatusUnauthorized},
		{"Member on admin route", "GET", "/admin/dashboard", user, http.StatusForbidden},
		{"Trainer on admin route", "POST", "/admin/subscriptions/" + uuid.NewString() + "/decision", trainer, http.StatusForbidden},
		{"Member on staff route", "POST", "/staff/checkin", user, http.StatusForbidden},
		{"Member on trainer route", "GET", "/trainer/sessions", user, http.StatusForbidden},
		// Passing the guard reaches the handler, which rejects the empty body.
		{"Trainer checks in", "POST", "/staff/checkin", trainer, http.StatusBadRequest},
		{"Admin decides", "POST", "/admin/subscriptions/" + uuid.NewString() + "/decision", admin, http.StatusBadRequest},
		{"Malformed booking id", "POST", "/sessions/abc/book", user, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(s, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestPendingPaymentsRoute(t *testing.T) {
	s, sqlMock := newTestServer(t, nil)

	sqlMock.ExpectQuery(regexp.QuoteMeta("WHERE pay.status = 'pending'")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := do(s, "GET", "/admin/payments/pending", tokenFor(t, auth.RoleAdmin))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestTestEmailRoute(t *testing.T) {
	mailer := new(MockMailer)
	s, _ := newTestServer(t, mailer)
	admin := tokenFor(t, auth.RoleAdmin)

	mailer.On("Send", mock.Anything, "test", "ops@example.com", "", mock.Anything, mock.Anything).Return(nil)

	w := do(s, "POST", "/admin/email/test?email=ops@example.com", admin)
	assert.Equal(t, http.StatusAccepted, w.Code)
	mailer.AssertExpectations(t)

	w = do(s, "POST", "/admin/email/test", admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTestEmailRoute_WithoutMailer(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, "POST", "/admin/email/test?email=ops@example.com", tokenFor(t, auth.RoleAdmin))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
