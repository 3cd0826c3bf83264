package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gymclass/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: booking exists", apperr.ErrConflict), http.StatusConflict},
		{apperr.ErrInsufficientCredits, http.StatusPaymentRequired},
		{apperr.ErrSessionFull, http.StatusConflict},
		{apperr.ErrUnauthorized, http.StatusForbidden},
		{apperr.ErrAlreadyUsed, http.StatusConflict},
		{apperr.ErrOutOfWindow, http.StatusUnprocessableEntity},
		{apperr.ErrInvalid, http.StatusBadRequest},
		{apperr.ErrTryAgain, http.StatusServiceUnavailable},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, _ := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestFail_LocalizedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	c.Request.Header.Set("Accept-Language", "en")

	Fail(c, fmt.Errorf("%w: no seats", apperr.ErrSessionFull))

	assert.Equal(t, http.StatusConflict, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "session_full", body.Error)
	assert.Equal(t, "This class is full.", body.Message)
}

func TestFail_TryAgainSetsRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	Fail(c, apperr.ErrTryAgain)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, RetryAfterSeconds, w.Header().Get("Retry-After"))
}
