package api

import (
	"errors"
	"net/http"

	"gymclass/internal/apperr"
	"gymclass/internal/i18n"
	"gymclass/internal/logger"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error   string            `json:"error" example:"session_full"`
	Message string            `json:"message,omitempty" example:"This class is full."`
	Details []ValidationError `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// RetryAfterSeconds is sent with 503 responses for lock timeouts.
const RetryAfterSeconds = "1"

// StatusFor maps an error kind to its HTTP status and message key.
func StatusFor(err error) (int, i18n.Key) {
	switch apperr.Kind(err) {
	case apperr.ErrNotFound:
		return http.StatusNotFound, i18n.KeyNotFound
	case apperr.ErrConflict:
		return http.StatusConflict, i18n.KeyConflict
	case apperr.ErrInsufficientCredits:
		return http.StatusPaymentRequired, i18n.KeyInsufficientCredits
	case apperr.ErrSessionFull:
		return http.StatusConflict, i18n.KeySessionFull
	case apperr.ErrUnauthorized:
		return http.StatusForbidden, i18n.KeyUnauthorized
	case apperr.ErrAlreadyUsed:
		return http.StatusConflict, i18n.KeyAlreadyUsed
	case apperr.ErrOutOfWindow:
		return http.StatusUnprocessableEntity, i18n.KeyOutOfWindow
	case apperr.ErrInvalid:
		return http.StatusBadRequest, i18n.KeyInvalid
	case apperr.ErrTryAgain:
		return http.StatusServiceUnavailable, i18n.KeyTryAgain
	default:
		return http.StatusInternalServerError, i18n.KeyInternal
	}
}

// Language picks the response language from Accept-Language.
func Language(c *gin.Context) i18n.Language {
	return i18n.ParseLanguage(c.GetHeader("Accept-Language"))
}

// Fail writes the error response for err. Unknown errors are logged and
// reported as internal errors without leaking details.
func Fail(c *gin.Context, err error) {
	status, key := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "path", c.FullPath(), "error", err)
	}
	if errors.Is(err, apperr.ErrTryAgain) {
		c.Header("Retry-After", RetryAfterSeconds)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   string(key),
		Message: i18n.T(key, Language(c)),
	})
}

// BadRequest is used for malformed input caught before reaching a service.
func BadRequest(c *gin.Context, detail string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   string(i18n.KeyInvalid),
		Message: detail,
	})
}
