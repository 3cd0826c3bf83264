package server

import (
	"context"
	"net/http"
	"time"

	"gymclass/internal/api"
	"gymclass/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger is satisfied by *sqlx.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Mailer queues a raw email; satisfied by *email.Service.
type Mailer interface {
	Send(ctx context.Context, kind, to, name, subject, body string) error
}

// @Summary      Health check
// @Description  Reports 503 when the database does not answer within two seconds.
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(pinger Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := pinger.PingContext(ctx); err != nil {
				logger.Warn("health check failed", "error", err)
				c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "database unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
	}
}

// @Summary      Queue a test email
// @Tags         admin,system
// @Produce      json
// @Security     BearerAuth
// @Param        email query string true "Recipient email"
// @Success      202 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/email/test [post]
func TestEmail(mailer Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		to := c.Query("email")
		if to == "" {
			api.BadRequest(c, "email parameter required")
			return
		}

		if err := mailer.Send(c.Request.Context(), "test", to, "", "GymClass test email", "Email delivery is working."); err != nil {
			api.Fail(c, err)
			return
		}

		c.JSON(http.StatusAccepted, api.MessageResponse{Message: "Email queued successfully"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
