package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"gymclass/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture points the package logger at a buffer until the test ends.
func capture(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	prev := log
	t.Cleanup(func() { log = prev })

	var buf bytes.Buffer
	log = New(NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}))
	return &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		out = append(out, rec)
	}
	return out
}

func TestLedgerEvents(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	Info("booking created", "booking_id", "b-1", "user_id", "u-1", "credits_left", 3)
	Warn("referral link failed", "user_id", "u-2", "referrer_id", "u-1")
	Error("failed to send email", "to", "member@example.com", "attempt", 2)

	recs := records(t, buf)
	require.Len(t, recs, 3)

	assert.Equal(t, "INFO", recs[0]["level"])
	assert.Equal(t, "booking created", recs[0]["msg"])
	assert.Equal(t, "b-1", recs[0]["booking_id"])
	assert.Equal(t, float64(3), recs[0]["credits_left"])

	assert.Equal(t, "WARN", recs[1]["level"])
	assert.Equal(t, "u-1", recs[1]["referrer_id"])

	assert.Equal(t, "ERROR", recs[2]["level"])
	assert.Equal(t, float64(2), recs[2]["attempt"])
}

func TestFormattedHelpers(t *testing.T) {
	buf := capture(t, slog.LevelDebug)

	Infof("server listening on :%s", "8080")
	Errorf("Failed to load config: %v", "JWT_SECRET is required")
	Debugf("sweep found %d overdue subscriptions", 4)

	recs := records(t, buf)
	require.Len(t, recs, 3)
	assert.Equal(t, "server listening on :8080", recs[0]["msg"])
	assert.Equal(t, "Failed to load config: JWT_SECRET is required", recs[1]["msg"])
	assert.Equal(t, "DEBUG", recs[2]["level"])
	assert.Equal(t, "sweep found 4 overdue subscriptions", recs[2]["msg"])
}

func TestWithError_LedgerError(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	err := fmt.Errorf("%w: no active subscription with credits", apperr.ErrInsufficientCredits)
	WithError(err).Warn("booking rejected", "session_id", "s-1")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "booking rejected", recs[0]["msg"])
	assert.Equal(t, "s-1", recs[0]["session_id"])
	assert.Equal(t, err.Error(), recs[0]["error"])
}

func TestWithFields(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	WithFields(map[string]interface{}{
		"subscription_id": "sub-1",
		"approved":        true,
	}).Info("subscription decided")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "sub-1", recs[0]["subscription_id"])
	assert.Equal(t, true, recs[0]["approved"])
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, slog.LevelWarn)

	Debug("sending email", "attempt", 1)
	Info("email queued")
	Warn("rate limited", "ip", "10.0.0.1")

	recs := records(t, buf)
	require.Len(t, recs, 1)
	assert.Equal(t, "rate limited", recs[0]["msg"])
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestInit_UsesLogLevel(t *testing.T) {
	prev, prevDefault := log, slog.Default()
	t.Cleanup(func() {
		log = prev
		slog.SetDefault(prevDefault)
	})
	t.Setenv("LOG_LEVEL", "error")

	Init()

	assert.Same(t, log, L())
	assert.False(t, L().Enabled(context.Background(), slog.LevelWarn))
	assert.True(t, L().Enabled(context.Background(), slog.LevelError))
	assert.Same(t, L(), slog.Default())
}
