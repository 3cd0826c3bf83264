package schedule

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassSessionWindow(t *testing.T) {
	athens, err := time.LoadLocation("Europe/Athens")
	require.NoError(t, err)

	s := &ClassSession{SessionDate: "2026-03-10", StartTime: "18:00", EndTime: "19:15"}

	start, end, err := s.Window(athens)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 18, 0, 0, 0, athens), start)
	assert.Equal(t, 75*time.Minute, end.Sub(start))
	assert.Equal(t, "2026-03-10T16:00:00Z", start.UTC().Format(time.RFC3339))

	bad := &ClassSession{SessionDate: "10/03/2026", StartTime: "18:00", EndTime: "19:00"}
	_, _, err = bad.Window(athens)
	assert.Error(t, err)
}

func TestClassSessionSpotsLeft(t *testing.T) {
	assert.Equal(t, 3, (&ClassSession{MaxCapacity: 10, CurrentBookings: 7}).SpotsLeft())
	assert.Equal(t, 0, (&ClassSession{MaxCapacity: 10, CurrentBookings: 10}).SpotsLeft())
}

func TestCreateSessionRequest_Validation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, req)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"room_id":"nope"}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "RoomID")
	assert.Contains(t, w.Body.String(), "SessionDate")
}
