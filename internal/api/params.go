package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// ParseID reads a uuid path parameter. On failure it writes a 400 and
// returns false.
func ParseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		BadRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// ParseDateRange reads the from/to query parameters as YYYY-MM-DD dates.
// Missing values default to today and today+days. On failure it writes a 400
// and returns false.
func ParseDateRange(c *gin.Context, loc *time.Location, days int) (time.Time, time.Time, bool) {
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	from, to := today, today.AddDate(0, 0, days)
	if s := c.Query("from"); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			BadRequest(c, "from must be YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			BadRequest(c, "to must be YYYY-MM-DD")
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	if to.Before(from) {
		BadRequest(c, "to must not be before from")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
