package booking

import (
	"net/http"
	"strings"
	"time"

	"gymclass/internal/api"
	"gymclass/internal/auth"

	"github.com/gin-gonic/gin"
)

const statsRangeDays = 30

type Handler struct {
	service Service
	loc     *time.Location
}

func NewHandler(service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		service: service,
		loc:     loc,
	}
}

// @Summary      Book a class session
// @Description  Reserves one seat and debits one credit from the active subscription
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      201 {object} booking.Ledger
// @Failure      400 {object} api.ErrorResponse
// @Failure      402 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /sessions/{id}/book [post]
func (h *Handler) BookSession(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	sessionID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	ledger, err := h.service.BookSession(c.Request.Context(), actor, sessionID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, ledger)
}

// @Summary      Cancel a booking
// @Description  Members cancel their own bookings; admins may cancel any. The credit is refunded.
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {object} booking.Ledger
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /bookings/{id}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	ledger, err := h.service.CancelBooking(c.Request.Context(), actor, bookingID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, ledger)
}

// @Summary      My bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} booking.BookingWithSession
// @Router       /bookings [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookings, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// @Summary      Check in with a booking code
// @Tags         staff,bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body booking.CheckInRequest true "Scanned code"
// @Success      200 {object} booking.Booking
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Router       /staff/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CheckInRequest
	if !api.BindJSON(c, &req) {
		return
	}

	b, err := h.service.CheckIn(c.Request.Context(), actor, strings.TrimSpace(req.QRCode))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Mark a booking as no-show
// @Description  Only after the session has ended. Credits and seats are not touched.
// @Tags         staff,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {object} booking.Booking
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /staff/bookings/{id}/no-show [post]
func (h *Handler) MarkNoShow(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	bookingID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.MarkNoShow(c.Request.Context(), actor, bookingID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// @Summary      Session roster
// @Tags         staff,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      200 {array} booking.RosterEntry
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /staff/sessions/{id}/roster [get]
func (h *Handler) Roster(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	sessionID, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	roster, err := h.service.Roster(c.Request.Context(), actor, sessionID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, roster)
}

// @Summary      Bookings per day
// @Description  Admin-only. Counts by status for sessions between two days.
// @Tags         admin,bookings
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to   query string false "Last day (YYYY-MM-DD)"
// @Success      200 {array} booking.DayStats
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/analytics/bookings [get]
func (h *Handler) StatsByDay(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	from, to, ok := api.ParseDateRange(c, h.loc, statsRangeDays)
	if !ok {
		return
	}

	stats, err := h.service.StatsByDay(c.Request.Context(), actor, from, to)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
