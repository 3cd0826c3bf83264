package schedule

import (
	"net/http"
	"time"

	"gymclass/internal/api"
	"gymclass/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultRangeDays = 14

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

// @Summary      Create a room
// @Tags         admin,schedule
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body schedule.CreateRoomRequest true "Room payload"
// @Success      201 {object} schedule.Room
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateRoomRequest
	if !api.BindJSON(c, &req) {
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), actor, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, room)
}

// @Summary      List rooms
// @Tags         admin,schedule
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} schedule.Room
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	rooms, err := h.service.ListRooms(c.Request.Context(), actor)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// @Summary      Create a class session
// @Description  Admin-only. Capacity defaults to the room's capacity.
// @Tags         admin,schedule
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body schedule.CreateSessionRequest true "Session payload"
// @Success      201 {object} schedule.ClassSession
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateSessionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), actor, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// @Summary      Cancel a class session
// @Description  Admin-only. Closes the session to new bookings.
// @Tags         admin,schedule
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Session ID"
// @Success      200 {object} schedule.ClassSession
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/sessions/{id}/cancel [post]
func (h *Handler) CancelSession(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	session, err := h.service.CancelSession(c.Request.Context(), actor, id)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// @Summary      List bookable sessions
// @Tags         schedule
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "First day (YYYY-MM-DD), defaults to today"
// @Param        to   query string false "Last day (YYYY-MM-DD), defaults to two weeks ahead"
// @Success      200 {array} schedule.SessionWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Router       /sessions [get]
func (h *Handler) ListAvailable(c *gin.Context) {
	from, to, ok := api.ParseDateRange(c, h.loc, defaultRangeDays)
	if !ok {
		return
	}

	sessions, err := h.service.ListAvailable(c.Request.Context(), from, to)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// @Summary      Trainer schedule
// @Description  Sessions of the calling trainer. Admins may pass trainer_id.
// @Tags         staff,schedule
// @Produce      json
// @Security     BearerAuth
// @Param        from       query string false "First day (YYYY-MM-DD)"
// @Param        to         query string false "Last day (YYYY-MM-DD)"
// @Param        trainer_id query string false "Trainer ID (admin only)"
// @Success      200 {array} schedule.SessionWithDetails
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /trainer/sessions [get]
func (h *Handler) TrainerSchedule(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	from, to, ok := api.ParseDateRange(c, h.loc, defaultRangeDays)
	if !ok {
		return
	}

	var trainerID uuid.UUID
	if s := c.Query("trainer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			api.BadRequest(c, "invalid trainer_id")
			return
		}
		trainerID = id
	}

	sessions, err := h.service.TrainerSchedule(c.Request.Context(), actor, trainerID, from, to)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}
