package dashboard

import (
	"net/http"

	"gymclass/internal/api"
	"gymclass/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Member dashboard
// @Description  Remaining credits, upcoming bookings and booking count for the caller.
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dashboard.UserDashboard
// @Router       /me/dashboard [get]
func (h *Handler) Me(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	d, err := h.service.ForUser(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// @Summary      Admin dashboard
// @Tags         admin,dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dashboard.AdminDashboard
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/dashboard [get]
func (h *Handler) Admin(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	d, err := h.service.ForAdmin(c.Request.Context(), actor)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}
