package profile

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
	return &Handler{
		service: service,
	}
}

// @Summary      Create my profile
// @Description  Creates the profile of the authenticated identity. An optional referral code links the new member to a referrer.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body profile.CreateProfileRequest true "Profile payload"
// @Success      201 {object} profile.Profile
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /profiles [post]
func (h *Handler) CreateProfile(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreateProfileRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.CreateProfile(c.Request.Context(), userID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      Get my profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} profile.Profile
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /me [get]
func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	p, err := h.service.GetMe(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Update my profile
// @Description  Updates phone, name and language. Role and referral fields are not editable.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body profile.UpdateProfileRequest true "Fields to change"
// @Success      200 {object} profile.Profile
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /me [patch]
func (h *Handler) UpdateMe(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req UpdateProfileRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdateMe(c.Request.Context(), userID, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      List my referrals
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} profile.Referral
// @Failure      401 {object} api.ErrorResponse
// @Router       /me/referrals [get]
func (h *Handler) ListReferrals(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	referrals, err := h.service.ListReferrals(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, referrals)
}

// @Summary      Change a member's role
// @Tags         admin,profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                 true "Profile ID"
// @Param        request body profile.SetRoleRequest true "New role"
// @Success      200 {object} profile.Profile
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/profiles/{id}/role [patch]
func (h *Handler) SetRole(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req SetRoleRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.SetRole(c.Request.Context(), actor, id, auth.Role(req.Role))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
