package payment

import (
	"net/http"
	"strconv"
	"time"

	"gymclass/internal/api"
	"gymclass/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo Repository
	loc  *time.Location
}

func NewHandler(repo Repository, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		repo: repo,
		loc:  loc,
	}
}

// @Summary      My payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query int false "Page size (max 50)"
// @Param        offset query int false "Offset"
// @Success      200 {array} payment.PaymentWithPackage
// @Router       /payments [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	payments, err := h.repo.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// @Summary      Pending payments
// @Description  Admin-only. Payments waiting to be settled at the front desk.
// @Tags         admin,payments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} payment.PaymentWithPackage
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/payments/pending [get]
func (h *Handler) ListPending(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	if err := actor.Authorize(auth.ActionDecideApproval); err != nil {
		api.Fail(c, err)
		return
	}

	payments, err := h.repo.ListPending(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}

// @Summary      Revenue
// @Description  Admin-only. Approved payments between two days, both inclusive. Defaults to the current month.
// @Tags         admin,payments
// @Produce      json
// @Security     BearerAuth
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to   query string false "Last day (YYYY-MM-DD)"
// @Success      200 {object} payment.Revenue
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/analytics/revenue [get]
func (h *Handler) Revenue(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}
	if err := actor.Authorize(auth.ActionViewAdminDashboard); err != nil {
		api.Fail(c, err)
		return
	}

	from, to, ok := api.ParseDateRange(c, h.loc, 0)
	if !ok {
		return
	}
	if c.Query("from") == "" {
		from = time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, h.loc)
	}

	rev, err := h.repo.Revenue(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, rev)
}
