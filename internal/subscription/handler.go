package subscription

import (
	"net/http"

	"gymclass/internal/api"
	"gymclass/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// @Summary      List subscription packages
// @Description  Packages currently on sale
// @Tags         subscriptions
// @Produce      json
// @Success      200 {array} subscription.Package
// @Router       /packages [get]
func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.service.ListPackages(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, packages)
}

// @Summary      List all packages
// @Description  Admin-only. Includes deactivated packages.
// @Tags         admin,subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} subscription.Package
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/packages [get]
func (h *Handler) ListAllPackages(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	packages, err := h.service.ListAllPackages(c.Request.Context(), actor)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, packages)
}

// @Summary      Create a package
// @Tags         admin,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.CreatePackageRequest true "Package terms"
// @Success      201 {object} subscription.Package
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/packages [post]
func (h *Handler) CreatePackage(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req CreatePackageRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.CreatePackage(c.Request.Context(), actor, req)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// @Summary      Activate or deactivate a package
// @Description  Price and credits are fixed; only availability can change.
// @Tags         admin,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                                 true "Package ID"
// @Param        request body subscription.SetPackageActiveRequest true "Availability"
// @Success      200 {object} subscription.Package
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /admin/packages/{id} [patch]
func (h *Handler) SetPackageActive(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req SetPackageActiveRequest
	if !api.BindJSON(c, &req) {
		return
	}

	p, err := h.service.SetPackageActive(c.Request.Context(), actor, id, *req.IsActive)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// @Summary      Buy a subscription
// @Description  Creates a pending subscription and a pending payment to settle at the front desk
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body subscription.IssueRequest true "Package to buy"
// @Success      201 {object} subscription.Issued
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) Issue(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req IssueRequest
	if !api.BindJSON(c, &req) {
		return
	}

	packageID, err := uuid.Parse(req.PackageID)
	if err != nil {
		api.BadRequest(c, "invalid package_id")
		return
	}

	issued, err := h.service.IssueSubscription(c.Request.Context(), userID, packageID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, issued)
}

// @Summary      My subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} subscription.SubscriptionWithPackage
// @Router       /subscriptions [get]
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	subs, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}

// @Summary      Pending approvals
// @Description  Admin-only. Subscriptions whose payment awaits a decision, oldest first.
// @Tags         admin,subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} subscription.PendingApproval
// @Failure      403 {object} api.ErrorResponse
// @Router       /admin/approvals [get]
func (h *Handler) ListPendingApprovals(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	pending, err := h.service.ListPendingApprovals(c.Request.Context(), actor)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, pending)
}

// @Summary      Approve or reject a payment
// @Tags         admin,subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                          true "Subscription ID"
// @Param        request body subscription.DecisionRequest true "Decision"
// @Success      200 {object} subscription.UserSubscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Router       /admin/subscriptions/{id}/decision [post]
func (h *Handler) Decide(c *gin.Context) {
	actor, ok := auth.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "User not authenticated"})
		return
	}

	id, ok := api.ParseID(c, "id")
	if !ok {
		return
	}

	var req DecisionRequest
	if !api.BindJSON(c, &req) {
		return
	}

	sub, err := h.service.DecideApproval(c.Request.Context(), actor, id, *req.Approve)
	if err != nil {
		api.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}
