package settings

import (
	"errors"

	"go_sitebuilder/api/v1/middleware"
	"go_sitebuilder/internal/httpx"
	"go_sitebuilder/internal/settings"

	"github.com/gin-gonic/gin"
)

// Handler serves the tenant settings endpoints
type Handler struct {
	svc *settings.Service
}

// NewHandler creates a settings handler
func NewHandler(svc *settings.Service) *Handler {
	return &Handler{svc: svc}
}

// Get returns the tenant's settings, defaulting to path mode when the
// tenant has never saved any.
func (h *Handler) Get(c *gin.Context) {
	tenantID, appErr := middleware.TenantID(c)
	if appErr != nil {
		httpx.FailErr(c, appErr)
		return
	}

	st, err := h.svc.Get(tenantID)
	if err != nil {
		failErr(c, err)
		return
	}
	httpx.OK(c, st)
}

// Update applies a settings change. Domain mode transitions are
// validated and, for custom domains, DNS-verified before anything is
// persisted.
func (h *Handler) Update(c *gin.Context) {
	tenantID, appErr := middleware.TenantID(c)
	if appErr != nil {
		httpx.FailErr(c, appErr)
		return
	}

	var req settings.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	st, err := h.svc.Apply(c.Request.Context(), tenantID, req)
	if err != nil {
		failErr(c, err)
		return
	}
	httpx.OK(c, st)
}

// failErr unwraps service errors into the unified response format
func failErr(c *gin.Context, err error) {
	var appErr *httpx.AppError
	if errors.As(err, &appErr) {
		httpx.FailErr(c, appErr)
		return
	}
	httpx.FailErr(c, httpx.ErrInternalError("", err))
}
