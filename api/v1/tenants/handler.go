package tenants

import (
	"errors"

	"go_sitebuilder/api/v1/middleware"
	"go_sitebuilder/internal/httpx"
	"go_sitebuilder/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves tenant profile endpoints
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a tenants handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// UpdateRequest carries the mutable tenant fields. The slug and the
// effective domain are deliberately absent: the slug is permanent and
// the domain only changes through settings transitions.
type UpdateRequest struct {
	StoreName       *string `json:"store_name"`
	SiteTitle       *string `json:"site_title"`
	SiteDescription *string `json:"site_description"`
	TemplateID      *int    `json:"template_id"`
	IsLive          *bool   `json:"is_live"`
}

// Get returns the tenant with its settings
func (h *Handler) Get(c *gin.Context) {
	tenantID, appErr := middleware.TenantID(c)
	if appErr != nil {
		httpx.FailErr(c, appErr)
		return
	}

	var tenant model.Tenant
	if err := h.db.Preload("Settings").First(&tenant, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("tenant not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
		return
	}

	httpx.OK(c, tenant)
}

// Update applies profile changes to the tenant
func (h *Handler) Update(c *gin.Context) {
	tenantID, appErr := middleware.TenantID(c)
	if appErr != nil {
		httpx.FailErr(c, appErr)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	var tenant model.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("tenant not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
		return
	}

	updates := map[string]interface{}{}
	if req.StoreName != nil {
		if *req.StoreName == "" {
			httpx.FailErr(c, httpx.ErrParamInvalid("store_name must not be empty"))
			return
		}
		updates["store_name"] = *req.StoreName
	}
	if req.SiteTitle != nil {
		updates["site_title"] = *req.SiteTitle
	}
	if req.SiteDescription != nil {
		updates["site_description"] = *req.SiteDescription
	}
	if req.TemplateID != nil {
		updates["template_id"] = *req.TemplateID
	}
	if req.IsLive != nil {
		updates["is_live"] = *req.IsLive
	}

	if len(updates) > 0 {
		if err := h.db.Model(&tenant).Updates(updates).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to update tenant", err))
			return
		}
	}

	httpx.OK(c, tenant)
}
