package admin

import (
	"errors"
	"fmt"
	"log"

	"go_sitebuilder/internal/auth"
	"go_sitebuilder/internal/domainutil"
	"go_sitebuilder/internal/httpx"
	"go_sitebuilder/internal/model"
	"go_sitebuilder/internal/notify"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves admin provisioning endpoints
type Handler struct {
	db         *gorm.DB
	mailer     *notify.Mailer
	baseDomain string
	protocol   string
	loginURL   string
}

// NewHandler creates an admin handler
func NewHandler(db *gorm.DB, mailer *notify.Mailer, baseDomain, protocol, loginURL string) *Handler {
	return &Handler{
		db:         db,
		mailer:     mailer,
		baseDomain: baseDomain,
		protocol:   protocol,
		loginURL:   loginURL,
	}
}

// CreateStoreRequest represents the provisioning request body
type CreateStoreRequest struct {
	StoreName  string `json:"store_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	OwnerName  string `json:"owner_name"`
	TemplateID int    `json:"template_id"`
}

// CreateStoreResponse returns the provisioned tenant and owner account
type CreateStoreResponse struct {
	Tenant      *model.Tenant `json:"tenant"`
	OwnerEmail  string        `json:"owner_email"`
	Password    string        `json:"password"`
	WebsiteLink string        `json:"website_link"`
}

// CreateStore provisions a tenant: store record, settings in path mode,
// and an owner account with a generated password. The new site is
// reachable under the platform path immediately.
func (h *Handler) CreateStore(c *gin.Context) {
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
		return
	}

	var existing model.User
	err := h.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		httpx.FailErr(c, httpx.ErrAlreadyExists(fmt.Sprintf("user with email %s already exists", req.Email)))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
		return
	}

	slug, err := h.uniqueSlug(req.StoreName)
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to allocate slug", err))
		return
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to generate password", err))
		return
	}
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		httpx.FailErr(c, httpx.ErrInternalError("failed to hash password", err))
		return
	}

	ownerName := req.OwnerName
	if ownerName == "" {
		ownerName = req.StoreName
	}

	websiteLink := fmt.Sprintf("%s://%s/%s", h.protocol, h.baseDomain, slug)

	tenant := model.Tenant{
		StoreName:  req.StoreName,
		TemplateID: req.TemplateID,
		Slug:       slug,
		Domain:     h.baseDomain + "/" + slug,
		SiteTitle:  req.StoreName,
		IsLive:     true,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		settings := model.Settings{
			TenantID:    tenant.ID,
			DomainType:  model.DomainTypePath,
			DNSStatus:   model.DNSStatusVerified,
			WebsiteLink: websiteLink,
			SiteName:    req.StoreName,
			EmailID:     req.Email,
		}
		if err := tx.Create(&settings).Error; err != nil {
			return err
		}

		user := model.User{
			Name:         ownerName,
			Email:        req.Email,
			PasswordHash: passwordHash,
			TenantID:     &tenant.ID,
			Role:         model.RoleTenant,
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		tenant.UserID = &user.ID
		return tx.Model(&tenant).Update("user_id", user.ID).Error
	})
	if err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to provision store", err))
		return
	}

	if h.mailer != nil {
		if err := h.mailer.SendWelcome(req.Email, ownerName, password, websiteLink, h.loginURL); err != nil {
			log.Printf("[Admin] Welcome email to %s failed: %v", req.Email, err)
		}
	}

	httpx.Created(c, CreateStoreResponse{
		Tenant:      &tenant,
		OwnerEmail:  req.Email,
		Password:    password,
		WebsiteLink: websiteLink,
	})
}

// ListStores returns all tenants with their settings
func (h *Handler) ListStores(c *gin.Context) {
	var tenants []model.Tenant
	if err := h.db.Preload("Settings").Order("id DESC").Find(&tenants).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list stores", err))
		return
	}
	httpx.OK(c, gin.H{
		"items": tenants,
		"total": len(tenants),
	})
}

// DomainLogs returns the audit trail for a tenant's domains
func (h *Handler) DomainLogs(c *gin.Context) {
	tenantID := c.Query("tenant_id")
	query := h.db.Model(&model.DomainLog{}).Order("id DESC").Limit(200)
	if tenantID != "" {
		query = query.Where("tenant_id = ?", tenantID)
	}

	var logs []model.DomainLog
	if err := query.Find(&logs).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list domain logs", err))
		return
	}
	httpx.OK(c, gin.H{
		"items": logs,
		"total": len(logs),
	})
}

// uniqueSlug derives a slug from the store name, suffixing -2, -3, ...
// until it is free.
func (h *Handler) uniqueSlug(storeName string) (string, error) {
	base := domainutil.Slugify(storeName)
	slug := base

	for i := 2; ; i++ {
		var count int64
		if err := h.db.Model(&model.Tenant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}
