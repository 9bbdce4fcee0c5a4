package site

import (
	"errors"
	"net/http"

	"go_sitebuilder/internal/httpx"
	"go_sitebuilder/internal/model"
	"go_sitebuilder/internal/resolve"
	"go_sitebuilder/internal/tlscert"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// Handler serves the public site resolution endpoints. These are the
// hot path: the edge renderer calls Resolve for every incoming request
// it has not cached.
type Handler struct {
	db         *gorm.DB
	resolver   *resolve.Resolver
	rdb        *redis.Client
	landingURL string
}

// NewHandler creates a site handler
func NewHandler(db *gorm.DB, resolver *resolve.Resolver, rdb *redis.Client, landingURL string) *Handler {
	return &Handler{
		db:         db,
		resolver:   resolver,
		rdb:        rdb,
		landingURL: landingURL,
	}
}

// SiteView is the render payload for a resolved tenant site
type SiteView struct {
	TenantID        int              `json:"tenant_id"`
	StoreName       string           `json:"store_name"`
	Slug            string           `json:"slug"`
	TemplateID      int              `json:"template_id"`
	SiteTitle       string           `json:"site_title"`
	SiteDescription string           `json:"site_description"`
	IsLive          bool             `json:"is_live"`
	DomainType      model.DomainType `json:"domain_type"`
	WebsiteLink     string           `json:"website_link"`
}

// Resolve maps a request to a tenant site. The slug query parameter
// wins over host; host defaults to the caller's Host header so the
// endpoint can sit directly behind the edge.
func (h *Handler) Resolve(c *gin.Context) {
	slug := c.Query("slug")
	host := c.Query("host")
	if slug == "" && host == "" {
		host = c.Request.Host
	}

	tenant, err := h.resolver.Resolve(c.Request.Context(), slug, host)
	if err != nil {
		if errors.Is(err, resolve.ErrNotFound) {
			// Expected outcome for unknown hosts, not an error condition
			httpx.FailErr(c, httpx.ErrNotFound("site not found").WithData(gin.H{
				"landing_url": h.landingURL,
			}))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to resolve site", err))
		return
	}

	view := SiteView{
		TenantID:        tenant.ID,
		StoreName:       tenant.StoreName,
		Slug:            tenant.Slug,
		TemplateID:      tenant.TemplateID,
		SiteTitle:       tenant.SiteTitle,
		SiteDescription: tenant.SiteDescription,
		IsLive:          tenant.IsLive,
	}

	var st model.Settings
	if err := h.db.Where("tenant_id = ?", tenant.ID).First(&st).Error; err == nil {
		view.DomainType = st.DomainType
		view.WebsiteLink = st.WebsiteLink
	}

	httpx.OK(c, view)
}

// AcmeChallenge answers HTTP-01 validation requests for pending
// certificate issuance. Served unauthenticated on the well-known path.
func (h *Handler) AcmeChallenge(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.String(http.StatusNotFound, "not found")
		return
	}

	keyAuth := tlscert.ChallengeResponse(c.Request.Context(), h.rdb, token)
	if keyAuth == "" {
		c.String(http.StatusNotFound, "not found")
		return
	}

	c.String(http.StatusOK, keyAuth)
}
