package settings

import (
	"context"
	"fmt"

	"go_sitebuilder/internal/dnscheck"
	"go_sitebuilder/internal/domainutil"
	"go_sitebuilder/internal/httpx"
	"go_sitebuilder/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// Repo is the persistence surface the settings service needs
type Repo interface {
	TenantByID(id int) (*model.Tenant, error)
	SettingsByTenant(tenantID int) (*model.Settings, error)
	SubdomainTaken(label string, excludeTenantID int) (bool, error)
	DomainTaken(domain string, excludeTenantID int) (bool, error)
	SaveSettings(st *model.Settings) error
	UpdateTenantDomain(tenantID int, domain string) error
}

// Verifier runs DNS checks and records committed status transitions
type Verifier interface {
	Check(ctx context.Context, domain string) dnscheck.Result
	RecordTransition(ctx context.Context, tenantID int, domain string, status model.DNSStatus, message string)
}

// CachePurger drops cached resolution entries after a routing change
type CachePurger interface {
	PurgeHost(ctx context.Context, host string)
	PurgeSlug(ctx context.Context, slug string)
}

// UpdateRequest carries a partial settings update. Nil fields are left
// unchanged; domain_type selects which routing fields are consulted.
type UpdateRequest struct {
	DomainType        *model.DomainType `json:"domain_type"`
	SubDomain         *string           `json:"sub_domain"`
	PrimaryDomainName *string           `json:"primary_domain_name"`

	FirstName     *string         `json:"first_name"`
	LastName      *string         `json:"last_name"`
	EmailID       *string         `json:"email_id"`
	Mobile        *string         `json:"mobile"`
	Address       *string         `json:"address"`
	Skype         *string         `json:"skype"`
	SiteName      *string         `json:"site_name"`
	SiteLogoURL   *string         `json:"site_logo_url"`
	PublishOnSite *bool           `json:"publish_on_site"`
	SocialLinks   *datatypes.JSON `json:"social_links"`
}

// Service applies tenant settings updates. Domain mode changes go
// through here and nowhere else; the tenant's routing key and the
// derived website link are rewritten atomically with the settings row.
type Service struct {
	repo     Repo
	verifier Verifier
	cache    CachePurger

	baseDomain string
	protocol   string
	serverIP   string

	log *logrus.Entry
}

// NewService creates a settings service. cache may be nil.
func NewService(repo Repo, verifier Verifier, cache CachePurger, baseDomain, protocol, serverIP string) *Service {
	return &Service{
		repo:       repo,
		verifier:   verifier,
		cache:      cache,
		baseDomain: baseDomain,
		protocol:   protocol,
		serverIP:   serverIP,
		log:        logrus.WithField("component", "settings"),
	}
}

// Get returns the tenant's settings, or an unsaved default record in
// path mode when none exist yet.
func (s *Service) Get(tenantID int) (*model.Settings, error) {
	tenant, err := s.repo.TenantByID(tenantID)
	if err != nil {
		return nil, httpx.ErrDatabaseError("", err)
	}
	if tenant == nil {
		return nil, httpx.ErrNotFound("tenant not found")
	}

	st, err := s.repo.SettingsByTenant(tenantID)
	if err != nil {
		return nil, httpx.ErrDatabaseError("", err)
	}
	if st == nil {
		st = s.defaults(tenant)
	}
	if !model.ValidDNSStatus(st.DNSStatus) {
		// Legacy rows may carry values outside the enum
		st.DNSStatus = model.DNSStatusPending
	}
	return st, nil
}

// defaults builds the implicit path-mode record for a tenant that has
// never saved settings.
func (s *Service) defaults(tenant *model.Tenant) *model.Settings {
	return &model.Settings{
		TenantID:    tenant.ID,
		DomainType:  model.DomainTypePath,
		DNSStatus:   model.DNSStatusVerified,
		WebsiteLink: s.pathLink(tenant.Slug),
		SiteName:    tenant.StoreName,
	}
}

// Apply validates and persists a settings update for the tenant.
// Rejected updates leave no trace: validation and DNS verification run
// before anything is written, so a failed custom-domain switch cannot
// leave the tenant in a half-applied state.
func (s *Service) Apply(ctx context.Context, tenantID int, req UpdateRequest) (*model.Settings, error) {
	tenant, err := s.repo.TenantByID(tenantID)
	if err != nil {
		return nil, httpx.ErrDatabaseError("", err)
	}
	if tenant == nil {
		return nil, httpx.ErrNotFound("tenant not found")
	}

	current, err := s.repo.SettingsByTenant(tenantID)
	if err != nil {
		return nil, httpx.ErrDatabaseError("", err)
	}
	if current == nil {
		current = s.defaults(tenant)
	}

	next := *current
	oldHost := current.ActiveDomain(s.baseDomain)

	targetType := next.DomainType
	if req.DomainType != nil {
		targetType = *req.DomainType
	}

	var (
		routingKey string
		verified   *dnscheck.Result
	)

	switch targetType {
	case model.DomainTypePath:
		next.DomainType = model.DomainTypePath
		next.SubDomain = ""
		next.PrimaryDomainName = ""
		next.DNSStatus = model.DNSStatusVerified
		next.WebsiteLink = s.pathLink(tenant.Slug)
		routingKey = s.baseDomain + "/" + tenant.Slug

	case model.DomainTypeSubDomain:
		raw := next.SubDomain
		if req.SubDomain != nil {
			raw = *req.SubDomain
		}
		label, err := domainutil.ValidateSubdomainLabel(raw)
		if err != nil {
			return nil, httpx.ErrDomainInvalid(err.Error())
		}

		if targetType != current.DomainType || label != current.SubDomain {
			taken, err := s.repo.SubdomainTaken(label, tenantID)
			if err != nil {
				return nil, httpx.ErrDatabaseError("", err)
			}
			if taken {
				return nil, httpx.ErrSubdomainExists(label)
			}
		}

		next.DomainType = model.DomainTypeSubDomain
		next.SubDomain = label
		next.PrimaryDomainName = ""
		next.DNSStatus = model.DNSStatusVerified
		routingKey = label + "." + s.baseDomain
		next.WebsiteLink = fmt.Sprintf("%s://%s", s.protocol, routingKey)

	case model.DomainTypeCustom:
		raw := next.PrimaryDomainName
		if req.PrimaryDomainName != nil {
			raw = *req.PrimaryDomainName
		}
		host, err := domainutil.ValidateCustomDomain(raw, s.baseDomain)
		if err != nil {
			return nil, httpx.ErrDomainInvalid(err.Error())
		}

		// An unchanged domain value is a content-only update: no
		// uniqueness check, no re-verification, dns_status untouched.
		// Re-checking a still-unverified domain is the sweep's job.
		sameDomain := targetType == current.DomainType && host == current.PrimaryDomainName
		if !sameDomain {
			taken, err := s.repo.DomainTaken(host, tenantID)
			if err != nil {
				return nil, httpx.ErrDatabaseError("", err)
			}
			if taken {
				return nil, httpx.ErrDomainExists(host)
			}

			res := s.verifier.Check(ctx, host)
			if res.Status != model.DNSStatusVerified {
				return nil, httpx.ErrDNSNotVerified(host, s.serverIP)
			}
			verified = &res
			next.DNSStatus = model.DNSStatusVerified
		}

		next.DomainType = model.DomainTypeCustom
		next.SubDomain = ""
		next.PrimaryDomainName = host
		routingKey = host
		next.WebsiteLink = fmt.Sprintf("%s://%s", s.protocol, host)

	default:
		return nil, httpx.ErrParamInvalid(fmt.Sprintf("unknown domain_type %q", targetType))
	}

	mergeContent(&next, req)

	if err := s.repo.SaveSettings(&next); err != nil {
		return nil, httpx.ErrDatabaseError("failed to save settings", err)
	}

	if routingKey != tenant.Domain {
		if err := s.repo.UpdateTenantDomain(tenantID, routingKey); err != nil {
			// The settings row is already committed; surface this loudly
			// so the routing key can be reconciled.
			s.log.WithFields(logrus.Fields{"tenant_id": tenantID, "domain": routingKey}).
				WithError(err).Error("settings saved but tenant domain update failed")
			return nil, httpx.ErrDatabaseError("failed to update tenant domain", err)
		}
	}

	if verified != nil {
		s.verifier.RecordTransition(ctx, tenantID, next.PrimaryDomainName, model.DNSStatusVerified, "Domain verified")
	}

	s.purge(ctx, tenant.Slug, oldHost, next.ActiveDomain(s.baseDomain))
	return &next, nil
}

func (s *Service) pathLink(slug string) string {
	return fmt.Sprintf("%s://%s/%s", s.protocol, s.baseDomain, slug)
}

func (s *Service) purge(ctx context.Context, slug, oldHost, newHost string) {
	if s.cache == nil {
		return
	}
	s.cache.PurgeSlug(ctx, slug)
	if oldHost != "" {
		s.cache.PurgeHost(ctx, oldHost)
	}
	if newHost != "" && newHost != oldHost {
		s.cache.PurgeHost(ctx, newHost)
	}
}

// mergeContent copies the non-routing fields present in the request
func mergeContent(st *model.Settings, req UpdateRequest) {
	if req.FirstName != nil {
		st.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		st.LastName = *req.LastName
	}
	if req.EmailID != nil {
		st.EmailID = *req.EmailID
	}
	if req.Mobile != nil {
		st.Mobile = *req.Mobile
	}
	if req.Address != nil {
		st.Address = *req.Address
	}
	if req.Skype != nil {
		st.Skype = *req.Skype
	}
	if req.SiteName != nil {
		st.SiteName = *req.SiteName
	}
	if req.SiteLogoURL != nil {
		st.SiteLogoURL = *req.SiteLogoURL
	}
	if req.PublishOnSite != nil {
		st.PublishOnSite = *req.PublishOnSite
	}
	if req.SocialLinks != nil {
		st.SocialLinks = *req.SocialLinks
	}
}
