package model

import (
	"time"

	"gorm.io/datatypes"
)

// DomainType represents how a tenant site is routed
type DomainType string

const (
	DomainTypePath      DomainType = "path"
	DomainTypeSubDomain DomainType = "sub_domain"
	DomainTypeCustom    DomainType = "custom_domain"
)

// DNSStatus represents the verification state of a tenant's domain
type DNSStatus string

const (
	DNSStatusPending    DNSStatus = "pending"
	DNSStatusVerified   DNSStatus = "verified"
	DNSStatusUnverified DNSStatus = "unverified"
	DNSStatusError      DNSStatus = "error"
)

// ValidDNSStatus reports whether s is a known dns_status value
func ValidDNSStatus(s DNSStatus) bool {
	switch s {
	case DNSStatusPending, DNSStatusVerified, DNSStatusUnverified, DNSStatusError:
		return true
	}
	return false
}

// Settings is the per-tenant domain configuration record (1:1 with Tenant).
// Exactly one of SubDomain / PrimaryDomainName is semantically active,
// selected by DomainType; path mode has neither. WebsiteLink is always
// derived from DomainType and the active name field, never hand-set.
type Settings struct {
	BaseModel
	TenantID int `gorm:"uniqueIndex;not null" json:"tenant_id"`

	DomainType        DomainType `gorm:"type:enum('path','sub_domain','custom_domain');default:'path'" json:"domain_type"`
	SubDomain         string     `gorm:"type:varchar(128);index" json:"sub_domain"`
	PrimaryDomainName string     `gorm:"type:varchar(255);index" json:"primary_domain_name"`
	WebsiteLink       string     `gorm:"type:varchar(512)" json:"website_link"`
	DNSStatus         DNSStatus  `gorm:"type:enum('pending','verified','unverified','error');default:'pending'" json:"dns_status"`

	// LastCheckedAt is stamped on every DNS check, confirmations
	// included, so the revalidation sweep rotates through all rows.
	LastCheckedAt time.Time `gorm:"index" json:"last_checked_at"`

	// Contact / branding fields, orthogonal to domain logic
	FirstName     string         `gorm:"type:varchar(128)" json:"first_name"`
	LastName      string         `gorm:"type:varchar(128)" json:"last_name"`
	EmailID       string         `gorm:"type:varchar(255)" json:"email_id"`
	Mobile        string         `gorm:"type:varchar(32)" json:"mobile"`
	Address       string         `gorm:"type:varchar(512)" json:"address"`
	Skype         string         `gorm:"type:varchar(128)" json:"skype"`
	SiteName      string         `gorm:"type:varchar(255)" json:"site_name"`
	SiteLogoURL   string         `gorm:"type:varchar(512)" json:"site_logo_url"`
	PublishOnSite bool           `gorm:"default:0" json:"publish_on_site"`
	SocialLinks   datatypes.JSON `gorm:"type:json" json:"social_links"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName specifies the table name for Settings model
func (Settings) TableName() string {
	return "settings"
}

// ActiveDomain returns the external routing key currently selected by
// DomainType, or "" for path mode.
func (s *Settings) ActiveDomain(baseDomain string) string {
	switch s.DomainType {
	case DomainTypeSubDomain:
		if s.SubDomain == "" {
			return ""
		}
		return s.SubDomain + "." + baseDomain
	case DomainTypeCustom:
		return s.PrimaryDomainName
	}
	return ""
}
