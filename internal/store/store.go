package store

import (
	"errors"
	"fmt"
	"time"

	"go_sitebuilder/internal/model"

	"gorm.io/gorm"
)

// Store is the gorm-backed data access layer. Domain services depend on
// the subset of its methods they need via consumer-side interfaces.
type Store struct {
	db *gorm.DB
}

// New creates a Store
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that compose queries
func (s *Store) DB() *gorm.DB {
	return s.db
}

// TenantByID loads a tenant by primary key. Returns nil when absent.
func (s *Store) TenantByID(id int) (*model.Tenant, error) {
	var t model.Tenant
	if err := s.db.First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// TenantBySlug loads a tenant by its unique slug. Returns nil when absent.
func (s *Store) TenantBySlug(slug string) (*model.Tenant, error) {
	var t model.Tenant
	if err := s.db.Where("slug = ?", slug).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// TenantBySubdomain resolves a subdomain label to its tenant.
// Returns nil when no tenant holds the label.
func (s *Store) TenantBySubdomain(label string) (*model.Tenant, error) {
	var st model.Settings
	err := s.db.Where("sub_domain = ? AND domain_type = ?", label, model.DomainTypeSubDomain).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.TenantByID(st.TenantID)
}

// TenantByVerifiedDomain resolves a custom domain to its tenant, but only
// when the domain's DNS has been verified. Unverified custom domains never
// resolve, which keeps unproven domains from serving another store's traffic.
func (s *Store) TenantByVerifiedDomain(host string) (*model.Tenant, error) {
	var st model.Settings
	err := s.db.Where("primary_domain_name = ? AND domain_type = ? AND dns_status = ?",
		host, model.DomainTypeCustom, model.DNSStatusVerified).First(&st).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return s.TenantByID(st.TenantID)
}

// SettingsByTenant loads the settings row for a tenant. Returns nil when absent.
func (s *Store) SettingsByTenant(tenantID int) (*model.Settings, error) {
	var st model.Settings
	if err := s.db.Where("tenant_id = ?", tenantID).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// SubdomainTaken reports whether another tenant already holds the label
func (s *Store) SubdomainTaken(label string, excludeTenantID int) (bool, error) {
	var count int64
	err := s.db.Model(&model.Settings{}).
		Where("sub_domain = ? AND tenant_id != ?", label, excludeTenantID).
		Count(&count).Error
	return count > 0, err
}

// DomainTaken reports whether another tenant already holds the custom domain
func (s *Store) DomainTaken(domain string, excludeTenantID int) (bool, error) {
	var count int64
	err := s.db.Model(&model.Settings{}).
		Where("primary_domain_name = ? AND tenant_id != ?", domain, excludeTenantID).
		Count(&count).Error
	return count > 0, err
}

// SaveSettings upserts a settings row
func (s *Store) SaveSettings(st *model.Settings) error {
	return s.db.Save(st).Error
}

// UpdateDNSStatus updates the dns_status column of a settings row and
// stamps the check time
func (s *Store) UpdateDNSStatus(settingsID int, status model.DNSStatus) error {
	return s.db.Model(&model.Settings{}).
		Where("id = ?", settingsID).
		Updates(map[string]interface{}{
			"dns_status":      status,
			"last_checked_at": time.Now(),
		}).Error
}

// TouchDNSCheck stamps the check time without changing dns_status. Used
// when a check confirms the stored status, so the sweep moves on to the
// rows checked longest ago instead of re-reading the same batch.
func (s *Store) TouchDNSCheck(settingsID int) error {
	return s.db.Model(&model.Settings{}).
		Where("id = ?", settingsID).
		Update("last_checked_at", time.Now()).Error
}

// UpdateTenantDomain rewrites the tenant's effective routing key
func (s *Store) UpdateTenantDomain(tenantID int, domain string) error {
	result := s.db.Model(&model.Tenant{}).
		Where("id = ?", tenantID).
		Update("domain", domain)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("tenant %d not found", tenantID)
	}
	return nil
}

// AppendDomainLog appends one audit row; DomainLog rows are never mutated
func (s *Store) AppendDomainLog(entry *model.DomainLog) error {
	return s.db.Create(entry).Error
}

// OwnerEmail returns the notification address for a tenant: the owning
// user's account email, falling back to the settings contact email.
func (s *Store) OwnerEmail(tenantID int) string {
	var user model.User
	if err := s.db.Where("tenant_id = ?", tenantID).First(&user).Error; err == nil && user.Email != "" {
		return user.Email
	}
	var st model.Settings
	if err := s.db.Where("tenant_id = ?", tenantID).First(&st).Error; err == nil {
		return st.EmailID
	}
	return ""
}

// CustomDomainSettings lists settings rows in custom_domain mode for the
// revalidation sweep, least-recently-checked first.
func (s *Store) CustomDomainSettings(limit int) ([]model.Settings, error) {
	var rows []model.Settings
	err := s.db.Where("domain_type = ?", model.DomainTypeCustom).
		Order("last_checked_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
