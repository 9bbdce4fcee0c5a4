package tlscert

import (
	"errors"
	"fmt"
	"time"

	"go_sitebuilder/internal/model"

	"gorm.io/gorm"
)

// renewBefore is how close to expiry an existing certificate may get
// before a new request for its domain is accepted again.
const renewBefore = 30 * 24 * time.Hour

// Service manages certificate requests and issued certificates
type Service struct {
	db *gorm.DB
}

// NewService creates a certificate service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Enqueue queues issuance for a verified custom domain. Requests are
// deduplicated: an open request or a sufficiently fresh certificate for
// the same domain makes this a no-op.
func (s *Service) Enqueue(tenantID int, domain string) error {
	var open int64
	err := s.db.Model(&model.CertificateRequest{}).
		Where("domain = ? AND status IN ?", domain,
			[]model.CertificateRequestStatus{model.CertRequestStatusPending, model.CertRequestStatusRunning}).
		Count(&open).Error
	if err != nil {
		return fmt.Errorf("failed to check open requests: %w", err)
	}
	if open > 0 {
		return nil
	}

	var cert model.Certificate
	err = s.db.Where("domain = ?", domain).First(&cert).Error
	if err == nil && time.Until(cert.NotAfter) > renewBefore {
		return nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing certificate: %w", err)
	}

	request := model.CertificateRequest{
		TenantID: tenantID,
		Domain:   domain,
		Status:   model.CertRequestStatusPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return fmt.Errorf("failed to create certificate request: %w", err)
	}
	return nil
}

// PendingRequests returns queued requests up to limit, oldest first
func (s *Service) PendingRequests(limit int) ([]model.CertificateRequest, error) {
	var requests []model.CertificateRequest
	err := s.db.Where("status = ?", model.CertRequestStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

// MarkAsRunning claims a pending request. Fails when another worker
// instance already claimed it.
func (s *Service) MarkAsRunning(requestID int) error {
	result := s.db.Model(&model.CertificateRequest{}).
		Where("id = ? AND status = ?", requestID, model.CertRequestStatusPending).
		Updates(map[string]interface{}{
			"status":   model.CertRequestStatusRunning,
			"attempts": gorm.Expr("attempts + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("request %d is not pending", requestID)
	}
	return nil
}

// MarkAsFailed records a failed attempt and requeues the request so the
// next sweep retries it.
func (s *Service) MarkAsFailed(requestID int, message string) error {
	if len(message) > 1024 {
		message = message[:1024]
	}
	return s.db.Model(&model.CertificateRequest{}).
		Where("id = ?", requestID).
		Updates(map[string]interface{}{
			"status":     model.CertRequestStatusPending,
			"last_error": message,
		}).Error
}

// MarkAsIssued completes a request
func (s *Service) MarkAsIssued(requestID int) error {
	return s.db.Model(&model.CertificateRequest{}).
		Where("id = ?", requestID).
		Updates(map[string]interface{}{
			"status":     model.CertRequestStatusIssued,
			"last_error": "",
		}).Error
}

// SaveCertificate upserts the issued material for a domain
func (s *Service) SaveCertificate(domain string, result *IssueResult) error {
	var existing model.Certificate
	err := s.db.Where("domain = ?", domain).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up certificate: %w", err)
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		cert := model.Certificate{
			Domain:   domain,
			CertPem:  result.CertPem,
			KeyPem:   result.KeyPem,
			ChainPem: result.ChainPem,
			Issuer:   result.Issuer,
			NotAfter: result.NotAfter,
		}
		return s.db.Create(&cert).Error
	}

	return s.db.Model(&existing).Updates(map[string]interface{}{
		"cert_pem":  result.CertPem,
		"key_pem":   result.KeyPem,
		"chain_pem": result.ChainPem,
		"issuer":    result.Issuer,
		"not_after": result.NotAfter,
	}).Error
}

// CertificateForDomain returns the issued certificate, or nil
func (s *Service) CertificateForDomain(domain string) (*model.Certificate, error) {
	var cert model.Certificate
	if err := s.db.Where("domain = ?", domain).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}
