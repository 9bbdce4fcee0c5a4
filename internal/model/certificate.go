package model

import "time"

// CertificateRequestStatus represents the state of an issuance request
type CertificateRequestStatus string

const (
	CertRequestStatusPending CertificateRequestStatus = "pending"
	CertRequestStatusRunning CertificateRequestStatus = "running"
	CertRequestStatusIssued  CertificateRequestStatus = "issued"
	CertRequestStatusError   CertificateRequestStatus = "error"
)

// CertificateRequest queues TLS issuance for a verified custom domain
type CertificateRequest struct {
	BaseModel
	TenantID  int                      `gorm:"index;not null" json:"tenant_id"`
	Domain    string                   `gorm:"type:varchar(255);index;not null" json:"domain"`
	Status    CertificateRequestStatus `gorm:"type:enum('pending','running','issued','error');default:'pending'" json:"status"`
	Attempts  int                      `gorm:"default:0" json:"attempts"`
	LastError string                   `gorm:"type:varchar(1024)" json:"last_error"`
}

// TableName specifies the table name for CertificateRequest model
func (CertificateRequest) TableName() string {
	return "certificate_requests"
}

// Certificate holds issued TLS material for a custom domain
type Certificate struct {
	BaseModel
	Domain   string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"domain"`
	CertPem  string    `gorm:"type:mediumtext" json:"-"`
	KeyPem   string    `gorm:"type:mediumtext" json:"-"`
	ChainPem string    `gorm:"type:mediumtext" json:"-"`
	Issuer   string    `gorm:"type:varchar(255)" json:"issuer"`
	NotAfter time.Time `json:"not_after"`
}

// TableName specifies the table name for Certificate model
func (Certificate) TableName() string {
	return "certificates"
}

// AcmeAccount stores the registered ACME account used for issuance.
// Single row in practice.
type AcmeAccount struct {
	BaseModel
	Email           string `gorm:"type:varchar(255);not null" json:"email"`
	AccountKeyPem   string `gorm:"type:text" json:"-"`
	RegistrationURI string `gorm:"type:varchar(512)" json:"registration_uri"`
}

// TableName specifies the table name for AcmeAccount model
func (AcmeAccount) TableName() string {
	return "acme_accounts"
}
