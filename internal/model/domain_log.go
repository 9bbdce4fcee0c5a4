package model

import "time"

// DomainLog is an append-only audit entry, one row per verification
// attempt that changed a tenant's dns_status. Rows are never updated
// or deleted.
type DomainLog struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	TenantID  int       `gorm:"index;not null" json:"tenant_id"`
	Domain    string    `gorm:"type:varchar(255);not null" json:"domain"`
	Status    DNSStatus `gorm:"type:varchar(32);not null" json:"status"`
	Message   string    `gorm:"type:varchar(1024)" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for DomainLog model
func (DomainLog) TableName() string {
	return "domain_logs"
}
