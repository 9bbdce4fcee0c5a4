package model

import "time"

// WebhookDelivery records one outbound webhook attempt for a domain
// status change. Best-effort audit trail; failures are recorded here
// and never retried by the core.
type WebhookDelivery struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	TenantID     int       `gorm:"index;not null" json:"tenant_id"`
	Domain       string    `gorm:"type:varchar(255)" json:"domain"`
	Status       DNSStatus `gorm:"type:varchar(32)" json:"status"`
	Endpoint     string    `gorm:"type:varchar(512)" json:"endpoint"`
	ResponseCode int       `gorm:"default:0" json:"response_code"`
	Error        string    `gorm:"type:varchar(1024)" json:"error"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for WebhookDelivery model
func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}
