package model

// Tenant represents a single store/site instance on the platform.
// Domain is the current effective routing key (a path, subdomain, or
// custom domain string); it is mutated only by the settings transition
// logic, never written directly by handlers.
type Tenant struct {
	BaseModel
	StoreName       string `gorm:"type:varchar(255);not null" json:"store_name"`
	TemplateID      int    `gorm:"default:1" json:"template_id"`
	Slug            string `gorm:"type:varchar(128);uniqueIndex;not null" json:"slug"`
	Domain          string `gorm:"type:varchar(255);index" json:"domain"`
	SiteTitle       string `gorm:"type:varchar(255)" json:"site_title"`
	SiteDescription string `gorm:"type:varchar(1024)" json:"site_description"`
	IsLive          bool   `gorm:"default:0" json:"is_live"`
	UserID          *int   `gorm:"index;default:null" json:"user_id"` // nullable during provisioning

	Settings *Settings `gorm:"foreignKey:TenantID" json:"settings,omitempty"`
}

// TableName specifies the table name for Tenant model
func (Tenant) TableName() string {
	return "tenants"
}
