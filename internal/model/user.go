package model

// User roles
const (
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)

// User represents an account that can log into the console
type User struct {
	BaseModel
	Name         string `gorm:"type:varchar(128);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	TenantID     *int   `gorm:"index;default:null" json:"tenant_id"` // nil for platform admins
	Role         string `gorm:"type:varchar(32);default:'tenant'" json:"role"`

	SubscriptionPlan   string `gorm:"type:varchar(32);default:'yearly'" json:"subscription_plan"`
	SubscriptionStatus int    `gorm:"default:1" json:"subscription_status"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}
