package models

import "time"

// Role values form a closed set; anything else is rejected at the HTTP
// boundary with a validation error.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleHeadOffice = "head_office"
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
	RoleFinance    = "finance"
	RoleWarehouse  = "warehouse"
	RoleCashier    = "cashier"
	RoleSales      = "sales"
	RoleStaff      = "staff"
)

// RoleLevels orders roles for hierarchy checks: an admin may only manage
// users at a strictly lower level.
var RoleLevels = map[string]int{
	RoleSuperAdmin: 100,
	RoleAdmin:      90,
	RoleHeadOffice: 80,
	RoleManager:    70,
	RoleSupervisor: 60,
	RoleFinance:    50,
	RoleWarehouse:  40,
	RoleCashier:    30,
	RoleSales:      20,
	RoleStaff:      10,
}

// IsValidRole reports whether role is one of the fixed role values.
func IsValidRole(role string) bool {
	_, ok := RoleLevels[role]
	return ok
}

// User represents the users table
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"uniqueIndex;not null;size:10" json:"code"`
	Name          string    `gorm:"not null;size:100" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null;size:100" json:"email"`
	Username      string    `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Phone         string    `gorm:"uniqueIndex;not null;size:20" json:"phone"`
	Address       string    `gorm:"type:text" json:"address,omitempty"`
	PasswordHash  string    `gorm:"not null;size:255" json:"-"`
	Role          string    `gorm:"not null;size:20;index" json:"role"`
	ExpenseLimit  float64   `gorm:"type:decimal(15,2);default:0" json:"expense_limit"`
	DiscountLimit float64   `gorm:"type:decimal(15,2);default:0" json:"discount_limit"`
	Point         float64   `gorm:"type:decimal(15,2);default:0" json:"point"`
	Balance       float64   `gorm:"type:decimal(15,2);default:0" json:"balance"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// RefreshToken represents the refresh_tokens table. Tokens are stored only
// as a SHA-256 hash; a row is usable while Revoked is false.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TokenHash string    `gorm:"not null;size:255;index" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for RefreshToken model
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
