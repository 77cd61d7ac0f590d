package models

import "time"

// UserPermission grants a role its access flags on one module. The
// (role, module) pair is unique.
type UserPermission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Role      string    `gorm:"not null;size:20;index:idx_role_module,unique" json:"role" binding:"required"`
	Module    string    `gorm:"not null;size:50;index:idx_role_module,unique" json:"module" binding:"required"`
	CanView   bool      `gorm:"default:false" json:"can_view"`
	CanCreate bool      `gorm:"default:false" json:"can_create"`
	CanUpdate bool      `gorm:"default:false" json:"can_update"`
	CanDelete bool      `gorm:"default:false" json:"can_delete"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for UserPermission model
func (UserPermission) TableName() string {
	return "user_permissions"
}
