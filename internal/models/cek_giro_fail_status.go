package models

import "time"

// CekGiroFailStatus is a reference table for cheque/giro clearing failure
// statuses.
type CekGiroFailStatus struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;size:3" json:"code" binding:"required"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for CekGiroFailStatus model
func (CekGiroFailStatus) TableName() string {
	return "cek_giro_fail_statuses"
}
