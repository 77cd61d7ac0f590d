package models

import "time"

// Bank is a reference table for payment banks. Code is the natural key
// that account numbers reference.
type Bank struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;size:3" json:"code" binding:"required"`
	Name      string    `gorm:"uniqueIndex;not null;size:100" json:"name" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Bank model
func (Bank) TableName() string {
	return "banks"
}

// AccountNumber is a bank account owned by the business, referencing its
// bank by code rather than by surrogate id.
type AccountNumber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BankCode  string    `gorm:"not null;size:3;index" json:"bank_code" binding:"required"`
	Number    string    `gorm:"uniqueIndex;not null;size:30" json:"number" binding:"required"`
	OwnerName string    `gorm:"not null;size:100" json:"owner_name" binding:"required"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for AccountNumber model
func (AccountNumber) TableName() string {
	return "account_numbers"
}
