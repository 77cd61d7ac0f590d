package models

import "time"

// Branch price types form a closed set.
const (
	PriceTypeRetail    = "retail"
	PriceTypeWholesale = "wholesale"
)

// IsValidPriceType reports whether priceType is a known price type.
func IsValidPriceType(priceType string) bool {
	return priceType == PriceTypeRetail || priceType == PriceTypeWholesale
}

// Branch represents a store/warehouse branch with its pricing scheme and
// asset depreciation schedule.
type Branch struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Code               string    `gorm:"uniqueIndex;not null;size:3" json:"code" binding:"required"`
	Name               string    `gorm:"uniqueIndex;not null;size:100" json:"name" binding:"required"`
	Address            string    `gorm:"type:text" json:"address,omitempty"`
	PriceType          string    `gorm:"not null;size:20;index" json:"price_type" binding:"required,oneof=retail wholesale"`
	DepreciationMonths int       `gorm:"default:0" json:"depreciation_months"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for Branch model
func (Branch) TableName() string {
	return "branches"
}
