package models

import "time"

// PropertyConfig is a singleton row holding the property's initial
// investment. The check constraint ties the primary key to the literal 1 so
// the table can never hold a second row.
type PropertyConfig struct {
	ID                uint      `gorm:"primaryKey;check:id = 1" json:"id"`
	InitialInvestment float64   `gorm:"not null;default:0" json:"initial_investment"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName keeps the singular table name.
func (PropertyConfig) TableName() string { return "property_config" }
