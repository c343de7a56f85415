package models

import "time"

// Base contains the common columns for tables that track both timestamps.
// Surrogate keys are integer and auto-assigned; there is no soft delete,
// deletion is permanent and immediate.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
