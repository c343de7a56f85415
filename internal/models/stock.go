package models

import "time"

// Stock represents a tracked instrument with a movement history. Notes are
// persisted only in encrypted form; the Notes field is transient and filled
// in by the stock service on read.
type Stock struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Symbol         string     `gorm:"not null;uniqueIndex" json:"symbol"`
	Name           string     `gorm:"not null" json:"name"`
	Exchange       string     `json:"exchange,omitempty"`
	NotesEncrypted string     `gorm:"column:notes_encrypted" json:"-"`
	Notes          string     `gorm:"-" json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
	Movements      []Movement `gorm:"foreignKey:StockID;constraint:OnDelete:CASCADE" json:"movements,omitempty"`
}
