package models

import "time"

// MovementType represents the direction of a trade.
type MovementType string

const (
	MovementBuy  MovementType = "buy"
	MovementSell MovementType = "sell"
)

// Valid reports whether t is a known movement type.
func (t MovementType) Valid() bool {
	return t == MovementBuy || t == MovementSell
}

// Movement is a single buy or sell of a stock. Movements are immutable once
// created except for deletion; they never outlive their stock (cascade).
type Movement struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	StockID        uint         `gorm:"not null;index" json:"stock_id"`
	Type           MovementType `gorm:"not null" json:"type"`
	Quantity       float64      `gorm:"not null" json:"quantity"`
	Price          float64      `gorm:"not null" json:"price"`
	Date           string       `gorm:"not null;index" json:"date"`
	Fees           float64      `gorm:"default:0" json:"fees"`
	NotesEncrypted string       `gorm:"column:notes_encrypted" json:"-"`
	Notes          string       `gorm:"-" json:"notes"`
	CreatedAt      time.Time    `json:"created_at"`
}
