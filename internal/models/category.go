package models

// Category maps an asset-type code to a display name and chart color.
// One category per code; five defaults are seeded on first run.
type Category struct {
	Base
	Tipo   string `gorm:"not null;uniqueIndex" json:"tipo"`
	Nombre string `gorm:"not null" json:"nombre"`
	Color  string `gorm:"not null" json:"color"`
}
