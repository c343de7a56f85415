package models

// NetWorthSnapshot is one point of the monthly net-worth series. The
// (año, mes, dia) tuple is unique. Table and column names match the
// original database files so old backups restore cleanly.
type NetWorthSnapshot struct {
	Base
	Year       int     `gorm:"column:año;not null;uniqueIndex:uq_patrimonial_fecha" json:"año"`
	Month      int     `gorm:"column:mes;not null;uniqueIndex:uq_patrimonial_fecha" json:"mes"`
	Day        int     `gorm:"column:dia;not null;default:1;uniqueIndex:uq_patrimonial_fecha" json:"dia"`
	Patrimonio float64 `gorm:"not null" json:"patrimonio"`
	Detalle    string  `json:"detalle,omitempty"`
}

// TableName keeps the original table name.
func (NetWorthSnapshot) TableName() string { return "patrimonial_evolution" }
