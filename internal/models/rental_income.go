package models

// RentalIncome records one month of rent for the property investment:
// local-currency rent, the exchange rate used, and the computed profit in
// the reference currency. Conventionally one row per (año, mes) but no
// uniqueness is enforced.
type RentalIncome struct {
	Base
	Year              int     `gorm:"column:año;not null" json:"año"`
	Month             int     `gorm:"column:mes;not null" json:"mes"`
	PrecioAlquilerARS float64 `gorm:"column:precio_alquiler_ars;not null" json:"precio_alquiler_ars"`
	ValorUSD          float64 `gorm:"column:valor_usd;not null" json:"valor_usd"`
	GananciaUSD       float64 `gorm:"column:ganancia_usd;not null" json:"ganancia_usd"`
}
