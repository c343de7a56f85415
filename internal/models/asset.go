package models

// AssetTipo is the asset-type code. The codes double as Category.Tipo
// values; the link is a soft reference, not a foreign key.
type AssetTipo string

const (
	TipoAccion   AssetTipo = "ACCION"
	TipoETF      AssetTipo = "ETF"
	TipoCripto   AssetTipo = "CRIPTO"
	TipoFiat     AssetTipo = "FIAT"
	TipoDeposito AssetTipo = "DEPOSITO"
)

// Valid reports whether t is one of the five known asset types.
func (t AssetTipo) Valid() bool {
	switch t {
	case TipoAccion, TipoETF, TipoCripto, TipoFiat, TipoDeposito:
		return true
	}
	return false
}

// Asset is a simple holding without transaction history, parallel to the
// stock/movement model. Concepto conventionally encodes the symbol as a
// parenthetical, e.g. "Bitcoin (BTC)".
type Asset struct {
	Base
	Concepto      string    `gorm:"not null;index" json:"concepto"`
	Cantidad      float64   `gorm:"not null" json:"cantidad"`
	Valor         float64   `gorm:"not null" json:"valor"`
	ValorUnitario float64   `gorm:"column:valor_unitario;not null" json:"valor_unitario"`
	Tipo          AssetTipo `gorm:"not null;default:'ACCION'" json:"tipo"`
}
