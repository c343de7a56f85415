package services

import (
	"context"

	"patrimonio/internal/models"
)

// StockSummary is the read-time position derivation for one stock. It is
// never stored.
type StockSummary struct {
	TotalQuantity float64 `json:"total_quantity"`
	AveragePrice  float64 `json:"average_price"`
	TotalInvested float64 `json:"total_invested"`
}

// StockUpdate holds the optional fields of a partial stock update. A nil
// field is left untouched.
type StockUpdate struct {
	Symbol   *string
	Name     *string
	Exchange *string
	Notes    *string
}

// StockServicer defines the contract for stock and movement persistence.
type StockServicer interface {
	ListStocks() ([]models.Stock, error)
	GetStockByID(id uint) (*models.Stock, error)
	CreateStock(symbol, name, exchange, notes string) (*models.Stock, error)
	UpdateStock(id uint, updates StockUpdate) (bool, error)
	DeleteStock(id uint) (bool, error)

	CreateMovement(stockID uint, movementType models.MovementType, quantity, price float64, date string, fees float64, notes string) (*models.Movement, error)
	GetMovementsByStockID(stockID uint) ([]models.Movement, error)
	DeleteMovement(id uint) (bool, error)

	GetStockSummary(stockID uint) (*StockSummary, error)
}

// AssetUpdate holds the optional fields of a partial asset update.
type AssetUpdate struct {
	Concepto      *string
	Cantidad      *float64
	Valor         *float64
	ValorUnitario *float64
	Tipo          *models.AssetTipo
}

// PriceSource is the external price oracle consulted by RefreshUnitPrice.
type PriceSource interface {
	Price(ctx context.Context, symbol string) (float64, error)
}

// AssetServicer defines the contract for the simple holdings model.
type AssetServicer interface {
	ListAssets() ([]models.Asset, error)
	GetAssetByID(id uint) (*models.Asset, error)
	CreateAsset(concepto string, cantidad, valor, valorUnitario float64, tipo models.AssetTipo) (*models.Asset, error)
	UpdateAsset(id uint, updates AssetUpdate) (bool, error)
	DeleteAsset(id uint) (bool, error)
	RefreshUnitPrice(ctx context.Context, id uint) (*models.Asset, error)
}

// CategoryServicer defines the contract for asset-type categories.
type CategoryServicer interface {
	ListCategories() ([]models.Category, error)
	GetCategoryByTipo(tipo string) (*models.Category, error)
	CreateCategory(tipo, nombre, color string) (*models.Category, error)
	UpdateCategory(id uint, nombre, color *string) (bool, error)
	DeleteCategory(id uint) (bool, error)
	CountAssetsUsing(tipo string) (int64, error)
}

// SnapshotUpdate holds the optional fields of a partial snapshot update.
type SnapshotUpdate struct {
	Year       *int
	Month      *int
	Day        *int
	Patrimonio *float64
	Detalle    *string
}

// NetWorthServicer defines the contract for the net-worth snapshot series.
type NetWorthServicer interface {
	ListSnapshots() ([]models.NetWorthSnapshot, error)
	GetSnapshotByID(id uint) (*models.NetWorthSnapshot, error)
	CreateSnapshot(year, month, day int, patrimonio float64, detalle string) (*models.NetWorthSnapshot, error)
	UpdateSnapshot(id uint, updates SnapshotUpdate) (bool, error)
	DeleteSnapshot(id uint) (bool, error)
}

// RentalIncomeUpdate holds the optional fields of a partial rental-income update.
type RentalIncomeUpdate struct {
	Year              *int
	Month             *int
	PrecioAlquilerARS *float64
	ValorUSD          *float64
	GananciaUSD       *float64
}

// RentalServicer defines the contract for rental incomes and the property
// config singleton.
type RentalServicer interface {
	ListRentalIncomes() ([]models.RentalIncome, error)
	GetRentalIncomeByID(id uint) (*models.RentalIncome, error)
	CreateRentalIncome(year, month int, precioAlquilerARS, valorUSD, gananciaUSD float64) (*models.RentalIncome, error)
	UpdateRentalIncome(id uint, updates RentalIncomeUpdate) (bool, error)
	DeleteRentalIncome(id uint) (bool, error)

	GetPropertyConfig() (*models.PropertyConfig, error)
	SetInitialInvestment(amount float64) (*models.PropertyConfig, error)
}

// UserServicer defines the credential-store contract.
type UserServicer interface {
	HasAnyUser() (bool, error)
	CreateUser(username, password string) (*models.User, error)
	SetupInitialUser(username, password string) (*models.User, error)
	AttemptLogin(username, password string) (*models.User, error)
	ChangePassword(username, oldPassword, newPassword string) error
}

// TransferServicer defines the whole-dataset export/import contract.
type TransferServicer interface {
	Export() (*Snapshot, error)
	Import(snapshot *Snapshot) error
}
