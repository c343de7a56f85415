package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"patrimonio/internal/database"
	"patrimonio/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestStock creates a stock with a unique symbol and no notes.
func CreateTestStock(t *testing.T, m *database.Manager) *models.Stock {
	t.Helper()
	return CreateTestStockWithSymbol(t, m, fmt.Sprintf("TST%d", nextID()))
}

// CreateTestStockWithSymbol creates a stock with the given symbol.
func CreateTestStockWithSymbol(t *testing.T, m *database.Manager, symbol string) *models.Stock {
	t.Helper()

	stock := &models.Stock{
		Symbol:   symbol,
		Name:     fmt.Sprintf("Test Stock %s", symbol),
		Exchange: "NASDAQ",
	}
	if err := m.DB().Create(stock).Error; err != nil {
		t.Fatalf("failed to create test stock: %v", err)
	}
	return stock
}

// CreateTestMovement creates a movement of the given type for a stock.
func CreateTestMovement(t *testing.T, m *database.Manager, stockID uint, movementType models.MovementType, quantity, price float64) *models.Movement {
	t.Helper()

	movement := &models.Movement{
		StockID:  stockID,
		Type:     movementType,
		Quantity: quantity,
		Price:    price,
		Date:     "2025-06-15",
	}
	if err := m.DB().Create(movement).Error; err != nil {
		t.Fatalf("failed to create test movement: %v", err)
	}
	return movement
}

// CreateTestAsset creates an asset with a unique concepto.
func CreateTestAsset(t *testing.T, m *database.Manager, tipo models.AssetTipo) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Concepto:      fmt.Sprintf("Test Asset %d", nextID()),
		Cantidad:      1,
		Valor:         1000,
		ValorUnitario: 1000,
		Tipo:          tipo,
	}
	if err := m.DB().Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestCategory creates a category with a unique tipo code.
func CreateTestCategory(t *testing.T, m *database.Manager) *models.Category {
	t.Helper()

	n := nextID()
	category := &models.Category{
		Tipo:   fmt.Sprintf("TIPO%d", n),
		Nombre: fmt.Sprintf("Test Category %d", n),
		Color:  "#3498DB",
	}
	if err := m.DB().Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestSnapshot creates a net-worth snapshot for a unique month.
func CreateTestSnapshot(t *testing.T, m *database.Manager, year, month int, patrimonio float64) *models.NetWorthSnapshot {
	t.Helper()

	snapshot := &models.NetWorthSnapshot{
		Year:       year,
		Month:      month,
		Day:        1,
		Patrimonio: patrimonio,
	}
	if err := m.DB().Create(snapshot).Error; err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
	return snapshot
}

// CreateTestRentalIncome creates one month of rental income.
func CreateTestRentalIncome(t *testing.T, m *database.Manager, year, month int) *models.RentalIncome {
	t.Helper()

	income := &models.RentalIncome{
		Year:              year,
		Month:             month,
		PrecioAlquilerARS: 500000,
		ValorUSD:          400,
		GananciaUSD:       350,
	}
	if err := m.DB().Create(income).Error; err != nil {
		t.Fatalf("failed to create test rental income: %v", err)
	}
	return income
}

// CreateTestUser creates a user with a hashed password and unique username.
// The plaintext password is always "password123".
func CreateTestUser(t *testing.T, m *database.Manager) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:     fmt.Sprintf("user%d", nextID()),
		PasswordHash: string(hash),
	}
	if err := m.DB().Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}
