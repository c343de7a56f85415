package services

import (
	"testing"

	"patrimonio/internal/models"
	"patrimonio/internal/testutil"
)

func TestExport(t *testing.T) {
	manager := testutil.SetupTestManager(t)
	stockService := NewStockService(manager)
	service := NewTransferService(manager)

	stock, err := stockService.CreateStock("TSLA", "Tesla", "NASDAQ", "nota privada")
	testutil.AssertNoError(t, err)
	_, err = stockService.CreateMovement(stock.ID, models.MovementBuy, 4, 250, "2025-02-10", 1, "compra inicial")
	testutil.AssertNoError(t, err)
	testutil.CreateTestAsset(t, manager, models.TipoCripto)
	testutil.CreateTestRentalIncome(t, manager, 2025, 1)

	rentalService := NewRentalService(manager)
	_, err = rentalService.SetInitialInvestment(85000)
	testutil.AssertNoError(t, err)

	snapshot, err := service.Export()
	testutil.AssertNoError(t, err)

	t.Run("notes travel in plaintext", func(t *testing.T) {
		if len(snapshot.Stocks) != 1 {
			t.Fatalf("expected 1 stock, got %d", len(snapshot.Stocks))
		}
		if snapshot.Stocks[0].Notes != "nota privada" {
			t.Errorf("expected decrypted stock notes, got %q", snapshot.Stocks[0].Notes)
		}
		if len(snapshot.Movements) != 1 {
			t.Fatalf("expected 1 movement, got %d", len(snapshot.Movements))
		}
		if snapshot.Movements[0].Notes != "compra inicial" {
			t.Errorf("expected decrypted movement notes, got %q", snapshot.Movements[0].Notes)
		}
	})

	t.Run("movements carry the exporting stock id", func(t *testing.T) {
		if snapshot.Movements[0].StockID != snapshot.Stocks[0].ID {
			t.Errorf("expected movement stock_id %d, got %d", snapshot.Stocks[0].ID, snapshot.Movements[0].StockID)
		}
	})

	t.Run("all collections present", func(t *testing.T) {
		if len(snapshot.Assets) != 1 {
			t.Errorf("expected 1 asset, got %d", len(snapshot.Assets))
		}
		if len(snapshot.Categories) != 5 {
			t.Errorf("expected 5 seeded categories, got %d", len(snapshot.Categories))
		}
		if len(snapshot.PatrimonialEvolution) != 7 {
			t.Errorf("expected 7 seeded snapshots, got %d", len(snapshot.PatrimonialEvolution))
		}
		if len(snapshot.RentalIncomes) != 1 {
			t.Errorf("expected 1 rental income, got %d", len(snapshot.RentalIncomes))
		}
		if snapshot.PropertyConfig == nil || snapshot.PropertyConfig.InitialInvestment != 85000 {
			t.Errorf("expected property config with 85000, got %+v", snapshot.PropertyConfig)
		}
		if snapshot.ExportDate == "" {
			t.Error("expected an export timestamp")
		}
	})
}

func TestImport(t *testing.T) {
	t.Run("remaps movements to reinserted stocks", func(t *testing.T) {
		manager := testutil.SetupTestManager(t)
		service := NewTransferService(manager)

		testutil.CreateTestStock(t, manager)
		testutil.CreateTestStock(t, manager)

		// The exported ids come from another installation and will not
		// match the ids assigned on reinsertion.
		err := service.Import(&Snapshot{
			Stocks: []ExportedStock{
				{ID: 37, Symbol: "TSLA", Name: "Tesla", Notes: "reimportada"},
			},
			Movements: []ExportedMovement{
				{StockID: 37, Type: "buy", Quantity: 4, Price: 250, Date: "2025-02-10"},
			},
		})
		testutil.AssertNoError(t, err)

		var stocks []models.Stock
		testutil.AssertNoError(t, manager.DB().Find(&stocks).Error)
		if len(stocks) != 1 {
			t.Fatalf("expected exactly the imported stock, got %d", len(stocks))
		}

		var movements []models.Movement
		testutil.AssertNoError(t, manager.DB().Find(&movements).Error)
		if len(movements) != 1 {
			t.Fatalf("expected exactly one movement, got %d", len(movements))
		}
		if movements[0].StockID != stocks[0].ID {
			t.Errorf("expected movement remapped to new stock id %d, got %d", stocks[0].ID, movements[0].StockID)
		}

		// Imported notes are re-encrypted under the local key.
		plaintext, err := manager.Keys().Decrypt(stocks[0].NotesEncrypted)
		testutil.AssertNoError(t, err)
		if plaintext != "reimportada" {
			t.Errorf("expected re-encrypted notes, got %q", plaintext)
		}
	})

	t.Run("drops movements with unresolved stock references", func(t *testing.T) {
		manager := testutil.SetupTestManager(t)
		service := NewTransferService(manager)

		err := service.Import(&Snapshot{
			Stocks: []ExportedStock{{ID: 1, Symbol: "AAPL", Name: "Apple"}},
			Movements: []ExportedMovement{
				{StockID: 1, Type: "buy", Quantity: 1, Price: 100, Date: "2025-01-01"},
				{StockID: 42, Type: "sell", Quantity: 1, Price: 100, Date: "2025-01-02"},
			},
		})
		testutil.AssertNoError(t, err)

		var count int64
		testutil.AssertNoError(t, manager.DB().Model(&models.Movement{}).Count(&count).Error)
		if count != 1 {
			t.Errorf("expected unresolved movement to be dropped, got %d movements", count)
		}
	})

	t.Run("unknown movement type aborts", func(t *testing.T) {
		manager := testutil.SetupTestManager(t)
		service := NewTransferService(manager)

		err := service.Import(&Snapshot{
			Stocks: []ExportedStock{{ID: 1, Symbol: "AAPL", Name: "Apple"}},
			Movements: []ExportedMovement{
				{StockID: 1, Type: "short", Quantity: 1, Price: 100, Date: "2025-01-01"},
			},
		})
		testutil.AssertAppError(t, err, "IMPORT_FAILED")
	})

	t.Run("atomic rollback on failure", func(t *testing.T) {
		manager := testutil.SetupTestManager(t)
		service := NewTransferService(manager)

		existing := testutil.CreateTestStockWithSymbol(t, manager, "KEEP")

		// Duplicate snapshot dates violate the unique index midway through
		// the import, after stocks were already replaced inside the
		// transaction.
		err := service.Import(&Snapshot{
			Stocks: []ExportedStock{{ID: 1, Symbol: "NEW", Name: "New"}},
			PatrimonialEvolution: []ExportedNetWorthPoint{
				{Year: 2024, Month: 1, Day: 1, Patrimonio: 1},
				{Year: 2024, Month: 1, Day: 1, Patrimonio: 2},
			},
		})
		testutil.AssertAppError(t, err, "IMPORT_FAILED")

		var stock models.Stock
		testutil.AssertNoError(t, manager.DB().Where("symbol = ?", "KEEP").First(&stock).Error)
		if stock.ID != existing.ID {
			t.Error("expected pre-import stock to survive the rollback")
		}

		var newCount int64
		testutil.AssertNoError(t, manager.DB().Model(&models.Stock{}).Where("symbol = ?", "NEW").Count(&newCount).Error)
		if newCount != 0 {
			t.Error("expected imported stock to be rolled back")
		}
	})

	t.Run("absent collections stay untouched", func(t *testing.T) {
		manager := testutil.SetupTestManager(t)
		service := NewTransferService(manager)

		testutil.CreateTestStockWithSymbol(t, manager, "KEEP")

		err := service.Import(&Snapshot{
			Assets: []ExportedAsset{
				{Concepto: "Bitcoin (BTC)", Cantidad: 0.1, Valor: 6000, ValorUnitario: 60000, Tipo: "CRIPTO"},
			},
		})
		testutil.AssertNoError(t, err)

		var stockCount int64
		testutil.AssertNoError(t, manager.DB().Model(&models.Stock{}).Count(&stockCount).Error)
		if stockCount != 1 {
			t.Errorf("expected stocks untouched, got %d", stockCount)
		}

		var assetCount int64
		testutil.AssertNoError(t, manager.DB().Model(&models.Asset{}).Count(&assetCount).Error)
		if assetCount != 1 {
			t.Errorf("expected 1 imported asset, got %d", assetCount)
		}
	})

	t.Run("replaces categories and property config", func(t *testing.T) {
		manager := testutil.SetupTestManager(t)
		service := NewTransferService(manager)

		err := service.Import(&Snapshot{
			Categories: []ExportedCategory{
				{Tipo: "BONOS", Nombre: "Bonos", Color: "#112233"},
			},
			PropertyConfig: &ExportedPropertyConfig{InitialInvestment: 70000},
		})
		testutil.AssertNoError(t, err)

		var categories []models.Category
		testutil.AssertNoError(t, manager.DB().Find(&categories).Error)
		if len(categories) != 1 || categories[0].Tipo != "BONOS" {
			t.Errorf("expected categories replaced, got %+v", categories)
		}

		var config models.PropertyConfig
		testutil.AssertNoError(t, manager.DB().First(&config, 1).Error)
		if config.InitialInvestment != 70000 {
			t.Errorf("expected initial investment 70000, got %f", config.InitialInvestment)
		}
	})

	t.Run("nil snapshot rejected", func(t *testing.T) {
		manager := testutil.SetupTestManager(t)
		service := NewTransferService(manager)
		err := service.Import(nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestExportImportRoundTrip(t *testing.T) {
	source := testutil.SetupTestManager(t)
	sourceStocks := NewStockService(source)

	stock, err := sourceStocks.CreateStock("NVDA", "Nvidia", "NASDAQ", "ai boom")
	testutil.AssertNoError(t, err)
	_, err = sourceStocks.CreateMovement(stock.ID, models.MovementBuy, 10, 500, "2025-01-20", 2, "")
	testutil.AssertNoError(t, err)

	snapshot, err := NewTransferService(source).Export()
	testutil.AssertNoError(t, err)

	// Import into a second installation with its own encryption key.
	dest := testutil.SetupTestManager(t)
	err = NewTransferService(dest).Import(snapshot)
	testutil.AssertNoError(t, err)

	destStocks := NewStockService(dest)
	stocks, err := destStocks.ListStocks()
	testutil.AssertNoError(t, err)
	if len(stocks) != 1 || stocks[0].Symbol != "NVDA" {
		t.Fatalf("expected imported NVDA stock, got %+v", stocks)
	}
	if stocks[0].Notes != "ai boom" {
		t.Errorf("expected notes readable under the destination key, got %q", stocks[0].Notes)
	}

	movements, err := destStocks.GetMovementsByStockID(stocks[0].ID)
	testutil.AssertNoError(t, err)
	if len(movements) != 1 || movements[0].Quantity != 10 {
		t.Errorf("expected imported movement, got %+v", movements)
	}
}
