package database

import (
	"os"
	"path/filepath"
	"testing"

	"patrimonio/internal/logger"
	"patrimonio/internal/models"
)

func TestMain(m *testing.M) {
	logger.Init("test")
	os.Exit(m.Run())
}

func openTestManager(t *testing.T) *Manager {
	t.Helper()

	manager, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestOpen(t *testing.T) {
	t.Run("creates directory and key file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "data")
		dbPath := filepath.Join(dir, "test.db")

		manager, err := Open(dbPath)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer manager.Close()

		if _, err := os.Stat(filepath.Join(dir, ".encryption_key")); err != nil {
			t.Errorf("expected key file beside database: %v", err)
		}
		if manager.Path() != dbPath {
			t.Errorf("expected path %q, got %q", dbPath, manager.Path())
		}
	})

	t.Run("enforces foreign keys", func(t *testing.T) {
		manager := openTestManager(t)
		if err := manager.Migrate(); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}

		movement := &models.Movement{StockID: 9999, Type: models.MovementBuy, Quantity: 1, Price: 1, Date: "2025-01-01"}
		if err := manager.DB().Create(movement).Error; err == nil {
			t.Error("expected foreign key violation for movement with missing stock")
		}
	})
}

func TestMigrate(t *testing.T) {
	t.Run("seeds default categories", func(t *testing.T) {
		manager := openTestManager(t)
		if err := manager.Migrate(); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}

		var categories []models.Category
		if err := manager.DB().Order("tipo ASC").Find(&categories).Error; err != nil {
			t.Fatalf("failed to list categories: %v", err)
		}
		if len(categories) != 5 {
			t.Fatalf("expected 5 seeded categories, got %d", len(categories))
		}

		want := map[string]string{
			"ACCION":   "#808080",
			"CRIPTO":   "#ff9500",
			"DEPOSITO": "#007aff",
			"ETF":      "#5ac8fa",
			"FIAT":     "#34c759",
		}
		for _, category := range categories {
			if want[category.Tipo] != category.Color {
				t.Errorf("category %s: expected color %s, got %s", category.Tipo, want[category.Tipo], category.Color)
			}
		}
	})

	t.Run("seeds sample snapshots and property config", func(t *testing.T) {
		manager := openTestManager(t)
		if err := manager.Migrate(); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}

		var snapshotCount int64
		if err := manager.DB().Model(&models.NetWorthSnapshot{}).Count(&snapshotCount).Error; err != nil {
			t.Fatalf("failed to count snapshots: %v", err)
		}
		if snapshotCount != 7 {
			t.Errorf("expected 7 seeded snapshots, got %d", snapshotCount)
		}

		var config models.PropertyConfig
		if err := manager.DB().First(&config, 1).Error; err != nil {
			t.Fatalf("expected property config singleton: %v", err)
		}
		if config.InitialInvestment != 0 {
			t.Errorf("expected zero initial investment, got %f", config.InitialInvestment)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		manager := openTestManager(t)
		if err := manager.Migrate(); err != nil {
			t.Fatalf("first migrate failed: %v", err)
		}
		if err := manager.Migrate(); err != nil {
			t.Fatalf("second migrate failed: %v", err)
		}

		var categoryCount int64
		manager.DB().Model(&models.Category{}).Count(&categoryCount)
		if categoryCount != 5 {
			t.Errorf("expected 5 categories after rerun, got %d", categoryCount)
		}

		var snapshotCount int64
		manager.DB().Model(&models.NetWorthSnapshot{}).Count(&snapshotCount)
		if snapshotCount != 7 {
			t.Errorf("expected 7 snapshots after rerun, got %d", snapshotCount)
		}
	})

	t.Run("reseeds missing categories only", func(t *testing.T) {
		manager := openTestManager(t)
		if err := manager.Migrate(); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}

		if err := manager.DB().Where("tipo = ?", "ETF").Delete(&models.Category{}).Error; err != nil {
			t.Fatalf("failed to delete category: %v", err)
		}
		if err := manager.Migrate(); err != nil {
			t.Fatalf("remigrate failed: %v", err)
		}

		var count int64
		manager.DB().Model(&models.Category{}).Count(&count)
		if count != 5 {
			t.Errorf("expected ETF to be reseeded, got %d categories", count)
		}
	})

	t.Run("backfills blank asset tipo", func(t *testing.T) {
		manager := openTestManager(t)
		if err := manager.Migrate(); err != nil {
			t.Fatalf("failed to migrate: %v", err)
		}

		err := manager.DB().Exec(
			"INSERT INTO assets (concepto, cantidad, valor, valor_unitario, tipo) VALUES ('Legacy', 1, 100, 100, '')",
		).Error
		if err != nil {
			t.Fatalf("failed to insert legacy asset: %v", err)
		}

		if err := manager.Migrate(); err != nil {
			t.Fatalf("remigrate failed: %v", err)
		}

		var asset models.Asset
		if err := manager.DB().Where("concepto = ?", "Legacy").First(&asset).Error; err != nil {
			t.Fatalf("failed to load legacy asset: %v", err)
		}
		if asset.Tipo != models.TipoAccion {
			t.Errorf("expected backfilled tipo ACCION, got %q", asset.Tipo)
		}
	})
}
