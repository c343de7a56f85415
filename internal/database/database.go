package database

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"patrimonio/internal/logger"
	"patrimonio/internal/models"
	"patrimonio/internal/notecrypt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "patrimonio/internal/errors"
)

// allModels is the full schema, in creation order.
var allModels = []interface{}{
	&models.User{},
	&models.Stock{},
	&models.Movement{},
	&models.Asset{},
	&models.Category{},
	&models.NetWorthSnapshot{},
	&models.RentalIncome{},
	&models.PropertyConfig{},
}

// Manager owns the live SQLite handle and the note-encryption keeper. The
// handle is swappable: Backup and Restore close and reopen it under the
// manager's lock, so callers must obtain the current handle through DB()
// per operation instead of capturing it once.
type Manager struct {
	mu   sync.RWMutex
	db   *gorm.DB
	path string
	keys *notecrypt.Keeper
}

// Open creates the database directory if needed, loads or creates the
// encryption key beside the database file, and opens the SQLite handle with
// foreign keys enforced.
func Open(path string) (*Manager, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrFileSystem, err)
		}
	}

	keys, err := notecrypt.LoadOrCreate(path)
	if err != nil {
		return nil, err
	}

	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}

	return &Manager{db: db, path: path, keys: keys}, nil
}

func openSQLite(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// DB returns the current GORM handle.
func (m *Manager) DB() *gorm.DB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.db
}

// Keys returns the note-encryption keeper.
func (m *Manager) Keys() *notecrypt.Keeper { return m.keys }

// Path returns the database file path.
func (m *Manager) Path() string { return m.path }

// Close closes the underlying database connection.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeLocked()
}

func (m *Manager) closeLocked() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (m *Manager) reopenLocked() error {
	db, err := openSQLite(m.path)
	if err != nil {
		return err
	}
	m.db = db
	return nil
}

// Migrate brings the on-disk schema to the current expected shape and seeds
// reference data. Idempotent: re-running against an already-migrated
// database is a no-op. The caller decides whether a failure aborts startup.
func (m *Manager) Migrate() error {
	return migrate(m.DB())
}

func migrate(db *gorm.DB) error {
	log := logger.Get()
	log.Info("Running database migrations...")

	// Additive migration: GORM's AutoMigrate inspects existing column
	// metadata and only adds what is missing.
	if err := db.AutoMigrate(allModels...); err != nil {
		return apperrors.Wrap(apperrors.ErrMigrationFailed, err)
	}

	// Backfill legacy rows that predate the tipo column.
	if err := db.Exec("UPDATE assets SET tipo = 'ACCION' WHERE tipo IS NULL OR tipo = ''").Error; err != nil {
		return apperrors.Wrap(apperrors.ErrMigrationFailed, err)
	}

	if err := seedCategories(db); err != nil {
		return apperrors.Wrap(apperrors.ErrMigrationFailed, err)
	}
	if err := seedNetWorthSnapshots(db); err != nil {
		return apperrors.Wrap(apperrors.ErrMigrationFailed, err)
	}
	if err := ensurePropertyConfig(db); err != nil {
		return apperrors.Wrap(apperrors.ErrMigrationFailed, err)
	}

	log.Info("Database migrations completed successfully")
	return nil
}

func defaultCategories() []models.Category {
	return []models.Category{
		{Tipo: "ACCION", Nombre: "Acciones", Color: "#808080"},
		{Tipo: "ETF", Nombre: "ETFs", Color: "#5ac8fa"},
		{Tipo: "CRIPTO", Nombre: "Cripto", Color: "#ff9500"},
		{Tipo: "FIAT", Nombre: "Fiat", Color: "#34c759"},
		{Tipo: "DEPOSITO", Nombre: "Depósitos", Color: "#007aff"},
	}
}

// seedCategories inserts the five default categories. An empty table gets
// all of them in one transaction; a partially-populated table gets
// insert-or-ignore per row so reruns never raise unique-constraint errors.
func seedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}

	categories := defaultCategories()
	if count == 0 {
		return db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&categories).Error
		})
	}

	for i := range categories {
		err := db.Where(models.Category{Tipo: categories[i].Tipo}).
			FirstOrCreate(&categories[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// seedNetWorthSnapshots inserts the historical sample series, only when the
// table is empty.
func seedNetWorthSnapshots(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.NetWorthSnapshot{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []models.NetWorthSnapshot{
		{Year: 2025, Month: 6, Day: 1, Patrimonio: 83624.72},
		{Year: 2025, Month: 7, Day: 1, Patrimonio: 82835.00},
		{Year: 2025, Month: 8, Day: 1, Patrimonio: 87232.96},
		{Year: 2025, Month: 9, Day: 4, Patrimonio: 88819.24},
		{Year: 2025, Month: 10, Day: 4, Patrimonio: 93777.67},
		{Year: 2025, Month: 11, Day: 1, Patrimonio: 92930.40},
		{Year: 2025, Month: 12, Day: 1, Patrimonio: 93144.40},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&samples).Error
	})
}

// ensurePropertyConfig guarantees the singleton row with id 1 exists.
func ensurePropertyConfig(db *gorm.DB) error {
	cfg := models.PropertyConfig{ID: 1}
	return db.Where(models.PropertyConfig{ID: 1}).FirstOrCreate(&cfg).Error
}
