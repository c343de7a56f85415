package services

import (
	"database/sql"
	"errors"
	"strings"

	"gorm.io/gorm"

	"patrimonio/internal/database"
	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/logger"
	"patrimonio/internal/models"
)

// stockService handles stock and movement persistence, including note
// encryption.
type stockService struct {
	m *database.Manager
}

// NewStockService creates a new StockServicer.
func NewStockService(m *database.Manager) StockServicer {
	return &stockService{m: m}
}

func (s *stockService) db() *gorm.DB { return s.m.DB() }

// encryptNotes encrypts a notes value for storage. Empty notes stay empty.
func (s *stockService) encryptNotes(notes string) (string, error) {
	if notes == "" {
		return "", nil
	}
	return s.m.Keys().Encrypt(notes)
}

// decryptNotesField decrypts a stored record for a list path: a record that
// cannot be decrypted is logged and returned blank rather than failing the
// whole query.
func (s *stockService) decryptNotesField(entity string, id uint, record string) string {
	if record == "" {
		return ""
	}
	plaintext, err := s.m.Keys().Decrypt(record)
	if err != nil {
		logger.Get().Errorw("failed to decrypt notes", "entity", entity, "id", id, "error", err)
		return ""
	}
	return plaintext
}

// ListStocks returns all stocks ordered by symbol, notes decrypted.
func (s *stockService) ListStocks() ([]models.Stock, error) {
	var stocks []models.Stock
	if err := s.db().Order("symbol ASC").Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range stocks {
		stocks[i].Notes = s.decryptNotesField("stock", stocks[i].ID, stocks[i].NotesEncrypted)
	}
	return stocks, nil
}

// GetStockByID returns one stock with its notes decrypted. Unlike list
// paths, a record that cannot be decrypted surfaces DECRYPTION_FAILED so a
// lost or corrupted key is noticed.
func (s *stockService) GetStockByID(id uint) (*models.Stock, error) {
	var stock models.Stock
	if err := s.db().First(&stock, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if stock.NotesEncrypted != "" {
		notes, err := s.m.Keys().Decrypt(stock.NotesEncrypted)
		if err != nil {
			return nil, err
		}
		stock.Notes = notes
	}
	return &stock, nil
}

// CreateStock validates and inserts a new stock.
func (s *stockService) CreateStock(symbol, name, exchange, notes string) (*models.Stock, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name is required")
	}

	encrypted, err := s.encryptNotes(notes)
	if err != nil {
		return nil, err
	}

	stock := &models.Stock{
		Symbol:         symbol,
		Name:           name,
		Exchange:       exchange,
		NotesEncrypted: encrypted,
	}
	if err := s.db().Create(stock).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateSymbol
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	stock.Notes = notes
	return stock, nil
}

// UpdateStock applies a partial update. Supplying no fields is a no-op
// returning false. Returns false when no row matched the id.
func (s *stockService) UpdateStock(id uint, updates StockUpdate) (bool, error) {
	fields := map[string]interface{}{}
	if updates.Symbol != nil {
		if strings.TrimSpace(*updates.Symbol) == "" {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Symbol cannot be empty")
		}
		fields["symbol"] = strings.TrimSpace(*updates.Symbol)
	}
	if updates.Name != nil {
		if strings.TrimSpace(*updates.Name) == "" {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Name cannot be empty")
		}
		fields["name"] = *updates.Name
	}
	if updates.Exchange != nil {
		fields["exchange"] = *updates.Exchange
	}
	if updates.Notes != nil {
		encrypted, err := s.encryptNotes(*updates.Notes)
		if err != nil {
			return false, err
		}
		fields["notes_encrypted"] = encrypted
	}

	if len(fields) == 0 {
		return false, nil
	}

	result := s.db().Model(&models.Stock{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return false, apperrors.ErrDuplicateSymbol
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteStock deletes a stock and, through the foreign-key cascade, all of
// its movements. Returns false when no row matched the id.
func (s *stockService) DeleteStock(id uint) (bool, error) {
	result := s.db().Delete(&models.Stock{}, id)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CreateMovement validates and inserts a buy or sell. Movements are
// immutable once created; there is no update operation.
func (s *stockService) CreateMovement(
	stockID uint,
	movementType models.MovementType,
	quantity, price float64,
	date string,
	fees float64,
	notes string,
) (*models.Movement, error) {
	if !movementType.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Type must be buy or sell")
	}
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be a positive number")
	}
	if price < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Price must be a non-negative number")
	}
	if fees < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Fees must be a non-negative number")
	}
	if strings.TrimSpace(date) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Date is required")
	}

	// The stock must exist before any write happens.
	var count int64
	if err := s.db().Model(&models.Stock{}).Where("id = ?", stockID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrStockNotFound
	}

	encrypted, err := s.encryptNotes(notes)
	if err != nil {
		return nil, err
	}

	movement := &models.Movement{
		StockID:        stockID,
		Type:           movementType,
		Quantity:       quantity,
		Price:          price,
		Date:           date,
		Fees:           fees,
		NotesEncrypted: encrypted,
	}
	if err := s.db().Create(movement).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	movement.Notes = notes
	return movement, nil
}

// GetMovementsByStockID returns a stock's movements, newest trade first.
func (s *stockService) GetMovementsByStockID(stockID uint) ([]models.Movement, error) {
	var movements []models.Movement
	err := s.db().Where("stock_id = ?", stockID).
		Order("date DESC, created_at DESC").
		Find(&movements).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range movements {
		movements[i].Notes = s.decryptNotesField("movement", movements[i].ID, movements[i].NotesEncrypted)
	}
	return movements, nil
}

// DeleteMovement deletes one movement. Returns false when no row matched.
func (s *stockService) DeleteMovement(id uint) (bool, error) {
	result := s.db().Delete(&models.Movement{}, id)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetStockSummary derives the position for one stock from its movement
// history at query time.
func (s *stockService) GetStockSummary(stockID uint) (*StockSummary, error) {
	var row struct {
		TotalQuantity sql.NullFloat64
		TotalInvested sql.NullFloat64
	}
	err := s.db().Model(&models.Movement{}).
		Select(`SUM(CASE WHEN type = 'buy' THEN quantity ELSE -quantity END) AS total_quantity,
			SUM(CASE WHEN type = 'buy' THEN quantity * price + COALESCE(fees, 0) ELSE -(quantity * price + COALESCE(fees, 0)) END) AS total_invested`).
		Where("stock_id = ?", stockID).
		Scan(&row).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &StockSummary{
		TotalQuantity: row.TotalQuantity.Float64,
		TotalInvested: row.TotalInvested.Float64,
	}
	if summary.TotalQuantity > 0 {
		summary.AveragePrice = summary.TotalInvested / summary.TotalQuantity
	}
	return summary, nil
}

// isUniqueConstraintError checks if a GORM error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
