package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"patrimonio/internal/database"
	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/logger"
	"patrimonio/internal/models"
)

// ExportedStock is a stock row in a snapshot document. The id is carried so
// movements can be re-pointed at the reinserted row on import.
type ExportedStock struct {
	ID       uint   `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Notes    string `json:"notes"`
}

// ExportedMovement is a movement row in a snapshot document. StockID refers
// to the exporting database's stock id, not the importing one's.
type ExportedMovement struct {
	StockID  uint    `json:"stock_id"`
	Type     string  `json:"type"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Date     string  `json:"date"`
	Fees     float64 `json:"fees"`
	Notes    string  `json:"notes"`
}

// ExportedAsset is an asset row in a snapshot document.
type ExportedAsset struct {
	Concepto      string  `json:"concepto"`
	Cantidad      float64 `json:"cantidad"`
	Valor         float64 `json:"valor"`
	ValorUnitario float64 `json:"valor_unitario"`
	Tipo          string  `json:"tipo"`
}

// ExportedCategory is a category row in a snapshot document.
type ExportedCategory struct {
	Tipo   string `json:"tipo"`
	Nombre string `json:"nombre"`
	Color  string `json:"color"`
}

// ExportedNetWorthPoint is a net-worth snapshot row in a snapshot document.
type ExportedNetWorthPoint struct {
	Year       int     `json:"año"`
	Month      int     `json:"mes"`
	Day        int     `json:"dia"`
	Patrimonio float64 `json:"patrimonio"`
	Detalle    string  `json:"detalle"`
}

// ExportedRentalIncome is a rental income row in a snapshot document.
type ExportedRentalIncome struct {
	Year              int     `json:"año"`
	Month             int     `json:"mes"`
	PrecioAlquilerARS float64 `json:"precio_alquiler_ars"`
	ValorUSD          float64 `json:"valor_usd"`
	GananciaUSD       float64 `json:"ganancia_usd"`
}

// ExportedPropertyConfig is the property config singleton in a snapshot
// document.
type ExportedPropertyConfig struct {
	InitialInvestment float64 `json:"initialInvestment"`
}

// Snapshot is the whole-dataset document produced by Export and consumed by
// Import. Notes travel in plaintext: the document is meant to move data
// between installations with different encryption keys. Every collection is
// optional on import; a nil collection leaves the matching tables untouched.
type Snapshot struct {
	Stocks               []ExportedStock         `json:"stocks,omitempty"`
	Movements            []ExportedMovement      `json:"movements,omitempty"`
	Assets               []ExportedAsset         `json:"assets,omitempty"`
	Categories           []ExportedCategory      `json:"categories,omitempty"`
	PatrimonialEvolution []ExportedNetWorthPoint `json:"patrimonialEvolution,omitempty"`
	RentalIncomes        []ExportedRentalIncome  `json:"rentalIncomes,omitempty"`
	PropertyConfig       *ExportedPropertyConfig `json:"propertyConfig,omitempty"`
	ExportDate           string                  `json:"exportDate"`
}

// transferService implements whole-dataset export and atomic import.
type transferService struct {
	m *database.Manager
}

// NewTransferService creates a new TransferServicer.
func NewTransferService(m *database.Manager) TransferServicer {
	return &transferService{m: m}
}

func (s *transferService) db() *gorm.DB { return s.m.DB() }

// decryptForExport decrypts a stored notes record. An undecryptable record
// is logged and exported blank so one bad row cannot block a full export.
func (s *transferService) decryptForExport(entity string, id uint, record string) string {
	if record == "" {
		return ""
	}
	plaintext, err := s.m.Keys().Decrypt(record)
	if err != nil {
		logger.Get().Errorw("failed to decrypt notes for export", "entity", entity, "id", id, "error", err)
		return ""
	}
	return plaintext
}

// Export assembles every collection into a snapshot document with notes
// decrypted.
func (s *transferService) Export() (*Snapshot, error) {
	db := s.db()
	snapshot := &Snapshot{ExportDate: time.Now().UTC().Format(time.RFC3339)}

	var stocks []models.Stock
	if err := db.Order("symbol ASC").Find(&stocks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	snapshot.Stocks = make([]ExportedStock, 0, len(stocks))
	for _, stock := range stocks {
		snapshot.Stocks = append(snapshot.Stocks, ExportedStock{
			ID:       stock.ID,
			Symbol:   stock.Symbol,
			Name:     stock.Name,
			Exchange: stock.Exchange,
			Notes:    s.decryptForExport("stock", stock.ID, stock.NotesEncrypted),
		})
	}

	var movements []models.Movement
	if err := db.Order("stock_id ASC, date ASC, id ASC").Find(&movements).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	snapshot.Movements = make([]ExportedMovement, 0, len(movements))
	for _, movement := range movements {
		snapshot.Movements = append(snapshot.Movements, ExportedMovement{
			StockID:  movement.StockID,
			Type:     string(movement.Type),
			Quantity: movement.Quantity,
			Price:    movement.Price,
			Date:     movement.Date,
			Fees:     movement.Fees,
			Notes:    s.decryptForExport("movement", movement.ID, movement.NotesEncrypted),
		})
	}

	var assets []models.Asset
	if err := db.Order("concepto ASC").Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	snapshot.Assets = make([]ExportedAsset, 0, len(assets))
	for _, asset := range assets {
		snapshot.Assets = append(snapshot.Assets, ExportedAsset{
			Concepto:      asset.Concepto,
			Cantidad:      asset.Cantidad,
			Valor:         asset.Valor,
			ValorUnitario: asset.ValorUnitario,
			Tipo:          string(normalizeTipo(asset.Tipo)),
		})
	}

	var categories []models.Category
	if err := db.Order("tipo ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	snapshot.Categories = make([]ExportedCategory, 0, len(categories))
	for _, category := range categories {
		snapshot.Categories = append(snapshot.Categories, ExportedCategory{
			Tipo:   category.Tipo,
			Nombre: category.Nombre,
			Color:  category.Color,
		})
	}

	var points []models.NetWorthSnapshot
	if err := db.Order("año ASC, mes ASC, dia ASC").Find(&points).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	snapshot.PatrimonialEvolution = make([]ExportedNetWorthPoint, 0, len(points))
	for _, point := range points {
		snapshot.PatrimonialEvolution = append(snapshot.PatrimonialEvolution, ExportedNetWorthPoint{
			Year:       point.Year,
			Month:      point.Month,
			Day:        point.Day,
			Patrimonio: point.Patrimonio,
			Detalle:    point.Detalle,
		})
	}

	var incomes []models.RentalIncome
	if err := db.Order("año ASC, mes ASC").Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	snapshot.RentalIncomes = make([]ExportedRentalIncome, 0, len(incomes))
	for _, income := range incomes {
		snapshot.RentalIncomes = append(snapshot.RentalIncomes, ExportedRentalIncome{
			Year:              income.Year,
			Month:             income.Month,
			PrecioAlquilerARS: income.PrecioAlquilerARS,
			ValorUSD:          income.ValorUSD,
			GananciaUSD:       income.GananciaUSD,
		})
	}

	config := &models.PropertyConfig{ID: 1}
	if err := db.FirstOrCreate(config).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	snapshot.PropertyConfig = &ExportedPropertyConfig{InitialInvestment: config.InitialInvestment}

	return snapshot, nil
}

// Import replaces the collections present in the snapshot inside one
// transaction. Movements are cleared before stocks to respect the foreign
// key, and reinserted movements are re-pointed at the newly inserted stock
// rows. Any failure rolls back the whole import.
func (s *transferService) Import(snapshot *Snapshot) error {
	if snapshot == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Snapshot is required")
	}

	keys := s.m.Keys()
	err := s.db().Transaction(func(tx *gorm.DB) error {
		stockIDs := map[uint]uint{}

		if snapshot.Stocks != nil {
			if err := tx.Where("1 = 1").Delete(&models.Movement{}).Error; err != nil {
				return err
			}
			if err := tx.Where("1 = 1").Delete(&models.Stock{}).Error; err != nil {
				return err
			}
			for _, exported := range snapshot.Stocks {
				encrypted := ""
				if exported.Notes != "" {
					var err error
					if encrypted, err = keys.Encrypt(exported.Notes); err != nil {
						return err
					}
				}
				stock := models.Stock{
					Symbol:         exported.Symbol,
					Name:           exported.Name,
					Exchange:       exported.Exchange,
					NotesEncrypted: encrypted,
				}
				if err := tx.Create(&stock).Error; err != nil {
					return err
				}
				stockIDs[exported.ID] = stock.ID
			}
		}

		if snapshot.Movements != nil {
			if err := tx.Where("1 = 1").Delete(&models.Movement{}).Error; err != nil {
				return err
			}
			for _, exported := range snapshot.Movements {
				movementType := models.MovementType(exported.Type)
				if !movementType.Valid() {
					return apperrors.WithMessage(apperrors.ErrImportFailed, "Movement type must be buy or sell")
				}

				newStockID, ok := s.resolveStockID(tx, snapshot.Stocks != nil, stockIDs, exported.StockID)
				if !ok {
					// A movement whose stock did not survive the import
					// references nothing; dropping it keeps the foreign key
					// intact.
					logger.Get().Warnw("dropping movement with unresolved stock reference", "stock_id", exported.StockID)
					continue
				}

				encrypted := ""
				if exported.Notes != "" {
					var err error
					if encrypted, err = keys.Encrypt(exported.Notes); err != nil {
						return err
					}
				}
				movement := models.Movement{
					StockID:        newStockID,
					Type:           movementType,
					Quantity:       exported.Quantity,
					Price:          exported.Price,
					Date:           exported.Date,
					Fees:           exported.Fees,
					NotesEncrypted: encrypted,
				}
				if err := tx.Create(&movement).Error; err != nil {
					return err
				}
			}
		}

		if snapshot.Assets != nil {
			if err := tx.Where("1 = 1").Delete(&models.Asset{}).Error; err != nil {
				return err
			}
			for _, exported := range snapshot.Assets {
				asset := models.Asset{
					Concepto:      exported.Concepto,
					Cantidad:      exported.Cantidad,
					Valor:         exported.Valor,
					ValorUnitario: exported.ValorUnitario,
					Tipo:          normalizeTipo(models.AssetTipo(exported.Tipo)),
				}
				if err := tx.Create(&asset).Error; err != nil {
					return err
				}
			}
		}

		if snapshot.Categories != nil {
			if err := tx.Where("1 = 1").Delete(&models.Category{}).Error; err != nil {
				return err
			}
			for _, exported := range snapshot.Categories {
				category := models.Category{
					Tipo:   exported.Tipo,
					Nombre: exported.Nombre,
					Color:  exported.Color,
				}
				if err := tx.Create(&category).Error; err != nil {
					return err
				}
			}
		}

		if snapshot.PatrimonialEvolution != nil {
			if err := tx.Where("1 = 1").Delete(&models.NetWorthSnapshot{}).Error; err != nil {
				return err
			}
			for _, exported := range snapshot.PatrimonialEvolution {
				day := exported.Day
				if day == 0 {
					day = 1
				}
				point := models.NetWorthSnapshot{
					Year:       exported.Year,
					Month:      exported.Month,
					Day:        day,
					Patrimonio: exported.Patrimonio,
					Detalle:    exported.Detalle,
				}
				if err := tx.Create(&point).Error; err != nil {
					return err
				}
			}
		}

		if snapshot.RentalIncomes != nil {
			if err := tx.Where("1 = 1").Delete(&models.RentalIncome{}).Error; err != nil {
				return err
			}
			for _, exported := range snapshot.RentalIncomes {
				income := models.RentalIncome{
					Year:              exported.Year,
					Month:             exported.Month,
					PrecioAlquilerARS: exported.PrecioAlquilerARS,
					ValorUSD:          exported.ValorUSD,
					GananciaUSD:       exported.GananciaUSD,
				}
				if err := tx.Create(&income).Error; err != nil {
					return err
				}
			}
		}

		if snapshot.PropertyConfig != nil {
			config := &models.PropertyConfig{ID: 1, InitialInvestment: snapshot.PropertyConfig.InitialInvestment}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"initial_investment", "updated_at"}),
			}).Create(config).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Wrap(apperrors.ErrImportFailed, err)
	}
	return nil
}

// resolveStockID maps an exported movement's stock reference to a live stock
// id. When the stocks collection was replaced, only the remap table counts;
// otherwise the existing table is consulted directly.
func (s *transferService) resolveStockID(tx *gorm.DB, stocksReplaced bool, stockIDs map[uint]uint, oldID uint) (uint, bool) {
	if stocksReplaced {
		newID, ok := stockIDs[oldID]
		return newID, ok
	}
	var count int64
	if err := tx.Model(&models.Stock{}).Where("id = ?", oldID).Count(&count).Error; err != nil {
		return 0, false
	}
	if count == 0 {
		return 0, false
	}
	return oldID, true
}
