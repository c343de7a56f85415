package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"patrimonio/internal/database"
	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/models"
)

// rentalService handles rental income rows and the property config
// singleton.
type rentalService struct {
	m *database.Manager
}

// NewRentalService creates a new RentalServicer.
func NewRentalService(m *database.Manager) RentalServicer {
	return &rentalService{m: m}
}

func (s *rentalService) db() *gorm.DB { return s.m.DB() }

// ListRentalIncomes returns all rental incomes, newest month first.
func (s *rentalService) ListRentalIncomes() ([]models.RentalIncome, error) {
	var incomes []models.RentalIncome
	if err := s.db().Order("año DESC, mes DESC").Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return incomes, nil
}

// GetRentalIncomeByID returns one rental income row.
func (s *rentalService) GetRentalIncomeByID(id uint) (*models.RentalIncome, error) {
	var income models.RentalIncome
	if err := s.db().First(&income, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRentalIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// CreateRentalIncome validates and inserts one month of rental income.
// Duplicate (año, mes) rows are allowed: a month can be corrected by adding
// a second entry.
func (s *rentalService) CreateRentalIncome(year, month int, precioAlquilerARS, valorUSD, gananciaUSD float64) (*models.RentalIncome, error) {
	if year < 1900 || year > 3000 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Año is out of range")
	}
	if month < 1 || month > 12 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Mes must be between 1 and 12")
	}
	if precioAlquilerARS < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Precio alquiler must be a non-negative number")
	}
	if valorUSD < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Valor USD must be a non-negative number")
	}

	income := &models.RentalIncome{
		Year:              year,
		Month:             month,
		PrecioAlquilerARS: precioAlquilerARS,
		ValorUSD:          valorUSD,
		GananciaUSD:       gananciaUSD,
	}
	if err := s.db().Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// UpdateRentalIncome applies a partial update. Supplying no fields is a
// no-op returning false.
func (s *rentalService) UpdateRentalIncome(id uint, updates RentalIncomeUpdate) (bool, error) {
	fields := map[string]interface{}{}
	if updates.Year != nil {
		fields["año"] = *updates.Year
	}
	if updates.Month != nil {
		if *updates.Month < 1 || *updates.Month > 12 {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Mes must be between 1 and 12")
		}
		fields["mes"] = *updates.Month
	}
	if updates.PrecioAlquilerARS != nil {
		if *updates.PrecioAlquilerARS < 0 {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Precio alquiler must be a non-negative number")
		}
		fields["precio_alquiler_ars"] = *updates.PrecioAlquilerARS
	}
	if updates.ValorUSD != nil {
		if *updates.ValorUSD < 0 {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Valor USD must be a non-negative number")
		}
		fields["valor_usd"] = *updates.ValorUSD
	}
	if updates.GananciaUSD != nil {
		fields["ganancia_usd"] = *updates.GananciaUSD
	}

	if len(fields) == 0 {
		return false, nil
	}

	result := s.db().Model(&models.RentalIncome{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteRentalIncome deletes one rental income row. Returns false when no
// row matched.
func (s *rentalService) DeleteRentalIncome(id uint) (bool, error) {
	result := s.db().Delete(&models.RentalIncome{}, id)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetPropertyConfig returns the singleton row, creating it with defaults
// when missing.
func (s *rentalService) GetPropertyConfig() (*models.PropertyConfig, error) {
	config := &models.PropertyConfig{ID: 1}
	if err := s.db().FirstOrCreate(config).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return config, nil
}

// SetInitialInvestment upserts the initial investment amount on the
// singleton row.
func (s *rentalService) SetInitialInvestment(amount float64) (*models.PropertyConfig, error) {
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Initial investment must be a non-negative number")
	}

	config := &models.PropertyConfig{ID: 1, InitialInvestment: amount}
	err := s.db().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"initial_investment", "updated_at"}),
	}).Create(config).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetPropertyConfig()
}
