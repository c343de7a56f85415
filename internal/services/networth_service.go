package services

import (
	"errors"

	"gorm.io/gorm"

	"patrimonio/internal/database"
	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/models"
)

// netWorthService handles the monthly net-worth snapshot series.
type netWorthService struct {
	m *database.Manager
}

// NewNetWorthService creates a new NetWorthServicer.
func NewNetWorthService(m *database.Manager) NetWorthServicer {
	return &netWorthService{m: m}
}

func (s *netWorthService) db() *gorm.DB { return s.m.DB() }

// ListSnapshots returns the series newest first.
func (s *netWorthService) ListSnapshots() ([]models.NetWorthSnapshot, error) {
	var snapshots []models.NetWorthSnapshot
	err := s.db().Order("año DESC, mes DESC, dia DESC").Find(&snapshots).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshots, nil
}

// GetSnapshotByID returns one snapshot.
func (s *netWorthService) GetSnapshotByID(id uint) (*models.NetWorthSnapshot, error) {
	var snapshot models.NetWorthSnapshot
	if err := s.db().First(&snapshot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSnapshotNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &snapshot, nil
}

func validateSnapshotDate(year, month, day int) error {
	if year < 1900 || year > 3000 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Año is out of range")
	}
	if month < 1 || month > 12 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Mes must be between 1 and 12")
	}
	if day < 1 || day > 31 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Dia must be between 1 and 31")
	}
	return nil
}

// CreateSnapshot validates and inserts one snapshot point. The (año, mes,
// dia) tuple must be unique.
func (s *netWorthService) CreateSnapshot(year, month, day int, patrimonio float64, detalle string) (*models.NetWorthSnapshot, error) {
	if err := validateSnapshotDate(year, month, day); err != nil {
		return nil, err
	}
	if patrimonio < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Patrimonio must be a non-negative number")
	}

	snapshot := &models.NetWorthSnapshot{
		Year:       year,
		Month:      month,
		Day:        day,
		Patrimonio: patrimonio,
		Detalle:    detalle,
	}
	if err := s.db().Create(snapshot).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateSnapshot
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshot, nil
}

// UpdateSnapshot applies a partial update. Supplying no fields is a no-op
// returning false.
func (s *netWorthService) UpdateSnapshot(id uint, updates SnapshotUpdate) (bool, error) {
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
	if updates.Day != nil {
		if *updates.Day < 1 || *updates.Day > 31 {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Dia must be between 1 and 31")
		}
		fields["dia"] = *updates.Day
	}
	if updates.Patrimonio != nil {
		if *updates.Patrimonio < 0 {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Patrimonio must be a non-negative number")
		}
		fields["patrimonio"] = *updates.Patrimonio
	}
	if updates.Detalle != nil {
		fields["detalle"] = *updates.Detalle
	}

	if len(fields) == 0 {
		return false, nil
	}

	result := s.db().Model(&models.NetWorthSnapshot{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		if isUniqueConstraintError(result.Error) {
			return false, apperrors.ErrDuplicateSnapshot
		}
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteSnapshot deletes one snapshot. Returns false when no row matched.
func (s *netWorthService) DeleteSnapshot(id uint) (bool, error) {
	result := s.db().Delete(&models.NetWorthSnapshot{}, id)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}
