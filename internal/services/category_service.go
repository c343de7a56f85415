package services

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"patrimonio/internal/database"
	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/models"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// categoryService handles asset-type categories.
type categoryService struct {
	m *database.Manager
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(m *database.Manager) CategoryServicer {
	return &categoryService{m: m}
}

func (s *categoryService) db() *gorm.DB { return s.m.DB() }

// ListCategories returns all categories ordered by tipo.
func (s *categoryService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db().Order("tipo ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByTipo returns the category for one asset-type code.
func (s *categoryService) GetCategoryByTipo(tipo string) (*models.Category, error) {
	var category models.Category
	err := s.db().Where("tipo = ?", strings.ToUpper(strings.TrimSpace(tipo))).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// CreateCategory validates and inserts a new category. Tipo is trimmed and
// uppercased before the write.
func (s *categoryService) CreateCategory(tipo, nombre, color string) (*models.Category, error) {
	tipo = strings.ToUpper(strings.TrimSpace(tipo))
	nombre = strings.TrimSpace(nombre)
	if tipo == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Tipo is required")
	}
	if nombre == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Nombre is required")
	}
	if !hexColorRegex.MatchString(color) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Color must be a valid hex color (e.g., #FF0000)")
	}

	category := &models.Category{Tipo: tipo, Nombre: nombre, Color: color}
	if err := s.db().Create(category).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrDuplicateCategory
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// UpdateCategory applies a partial update to nombre and/or color. Tipo is
// immutable: it is the code assets reference. Supplying no fields is a
// no-op returning false.
func (s *categoryService) UpdateCategory(id uint, nombre, color *string) (bool, error) {
	fields := map[string]interface{}{}
	if nombre != nil {
		trimmed := strings.TrimSpace(*nombre)
		if trimmed == "" {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Nombre cannot be empty")
		}
		fields["nombre"] = trimmed
	}
	if color != nil {
		trimmed := strings.TrimSpace(*color)
		if !hexColorRegex.MatchString(trimmed) {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Color must be a valid hex color (e.g., #FF0000)")
		}
		fields["color"] = trimmed
	}

	if len(fields) == 0 {
		return false, nil
	}

	result := s.db().Model(&models.Category{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteCategory deletes one category. Assets using the category's tipo are
// left untouched: the reference is soft, and the UI layer is expected to
// warn through CountAssetsUsing before calling this.
func (s *categoryService) DeleteCategory(id uint) (bool, error) {
	result := s.db().Delete(&models.Category{}, id)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CountAssetsUsing returns how many assets carry the given tipo code.
func (s *categoryService) CountAssetsUsing(tipo string) (int64, error) {
	var count int64
	err := s.db().Model(&models.Asset{}).
		Where("tipo = ?", strings.ToUpper(strings.TrimSpace(tipo))).
		Count(&count).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
