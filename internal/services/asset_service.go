package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"gorm.io/gorm"

	"patrimonio/internal/database"
	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/models"
)

// assetService handles the simple holdings model and oracle price updates.
type assetService struct {
	m      *database.Manager
	prices PriceSource
}

// NewAssetService creates a new AssetServicer. prices may be nil when the
// oracle is not configured; RefreshUnitPrice then fails with
// ORACLE_UNAVAILABLE.
func NewAssetService(m *database.Manager, prices PriceSource) AssetServicer {
	return &assetService{m: m, prices: prices}
}

func (s *assetService) db() *gorm.DB { return s.m.DB() }

// ExtractSymbol pulls the oracle symbol out of a concepto label. A
// parenthetical wins: "Bitcoin (BTC)" yields "BTC". Without one, the first
// four characters uppercased are used as a fallback.
func ExtractSymbol(concepto string) string {
	open := strings.LastIndex(concepto, "(")
	close := strings.LastIndex(concepto, ")")
	if open >= 0 && close > open {
		return strings.ToUpper(strings.TrimSpace(concepto[open+1 : close]))
	}

	trimmed := strings.TrimSpace(concepto)
	if len(trimmed) > 4 {
		trimmed = trimmed[:4]
	}
	return strings.ToUpper(strings.TrimSpace(trimmed))
}

// normalizeTipo maps legacy blank codes to ACCION, uppercased.
func normalizeTipo(tipo models.AssetTipo) models.AssetTipo {
	t := strings.ToUpper(strings.TrimSpace(string(tipo)))
	if t == "" {
		return models.TipoAccion
	}
	return models.AssetTipo(t)
}

// ListAssets returns all assets ordered by concepto.
func (s *assetService) ListAssets() ([]models.Asset, error) {
	var assets []models.Asset
	if err := s.db().Order("concepto ASC").Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range assets {
		assets[i].Tipo = normalizeTipo(assets[i].Tipo)
	}
	return assets, nil
}

// GetAssetByID returns one asset.
func (s *assetService) GetAssetByID(id uint) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db().First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	asset.Tipo = normalizeTipo(asset.Tipo)
	return &asset, nil
}

// CreateAsset validates and inserts a new asset.
func (s *assetService) CreateAsset(concepto string, cantidad, valor, valorUnitario float64, tipo models.AssetTipo) (*models.Asset, error) {
	if strings.TrimSpace(concepto) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Concepto is required")
	}
	if cantidad <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Cantidad must be a positive number")
	}
	if valor < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Valor must be a non-negative number")
	}
	if valorUnitario < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Valor unitario must be a non-negative number")
	}
	if !tipo.Valid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Tipo must be ACCION, ETF, CRIPTO, FIAT, or DEPOSITO")
	}

	asset := &models.Asset{
		Concepto:      concepto,
		Cantidad:      cantidad,
		Valor:         valor,
		ValorUnitario: valorUnitario,
		Tipo:          tipo,
	}
	if err := s.db().Create(asset).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return asset, nil
}

// UpdateAsset applies a partial update. Supplying no fields is a no-op
// returning false and leaves the updated timestamp untouched.
func (s *assetService) UpdateAsset(id uint, updates AssetUpdate) (bool, error) {
	fields := map[string]interface{}{}
	if updates.Concepto != nil {
		if strings.TrimSpace(*updates.Concepto) == "" {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Concepto cannot be empty")
		}
		fields["concepto"] = *updates.Concepto
	}
	if updates.Cantidad != nil {
		if *updates.Cantidad <= 0 {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Cantidad must be a positive number")
		}
		fields["cantidad"] = *updates.Cantidad
	}
	if updates.Valor != nil {
		if *updates.Valor < 0 {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Valor must be a non-negative number")
		}
		fields["valor"] = *updates.Valor
	}
	if updates.ValorUnitario != nil {
		if *updates.ValorUnitario < 0 {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Valor unitario must be a non-negative number")
		}
		fields["valor_unitario"] = *updates.ValorUnitario
	}
	if updates.Tipo != nil {
		if !updates.Tipo.Valid() {
			return false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Tipo must be ACCION, ETF, CRIPTO, FIAT, or DEPOSITO")
		}
		fields["tipo"] = *updates.Tipo
	}

	if len(fields) == 0 {
		return false, nil
	}

	result := s.db().Model(&models.Asset{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// DeleteAsset deletes one asset. Returns false when no row matched.
func (s *assetService) DeleteAsset(id uint) (bool, error) {
	result := s.db().Delete(&models.Asset{}, id)
	if result.Error != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RefreshUnitPrice fetches a live quote for the asset's symbol and
// overwrites valor_unitario. A failed fetch leaves the stored price
// untouched.
func (s *assetService) RefreshUnitPrice(ctx context.Context, id uint) (*models.Asset, error) {
	asset, err := s.GetAssetByID(id)
	if err != nil {
		return nil, err
	}
	if s.prices == nil {
		return nil, apperrors.WithMessage(apperrors.ErrOracleUnavailable, "No price oracle configured")
	}

	price, err := s.prices.Price(ctx, ExtractSymbol(asset.Concepto))
	if err != nil {
		return nil, err
	}
	if price <= 0 || math.IsInf(price, 0) || math.IsNaN(price) {
		return nil, apperrors.WithMessage(apperrors.ErrPriceNotFound, "Quote is not a positive finite number")
	}

	result := s.db().Model(&models.Asset{}).Where("id = ?", id).Update("valor_unitario", price)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}

	asset.ValorUnitario = price
	return asset, nil
}
