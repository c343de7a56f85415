package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/models"
	"patrimonio/internal/services"
)

// AssetHandler handles asset requests.
type AssetHandler struct {
	assetService services.AssetServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// CreateAssetRequest represents the request payload for creating an asset.
type CreateAssetRequest struct {
	Concepto      string  `json:"concepto" binding:"required"`
	Cantidad      float64 `json:"cantidad" binding:"required"`
	Valor         float64 `json:"valor"`
	ValorUnitario float64 `json:"valor_unitario"`
	Tipo          string  `json:"tipo" binding:"omitempty,asset_tipo"`
}

// UpdateAssetRequest represents the request payload for a partial asset update.
type UpdateAssetRequest struct {
	Concepto      *string  `json:"concepto"`
	Cantidad      *float64 `json:"cantidad"`
	Valor         *float64 `json:"valor"`
	ValorUnitario *float64 `json:"valor_unitario"`
	Tipo          *string  `json:"tipo" binding:"omitempty,asset_tipo"`
}

// ListAssets returns all assets ordered by concepto.
func (h *AssetHandler) ListAssets(c *gin.Context) {
	assets, err := h.assetService.ListAssets()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": assets})
}

// GetAsset returns one asset by id.
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAssetByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// CreateAsset creates a new asset. A blank tipo defaults to ACCION.
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	tipo := models.AssetTipo(req.Tipo)
	if req.Tipo == "" {
		tipo = models.TipoAccion
	}

	asset, err := h.assetService.CreateAsset(req.Concepto, req.Cantidad, req.Valor, req.ValorUnitario, tipo)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// UpdateAsset applies a partial update to an asset.
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updates := services.AssetUpdate{
		Concepto:      req.Concepto,
		Cantidad:      req.Cantidad,
		Valor:         req.Valor,
		ValorUnitario: req.ValorUnitario,
	}
	if req.Tipo != nil {
		tipo := models.AssetTipo(*req.Tipo)
		updates.Tipo = &tipo
	}

	updated, err := h.assetService.UpdateAsset(id, updates)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteAsset deletes one asset.
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.assetService.DeleteAsset(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, apperrors.ErrAssetNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

// RefreshPrice fetches a live quote for the asset and overwrites its unit
// price.
func (h *AssetHandler) RefreshPrice(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.RefreshUnitPrice(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset})
}
