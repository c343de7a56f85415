package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/services"
)

// RentalHandler handles rental income and property config requests.
type RentalHandler struct {
	rentalService services.RentalServicer
}

// NewRentalHandler creates a new RentalHandler.
func NewRentalHandler(rentalService services.RentalServicer) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

// CreateRentalIncomeRequest represents the request payload for recording one
// month of rental income.
type CreateRentalIncomeRequest struct {
	Year              int     `json:"año" binding:"required"`
	Month             int     `json:"mes" binding:"required"`
	PrecioAlquilerARS float64 `json:"precio_alquiler_ars"`
	ValorUSD          float64 `json:"valor_usd"`
	GananciaUSD       float64 `json:"ganancia_usd"`
}

// UpdateRentalIncomeRequest represents the request payload for a partial
// rental income update.
type UpdateRentalIncomeRequest struct {
	Year              *int     `json:"año"`
	Month             *int     `json:"mes"`
	PrecioAlquilerARS *float64 `json:"precio_alquiler_ars"`
	ValorUSD          *float64 `json:"valor_usd"`
	GananciaUSD       *float64 `json:"ganancia_usd"`
}

// SetInitialInvestmentRequest represents the request payload for updating the
// property's initial investment.
type SetInitialInvestmentRequest struct {
	InitialInvestment float64 `json:"initial_investment"`
}

// ListRentalIncomes returns all rental incomes, newest month first.
func (h *RentalHandler) ListRentalIncomes(c *gin.Context) {
	incomes, err := h.rentalService.ListRentalIncomes()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rental_incomes": incomes})
}

// CreateRentalIncome records one month of rental income.
func (h *RentalHandler) CreateRentalIncome(c *gin.Context) {
	var req CreateRentalIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	income, err := h.rentalService.CreateRentalIncome(req.Year, req.Month, req.PrecioAlquilerARS, req.ValorUSD, req.GananciaUSD)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"rental_income": income})
}

// UpdateRentalIncome applies a partial update to a rental income row.
func (h *RentalHandler) UpdateRentalIncome(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateRentalIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updated, err := h.rentalService.UpdateRentalIncome(id, services.RentalIncomeUpdate{
		Year:              req.Year,
		Month:             req.Month,
		PrecioAlquilerARS: req.PrecioAlquilerARS,
		ValorUSD:          req.ValorUSD,
		GananciaUSD:       req.GananciaUSD,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteRentalIncome deletes one rental income row.
func (h *RentalHandler) DeleteRentalIncome(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.rentalService.DeleteRentalIncome(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, apperrors.ErrRentalIncomeNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rental income deleted successfully"})
}

// GetPropertyConfig returns the property config singleton.
func (h *RentalHandler) GetPropertyConfig(c *gin.Context) {
	config, err := h.rentalService.GetPropertyConfig()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property_config": config})
}

// SetInitialInvestment upserts the property's initial investment amount.
func (h *RentalHandler) SetInitialInvestment(c *gin.Context) {
	var req SetInitialInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	config, err := h.rentalService.SetInitialInvestment(req.InitialInvestment)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property_config": config})
}
