package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/models"
	"patrimonio/internal/services"
)

// StockHandler handles stock and movement requests.
type StockHandler struct {
	stockService services.StockServicer
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stockService services.StockServicer) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// CreateStockRequest represents the request payload for creating a stock.
type CreateStockRequest struct {
	Symbol   string `json:"symbol" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Exchange string `json:"exchange"`
	Notes    string `json:"notes"`
}

// UpdateStockRequest represents the request payload for a partial stock update.
type UpdateStockRequest struct {
	Symbol   *string `json:"symbol"`
	Name     *string `json:"name"`
	Exchange *string `json:"exchange"`
	Notes    *string `json:"notes"`
}

// CreateMovementRequest represents the request payload for recording a movement.
type CreateMovementRequest struct {
	Type     string  `json:"type" binding:"required,movement_type"`
	Quantity float64 `json:"quantity" binding:"required"`
	Price    float64 `json:"price"`
	Date     string  `json:"date" binding:"required"`
	Fees     float64 `json:"fees"`
	Notes    string  `json:"notes"`
}

// ListStocks returns all stocks ordered by symbol.
func (h *StockHandler) ListStocks(c *gin.Context) {
	stocks, err := h.stockService.ListStocks()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stocks": stocks})
}

// GetStock returns one stock by id.
func (h *StockHandler) GetStock(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	stock, err := h.stockService.GetStockByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": stock})
}

// CreateStock creates a new stock.
func (h *StockHandler) CreateStock(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	stock, err := h.stockService.CreateStock(req.Symbol, req.Name, req.Exchange, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stock": stock})
}

// UpdateStock applies a partial update to a stock.
func (h *StockHandler) UpdateStock(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updated, err := h.stockService.UpdateStock(id, services.StockUpdate{
		Symbol:   req.Symbol,
		Name:     req.Name,
		Exchange: req.Exchange,
		Notes:    req.Notes,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteStock deletes a stock and its movements.
func (h *StockHandler) DeleteStock(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.stockService.DeleteStock(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, apperrors.ErrStockNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock deleted successfully"})
}

// CreateMovement records a buy or sell for a stock.
func (h *StockHandler) CreateMovement(c *gin.Context) {
	stockID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	movement, err := h.stockService.CreateMovement(
		stockID,
		models.MovementType(req.Type),
		req.Quantity,
		req.Price,
		req.Date,
		req.Fees,
		req.Notes,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"movement": movement})
}

// ListMovements returns a stock's movements, newest trade first.
func (h *StockHandler) ListMovements(c *gin.Context) {
	stockID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	movements, err := h.stockService.GetMovementsByStockID(stockID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"movements": movements})
}

// DeleteMovement deletes one movement.
func (h *StockHandler) DeleteMovement(c *gin.Context) {
	id, err := parsePathID(c, "movementId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.stockService.DeleteMovement(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, apperrors.ErrMovementNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Movement deleted successfully"})
}

// GetSummary returns the derived position for a stock.
func (h *StockHandler) GetSummary(c *gin.Context) {
	stockID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.stockService.GetStockSummary(stockID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
