package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/services"
)

// TransferHandler handles whole-dataset export and import.
type TransferHandler struct {
	transferService services.TransferServicer
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferService services.TransferServicer) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// Export returns the full dataset as a snapshot document with notes in
// plaintext.
func (h *TransferHandler) Export(c *gin.Context) {
	snapshot, err := h.transferService.Export()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Import replaces the collections present in the posted snapshot document.
// The whole import is atomic.
func (h *TransferHandler) Import(c *gin.Context) {
	var snapshot services.Snapshot
	if err := c.ShouldBindJSON(&snapshot); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.transferService.Import(&snapshot); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Import completed successfully"})
}
