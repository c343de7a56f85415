package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "patrimonio/internal/errors"
	"patrimonio/internal/services"
)

// NetWorthHandler handles net-worth snapshot requests.
type NetWorthHandler struct {
	netWorthService services.NetWorthServicer
}

// NewNetWorthHandler creates a new NetWorthHandler.
func NewNetWorthHandler(netWorthService services.NetWorthServicer) *NetWorthHandler {
	return &NetWorthHandler{netWorthService: netWorthService}
}

// CreateSnapshotRequest represents the request payload for recording a
// net-worth snapshot.
type CreateSnapshotRequest struct {
	Year       int     `json:"año" binding:"required"`
	Month      int     `json:"mes" binding:"required"`
	Day        int     `json:"dia"`
	Patrimonio float64 `json:"patrimonio"`
	Detalle    string  `json:"detalle"`
}

// UpdateSnapshotRequest represents the request payload for a partial snapshot
// update.
type UpdateSnapshotRequest struct {
	Year       *int     `json:"año"`
	Month      *int     `json:"mes"`
	Day        *int     `json:"dia"`
	Patrimonio *float64 `json:"patrimonio"`
	Detalle    *string  `json:"detalle"`
}

// ListSnapshots returns the snapshot series, newest first.
func (h *NetWorthHandler) ListSnapshots(c *gin.Context) {
	snapshots, err := h.netWorthService.ListSnapshots()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}

// CreateSnapshot records one snapshot point. A missing day defaults to the
// first of the month.
func (h *NetWorthHandler) CreateSnapshot(c *gin.Context) {
	var req CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	day := req.Day
	if day == 0 {
		day = 1
	}

	snapshot, err := h.netWorthService.CreateSnapshot(req.Year, req.Month, day, req.Patrimonio, req.Detalle)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"snapshot": snapshot})
}

// UpdateSnapshot applies a partial update to a snapshot.
func (h *NetWorthHandler) UpdateSnapshot(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updated, err := h.netWorthService.UpdateSnapshot(id, services.SnapshotUpdate{
		Year:       req.Year,
		Month:      req.Month,
		Day:        req.Day,
		Patrimonio: req.Patrimonio,
		Detalle:    req.Detalle,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// DeleteSnapshot deletes one snapshot.
func (h *NetWorthHandler) DeleteSnapshot(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.netWorthService.DeleteSnapshot(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !deleted {
		respondWithError(c, apperrors.ErrSnapshotNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Snapshot deleted successfully"})
}
