package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"patrimonio/internal/database"
	apperrors "patrimonio/internal/errors"
)

// BackupHandler handles file-level database backup and restore.
type BackupHandler struct {
	manager *database.Manager
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(manager *database.Manager) *BackupHandler {
	return &BackupHandler{manager: manager}
}

// BackupRequest represents the request payload for a backup.
type BackupRequest struct {
	Path string `json:"path" binding:"required"`
}

// RestoreRequest represents the request payload for a restore.
type RestoreRequest struct {
	Path string `json:"path" binding:"required"`
}

// Backup copies the database file and its key file to the requested path.
func (h *BackupHandler) Backup(c *gin.Context) {
	var req BackupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.manager.Backup(req.Path); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Backup created successfully",
		"path":     req.Path,
		"key_path": database.BackupKeyPath(req.Path),
	})
}

// Restore replaces the live database with the file at the requested path. A
// safety copy of the current database is written first.
func (h *BackupHandler) Restore(c *gin.Context) {
	var req RestoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.manager.Restore(req.Path); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Database restored successfully"})
}
