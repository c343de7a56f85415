// Package errors provides custom error types for the patrimonio API.
// All service-layer errors should use AppError so callers get a stable
// error code they can branch on without parsing message text.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrUserNotFound       = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername  = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
	ErrUserAlreadySetUp   = &AppError{Code: "USER_ALREADY_SET_UP", Message: "An initial user already exists", StatusCode: http.StatusConflict}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Stock and movement errors.
var (
	ErrStockNotFound    = &AppError{Code: "STOCK_NOT_FOUND", Message: "Stock not found", StatusCode: http.StatusNotFound}
	ErrMovementNotFound = &AppError{Code: "MOVEMENT_NOT_FOUND", Message: "Movement not found", StatusCode: http.StatusNotFound}
	ErrDuplicateSymbol  = &AppError{Code: "DUPLICATE_SYMBOL", Message: "A stock with this symbol already exists", StatusCode: http.StatusConflict}
)

// Asset errors.
var (
	ErrAssetNotFound = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
)

// Category errors.
var (
	ErrCategoryNotFound  = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategory = &AppError{Code: "DUPLICATE_CATEGORY", Message: "A category with this tipo already exists", StatusCode: http.StatusConflict}
)

// Net-worth snapshot errors.
var (
	ErrSnapshotNotFound  = &AppError{Code: "SNAPSHOT_NOT_FOUND", Message: "Net-worth snapshot not found", StatusCode: http.StatusNotFound}
	ErrDuplicateSnapshot = &AppError{Code: "DUPLICATE_SNAPSHOT", Message: "A snapshot for this date already exists", StatusCode: http.StatusConflict}
)

// Rental income errors.
var (
	ErrRentalIncomeNotFound = &AppError{Code: "RENTAL_INCOME_NOT_FOUND", Message: "Rental income not found", StatusCode: http.StatusNotFound}
)

// Persistence-layer errors.
var (
	ErrDecryptionFailed = &AppError{Code: "DECRYPTION_FAILED", Message: "Stored record could not be decrypted", StatusCode: http.StatusInternalServerError}
	ErrMigrationFailed  = &AppError{Code: "MIGRATION_FAILED", Message: "Database migration failed", StatusCode: http.StatusInternalServerError}
	ErrImportFailed     = &AppError{Code: "IMPORT_FAILED", Message: "Import failed and was rolled back", StatusCode: http.StatusInternalServerError}
	ErrFileSystem       = &AppError{Code: "FILESYSTEM_ERROR", Message: "File operation failed", StatusCode: http.StatusInternalServerError}
)

// Price oracle errors.
var (
	ErrOracleUnavailable = &AppError{Code: "ORACLE_UNAVAILABLE", Message: "Price service is unavailable", StatusCode: http.StatusBadGateway}
	ErrPriceNotFound     = &AppError{Code: "PRICE_NOT_FOUND", Message: "No price available for this symbol", StatusCode: http.StatusNotFound}
)
