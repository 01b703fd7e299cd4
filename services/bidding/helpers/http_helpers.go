package helpers

import (
	"errors"
	"fmt"
	"net/http"

	"auction-settlement/internal/biddingerrors"
	"auction-settlement/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, biddingerrors.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, biddingerrors.ErrNotFound):
		return http.StatusNotFound, "bid not found"
	case errors.Is(err, biddingerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for product"
	case errors.Is(err, biddingerrors.ErrConflictingUpdate):
		return http.StatusConflict, "bid amount below standing bid"
	case errors.Is(err, biddingerrors.ErrSweepInProgress):
		return http.StatusConflict, "settlement sweep already running"
	case errors.Is(err, biddingerrors.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, "upstream service unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error response and logs it
func RespondError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)

	if fields == nil {
		fields = map[string]any{}
	}
	fields["handler"] = handlerName
	fields["error"] = err.Error()
	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": request failed", fields)
		return
	}
	utils.Warn(handlerName+": request rejected", fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
