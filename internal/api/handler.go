package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-inventory-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store store.Store
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store) *Handler {
	return &Handler{store: s}
}

// abortWithError maps the engine's error taxonomy onto HTTP statuses.
// Capacity and lifecycle conflicts are 409s the client resolves by
// restarting the flow; ErrBusy is a 503 the client may simply retry.
func abortWithError(c *gin.Context, err error) {
	var allotmentErr *store.AllotmentError
	if errors.As(err, &allotmentErr) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"error":     allotmentErr.Error(),
			"conflicts": allotmentErr.Conflicts,
		})
		return
	}

	switch {
	case errors.Is(err, store.ErrInvalidDateRange), errors.Is(err, store.ErrPastDate):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrRoomTypeNotFound),
		errors.Is(err, store.ErrHoldNotFound),
		errors.Is(err, store.ErrBookingNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInsufficientInventory),
		errors.Is(err, store.ErrHoldAlreadyResolved),
		errors.Is(err, store.ErrHoldExpired),
		errors.Is(err, store.ErrBookingNotPending),
		errors.Is(err, store.ErrBookingNotCancellable),
		errors.Is(err, store.ErrAllotmentBelowDemand):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrBusy):
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
