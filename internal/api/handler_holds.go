package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type createHoldRequest struct {
	// SessionID is the opaque shopping-session token. Generated server-side
	// when the client does not supply one.
	SessionID  string `json:"session_id"`
	RoomTypeID int64  `json:"room_type_id" binding:"required"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
}

// PostHold handles POST /api/holds: reserve capacity for a stay.
func (h *Handler) PostHold(c *gin.Context) {
	var req createHoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	hold, err := h.store.CreateHold(c.Request.Context(), req.SessionID, req.RoomTypeID, req.CheckIn, req.CheckOut)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, hold)
}

// PostHoldCancel handles POST /api/holds/:hold_id/cancel. Idempotent:
// cancelling an already-resolved hold reports success so duplicate client
// requests are harmless.
func (h *Handler) PostHoldCancel(c *gin.Context) {
	if err := h.store.CancelHold(c.Request.Context(), c.Param("hold_id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
