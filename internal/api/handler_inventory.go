package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-inventory-backend/internal/dates"
	"hotel-inventory-backend/internal/model"
)

type setAllotmentRequest struct {
	RoomTypeID int64 `json:"room_type_id" binding:"required"`
	// Either a single date or a half-open [start_date, end_date) range.
	Date      string `json:"date"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Allotment *int   `json:"allotment" binding:"required"`
}

// PutInventory handles PUT /api/admin/inventory: edit the allotment for a
// date or date range. Rejected with a per-date conflict list when existing
// demand would exceed the new allotment.
func (h *Handler) PutInventory(c *gin.Context) {
	var req setAllotmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var nights []string
	switch {
	case req.Date != "":
		nights = []string{req.Date}
	case req.StartDate != "" && req.EndDate != "":
		var err error
		nights, err = dates.Nights(req.StartDate, req.EndDate)
		if err != nil || len(nights) == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid date range"})
			return
		}
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "date or start_date/end_date is required"})
		return
	}

	if err := h.store.SetAllotment(c.Request.Context(), req.RoomTypeID, nights, *req.Allotment); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type createRoomTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	MaxGuests   int    `json:"max_guests" binding:"required,min=1"`
	// Pointer so an explicit zero (sellable only via per-date allotment
	// edits) survives the required check.
	DefaultAllotment *int    `json:"default_allotment" binding:"required,min=0"`
	BaseRate         float64 `json:"base_rate"`
}

// PostRoomType handles POST /api/admin/room_types.
func (h *Handler) PostRoomType(c *gin.Context) {
	var req createRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rt := model.RoomType{
		Name:             req.Name,
		Description:      req.Description,
		MaxGuests:        req.MaxGuests,
		DefaultAllotment: *req.DefaultAllotment,
		BaseRate:         req.BaseRate,
	}
	if err := h.store.CreateRoomType(c.Request.Context(), &rt); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// GetRoomTypes handles GET /api/room_types.
func (h *Handler) GetRoomTypes(c *gin.Context) {
	roomTypes, err := h.store.ListRoomTypes(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, roomTypes)
}
