package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetAvailability handles GET /api/availability.
// Query: room_type_id (optional), check_in, check_out, guests (optional).
func (h *Handler) GetAvailability(c *gin.Context) {
	checkIn := c.Query("check_in")
	checkOut := c.Query("check_out")
	if checkIn == "" || checkOut == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "check_in and check_out are required"})
		return
	}

	var roomTypeID *int64
	if raw := c.Query("room_type_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid room_type_id"})
			return
		}
		roomTypeID = &id
	}

	guests := 0
	if raw := c.Query("guests"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid guests"})
			return
		}
		guests = n
	}

	results, err := h.store.Availability(c.Request.Context(), roomTypeID, checkIn, checkOut, guests)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"check_in":   checkIn,
		"check_out":  checkOut,
		"room_types": results,
	})
}
