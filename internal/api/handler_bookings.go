package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-inventory-backend/internal/model"
	"hotel-inventory-backend/internal/store"
)

type paymentConfirmation struct {
	Method string `json:"method" binding:"required"`
	Ref    string `json:"ref" binding:"required"`
}

type createBookingRequest struct {
	HoldID      string        `json:"hold_id" binding:"required"`
	Guests      []model.Guest `json:"guest_info" binding:"required,min=1"`
	VoucherCode string        `json:"voucher_code"`
	TotalAmount float64       `json:"total_amount"`
	// Payment is present when the payment step already completed; the
	// booking is then created Confirmed instead of PendingPayment.
	Payment *paymentConfirmation `json:"payment_confirmation"`
}

// PostBooking handles POST /api/bookings: convert a hold into a booking.
func (h *Handler) PostBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := store.ConvertHoldInput{
		HoldID:      req.HoldID,
		Guests:      req.Guests,
		VoucherCode: req.VoucherCode,
		TotalAmount: req.TotalAmount,
	}
	if req.Payment != nil {
		in.PaymentConfirmed = true
		in.PaymentMethod = req.Payment.Method
		in.PaymentRef = req.Payment.Ref
	}

	booking, err := h.store.ConvertHold(c.Request.Context(), in)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

type confirmBookingRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	PaymentID     string `json:"payment_id" binding:"required"`
}

// PostBookingConfirm handles POST /api/bookings/:booking_id/confirm:
// PendingPayment -> Confirmed after the external payment succeeds. The
// ledger does not change; it moved to booked at conversion time.
func (h *Handler) PostBookingConfirm(c *gin.Context) {
	var req confirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.store.ConfirmBooking(c.Request.Context(), c.Param("booking_id"), req.PaymentMethod, req.PaymentID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// PostBookingCancel handles POST /api/bookings/:booking_id/cancel,
// re-crediting the booking's capacity to the ledger.
func (h *Handler) PostBookingCancel(c *gin.Context) {
	if err := h.store.CancelBooking(c.Request.Context(), c.Param("booking_id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetBooking handles GET /api/bookings/:booking_id.
func (h *Handler) GetBooking(c *gin.Context) {
	booking, err := h.store.GetBooking(c.Request.Context(), c.Param("booking_id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}
