package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hotel-inventory-backend/internal/dates"
	"hotel-inventory-backend/internal/model"
)

// ConvertHoldInput carries everything needed to turn a hold into a booking.
type ConvertHoldInput struct {
	HoldID      string
	Guests      []model.Guest
	VoucherCode string
	TotalAmount float64
	// PaymentConfirmed is set when the payment step already completed
	// synchronously; the booking then starts out Confirmed instead of
	// PendingPayment.
	PaymentConfirmed bool
	PaymentMethod    string
	PaymentRef       string
}

// ConvertHold atomically turns a still-valid hold into a booking, moving
// its capacity from the tentative bucket to the booked bucket. The hold's
// liveness is re-checked under the same locks that mutate the ledger, which
// closes the race against the expiry sweeper: whichever side flips the
// hold's status first wins, and the loser leaves the ledger untouched.
func (s *gormStore) ConvertHold(ctx context.Context, in ConvertHoldInput) (*model.Booking, error) {
	var result model.Booking

	err := s.withRetry(ctx, func(tx *gorm.DB) error {
		var hold model.Hold
		if err := tx.First(&hold, "id = ?", in.HoldID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHoldNotFound
			}
			return fmt.Errorf("load hold: %w", err)
		}
		if hold.Status != model.HoldStatusActive {
			return ErrHoldAlreadyResolved
		}

		nights, err := dates.Nights(hold.CheckIn, hold.CheckOut)
		if err != nil {
			return fmt.Errorf("expand hold nights: %w", err)
		}
		if _, err := lockStayDays(tx, hold.RoomTypeID, nights); err != nil {
			return err
		}

		if !hold.ExpiresAt.After(s.clock.Now()) {
			// The TTL lapsed but the sweeper has not visited yet. Release the
			// capacity here rather than leaving it stranded until the next
			// sweep; the client restarts the flow either way.
			if _, err := s.releaseHoldTx(tx, &hold, model.HoldStatusExpired); err != nil {
				return err
			}
			return ErrHoldExpired
		}

		res := tx.Model(&model.Hold{}).
			Where("id = ? AND status = ?", hold.ID, model.HoldStatusActive).
			Updates(map[string]any{"status": model.HoldStatusConverted})
		if res.Error != nil {
			return fmt.Errorf("convert hold: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrHoldAlreadyResolved
		}

		// Capacity changes ownership bucket; the allotment and the
		// booked+tentative sum are both unchanged.
		move := tx.Model(&model.InventoryDay{}).
			Where("room_type_id = ? AND date IN ? AND tentative_count > 0", hold.RoomTypeID, nights).
			Updates(map[string]any{
				"tentative_count": gorm.Expr("tentative_count - 1"),
				"booked_count":    gorm.Expr("booked_count + 1"),
			})
		if move.Error != nil {
			return fmt.Errorf("move capacity to booked: %w", move.Error)
		}
		if move.RowsAffected != int64(len(nights)) {
			log.Printf("ERROR: ledger mismatch converting hold %s: expected %d capacity moves, got %d",
				hold.ID, len(nights), move.RowsAffected)
			return fmt.Errorf("ledger mismatch converting hold %s", hold.ID)
		}

		status := model.BookingStatusPendingPayment
		if in.PaymentConfirmed {
			status = model.BookingStatusConfirmed
		}

		booking := model.Booking{
			ID:            uuid.New().String(),
			HoldID:        hold.ID,
			SessionID:     hold.SessionID,
			RoomTypeID:    hold.RoomTypeID,
			CheckIn:       hold.CheckIn,
			CheckOut:      hold.CheckOut,
			Guests:        in.Guests,
			VoucherCode:   in.VoucherCode,
			TotalAmount:   in.TotalAmount,
			Status:        status,
			PaymentMethod: in.PaymentMethod,
			PaymentRef:    in.PaymentRef,
			CreatedAt:     s.clock.Now(),
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmBooking transitions a PendingPayment booking to Confirmed after
// the external payment step succeeds. The ledger already moved to booked at
// conversion time, so no capacity changes here. Confirming an already
// confirmed booking is a no-op success.
func (s *gormStore) ConfirmBooking(ctx context.Context, bookingID, paymentMethod, paymentRef string) (*model.Booking, error) {
	var result model.Booking

	err := s.withRetry(ctx, func(tx *gorm.DB) error {
		var booking model.Booking
		if err := forUpdate(tx).First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		switch booking.Status {
		case model.BookingStatusConfirmed:
			result = booking
			return nil
		case model.BookingStatusPendingPayment:
		default:
			return ErrBookingNotPending
		}

		updates := map[string]any{
			"status":         model.BookingStatusConfirmed,
			"payment_method": paymentMethod,
			"payment_ref":    paymentRef,
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("confirm booking: %w", err)
		}

		result = booking
		result.Status = model.BookingStatusConfirmed
		result.PaymentMethod = paymentMethod
		result.PaymentRef = paymentRef
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelBooking releases a booking's capacity back to the ledger. Valid
// only for Confirmed or PendingPayment bookings strictly before check-in;
// the refund calculation is the payment system's problem, the capacity
// release is ours.
func (s *gormStore) CancelBooking(ctx context.Context, bookingID string) error {
	return s.withRetry(ctx, func(tx *gorm.DB) error {
		var booking model.Booking
		if err := tx.First(&booking, "id = ?", bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}

		if booking.Status != model.BookingStatusConfirmed && booking.Status != model.BookingStatusPendingPayment {
			return ErrBookingNotCancellable
		}
		if dates.Format(s.clock.Now()) >= booking.CheckIn {
			return ErrBookingNotCancellable
		}

		nights, err := dates.Nights(booking.CheckIn, booking.CheckOut)
		if err != nil {
			return fmt.Errorf("expand booking nights: %w", err)
		}
		if _, err := lockStayDays(tx, booking.RoomTypeID, nights); err != nil {
			return err
		}

		res := tx.Model(&model.Booking{}).
			Where("id = ? AND status IN ?", booking.ID,
				[]model.BookingStatus{model.BookingStatusConfirmed, model.BookingStatusPendingPayment}).
			Updates(map[string]any{"status": model.BookingStatusCancelled})
		if res.Error != nil {
			return fmt.Errorf("cancel booking: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrBookingNotCancellable
		}

		dec := tx.Model(&model.InventoryDay{}).
			Where("room_type_id = ? AND date IN ? AND booked_count > 0", booking.RoomTypeID, nights).
			Updates(map[string]any{"booked_count": gorm.Expr("booked_count - 1")})
		if dec.Error != nil {
			return fmt.Errorf("release booked capacity: %w", dec.Error)
		}
		if dec.RowsAffected != int64(len(nights)) {
			log.Printf("ERROR: ledger mismatch cancelling booking %s: expected %d booked decrements, got %d",
				booking.ID, len(nights), dec.RowsAffected)
		}
		return nil
	})
}

// GetBooking returns a booking by ID.
func (s *gormStore) GetBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	var booking model.Booking
	if err := s.db.WithContext(ctx).First(&booking, "id = ?", bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return &booking, nil
}
