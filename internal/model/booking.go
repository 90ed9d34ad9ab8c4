package model

import "time"

// BookingStatus is the lifecycle state of a durable booking. Only
// PendingPayment, Confirmed and Cancelled are mutated by this engine;
// the later states belong to check-in/checkout flows that merely read
// the ledger.
type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusCheckedIn      BookingStatus = "checked_in"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusNoShow         BookingStatus = "no_show"
)

// Guest holds the per-person details captured at conversion time.
type Guest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Booking is a durable reservation created by converting a hold (1:1).
// While in PendingPayment or Confirmed it accounts for one unit of
// booked_count on every InventoryDay in its stay range.
type Booking struct {
	ID            string        `gorm:"primaryKey;size:36" json:"booking_id"`
	HoldID        string        `gorm:"uniqueIndex;size:36;not null" json:"hold_id"`
	SessionID     string        `gorm:"size:64" json:"session_id"`
	RoomTypeID    int64         `gorm:"not null" json:"room_type_id"`
	CheckIn       string        `gorm:"size:10;not null" json:"check_in"`
	CheckOut      string        `gorm:"size:10;not null" json:"check_out"`
	Guests        []Guest       `gorm:"serializer:json" json:"guests"`
	VoucherCode   string        `gorm:"size:64" json:"voucher_code,omitempty"`
	TotalAmount   float64       `gorm:"not null;default:0" json:"total_amount"`
	Status        BookingStatus `gorm:"size:20;not null;index" json:"status"`
	PaymentMethod string        `gorm:"size:32" json:"payment_method,omitempty"`
	PaymentRef    string        `gorm:"size:128" json:"payment_ref,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"-"`
}
