package model

import "time"

// HoldStatus is the lifecycle state of a hold. Active is the only
// non-terminal state; a hold is resolved exactly once.
type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusConverted HoldStatus = "converted"
	HoldStatusExpired   HoldStatus = "expired"
	HoldStatusCancelled HoldStatus = "cancelled"
)

// Hold is a time-boxed soft reservation of capacity for a shopping session.
// While Active it accounts for one unit of tentative_count on every
// InventoryDay in its stay range.
type Hold struct {
	ID         string `gorm:"primaryKey;size:36" json:"hold_id"`
	SessionID  string `gorm:"index;size:64;not null" json:"session_id"`
	RoomTypeID int64  `gorm:"not null" json:"room_type_id"`
	// Half-open stay range: [check_in, check_out).
	CheckIn   string     `gorm:"size:10;not null" json:"check_in"`
	CheckOut  string     `gorm:"size:10;not null" json:"check_out"`
	Status    HoldStatus `gorm:"size:16;not null;index:idx_holds_status_expires" json:"status"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	ExpiresAt time.Time  `gorm:"not null;index:idx_holds_status_expires" json:"expires_at"`
}
