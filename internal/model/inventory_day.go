package model

import "time"

// InventoryDay is the per (room type, date) capacity ledger and the only
// shared mutable state in the reservation engine. Invariant:
// booked_count + tentative_count <= allotment, both counts >= 0.
// Rows are created lazily on first reference and never deleted.
type InventoryDay struct {
	RoomTypeID int64 `gorm:"primaryKey;autoIncrement:false" json:"room_type_id"`
	// Date is stored as YYYY-MM-DD; fixed-width ISO keeps string ordering
	// identical to date ordering.
	Date           string    `gorm:"primaryKey;size:10" json:"date"`
	Allotment      int       `gorm:"not null" json:"allotment"`
	BookedCount    int       `gorm:"not null;default:0" json:"booked_count"`
	TentativeCount int       `gorm:"not null;default:0" json:"tentative_count"`
	UpdatedAt      time.Time `json:"-"`
}

// Available returns the number of units still sellable on this date.
func (d InventoryDay) Available() int {
	return d.Allotment - d.BookedCount - d.TentativeCount
}
