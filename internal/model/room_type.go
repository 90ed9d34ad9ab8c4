package model

import "time"

// RoomType represents a sellable category of rooms (e.g. "Double Deluxe").
type RoomType struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	MaxGuests   int    `gorm:"not null;default:2" json:"max_guests"`
	// DefaultAllotment seeds lazily created InventoryDay rows for dates
	// that have never been referenced.
	DefaultAllotment int       `gorm:"not null" json:"default_allotment"`
	BaseRate         float64   `gorm:"not null;default:0" json:"base_rate"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}
