package store

import (
	"context"
	"fmt"

	"hotel-inventory-backend/internal/model"
)

// RoomAvailability is the read-path result for one room type: the number
// of units sellable for every night of the requested stay.
type RoomAvailability struct {
	RoomTypeID     int64   `json:"room_type_id"`
	Name           string  `json:"name"`
	MaxGuests      int     `json:"max_guests"`
	BaseRate       float64 `json:"base_rate"`
	AvailableUnits int     `json:"available_units"`
}

// Availability computes, per room type, min over all nights of
// allotment - booked - tentative. A room type is only sellable for the
// whole stay if every night has at least one free unit. Dates with no
// ledger row count as the room type's default allotment, fully free.
// Pure read: no locks, no writes.
func (s *gormStore) Availability(ctx context.Context, roomTypeID *int64, checkIn, checkOut string, guests int) ([]RoomAvailability, error) {
	nights, err := s.validateStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Order("id ASC")
	if roomTypeID != nil {
		q = q.Where("id = ?", *roomTypeID)
	}
	var roomTypes []model.RoomType
	if err := q.Find(&roomTypes).Error; err != nil {
		return nil, fmt.Errorf("load room types: %w", err)
	}
	if roomTypeID != nil && len(roomTypes) == 0 {
		return nil, ErrRoomTypeNotFound
	}

	typeIDs := make([]int64, len(roomTypes))
	for i, rt := range roomTypes {
		typeIDs[i] = rt.ID
	}

	var days []model.InventoryDay
	if err := s.db.WithContext(ctx).
		Where("room_type_id IN ? AND date IN ?", typeIDs, nights).
		Find(&days).Error; err != nil {
		return nil, fmt.Errorf("load inventory days: %w", err)
	}

	type dayKey struct {
		roomTypeID int64
		date       string
	}
	dayMap := make(map[dayKey]model.InventoryDay, len(days))
	for _, d := range days {
		dayMap[dayKey{d.RoomTypeID, d.Date}] = d
	}

	results := make([]RoomAvailability, 0, len(roomTypes))
	for _, rt := range roomTypes {
		if guests > 0 && rt.MaxGuests < guests {
			continue
		}

		available := -1
		for _, night := range nights {
			free := rt.DefaultAllotment
			if d, ok := dayMap[dayKey{rt.ID, night}]; ok {
				free = d.Available()
			}
			if free < 0 {
				free = 0
			}
			if available < 0 || free < available {
				available = free
			}
		}

		results = append(results, RoomAvailability{
			RoomTypeID:     rt.ID,
			Name:           rt.Name,
			MaxGuests:      rt.MaxGuests,
			BaseRate:       rt.BaseRate,
			AvailableUnits: available,
		})
	}
	return results, nil
}
