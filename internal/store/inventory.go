package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hotel-inventory-backend/internal/dates"
	"hotel-inventory-backend/internal/model"
)

// SetAllotment applies an administrative allotment edit to every given
// date. The edit is all-or-nothing: if any date's existing demand
// (booked + tentative) exceeds the requested allotment, nothing changes
// and the error lists every conflicting date.
func (s *gormStore) SetAllotment(ctx context.Context, roomTypeID int64, nights []string, allotment int) error {
	if allotment < 0 {
		return fmt.Errorf("%w: allotment must be non-negative", ErrInvalidDateRange)
	}
	if len(nights) == 0 {
		return ErrInvalidDateRange
	}
	for _, night := range nights {
		if _, err := dates.Parse(night); err != nil {
			return ErrInvalidDateRange
		}
	}

	return s.withRetry(ctx, func(tx *gorm.DB) error {
		var rt model.RoomType
		if err := tx.First(&rt, roomTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return fmt.Errorf("load room type: %w", err)
		}

		days, err := lockInventoryDays(tx, roomTypeID, nights, rt.DefaultAllotment)
		if err != nil {
			return err
		}

		var conflicts []AllotmentConflict
		for _, d := range days {
			if d.BookedCount+d.TentativeCount > allotment {
				conflicts = append(conflicts, AllotmentConflict{
					Date:           d.Date,
					BookedCount:    d.BookedCount,
					TentativeCount: d.TentativeCount,
				})
			}
		}
		if len(conflicts) > 0 {
			return &AllotmentError{Requested: allotment, Conflicts: conflicts}
		}

		if err := tx.Model(&model.InventoryDay{}).
			Where("room_type_id = ? AND date IN ?", roomTypeID, nights).
			Updates(map[string]any{"allotment": allotment}).Error; err != nil {
			return fmt.Errorf("update allotment: %w", err)
		}
		return nil
	})
}

// CreateRoomType registers a new sellable room category.
func (s *gormStore) CreateRoomType(ctx context.Context, rt *model.RoomType) error {
	if rt.DefaultAllotment < 0 {
		return fmt.Errorf("default allotment must be non-negative")
	}
	if err := s.db.WithContext(ctx).Create(rt).Error; err != nil {
		return fmt.Errorf("create room type: %w", err)
	}
	return nil
}

// ListRoomTypes returns all room types ordered by ID.
func (s *gormStore) ListRoomTypes(ctx context.Context) ([]model.RoomType, error) {
	var roomTypes []model.RoomType
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&roomTypes).Error; err != nil {
		return nil, fmt.Errorf("list room types: %w", err)
	}
	return roomTypes, nil
}
