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

// CreateHold reserves one unit of capacity on every night of the stay, all
// or nothing. A session resubmitting the identical stay gets its existing
// active hold back; any other active hold owned by the session is released
// first, so a session never accumulates reservations it abandoned
// client-side.
func (s *gormStore) CreateHold(ctx context.Context, sessionID string, roomTypeID int64, checkIn, checkOut string) (*model.Hold, error) {
	nights, err := s.validateStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var result model.Hold

	err = s.withRetry(ctx, func(tx *gorm.DB) error {
		var rt model.RoomType
		if err := tx.First(&rt, roomTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomTypeNotFound
			}
			return fmt.Errorf("load room type: %w", err)
		}

		var existing []model.Hold
		if err := forUpdate(tx).
			Where("session_id = ? AND status = ?", sessionID, model.HoldStatusActive).
			Find(&existing).Error; err != nil {
			return fmt.Errorf("load session holds: %w", err)
		}

		for i := range existing {
			h := &existing[i]
			if h.RoomTypeID == roomTypeID && h.CheckIn == checkIn && h.CheckOut == checkOut && h.ExpiresAt.After(now) {
				// Identical resubmission (e.g. a page reload): hand back the
				// live hold instead of stacking a second reservation.
				result = *h
				return nil
			}
			// The session moved on to a different selection; release the old
			// capacity before taking new capacity.
			to := model.HoldStatusCancelled
			if !h.ExpiresAt.After(now) {
				to = model.HoldStatusExpired
			}
			if _, err := s.releaseHoldTx(tx, h, to); err != nil {
				return err
			}
		}

		days, err := lockInventoryDays(tx, roomTypeID, nights, rt.DefaultAllotment)
		if err != nil {
			return err
		}
		for _, d := range days {
			if d.Available() < 1 {
				return ErrInsufficientInventory
			}
		}

		if err := reserveTentative(tx, roomTypeID, nights); err != nil {
			return err
		}

		hold := model.Hold{
			ID:         uuid.New().String(),
			SessionID:  sessionID,
			RoomTypeID: roomTypeID,
			CheckIn:    checkIn,
			CheckOut:   checkOut,
			Status:     model.HoldStatusActive,
			CreatedAt:  now,
			ExpiresAt:  now.Add(s.holdTTL),
		}
		if err := tx.Create(&hold).Error; err != nil {
			return fmt.Errorf("create hold: %w", err)
		}

		result = hold
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CancelHold releases an active hold's capacity and marks it cancelled.
// Cancelling an already-resolved hold is a no-op success so duplicate
// client requests are harmless.
func (s *gormStore) CancelHold(ctx context.Context, holdID string) error {
	return s.withRetry(ctx, func(tx *gorm.DB) error {
		var hold model.Hold
		if err := tx.First(&hold, "id = ?", holdID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHoldNotFound
			}
			return fmt.Errorf("load hold: %w", err)
		}
		if hold.Status != model.HoldStatusActive {
			return nil
		}
		_, err := s.releaseHoldTx(tx, &hold, model.HoldStatusCancelled)
		return err
	})
}

// ExpireDueHolds returns the IDs of active holds whose TTL has elapsed.
// Each one is then released individually via ExpireHold so a single
// contended hold cannot stall the whole sweep.
func (s *gormStore) ExpireDueHolds(ctx context.Context, limit int) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&model.Hold{}).
		Where("status = ? AND expires_at <= ?", model.HoldStatusActive, s.clock.Now()).
		Order("expires_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("find due holds: %w", err)
	}
	return ids, nil
}

// ExpireHold releases one overdue hold and marks it expired. Returns false
// when the hold was already resolved (typically a conversion that won the
// race) or is not yet due.
func (s *gormStore) ExpireHold(ctx context.Context, holdID string) (bool, error) {
	var released bool
	err := s.withRetry(ctx, func(tx *gorm.DB) error {
		released = false

		var hold model.Hold
		if err := tx.First(&hold, "id = ?", holdID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHoldNotFound
			}
			return fmt.Errorf("load hold: %w", err)
		}
		if hold.Status != model.HoldStatusActive || hold.ExpiresAt.After(s.clock.Now()) {
			return nil
		}

		ok, err := s.releaseHoldTx(tx, &hold, model.HoldStatusExpired)
		if err != nil {
			return err
		}
		released = ok
		return nil
	})
	return released, err
}

// reserveTentative increments tentative_count on every night of a stay.
// The rows were locked and capacity-checked just before, so an affected-row
// shortfall means the ledger lost rows mid-transaction; the hold must not
// commit partially accounted for.
func reserveTentative(tx *gorm.DB, roomTypeID int64, nights []string) error {
	inc := tx.Model(&model.InventoryDay{}).
		Where("room_type_id = ? AND date IN ?", roomTypeID, nights).
		Updates(map[string]any{"tentative_count": gorm.Expr("tentative_count + 1")})
	if inc.Error != nil {
		return fmt.Errorf("reserve tentative capacity: %w", inc.Error)
	}
	if inc.RowsAffected != int64(len(nights)) {
		log.Printf("ERROR: ledger mismatch reserving room_type=%d: expected %d tentative increments, got %d",
			roomTypeID, len(nights), inc.RowsAffected)
		return fmt.Errorf("ledger mismatch reserving capacity for room_type=%d", roomTypeID)
	}
	return nil
}

// releaseHoldTx flips an active hold to the given terminal status and
// re-credits its tentative capacity, inside the caller's transaction.
// The conditional status update decides the winner when a release races a
// conversion; the loser sees zero affected rows and must not touch the
// ledger. Returns false when this call lost that race.
func (s *gormStore) releaseHoldTx(tx *gorm.DB, hold *model.Hold, to model.HoldStatus) (bool, error) {
	nights, err := dates.Nights(hold.CheckIn, hold.CheckOut)
	if err != nil {
		return false, fmt.Errorf("expand hold nights: %w", err)
	}

	if _, err := lockStayDays(tx, hold.RoomTypeID, nights); err != nil {
		return false, err
	}

	res := tx.Model(&model.Hold{}).
		Where("id = ? AND status = ?", hold.ID, model.HoldStatusActive).
		Updates(map[string]any{"status": to})
	if res.Error != nil {
		return false, fmt.Errorf("resolve hold: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	dec := tx.Model(&model.InventoryDay{}).
		Where("room_type_id = ? AND date IN ? AND tentative_count > 0", hold.RoomTypeID, nights).
		Updates(map[string]any{"tentative_count": gorm.Expr("tentative_count - 1")})
	if dec.Error != nil {
		return false, fmt.Errorf("release tentative capacity: %w", dec.Error)
	}
	if dec.RowsAffected != int64(len(nights)) {
		// The hold's capacity was not fully accounted for in the ledger.
		log.Printf("ERROR: ledger mismatch releasing hold %s: expected %d tentative decrements, got %d",
			hold.ID, len(nights), dec.RowsAffected)
	}

	hold.Status = to
	return true, nil
}

// lockStayDays locks the existing ledger rows for a stay without creating
// missing ones; release paths only ever touch rows the hold already
// incremented.
func lockStayDays(tx *gorm.DB, roomTypeID int64, nights []string) ([]model.InventoryDay, error) {
	var days []model.InventoryDay
	if err := forUpdate(tx).
		Where("room_type_id = ? AND date IN ?", roomTypeID, nights).
		Order("date ASC").
		Find(&days).Error; err != nil {
		return nil, fmt.Errorf("lock inventory days: %w", err)
	}
	if len(days) != len(nights) {
		log.Printf("ERROR: %d of %d inventory days missing for room_type=%d range %s..%s",
			len(nights)-len(days), len(nights), roomTypeID, nights[0], nights[len(nights)-1])
	}
	return days, nil
}
