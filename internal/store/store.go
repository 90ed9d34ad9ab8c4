package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-inventory-backend/internal/clock"
	"hotel-inventory-backend/internal/dates"
	"hotel-inventory-backend/internal/model"
)

// Store defines the reservation engine's operations. Every mutation runs
// in a single transaction with row locks on the touched inventory_days,
// taken in ascending-date order.
type Store interface {
	DB() *gorm.DB

	Availability(ctx context.Context, roomTypeID *int64, checkIn, checkOut string, guests int) ([]RoomAvailability, error)

	CreateHold(ctx context.Context, sessionID string, roomTypeID int64, checkIn, checkOut string) (*model.Hold, error)
	CancelHold(ctx context.Context, holdID string) error
	ExpireDueHolds(ctx context.Context, limit int) ([]string, error)
	ExpireHold(ctx context.Context, holdID string) (bool, error)

	ConvertHold(ctx context.Context, in ConvertHoldInput) (*model.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID, paymentMethod, paymentRef string) (*model.Booking, error)
	CancelBooking(ctx context.Context, bookingID string) error
	GetBooking(ctx context.Context, bookingID string) (*model.Booking, error)

	SetAllotment(ctx context.Context, roomTypeID int64, nights []string, allotment int) error
	CreateRoomType(ctx context.Context, rt *model.RoomType) error
	ListRoomTypes(ctx context.Context) ([]model.RoomType, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db         *gorm.DB
	clock      clock.Clock
	holdTTL    time.Duration
	maxRetries int
}

const (
	defaultHoldTTL    = 15 * time.Minute
	defaultMaxRetries = 3
)

// Option customizes a Store.
type Option func(*gormStore)

// WithHoldTTL overrides the default 15 minute hold TTL.
func WithHoldTTL(d time.Duration) Option {
	return func(s *gormStore) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// WithMaxRetries bounds how often a transaction is retried on contention
// before the operation fails with ErrBusy.
func WithMaxRetries(n int) Option {
	return func(s *gormStore) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, clk clock.Clock, opts ...Option) Store {
	s := &gormStore{
		db:         db,
		clock:      clk,
		holdTTL:    defaultHoldTTL,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// validateStay checks the half-open range and expands it into nights.
func (s *gormStore) validateStay(checkIn, checkOut string) ([]string, error) {
	if _, err := dates.Parse(checkIn); err != nil {
		return nil, ErrInvalidDateRange
	}
	if _, err := dates.Parse(checkOut); err != nil {
		return nil, ErrInvalidDateRange
	}
	if checkOut <= checkIn {
		return nil, ErrInvalidDateRange
	}
	if checkIn < dates.Format(s.clock.Now()) {
		return nil, ErrPastDate
	}
	return dates.Nights(checkIn, checkOut)
}

// forUpdate adds a row-level lock on dialects that support it. SQLite holds
// a database-level write lock for the whole transaction, so the clause is
// redundant there and not valid syntax.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockInventoryDays creates any missing ledger rows for the given nights
// (seeded with the room type's default allotment) and returns all of them
// locked FOR UPDATE, ordered by ascending date. The stable lock order is
// what keeps two overlapping multi-night operations from deadlocking.
func lockInventoryDays(tx *gorm.DB, roomTypeID int64, nights []string, defaultAllotment int) ([]model.InventoryDay, error) {
	seed := make([]model.InventoryDay, len(nights))
	for i, night := range nights {
		seed[i] = model.InventoryDay{
			RoomTypeID: roomTypeID,
			Date:       night,
			Allotment:  defaultAllotment,
		}
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_type_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&seed).Error; err != nil {
		return nil, fmt.Errorf("seed inventory days: %w", err)
	}

	var days []model.InventoryDay
	if err := forUpdate(tx).
		Where("room_type_id = ? AND date IN ?", roomTypeID, nights).
		Order("date ASC").
		Find(&days).Error; err != nil {
		return nil, fmt.Errorf("lock inventory days: %w", err)
	}
	if len(days) != len(nights) {
		return nil, fmt.Errorf("expected %d inventory days, locked %d", len(nights), len(days))
	}

	for _, d := range days {
		if d.BookedCount < 0 || d.TentativeCount < 0 || d.BookedCount+d.TentativeCount > d.Allotment {
			// A bypassed transaction boundary, not a recoverable request error.
			log.Printf("ERROR: ledger invariant violated for room_type=%d date=%s: allotment=%d booked=%d tentative=%d",
				d.RoomTypeID, d.Date, d.Allotment, d.BookedCount, d.TentativeCount)
		}
	}
	return days, nil
}

// withRetry runs fn in a transaction, retrying with backoff on transient
// serialization/deadlock errors. After maxRetries the error surfaces as
// ErrBusy so callers know the request may simply be resubmitted.
func (s *gormStore) withRetry(ctx context.Context, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(20<<uint(attempt-1)) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		err = s.db.WithContext(ctx).Transaction(fn)
		if err == nil || !isRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrBusy, err)
}

// isRetryable reports whether err is transient lock contention.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
