package store

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"hotel-inventory-backend/internal/model"
)

func TestAvailability_MinOverStay(t *testing.T) {
	s, db, _ := newTestStore(t)
	rtID := seedRoomType(t, db, 4)
	ctx := context.Background()

	// Night 2 is the bottleneck: 4 - 2 booked - 1 tentative = 1 free.
	require.NoError(t, db.Create(&model.InventoryDay{
		RoomTypeID: rtID, Date: "2025-06-11", Allotment: 4, BookedCount: 2, TentativeCount: 1,
	}).Error)

	results, err := s.Availability(ctx, nil, "2025-06-10", "2025-06-13", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, rtID, results[0].RoomTypeID)
	assert.Equal(t, 1, results[0].AvailableUnits)
}

func TestAvailability_MissingRowsUseDefault(t *testing.T) {
	s, db, _ := newTestStore(t)
	rtID := seedRoomType(t, db, 4)

	results, err := s.Availability(context.Background(), &rtID, "2025-06-10", "2025-06-12", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 4, results[0].AvailableUnits)
}

func TestAvailability_GuestsFilter(t *testing.T) {
	s, db, _ := newTestStore(t)
	seedRoomType(t, db, 4) // MaxGuests is 2

	results, err := s.Availability(context.Background(), nil, "2025-06-10", "2025-06-11", 3)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAvailability_Validation(t *testing.T) {
	s, db, _ := newTestStore(t)
	rtID := seedRoomType(t, db, 4)
	ctx := context.Background()

	_, err := s.Availability(ctx, nil, "2025-06-12", "2025-06-10", 0)
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = s.Availability(ctx, nil, "2025-05-01", "2025-06-10", 0)
	assert.ErrorIs(t, err, ErrPastDate)

	missing := rtID + 999
	_, err = s.Availability(ctx, &missing, "2025-06-10", "2025-06-11", 0)
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)
}

func TestAvailability_IsPureRead(t *testing.T) {
	s, db, _ := newTestStore(t)
	rtID := seedRoomType(t, db, 4)

	_, err := s.Availability(context.Background(), &rtID, "2025-06-10", "2025-06-12", 0)
	require.NoError(t, err)

	// The read path must not create ledger rows.
	var count int64
	require.NoError(t, db.Model(&model.InventoryDay{}).Count(&count).Error)
	assert.Zero(t, count)
}

// A helper function to create a mock database connection.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// The read path against the postgres driver issues exactly two SELECTs and
// nothing else: no transaction, no locks, no writes.
func TestAvailability_PostgresQueryShape(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB, newFakeClock(baseTime))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "room_types"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "max_guests", "default_allotment", "base_rate"}).
			AddRow(1, "Double Deluxe", 2, 3, 120))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "inventory_days"`)).
		WillReturnRows(sqlmock.NewRows([]string{"room_type_id", "date", "allotment", "booked_count", "tentative_count"}).
			AddRow(1, "2025-06-10", 3, 1, 1))

	results, err := s.Availability(context.Background(), nil, "2025-06-10", "2025-06-12", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	// Night one has 1 free, night two falls back to the default allotment.
	assert.Equal(t, 1, results[0].AvailableUnits)

	assert.NoError(t, mock.ExpectationsWereMet())
}
