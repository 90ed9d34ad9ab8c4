package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"hotel-inventory-backend/config"
	"hotel-inventory-backend/internal/clock"
	"hotel-inventory-backend/internal/model"
	"hotel-inventory-backend/internal/store"
)

// Test "today" is pinned to 2025-06-01; stays all start later that month.
var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(
		&model.RoomType{},
		&model.InventoryDay{},
		&model.Hold{},
		&model.Booking{},
	))

	s := store.NewGormStore(db, clock.NewFixed(testNow))
	cfg := &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	}
	return NewRouter(s, cfg), db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createRoomType(t *testing.T, router *gin.Engine, defaultAllotment int) int64 {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/admin/room_types", gin.H{
		"name":              fmt.Sprintf("Double %d", time.Now().UnixNano()),
		"max_guests":        2,
		"default_allotment": defaultAllotment,
		"base_rate":         120,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int64(decodeBody(t, w)["id"].(float64))
}

func createHold(t *testing.T, router *gin.Engine, sessionID string, roomTypeID int64, checkIn, checkOut string) map[string]any {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/holds", gin.H{
		"session_id":   sessionID,
		"room_type_id": roomTypeID,
		"check_in":     checkIn,
		"check_out":    checkOut,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)
}
