package api

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-inventory-backend/config"
	"hotel-inventory-backend/internal/model"
	"hotel-inventory-backend/internal/store"
)

func TestPostHold_CreatesHold(t *testing.T) {
	router, _ := setupTestServer(t)
	rtID := createRoomType(t, router, 5)

	hold := createHold(t, router, "sess-1", rtID, "2025-06-10", "2025-06-12")

	assert.NotEmpty(t, hold["hold_id"])
	assert.Equal(t, "sess-1", hold["session_id"])
	assert.Equal(t, "active", hold["status"])
	assert.NotEmpty(t, hold["expires_at"])
}

func TestPostHold_GeneratesSessionID(t *testing.T) {
	router, _ := setupTestServer(t)
	rtID := createRoomType(t, router, 5)

	w := doJSON(t, router, http.MethodPost, "/api/holds", gin.H{
		"room_type_id": rtID,
		"check_in":     "2025-06-10",
		"check_out":    "2025-06-12",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decodeBody(t, w)["session_id"])
}

func TestPostHold_RepeatForSameStayReturnsSameHold(t *testing.T) {
	router, _ := setupTestServer(t)
	rtID := createRoomType(t, router, 5)

	first := createHold(t, router, "sess-1", rtID, "2025-06-10", "2025-06-12")
	second := createHold(t, router, "sess-1", rtID, "2025-06-10", "2025-06-12")

	assert.Equal(t, first["hold_id"], second["hold_id"])
}

func TestPostHold_InsufficientInventory(t *testing.T) {
	router, _ := setupTestServer(t)
	rtID := createRoomType(t, router, 1)

	createHold(t, router, "sess-1", rtID, "2025-06-10", "2025-06-12")

	w := doJSON(t, router, http.MethodPost, "/api/holds", gin.H{
		"session_id":   "sess-2",
		"room_type_id": rtID,
		"check_in":     "2025-06-10",
		"check_out":    "2025-06-12",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "insufficient")
}

func TestPostHold_BadRequests(t *testing.T) {
	router, _ := setupTestServer(t)
	rtID := createRoomType(t, router, 5)

	cases := []struct {
		name string
		body gin.H
		want int
	}{
		{"missing room type field", gin.H{"check_in": "2025-06-10", "check_out": "2025-06-12"}, http.StatusBadRequest},
		{"inverted range", gin.H{"room_type_id": rtID, "check_in": "2025-06-12", "check_out": "2025-06-10"}, http.StatusBadRequest},
		{"past check-in", gin.H{"room_type_id": rtID, "check_in": "2025-05-01", "check_out": "2025-05-03"}, http.StatusBadRequest},
		{"unknown room type", gin.H{"room_type_id": int64(9999), "check_in": "2025-06-10", "check_out": "2025-06-12"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/holds", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestPostHoldCancel(t *testing.T) {
	router, _ := setupTestServer(t)
	rtID := createRoomType(t, router, 1)

	hold := createHold(t, router, "sess-1", rtID, "2025-06-10", "2025-06-12")
	holdID := hold["hold_id"].(string)

	w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/holds/%s/cancel", holdID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Idempotent: a duplicate cancel still reports success.
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/holds/%s/cancel", holdID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Capacity came back for other sessions.
	createHold(t, router, "sess-2", rtID, "2025-06-10", "2025-06-12")
}

// contendedStore simulates a store whose retry budget is exhausted by lock
// contention.
type contendedStore struct {
	store.Store
}

func (contendedStore) CreateHold(ctx context.Context, sessionID string, roomTypeID int64, checkIn, checkOut string) (*model.Hold, error) {
	return nil, store.ErrBusy
}

func TestPostHold_ContentionMapsToServiceUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(contendedStore{}, &config.ServerConfig{
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
		CacheTTLSeconds: 1,
	})

	w := doJSON(t, router, http.MethodPost, "/api/holds", gin.H{
		"session_id":   "sess-1",
		"room_type_id": int64(1),
		"check_in":     "2025-06-10",
		"check_out":    "2025-06-12",
	})

	// Transient contention is the one retryable outcome: 503 plus a
	// Retry-After hint rather than a conflict the client must re-flow.
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestPostHoldCancel_NotFound(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/holds/no-such-hold/cancel", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
