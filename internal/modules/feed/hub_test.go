package feed

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialFeed(t *testing.T, hub *Hub, query string) *websocket.Conn {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(hub).RegisterRoutes(router.Group("/api/v1"))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/ws/availability" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *Hub, roomID int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		for c := range hub.connections {
			if c.rooms[roomID] {
				hub.mu.RUnlock()
				return
			}
		}
		hub.mu.RUnlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("no subscriber for room")
}

func TestHub_BroadcastsToSubscribedRoom(t *testing.T) {
	hub := NewHub()
	conn := dialFeed(t, hub, "?rooms=7")

	waitForSubscribers(t, hub, 7)
	hub.NotifyRoomChanged(7, "2024-12-23", "2024-12-27")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(msg, &event))
	assert.Equal(t, EventAvailabilityChanged, event.Type)
	assert.Equal(t, int64(7), event.RoomID)
	assert.Equal(t, "2024-12-23", event.CheckIn)
	assert.Equal(t, "2024-12-27", event.CheckOut)
}

func TestHub_SubscribeMessage(t *testing.T) {
	hub := NewHub()
	conn := dialFeed(t, hub, "")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "subscribe", "room_id": 3}))

	waitForSubscribers(t, hub, 3)
	hub.NotifyRoomChanged(3, "2025-01-02", "2025-01-05")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	require.NoError(t, conn.ReadJSON(&event))
	assert.Equal(t, int64(3), event.RoomID)
}

func TestHub_IgnoresOtherRooms(t *testing.T) {
	hub := NewHub()
	conn := dialFeed(t, hub, "?rooms=7")

	waitForSubscribers(t, hub, 7)
	hub.NotifyRoomChanged(99, "2024-12-23", "2024-12-27")

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err) // deadline hit, nothing delivered
}

func TestParseRoomIDs(t *testing.T) {
	assert.Nil(t, parseRoomIDs(""))
	assert.Equal(t, []int64{1, 2}, parseRoomIDs("1, 2"))
	assert.Equal(t, []int64{5}, parseRoomIDs("x,5,-1"))
}
