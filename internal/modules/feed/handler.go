package feed

import (
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// RegisterRoutes mounts the availability feed. The feed is read-only and
// carries no guest data, so it stays outside the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/availability", h.Availability)
}

// Availability upgrades the request and subscribes the client to the rooms
// named in the optional ?rooms=1,2 query. Further subscriptions arrive as
// {"type":"subscribe","room_id":N} messages.
func (h *Handler) Availability(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.hub.ServeWS(conn, parseRoomIDs(c.Query("rooms")))
}

func parseRoomIDs(raw string) []int64 {
	if raw == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
