package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/matchmaker/internal/game"
	"github.com/playmatatu/matchmaker/internal/ws"
)

type roomSummary struct {
	RoomID       string            `json:"roomId"`
	State        string            `json:"state"`
	GameMode     game.GameMode     `json:"gameMode"`
	OpponentMode game.OpponentMode `json:"opponentMode"`
	Initiator    string            `json:"initiator"`
	CreatedAt    time.Time         `json:"createdAt"`
	Players      []game.PlayerView `json:"players"`
}

// ListRooms returns the active rooms, oldest first
func ListRooms(store *game.RoomStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms := store.All()
		sort.Slice(rooms, func(i, j int) bool { return rooms[i].CreatedAt.Before(rooms[j].CreatedAt) })

		out := make([]roomSummary, 0, len(rooms))
		for _, r := range rooms {
			out = append(out, roomSummary{
				RoomID:       r.ID,
				State:        r.State().String(),
				GameMode:     r.GameMode,
				OpponentMode: r.OpponentMode,
				Initiator:    r.Initiator.Nickname,
				CreatedAt:    r.CreatedAt,
				Players:      game.SanitizeRoster(r.Players()),
			})
		}
		c.JSON(http.StatusOK, gin.H{"rooms": out, "count": len(out)})
	}
}

// OnlineCount reports how many identities hold a live channel
func OnlineCount(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"online": hub.Count()})
	}
}
