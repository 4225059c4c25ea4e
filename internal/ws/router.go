package ws

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/playmatatu/matchmaker/internal/game"
)

// Inbound frame types
const (
	TypeChat           = "CHAT"
	TypePresenceQuery  = "PRESENCE_QUERY"
	TypeMatchRequest   = "MATCH_REQUEST"
	TypeAcceptResponse = "ACCEPT_RESPONSE"
)

const requestTimeout = 5 * time.Second

type envelope struct {
	Type string `json:"type"`
}

type chatFrame struct {
	Message string `json:"message"`
}

type acceptFrame struct {
	RoomID     string          `json:"roomId"`
	Acceptance game.Acceptance `json:"acceptance"`
}

// ChatMessage is the outbound CHAT frame.
type ChatMessage struct {
	Type    string `json:"type"`
	From    string `json:"from"`
	Message string `json:"message"`
}

// Router dispatches inbound frames by type.
type Router struct {
	hub         *Hub
	coordinator *game.Coordinator
	presence    *game.Presence
}

func NewRouter(hub *Hub, coordinator *game.Coordinator, presence *game.Presence) *Router {
	return &Router{hub: hub, coordinator: coordinator, presence: presence}
}

// Dispatch handles one raw frame from c. Anything it cannot act on yields a
// single ERROR frame to c.
func (r *Router) Dispatch(c *Client, raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		r.reply(c, game.NewInvalidRequest("malformed frame"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch env.Type {
	case TypeChat:
		var f chatFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			r.reply(c, game.NewInvalidRequest("malformed chat frame"))
			return
		}
		if strings.TrimSpace(f.Message) == "" {
			r.reply(c, game.NewInvalidRequest("chat message required"))
			return
		}
		r.hub.Broadcast(ChatMessage{Type: TypeChat, From: c.identity.Nickname, Message: f.Message}, c.identity.ID)

	case TypePresenceQuery:
		r.presence.Push(ctx, c.identity)

	case TypeMatchRequest:
		var req game.MatchRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			r.reply(c, game.NewInvalidRequest("malformed match request"))
			return
		}
		if _, err := r.coordinator.CreateMatch(ctx, c.identity, req); err != nil {
			r.reply(c, game.NewErrorMessage(err))
		}

	case TypeAcceptResponse:
		var f acceptFrame
		if err := json.Unmarshal(raw, &f); err != nil {
			r.reply(c, game.NewInvalidRequest("malformed accept response"))
			return
		}
		if f.RoomID == "" {
			r.reply(c, game.NewInvalidRequest("roomId required"))
			return
		}
		if err := r.coordinator.HandleResponse(ctx, c.identity, f.RoomID, f.Acceptance); err != nil {
			r.reply(c, game.NewErrorMessage(err))
		}

	case "":
		r.reply(c, game.NewInvalidRequest("missing type"))

	default:
		r.reply(c, game.NewInvalidRequest("unknown message type "+env.Type))
	}
}

func (r *Router) reply(c *Client, msg game.ErrorMessage) {
	if err := c.Send(msg); err != nil {
		log.Printf("[WS] error reply to %s dropped: %v", c.identity.Nickname, err)
	}
}
