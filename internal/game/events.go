package game

import (
	"context"
	"time"
)

// Match lifecycle event types published for the game-session service
const (
	EventRoomCreated    = "room_created"
	EventMatchStarted   = "match_started"
	EventMatchCancelled = "match_cancelled"
	EventMatchExpired   = "match_expired"
)

// MatchEvent is the hand-off record for the externally owned game session.
type MatchEvent struct {
	Type         string       `json:"type"`
	RoomID       string       `json:"room_id"`
	GameMode     GameMode     `json:"game_mode"`
	OpponentMode OpponentMode `json:"opponent_mode"`
	Players      []PlayerView `json:"players"`
	Reason       string       `json:"reason,omitempty"`
	At           time.Time    `json:"at"`
}

// EventPublisher delivers match events. Publication is best-effort.
type EventPublisher interface {
	PublishMatchEvent(ctx context.Context, evt MatchEvent) error
}

func newMatchEvent(kind string, room *Room, players []Participant, reason string) MatchEvent {
	return MatchEvent{
		Type:         kind,
		RoomID:       room.ID,
		GameMode:     room.GameMode,
		OpponentMode: room.OpponentMode,
		Players:      SanitizeRoster(players),
		Reason:       reason,
		At:           time.Now().UTC(),
	}
}
