package game

import (
	"fmt"

	"github.com/playmatatu/matchmaker/internal/identity"
)

// RoomState is the invitation state machine:
//
//	FORMING -> AWAITING_ACCEPTANCE -> STARTING | CANCELLED | EXPIRED
type RoomState int

const (
	StateForming RoomState = iota
	StateAwaiting
	StateStarting
	StateCancelled
	StateExpired
)

func (s RoomState) String() string {
	switch s {
	case StateForming:
		return "FORMING"
	case StateAwaiting:
		return "AWAITING_ACCEPTANCE"
	case StateStarting:
		return "STARTING"
	case StateCancelled:
		return "CANCELLED"
	case StateExpired:
		return "EXPIRED"
	}
	return fmt.Sprintf("RoomState(%d)", int(s))
}

// Terminal reports whether the room is finished coordinating.
func (s RoomState) Terminal() bool {
	return s == StateStarting || s == StateCancelled || s == StateExpired
}

// Acceptance is a seat's answer to the invitation
type Acceptance string

const (
	AcceptancePending  Acceptance = "pending"
	AcceptanceAccepted Acceptance = "accepted"
	AcceptanceDeclined Acceptance = "declined"
)

// GameMode is forwarded untouched to the game session
type GameMode string

const (
	ModeBestOf GameMode = "bestof"
	ModeTimed  GameMode = "timed"
)

func (m GameMode) Valid() bool {
	return m == ModeBestOf || m == ModeTimed
}

// OpponentMode selects a match against AI seats or humans only
type OpponentMode string

const (
	OpponentSingle OpponentMode = "single"
	OpponentMulti  OpponentMode = "multi"
)

func (m OpponentMode) Valid() bool {
	return m == OpponentSingle || m == OpponentMulti
}

// Participant is one seat of a room. It never holds a channel: channels are
// resolved through the Registry at send time.
type Participant struct {
	Identity   identity.Identity
	AI         bool
	Seat       int
	Acceptance Acceptance
}

// PlayerRequest is one requested seat in a match request.
type PlayerRequest struct {
	Nick string `json:"nick"`
	AI   bool   `json:"ai"`
}

// MatchRequest asks for a new room.
type MatchRequest struct {
	Players      []PlayerRequest `json:"players"`
	GameMode     GameMode        `json:"gameMode"`
	OpponentMode OpponentMode    `json:"opponentMode"`
}
