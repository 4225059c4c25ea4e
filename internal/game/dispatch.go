package game

import (
	"github.com/playmatatu/matchmaker/internal/identity"
)

// Outbound frame types
const (
	TypeInvitation    = "INVITATION"
	TypeInfo          = "INFO"
	TypeStartMatch    = "STARTMATCH"
	TypeCancelMatch   = "CANCELMATCH"
	TypeError         = "ERROR"
	TypeOnlineFriends = "ONLINE_FRIENDS"
)

// PlayerView is the wire form of a seat. It carries plain data only.
type PlayerView struct {
	ID         int64      `json:"id,omitempty"`
	Nick       string     `json:"nick"`
	AI         bool       `json:"ai"`
	Seat       int        `json:"seat"`
	Acceptance Acceptance `json:"acceptance"`
}

// RosterMessage is used for both INVITATION and STARTMATCH.
type RosterMessage struct {
	Type         string       `json:"type"`
	RoomID       string       `json:"roomId"`
	Players      []PlayerView `json:"players"`
	GameMode     GameMode     `json:"gameMode"`
	OpponentMode OpponentMode `json:"opponentMode"`
}

type InfoMessage struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type CancelMessage struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type OnlineFriendsMessage struct {
	Type          string              `json:"type"`
	OnlineFriends []identity.Identity `json:"onlineFriends"`
}

// SanitizeRoster converts seats to their wire form
func SanitizeRoster(players []Participant) []PlayerView {
	views := make([]PlayerView, 0, len(players))
	for _, p := range players {
		v := PlayerView{
			Nick:       p.Identity.Nickname,
			AI:         p.AI,
			Seat:       p.Seat,
			Acceptance: p.Acceptance,
		}
		if !p.AI {
			v.ID = p.Identity.ID
		}
		views = append(views, v)
	}
	return views
}

func invitationMessage(room *Room, players []Participant) RosterMessage {
	return rosterMessage(TypeInvitation, room, players)
}

func startMatchMessage(room *Room, players []Participant) RosterMessage {
	return rosterMessage(TypeStartMatch, room, players)
}

func rosterMessage(kind string, room *Room, players []Participant) RosterMessage {
	return RosterMessage{
		Type:         kind,
		RoomID:       room.ID,
		Players:      SanitizeRoster(players),
		GameMode:     room.GameMode,
		OpponentMode: room.OpponentMode,
	}
}

func infoMessage(roomID, text string) InfoMessage {
	return InfoMessage{Type: TypeInfo, RoomID: roomID, Message: text}
}

func cancelMatchMessage(roomID, reason string) CancelMessage {
	if reason == "" {
		reason = "match cancelled"
	}
	return CancelMessage{Type: TypeCancelMatch, RoomID: roomID, Message: reason}
}

// NewErrorMessage builds the ERROR frame for err.
func NewErrorMessage(err error) ErrorMessage {
	code := ErrorCode(err)
	// infrastructure failures are not echoed to clients
	msg := "internal error"
	if code != CodeInternal {
		msg = err.Error()
	}
	return ErrorMessage{Type: TypeError, Code: code, Message: msg}
}

// NewInvalidRequest wraps a validation failure.
func NewInvalidRequest(reason string) ErrorMessage {
	return ErrorMessage{Type: TypeError, Code: CodeInvalidRequest, Message: ErrInvalidRequest.Error() + ": " + reason}
}
