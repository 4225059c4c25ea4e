package game

import (
	"errors"
)

// Request-rejected errors. They are reported to the requester only and never
// leave a room behind.
var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrPlayersBusy     = errors.New("players busy")
	ErrUnknownPlayer   = errors.New("unknown player")
	ErrNoConnection    = errors.New("player not connected")
	ErrRoomIDExhausted = errors.New("no free room id")
	ErrRoomNotFound    = errors.New("room not found")
	ErrNotInvited      = errors.New("not invited to this room")
	ErrRoomClosed      = errors.New("room no longer accepting responses")
	ErrShuttingDown    = errors.New("server shutting down")
)

// Wire codes carried by ERROR frames
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodePlayersBusy     = "PLAYERS_BUSY"
	CodeUnknownPlayer   = "UNKNOWN_PLAYER"
	CodeNoConnection    = "NO_CONNECTION"
	CodeRoomIDExhausted = "ROOM_ID_EXHAUSTED"
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeNotInvited      = "NOT_INVITED"
	CodeRoomClosed      = "ROOM_CLOSED"
	CodeShuttingDown    = "SHUTTING_DOWN"
	CodeInternal        = "INTERNAL"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrInvalidRequest, CodeInvalidRequest},
	{ErrPlayersBusy, CodePlayersBusy},
	{ErrUnknownPlayer, CodeUnknownPlayer},
	{ErrNoConnection, CodeNoConnection},
	{ErrRoomIDExhausted, CodeRoomIDExhausted},
	{ErrRoomNotFound, CodeRoomNotFound},
	{ErrNotInvited, CodeNotInvited},
	{ErrRoomClosed, CodeRoomClosed},
	{ErrShuttingDown, CodeShuttingDown},
}

// ErrorCode maps err to the code sent to the client.
func ErrorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}
