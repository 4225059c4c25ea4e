package game_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/playmatatu/matchmaker/internal/game"
	"github.com/playmatatu/matchmaker/internal/identity"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("%w: bob", game.ErrPlayersBusy), game.CodePlayersBusy},
		{fmt.Errorf("%w: ghost", game.ErrUnknownPlayer), game.CodeUnknownPlayer},
		{game.ErrNoConnection, game.CodeNoConnection},
		{game.ErrRoomIDExhausted, game.CodeRoomIDExhausted},
		{fmt.Errorf("%w: ABCD", game.ErrRoomNotFound), game.CodeRoomNotFound},
		{game.ErrNotInvited, game.CodeNotInvited},
		{game.ErrRoomClosed, game.CodeRoomClosed},
		{game.ErrShuttingDown, game.CodeShuttingDown},
		{game.ErrInvalidRequest, game.CodeInvalidRequest},
		{errors.New("pq: connection reset"), game.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, game.ErrorCode(tt.err))
		})
	}
}

func TestNewErrorMessage_HidesInternalErrors(t *testing.T) {
	msg := game.NewErrorMessage(errors.New("pq: password authentication failed"))
	assert.Equal(t, game.TypeError, msg.Type)
	assert.Equal(t, game.CodeInternal, msg.Code)
	assert.Equal(t, "internal error", msg.Message)

	msg = game.NewErrorMessage(fmt.Errorf("%w: bob", game.ErrPlayersBusy))
	assert.Equal(t, game.CodePlayersBusy, msg.Code)
	assert.Equal(t, "players busy: bob", msg.Message)

	msg = game.NewInvalidRequest("malformed frame")
	assert.Equal(t, game.CodeInvalidRequest, msg.Code)
	assert.Equal(t, "invalid request: malformed frame", msg.Message)
}

func TestSanitizeRoster_OmitsIdentityForAI(t *testing.T) {
	views := game.SanitizeRoster([]game.Participant{
		{Identity: identity.Identity{ID: 7, Nickname: "luca"}, Seat: 1, Acceptance: game.AcceptanceAccepted},
		{Identity: identity.Identity{Nickname: "CPU"}, AI: true, Seat: 2, Acceptance: game.AcceptanceAccepted},
	})

	assert.Equal(t, []game.PlayerView{
		{ID: 7, Nick: "luca", Seat: 1, Acceptance: game.AcceptanceAccepted},
		{Nick: "CPU", AI: true, Seat: 2, Acceptance: game.AcceptanceAccepted},
	}, views)
}
