package game_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/playmatatu/matchmaker/internal/game"
	"github.com/playmatatu/matchmaker/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seats(players ...identity.Identity) []game.Participant {
	out := make([]game.Participant, 0, len(players))
	for i, p := range players {
		out = append(out, game.Participant{Identity: p, Seat: i + 1, Acceptance: game.AcceptancePending})
	}
	out[0].Acceptance = game.AcceptanceAccepted
	return out
}

func TestRoomStore_CreateMintsReadableIDs(t *testing.T) {
	store := game.NewRoomStore()
	luca := identity.Identity{ID: 1, Nickname: "luca"}
	bob := identity.Identity{ID: 2, Nickname: "bob"}

	room, err := store.Create(game.ModeBestOf, game.OpponentMulti, luca, seats(luca, bob))
	require.NoError(t, err)

	assert.Len(t, room.ID, game.DefaultRoomIDLength)
	for _, r := range room.ID {
		assert.True(t, strings.ContainsRune(game.DefaultRoomIDAlphabet, r), "unexpected rune %q", r)
	}
	assert.Equal(t, game.StateAwaiting, room.State())

	found, ok := store.Find(room.ID)
	require.True(t, ok)
	assert.Same(t, room, found)
	assert.Equal(t, 1, store.Len())
}

func TestRoomStore_IDExhaustion(t *testing.T) {
	store := game.NewRoomStore(game.WithRoomIDs("A", 1, 3))

	first, err := store.Create(game.ModeTimed, game.OpponentMulti,
		identity.Identity{ID: 1, Nickname: "luca"},
		seats(identity.Identity{ID: 1, Nickname: "luca"}, identity.Identity{ID: 2, Nickname: "bob"}))
	require.NoError(t, err)
	assert.Equal(t, "A", first.ID)

	_, err = store.Create(game.ModeTimed, game.OpponentMulti,
		identity.Identity{ID: 3, Nickname: "ana"},
		seats(identity.Identity{ID: 3, Nickname: "ana"}, identity.Identity{ID: 4, Nickname: "kim"}))
	require.ErrorIs(t, err, game.ErrRoomIDExhausted)
	assert.Equal(t, 1, store.Len())

	// freeing the only id makes it available again
	store.Destroy(first.ID)
	again, err := store.Create(game.ModeTimed, game.OpponentMulti,
		identity.Identity{ID: 3, Nickname: "ana"},
		seats(identity.Identity{ID: 3, Nickname: "ana"}, identity.Identity{ID: 4, Nickname: "kim"}))
	require.NoError(t, err)
	assert.Equal(t, "A", again.ID)
}

func TestRoomStore_DestroyIsIdempotent(t *testing.T) {
	store := game.NewRoomStore()
	luca := identity.Identity{ID: 1, Nickname: "luca"}

	room, err := store.Create(game.ModeBestOf, game.OpponentMulti, luca, seats(luca, identity.Identity{ID: 2, Nickname: "bob"}))
	require.NoError(t, err)

	store.Destroy(room.ID)
	store.Destroy(room.ID)
	store.Destroy("NOPE")

	_, ok := store.Find(room.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestRoomStore_RejectsCommittedPlayers(t *testing.T) {
	store := game.NewRoomStore()
	luca := identity.Identity{ID: 1, Nickname: "luca"}
	bob := identity.Identity{ID: 2, Nickname: "bob"}
	ana := identity.Identity{ID: 3, Nickname: "ana"}

	_, err := store.Create(game.ModeBestOf, game.OpponentMulti, luca, seats(luca, bob))
	require.NoError(t, err)

	// luca holds an accepted seat, bob is only pending
	_, err = store.Create(game.ModeBestOf, game.OpponentMulti, ana, seats(ana, luca))
	require.ErrorIs(t, err, game.ErrPlayersBusy)
	assert.Contains(t, err.Error(), "luca")

	_, err = store.Create(game.ModeBestOf, game.OpponentMulti, ana, seats(ana, bob))
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestRoomStore_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	store := game.NewRoomStore()
	const n = 200

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]bool)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := identity.Identity{ID: int64(2*i + 1), Nickname: "a"}
			b := identity.Identity{ID: int64(2*i + 2), Nickname: "b"}
			room, err := store.Create(game.ModeBestOf, game.OpponentMulti, a, seats(a, b))
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			ids[room.ID] = true
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, n)
	assert.Equal(t, n, store.Len())
}

func TestRoomState_String(t *testing.T) {
	assert.Equal(t, "AWAITING_ACCEPTANCE", game.StateAwaiting.String())
	assert.Equal(t, "EXPIRED", game.StateExpired.String())
	assert.True(t, game.StateCancelled.Terminal())
	assert.False(t, game.StateForming.Terminal())
}
