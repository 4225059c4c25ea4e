package identity_test

import (
	"context"
	"testing"

	"github.com/playmatatu/matchmaker/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendEdge_Other(t *testing.T) {
	luca := identity.Identity{ID: 1, Nickname: "luca"}
	bob := identity.Identity{ID: 2, Nickname: "bob"}
	edge := identity.FriendEdge{A: luca, B: bob}

	other, ok := edge.Other(luca.ID)
	require.True(t, ok)
	assert.Equal(t, bob, other)

	other, ok = edge.Other(bob.ID)
	require.True(t, ok)
	assert.Equal(t, luca, other)

	_, ok = edge.Other(99)
	assert.False(t, ok)
}

func TestMemoryStore_ResolveByNickname(t *testing.T) {
	store := identity.NewMemoryStore()
	luca := store.AddUser("luca")

	got, err := store.ResolveByNickname(context.Background(), "luca")
	require.NoError(t, err)
	assert.Equal(t, luca, got)

	// adding the same nickname again is a no-op
	assert.Equal(t, luca, store.AddUser("luca"))

	_, err = store.ResolveByNickname(context.Background(), "nobody")
	assert.ErrorIs(t, err, identity.ErrNotFound)
}

func TestMemoryStore_FindFriendEdgesBothDirections(t *testing.T) {
	store := identity.NewMemoryStore()
	luca := store.AddUser("luca")
	bob := store.AddUser("bob")
	carol := store.AddUser("carol")
	dave := store.AddUser("dave")

	store.AddFriendship(luca.ID, bob.ID)
	store.AddFriendship(carol.ID, luca.ID)
	store.AddFriendship(bob.ID, dave.ID)

	edges, err := store.FindFriendEdges(context.Background(), luca.ID)
	require.NoError(t, err)
	require.Len(t, edges, 2)

	var others []string
	for _, e := range edges {
		o, ok := e.Other(luca.ID)
		require.True(t, ok)
		others = append(others, o.Nickname)
	}
	assert.ElementsMatch(t, []string{"bob", "carol"}, others)
}
