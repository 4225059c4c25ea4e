// Package identity is the boundary to the external user and friendship store.
// The matchmaking core only reads from it.
package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no user matches a lookup.
var ErrNotFound = errors.New("identity not found")

// Identity is an opaque user reference with its display nickname.
type Identity struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
}

// FriendEdge is one friendship; the requester may sit on either side.
type FriendEdge struct {
	A Identity
	B Identity
}

// Other returns the side of the edge that is not userID.
func (e FriendEdge) Other(userID int64) (Identity, bool) {
	switch userID {
	case e.A.ID:
		return e.B, true
	case e.B.ID:
		return e.A, true
	}
	return Identity{}, false
}

// Store resolves identities and friendships.
type Store interface {
	// FindFriendEdges returns every accepted friendship touching userID,
	// in both directions of the relation.
	FindFriendEdges(ctx context.Context, userID int64) ([]FriendEdge, error)
	// ResolveByNickname returns ErrNotFound when nobody uses nickname.
	ResolveByNickname(ctx context.Context, nickname string) (Identity, error)
}
