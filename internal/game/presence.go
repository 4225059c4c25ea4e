package game

import (
	"context"
	"log"
	"sort"

	"github.com/playmatatu/matchmaker/internal/identity"
)

// Presence answers "which of my friends are online".
type Presence struct {
	identities identity.Store
	registry   Registry
}

func NewPresence(identities identity.Store, registry Registry) *Presence {
	return &Presence{identities: identities, registry: registry}
}

// OnlineFriends intersects the requester's friends with the registry. It is
// best-effort: a store failure yields an empty set.
func (p *Presence) OnlineFriends(ctx context.Context, requester identity.Identity) []identity.Identity {
	friends := []identity.Identity{}

	edges, err := p.identities.FindFriendEdges(ctx, requester.ID)
	if err != nil {
		log.Printf("[PRESENCE] friend lookup for %s failed: %v", requester.Nickname, err)
		return friends
	}

	online := make(map[int64]bool)
	for _, who := range p.registry.Online() {
		online[who.ID] = true
	}

	seen := make(map[int64]bool)
	for _, e := range edges {
		other, ok := e.Other(requester.ID)
		if !ok || other.ID == requester.ID || seen[other.ID] || !online[other.ID] {
			continue
		}
		seen[other.ID] = true
		friends = append(friends, other)
	}

	sort.Slice(friends, func(i, j int) bool { return friends[i].Nickname < friends[j].Nickname })
	return friends
}

// Push sends the requester its online friends over its own channel.
func (p *Presence) Push(ctx context.Context, requester identity.Identity) {
	friends := p.OnlineFriends(ctx, requester)

	ch, ok := p.registry.Lookup(requester.ID)
	if !ok {
		log.Printf("[PRESENCE] %s went offline before the reply", requester.Nickname)
		return
	}
	if err := ch.Send(OnlineFriendsMessage{Type: TypeOnlineFriends, OnlineFriends: friends}); err != nil {
		log.Printf("[PRESENCE] send to %s failed: %v", requester.Nickname, err)
	}
}
