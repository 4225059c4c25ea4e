package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/playmatatu/matchmaker/internal/identity"
)

const (
	DefaultInviteTimeout = 30 * time.Second
	defaultAINickname    = "AI"
	publishTimeout       = 2 * time.Second
)

// Channel is a live connection that accepts outbound frames.
type Channel interface {
	Send(msg any) error
}

// Registry resolves identities to their live channel.
type Registry interface {
	// Lookup never returns a channel that has been closed.
	Lookup(userID int64) (Channel, bool)
	Online() []identity.Identity
}

// Coordinator runs the invitation protocol for every room.
type Coordinator struct {
	store      *RoomStore
	registry   Registry
	identities identity.Store
	events     EventPublisher
	timeout    time.Duration

	// mu orders the closing check and wg.Add against Shutdown.
	mu      sync.Mutex
	closing bool
	wg      sync.WaitGroup
}

// NewCoordinator wires the coordinator. events may be nil.
func NewCoordinator(store *RoomStore, registry Registry, identities identity.Store, timeout time.Duration, events EventPublisher) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultInviteTimeout
	}
	return &Coordinator{
		store:      store,
		registry:   registry,
		identities: identities,
		events:     events,
		timeout:    timeout,
	}
}

// Store exposes the room store for read-only callers
func (c *Coordinator) Store() *RoomStore {
	return c.store
}

// CreateMatch validates req, creates the room and sends the invitations.
// Nothing is created when an error is returned.
func (c *Coordinator) CreateMatch(ctx context.Context, initiator identity.Identity, req MatchRequest) (*Room, error) {
	players, err := c.buildRoster(ctx, initiator, req)
	if err != nil {
		log.Printf("[MATCH] request from %s rejected: %v", initiator.Nickname, err)
		return nil, err
	}

	if busy := c.store.Busy(players); len(busy) > 0 {
		err := fmt.Errorf("%w: %s", ErrPlayersBusy, strings.Join(busy, ", "))
		log.Printf("[MATCH] request from %s rejected: %v", initiator.Nickname, err)
		return nil, err
	}
	if who, offline := c.offlineSeat(players); offline {
		log.Printf("[MATCH] request from %s rejected: %s has no live channel", initiator.Nickname, who.Nickname)
		return nil, fmt.Errorf("%w: %s", ErrNoConnection, who.Nickname)
	}

	room, err := c.admit(req, initiator, players)
	if err != nil {
		log.Printf("[MATCH] request from %s rejected: %v", initiator.Nickname, err)
		return nil, err
	}

	// A seat may have gone offline after the check above, before the room
	// was visible to HandleDisconnect.
	seats := room.Players()
	if who, offline := c.offlineSeat(seats); offline {
		defer c.wg.Done()
		if room.resolve(StateCancelled, who.Nickname+" disconnected") {
			c.store.remove(room)
			log.Printf("[MATCH] room %s dropped: %s went offline during creation", room.ID, who.Nickname)
			return nil, fmt.Errorf("%w: %s", ErrNoConnection, who.Nickname)
		}
		return room, nil
	}

	c.publish(newMatchEvent(EventRoomCreated, room, seats, ""))
	c.send(initiator, infoMessage(room.ID, "room created, awaiting players"))

	invitation := invitationMessage(room, seats)
	for _, p := range seats {
		if !p.AI && p.Acceptance == AcceptancePending {
			c.send(p.Identity, invitation)
		}
	}

	if room.resolveIfConsensus() {
		c.finish(room)
		c.wg.Done()
		return room, nil
	}

	go c.awaitDeadline(room)
	return room, nil
}

// admit inserts the room unless the coordinator is shutting down. The
// returned room holds one wg slot that the caller must release.
func (c *Coordinator) admit(req MatchRequest, initiator identity.Identity, players []Participant) (*Room, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closing {
		return nil, ErrShuttingDown
	}
	room, err := c.store.Create(req.GameMode, req.OpponentMode, initiator, players)
	if err != nil {
		return nil, err
	}
	c.wg.Add(1)
	return room, nil
}

// offlineSeat returns the first real seat without a live channel.
func (c *Coordinator) offlineSeat(players []Participant) (identity.Identity, bool) {
	for _, p := range players {
		if p.AI {
			continue
		}
		if _, ok := c.registry.Lookup(p.Identity.ID); !ok {
			return p.Identity, true
		}
	}
	return identity.Identity{}, false
}

// HandleResponse applies an ACCEPT_RESPONSE from responder.
func (c *Coordinator) HandleResponse(ctx context.Context, responder identity.Identity, roomID string, answer Acceptance) error {
	if answer != AcceptanceAccepted && answer != AcceptanceDeclined {
		return fmt.Errorf("%w: acceptance must be %q or %q", ErrInvalidRequest, AcceptanceAccepted, AcceptanceDeclined)
	}

	room, state, err := c.store.respond(roomID, responder, answer)
	if err != nil {
		log.Printf("[MATCH] response from %s for room %s rejected: %v", responder.Nickname, roomID, err)
		return err
	}

	log.Printf("[MATCH] %s %s room %s (state=%s)", responder.Nickname, answer, roomID, state)
	if state.Terminal() {
		c.finish(room)
	}
	return nil
}

// HandleDisconnect cancels every awaiting room that seats user.
// A user that is already back on a new connection keeps its rooms.
func (c *Coordinator) HandleDisconnect(user identity.Identity) {
	if _, ok := c.registry.Lookup(user.ID); ok {
		log.Printf("[MATCH] %s reconnected before disconnect handling; rooms kept", user.Nickname)
		return
	}
	for _, room := range c.store.All() {
		if !room.awaits(user.ID) {
			continue
		}
		if room.resolve(StateCancelled, user.Nickname+" disconnected") {
			c.finish(room)
		}
	}
}

// Shutdown cancels every awaiting room and waits for the deadline watchers.
// New matches are refused from here on.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()

	for _, room := range c.store.All() {
		if room.resolve(StateCancelled, "server shutting down") {
			c.finish(room)
		}
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// awaitDeadline races the room's deadline against its resolution by a
// response. Whichever happens first wins inside Room.resolve.
func (c *Coordinator) awaitDeadline(room *Room) {
	defer c.wg.Done()

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-room.Done():
	case <-timer.C:
		if room.resolve(StateExpired, "invitation expired") {
			c.finish(room)
		}
	}
}

// finish notifies the room's players about its terminal state and tears it
// down. Exactly one caller reaches finish per room.
func (c *Coordinator) finish(room *Room) {
	state, reason := room.Outcome()
	seats := room.Players()

	switch state {
	case StateStarting:
		msg := startMatchMessage(room, seats)
		for _, p := range seats {
			if !p.AI {
				c.send(p.Identity, msg)
			}
		}
		log.Printf("[MATCH] room %s starting with %d seats", room.ID, len(seats))
		c.publish(newMatchEvent(EventMatchStarted, room, seats, ""))

	case StateCancelled, StateExpired:
		msg := cancelMatchMessage(room.ID, reason)
		for _, p := range seats {
			if !p.AI && p.Acceptance != AcceptanceDeclined {
				c.send(p.Identity, msg)
			}
		}
		kind := EventMatchCancelled
		if state == StateExpired {
			kind = EventMatchExpired
		}
		log.Printf("[MATCH] room %s %s: %s", room.ID, strings.ToLower(state.String()), reason)
		c.publish(newMatchEvent(kind, room, seats, reason))

	default:
		log.Printf("[MATCH] finish called on room %s in state %s", room.ID, state)
		return
	}

	c.store.remove(room)
}

// send is fire-and-forget: a dead channel is logged and skipped.
func (c *Coordinator) send(to identity.Identity, msg any) {
	ch, ok := c.registry.Lookup(to.ID)
	if !ok {
		log.Printf("[MATCH] no live channel for %s; message dropped", to.Nickname)
		return
	}
	if err := ch.Send(msg); err != nil {
		log.Printf("[MATCH] send to %s failed: %v", to.Nickname, err)
	}
}

func (c *Coordinator) publish(evt MatchEvent) {
	if c.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := c.events.PublishMatchEvent(ctx, evt); err != nil {
		log.Printf("[EVENTS] publish %s for room %s failed: %v", evt.Type, evt.RoomID, err)
	}
}

// buildRoster resolves the requested seats. The initiator is seated first
// when the request leaves it out.
func (c *Coordinator) buildRoster(ctx context.Context, initiator identity.Identity, req MatchRequest) ([]Participant, error) {
	if !req.GameMode.Valid() {
		return nil, fmt.Errorf("%w: unknown game mode %q", ErrInvalidRequest, req.GameMode)
	}
	if !req.OpponentMode.Valid() {
		return nil, fmt.Errorf("%w: unknown opponent mode %q", ErrInvalidRequest, req.OpponentMode)
	}
	if len(req.Players) == 0 {
		return nil, fmt.Errorf("%w: players required", ErrInvalidRequest)
	}

	var (
		players         []Participant
		seen            = make(map[int64]bool)
		hasInitiator    bool
		aiSeats, humans int
	)

	for _, pr := range req.Players {
		if pr.AI {
			nick := pr.Nick
			if nick == "" {
				nick = defaultAINickname
			}
			players = append(players, Participant{
				Identity:   identity.Identity{Nickname: nick},
				AI:         true,
				Acceptance: AcceptanceAccepted,
			})
			aiSeats++
			continue
		}

		if pr.Nick == "" {
			return nil, fmt.Errorf("%w: player nick required", ErrInvalidRequest)
		}

		who := initiator
		if pr.Nick != initiator.Nickname {
			resolved, err := c.identities.ResolveByNickname(ctx, pr.Nick)
			if errors.Is(err, identity.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownPlayer, pr.Nick)
			}
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", pr.Nick, err)
			}
			who = resolved
		}

		if seen[who.ID] {
			return nil, fmt.Errorf("%w: %s listed twice", ErrInvalidRequest, who.Nickname)
		}
		seen[who.ID] = true

		acceptance := AcceptancePending
		if who.ID == initiator.ID {
			hasInitiator = true
			acceptance = AcceptanceAccepted
		}
		players = append(players, Participant{Identity: who, Acceptance: acceptance})
		humans++
	}

	if !hasInitiator {
		players = append([]Participant{{Identity: initiator, Acceptance: AcceptanceAccepted}}, players...)
		humans++
	}

	if len(players) < 2 {
		return nil, fmt.Errorf("%w: a match needs at least two seats", ErrInvalidRequest)
	}
	if req.OpponentMode == OpponentSingle && aiSeats == 0 {
		return nil, fmt.Errorf("%w: single mode needs an AI seat", ErrInvalidRequest)
	}
	if req.OpponentMode == OpponentMulti && humans < 2 {
		return nil, fmt.Errorf("%w: multi mode needs at least two players", ErrInvalidRequest)
	}

	for i := range players {
		players[i].Seat = i + 1
	}
	return players, nil
}
