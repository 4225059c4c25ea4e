package game

import (
	"sync"
	"time"

	"github.com/playmatatu/matchmaker/internal/identity"
)

// Room is one ephemeral grouping of seats coordinating toward a match.
// The exported fields are fixed at creation; everything else is guarded by mu.
type Room struct {
	ID           string
	GameMode     GameMode
	OpponentMode OpponentMode
	Initiator    identity.Identity
	CreatedAt    time.Time

	mu      sync.Mutex
	state   RoomState
	reason  string
	players []Participant
	done    chan struct{}
}

func newRoom(id string, mode GameMode, opponent OpponentMode, initiator identity.Identity, players []Participant) *Room {
	seats := make([]Participant, len(players))
	copy(seats, players)
	return &Room{
		ID:           id,
		GameMode:     mode,
		OpponentMode: opponent,
		Initiator:    initiator,
		CreatedAt:    time.Now(),
		state:        StateForming,
		players:      seats,
		done:         make(chan struct{}),
	}
}

// State returns the current state.
func (r *Room) State() RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Outcome returns the state and the reason recorded when the room resolved.
func (r *Room) Outcome() (RoomState, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.reason
}

// Players returns a copy of the seats in seat order.
func (r *Room) Players() []Participant {
	r.mu.Lock()
	defer r.mu.Unlock()
	seats := make([]Participant, len(r.players))
	copy(seats, r.players)
	return seats
}

// Done is closed once the room leaves AWAITING_ACCEPTANCE.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

func (r *Room) open() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == StateForming {
		r.state = StateAwaiting
	}
}

// holdsAcceptedSeat reports whether userID is committed to this room: an
// accepted seat in a room that is awaiting or starting.
func (r *Room) holdsAcceptedSeat(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateAwaiting && r.state != StateStarting {
		return false
	}
	i := r.seatIndexLocked(userID)
	return i >= 0 && r.players[i].Acceptance == AcceptanceAccepted
}

// awaits reports whether userID holds any seat while the room is awaiting.
func (r *Room) awaits(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == StateAwaiting && r.seatIndexLocked(userID) >= 0
}

func (r *Room) hasSeat(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seatIndexLocked(userID) >= 0
}

func (r *Room) seatIndexLocked(userID int64) int {
	for i, p := range r.players {
		if !p.AI && p.Identity.ID == userID {
			return i
		}
	}
	return -1
}

// respond records a seat's answer. A decline resolves the room as CANCELLED
// and consensus resolves it as STARTING, both before respond returns.
func (r *Room) respond(user identity.Identity, answer Acceptance) (RoomState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.seatIndexLocked(user.ID)
	if i < 0 {
		return r.state, ErrNotInvited
	}
	if r.state != StateAwaiting {
		return r.state, ErrRoomClosed
	}

	r.players[i].Acceptance = answer
	switch {
	case answer == AcceptanceDeclined:
		r.resolveLocked(StateCancelled, user.Nickname+" declined the invitation")
	case r.consensusLocked():
		r.resolveLocked(StateStarting, "")
	}
	return r.state, nil
}

// resolveIfConsensus starts the room when every seat is already accepted.
func (r *Room) resolveIfConsensus() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateAwaiting || !r.consensusLocked() {
		return false
	}
	r.resolveLocked(StateStarting, "")
	return true
}

// resolve moves an awaiting room to a terminal state. Only the first caller
// wins; later observers get false and must not act on the room.
func (r *Room) resolve(to RoomState, reason string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateAwaiting {
		return false
	}
	r.resolveLocked(to, reason)
	return true
}

func (r *Room) resolveLocked(to RoomState, reason string) {
	r.state = to
	r.reason = reason
	close(r.done)
}

func (r *Room) consensusLocked() bool {
	for _, p := range r.players {
		if p.Acceptance != AcceptanceAccepted {
			return false
		}
	}
	return true
}
