package game

import (
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"

	"github.com/playmatatu/matchmaker/internal/identity"
)

// DefaultRoomIDAlphabet leaves out characters that are easy to misread
// (0/O, 1/I/L) so codes can be read out loud.
const DefaultRoomIDAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const (
	DefaultRoomIDLength      = 4
	DefaultRoomIDMaxAttempts = 16
)

// RoomStore holds every room that is forming, awaiting acceptance, or
// resolved but not yet torn down. Lock order is store then room.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room

	alphabet    string
	idLength    int
	maxAttempts int
}

// StoreOption configures a RoomStore
type StoreOption func(*RoomStore)

// WithRoomIDs overrides the room code alphabet, length and retry bound.
// Non-positive values keep the defaults.
func WithRoomIDs(alphabet string, length, maxAttempts int) StoreOption {
	return func(s *RoomStore) {
		if alphabet != "" {
			s.alphabet = alphabet
		}
		if length > 0 {
			s.idLength = length
		}
		if maxAttempts > 0 {
			s.maxAttempts = maxAttempts
		}
	}
}

// NewRoomStore creates an empty store
func NewRoomStore(opts ...StoreOption) *RoomStore {
	s := &RoomStore{
		rooms:       make(map[string]*Room),
		alphabet:    DefaultRoomIDAlphabet,
		idLength:    DefaultRoomIDLength,
		maxAttempts: DefaultRoomIDMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create mints a fresh id and inserts a room awaiting acceptance.
// The busy check runs under the store lock, so it sees a consistent snapshot
// and no competing request can claim the same players in between.
func (s *RoomStore) Create(mode GameMode, opponent OpponentMode, initiator identity.Identity, players []Participant) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if busy := s.busyLocked(players, nil); len(busy) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrPlayersBusy, strings.Join(busy, ", "))
	}

	id, err := s.mintIDLocked()
	if err != nil {
		return nil, err
	}

	room := newRoom(id, mode, opponent, initiator, players)
	room.open()
	s.rooms[id] = room

	log.Printf("[ROOM] created %s mode=%s opponent=%s seats=%d initiator=%s",
		id, mode, opponent, len(players), initiator.Nickname)
	return room, nil
}

// Destroy removes the room with id. Destroying an unknown id is a no-op.
// It is the administrative path: it does not notify players or stop the
// room's deadline. Rooms finished by the Coordinator are torn down through
// remove, which only deletes the exact room it was given.
func (s *RoomStore) Destroy(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[id]; !exists {
		return
	}
	delete(s.rooms, id)
	log.Printf("[ROOM] destroyed %s", id)
}

// remove deletes room only if its id still maps to it; ids are reused once
// freed, so a late teardown must not hit a newer room.
func (s *RoomStore) remove(room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, exists := s.rooms[room.ID]; exists && cur == room {
		delete(s.rooms, room.ID)
		log.Printf("[ROOM] destroyed %s", room.ID)
	}
}

// Find returns the room with id.
func (s *RoomStore) Find(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	return room, ok
}

// All returns a snapshot of the active rooms.
func (s *RoomStore) All() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// Len returns the number of active rooms
func (s *RoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// respond applies an acceptance answer. An accept from someone already
// committed to another room is refused and the seat stays pending.
func (s *RoomStore) respond(roomID string, user identity.Identity, answer Acceptance) (*Room, RoomState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomID]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	if !room.hasSeat(user.ID) {
		return room, room.State(), fmt.Errorf("%w: room %s", ErrNotInvited, roomID)
	}

	if answer == AcceptanceAccepted {
		me := []Participant{{Identity: user}}
		if busy := s.busyLocked(me, room); len(busy) > 0 {
			return room, room.State(), fmt.Errorf("%w: %s already accepted another match", ErrPlayersBusy, user.Nickname)
		}
	}

	state, err := room.respond(user, answer)
	if err != nil {
		return room, state, fmt.Errorf("%w: room %s", err, roomID)
	}
	return room, state, nil
}

// Busy returns the nicknames of real players already committed to a room.
func (s *RoomStore) Busy(players []Participant) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busyLocked(players, nil)
}

// busyLocked returns the nicknames of real players already holding an
// accepted seat in an active room other than skip.
func (s *RoomStore) busyLocked(players []Participant, skip *Room) []string {
	var busy []string
	for _, p := range players {
		if p.AI {
			continue
		}
		for _, room := range s.rooms {
			if room == skip {
				continue
			}
			if room.holdsAcceptedSeat(p.Identity.ID) {
				busy = append(busy, p.Identity.Nickname)
				break
			}
		}
	}
	return busy
}

func (s *RoomStore) mintIDLocked() (string, error) {
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		id, err := randomCode(s.alphabet, s.idLength)
		if err != nil {
			return "", fmt.Errorf("generate room id: %w", err)
		}
		if _, taken := s.rooms[id]; !taken {
			return id, nil
		}
	}
	log.Printf("[ROOM] id space exhausted after %d attempts (%d active rooms)", s.maxAttempts, len(s.rooms))
	return "", ErrRoomIDExhausted
}

func randomCode(alphabet string, length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
