package game_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/playmatatu/matchmaker/internal/game"
	"github.com/playmatatu/matchmaker/internal/identity"
)

// frame is an outbound message as a client would decode it.
type frame map[string]any

func (f frame) Type() string {
	s, _ := f["type"].(string)
	return s
}

func (f frame) RoomID() string {
	s, _ := f["roomId"].(string)
	return s
}

func (f frame) Str(key string) string {
	s, _ := f[key].(string)
	return s
}

type fakeChannel struct {
	mu     sync.Mutex
	frames []frame
	broken bool

	// onSend runs after a frame is recorded, outside the lock.
	onSend func(frame)
}

func (c *fakeChannel) Send(msg any) error {
	f, err := c.record(msg)
	if err != nil {
		return err
	}
	if c.onSend != nil {
		c.onSend(f)
	}
	return nil
}

func (c *fakeChannel) record(msg any) (frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.broken {
		return nil, errors.New("channel broken")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	c.frames = append(c.frames, f)
	return f, nil
}

func (c *fakeChannel) Types() []string {
	frames := c.Frames()
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		out = append(out, f.Type())
	}
	return out
}

func (c *fakeChannel) Frames() []frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]frame, len(c.frames))
	copy(out, c.frames)
	return out
}

func (c *fakeChannel) OfType(kind string) []frame {
	var out []frame
	for _, f := range c.Frames() {
		if f.Type() == kind {
			out = append(out, f)
		}
	}
	return out
}

func (c *fakeChannel) Last() frame {
	frames := c.Frames()
	if len(frames) == 0 {
		return nil
	}
	return frames[len(frames)-1]
}

type fakeRegistry struct {
	mu       sync.Mutex
	channels map[int64]*fakeChannel
	who      map[int64]identity.Identity

	// afterLookup runs after every Lookup, outside the lock.
	afterLookup func(userID int64)
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		channels: make(map[int64]*fakeChannel),
		who:      make(map[int64]identity.Identity),
	}
}

func (r *fakeRegistry) Connect(ident identity.Identity) *fakeChannel {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := &fakeChannel{}
	r.channels[ident.ID] = ch
	r.who[ident.ID] = ident
	return ch
}

func (r *fakeRegistry) Disconnect(ident identity.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, ident.ID)
	delete(r.who, ident.ID)
}

func (r *fakeRegistry) Lookup(userID int64) (game.Channel, bool) {
	r.mu.Lock()
	ch, ok := r.channels[userID]
	hook := r.afterLookup
	r.mu.Unlock()

	if hook != nil {
		hook(userID)
	}
	if !ok {
		return nil, false
	}
	return ch, true
}

func (r *fakeRegistry) AfterLookup(fn func(userID int64)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterLookup = fn
}

func (r *fakeRegistry) Online() []identity.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]identity.Identity, 0, len(r.who))
	for _, ident := range r.who {
		out = append(out, ident)
	}
	return out
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []game.MatchEvent
	err    error
}

func (p *recordingPublisher) PublishMatchEvent(ctx context.Context, evt game.MatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// harness wires a coordinator against in-memory collaborators.
type harness struct {
	t          *testing.T
	identities *identity.MemoryStore
	registry   *fakeRegistry
	store      *game.RoomStore
	events     *recordingPublisher
	coord      *game.Coordinator
}

func newHarness(t *testing.T, opts ...game.StoreOption) *harness {
	t.Helper()
	h := &harness{
		t:          t,
		identities: identity.NewMemoryStore(),
		registry:   newFakeRegistry(),
		store:      game.NewRoomStore(opts...),
		events:     &recordingPublisher{},
	}
	h.coord = game.NewCoordinator(h.store, h.registry, h.identities, game.DefaultInviteTimeout, h.events)
	t.Cleanup(func() {
		_ = h.coord.Shutdown(context.Background())
	})
	return h
}

func newHarnessWithTimeout(t *testing.T, timeout time.Duration) *harness {
	t.Helper()
	h := newHarness(t)
	h.coord = game.NewCoordinator(h.store, h.registry, h.identities, timeout, h.events)
	return h
}

// user registers nickname and connects it.
func (h *harness) user(nickname string) (identity.Identity, *fakeChannel) {
	ident := h.identities.AddUser(nickname)
	return ident, h.registry.Connect(ident)
}

func human(nick string) game.PlayerRequest {
	return game.PlayerRequest{Nick: nick}
}

func ai(nick string) game.PlayerRequest {
	return game.PlayerRequest{Nick: nick, AI: true}
}
