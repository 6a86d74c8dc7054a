package contact

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// DefaultSessionTTL is how long an untouched form is kept.
const DefaultSessionTTL = 30 * time.Minute

type session struct {
	ctrl     *Controller
	lastSeen time.Time
}

// Registry keeps one Controller per visitor session. Evicting a session is the
// server-side equivalent of unmounting the form, so its controller is closed.
type Registry struct {
	clock  clockwork.Clock
	ttl    time.Duration
	build  func() *Controller
	logger zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewRegistry returns an empty registry. build is called for every new
// session.
func NewRegistry(clock clockwork.Clock, ttl time.Duration, build func() *Controller, logger zerolog.Logger) *Registry {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Registry{
		clock:    clock,
		ttl:      ttl,
		build:    build,
		logger:   logger.With().Str("component", "contact_sessions").Logger(),
		sessions: make(map[string]*session),
	}
}

// Create starts a new session and returns its id.
func (r *Registry) Create() (string, *Controller) {
	id := uuid.NewString()
	ctrl := r.build()

	r.mu.Lock()
	r.sessions[id] = &session{ctrl: ctrl, lastSeen: r.clock.Now()}
	r.mu.Unlock()

	r.logger.Debug().Str("session", id).Msg("contact session created")
	return id, ctrl
}

// Lookup returns the controller for id and marks the session as active.
func (r *Registry) Lookup(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = r.clock.Now()
	return s.ctrl, true
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.ctrl.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes every session idle for longer than the TTL and returns how many
// were evicted.
func (r *Registry) Sweep() int {
	cutoff := r.clock.Now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*Controller
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			stale = append(stale, s.ctrl)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, ctrl := range stale {
		ctrl.Close()
	}
	if len(stale) > 0 {
		r.logger.Debug().Int("evicted", len(stale)).Msg("contact sessions swept")
	}
	return len(stale)
}

// Run sweeps periodically until ctx is done, then closes every session.
func (r *Registry) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return nil
		case <-ticker.Chan():
			r.Sweep()
		}
	}
}

func (r *Registry) Close() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.ctrl.Close()
	}
}
