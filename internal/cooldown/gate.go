// Package cooldown gates the tap action: at most one request in flight, and
// no more than one request per spacing window.
package cooldown

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSpacing is the minimum time between two tap requests.
const DefaultSpacing = time.Second

// Token identifies one admitted request. The zero Token is never issued.
type Token uuid.UUID

func (t Token) String() string { return uuid.UUID(t).String() }

// Gate admits a request only when the previous one has completed and the
// spacing window since it started has elapsed.
type Gate struct {
	spacing time.Duration
	now     func() time.Time

	mu        sync.Mutex
	inFlight  Token
	busy      bool
	lastStart time.Time
}

// New returns a gate with the given spacing. now may be nil for wall time.
func New(spacing time.Duration, now func() time.Time) *Gate {
	if spacing < 0 {
		spacing = 0
	}
	if now == nil {
		now = time.Now
	}
	return &Gate{spacing: spacing, now: now}
}

// Acquire admits a request and returns its token, or false if the gate is
// closed.
func (g *Gate) Acquire() (Token, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.busy {
		return Token{}, false
	}
	if !g.lastStart.IsZero() && now.Sub(g.lastStart) < g.spacing {
		return Token{}, false
	}

	g.inFlight = Token(uuid.New())
	g.busy = true
	g.lastStart = now
	return g.inFlight, true
}

// Release marks the request identified by tok as complete, whether it
// succeeded or failed. Releasing a stale token is a no-op.
func (g *Gate) Release(tok Token) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy && tok == g.inFlight {
		g.busy = false
		g.inFlight = Token{}
	}
}

// Busy reports whether a request is in flight.
func (g *Gate) Busy() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.busy
}

// ReadyAt is the earliest time a new request could be admitted, ignoring any
// request still in flight.
func (g *Gate) ReadyAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lastStart.IsZero() {
		return time.Time{}
	}
	return g.lastStart.Add(g.spacing)
}
