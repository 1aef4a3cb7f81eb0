// Package notify keeps the stack of transient, self-dismissing banners.
package notify

import (
	"sync"
	"time"

	"github.com/theirongolddev/cfarm/internal/model"
)

const (
	// DefaultTTL is how long a banner stays up.
	DefaultTTL = 5 * time.Second
	// DefaultMaxActive bounds the stack; the oldest banner is dropped first.
	DefaultMaxActive = 32
)

// Notification is one banner.
type Notification struct {
	ID        int64
	Message   string
	Kind      model.NoticeKind
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the banner is gone at now.
func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Center holds active notifications, newest first. Every banner is timed
// independently; nothing is deduplicated or throttled.
type Center struct {
	ttl       time.Duration
	maxActive int
	now       func() time.Time

	mu     sync.Mutex
	nextID int64
	active []Notification
}

// Option configures a Center.
type Option func(*Center)

// WithTTL overrides the banner lifetime.
func WithTTL(d time.Duration) Option {
	return func(c *Center) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithMaxActive overrides the stack bound.
func WithMaxActive(n int) Option {
	return func(c *Center) {
		if n > 0 {
			c.maxActive = n
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCenter returns an empty notification center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		ttl:       DefaultTTL,
		maxActive: DefaultMaxActive,
		now:       time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TTL returns the banner lifetime.
func (c *Center) TTL() time.Duration { return c.ttl }

// Notify pushes a banner on top of the stack. An empty kind means info.
func (c *Center) Notify(message string, kind model.NoticeKind) Notification {
	if kind == "" {
		kind = model.NoticeInfo
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.nextID++
	n := Notification{
		ID:        c.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.active = append([]Notification{n}, c.active...)
	if len(c.active) > c.maxActive {
		c.active = c.active[:c.maxActive]
	}
	return n
}

// Active returns the banners still visible at now, newest first.
func (c *Center) Active(now time.Time) []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, 0, len(c.active))
	for _, n := range c.active {
		if !n.Expired(now) {
			out = append(out, n)
		}
	}
	return out
}

// Prune drops banners expired at now and returns how many were removed.
func (c *Center) Prune(now time.Time) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.active[:0]
	for _, n := range c.active {
		if !n.Expired(now) {
			kept = append(kept, n)
		}
	}
	removed := len(c.active) - len(kept)
	c.active = kept
	return removed
}

// Dismiss removes a banner before it expires. It reports whether id was
// active.
func (c *Center) Dismiss(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of banners held, expired or not.
func (c *Center) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active)
}
