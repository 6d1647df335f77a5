package cursor

import "semantic-mapper/internal/resource"

// KeyFunc maps a position to the identity used for deduplication.
type KeyFunc func(resource.Position) string

// Dedup wraps a cursor and suppresses positions whose key was already
// yielded since the last Reset.
type Dedup struct {
	inner Cursor
	key   KeyFunc
	seen  map[string]struct{}
}

// NewDedup wraps inner.
func NewDedup(inner Cursor, key KeyFunc) *Dedup {
	return &Dedup{inner: inner, key: key, seen: make(map[string]struct{})}
}

// Reset replaces the wrapped cursor and forgets every yielded key.
func (c *Dedup) Reset(inner Cursor) {
	c.inner = inner
	clear(c.seen)
}

// Value returns the current position.
func (c *Dedup) Value() resource.Position {
	return c.inner.Value()
}

// Advance moves to the next position whose key is new.
func (c *Dedup) Advance() bool {
	for c.inner.Advance() {
		k := c.key(c.inner.Value())
		if _, ok := c.seen[k]; ok {
			continue
		}

		c.seen[k] = struct{}{}

		return true
	}

	return false
}

// FreezeLastStep freezes the wrapped cursor. Keys are forgotten because
// parent-level positions form a different key space.
func (c *Dedup) FreezeLastStep() {
	c.inner.FreezeLastStep()
	clear(c.seen)
}

// Err returns the wrapped cursor's error.
func (c *Dedup) Err() error {
	return c.inner.Err()
}
