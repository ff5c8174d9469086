package session

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// SessionContext owns the per-session identity state: a unique session id
// and the monotonic sequence counter behind card ids. It is passed into
// the components that need ids so nothing reaches for ambient globals.
type SessionContext struct {
	id  string
	seq atomic.Uint64
}

// NewSessionContext creates a fresh context with a random session id.
func NewSessionContext() *SessionContext {
	return &SessionContext{id: uuid.NewString()}
}

// ID returns the session id.
func (c *SessionContext) ID() string { return c.id }

// NextSeq returns the next value of the monotonic counter, starting at 1.
func (c *SessionContext) NextSeq() uint64 {
	return c.seq.Add(1)
}

// NextCardID mints a card id carrying the sequence token, so recency can
// be recovered from the id itself.
func (c *SessionContext) NextCardID() string {
	return fmt.Sprintf("card-%d", c.NextSeq())
}
