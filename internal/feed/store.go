package feed

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/theCampel/lightspeed/internal/model"
)

// Store owns the card collection for one session. It is the only writer;
// readers consume immutable snapshots. All mutations on unknown ids are
// no-ops so out-of-order async resolutions stay harmless.
type Store struct {
	mu      sync.Mutex
	cards   []model.Card
	nextSeq uint64

	// Kinds of the last two Add attempts, accepted or not. Used for the
	// anti-flicker rule on fund cards and their highlight patch.
	lastAttempt model.CardKind
	prevAttempt model.CardKind

	updates chan struct{}
}

// NewStore creates an empty card store.
func NewStore() *Store {
	return &Store{
		updates: make(chan struct{}, 1),
	}
}

// Updates signals after every mutation. The channel is coalescing: a slow
// reader sees at least one signal, not one per change.
func (s *Store) Updates() <-chan struct{} { return s.updates }

// Add inserts a card as the newest entry. Returns false when the card was
// suppressed: a fund card arriving directly after another fund card is
// dropped so rapid duplicate suggestions do not flicker the feed.
func (s *Store) Add(c model.Card) bool {
	s.mu.Lock()

	suppress := c.Kind == model.KindFund && s.lastAttempt == model.KindFund
	s.prevAttempt = s.lastAttempt
	s.lastAttempt = c.Kind

	if suppress {
		s.mu.Unlock()
		return false
	}

	s.nextSeq++
	c.Seq = s.nextSeq
	s.cards = append(s.cards, c)
	s.mu.Unlock()

	s.notify()
	return true
}

// Pin sets the pinned flag on a card. Unknown id is a no-op.
func (s *Store) Pin(id string, pinned bool) {
	s.mutate(id, func(c *model.Card) {
		c.Pinned = pinned
	})
}

// Delete removes a card. Unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.cards {
		if s.cards[i].ID == id {
			s.cards = append(s.cards[:i], s.cards[i+1:]...)
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// Resolve replaces a loading card's content with its final form. Identity,
// arrival rank, and the pinned flag survive the patch.
func (s *Store) Resolve(id string, final model.Card) {
	s.mutate(id, func(c *model.Card) {
		seq, pinned := c.Seq, c.Pinned
		final.ID = id
		final.Seq = seq
		final.Pinned = pinned
		final.Loading = false
		*c = final
	})
}

// SetError marks a card as failed without removing it, so the feed keeps a
// visible trace of what was asked.
func (s *Store) SetError(id, msg string) {
	s.mutate(id, func(c *model.Card) {
		c.Loading = false
		c.ErrorText = msg
	})
}

// HighlightLatestFund flags the most recently added fund card as ESG
// relevant, in place. Suppressed when the two most recent additions were
// both fund cards arriving back to back.
func (s *Store) HighlightLatestFund() bool {
	s.mu.Lock()
	if s.lastAttempt == model.KindFund && s.prevAttempt == model.KindFund {
		s.mu.Unlock()
		return false
	}

	var target *model.Card
	for i := range s.cards {
		c := &s.cards[i]
		if c.Kind != model.KindFund {
			continue
		}
		if target == nil || c.Seq > target.Seq {
			target = c
		}
	}
	if target == nil {
		s.mu.Unlock()
		return false
	}
	for i := range target.Funds {
		if target.Funds[i].ESG {
			target.Funds[i].ESGHighlight = true
		}
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// Len returns the number of cards currently held.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// Snapshot returns the ordered card list: pinned cards first, then within
// each partition newest first. "Newest" compares numeric id tokens when
// both ids carry one, otherwise arrival rank. The sort is stable, so
// equal-rank cards never swap between renders.
func (s *Store) Snapshot() []model.Card {
	s.mu.Lock()
	out := make([]model.Card, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, c.Clone())
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		a, b := &out[i], &out[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		ta, aok := idToken(a.ID)
		tb, bok := idToken(b.ID)
		if aok && bok && ta != tb {
			return ta > tb
		}
		return a.Seq > b.Seq
	})
	return out
}

func (s *Store) mutate(id string, fn func(*model.Card)) {
	s.mu.Lock()
	changed := false
	for i := range s.cards {
		if s.cards[i].ID == id {
			fn(&s.cards[i])
			changed = true
			break
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

func (s *Store) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// idToken extracts the numeric recency token from ids shaped like
// "card-1712345". Ids without a parseable token fall back to arrival rank.
func idToken(id string) (uint64, bool) {
	parts := strings.SplitN(id, "-", 3)
	if len(parts) < 2 {
		return 0, false
	}
	n, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
