package questions

import (
	"math/rand"
	"sort"
	"sync"

	"github.com/theCampel/lightspeed/internal/model"
)

// Scheduler owns the suggested-question queue: a capped active set whose
// members count down once per second and a pool it backfills from. One
// mutex guards everything so backfill always reads the current active set
// rather than a stale snapshot.
type Scheduler struct {
	mu       sync.Mutex
	pool     []model.SuggestedQuestion
	active   []model.SuggestedQuestion
	consumed map[string]bool
	capacity int
	rng      *rand.Rand

	updates chan struct{}
}

// NewScheduler creates a scheduler over the given pool. A nil rng falls
// back to an unseeded source; tests inject a seeded one.
func NewScheduler(pool []model.SuggestedQuestion, rng *rand.Rand) *Scheduler {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Scheduler{
		pool:     append([]model.SuggestedQuestion(nil), pool...),
		consumed: make(map[string]bool),
		capacity: model.DefaultQuestionCapacity,
		rng:      rng,
		updates:  make(chan struct{}, 1),
	}
}

// Updates signals after every visible change, coalescing for slow readers.
func (s *Scheduler) Updates() <-chan struct{} { return s.updates }

// Tick advances every countdown by one second and purges questions that
// reach zero. Runs on the session's 1s cadence.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	changed := len(s.active) > 0
	kept := s.active[:0]
	for _, q := range s.active {
		q.ExpiresIn--
		if q.ExpiresIn > 0 {
			kept = append(kept, q)
		}
	}
	s.active = kept
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

// Click consumes a question: it leaves the active set immediately and is
// excluded from backfill for the rest of the session. Unknown ids no-op.
func (s *Scheduler) Click(id string) (model.SuggestedQuestion, bool) {
	s.mu.Lock()
	for i, q := range s.active {
		if q.ID != id {
			continue
		}
		s.active = append(s.active[:i], s.active[i+1:]...)
		s.consumed[id] = true
		s.mu.Unlock()
		s.notify()
		return q, true
	}
	s.mu.Unlock()
	return model.SuggestedQuestion{}, false
}

// Backfill tops the active set up to capacity with random pool entries not
// currently active and not yet consumed. Each pick gets a fresh TTL in
// [DefaultQuestionTTLMin, DefaultQuestionTTLMax). Runs on the 8s cadence.
func (s *Scheduler) Backfill() {
	s.mu.Lock()
	added := false
	for len(s.active) < s.capacity {
		candidates := s.candidatesLocked()
		if len(candidates) == 0 {
			break
		}
		pick := candidates[s.rng.Intn(len(candidates))]
		pick.ExpiresIn = model.DefaultQuestionTTLMin +
			s.rng.Intn(model.DefaultQuestionTTLMax-model.DefaultQuestionTTLMin)
		s.active = append(s.active, pick)
		added = true
	}
	s.mu.Unlock()

	if added {
		s.notify()
	}
}

// Snapshot returns the active set ordered soonest-expiry first.
func (s *Scheduler) Snapshot() []model.SuggestedQuestion {
	s.mu.Lock()
	out := append([]model.SuggestedQuestion(nil), s.active...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpiresIn < out[j].ExpiresIn
	})
	return out
}

// ActiveCount returns the current active set size.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

func (s *Scheduler) candidatesLocked() []model.SuggestedQuestion {
	activeIDs := make(map[string]bool, len(s.active))
	for _, q := range s.active {
		activeIDs[q.ID] = true
	}
	var out []model.SuggestedQuestion
	for _, q := range s.pool {
		if activeIDs[q.ID] || s.consumed[q.ID] {
			continue
		}
		out = append(out, q)
	}
	return out
}

func (s *Scheduler) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
