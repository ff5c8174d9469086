package questions

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/theCampel/lightspeed/internal/model"
)

func newTestScheduler() *Scheduler {
	return NewScheduler(model.DefaultQuestionPool(), rand.New(rand.NewSource(1)))
}

func TestBackfillRespectsCapacity(t *testing.T) {
	s := newTestScheduler()

	s.Backfill()
	if got := s.ActiveCount(); got != model.DefaultQuestionCapacity {
		t.Fatalf("active = %d after backfill, want %d", got, model.DefaultQuestionCapacity)
	}

	// Repeated backfills never exceed capacity.
	for i := 0; i < 5; i++ {
		s.Backfill()
	}
	if got := s.ActiveCount(); got != model.DefaultQuestionCapacity {
		t.Fatalf("active = %d after repeated backfill, want %d", got, model.DefaultQuestionCapacity)
	}
}

func TestBackfillAssignsTTLInRange(t *testing.T) {
	s := newTestScheduler()
	s.Backfill()

	for _, q := range s.Snapshot() {
		if q.ExpiresIn < model.DefaultQuestionTTLMin || q.ExpiresIn >= model.DefaultQuestionTTLMax {
			t.Fatalf("question %s ttl = %d, want [%d,%d)", q.ID, q.ExpiresIn,
				model.DefaultQuestionTTLMin, model.DefaultQuestionTTLMax)
		}
	}
}

func TestBackfillNeverDuplicatesActiveIDs(t *testing.T) {
	s := newTestScheduler()
	for i := 0; i < 10; i++ {
		s.Backfill()
		seen := make(map[string]bool)
		for _, q := range s.Snapshot() {
			if seen[q.ID] {
				t.Fatalf("question %s active twice", q.ID)
			}
			seen[q.ID] = true
		}
		s.Tick()
	}
}

func TestTickDecrementsAndPurgesAtZero(t *testing.T) {
	s := newTestScheduler()
	s.Backfill()

	snap := s.Snapshot()
	maxTTL := 0
	ttls := make(map[string]int, len(snap))
	for _, q := range snap {
		ttls[q.ID] = q.ExpiresIn
		if q.ExpiresIn > maxTTL {
			maxTTL = q.ExpiresIn
		}
	}

	for elapsed := 1; elapsed <= maxTTL; elapsed++ {
		s.Tick()
		for _, q := range s.Snapshot() {
			want := ttls[q.ID] - elapsed
			if q.ExpiresIn != want {
				t.Fatalf("question %s ttl = %d after %d ticks, want %d", q.ID, q.ExpiresIn, elapsed, want)
			}
			if q.ExpiresIn <= 0 {
				t.Fatalf("question %s active with ttl %d", q.ID, q.ExpiresIn)
			}
		}
	}

	if got := s.ActiveCount(); got != 0 {
		t.Fatalf("active = %d after all TTLs elapsed, want 0", got)
	}
}

func TestClickRemovesAndExcludesFromBackfill(t *testing.T) {
	s := newTestScheduler()
	s.Backfill()

	snap := s.Snapshot()
	clicked := snap[0].ID

	q, ok := s.Click(clicked)
	if !ok || q.ID != clicked {
		t.Fatalf("Click(%s) = %+v, %v", clicked, q, ok)
	}
	if got := s.ActiveCount(); got != model.DefaultQuestionCapacity-1 {
		t.Fatalf("active = %d after click, want %d", got, model.DefaultQuestionCapacity-1)
	}

	// Exhaust every backfill round: the clicked id must never come back.
	for i := 0; i < 20; i++ {
		s.Backfill()
		for _, q := range s.Snapshot() {
			if q.ID == clicked {
				t.Fatalf("consumed question %s returned via backfill", clicked)
			}
		}
		s.Tick()
	}
}

func TestClickUnknownIdIsNoOp(t *testing.T) {
	s := newTestScheduler()
	s.Backfill()

	if _, ok := s.Click("nope"); ok {
		t.Fatalf("Click on unknown id reported success")
	}
	if got := s.ActiveCount(); got != model.DefaultQuestionCapacity {
		t.Fatalf("active = %d after unknown click, want %d", got, model.DefaultQuestionCapacity)
	}
}

func TestSnapshotOrdersBySoonestExpiry(t *testing.T) {
	s := newTestScheduler()
	s.Backfill()

	snap := s.Snapshot()
	for i := 1; i < len(snap); i++ {
		if snap[i-1].ExpiresIn > snap[i].ExpiresIn {
			t.Fatalf("snapshot not sorted by expiry: %v", snap)
		}
	}
}

func TestConcurrentTickClickBackfillKeepsInvariants(t *testing.T) {
	s := newTestScheduler()
	s.Backfill()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.Tick()
				s.Backfill()
				if snap := s.Snapshot(); len(snap) > 0 {
					s.Click(snap[0].ID)
				}
			}
		}()
	}
	wg.Wait()

	if got := s.ActiveCount(); got > model.DefaultQuestionCapacity {
		t.Fatalf("active = %d, capacity invariant broken", got)
	}
	for _, q := range s.Snapshot() {
		if q.ExpiresIn <= 0 {
			t.Fatalf("question %s active with non-positive ttl", q.ID)
		}
	}
}
