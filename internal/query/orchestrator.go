package query

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/theCampel/lightspeed/internal/backend"
	"github.com/theCampel/lightspeed/internal/feed"
	"github.com/theCampel/lightspeed/internal/model"
)

// DefaultFallbackDelay simulates backend latency on the local path so
// fallback responses do not feel instant and fake.
const DefaultFallbackDelay = 800 * time.Millisecond

// IDSource mints card ids for optimistic placeholders.
type IDSource interface {
	NextCardID() string
}

// Backend is the narrow slice of the REST client the orchestrator needs.
type Backend interface {
	ProcessQuery(ctx context.Context, text string, category model.QuestionCategory) (model.Card, error)
}

// LivenessFunc reports whether the backend is currently reachable.
type LivenessFunc func() model.Liveness

// Orchestrator turns a submitted question into an optimistic loading card
// that is later resolved in place or marked failed. The caller fires and
// forgets; every outcome lands on the card by id.
type Orchestrator struct {
	store    *feed.Store
	ids      IDSource
	backend  Backend
	liveness LivenessFunc

	fallbackDelay time.Duration

	mu       sync.Mutex
	inflight map[string]bool
}

// NewOrchestrator wires the orchestrator to its collaborators.
func NewOrchestrator(store *feed.Store, ids IDSource, be Backend, liveness LivenessFunc) *Orchestrator {
	return &Orchestrator{
		store:         store,
		ids:           ids,
		backend:       be,
		liveness:      liveness,
		fallbackDelay: DefaultFallbackDelay,
		inflight:      make(map[string]bool),
	}
}

// Submit inserts a loading placeholder synchronously and resolves it in
// the background. Returns the placeholder's card id, or "" for blank
// input. When liveness is degraded the local fallback generator answers
// instead of the backend.
func (o *Orchestrator) Submit(ctx context.Context, text string, category model.QuestionCategory) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	id := o.ids.NextCardID()
	o.store.Add(model.Card{
		ID:      id,
		Kind:    placeholderKind(category),
		Title:   text,
		Loading: true,
	})

	o.mu.Lock()
	if o.inflight[id] {
		o.mu.Unlock()
		return id
	}
	o.inflight[id] = true
	o.mu.Unlock()

	go o.resolve(ctx, id, text, category)
	return id
}

func (o *Orchestrator) resolve(ctx context.Context, id, text string, category model.QuestionCategory) {
	defer func() {
		o.mu.Lock()
		delete(o.inflight, id)
		o.mu.Unlock()
	}()

	if o.liveness() == model.LivenessDegraded {
		o.resolveLocally(ctx, id, text, category)
		return
	}

	card, err := o.backend.ProcessQuery(ctx, text, category)
	if err != nil {
		if errors.Is(err, backend.ErrTimeout) {
			log.Printf("query: %s timed out: %v", id, err)
			o.store.SetError(id, "The request timed out. Please try again.")
		} else {
			log.Printf("query: %s failed: %v", id, err)
			o.store.SetError(id, "Failed to process your query. Please try again.")
		}
		return
	}
	o.store.Resolve(id, card)
}

// resolveLocally fabricates a plausible response after a simulated delay.
// Content mirrors what the real backend would shape, clearly labelled.
func (o *Orchestrator) resolveLocally(ctx context.Context, id, text string, category model.QuestionCategory) {
	select {
	case <-ctx.Done():
		o.store.SetError(id, "The session ended before the query finished.")
		return
	case <-time.After(o.fallbackDelay):
	}

	o.store.Resolve(id, model.Card{
		Kind:  placeholderKind(category),
		Title: fmt.Sprintf("Response to: %s", text),
		Body: "The backend is currently unavailable, so this answer was generated " +
			"from pre-prepared material. Reconnect to get live data.",
	})
}

func placeholderKind(category model.QuestionCategory) model.CardKind {
	switch category {
	case model.CategoryPortfolio:
		return model.KindPortfolio
	case model.CategoryMarket:
		return model.KindMarket
	default:
		return model.KindClient
	}
}
