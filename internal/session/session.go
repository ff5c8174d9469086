package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/theCampel/lightspeed/internal/feed"
	"github.com/theCampel/lightspeed/internal/ingest"
	"github.com/theCampel/lightspeed/internal/model"
	"github.com/theCampel/lightspeed/internal/query"
	"github.com/theCampel/lightspeed/internal/questions"
)

// Transport is the slice of the stream manager the session consumes.
type Transport interface {
	Frames() <-chan []byte
	Done() <-chan struct{}
	Close() error
}

// SummaryFetcher retrieves the meeting summary once a call stops.
type SummaryFetcher interface {
	FetchSummary(ctx context.Context) (model.SummaryPayload, error)
}

// Recorder persists raw wire frames as they arrive. Optional.
type Recorder interface {
	Append(frame []byte) error
}

// Session is the single reducer for one advisor call. Every wire frame,
// countdown tick, and backfill pass flows through its Run loop, so the
// store and scheduler only ever see one writer driving session logic.
type Session struct {
	ctx       *SessionContext
	transport Transport
	store     *feed.Store
	sched     *questions.Scheduler
	queries   *query.Orchestrator
	summaries SummaryFetcher
	recorder  Recorder

	tickEvery     time.Duration
	backfillEvery time.Duration

	mu           sync.Mutex
	transcribing bool
	started      bool

	summaryOnce sync.Once
	closeOnce   sync.Once
	done        chan struct{}
}

// NewSession wires a session over its collaborators. recorder may be nil.
func NewSession(sctx *SessionContext, transport Transport, store *feed.Store,
	sched *questions.Scheduler, queries *query.Orchestrator,
	summaries SummaryFetcher, recorder Recorder) *Session {
	return &Session{
		ctx:           sctx,
		transport:     transport,
		store:         store,
		sched:         sched,
		queries:       queries,
		summaries:     summaries,
		recorder:      recorder,
		tickEvery:     model.DefaultCountdownInterval,
		backfillEvery: model.DefaultBackfillInterval,
		done:          make(chan struct{}),
	}
}

// ID returns the session id.
func (s *Session) ID() string { return s.ctx.ID() }

// Done is closed when the Run loop has exited.
func (s *Session) Done() <-chan struct{} { return s.done }

// Transcribing reports whether the backend says a call is in progress.
func (s *Session) Transcribing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transcribing
}

// Run drives the session until the context is cancelled or the transport
// dies. The scheduler is filled once up front so suggestions appear
// without waiting a full backfill period.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	s.sched.Backfill()

	countdown := time.NewTicker(s.tickEvery)
	defer countdown.Stop()
	backfill := time.NewTicker(s.backfillEvery)
	defer backfill.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.transport.Done():
			return nil
		case frame, ok := <-s.transport.Frames():
			if !ok {
				return nil
			}
			s.handleFrame(ctx, frame)
		case <-countdown.C:
			s.sched.Tick()
		case <-backfill.C:
			s.sched.Backfill()
		}
	}
}

// Ask submits a free-form question and returns the placeholder card id.
func (s *Session) Ask(ctx context.Context, text string, category model.QuestionCategory) string {
	return s.queries.Submit(ctx, text, category)
}

// ClickQuestion consumes a suggested question and submits its text as a
// query. Unknown ids are a no-op returning "".
func (s *Session) ClickQuestion(ctx context.Context, id string) string {
	q, ok := s.sched.Click(id)
	if !ok {
		return ""
	}
	return s.queries.Submit(ctx, q.Text, q.Category)
}

// Close tears down the transport. Idempotent.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.transport.Close()
	})
	return err
}

func (s *Session) handleFrame(ctx context.Context, raw []byte) {
	if s.recorder != nil {
		if err := s.recorder.Append(raw); err != nil {
			log.Printf("session: capture append: %v", err)
		}
	}

	ev, err := ingest.Classify(raw)
	if err != nil {
		// One bad frame never takes the session down.
		switch {
		case errors.Is(err, ingest.ErrParse):
			log.Printf("session: dropping unparseable frame: %v", err)
		case errors.Is(err, ingest.ErrUnrecognized):
			log.Printf("session: dropping unrecognized frame: %v", err)
		default:
			log.Printf("session: dropping invalid frame: %v", err)
		}
		return
	}

	switch ev := ev.(type) {
	case model.StatusEvent:
		s.handleStatus(ctx, ev)
	case model.CardEvent:
		card := ev.Card
		if card.ID == "" {
			card.ID = s.ctx.NextCardID()
		}
		s.store.Add(card)
	case model.HighlightEvent:
		s.store.HighlightLatestFund()
	}
}

func (s *Session) handleStatus(ctx context.Context, ev model.StatusEvent) {
	s.mu.Lock()
	s.transcribing = ev.Transcribing
	first := ev.Transcribing && !s.started
	if first {
		s.started = true
	}
	s.mu.Unlock()

	if first {
		s.store.Add(model.Card{
			ID:    s.ctx.NextCardID(),
			Kind:  model.KindClient,
			Title: "Session started",
			Body:  "Live transcription is running. Insights will appear here as the conversation unfolds.",
		})
		return
	}

	if !ev.Transcribing {
		s.fetchSummary(ctx)
	}
}

// fetchSummary runs at most once per session. Repeated stop frames and a
// stop racing teardown both collapse into the single summary card.
func (s *Session) fetchSummary(ctx context.Context) {
	s.summaryOnce.Do(func() {
		go func() {
			sum, err := s.summaries.FetchSummary(ctx)
			if err != nil {
				log.Printf("session: summary fetch: %v", err)
				s.store.Add(model.Card{
					ID:        s.ctx.NextCardID(),
					Kind:      model.KindSummary,
					Title:     "Meeting Summary",
					Loading:   false,
					ErrorText: "Could not load the meeting summary.",
				})
				return
			}
			s.store.Add(model.Card{
				ID:      s.ctx.NextCardID(),
				Kind:    model.KindSummary,
				Title:   "Meeting Summary",
				Summary: &sum,
			})
		}()
	})
}
