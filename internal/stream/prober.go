package stream

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/theCampel/lightspeed/internal/model"
)

// ProbeFunc checks whether the backend is reachable. Implementations are
// expected to enforce their own short timeout.
type ProbeFunc func(ctx context.Context) error

// Prober samples backend reachability on a fixed interval and keeps a
// live/degraded flag. Probe failures are absorbed here and never surface
// as transport errors.
type Prober struct {
	probe     ProbeFunc
	interval  time.Duration
	threshold int

	mu       sync.Mutex
	failures int
	liveness model.Liveness
}

// NewProber creates a prober. Liveness starts live and degrades only
// after the failure threshold is reached.
func NewProber(probe ProbeFunc, interval time.Duration) *Prober {
	if interval <= 0 {
		interval = model.DefaultHealthInterval
	}
	return &Prober{
		probe:     probe,
		interval:  interval,
		threshold: model.DefaultDegradeThreshold,
		liveness:  model.LivenessLive,
	}
}

// Run probes until ctx is cancelled. It samples once immediately so a
// dead backend is noticed at startup rather than one interval later.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Sample(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sample(ctx)
		}
	}
}

// Sample performs one probe and updates the liveness flag. A single
// success restores live; threshold consecutive failures degrade.
func (p *Prober) Sample(ctx context.Context) {
	err := p.probe(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err == nil {
		if p.liveness == model.LivenessDegraded {
			log.Printf("stream: backend connection restored")
		}
		p.failures = 0
		p.liveness = model.LivenessLive
		return
	}

	p.failures++
	if p.failures >= p.threshold && p.liveness == model.LivenessLive {
		p.liveness = model.LivenessDegraded
		log.Printf("stream: backend degraded after %d failed probes: %v", p.failures, err)
	}
}

// Liveness reports the current flag.
func (p *Prober) Liveness() model.Liveness {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.liveness
}
