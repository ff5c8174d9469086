package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/theCampel/lightspeed/internal/model"
)

func TestProberDegradesAfterThreeConsecutiveFailures(t *testing.T) {
	failing := func(_ context.Context) error { return errors.New("unreachable") }
	p := NewProber(failing, time.Minute)

	ctx := context.Background()
	p.Sample(ctx)
	p.Sample(ctx)
	if got := p.Liveness(); got != model.LivenessLive {
		t.Fatalf("liveness = %s after 2 failures, want live", got)
	}

	p.Sample(ctx)
	if got := p.Liveness(); got != model.LivenessDegraded {
		t.Fatalf("liveness = %s after 3 failures, want degraded", got)
	}
}

func TestProberSingleSuccessRestoresLive(t *testing.T) {
	var err error
	p := NewProber(func(_ context.Context) error { return err }, time.Minute)

	ctx := context.Background()
	err = errors.New("down")
	for i := 0; i < 5; i++ {
		p.Sample(ctx)
	}
	if got := p.Liveness(); got != model.LivenessDegraded {
		t.Fatalf("liveness = %s, want degraded", got)
	}

	err = nil
	p.Sample(ctx)
	if got := p.Liveness(); got != model.LivenessLive {
		t.Fatalf("liveness = %s after success, want live", got)
	}
}

func TestProberSuccessResetsFailureStreak(t *testing.T) {
	var err error
	p := NewProber(func(_ context.Context) error { return err }, time.Minute)
	ctx := context.Background()

	// Two failures, a success, then two more failures: never degraded.
	err = errors.New("down")
	p.Sample(ctx)
	p.Sample(ctx)
	err = nil
	p.Sample(ctx)
	err = errors.New("down")
	p.Sample(ctx)
	p.Sample(ctx)

	if got := p.Liveness(); got != model.LivenessLive {
		t.Fatalf("liveness = %s, want live after interleaved success", got)
	}
}
