package backendsim

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// step is one frame of the scripted demo, sent after its delay.
type step struct {
	delay time.Duration
	frame func(s *Server) any
}

// demoScript mirrors a short advisor call: transcription starts, insight
// cards roll in as topics come up, the fund card gets its ESG highlight,
// and the call stops.
var demoScript = []step{
	{0, func(*Server) any {
		return map[string]string{"status": "start"}
	}},
	{3 * time.Second, func(s *Server) any {
		stock := demoStock()
		return map[string]any{"card": "stock_card", "data": stock}
	}},
	{4 * time.Second, func(*Server) any {
		return map[string]any{"card": "news_card", "data": demoNews()}
	}},
	{4 * time.Second, func(*Server) any {
		return map[string]any{"card": "esg_card", "data": demoFunds()}
	}},
	{3 * time.Second, func(*Server) any {
		return map[string]string{"card": "highlight_esg"}
	}},
	{4 * time.Second, func(*Server) any {
		portfolio := demoPortfolio()
		return map[string]any{"card": "portfolio_card", "data": portfolio}
	}},
	{5 * time.Second, func(*Server) any {
		return map[string]string{"status": "stop"}
	}},
}

// RunScript plays the demo feed through the hub once, respecting each
// step's delay. It returns early if the context is cancelled.
func (s *Server) RunScript(ctx context.Context) error {
	log.Printf("backendsim: starting demo script (%d steps)", len(demoScript))
	for i, st := range demoScript {
		if st.delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(st.delay):
			}
		}

		frame, err := json.Marshal(st.frame(s))
		if err != nil {
			log.Printf("backendsim: script step %d marshal: %v", i, err)
			continue
		}
		s.hub.Broadcast(frame)
	}
	log.Printf("backendsim: demo script finished")
	return nil
}
