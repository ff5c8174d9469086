package ingest

import (
	"errors"
	"testing"

	"github.com/theCampel/lightspeed/internal/model"
)

func TestClassifyStatusFrames(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"status":"start"}`, true},
		{`{"status":"stop"}`, false},
	}
	for _, tt := range tests {
		ev, err := Classify([]byte(tt.raw))
		if err != nil {
			t.Fatalf("Classify(%s): %v", tt.raw, err)
		}
		status, ok := ev.(model.StatusEvent)
		if !ok {
			t.Fatalf("Classify(%s) = %T, want StatusEvent", tt.raw, ev)
		}
		if status.Transcribing != tt.want {
			t.Errorf("Classify(%s).Transcribing = %v, want %v", tt.raw, status.Transcribing, tt.want)
		}
	}
}

func TestClassifyStockCard(t *testing.T) {
	raw := `{"card":"stock_card","data":{"symbol":"NVDA","company":"NVIDIA Corporation","price":845.27,"change":45.63,"change_percent":5.7,"volume":54362800}}`

	ev, err := Classify([]byte(raw))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	ce, ok := ev.(model.CardEvent)
	if !ok {
		t.Fatalf("Classify = %T, want CardEvent", ev)
	}
	if ce.Card.Kind != model.KindStock {
		t.Errorf("kind = %s, want stock", ce.Card.Kind)
	}
	if ce.Card.Stock == nil || ce.Card.Stock.Symbol != "NVDA" {
		t.Errorf("stock payload = %+v", ce.Card.Stock)
	}
	if ce.Card.Title != "NVDA Performance" {
		t.Errorf("title = %q", ce.Card.Title)
	}
}

func TestClassifyFundCard(t *testing.T) {
	raw := `{"card":"esg_card","data":[{"id":"f1","name":"Green Horizon","ticker":"GRNH","esg":true},{"id":"f2","name":"Broad Index","ticker":"BIDX"}]}`

	ev, err := Classify([]byte(raw))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	ce := ev.(model.CardEvent)
	if ce.Card.Kind != model.KindFund {
		t.Errorf("kind = %s, want fund", ce.Card.Kind)
	}
	if len(ce.Card.Funds) != 2 {
		t.Errorf("funds = %d, want 2", len(ce.Card.Funds))
	}
}

func TestClassifyHighlight(t *testing.T) {
	ev, err := Classify([]byte(`{"card":"highlight_esg"}`))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if _, ok := ev.(model.HighlightEvent); !ok {
		t.Fatalf("Classify = %T, want HighlightEvent", ev)
	}
}

func TestClassifyFailSoft(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"truncated json", `{"card":"stock_c`, ErrParse},
		{"not an object", `[1,2,3]`, ErrParse},
		{"empty object", `{}`, ErrUnrecognized},
		{"unknown tag", `{"card":"weather_card","data":{}}`, ErrUnrecognized},
		{"unknown status", `{"status":"pause"}`, ErrValidation},
		{"stock without symbol", `{"card":"stock_card","data":{"price":1.0}}`, ErrValidation},
		{"stock data wrong type", `{"card":"stock_card","data":[1]}`, ErrParse},
		{"card without data", `{"card":"esg_card"}`, ErrValidation},
		{"empty fund list", `{"card":"esg_card","data":[]}`, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Classify([]byte(tt.raw))
			if ev != nil {
				t.Fatalf("Classify returned event %T for bad frame", ev)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Classify error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClassifyMarketCardDefaultsTitle(t *testing.T) {
	ev, err := Classify([]byte(`{"card":"market_card","data":{"content":"Volatility is elevated."}}`))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	ce := ev.(model.CardEvent)
	if ce.Card.Title != "Market Insight" {
		t.Errorf("title = %q, want default", ce.Card.Title)
	}
	if ce.Card.Body != "Volatility is elevated." {
		t.Errorf("body = %q", ce.Card.Body)
	}
}
