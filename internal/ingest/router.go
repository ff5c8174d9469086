package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/theCampel/lightspeed/internal/model"
)

// Classification errors. Callers log and drop; a bad frame must never
// terminate the stream.
var (
	// ErrParse marks frames that are not valid JSON objects.
	ErrParse = errors.New("ingest: malformed frame")

	// ErrValidation marks frames with a recognized shape but missing or
	// inconsistent fields for their declared kind.
	ErrValidation = errors.New("ingest: invalid frame")

	// ErrUnrecognized marks well-formed frames with no known discriminator.
	ErrUnrecognized = errors.New("ingest: unrecognized frame")
)

// wireFrame is the top-level envelope of every inbound message. Status
// frames and card frames are discriminated by which field is present.
type wireFrame struct {
	Status string          `json:"status,omitempty"`
	Card   string          `json:"card,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Classify parses one raw frame into a typed event. The returned error is
// always one of ErrParse, ErrValidation, or ErrUnrecognized (wrapped).
func Classify(raw []byte) (model.Event, error) {
	var frame wireFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if frame.Status != "" {
		switch frame.Status {
		case "start":
			return model.StatusEvent{Transcribing: true}, nil
		case "stop":
			return model.StatusEvent{Transcribing: false}, nil
		}
		return nil, fmt.Errorf("%w: status %q", ErrValidation, frame.Status)
	}

	if frame.Card != "" {
		return classifyCard(frame)
	}

	return nil, fmt.Errorf("%w: no status or card field", ErrUnrecognized)
}

func classifyCard(frame wireFrame) (model.Event, error) {
	if frame.Card == "highlight_esg" {
		return model.HighlightEvent{}, nil
	}

	kind, ok := model.ParseProducerTag(frame.Card)
	if !ok {
		return nil, fmt.Errorf("%w: producer tag %q", ErrUnrecognized, frame.Card)
	}
	if len(frame.Data) == 0 {
		return nil, fmt.Errorf("%w: %s frame without data", ErrValidation, frame.Card)
	}

	card, err := decodeCard(kind, frame.Data)
	if err != nil {
		return nil, err
	}
	return model.CardEvent{Card: card}, nil
}

func decodeCard(kind model.CardKind, data json.RawMessage) (model.Card, error) {
	card := model.Card{Kind: kind}

	switch kind {
	case model.KindStock:
		var p model.StockPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return card, fmt.Errorf("%w: stock data: %v", ErrParse, err)
		}
		if p.Symbol == "" {
			return card, fmt.Errorf("%w: stock data without symbol", ErrValidation)
		}
		card.Stock = &p
		card.Title = p.Symbol + " Performance"
		card.Body = stockBody(p)

	case model.KindFund:
		var funds []model.FundPayload
		if err := json.Unmarshal(data, &funds); err != nil {
			return card, fmt.Errorf("%w: fund data: %v", ErrParse, err)
		}
		if len(funds) == 0 {
			return card, fmt.Errorf("%w: empty fund list", ErrValidation)
		}
		for _, f := range funds {
			if f.Name == "" {
				return card, fmt.Errorf("%w: fund without name", ErrValidation)
			}
		}
		card.Funds = funds
		card.Title = "Fund Suggestions"
		card.Body = fmt.Sprintf("%d funds matched the discussion.", len(funds))

	case model.KindNews:
		var items []model.NewsItem
		if err := json.Unmarshal(data, &items); err != nil {
			return card, fmt.Errorf("%w: news data: %v", ErrParse, err)
		}
		if len(items) == 0 {
			return card, fmt.Errorf("%w: empty news list", ErrValidation)
		}
		card.News = items
		card.Title = "Market News"

	case model.KindPortfolio:
		var p model.PortfolioPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return card, fmt.Errorf("%w: portfolio data: %v", ErrParse, err)
		}
		if p.TotalValue == 0 && len(p.Allocation) == 0 {
			return card, fmt.Errorf("%w: empty portfolio data", ErrValidation)
		}
		card.Portfolio = &p
		card.Title = "Portfolio Performance"
		card.Body = fmt.Sprintf("%+.1f%% %s", p.ChangePercent, strings.ToLower(p.Period))

	case model.KindMarket:
		var p struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if err := json.Unmarshal(data, &p); err != nil {
			return card, fmt.Errorf("%w: market data: %v", ErrParse, err)
		}
		if p.Content == "" {
			return card, fmt.Errorf("%w: market frame without content", ErrValidation)
		}
		card.Title = p.Title
		if card.Title == "" {
			card.Title = "Market Insight"
		}
		card.Body = p.Content

	default:
		return card, fmt.Errorf("%w: kind %q has no wire producer", ErrUnrecognized, kind)
	}

	return card, nil
}

func stockBody(p model.StockPayload) string {
	direction := "up"
	if p.Change < 0 {
		direction = "down"
	}
	return fmt.Sprintf("%s is %s %.1f%% at %.2f.", p.Symbol, direction, abs(p.ChangePercent), p.Price)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
