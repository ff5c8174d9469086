package model

import (
	"errors"
	"fmt"
)

// CardKind identifies which payload a card carries.
// It is a closed set: the renderer matches on it exhaustively.
type CardKind string

const (
	KindPortfolio CardKind = "portfolio"
	KindNews      CardKind = "news"
	KindMarket    CardKind = "market"
	KindStock     CardKind = "stock"
	KindFund      CardKind = "fund"
	KindSummary   CardKind = "summary"
	KindClient    CardKind = "client"
	KindWelcome   CardKind = "welcome"
)

// ParseProducerTag maps a wire producer tag to its card kind.
func ParseProducerTag(tag string) (CardKind, bool) {
	switch tag {
	case "stock_card":
		return KindStock, true
	case "esg_card":
		return KindFund, true
	case "news_card":
		return KindNews, true
	case "portfolio_card":
		return KindPortfolio, true
	case "market_card":
		return KindMarket, true
	}
	return "", false
}

// Card is one unit of insight content surfaced to the advisor.
// Seq is the arrival rank assigned by the session; newer cards have
// higher Seq regardless of what their id encodes.
type Card struct {
	ID        string
	Kind      CardKind
	Title     string
	Body      string
	Seq       uint64
	Pinned    bool
	Loading   bool
	ErrorText string

	Stock     *StockPayload
	Funds     []FundPayload
	News      []NewsItem
	Portfolio *PortfolioPayload
	Summary   *SummaryPayload
}

// Validate checks that the payload shape matches the declared kind.
// A loading card is allowed an empty payload.
func (c *Card) Validate() error {
	if c.ID == "" {
		return errors.New("card: empty id")
	}
	if c.Loading {
		return nil
	}
	switch c.Kind {
	case KindStock:
		if c.Stock == nil {
			return fmt.Errorf("card %s: stock kind without stock payload", c.ID)
		}
	case KindFund:
		if len(c.Funds) == 0 {
			return fmt.Errorf("card %s: fund kind without fund payload", c.ID)
		}
	case KindNews:
		if len(c.News) == 0 {
			return fmt.Errorf("card %s: news kind without news payload", c.ID)
		}
	case KindPortfolio:
		if c.Portfolio == nil {
			return fmt.Errorf("card %s: portfolio kind without portfolio payload", c.ID)
		}
	case KindSummary:
		if c.Summary == nil {
			return fmt.Errorf("card %s: summary kind without summary payload", c.ID)
		}
	case KindMarket, KindClient, KindWelcome:
		// Plain text kinds carry no structured payload.
	default:
		return fmt.Errorf("card %s: unknown kind %q", c.ID, c.Kind)
	}
	return nil
}

// Clone returns a deep copy so store snapshots cannot be mutated by readers.
func (c Card) Clone() Card {
	out := c
	if c.Stock != nil {
		stock := *c.Stock
		stock.History = append([]PricePoint(nil), c.Stock.History...)
		stock.RelatedNews = append([]Headline(nil), c.Stock.RelatedNews...)
		out.Stock = &stock
	}
	if c.Funds != nil {
		out.Funds = append([]FundPayload(nil), c.Funds...)
	}
	if c.News != nil {
		out.News = append([]NewsItem(nil), c.News...)
	}
	if c.Portfolio != nil {
		p := *c.Portfolio
		p.Allocation = append([]AllocationSlice(nil), c.Portfolio.Allocation...)
		p.Performance = append([]PerformancePoint(nil), c.Portfolio.Performance...)
		out.Portfolio = &p
	}
	if c.Summary != nil {
		s := *c.Summary
		s.DiscussionPoints = append([]string(nil), c.Summary.DiscussionPoints...)
		s.ActionItems = append([]string(nil), c.Summary.ActionItems...)
		s.InvestmentGoalChanges = append([]string(nil), c.Summary.InvestmentGoalChanges...)
		out.Summary = &s
	}
	return out
}

// PricePoint is one sample of a price series.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
	Volume    int64   `json:"volume,omitempty"`
}

// Headline is a short news item attached to a stock payload.
type Headline struct {
	Headline  string `json:"headline"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
	Sentiment string `json:"sentiment"`
}

// StockPayload carries a single equity quote with recent history.
type StockPayload struct {
	Symbol        string       `json:"symbol"`
	Company       string       `json:"company"`
	Price         float64      `json:"price"`
	Change        float64      `json:"change"`
	ChangePercent float64      `json:"change_percent"`
	Volume        int64        `json:"volume"`
	History       []PricePoint `json:"history,omitempty"`
	RelatedNews   []Headline   `json:"related_news,omitempty"`
}

// FundPayload is one fund suggestion. ESGHighlight is flipped in place by
// the highlight wire event rather than by a new card.
type FundPayload struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Ticker       string  `json:"ticker"`
	Category     string  `json:"category"`
	ExpenseRatio float64 `json:"expense_ratio"`
	ESG          bool    `json:"esg"`
	ESGHighlight bool    `json:"esg_highlight,omitempty"`
}

// NewsItem is one article in a news card.
type NewsItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Source      string `json:"source"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Summary     string `json:"summary"`
	Sentiment   string `json:"sentiment"`
}

// AllocationSlice is one segment of a portfolio allocation breakdown.
type AllocationSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PerformancePoint is one sample of portfolio value over time.
type PerformancePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// PortfolioPayload carries the client portfolio overview.
type PortfolioPayload struct {
	TotalValue    float64            `json:"total_value"`
	Change        float64            `json:"change"`
	ChangePercent float64            `json:"change_percent"`
	Period        string             `json:"period"`
	Allocation    []AllocationSlice  `json:"allocation,omitempty"`
	Performance   []PerformancePoint `json:"performance,omitempty"`
}

// SummaryPayload is the structured meeting summary produced after a call stops.
type SummaryPayload struct {
	DiscussionPoints      []string `json:"discussion_points"`
	ActionItems           []string `json:"action_items"`
	InvestmentGoalChanges []string `json:"investment_goal_changes"`
}

// ClientProfile describes the client shown next to the feed.
type ClientProfile struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Occupation       string   `json:"occupation"`
	Since            string   `json:"since"`
	RiskAppetite     string   `json:"risk_appetite"`
	PortfolioSize    float64  `json:"portfolio_size"`
	PreferredContact string   `json:"preferred_contact"`
	Notes            string   `json:"notes"`
	Tags             []string `json:"tags,omitempty"`
}
