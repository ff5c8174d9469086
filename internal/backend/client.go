package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/theCampel/lightspeed/internal/model"
)

// Request errors. Timeouts are distinguished from other failures for
// logging only; both surface to the feed the same way.
var (
	ErrTimeout = errors.New("backend: request timed out")
	ErrRequest = errors.New("backend: request failed")
)

// Client is the REST side of the backend: health checks, query
// processing, and the supplementary lookups. The persistent event stream
// is not its concern.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:8000". Per-call deadlines come from contexts, not the
// http.Client, so health probes can run tighter than queries.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// Health performs the lightweight liveness check.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, model.DefaultHealthTimeout)
	defer cancel()

	var body struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/api/health", &body); err != nil {
		return err
	}
	if body.Status != "ok" {
		return fmt.Errorf("%w: health status %q", ErrRequest, body.Status)
	}
	return nil
}

// QueryRequest is the submit-query wire contract.
type QueryRequest struct {
	QueryText string `json:"query_text"`
	QueryType string `json:"query_type"`
}

// queryResponse is the wire envelope for processed queries.
type queryResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Cards   []wireCard `json:"cards"`
}

type wireCard struct {
	ID        string                  `json:"id"`
	Type      string                  `json:"type"`
	Title     string                  `json:"title"`
	Content   string                  `json:"content"`
	Stock     *model.StockPayload     `json:"stock_data,omitempty"`
	Funds     []model.FundPayload     `json:"fund_suggestions,omitempty"`
	News      []model.NewsItem        `json:"news,omitempty"`
	Portfolio *model.PortfolioPayload `json:"portfolio_data,omitempty"`
	Summary   *model.SummaryPayload   `json:"summary,omitempty"`
}

// ProcessQuery submits a user question and returns the resulting card
// content. The caller owns id and rank assignment.
func (c *Client) ProcessQuery(ctx context.Context, text string, category model.QuestionCategory) (model.Card, error) {
	ctx, cancel := context.WithTimeout(ctx, model.DefaultRequestTimeout)
	defer cancel()

	req := QueryRequest{QueryText: text, QueryType: string(category)}
	var resp queryResponse
	if err := c.post(ctx, "/api/queries/process", req, &resp); err != nil {
		return model.Card{}, err
	}
	if !resp.Success || len(resp.Cards) == 0 {
		return model.Card{}, fmt.Errorf("%w: %s", ErrRequest, orDefault(resp.Message, "no cards in response"))
	}
	return resp.Cards[0].toCard(), nil
}

// FetchSummary retrieves the structured meeting summary after a call stops.
func (c *Client) FetchSummary(ctx context.Context) (model.SummaryPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, model.DefaultRequestTimeout)
	defer cancel()

	var out model.SummaryPayload
	if err := c.get(ctx, "/api/summary", &out); err != nil {
		return model.SummaryPayload{}, err
	}
	return out, nil
}

// FetchProfile retrieves the client profile shown beside the feed.
func (c *Client) FetchProfile(ctx context.Context) (model.ClientProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, model.DefaultRequestTimeout)
	defer cancel()

	var out model.ClientProfile
	if err := c.get(ctx, "/api/profile", &out); err != nil {
		return model.ClientProfile{}, err
	}
	return out, nil
}

// FetchPortfolio retrieves the portfolio overview.
func (c *Client) FetchPortfolio(ctx context.Context) (model.PortfolioPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, model.DefaultRequestTimeout)
	defer cancel()

	var out model.PortfolioPayload
	if err := c.get(ctx, "/api/portfolio", &out); err != nil {
		return model.PortfolioPayload{}, err
	}
	return out, nil
}

// FetchFunds retrieves the fund suggestion universe.
func (c *Client) FetchFunds(ctx context.Context) ([]model.FundPayload, error) {
	ctx, cancel := context.WithTimeout(ctx, model.DefaultRequestTimeout)
	defer cancel()

	var out []model.FundPayload
	if err := c.get(ctx, "/api/funds", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (w wireCard) toCard() model.Card {
	card := model.Card{
		ID:        w.ID,
		Kind:      model.CardKind(w.Type),
		Title:     w.Title,
		Body:      w.Content,
		Stock:     w.Stock,
		Funds:     w.Funds,
		News:      w.News,
		Portfolio: w.Portfolio,
		Summary:   w.Summary,
	}
	switch card.Kind {
	case model.KindPortfolio, model.KindNews, model.KindMarket, model.KindStock,
		model.KindFund, model.KindSummary, model.KindClient, model.KindWelcome:
	default:
		card.Kind = model.KindClient
	}
	return card
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encode body: %v", ErrRequest, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrTimeout, req.URL.Path)
		}
		return fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrRequest, req.URL.Path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrRequest, req.URL.Path, err)
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
