package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/theCampel/lightspeed/internal/model"
)

func TestHealthOK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","uptime":"1m"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestHealthNon200IsFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	err := c.Health(context.Background())
	if !errors.Is(err, ErrRequest) {
		t.Fatalf("Health error = %v, want ErrRequest", err)
	}
}

func TestProcessQueryReturnsFirstCard(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/queries/process" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"cards":[{"id":"card-1757000000","type":"stock","title":"NVDA Performance","content":"up","stock_data":{"symbol":"NVDA","price":845.27}}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	card, err := c.ProcessQuery(context.Background(), "how is nvidia doing", model.CategoryMarket)
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if card.Kind != model.KindStock {
		t.Errorf("kind = %s, want stock", card.Kind)
	}
	if card.Stock == nil || card.Stock.Symbol != "NVDA" {
		t.Errorf("stock payload = %+v", card.Stock)
	}
}

func TestProcessQueryUnsuccessfulResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"could not understand query","cards":[]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	_, err := c.ProcessQuery(context.Background(), "???", model.CategoryGeneral)
	if !errors.Is(err, ErrRequest) {
		t.Fatalf("error = %v, want ErrRequest", err)
	}
}

func TestFetchSummaryShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"discussion_points":["x"],"action_items":[],"investment_goal_changes":[]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	sum, err := c.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("FetchSummary: %v", err)
	}
	if len(sum.DiscussionPoints) != 1 || sum.DiscussionPoints[0] != "x" {
		t.Errorf("discussion points = %v", sum.DiscussionPoints)
	}
	if len(sum.ActionItems) != 0 || len(sum.InvestmentGoalChanges) != 0 {
		t.Errorf("summary = %+v, want empty action items and goal changes", sum)
	}
}

func TestUnknownCardTypeFallsBackToClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"cards":[{"id":"c1","type":"weather","title":"t","content":"c"}]}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	card, err := c.ProcessQuery(context.Background(), "q", model.CategoryGeneral)
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if card.Kind != model.KindClient {
		t.Errorf("kind = %s, want client fallback", card.Kind)
	}
}
