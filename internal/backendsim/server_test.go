package backendsim

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) (*Server, *gin.Engine) {
	t.Helper()
	srv := NewServer("", NewHub())
	srv.startTime = time.Now()

	r := gin.New()
	r.Use(gin.Recovery())
	srv.registerRoutes(r)
	return srv, r
}

func TestHealthEndpoint(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
}

func TestProcessQueryRoutesByKeyword(t *testing.T) {
	_, r := newTestServer(t)

	cases := []struct {
		query    string
		wantType string
	}{
		{"how is nvidia doing", "stock"},
		{"any esg funds for me", "fund"},
		{"show me my portfolio balance", "portfolio"},
		{"what is in the news", "news"},
		{"tell me a joke", "client"},
	}

	for _, tc := range cases {
		body, _ := json.Marshal(map[string]string{"query_text": tc.query})
		req := httptest.NewRequest(http.MethodPost, "/api/queries/process", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("%q status = %d, want %d", tc.query, w.Code, http.StatusOK)
			continue
		}
		var resp struct {
			Success bool           `json:"success"`
			Cards   []responseCard `json:"cards"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal %q: %v", tc.query, err)
		}
		if !resp.Success || len(resp.Cards) != 1 {
			t.Errorf("%q response = %+v", tc.query, resp)
			continue
		}
		if resp.Cards[0].Type != tc.wantType {
			t.Errorf("%q card type = %s, want %s", tc.query, resp.Cards[0].Type, tc.wantType)
		}
		if resp.Cards[0].ID == "" {
			t.Errorf("%q card has empty id", tc.query)
		}
	}
}

func TestProcessQueryRejectsMissingText(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/queries/process", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("empty query status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSummaryEndpointShape(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/summary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("summary status = %d, want %d", w.Code, http.StatusOK)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	for _, key := range []string{"discussion_points", "action_items", "investment_goal_changes"} {
		if _, ok := body[key]; !ok {
			t.Errorf("summary missing %q", key)
		}
	}
}

func TestProfileAndFundsEndpoints(t *testing.T) {
	_, r := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("profile status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/funds", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("funds status = %d", w.Code)
	}
	var funds []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &funds); err != nil {
		t.Fatalf("unmarshal funds: %v", err)
	}
	if len(funds) == 0 {
		t.Errorf("funds endpoint returned empty list")
	}
}

func TestHubBroadcastReachesConnectedClients(t *testing.T) {
	hub := NewHub()
	ts := httptest.NewServer(http.HandlerFunc(hub.Serve))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ClientCount() != 1 {
		t.Fatalf("client count = %d, want 1", hub.ClientCount())
	}

	hub.Broadcast([]byte(`{"status":"start"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != `{"status":"start"}` {
		t.Errorf("received %s", msg)
	}
}

func TestScriptFramesAreValidWireMessages(t *testing.T) {
	srv, _ := newTestServer(t)

	for i, st := range demoScript {
		frame, err := json.Marshal(st.frame(srv))
		if err != nil {
			t.Fatalf("step %d marshal: %v", i, err)
		}
		var probe struct {
			Status string          `json:"status"`
			Card   string          `json:"card"`
			Data   json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(frame, &probe); err != nil {
			t.Fatalf("step %d invalid frame: %v", i, err)
		}
		if probe.Status == "" && probe.Card == "" {
			t.Errorf("step %d frame has neither status nor card: %s", i, frame)
		}
	}
}

func TestRunScriptStopsOnCancel(t *testing.T) {
	srv, _ := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := srv.RunScript(ctx)
	if err == nil {
		t.Fatalf("RunScript with cancelled context returned nil")
	}
}
