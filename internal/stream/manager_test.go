package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/theCampel/lightspeed/internal/model"
)

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func echoServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// Hold the socket open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func TestManagerDeliversFramesInOrder(t *testing.T) {
	ts := echoServer(t, []string{`{"status":"start"}`, `{"card":"highlight_esg"}`})
	defer ts.Close()

	m := NewManager(wsURL(ts))
	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer m.Close()

	if got := m.State(); got != model.StateOpen {
		t.Fatalf("state = %s after connect, want open", got)
	}

	var got []string
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case frame := <-m.Frames():
			got = append(got, string(frame))
		case <-timeout:
			t.Fatalf("timed out, frames so far: %v", got)
		}
	}
	if got[0] != `{"status":"start"}` || got[1] != `{"card":"highlight_esg"}` {
		t.Fatalf("frames out of order: %v", got)
	}
}

func TestManagerConnectIsIdempotent(t *testing.T) {
	ts := echoServer(t, nil)
	defer ts.Close()

	m := NewManager(wsURL(ts))
	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer m.Close()

	// Second connect must not open a second socket or error.
	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect: %v", err)
	}
}

func TestManagerDialFailureSurfacesError(t *testing.T) {
	m := NewManager("ws://127.0.0.1:1/ws")
	if err := m.Connect(context.Background()); err == nil {
		t.Fatalf("Connect to dead address succeeded")
	}
	if got := m.State(); got != model.StateErrored {
		t.Fatalf("state = %s, want errored", got)
	}
	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatalf("Done not closed after dial failure")
	}
}

func TestManagerCloseIsIdempotentAndClosesDone(t *testing.T) {
	ts := echoServer(t, nil)
	defer ts.Close()

	m := NewManager(wsURL(ts))
	if err := m.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_ = m.Close()

	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatalf("Done not closed after Close")
	}
	if got := m.State(); got != model.StateClosed {
		t.Fatalf("state = %s after close, want closed", got)
	}
}
