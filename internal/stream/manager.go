package stream

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/theCampel/lightspeed/internal/model"
)

// DefaultFrameBuffer is the channel buffer for inbound wire frames.
const DefaultFrameBuffer = 256

// Manager owns the persistent WebSocket for one session. It dials exactly
// once, exposes raw frames in arrival order, and never auto-retries a
// dropped socket: a dead transport surfaces as a closed Done channel and
// the session decides what to do with it.
type Manager struct {
	url    string
	dialer *websocket.Dialer

	mu      sync.Mutex
	conn    *websocket.Conn
	state   model.ConnectionState
	reason  error
	closing bool

	frames chan []byte
	done   chan struct{}

	dialOnce  sync.Once
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewManager creates a manager for the given WebSocket URL.
func NewManager(url string) *Manager {
	return &Manager{
		url:    url,
		dialer: websocket.DefaultDialer,
		state:  model.StateConnecting,
		frames: make(chan []byte, DefaultFrameBuffer),
		done:   make(chan struct{}),
	}
}

// Connect dials the transport and starts the read loop. Calling it more
// than once is a no-op returning the first dial's outcome, which guards
// against duplicate sockets on re-entry.
func (m *Manager) Connect(ctx context.Context) error {
	var dialErr error
	m.dialOnce.Do(func() {
		conn, _, err := m.dialer.DialContext(ctx, m.url, nil)
		if err != nil {
			m.setState(model.StateErrored, err)
			m.closeOnce.Do(func() {
				close(m.frames)
				close(m.done)
			})
			dialErr = err
			return
		}

		m.mu.Lock()
		m.conn = conn
		m.mu.Unlock()
		m.setState(model.StateOpen, nil)
		log.Printf("stream: connection opened to %s", m.url)

		m.wg.Add(1)
		go m.readLoop()
	})
	if dialErr != nil {
		return dialErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == model.StateErrored {
		return m.reason
	}
	return nil
}

// Frames returns the inbound frame channel. It is closed when the
// transport dies or Close is called.
func (m *Manager) Frames() <-chan []byte { return m.frames }

// Done is closed once the transport is finished, for any reason.
func (m *Manager) Done() <-chan struct{} { return m.done }

// State reports the current connection state.
func (m *Manager) State() model.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// CloseReason returns the error that ended the transport, if any.
func (m *Manager) CloseReason() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reason
}

// Close tears the transport down. Safe to call multiple times and safe to
// call before Connect.
func (m *Manager) Close() error {
	m.mu.Lock()
	conn := m.conn
	m.closing = true
	m.mu.Unlock()

	var err error
	if conn != nil {
		err = conn.Close()
	}
	m.wg.Wait()

	m.closeOnce.Do(func() {
		m.setState(model.StateClosed, nil)
		close(m.frames)
		close(m.done)
		log.Printf("stream: connection closed")
	})
	return err
}

func (m *Manager) readLoop() {
	defer m.wg.Done()

	m.mu.Lock()
	conn := m.conn
	m.mu.Unlock()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.mu.Lock()
			closing := m.closing
			m.mu.Unlock()

			m.closeOnce.Do(func() {
				if closing || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					m.setState(model.StateClosed, nil)
				} else {
					m.setState(model.StateErrored, err)
					log.Printf("stream: transport error: %v", err)
				}
				close(m.frames)
				close(m.done)
			})
			return
		}
		if len(data) == 0 {
			continue
		}
		m.frames <- data
	}
}

func (m *Manager) setState(state model.ConnectionState, reason error) {
	m.mu.Lock()
	m.state = state
	if reason != nil {
		m.reason = reason
	}
	m.mu.Unlock()
}

// ErrNotConnected is returned by operations needing an open transport.
var ErrNotConnected = errors.New("stream: not connected")
