package feed

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/jspark-dev/tacticscan/internal/obslog"
)

// State reflects the relay connection lifecycle.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// PGNCallback receives each text frame of the relay. Frames carry one
// or more complete PGN games.
type PGNCallback func(pgn string)

// StateCallback is invoked on every connection state transition.
type StateCallback func(state State)

// Relay is a websocket client for live PGN broadcast feeds. It keeps a
// single connection alive, pings it, and reconnects with backoff when
// the peer drops.
type Relay struct {
	wsURL string

	conn   *websocket.Conn
	state  State
	stateM sync.RWMutex

	pgnCb   PGNCallback
	stateCb StateCallback
	cbM     sync.RWMutex

	maxReconnectAttempts int
	pingInterval         time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	rootCtx    context.Context
	rootCancel context.CancelFunc
}

func NewRelay(wsURL string, maxReconnectAttempts int) *Relay {
	return &Relay{
		wsURL:                wsURL,
		state:                StateDisconnected,
		maxReconnectAttempts: maxReconnectAttempts,
		pingInterval:         30 * time.Second,
		stopCh:               make(chan struct{}),
	}
}

// OnPGN registers the frame handler. Must be set before Connect.
func (r *Relay) OnPGN(cb PGNCallback) {
	r.cbM.Lock()
	r.pgnCb = cb
	r.cbM.Unlock()
}

// OnStateChange registers the state transition handler.
func (r *Relay) OnStateChange(cb StateCallback) {
	r.cbM.Lock()
	r.stateCb = cb
	r.cbM.Unlock()
}

func (r *Relay) Connect(ctx context.Context) error {
	r.stateM.Lock()
	if r.state == StateConnected || r.state == StateConnecting {
		r.stateM.Unlock()
		return nil
	}
	r.stateM.Unlock()

	r.rootCtx, r.rootCancel = context.WithCancel(context.Background())
	r.setState(StateConnecting)

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, r.wsURL, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		r.setState(StateFailed)
		r.scheduleReconnect()
		return err
	}
	conn.SetReadLimit(4 << 20)

	r.conn = conn
	r.setState(StateConnected)

	r.wg.Add(2)
	go r.listen()
	go r.pingLoop()
	return nil
}

func (r *Relay) listen() {
	defer r.wg.Done()
	for {
		select {
		case <-r.stopCh:
			return
		default:
		}

		if r.conn == nil {
			return
		}
		msgType, data, err := r.conn.Read(r.rootCtx)
		if err != nil {
			if r.isStopping() {
				return
			}
			obslog.L().Warn("feed_read_failed", zap.Error(err))
			r.setState(StateDisconnected)
			_ = r.closeConn(websocket.StatusGoingAway, "reconnect")
			r.scheduleReconnect()
			return
		}
		if msgType != websocket.MessageText || len(data) == 0 {
			continue
		}

		r.cbM.RLock()
		cb := r.pgnCb
		r.cbM.RUnlock()
		if cb != nil {
			cb(string(data))
		}
	}
}

func (r *Relay) pingLoop() {
	defer r.wg.Done()
	t := time.NewTicker(r.pingInterval)
	defer t.Stop()
	consecutivePingFailures := 0
	for {
		select {
		case <-r.stopCh:
			return
		case <-t.C:
			if r.conn == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.rootCtx, 3*time.Second)
			err := r.conn.Ping(ctx)
			cancel()
			if err != nil {
				consecutivePingFailures++
				if consecutivePingFailures >= 2 {
					if r.isStopping() {
						return
					}
					r.setState(StateDisconnected)
					_ = r.closeConn(websocket.StatusGoingAway, "ping failure")
					r.scheduleReconnect()
					consecutivePingFailures = 0
				}
				continue
			}
			consecutivePingFailures = 0
		}
	}
}

func (r *Relay) scheduleReconnect() {
	if r.maxReconnectAttempts <= 0 {
		return
	}
	r.setState(StateReconnecting)

	go func() {
		for attempt := 1; attempt <= r.maxReconnectAttempts; attempt++ {
			select {
			case <-r.stopCh:
				return
			case <-time.After(backoffDuration(attempt)):
			}

			dialCtx, cancel := context.WithTimeout(r.rootCtx, 10*time.Second)
			conn, _, err := websocket.Dial(dialCtx, r.wsURL, &websocket.DialOptions{
				CompressionMode: websocket.CompressionNoContextTakeover,
			})
			cancel()
			if err != nil {
				obslog.L().Warn("feed_reconnect_failed",
					zap.Int("attempt", attempt), zap.Error(err))
				continue
			}
			conn.SetReadLimit(4 << 20)

			r.conn = conn
			r.setState(StateConnected)

			r.wg.Add(2)
			go r.listen()
			go r.pingLoop()
			return
		}
		r.setState(StateFailed)
	}()
}

func (r *Relay) setState(state State) {
	r.stateM.Lock()
	r.state = state
	r.stateM.Unlock()

	r.cbM.RLock()
	cb := r.stateCb
	r.cbM.RUnlock()
	if cb != nil {
		cb(state)
	}
}

// CurrentState returns the last observed connection state.
func (r *Relay) CurrentState() State {
	r.stateM.RLock()
	defer r.stateM.RUnlock()
	return r.state
}

func (r *Relay) Close(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stopCh) })
	_ = r.closeConn(websocket.StatusNormalClosure, "close")

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		if r.rootCancel != nil {
			r.rootCancel()
		}
		return nil
	}
}

func (r *Relay) closeConn(code websocket.StatusCode, reason string) error {
	if r.conn == nil {
		return nil
	}
	defer func() { r.conn = nil }()
	return r.conn.Close(code, reason)
}

func (r *Relay) isStopping() bool {
	select {
	case <-r.stopCh:
		return true
	default:
		return false
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	base := 500 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base
}
