package infrastructure

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/application/port"
	"github.com/abdelrahmanseada/Car-Parking/internal/modules/realtime/domain"
)

// WSListener maintains one websocket connection to the backend's update
// feed and dispatches every decoded frame. Dropped connections are
// redialed with capped backoff; a frame the decoder rejects is logged and
// skipped, never fatal.
type WSListener struct {
	url      string
	token    func() string
	dispatch port.Handler

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWSListener builds a listener for rawURL. token is read before every
// dial so a refreshed session is picked up on reconnect; it may be nil
// for anonymous feeds.
func NewWSListener(rawURL string, token func() string, dispatch port.Handler) *WSListener {
	if token == nil {
		token = func() string { return "" }
	}
	return &WSListener{url: strings.TrimSpace(rawURL), token: token, dispatch: dispatch}
}

func (l *WSListener) Start(ctx context.Context) error {
	if l.url == "" {
		return errors.New("websocket url is not configured")
	}
	if l.dispatch == nil {
		return errors.New("websocket dispatch target is not configured")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		return errors.New("websocket feed already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(runCtx)
	return nil
}

// Stop closes the current connection and waits for the run loop to exit.
// Safe to call when the feed never started.
func (l *WSListener) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	done := l.done
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	// Cancel before snapshotting the connection: the run loop refuses to
	// publish a new conn once the context is done, so whatever is here
	// after this point is the one the reader is blocked on.
	cancel()

	l.mu.Lock()
	conn := l.conn
	l.mu.Unlock()
	if conn != nil {
		deadline := time.Now().Add(5 * time.Second)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = conn.Close()
	}
	<-done
}

func (l *WSListener) run(ctx context.Context) {
	defer close(l.done)

	retry := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		conn, err := l.dial(ctx)
		if err != nil {
			slog.Warn("ws feed dial failed", slog.Any("error", err), slog.Duration("retryIn", retry))
			select {
			case <-ctx.Done():
				return
			case <-time.After(retry):
			}
			if retry *= 2; retry > 30*time.Second {
				retry = 30 * time.Second
			}
			continue
		}

		slog.Info("ws feed connected")
		retry = time.Second

		l.mu.Lock()
		if ctx.Err() != nil {
			l.mu.Unlock()
			_ = conn.Close()
			return
		}
		l.conn = conn
		l.mu.Unlock()

		l.read(ctx, conn)

		l.mu.Lock()
		l.conn = nil
		l.mu.Unlock()
		_ = conn.Close()

		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}

func (l *WSListener) dial(ctx context.Context) (*websocket.Conn, error) {
	target, err := url.Parse(l.url)
	if err != nil {
		return nil, err
	}
	switch target.Scheme {
	case "http":
		target.Scheme = "ws"
	case "https":
		target.Scheme = "wss"
	}
	// Browsers cannot set headers on an upgrade request, so the backend
	// reads the token from the query string. The client does the same.
	if token := l.token(); token != "" {
		query := target.Query()
		query.Set("token", token)
		target.RawQuery = query.Encode()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, target.String(), nil)
	return conn, err
}

func (l *WSListener) read(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(1 << 16)
	_ = conn.SetReadDeadline(time.Now().Add(75 * time.Second))
	conn.SetPingHandler(func(payload string) error {
		_ = conn.SetReadDeadline(time.Now().Add(75 * time.Second))
		return conn.WriteControl(websocket.PongMessage, []byte(payload), time.Now().Add(5*time.Second))
	})

	for {
		_ = conn.SetReadDeadline(time.Now().Add(75 * time.Second))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn("ws feed read error", slog.Any("error", err))
			}
			return
		}
		event, ok := domain.DecodeEvent(raw)
		if !ok {
			slog.Debug("ws frame dropped", slog.Int("bytes", len(raw)))
			continue
		}
		l.dispatch(event)
	}
}

var _ port.Updates = (*WSListener)(nil)
