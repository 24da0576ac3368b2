package livechannel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/srgjo27/partner_dispatch/internal/core/domain"
	"github.com/srgjo27/partner_dispatch/internal/core/ports"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 5 * time.Second
	defaultEventTimeout     = 30 * time.Second
)

type Config struct {
	URL              string
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
}

// Handler receives every inbound event. It runs on the read goroutine, so
// events are handled in arrival order.
type Handler func(ctx context.Context, ev domain.LiveEvent)

type outbound struct {
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Client is the websocket implementation of ports.LiveChannel. Frames are
// JSON envelopes {"event": ..., "data": ...} in both directions.
type Client struct {
	cfg     Config
	tokens  ports.TokenSource
	dialer  *websocket.Dialer
	handler Handler
	log     *slog.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected atomic.Bool
}

func NewClient(cfg Config, tokens ports.TokenSource, log *slog.Logger) *Client {
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		log:    log,
	}
}

// SetHandler must be called before Connect.
func (c *Client) SetHandler(h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler = h
}

func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return nil
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("dial live channel: %w", err)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("dial live channel: %w", domain.ErrUnauthorized)
		}
		return domain.TransientError{Op: "dial live channel", Err: err}
	}

	c.conn = conn
	c.connected.Store(true)
	go c.readLoop(conn, c.handler)

	return nil
}

func (c *Client) Connected() bool {
	return c.connected.Load()
}

func (c *Client) Emit(ctx context.Context, event string, payload any) error {
	msg := outbound{ID: uuid.NewString(), Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode %s: %w", event, err)
		}
		msg.Data = data
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return domain.ErrLiveChannelDown
	}

	deadline := time.Now().Add(c.cfg.WriteTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)

	if err := c.conn.WriteJSON(msg); err != nil {
		return domain.TransientError{Op: "emit " + event, Err: err}
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected.Store(false)
	c.mu.Unlock()

	if conn == nil {
		return nil
	}

	closing := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, closing, time.Now().Add(c.cfg.WriteTimeout))
	return conn.Close()
}

func (c *Client) readLoop(conn *websocket.Conn, handler Handler) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
			c.connected.Store(false)
		}
		c.mu.Unlock()
		_ = conn.Close()
	}()

	for {
		var ev domain.LiveEvent
		if err := conn.ReadJSON(&ev); err != nil {
			if !closedNormally(err) {
				c.log.Warn("live channel read failed", slog.String("error", err.Error()))
			}
			return
		}
		if ev.Name == "" || handler == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), defaultEventTimeout)
		handler(ctx, ev)
		cancel()
	}
}

func closedNormally(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return errors.Is(err, net.ErrClosed)
}
