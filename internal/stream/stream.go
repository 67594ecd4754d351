// Package stream maintains the push connection to the bot and hands each
// named event to a handler. The connection is re-established with
// exponential backoff until the context is cancelled.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rewired-gh/tradedash/internal/logger"
)

// ClientIDHeader carries the per-process client id on the handshake.
const ClientIDHeader = "X-Client-ID"

// Event is the wire envelope of a pushed frame.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Handler receives every decoded event in arrival order.
type Handler func(name string, data json.RawMessage)

// Config configures a Client.
type Config struct {
	URL               string
	ClientID          string
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	HandshakeTimeout  time.Duration
}

// Client is a reconnecting push-stream consumer.
type Client struct {
	cfg     Config
	dialer  *websocket.Dialer
	handler Handler

	// OnConnect runs after every successful handshake.
	OnConnect func()
	// OnDisconnect runs after a failed dial or a dropped connection.
	OnDisconnect func(err error)
}

// NewClient creates a stream client delivering events to handler.
func NewClient(cfg Config, handler Handler) *Client {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 2 * time.Second
	}
	if cfg.MaxReconnectDelay < cfg.ReconnectDelay {
		cfg.MaxReconnectDelay = cfg.ReconnectDelay
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		dialer:  &websocket.Dialer{Proxy: http.ProxyFromEnvironment, HandshakeTimeout: cfg.HandshakeTimeout},
		handler: handler,
	}
}

// URLFromBase derives the stream URL from the HTTP base URL and a path,
// mapping http to ws and https to wss.
func URLFromBase(base, path string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(path, "/")
	return u.String(), nil
}

// Run connects and reads until ctx is cancelled. It always returns ctx.Err().
func (c *Client) Run(ctx context.Context) error {
	delay := c.cfg.ReconnectDelay
	for {
		connected, err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if connected {
			delay = c.cfg.ReconnectDelay
		}
		logger.Warn("Stream disconnected: %v (retrying in %v)", err, delay)
		if c.OnDisconnect != nil {
			c.OnDisconnect(err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > c.cfg.MaxReconnectDelay {
			delay = c.cfg.MaxReconnectDelay
		}
	}
}

func (c *Client) session(ctx context.Context) (bool, error) {
	header := http.Header{}
	if c.cfg.ClientID != "" {
		header.Set(ClientIDHeader, c.cfg.ClientID)
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	defer conn.Close()

	logger.Info("Stream connected to %s", c.cfg.URL)
	if c.OnConnect != nil {
		c.OnConnect()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				err = errors.New("closed by server")
			}
			return true, err
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg []byte) {
	var ev Event
	if err := json.Unmarshal(msg, &ev); err != nil {
		logger.Warn("Dropping malformed stream frame: %v", err)
		return
	}
	if ev.Name == "" {
		logger.Warn("Dropping stream frame without event name")
		return
	}
	c.handler(ev.Name, ev.Data)
}
