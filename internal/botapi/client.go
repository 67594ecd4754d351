// Package botapi talks to the trading bot's REST endpoints: the full-state
// pull and the three control actions.
package botapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rewired-gh/tradedash/internal/models"
)

// Endpoint paths.
const (
	DefaultStatePath    = "/api/state"
	UpdatePortfolioPath = "/api/update_portfolio"
	PausePath           = "/api/pause"
	CloseAllPath        = "/api/close_all"

	ClientIDHeader = "X-Client-ID"
)

var (
	// ErrStatus is returned for any non-2xx response.
	ErrStatus = errors.New("unexpected response status")
	// ErrDecode is returned when a response body cannot be decoded.
	ErrDecode = errors.New("malformed response body")
)

// ClientConfig configures a Client. A zero Timeout means none.
type ClientConfig struct {
	BaseURL   string
	StatePath string
	Timeout   time.Duration
	ClientID  string
}

// Client provides access to the bot API.
type Client struct {
	http      *resty.Client
	statePath string
}

// NewClient creates a new bot API client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.StatePath == "" {
		cfg.StatePath = DefaultStatePath
	}
	h := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		h.SetTimeout(cfg.Timeout)
	}
	if cfg.ClientID != "" {
		h.SetHeader(ClientIDHeader, cfg.ClientID)
	}
	return &Client{http: h, statePath: cfg.StatePath}
}

// FetchState pulls the full state. The result has every slot set, so
// applying it replaces the whole snapshot.
func (c *Client) FetchState(ctx context.Context) (models.Delta, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.statePath)
	if err != nil {
		return models.Delta{}, fmt.Errorf("failed to fetch state: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return models.Delta{}, err
	}

	var d models.Delta
	if err := json.Unmarshal(resp.Body(), &d); err != nil {
		return models.Delta{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return d.Full(), nil
}

type portfolioRequest struct {
	Value float64 `json:"value"`
}

// UpdatePortfolio sends a new portfolio value. The response is ignored
// beyond its status.
func (c *Client) UpdatePortfolio(ctx context.Context, value float64) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(portfolioRequest{Value: value}).Post(UpdatePortfolioPath)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}
	return checkStatus(resp)
}

type pauseResponse struct {
	IsPaused *bool `json:"is_paused"`
}

// TogglePause flips the bot's paused flag and returns the new value.
func (c *Client) TogglePause(ctx context.Context) (bool, error) {
	resp, err := c.http.R().SetContext(ctx).Post(PausePath)
	if err != nil {
		return false, fmt.Errorf("failed to toggle pause: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return false, err
	}

	var pr pauseResponse
	if err := json.Unmarshal(resp.Body(), &pr); err != nil {
		return false, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if pr.IsPaused == nil {
		return false, fmt.Errorf("%w: missing is_paused", ErrDecode)
	}
	return *pr.IsPaused, nil
}

// CloseAll asks the bot to close every open position.
func (c *Client) CloseAll(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Post(CloseAllPath)
	if err != nil {
		return fmt.Errorf("failed to close positions: %w", err)
	}
	return checkStatus(resp)
}

func checkStatus(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return fmt.Errorf("%w: %s %s: %d", ErrStatus, resp.Request.Method, resp.Request.URL, resp.StatusCode())
}
