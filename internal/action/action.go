// Package action sends the dashboard's three control requests: update the
// portfolio value, toggle pause and close all positions.
package action

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rewired-gh/tradedash/internal/format"
	"github.com/rewired-gh/tradedash/internal/logger"
)

var (
	// ErrInvalidValue marks portfolio input that was discarded without a request.
	ErrInvalidValue = errors.New("invalid portfolio value")
	// ErrCancelled is returned when the user declines or aborts a prompt.
	ErrCancelled = errors.New("action cancelled")
)

// DefaultPortfolio pre-fills the portfolio prompt when no value is known.
const DefaultPortfolio = 35.0

// API is the bot's control surface.
type API interface {
	UpdatePortfolio(ctx context.Context, value float64) error
	TogglePause(ctx context.Context) (bool, error)
	CloseAll(ctx context.Context) error
}

// Prompter asks the user for input.
type Prompter interface {
	Input(message, def string) (string, error)
	Confirm(message string) (bool, error)
}

// Dispatcher runs actions against the API.
type Dispatcher struct {
	api    API
	prompt Prompter

	// OnPause receives the paused flag returned by a successful toggle.
	OnPause func(paused bool)
}

// NewDispatcher creates a dispatcher. prompt may be nil when no action
// needs interaction.
func NewDispatcher(api API, prompt Prompter) *Dispatcher {
	return &Dispatcher{api: api, prompt: prompt}
}

// ParsePortfolio accepts a finite decimal number, ignoring surrounding
// whitespace.
func ParsePortfolio(input string) (float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, ErrInvalidValue
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidValue
	}
	return d.InexactFloat64(), nil
}

// SetPortfolio validates input and sends it. Invalid input issues no
// request and is only logged.
func (d *Dispatcher) SetPortfolio(ctx context.Context, input string) error {
	v, err := ParsePortfolio(input)
	if err != nil {
		logger.Debug("Discarding portfolio input %q", input)
		return err
	}
	if err := d.api.UpdatePortfolio(ctx, v); err != nil {
		logger.Error("Failed to update portfolio: %v", err)
		return err
	}
	logger.Info("Portfolio value set to %s", format.Money(v))
	return nil
}

// EditPortfolio prompts for a new value, pre-filled with current or
// DefaultPortfolio when current is not positive.
func (d *Dispatcher) EditPortfolio(ctx context.Context, current float64) error {
	if current <= 0 {
		current = DefaultPortfolio
	}
	input, err := d.prompt.Input("Enter new portfolio value:", format.Count(current))
	if err != nil {
		return d.promptErr(err)
	}
	return d.SetPortfolio(ctx, input)
}

// TogglePause flips the bot's paused flag and reports the new state to
// OnPause.
func (d *Dispatcher) TogglePause(ctx context.Context) (bool, error) {
	paused, err := d.api.TogglePause(ctx)
	if err != nil {
		logger.Error("Failed to toggle pause: %v", err)
		return false, err
	}
	logger.Info("Bot paused: %t", paused)
	if d.OnPause != nil {
		d.OnPause(paused)
	}
	return paused, nil
}

// CloseAll closes every open position. Unless confirmed is set the user
// is asked first.
func (d *Dispatcher) CloseAll(ctx context.Context, confirmed bool) error {
	if !confirmed {
		ok, err := d.prompt.Confirm("Close all open positions?")
		if err != nil {
			return d.promptErr(err)
		}
		if !ok {
			return ErrCancelled
		}
	}
	if err := d.api.CloseAll(ctx); err != nil {
		logger.Error("Failed to close positions: %v", err)
		return err
	}
	logger.Info("Close-all requested")
	return nil
}

func (d *Dispatcher) promptErr(err error) error {
	if errors.Is(err, ErrCancelled) {
		return err
	}
	logger.Warn("Prompt failed: %v", err)
	return err
}
