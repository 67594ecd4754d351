package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/tradedash/internal/action"
	"github.com/rewired-gh/tradedash/internal/channel"
	"github.com/rewired-gh/tradedash/internal/config"
	"github.com/rewired-gh/tradedash/internal/dashboard"
	"github.com/rewired-gh/tradedash/internal/logger"
	"github.com/rewired-gh/tradedash/internal/store"
	"github.com/rewired-gh/tradedash/internal/stream"
	"github.com/rewired-gh/tradedash/internal/telegram"
	"github.com/rewired-gh/tradedash/internal/view"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the live dashboard (default)",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	if cfg.Display.LogFile != "" {
		f, err := os.OpenFile(cfg.Display.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	mode, err := store.ParseMergeMode(cfg.Sync.BotStateMerge)
	if err != nil {
		return err
	}
	wsURL, err := stream.URLFromBase(cfg.Server.BaseURL, cfg.Server.WSPath)
	if err != nil {
		return err
	}

	clientID := newClientID()
	api := newAPIClient(cfg, clientID)

	layout := view.DefaultLayout(cfg.Display.Symbol)
	loop := dashboard.NewLoop(0)
	dash := dashboard.New(loop, store.New(mode), view.NewDocument(layout),
		view.NewTerminal(cmd.OutOrStdout(), cfg.Display.ClearScreen))
	adapter := channel.NewAdapter(api, dash)

	dispatcher := action.NewDispatcher(api, action.SurveyPrompter{})
	dispatcher.OnPause = dash.SetPaused

	telegramClient, err := newTelegram(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			logger.Info("Shutdown signal received, cleaning up...")
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		_ = loop.Run(ctx)
	}()

	dash.RenderDefaults()
	adapter.LoadInitial(ctx)

	notifier := newFailureNotifier(telegramClient)
	sc := stream.NewClient(stream.Config{
		URL:               wsURL,
		ClientID:          clientID,
		ReconnectDelay:    cfg.Stream.ReconnectDelay,
		MaxReconnectDelay: cfg.Stream.MaxReconnectDelay,
	}, adapter.HandleEvent)
	puller := &reconnectPuller{pull: func() { adapter.LoadInitial(ctx) }}
	sc.OnConnect = func() {
		puller.connected()
		notifier.recovered()
	}
	sc.OnDisconnect = notifier.failed
	go func() {
		_ = sc.Run(ctx)
	}()

	if telegramClient != nil {
		telegramClient.ListenForCommands(ctx, &telegramCommands{dash: dash, dispatcher: dispatcher})
	}

	logger.Info("Dashboard started (server: %s, stream: %s, merge: %s, client: %s)",
		cfg.Server.BaseURL, wsURL, mode, clientID)

	go readKeys(ctx, cmd.InOrStdin(), keyBindings(layout), &keyActions{
		dash:       dash,
		dispatcher: dispatcher,
		quit:       cancel,
	})

	<-ctx.Done()
	logger.Info("Dashboard stopped")
	return nil
}

func newTelegram(cfg *config.Config) (*telegram.Client, error) {
	if !cfg.Telegram.Enabled {
		logger.Debug("Telegram mirror disabled")
		return nil, nil
	}
	c, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Telegram client: %w", err)
	}
	logger.Info("Telegram client initialized successfully")
	return c, nil
}

// notifier is the part of the Telegram client that reports stream health.
type notifier interface {
	SendError(err error) error
	SendRecovery(failureCount int) error
}

// failureNotifier reports the first failure of a run and the recovery that
// ends it. It is only called from the stream goroutine.
type failureNotifier struct {
	n                   notifier
	consecutiveFailures int
}

func newFailureNotifier(c *telegram.Client) *failureNotifier {
	if c == nil {
		return &failureNotifier{}
	}
	return &failureNotifier{n: c}
}

func (f *failureNotifier) failed(err error) {
	f.consecutiveFailures++
	if f.consecutiveFailures == 1 && f.n != nil {
		if sendErr := f.n.SendError(err); sendErr != nil {
			logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
		}
	}
}

func (f *failureNotifier) recovered() {
	if f.consecutiveFailures > 0 && f.n != nil {
		if sendErr := f.n.SendRecovery(f.consecutiveFailures); sendErr != nil {
			logger.Warn("Failed to send recovery notification to Telegram: %v", sendErr)
		}
	}
	f.consecutiveFailures = 0
}

type telegramCommands struct {
	dash       *dashboard.Dashboard
	dispatcher *action.Dispatcher
}

func (t *telegramCommands) Status(ctx context.Context) (string, error) {
	return t.dash.Summary(ctx)
}

func (t *telegramCommands) TogglePause(ctx context.Context) (bool, error) {
	return t.dispatcher.TogglePause(ctx)
}

// keyBindings maps each button's key to its id.
func keyBindings(l view.Layout) map[string]string {
	keys := make(map[string]string, len(l.Buttons))
	for _, b := range l.Buttons {
		keys[b.Key] = b.ID
	}
	return keys
}

type keyActions struct {
	dash       *dashboard.Dashboard
	dispatcher *action.Dispatcher
	quit       func()
}

// readKeys runs one action per input line. Prompts read from the same
// input, so actions that prompt run inline.
func readKeys(ctx context.Context, in io.Reader, keys map[string]string, a *keyActions) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		key := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if key == "q" {
			a.quit()
			return
		}
		id, ok := keys[key]
		if !ok {
			continue
		}
		a.run(ctx, id)
	}
}

func (a *keyActions) run(ctx context.Context, id string) {
	switch id {
	case view.EditPortfolioButton:
		a.prompted(ctx, func() error {
			snap, err := a.dash.Snapshot(ctx)
			if err != nil {
				return err
			}
			return a.dispatcher.EditPortfolio(ctx, snap.BotState.Portfolio.Or(0))
		})
	case view.PauseButton:
		go func() {
			_, _ = a.dispatcher.TogglePause(ctx)
		}()
	case view.CloseAllButton:
		a.prompted(ctx, func() error {
			return a.dispatcher.CloseAll(ctx, false)
		})
	}
}

// prompted holds drawing while fn owns the terminal.
func (a *keyActions) prompted(ctx context.Context, fn func() error) {
	if err := a.dash.Hold(ctx); err != nil {
		return
	}
	defer a.dash.Release()
	if err := fn(); err != nil && !errors.Is(err, action.ErrCancelled) && !errors.Is(err, action.ErrInvalidValue) {
		logger.Debug("Action failed: %v", err)
	}
}

// reconnectPuller re-runs the initial pull on every connect after the first,
// so state missed while the stream was down is filled in.
type reconnectPuller struct {
	pull     func()
	connects int
}

func (r *reconnectPuller) connected() {
	r.connects++
	if r.connects > 1 {
		r.pull()
	}
}
