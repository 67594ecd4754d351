// Package telegram mirrors the dashboard to a Telegram chat and accepts a
// few control commands from it.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/tradedash/internal/logger"
)

// maxSummaryLen keeps a summary block under Telegram's 4096-character limit.
const maxSummaryLen = 3800

// Commander backs the bot commands: Status returns the dashboard summary and
// TogglePause returns the new paused state.
type Commander interface {
	Status(ctx context.Context) (string, error)
	TogglePause(ctx context.Context) (bool, error)
}

// sender is the subset of the bot API the client uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client handles Telegram notifications.
type Client struct {
	bot            *tgbotapi.BotAPI
	api            sender
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client.
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	c := newClient(bot, chatIDInt, maxRetries, retryDelayBase)
	c.bot = bot
	return c, nil
}

func newClient(api sender, chatID int64, maxRetries int, retryDelayBase time.Duration) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}
	return &Client{
		api:            api,
		chatID:         chatID,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}
}

// ListenForCommands starts a goroutine that polls for Telegram updates and handles bot commands.
// It returns immediately; the goroutine stops when ctx is cancelled.
func (c *Client) ListenForCommands(ctx context.Context, cmd Commander) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := c.bot.GetUpdatesChan(u)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					return
				}
				if update.Message != nil && update.Message.IsCommand() {
					c.handleCommand(ctx, cmd, update.Message)
				}
			}
		}
	}()
}

func (c *Client) handleCommand(ctx context.Context, cmd Commander, msg *tgbotapi.Message) {
	if msg.Chat == nil || msg.Chat.ID != c.chatID {
		return
	}

	var err error
	if msg.Command() == "status" {
		err = c.sendStatus(ctx, cmd)
	} else if reply := c.reply(ctx, cmd, msg.Command()); reply != "" {
		_, err = c.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply))
	}
	if err != nil {
		logger.Warn("Failed to answer /%s on Telegram: %v", msg.Command(), err)
	}
}

// sendStatus answers /status with the summary as a preformatted block.
func (c *Client) sendStatus(ctx context.Context, cmd Commander) error {
	text, err := cmd.Status(ctx)
	if err != nil {
		_, sendErr := c.api.Send(tgbotapi.NewMessage(c.chatID, "Status unavailable: "+err.Error()))
		return sendErr
	}
	return c.Send(text)
}

func (c *Client) reply(ctx context.Context, cmd Commander, command string) string {
	switch command {
	case "ping":
		return "Pong"
	case "pause":
		paused, err := cmd.TogglePause(ctx)
		if err != nil {
			return "Pause toggle failed: " + err.Error()
		}
		if paused {
			return "Bot paused"
		}
		return "Bot resumed"
	}
	return ""
}

// sendMarkdownV2 sends a MarkdownV2 message with linear-backoff retry.
func (c *Client) sendMarkdownV2(text string) error {
	msg := tgbotapi.NewMessage(c.chatID, text)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		if _, err := c.api.Send(msg); err == nil {
			return nil
		} else {
			lastErr = err
		}
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}
	return fmt.Errorf("failed after %d retries: %w", c.maxRetries, lastErr)
}

// SendError sends a stream error notification.
// Call this only on the first occurrence of a consecutive error sequence.
func (c *Client) SendError(streamErr error) error {
	text := fmt.Sprintf("⚠️ *Dashboard stream lost*\n`%s`", escapeMarkdownV2(streamErr.Error()))
	return c.sendMarkdownV2(text)
}

// SendRecovery sends a recovery notification after consecutive failures.
func (c *Client) SendRecovery(failureCount int) error {
	text := fmt.Sprintf("✅ *Dashboard stream restored* after %d consecutive failure\\(s\\)", failureCount)
	return c.sendMarkdownV2(text)
}

// Send sends a plain-text dashboard summary as a preformatted block.
func (c *Client) Send(summary string) error {
	return c.sendMarkdownV2(formatSummary(summary))
}

func formatSummary(summary string) string {
	body := strings.TrimRight(summary, "\n")
	if len(body) > maxSummaryLen {
		cut := strings.LastIndexByte(body[:maxSummaryLen], '\n')
		if cut < 0 {
			cut = maxSummaryLen
			for cut > 0 && !utf8.RuneStart(body[cut]) {
				cut--
			}
		}
		body = body[:cut] + "\n…"
	}
	body = strings.NewReplacer("\\", "\\\\", "`", "\\`").Replace(body)
	return "📊 *Trading dashboard*\n```\n" + body + "\n```"
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2.
func escapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text) + len(text)/4) // pre-allocate with room for escapes
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
