package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rickgao/raritywatch/internal/version"
)

// DefaultAPIURL is the Telegram Bot API host.
const DefaultAPIURL = "https://api.telegram.org"

// DefaultPollTimeout is the getUpdates long-poll timeout.
const DefaultPollTimeout = 30 * time.Second

// pollSlack keeps the HTTP deadline past the long-poll timeout.
const pollSlack = 15 * time.Second

// BotConfig holds the Bot API endpoint and credentials.
type BotConfig struct {
	APIURL      string
	Token       string
	PollTimeout time.Duration
}

// Bot wraps the Telegram client. Errors it returns or logs never carry
// the token.
type Bot struct {
	api         *tgbot.Bot
	token       string
	pollTimeout time.Duration
	logger      *slog.Logger
}

// NewBot creates a Bot. The token is not checked against the API until the
// first call.
func NewBot(cfg BotConfig, logger *slog.Logger, opts ...tgbot.Option) (*Bot, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}

	b := &Bot{
		token:       cfg.Token,
		pollTimeout: cfg.PollTimeout,
		logger:      logger,
	}

	hc := &http.Client{
		Timeout:   httpTimeout(cfg.PollTimeout),
		Transport: &userAgentTransport{base: http.DefaultTransport},
	}

	options := []tgbot.Option{
		tgbot.WithServerURL(strings.TrimRight(cfg.APIURL, "/")),
		tgbot.WithSkipGetMe(),
		tgbot.WithHTTPClient(cfg.PollTimeout, hc),
		tgbot.WithErrorsHandler(b.pollError),
		tgbot.WithDefaultHandler(b.ignoreUpdate),
	}

	api, err := tgbot.New(cfg.Token, append(options, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", redact(err, cfg.Token))
	}
	b.api = api

	return b, nil
}

// httpTimeout is the client deadline for a long poll of pollTimeout.
func httpTimeout(pollTimeout time.Duration) time.Duration {
	return pollTimeout + pollSlack
}

// SendMessage posts text to a chat. chatID is an int64 or a string such as
// "-100123" or "@channel". parseMode may be empty for plain text.
func (b *Bot) SendMessage(ctx context.Context, chatID any, text string, parseMode models.ParseMode) error {
	_, err := b.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: parseMode,
	})
	if err != nil {
		return redact(err, b.token)
	}
	return nil
}

func (b *Bot) pollError(err error) {
	b.logger.Warn("failed to poll telegram updates", "error", redact(err, b.token))
}

func (b *Bot) ignoreUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	b.logger.Debug("ignoring telegram update", "update_id", update.ID)
}

type userAgentTransport struct {
	base http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", version.UserAgent())
	return t.base.RoundTrip(req)
}

// redactedError hides the bot token in errors, which embed the request URL.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }

func redact(err error, token string) error {
	if err == nil || token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &redactedError{
		msg: strings.ReplaceAll(err.Error(), token, "<redacted>"),
		err: err,
	}
}
