package notify

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Commands long-polls the Bot API and answers /start and /status.
// It only reads configuration and the status callback; it never touches
// pipeline state.
type Commands struct {
	bot     *Bot
	replies map[string]func() string
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCommands registers the /start and /status handlers on bot.
// startReply and statusReply build the answers.
func NewCommands(bot *Bot, startReply, statusReply func() string, logger *slog.Logger) *Commands {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Commands{
		bot:    bot,
		logger: logger,
		replies: map[string]func() string{
			"start":  startReply,
			"status": statusReply,
		},
	}

	for name := range c.replies {
		bot.api.RegisterHandler(tgbot.HandlerTypeMessageText, "/"+name, tgbot.MatchTypePrefix, c.handle)
	}

	return c
}

// Start begins long polling.
func (c *Commands) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.bot.api.Start(c.ctx)
	}()

	c.logger.Info("command poller started", "poll_timeout", c.bot.pollTimeout)
	return nil
}

// Stop gracefully shuts down the poller.
func (c *Commands) Stop(ctx context.Context) error {
	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("command poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handle answers one command. Prefix matching also routes "/startle" here,
// so the name is checked again.
func (c *Commands) handle(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	name := commandName(update.Message.Text)
	reply, ok := c.replies[name]
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	if err := c.bot.SendMessage(ctx, chatID, reply(), ""); err != nil {
		c.logger.Error("failed to answer command",
			"chat_id", chatID,
			"command", name,
			"error", err,
		)
	}
}

// commandName extracts "start" from "/start", "/start@my_bot" or "/start arg".
func commandName(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}

	name := strings.Fields(text)[0][1:]
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}
