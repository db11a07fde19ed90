package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot/models"
)

// Limiter gates outbound notifications.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Sink delivers alerts to a single chat. Every Send waits on the
// notification limiter before calling Telegram.
type Sink struct {
	bot     *Bot
	chatID  string
	limiter Limiter
}

// NewSink creates a sink for chatID. limiter may be nil.
func NewSink(bot *Bot, chatID string, limiter Limiter) *Sink {
	return &Sink{
		bot:     bot,
		chatID:  chatID,
		limiter: limiter,
	}
}

// Send waits for the limiter and posts an HTML message.
func (s *Sink) Send(ctx context.Context, text string) error {
	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			return fmt.Errorf("wait for rate limiter: %w", err)
		}
	}

	if err := s.bot.SendMessage(ctx, s.chatID, text, models.ParseModeHTML); err != nil {
		return fmt.Errorf("send to chat %s: %w", s.chatID, err)
	}
	return nil
}
