package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.OpenSea.StreamAPIKey == "" {
		return errors.New("opensea.stream_api_key is required")
	}
	if c.OpenSea.APIKey == "" {
		return errors.New("opensea.api_key is required")
	}
	if c.OpenSea.Timeout <= 0 {
		return errors.New("opensea.timeout must be > 0")
	}

	if c.Collection.Slug == "" {
		return errors.New("collection.slug is required")
	}
	if c.Collection.Contract == "" {
		return errors.New("collection.contract is required")
	}
	for i, trait := range c.Collection.RareTraits {
		if strings.TrimSpace(trait) == "" {
			return fmt.Errorf("collection.rare_traits[%d] must not be blank", i)
		}
	}

	if c.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required")
	}
	if c.Telegram.PollTimeout < MinPollTimeout || c.Telegram.PollTimeout > MaxPollTimeout {
		return fmt.Errorf("telegram.poll_timeout must be between %s and %s, got %s",
			MinPollTimeout, MaxPollTimeout, c.Telegram.PollTimeout)
	}

	if c.Limits.APIPerMinute < 1 {
		return errors.New("limits.api_per_minute must be >= 1")
	}
	if c.Limits.NotificationsPerMinute < 1 {
		return errors.New("limits.notifications_per_minute must be >= 1")
	}
	if c.Limits.Window <= 0 {
		return errors.New("limits.window must be > 0")
	}

	if c.Stream.HeartbeatInterval <= 0 {
		return errors.New("stream.heartbeat_interval must be > 0")
	}
	if c.Stream.ReconnectDelay < 0 {
		return errors.New("stream.reconnect_delay must be >= 0")
	}

	if c.Database.Enabled() {
		if err := c.Database.validate("database"); err != nil {
			return err
		}
	}

	return nil
}

func (db *DatabaseConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Port < 1 || db.Port > 65535 {
		return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
