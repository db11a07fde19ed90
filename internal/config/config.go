// Package config loads the raritywatch YAML configuration.
package config

import "time"

// Config is the full process configuration.
type Config struct {
	OpenSea    OpenSeaConfig    `yaml:"opensea"`
	Collection CollectionConfig `yaml:"collection"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Limits     LimitsConfig     `yaml:"limits"`
	Stream     StreamConfig     `yaml:"stream"`
	Database   DatabaseConfig   `yaml:"database"`
	Debug      bool             `yaml:"debug"`
}

// OpenSeaConfig holds stream and REST credentials.
type OpenSeaConfig struct {
	StreamURL    string        `yaml:"stream_url"`
	StreamAPIKey string        `yaml:"stream_api_key"`
	APIURL       string        `yaml:"api_url"`
	APIKey       string        `yaml:"api_key"`
	Timeout      time.Duration `yaml:"timeout"`
}

// CollectionConfig identifies the watched collection.
type CollectionConfig struct {
	Slug       string   `yaml:"slug"`
	Contract   string   `yaml:"contract"`
	Chain      string   `yaml:"chain"`
	RareTraits []string `yaml:"rare_traits"`
}

// TelegramConfig holds the bot credentials and target chat.
type TelegramConfig struct {
	APIURL      string        `yaml:"api_url"`
	BotToken    string        `yaml:"bot_token"`
	ChatID      string        `yaml:"chat_id"`
	PollTimeout time.Duration `yaml:"poll_timeout"`
	Commands    *bool         `yaml:"commands"` // nil means enabled
}

// CommandsEnabled reports whether /start and /status are answered.
func (t TelegramConfig) CommandsEnabled() bool {
	return t.Commands == nil || *t.Commands
}

// LimitsConfig sizes the two sliding-window limiters.
type LimitsConfig struct {
	APIPerMinute           int           `yaml:"api_per_minute"`
	NotificationsPerMinute int           `yaml:"notifications_per_minute"`
	Window                 time.Duration `yaml:"window"`
}

// StreamConfig tunes the WebSocket session.
type StreamConfig struct {
	HeartbeatInterval  time.Duration `yaml:"heartbeat_interval"`
	ReconnectDelay     time.Duration `yaml:"reconnect_delay"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	HandshakeTimeout   time.Duration `yaml:"handshake_timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	TolerateMalformed  bool          `yaml:"tolerate_malformed"`
}

// DatabaseConfig is the optional alert journal. An empty host disables it.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether the journal should be opened.
func (db DatabaseConfig) Enabled() bool {
	return db.Host != ""
}
