package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultStreamURL              = "wss://stream.openseabeta.com/socket/websocket"
	DefaultAPIURL                 = "https://api.opensea.io"
	DefaultAPITimeout             = 15 * time.Second
	DefaultChain                  = "base"
	DefaultTelegramURL            = "https://api.telegram.org"
	DefaultPollTimeout            = 30 * time.Second
	MinPollTimeout                = 2 * time.Second
	MaxPollTimeout                = 5 * time.Minute
	DefaultAPIPerMinute           = 60
	DefaultNotificationsPerMinute = 20
	DefaultWindow                 = 60 * time.Second
	DefaultHeartbeatInterval      = 30 * time.Second
	DefaultReconnectDelay         = 5 * time.Second
	DefaultWriteTimeout           = 5 * time.Second
	DefaultHandshakeTimeout       = 10 * time.Second
	DefaultDBPort                 = 5432
	DefaultDBSSLMode              = "prefer"
	DefaultMaxConns               = 4
	DefaultMinConns               = 1
)

// DefaultRareTraits are watched when collection.rare_traits is empty.
var DefaultRareTraits = []string{"Face", "Head", "Accessory"}

func (c *Config) applyDefaults() {
	// OpenSea defaults
	if c.OpenSea.StreamURL == "" {
		c.OpenSea.StreamURL = DefaultStreamURL
	}
	if c.OpenSea.APIURL == "" {
		c.OpenSea.APIURL = DefaultAPIURL
	}
	if c.OpenSea.Timeout == 0 {
		c.OpenSea.Timeout = DefaultAPITimeout
	}

	// Collection defaults
	if c.Collection.Chain == "" {
		c.Collection.Chain = DefaultChain
	}
	if len(c.Collection.RareTraits) == 0 {
		c.Collection.RareTraits = append([]string(nil), DefaultRareTraits...)
	}

	// Telegram defaults
	if c.Telegram.APIURL == "" {
		c.Telegram.APIURL = DefaultTelegramURL
	}
	if c.Telegram.PollTimeout == 0 {
		c.Telegram.PollTimeout = DefaultPollTimeout
	}

	// Limits defaults
	if c.Limits.APIPerMinute == 0 {
		c.Limits.APIPerMinute = DefaultAPIPerMinute
	}
	if c.Limits.NotificationsPerMinute == 0 {
		c.Limits.NotificationsPerMinute = DefaultNotificationsPerMinute
	}
	if c.Limits.Window == 0 {
		c.Limits.Window = DefaultWindow
	}

	// Stream defaults
	if c.Stream.HeartbeatInterval == 0 {
		c.Stream.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.Stream.ReconnectDelay == 0 {
		c.Stream.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Stream.WriteTimeout == 0 {
		c.Stream.WriteTimeout = DefaultWriteTimeout
	}
	if c.Stream.HandshakeTimeout == 0 {
		c.Stream.HandshakeTimeout = DefaultHandshakeTimeout
	}

	// Journal defaults only matter when it is enabled.
	if c.Database.Enabled() {
		applyDBDefaults(&c.Database)
	}
}

func applyDBDefaults(db *DatabaseConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
