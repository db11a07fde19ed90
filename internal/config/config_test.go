package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
opensea:
  stream_api_key: stream-key
  api_key: rest-key
  timeout: 7s
collection:
  slug: chonks
  contract: "0x07152bfde079b5319e5308c43fb1dbc9c76cb4f9"
  rare_traits: [Head, Face]
telegram:
  bot_token: "123:abc"
  chat_id: "-1001"
  commands: false
limits:
  api_per_minute: 30
stream:
  reconnect_delay: 2s
  tolerate_malformed: true
debug: true
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OpenSea.StreamAPIKey != "stream-key" {
		t.Errorf("OpenSea.StreamAPIKey = %q, want %q", cfg.OpenSea.StreamAPIKey, "stream-key")
	}
	if cfg.OpenSea.Timeout != 7*time.Second {
		t.Errorf("OpenSea.Timeout = %v, want %v", cfg.OpenSea.Timeout, 7*time.Second)
	}
	if cfg.Collection.Slug != "chonks" {
		t.Errorf("Collection.Slug = %q, want %q", cfg.Collection.Slug, "chonks")
	}
	if len(cfg.Collection.RareTraits) != 2 || cfg.Collection.RareTraits[1] != "Face" {
		t.Errorf("Collection.RareTraits = %v, want [Head Face]", cfg.Collection.RareTraits)
	}
	if cfg.Telegram.CommandsEnabled() {
		t.Error("Telegram.CommandsEnabled() = true, want false")
	}
	if cfg.Limits.APIPerMinute != 30 {
		t.Errorf("Limits.APIPerMinute = %d, want 30", cfg.Limits.APIPerMinute)
	}
	if cfg.Stream.ReconnectDelay != 2*time.Second {
		t.Errorf("Stream.ReconnectDelay = %v, want %v", cfg.Stream.ReconnectDelay, 2*time.Second)
	}
	if !cfg.Stream.TolerateMalformed {
		t.Error("Stream.TolerateMalformed = false, want true")
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	// Load alone does not apply defaults.
	if cfg.OpenSea.APIURL != "" {
		t.Errorf("OpenSea.APIURL = %q, want empty", cfg.OpenSea.APIURL)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_TELEGRAM_TOKEN", "999:secret")
	t.Setenv("TEST_OPENSEA_KEY", "os-key")

	yaml := `
opensea:
  api_key: ${TEST_OPENSEA_KEY}
telegram:
  bot_token: ${TEST_TELEGRAM_TOKEN}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Telegram.BotToken != "999:secret" {
		t.Errorf("Telegram.BotToken = %q, want %q", cfg.Telegram.BotToken, "999:secret")
	}
	if cfg.OpenSea.APIKey != "os-key" {
		t.Errorf("OpenSea.APIKey = %q, want %q", cfg.OpenSea.APIKey, "os-key")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeTempFile(t, "opensea: [not, a, map]\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("Load error = %v, want parse error", err)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
collection:
  slug: chonks
  contract: "0xabc"
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.OpenSea.StreamURL != DefaultStreamURL {
		t.Errorf("OpenSea.StreamURL = %q, want default %q", cfg.OpenSea.StreamURL, DefaultStreamURL)
	}
	if cfg.OpenSea.Timeout != DefaultAPITimeout {
		t.Errorf("OpenSea.Timeout = %v, want default %v", cfg.OpenSea.Timeout, DefaultAPITimeout)
	}
	if cfg.Collection.Chain != DefaultChain {
		t.Errorf("Collection.Chain = %q, want default %q", cfg.Collection.Chain, DefaultChain)
	}
	if strings.Join(cfg.Collection.RareTraits, ",") != "Face,Head,Accessory" {
		t.Errorf("Collection.RareTraits = %v, want defaults", cfg.Collection.RareTraits)
	}
	if cfg.Limits.Window != DefaultWindow {
		t.Errorf("Limits.Window = %v, want default %v", cfg.Limits.Window, DefaultWindow)
	}
	if cfg.Stream.HeartbeatInterval != DefaultHeartbeatInterval {
		t.Errorf("Stream.HeartbeatInterval = %v, want default %v", cfg.Stream.HeartbeatInterval, DefaultHeartbeatInterval)
	}
	if cfg.Stream.ReconnectDelay != DefaultReconnectDelay {
		t.Errorf("Stream.ReconnectDelay = %v, want default %v", cfg.Stream.ReconnectDelay, DefaultReconnectDelay)
	}
	if !cfg.Telegram.CommandsEnabled() {
		t.Error("commands should be enabled by default")
	}
	if cfg.Stream.InsecureSkipVerify {
		t.Error("Stream.InsecureSkipVerify must default to false")
	}
	// Journal stays disabled and untouched without a host.
	if cfg.Database.Enabled() || cfg.Database.Port != 0 {
		t.Errorf("Database = %+v, want zero value", cfg.Database)
	}
}

func TestLoadWithDefaults_Database(t *testing.T) {
	yaml := `
database:
  host: localhost
  name: raritywatch
  user: watcher
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
	if cfg.Database.MaxConns != DefaultMaxConns {
		t.Errorf("Database.MaxConns = %d, want default %d", cfg.Database.MaxConns, DefaultMaxConns)
	}
	if cfg.Database.SSLMode != DefaultDBSSLMode {
		t.Errorf("Database.SSLMode = %q, want default %q", cfg.Database.SSLMode, DefaultDBSSLMode)
	}
}

func validConfig() Config {
	cfg := Config{
		OpenSea:    OpenSeaConfig{StreamAPIKey: "s", APIKey: "k"},
		Collection: CollectionConfig{Slug: "chonks", Contract: "0xabc"},
		Telegram:   TelegramConfig{BotToken: "t", ChatID: "1"},
	}
	cfg.applyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "missing stream key",
			mutate:  func(c *Config) { c.OpenSea.StreamAPIKey = "" },
			wantErr: "opensea.stream_api_key is required",
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.OpenSea.APIKey = "" },
			wantErr: "opensea.api_key is required",
		},
		{
			name:    "missing slug",
			mutate:  func(c *Config) { c.Collection.Slug = "" },
			wantErr: "collection.slug is required",
		},
		{
			name:    "missing contract",
			mutate:  func(c *Config) { c.Collection.Contract = "" },
			wantErr: "collection.contract is required",
		},
		{
			name:    "blank rare trait",
			mutate:  func(c *Config) { c.Collection.RareTraits = []string{"Head", " "} },
			wantErr: "collection.rare_traits[1] must not be blank",
		},
		{
			name:    "missing bot token",
			mutate:  func(c *Config) { c.Telegram.BotToken = "" },
			wantErr: "telegram.bot_token is required",
		},
		{
			name:    "missing chat id",
			mutate:  func(c *Config) { c.Telegram.ChatID = "" },
			wantErr: "telegram.chat_id is required",
		},
		{
			name:    "poll timeout too short",
			mutate:  func(c *Config) { c.Telegram.PollTimeout = time.Second },
			wantErr: "telegram.poll_timeout must be between 2s and 5m0s, got 1s",
		},
		{
			name:    "poll timeout too long",
			mutate:  func(c *Config) { c.Telegram.PollTimeout = 10 * time.Minute },
			wantErr: "telegram.poll_timeout must be between 2s and 5m0s, got 10m0s",
		},
		{
			name:    "long poll timeout within bounds",
			mutate:  func(c *Config) { c.Telegram.PollTimeout = 120 * time.Second },
			wantErr: "",
		},
		{
			name:    "negative api limit",
			mutate:  func(c *Config) { c.Limits.APIPerMinute = -1 },
			wantErr: "limits.api_per_minute must be >= 1",
		},
		{
			name:    "negative reconnect delay",
			mutate:  func(c *Config) { c.Stream.ReconnectDelay = -time.Second },
			wantErr: "stream.reconnect_delay must be >= 0",
		},
		{
			name: "database missing name",
			mutate: func(c *Config) {
				c.Database = DatabaseConfig{Host: "localhost", Port: 5432, User: "u", MaxConns: 4}
			},
			wantErr: "database.name is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Database = DatabaseConfig{Host: "localhost", Port: 5432, Name: "db", User: "u", MaxConns: 2, MinConns: 5}
			},
			wantErr: "database.min_conns (5) cannot exceed max_conns (2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, "collection:\n  slug: chonks\n")
	if _, err := LoadAndValidate(path); err == nil || !strings.HasPrefix(err.Error(), "invalid config:") {
		t.Errorf("LoadAndValidate error = %v, want invalid config", err)
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("RW_TEST_KEEP", "from-env")
	t.Cleanup(func() { os.Unsetenv("RW_TEST_CHAT") })

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "RW_TEST_CHAT=-1005\nRW_TEST_KEEP=from-file\n"
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if err := LoadEnvFile(envPath); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}

	path := writeTempFile(t, "telegram:\n  chat_id: \"${RW_TEST_CHAT}\"\n  bot_token: ${RW_TEST_KEEP}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Telegram.ChatID != "-1005" {
		t.Errorf("Telegram.ChatID = %q, want %q", cfg.Telegram.ChatID, "-1005")
	}
	if cfg.Telegram.BotToken != "from-env" {
		t.Errorf("Telegram.BotToken = %q, want existing env to win", cfg.Telegram.BotToken)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("LoadEnvFile(missing) = %v, want nil", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("LoadEnvFile(\"\") = %v, want nil", err)
	}
}
