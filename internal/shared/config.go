package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Search      SearchConfig      `toml:"search"`
	Board       BoardConfig       `toml:"board"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// ServerConfig points at the InTune backend.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	SessionCookie  string `toml:"session_cookie"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// SearchConfig controls the modal search pipeline.
type SearchConfig struct {
	DebounceMS     int     `toml:"debounce_ms"`
	MinQueryLength int     `toml:"min_query_length"`
	Limit          int     `toml:"limit"`
	RateLimit      float64 `toml:"rate_limit"`
	Mode           string  `toml:"mode"`
}

// BoardConfig sets the number of card slots per grid.
type BoardConfig struct {
	ArtistSlots int `toml:"artist_slots"`
	TrackSlots  int `toml:"track_slots"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify client credentials used by direct search mode.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Debounce returns the configured debounce window.
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// Timeout returns the HTTP client timeout for backend calls.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Validate checks that values the controller depends on are usable.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("%w: server.base_url is empty", ErrInvalidConfig)
	}
	if c.Search.DebounceMS < 1 {
		return fmt.Errorf("%w: search.debounce_ms must be at least 1", ErrInvalidConfig)
	}
	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("%w: search.min_query_length must be at least 1", ErrInvalidConfig)
	}
	if c.Search.Limit < 1 || c.Search.Limit > 50 {
		return fmt.Errorf("%w: search.limit must be between 1 and 50", ErrInvalidConfig)
	}
	switch c.Search.Mode {
	case "backend", "spotify":
	default:
		return fmt.Errorf("%w: unknown search.mode %q", ErrInvalidConfig, c.Search.Mode)
	}
	if c.Board.ArtistSlots < 1 || c.Board.TrackSlots < 1 {
		return fmt.Errorf("%w: board slots must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
