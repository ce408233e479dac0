package config

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/pelletier/go-toml"
)

const (
	DefaultListenAddress = "0.0.0.0:8546"
	DefaultHTTPTimeout   = 10 * time.Second

	DefaultAsset        = "USDT"
	DefaultFiat         = "ETB"
	DefaultIntermediary = "USDT"
)

var (
	ErrInvalidListenAddress = errors.New("invalid listen address")
	ErrInvalidHTTPTimeout   = errors.New("invalid http timeout")
	ErrInvalidMarketSymbol  = errors.New("invalid market symbol")
)

var listenAddressRegex = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}:\d+$`)

// CORS defines the ops server CORS configuration
type CORS struct {
	AllowedOrigins []string `toml:"allowed_origins"`
	AllowedMethods []string `toml:"allowed_methods"`
	AllowedHeaders []string `toml:"allowed_headers"`
}

// DefaultCORSConfig returns the default CORS configuration
func DefaultCORSConfig() *CORS {
	return &CORS{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}
}

// Market defines the default P2P market the bot serves
type Market struct {
	// The P2P asset being traded
	Asset string `toml:"asset"`

	// The fiat currency the asset trades against
	Fiat string `toml:"fiat"`

	// The bridge asset for composed price paths
	Intermediary string `toml:"intermediary"`
}

// Config defines the base-level bot configuration
type Config struct {
	// The associated CORS config, if any
	CORSConfig *CORS `toml:"cors_config"`

	// The market the bot serves
	Market Market `toml:"market"`

	// The address at which the ops server will be served.
	// Format should be: <IP>:<PORT>
	ListenAddress string `toml:"listen_address"`

	// The bound, in seconds, on every outbound upstream HTTP call.
	// No automatic retries; a timed out call fails the command
	HTTPTimeoutSeconds int64 `toml:"http_timeout_seconds"`
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *Config {
	return &Config{
		ListenAddress:      DefaultListenAddress,
		CORSConfig:         DefaultCORSConfig(),
		HTTPTimeoutSeconds: int64(DefaultHTTPTimeout / time.Second),
		Market: Market{
			Asset:        DefaultAsset,
			Fiat:         DefaultFiat,
			Intermediary: DefaultIntermediary,
		},
	}
}

// HTTPTimeout returns the upstream call bound as a duration
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// ValidateConfig validates the bot configuration
func ValidateConfig(config *Config) error {
	// Validate the listen address
	if !listenAddressRegex.MatchString(config.ListenAddress) {
		return ErrInvalidListenAddress
	}

	// Validate the upstream call bound
	if config.HTTPTimeoutSeconds <= 0 {
		return ErrInvalidHTTPTimeout
	}

	// Validate the market symbols
	if !validSymbol(config.Market.Asset) ||
		!validSymbol(config.Market.Fiat) ||
		!validSymbol(config.Market.Intermediary) {
		return ErrInvalidMarketSymbol
	}

	return nil
}

// validSymbol reports whether a currency symbol is non-empty uppercase A-Z
func validSymbol(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}

	return true
}

// Read reads the configuration from the given path
func Read(path string) (*Config, error) {
	// Read the config file
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse it, on top of the defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	cfg.Market.Asset = strings.ToUpper(cfg.Market.Asset)
	cfg.Market.Fiat = strings.ToUpper(cfg.Market.Fiat)
	cfg.Market.Intermediary = strings.ToUpper(cfg.Market.Intermediary)

	return cfg, nil
}
