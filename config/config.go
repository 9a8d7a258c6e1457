// Package config loads typed client configuration from file with
// environment-variable overrides for credentials.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrExchangeNotFound is returned when a named exchange has no entry
var ErrExchangeNotFound = errors.New("exchange not found in config")

// APICredentials holds signing material for one exchange
type APICredentials struct {
	Key        string `mapstructure:"key"`
	Secret     string `mapstructure:"secret"`
	SubAccount string `mapstructure:"subAccount"`
}

// Exchange is the per-venue configuration block
type Exchange struct {
	Name                    string         `mapstructure:"name"`
	Enabled                 bool           `mapstructure:"enabled"`
	Verbose                 bool           `mapstructure:"verbose"`
	HTTPTimeout             time.Duration  `mapstructure:"httpTimeout"`
	RecvWindow              string         `mapstructure:"recvWindow"`
	AdjustForTimeDifference bool           `mapstructure:"adjustForTimeDifference"`
	API                     APICredentials `mapstructure:"api"`
}

// Config is the top level client configuration
type Config struct {
	LogLevel  string     `mapstructure:"logLevel"`
	Exchanges []Exchange `mapstructure:"exchanges"`
}

// defaults applied when a block omits values
const (
	defaultHTTPTimeout = 15 * time.Second
	envPrefix          = "GOXCHANGE"
)

// Load reads configuration from the supplied file path. JSON and YAML are
// both accepted. Credentials may be overridden per exchange through
// GOXCHANGE_<NAME>_KEY / _SECRET environment variables so secrets can stay
// out of files.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %q: %w", path, err)
	}

	for i := range cfg.Exchanges {
		e := &cfg.Exchanges[i]
		if e.HTTPTimeout <= 0 {
			e.HTTPTimeout = defaultHTTPTimeout
		}
		name := strings.ToUpper(e.Name)
		if key := v.GetString(name + "_KEY"); key != "" {
			e.API.Key = key
		}
		if secret := v.GetString(name + "_SECRET"); secret != "" {
			e.API.Secret = secret
		}
	}
	return &cfg, nil
}

// GetExchangeConfig returns the block for the named exchange,
// case-insensitively
func (c *Config) GetExchangeConfig(name string) (*Exchange, error) {
	for i := range c.Exchanges {
		if strings.EqualFold(c.Exchanges[i].Name, name) {
			return &c.Exchanges[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrExchangeNotFound, name)
}
