package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalidPageSize is returned when log.length is not a positive integer.
// Operations depending on the page size fail fast rather than falling back
// to a default silently.
var ErrInvalidPageSize = errors.New("log.length must be a positive integer")

// DefaultPageSize is the number of log records fetched per page when
// log.length is unset.
const DefaultPageSize = 50

// Config holds user-facing settings, backed by viper.
type Config struct {
	v *viper.Viper
}

// Load reads .revlog.yaml from the working directory or the home
// directory. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".revlog")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	v.SetEnvPrefix("REVLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return &Config{v: v}, nil
}

// New returns a Config with defaults only, used by tests and callers that
// want to set values programmatically.
func New() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.length", DefaultPageSize)
	v.SetDefault("blame.gravatar", true)
	v.SetDefault("blame.mergeInfo", false)
}

// Set overrides a single key.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// PageSize returns the configured log page size. The value must parse as
// a positive integer or ErrInvalidPageSize is returned.
func (c *Config) PageSize() (int, error) {
	raw := c.v.Get("log.length")
	switch n := raw.(type) {
	case int:
		if n <= 0 {
			return 0, ErrInvalidPageSize
		}
		return n, nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil || parsed <= 0 {
			return 0, ErrInvalidPageSize
		}
		return parsed, nil
	default:
		return 0, ErrInvalidPageSize
	}
}

// GravatarEnabled reports whether author icons should be resolved.
func (c *Config) GravatarEnabled() bool {
	return c.v.GetBool("blame.gravatar")
}

// BlameMergeInfo reports whether blame should include merged revisions.
func (c *Config) BlameMergeInfo() bool {
	return c.v.GetBool("blame.mergeInfo")
}
