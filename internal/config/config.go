package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/DoyleJ11/simon-says-backend/internal/engine"
)

type Config struct {
	Addr            string
	LogLevel        string
	LogFormat       string // "json" or "console"
	Timing          engine.Timing
	WSReadTimeout   time.Duration
	WSWriteTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Default() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		Timing:          engine.DefaultTiming(),
		WSReadTimeout:   2 * time.Minute,
		WSWriteTimeout:  3 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load reads an optional .env file, then SIMON_* variables from the environment.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load env file: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, reporting every invalid variable at once.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	var errs error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(key string, dst *time.Duration) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		if d < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: must not be negative", key))
			return
		}
		*dst = d
	}

	str("SIMON_ADDR", &cfg.Addr)
	str("SIMON_LOG_LEVEL", &cfg.LogLevel)
	str("SIMON_LOG_FORMAT", &cfg.LogFormat)
	dur("SIMON_PAD_FLASH", &cfg.Timing.PadFlash)
	dur("SIMON_PAD_INTERVAL", &cfg.Timing.PadInterval)
	dur("SIMON_HANDOFF_PADDING", &cfg.Timing.HandoffPadding)
	dur("SIMON_NEXT_ROUND_DELAY", &cfg.Timing.NextRoundDelay)
	dur("SIMON_WS_READ_TIMEOUT", &cfg.WSReadTimeout)
	dur("SIMON_WS_WRITE_TIMEOUT", &cfg.WSWriteTimeout)
	dur("SIMON_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	switch cfg.LogFormat {
	case "json", "console":
	default:
		errs = multierr.Append(errs, fmt.Errorf("SIMON_LOG_FORMAT: want json or console, got %q", cfg.LogFormat))
	}
	if cfg.Timing.PadFlash > cfg.Timing.PadInterval {
		errs = multierr.Append(errs, errors.New("SIMON_PAD_FLASH: must not exceed SIMON_PAD_INTERVAL"))
	}

	if errs != nil {
		return Config{}, fmt.Errorf("config: %w", errs)
	}
	return cfg, nil
}
