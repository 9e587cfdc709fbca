package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	coreerrors "github.com/lueurxax/parsed-note/internal/core/errors"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"local"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort int    `env:"HTTP_PORT" envDefault:"8080"`

	// Render budget
	ShortNoteWords     int    `env:"SHORT_NOTE_WORDS" envDefault:"100"`
	MentionWeight      int    `env:"MENTION_WEIGHT" envDefault:"25"`
	ImageWeight        int    `env:"IMAGE_WEIGHT" envDefault:"100"`
	GalleryImageWeight int    `env:"GALLERY_IMAGE_WEIGHT" envDefault:"10"`
	TwitchParentHost   string `env:"TWITCH_PARENT_HOST" envDefault:"localhost"`
	MaxEmbedDepth      int    `env:"MAX_EMBED_DEPTH" envDefault:"2"`

	// Render service
	RenderRateLimitRPM   int           `env:"RENDER_RATE_LIMIT_RPM" envDefault:"120"`
	RenderRateLimitBurst int           `env:"RENDER_RATE_LIMIT_BURST" envDefault:"20"`
	RenderMaxBodyBytes   int64         `env:"RENDER_MAX_BODY_BYTES" envDefault:"1048576"`
	RenderTrustProxy     bool          `env:"RENDER_TRUST_PROXY" envDefault:"false"`
	RenderReadTimeout    time.Duration `env:"RENDER_READ_TIMEOUT" envDefault:"10s"`
	RenderWriteTimeout   time.Duration `env:"RENDER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Terminal output
	TerminalWidth int  `env:"TERMINAL_WIDTH" envDefault:"80"`
	OSC8Links     bool `env:"OSC8_LINKS" envDefault:"false"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	applyAliases(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the renderer cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.ShortNoteWords <= 0:
		return fmt.Errorf("SHORT_NOTE_WORDS must be positive: %w", coreerrors.ErrInvalidInput)
	case c.MentionWeight < 0 || c.ImageWeight < 0 || c.GalleryImageWeight < 0:
		return fmt.Errorf("render weights must not be negative: %w", coreerrors.ErrInvalidInput)
	case c.MaxEmbedDepth < 0:
		return fmt.Errorf("MAX_EMBED_DEPTH must not be negative: %w", coreerrors.ErrInvalidInput)
	case c.RenderRateLimitRPM <= 0 || c.RenderRateLimitBurst <= 0:
		return fmt.Errorf("render rate limit must be positive: %w", coreerrors.ErrInvalidInput)
	case c.RenderMaxBodyBytes <= 0:
		return fmt.Errorf("RENDER_MAX_BODY_BYTES must be positive: %w", coreerrors.ErrInvalidInput)
	case c.TerminalWidth < 0:
		return fmt.Errorf("TERMINAL_WIDTH must not be negative: %w", coreerrors.ErrInvalidInput)
	}

	return nil
}

// applyAliases honours the generic names commonly set by hosts and terminals when
// the specific keys are absent.
func applyAliases(cfg *Config) {
	if !hasEnv("HTTP_PORT") {
		setIntFromEnv("PORT", &cfg.HTTPPort)
	}

	if !hasEnv("TERMINAL_WIDTH") {
		setIntFromEnv("COLUMNS", &cfg.TerminalWidth)
	}

	if !hasEnv("OSC8_LINKS") {
		setBoolFromEnv("OSC8", &cfg.OSC8Links)
	}
}

func hasEnv(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func setBoolFromEnv(key string, target *bool) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(val))
	if err != nil {
		return
	}

	*target = parsed
}

func setIntFromEnv(key string, target *int) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return
	}

	*target = parsed
}
