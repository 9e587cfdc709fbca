package config

import (
	"errors"
	"os"
	"testing"
	"time"

	coreerrors "github.com/lueurxax/parsed-note/internal/core/errors"
)

const testErrLoad = "Load() error = %v"

var configKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_PORT", "PORT",
	"SHORT_NOTE_WORDS", "MENTION_WEIGHT", "IMAGE_WEIGHT", "GALLERY_IMAGE_WEIGHT",
	"TWITCH_PARENT_HOST", "MAX_EMBED_DEPTH",
	"RENDER_RATE_LIMIT_RPM", "RENDER_RATE_LIMIT_BURST", "RENDER_MAX_BODY_BYTES", "RENDER_TRUST_PROXY",
	"RENDER_READ_TIMEOUT", "RENDER_WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	"TERMINAL_WIDTH", "COLUMNS", "OSC8_LINKS", "OSC8",
}

// clearEnv unsets every key the config reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range configKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.AppEnv != "local" {
		t.Errorf("AppEnv = %q, want %q", cfg.AppEnv, "local")
	}

	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want %d", cfg.HTTPPort, 8080)
	}

	render := cfg.RenderCfg()
	if render.ShortNoteWords != 100 || render.MentionWeight != 25 || render.ImageWeight != 100 || render.GalleryImageWeight != 10 {
		t.Errorf("RenderCfg() = %+v, want budget defaults 100/25/100/10", render)
	}

	if render.TwitchParentHost != "localhost" {
		t.Errorf("TwitchParentHost = %q, want %q", render.TwitchParentHost, "localhost")
	}

	server := cfg.ServerCfg()
	if server.RateLimitRPM != 120 || server.RateLimitBurst != 20 {
		t.Errorf("rate limit = %d/%d, want 120/20", server.RateLimitRPM, server.RateLimitBurst)
	}

	if server.MaxBodyBytes != 1<<20 {
		t.Errorf("MaxBodyBytes = %d, want %d", server.MaxBodyBytes, 1<<20)
	}

	if server.TrustProxy {
		t.Error("TrustProxy = true, want false by default")
	}

	if server.ReadTimeout != 10*time.Second {
		t.Errorf("ReadTimeout = %v, want %v", server.ReadTimeout, 10*time.Second)
	}

	term := cfg.TerminalCfg()
	if term.Width != 80 || term.Hyperlinks {
		t.Errorf("TerminalCfg() = %+v, want width 80 without hyperlinks", term)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)

	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("SHORT_NOTE_WORDS", "40")
	t.Setenv("TWITCH_PARENT_HOST", "notes.example")
	t.Setenv("TERMINAL_WIDTH", "0")
	t.Setenv("OSC8_LINKS", "true")
	t.Setenv("RENDER_TRUST_PROXY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.HTTPPort != 9000 {
		t.Errorf("HTTPPort = %d, want %d", cfg.HTTPPort, 9000)
	}

	if cfg.ShortNoteWords != 40 {
		t.Errorf("ShortNoteWords = %d, want %d", cfg.ShortNoteWords, 40)
	}

	if cfg.TwitchParentHost != "notes.example" {
		t.Errorf("TwitchParentHost = %q, want %q", cfg.TwitchParentHost, "notes.example")
	}

	if cfg.TerminalWidth != 0 || !cfg.OSC8Links {
		t.Errorf("terminal = %d/%v, want 0/true", cfg.TerminalWidth, cfg.OSC8Links)
	}

	if !cfg.ServerCfg().TrustProxy {
		t.Error("TrustProxy = false, want true")
	}
}

func TestLoad_Aliases(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(*Config) bool
	}{
		{
			name:  "PORT used when HTTP_PORT unset",
			env:   map[string]string{"PORT": "7070"},
			check: func(c *Config) bool { return c.HTTPPort == 7070 },
		},
		{
			name:  "HTTP_PORT wins over PORT",
			env:   map[string]string{"PORT": "7070", "HTTP_PORT": "9090"},
			check: func(c *Config) bool { return c.HTTPPort == 9090 },
		},
		{
			name:  "COLUMNS sets terminal width",
			env:   map[string]string{"COLUMNS": "120"},
			check: func(c *Config) bool { return c.TerminalWidth == 120 },
		},
		{
			name:  "OSC8 enables hyperlinks",
			env:   map[string]string{"OSC8": "1"},
			check: func(c *Config) bool { return c.OSC8Links },
		},
		{
			name:  "invalid alias ignored",
			env:   map[string]string{"COLUMNS": "wide"},
			check: func(c *Config) bool { return c.TerminalWidth == 80 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf(testErrLoad, err)
			}

			if !tt.check(cfg) {
				t.Errorf("unexpected config: %+v", cfg)
			}
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "zero word budget", key: "SHORT_NOTE_WORDS", val: "0"},
		{name: "negative weight", key: "IMAGE_WEIGHT", val: "-1"},
		{name: "zero rate limit", key: "RENDER_RATE_LIMIT_RPM", val: "0"},
		{name: "negative width", key: "TERMINAL_WIDTH", val: "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			if !errors.Is(err, coreerrors.ErrInvalidInput) {
				t.Errorf("Load() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestLoad_ParseError(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed HTTP_PORT")
	}
}
