package config

import "time"

// RenderConfig holds the render pass settings.
type RenderConfig struct {
	ShortNoteWords     int
	MentionWeight      int
	ImageWeight        int
	GalleryImageWeight int
	TwitchParentHost   string
	MaxEmbedDepth      int
}

// ServerConfig holds the render service settings.
type ServerConfig struct {
	Port            int
	RateLimitRPM    int
	RateLimitBurst  int
	MaxBodyBytes    int64
	TrustProxy      bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// TerminalConfig holds terminal output settings.
type TerminalConfig struct {
	Width      int
	Hyperlinks bool
}

// RenderCfg returns the render pass configuration.
func (c *Config) RenderCfg() RenderConfig {
	return RenderConfig{
		ShortNoteWords:     c.ShortNoteWords,
		MentionWeight:      c.MentionWeight,
		ImageWeight:        c.ImageWeight,
		GalleryImageWeight: c.GalleryImageWeight,
		TwitchParentHost:   c.TwitchParentHost,
		MaxEmbedDepth:      c.MaxEmbedDepth,
	}
}

// ServerCfg returns the render service configuration.
func (c *Config) ServerCfg() ServerConfig {
	return ServerConfig{
		Port:            c.HTTPPort,
		RateLimitRPM:    c.RenderRateLimitRPM,
		RateLimitBurst:  c.RenderRateLimitBurst,
		MaxBodyBytes:    c.RenderMaxBodyBytes,
		TrustProxy:      c.RenderTrustProxy,
		ReadTimeout:     c.RenderReadTimeout,
		WriteTimeout:    c.RenderWriteTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
	}
}

// TerminalCfg returns the terminal output configuration.
func (c *Config) TerminalCfg() TerminalConfig {
	return TerminalConfig{
		Width:      c.TerminalWidth,
		Hyperlinks: c.OSC8Links,
	}
}
