package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/lueurxax/parsed-note/internal/app"
	"github.com/lueurxax/parsed-note/internal/platform/config"
	"github.com/lueurxax/parsed-note/internal/render"
	"github.com/lueurxax/parsed-note/internal/render/termview"
	"github.com/lueurxax/parsed-note/internal/server"
)

const (
	modeRender = "render"
	modeServe  = "serve"
)

type cliFlags struct {
	mode             string
	input            string
	format           string
	width            int
	shorten          bool
	ignoreMedia      bool
	ignoreLinebreaks bool
	mentions         string
	noPreviews       bool
	page             bool
	title            string
	osc8             string
}

func main() {
	var f cliFlags

	flags := pflag.NewFlagSet("notepreview", pflag.ExitOnError)
	flags.StringVarP(&f.mode, "mode", "m", modeRender, "Run mode: render|serve")
	flags.StringVarP(&f.input, "input", "i", "-", "Request or note JSON file (- reads stdin)")
	flags.StringVarP(&f.format, "format", "f", server.FormatHTML, "Output format: html|terminal")
	flags.IntVarP(&f.width, "width", "w", termview.DefaultWidth, "Terminal wrap width (0 disables wrapping)")
	flags.BoolVar(&f.shorten, "shorten", false, "Cut the note at the short-note budget")
	flags.BoolVar(&f.ignoreMedia, "ignore-media", false, "Show media URLs as links")
	flags.BoolVar(&f.ignoreLinebreaks, "ignore-linebreaks", false, "Collapse line breaks into spaces")
	flags.StringVar(&f.mentions, "mentions", "full", "Mention mode: full|links|text")
	flags.BoolVar(&f.noPreviews, "no-previews", false, "Hide link previews")
	flags.BoolVar(&f.page, "page", false, "Wrap HTML output in a standalone page")
	flags.StringVar(&f.title, "title", "", "Page title")
	flags.StringVarP(&f.osc8, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")

	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: notepreview [flags]\n")
		fmt.Fprintln(os.Stderr, "\nRenders a nostr note read as JSON, or serves POST /render.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if flags.Changed("width") {
		cfg.TerminalWidth = f.width
	}

	cfg.OSC8Links, err = resolveHyperlinks(f.osc8, cfg.OSC8Links)
	if err != nil {
		log.Fatalf("invalid --osc8: %v", err)
	}

	setLogLevel(cfg.LogLevel)

	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, os.Stdout, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build application")
	}

	if err := runMode(ctx, application, flags, &f, &logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info().Msg("application stopped")
			return
		}

		logger.Fatal().Err(err).Msg("application error")
	}
}

func runMode(ctx context.Context, application *app.App, flags *pflag.FlagSet, f *cliFlags, logger *zerolog.Logger) error {
	switch f.mode {
	case modeServe:
		return application.RunServe(ctx)
	case modeRender:
		return renderOnce(application, flags, f, logger)
	default:
		log.Fatalf("Usage: %s --mode=[render|serve]", os.Args[0])

		return nil
	}
}

func renderOnce(application *app.App, flags *pflag.FlagSet, f *cliFlags, logger *zerolog.Logger) error {
	data, err := readInput(f.input)
	if err != nil {
		return err
	}

	req, err := app.ParseRequest(data)
	if err != nil {
		return err
	}

	if err := applyFlags(req, flags, f); err != nil {
		return err
	}

	res, err := application.Render(os.Stdout, req)
	if err != nil {
		return err
	}

	logger.Debug().
		Int("consumed", res.Consumed).
		Bool("truncated", res.Truncated).
		Int("skipped", res.Skipped).
		Msg("Note rendered")

	return nil
}

// applyFlags lets explicitly set flags override the request document.
func applyFlags(req *server.Request, flags *pflag.FlagSet, f *cliFlags) error {
	if flags.Changed("format") {
		req.Format = f.format
	}

	if flags.Changed("width") {
		width := f.width
		req.Width = &width
	}

	if flags.Changed("shorten") {
		req.Options.Shorten = f.shorten
	}

	if flags.Changed("ignore-media") {
		req.Options.IgnoreMedia = f.ignoreMedia
	}

	if flags.Changed("ignore-linebreaks") {
		req.Options.IgnoreLinebreaks = f.ignoreLinebreaks
	}

	if flags.Changed("no-previews") {
		req.Options.NoPreviews = f.noPreviews
	}

	if flags.Changed("page") {
		req.Page = f.page
	}

	if flags.Changed("title") {
		req.Title = f.title
	}

	if flags.Changed("mentions") {
		mode, err := render.ParseMentionMode(f.mentions)
		if err != nil {
			return err
		}

		req.Options.Mentions = mode
	}

	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return data, nil
}

func resolveHyperlinks(flag string, configured bool) (bool, error) {
	switch flag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return configured || termview.DetectHyperlinks(), nil
	default:
		return false, fmt.Errorf("unknown value %q", flag)
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newLogger(appEnv string) zerolog.Logger {
	if appEnv == "local" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
