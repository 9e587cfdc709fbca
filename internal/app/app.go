// Package app provides the bootstrap and runtime orchestration.
//
// The App type wires the render dispatcher to its views and exposes the two
// operational modes:
//
//   - Render mode: render one request read from a file or stdin
//   - Serve mode: HTTP render service with health and metrics endpoints
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	coreerrors "github.com/lueurxax/parsed-note/internal/core/errors"
	"github.com/lueurxax/parsed-note/internal/core/mentions"
	"github.com/lueurxax/parsed-note/internal/core/parsednote"
	"github.com/lueurxax/parsed-note/internal/platform/config"
	"github.com/lueurxax/parsed-note/internal/platform/observability"
	"github.com/lueurxax/parsed-note/internal/render"
	"github.com/lueurxax/parsed-note/internal/render/htmlview"
	"github.com/lueurxax/parsed-note/internal/render/termview"
	"github.com/lueurxax/parsed-note/internal/server"
)

const (
	renderPath       = "/render"
	defaultPageTitle = "Note"
)

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg    *config.Config
	logger *zerolog.Logger
	html   *htmlview.View
	term   *termview.View
	// plain paints terminal text without styling for HTTP clients.
	plain *termview.View
}

// New wires the views. Terminal styling is detected from out.
func New(cfg *config.Config, out io.Writer, logger *zerolog.Logger) (*App, error) {
	rc := cfg.RenderCfg()

	dispatcher := render.NewDispatcher(render.Config{
		Weights: parsednote.Weights{
			Image:           rc.ImageWeight,
			GalleryPerImage: rc.GalleryImageWeight,
			Mention:         rc.MentionWeight,
		},
		ShortNoteWords: rc.ShortNoteWords,
		TwitchParent:   rc.TwitchParentHost,
	}, mentions.NIP19{}, logger)

	html, err := htmlview.New(dispatcher)
	if err != nil {
		return nil, fmt.Errorf("html view: %w", err)
	}

	tc := cfg.TerminalCfg()
	term := termview.New(dispatcher, lipgloss.NewRenderer(out), tc.Width, tc.Hyperlinks)

	return &App{
		cfg:    cfg,
		logger: logger,
		html:   html.WithMaxDepth(rc.MaxEmbedDepth),
		term:   term.WithMaxDepth(rc.MaxEmbedDepth),
		plain:  termview.New(dispatcher, lipgloss.NewRenderer(io.Discard), tc.Width, false).WithMaxDepth(rc.MaxEmbedDepth),
	}, nil
}

// RunServe serves the render endpoint until ctx is done.
func (a *App) RunServe(ctx context.Context) error {
	sc := a.cfg.ServerCfg()

	handler, err := server.NewHandler(sc, a.html, a.plain, a.logger)
	if err != nil {
		return fmt.Errorf("render handler: %w", err)
	}

	srv := observability.NewServer(sc.Port, a.logger).
		WithTimeouts(sc.ReadTimeout, sc.WriteTimeout, sc.ShutdownTimeout).
		Mount(renderPath, handler)

	return srv.Start(ctx)
}

// Render writes one rendered request to w.
func (a *App) Render(w io.Writer, req *server.Request) (render.Result, error) {
	if err := req.Normalize(); err != nil {
		return render.Result{}, err
	}

	in, err := req.Input()
	if err != nil {
		a.logger.Warn().Err(err).Msg("Some documents produced no link preview")
	}

	if req.Format == server.FormatTerminal {
		view := a.term
		if req.Width != nil {
			view = view.WithWidth(*req.Width)
		}

		out := view.Render(in, req.Options)

		if _, err := io.WriteString(w, out.Text+"\n"); err != nil {
			return render.Result{}, fmt.Errorf("write output: %w", err)
		}

		return out.Result, nil
	}

	out, err := a.html.Fragment(in, req.Options)
	if err != nil {
		return render.Result{}, fmt.Errorf("render note %s: %w", req.Note.ID, err)
	}

	if req.Page {
		title := req.Title
		if title == "" {
			title = defaultPageTitle
		}

		if err := a.html.Page(w, title, out.HTML); err != nil {
			return render.Result{}, err
		}

		return out.Result, nil
	}

	if _, err := io.WriteString(w, string(out.HTML)+"\n"); err != nil {
		return render.Result{}, fmt.Errorf("write output: %w", err)
	}

	return out.Result, nil
}

// ParseRequest reads a render request. A document without a "note" member is
// taken to be the bare note.
func ParseRequest(data []byte) (*server.Request, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", coreerrors.ErrInvalidInput)
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: decode input: %v", coreerrors.ErrInvalidInput, err)
	}

	var req server.Request

	if _, ok := probe["note"]; ok {
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, fmt.Errorf("%w: decode request: %v", coreerrors.ErrInvalidInput, err)
		}

		return &req, nil
	}

	if err := json.Unmarshal(data, &req.Note); err != nil {
		return nil, fmt.Errorf("%w: decode note: %v", coreerrors.ErrInvalidInput, err)
	}

	return &req, nil
}
