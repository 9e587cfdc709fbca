// Package server exposes the renderer over HTTP.
package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/lueurxax/parsed-note/internal/platform/config"
	"github.com/lueurxax/parsed-note/internal/platform/observability"
	"github.com/lueurxax/parsed-note/internal/render"
	"github.com/lueurxax/parsed-note/internal/render/htmlview"
	"github.com/lueurxax/parsed-note/internal/render/termview"
)

//go:embed templates/*.html
var templateFS embed.FS

const rateLimitWindow = time.Minute

// clientLimiter tracks one client's allowance and when it was last used.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// HTTP header constants.
const (
	headerContentType = "Content-Type"
	headerConsumed    = "X-Render-Consumed"
	headerTruncated   = "X-Render-Truncated"

	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

const defaultPageTitle = "Note"

// ErrorData contains data for rendering error pages.
type ErrorData struct {
	Code    int
	Title   string
	Message string
}

// Handler serves POST /render.
type Handler struct {
	cfg       config.ServerConfig
	html      *htmlview.View
	term      *termview.View
	errorTmpl *template.Template
	logger    *zerolog.Logger

	// IP-based rate limiting
	limiters   map[string]*clientLimiter
	limitersMu sync.Mutex
	idleTTL    time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

// NewHandler creates a render handler.
func NewHandler(cfg config.ServerConfig, html *htmlview.View, term *termview.View, logger *zerolog.Logger) (*Handler, error) {
	errorTmpl, err := template.ParseFS(templateFS, "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error template: %w", err)
	}

	return &Handler{
		cfg:       cfg,
		html:      html,
		term:      term,
		errorTmpl: errorTmpl,
		logger:    logger,
		limiters:  make(map[string]*clientLimiter),
		idleTTL:   refillTime(cfg),
		now:       time.Now,
	}, nil
}

// refillTime is how long an idle limiter takes to regain its full burst. Dropping
// it after that long loses nothing, since a new limiter starts full.
func refillTime(cfg config.ServerConfig) time.Duration {
	if cfg.RateLimitRPM <= 0 {
		return rateLimitWindow
	}

	return max(time.Duration(cfg.RateLimitBurst)*rateLimitWindow/time.Duration(cfg.RateLimitRPM), rateLimitWindow)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	defer func() {
		observability.RenderRequestLatency.Observe(time.Since(start).Seconds())
	}()

	// Set security headers
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Robots-Tag", "noindex, nofollow")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cache-Control", "private, no-store")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.renderError(w, FormatHTML, http.StatusMethodNotAllowed, "Method Not Allowed", "Send the note with POST.")
		observability.RenderRequests.WithLabelValues(observability.RequestStatusMethod).Inc()

		return
	}

	if !h.allowRequest(getClientIP(r, h.cfg.TrustProxy)) {
		h.renderError(w, FormatHTML, http.StatusTooManyRequests, "Too Many Requests", "Please wait before trying again.")
		observability.RenderRequests.WithLabelValues(observability.RequestStatusLimited).Inc()

		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	in, err := req.Input()
	if err != nil {
		h.logger.Debug().Err(err).Msg("Some documents produced no link preview")
	}

	switch req.Format {
	case FormatTerminal:
		h.serveTerminal(w, req, in)
	default:
		h.serveHTML(w, req, in)
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*Request, bool) {
	var req Request

	body := http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.renderError(w, FormatHTML, http.StatusRequestEntityTooLarge, "Request Too Large",
				fmt.Sprintf("The request body exceeds %d bytes.", h.cfg.MaxBodyBytes))
			observability.RenderRequests.WithLabelValues(observability.RequestStatusTooLarge).Inc()

			return nil, false
		}

		h.renderError(w, FormatHTML, http.StatusBadRequest, "Bad Request", "The request body is not a valid render request.")
		observability.RenderRequests.WithLabelValues(observability.RequestStatusBad).Inc()

		return nil, false
	}

	if err := req.Normalize(); err != nil {
		h.renderError(w, req.Format, http.StatusBadRequest, "Bad Request", err.Error())
		observability.RenderRequests.WithLabelValues(observability.RequestStatusBad).Inc()

		return nil, false
	}

	return &req, true
}

func (h *Handler) serveHTML(w http.ResponseWriter, req *Request, in render.Input) {
	out, err := h.html.Fragment(in, req.Options)
	if err != nil {
		h.logger.Error().Err(err).Str("note_id", req.Note.ID).Msg("Failed to render note")
		h.renderError(w, FormatHTML, http.StatusInternalServerError, "Error", "Failed to render the note.")
		observability.RenderRequests.WithLabelValues(observability.RequestStatusError).Inc()

		return
	}

	var buf bytes.Buffer

	if req.Page {
		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = defaultPageTitle
		}

		if err := h.html.Page(&buf, title, out.HTML); err != nil {
			h.logger.Error().Err(err).Str("note_id", req.Note.ID).Msg("Failed to render page")
			h.renderError(w, FormatHTML, http.StatusInternalServerError, "Error", "Failed to render the page.")
			observability.RenderRequests.WithLabelValues(observability.RequestStatusError).Inc()

			return
		}
	} else {
		buf.WriteString(string(out.HTML))
	}

	h.write(w, contentTypeHTML, out.Result, buf.Bytes())
}

func (h *Handler) serveTerminal(w http.ResponseWriter, req *Request, in render.Input) {
	view := h.term
	if req.Width != nil {
		view = view.WithWidth(*req.Width)
	}

	out := view.Render(in, req.Options)

	h.write(w, contentTypeText, out.Result, []byte(out.Text))
}

func (h *Handler) write(w http.ResponseWriter, contentType string, res render.Result, body []byte) {
	w.Header().Set(headerContentType, contentType)
	w.Header().Set(headerConsumed, strconv.Itoa(res.Consumed))
	w.Header().Set(headerTruncated, strconv.FormatBool(res.Truncated))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		h.logger.Debug().Err(err).Msg("Failed to write response")
	}

	observability.RenderRequests.WithLabelValues(observability.RequestStatusOK).Inc()
}

func (h *Handler) renderError(w http.ResponseWriter, format string, code int, title, message string) {
	if format == FormatTerminal {
		w.Header().Set(headerContentType, contentTypeText)
		w.WriteHeader(code)
		_, _ = io.WriteString(w, title+": "+message+"\n")

		return
	}

	w.Header().Set(headerContentType, contentTypeHTML)
	w.WriteHeader(code)

	if err := h.errorTmpl.Execute(w, &ErrorData{Code: code, Title: title, Message: message}); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render error page")
	}
}

func (h *Handler) allowRequest(ip string) bool {
	now := h.now()

	h.limitersMu.Lock()

	if now.Sub(h.lastSweep) >= h.idleTTL {
		h.evictIdle(now)
	}

	entry, ok := h.limiters[ip]
	if !ok {
		entry = &clientLimiter{
			limiter: rate.NewLimiter(rate.Every(rateLimitWindow/time.Duration(h.cfg.RateLimitRPM)), h.cfg.RateLimitBurst),
		}
		h.limiters[ip] = entry
	}

	entry.lastSeen = now

	h.limitersMu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// evictIdle drops limiters unused for a full refill period. Callers hold limitersMu.
func (h *Handler) evictIdle(now time.Time) {
	for ip, entry := range h.limiters {
		if now.Sub(entry.lastSeen) >= h.idleTTL {
			delete(h.limiters, ip)
		}
	}

	h.lastSweep = now
}

// getClientIP keys rate limiting. Forwarding headers are client-controlled unless a
// reverse proxy rewrites them, so they are read only when trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}

		// The proxy appends the address it saw; earlier entries came from the client.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if last := strings.TrimSpace(parts[len(parts)-1]); last != "" {
				return last
			}
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
