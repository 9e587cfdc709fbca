package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	return rec
}

func TestServerEndpoints(t *testing.T) {
	logger := zerolog.Nop()

	extra := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	h := NewServer(0, &logger).Mount("/extra", extra).Handler()

	require.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	require.Equal(t, http.StatusOK, get(t, h, "/readyz").Code)
	require.Equal(t, http.StatusTeapot, get(t, h, "/extra").Code)

	NotesRendered.WithLabelValues(NoteStatusComplete).Inc()

	metrics := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	require.Contains(t, metrics.Body.String(), "parsed_note_notes_rendered_total")
}

func TestServerReadiness(t *testing.T) {
	logger := zerolog.Nop()

	h := NewServer(0, &logger).
		WithReadiness(func(context.Context) error { return errors.New("warming up") }).
		Handler()

	rec := get(t, h, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Contains(t, rec.Body.String(), "warming up")
}
