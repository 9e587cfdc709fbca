package app

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	coreerrors "github.com/lueurxax/parsed-note/internal/core/errors"
	"github.com/lueurxax/parsed-note/internal/platform/config"
	"github.com/lueurxax/parsed-note/internal/render"
	"github.com/lueurxax/parsed-note/internal/server"
)

func newApp(t *testing.T, out *bytes.Buffer) *App {
	t.Helper()

	cfg := &config.Config{
		ShortNoteWords:       5,
		MentionWeight:        25,
		ImageWeight:          100,
		GalleryImageWeight:   10,
		TwitchParentHost:     "localhost",
		MaxEmbedDepth:        2,
		RenderRateLimitRPM:   60,
		RenderRateLimitBurst: 5,
		RenderMaxBodyBytes:   1 << 20,
		TerminalWidth:        20,
	}

	logger := zerolog.Nop()

	a, err := New(cfg, out, &logger)
	require.NoError(t, err)

	return a
}

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest([]byte(`{"note":{"content":"hi"},"format":"terminal","options":{"shorten":true}}`))
	require.NoError(t, err)
	require.Equal(t, "hi", req.Note.Content)
	require.Equal(t, server.FormatTerminal, req.Format)
	require.True(t, req.Options.Shorten)

	req, err = ParseRequest([]byte(`{"id":"n1","content":"bare note","tags":[["p","abc"]]}`))
	require.NoError(t, err)
	require.Equal(t, "n1", req.Note.ID)
	require.Equal(t, "bare note", req.Note.Content)
	require.Len(t, req.Note.Tags, 1)

	_, err = ParseRequest([]byte("  "))
	require.ErrorIs(t, err, coreerrors.ErrInvalidInput)

	_, err = ParseRequest([]byte("[1,2]"))
	require.ErrorIs(t, err, coreerrors.ErrInvalidInput)
}

func TestParseRequestNostrEvent(t *testing.T) {
	event := `{
		"id": "4376c65d2f232afbe9b882a35baa4f6fe8667c4e684749af565f981833ed6a65",
		"pubkey": "6e468422dfb74a5738702a8823b9b28168abab8655faacb6853cd0ee15deee93",
		"created_at": 1700000000,
		"kind": 1,
		"tags": [["t", "nostr"]],
		"content": "gm #nostr",
		"sig": "908a15e46fb4d8675bab026fc230a0e3542bfade63da02d542fb78b2a8513fcd0092619a2c8c1221e581946e0191f2af505dfdf8657a414dbca329186f009262"
	}`

	req, err := ParseRequest([]byte(event))
	require.NoError(t, err)
	require.Equal(t, "gm #nostr", req.Note.Content)
	require.Equal(t, int64(1700000000), req.Note.CreatedAt.Time().Unix())
	require.Equal(t, [][]string{{"t", "nostr"}}, req.Note.Tags)

	wrapped, err := ParseRequest([]byte(`{"note":` + event + `,"format":"terminal"}`))
	require.NoError(t, err)
	require.Equal(t, req.Note.CreatedAt, wrapped.Note.CreatedAt)
}

func TestRenderHTML(t *testing.T) {
	var out bytes.Buffer

	a := newApp(t, &out)

	res, err := a.Render(&out, &server.Request{Note: domain.Note{ID: "n1", Content: "one two three four five six"}})
	require.NoError(t, err)
	require.Equal(t, 6, res.Consumed)
	require.Contains(t, out.String(), `id="note_n1"`)
	require.Contains(t, out.String(), "six")
}

func TestRenderShortenedPage(t *testing.T) {
	var out bytes.Buffer

	a := newApp(t, &out)

	req := &server.Request{
		Note:    domain.Note{ID: "n1", Content: "one two three four five six"},
		Options: render.Options{Shorten: true},
		Page:    true,
	}

	res, err := a.Render(&out, req)
	require.NoError(t, err)
	require.True(t, res.Truncated)
	require.Contains(t, out.String(), "<title>Note</title>")
	require.NotContains(t, out.String(), "six")
}

func TestRenderTerminal(t *testing.T) {
	var out bytes.Buffer

	a := newApp(t, &out)

	req := &server.Request{Note: domain.Note{Content: "alpha beta gamma delta epsilon"}, Format: server.FormatTerminal}

	_, err := a.Render(&out, req)
	require.NoError(t, err)
	require.Equal(t, "alpha beta gamma\ndelta epsilon\n", out.String())

	out.Reset()

	width := 0
	req.Width = &width

	_, err = a.Render(&out, req)
	require.NoError(t, err)
	require.Equal(t, "alpha beta gamma delta epsilon\n", out.String())
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	var out bytes.Buffer

	_, err := newApp(t, &out).Render(&out, &server.Request{Format: "pdf"})
	require.ErrorIs(t, err, coreerrors.ErrInvalidInput)
	require.Zero(t, out.Len())
}
