package server

import (
	"fmt"
	"strings"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	coreerrors "github.com/lueurxax/parsed-note/internal/core/errors"
	"github.com/lueurxax/parsed-note/internal/core/links/linkextract"
	"github.com/lueurxax/parsed-note/internal/core/links/preview"
	"github.com/lueurxax/parsed-note/internal/render"
)

// Output formats.
const (
	FormatHTML     = "html"
	FormatTerminal = "terminal"
)

// Request is one note to render together with everything resolved for it.
// Documents maps link URLs to pre-fetched HTML or feed bodies; previews built
// from them never replace the ones given in Previews. Documents for URLs that
// the note and its embedded notes do not link to are ignored.
type Request struct {
	Note      domain.Note       `json:"note"`
	Options   render.Options    `json:"options"`
	Media     domain.MediaMap   `json:"media,omitempty"`
	Previews  domain.PreviewMap `json:"previews,omitempty"`
	Documents map[string]string `json:"documents,omitempty"`
	Format    string            `json:"format,omitempty"`
	Page      bool              `json:"page,omitempty"`
	Title     string            `json:"title,omitempty"`
	Width     *int              `json:"width,omitempty"`
}

// Normalize fills defaults and rejects unknown formats.
func (r *Request) Normalize() error {
	switch r.Format {
	case "":
		r.Format = FormatHTML
	case FormatHTML, FormatTerminal:
	default:
		return fmt.Errorf("%w: format %q", coreerrors.ErrInvalidInput, r.Format)
	}

	if r.Page && r.Format != FormatHTML {
		return fmt.Errorf("%w: page output needs the html format", coreerrors.ErrInvalidInput)
	}

	if r.Width != nil && *r.Width < 0 {
		return fmt.Errorf("%w: negative width", coreerrors.ErrInvalidInput)
	}

	return nil
}

// Input assembles the render input. The error reports documents that produced
// no preview; the input is usable regardless.
func (r *Request) Input() (render.Input, error) {
	previews := make(domain.PreviewMap, len(r.Previews)+len(r.Documents))

	var err error

	if docs := r.linkedDocuments(); len(docs) > 0 {
		previews, err = preview.Collect(docs)
	}

	for u, p := range r.Previews {
		previews[u] = p
	}

	return render.Input{Note: r.Note, Media: r.Media, Previews: previews}, err
}

func (r *Request) linkedDocuments() map[string]string {
	if len(r.Documents) == 0 {
		return nil
	}

	linked := make(map[string]bool)
	collectWebLinks(r.Note, linked)

	docs := make(map[string]string, len(r.Documents))

	for u, doc := range r.Documents {
		if linked[strings.TrimSpace(u)] {
			docs[u] = doc
		}
	}

	return docs
}

func collectWebLinks(n domain.Note, linked map[string]bool) {
	for _, l := range linkextract.ExtractLinks(n.Content) {
		if l.Kind == linkextract.LinkKindWeb {
			linked[l.URL] = true
		}
	}

	for _, embedded := range n.MentionedNotes {
		collectWebLinks(embedded, linked)
	}
}
