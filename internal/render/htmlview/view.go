// Package htmlview paints rendered notes as HTML fragments using embedded
// templates.
package htmlview

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	"github.com/lueurxax/parsed-note/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// DefaultMaxDepth is how many levels of embedded notes are expanded.
const DefaultMaxDepth = 2

const seeMoreLabel = "see more"

var templateFuncs = template.FuncMap{
	"first": func(s []string) string {
		if len(s) == 0 {
			return ""
		}

		return s[0]
	},
}

// View renders notes to HTML.
type View struct {
	dispatcher *render.Dispatcher
	segments   *template.Template
	page       *template.Template
	maxDepth   int
}

// Output is a rendered fragment with the pass summary.
type Output struct {
	HTML   template.HTML
	Result render.Result
}

// PageData is the data of the standalone page.
type PageData struct {
	Title    string
	Fragment template.HTML
}

// New parses the templates.
func New(dispatcher *render.Dispatcher) (*View, error) {
	segments, err := template.New("segments.html").
		Funcs(templateFuncs).
		ParseFS(templateFS, "templates/segments.html")
	if err != nil {
		return nil, fmt.Errorf("parse segments template: %w", err)
	}

	page, err := template.New("page.html").
		ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	return &View{
		dispatcher: dispatcher,
		segments:   segments,
		page:       page,
		maxDepth:   DefaultMaxDepth,
	}, nil
}

// WithMaxDepth returns a copy of the view expanding embedded notes up to depth levels.
func (v *View) WithMaxDepth(depth int) *View {
	cp := *v
	cp.maxDepth = depth

	return &cp
}

// Fragment renders the note body and runs the gallery regroup pass over it.
func (v *View) Fragment(in render.Input, opts render.Options) (Output, error) {
	out, err := v.fragment(in, opts, 0)
	if err != nil {
		return Output{}, err
	}

	regrouped, err := RegroupGalleries(string(out.HTML))
	if err != nil {
		return Output{}, err
	}

	//nolint:gosec // regrouped markup is our own escaped output re-serialised
	out.HTML = template.HTML(regrouped)

	return out, nil
}

// Page writes a standalone HTML document holding the fragment.
func (v *View) Page(w io.Writer, title string, fragment template.HTML) error {
	if err := v.page.Execute(w, PageData{Title: title, Fragment: fragment}); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}

	return nil
}

func (v *View) fragment(in render.Input, opts render.Options, depth int) (Output, error) {
	pw := &painter{tmpl: v.segments, plain: opts.Mentions == render.MentionsText, linkish: opts.Mentions == render.MentionsLinks}
	pw.nested = func(note domain.Note) (template.HTML, error) {
		return v.nested(in, note, opts, depth+1)
	}

	res := v.dispatcher.Render(in, opts, pw)
	if pw.err != nil {
		return Output{}, pw.err
	}

	var body bytes.Buffer

	data := struct {
		ID   string
		Body template.HTML
	}{
		ID: in.Note.ID,
		//nolint:gosec // painter output is built from escaped templates
		Body: template.HTML(pw.buf.String()),
	}

	if err := v.segments.ExecuteTemplate(&body, "body", data); err != nil {
		return Output{}, fmt.Errorf("execute body template: %w", err)
	}

	//nolint:gosec // see above
	return Output{HTML: template.HTML(body.String()), Result: res}, nil
}

// nested renders a quoted note: always shortened and bordered, and from the last
// level on its own references are no longer embedded.
func (v *View) nested(parent render.Input, note domain.Note, opts render.Options, depth int) (template.HTML, error) {
	if note.MentionedUsers == nil {
		note.MentionedUsers = parent.Note.MentionedUsers
	}

	opts.Embedded = true
	opts.Shorten = true

	if depth >= v.maxDepth && opts.Mentions == render.MentionsFull {
		opts.Mentions = render.MentionsLinks
	}

	out, err := v.fragment(render.Input{Note: note, Media: parent.Media, Previews: parent.Previews}, opts, depth)
	if err != nil {
		return "", fmt.Errorf("render embedded note %s: %w", note.ID, err)
	}

	return out.HTML, nil
}
