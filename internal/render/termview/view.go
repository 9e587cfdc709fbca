// Package termview paints rendered notes for terminals: styled with lipgloss,
// word wrapped and optionally carrying OSC 8 hyperlinks.
package termview

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	"github.com/lueurxax/parsed-note/internal/render"
)

const (
	osc8Start = "\x1b]8;;"
	osc8Sep   = "\x1b\\"
	osc8End   = "\x1b]8;;\x1b\\"
)

const (
	// DefaultMaxDepth is how many levels of embedded notes are expanded.
	DefaultMaxDepth = 2
	// DefaultWidth is the wrap width used when none is configured.
	DefaultWidth = 80

	seeMoreLabel = "see more"
	quoteIndent  = 2
	minWidth     = 10
)

// View renders notes as terminal text.
type View struct {
	dispatcher *render.Dispatcher
	styles     Styles
	width      int
	hyperlinks bool
	maxDepth   int
}

// Output is the rendered text with the pass summary.
type Output struct {
	Text   string
	Result render.Result
}

// New creates a view wrapping at width columns; zero or less disables wrapping.
func New(dispatcher *render.Dispatcher, r *lipgloss.Renderer, width int, hyperlinks bool) *View {
	return &View{
		dispatcher: dispatcher,
		styles:     NewStyles(r),
		width:      width,
		hyperlinks: hyperlinks,
		maxDepth:   DefaultMaxDepth,
	}
}

// WithMaxDepth returns a copy of the view expanding embedded notes up to depth levels.
func (v *View) WithMaxDepth(depth int) *View {
	cp := *v
	cp.maxDepth = depth

	return &cp
}

// WithWidth returns a copy of the view wrapping at width columns.
func (v *View) WithWidth(width int) *View {
	cp := *v
	cp.width = width

	return &cp
}

// Render paints the note body.
func (v *View) Render(in render.Input, opts render.Options) Output {
	text, links, res := v.render(in, opts, v.width, 0)

	if v.hyperlinks {
		text = linkify(text, links)
	}

	return Output{Text: text, Result: res}
}

func (v *View) render(in render.Input, opts render.Options, width, depth int) (string, []hyperlink, render.Result) {
	p := &painter{styles: v.styles, width: width, mode: opts.Mentions}
	p.nested = func(note domain.Note) (string, []hyperlink) {
		return v.nested(in, note, opts, width, depth+1)
	}

	res := v.dispatcher.Render(in, opts, p)

	text := strings.TrimRight(p.buf.String(), "\n")
	if width > 0 {
		text = wordwrap.String(text, width)
	}

	return text, p.links, res
}

func (v *View) nested(parent render.Input, note domain.Note, opts render.Options, width, depth int) (string, []hyperlink) {
	if note.MentionedUsers == nil {
		note.MentionedUsers = parent.Note.MentionedUsers
	}

	opts.Embedded = true
	opts.Shorten = true

	if depth >= v.maxDepth && opts.Mentions == render.MentionsFull {
		opts.Mentions = render.MentionsLinks
	}

	if width > 0 {
		width = max(width-quoteIndent, minWidth)
	}

	text, links, _ := v.render(render.Input{Note: note, Media: parent.Media, Previews: parent.Previews}, opts, width, depth)

	return text, links
}

// linkify wraps each recorded label, in order, in an OSC 8 hyperlink. Labels no
// longer found intact after wrapping are left as they are.
func linkify(text string, links []hyperlink) string {
	var (
		sb     strings.Builder
		cursor int
	)

	for _, l := range links {
		i := strings.Index(text[cursor:], l.label)
		if i < 0 {
			continue
		}

		i += cursor

		sb.WriteString(text[cursor:i])
		sb.WriteString(osc8Start + l.target + osc8Sep + l.label + osc8End)

		cursor = i + len(l.label)
	}

	sb.WriteString(text[cursor:])

	return sb.String()
}

// DetectHyperlinks reports whether the current terminal likely supports OSC 8
// hyperlinks. OSC8=0 forces them off.
func DetectHyperlinks() bool {
	if os.Getenv("OSC8") == "0" {
		return false
	}

	if os.Getenv("DOMTERM") != "" || os.Getenv("WT_SESSION") != "" {
		return true
	}

	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode":
		return true
	}

	if strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty") {
		return true
	}

	if vte, err := strconv.Atoi(os.Getenv("VTE_VERSION")); err == nil && vte >= 5000 {
		return true
	}

	return false
}
