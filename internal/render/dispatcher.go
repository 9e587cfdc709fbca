// Package render walks parsed segments, resolves them against the collaborators a
// post comes with (media metadata, link previews, mentioned notes and users) and
// hands the resolved views to a Renderer while keeping the word budget.
package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	"github.com/lueurxax/parsed-note/internal/core/links/linkextract"
	"github.com/lueurxax/parsed-note/internal/core/mentions"
	"github.com/lueurxax/parsed-note/internal/core/parsednote"
	"github.com/lueurxax/parsed-note/internal/platform/observability"
)

// Video box limits in CSS pixels.
const (
	videoBaseWidth = 524
	videoMaxHeight = 680
)

// Video classes.
const (
	videoClassKnown   = "w-cen"
	videoClassUnknown = "w-max"
)

const (
	logFieldNoteID = "note_id"
	logFieldToken  = "token"
)

// Config holds the dispatcher tunables.
type Config struct {
	Weights        parsednote.Weights
	ShortNoteWords int
	// TwitchParent is the host Twitch embeds declare as their parent page.
	TwitchParent string
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		Weights:        parsednote.DefaultWeights(),
		ShortNoteWords: parsednote.DefaultShortNoteWords,
		TwitchParent:   "localhost",
	}
}

// Input is a note plus the lookups resolved for it ahead of rendering. Nil lookups
// behave as empty ones.
type Input struct {
	Note     domain.Note
	Media    domain.MediaLookup
	Previews domain.PreviewLookup
}

// Result summarises a render pass.
type Result struct {
	Consumed  int
	Truncated bool
	Rendered  int
	Skipped   int
}

// Dispatcher resolves segments and drives a Renderer. It holds no per-pass state
// and may serve concurrent passes.
type Dispatcher struct {
	cfg     Config
	decoder mentions.Decoder
	logger  *zerolog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(cfg Config, decoder mentions.Decoder, logger *zerolog.Logger) *Dispatcher {
	if decoder == nil {
		decoder = mentions.NIP19{}
	}

	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Dispatcher{cfg: cfg, decoder: decoder, logger: logger}
}

// Config returns the dispatcher tunables.
func (d *Dispatcher) Config() Config {
	return d.cfg
}

// Render parses the note body and renders it.
func (d *Dispatcher) Render(in Input, opts Options, r Renderer) Result {
	return d.RenderSegments(in, parsednote.Parse(in.Note.Content, opts.ParseOptions()), opts, r)
}

// RenderSegments renders already parsed segments. The budget is checked before
// every segment, so a segment is either shown whole or skipped.
func (d *Dispatcher) RenderSegments(in Input, segments []parsednote.Segment, opts Options, r Renderer) Result {
	start := time.Now()

	defer func() {
		observability.RenderDuration.Observe(time.Since(start).Seconds())
	}()

	p := &pass{
		d:      d,
		in:     in,
		opts:   opts,
		r:      r,
		budget: parsednote.NewBudget(opts.Shorten, d.cfg.ShortNoteWords),
	}

	var res Result

	for _, seg := range segments {
		if p.budget.IsOverBudget() {
			p.budget.Skip(seg.Category)
			res.Skipped++

			observability.SegmentsSkipped.Inc()

			continue
		}

		p.budget.Charge(p.segment(seg))
		res.Rendered++

		observability.SegmentsRendered.WithLabelValues(seg.Category.String()).Inc()
	}

	res.Consumed = p.budget.Consumed()
	res.Truncated = p.budget.Truncated()

	if opts.Shorten && res.Truncated {
		r.SeeMore(SeeMoreView{NoteID: in.Note.ID})
		observability.NotesRendered.WithLabelValues(observability.NoteStatusTruncated).Inc()
	} else {
		observability.NotesRendered.WithLabelValues(observability.NoteStatusComplete).Inc()
	}

	observability.WordsConsumed.Observe(float64(res.Consumed))

	return res
}

// pass is the state of one render pass.
type pass struct {
	d      *Dispatcher
	in     Input
	opts   Options
	r      Renderer
	budget *parsednote.Budget
}

func (p *pass) segment(seg parsednote.Segment) int {
	switch seg.Category {
	case parsednote.CategoryLinebreak:
		for range seg.Items {
			p.r.Linebreak()
		}

		return 0
	case parsednote.CategoryWhitespace:
		for range seg.Items {
			p.r.Whitespace()
		}

		return 0
	case parsednote.CategoryText:
		return p.text(seg)
	case parsednote.CategoryImage:
		return p.images(seg)
	case parsednote.CategoryVideo:
		return p.each(seg, p.video)
	case parsednote.CategoryYouTube, parsednote.CategorySpotify, parsednote.CategoryTwitch,
		parsednote.CategoryMixcloud, parsednote.CategorySoundCloud, parsednote.CategoryAppleMusic,
		parsednote.CategoryWavelake:
		return p.each(seg, p.embed)
	case parsednote.CategoryLink:
		return p.each(seg, func(u parsednote.Unit) int { return p.link(u.Text) })
	case parsednote.CategoryNoteMention:
		return p.each(seg, p.noteMention)
	case parsednote.CategoryUserMention:
		return p.each(seg, p.userMention)
	case parsednote.CategoryTagMention:
		return p.each(seg, p.tagMention)
	case parsednote.CategoryHashtag:
		return p.each(seg, p.hashtag)
	case parsednote.CategoryEmoji:
		return p.each(seg, p.emoji)
	}

	// Classify only emits the categories above.
	panic(fmt.Sprintf("render: unhandled segment category %q", seg.Category))
}

func (p *pass) each(seg parsednote.Segment, fn func(parsednote.Unit) int) int {
	total := 0
	for _, u := range seg.Items {
		total += fn(u)
	}

	return total
}

func (p *pass) text(seg parsednote.Segment) int {
	cost := 0

	for _, u := range seg.Items {
		p.r.Text(u.Text)

		if strings.TrimSpace(u.Text) != "" {
			cost += p.d.cfg.Weights.UnitCost(parsednote.CategoryText, 0, false)
		}
	}

	return cost
}

func (p *pass) images(seg parsednote.Segment) int {
	group := seg.Gallery
	if group == nil {
		group = parsednote.GroupImages(seg.Tokens())
	}

	n := group.Size()
	views := make([]ImageView, n)

	for i, url := range group.Images {
		views[i] = p.imageView(url, group.ID)
		if n > 1 {
			views[i].Cell = i + 1
		}
	}

	cost := n * p.d.cfg.Weights.UnitCost(parsednote.CategoryImage, n, false)

	if n == 1 {
		p.r.Image(views[0])
		return cost
	}

	p.r.Gallery(GalleryView{
		ID:        group.ID,
		GridClass: group.GridClass,
		Images:    views,
		NoteID:    p.in.Note.ID,
	})

	return cost
}

func (p *pass) imageView(url, groupID string) ImageView {
	view := ImageView{
		URL:         url,
		Src:         url,
		GroupID:     groupID,
		NoteID:      p.in.Note.ID,
		ShortHeight: p.opts.Shorten,
	}

	if info, ok := p.media(url); ok {
		view.Media = &info
		if info.MediaURL != "" {
			view.Src = info.MediaURL
		}
	}

	return view
}

func (p *pass) video(u parsednote.Unit) int {
	view := VideoView{URL: u.Text, MIMEType: u.VideoType, Class: videoClassUnknown}

	if info, ok := p.media(u.Text); ok {
		view.Class = videoClassKnown
		view.Width, view.Height = videoSize(info)
	}

	p.r.Video(view)

	return p.d.cfg.Weights.UnitCost(parsednote.CategoryVideo, 0, false)
}

// videoSize fits the video into the base width, capping the height and shrinking
// the width to keep the aspect ratio when the cap applies.
func videoSize(info domain.MediaInfo) (int, int) {
	if !info.HasDimensions() {
		return 0, 0
	}

	ratio := float64(info.Width) / float64(info.Height)
	height := videoBaseWidth / ratio
	width := float64(videoBaseWidth)

	if height > videoMaxHeight {
		width = videoMaxHeight * ratio
		height = videoMaxHeight
	}

	return int(math.Round(width)), int(math.Round(height))
}

func (p *pass) embed(u parsednote.Unit) int {
	m, ok := linkextract.MatchPlatform(u.Text)
	if !ok {
		return p.link(u.Text)
	}

	p.r.Embed(EmbedView{
		Platform: m.Platform,
		URL:      u.Text,
		Embed:    linkextract.EmbedFor(m, p.d.cfg.TwitchParent),
	})

	return p.d.cfg.Weights.UnitCost(u.Category, 0, false)
}

func (p *pass) link(url string) int {
	view := LinkView{URL: url, Href: linkHref(url), Bordered: p.opts.Embedded}

	if !p.opts.NoPreviews && p.in.Previews != nil {
		if preview, ok := p.in.Previews.Preview(url); ok && preview.HasMinimalData() {
			view.Preview = &preview
		}
	}

	p.r.Link(view)

	return p.d.cfg.Weights.UnitCost(parsednote.CategoryLink, 0, view.Preview != nil)
}

func (p *pass) media(url string) (domain.MediaInfo, bool) {
	if p.in.Media == nil {
		return domain.MediaInfo{}, false
	}

	return p.in.Media.Media(url)
}
