package termview

import (
	"fmt"
	"strings"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	"github.com/lueurxax/parsed-note/internal/render"
)

// hyperlink is a styled label to be turned into an OSC 8 link after wrapping.
type hyperlink struct {
	label  string
	target string
}

// painter implements render.Renderer for terminals.
type painter struct {
	buf    strings.Builder
	styles Styles
	width  int
	mode   render.MentionMode
	links  []hyperlink
	nested func(domain.Note) (string, []hyperlink)
}

var _ render.Renderer = (*painter)(nil)

func (p *painter) link(label, target string) {
	p.buf.WriteString(label)

	if target != "" {
		p.links = append(p.links, hyperlink{label: label, target: target})
	}
}

// block writes a multi-line block on lines of its own.
func (p *painter) block(s string) {
	if p.buf.Len() > 0 && !strings.HasSuffix(p.buf.String(), "\n") {
		p.buf.WriteByte('\n')
	}

	p.buf.WriteString(s)
	p.buf.WriteByte('\n')
}

func (p *painter) Linebreak() {
	p.buf.WriteByte('\n')
}

func (p *painter) Whitespace() {
	p.buf.WriteByte(' ')
}

func (p *painter) Text(text string) {
	p.buf.WriteString(text)
}

func (p *painter) Image(v render.ImageView) {
	p.link(p.styles.Media.Render("[image "+v.URL+"]"), v.Src)
}

func (p *painter) Gallery(v render.GalleryView) {
	p.buf.WriteString(p.styles.Media.Render(fmt.Sprintf("[gallery %d images]", len(v.Images))))

	for _, img := range v.Images {
		p.buf.WriteByte('\n')
		p.link(p.styles.Media.Render(fmt.Sprintf("[%d/%d %s]", img.Cell, len(v.Images), img.URL)), img.Src)
	}
}

func (p *painter) Video(v render.VideoView) {
	label := "[video " + v.URL
	if v.Width > 0 && v.Height > 0 {
		label += fmt.Sprintf(" %dx%d", v.Width, v.Height)
	}

	p.link(p.styles.Media.Render(label+"]"), v.URL)
}

func (p *painter) Embed(v render.EmbedView) {
	p.link(p.styles.Media.Render("["+string(v.Platform)+" "+v.URL+"]"), v.URL)
}

func (p *painter) Link(v render.LinkView) {
	if v.Preview == nil {
		p.link(p.styles.Link.Render(v.URL), v.Href)
		return
	}

	lines := make([]string, 0, 4)

	if v.Preview.Title != "" {
		lines = append(lines, p.styles.Title.Render(v.Preview.Title))
	}

	if v.Preview.Description != "" {
		lines = append(lines, v.Preview.Description)
	}

	source := v.URL
	if v.Preview.SiteName != "" {
		source = v.Preview.SiteName + " · " + v.URL
	}

	lines = append(lines, p.styles.Muted.Render(source))

	card := p.styles.Card
	if p.width > 0 {
		card = card.Width(p.width - card.GetHorizontalBorderSize())
	}

	p.block(card.Render(strings.Join(lines, "\n")))
}

func (p *painter) NoteMention(v render.NoteMentionView) {
	p.buf.WriteString(v.Prefix)
	defer p.buf.WriteString(v.Suffix)

	switch {
	case v.Malformed:
		p.buf.WriteString(p.styles.Error.Render(v.URI()))
	case p.mode == render.MentionsText:
		p.buf.WriteString(v.URI())
	case p.mode == render.MentionsLinks:
		p.link(p.styles.Mention.Render("@"+v.URI()), v.URI())
	case v.Note != nil && p.nested != nil:
		body, links := p.nested(*v.Note)
		p.block(p.styles.Quote.Render(body))
		p.links = append(p.links, links...)
	default:
		p.link(p.styles.Link.Render(v.URI()), v.URI())
	}
}

func (p *painter) UserMention(v render.UserMentionView) {
	p.buf.WriteString(v.Prefix)
	defer p.buf.WriteString(v.Suffix)

	switch {
	case v.Malformed:
		p.buf.WriteString(p.styles.Error.Render(v.URI()))
	case p.mode == render.MentionsText:
		p.buf.WriteString("@" + v.Label)
	default:
		p.link(p.styles.Mention.Render("@"+v.Label), "nostr:"+v.Npub)
	}
}

func (p *painter) Hashtag(v render.HashtagView) {
	if v.Inert {
		p.buf.WriteString("#" + v.Term + v.Suffix)
		return
	}

	p.buf.WriteString(p.styles.Hashtag.Render("#" + v.Term))
	p.buf.WriteString(v.Suffix)
}

func (p *painter) Emoji(v render.EmojiView) {
	p.buf.WriteString(p.styles.Muted.Render(":" + v.Name + ":"))
	p.buf.WriteString(v.Suffix)
}

func (p *painter) SeeMore(render.SeeMoreView) {
	p.buf.WriteString(p.styles.Muted.Render("... " + seeMoreLabel))
}
