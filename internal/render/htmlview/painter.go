package htmlview

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	"github.com/lueurxax/parsed-note/internal/render"
)

// painter implements render.Renderer on top of the segment templates. The first
// template error stops all further output.
type painter struct {
	tmpl    *template.Template
	buf     bytes.Buffer
	err     error
	plain   bool
	linkish bool
	nested  func(domain.Note) (template.HTML, error)
}

var _ render.Renderer = (*painter)(nil)

type mentionData[V any] struct {
	View     V
	Plain    bool
	Linkish  bool
	Embedded template.HTML
}

func (p *painter) exec(name string, data any) {
	if p.err != nil {
		return
	}

	if err := p.tmpl.ExecuteTemplate(&p.buf, name, data); err != nil {
		p.err = fmt.Errorf("execute %s template: %w", name, err)
	}
}

func (p *painter) Linebreak() {
	p.buf.WriteString("<br>")
}

func (p *painter) Whitespace() {
	p.buf.WriteByte(' ')
}

func (p *painter) Text(text string) {
	p.buf.WriteString(template.HTMLEscapeString(text))
}

func (p *painter) Image(v render.ImageView) {
	p.exec("image", v)
}

func (p *painter) Gallery(v render.GalleryView) {
	p.exec("gallery", v)
}

func (p *painter) Video(v render.VideoView) {
	p.exec("video", v)
}

func (p *painter) Embed(v render.EmbedView) {
	p.exec("embed", v)
}

func (p *painter) Link(v render.LinkView) {
	p.exec("link", v)
}

func (p *painter) NoteMention(v render.NoteMentionView) {
	data := mentionData[render.NoteMentionView]{View: v, Plain: p.plain, Linkish: p.linkish}

	if v.Note != nil && p.nested != nil && p.err == nil {
		embedded, err := p.nested(*v.Note)
		if err != nil {
			p.err = err
			return
		}

		data.Embedded = embedded
	}

	p.exec("note", data)
}

func (p *painter) UserMention(v render.UserMentionView) {
	p.exec("user", mentionData[render.UserMentionView]{View: v, Plain: p.plain, Linkish: p.linkish})
}

func (p *painter) Hashtag(v render.HashtagView) {
	p.exec("hashtag", v)
}

func (p *painter) Emoji(v render.EmojiView) {
	p.exec("emoji", v)
}

func (p *painter) SeeMore(render.SeeMoreView) {
	p.exec("seemore", seeMoreLabel)
}
