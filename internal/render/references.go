package render

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	coreerrors "github.com/lueurxax/parsed-note/internal/core/errors"
	"github.com/lueurxax/parsed-note/internal/core/mentions"
	"github.com/lueurxax/parsed-note/internal/core/parsednote"
	"github.com/lueurxax/parsed-note/internal/platform/observability"
)

// Tag list markers.
const (
	tagEvent   = "e"
	tagProfile = "p"
)

// Paths inside the client.
const (
	notePathPrefix    = "/e/"
	profilePathPrefix = "/p/"
	searchPathPrefix  = "/search/%23"
)

func (p *pass) noteMention(u parsednote.Unit) int {
	ref, ok := mentions.FindNoteReference(u.Text)
	if !ok {
		p.r.Text(u.Text)
		return 1
	}

	view := NoteMentionView{
		Prefix: ref.Prefix,
		Suffix: ref.Suffix,
		Entity: ref.Entity,
		Mode:   p.opts.Mentions,
	}

	hex, err := p.d.decoder.NoteID(ref.Entity)
	if err == nil {
		err = p.resolveNote(&view, hex)
	}

	if err != nil {
		p.malformed(observability.ReferenceKindNote, u.Text, err)

		view.Malformed = true
		p.r.NoteMention(view)

		return 1
	}

	p.r.NoteMention(view)

	return p.d.cfg.Weights.UnitCost(parsednote.CategoryNoteMention, 0, view.Note != nil)
}

// resolveNote fills the link and, in full mode, the embedded note.
func (p *pass) resolveNote(view *NoteMentionView, hex string) error {
	note1, err := p.d.decoder.EncodeNote(hex)
	if err != nil {
		return err
	}

	view.NoteID = hex
	view.Href = notePathPrefix + note1

	if p.opts.Mentions != MentionsFull {
		return nil
	}

	if note, ok := p.in.Note.MentionedNotes[hex]; ok {
		view.Note = &note
	}

	return nil
}

func (p *pass) userMention(u parsednote.Unit) int {
	ref, ok := mentions.FindUserReference(u.Text)
	if !ok {
		p.r.Text(u.Text)
		return 1
	}

	view := UserMentionView{
		Prefix: ref.Prefix,
		Suffix: ref.Suffix,
		Entity: ref.Entity,
		Mode:   p.opts.Mentions,
	}

	hex, err := p.d.decoder.PubKey(ref.Entity)
	if err == nil {
		err = p.resolveUser(&view, hex)
	}

	if err != nil {
		p.malformed(observability.ReferenceKindUser, u.Text, err)

		view.Malformed = true
	}

	p.r.UserMention(view)

	return p.d.cfg.Weights.UnitCost(parsednote.CategoryUserMention, 0, false)
}

// resolveUser fills the profile link and label.
func (p *pass) resolveUser(view *UserMentionView, hex string) error {
	npub, err := p.d.decoder.EncodePubKey(hex)
	if err != nil {
		return err
	}

	view.PubKey = hex
	view.Npub = npub
	view.Href = profilePathPrefix + npub
	view.Label = domain.TruncateNpub(npub)

	if user, ok := p.in.Note.MentionedUsers[hex]; ok {
		if user.Npub == "" {
			user.Npub = npub
		}

		view.User = &user
		view.Label = user.Label()
	}

	return nil
}

// tagMention resolves a positional reference through the tag list. Missing tags
// and tags other than e and p render nothing.
func (p *pass) tagMention(u parsednote.Unit) int {
	const cost = 1

	ref, ok := mentions.FindTagRef(u.Text)
	if !ok {
		p.r.Text(u.Text)
		return cost
	}

	tag := p.in.Note.Tag(ref.Index)
	if len(tag) < 2 || tag[1] == "" {
		p.d.logger.Debug().
			Err(coreerrors.ErrTagNotFound).
			Str(logFieldNoteID, p.in.Note.ID).
			Int("index", ref.Index).
			Msg("Tag reference without a usable tag")
		observability.MalformedReferences.WithLabelValues(observability.ReferenceKindTag).Inc()

		return cost
	}

	switch tag[0] {
	case tagEvent:
		view := NoteMentionView{Prefix: ref.Prefix, Suffix: ref.Suffix, Mode: p.opts.Mentions}
		if err := p.resolveNote(&view, tag[1]); err != nil {
			p.malformed(observability.ReferenceKindTag, u.Text, err)
			return cost
		}

		view.Entity = strings.TrimPrefix(view.Href, notePathPrefix)
		p.r.NoteMention(view)

		return p.d.cfg.Weights.UnitCost(parsednote.CategoryTagMention, 0, view.Note != nil)
	case tagProfile:
		view := UserMentionView{Prefix: ref.Prefix, Suffix: ref.Suffix, Mode: p.opts.Mentions}
		if err := p.resolveUser(&view, tag[1]); err != nil {
			p.malformed(observability.ReferenceKindTag, u.Text, err)
			return cost
		}

		view.Entity = view.Npub
		p.r.UserMention(view)
	}

	return cost
}

func (p *pass) hashtag(u parsednote.Unit) int {
	h, ok := mentions.FindHashtag(u.Text)
	if !ok {
		p.r.Text(u.Text)
		return 1
	}

	p.r.Hashtag(HashtagView{
		Term:   h.Term,
		Suffix: h.Suffix,
		Href:   searchPathPrefix + url.PathEscape(h.Term),
		Inert:  p.opts.Mentions == MentionsText,
	})

	return p.d.cfg.Weights.UnitCost(parsednote.CategoryHashtag, 0, false)
}

// emoji shows the image declared by an emoji tag, or the shortcode as text.
func (p *pass) emoji(u parsednote.Unit) int {
	cost := p.d.cfg.Weights.UnitCost(parsednote.CategoryEmoji, 0, false)

	e, ok := mentions.FindEmoji(u.Text)
	if !ok {
		p.r.Text(u.Text)
		return cost
	}

	src, ok := p.in.Note.EmojiURL(e.Name)
	if !ok {
		p.r.Text(u.Text)
		return cost
	}

	p.r.Emoji(EmojiView{Name: e.Name, URL: src, Suffix: e.Suffix})

	return cost
}

func (p *pass) malformed(kind, token string, err error) {
	p.d.logger.Debug().
		Err(err).
		Str(logFieldNoteID, p.in.Note.ID).
		Str(logFieldToken, token).
		Msg("Reference could not be resolved")
	observability.MalformedReferences.WithLabelValues(kind).Inc()
}

// linkHref lower-cases the scheme and host of a URL and keeps the rest as written.
func linkHref(raw string) string {
	i := strings.Index(raw, "://")
	if i < 0 {
		return raw
	}

	rest := raw[i+len("://"):]

	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}

	head := raw[:i+len("://")+end]

	return cases.Lower(language.Und).String(head) + rest[end:]
}
