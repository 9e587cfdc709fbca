package render

import (
	"github.com/lueurxax/parsed-note/internal/core/domain"
	"github.com/lueurxax/parsed-note/internal/core/links/linkextract"
)

// Renderer paints resolved segments. The dispatcher calls it in body order.
type Renderer interface {
	Linebreak()
	Whitespace()
	Text(text string)
	Image(v ImageView)
	Gallery(v GalleryView)
	Video(v VideoView)
	Embed(v EmbedView)
	Link(v LinkView)
	NoteMention(v NoteMentionView)
	UserMention(v UserMentionView)
	Hashtag(v HashtagView)
	Emoji(v EmojiView)
	SeeMore(v SeeMoreView)
}

// ImageView is one image. Src is the media service location when known.
type ImageView struct {
	URL     string
	Src     string
	Media   *domain.MediaInfo
	GroupID string
	// Cell is the 1-based position inside a gallery, 0 for a lone image.
	Cell   int
	NoteID string
	// ShortHeight asks for a height-limited image in shortened views.
	ShortHeight bool
}

// GalleryView is a grid of two or more images.
type GalleryView struct {
	ID        string
	GridClass string
	Images    []ImageView
	NoteID    string
}

// VideoView is an inline video player. Width and Height are zero when the media
// service has no dimensions.
type VideoView struct {
	URL      string
	MIMEType string
	Width    int
	Height   int
	Class    string
}

// EmbedView is a third-party player.
type EmbedView struct {
	Platform linkextract.Platform
	URL      string
	Embed    linkextract.Embed
}

// LinkView is a hyperlink, with a preview card when one is usable.
type LinkView struct {
	URL      string
	Href     string
	Preview  *domain.LinkPreview
	Bordered bool
}

// NoteMentionView is a reference to another note.
type NoteMentionView struct {
	Prefix string
	Suffix string
	// Entity is the bech32 form as written, or the note1 form for tag references.
	Entity string
	NoteID string
	Href   string
	Mode   MentionMode
	// Note is set when the referenced note is embedded.
	Note      *domain.Note
	Malformed bool
}

// URI returns the reference in nostr: form.
func (v NoteMentionView) URI() string {
	return "nostr:" + v.Entity
}

// UserMentionView is a reference to a user.
type UserMentionView struct {
	Prefix    string
	Suffix    string
	Entity    string
	PubKey    string
	Npub      string
	Href      string
	Label     string
	Mode      MentionMode
	User      *domain.User
	Malformed bool
}

// URI returns the reference in nostr: form.
func (v UserMentionView) URI() string {
	return "nostr:" + v.Entity
}

// HashtagView is a hashtag; Inert hashtags are shown without a link.
type HashtagView struct {
	Term   string
	Suffix string
	Href   string
	Inert  bool
}

// EmojiView is a custom emoji image.
type EmojiView struct {
	Name   string
	URL    string
	Suffix string
}

// SeeMoreView is the affordance shown after truncated content.
type SeeMoreView struct {
	NoteID string
}
