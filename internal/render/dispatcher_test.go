package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	"github.com/lueurxax/parsed-note/internal/core/links/linkextract"
	"github.com/lueurxax/parsed-note/internal/core/mentions"
	"github.com/lueurxax/parsed-note/internal/core/parsednote"
)

const (
	testNoteHex   = "d78ba0d5dce22bfff9db0a9e996c9ef27e2c91051de0c4e1da340e0326b4941e"
	testPubKeyHex = "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d"
)

type call struct {
	kind  string
	value any
}

type recorder struct {
	calls []call
}

func (r *recorder) add(kind string, v any) { r.calls = append(r.calls, call{kind, v}) }

func (r *recorder) Linebreak()                    { r.add("linebreak", nil) }
func (r *recorder) Whitespace()                   { r.add("whitespace", nil) }
func (r *recorder) Text(text string)              { r.add("text", text) }
func (r *recorder) Image(v ImageView)             { r.add("image", v) }
func (r *recorder) Gallery(v GalleryView)         { r.add("gallery", v) }
func (r *recorder) Video(v VideoView)             { r.add("video", v) }
func (r *recorder) Embed(v EmbedView)             { r.add("embed", v) }
func (r *recorder) Link(v LinkView)               { r.add("link", v) }
func (r *recorder) NoteMention(v NoteMentionView) { r.add("note", v) }
func (r *recorder) UserMention(v UserMentionView) { r.add("user", v) }
func (r *recorder) Hashtag(v HashtagView)         { r.add("hashtag", v) }
func (r *recorder) Emoji(v EmojiView)             { r.add("emoji", v) }
func (r *recorder) SeeMore(v SeeMoreView)         { r.add("seemore", v) }

func (r *recorder) kinds() []string {
	out := make([]string, len(r.calls))
	for i, c := range r.calls {
		out[i] = c.kind
	}

	return out
}

func (r *recorder) only(kind string) []any {
	var out []any

	for _, c := range r.calls {
		if c.kind == kind {
			out = append(out, c.value)
		}
	}

	return out
}

func newTestDispatcher(ceiling int) *Dispatcher {
	cfg := DefaultConfig()
	cfg.ShortNoteWords = ceiling
	cfg.TwitchParent = "example.org"

	return NewDispatcher(cfg, mentions.NIP19{}, nil)
}

func encodeNote(t *testing.T, hex string) string {
	t.Helper()

	s, err := mentions.NIP19{}.EncodeNote(hex)
	require.NoError(t, err)

	return s
}

func encodePubKey(t *testing.T, hex string) string {
	t.Helper()

	s, err := mentions.NIP19{}.EncodePubKey(hex)
	require.NoError(t, err)

	return s
}

func render(d *Dispatcher, in Input, opts Options) (*recorder, Result) {
	rec := &recorder{}
	res := d.Render(in, opts, rec)

	return rec, res
}

func TestRenderHandlesEveryCategory(t *testing.T) {
	samples := map[parsednote.Category]string{
		parsednote.CategoryLinebreak:   "a\nb",
		parsednote.CategoryWhitespace:  "a b",
		parsednote.CategoryText:        "a",
		parsednote.CategoryImage:       "https://example.com/a.png",
		parsednote.CategoryVideo:       "https://example.com/a.mp4",
		parsednote.CategoryYouTube:     "https://youtu.be/dQw4w9WgXcQ",
		parsednote.CategorySpotify:     "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
		parsednote.CategoryTwitch:      "https://www.twitch.tv/somechannel",
		parsednote.CategoryMixcloud:    "https://www.mixcloud.com/someone/late-night-mix/",
		parsednote.CategorySoundCloud:  "https://soundcloud.com/artist/track-name",
		parsednote.CategoryAppleMusic:  "https://music.apple.com/us/album/some-album/123456",
		parsednote.CategoryWavelake:    "https://wavlake.com/some-artist",
		parsednote.CategoryLink:        "https://example.com/page",
		parsednote.CategoryNoteMention: "nostr:" + encodeNote(t, testNoteHex),
		parsednote.CategoryUserMention: "nostr:" + encodePubKey(t, testPubKeyHex),
		parsednote.CategoryTagMention:  "#[0]",
		parsednote.CategoryHashtag:     "#nostr",
		parsednote.CategoryEmoji:       ":soapbox:",
	}

	require.Len(t, samples, len(parsednote.Categories))

	d := newTestDispatcher(100)

	for _, c := range parsednote.Categories {
		t.Run(c.String(), func(t *testing.T) {
			content, ok := samples[c]
			require.True(t, ok)

			segments := parsednote.Parse(content, parsednote.ParseOptions{})

			var found bool
			for _, seg := range segments {
				found = found || seg.Category == c
			}

			require.True(t, found, "no %s segment in %q", c, content)

			in := Input{Note: domain.Note{Content: content, Tags: [][]string{{"p", testPubKeyHex}}}}

			require.NotPanics(t, func() {
				d.RenderSegments(in, segments, Options{}, &recorder{})
			})
		})
	}
}

func TestRenderTruncatesAtWordBudget(t *testing.T) {
	const ceiling = 5

	words := make([]string, ceiling+5)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i+1)
	}

	in := Input{Note: domain.Note{ID: "n1", Content: strings.Join(words, " ")}}

	rec, res := render(newTestDispatcher(ceiling), in, Options{Shorten: true})

	require.Equal(t, []any{"w1", "w2", "w3", "w4", "w5"}, rec.only("text"))
	require.Len(t, rec.only("seemore"), 1)
	require.Equal(t, "seemore", rec.kinds()[len(rec.calls)-1])
	require.Equal(t, SeeMoreView{NoteID: "n1"}, rec.only("seemore")[0])
	require.True(t, res.Truncated)
	require.Equal(t, ceiling, res.Consumed)
}

func TestRenderWithoutShortenShowsEverything(t *testing.T) {
	in := Input{Note: domain.Note{Content: "a b c d e f"}}

	rec, res := render(newTestDispatcher(2), in, Options{})

	require.Len(t, rec.only("text"), 6)
	require.Empty(t, rec.only("seemore"))
	require.False(t, res.Truncated)
	require.Equal(t, 6, res.Consumed)
}

func TestRenderShortNoteHasNoSeeMore(t *testing.T) {
	in := Input{Note: domain.Note{Content: "just a few words\n"}}

	rec, res := render(newTestDispatcher(4), in, Options{Shorten: true})

	require.Empty(t, rec.only("seemore"))
	require.False(t, res.Truncated)
	require.Equal(t, 4, res.Consumed)
}

func TestRenderImages(t *testing.T) {
	in := Input{
		Note: domain.Note{
			ID:      "n1",
			Content: "https://example.com/a.jpg\n\nhttps://example.com/b.jpg https://example.com/c.jpg\ncaption",
		},
		Media: domain.MediaMap{
			"https://example.com/b.jpg": {URL: "https://example.com/b.jpg", MediaURL: "https://cdn.example.com/b.jpg", Width: 10, Height: 10},
		},
	}

	rec, res := render(newTestDispatcher(1000), in, Options{})

	require.Equal(t, []string{"gallery", "text"}, rec.kinds())

	gallery := rec.calls[0].value.(GalleryView)
	require.Equal(t, "grid-3", gallery.GridClass)
	require.Equal(t, "n1", gallery.NoteID)
	require.Len(t, gallery.Images, 3)

	for i, img := range gallery.Images {
		require.Equal(t, i+1, img.Cell)
		require.Equal(t, gallery.ID, img.GroupID)
	}

	require.Equal(t, "https://cdn.example.com/b.jpg", gallery.Images[1].Src)
	require.NotNil(t, gallery.Images[1].Media)
	require.Equal(t, "https://example.com/a.jpg", gallery.Images[0].Src)
	require.Nil(t, gallery.Images[0].Media)

	require.Equal(t, 3*30+1, res.Consumed)
}

func TestRenderSingleImage(t *testing.T) {
	in := Input{Note: domain.Note{ID: "n1", Content: "look (https://example.com/a.png)."}}

	rec, res := render(newTestDispatcher(1000), in, Options{Shorten: true})

	require.Equal(t, []string{"text", "whitespace", "text", "image", "text"}, rec.kinds())

	img := rec.only("image")[0].(ImageView)
	require.Equal(t, 0, img.Cell)
	require.True(t, img.ShortHeight)
	require.Equal(t, 1+1+100+1, res.Consumed)
}

func TestImageExhaustsBudget(t *testing.T) {
	in := Input{Note: domain.Note{Content: "hi https://example.com/a.png more words here"}}

	rec, res := render(newTestDispatcher(100), in, Options{Shorten: true})

	require.Equal(t, []string{"text", "whitespace", "image", "seemore"}, rec.kinds())
	require.True(t, res.Truncated)
}

func TestVideoSize(t *testing.T) {
	tests := []struct {
		name string
		info domain.MediaInfo
		w, h int
	}{
		{"landscape", domain.MediaInfo{Width: 1920, Height: 1080}, 524, 295},
		{"portrait capped", domain.MediaInfo{Width: 1080, Height: 1920}, 383, 680},
		{"square", domain.MediaInfo{Width: 500, Height: 500}, 524, 524},
		{"unknown", domain.MediaInfo{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := videoSize(tt.info)
			require.Equal(t, tt.w, w)
			require.Equal(t, tt.h, h)
		})
	}
}

func TestRenderVideo(t *testing.T) {
	in := Input{
		Note: domain.Note{Content: "https://example.com/a.mp4 https://example.com/b.webm"},
		Media: domain.MediaMap{
			"https://example.com/a.mp4": {Width: 1920, Height: 1080},
		},
	}

	rec, res := render(newTestDispatcher(1000), in, Options{})

	videos := rec.only("video")
	require.Len(t, videos, 2)
	require.Equal(t, VideoView{URL: "https://example.com/a.mp4", MIMEType: linkextract.MIMEVideoMP4, Width: 524, Height: 295, Class: "w-cen"}, videos[0])
	require.Equal(t, VideoView{URL: "https://example.com/b.webm", MIMEType: linkextract.MIMEVideoWebM, Class: "w-max"}, videos[1])
	require.Equal(t, 50, res.Consumed)
}

func TestRenderEmbeds(t *testing.T) {
	in := Input{Note: domain.Note{Content: "https://youtu.be/dQw4w9WgXcQ https://www.twitch.tv/somechannel"}}

	rec, res := render(newTestDispatcher(1000), in, Options{})

	embeds := rec.only("embed")
	require.Len(t, embeds, 2)
	require.Equal(t, linkextract.PlatformYouTube, embeds[0].(EmbedView).Platform)
	require.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", embeds[0].(EmbedView).Embed.URL)
	require.Contains(t, embeds[1].(EmbedView).Embed.URL, "parent=example.org")
	require.Equal(t, 50, res.Consumed)
}

func TestRenderIgnoreMedia(t *testing.T) {
	in := Input{Note: domain.Note{Content: "https://youtu.be/dQw4w9WgXcQ"}}

	rec, _ := render(newTestDispatcher(1000), in, Options{IgnoreMedia: true})

	require.Equal(t, []string{"link"}, rec.kinds())
}

func TestRenderLinks(t *testing.T) {
	previews := domain.PreviewMap{
		"https://Example.COM/Path?Q=1": {URL: "https://example.com/Path?Q=1", Title: "Title"},
		"https://empty.example.com":    {URL: "https://empty.example.com"},
	}

	in := Input{
		Note:     domain.Note{Content: "https://Example.COM/Path?Q=1 https://empty.example.com"},
		Previews: previews,
	}

	rec, res := render(newTestDispatcher(1000), in, Options{Embedded: true})

	links := rec.only("link")
	require.Len(t, links, 2)

	first := links[0].(LinkView)
	require.Equal(t, "https://example.com/Path?Q=1", first.Href)
	require.NotNil(t, first.Preview)
	require.Equal(t, "Title", first.Preview.Title)
	require.True(t, first.Bordered)

	require.Nil(t, links[1].(LinkView).Preview)
	require.Equal(t, 25+1, res.Consumed)

	rec, res = render(newTestDispatcher(1000), in, Options{NoPreviews: true})
	require.Nil(t, rec.only("link")[0].(LinkView).Preview)
	require.Equal(t, 2, res.Consumed)
}

func TestRenderLinksAsText(t *testing.T) {
	in := Input{Note: domain.Note{Content: "https://example.com #tag"}}

	rec, _ := render(newTestDispatcher(1000), in, Options{Mentions: MentionsText})

	require.Equal(t, []string{"text", "whitespace", "hashtag"}, rec.kinds())
	require.True(t, rec.only("hashtag")[0].(HashtagView).Inert)
}

func TestRenderNoteMentions(t *testing.T) {
	note1 := encodeNote(t, testNoteHex)
	quoted := domain.Note{ID: testNoteHex, Content: "quoted"}

	in := Input{Note: domain.Note{
		Content:        "(nostr:" + note1 + "), nostr:note1broken",
		MentionedNotes: map[string]domain.Note{testNoteHex: quoted},
	}}

	rec, res := render(newTestDispatcher(1000), in, Options{})

	notes := rec.only("note")
	require.Len(t, notes, 2)

	first := notes[0].(NoteMentionView)
	require.Equal(t, "(", first.Prefix)
	require.Equal(t, "),", first.Suffix)
	require.Equal(t, testNoteHex, first.NoteID)
	require.Equal(t, "/e/"+note1, first.Href)
	require.NotNil(t, first.Note)
	require.Equal(t, "quoted", first.Note.Content)
	require.False(t, first.Malformed)

	require.True(t, notes[1].(NoteMentionView).Malformed)
	require.Equal(t, 25+1, res.Consumed)

	rec, res = render(newTestDispatcher(1000), in, Options{Mentions: MentionsLinks})
	require.Nil(t, rec.only("note")[0].(NoteMentionView).Note)
	require.Equal(t, 2, res.Consumed)
}

func TestRenderUserMentions(t *testing.T) {
	npub := encodePubKey(t, testPubKeyHex)

	in := Input{Note: domain.Note{Content: "hi nostr:" + npub + "!"}}

	rec, _ := render(newTestDispatcher(1000), in, Options{})

	user := rec.only("user")[0].(UserMentionView)
	require.Equal(t, "!", user.Suffix)
	require.Equal(t, testPubKeyHex, user.PubKey)
	require.Equal(t, "/p/"+npub, user.Href)
	require.Equal(t, domain.TruncateNpub(npub), user.Label)
	require.Nil(t, user.User)

	in.Note.MentionedUsers = map[string]domain.User{testPubKeyHex: {PubKey: testPubKeyHex, Name: "fiatjaf"}}

	rec, _ = render(newTestDispatcher(1000), in, Options{})

	user = rec.only("user")[0].(UserMentionView)
	require.Equal(t, "fiatjaf", user.Label)
	require.Equal(t, npub, user.User.Npub)
}

func TestRenderTagMentions(t *testing.T) {
	in := Input{Note: domain.Note{
		Content: "#[0] #[1], #[2] #[9]",
		Tags: [][]string{
			{"e", testNoteHex},
			{"p", testPubKeyHex},
			{"t", "topic"},
		},
		MentionedNotes: map[string]domain.Note{testNoteHex: {ID: testNoteHex}},
		MentionedUsers: map[string]domain.User{testPubKeyHex: {DisplayName: "Fiat"}},
	}}

	rec, res := render(newTestDispatcher(1000), in, Options{})

	require.Equal(t, []string{"note", "whitespace", "user", "whitespace", "whitespace"}, rec.kinds())

	note := rec.only("note")[0].(NoteMentionView)
	require.NotNil(t, note.Note)
	require.Equal(t, encodeNote(t, testNoteHex), note.Entity)

	user := rec.only("user")[0].(UserMentionView)
	require.Equal(t, "Fiat", user.Label)
	require.Equal(t, ",", user.Suffix)

	require.Equal(t, 25+1+1+1, res.Consumed)
}

func TestRenderEmoji(t *testing.T) {
	in := Input{Note: domain.Note{
		Content: ":soapbox: :unknown:",
		Tags:    [][]string{{"emoji", "soapbox", "https://example.com/soapbox.png"}},
	}}

	rec, res := render(newTestDispatcher(1000), in, Options{})

	require.Equal(t, []string{"emoji", "whitespace", "text"}, rec.kinds())
	require.Equal(t, EmojiView{Name: "soapbox", URL: "https://example.com/soapbox.png"}, rec.calls[0].value)
	require.Equal(t, ":unknown:", rec.calls[2].value)
	require.Equal(t, 2, res.Consumed)
}

func TestRenderHashtag(t *testing.T) {
	in := Input{Note: domain.Note{Content: "#nostr's"}}

	rec, _ := render(newTestDispatcher(1000), in, Options{})

	require.Equal(t, HashtagView{Term: "nostr", Suffix: "'s", Href: "/search/%23nostr"}, rec.calls[0].value)
}

func TestRenderLinebreaks(t *testing.T) {
	in := Input{Note: domain.Note{Content: "a\n\nb"}}

	rec, _ := render(newTestDispatcher(1000), in, Options{})
	require.Equal(t, []string{"text", "linebreak", "linebreak", "text"}, rec.kinds())

	rec, _ = render(newTestDispatcher(1000), in, Options{IgnoreLinebreaks: true})
	require.Equal(t, []string{"text", "whitespace", "text"}, rec.kinds())
}

func TestLinkHref(t *testing.T) {
	require.Equal(t, "https://example.com/A/B?C=D#E", linkHref("https://EXAMPLE.com/A/B?C=D#E"))
	require.Equal(t, "https://example.com", linkHref("HTTPS://Example.Com"))
	require.Equal(t, "not a url", linkHref("not a url"))
}

func TestParseMentionMode(t *testing.T) {
	for _, name := range []string{"full", "links", "text"} {
		mode, err := ParseMentionMode(name)
		require.NoError(t, err)
		require.Equal(t, name, mode.String())
	}

	mode, err := ParseMentionMode("")
	require.NoError(t, err)
	require.Equal(t, MentionsFull, mode)

	_, err = ParseMentionMode("loud")
	require.Error(t, err)
}
