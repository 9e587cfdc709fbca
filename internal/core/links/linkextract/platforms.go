package linkextract

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform names a third-party media service rendered through an embedded player.
type Platform string

// Platforms in detection order.
const (
	PlatformYouTube    Platform = "youtube"
	PlatformSpotify    Platform = "spotify"
	PlatformTwitch     Platform = "twitch"
	PlatformMixcloud   Platform = "mixcloud"
	PlatformSoundCloud Platform = "soundcloud"
	PlatformAppleMusic Platform = "applemusic"
	PlatformWavelake   Platform = "wavelake"
)

// PlatformMatch is a recognised platform URL with the parts its embed needs.
//
//	YouTube:  Groups[0] video id
//	Spotify:  Groups[0] item kind, Groups[1] item id
//	Twitch:   Groups[0] channel
//	Mixcloud: Groups[0] user, Groups[1] mix
type PlatformMatch struct {
	Platform Platform
	URL      string
	Groups   []string
}

var (
	youtubeRegex    = regexp.MustCompile(`^(?:https?://)?(?:www\.|m\.)?(?:youtu\.be/|youtube\.com/(?:shorts/|embed/|v/|live/|watch\?(?:[^\s#]*&)?v=))([\w-]{11})`)
	spotifyRegex    = regexp.MustCompile(`^https?://open\.spotify\.com/(?:intl-[a-z-]+/)?(track|album|playlist|episode|show|artist)/([a-zA-Z0-9]+)`)
	twitchRegex     = regexp.MustCompile(`^https?://(?:www\.|m\.)?twitch\.tv/([a-zA-Z0-9_]{3,25})/?(?:\?[^\s]*)?$`)
	mixcloudRegex   = regexp.MustCompile(`^https?://(?:www\.|m\.)?mixcloud\.com/([a-zA-Z0-9_-]+)/([a-zA-Z0-9_-]+)`)
	soundcloudRegex = regexp.MustCompile(`^https?://(?:www\.|m\.)?soundcloud\.com/[a-zA-Z0-9_-]+/[a-zA-Z0-9_-]+`)
	appleMusicRegex = regexp.MustCompile(`^https?://music\.apple\.com/[a-z]{2}/(?:album|playlist|song|music-video|station)/`)
	wavelakeRegex   = regexp.MustCompile(`^https?://(?:player\.|www\.)?wavlake\.com/([a-z0-9-]+)(?:/([a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}))?`)

	wavelakeHostRegex = regexp.MustCompile(`(?:player\.|www\.)?wavlake\.com`)
	appleSongRegex    = regexp.MustCompile(`\?i=\d+$`)
)

// Wavelake paths that are site pages, not playable items.
var wavelakeReserved = map[string]bool{
	"top": true, "new": true, "artists": true, "account": true, "activity": true,
	"login": true, "preferences": true, "feed": true, "profile": true,
}

var platformMatchers = []struct {
	platform Platform
	match    func(string) ([]string, bool)
}{
	{PlatformYouTube, MatchYouTube},
	{PlatformSpotify, MatchSpotify},
	{PlatformTwitch, MatchTwitch},
	{PlatformMixcloud, MatchMixcloud},
	{PlatformSoundCloud, matchRegex(soundcloudRegex)},
	{PlatformAppleMusic, matchRegex(appleMusicRegex)},
	{PlatformWavelake, MatchWavelake},
}

// MatchPlatform returns the first platform whose URL shape matches.
func MatchPlatform(rawURL string) (PlatformMatch, bool) {
	for _, m := range platformMatchers {
		if groups, ok := m.match(rawURL); ok {
			return PlatformMatch{Platform: m.platform, URL: rawURL, Groups: groups}, true
		}
	}

	return PlatformMatch{}, false
}

// MatchYouTube returns the video id of a YouTube URL.
func MatchYouTube(rawURL string) ([]string, bool) {
	return submatches(youtubeRegex, rawURL)
}

// MatchSpotify returns the item kind and id of an open.spotify.com URL.
func MatchSpotify(rawURL string) ([]string, bool) {
	return submatches(spotifyRegex, rawURL)
}

// MatchTwitch returns the channel of a twitch.tv channel URL.
func MatchTwitch(rawURL string) ([]string, bool) {
	return submatches(twitchRegex, rawURL)
}

// MatchMixcloud returns the user and mix of a Mixcloud show URL.
func MatchMixcloud(rawURL string) ([]string, bool) {
	groups, ok := submatches(mixcloudRegex, rawURL)
	if !ok || groups[0] == "live" {
		return nil, false
	}

	return groups, true
}

// MatchWavelake accepts track and album URLs with an id and artist pages.
func MatchWavelake(rawURL string) ([]string, bool) {
	groups, ok := submatches(wavelakeRegex, rawURL)
	if !ok {
		return nil, false
	}

	section, id := groups[0], groups[1]

	switch {
	case section == "track" || section == "album":
		if id == "" {
			return nil, false
		}
	case wavelakeReserved[section]:
		return nil, false
	}

	return groups, true
}

func matchRegex(re *regexp.Regexp) func(string) ([]string, bool) {
	return func(rawURL string) ([]string, bool) {
		if !re.MatchString(rawURL) {
			return nil, false
		}

		return []string{}, true
	}
}

func submatches(re *regexp.Regexp, s string) ([]string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}

	return m[1:], true
}

// Embed describes the player that replaces a platform URL.
type Embed struct {
	URL    string
	Height int
	Title  string
}

// Player heights in CSS pixels; zero leaves sizing to the stylesheet.
const (
	spotifyHeight         = 352
	mixcloudHeight        = 120
	soundcloudHeight      = 166
	appleMusicSongHeight  = 175
	appleMusicOtherHeight = 450
	wavelakeHeight        = 380
)

// EmbedFor builds the player for a platform match. parentHost is the host that
// Twitch requires the embedding page to declare.
func EmbedFor(m PlatformMatch, parentHost string) Embed {
	switch m.Platform {
	case PlatformYouTube:
		return Embed{URL: "https://www.youtube.com/embed/" + group(m, 0), Title: "YouTube video player"}
	case PlatformSpotify:
		kind, id := group(m, 0), group(m, 1)
		converted := strings.Replace(m.URL, "/"+kind+"/"+id, "/embed/"+kind+"/"+id, 1)

		return Embed{URL: converted, Height: spotifyHeight, Title: "Spotify player"}
	case PlatformTwitch:
		q := url.Values{}
		q.Set("channel", group(m, 0))
		q.Set("parent", parentHost)
		q.Set("muted", "true")

		return Embed{URL: "https://player.twitch.tv/?" + q.Encode(), Title: "Twitch player"}
	case PlatformMixcloud:
		feed := "%2F" + group(m, 0) + "%2F" + group(m, 1) + "%2F"

		return Embed{
			URL:    "https://www.mixcloud.com/widget/iframe/?hide_cover=1&feed=" + feed,
			Height: mixcloudHeight,
			Title:  "Mixcloud player",
		}
	case PlatformSoundCloud:
		return Embed{
			URL:    "https://w.soundcloud.com/player/?url=" + url.QueryEscape(m.URL),
			Height: soundcloudHeight,
			Title:  "SoundCloud player",
		}
	case PlatformAppleMusic:
		converted := strings.Replace(m.URL, "music.apple.com", "embed.music.apple.com", 1)

		height := appleMusicOtherHeight
		if appleSongRegex.MatchString(converted) {
			height = appleMusicSongHeight
		}

		return Embed{URL: converted, Height: height, Title: "Apple Music player"}
	case PlatformWavelake:
		converted := wavelakeHostRegex.ReplaceAllLiteralString(m.URL, "embed.wavlake.com")

		return Embed{URL: converted, Height: wavelakeHeight, Title: "Wavlake player"}
	}

	return Embed{URL: m.URL}
}

func group(m PlatformMatch, i int) string {
	if i >= len(m.Groups) {
		return ""
	}

	return m.Groups[i]
}
