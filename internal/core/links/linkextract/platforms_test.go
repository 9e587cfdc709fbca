package linkextract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchPlatform(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		platform Platform
		groups   []string
		ok       bool
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", PlatformYouTube, []string{"dQw4w9WgXcQ"}, true},
		{"youtube watch with params", "https://youtube.com/watch?feature=share&v=dQw4w9WgXcQ", PlatformYouTube, []string{"dQw4w9WgXcQ"}, true},
		{"youtube short link", "https://youtu.be/dQw4w9WgXcQ", PlatformYouTube, []string{"dQw4w9WgXcQ"}, true},
		{"youtube shorts", "https://www.youtube.com/shorts/abcdefghijk", PlatformYouTube, []string{"abcdefghijk"}, true},
		{"spotify track", "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC", PlatformSpotify, []string{"track", "4uLU6hMCjMI75M1A2tKUQC"}, true},
		{"twitch channel", "https://www.twitch.tv/somechannel", PlatformTwitch, []string{"somechannel"}, true},
		{"mixcloud show", "https://www.mixcloud.com/someone/late-night-mix/", PlatformMixcloud, []string{"someone", "late-night-mix"}, true},
		{"soundcloud track", "https://soundcloud.com/artist/track-name", PlatformSoundCloud, []string{}, true},
		{"apple music album", "https://music.apple.com/us/album/some-album/123456", PlatformAppleMusic, []string{}, true},
		{"wavelake track", "https://wavlake.com/track/0a1b2c3d-1111-2222-3333-444455556666", PlatformWavelake, []string{"track", "0a1b2c3d-1111-2222-3333-444455556666"}, true},
		{"wavelake artist", "https://wavlake.com/some-artist", PlatformWavelake, []string{"some-artist", ""}, true},
		{"wavelake reserved page", "https://wavlake.com/top", "", nil, false},
		{"wavelake track without id", "https://wavlake.com/track", "", nil, false},
		{"mixcloud live", "https://www.mixcloud.com/live/someone", "", nil, false},
		{"generic", "https://example.com/page", "", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := MatchPlatform(tt.url)
			require.Equal(t, tt.ok, ok)

			if !tt.ok {
				return
			}

			require.Equal(t, tt.platform, m.Platform)
			require.Equal(t, tt.groups, m.Groups)
			require.Equal(t, tt.url, m.URL)
		})
	}
}

func TestEmbedFor(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		height int
	}{
		{"youtube", "https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ", 0},
		{"spotify", "https://open.spotify.com/album/abc123", "https://open.spotify.com/embed/album/abc123", spotifyHeight},
		{"twitch", "https://twitch.tv/somechannel", "https://player.twitch.tv/?channel=somechannel&muted=true&parent=example.org", 0},
		{"mixcloud", "https://www.mixcloud.com/someone/mix/", "https://www.mixcloud.com/widget/iframe/?hide_cover=1&feed=%2Fsomeone%2Fmix%2F", mixcloudHeight},
		{"soundcloud", "https://soundcloud.com/a/b", "https://w.soundcloud.com/player/?url=https%3A%2F%2Fsoundcloud.com%2Fa%2Fb", soundcloudHeight},
		{"apple music album", "https://music.apple.com/us/album/x/1", "https://embed.music.apple.com/us/album/x/1", appleMusicOtherHeight},
		{"apple music song", "https://music.apple.com/us/album/x/1?i=42", "https://embed.music.apple.com/us/album/x/1?i=42", appleMusicSongHeight},
		{"wavelake", "https://player.wavlake.com/some-artist", "https://embed.wavlake.com/some-artist", wavelakeHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := MatchPlatform(tt.url)
			require.True(t, ok)

			embed := EmbedFor(m, "example.org")
			require.Equal(t, tt.want, embed.URL)
			require.Equal(t, tt.height, embed.Height)
		})
	}
}
