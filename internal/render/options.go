package render

import (
	"fmt"
	"strings"

	coreerrors "github.com/lueurxax/parsed-note/internal/core/errors"
	"github.com/lueurxax/parsed-note/internal/core/parsednote"
)

// MentionMode controls how references to notes and users are shown.
type MentionMode int

const (
	// MentionsFull links references and embeds resolved notes.
	MentionsFull MentionMode = iota
	// MentionsLinks shows references styled as links without navigation.
	MentionsLinks
	// MentionsText shows references, hashtags and URLs as plain text.
	MentionsText
)

var mentionModeNames = map[MentionMode]string{
	MentionsFull:  "full",
	MentionsLinks: "links",
	MentionsText:  "text",
}

func (m MentionMode) String() string {
	if name, ok := mentionModeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("MentionMode(%d)", int(m))
}

// ParseMentionMode reads a mode name; the empty string means full.
func ParseMentionMode(s string) (MentionMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return MentionsFull, nil
	}

	for mode, n := range mentionModeNames {
		if n == name {
			return mode, nil
		}
	}

	return MentionsFull, fmt.Errorf("%w: mention mode %q", coreerrors.ErrInvalidInput, s)
}

// MarshalText implements encoding.TextMarshaler.
func (m MentionMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MentionMode) UnmarshalText(b []byte) error {
	mode, err := ParseMentionMode(string(b))
	if err != nil {
		return err
	}

	*m = mode

	return nil
}

// Options are the caller switches of one render pass.
type Options struct {
	IgnoreMedia      bool        `json:"ignore_media,omitempty"`
	IgnoreLinebreaks bool        `json:"ignore_linebreaks,omitempty"`
	Mentions         MentionMode `json:"mentions,omitempty"`
	NoPreviews       bool        `json:"no_previews,omitempty"`
	Shorten          bool        `json:"shorten,omitempty"`
	// Embedded marks content shown inside another note.
	Embedded bool `json:"embedded,omitempty"`
}

// ParseOptions derives the parser switches.
func (o Options) ParseOptions() parsednote.ParseOptions {
	return parsednote.ParseOptions{
		IgnoreMedia:      o.IgnoreMedia,
		IgnoreLinebreaks: o.IgnoreLinebreaks,
		LinksAsText:      o.Mentions == MentionsText,
	}
}
