package domain

import (
	"strings"

	"github.com/nbd-wtf/go-nostr"
)

const (
	npubHeadLen = 10
	npubTailLen = 6
)

// Note is a single post as supplied by the caller, together with the records its
// body refers to. Both mention maps are keyed by hex identifier and may be nil.
type Note struct {
	ID             string          `json:"id"`
	PubKey         string          `json:"pubkey"`
	CreatedAt      nostr.Timestamp `json:"created_at"`
	Content        string          `json:"content"`
	Tags           [][]string      `json:"tags"`
	MentionedUsers map[string]User `json:"mentioned_users,omitempty"`
	MentionedNotes map[string]Note `json:"mentioned_notes,omitempty"`
}

// Tag returns the positional tag at idx, or nil when the index is out of range.
func (n Note) Tag(idx int) []string {
	if idx < 0 || idx >= len(n.Tags) {
		return nil
	}

	return n.Tags[idx]
}

// EmojiURL looks up the image of a custom emoji declared with an ["emoji", name, url] tag.
func (n Note) EmojiURL(name string) (string, bool) {
	for _, tag := range n.Tags {
		if len(tag) < 2 || tag[0] != "emoji" || tag[1] != name {
			continue
		}

		if len(tag) < 3 || tag[2] == "" {
			return "", false
		}

		return tag[2], true
	}

	return "", false
}

// User is a resolved profile of a mentioned user.
type User struct {
	PubKey      string `json:"pubkey"`
	Npub        string `json:"npub"`
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Picture     string `json:"picture,omitempty"`
}

// Label returns the name shown for a mention of the user.
func (u User) Label() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}

	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}

	return TruncateNpub(u.Npub)
}

// TruncateNpub shortens a bech32 public key for display.
func TruncateNpub(npub string) string {
	if len(npub) <= npubHeadLen+npubTailLen+3 {
		return npub
	}

	return npub[:npubHeadLen] + "..." + npub[len(npub)-npubTailLen:]
}
