// Package mentions recognises the non-URL token shapes of a post body: nostr note and
// profile references, positional tag references, hashtags, custom emoji shortcodes and
// punctuation-only tokens.
//
// Each Find* function returns the parts of the token around the match so that
// punctuation glued to a reference is preserved when it is rendered.
package mentions

import (
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Reference is a nostr entity embedded in a token, e.g. "(nostr:npub1...)," gives
// Prefix "(", Entity "npub1..." and Suffix "),".
type Reference struct {
	Prefix string
	Entity string
	Suffix string
}

// URI returns the reference in its nostr: URI form.
func (r Reference) URI() string {
	return uriScheme + r.Entity
}

// TagRef is a positional reference "#[n]" into the post tag list.
type TagRef struct {
	Prefix string
	Index  int
	Suffix string
}

// Hashtag is a "#term" token; Suffix holds whatever follows the term.
type Hashtag struct {
	Term   string
	Suffix string
}

// Emoji is a ":name:" custom emoji shortcode.
type Emoji struct {
	Name   string
	Suffix string
}

const uriScheme = "nostr:"

var (
	noteRefRegex = regexp.MustCompile(`\bnostr:((?:note|nevent)1[a-z0-9]+)`)
	userRefRegex = regexp.MustCompile(`\bnostr:((?:npub|nprofile)1[a-z0-9]+)`)
	tagRefRegex  = regexp.MustCompile(`#\[(\d{1,6})\]`)
	hashtagRegex = regexp.MustCompile(`^#[^\s!@#$%^&*(),.?":{}|<>\[\]]+`)
	emojiRegex   = regexp.MustCompile(`^:([a-zA-Z0-9_+-]+):([.,;:!?'")]*)$`)
)

// FindNoteReference finds a nostr:note1 or nostr:nevent1 reference.
func FindNoteReference(token string) (Reference, bool) {
	return findReference(noteRefRegex, token)
}

// FindUserReference finds a nostr:npub1 or nostr:nprofile1 reference.
func FindUserReference(token string) (Reference, bool) {
	return findReference(userRefRegex, token)
}

// IsNoteMention reports whether the token references a note.
func IsNoteMention(token string) bool {
	return noteRefRegex.MatchString(token)
}

// IsUserMention reports whether the token references a user.
func IsUserMention(token string) bool {
	return userRefRegex.MatchString(token)
}

func findReference(re *regexp.Regexp, token string) (Reference, bool) {
	loc := re.FindStringSubmatchIndex(token)
	if loc == nil {
		return Reference{}, false
	}

	return Reference{
		Prefix: token[:loc[0]],
		Entity: token[loc[2]:loc[3]],
		Suffix: token[loc[1]:],
	}, true
}

// FindTagRef finds a "#[n]" positional reference.
func FindTagRef(token string) (TagRef, bool) {
	loc := tagRefRegex.FindStringSubmatchIndex(token)
	if loc == nil {
		return TagRef{}, false
	}

	idx, err := strconv.Atoi(token[loc[2]:loc[3]])
	if err != nil {
		return TagRef{}, false
	}

	return TagRef{
		Prefix: token[:loc[0]],
		Index:  idx,
		Suffix: token[loc[1]:],
	}, true
}

// FindHashtag parses a token starting with "#". The term stops at the first rune that
// is not a letter, digit or underscore.
func FindHashtag(token string) (Hashtag, bool) {
	if !hashtagRegex.MatchString(token) {
		return Hashtag{}, false
	}

	body := token[1:]
	end := 0

	for end < len(body) {
		r, size := utf8.DecodeRuneInString(body[end:])
		if !isTermRune(r) {
			break
		}

		end += size
	}

	if end == 0 {
		return Hashtag{}, false
	}

	return Hashtag{Term: body[:end], Suffix: body[end:]}, true
}

func isTermRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// FindEmoji parses a ":name:" shortcode optionally followed by punctuation.
func FindEmoji(token string) (Emoji, bool) {
	m := emojiRegex.FindStringSubmatch(token)
	if m == nil {
		return Emoji{}, false
	}

	return Emoji{Name: m[1], Suffix: m[2]}, true
}

// IsInterpunction reports whether the token is made of punctuation only.
func IsInterpunction(token string) bool {
	if token == "" {
		return false
	}

	for _, r := range token {
		if !unicode.IsPunct(r) {
			return false
		}
	}

	return true
}
