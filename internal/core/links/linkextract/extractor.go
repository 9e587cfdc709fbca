// Package linkextract finds URLs inside post tokens and recognises the media and
// platform shapes that the renderer treats specially.
//
// Every predicate returns its match explicitly; nothing is remembered between calls.
package linkextract

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type LinkKind string

const (
	LinkKindWeb      LinkKind = "web"
	LinkKindImage    LinkKind = "image"
	LinkKindVideo    LinkKind = "video"
	LinkKindPlatform LinkKind = "platform"
)

type Link struct {
	URL      string
	Domain   string
	Kind     LinkKind
	Position int

	// Set for LinkKindPlatform.
	Platform Platform
}

// URLMatch is a URL found inside a token. Prefix and Suffix are the parts of the
// token around the URL; both are empty when the token is the URL itself.
type URLMatch struct {
	Prefix string
	URL    string
	Suffix string
	Start  int
}

// Whole reports whether the URL spans the entire token.
func (m URLMatch) Whole() bool {
	return m.Prefix == "" && m.Suffix == ""
}

var urlRegex = regexp.MustCompile(`https?://[^\s<>"{}|\\^\x60\[\]]+`)

// adjacentURLRegex finds where a parenthesised URL directly follows another one.
var adjacentURLRegex = regexp.MustCompile(`\)\(https?://`)

// trailingPunct is peeled off the end of a match; it ends sentences far more often
// than it ends URLs.
const trailingPunct = ".,;:!?'\""

// FindURL returns the first URL inside token.
func FindURL(token string) (URLMatch, bool) {
	loc := urlRegex.FindStringIndex(token)
	if loc == nil {
		return URLMatch{}, false
	}

	raw := token[loc[0]:loc[1]]
	if cut := adjacentURLRegex.FindStringIndex(raw); cut != nil {
		raw = raw[:cut[0]+1]
	}

	matched := trimURL(raw)
	if !isValidURL(matched) {
		return URLMatch{}, false
	}

	end := loc[0] + len(matched)

	return URLMatch{
		Prefix: token[:loc[0]],
		URL:    matched,
		Suffix: token[end:],
		Start:  loc[0],
	}, true
}

// trimURL drops trailing sentence punctuation and closing parentheses that have
// no opening partner inside the URL.
func trimURL(raw string) string {
	for raw != "" {
		last := raw[len(raw)-1]

		switch {
		case strings.IndexByte(trailingPunct, last) >= 0:
			raw = raw[:len(raw)-1]
		case last == ')' && strings.Count(raw, "(") < strings.Count(raw, ")"):
			raw = raw[:len(raw)-1]
		default:
			return raw
		}
	}

	return raw
}

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := u.Hostname()

	return host != "" && strings.Contains(host, ".") && !strings.HasSuffix(host, ".")
}

// ExtractLinks lists the distinct URLs of a post body in order of appearance.
func ExtractLinks(text string) []Link {
	var links []Link

	seen := make(map[string]bool)

	for start := 0; start < len(text); {
		r, size := utf8.DecodeRuneInString(text[start:])
		if unicode.IsSpace(r) {
			start += size
			continue
		}

		end := fieldEnd(text, start)
		links = appendFieldLinks(links, seen, text[start:end], start)
		start = end
	}

	return links
}

func fieldEnd(text string, start int) int {
	end := start

	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if unicode.IsSpace(r) {
			break
		}

		end += size
	}

	return end
}

func appendFieldLinks(links []Link, seen map[string]bool, field string, offset int) []Link {
	for field != "" {
		m, ok := FindURL(field)
		if !ok {
			break
		}

		if !seen[m.URL] {
			seen[m.URL] = true

			links = append(links, classifyLink(m.URL, offset+m.Start))
		}

		consumed := m.Start + len(m.URL)
		offset += consumed
		field = field[consumed:]
	}

	return links
}

func classifyLink(rawURL string, position int) Link {
	link := Link{
		URL:      rawURL,
		Domain:   extractDomain(rawURL),
		Position: position,
		Kind:     LinkKindWeb,
	}

	switch {
	case IsImage(rawURL):
		link.Kind = LinkKindImage
	case isVideo(rawURL):
		link.Kind = LinkKindVideo
	default:
		if m, ok := MatchPlatform(rawURL); ok {
			link.Kind = LinkKindPlatform
			link.Platform = m.Platform
		}
	}

	return link
}

func isVideo(rawURL string) bool {
	_, ok := VideoType(rawURL)
	return ok
}

func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return strings.ToLower(u.Host)
}
