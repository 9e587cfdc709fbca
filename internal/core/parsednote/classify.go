package parsednote

import (
	"github.com/lueurxax/parsed-note/internal/core/links/linkextract"
	"github.com/lueurxax/parsed-note/internal/core/mentions"
)

// Unit is a classified piece of a token. A token usually yields one unit; a token
// with a URL glued to other text yields one per part.
type Unit struct {
	Category Category
	Text     string

	// VideoType is the MIME type of a video unit.
	VideoType string
	// TagIndex is the position referenced by a tag mention.
	TagIndex int
}

// ClassifyOptions are the caller switches that change classification.
type ClassifyOptions struct {
	// IgnoreMedia turns media and platform URLs into plain links.
	IgnoreMedia bool
	// LinksAsText classifies every URL as text.
	LinksAsText bool
}

// Classify maps a token to its units. The first matching rule wins and every token
// gets a category; a word is never dropped.
func Classify(tok Token, opts ClassifyOptions) []Unit {
	switch tok.Kind {
	case TokenLinebreak:
		return []Unit{{Category: CategoryLinebreak, Text: tok.Text}}
	case TokenSpace:
		return []Unit{{Category: CategoryWhitespace, Text: tok.Text}}
	}

	return classifyWord(tok.Text, opts, nil)
}

func classifyWord(word string, opts ClassifyOptions, out []Unit) []Unit {
	if word == "" {
		return out
	}

	if mentions.IsInterpunction(word) {
		return append(out, Unit{Category: CategoryText, Text: word})
	}

	if m, ok := linkextract.FindURL(word); ok {
		if m.Whole() {
			return append(out, classifyURL(m.URL, opts))
		}

		out = classifyWord(m.Prefix, opts, out)
		out = append(out, classifyURL(m.URL, opts))

		return classifyWord(m.Suffix, opts, out)
	}

	return append(out, classifyPlain(word))
}

func classifyURL(rawURL string, opts ClassifyOptions) Unit {
	if !opts.IgnoreMedia {
		if linkextract.IsImage(rawURL) {
			return Unit{Category: CategoryImage, Text: rawURL}
		}

		if mime, ok := linkextract.VideoType(rawURL); ok {
			return Unit{Category: CategoryVideo, Text: rawURL, VideoType: mime}
		}

		if pm, ok := linkextract.MatchPlatform(rawURL); ok {
			return Unit{Category: Category(pm.Platform), Text: rawURL}
		}
	}

	if opts.LinksAsText {
		return Unit{Category: CategoryText, Text: rawURL}
	}

	return Unit{Category: CategoryLink, Text: rawURL}
}

func classifyPlain(word string) Unit {
	switch {
	case mentions.IsNoteMention(word):
		return Unit{Category: CategoryNoteMention, Text: word}
	case mentions.IsUserMention(word):
		return Unit{Category: CategoryUserMention, Text: word}
	}

	if ref, ok := mentions.FindTagRef(word); ok {
		return Unit{Category: CategoryTagMention, Text: word, TagIndex: ref.Index}
	}

	if _, ok := mentions.FindHashtag(word); ok {
		return Unit{Category: CategoryHashtag, Text: word}
	}

	if _, ok := mentions.FindEmoji(word); ok {
		return Unit{Category: CategoryEmoji, Text: word}
	}

	return Unit{Category: CategoryText, Text: word}
}
