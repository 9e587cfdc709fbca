// Package parsednote turns the raw body of a post into an ordered sequence of typed
// segments: it tokenizes the text, classifies every token into exactly one Category,
// folds runs of equal categories into segments and groups adjacent images into
// galleries. It also carries the word budget used to cut long posts short.
//
// Nothing here performs I/O or logs; every function is a pure transform over its
// input plus the explicit state value passed in.
package parsednote

import "github.com/lueurxax/parsed-note/internal/core/links/linkextract"

// Category is the content type of a classified token.
type Category string

const (
	CategoryLinebreak   Category = "linebreak"
	CategoryWhitespace  Category = "whitespace"
	CategoryText        Category = "text"
	CategoryImage       Category = "image"
	CategoryVideo       Category = "video"
	CategoryYouTube     Category = Category(linkextract.PlatformYouTube)
	CategorySpotify     Category = Category(linkextract.PlatformSpotify)
	CategoryTwitch      Category = Category(linkextract.PlatformTwitch)
	CategoryMixcloud    Category = Category(linkextract.PlatformMixcloud)
	CategorySoundCloud  Category = Category(linkextract.PlatformSoundCloud)
	CategoryAppleMusic  Category = Category(linkextract.PlatformAppleMusic)
	CategoryWavelake    Category = Category(linkextract.PlatformWavelake)
	CategoryLink        Category = "link"
	CategoryNoteMention Category = "note_mention"
	CategoryUserMention Category = "user_mention"
	CategoryTagMention  Category = "tag_mention"
	CategoryHashtag     Category = "hashtag"
	CategoryEmoji       Category = "emoji"
)

// Categories lists every category in classification priority order.
var Categories = []Category{
	CategoryLinebreak,
	CategoryWhitespace,
	CategoryText,
	CategoryImage,
	CategoryVideo,
	CategoryYouTube,
	CategorySpotify,
	CategoryTwitch,
	CategoryMixcloud,
	CategorySoundCloud,
	CategoryAppleMusic,
	CategoryWavelake,
	CategoryLink,
	CategoryNoteMention,
	CategoryUserMention,
	CategoryTagMention,
	CategoryHashtag,
	CategoryEmoji,
}

// IsPlatformEmbed reports whether the category is rendered through a third-party player.
func (c Category) IsPlatformEmbed() bool {
	switch c {
	case CategoryYouTube, CategorySpotify, CategoryTwitch, CategoryMixcloud,
		CategorySoundCloud, CategoryAppleMusic, CategoryWavelake:
		return true
	}

	return false
}

// IsSignificant reports whether the category carries content. Line breaks and
// whitespace are layout only.
func (c Category) IsSignificant() bool {
	return c != CategoryLinebreak && c != CategoryWhitespace
}

// Platform returns the platform behind an embed category.
func (c Category) Platform() (linkextract.Platform, bool) {
	if !c.IsPlatformEmbed() {
		return "", false
	}

	return linkextract.Platform(c), true
}

func (c Category) String() string {
	return string(c)
}
