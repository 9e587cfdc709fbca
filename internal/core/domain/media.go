package domain

import (
	"strings"
	"time"
)

// MediaInfo is what the media service knows about a URL. MediaURL is the
// canonical (usually cached) location to load instead of the raw URL.
type MediaInfo struct {
	URL      string `json:"url"`
	MediaURL string `json:"media_url,omitempty"`
	Width    int    `json:"w,omitempty"`
	Height   int    `json:"h,omitempty"`
}

// HasDimensions reports whether both width and height are known.
func (m MediaInfo) HasDimensions() bool {
	return m.Width > 0 && m.Height > 0
}

// LinkPreview is the metadata shown in a link preview card.
type LinkPreview struct {
	URL         string    `json:"url"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	SiteName    string    `json:"site_name,omitempty"`
	Images      []string  `json:"images,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
	Language    string    `json:"language,omitempty"`
}

// HasMinimalData reports whether the preview carries enough to be worth a card:
// a URL plus a description, a title or a non-empty image list without blanks.
func (p LinkPreview) HasMinimalData() bool {
	if p.URL == "" {
		return false
	}

	if p.Description != "" || p.Title != "" {
		return true
	}

	if len(p.Images) == 0 {
		return false
	}

	for _, img := range p.Images {
		if img == "" {
			return false
		}
	}

	return true
}

// MediaLookup resolves media metadata for a URL.
type MediaLookup interface {
	Media(url string) (MediaInfo, bool)
}

// PreviewLookup resolves link preview metadata for a URL.
type PreviewLookup interface {
	Preview(url string) (LinkPreview, bool)
}

// MediaMap is a map-backed MediaLookup.
type MediaMap map[string]MediaInfo

// Media implements MediaLookup.
func (m MediaMap) Media(url string) (MediaInfo, bool) {
	info, ok := m[strings.TrimSpace(url)]

	return info, ok
}

// PreviewMap is a map-backed PreviewLookup.
type PreviewMap map[string]LinkPreview

// Preview implements PreviewLookup.
func (m PreviewMap) Preview(url string) (LinkPreview, bool) {
	p, ok := m[strings.TrimSpace(url)]

	return p, ok
}
