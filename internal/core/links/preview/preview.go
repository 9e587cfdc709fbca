// Package preview builds link preview records from documents fetched ahead of
// rendering. It never performs network I/O.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html"

	"github.com/lueurxax/parsed-note/internal/core/domain"
	coreerrors "github.com/lueurxax/parsed-note/internal/core/errors"
	"github.com/lueurxax/parsed-note/internal/platform/htmlutils"
	"github.com/lueurxax/parsed-note/internal/platform/observability"
)

// Where a preview came from.
const (
	SourceHTML = "html"
	SourceFeed = "feed"
)

const (
	// MaxDescriptionRunes caps preview descriptions.
	MaxDescriptionRunes = 300
	maxTitleRunes       = 200
	maxImages           = 4
	wwwPrefix           = "www."
)

// FromDocument builds the preview of rawURL from its document: an RSS/Atom feed or
// an HTML page (OpenGraph, Twitter card, JSON-LD and plain head tags, in that order,
// then the readability article for whatever the head leaves empty).
// The preview keeps rawURL as its URL so it can be looked up by the link as written.
func FromDocument(doc []byte, rawURL string) (domain.LinkPreview, error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		return domain.LinkPreview{}, fmt.Errorf("%s: %w", rawURL, coreerrors.ErrEmptyDocument)
	}

	base, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return domain.LinkPreview{}, fmt.Errorf("parse url %q: %w", rawURL, coreerrors.ErrInvalidInput)
	}

	p, source, ok := fromFeed(doc, base)
	if !ok {
		p, err = fromHTML(doc, base)
		if err != nil {
			return domain.LinkPreview{}, err
		}

		source = SourceHTML
	}

	p.URL = strings.TrimSpace(rawURL)
	p.Title = htmlutils.Truncate(htmlutils.CollapseWhitespace(p.Title), maxTitleRunes)
	p.Description = htmlutils.Truncate(htmlutils.CollapseWhitespace(p.Description), MaxDescriptionRunes)

	if p.Language == "" {
		p.Language = guessLanguage(p.Title + " " + p.Description)
	}

	if p.Title == "" && p.Description == "" && len(p.Images) == 0 {
		return domain.LinkPreview{}, fmt.Errorf("%s: no preview metadata: %w", rawURL, coreerrors.ErrEmptyDocument)
	}

	observability.PreviewsExtracted.WithLabelValues(source).Inc()

	return p, nil
}

// Collect builds previews for every document, keyed by URL. Documents that yield
// no preview are left out and reported in the joined error.
func Collect(docs map[string]string) (domain.PreviewMap, error) {
	previews := make(domain.PreviewMap, len(docs))

	urls := make([]string, 0, len(docs))
	for u := range docs {
		urls = append(urls, u)
	}

	sort.Strings(urls)

	var errs []error

	for _, u := range urls {
		p, err := FromDocument([]byte(docs[u]), u)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		previews[p.URL] = p
	}

	return previews, errors.Join(errs...)
}

func fromHTML(doc []byte, base *url.URL) (domain.LinkPreview, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return domain.LinkPreview{}, fmt.Errorf("parse html: %w", err)
	}

	meta, ld := scanDocument(root)

	// Readability failure is not fatal; the head metadata still stands.
	article, err := readability.FromReader(bytes.NewReader(doc), base)
	if err != nil {
		article = readability.Article{}
	}

	images := append([]string{}, meta.OGImages...)
	images = append(images, meta.TwitterImage, ld.Image, article.Image)

	lang := normalizeLanguage(coalesce(meta.Lang, meta.OGLocale))
	if lang == "" {
		lang = guessLanguage(article.TextContent)
	}

	return domain.LinkPreview{
		Title:       coalesce(meta.OGTitle, meta.TwitterTitle, ld.Title, meta.Title, article.Title),
		Description: coalesce(meta.OGDescription, meta.TwitterDesc, ld.Description, meta.Description, article.Excerpt),
		SiteName:    coalesce(meta.OGSiteName, ld.Publisher, article.SiteName, siteFromHost(base)),
		Images:      resolveImages(base, images),
		PublishedAt: coalesceTime(parseDate(ld.PublishedAt), parseDate(meta.PublishedTime)),
		Language:    lang,
	}, nil
}

func fromFeed(doc []byte, base *url.URL) (domain.LinkPreview, string, bool) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(doc))
	if err != nil {
		return domain.LinkPreview{}, "", false
	}

	p := domain.LinkPreview{
		Title:       feed.Title,
		Description: htmlutils.StripHTMLTags(feed.Description),
		SiteName:    coalesce(feed.Title, siteFromHost(base)),
		PublishedAt: coalesceTime(toTime(feed.PublishedParsed), toTime(feed.UpdatedParsed)),
		Language:    normalizeLanguage(feed.Language),
	}

	var images []string

	if len(feed.Items) > 0 {
		item := feed.Items[0]

		p.Title = coalesce(item.Title, feed.Title)
		p.Description = coalesce(htmlutils.StripHTMLTags(item.Description), htmlutils.StripHTMLTags(item.Content), p.Description)
		p.PublishedAt = coalesceTime(toTime(item.PublishedParsed), toTime(item.UpdatedParsed), p.PublishedAt)
		images = append(images, feedItemImage(item))
	}

	if feed.Image != nil {
		images = append(images, feed.Image.URL)
	}

	p.Images = resolveImages(base, images)

	return p, SourceFeed, true
}

func feedItemImage(item *gofeed.Item) string {
	if item.Image != nil {
		return item.Image.URL
	}

	for _, enclosure := range item.Enclosures {
		if strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}

	return ""
}

// resolveImages makes image URLs absolute against base, dropping blanks, unsafe
// schemes and duplicates.
func resolveImages(base *url.URL, raw []string) []string {
	var (
		out  []string
		seen = make(map[string]struct{})
	)

	for _, r := range raw {
		r = strings.TrimSpace(r)
		if !htmlutils.IsSafeURL(r) {
			continue
		}

		ref, err := url.Parse(r)
		if err != nil {
			continue
		}

		abs := base.ResolveReference(ref).String()
		if _, dup := seen[abs]; dup {
			continue
		}

		seen[abs] = struct{}{}
		out = append(out, abs)

		if len(out) == maxImages {
			break
		}
	}

	return out
}

func siteFromHost(u *url.URL) string {
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), wwwPrefix)
}

func coalesce(strs ...string) string {
	for _, s := range strs {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}

	return ""
}

func coalesceTime(times ...time.Time) time.Time {
	for _, t := range times {
		if !t.IsZero() {
			return t
		}
	}

	return time.Time{}
}

func toTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}

	return *t
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}

	return t
}
