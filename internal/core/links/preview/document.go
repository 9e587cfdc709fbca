package preview

import (
	"encoding/json"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// metaTags holds the head metadata of an HTML document.
type metaTags struct {
	Lang          string
	Title         string
	Description   string
	OGTitle       string
	OGDescription string
	OGSiteName    string
	OGLocale      string
	OGImages      []string
	TwitterTitle  string
	TwitterDesc   string
	TwitterImage  string
	PublishedTime string
}

// jsonLD holds the article fields of application/ld+json blocks.
type jsonLD struct {
	Title       string
	Description string
	Publisher   string
	PublishedAt string
	Image       string
}

var articleTypes = map[string]struct{}{
	"Article":            {},
	"NewsArticle":        {},
	"BlogPosting":        {},
	"WebPage":            {},
	"VideoObject":        {},
	"SocialMediaPosting": {},
}

func scanDocument(doc *html.Node) (metaTags, jsonLD) {
	var (
		meta metaTags
		ld   jsonLD
	)

	var traverse func(*html.Node)

	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Html:
				meta.Lang = attr(n, "lang")
			case atom.Title:
				if meta.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					meta.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case atom.Meta:
				applyMetaTag(n, &meta)
			case atom.Script:
				if strings.EqualFold(attr(n, "type"), "application/ld+json") &&
					n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					parseLDJSON(n.FirstChild.Data, &ld)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}

	traverse(doc)

	return meta, ld
}

func applyMetaTag(n *html.Node, meta *metaTags) {
	name, content := metaAttrs(n)
	content = strings.TrimSpace(content)

	if content == "" {
		return
	}

	switch strings.ToLower(name) {
	case "description":
		meta.Description = content
	case "og:title":
		meta.OGTitle = content
	case "og:description":
		meta.OGDescription = content
	case "og:site_name":
		meta.OGSiteName = content
	case "og:locale":
		meta.OGLocale = content
	case "og:image", "og:image:url", "og:image:secure_url":
		meta.OGImages = append(meta.OGImages, content)
	case "twitter:title":
		meta.TwitterTitle = content
	case "twitter:description":
		meta.TwitterDesc = content
	case "twitter:image", "twitter:image:src":
		meta.TwitterImage = content
	case "article:published_time":
		meta.PublishedTime = content
	}
}

func metaAttrs(n *html.Node) (string, string) {
	var name, content string

	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "name", "property":
			name = a.Val
		case "content":
			content = a.Val
		}
	}

	return name, content
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}

	return ""
}

func parseLDJSON(data string, ld *jsonLD) {
	var v interface{}
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return
	}

	processLDValue(v, ld)
}

func processLDValue(v interface{}, ld *jsonLD) {
	switch m := v.(type) {
	case map[string]interface{}:
		extractFromLDMap(m, ld)

		if graph, ok := m["@graph"].([]interface{}); ok {
			for _, item := range graph {
				processLDValue(item, ld)
			}
		}
	case []interface{}:
		for _, item := range m {
			processLDValue(item, ld)
		}
	}
}

// extractFromLDMap fills only fields still empty, so the first article wins.
func extractFromLDMap(m map[string]interface{}, ld *jsonLD) {
	t, ok := m["@type"].(string)
	if !ok {
		return
	}

	if _, ok := articleTypes[t]; !ok {
		return
	}

	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if title, ok := m["headline"].(string); ok {
		fill(&ld.Title, title)
	} else if name, ok := m["name"].(string); ok {
		fill(&ld.Title, name)
	}

	if desc, ok := m["description"].(string); ok {
		fill(&ld.Description, desc)
	}

	if date, ok := m["datePublished"].(string); ok {
		fill(&ld.PublishedAt, date)
	}

	if publisher, ok := m["publisher"]; ok {
		fill(&ld.Publisher, ldName(publisher))
	}

	if image, ok := m["image"]; ok {
		fill(&ld.Image, ldImage(image))
	} else if thumb, ok := m["thumbnailUrl"]; ok {
		fill(&ld.Image, ldImage(thumb))
	}
}

func ldName(v interface{}) string {
	switch a := v.(type) {
	case string:
		return a
	case map[string]interface{}:
		if name, ok := a["name"].(string); ok {
			return name
		}
	case []interface{}:
		if len(a) > 0 {
			return ldName(a[0])
		}
	}

	return ""
}

func ldImage(v interface{}) string {
	switch img := v.(type) {
	case string:
		return img
	case map[string]interface{}:
		if u, ok := img["url"].(string); ok {
			return u
		}
	case []interface{}:
		if len(img) > 0 {
			return ldImage(img[0])
		}
	}

	return ""
}
