package htmlview

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/lueurxax/parsed-note/internal/core/parsednote"
)

// Markup hooks shared with the segment templates.
const (
	classNoteImage    = "noteimage"
	classGalleryImage = "noteimage_gallery"
	classRounded      = "roundedImage"
	classImageGrid    = "imageGrid"
	attrImageGroup    = "data-image-group"
	attrCropped       = "data-cropped"
	galleryCellStyle  = "width: 100%; height: 100%;"
)

// RegroupGalleries runs the gallery pass over rendered markup. Images (a.noteimage)
// sharing a data-image-group value are moved into one grid container inserted
// before the first of them; a lone image only loses its cropping. When grouping
// ran, every third consecutive line break is removed.
func RegroupGalleries(fragment string) (string, error) {
	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}

	nodes, err := html.ParseFragment(strings.NewReader(fragment), root)
	if err != nil {
		return "", fmt.Errorf("parse fragment: %w", err)
	}

	for _, n := range nodes {
		root.AppendChild(n)
	}

	regroup(root)

	var buf bytes.Buffer

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}

	return buf.String(), nil
}

func regroup(root *html.Node) {
	var images []*html.Node

	walk(root, func(n *html.Node) {
		if n.DataAtom == atom.A && hasClass(n, classNoteImage) {
			images = append(images, n)
		}
	})

	switch len(images) {
	case 0:
		return
	case 1:
		removeAttr(images[0], attrCropped)
		return
	}

	groups := parsednote.BucketByGroup(images, func(n *html.Node) string {
		return getAttr(n, attrImageGroup)
	})

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		wrapGroup(group)
	}

	removeExtraBreaks(root)
}

func wrapGroup(group []*html.Node) {
	first := group[0]

	wrapper := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr: []html.Attribute{{
			Key: "class",
			Val: classImageGrid + " " + parsednote.GridClass(len(group)),
		}},
	}

	first.Parent.InsertBefore(wrapper, first)

	for i, img := range group {
		addClass(img, "cell_"+strconv.Itoa(i+1))
		setAttr(img, "style", galleryCellStyle)
		removeClass(img, classNoteImage)
		addClass(img, classGalleryImage)
		removeClass(img, classRounded)

		img.Parent.RemoveChild(img)
		wrapper.AppendChild(img)
	}
}

// removeExtraBreaks drops every br whose two previous element siblings are br too.
// Whitespace-only text between them does not break the run.
func removeExtraBreaks(root *html.Node) {
	var extra []*html.Node

	walk(root, func(n *html.Node) {
		if n.DataAtom != atom.Br {
			return
		}

		prev := previousElement(n)
		if prev == nil || prev.DataAtom != atom.Br {
			return
		}

		if prev2 := previousElement(prev); prev2 != nil && prev2.DataAtom == atom.Br {
			extra = append(extra, n)
		}
	})

	for _, n := range extra {
		n.Parent.RemoveChild(n)
	}
}

func previousElement(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		switch s.Type {
		case html.ElementNode:
			return s
		case html.TextNode:
			if strings.TrimSpace(s.Data) != "" {
				return nil
			}
		}
	}

	return nil
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}

	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]

	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}

	n.Attr = kept
}

func classes(n *html.Node) []string {
	return strings.Fields(getAttr(n, "class"))
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range classes(n) {
		if c == class {
			return true
		}
	}

	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}

	setAttr(n, "class", strings.Join(append(classes(n), class), " "))
}

func removeClass(n *html.Node, class string) {
	current := classes(n)
	kept := current[:0]

	for _, c := range current {
		if c != class {
			kept = append(kept, c)
		}
	}

	setAttr(n, "class", strings.Join(kept, " "))
}
