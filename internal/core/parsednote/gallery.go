package parsednote

import (
	"strconv"

	"github.com/google/uuid"
)

// GroupGridLimit is the gallery size from which every grid uses the large layout.
const GroupGridLimit = 7

const gridLarge = "grid-large"

// GalleryGroup is a set of adjacent images rendered in one grid.
type GalleryGroup struct {
	ID        string
	Images    []string
	GridClass string
}

// Size returns the number of images in the group.
func (g GalleryGroup) Size() int {
	return len(g.Images)
}

// GridClass picks the grid layout for n images. A single image has no grid.
func GridClass(n int) string {
	switch {
	case n < 2:
		return ""
	case n < GroupGridLimit:
		return "grid-" + strconv.Itoa(n)
	default:
		return gridLarge
	}
}

// GroupImages builds a group with a fresh id. Order is kept as given.
func GroupImages(urls []string) *GalleryGroup {
	return &GalleryGroup{
		ID:        uuid.NewString(),
		Images:    append([]string(nil), urls...),
		GridClass: GridClass(len(urls)),
	}
}

// AttachGalleries gives every image segment its gallery group.
func AttachGalleries(segments []Segment) []Segment {
	for i := range segments {
		if segments[i].Category != CategoryImage {
			continue
		}

		segments[i].Gallery = GroupImages(segments[i].Tokens())
	}

	return segments
}

// GroupedImage is an already rendered image carrying an explicit group id.
type GroupedImage struct {
	GroupID string
	URL     string
}

// RegroupByID buckets images by group id in order of first appearance. Images
// without an id are left out.
func RegroupByID(images []GroupedImage) []GalleryGroup {
	withID := make([]GroupedImage, 0, len(images))

	for _, img := range images {
		if img.GroupID != "" {
			withID = append(withID, img)
		}
	}

	buckets := BucketByGroup(withID, func(img GroupedImage) string { return img.GroupID })
	groups := make([]GalleryGroup, len(buckets))

	for i, bucket := range buckets {
		urls := make([]string, len(bucket))
		for j, img := range bucket {
			urls[j] = img.URL
		}

		groups[i] = GalleryGroup{ID: bucket[0].GroupID, Images: urls, GridClass: GridClass(len(urls))}
	}

	return groups
}

// BucketByGroup splits items into buckets sharing a group id. Buckets are ordered by
// the first appearance of their id and keep item order.
func BucketByGroup[T any](items []T, groupID func(T) string) [][]T {
	var (
		buckets [][]T
		index   = make(map[string]int)
	)

	for _, item := range items {
		id := groupID(item)

		i, ok := index[id]
		if !ok {
			i = len(buckets)
			index[id] = i
			buckets = append(buckets, nil)
		}

		buckets[i] = append(buckets[i], item)
	}

	return buckets
}
