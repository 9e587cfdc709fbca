package parsednote

// Segment is a run of adjacent units sharing one category. Metadata stays on the
// units, so a video run mixing containers keeps each MIME type.
type Segment struct {
	Category Category
	Items    []Unit

	// Gallery is set on image segments by AttachGalleries.
	Gallery *GalleryGroup
}

// Tokens returns the unit texts of the segment.
func (s Segment) Tokens() []string {
	out := make([]string, len(s.Items))
	for i, item := range s.Items {
		out[i] = item.Text
	}

	return out
}

// MergeState is the state one merge pass threads through its units.
type MergeState struct {
	// LastSignificant is the category of the latest unit that was not layout.
	LastSignificant Category
}

// NewMergeState returns the state a pass starts from.
func NewMergeState() MergeState {
	return MergeState{LastSignificant: CategoryText}
}

// Merge folds the classified stream into segments in one forward pass. Line breaks
// and whitespace directly after an image are dropped so no gap opens under an image
// or gallery. Merge does not modify units and returns the same segments for the
// same input and starting state.
func Merge(units []Unit, state *MergeState) []Segment {
	var segments []Segment

	for _, u := range units {
		if !u.Category.IsSignificant() && state.LastSignificant == CategoryImage {
			continue
		}

		if u.Category.IsSignificant() {
			state.LastSignificant = u.Category
		}

		if n := len(segments); n > 0 && segments[n-1].Category == u.Category {
			segments[n-1].Items = append(segments[n-1].Items, u)
			continue
		}

		segments = append(segments, Segment{Category: u.Category, Items: []Unit{u}})
	}

	return segments
}

// ParseOptions are the switches of a full parse.
type ParseOptions struct {
	IgnoreMedia      bool
	IgnoreLinebreaks bool
	LinksAsText      bool
}

// Parse runs tokenize, classify and merge over a post body and attaches gallery
// groups to image segments.
func Parse(content string, opts ParseOptions) []Segment {
	tokens := Tokenize(content, !opts.IgnoreLinebreaks)
	classifyOpts := ClassifyOptions{IgnoreMedia: opts.IgnoreMedia, LinksAsText: opts.LinksAsText}

	units := make([]Unit, 0, len(tokens))
	for _, tok := range tokens {
		units = append(units, Classify(tok, classifyOpts)...)
	}

	state := NewMergeState()

	return AttachGalleries(Merge(units, &state))
}
