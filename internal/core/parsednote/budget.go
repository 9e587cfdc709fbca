package parsednote

// Default budget values.
const (
	DefaultShortNoteWords  = 100
	DefaultMentionWeight   = 25
	DefaultImageWeight     = 100
	DefaultGalleryPerImage = 10
)

// Weights are the word costs of the heavier units.
type Weights struct {
	// Image is the cost of an image shown alone.
	Image int
	// GalleryPerImage multiplied by the gallery size is the cost of each gallery image.
	GalleryPerImage int
	// Mention is the cost of embeds, previewed links and embedded notes.
	Mention int
}

// DefaultWeights returns the stock weights.
func DefaultWeights() Weights {
	return Weights{
		Image:           DefaultImageWeight,
		GalleryPerImage: DefaultGalleryPerImage,
		Mention:         DefaultMentionWeight,
	}
}

// ImageCost is the cost of one image in a group of groupSize images.
func (w Weights) ImageCost(groupSize int) int {
	if groupSize <= 1 {
		return w.Image
	}

	return w.GalleryPerImage * groupSize
}

// UnitCost is the cost of one rendered unit. groupSize only matters for images;
// rich is set for a link shown with a preview card and a mention shown as an
// embedded note.
func (w Weights) UnitCost(c Category, groupSize int, rich bool) int {
	switch c {
	case CategoryLinebreak, CategoryWhitespace:
		return 0
	case CategoryImage:
		return w.ImageCost(groupSize)
	case CategoryVideo:
		return w.Mention
	case CategoryLink, CategoryNoteMention, CategoryTagMention:
		if rich {
			return w.Mention
		}

		return 1
	}

	if c.IsPlatformEmbed() {
		return w.Mention
	}

	return 1
}

// Budget counts rendered words for one render pass.
type Budget struct {
	enabled   bool
	ceiling   int
	consumed  int
	truncated bool
}

// NewBudget returns a budget. A disabled budget counts but never runs over.
func NewBudget(enabled bool, ceiling int) *Budget {
	return &Budget{enabled: enabled, ceiling: ceiling}
}

// Charge adds cost to the running total.
func (b *Budget) Charge(cost int) {
	if cost > 0 {
		b.consumed += cost
	}
}

// Consumed returns the running total.
func (b *Budget) Consumed() int {
	return b.consumed
}

// IsOverBudget reports whether nothing more may be rendered.
func (b *Budget) IsOverBudget() bool {
	return b.enabled && b.consumed >= b.ceiling
}

// Skip records that a segment of category c was not rendered.
func (b *Budget) Skip(c Category) {
	if c.IsSignificant() {
		b.truncated = true
	}
}

// Truncated reports whether content was cut.
func (b *Budget) Truncated() bool {
	return b.truncated
}
