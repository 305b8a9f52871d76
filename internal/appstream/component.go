package appstream

// SourceComponent is one desktop application parsed from the feed. The
// identity has the ".desktop" suffix already stripped.
type SourceComponent struct {
	ID            string
	Name          string
	Summary       string
	Description   string
	Categories    []string
	Keywords      []string
	Screenshots   []string
	IconURL       string
	Homepage      string
	License       string
	DeveloperName string

	doc *Element // preserved component document, owned by this component
}

// Feed holds the parsed component set. Iteration order is feed document
// order, which downstream matching and reporting depend on.
type Feed struct {
	order []string
	byID  map[string]*SourceComponent
}

// NewFeed returns an empty feed. Mainly useful for tests that assemble
// components by hand.
func NewFeed() *Feed {
	return &Feed{byID: make(map[string]*SourceComponent)}
}

// Add inserts a component. A duplicate identity replaces the earlier value
// but keeps its original position in the iteration order.
func (f *Feed) Add(c *SourceComponent) {
	if _, ok := f.byID[c.ID]; !ok {
		f.order = append(f.order, c.ID)
	}
	f.byID[c.ID] = c
}

// Len returns the number of distinct components.
func (f *Feed) Len() int {
	return len(f.order)
}

// IDs returns component identities in feed order.
func (f *Feed) IDs() []string {
	return f.order
}

// Get returns the component for an identity.
func (f *Feed) Get(id string) (*SourceComponent, bool) {
	c, ok := f.byID[id]
	return c, ok
}
