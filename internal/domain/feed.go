package domain

// FeedCategory is a category declared in the feed's <categories> block.
type FeedCategory struct {
	ID       int
	ParentID int
	Name     string
}

// RawOffer is a single <offer> element as read from the feed, before normalization.
// Every child element is kept as an ordered list so repeated elements never collapse.
type RawOffer struct {
	ExternalID  string
	Attributes  map[string]string
	Fields      map[string][]string
	Description string
}

// HasID reports whether the offer carried an id attribute.
func (o RawOffer) HasID() bool {
	_, ok := o.Attributes["id"]
	return ok && o.ExternalID != ""
}

// Field returns the first value of a child element or an empty string.
func (o RawOffer) Field(name string) string {
	values := o.Fields[name]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Feed is the parsed document: offers in document order plus the category list.
type Feed struct {
	Offers     []RawOffer
	Categories []FeedCategory
}

// CategoryIndex maps category ids to their definitions. Later duplicates win.
func (f Feed) CategoryIndex() map[int]FeedCategory {
	index := make(map[int]FeedCategory, len(f.Categories))
	for _, cat := range f.Categories {
		index[cat.ID] = cat
	}
	return index
}
