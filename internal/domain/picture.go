package domain

// PictureKind tags how many picture URLs an offer carried.
type PictureKind int

const (
	PictureAbsent PictureKind = iota
	PictureSingle
	PictureMultiple
)

// Picture isolates the feed's inconsistent picture cardinality behind one value.
type Picture struct {
	urls []string
}

// NewPicture builds a Picture from raw <picture> values, dropping blanks.
func NewPicture(values []string) Picture {
	urls := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			urls = append(urls, v)
		}
	}
	return Picture{urls: urls}
}

// Kind reports which variant the picture data is.
func (p Picture) Kind() PictureKind {
	switch len(p.urls) {
	case 0:
		return PictureAbsent
	case 1:
		return PictureSingle
	default:
		return PictureMultiple
	}
}

// Primary returns the first URL, if any.
func (p Picture) Primary() (string, bool) {
	if len(p.urls) == 0 {
		return "", false
	}
	return p.urls[0], true
}

// Gallery returns every URL after the primary one. Never nil.
func (p Picture) Gallery() []string {
	if len(p.urls) < 2 {
		return []string{}
	}
	gallery := make([]string, len(p.urls)-1)
	copy(gallery, p.urls[1:])
	return gallery
}
