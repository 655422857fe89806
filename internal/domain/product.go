package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ProductRecord is the normalized, fully populated view of one offer.
type ProductRecord struct {
	ExternalID       string
	Title            string
	Description      string
	Excerpt          string
	Price            string
	SKU              string
	Quantity         string
	CategoryName     string
	PrimaryImageURL  string
	GalleryImageURLs []string
}

// HasPrimaryImage reports whether the feed supplied a primary picture.
func (r ProductRecord) HasPrimaryImage() bool {
	return r.PrimaryImageURL != ""
}

// QuantityValue interprets Quantity as an integer. Anything non-numeric is 0.
func (r ProductRecord) QuantityValue() int {
	raw := strings.TrimSpace(r.Quantity)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err == nil {
		return n
	}
	if errors.Is(err, strconv.ErrRange) {
		// Atoi saturates at the bound matching the sign.
		return n
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}
