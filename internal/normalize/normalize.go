// Package normalize maps raw feed offers onto ProductRecord values.
package normalize

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SalesDriveSync/internal/domain"
)

const excerptLimit = 160

// Normalize converts a raw offer. ok is false when the offer has no id and must be skipped.
func Normalize(raw domain.RawOffer, categories map[int]domain.FeedCategory) (domain.ProductRecord, bool) {
	if !raw.HasID() {
		return domain.ProductRecord{}, false
	}

	picture := domain.NewPicture(raw.Fields["picture"])
	primary, _ := picture.Primary()

	description := raw.Description
	if description == "" {
		description = raw.Field("description")
	}

	return domain.ProductRecord{
		ExternalID:       raw.ExternalID,
		Title:            raw.Field("name"),
		Description:      description,
		Excerpt:          Excerpt(description),
		Price:            raw.Field("price"),
		SKU:              raw.Field("vendorCode"),
		Quantity:         raw.Field("quantity_in_stock"),
		CategoryName:     categoryName(raw.Field("categoryId"), categories),
		PrimaryImageURL:  primary,
		GalleryImageURLs: picture.Gallery(),
	}, true
}

// NormalizeAll keeps input order and returns how many offers were omitted for lacking an id.
func NormalizeAll(offers []domain.RawOffer, categories map[int]domain.FeedCategory) ([]domain.ProductRecord, int) {
	records := make([]domain.ProductRecord, 0, len(offers))
	omitted := 0
	for _, raw := range offers {
		record, ok := Normalize(raw, categories)
		if !ok {
			omitted++
			continue
		}
		records = append(records, record)
	}
	return records, omitted
}

func categoryName(rawID string, categories map[int]domain.FeedCategory) string {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return ""
	}
	id, err := strconv.Atoi(rawID)
	if err != nil {
		return ""
	}
	if cat, ok := categories[id]; ok {
		return cat.Name
	}
	return ""
}

// Excerpt renders description markup as collapsed plain text, cut at a word boundary.
func Excerpt(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}

	text := markup
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}

	cut := runes[:excerptLimit]
	for i := len(cut) - 1; i > excerptLimit/2; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}
	return string(cut) + "…"
}
