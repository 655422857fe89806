package domain

// EntryID identifies a catalog entry inside the Catalog Store.
type EntryID int64

// AttachmentID identifies a media attachment known to the Catalog Store.
type AttachmentID int64

// TermID identifies a product category term.
type TermID int64

// ExternalIDMetaKey is the metadata key holding the feed's product id on an entry.
const ExternalIDMetaKey = "salesdrive_product_id"

// Post statuses used by the reconciler.
const (
	StatusDraft   = "draft"
	StatusPublish = "publish"
)

// EntryFields is the field set written on create and update.
type EntryFields struct {
	Title        string
	Body         string
	Excerpt      string
	Status       string
	Price        string
	RegularPrice string
	SalePrice    string
	SKU          string
	ExternalID   string
}

// CatalogEntry is the store-side product representation.
type CatalogEntry struct {
	ID           EntryID
	ExternalID   string
	Title        string
	Body         string
	Excerpt      string
	Status       string
	Price        string
	RegularPrice string
	SalePrice    string
	SKU          string
	StockQty     int
	StockStatus  StockStatus
	Visibility   Visibility
	ThumbnailID  AttachmentID
	Gallery      string
	Terms        []string
}

// Outcome is the result of reconciling one record.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)
