package ports

import (
	"context"
	"time"

	"SalesDriveSync/internal/domain"
)

// FeedSource downloads and parses the SalesDrive feed.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string) (domain.Feed, error)
}

// EntryStore owns catalog entries and their stock state.
type EntryStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*domain.CatalogEntry, error)
	GetEntry(ctx context.Context, id domain.EntryID) (*domain.CatalogEntry, error)
	CreateEntry(ctx context.Context, fields domain.EntryFields) (domain.EntryID, error)
	UpdateEntry(ctx context.Context, id domain.EntryID, fields domain.EntryFields) error
	// SetStockState also invalidates any cached presentation of the entry.
	SetStockState(ctx context.Context, id domain.EntryID, state domain.StockState) error
}

// MediaStore resolves image URLs to attachments and links them to entries.
type MediaStore interface {
	ResolveAttachmentByURL(ctx context.Context, url string) (domain.AttachmentID, bool, error)
	SetPrimaryImage(ctx context.Context, id domain.EntryID, attachment domain.AttachmentID) error
	ClearPrimaryImage(ctx context.Context, id domain.EntryID) error
	AppendGalleryImage(ctx context.Context, id domain.EntryID, attachment domain.AttachmentID) error
	ClearGallery(ctx context.Context, id domain.EntryID) error
}

// MediaRegistry records which image URLs the catalog already holds as attachments.
type MediaRegistry interface {
	RegisterAttachment(ctx context.Context, url string) (domain.AttachmentID, error)
}

// TermStore manages product category terms.
type TermStore interface {
	TermExists(ctx context.Context, name string) (domain.TermID, bool, error)
	CreateTerm(ctx context.Context, name string) (domain.TermID, error)
	// AssignTerm adds the term to the entry without removing existing ones.
	AssignTerm(ctx context.Context, id domain.EntryID, term domain.TermID) error
}

// CatalogStore is the full collaborator the reconciler writes to.
type CatalogStore interface {
	EntryStore
	MediaStore
	TermStore
}

// CatalogBackend is a CatalogStore that also accepts attachment registrations.
type CatalogBackend interface {
	CatalogStore
	MediaRegistry
}

// EventPublisher announces reconcile outcomes to downstream consumers.
type EventPublisher interface {
	PublishOutcome(ctx context.Context, record domain.ProductRecord, id domain.EntryID, outcome domain.Outcome) error
}

// Notifier delivers a human-readable run summary.
type Notifier interface {
	PublishReport(ctx context.Context, report domain.RunReport) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
