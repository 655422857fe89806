// Package catalog applies normalized feed records to the Catalog Store.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/ports"
)

// GalleryMode controls what an update does with the existing gallery.
type GalleryMode string

const (
	// GalleryAppend adds resolved images after whatever the entry already has.
	GalleryAppend GalleryMode = "append"
	// GalleryReplace clears the gallery before appending on update.
	GalleryReplace GalleryMode = "replace"
)

// ParseGalleryMode falls back to GalleryAppend for unknown values.
func ParseGalleryMode(value string) GalleryMode {
	if GalleryMode(value) == GalleryReplace {
		return GalleryReplace
	}
	return GalleryAppend
}

// Reconciler performs the create-or-update merge for one record at a time.
type Reconciler struct {
	store      ports.CatalogStore
	categories *CategoryResolver
	gallery    GalleryMode
	logger     *slog.Logger
}

// NewReconciler wires the store; the category resolver shares the same store.
func NewReconciler(store ports.CatalogStore, mode GalleryMode, logger *slog.Logger) *Reconciler {
	if mode == "" {
		mode = GalleryAppend
	}
	return &Reconciler{
		store:      store,
		categories: NewCategoryResolver(store, logger),
		gallery:    mode,
		logger:     logger,
	}
}

// Reconcile looks the record up by external id and creates or updates the entry.
// Fields written before a failure stay written.
func (r *Reconciler) Reconcile(ctx context.Context, record domain.ProductRecord) (domain.EntryID, domain.Outcome, error) {
	existing, err := r.store.FindByExternalID(ctx, record.ExternalID)
	if err != nil {
		return 0, "", fmt.Errorf("find entry: %w", err)
	}

	if existing == nil {
		id, err := r.create(ctx, record)
		return id, domain.OutcomeCreated, err
	}

	return existing.ID, domain.OutcomeUpdated, r.update(ctx, existing.ID, record)
}

func (r *Reconciler) create(ctx context.Context, record domain.ProductRecord) (domain.EntryID, error) {
	fields := entryFields(record)
	fields.Status = domain.StatusDraft
	fields.ExternalID = record.ExternalID

	id, err := r.store.CreateEntry(ctx, fields)
	if err != nil {
		return 0, fmt.Errorf("create entry: %w", err)
	}
	r.debug("entry created", "external_id", record.ExternalID, "entry_id", id)

	if err := r.store.SetStockState(ctx, id, domain.StockStateFor(record.QuantityValue())); err != nil {
		return id, fmt.Errorf("set stock state: %w", err)
	}

	if record.HasPrimaryImage() {
		if err := r.setPrimaryImage(ctx, id, record.PrimaryImageURL); err != nil {
			return id, err
		}
	}

	if err := r.appendGallery(ctx, id, record.GalleryImageURLs); err != nil {
		return id, err
	}

	if err := r.categories.ResolveAndAssign(ctx, record.CategoryName, id); err != nil {
		return id, err
	}

	return id, nil
}

func (r *Reconciler) update(ctx context.Context, id domain.EntryID, record domain.ProductRecord) error {
	if err := r.store.UpdateEntry(ctx, id, entryFields(record)); err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	r.debug("entry updated", "external_id", record.ExternalID, "entry_id", id)

	if err := r.store.SetStockState(ctx, id, domain.StockStateFor(record.QuantityValue())); err != nil {
		return fmt.Errorf("set stock state: %w", err)
	}

	if record.HasPrimaryImage() {
		if err := r.store.ClearPrimaryImage(ctx, id); err != nil {
			return fmt.Errorf("clear primary image: %w", err)
		}
		if err := r.setPrimaryImage(ctx, id, record.PrimaryImageURL); err != nil {
			return err
		}
	}

	if r.gallery == GalleryReplace && len(record.GalleryImageURLs) > 0 {
		if err := r.store.ClearGallery(ctx, id); err != nil {
			return fmt.Errorf("clear gallery: %w", err)
		}
	}

	if err := r.appendGallery(ctx, id, record.GalleryImageURLs); err != nil {
		return err
	}

	return r.categories.ResolveAndAssign(ctx, record.CategoryName, id)
}

func (r *Reconciler) setPrimaryImage(ctx context.Context, id domain.EntryID, url string) error {
	attachment, ok, err := r.store.ResolveAttachmentByURL(ctx, url)
	if err != nil {
		return fmt.Errorf("resolve primary image %s: %w", url, err)
	}
	if !ok {
		r.debug("primary image has no attachment", "entry_id", id, "url", url)
		return nil
	}
	if err := r.store.SetPrimaryImage(ctx, id, attachment); err != nil {
		return fmt.Errorf("set primary image: %w", err)
	}
	return nil
}

func (r *Reconciler) appendGallery(ctx context.Context, id domain.EntryID, urls []string) error {
	for _, url := range urls {
		attachment, ok, err := r.store.ResolveAttachmentByURL(ctx, url)
		if err != nil {
			return fmt.Errorf("resolve gallery image %s: %w", url, err)
		}
		if !ok {
			r.debug("gallery image has no attachment", "entry_id", id, "url", url)
			continue
		}
		if err := r.store.AppendGalleryImage(ctx, id, attachment); err != nil {
			return fmt.Errorf("append gallery image: %w", err)
		}
	}
	return nil
}

func entryFields(record domain.ProductRecord) domain.EntryFields {
	return domain.EntryFields{
		Title:        record.Title,
		Body:         record.Description,
		Excerpt:      record.Excerpt,
		Price:        record.Price,
		RegularPrice: record.Price,
		SalePrice:    record.Price,
		SKU:          record.SKU,
	}
}

func (r *Reconciler) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
