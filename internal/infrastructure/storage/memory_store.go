package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"

	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/infrastructure/cache"
	"SalesDriveSync/internal/ports"
)

// MemoryStore keeps the catalog in process memory. Used for dry runs and tests.
type MemoryStore struct {
	mu sync.Mutex

	lastEntry      int64
	lastAttachment int64
	lastTerm       int64

	entries     map[domain.EntryID]*domain.CatalogEntry
	attachments map[string]domain.AttachmentID
	terms       map[string]domain.TermID
	termNames   map[domain.TermID]string
	entryTerms  map[domain.EntryID][]domain.TermID

	cache  cache.Cache
	logger *slog.Logger
}

var _ ports.CatalogBackend = (*MemoryStore)(nil)

// NewMemoryStore builds an empty store; c may be nil.
func NewMemoryStore(c cache.Cache, logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		entries:     map[domain.EntryID]*domain.CatalogEntry{},
		attachments: map[string]domain.AttachmentID{},
		terms:       map[string]domain.TermID{},
		termNames:   map[domain.TermID]string{},
		entryTerms:  map[domain.EntryID][]domain.TermID{},
		cache:       c,
		logger:      logger,
	}
}

// RegisterAttachment makes url resolvable, returning the existing id when already known.
func (m *MemoryStore) RegisterAttachment(ctx context.Context, url string) (domain.AttachmentID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.attachments[url]; ok {
		return id, nil
	}
	m.lastAttachment++
	id := domain.AttachmentID(m.lastAttachment)
	m.attachments[url] = id
	return id, nil
}

// FindByExternalID returns the lowest-id entry carrying externalID, or nil.
func (m *MemoryStore) FindByExternalID(ctx context.Context, externalID string) (*domain.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var found *domain.CatalogEntry
	for _, entry := range m.entries {
		if entry.ExternalID != externalID {
			continue
		}
		if found == nil || entry.ID < found.ID {
			found = entry
		}
	}
	if found == nil {
		return nil, nil
	}
	return m.snapshot(found), nil
}

// GetEntry returns a copy of the entry or domain.ErrEntryNotFound.
func (m *MemoryStore) GetEntry(ctx context.Context, id domain.EntryID) (*domain.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[id]
	if !ok {
		return nil, fmt.Errorf("entry %d: %w", id, domain.ErrEntryNotFound)
	}
	return m.snapshot(entry), nil
}

// Entries lists every entry ordered by id.
func (m *MemoryStore) Entries() []domain.CatalogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]domain.CatalogEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		list = append(list, *m.snapshot(entry))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// CreateEntry stores a new entry from fields.
func (m *MemoryStore) CreateEntry(ctx context.Context, fields domain.EntryFields) (domain.EntryID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastEntry++
	id := domain.EntryID(m.lastEntry)
	m.entries[id] = &domain.CatalogEntry{
		ID:           id,
		ExternalID:   fields.ExternalID,
		Title:        fields.Title,
		Body:         fields.Body,
		Excerpt:      fields.Excerpt,
		Status:       fields.Status,
		Price:        fields.Price,
		RegularPrice: fields.RegularPrice,
		SalePrice:    fields.SalePrice,
		SKU:          fields.SKU,
		StockStatus:  domain.StockOutOfStock,
		Visibility:   domain.VisibilityHidden,
	}
	return id, nil
}

// UpdateEntry overwrites content, price and sku. Status and external id are left alone.
func (m *MemoryStore) UpdateEntry(ctx context.Context, id domain.EntryID, fields domain.EntryFields) error {
	return m.mutate(ctx, id, func(entry *domain.CatalogEntry) {
		entry.Title = fields.Title
		entry.Body = fields.Body
		entry.Excerpt = fields.Excerpt
		entry.Price = fields.Price
		entry.RegularPrice = fields.RegularPrice
		entry.SalePrice = fields.SalePrice
		entry.SKU = fields.SKU
	})
}

// SetStockState applies the stock fields.
func (m *MemoryStore) SetStockState(ctx context.Context, id domain.EntryID, state domain.StockState) error {
	return m.mutate(ctx, id, func(entry *domain.CatalogEntry) {
		entry.StockQty = state.Quantity
		entry.StockStatus = state.Status
		entry.Visibility = state.Visibility
		entry.Status = state.PostStatus
	})
}

// ResolveAttachmentByURL looks up a registered attachment.
func (m *MemoryStore) ResolveAttachmentByURL(ctx context.Context, url string) (domain.AttachmentID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.attachments[url]
	return id, ok, nil
}

// SetPrimaryImage sets the entry thumbnail.
func (m *MemoryStore) SetPrimaryImage(ctx context.Context, id domain.EntryID, attachment domain.AttachmentID) error {
	return m.mutate(ctx, id, func(entry *domain.CatalogEntry) {
		entry.ThumbnailID = attachment
	})
}

// ClearPrimaryImage removes the entry thumbnail.
func (m *MemoryStore) ClearPrimaryImage(ctx context.Context, id domain.EntryID) error {
	return m.mutate(ctx, id, func(entry *domain.CatalogEntry) {
		entry.ThumbnailID = 0
	})
}

// AppendGalleryImage appends to the comma-joined gallery list.
func (m *MemoryStore) AppendGalleryImage(ctx context.Context, id domain.EntryID, attachment domain.AttachmentID) error {
	return m.mutate(ctx, id, func(entry *domain.CatalogEntry) {
		entry.Gallery = appendGallery(entry.Gallery, attachment)
	})
}

// ClearGallery empties the gallery list.
func (m *MemoryStore) ClearGallery(ctx context.Context, id domain.EntryID) error {
	return m.mutate(ctx, id, func(entry *domain.CatalogEntry) {
		entry.Gallery = ""
	})
}

// TermExists looks a term up by exact name.
func (m *MemoryStore) TermExists(ctx context.Context, name string) (domain.TermID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.terms[name]
	return id, ok, nil
}

// CreateTerm adds a term; empty or duplicate names fail with domain.ErrTermCreateFailed.
func (m *MemoryStore) CreateTerm(ctx context.Context, name string) (domain.TermID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == "" {
		return 0, fmt.Errorf("%w: a name is required", domain.ErrTermCreateFailed)
	}
	if _, ok := m.terms[name]; ok {
		return 0, fmt.Errorf("%w: term %q already exists", domain.ErrTermCreateFailed, name)
	}

	m.lastTerm++
	id := domain.TermID(m.lastTerm)
	m.terms[name] = id
	m.termNames[id] = name
	return id, nil
}

// AssignTerm adds term to the entry's categories if it is not there yet.
func (m *MemoryStore) AssignTerm(ctx context.Context, id domain.EntryID, term domain.TermID) error {
	return m.mutate(ctx, id, func(entry *domain.CatalogEntry) {
		for _, existing := range m.entryTerms[id] {
			if existing == term {
				return
			}
		}
		m.entryTerms[id] = append(m.entryTerms[id], term)
	})
}

// mutate applies fn under the lock and drops the cached presentation.
func (m *MemoryStore) mutate(ctx context.Context, id domain.EntryID, fn func(entry *domain.CatalogEntry)) error {
	m.mu.Lock()
	entry, ok := m.entries[id]
	if ok {
		fn(entry)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("entry %d: %w", id, domain.ErrEntryNotFound)
	}
	invalidatePresentation(ctx, m.cache, id, m.logger)
	return nil
}

func (m *MemoryStore) snapshot(entry *domain.CatalogEntry) *domain.CatalogEntry {
	copied := *entry
	copied.Terms = nil
	for _, term := range m.entryTerms[entry.ID] {
		copied.Terms = append(copied.Terms, m.termNames[term])
	}
	return &copied
}

func appendGallery(gallery string, attachment domain.AttachmentID) string {
	id := strconv.FormatInt(int64(attachment), 10)
	if gallery == "" {
		return id
	}
	return gallery + "," + id
}

func invalidatePresentation(ctx context.Context, c cache.Cache, id domain.EntryID, logger *slog.Logger) {
	if c == nil {
		return
	}
	if err := c.Delete(ctx, cache.PresentationKey(id)); err != nil && logger != nil {
		logger.Warn("presentation cache not invalidated", "entry_id", id, "error", err)
	}
}
