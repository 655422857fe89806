package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/infrastructure/cache"
	"SalesDriveSync/pkg/apierror"
)

// EntryFinder looks entries up by feed id.
type EntryFinder interface {
	FindByExternalID(ctx context.Context, externalID string) (*domain.CatalogEntry, error)
}

// ProductPresentation is the cached price and stock view of an entry.
type ProductPresentation struct {
	EntryID      int64    `json:"entry_id"`
	ExternalID   string   `json:"external_id"`
	Title        string   `json:"title"`
	Excerpt      string   `json:"excerpt,omitempty"`
	Status       string   `json:"status"`
	Price        string   `json:"price"`
	RegularPrice string   `json:"regular_price"`
	SalePrice    string   `json:"sale_price"`
	SKU          string   `json:"sku"`
	StockQty     int      `json:"stock_qty"`
	StockStatus  string   `json:"stock_status"`
	Visibility   string   `json:"visibility"`
	Categories   []string `json:"categories"`
}

// ProductHandler serves entry presentations through the presentation cache.
type ProductHandler struct {
	entries EntryFinder
	cache   cache.Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewProductHandler wires the store and cache; c may be nil.
func NewProductHandler(entries EntryFinder, c cache.Cache, ttl time.Duration, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{entries: entries, cache: c, ttl: ttl, logger: logger}
}

// Get handles GET /api/v1/products/{externalID}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalID")

	entry, err := h.entries.FindByExternalID(r.Context(), externalID)
	if err != nil {
		h.logger.Error("entry lookup failed", "external_id", externalID, "error", err)
		writeError(w, apierror.InternalError("failed to load product"))
		return
	}
	if entry == nil {
		writeError(w, apierror.NotFound("product not found"))
		return
	}

	render := func() ([]byte, error) {
		return json.Marshal(presentationOf(entry))
	}

	var payload []byte
	if h.cache != nil {
		payload, err = h.cache.GetOrSet(r.Context(), cache.PresentationKey(entry.ID), h.ttl, render)
	} else {
		payload, err = render()
	}
	if err != nil {
		h.logger.Error("presentation not rendered", "entry_id", entry.ID, "error", err)
		writeError(w, apierror.InternalError("failed to render product"))
		return
	}

	writeJSON(w, http.StatusOK, json.RawMessage(payload))
}

func presentationOf(entry *domain.CatalogEntry) ProductPresentation {
	categories := entry.Terms
	if categories == nil {
		categories = []string{}
	}
	return ProductPresentation{
		EntryID:      int64(entry.ID),
		ExternalID:   entry.ExternalID,
		Title:        entry.Title,
		Excerpt:      entry.Excerpt,
		Status:       entry.Status,
		Price:        entry.Price,
		RegularPrice: entry.RegularPrice,
		SalePrice:    entry.SalePrice,
		SKU:          entry.SKU,
		StockQty:     entry.StockQty,
		StockStatus:  string(entry.StockStatus),
		Visibility:   string(entry.Visibility),
		Categories:   categories,
	}
}
