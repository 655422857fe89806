package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/ports"
)

// CategoryResolver finds or creates a category term and attaches an entry to it.
type CategoryResolver struct {
	terms  ports.TermStore
	logger *slog.Logger
}

// NewCategoryResolver wires a term store.
func NewCategoryResolver(terms ports.TermStore, logger *slog.Logger) *CategoryResolver {
	return &CategoryResolver{terms: terms, logger: logger}
}

// ResolveAndAssign attaches the entry to the term called name, creating the term if needed.
// An empty name is a no-op. A failed term creation is logged and swallowed.
func (r *CategoryResolver) ResolveAndAssign(ctx context.Context, name string, id domain.EntryID) error {
	if name == "" {
		r.debug("empty category name, nothing to assign", "entry_id", id)
		return nil
	}

	termID, exists, err := r.terms.TermExists(ctx, name)
	if err != nil {
		return fmt.Errorf("lookup term %q: %w", name, err)
	}

	if !exists {
		termID, err = r.terms.CreateTerm(ctx, name)
		if err != nil {
			r.warn("category term not created, skipping assignment", "category", name, "entry_id", id, "error", err)
			return nil
		}
		r.debug("category term created", "category", name, "term_id", termID)
	}

	if err := r.terms.AssignTerm(ctx, id, termID); err != nil {
		return fmt.Errorf("assign term %q: %w", name, err)
	}
	return nil
}

func (r *CategoryResolver) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *CategoryResolver) warn(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
