package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"SalesDriveSync/internal/infrastructure/cache"
	"SalesDriveSync/internal/ports"
	"SalesDriveSync/pkg/apierror"
)

// MediaHandler registers image URLs as catalog attachments.
type MediaHandler struct {
	registry ports.MediaRegistry
	tokens   cache.Cache
	logger   *slog.Logger
}

// NewMediaHandler wires the registry; tokens are the same one-time tokens the sync trigger uses.
func NewMediaHandler(registry ports.MediaRegistry, tokens cache.Cache, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{registry: registry, tokens: tokens, logger: logger}
}

// AttachmentsRequest is the registration payload.
type AttachmentsRequest struct {
	Token string   `json:"token"`
	URLs  []string `json:"urls"`
}

// Attachment pairs a URL with its attachment id.
type Attachment struct {
	URL string `json:"url"`
	ID  int64  `json:"id"`
}

// Register handles POST /api/v1/attachments
func (h *MediaHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req AttachmentsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	urls := make([]string, 0, len(req.URLs))
	for _, url := range req.URLs {
		if url = strings.TrimSpace(url); url != "" {
			urls = append(urls, url)
		}
	}
	if len(urls) == 0 {
		writeError(w, apierror.BadRequest("urls are required"))
		return
	}

	if req.Token == "" {
		writeError(w, apierror.Forbidden("token is required"))
		return
	}
	valid, err := h.tokens.Take(r.Context(), cache.TokenKey(req.Token))
	if err != nil {
		h.logger.Error("media token lookup failed", "error", err)
		writeError(w, apierror.InternalError("failed to verify token"))
		return
	}
	if !valid {
		writeError(w, apierror.Forbidden("token is invalid or already used"))
		return
	}

	attachments := make([]Attachment, 0, len(urls))
	for _, url := range urls {
		id, err := h.registry.RegisterAttachment(r.Context(), url)
		if err != nil {
			h.logger.Error("attachment not registered", "url", url, "error", err)
			writeError(w, apierror.InternalError("failed to register attachment"))
			return
		}
		attachments = append(attachments, Attachment{URL: url, ID: int64(id)})
	}

	writeJSON(w, http.StatusOK, attachments)
}
