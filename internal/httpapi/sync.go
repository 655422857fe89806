package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/infrastructure/cache"
	"SalesDriveSync/pkg/apierror"
)

// DefaultTokenTTL bounds how long an issued trigger token stays valid.
const DefaultTokenTTL = 10 * time.Minute

// SyncRunner executes one sync run.
type SyncRunner interface {
	Run(ctx context.Context, trigger domain.TriggerKind) (domain.RunReport, error)
}

// SyncHandler issues one-time tokens and runs manual syncs.
type SyncHandler struct {
	runner   SyncRunner
	tokens   cache.Cache
	tokenTTL time.Duration
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewSyncHandler wires the runner with a token cache and a trigger rate limiter.
func NewSyncHandler(runner SyncRunner, tokens cache.Cache, tokenTTL time.Duration, limiter *rate.Limiter, logger *slog.Logger) *SyncHandler {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &SyncHandler{
		runner:   runner,
		tokens:   tokens,
		tokenTTL: tokenTTL,
		limiter:  limiter,
		logger:   logger,
	}
}

// TokenResponse is returned by IssueToken.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// SyncRequest is the manual trigger payload.
type SyncRequest struct {
	Run   bool   `json:"run"`
	Token string `json:"token"`
}

// IssueToken handles POST /api/v1/sync/token
func (h *SyncHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	token := uuid.NewString()
	if err := h.tokens.Set(r.Context(), cache.TokenKey(token), []byte("1"), h.tokenTTL); err != nil {
		h.logger.Error("trigger token not stored", "error", err)
		writeError(w, apierror.InternalError("failed to issue token"))
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresIn: int(h.tokenTTL.Seconds()),
	})
}

// Trigger handles POST /api/v1/sync
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	req, err := decodeSyncRequest(r)
	if err != nil {
		writeError(w, apierror.BadRequest("invalid request body"))
		return
	}
	if !req.Run {
		writeError(w, apierror.BadRequest("run=true is required"))
		return
	}

	if h.limiter != nil && !h.limiter.Allow() {
		writeError(w, apierror.TooManyRequests("sync triggered too often"))
		return
	}

	if req.Token == "" {
		writeError(w, apierror.Forbidden("token is required"))
		return
	}
	valid, err := h.tokens.Take(r.Context(), cache.TokenKey(req.Token))
	if err != nil {
		h.logger.Error("trigger token lookup failed", "error", err)
		writeError(w, apierror.InternalError("failed to verify token"))
		return
	}
	if !valid {
		writeError(w, apierror.Forbidden("token is invalid or already used"))
		return
	}

	// The run outlives a dropped client connection.
	report, err := h.runner.Run(context.WithoutCancel(r.Context()), domain.TriggerManual)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, report)
	case errors.Is(err, domain.ErrRunInProgress):
		writeError(w, apierror.Conflict("a sync run is already in progress"))
	case errors.Is(err, domain.ErrFeedUnreachable):
		writeError(w, apierror.BadGateway(domain.FeedUnreachableMessage))
	case errors.Is(err, domain.ErrMalformedFeed):
		writeError(w, apierror.Unprocessable(err.Error()))
	default:
		writeError(w, apierror.InternalError(err.Error()))
	}
}

func decodeSyncRequest(r *http.Request) (SyncRequest, error) {
	var req SyncRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		defer r.Body.Close()
		err := json.NewDecoder(r.Body).Decode(&req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.Run, _ = strconv.ParseBool(r.Form.Get("run"))
	req.Token = r.Form.Get("token")
	return req, nil
}
