package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/infrastructure/cache"
	"SalesDriveSync/internal/infrastructure/storage"
)

type stubRunner struct {
	report domain.RunReport
	err    error
	calls  int
	ctxErr error
}

func (s *stubRunner) Run(ctx context.Context, trigger domain.TriggerKind) (domain.RunReport, error) {
	s.calls++
	s.ctxErr = ctx.Err()
	s.report.Trigger = trigger
	return s.report, s.err
}

type fixture struct {
	router http.Handler
	runner *stubRunner
	cache  *cache.MemoryCache
	store  *storage.MemoryStore
}

func newFixture(t *testing.T, limiter *rate.Limiter) *fixture {
	t.Helper()

	c := cache.NewMemoryCache()
	t.Cleanup(func() { _ = c.Close() })
	store := storage.NewMemoryStore(c, slog.Default())
	runner := &stubRunner{report: domain.RunReport{Created: 2}}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}

	router := NewRouter(RouterConfig{
		Sync:     NewSyncHandler(runner, c, time.Minute, limiter, slog.Default()),
		Products: NewProductHandler(store, c, time.Minute, slog.Default()),
		Media:    NewMediaHandler(store, c, slog.Default()),
		Logger:   slog.Default(),
	})
	return &fixture{router: router, runner: runner, cache: c, store: store}
}

func (f *fixture) do(t *testing.T, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) issueToken(t *testing.T) string {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/sync/token", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	assert.Equal(t, 60, resp.Data.ExpiresIn)
	return resp.Data.Token
}

func form(run, token string) string {
	return url.Values{"run": {run}, "token": {token}}.Encode()
}

const formType = "application/x-www-form-urlencoded"

func TestSyncWithFormToken(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	token := f.issueToken(t)

	rec := f.do(t, http.MethodPost, "/api/v1/sync", form("true", token), formType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data domain.RunReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.TriggerManual, resp.Data.Trigger)
	assert.Equal(t, 2, resp.Data.Created)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = f.do(t, http.MethodPost, "/api/v1/sync", form("true", token), formType)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 1, f.runner.calls)
}

func TestSyncWithJSON(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	token := f.issueToken(t)

	body := fmt.Sprintf(`{"run":true,"token":%q}`, token)
	rec := f.do(t, http.MethodPost, "/api/v1/sync", body, "application/json")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSyncSurvivesClientDisconnect(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	token := f.issueToken(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(form("true", token))).WithContext(ctx)
	req.Header.Set("Content-Type", formType)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, f.runner.calls)
	assert.NoError(t, f.runner.ctxErr)
}

func TestRegisterAttachments(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	body := fmt.Sprintf(`{"token":%q,"urls":["https://cdn.example/a.jpg"," ","https://cdn.example/b.jpg"]}`, f.issueToken(t))
	rec := f.do(t, http.MethodPost, "/api/v1/attachments", body, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data []Attachment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)

	for _, a := range resp.Data {
		id, ok, err := f.store.ResolveAttachmentByURL(ctx, a.URL)
		require.NoError(t, err)
		require.True(t, ok, a.URL)
		assert.Equal(t, a.ID, int64(id))
	}
}

func TestRegisterAttachmentsRejections(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/attachments", "{", "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := fmt.Sprintf(`{"token":%q,"urls":[""]}`, f.issueToken(t))
	rec = f.do(t, http.MethodPost, "/api/v1/attachments", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/attachments", `{"token":"unknown","urls":["https://cdn.example/a.jpg"]}`, "application/json")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	_, ok, err := f.store.ResolveAttachmentByURL(context.Background(), "https://cdn.example/a.jpg")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSyncRejections(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/v1/sync", form("true", "unknown"), formType)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/sync", form("false", f.issueToken(t)), formType)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/sync", "{", "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, f.runner.calls)
}

func TestSyncRateLimited(t *testing.T) {
	t.Parallel()

	f := newFixture(t, rate.NewLimiter(rate.Every(time.Hour), 1))

	rec := f.do(t, http.MethodPost, "/api/v1/sync", form("true", f.issueToken(t)), formType)
	assert.Equal(t, http.StatusOK, rec.Code)

	token := f.issueToken(t)
	rec = f.do(t, http.MethodPost, "/api/v1/sync", form("true", token), formType)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	ok, err := f.cache.Take(context.Background(), cache.TokenKey(token))
	require.NoError(t, err)
	assert.True(t, ok, "rate limited request must not consume the token")
}

func TestSyncErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
		text   string
	}{
		{name: "in progress", err: domain.ErrRunInProgress, status: http.StatusConflict},
		{name: "unreachable", err: fmt.Errorf("fetch feed: %w", domain.ErrFeedUnreachable), status: http.StatusBadGateway, text: "Failed to load file."},
		{name: "malformed", err: fmt.Errorf("fetch feed: %w", domain.ErrMalformedFeed), status: http.StatusUnprocessableEntity},
		{name: "store", err: fmt.Errorf("reconcile offer 1: boom"), status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.runner.err = tc.err

			rec := f.do(t, http.MethodPost, "/api/v1/sync", form("true", f.issueToken(t)), formType)
			assert.Equal(t, tc.status, rec.Code)
			if tc.text != "" {
				assert.Contains(t, rec.Body.String(), tc.text)
			}
		})
	}
}

func TestProductPresentationCached(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()

	id, err := f.store.CreateEntry(ctx, domain.EntryFields{Title: "Widget", Price: "9.99", ExternalID: "100"})
	require.NoError(t, err)
	require.NoError(t, f.store.SetStockState(ctx, id, domain.StockStateFor(4)))

	rec := f.do(t, http.MethodGet, "/api/v1/products/100", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data ProductPresentation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Widget", resp.Data.Title)
	assert.Equal(t, 4, resp.Data.StockQty)
	assert.Equal(t, "instock", resp.Data.StockStatus)

	_, err = f.cache.Get(ctx, cache.PresentationKey(id))
	require.NoError(t, err)

	require.NoError(t, f.store.SetStockState(ctx, id, domain.StockStateFor(0)))
	_, err = f.cache.Get(ctx, cache.PresentationKey(id))
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	rec = f.do(t, http.MethodGet, "/api/v1/products/100", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "outofstock", resp.Data.StockStatus)
	assert.Equal(t, "hidden", resp.Data.Visibility)
}

func TestProductNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/api/v1/products/missing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/v1/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")

	rec = f.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
