package http

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"cakeshop/internal/config"
	"cakeshop/internal/domain"
	"cakeshop/internal/infra/kv"
	"cakeshop/internal/infra/ratelimit"
	"cakeshop/internal/infra/store"
	"cakeshop/internal/usecase"
)

func newLimitedServer(t *testing.T, cfg config.Config, limiter domain.RateLimiter) *Server {
	t.Helper()
	backend := kv.NewMemoryStore()
	return NewServerWithDeps(cfg, ServerDeps{
		Catalog:     usecase.NewCatalog(store.NewProductStore(backend)),
		Suggestions: usecase.NewSuggestions(store.NewSuggestionStore(backend)),
		RateLimiter: limiter,
	})
}

func TestRateLimit_DeniesOverLimit(t *testing.T) {
	cfg := config.Config{
		HTTPAddr:               ":0",
		AuthMode:               "none",
		RateLimitRequests:      2,
		RateLimitWindowSeconds: 60,
	}
	s := newLimitedServer(t, cfg, ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{}))

	for i := 0; i < 2; i++ {
		rec := doRequest(t, s, http.MethodGet, "/v1/products", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
		if rec.Header().Get("RateLimit-Limit") != "2" {
			t.Errorf("RateLimit-Limit = %q", rec.Header().Get("RateLimit-Limit"))
		}
	}

	rec := doRequest(t, s, http.MethodGet, "/v1/products", "", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if envelope := decodeEnvelope(t, rec); envelope.Error != "RATE_LIMITED" {
		t.Fatalf("error = %q", envelope.Error)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("denied response must carry Retry-After")
	}

	// Routes have independent windows.
	rec = doRequest(t, s, http.MethodGet, "/v1/suggestions", "", nil)
	if rec.Code == http.StatusTooManyRequests {
		t.Fatal("other route must not share the window")
	}
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string, int, time.Duration) (domain.RateLimitDecision, error) {
	return domain.RateLimitDecision{}, errors.New("backend down")
}

func TestRateLimit_FailOpenByDefault(t *testing.T) {
	cfg := config.Config{
		HTTPAddr:               ":0",
		AuthMode:               "none",
		RateLimitRequests:      1,
		RateLimitWindowSeconds: 60,
	}
	s := newLimitedServer(t, cfg, failingLimiter{})

	rec := doRequest(t, s, http.MethodGet, "/v1/products", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want fail-open 200", rec.Code)
	}
}

func TestRateLimit_FailClosed(t *testing.T) {
	cfg := config.Config{
		HTTPAddr:               ":0",
		AuthMode:               "none",
		RateLimitRequests:      1,
		RateLimitWindowSeconds: 60,
		RateLimitFailClosed:    true,
	}
	s := newLimitedServer(t, cfg, failingLimiter{})

	rec := doRequest(t, s, http.MethodGet, "/v1/products", "", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if envelope := decodeEnvelope(t, rec); envelope.Error != "RATE_LIMIT_UNAVAILABLE" {
		t.Fatalf("error = %q", envelope.Error)
	}
}

func TestRateLimit_SubjectScoping(t *testing.T) {
	cfg := config.Config{
		HTTPAddr:                ":0",
		AuthMode:                "oidc",
		RateLimitRequests:       1,
		RateLimitWindowSeconds:  60,
		RateLimitIncludeSubject: true,
	}
	backend := kv.NewMemoryStore()
	auth := &fakeAuthenticator{principal: domain.Principal{Subject: "user-a"}}
	s := NewServerWithDeps(cfg, ServerDeps{
		Catalog:       usecase.NewCatalog(store.NewProductStore(backend)),
		Suggestions:   usecase.NewSuggestions(store.NewSuggestionStore(backend)),
		Authenticator: auth,
		RateLimiter:   ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{}),
	})
	headers := map[string]string{"Authorization": "Bearer some.jwt.token"}

	if rec := doRequest(t, s, http.MethodGet, "/v1/products", "", headers); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	if rec := doRequest(t, s, http.MethodGet, "/v1/products", "", headers); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}

	// A different subject gets its own window.
	auth.principal = domain.Principal{Subject: "user-b"}
	if rec := doRequest(t, s, http.MethodGet, "/v1/products", "", headers); rec.Code != http.StatusOK {
		t.Fatalf("other subject status = %d", rec.Code)
	}
}
