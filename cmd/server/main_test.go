package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/navigator-gateway/internal/application"
	"github.com/eugenenazirov/navigator-gateway/internal/config"
	"github.com/eugenenazirov/navigator-gateway/internal/redirects"
)

func TestBuildRootHandler(t *testing.T) {
	apiInvoked := false
	apiHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/health" {
			t.Fatalf("unexpected path passed to API handler: %s", r.URL.Path)
		}
		apiInvoked = true
		w.WriteHeader(http.StatusNoContent)
	})
	originInvoked := false
	origin := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		originInvoked = true
		w.WriteHeader(http.StatusOK)
	})

	handler := application.BuildRootHandler(application.RootOptions{
		API:             apiHandler,
		Origin:          origin,
		PrefixRedirects: config.DefaultPrefixRedirects(),
		Logger:          zaptest.NewLogger(t),
	})

	t.Run("redirects auth prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/anything-here", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusPermanentRedirect {
			t.Fatalf("expected status 308, got %d", rec.Code)
		}
		if got := rec.Header().Get("Location"); got != "/" {
			t.Fatalf("expected Location /, got %q", got)
		}
	})

	t.Run("forwards unknown paths to origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/no-such-path", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !originInvoked {
			t.Fatalf("expected origin handler to be invoked")
		}
		if rec.Header().Get("Location") != "" {
			t.Fatalf("expected no Location header")
		}
	})

	t.Run("forwards api traffic", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
		if !apiInvoked {
			t.Fatalf("expected API handler to be invoked")
		}
	})
}

func TestDefaultRedirectResourceLoads(t *testing.T) {
	if _, err := redirects.LoadResource(redirects.DefaultResource); err != nil {
		t.Fatalf("expected bundled redirect resource to load: %v", err)
	}
}
