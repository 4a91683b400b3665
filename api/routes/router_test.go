package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/velocitymotors/dealerdesk-backend/pkg/config"
	"github.com/velocitymotors/dealerdesk-backend/pkg/logger"
)

func testDeps() Deps {
	return Deps{
		Config: &config.Config{
			App: config.AppConfig{Env: "dev"},
			JWT: config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10},
		},
		Logger: logger.New(logger.Options{ServiceName: "router-test"}),
	}
}

func TestRouterHealthLive(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-DealerDesk-Env"); env != "dev" {
		t.Fatalf("expected env header dev, got %q", env)
	}
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	router := NewRouter(testDeps())

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/discounts"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/inventory/priority"},
		{http.MethodGet, "/api/v1/demand/mismatch"},
		{http.MethodGet, "/api/v1/notifications"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 got %d", tc.method, tc.path, resp.Code)
		}
	}
}
