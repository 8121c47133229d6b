package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"spudverse/internal/config"
)

// Deployed Mini App builds call these exact paths; renaming a route breaks
// them. Unauthenticated requests must hit the handler chain (401/400), never
// fall through to a 404.
func TestClientFacingRoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, nil, &config.Config{}, nil, "test")

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user"},
		{http.MethodPost, "/api/user/create"},
		{http.MethodPost, "/api/tap"},
		{http.MethodGet, "/api/energy"},
		{http.MethodGet, "/api/missions"},
		{http.MethodPost, "/api/missions/verify-channel"},
		{http.MethodPost, "/api/missions/claim"},
		{http.MethodGet, "/api/leaderboard"},
		{http.MethodGet, "/api/achievements"},
		{http.MethodPost, "/api/user/level-up"},
		{http.MethodPost, "/api/upgrades/purchase"},
		{http.MethodPost, "/api/shop/buy"},
		{http.MethodPost, "/api/level-up"},
		{http.MethodPost, "/api/shop/items/1/buy"},
		{http.MethodPost, "/api/upgrades/buy"},
		{http.MethodGet, "/api/v1/user"},
		{http.MethodPost, "/api/v1/tap"},
		{http.MethodPost, "/api/v1/shop/buy"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code == http.StatusNotFound || w.Code == http.StatusMethodNotAllowed {
			t.Errorf("%s %s not registered (status %d)", tc.method, tc.path, w.Code)
		}
	}
}
