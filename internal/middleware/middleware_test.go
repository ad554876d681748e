package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/post-office-sim/internal/auth"
)

func protectedEcho(t *testing.T, secret string, roles ...string) *echo.Echo {
	t.Helper()
	e := echo.New()
	g := e.Group("/v1", JWTAuth(secret), RequireRole(roles...))
	g.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	return e
}

func get(e *echo.Echo, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/ping", nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	e := protectedEcho(t, "s3cret", "ADMIN")
	if rec := get(e, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", rec.Code)
	}
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	e := protectedEcho(t, "s3cret", "ADMIN")
	if rec := get(e, "not.a.jwt"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d", rec.Code)
	}

	other, err := auth.NewAccessToken("different-secret", "admin", "ADMIN", 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rec := get(e, other.Token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status = %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := protectedEcho(t, "s3cret", "ADMIN")

	admin, err := auth.NewAccessToken("s3cret", "admin", "ADMIN", 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rec := get(e, admin.Token); rec.Code != http.StatusOK {
		t.Fatalf("admin token: status = %d body = %s", rec.Code, rec.Body.String())
	}

	viewer, err := auth.NewAccessToken("s3cret", "viewer", "VIEWER", 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if rec := get(e, viewer.Token); rec.Code != http.StatusForbidden {
		t.Fatalf("wrong role: status = %d", rec.Code)
	}
}
