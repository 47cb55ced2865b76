package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/webblog/publishing-api/internal/core/domain"
)

func runRBAC(t *testing.T, role string, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	if err := RBAC(allowed...)(next)(c); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	return rec
}

func TestRBAC_AllowsListedRole(t *testing.T) {
	rec := runRBAC(t, domain.RoleAuthor, domain.RoleAuthor)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRBAC_BlocksOtherRoles(t *testing.T) {
	if rec := runRBAC(t, domain.RoleReader, domain.RoleAuthor); rec.Code != http.StatusForbidden {
		t.Errorf("reader on author route: expected 403, got %d", rec.Code)
	}
	if rec := runRBAC(t, "", domain.RoleAuthor); rec.Code != http.StatusForbidden {
		t.Errorf("missing role: expected 403, got %d", rec.Code)
	}
}
