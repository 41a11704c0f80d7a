package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/triviahq/gameshow-system/internal/core/domain"
)

func runGate(t *testing.T, role interface{}, min domain.Role) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}

	called := false
	handler := RequireRole(min)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

// Every role at or above the gate passes; every role below it is 403.
func TestRequireRole_Matrix(t *testing.T) {
	roles := []domain.Role{domain.RoleHost, domain.RoleProducer, domain.RoleAdmin}

	for _, min := range roles {
		for _, role := range roles {
			rec, called := runGate(t, role, min)
			if role.AtLeast(min) {
				if !called || rec.Code != http.StatusOK {
					t.Errorf("role %s at gate %s: expected pass, got %d", role, min, rec.Code)
				}
			} else {
				if called {
					t.Errorf("role %s at gate %s: handler must not run", role, min)
				}
				if rec.Code != http.StatusForbidden {
					t.Errorf("role %s at gate %s: expected 403, got %d", role, min, rec.Code)
				}
			}
		}
	}
}

// No session at all is 401, never 403.
func TestRequireRole_MissingSession(t *testing.T) {
	rec, called := runGate(t, nil, domain.RoleProducer)
	if called {
		t.Fatal("handler must not run without a session")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

// A role smuggled in as a plain string does not satisfy the gate.
func TestRequireRole_WrongClaimType(t *testing.T) {
	rec, called := runGate(t, "admin", domain.RoleAdmin)
	if called {
		t.Fatal("handler must not run with an untyped role")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthenticated_AllowsAnyValidRole(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleHost, domain.RoleProducer, domain.RoleAdmin} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("role", role)

		handler := Authenticated()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			t.Fatalf("role %s: %v", role, err)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("role %s: expected 200, got %d", role, rec.Code)
		}
	}
}
