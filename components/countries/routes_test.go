package countries

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/admin"); got != "/admin/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("admin"); got != "/admin/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/admin/", WithRoutePath("api/c")); got != "/admin/api/c" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestComponent_RegisterRoutes(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := New(WithMaxLimit(1)).RegisterRoutes(mux, "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/api/countries" {
		t.Fatalf("unexpected registered pattern: %q", pattern)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, pattern, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	if _, err := RegisterRoutes(nil, ""); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
