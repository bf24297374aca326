package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/db"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewStore(database)
}

func TestStoreSaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Get(ctx, "v1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := store.Save(ctx, &Preferences{VisitorID: "v1", Locale: "cs", Theme: ThemeDark}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p, err := store.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Locale != "cs" || p.Theme != ThemeDark {
		t.Errorf("got %+v", p)
	}
	if p.UpdatedAt.IsZero() {
		t.Error("expected updated_at to be set")
	}

	// Upsert replaces the row.
	if err := store.Save(ctx, &Preferences{VisitorID: "v1", Locale: "de"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p, err = store.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Locale != "de" || p.Theme != ThemeSystem {
		t.Errorf("after upsert got %+v", p)
	}

	if err := store.Delete(ctx, "v1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, "v1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreSaveValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, &Preferences{Theme: ThemeLight}); err == nil {
		t.Error("expected error for empty visitor id")
	}
	if err := store.Save(ctx, &Preferences{VisitorID: "v1", Theme: "sepia"}); err == nil {
		t.Error("expected error for invalid theme")
	}
}

func newTestRouter(t *testing.T) (chi.Router, *Store) {
	t.Helper()
	store := newTestStore(t)
	r := chi.NewRouter()
	RegisterRoutes(r, store, func(l string) bool { return l == "en" || l == "cs" })
	return r, store
}

func TestGetPrefsWithoutCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/prefs", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var p Preferences
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Theme != ThemeSystem || p.Locale != "" {
		t.Errorf("expected default preferences, got %+v", p)
	}
}

func TestPutPrefsIssuesCookie(t *testing.T) {
	r, store := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/api/prefs", strings.NewReader(`{"theme":"dark"}`)))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := w.Result()
	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == VisitorCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected visitor cookie")
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}

	// A second update with the cookie merges into the saved row.
	req := httptest.NewRequest("PUT", "/api/prefs", strings.NewReader(`{"locale":"cs"}`))
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for a known visitor")
	}

	p, err := store.Get(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.Locale != "cs" || p.Theme != ThemeDark {
		t.Errorf("got %+v", p)
	}

	req = httptest.NewRequest("GET", "/api/prefs", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var got Preferences
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Locale != "cs" || got.Theme != ThemeDark {
		t.Errorf("GET returned %+v", got)
	}
}

func TestPutPrefsRejectsInvalid(t *testing.T) {
	r, _ := newTestRouter(t)

	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed", `{`, "invalid request body"},
		{"unknown locale", `{"locale":"fr"}`, "unknown locale"},
		{"bad theme", `{"theme":"sepia"}`, "theme must be light, dark or system"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("PUT", "/api/prefs", strings.NewReader(tt.body)))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body["error"] != tt.want {
				t.Errorf("error = %q, want %q", body["error"], tt.want)
			}
		})
	}
}

func TestVisitorIDRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: VisitorCookie, Value: "not-a-uuid"})
	if _, ok := VisitorID(req); ok {
		t.Error("expected garbage cookie to be ignored")
	}
}
