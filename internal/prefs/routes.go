package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// VisitorCookie names the cookie carrying the visitor id.
const VisitorCookie = "wp_visitor"

const visitorCookieMaxAge = 365 * 24 * time.Hour

// LocaleValidator reports whether a locale code can be saved.
type LocaleValidator func(locale string) bool

// VisitorID returns the visitor id carried by r, if any.
func VisitorID(r *http.Request) (string, bool) {
	c, err := r.Cookie(VisitorCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

// ensureVisitor returns the request's visitor id, issuing a new cookie when
// there is none.
func ensureVisitor(w http.ResponseWriter, r *http.Request) string {
	if id, ok := VisitorID(r); ok {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(visitorCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// ForRequest returns the saved preferences of the visitor making r.
func (s *Store) ForRequest(ctx context.Context, r *http.Request) (*Preferences, bool) {
	id, ok := VisitorID(r)
	if !ok {
		return nil, false
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, false
	}
	return p, true
}

// RegisterRoutes mounts the preference endpoints on the given router.
func RegisterRoutes(r chi.Router, store *Store, validLocale LocaleValidator) {
	r.Get("/api/prefs", getPrefsHandler(store))
	r.Put("/api/prefs", putPrefsHandler(store, validLocale))
}

func getPrefsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := store.ForRequest(r.Context(), r)
		if !ok {
			p = &Preferences{Theme: ThemeSystem}
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type prefsUpdate struct {
	Locale *string `json:"locale"`
	Theme  *Theme  `json:"theme"`
}

func putPrefsHandler(store *Store, validLocale LocaleValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var upd prefsUpdate
		if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if upd.Locale != nil && validLocale != nil && !validLocale(*upd.Locale) {
			writeError(w, http.StatusBadRequest, "unknown locale")
			return
		}
		if upd.Theme != nil && !upd.Theme.Valid() {
			writeError(w, http.StatusBadRequest, "theme must be light, dark or system")
			return
		}

		id := ensureVisitor(w, r)
		p, err := store.Get(r.Context(), id)
		if errors.Is(err, ErrNotFound) {
			p = &Preferences{VisitorID: id, Theme: ThemeSystem}
		} else if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if upd.Locale != nil {
			p.Locale = *upd.Locale
		}
		if upd.Theme != nil {
			p.Theme = *upd.Theme
		}
		if err := store.Save(r.Context(), p); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
