// Package prefs stores per-visitor reader preferences: the chosen locale
// and color theme. Visitors are identified by an opaque cookie.
package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/db"
)

// Theme is the reader's color scheme choice.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// ErrNotFound is returned when a visitor has no saved preferences.
var ErrNotFound = errors.New("prefs: not found")

// Preferences is one visitor's saved choices.
type Preferences struct {
	VisitorID string    `json:"-"`
	Locale    string    `json:"locale"`
	Theme     Theme     `json:"theme"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store persists preferences in the visitor_preferences table.
type Store struct {
	db *db.DB
}

// NewStore creates a new preference store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Get returns the saved preferences of a visitor, or ErrNotFound.
func (s *Store) Get(ctx context.Context, visitorID string) (*Preferences, error) {
	p := &Preferences{VisitorID: visitorID}
	var theme string
	err := s.db.QueryRowContext(ctx,
		`SELECT locale, theme, updated_at FROM visitor_preferences WHERE visitor_id = ?`, visitorID,
	).Scan(&p.Locale, &theme, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting preferences: %w", err)
	}
	p.Theme = Theme(theme)
	return p, nil
}

// Save inserts or replaces a visitor's preferences.
func (s *Store) Save(ctx context.Context, p *Preferences) error {
	if p.VisitorID == "" {
		return errors.New("prefs: visitor id is required")
	}
	if p.Theme == "" {
		p.Theme = ThemeSystem
	}
	if !p.Theme.Valid() {
		return fmt.Errorf("prefs: invalid theme %q", p.Theme)
	}
	p.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitor_preferences (visitor_id, locale, theme, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(visitor_id) DO UPDATE SET locale = excluded.locale, theme = excluded.theme, updated_at = excluded.updated_at`,
		p.VisitorID, p.Locale, string(p.Theme), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// Delete removes a visitor's preferences.
func (s *Store) Delete(ctx context.Context, visitorID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM visitor_preferences WHERE visitor_id = ?`, visitorID); err != nil {
		return fmt.Errorf("deleting preferences: %w", err)
	}
	return nil
}
