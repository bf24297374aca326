package outline

import (
	"context"
	"sync"
)

// Variant selects the presentation of an outline shell.
type Variant string

const (
	// Desktop is the persistently visible sticky side panel.
	Desktop Variant = "desktop"
	// Mobile is the on-demand bottom sheet that closes after a jump.
	Mobile Variant = "mobile"
)

// ActiveSource reports the currently active section.
type ActiveSource interface {
	Active() (string, bool)
}

// FixedActive is an ActiveSource that always reports the same section. The
// empty value reports no active section.
type FixedActive string

func (f FixedActive) Active() (string, bool) { return string(f), f != "" }

// JumpFunc requests navigation to a section and reports whether the request
// was accepted.
type JumpFunc func(ctx context.Context, sectionID string) bool

// Entry is one rendered outline row.
type Entry struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Level  int    `json:"level"`
	Active bool   `json:"active"`
}

// View is the render model shared by both variants.
type View struct {
	Variant   Variant `json:"variant"`
	Open      bool    `json:"open"`
	Query     string  `json:"query"`
	ActiveID  string  `json:"active,omitempty"`
	Progress  int     `json:"progress"`
	Entries   []Entry `json:"entries"`
	NoMatches bool    `json:"no_matches"`
}

// Shell binds sections, the active section, progress and the filter query
// into one outline. Desktop and Mobile behave identically except that a
// Mobile shell closes itself when a jump is accepted.
type Shell struct {
	variant  Variant
	sections []Section
	ids      []string
	active   ActiveSource
	jump     JumpFunc

	mu    sync.Mutex
	query string
	open  bool
}

// NewShell creates a shell. Desktop shells start open, Mobile shells closed.
func NewShell(variant Variant, sections []Section, active ActiveSource, jump JumpFunc) *Shell {
	return &Shell{
		variant:  variant,
		sections: sections,
		ids:      IDs(sections),
		active:   active,
		jump:     jump,
		open:     variant == Desktop,
	}
}

// Variant returns the shell's presentation variant.
func (s *Shell) Variant() Variant { return s.variant }

// SetQuery replaces the filter text.
func (s *Shell) SetQuery(q string) {
	s.mu.Lock()
	s.query = q
	s.mu.Unlock()
}

// Query returns the current filter text.
func (s *Shell) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// SetOpen opens or closes a Mobile sheet. Desktop panels are always open.
func (s *Shell) SetOpen(open bool) {
	if s.variant == Desktop {
		return
	}
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()
}

// IsOpen reports whether the shell is visible.
func (s *Shell) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Jump forwards a jump request. A Mobile sheet closes when it is accepted.
func (s *Shell) Jump(ctx context.Context, sectionID string) bool {
	accepted := s.jump(ctx, sectionID)
	if accepted && s.variant == Mobile {
		s.SetOpen(false)
	}
	return accepted
}

// View builds the current render model.
func (s *Shell) View() View {
	s.mu.Lock()
	query, open := s.query, s.open
	s.mu.Unlock()

	activeID, _ := s.active.Active()
	filtered := Filter(query, s.sections)
	entries := make([]Entry, len(filtered))
	for i, sec := range filtered {
		entries[i] = Entry{
			ID:     sec.ID,
			Title:  sec.Title,
			Level:  sec.Level,
			Active: sec.ID == activeID,
		}
	}

	return View{
		Variant:   s.variant,
		Open:      open,
		Query:     query,
		ActiveID:  activeID,
		Progress:  ProgressPercent(activeID, s.ids),
		Entries:   entries,
		NoMatches: len(entries) == 0,
	}
}
