package outline

import (
	"slices"
	"sync"
)

const (
	// DefaultScrollOffset is the lookahead distance in pixels added to the
	// scroll offset before comparing against section tops.
	DefaultScrollOffset = 100
	// DefaultBottomEpsilon is how close to the document end the viewport must
	// be for the last section to be forced active.
	DefaultBottomEpsilon = 4
)

// Layout is a read-only view of the host's rendered document.
type Layout interface {
	ScrollY() float64
	ViewportHeight() float64
	DocumentHeight() float64
	// ElementTop reports the top offset of the section element with the
	// given id, or false when it is not currently rendered.
	ElementTop(id string) (float64, bool)
}

// ScrollSource delivers host scroll events.
type ScrollSource interface {
	OnScroll(fn func()) (unsubscribe func())
}

// TrackerOptions tunes the scroll spy.
type TrackerOptions struct {
	Offset  float64
	Epsilon float64
}

// DefaultTrackerOptions returns the reference tunables.
func DefaultTrackerOptions() TrackerOptions {
	return TrackerOptions{Offset: DefaultScrollOffset, Epsilon: DefaultBottomEpsilon}
}

// ActiveSection computes the active section id for the given layout. It
// returns false only when ids is empty.
//
// The active section is the last one in document order whose top is at or
// above scrollY+offset. Near the bottom of the document the last section
// wins regardless of offsets; above the first section the first one wins.
func ActiveSection(ids []string, layout Layout, offset, epsilon float64) (string, bool) {
	if len(ids) == 0 {
		return "", false
	}

	scrollY := layout.ScrollY()
	if atBottom(scrollY, layout.ViewportHeight(), layout.DocumentHeight(), epsilon) {
		return ids[len(ids)-1], true
	}

	position := scrollY + offset
	for i := len(ids) - 1; i >= 0; i-- {
		top, ok := layout.ElementTop(ids[i])
		if ok && top <= position {
			return ids[i], true
		}
	}
	return ids[0], true
}

// atBottom reports whether the viewport reaches the document end. An
// unmeasured document (height 0) is never at the bottom.
func atBottom(scrollY, viewportHeight, documentHeight, epsilon float64) bool {
	if documentHeight <= 0 {
		return false
	}
	return scrollY+viewportHeight >= documentHeight-epsilon
}

// Tracker keeps the active section current as the host scrolls.
type Tracker struct {
	ids    []string
	layout Layout
	opts   TrackerOptions

	mu          sync.Mutex
	active      string
	hasActive   bool
	listeners   []func(id string)
	unsubscribe func()
}

// NewTracker creates a tracker over ids. Nothing is measured until Attach or
// Update is called.
func NewTracker(ids []string, layout Layout, opts TrackerOptions) *Tracker {
	return &Tracker{
		ids:    slices.Clone(ids),
		layout: layout,
		opts:   opts,
	}
}

// IDs returns the tracked ids in document order.
func (t *Tracker) IDs() []string { return slices.Clone(t.ids) }

// Attach subscribes to src and measures once immediately. A previous
// subscription is dropped.
func (t *Tracker) Attach(src ScrollSource) {
	unsubscribe := src.OnScroll(func() { t.Update() })

	t.mu.Lock()
	prev := t.unsubscribe
	t.unsubscribe = unsubscribe
	t.mu.Unlock()

	if prev != nil {
		prev()
	}
	t.Update()
}

// Detach stops listening to scroll events.
func (t *Tracker) Detach() {
	t.mu.Lock()
	unsubscribe := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// OnChange registers fn to be called with the new active id whenever it
// changes.
func (t *Tracker) OnChange(fn func(id string)) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Update recomputes the active section and returns it.
func (t *Tracker) Update() (string, bool) {
	id, ok := ActiveSection(t.ids, t.layout, t.opts.Offset, t.opts.Epsilon)

	t.mu.Lock()
	changed := ok != t.hasActive || id != t.active
	t.active, t.hasActive = id, ok
	listeners := slices.Clone(t.listeners)
	t.mu.Unlock()

	if changed && ok {
		for _, fn := range listeners {
			fn(id)
		}
	}
	return id, ok
}

// Active returns the last computed active id. It is false before the first
// measurement and whenever the outline is empty.
func (t *Tracker) Active() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active, t.hasActive
}
