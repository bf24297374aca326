package session

import (
	"maps"
	"slices"
	"sync"
)

// layoutMirror is the server-side copy of the host's last reported layout.
// It serves as the scroll spy's Layout and ScrollSource and as the
// navigator's position reader.
type layoutMirror struct {
	mu       sync.RWMutex
	scrollY  float64
	viewport float64
	document float64
	tops     map[string]float64

	lmu       sync.Mutex
	listeners map[uint64]func()
	next      uint64
}

func newLayoutMirror() *layoutMirror {
	return &layoutMirror{tops: make(map[string]float64), listeners: make(map[uint64]func())}
}

func (m *layoutMirror) ScrollY() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scrollY
}

func (m *layoutMirror) ViewportHeight() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.viewport
}

func (m *layoutMirror) DocumentHeight() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.document
}

func (m *layoutMirror) ElementTop(id string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	top, ok := m.tops[id]
	return top, ok
}

// OnScroll registers fn for every layout or scroll report.
func (m *layoutMirror) OnScroll(fn func()) func() {
	m.lmu.Lock()
	id := m.next
	m.next++
	m.listeners[id] = fn
	m.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.lmu.Lock()
			delete(m.listeners, id)
			m.lmu.Unlock()
		})
	}
}

// applyLayout replaces the full layout. Sections missing from tops are
// treated as not rendered.
func (m *layoutMirror) applyLayout(msg Inbound) {
	m.mu.Lock()
	m.scrollY = msg.ScrollY
	m.viewport = msg.ViewportHeight
	if msg.DocumentHeight != nil {
		m.document = *msg.DocumentHeight
	}
	m.tops = maps.Clone(msg.Tops)
	if m.tops == nil {
		m.tops = make(map[string]float64)
	}
	m.mu.Unlock()
	m.fire()
}

// applyScroll updates the scroll offset and, when given, the document height.
func (m *layoutMirror) applyScroll(msg Inbound) {
	m.mu.Lock()
	m.scrollY = msg.ScrollY
	if msg.DocumentHeight != nil {
		m.document = *msg.DocumentHeight
	}
	m.mu.Unlock()
	m.fire()
}

func (m *layoutMirror) fire() {
	m.lmu.Lock()
	keys := slices.Sorted(maps.Keys(m.listeners))
	fns := make([]func(), 0, len(keys))
	for _, k := range keys {
		fns = append(fns, m.listeners[k])
	}
	m.lmu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
