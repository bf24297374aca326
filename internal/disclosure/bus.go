// Package disclosure owns the open/closed state of collapsible sections and
// the channel used to ask a specific section to open itself.
package disclosure

import (
	"sync"
)

// OpenRequest asks the section with SectionID to open.
type OpenRequest struct {
	SectionID string `json:"section_id"`
}

// Bus is a keyed publish/subscribe registry. Subscribers register for one
// section id and only receive requests addressed to it.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[uint64]func(OpenRequest)
	next uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[uint64]func(OpenRequest))}
}

// Subscribe registers fn for requests addressed to sectionID. The returned
// function removes the subscription and is safe to call more than once.
func (b *Bus) Subscribe(sectionID string, fn func(OpenRequest)) (unsubscribe func()) {
	b.mu.Lock()
	b.next++
	key := b.next
	if b.subs[sectionID] == nil {
		b.subs[sectionID] = make(map[uint64]func(OpenRequest))
	}
	b.subs[sectionID][key] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[sectionID], key)
			if len(b.subs[sectionID]) == 0 {
				delete(b.subs, sectionID)
			}
		})
	}
}

// Publish delivers req synchronously to every current subscriber of
// req.SectionID. A request nobody listens to is dropped.
func (b *Bus) Publish(req OpenRequest) {
	b.mu.RLock()
	targets := make([]func(OpenRequest), 0, len(b.subs[req.SectionID]))
	for _, fn := range b.subs[req.SectionID] {
		targets = append(targets, fn)
	}
	b.mu.RUnlock()

	for _, fn := range targets {
		fn(req)
	}
}

// Subscribers returns the number of listeners for sectionID.
func (b *Bus) Subscribers(sectionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sectionID])
}
