package disclosure

import "sync"

// Panel is the open/closed state of one collapsible section. It is mutated
// by user toggles and by open requests received while mounted.
type Panel struct {
	id       string
	onChange func(id string, open bool)

	mu          sync.Mutex
	open        bool
	unsubscribe func()
}

// NewPanel creates a panel starting in the defaultOpen state. onChange, if
// non-nil, is called after every transition.
func NewPanel(id string, defaultOpen bool, onChange func(id string, open bool)) *Panel {
	return &Panel{id: id, open: defaultOpen, onChange: onChange}
}

// ID returns the section id the panel belongs to.
func (p *Panel) ID() string { return p.id }

// Mount subscribes the panel to open requests on bus.
func (p *Panel) Mount(bus *Bus) {
	unsubscribe := bus.Subscribe(p.id, func(OpenRequest) { p.SetOpen(true) })

	p.mu.Lock()
	prev := p.unsubscribe
	p.unsubscribe = unsubscribe
	p.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Unmount stops receiving open requests.
func (p *Panel) Unmount() {
	p.mu.Lock()
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// IsOpen reports the current state.
func (p *Panel) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}

// Toggle flips the state and returns the new value.
func (p *Panel) Toggle() bool {
	p.mu.Lock()
	p.open = !p.open
	open := p.open
	p.mu.Unlock()

	p.notify(open)
	return open
}

// SetOpen moves the panel to the given state. Setting the current state is a
// no-op and does not notify.
func (p *Panel) SetOpen(open bool) {
	p.mu.Lock()
	if p.open == open {
		p.mu.Unlock()
		return
	}
	p.open = open
	p.mu.Unlock()

	p.notify(open)
}

func (p *Panel) notify(open bool) {
	if p.onChange != nil {
		p.onChange(p.id, open)
	}
}
