// Package navigation coordinates jumps to document sections: open the
// section, wait for layout to settle, scroll to it and flash it, while
// keeping at most one jump in flight.
package navigation

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/disclosure"
)

const (
	// DefaultHeaderHeight is the sticky header height subtracted from the
	// target's top offset.
	DefaultHeaderHeight = 80
	// DefaultHighlightActive is how long the "active" sub-state lasts.
	DefaultHighlightActive = 100 * time.Millisecond
	// DefaultHighlightTotal is how long the highlight lasts after the active
	// sub-state is removed.
	DefaultHighlightTotal = 800 * time.Millisecond
)

// Policy decides what happens to a jump requested while another is in flight.
type Policy string

const (
	// PolicyDrop ignores the new request.
	PolicyDrop Policy = "drop"
	// PolicyReplace cancels the in-flight jump and starts the new one.
	PolicyReplace Policy = "replace"
)

// Outcome is how a jump ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeAborted   Outcome = "aborted"
	OutcomeCancelled Outcome = "cancelled"
)

// Highlight is the visual flash state applied to a section.
type Highlight struct {
	Highlighted bool `json:"highlighted"`
	Active      bool `json:"active"`
}

// Viewport is the host surface a jump acts on.
type Viewport interface {
	ElementTop(id string) (float64, bool)
	// ScrollTo performs a single smooth scroll to top.
	ScrollTo(top float64)
	SetHighlight(id string, h Highlight)
}

// Publisher sends open requests to collapsible sections.
type Publisher interface {
	Publish(req disclosure.OpenRequest)
}

// Options configures a Navigator. Zero durations are used as given; start
// from DefaultOptions.
type Options struct {
	HeaderHeight    float64
	HighlightActive time.Duration
	HighlightTotal  time.Duration
	Policy          Policy
	// Settler defaults to a FixedSettler of DefaultSettleDelay.
	Settler Settler
	// Sleeper drives highlight timers; defaults to TimerSleeper.
	Sleeper Sleeper
	Logger  *slog.Logger
}

// DefaultOptions returns the reference tunables.
func DefaultOptions() Options {
	return Options{
		HeaderHeight:    DefaultHeaderHeight,
		HighlightActive: DefaultHighlightActive,
		HighlightTotal:  DefaultHighlightTotal,
		Policy:          PolicyDrop,
	}
}

// Jump is a handle on one navigation sequence.
type Jump struct {
	SectionID string

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	outcome Outcome
}

// Done is closed when the sequence has finished and the guard is released.
func (j *Jump) Done() <-chan struct{} { return j.done }

// Outcome returns how the jump ended. It is empty until Done is closed.
func (j *Jump) Outcome() Outcome {
	select {
	case <-j.done:
		return j.outcome
	default:
		return ""
	}
}

// Wait blocks until the jump finishes and returns its outcome.
func (j *Jump) Wait() Outcome {
	<-j.done
	return j.outcome
}

// Navigator runs jump sequences against a viewport.
type Navigator struct {
	viewport Viewport
	bus      Publisher
	opts     Options
	settler  Settler
	sleeper  Sleeper
	logger   *slog.Logger

	mu        sync.Mutex
	current   *Jump
	closed    bool
	observers []func(navigating bool)
}

// New creates a Navigator.
func New(viewport Viewport, bus Publisher, opts Options) *Navigator {
	n := &Navigator{
		viewport: viewport,
		bus:      bus,
		opts:     opts,
		sleeper:  sleeperOrDefault(opts.Sleeper),
		settler:  opts.Settler,
		logger:   opts.Logger,
	}
	if n.settler == nil {
		n.settler = FixedSettler{Delay: DefaultSettleDelay, Sleeper: n.sleeper}
	}
	if n.logger == nil {
		n.logger = slog.New(slog.DiscardHandler)
	}
	if n.opts.Policy == "" {
		n.opts.Policy = PolicyDrop
	}
	return n
}

// OnStateChange registers fn to be called when the navigating flag flips.
func (n *Navigator) OnStateChange(fn func(navigating bool)) {
	n.mu.Lock()
	n.observers = append(n.observers, fn)
	n.mu.Unlock()
}

// Navigating reports whether a jump is in flight.
func (n *Navigator) Navigating() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current != nil
}

// RequestJump starts a jump to sectionID. It returns false when the request
// is ignored: another jump is in flight under PolicyDrop, or the navigator
// is closed. Unknown section ids are accepted and abort softly.
func (n *Navigator) RequestJump(ctx context.Context, sectionID string) (*Jump, bool) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil, false
	}
	prev := n.current
	if prev != nil && n.opts.Policy != PolicyReplace {
		n.mu.Unlock()
		n.logger.Debug("jump dropped", "section", sectionID, "in_flight", prev.SectionID)
		return nil, false
	}
	if prev != nil {
		prev.cancel()
	}
	jctx, cancel := context.WithCancel(ctx)
	j := &Jump{
		SectionID: sectionID,
		ctx:       jctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	n.current = j
	n.mu.Unlock()

	if prev == nil {
		n.notify(true)
	}
	go n.run(j, prev)
	return j, true
}

// Close cancels any in-flight jump, waits for it to release the guard and
// rejects further requests.
func (n *Navigator) Close() {
	n.mu.Lock()
	n.closed = true
	cur := n.current
	n.mu.Unlock()

	if cur != nil {
		cur.cancel()
		<-cur.done
	}
}

func (n *Navigator) run(j *Jump, prev *Jump) {
	if prev != nil {
		<-prev.done
	}

	j.outcome = n.sequence(j)
	j.cancel()

	n.mu.Lock()
	last := n.current == j
	if last {
		n.current = nil
	}
	n.mu.Unlock()

	n.logger.Debug("jump finished", "section", j.SectionID, "outcome", j.outcome)
	if last {
		n.notify(false)
	}
	close(j.done)
}

func (n *Navigator) sequence(j *Jump) Outcome {
	ctx, id := j.ctx, j.SectionID

	n.bus.Publish(disclosure.OpenRequest{SectionID: id})

	if err := n.settler.Settle(ctx, id); err != nil {
		return OutcomeCancelled
	}

	top, ok := n.viewport.ElementTop(id)
	if !ok {
		return OutcomeAborted
	}
	n.viewport.ScrollTo(top - n.opts.HeaderHeight)

	n.viewport.SetHighlight(id, Highlight{Highlighted: true, Active: true})
	if err := n.sleeper.Sleep(ctx, n.opts.HighlightActive); err != nil {
		n.viewport.SetHighlight(id, Highlight{})
		return OutcomeCancelled
	}
	n.viewport.SetHighlight(id, Highlight{Highlighted: true})
	if err := n.sleeper.Sleep(ctx, n.opts.HighlightTotal); err != nil {
		n.viewport.SetHighlight(id, Highlight{})
		return OutcomeCancelled
	}
	n.viewport.SetHighlight(id, Highlight{})
	return OutcomeCompleted
}

func (n *Navigator) notify(navigating bool) {
	n.mu.Lock()
	observers := slices.Clone(n.observers)
	n.mu.Unlock()

	for _, fn := range observers {
		fn(navigating)
	}
}
