package navigation

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/disclosure"
)

// recordingViewport collects ScrollTo and SetHighlight calls in order.
type recordingViewport struct {
	mu     sync.Mutex
	tops   map[string]float64
	events []string
}

func newRecordingViewport(tops map[string]float64) *recordingViewport {
	return &recordingViewport{tops: tops}
}

func (v *recordingViewport) ElementTop(id string) (float64, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	top, ok := v.tops[id]
	return top, ok
}

func (v *recordingViewport) ScrollTo(top float64) {
	v.record(fmt.Sprintf("scroll:%g", top))
}

func (v *recordingViewport) SetHighlight(id string, h Highlight) {
	v.record(fmt.Sprintf("highlight:%s:%v:%v", id, h.Highlighted, h.Active))
}

func (v *recordingViewport) record(e string) {
	v.mu.Lock()
	v.events = append(v.events, e)
	v.mu.Unlock()
}

func (v *recordingViewport) Events() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return slices.Clone(v.events)
}

// instantSleeper returns immediately and records requested durations.
type instantSleeper struct {
	mu    sync.Mutex
	total time.Duration
	calls []time.Duration
}

func (s *instantSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.total += d
	s.calls = append(s.calls, d)
	s.mu.Unlock()
	return nil
}

func (s *instantSleeper) Calls() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// gateSleeper blocks each Sleep until the test releases it.
type gateSleeper struct {
	calls   chan time.Duration
	release chan struct{}
}

func newGateSleeper() *gateSleeper {
	return &gateSleeper{calls: make(chan time.Duration, 16), release: make(chan struct{})}
}

func (g *gateSleeper) Sleep(ctx context.Context, d time.Duration) error {
	g.calls <- d
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *gateSleeper) expect(t *testing.T, want time.Duration) {
	t.Helper()
	select {
	case got := <-g.calls:
		if got != want {
			t.Fatalf("sleep(%v), want sleep(%v)", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for sleep(%v)", want)
	}
}

func (g *gateSleeper) step(t *testing.T, want time.Duration) {
	t.Helper()
	g.expect(t, want)
	g.release <- struct{}{}
}

func waitJump(t *testing.T, j *Jump) Outcome {
	t.Helper()
	select {
	case <-j.Done():
		return j.Outcome()
	case <-time.After(2 * time.Second):
		t.Fatalf("jump to %q did not finish", j.SectionID)
		return ""
	}
}

func TestJumpOpensCollapsedSectionAndFlashes(t *testing.T) {
	bus := disclosure.NewBus()
	vp := newRecordingViewport(map[string]float64{"a": 0, "b": 500, "c": 1000})
	sleeper := &instantSleeper{}

	var panelEvents []string
	panel := disclosure.NewPanel("c", false, func(id string, open bool) {
		panelEvents = append(panelEvents, fmt.Sprintf("%s:%v", id, open))
	})
	panel.Mount(bus)

	opts := DefaultOptions()
	opts.Sleeper = sleeper
	nav := New(vp, bus, opts)

	var states []bool
	nav.OnStateChange(func(navigating bool) { states = append(states, navigating) })

	j, ok := nav.RequestJump(context.Background(), "c")
	if !ok {
		t.Fatal("RequestJump rejected on idle navigator")
	}
	if got := waitJump(t, j); got != OutcomeCompleted {
		t.Fatalf("outcome = %q, want completed", got)
	}

	if !panel.IsOpen() {
		t.Error("collapsed target section should have been opened")
	}
	if !slices.Equal(panelEvents, []string{"c:true"}) {
		t.Errorf("panel events = %v", panelEvents)
	}

	wantEvents := []string{
		"scroll:920",
		"highlight:c:true:true",
		"highlight:c:true:false",
		"highlight:c:false:false",
	}
	if got := vp.Events(); !slices.Equal(got, wantEvents) {
		t.Errorf("events = %v, want %v", got, wantEvents)
	}

	wantSleeps := []time.Duration{DefaultSettleDelay, DefaultHighlightActive, DefaultHighlightTotal}
	if got := sleeper.Calls(); !slices.Equal(got, wantSleeps) {
		t.Errorf("sleeps = %v, want %v", got, wantSleeps)
	}
	if highlight := DefaultHighlightActive + DefaultHighlightTotal; highlight != 900*time.Millisecond {
		t.Errorf("highlight lifetime = %v, want 900ms", highlight)
	}

	if nav.Navigating() {
		t.Error("navigating should be false after completion")
	}
	if !slices.Equal(states, []bool{true, false}) {
		t.Errorf("state changes = %v, want [true false]", states)
	}
}

func TestConcurrentJumpIsDropped(t *testing.T) {
	bus := disclosure.NewBus()
	vp := newRecordingViewport(map[string]float64{"a": 100, "b": 600})
	gate := newGateSleeper()

	opts := DefaultOptions()
	opts.Sleeper = gate
	nav := New(vp, bus, opts)

	var opened []string
	for _, id := range []string{"a", "b"} {
		p := disclosure.NewPanel(id, false, func(id string, open bool) { opened = append(opened, id) })
		p.Mount(bus)
	}

	ja, ok := nav.RequestJump(context.Background(), "a")
	if !ok {
		t.Fatal("first jump rejected")
	}
	gate.expect(t, DefaultSettleDelay)

	if jb, ok := nav.RequestJump(context.Background(), "b"); ok || jb != nil {
		t.Fatal("second jump should be dropped while navigating")
	}
	if !nav.Navigating() {
		t.Error("navigating should be true mid-sequence")
	}

	gate.release <- struct{}{}
	gate.step(t, DefaultHighlightActive)
	gate.step(t, DefaultHighlightTotal)

	if got := waitJump(t, ja); got != OutcomeCompleted {
		t.Fatalf("outcome = %q, want completed", got)
	}

	want := []string{"scroll:20", "highlight:a:true:true", "highlight:a:true:false", "highlight:a:false:false"}
	if got := vp.Events(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if !slices.Equal(opened, []string{"a"}) {
		t.Errorf("opened = %v, want only a", opened)
	}

	// Guard released: a new jump is accepted again.
	jc, ok := nav.RequestJump(context.Background(), "b")
	if !ok {
		t.Fatal("jump after completion rejected")
	}
	gate.step(t, DefaultSettleDelay)
	gate.step(t, DefaultHighlightActive)
	gate.step(t, DefaultHighlightTotal)
	waitJump(t, jc)
}

func TestUnknownTargetAbortsSoftly(t *testing.T) {
	vp := newRecordingViewport(map[string]float64{"a": 0})
	sleeper := &instantSleeper{}

	opts := DefaultOptions()
	opts.Sleeper = sleeper
	nav := New(vp, disclosure.NewBus(), opts)

	j, ok := nav.RequestJump(context.Background(), "nonexistent-id")
	if !ok {
		t.Fatal("unknown ids are accepted and abort later")
	}
	if got := waitJump(t, j); got != OutcomeAborted {
		t.Fatalf("outcome = %q, want aborted", got)
	}
	if nav.Navigating() {
		t.Error("navigating should be false after abort")
	}
	if got := vp.Events(); len(got) != 0 {
		t.Errorf("aborted jump touched the viewport: %v", got)
	}
	if got := sleeper.Calls(); !slices.Equal(got, []time.Duration{DefaultSettleDelay}) {
		t.Errorf("sleeps = %v, want only the settle delay", got)
	}
}

func TestReplacePolicyCancelsInFlight(t *testing.T) {
	vp := newRecordingViewport(map[string]float64{"a": 100, "b": 600})
	gate := newGateSleeper()

	opts := DefaultOptions()
	opts.Sleeper = gate
	opts.Policy = PolicyReplace
	nav := New(vp, disclosure.NewBus(), opts)

	var states []bool
	nav.OnStateChange(func(navigating bool) { states = append(states, navigating) })

	ja, _ := nav.RequestJump(context.Background(), "a")
	gate.step(t, DefaultSettleDelay)
	gate.expect(t, DefaultHighlightActive)

	jb, ok := nav.RequestJump(context.Background(), "b")
	if !ok {
		t.Fatal("replace policy should accept a new jump")
	}
	if got := waitJump(t, ja); got != OutcomeCancelled {
		t.Fatalf("first outcome = %q, want cancelled", got)
	}

	gate.step(t, DefaultSettleDelay)
	gate.step(t, DefaultHighlightActive)
	gate.step(t, DefaultHighlightTotal)
	if got := waitJump(t, jb); got != OutcomeCompleted {
		t.Fatalf("second outcome = %q, want completed", got)
	}

	want := []string{
		"scroll:20", "highlight:a:true:true", "highlight:a:false:false",
		"scroll:520", "highlight:b:true:true", "highlight:b:true:false", "highlight:b:false:false",
	}
	if got := vp.Events(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if nav.Navigating() {
		t.Error("navigating should be false at the end")
	}
	if !slices.Equal(states, []bool{true, false}) {
		t.Errorf("state changes = %v, want [true false]", states)
	}
}

func TestCloseReleasesGuard(t *testing.T) {
	vp := newRecordingViewport(map[string]float64{"a": 0})
	gate := newGateSleeper()

	opts := DefaultOptions()
	opts.Sleeper = gate
	nav := New(vp, disclosure.NewBus(), opts)

	j, _ := nav.RequestJump(context.Background(), "a")
	gate.expect(t, DefaultSettleDelay)

	nav.Close()
	if got := j.Outcome(); got != OutcomeCancelled {
		t.Errorf("outcome = %q, want cancelled", got)
	}
	if nav.Navigating() {
		t.Error("navigating should be false after Close")
	}
	if _, ok := nav.RequestJump(context.Background(), "a"); ok {
		t.Error("closed navigator should reject jumps")
	}
}

func TestStableSettlerWaitsForAgreement(t *testing.T) {
	positions := &scriptedPositions{tops: []float64{0, 0, 300, 420, 420, 420}}
	sleeper := &instantSleeper{}
	s := StableSettler{Positions: positions, Poll: 10 * time.Millisecond, MaxWait: time.Second, Sleeper: sleeper}

	if err := s.Settle(context.Background(), "c"); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	// Samples: missing, missing, 300, 420, 420 -> stable on the fifth poll.
	if n := len(sleeper.Calls()); n != 5 {
		t.Errorf("polls = %d, want 5", n)
	}
}

func TestStableSettlerRespectsMaxWait(t *testing.T) {
	positions := &scriptedPositions{}
	sleeper := &instantSleeper{}
	s := StableSettler{Positions: positions, Poll: 10 * time.Millisecond, MaxWait: 50 * time.Millisecond, Sleeper: sleeper}

	if err := s.Settle(context.Background(), "missing"); err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if sleeper.total != 50*time.Millisecond {
		t.Errorf("waited %v, want 50ms", sleeper.total)
	}
}

func TestStableSettlerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := StableSettler{Positions: &scriptedPositions{}, Poll: time.Millisecond, MaxWait: time.Second, Sleeper: &instantSleeper{}}
	if err := s.Settle(ctx, "a"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestTimerSleeper(t *testing.T) {
	if err := (TimerSleeper{}).Sleep(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("Sleep: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (TimerSleeper{}).Sleep(ctx, time.Hour); err == nil {
		t.Error("expected cancellation error")
	}
}

// scriptedPositions returns successive tops; a leading zero means the
// element is not rendered yet.
type scriptedPositions struct {
	mu   sync.Mutex
	tops []float64
	i    int
}

func (p *scriptedPositions) ElementTop(string) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.i >= len(p.tops) {
		return 0, false
	}
	top := p.tops[p.i]
	p.i++
	return top, top != 0
}

func TestNewSettler(t *testing.T) {
	positions := &scriptedPositions{}
	tests := []struct {
		name      string
		opts      SettleOptions
		positions PositionReader
		stable    bool
	}{
		{"fixed", SettleOptions{Mode: SettleFixed, Delay: DefaultSettleDelay}, positions, false},
		{"stable", SettleOptions{Mode: SettleStable, Poll: DefaultSettlePoll, MaxWait: DefaultSettleMaxWait}, positions, true},
		{"stable without positions", SettleOptions{Mode: SettleStable}, nil, false},
		{"unknown", SettleOptions{Mode: "bogus", Delay: time.Millisecond}, positions, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSettler(tt.opts, tt.positions)
			_, isStable := s.(StableSettler)
			if isStable != tt.stable {
				t.Errorf("got %T, stable=%v", s, tt.stable)
			}
		})
	}
}
