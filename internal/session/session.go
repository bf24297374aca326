// Package session binds the navigation core to one remote browser host. The
// host reports layout and scroll over a WebSocket; the session runs the
// scroll spy, outline shells, disclosure panels and navigator, and sends
// back the commands the host applies.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/ziadkadry99/pqpriv-whitepaper/internal/content"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/disclosure"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/navigation"
	"github.com/ziadkadry99/pqpriv-whitepaper/internal/outline"
)

// DefaultScrollTopThreshold is the scroll offset past which the scroll-to-top
// control is shown.
const DefaultScrollTopThreshold = 360

// Conn is the write side of a host connection.
type Conn interface {
	WriteJSON(v any) error
}

// Options configures every session created from them.
type Options struct {
	Tracker            outline.TrackerOptions
	Navigation         navigation.Options
	Settle             navigation.SettleOptions
	ScrollTopThreshold float64
	Logger             *slog.Logger
}

// DefaultOptions returns the reference tunables.
func DefaultOptions() Options {
	return Options{
		Tracker:    outline.DefaultTrackerOptions(),
		Navigation: navigation.DefaultOptions(),
		Settle: navigation.SettleOptions{
			Mode:    navigation.SettleFixed,
			Delay:   navigation.DefaultSettleDelay,
			Poll:    navigation.DefaultSettlePoll,
			MaxWait: navigation.DefaultSettleMaxWait,
		},
		ScrollTopThreshold: DefaultScrollTopThreshold,
	}
}

// Session is the live state of one mounted outline.
type Session struct {
	id     string
	doc    *content.Document
	conn   Conn
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	layout    *layoutMirror
	tracker   *outline.Tracker
	navigator *navigation.Navigator
	bus       *disclosure.Bus
	panels    map[string]*disclosure.Panel
	desktop   *outline.Shell
	mobile    *outline.Shell
	threshold float64

	wmu       sync.Mutex
	lastState *State
	closeOnce sync.Once
}

// New creates a session for doc writing to conn. It pushes the initial state
// before returning.
func New(id string, doc *content.Document, conn Conn, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("session", id, "locale", doc.Locale())

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        id,
		doc:       doc,
		conn:      conn,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		layout:    newLayoutMirror(),
		bus:       disclosure.NewBus(),
		panels:    make(map[string]*disclosure.Panel, len(doc.Sections)),
		threshold: opts.ScrollTopThreshold,
	}

	for _, sec := range doc.Sections {
		p := disclosure.NewPanel(sec.ID, sec.DefaultOpen, s.onPanelChange)
		p.Mount(s.bus)
		s.panels[sec.ID] = p
	}

	navOpts := opts.Navigation
	if navOpts.Sleeper == nil {
		navOpts.Sleeper = opts.Settle.Sleeper
	}
	if navOpts.Settler == nil {
		settle := opts.Settle
		if settle.Sleeper == nil {
			settle.Sleeper = navOpts.Sleeper
		}
		navOpts.Settler = navigation.NewSettler(settle, s.layout)
	}
	navOpts.Logger = logger.With("component", "navigation")
	s.navigator = navigation.New(s, s.bus, navOpts)
	s.navigator.OnStateChange(func(bool) { s.pushState() })

	sections := doc.Outline()
	s.tracker = outline.NewTracker(outline.IDs(sections), s.layout, opts.Tracker)
	s.desktop = outline.NewShell(outline.Desktop, sections, s.tracker, s.requestJump)
	s.mobile = outline.NewShell(outline.Mobile, sections, s.tracker, s.requestJump)

	s.tracker.OnChange(func(string) { s.pushState() })
	s.tracker.Attach(s.layout)
	s.pushState()
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Locale returns the locale of the session's document.
func (s *Session) Locale() string { return s.doc.Locale() }

// Done is closed when the session is closed.
func (s *Session) Done() <-chan struct{} { return s.ctx.Done() }

// Navigator exposes the session's navigator.
func (s *Session) Navigator() *navigation.Navigator { return s.navigator }

// PanelOpen reports whether the section's panel is open.
func (s *Session) PanelOpen(sectionID string) bool {
	p, ok := s.panels[sectionID]
	return ok && p.IsOpen()
}

// HandleMessage decodes and applies one host message. Errors are reported
// back to the host as error messages and never end the session.
func (s *Session) HandleMessage(raw []byte) {
	var msg Inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.sendError("invalid message format")
		return
	}
	if err := s.Handle(msg); err != nil {
		s.sendError(err.Error())
	}
}

// Handle applies one decoded host message.
func (s *Session) Handle(msg Inbound) error {
	switch msg.Type {
	case TypeLayout:
		s.layout.applyLayout(msg)
		s.pushState()
	case TypeScroll:
		s.layout.applyScroll(msg)
		s.pushState()
	case TypeQuery:
		shell, err := s.shell(msg.Variant)
		if err != nil {
			return err
		}
		shell.SetQuery(msg.Query)
		s.pushState()
	case TypeJump:
		if msg.SectionID == "" {
			return fmt.Errorf("section_id is required")
		}
		shell, err := s.shell(msg.Variant)
		if err != nil {
			return err
		}
		if !shell.Jump(s.ctx, msg.SectionID) {
			s.logger.Debug("jump ignored", "section", msg.SectionID)
		}
		s.pushState()
	case TypeToggle:
		p, ok := s.panels[msg.SectionID]
		if !ok {
			return fmt.Errorf("unknown section: %s", msg.SectionID)
		}
		p.Toggle()
	case TypeSheet:
		s.mobile.SetOpen(msg.Open)
		s.pushState()
	case TypeScrollTop:
		s.send(ScrollToMessage{Type: TypeScrollTo, Top: 0, Behavior: "smooth"})
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
	return nil
}

// Close tears the session down: in-flight jumps are cancelled and the
// panels and scroll spy stop listening. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		s.tracker.Detach()
		s.navigator.Close()
		for _, p := range s.panels {
			p.Unmount()
		}
		s.logger.Debug("session closed")
	})
}

// ElementTop implements navigation.Viewport.
func (s *Session) ElementTop(id string) (float64, bool) {
	return s.layout.ElementTop(id)
}

// ScrollTo implements navigation.Viewport.
func (s *Session) ScrollTo(top float64) {
	s.send(ScrollToMessage{Type: TypeScrollTo, Top: top, Behavior: "smooth"})
}

// SetHighlight implements navigation.Viewport.
func (s *Session) SetHighlight(id string, h navigation.Highlight) {
	s.send(HighlightMessage{Type: TypeHighlight, SectionID: id, Highlighted: h.Highlighted, Active: h.Active})
}

func (s *Session) requestJump(_ context.Context, sectionID string) bool {
	_, ok := s.navigator.RequestJump(s.ctx, sectionID)
	return ok
}

func (s *Session) shell(v outline.Variant) (*outline.Shell, error) {
	switch v {
	case outline.Desktop, "":
		return s.desktop, nil
	case outline.Mobile:
		return s.mobile, nil
	default:
		return nil, fmt.Errorf("unknown variant: %s", v)
	}
}

func (s *Session) onPanelChange(id string, open bool) {
	s.send(PanelMessage{Type: TypePanel, SectionID: id, Open: open})
}

// state builds the current render model.
func (s *Session) state() State {
	active, _ := s.tracker.Active()
	desktop := s.desktop.View()
	mobile := s.mobile.View()
	return State{
		Type:             TypeState,
		SessionID:        s.id,
		Active:           active,
		Progress:         desktop.Progress,
		Navigating:       s.navigator.Navigating(),
		SheetOpen:        mobile.Open,
		ScrollTopVisible: s.layout.ScrollY() > s.threshold,
		Desktop:          desktop,
		Mobile:           mobile,
	}
}

// pushState sends the render model when it differs from the last one sent.
// The model is built under the write lock so that concurrent pushes cannot
// deliver an older state last.
func (s *Session) pushState() {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	st := s.state()
	if s.lastState != nil && reflect.DeepEqual(*s.lastState, st) {
		return
	}
	if s.write(st) {
		s.lastState = &st
	}
}

func (s *Session) send(v any) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	s.write(v)
}

func (s *Session) sendError(content string) {
	s.send(ErrorMessage{Type: TypeError, Content: content})
}

func (s *Session) write(v any) bool {
	if s.ctx.Err() != nil {
		return false
	}
	if err := s.conn.WriteJSON(v); err != nil {
		s.logger.Warn("write failed", "error", err)
		return false
	}
	return true
}

// writeTimeout bounds every websocket write.
const writeTimeout = 10 * time.Second
