package session

import "github.com/ziadkadry99/pqpriv-whitepaper/internal/outline"

// Message types sent by the browser host.
const (
	TypeLayout    = "layout"
	TypeScroll    = "scroll"
	TypeQuery     = "query"
	TypeJump      = "jump"
	TypeToggle    = "toggle"
	TypeSheet     = "sheet"
	TypeScrollTop = "scroll_top"
)

// Message types sent to the browser host.
const (
	TypeState     = "state"
	TypePanel     = "panel"
	TypeScrollTo  = "scroll_to"
	TypeHighlight = "highlight"
	TypeError     = "error"
)

// Inbound is the union of every host message. Only the fields relevant to
// Type are read.
type Inbound struct {
	Type           string             `json:"type"`
	ScrollY        float64            `json:"scroll_y"`
	ViewportHeight float64            `json:"viewport_height"`
	DocumentHeight *float64           `json:"document_height,omitempty"`
	Tops           map[string]float64 `json:"tops,omitempty"`
	Query          string             `json:"query"`
	SectionID      string             `json:"section_id"`
	Variant        outline.Variant    `json:"variant"`
	Open           bool               `json:"open"`
}

// State is the full render model pushed after every change.
type State struct {
	Type             string       `json:"type"`
	SessionID        string       `json:"session_id"`
	Active           string       `json:"active,omitempty"`
	Progress         int          `json:"progress"`
	Navigating       bool         `json:"navigating"`
	SheetOpen        bool         `json:"sheet_open"`
	ScrollTopVisible bool         `json:"scroll_top_visible"`
	Desktop          outline.View `json:"desktop"`
	Mobile           outline.View `json:"mobile"`
}

// PanelMessage opens or closes a section on the host.
type PanelMessage struct {
	Type      string `json:"type"`
	SectionID string `json:"section_id"`
	Open      bool   `json:"open"`
}

// ScrollToMessage asks the host for one smooth scroll.
type ScrollToMessage struct {
	Type     string  `json:"type"`
	Top      float64 `json:"top"`
	Behavior string  `json:"behavior"`
}

// HighlightMessage sets a section's flash classes.
type HighlightMessage struct {
	Type        string `json:"type"`
	SectionID   string `json:"section_id"`
	Highlighted bool   `json:"highlighted"`
	Active      bool   `json:"active"`
}

// ErrorMessage reports a protocol error. The connection stays open.
type ErrorMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
