package remote

import "fmt"

// Action names accepted over HTTP and websocket.
const (
	ActionNext     = "next"
	ActionPrev     = "prev"
	ActionHome     = "home"
	ActionEnd      = "end"
	ActionGoTo     = "goto"
	ActionAutoplay = "autoplay"
)

// Command is a navigation request from a remote client. The presenter
// applies it on its own goroutine.
type Command struct {
	Action string `json:"action"`
	Index  int    `json:"index,omitempty"`
	// Enabled is nil for an autoplay toggle.
	Enabled *bool `json:"enabled,omitempty"`
	// ClientID is the websocket client id or the HTTP request id.
	ClientID string `json:"-"`
}

// Validate reports whether the command names a known action. A goto
// index may be out of range; the deck wraps it.
func (c Command) Validate() error {
	switch c.Action {
	case ActionNext, ActionPrev, ActionHome, ActionEnd, ActionAutoplay, ActionGoTo:
		return nil
	case "":
		return fmt.Errorf("action is required")
	default:
		return fmt.Errorf("unknown action %q", c.Action)
	}
}

// Snapshot is the presenter state pushed to clients.
type Snapshot struct {
	Active   int     `json:"active"`
	Count    int     `json:"count"`
	Progress float64 `json:"progress"`
	Title    string  `json:"title,omitempty"`
	Deck     string  `json:"deck,omitempty"`
	Autoplay bool    `json:"autoplay"`
	Paused   bool    `json:"paused"`
	Loading  bool    `json:"loading"`
}

// envelope frames outgoing websocket messages.
type envelope struct {
	Type     string    `json:"type"` // "state" or "error"
	ClientID string    `json:"client_id,omitempty"`
	State    *Snapshot `json:"state,omitempty"`
	Error    string    `json:"error,omitempty"`
}
