// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the presenter keybindings. Navigation bindings mirror the
// deck's key map and exist for the help view; app bindings are matched by
// the root model before keys reach the deck.
type KeyMap struct {
	// Navigation
	Next key.Binding
	Prev key.Binding
	Home key.Binding
	End  key.Binding

	// Presentation
	Fullscreen key.Binding
	Autoplay   key.Binding
	Chrome     key.Binding
	Notes      key.Binding
	NotesUp    key.Binding
	NotesDown  key.Binding

	// Overlays
	Grid  key.Binding
	Help  key.Binding
	Log   key.Binding
	Enter key.Binding

	// General
	Yank   key.Binding
	Reload key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("down", "right", "pgdown", " ", "j", "l"),
			key.WithHelp("→/j/space", "next slide"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "left", "pgup", "k", "h"),
			key.WithHelp("←/k", "previous slide"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first slide"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last slide"),
		),

		Fullscreen: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle fullscreen"),
		),
		Autoplay: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "toggle autoplay"),
		),
		Chrome: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle banner"),
		),
		Notes: key.NewBinding(
			key.WithKeys("n", "p"),
			key.WithHelp("n/p", "toggle notes"),
		),
		NotesUp: key.NewBinding(
			key.WithKeys("K", "shift+up"),
			key.WithHelp("K", "scroll notes up"),
		),
		NotesDown: key.NewBinding(
			key.WithKeys("J", "shift+down"),
			key.WithHelp("J", "scroll notes down"),
		),

		Grid: key.NewBinding(
			key.WithKeys("g", "tab"),
			key.WithHelp("g", "slide overview"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Log: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug log"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open slide"),
		),

		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy slide link"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload deck"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Grid, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Home, k.End},                                       // Navigation
		{k.Fullscreen, k.Autoplay, k.Chrome, k.Notes, k.NotesUp, k.NotesDown}, // Presentation
		{k.Grid, k.Yank, k.Reload, k.Log},                                     // Tools
		{k.Help, k.Escape, k.Quit},                                            // General
	}
}

// GridKeyMap defines the keybindings inside the slide overview.
type GridKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Close  key.Binding
}

// DefaultGridKeyMap returns the slide overview keybindings.
func DefaultGridKeyMap() GridKeyMap {
	return GridKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "move right"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "open slide"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "g", "tab", "q"),
			key.WithHelp("esc", "close"),
		),
	}
}
