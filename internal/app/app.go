// Package app contains the root application model.
package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/zjrosen/folio/internal/config"
	"github.com/zjrosen/folio/internal/deck"
	"github.com/zjrosen/folio/internal/flags"
	"github.com/zjrosen/folio/internal/keys"
	"github.com/zjrosen/folio/internal/log"
	"github.com/zjrosen/folio/internal/pubsub"
	"github.com/zjrosen/folio/internal/remote"
	"github.com/zjrosen/folio/internal/resume"
	"github.com/zjrosen/folio/internal/source"
	"github.com/zjrosen/folio/internal/ui/chrome"
	"github.com/zjrosen/folio/internal/ui/grid"
	"github.com/zjrosen/folio/internal/ui/help"
	"github.com/zjrosen/folio/internal/ui/logoverlay"
	"github.com/zjrosen/folio/internal/ui/notes"
	"github.com/zjrosen/folio/internal/ui/shared"
	"github.com/zjrosen/folio/internal/ui/styles"
	"github.com/zjrosen/folio/internal/ui/toaster"
	"github.com/zjrosen/folio/internal/viewport"
	"github.com/zjrosen/folio/internal/watcher"
)

// Options wires the presenter to its deck and services.
type Options struct {
	Config config.Config
	// ConfigPath receives UI toggles on quit. Empty disables saving.
	ConfigPath string
	Deck       *source.Deck
	Loader     *source.Loader
	// Fragment is the initial "#N", already resolved by StartFragment.
	Fragment string
	Store    *resume.Store
	// Watcher enables live reload. It is started by New.
	Watcher   *watcher.Watcher
	Remote    *remote.Server
	Tracer    trace.Tracer
	Flags     *flags.Registry
	Markdown  Renderer
	Clipboard shared.Clipboard
	Debug     bool
}

// overlays is the modal state. The deck's dispatcher reads it through a
// closure, so it lives behind a pointer shared by every model copy.
type overlays struct {
	help bool
	grid bool
}

func (o *overlays) open() bool { return o.help || o.grid }

// span is the slide range a deck entry contributed.
type span struct {
	start, count int
}

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string
	src        *source.Deck
	loader     *source.Loader
	flags      *flags.Registry
	keys       keys.KeyMap
	clipboard  shared.Clipboard

	deck     *deck.Deck
	timers   *TeaTimers
	vp       *viewport.Model
	surface  *Surface
	location *Location
	chrome   *chrome.Model
	notes    *notes.Model

	modal   *overlays
	help    help.Model
	grid    grid.Model
	toaster toaster.Model

	debugMode   bool
	logOverlay  logoverlay.Model
	logListener log.LogListener

	ctx        context.Context
	cancel     context.CancelFunc
	fragments  <-chan source.Fragment
	deckEvents pubsub.Listener[deck.State]

	watcher *watcher.Watcher
	changes <-chan []string
	remote  *remote.Server
	snap    *remote.Snapshot // last published

	spans   map[int]span   // entry index -> slides
	raws    map[int]string // entry index -> markdown
	byPath  map[string][]int
	loadErr error

	width     int
	height    int
	altScreen bool
	dragging  bool
	started   time.Time
}

// New creates the presenter and starts loading the deck.
func New(opts Options) Model {
	cfg := opts.Config
	ctx, cancel := context.WithCancel(context.Background())

	timers := NewTeaTimers()
	vpCfg := viewport.DefaultConfig()
	smooth := !opts.Flags.Enabled(flags.FlagReducedMotion)
	if !smooth {
		vpCfg.Duration = 0
	}
	vp := viewport.New(timers, vpCfg)
	vp.SetLead(chrome.BannerRows)

	var d *deck.Deck
	slideTitle := func(i int) string {
		if s, err := d.Slide(i); err == nil {
			return s.Title
		}
		return ""
	}
	ch := chrome.New(chrome.Options{
		DeckTitle:  opts.Deck.Title,
		SlideTitle: slideTitle,
		Visible:    cfg.UI.ShowChrome,
		Fullscreen: true,
	})
	vp.SetInset(ch.BannerHeight)

	padding := cfg.Fit.Padding
	available := func() int {
		return max(0, int(vp.Height()-ch.BannerHeight()-padding))
	}
	surface := NewSurface(opts.Markdown, func(i int) (deck.Slide, error) { return d.Slide(i) }, available)
	surface.SetPadding(int(padding))

	name := filepath.Base(opts.Deck.Ref)
	loc := NewLocation(name, opts.Fragment, opts.Store, func() int { return d.Count() })

	d = deck.New(deck.Options{
		Config:   cfg.DeckConfig(smooth),
		Viewport: vp,
		Chrome:   ch,
		Location: loc,
		Surface:  surface,
		Timers:   timers,
		Clock:    realClock{},
		Tracer:   opts.Tracer,
	})
	vp.SetListener(d)

	modal := &overlays{}
	d.Input().SetModal(modal.open)

	notesPane := notes.New(opts.Markdown)
	notesPane.SetVisible(cfg.UI.ShowNotes)
	ch.SetNotes(cfg.UI.ShowNotes)

	clip := opts.Clipboard
	if clip == nil {
		clip = shared.SystemClipboard{}
	}

	m := Model{
		cfg:        cfg,
		configPath: opts.ConfigPath,
		src:        opts.Deck,
		loader:     opts.Loader,
		flags:      opts.Flags,
		keys:       keys.DefaultKeyMap(),
		clipboard:  clip,
		deck:       d,
		timers:     timers,
		vp:         vp,
		surface:    surface,
		location:   loc,
		chrome:     ch,
		notes:      notesPane,
		modal:      modal,
		help:       help.New().SetDebug(opts.Debug),
		grid:       grid.New(),
		toaster:    toaster.New(),
		debugMode:  opts.Debug,
		logOverlay: logoverlay.New(),
		ctx:        ctx,
		cancel:     cancel,
		deckEvents: pubsub.NewListener(ctx, d.Subscribe(ctx)),
		remote:     opts.Remote,
		snap:       &remote.Snapshot{},
		spans:      make(map[int]span),
		raws:       make(map[int]string),
		byPath:     make(map[string][]int),
		altScreen:  true,
		started:    time.Now(),
	}
	if m.loader == nil {
		m.loader = source.NewLoader()
	}
	if opts.Debug {
		m.logListener = log.NewListener(ctx)
	}
	if opts.Remote != nil {
		m.help = m.help.SetRemote(opts.Remote.Addr())
	}
	for i, e := range opts.Deck.Entries {
		if e.Local() {
			p := filepath.Clean(e.Ref)
			m.byPath[p] = append(m.byPath[p], i)
		}
	}

	if opts.Watcher != nil {
		changes, err := opts.Watcher.Start()
		if err != nil {
			log.Warn(log.CatWatcher, "live reload unavailable", "error", err)
			_ = opts.Watcher.Stop()
		} else {
			m.watcher = opts.Watcher
			m.changes = changes
		}
	}

	d.BeginLoading()
	ch.SetLoading(true)
	d.Start()
	if cfg.Autoplay {
		d.SetAutoplay(true)
	}
	m.fragments = m.loader.Stream(ctx, opts.Deck.Entries)
	log.Info(log.CatDeck, "presenting", "deck", opts.Deck.Ref, "entries", len(opts.Deck.Entries), "fragment", opts.Fragment)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitFragment(m.fragments),
		m.deckEvents.Next(),
		tea.SetWindowTitle(m.location.Title()),
		m.timers.Drain(),
	}
	if m.changes != nil {
		cmds = append(cmds, waitChanges(m.ctx, m.changes))
	}
	if m.remote != nil {
		cmds = append(cmds, waitRemote(m.ctx, m.remote.Commands()))
	}
	if cmd := m.logListener.Next(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	synced := m.sync()
	return m, tea.Batch(cmd, synced)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case timerMsg:
		m.timers.Fire(msg.id)
		return m, nil

	case tea.FocusMsg:
		m.deck.Shown()
		return m, nil

	case tea.BlurMsg:
		if m.dragging {
			m.dragging = false
			m.deck.Input().TouchCancel()
		}
		m.deck.Hidden()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case fragmentMsg:
		return m.handleFragment(msg.frag)

	case loadDoneMsg:
		m.deck.LoadingDone()
		m.chrome.SetLoading(false)
		log.Info(log.CatSource, "deck loaded", "slides", m.deck.Count(), "took", time.Since(m.started))
		return m, nil

	case changesMsg:
		return m, tea.Batch(m.reload(m.entriesFor(msg.paths)), waitChanges(m.ctx, m.changes))

	case reloadMsg:
		return m.applyReload(msg)

	case remoteMsg:
		m.applyRemote(msg.cmd)
		return m, waitRemote(m.ctx, m.remote.Commands())

	case pubsub.Event[deck.State]:
		m.onDeckEvent(msg)
		return m, m.deckEvents.Next()

	case log.LogEvent:
		m.logOverlay.Append()
		return m, m.logListener.Next()

	case grid.SelectMsg:
		m.closeGrid()
		m.deck.Input().ButtonGoTo(msg.Index)
		return m, nil

	case grid.CloseMsg:
		m.closeGrid()
		return m, nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Dismiss(msg)
		return m, nil

	case logoverlay.CloseMsg:
		m.logOverlay.Hide()
		return m, nil
	}
	return m, nil
}

// sync pushes deck state out to the terminal and remote clients after
// every update.
func (m *Model) sync() tea.Cmd {
	var cmds []tea.Cmd

	if title, ok := m.location.TakeTitle(); ok {
		cmds = append(cmds, tea.SetWindowTitle(title))
	}
	if fs := m.chrome.Fullscreen(); fs != m.altScreen {
		m.altScreen = fs
		if fs {
			cmds = append(cmds, tea.EnterAltScreen)
		} else {
			cmds = append(cmds, tea.ExitAltScreen)
		}
	}

	st := m.deck.State()
	m.chrome.SetPaused(st.AutoplayPaused)
	if s, err := m.deck.Slide(st.Active); err == nil {
		m.notes.SetSlide(st.Active, st.Count, s.Notes)
	}
	if m.remote != nil {
		if snap := m.snapshot(); snap != *m.snap {
			*m.snap = snap
			m.remote.Publish(snap)
		}
	}

	cmds = append(cmds, m.timers.Drain())
	return tea.Batch(cmds...)
}

// resize lays the viewport out above the notes pane and realigns.
func (m *Model) resize() {
	notesH := notes.Height(m.height, m.notes.Visible())
	m.vp.SetHeight(float64(m.height - notesH))
	m.surface.SetWidth(m.width)
	m.chrome.SetWidth(m.width)
	m.notes.SetSize(m.width, notesH)
	m.help = m.help.SetSize(m.width, m.height)
	m.grid = m.grid.SetSize(m.width, m.height)
	m.logOverlay.SetSize(m.width, m.height)
	m.deck.Input().Resize()
}

func (m *Model) onDeckEvent(ev pubsub.Event[deck.State]) {
	switch ev.Type {
	case pubsub.SlidesEvent:
		if m.modal.grid {
			m.grid = m.grid.SetTiles(grid.TilesFrom(m.deck.Slides()))
		}
	case pubsub.ActiveChangedEvent, pubsub.NavigatedEvent:
		log.Debug(log.CatNav, "deck event", "type", ev.Type, "active", ev.Payload.Active, "source", ev.Payload.LastSource)
	}
}

func (m *Model) openGrid() {
	m.modal.grid = true
	m.grid = m.grid.SetSize(m.width, m.height).Open(grid.TilesFrom(m.deck.Slides()), m.deck.Active())
}

func (m *Model) closeGrid() {
	m.modal.grid = false
}

func (m *Model) toggleNotes() {
	m.notes.Toggle()
	m.chrome.SetNotes(m.notes.Visible())
	m.resize()
}

func (m Model) toast(msg string, style toaster.Style) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(msg, style, toaster.DefaultDuration)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var view string
	if m.modal.grid {
		view = m.grid.View()
	} else {
		view = m.renderDeck()
	}
	if m.modal.help {
		view = m.help.Overlay(view)
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}
	return zone.Scan(view)
}

func (m Model) renderDeck() string {
	vpH := int(m.vp.Height())
	rows := make([]string, vpH)

	if m.deck.Count() == 0 {
		msg := styles.LoadingStyle.Render("Loading " + m.src.Title + "…")
		if m.loadErr != nil {
			msg = styles.ErrorStyle.Render(m.loadErr.Error())
		}
		rows = strings.Split(lipgloss.Place(m.width, vpH, lipgloss.Center, lipgloss.Center, msg), "\n")
	} else {
		for r := range rows {
			if slide, line, ok := m.vp.Locate(r); ok {
				rows[r] = m.surface.Line(slide, line)
			}
		}
	}

	if m.chrome.Visible() {
		for i, line := range strings.Split(m.chrome.View(), "\n") {
			if i < len(rows) {
				rows[i] = line
			}
		}
	}

	out := strings.Join(rows, "\n")
	if m.notes.Visible() {
		out += "\n" + m.notes.View()
	}
	return out
}

// Close releases the deck, the watcher and the remote server, and saves
// UI toggles that changed during the session.
func (m *Model) Close() error {
	m.savePrefs()
	m.deck.Teardown()
	m.cancel()

	var err error
	if m.watcher != nil {
		err = multierr.Append(err, m.watcher.Stop())
	}
	if m.remote != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err = multierr.Append(err, m.remote.Shutdown(ctx))
		cancel()
	}
	log.Info(log.CatDeck, "presentation ended", "elapsed", shared.FormatElapsed(time.Since(m.started)), "active", m.deck.Active())
	return err
}

func (m *Model) savePrefs() {
	if m.configPath == "" {
		return
	}
	ui := m.cfg.UI
	ui.ShowChrome = m.chrome.Visible()
	ui.ShowNotes = m.notes.Visible()
	if ui == m.cfg.UI {
		return
	}
	if err := config.SaveUI(m.configPath, ui); err != nil {
		log.ErrorErr(log.CatConfig, "saving ui settings failed", err, "path", m.configPath)
		return
	}
	m.cfg.UI = ui
}
