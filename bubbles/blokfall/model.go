// Package blokfall is the terminal front end of the engine: it maps keys to
// engine commands, schedules gravity frames and renders the well.
package blokfall

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/ghthor/blokwell/engine"
	"github.com/ghthor/blokwell/gravity"
	"github.com/ghthor/blokwell/unsafering"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

type GameResetMsg int
type ToggleDebugMsg int

const recentEvents = 5

type FrameMsg struct {
	time.Time
	Frame int64
}

func NewFrame(d time.Duration, frame int64) tea.Cmd {
	return tea.Tick(d, newFrameMsg(frame))
}

func newFrameMsg(frame int64) func(time.Time) tea.Msg {
	return func(t time.Time) tea.Msg { return FrameMsg{t, frame} }
}

type Option func(*Model)

func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.log = l }
}

func WithPlayer(name string) Option {
	return func(m *Model) { m.player = name }
}

func WithGameOptions(opts ...engine.Option) Option {
	return func(m *Model) { m.gameOpts = append(m.gameOpts, opts...) }
}

type Model struct {
	b        strings.Builder
	pieceBuf strings.Builder

	gameOpts []engine.Option
	game     *engine.Game
	driver   *gravity.Driver

	// frame invalidates scheduled FrameMsgs when bumped
	frame int64

	events *unsafering.Buffer[engine.Event]

	keys keyMap
	help help.Model
	log  *log.Logger

	player string

	colors map[engine.Color]lipgloss.Style
	filled string

	table *table.Table
	tableView
	overlay *overlay.Model

	render bool
	view   string

	debug bool
}

var _ tea.Model = &Model{}

func New(opts ...Option) *Model {
	m := &Model{
		events: unsafering.New[engine.Event](recentEvents),
		keys:   defaultKeyMap(),
		help:   help.New(),
		filled: DefaultBlock,
		render: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = log.Default()
	}
	if m.player != "" {
		m.log = m.log.With("player", m.player)
	}

	m.game = engine.New(m.gameOpts...)
	m.driver = gravity.NewDriver(m.game)
	m.colors = newColors()
	m.table = table.New().Border(lipgloss.RoundedBorder())
	m.overlay = overlay.New(nil, nil, overlay.Center, overlay.Center, 0, 0)
	return m
}

func (m *Model) Game() *engine.Game {
	return m.game
}

func (m *Model) Init() tea.Cmd {
	m.render = true
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.UpdateBlokFall(msg)
}

func (m *Model) UpdateBlokFall(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.HandleKey(msg)

	case engine.Command:
		m.HandleCommand(msg)

	case GameResetMsg:
		return m, m.Start()

	case ToggleDebugMsg:
		m.toggleDebug()

	case FrameMsg:
		return m, m.HandleFrameMsg(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.render = true
	}
	return m, nil
}

func (m *Model) HandleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Start):
		return m.Start()
	case key.Matches(msg, m.keys.Pause):
		return m.TogglePause()
	case key.Matches(msg, m.keys.Debug):
		m.toggleDebug()
		return nil
	}

	m.HandleCommand(m.keys.Command(msg))
	return nil
}

// HandleCommand forwards cmd to the game. The game ignores it while paused or
// over, so nothing is queued.
func (m *Model) HandleCommand(cmd engine.Command) {
	if cmd == engine.CommandNone {
		return
	}

	m.game.HandleCommand(cmd)
	m.drainEvents()
	m.render = true
}

// Start begins a new game and schedules its first frame.
func (m *Model) Start() tea.Cmd {
	m.game.Start()
	m.driver.Restart()
	m.events.Reset()
	m.drainEvents()
	m.render = true

	m.log.Info("game started")
	return m.nextFrame()
}

func (m *Model) TogglePause() tea.Cmd {
	m.game.TogglePause()
	m.render = true

	switch m.game.State() {
	case engine.Paused:
		// cancel the pending frame, a new one is scheduled on resume
		m.frame++
		m.log.Debug("paused", "score", m.game.Score())
	case engine.Running:
		m.log.Debug("resumed")
		return m.nextFrame()
	}
	return nil
}

func (m *Model) HandleFrameMsg(msg FrameMsg) tea.Cmd {
	if msg.Frame != m.frame {
		// Frame was canceled
		return nil
	}
	if m.game.State() != engine.Running {
		return nil
	}

	y := m.game.Current().Y
	m.driver.Frame(msg.Time)
	if m.drainEvents() > 0 || m.game.Current().Y != y {
		m.render = true
	}

	if m.game.State() != engine.Running {
		return nil
	}
	return m.nextFrame()
}

func (m *Model) nextFrame() tea.Cmd {
	m.frame++
	return NewFrame(gravity.FrameInterval, m.frame)
}

// drainEvents logs the game's events and keeps the announceable ones for the
// side panel.
func (m *Model) drainEvents() int {
	evs := m.game.Events()
	for _, ev := range evs {
		switch ev.Kind {
		case engine.EventCleared:
			m.log.Debug("lines cleared", "lines", ev.Lines, "score", ev.Score, "level", ev.Level)
		case engine.EventLevelUp:
			m.log.Debug("level up", "level", ev.Level, "interval", m.game.DropInterval())
		case engine.EventGameOver:
			m.log.Info("game over", "score", ev.Score, "level", ev.Level, "lines", m.game.Lines())
		default:
			continue
		}
		m.events.Push(ev)
	}
	return len(evs)
}

func (m *Model) toggleDebug() {
	m.debug = !m.debug
	if m.debug {
		m.filled = DebugBlock
	} else {
		m.filled = DefaultBlock
	}
	m.render = true
}
