package blokfall

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/ghthor/blokwell/engine"
)

const (
	DebugBlock   = "╺╸"
	DefaultBlock = "  "
	DefaultEmpty = "  "
)

// Preview area in cells, large enough for every catalog shape at spawn.
const (
	previewWidth  = 4
	previewHeight = 2
)

var (
	Bold  = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Faint(true)

	StyleBanner = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Align(lipgloss.Center)

	StyleSide = lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1)
)

// https://github.com/fidian/ansi?tab=readme-ov-file#--color-codes
var ansiColors = map[engine.Color]lipgloss.ANSIColor{
	engine.Cyan:   51,
	engine.Blue:   27,
	engine.Orange: 208,
	engine.Yellow: 226,
	engine.Green:  46,
	engine.Purple: 129,
	engine.Red:    196,
}

func newColors() map[engine.Color]lipgloss.Style {
	colors := make(map[engine.Color]lipgloss.Style, len(ansiColors))
	for c, ansi := range ansiColors {
		colors[c] = lipgloss.NewStyle().Background(ansi)
	}
	return colors
}

type tableView struct {
	board string
	side  string
}

var _ table.Data = tableView{}

func (t tableView) At(row, col int) string {
	switch col {
	case 0:
		return t.board
	case 1:
		return t.side
	default:
		return ""
	}
}

func (t tableView) Rows() int    { return 1 }
func (t tableView) Columns() int { return 2 }

// text is a fixed string usable as an overlay layer.
type text string

func (t text) Init() tea.Cmd                       { return nil }
func (t text) Update(tea.Msg) (tea.Model, tea.Cmd) { return t, nil }
func (t text) View() string                        { return string(t) }

func (m *Model) View() string {
	if !m.render {
		return m.view
	}

	s := m.game.Snapshot()

	m.b.Reset()
	m.printBoard(&m.b, s)
	m.tableView.board = m.withBanner(s, m.b.String())

	m.b.Reset()
	m.printSide(&m.b, s)
	m.tableView.side = StyleSide.Render(m.b.String())

	m.b.Reset()
	m.table.Data(m.tableView)
	m.b.WriteString(m.table.Render())
	m.b.WriteString("\n")
	m.b.WriteString(m.help.View(m.keys))

	m.view = m.b.String()
	m.render = false
	return m.view
}

func (m *Model) printCell(w io.Writer, c engine.Color) {
	if c == engine.Empty {
		fmt.Fprint(w, DefaultEmpty)
	} else {
		fmt.Fprint(w, m.colors[c].Render(m.filled))
	}
}

// printBoard writes the locked cells with the active piece drawn on top.
func (m *Model) printBoard(w io.Writer, s engine.Snapshot) {
	cells := s.Board
	for c := range s.Current.Cells() {
		if c.Y >= 0 && c.Y < len(cells) && c.X >= 0 && c.X < len(cells[c.Y]) {
			cells[c.Y][c.X] = s.Current.Color
		}
	}

	for y, row := range cells {
		for _, c := range row {
			m.printCell(w, c)
		}
		if y+1 != len(cells) {
			fmt.Fprintln(w)
		}
	}
}

func (m *Model) withBanner(s engine.Snapshot, board string) string {
	var banner string
	switch s.State {
	case engine.Ready:
		banner = "BLOKFALL\n\npress enter"
	case engine.Paused:
		banner = "PAUSED"
	case engine.GameOver:
		banner = fmt.Sprintf("GAME OVER\n\nscore %d", s.Score)
	default:
		return board
	}

	m.overlay.Foreground = text(StyleBanner.Render(banner))
	m.overlay.Background = text(board)
	return m.overlay.View()
}

func (m *Model) printSide(w io.Writer, s engine.Snapshot) {
	if m.player != "" {
		fmt.Fprintf(w, "%s\n\n", Bold.Render(m.player))
	}

	fmt.Fprintln(w, Bold.Render("next"))
	fmt.Fprintln(w, m.viewPiece(s.Next))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "score %d\n", s.Score)
	fmt.Fprintf(w, "level %d\n", s.Level)
	fmt.Fprintf(w, "lines %d\n", s.Lines)

	if m.events.Len() > 0 {
		fmt.Fprintln(w)
		for ev := range m.events.Iter() {
			fmt.Fprintln(w, Faint.Render(describeEvent(ev)))
		}
	}

	if m.debug {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "state %s\n", s.State)
		fmt.Fprintf(w, "drop  %s\n", s.DropInterval)
		fmt.Fprintf(w, "at    %d,%d\n", s.Current.X, s.Current.Y)
	}
}

func (m *Model) viewPiece(p engine.Piece) string {
	b := &m.pieceBuf
	b.Reset()

	for y := range previewHeight {
		for x := range previewWidth {
			c := engine.Empty
			if y < p.Shape.Height() && x < p.Shape.Width() && p.Shape[y][x] {
				c = p.Color
			}
			m.printCell(b, c)
		}
		if y+1 < previewHeight {
			fmt.Fprintln(b)
		}
	}
	return b.String()
}

func describeEvent(ev engine.Event) string {
	switch ev.Kind {
	case engine.EventCleared:
		noun := "lines"
		if ev.Lines == 1 {
			noun = "line"
		}
		return fmt.Sprintf("+%d %d %s", engine.LineScore(ev.Lines, ev.Level), ev.Lines, noun)
	case engine.EventLevelUp:
		return fmt.Sprintf("level %d!", ev.Level)
	case engine.EventGameOver:
		return "topped out"
	default:
		return ev.Kind.String()
	}
}
