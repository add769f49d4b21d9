// Package engine holds the rules of a falling-block puzzle: the shape
// catalog, pieces, the board, and the game state machine that drives them.
//
// Everything here is synchronous and owned by a single goroutine. Renderers
// and input adapters read state through the accessors or Snapshot.
package engine

import (
	"math/rand/v2"
	"time"
)

type State int

const (
	Ready State = iota
	Running
	Paused
	GameOver
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case GameOver:
		return "game-over"
	default:
		return "unknown"
	}
}

type Option func(*Game)

func WithRand(r Rand) Option {
	return func(g *Game) { g.rng = r }
}

func WithSize(cols, rows int) Option {
	return func(g *Game) { g.cols, g.rows = cols, rows }
}

type Game struct {
	rng        Rand
	cols, rows int

	board *Board

	current, next Piece

	score int
	level int
	lines int

	dropInterval time.Duration
	dropCounter  time.Duration

	started bool
	over    bool
	paused  bool
	resumed bool

	events []Event
}

func New(opts ...Option) *Game {
	g := &Game{
		cols: Cols,
		rows: Rows,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g.Reset()
	return g
}

// Reset reinitializes every field and allocates an empty board. The game
// waits in Ready until Start.
func (g *Game) Reset() {
	g.started = false
	g.board = NewBoard(g.cols, g.rows)
	g.current = Piece{}
	g.next = Piece{}
	g.score = 0
	g.level = 1
	g.lines = 0
	g.dropInterval = DropInterval(1)
	g.dropCounter = 0
	g.over = false
	g.paused = false
	g.resumed = false
	g.events = g.events[:0]
}

// Start resets the game, draws the first piece and spawns it.
func (g *Game) Start() {
	g.Reset()
	g.started = true
	g.next = g.draw()
	g.SpawnNext()
}

func (g *Game) draw() Piece {
	s, c := RandomShape(g.rng)
	return g.board.Spawn(s, c)
}

// SpawnNext promotes the queued piece and queues a fresh one. The game is
// over when the promoted piece collides where it spawned.
func (g *Game) SpawnNext() {
	g.current = g.next
	g.next = g.draw()

	if g.board.Collides(g.current) {
		g.over = true
		g.emit(EventGameOver, 0)
	}
}

func (g *Game) active() bool {
	return g.started && !g.over && !g.paused
}

// HandleCommand applies a player command. Commands are dropped while the game
// is not running, unknown commands are ignored.
func (g *Game) HandleCommand(cmd Command) {
	switch cmd {
	case MoveLeft:
		g.Move(-1)
	case MoveRight:
		g.Move(1)
	case SoftDrop:
		g.SoftDrop()
	case Rotate:
		g.Rotate()
	case HardDrop:
		g.HardDrop()
	}
}

func (g *Game) Move(dir int) {
	if !g.active() {
		return
	}

	candidate := g.current.Translate(dir, 0)
	if !g.board.Collides(candidate) {
		g.current = candidate
	}
}

// Rotate turns the current piece clockwise, or leaves it untouched when the
// rotated shape would collide.
func (g *Game) Rotate() {
	if !g.active() {
		return
	}

	candidate := g.current.WithShape(g.current.Shape.RotateCW())
	if !g.board.Collides(candidate) {
		g.current = candidate
	}
}

func (g *Game) SoftDrop() {
	if !g.active() {
		return
	}

	candidate := g.current.Translate(0, 1)
	if g.board.Collides(candidate) {
		g.lock()
	} else {
		g.current = candidate
	}
	g.dropCounter = 0
}

func (g *Game) HardDrop() {
	if !g.active() {
		return
	}

	for !g.board.Collides(g.current) {
		g.current.Y++
	}
	g.current.Y--
	g.lock()
	g.dropCounter = 0
}

func (g *Game) lock() {
	g.board.Merge(g.current)
	g.emit(EventLocked, 0)

	g.award(g.board.ClearLines())
	g.SpawnNext()
}

func (g *Game) award(cleared int) {
	if cleared == 0 {
		return
	}

	g.lines += cleared
	g.score += LineScore(cleared, g.level)
	g.emit(EventCleared, cleared)

	// Checked once per clear: a large jump still only advances one level.
	if g.score >= LevelThreshold(g.level) {
		g.level++
		g.dropInterval = DropInterval(g.level)
		g.emit(EventLevelUp, 0)
	}
}

// Tick advances gravity by elapsed. A soft drop is forced once the time since
// the last drop exceeds the drop interval.
func (g *Game) Tick(elapsed time.Duration) {
	if !g.active() {
		return
	}

	g.dropCounter += elapsed
	if g.dropCounter > g.dropInterval {
		g.SoftDrop()
	}
}

// TogglePause pauses or resumes a game in progress. Resuming raises the
// signal returned by TakeResumed.
func (g *Game) TogglePause() {
	if !g.started || g.over {
		return
	}

	g.paused = !g.paused
	if !g.paused {
		g.resumed = true
	}
}

// TakeResumed reports whether the game was resumed since the last call, so a
// clock can drop the time spent paused.
func (g *Game) TakeResumed() bool {
	r := g.resumed
	g.resumed = false
	return r
}

func (g *Game) emit(k EventKind, lines int) {
	g.events = append(g.events, Event{
		Kind:  k,
		Lines: lines,
		Score: g.score,
		Level: g.level,
	})
}

// Events returns the events recorded since the last call.
func (g *Game) Events() []Event {
	if len(g.events) == 0 {
		return nil
	}
	evs := append([]Event(nil), g.events...)
	g.events = g.events[:0]
	return evs
}

func (g *Game) State() State {
	switch {
	case !g.started:
		return Ready
	case g.over:
		return GameOver
	case g.paused:
		return Paused
	default:
		return Running
	}
}

func (g *Game) Board() *Board               { return g.board }
func (g *Game) Current() Piece              { return g.current }
func (g *Game) Next() Piece                 { return g.next }
func (g *Game) Score() int                  { return g.score }
func (g *Game) Level() int                  { return g.level }
func (g *Game) Lines() int                  { return g.lines }
func (g *Game) DropInterval() time.Duration { return g.dropInterval }
func (g *Game) GameOver() bool              { return g.over }
func (g *Game) Paused() bool                { return g.paused }

// Snapshot is a read-only copy of the game for renderers.
type Snapshot struct {
	Board         [][]Color
	Current, Next Piece
	Score         int
	Level         int
	Lines         int
	DropInterval  time.Duration
	State         State
	GameOver      bool
	Paused        bool
}

func (g *Game) Snapshot() Snapshot {
	return Snapshot{
		Board:        g.board.Snapshot(),
		Current:      g.current.Clone(),
		Next:         g.next.Clone(),
		Score:        g.score,
		Level:        g.level,
		Lines:        g.lines,
		DropInterval: g.dropInterval,
		State:        g.State(),
		GameOver:     g.over,
		Paused:       g.paused,
	}
}
