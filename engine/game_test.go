package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T, kinds ...string) *Game {
	t.Helper()
	vals := make([]int, 0, len(kinds))
	for _, k := range kinds {
		vals = append(vals, kindIndex(t, k))
	}
	return New(WithRand(&seqRand{vals: vals}))
}

func TestGameLifecycle(t *testing.T) {
	g := newTestGame(t, "T", "O")
	assert.Equal(t, Ready, g.State())

	g.HandleCommand(HardDrop)
	g.Tick(time.Hour)
	g.TogglePause()
	assert.Equal(t, Ready, g.State())
	assert.Nil(t, g.Events())

	g.Start()
	assert.Equal(t, Running, g.State())
	assert.Equal(t, 0, g.Score())
	assert.Equal(t, 1, g.Level())
	assert.Equal(t, time.Second, g.DropInterval())
	assert.Equal(t, Blue, g.Current().Color, "first draw becomes current")
	assert.Equal(t, Green, g.Next().Color, "second draw is queued")

	g.TogglePause()
	assert.Equal(t, Paused, g.State())
	assert.True(t, g.Paused())

	g.TogglePause()
	assert.Equal(t, Running, g.State())
	assert.True(t, g.TakeResumed())
	assert.False(t, g.TakeResumed())

	g.Reset()
	assert.Equal(t, Ready, g.State())
	assert.Equal(t, NewBoard(Cols, Rows).Cells, g.Board().Cells)
}

func TestGameEndToEnd(t *testing.T) {
	g := newTestGame(t, "O")
	g.Start()

	p := g.Current()
	require.True(t, Shape{{true, true}, {true, true}}.Equal(p.Shape))
	require.Equal(t, 4, p.X)
	require.Equal(t, 0, p.Y)

	for range 4 {
		g.Move(-1)
	}
	assert.Equal(t, 0, g.Current().X)

	g.Move(-1)
	assert.Equal(t, 0, g.Current().X, "blocked move is rejected")

	g.HardDrop()
	b := g.Board()
	for _, c := range []Point{{0, 18}, {1, 18}, {0, 19}, {1, 19}} {
		assert.Equal(t, Green, b.At(c.X, c.Y), c)
	}
	assert.Equal(t, Empty, b.At(0, 17))
	assert.Equal(t, 0, g.Lines())
	assert.Equal(t, 0, g.Score())

	evs := g.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, EventLocked, evs[0].Kind)

	// the next O spawns on an empty spawn area
	assert.Equal(t, Running, g.State())
	assert.Equal(t, 4, g.Current().X)
}

func TestGameRotate(t *testing.T) {
	t.Run("rotates when free", func(t *testing.T) {
		g := newTestGame(t, "T")
		g.Start()
		g.SoftDrop()

		before := g.Current()
		g.Rotate()
		assert.True(t, before.Shape.RotateCW().Equal(g.Current().Shape))
		assert.Equal(t, before.X, g.Current().X)
		assert.Equal(t, before.Y, g.Current().Y)
	})

	t.Run("rejects without kick", func(t *testing.T) {
		g := newTestGame(t, "I")
		g.Start()
		// vertical I at the right wall cannot turn back to horizontal
		g.Rotate()
		for range Cols {
			g.Move(1)
		}
		vertical := g.Current()
		require.Equal(t, Cols-1, vertical.X)

		g.Rotate()
		assert.True(t, vertical.Shape.Equal(g.Current().Shape))
		assert.Equal(t, vertical.X, g.Current().X)
	})
}

func TestGameSoftDrop(t *testing.T) {
	g := newTestGame(t, "O")
	g.Start()

	g.Tick(900 * time.Millisecond)
	g.SoftDrop()
	assert.Equal(t, 1, g.Current().Y)

	// the drop counter was reset, so another 900ms is not enough
	g.Tick(900 * time.Millisecond)
	assert.Equal(t, 1, g.Current().Y)

	for g.Current().Y < Rows-2 {
		g.SoftDrop()
	}
	g.Events()

	g.SoftDrop()
	assert.Equal(t, Green, g.Board().At(4, Rows-1))
	assert.Equal(t, 0, g.Current().Y, "a new piece was spawned")
	require.Len(t, g.Events(), 1)
}

func TestGameTick(t *testing.T) {
	g := newTestGame(t, "O")
	g.Start()

	g.Tick(time.Second)
	assert.Equal(t, 0, g.Current().Y, "drops only once the interval is exceeded")

	g.Tick(time.Millisecond)
	assert.Equal(t, 1, g.Current().Y)

	g.Tick(999 * time.Millisecond)
	assert.Equal(t, 1, g.Current().Y)

	g.TogglePause()
	g.Tick(time.Hour)
	g.HandleCommand(HardDrop)
	g.HandleCommand(MoveLeft)
	assert.Equal(t, 1, g.Current().Y, "paused games ignore ticks and input")
	assert.Equal(t, 4, g.Current().X)

	g.TogglePause()
	g.Tick(2 * time.Millisecond)
	assert.Equal(t, 2, g.Current().Y, "accumulated time survives the pause")
}

func TestGameScoring(t *testing.T) {
	cases := []struct {
		level     int
		score     int
		wantScore int
		wantLevel int
	}{
		{level: 1, score: 0, wantScore: 200, wantLevel: 1},
		{level: 3, score: 0, wantScore: 600, wantLevel: 3},
		{level: 1, score: 800, wantScore: 1000, wantLevel: 2},
		{level: 2, score: 1900, wantScore: 2300, wantLevel: 3},
		// one level per clear even when several thresholds are crossed
		{level: 1, score: 5000, wantScore: 5200, wantLevel: 2},
		{level: 12, score: 0, wantScore: 2400, wantLevel: 12},
	}

	for _, tc := range cases {
		g := newTestGame(t, "O")
		g.Start()
		g.level = tc.level
		g.dropInterval = DropInterval(tc.level)
		g.score = tc.score

		// two rows full except the O's landing columns
		b := g.Board()
		for _, y := range []int{Rows - 2, Rows - 1} {
			for x := range Cols {
				if x != 0 && x != 1 {
					b.Cells[y][x] = Red
				}
			}
		}
		g.Move(-1)
		g.Move(-1)
		g.Move(-1)
		g.Move(-1)
		g.HardDrop()

		assert.Equal(t, tc.wantScore, g.Score(), "level %d score %d", tc.level, tc.score)
		assert.Equal(t, tc.wantLevel, g.Level(), "level %d score %d", tc.level, tc.score)
		assert.Equal(t, DropInterval(tc.wantLevel), g.DropInterval())
		assert.Equal(t, 2, g.Lines())
		assert.Equal(t, make([]Color, Cols), b.Cells[Rows-1])
	}
}

func TestGameLevelUpEvent(t *testing.T) {
	g := newTestGame(t, "I")
	g.Start()
	g.score = 900

	b := g.Board()
	for x := 4; x < Cols; x++ {
		b.Cells[Rows-1][x] = Red
	}
	for range 3 {
		g.Move(-1)
	}
	require.Equal(t, 0, g.Current().X)
	g.Events()

	g.HardDrop()
	assert.Equal(t, 2, g.Level())
	assert.Equal(t, 900*time.Millisecond, g.DropInterval())

	evs := g.Events()
	kinds := make([]EventKind, 0, len(evs))
	for _, ev := range evs {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []EventKind{EventLocked, EventCleared, EventLevelUp}, kinds)
	assert.Equal(t, 1, evs[1].Lines)
	assert.Equal(t, 1000, evs[1].Score)
}

func TestGameSpawnCollision(t *testing.T) {
	g := newTestGame(t, "O")
	g.Start()
	g.Events()

	b := g.Board()
	fillRow(b, 0, Red)
	before := b.Snapshot()

	g.SpawnNext()
	assert.True(t, g.GameOver())
	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, before, b.Snapshot(), "the piece is never merged")

	evs := g.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, EventGameOver, evs[0].Kind)

	g.HandleCommand(HardDrop)
	g.Tick(time.Hour)
	g.TogglePause()
	assert.Equal(t, GameOver, g.State())
	assert.Equal(t, before, b.Snapshot())

	g.Start()
	assert.Equal(t, Running, g.State())
	assert.False(t, g.GameOver())
}

func TestGameTopOut(t *testing.T) {
	g := newTestGame(t, "O")
	g.Start()

	for g.State() == Running {
		g.HardDrop()
	}
	assert.Equal(t, GameOver, g.State())
	// ten stacked O pieces fill the middle columns from the floor to row 0
	assert.Equal(t, Green, g.Board().At(4, 0))
	assert.Equal(t, Green, g.Board().At(5, Rows-1))
}

func TestGameSnapshot(t *testing.T) {
	g := newTestGame(t, "S", "Z")
	g.Start()

	s := g.Snapshot()
	assert.Equal(t, Running, s.State)
	assert.Equal(t, Red, s.Current.Color)
	assert.Equal(t, Purple, s.Next.Color)
	assert.Len(t, s.Board, Rows)

	s.Board[0][0] = Red
	s.Current.Shape[0][0] = true
	assert.Equal(t, Empty, g.Board().At(0, 0))
	assert.False(t, g.Current().Shape[0][0])
}

func TestGameUnknownCommand(t *testing.T) {
	g := newTestGame(t, "O")
	g.Start()
	before := g.Snapshot()

	g.HandleCommand(Command(42))
	g.HandleCommand(CommandNone)
	assert.Equal(t, before, g.Snapshot())
}
