package gravity

import (
	"testing"
	"time"

	"github.com/ghthor/blokwell/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	ticks   []time.Duration
	resumed bool
}

func (r *recorder) Tick(d time.Duration) { r.ticks = append(r.ticks, d) }

func (r *recorder) TakeResumed() bool {
	v := r.resumed
	r.resumed = false
	return v
}

func TestDriver(t *testing.T) {
	var (
		r  = &recorder{}
		d  = NewDriver(r)
		t0 = time.Unix(100, 0)
	)

	assert.Equal(t, time.Duration(0), d.Frame(t0))
	assert.Equal(t, 50*time.Millisecond, d.Frame(t0.Add(50*time.Millisecond)))
	assert.Equal(t, 25*time.Millisecond, d.Frame(t0.Add(75*time.Millisecond)))

	// a frame delivered out of order never runs gravity backward
	assert.Equal(t, time.Duration(0), d.Frame(t0.Add(70*time.Millisecond)))

	r.resumed = true
	assert.Equal(t, time.Duration(0), d.Frame(t0.Add(time.Hour)))
	assert.Equal(t, 10*time.Millisecond, d.Frame(t0.Add(time.Hour+10*time.Millisecond)))

	d.Restart()
	assert.Equal(t, time.Duration(0), d.Frame(t0.Add(2*time.Hour)))

	require.Equal(t, []time.Duration{
		0,
		50 * time.Millisecond,
		25 * time.Millisecond,
		0,
		0,
		10 * time.Millisecond,
		0,
	}, r.ticks)
}

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

func TestDriverPauseDoesNotSpike(t *testing.T) {
	g := engine.New(engine.WithRand(fixedRand(4)))
	g.Start()

	var (
		d  = NewDriver(g)
		t0 = time.Unix(100, 0)
	)
	d.Frame(t0)
	d.Frame(t0.Add(600 * time.Millisecond))
	require.Equal(t, 0, g.Current().Y)

	g.TogglePause()
	d.Frame(t0.Add(time.Minute))
	g.TogglePause()

	// the minute spent paused is not applied on the first frame back
	d.Frame(t0.Add(2 * time.Minute))
	assert.Equal(t, 0, g.Current().Y)

	d.Frame(t0.Add(2*time.Minute + 399*time.Millisecond))
	assert.Equal(t, 0, g.Current().Y)
	d.Frame(t0.Add(2*time.Minute + 450*time.Millisecond))
	assert.Equal(t, 1, g.Current().Y)
}
