// Package gravity turns wall-clock frame timestamps into the elapsed time
// a game needs to apply gravity.
package gravity

import "time"

// FrameRate is how many frames per second a UI should schedule.
const FrameRate = 20

// FrameInterval is the wall-clock time between two scheduled frames.
const FrameInterval = time.Second / FrameRate

// Ticker is the part of a game a Driver advances. *engine.Game satisfies it.
type Ticker interface {
	Tick(elapsed time.Duration)
	TakeResumed() bool
}

type Driver struct {
	game Ticker
	last time.Time
}

func NewDriver(g Ticker) *Driver {
	return &Driver{game: g}
}

// Frame applies the time since the previous frame. The first frame after a
// Restart, or after the game was resumed from pause, only sets the baseline.
func (d *Driver) Frame(now time.Time) time.Duration {
	resumed := d.game.TakeResumed()
	if d.last.IsZero() || resumed {
		d.last = now
		d.game.Tick(0)
		return 0
	}

	elapsed := max(0, now.Sub(d.last))
	d.last = now
	d.game.Tick(elapsed)
	return elapsed
}

// Restart forgets the baseline.
func (d *Driver) Restart() {
	d.last = time.Time{}
}
