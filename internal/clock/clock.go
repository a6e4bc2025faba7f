// Package clock abstracts the algorithm's time source so that live trading
// (wall clock) and replay (timestamp-driven) run the same business logic.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock is the only time source the core consults.
type Clock interface {
	// Now returns the current time in UTC.
	Now() time.Time
	// NowMillis returns the current time as epoch milliseconds.
	NowMillis() int64
	// Advance moves a replay clock to the given epoch milliseconds. Wall
	// clocks ignore it.
	Advance(millis int64)
	// Sleep blocks for the duration on a wall clock and returns
	// immediately on a replay clock.
	Sleep(d time.Duration)
}

// Wall is the live UTC wall clock.
type Wall struct{}

func NewWall() *Wall { return &Wall{} }

func (*Wall) Now() time.Time        { return time.Now().UTC() }
func (*Wall) NowMillis() int64      { return time.Now().UTC().UnixMilli() }
func (*Wall) Advance(int64)         {}
func (*Wall) Sleep(d time.Duration) { time.Sleep(d) }

// Replay is a deterministic clock driven by market data timestamps.
type Replay struct {
	millis atomic.Int64
}

func NewReplay() *Replay { return &Replay{} }

func (r *Replay) Now() time.Time {
	return time.UnixMilli(r.millis.Load()).UTC()
}

func (r *Replay) NowMillis() int64 { return r.millis.Load() }

func (r *Replay) Advance(millis int64) {
	if millis != 0 {
		r.millis.Store(millis)
	}
}

func (*Replay) Sleep(time.Duration) {}

// HourUTC returns the UTC hour of the clock's current time.
func HourUTC(c Clock) int { return c.Now().Hour() }

// DayUTC returns the UTC day of month of the clock's current time.
func DayUTC(c Clock) int { return c.Now().Day() }

// MinuteUTC returns the UTC minute of the clock's current time.
func MinuteUTC(c Clock) int { return c.Now().Minute() }
