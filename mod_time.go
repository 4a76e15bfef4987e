package sylva

import (
	"time"
)

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time

// Time tracks frame timing. Start is the time of the first frame; Elapsed
// feeds the shaders' time uniform.
type Time struct {
	Start   time.Time
	Time    time.Time
	Dt      time.Duration
	Elapsed time.Duration
	Frames  uint64
}

func (t *Time) tick(now time.Time) {
	if t.Frames == 0 {
		t.Start = now
		t.Time = now
	}
	t.Dt = now.Sub(t.Time)
	t.Time = now
	t.Elapsed = now.Sub(t.Start)
	t.Frames++
}
