package browse

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration)     { c.t = c.t.Add(d) }

func TestDebouncer(t *testing.T) {
	t.Run("First Call Fires", func(t *testing.T) {
		d := NewDebouncer(500*time.Millisecond, newFakeClock().Now)
		if !d.Allow() {
			t.Error("expected first call to fire")
		}
	})

	t.Run("Burst Fires Once", func(t *testing.T) {
		clock := newFakeClock()
		d := NewDebouncer(500*time.Millisecond, clock.Now)

		fired := 0
		for i := 0; i < 10; i++ {
			if d.Allow() {
				fired++
			}
			clock.Advance(100 * time.Millisecond)
		}
		if fired != 1 {
			t.Errorf("expected exactly 1 fire, got %d", fired)
		}
	})

	t.Run("Suppressed Calls Extend The Window", func(t *testing.T) {
		clock := newFakeClock()
		d := NewDebouncer(500*time.Millisecond, clock.Now)

		d.Allow()
		clock.Advance(400 * time.Millisecond)
		if d.Allow() {
			t.Fatal("expected call inside the window to be suppressed")
		}
		clock.Advance(400 * time.Millisecond)
		if d.Allow() {
			t.Error("expected window to restart after a suppressed call")
		}
	})

	t.Run("Fires After Quiet Interval", func(t *testing.T) {
		clock := newFakeClock()
		d := NewDebouncer(500*time.Millisecond, clock.Now)

		d.Allow()
		clock.Advance(500 * time.Millisecond)
		if !d.Allow() {
			t.Error("expected call after the interval to fire")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		clock := newFakeClock()
		d := NewDebouncer(time.Hour, clock.Now)

		d.Allow()
		d.Reset()
		if !d.Allow() {
			t.Error("expected call after reset to fire")
		}
	})

	t.Run("Zero Interval Always Fires", func(t *testing.T) {
		d := NewDebouncer(0, newFakeClock().Now)
		for i := 0; i < 3; i++ {
			if !d.Allow() {
				t.Errorf("call %d: expected fire with zero interval", i)
			}
		}
	})
}
