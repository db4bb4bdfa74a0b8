package world

import (
	"sync"
	"time"
)

const (
	// GameDay is the real-time length of one game day (24 game hours).
	GameDay = time.Hour

	dayStartHour = 6
	dayEndHour   = 18
)

// Clock tracks the game day. One game day lasts GameDay of real time and
// starts at noon when the clock is created.
type Clock struct {
	mu    sync.Mutex
	now   func() time.Time
	epoch time.Time
}

// NewClock creates a Clock starting at 12:00 game time.
func NewClock() *Clock {
	return NewClockWithTime(time.Now)
}

// NewClockWithTime creates a Clock using now as time source (tests).
func NewClockWithTime(now func() time.Time) *Clock {
	c := &Clock{now: now}
	c.epoch = now().Add(-GameDay / 2)
	return c
}

// Minutes returns minutes since game midnight [0, 1440).
func (c *Clock) Minutes() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := c.now().Sub(c.epoch) % GameDay
	if elapsed < 0 {
		elapsed += GameDay
	}
	return int(elapsed * 1440 / GameDay)
}

// Hour returns current game hour [0, 24).
func (c *Clock) Hour() int {
	return c.Minutes() / 60
}

// IsDay reports whether the game hour is within [06:00, 18:00).
func (c *Clock) IsDay() bool {
	h := c.Hour()
	return h >= dayStartHour && h < dayEndHour
}

// SetHour moves the clock so the current game time is hour:00.
func (c *Clock) SetHour(hour int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	offset := time.Duration(hour%24) * GameDay / 24
	c.epoch = c.now().Add(-offset)
}
