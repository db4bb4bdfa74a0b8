package world

import (
	"testing"
	"time"
)

type manualTime struct {
	t time.Time
}

func (m *manualTime) now() time.Time { return m.t }

func TestClock_StartsAtNoon(t *testing.T) {
	mt := &manualTime{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewClockWithTime(mt.now)

	if got := c.Hour(); got != 12 {
		t.Errorf("Hour() = %d, want 12", got)
	}
	if !c.IsDay() {
		t.Error("IsDay() = false at noon")
	}
}

func TestClock_DayNight(t *testing.T) {
	tests := []struct {
		hour    int
		wantDay bool
	}{
		{hour: 0, wantDay: false},
		{hour: 5, wantDay: false},
		{hour: 6, wantDay: true},
		{hour: 17, wantDay: true},
		{hour: 18, wantDay: false},
		{hour: 23, wantDay: false},
	}

	mt := &manualTime{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewClockWithTime(mt.now)

	for _, tt := range tests {
		c.SetHour(tt.hour)
		if got := c.Hour(); got != tt.hour {
			t.Errorf("SetHour(%d): Hour() = %d", tt.hour, got)
		}
		if got := c.IsDay(); got != tt.wantDay {
			t.Errorf("hour %d: IsDay() = %v, want %v", tt.hour, got, tt.wantDay)
		}
	}
}

func TestClock_Advances(t *testing.T) {
	mt := &manualTime{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewClockWithTime(mt.now)

	// quarter of a game day moves noon to 18:00
	mt.t = mt.t.Add(GameDay / 4)
	if got := c.Hour(); got != 18 {
		t.Errorf("Hour() = %d, want 18", got)
	}
	if c.IsDay() {
		t.Error("IsDay() = true at 18:00")
	}

	mt.t = mt.t.Add(GameDay)
	if got := c.Hour(); got != 18 {
		t.Errorf("Hour() after full day = %d, want 18", got)
	}
}
