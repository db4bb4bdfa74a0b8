package model

import (
	"testing"
)

func TestPosition_Offset(t *testing.T) {
	tests := []struct {
		name   string
		pos    Position
		dx, dy int16
		want   Position
	}{
		{
			name: "zero offset",
			pos:  NewPosition(100, 100, 7),
			want: NewPosition(100, 100, 7),
		},
		{
			name: "positive offset",
			pos:  NewPosition(100, 100, 7),
			dx:   3,
			dy:   5,
			want: NewPosition(103, 105, 7),
		},
		{
			name: "negative offset",
			pos:  NewPosition(100, 100, 7),
			dx:   -4,
			dy:   -1,
			want: NewPosition(96, 99, 7),
		},
		{
			name: "wraps below zero",
			pos:  NewPosition(0, 10, 0),
			dx:   -1,
			want: NewPosition(65535, 10, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.pos.Offset(tt.dx, tt.dy)
			if got != tt.want {
				t.Errorf("Offset(%d, %d) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestPosition_Distance(t *testing.T) {
	a := NewPosition(100, 100, 7)
	b := NewPosition(95, 108, 7)

	if d := a.DistanceX(b); d != 5 {
		t.Errorf("DistanceX() = %d, want 5", d)
	}
	if d := a.DistanceY(b); d != 8 {
		t.Errorf("DistanceY() = %d, want 8", d)
	}
	if d := b.DistanceY(a); d != 8 {
		t.Errorf("DistanceY() reversed = %d, want 8", d)
	}
}

func TestPosition_String(t *testing.T) {
	if s := NewPosition(1, 2, 3).String(); s != "(1, 2, 3)" {
		t.Errorf("String() = %q, want (1, 2, 3)", s)
	}
}
