package gametime

import (
	"errors"
	"testing"
	"time"
)

type memOffsets struct {
	hours float64
}

func (m *memOffsets) Offset() float64 {
	return m.hours
}

func (m *memOffsets) SetOffset(hours float64) error {
	m.hours = hours
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// 2026-01-05 is a Monday.
var monday = time.Date(2026, time.January, 5, 15, 0, 0, 0, time.UTC)

func TestGameNowRoundTrip(t *testing.T) {
	now := time.Date(2026, time.March, 17, 10, 30, 45, 0, time.UTC)

	offsets := []float64{-2.0, 0, 8.5, -11.5, 0.5}
	for _, hours := range offsets {
		conv := NewWithClock(&memOffsets{hours: hours}, fixedClock(now))

		game := conv.GameNow()
		back := game.Add(-time.Duration(hours * float64(time.Hour)))
		if !back.Equal(now) {
			t.Errorf("offset %g: round trip gave %v, want %v", hours, back, now)
		}
	}
}

func TestCalibrate(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		clockFace string
		want      float64
	}{
		{
			name:      "evening game clock at morning real time",
			now:       time.Date(2026, time.March, 17, 10, 0, 0, 0, time.UTC),
			clockFace: "18:30",
			want:      8.5,
		},
		{
			name:      "game clock behind real time",
			now:       time.Date(2026, time.March, 17, 10, 0, 0, 0, time.UTC),
			clockFace: "08:00",
			want:      -2.0,
		},
		{
			name:      "twenty minutes rounds up to half an hour",
			now:       time.Date(2026, time.March, 17, 10, 0, 0, 0, time.UTC),
			clockFace: "10:20",
			want:      0.5,
		},
		{
			name:      "ten minutes rounds down to zero",
			now:       time.Date(2026, time.March, 17, 10, 0, 0, 0, time.UTC),
			clockFace: "10:10",
			want:      0,
		},
		{
			name:      "seconds on the real clock cancel out",
			now:       time.Date(2026, time.March, 17, 10, 0, 42, 0, time.UTC),
			clockFace: "18:30",
			want:      8.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memOffsets{hours: -2.0}
			conv := NewWithClock(store, fixedClock(tt.now))

			cal, err := conv.Calibrate(tt.clockFace)
			if err != nil {
				t.Fatalf("Calibrate(%q) failed: %v", tt.clockFace, err)
			}
			if cal.OffsetHours != tt.want {
				t.Errorf("Calibrate(%q) offset = %g, want %g", tt.clockFace, cal.OffsetHours, tt.want)
			}
			if store.hours != tt.want {
				t.Errorf("stored offset = %g, want %g", store.hours, tt.want)
			}
			if !cal.Real.Equal(tt.now) {
				t.Errorf("reported real time = %v, want %v", cal.Real, tt.now)
			}
			if got := cal.Game.Format("15:04"); got != tt.clockFace {
				t.Errorf("reported game time = %s, want %s", got, tt.clockFace)
			}
		})
	}
}

func TestCalibrateInvalidInput(t *testing.T) {
	for _, clockFace := range []string{"", "18-30", "half past six", "25:00", "12:61"} {
		store := &memOffsets{hours: -2.0}
		conv := NewWithClock(store, fixedClock(monday))

		_, err := conv.Calibrate(clockFace)
		if !errors.Is(err, ErrInvalidClockFace) {
			t.Errorf("Calibrate(%q) error = %v, want ErrInvalidClockFace", clockFace, err)
		}
		if store.hours != -2.0 {
			t.Errorf("Calibrate(%q) mutated offset to %g", clockFace, store.hours)
		}
	}
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		day    int
		hour   int
		want   time.Time
	}{
		{
			// Game time is Monday 15:00; Monday 14:00 has passed, so
			// the target is the following Monday.
			name:   "same day earlier hour wraps a week",
			offset: 0,
			day:    0,
			hour:   14,
			want:   time.Date(2026, time.January, 12, 14, 0, 0, 0, time.UTC),
		},
		{
			name:   "exact current hour counts as passed",
			offset: 0,
			day:    0,
			hour:   15,
			want:   time.Date(2026, time.January, 12, 15, 0, 0, 0, time.UTC),
		},
		{
			name:   "same day later hour stays today",
			offset: 0,
			day:    0,
			hour:   16,
			want:   time.Date(2026, time.January, 5, 16, 0, 0, 0, time.UTC),
		},
		{
			name:   "later weekday",
			offset: 0,
			day:    3,
			hour:   9,
			want:   time.Date(2026, time.January, 8, 9, 0, 0, 0, time.UTC),
		},
		{
			name:   "sunday from monday",
			offset: 0,
			day:    6,
			hour:   20,
			want:   time.Date(2026, time.January, 11, 20, 0, 0, 0, time.UTC),
		},
		{
			// Game time is Monday 13:00 with a -2h offset; Monday
			// 14:00 game is 16:00 real the same day.
			name:   "negative offset shifts the real instant forward",
			offset: -2.0,
			day:    0,
			hour:   14,
			want:   time.Date(2026, time.January, 5, 16, 0, 0, 0, time.UTC),
		},
		{
			name:   "fractional offset",
			offset: 8.5,
			day:    1,
			hour:   12,
			want:   time.Date(2026, time.January, 6, 3, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := NewWithClock(&memOffsets{hours: tt.offset}, fixedClock(monday))

			got := conv.NextOccurrence(tt.day, tt.hour)
			if !got.Equal(tt.want) {
				t.Errorf("NextOccurrence(%d, %d) = %v, want %v", tt.day, tt.hour, got, tt.want)
			}
		})
	}
}

func TestNextOccurrenceStrictlyFuture(t *testing.T) {
	clocks := []time.Time{
		monday,
		time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.January, 11, 23, 59, 59, 0, time.UTC),
	}

	for _, now := range clocks {
		for _, offset := range []float64{-2.0, 0, 8.5} {
			conv := NewWithClock(&memOffsets{hours: offset}, fixedClock(now))
			for day := 0; day < 7; day++ {
				for hour := 0; hour < 24; hour++ {
					got := conv.NextOccurrence(day, hour)
					if !got.After(now) {
						t.Fatalf("NextOccurrence(%d, %d) at %v offset %g = %v, not in the future",
							day, hour, now, offset, got)
					}
				}
			}
		}
	}
}

func TestMondayIndex(t *testing.T) {
	if got := MondayIndex(time.Monday); got != 0 {
		t.Errorf("MondayIndex(Monday) = %d, want 0", got)
	}
	if got := MondayIndex(time.Sunday); got != 6 {
		t.Errorf("MondayIndex(Sunday) = %d, want 6", got)
	}
}
