// Package gametime maps between real UTC time and the in-game clock.
// The two differ by a single calibration offset in fractional hours,
// persisted between runs and adjusted with the /sync command.
package gametime

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// OffsetSource provides the current calibration offset in fractional hours
// and accepts a replacement value.
type OffsetSource interface {
	Offset() float64
	SetOffset(hours float64) error
}

// ErrInvalidClockFace indicates a calibration input that is not HH:MM
var ErrInvalidClockFace = errors.New("invalid clock face")

// Calibration reports the result of a successful /sync
type Calibration struct {
	Real        time.Time
	Game        time.Time
	OffsetHours float64
}

// Converter converts between real and game time using the current offset
type Converter struct {
	offsets OffsetSource
	now     func() time.Time
}

// New creates a converter reading the real clock in UTC
func New(offsets OffsetSource) *Converter {
	return NewWithClock(offsets, func() time.Time { return time.Now().UTC() })
}

// NewWithClock creates a converter with an explicit clock
func NewWithClock(offsets OffsetSource, now func() time.Time) *Converter {
	return &Converter{offsets: offsets, now: now}
}

// GameNow returns the current game time: real now plus the offset
func (c *Converter) GameNow() time.Time {
	return c.now().Add(hoursToDuration(c.offsets.Offset()))
}

// Calibrate takes the game clock face as "HH:MM" (24-hour), computes the
// difference between that wall-clock time today and real now, rounds it to
// the nearest half hour and stores it as the new offset. A malformed clock
// face fails with ErrInvalidClockFace and leaves the offset untouched.
func (c *Converter) Calibrate(clockFace string) (Calibration, error) {
	face, err := time.Parse("15:04", clockFace)
	if err != nil {
		return Calibration{}, fmt.Errorf("%w: %q", ErrInvalidClockFace, clockFace)
	}

	now := c.now()
	game := time.Date(now.Year(), now.Month(), now.Day(),
		face.Hour(), face.Minute(), now.Second(), now.Nanosecond(), now.Location())

	hours := game.Sub(now).Hours()
	hours = math.Round(hours*2) / 2

	if err := c.offsets.SetOffset(hours); err != nil {
		return Calibration{}, err
	}

	return Calibration{Real: now, Game: game, OffsetHours: hours}, nil
}

// NextOccurrence returns the real-world instant of the next moment whose
// game weekday is day (0-6, Monday=0) and game hour is hour (0-23), with
// minutes and seconds zeroed. A same-day match whose hour has already been
// reached on the game clock rolls a full week; the comparison is on the
// integer hour, so an exact-hour tie also rolls.
func (c *Converter) NextOccurrence(day, hour int) time.Time {
	offset := hoursToDuration(c.offsets.Offset())
	nowGame := c.now().Add(offset)

	target := time.Date(nowGame.Year(), nowGame.Month(), nowGame.Day(),
		hour, 0, 0, 0, nowGame.Location())

	daysAhead := day - MondayIndex(nowGame.Weekday())
	if daysAhead < 0 || (daysAhead == 0 && nowGame.Hour() >= hour) {
		daysAhead += 7
	}
	target = target.AddDate(0, 0, daysAhead)

	return target.Add(-offset)
}

// MondayIndex converts a time.Weekday (Sunday=0) to the Monday=0 indexing
// used by the day keyboard.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
