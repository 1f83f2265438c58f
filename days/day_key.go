package days

import (
	"fmt"
	"time"
)

// The upstream market identifies delivery days with this layout,
// e.g. "05.03.2025".
const keyLayout = "02.01.2006"

var kyivLoc *time.Location

func init() {
	var err error
	kyivLoc, err = time.LoadLocation("Europe/Kiev")
	if err != nil {
		panic(fmt.Sprintf("failed to load Kyiv location: %v", err))
	}
}

// Location returns the market reference timezone. All day and hour
// bucketing uses it regardless of host locale.
func Location() *time.Location {
	return kyivLoc
}

// Key identifies a delivery day in the market reference timezone.
type Key string

func (k Key) String() string {
	return string(k)
}

func KeyFor(t time.Time) Key {
	return Key(t.In(kyivLoc).Format(keyLayout))
}

func KeyForNow() Key {
	return KeyFor(time.Now())
}

// HourStart returns the start of the given hour (0-23) of the day t falls
// on in the reference timezone.
func HourStart(t time.Time, hour int) time.Time {
	d := t.In(kyivLoc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, kyivLoc)
}

// At returns the given wall-clock time of the day t falls on in the
// reference timezone.
func At(t time.Time, hour, min, sec int) time.Time {
	d := t.In(kyivLoc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, sec, 0, kyivLoc)
}

// HourOf returns the reference-local hour of t.
func HourOf(t time.Time) int {
	return t.In(kyivLoc).Hour()
}
