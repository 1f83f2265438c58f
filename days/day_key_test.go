package days

import (
	"testing"
	"time"
)

func TestKeyForFormatsInReferenceTimezone(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Time
		expected Key
	}{
		{
			name:     "afternoon maps to same day",
			input:    time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC),
			expected: Key("15.06.2025"),
		},
		{
			name:     "late UTC evening is already next day in Kyiv (summer, UTC+3)",
			input:    time.Date(2025, 6, 15, 21, 30, 0, 0, time.UTC),
			expected: Key("16.06.2025"),
		},
		{
			name:     "late UTC evening is already next day in Kyiv (winter, UTC+2)",
			input:    time.Date(2025, 1, 15, 22, 30, 0, 0, time.UTC),
			expected: Key("16.01.2025"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k := KeyFor(tt.input); k != tt.expected {
				t.Errorf("KeyFor(%v) expected %q, got %q", tt.input, tt.expected, k)
			}
		})
	}
}

func TestHourStart(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 42, 11, 0, Location())

	start := HourStart(now, 5)
	expected := time.Date(2025, 3, 10, 5, 0, 0, 0, Location())
	if !start.Equal(expected) {
		t.Errorf("HourStart(5) expected %v, got %v", expected, start)
	}

	midnight := HourStart(now, 0)
	if midnight.Hour() != 0 || midnight.Minute() != 0 || midnight.Second() != 0 {
		t.Errorf("HourStart(0) is not midnight: %v", midnight)
	}
}

func TestAt(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, Location())
	at := At(now, 20, 7, 13)
	if at.Hour() != 20 || at.Minute() != 7 || at.Second() != 13 {
		t.Errorf("At(20, 7, 13) expected 20:07:13, got %v", at)
	}
	if KeyFor(at) != KeyFor(now) {
		t.Errorf("At must stay on the same day, got %v", at)
	}
}

func TestHourOf(t *testing.T) {
	// 21:30 UTC in summer is 00:30 in Kyiv
	utc := time.Date(2025, 6, 15, 21, 30, 0, 0, time.UTC)
	if h := HourOf(utc); h != 0 {
		t.Errorf("HourOf expected 0, got %d", h)
	}
}
