package calc

import (
	"math"
	"testing"

	"github.com/sqrtt/damua-go/types"
)

func TestHouseholdSellingPrice(t *testing.T) {
	// Clamped by the market price
	if p := HouseholdSellingPrice(2.64, 1.0, 1.3); p != 1.3 {
		t.Errorf("expected market price 1.3, got %v", p)
	}

	// Tariff ex VAT below the market price
	if p := HouseholdSellingPrice(2.64, 0.5, 5.0); math.Abs(p-1.1) > 1e-9 {
		t.Errorf("expected 1.1, got %v", p)
	}
}

func TestDailyAverage(t *testing.T) {
	if _, ok := DailyAverage(nil); ok {
		t.Error("expected no average for empty entries")
	}

	entries := []types.TimeRangePrice{
		{Start: 0, End: 3600, Value: 1.0},
		{Start: 3600, End: 7200, Value: 2.0},
		{Start: 7200, End: 10800, Value: 3.0},
	}
	avg, ok := DailyAverage(entries)
	if !ok || avg != 2.0 {
		t.Errorf("expected average 2.0, got %v (ok=%v)", avg, ok)
	}
}

func TestMinMaxEntry(t *testing.T) {
	entries := []types.TimeRangePrice{
		{Start: 0, End: 3600, Value: 2.5},
		{Start: 3600, End: 7200, Value: 0.7},
		{Start: 7200, End: 10800, Value: 3.1},
	}

	min, ok := MinEntry(entries)
	if !ok || min.Value != 0.7 || min.Start != 3600 {
		t.Errorf("unexpected min entry: %+v (ok=%v)", min, ok)
	}

	max, ok := MaxEntry(entries)
	if !ok || max.Value != 3.1 || max.Start != 7200 {
		t.Errorf("unexpected max entry: %+v (ok=%v)", max, ok)
	}

	if _, ok := MinEntry(nil); ok {
		t.Error("expected no min entry for empty input")
	}
}
