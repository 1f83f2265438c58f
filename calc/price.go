package calc

import (
	"math"

	"github.com/sqrtt/damua-go/types"
)

// Household tariffs are regulated including VAT, market prices are not.
const vat = 1.2

func HouseholdPrice(tariff, rate float64) float64 {
	return tariff * rate
}

// HouseholdSellingPrice is the tariff-based selling price excluding VAT,
// capped at the current market price.
func HouseholdSellingPrice(tariff, rate, marketPrice float64) float64 {
	return math.Min(tariff*rate/vat, marketPrice)
}

func DailyAverage(entries []types.TimeRangePrice) (float64, bool) {
	if len(entries) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Value
	}
	return sum / float64(len(entries)), true
}

func MinEntry(entries []types.TimeRangePrice) (types.TimeRangePrice, bool) {
	return pickEntry(entries, func(best, next float64) bool { return next < best })
}

func MaxEntry(entries []types.TimeRangePrice) (types.TimeRangePrice, bool) {
	return pickEntry(entries, func(best, next float64) bool { return next > best })
}

func pickEntry(entries []types.TimeRangePrice, better func(best, next float64) bool) (types.TimeRangePrice, bool) {
	if len(entries) == 0 {
		return types.TimeRangePrice{}, false
	}
	best := entries[0]
	for _, e := range entries[1:] {
		if better(best.Value, e.Value) {
			best = e
		}
	}
	return best, true
}
