package readings

import (
	"encoding/json"
	"time"

	"github.com/sqrtt/damua-go/calc"
	"github.com/sqrtt/damua-go/days"
	"github.com/sqrtt/damua-go/prices"
	"github.com/sqrtt/damua-go/slice"
	"github.com/sqrtt/damua-go/types"
	"github.com/sqrtt/damua-go/types/maybe"
)

// Kind tags a derived price metric. Each kind maps to a pure function
// from a price snapshot to a value, so nothing here holds mutable state.
type Kind string

const (
	KindUpdatedAt             Kind = "updated_at"
	KindCurrentPrice          Kind = "current_price"
	KindLastPrice             Kind = "last_price"
	KindNextPrice             Kind = "next_price"
	KindLowestPrice           Kind = "lowest_price"
	KindHighestPrice          Kind = "highest_price"
	KindDailyAverage          Kind = "daily_average"
	KindHouseholdPrice        Kind = "current_household_price"
	KindHouseholdSellingPrice Kind = "current_household_selling_price"
)

var Kinds = []Kind{
	KindUpdatedAt,
	KindCurrentPrice,
	KindLastPrice,
	KindNextPrice,
	KindLowestPrice,
	KindHighestPrice,
	KindDailyAverage,
	KindHouseholdPrice,
	KindHouseholdSellingPrice,
}

// Reading is a single published metric: a numeric value plus optional
// string-keyed auxiliary attributes.
type Reading struct {
	Value float64           `json:"value"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Input is everything a metric may depend on.
type Input struct {
	Snapshot        prices.Snapshot
	UpdatedAt       maybe.Maybe[time.Time]
	MeterZones      string
	HouseholdTariff float64 // UAH/kWh, 0 means not configured
	Now             time.Time
}

func (in Input) todayEntries() []types.TimeRangePrice {
	return in.Snapshot.DayEntries(days.KeyFor(in.Now))
}

// Compute evaluates the metric against the input. None means the metric
// has no value right now (e.g. day not fetched, tariff not configured).
func (k Kind) Compute(in Input) maybe.Maybe[Reading] {
	switch k {
	case KindUpdatedAt:
		if !in.UpdatedAt.IsValid() {
			return maybe.None[Reading]()
		}
		at := in.UpdatedAt.Value()
		return maybe.Some(Reading{
			Value: float64(at.Unix()),
			Attrs: map[string]string{"iso": at.In(days.Location()).Format(time.RFC3339)},
		})

	case KindCurrentPrice:
		_, current, _ := pricesAround(in.Snapshot.AllEntries(), in.Now)
		values := slice.Map(in.todayEntries(), func(e types.TimeRangePrice) float64 { return e.Value })
		attrs := map[string]string{}
		if buf, err := json.Marshal(values); err == nil {
			attrs["today_prices"] = string(buf)
		}
		return maybe.Some(Reading{Value: current.ValueOrDefault(0), Attrs: attrs})

	case KindLastPrice:
		last, _, _ := pricesAround(in.Snapshot.AllEntries(), in.Now)
		return asReading(last)

	case KindNextPrice:
		_, _, next := pricesAround(in.Snapshot.AllEntries(), in.Now)
		return asReading(next)

	case KindLowestPrice:
		entry, ok := calc.MinEntry(in.todayEntries())
		if !ok {
			return maybe.None[Reading]()
		}
		return maybe.Some(entryReading(entry))

	case KindHighestPrice:
		entry, ok := calc.MaxEntry(in.todayEntries())
		if !ok {
			return maybe.None[Reading]()
		}
		return maybe.Some(entryReading(entry))

	case KindDailyAverage:
		avg, ok := calc.DailyAverage(in.todayEntries())
		if !ok {
			return maybe.None[Reading]()
		}
		return maybe.Some(Reading{Value: avg})

	case KindHouseholdPrice:
		if in.HouseholdTariff <= 0 {
			return maybe.None[Reading]()
		}
		rate := calc.ZoneRate(in.MeterZones, days.HourOf(in.Now))
		return maybe.Some(Reading{Value: calc.HouseholdPrice(in.HouseholdTariff, rate)})

	case KindHouseholdSellingPrice:
		if in.HouseholdTariff <= 0 {
			return maybe.None[Reading]()
		}
		_, current, _ := pricesAround(in.Snapshot.AllEntries(), in.Now)
		rate := calc.ZoneRate(in.MeterZones, days.HourOf(in.Now))
		return maybe.Some(Reading{
			Value: calc.HouseholdSellingPrice(in.HouseholdTariff, rate, current.ValueOrDefault(0)),
		})
	}

	return maybe.None[Reading]()
}

// ComputeAll evaluates every metric and returns the ones that currently
// have a value.
func ComputeAll(in Input) map[Kind]Reading {
	result := make(map[Kind]Reading, len(Kinds))
	for _, kind := range Kinds {
		if r := kind.Compute(in); r.IsValid() {
			result[kind] = r.Value()
		}
	}
	return result
}

// pricesAround returns the prices of the previous, current and next hour
// relative to now. Entries are half-open, so each lookup matches at most
// one entry.
func pricesAround(entries []types.TimeRangePrice, now time.Time) (last, current, next maybe.Maybe[float64]) {
	ts := now.Unix()
	last, current, next = maybe.None[float64](), maybe.None[float64](), maybe.None[float64]()

	if e, ok := slice.Find(entries, func(e types.TimeRangePrice) bool { return e.Contains(ts - 3600) }); ok {
		last = maybe.Some(e.Value)
	}
	if e, ok := slice.Find(entries, func(e types.TimeRangePrice) bool { return e.Contains(ts) }); ok {
		current = maybe.Some(e.Value)
	}
	if e, ok := slice.Find(entries, func(e types.TimeRangePrice) bool { return e.Contains(ts + 3600) }); ok {
		next = maybe.Some(e.Value)
	}
	return last, current, next
}

func asReading(v maybe.Maybe[float64]) maybe.Maybe[Reading] {
	if !v.IsValid() {
		return maybe.None[Reading]()
	}
	return maybe.Some(Reading{Value: v.Value()})
}

func entryReading(e types.TimeRangePrice) Reading {
	return Reading{
		Value: e.Value,
		Attrs: map[string]string{
			"start": formatUnix(e.Start),
			"end":   formatUnix(e.End),
		},
	}
}

func formatUnix(ts int64) string {
	return time.Unix(ts, 0).In(days.Location()).Format(time.RFC3339)
}

func (k Kind) String() string {
	return string(k)
}
