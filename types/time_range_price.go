package types

import (
	"context"
	"time"
)

// TimeRangePrice is one hour of day-ahead market price. Start and End are
// epoch seconds and the interval is half-open [Start, End), so a point in
// time matches at most one entry of a day.
type TimeRangePrice struct {
	Start int64   `json:"start"`
	End   int64   `json:"end"`
	Value float64 `json:"value"` // Price in UAH per kWh
}

func (p TimeRangePrice) Contains(t int64) bool {
	return p.Start <= t && t < p.End
}

func (p TimeRangePrice) Duration() int64 {
	return p.End - p.Start
}

type PriceProvider interface {
	// FetchDay retrieves the 24 hourly prices for the delivery day t
	// falls on in the market reference timezone.
	FetchDay(ctx context.Context, day time.Time) ([]TimeRangePrice, error)
}
