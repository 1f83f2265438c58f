package oree

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sqrtt/damua-go/convert"
	"github.com/sqrtt/damua-go/days"
	"github.com/sqrtt/damua-go/prices"
	"github.com/sqrtt/damua-go/types"
)

const DefaultBaseURL = "https://www.oree.com.ua"

var (
	// ErrNoData means the upstream has not published the requested day yet.
	ErrNoData = errors.New("oree: day-ahead prices not published")
	// ErrMalformedPayload means the response could not be interpreted as a
	// complete delivery day.
	ErrMalformedPayload = errors.New("oree: malformed payload")
)

// Client fetches day-ahead market prices from the Ukrainian market
// operator. A single attempt per call; retrying is the scheduler's concern.
type Client struct {
	baseURL string
	hc      *http.Client
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

type damResponse struct {
	PricesData []float64 `json:"pricesData"`
}

// FetchDay retrieves the 24 hourly prices for the delivery day. The
// upstream publishes values in UAH/MWh, i.e. thousandths of UAH/kWh.
func (c *Client) FetchDay(ctx context.Context, day time.Time) ([]types.TimeRangePrice, error) {
	url := fmt.Sprintf("%s/index.php/PXS/get_pxs_hdata/%s/DAM/2", c.baseURL, days.KeyFor(day))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("x-requested-with", "XMLHttpRequest")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var dam damResponse
	if err := json.NewDecoder(resp.Body).Decode(&dam); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	if len(dam.PricesData) == 0 {
		return nil, ErrNoData
	}
	if len(dam.PricesData) != prices.HoursPerDay {
		return nil, fmt.Errorf("%w: got %d hourly values", ErrMalformedPayload, len(dam.PricesData))
	}

	entries := make([]types.TimeRangePrice, 0, prices.HoursPerDay)
	for i, raw := range dam.PricesData {
		start := days.HourStart(day, i).Unix()
		entries = append(entries, types.TimeRangePrice{
			Start: start,
			End:   start + 3600,
			Value: convert.RoundFloat64(raw/1000, 4),
		})
	}

	return entries, nil
}
