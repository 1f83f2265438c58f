package oree

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sqrtt/damua-go/days"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestFetchDay(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, days.Location())

	var gotMethod, gotPath, gotAccept, gotRequestedWith string
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("accept")
		gotRequestedWith = r.Header.Get("x-requested-with")

		w.Write([]byte(`{"pricesData":[100,200,300,400,500,600,700,800,900,1000,` +
			`1100,1200,1300,1400,1500,1600,1700,1800,1900,2000,2100,2200,2300,2400]}`))
	})

	entries, err := client.FetchDay(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, entries, 24)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/index.php/PXS/get_pxs_hdata/10.03.2025/DAM/2", gotPath)
	assert.Contains(t, gotAccept, "application/json")
	assert.Equal(t, "XMLHttpRequest", gotRequestedWith)

	// Values arrive in UAH/MWh and come out in UAH/kWh.
	assert.InDelta(t, 0.1, entries[0].Value, 1e-9)
	assert.InDelta(t, 2.4, entries[23].Value, 1e-9)

	// First entry covers the Kyiv-local midnight hour.
	midnight := time.Date(2025, 3, 10, 0, 0, 0, 0, days.Location()).Unix()
	assert.Equal(t, midnight, entries[0].Start)
	for i, e := range entries {
		assert.Equal(t, int64(3600), e.End-e.Start, "entry %d is not one hour", i)
		if i > 0 {
			assert.Equal(t, entries[i-1].End, e.Start, "entry %d is not contiguous", i)
		}
	}
}

func TestFetchDayNotPublished(t *testing.T) {
	for name, body := range map[string]string{
		"missing field": `{}`,
		"empty array":   `{"pricesData":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			})

			_, err := client.FetchDay(context.Background(), time.Now())
			assert.ErrorIs(t, err, ErrNoData)
		})
	}
}

func TestFetchDayMalformedPayload(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		client := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		})

		_, err := client.FetchDay(context.Background(), time.Now())
		assert.ErrorIs(t, err, ErrMalformedPayload)
	})

	t.Run("wrong number of hours", func(t *testing.T) {
		client := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"pricesData":[1,2,3]}`))
		})

		_, err := client.FetchDay(context.Background(), time.Now())
		assert.ErrorIs(t, err, ErrMalformedPayload)
		assert.NotErrorIs(t, err, ErrNoData)
	})
}

func TestFetchDayServerError(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FetchDay(context.Background(), time.Now())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoData))
	assert.False(t, errors.Is(err, ErrMalformedPayload))
}

func TestFetchDayContextCancelled(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchDay(ctx, time.Now())
	assert.Error(t, err)
}
