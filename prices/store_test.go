package prices

import (
	"reflect"
	"testing"
	"time"

	"github.com/sqrtt/damua-go/days"
	"github.com/sqrtt/damua-go/types"
)

func dayEntries(day time.Time, base float64) []types.TimeRangePrice {
	entries := make([]types.TimeRangePrice, 0, HoursPerDay)
	for i := 0; i < HoursPerDay; i++ {
		start := days.HourStart(day, i).Unix()
		entries = append(entries, types.TimeRangePrice{
			Start: start,
			End:   start + 3600,
			Value: base + float64(i),
		})
	}
	return entries
}

func TestPutRejectsIncompleteDay(t *testing.T) {
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, days.Location())
	store := NewStore()

	err := store.Put(days.KeyFor(day), dayEntries(day, 1.0)[:23])
	if err != ErrIncompleteDay {
		t.Errorf("expected ErrIncompleteDay, got %v", err)
	}
	if store.Has(days.KeyFor(day)) {
		t.Error("incomplete day must not be stored")
	}
}

func TestPutThenGet(t *testing.T) {
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, days.Location())
	key := days.KeyFor(day)
	store := NewStore()

	entries := dayEntries(day, 1.0)
	if err := store.Put(key, entries); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := store.Get(key)
	if !ok || !reflect.DeepEqual(got, entries) {
		t.Errorf("Get returned %v (ok=%v)", got, ok)
	}
}

func TestPutReplacesWholesale(t *testing.T) {
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, days.Location())
	key := days.KeyFor(day)
	store := NewStore()

	if err := store.Put(key, dayEntries(day, 1.0)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(key, dayEntries(day, 5.0)); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, _ := store.Get(key)
	if got[0].Value != 5.0 {
		t.Errorf("expected replaced entries, got value %v", got[0].Value)
	}
	if all := store.AllEntries(); len(all) != HoursPerDay {
		t.Errorf("re-insertion must not duplicate entries, got %d", len(all))
	}
}

func TestNoOverlapWithinDay(t *testing.T) {
	day := time.Date(2025, 3, 10, 12, 0, 0, 0, days.Location())
	store := NewStore()
	if err := store.Put(days.KeyFor(day), dayEntries(day, 1.0)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	entries, _ := store.Get(days.KeyFor(day))
	midnight := days.HourStart(day, 0).Unix()

	// Probe every half hour of the day, including the exact hour
	// boundaries where adjacent entries meet.
	for ts := midnight; ts < midnight+24*3600; ts += 1800 {
		matches := 0
		for _, e := range entries {
			if e.Contains(ts) {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("timestamp %d matched %d entries, expected exactly 1", ts, matches)
		}
	}
}

func TestCurrentDayEntriesIdempotentRead(t *testing.T) {
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, days.Location())
	store := NewStore()
	if err := store.Put(days.KeyFor(day), dayEntries(day, 1.0)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	first := store.CurrentDayEntries(day)
	second := store.CurrentDayEntries(day.Add(5 * time.Hour))
	if !reflect.DeepEqual(first, second) {
		t.Error("reads within the same day must return the same entries")
	}

	if got := store.CurrentDayEntries(day.AddDate(0, 0, 1)); got != nil {
		t.Errorf("expected no entries for an unfetched day, got %v", got)
	}
}

func TestAllEntriesInsertionOrder(t *testing.T) {
	day1 := time.Date(2025, 3, 10, 0, 0, 0, 0, days.Location())
	day2 := day1.AddDate(0, 0, 1)
	store := NewStore()

	if err := store.Put(days.KeyFor(day2), dayEntries(day2, 100.0)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put(days.KeyFor(day1), dayEntries(day1, 1.0)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	all := store.AllEntries()
	if len(all) != 2*HoursPerDay {
		t.Fatalf("expected %d entries, got %d", 2*HoursPerDay, len(all))
	}
	if all[0].Value != 100.0 {
		t.Error("expected insertion order, first inserted day first")
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, days.Location())
	store := NewStore()
	if err := store.Put(days.KeyFor(day), dayEntries(day, 1.0)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	snap := store.Snapshot()
	delete(snap.Days, days.KeyFor(day))

	if !store.Has(days.KeyFor(day)) {
		t.Error("mutating a snapshot must not affect the store")
	}
}
