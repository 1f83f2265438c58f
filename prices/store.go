package prices

import (
	"errors"
	"sync"
	"time"

	"github.com/sqrtt/damua-go/days"
	"github.com/sqrtt/damua-go/types"
)

// HoursPerDay is the number of entries a stored delivery day must have.
const HoursPerDay = 24

var ErrIncompleteDay = errors.New("price day must contain exactly 24 entries")

// Store is the in-memory price cache, keyed by delivery day. Days are only
// ever inserted complete and replaced wholesale, entries are never mutated
// in place. Readers (HTTP handlers, publishers) run concurrently with the
// scheduled fetches, hence the lock.
type Store struct {
	mu    sync.RWMutex
	data  map[days.Key][]types.TimeRangePrice
	order []days.Key
}

func NewStore() *Store {
	return &Store{data: make(map[days.Key][]types.TimeRangePrice)}
}

// Put stores a complete delivery day, replacing any previous entries for
// the same key. Partial days are rejected.
func (s *Store) Put(key days.Key, entries []types.TimeRangePrice) error {
	if len(entries) != HoursPerDay {
		return ErrIncompleteDay
	}

	cp := make([]types.TimeRangePrice, HoursPerDay)
	copy(cp, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		s.order = append(s.order, key)
	}
	s.data[key] = cp
	return nil
}

func (s *Store) Get(key days.Key) ([]types.TimeRangePrice, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.data[key]
	return entries, ok
}

func (s *Store) Has(key days.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[key]
	return ok
}

// AllEntries returns the entries of every stored day, concatenated in
// insertion order. Lookups go through Contains, so no global ordering is
// required.
func (s *Store) AllEntries() []types.TimeRangePrice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]types.TimeRangePrice, 0, len(s.order)*HoursPerDay)
	for _, key := range s.order {
		entries = append(entries, s.data[key]...)
	}
	return entries
}

// CurrentDayEntries returns the entries for the day now falls on in the
// reference timezone, or nil when that day has not been fetched yet.
func (s *Store) CurrentDayEntries(now time.Time) []types.TimeRangePrice {
	entries, _ := s.Get(days.KeyFor(now))
	return entries
}

// Snapshot returns a copy of the day mapping for lock-free consumption.
// The entry slices are shared; they are immutable once stored.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data := make(map[days.Key][]types.TimeRangePrice, len(s.data))
	for key, entries := range s.data {
		data[key] = entries
	}
	order := make([]days.Key, len(s.order))
	copy(order, s.order)
	return Snapshot{Days: data, Order: order}
}

// Snapshot is a point-in-time view of the store.
type Snapshot struct {
	Days  map[days.Key][]types.TimeRangePrice `json:"days"`
	Order []days.Key                          `json:"-"`
}

func (sn Snapshot) AllEntries() []types.TimeRangePrice {
	entries := make([]types.TimeRangePrice, 0, len(sn.Order)*HoursPerDay)
	for _, key := range sn.Order {
		entries = append(entries, sn.Days[key]...)
	}
	return entries
}

func (sn Snapshot) DayEntries(key days.Key) []types.TimeRangePrice {
	return sn.Days[key]
}
