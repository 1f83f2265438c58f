package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sqrtt/damua-go/calc"
	"github.com/sqrtt/damua-go/days"
	"github.com/sqrtt/damua-go/prices"
	"github.com/sqrtt/damua-go/types"
	"github.com/sqrtt/damua-go/types/maybe"
)

// The upstream publishes next-day prices around 20:00 Kyiv time.
const syncHour = 20

const fetchTimeout = 30 * time.Second

// Update is pushed to subscribers after every sync pass and hourly
// republish.
type Update struct {
	Snapshot  prices.Snapshot
	UpdatedAt maybe.Maybe[time.Time]
}

// Coordinator owns the price store and the schedule around it: an hourly
// republish at the top of the hour so derived readings re-evaluate against
// the now-current hour, and a daily sync at 20:MM:SS Kyiv that fetches
// missing days. Fetch failures are recorded and swallowed; the next
// activation is the retry.
type Coordinator struct {
	logger   *slog.Logger
	cron     *cron.Cron
	store    *prices.Store
	provider types.PriceProvider

	// Jitter for the daily sync, fixed at construction so rescheduling
	// stays stable across activations and installations don't all hit
	// the upstream at 20:00:00 sharp.
	syncMinute int
	syncSecond int

	mu        sync.RWMutex
	updatedAt maybe.Maybe[time.Time]
	lastErr   error

	stopOnce sync.Once

	// C carries a fresh update after every republish. Sends never block;
	// a slow consumer drops updates.
	C chan Update

	now func() time.Time
}

func New(store *prices.Store, provider types.PriceProvider) *Coordinator {
	return &Coordinator{
		logger:     slog.Default().With("module", "coordinator"),
		cron:       cron.New(cron.WithSeconds(), cron.WithLocation(days.Location())),
		store:      store,
		provider:   provider,
		syncMinute: rand.Intn(60),
		syncSecond: rand.Intn(60),
		C:          make(chan Update, 8),
		updatedAt:  maybe.None[time.Time](),
		now:        time.Now,
	}
}

// Init performs one synchronous sync pass and one republish, then starts
// the schedule. A failure fetching the current day is returned so the
// caller can abort setup and retry later; once Init succeeds all further
// fetch errors are non-fatal.
func (c *Coordinator) Init(ctx context.Context) error {
	if err := c.syncPrices(ctx); err != nil {
		return err
	}
	c.republish()

	if _, err := c.cron.AddFunc("0 0 * * * *", c.hourlyUpdate); err != nil {
		return fmt.Errorf("scheduling hourly update: %w", err)
	}
	if _, err := c.cron.AddFunc(c.dailySyncSpec(), c.dailySync); err != nil {
		return fmt.Errorf("scheduling daily sync: %w", err)
	}
	c.cron.Start()

	return nil
}

// AddJob registers an extra scheduled job, e.g. nightly maintenance.
func (c *Coordinator) AddJob(spec string, job func()) error {
	_, err := c.cron.AddFunc(spec, job)
	return err
}

// Shutdown cancels all pending activations and waits for a running one to
// finish. Safe to call more than once.
func (c *Coordinator) Shutdown() {
	c.stopOnce.Do(func() {
		<-c.cron.Stop().Done()
		c.logger.Debug("coordinator stopped")
	})
}

// SyncNow runs a sync pass outside the schedule, e.g. triggered from the
// API. Errors are recorded, not returned.
func (c *Coordinator) SyncNow() {
	c.dailySync()
}

func (c *Coordinator) hourlyUpdate() {
	c.logger.Debug("republishing cached prices")
	c.republish()
}

func (c *Coordinator) dailySync() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	if err := c.syncPrices(ctx); err != nil {
		c.logger.Error("price sync failed", slog.Any("error", err))
	}
}

// syncPrices fetches the current day if it is missing and, from 20:00
// Kyiv on, the next day as well. The store is left untouched on failure.
// The returned error covers the current day only; it decides Init's fate.
func (c *Coordinator) syncPrices(ctx context.Context) error {
	now := c.now().In(days.Location())
	tomorrow := now.AddDate(0, 0, 1)
	todayKey := days.KeyFor(now)
	tomorrowKey := days.KeyFor(tomorrow)

	c.logger.Debug("next price sync", slog.Time("at", c.NextDailySync(now)))

	var todayErr error
	if !c.store.Has(todayKey) {
		if err := c.fetchInto(ctx, now, todayKey); err != nil {
			todayErr = err
		}
	}

	if now.Hour() >= syncHour && !c.store.Has(tomorrowKey) {
		if err := c.fetchInto(ctx, tomorrow, tomorrowKey); err != nil {
			c.logger.Error("fetching next-day prices failed", slog.Any("error", err))
		}
	}

	c.republish()
	return todayErr
}

func (c *Coordinator) fetchInto(ctx context.Context, day time.Time, key days.Key) error {
	entries, err := c.provider.FetchDay(ctx, day)
	if err != nil {
		err = fmt.Errorf("fetching prices for %s: %w", key, err)
		c.setError(err)
		return err
	}
	if err := c.store.Put(key, entries); err != nil {
		err = fmt.Errorf("storing prices for %s: %w", key, err)
		c.setError(err)
		return err
	}

	c.mu.Lock()
	c.updatedAt = maybe.Some(c.now())
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("stored day-ahead prices", slog.String("day", key.String()))
	return nil
}

func (c *Coordinator) republish() {
	upd := Update{Snapshot: c.store.Snapshot(), UpdatedAt: c.UpdatedAt()}
	select {
	case c.C <- upd:
	default:
		c.logger.Warn("update channel full, dropping update")
	}
}

func (c *Coordinator) setError(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// NextDailySync returns the next daily sync fire time after t: today at
// 20:MM:SS Kyiv when t is before that, otherwise the same time tomorrow.
func (c *Coordinator) NextDailySync(t time.Time) time.Time {
	next := days.At(t, syncHour, c.syncMinute, c.syncSecond)
	if !next.After(t) {
		next = days.At(t.AddDate(0, 0, 1), syncHour, c.syncMinute, c.syncSecond)
	}
	return next
}

func (c *Coordinator) dailySyncSpec() string {
	return fmt.Sprintf("%d %d %d * * *", c.syncSecond, c.syncMinute, syncHour)
}

// Read-only query surface, safe to call concurrently with scheduled
// fetches.

func (c *Coordinator) AllPriceEntries() []types.TimeRangePrice {
	return c.store.AllEntries()
}

func (c *Coordinator) CurrentDayEntries() []types.TimeRangePrice {
	return c.store.CurrentDayEntries(c.now())
}

// CurrentZoneRate returns the household billing multiplier for the
// reference-local hour right now.
func (c *Coordinator) CurrentZoneRate(meterZones string) float64 {
	return calc.ZoneRate(meterZones, days.HourOf(c.now()))
}

func (c *Coordinator) Snapshot() prices.Snapshot {
	return c.store.Snapshot()
}

func (c *Coordinator) UpdatedAt() maybe.Maybe[time.Time] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}

func (c *Coordinator) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}
