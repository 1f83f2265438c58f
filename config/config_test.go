package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const testYaml = `
api:
  address: "127.0.0.1"
  port: 8099
database:
  path: "damua.db"
price:
  household_tariff: 2.64
mqtt:
  port: 1883
`

func TestLoadWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYaml), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Api.Address != "127.0.0.1" || c.Api.Port != 8099 {
		t.Errorf("unexpected api config: %+v", c.Api)
	}
	if c.Database.Path != "damua.db" {
		t.Errorf("unexpected database path: %q", c.Database.Path)
	}
	if c.Price.HouseholdTariff != 2.64 {
		t.Errorf("unexpected household tariff: %v", c.Price.HouseholdTariff)
	}

	// Everything left out of the file falls back to its default.
	if z := c.Price.GetMeterZones(); z != "2" {
		t.Errorf("expected default meter zones 2, got %q", z)
	}
	if u := c.Price.GetBaseUrl(); u != "" {
		t.Errorf("expected empty base url, got %q", u)
	}
	if c.Mqtt.Enabled() {
		t.Error("mqtt must be disabled without a host")
	}
	if p := c.Mqtt.GetTopicPrefix(); p != "damua" {
		t.Errorf("expected default topic prefix, got %q", p)
	}
	if d := c.Database.GetBackupRetentionDays(); d != 90 {
		t.Errorf("expected default retention of 90 days, got %d", d)
	}
	if lvl := c.Logging.GetConsoleLevel(); lvl != slog.LevelInfo {
		t.Errorf("expected default console level INFO, got %v", lvl)
	}
	if lvl := c.Logging.GetDbLevel(); lvl != slog.LevelInfo {
		t.Errorf("expected default db level INFO, got %v", lvl)
	}
}

func TestLivePriceSwap(t *testing.T) {
	zones := "3"
	lp := NewLivePrice(AppConfigPrice{HouseholdTariff: 2.64})

	if got := lp.Get().GetMeterZones(); got != "2" {
		t.Errorf("expected initial meter zones 2, got %q", got)
	}

	lp.Set(AppConfigPrice{MeterZones: &zones, HouseholdTariff: 3.0})

	p := lp.Get()
	if p.GetMeterZones() != "3" || p.HouseholdTariff != 3.0 {
		t.Errorf("unexpected price config after swap: %+v", p)
	}
}
