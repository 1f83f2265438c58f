package config

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Watch re-reads the config file whenever it is written and hands the
// fresh price section to onChange. Only the price section is applied at
// runtime; other sections require a restart.
func Watch(ctx context.Context, logger *slog.Logger, onChange func(AppConfigPrice)) error {
	path := viper.ConfigFileUsed()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					cnfg, err := Load(path)
					if err != nil {
						logger.Warn("config reload failed", slog.Any("error", err))
						continue
					}
					logger.Info("price settings reloaded",
						slog.String("meterZones", cnfg.Price.GetMeterZones()),
						slog.Float64("householdTariff", cnfg.Price.HouseholdTariff))
					onChange(cnfg.Price)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("config watcher error", slog.Any("error", err))
			}
		}
	}()

	return watcher.Add(path)
}
