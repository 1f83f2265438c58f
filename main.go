package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/sqrtt/damua-go/config"
	"github.com/sqrtt/damua-go/coordinator"
	"github.com/sqrtt/damua-go/database"
	"github.com/sqrtt/damua-go/logging"
	"github.com/sqrtt/damua-go/mqttpub"
	"github.com/sqrtt/damua-go/oree"
	"github.com/sqrtt/damua-go/prices"
	"github.com/sqrtt/damua-go/readings"
	"github.com/sqrtt/damua-go/www"
)

var Version = "?.?.?"

func main() {
	defer func() {
		if err := recover(); err != nil {
			exitWithError(slog.Default(), fmt.Errorf("application panicked: %v", err))
		} else {
			slog.Default().Info("application is shutting down...")
		}
	}()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cnfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consoleHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cnfg.Logging.GetConsoleLevel(),
		TimeFormat: time.RFC3339,
	})
	slog.New(consoleHandler).Debug("damua is starting...", slog.String("version", Version))

	db, err := database.New(ctx, cnfg.Database.Path)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to database: %v", err))
	}
	defer db.Close()

	logger := slog.New(logging.NewMultiHandler(
		consoleHandler,
		logging.NewSQLiteHandler(db, cnfg.Logging.GetDbLevel(), cnfg.Logging.GetDbAttrsFormat())))
	slog.SetDefault(logger)

	// Now we can use the logger to log database operations into the database itself
	db.SetLogger(logger.With("module", "database"))

	livePrice := config.NewLivePrice(cnfg.Price)
	if err := config.Watch(ctx, logger.With("module", "config"), livePrice.Set); err != nil {
		logger.Warn("config watch disabled", slog.Any("error", err))
	}

	store := prices.NewStore()
	coord := coordinator.New(store, oree.New(cnfg.Price.GetBaseUrl()))

	initCtx, initCancel := context.WithTimeout(ctx, 60*time.Second)
	if err := coord.Init(initCtx); err != nil {
		initCancel()
		panic(fmt.Sprintf("initial price sync failed: %v", err))
	}
	initCancel()
	defer coord.Shutdown()

	if err := coord.AddJob("0 30 2 * * *", coordinator.NewMaintenanceTask(
		logger.With(slog.String("task", "maintenance")), db, cnfg)); err != nil {
		panic(fmt.Sprintf("failed to schedule maintenance: %v", err))
	}

	var pub *mqttpub.Publisher
	if cnfg.Mqtt.Enabled() {
		pub = mqttpub.New(cnfg.Mqtt)
		if err := pub.Connect(); err != nil {
			panic(fmt.Sprintf("mqtt connection error: %v", err))
		}
		defer pub.Disconnect()
	} else {
		logger.Info("no mqtt broker configured, skipping mqtt publishing")
	}

	server := www.StartServer(coord, livePrice, db, cnfg.Api)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("main context done")
				return
			case sig := <-sigCh:
				logger.Info("received signal", slog.Any("signal", sig))
				cancel()
			case upd := <-coord.C:
				p := livePrice.Get()
				rds := readings.ComputeAll(readings.Input{
					Snapshot:        upd.Snapshot,
					UpdatedAt:       upd.UpdatedAt,
					MeterZones:      p.GetMeterZones(),
					HouseholdTariff: p.HouseholdTariff,
					Now:             time.Now(),
				})
				server.BroadcastReadings(rds)
				if pub != nil {
					pub.PublishReadings(rds)
				}
			}
		}
	}()

	server.Run(ctx)
}

func exitWithError(logger *slog.Logger, err error) {
	if err != nil {
		logger.Error("application shutting down with error", slog.Any("error", err))
	}
	if syncer, ok := logger.Handler().(interface{ Sync() error }); ok {
		if syncErr := syncer.Sync(); syncErr != nil {
			logger.Error("failed to flush logger", slog.Any("error", syncErr))
		}
	}

	time.Sleep(2 * time.Second)
	os.Exit(1)
}
