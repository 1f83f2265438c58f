package config

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/sqrtt/damua-go/logging"
)

type AppConfigApi struct {
	Address string
	Port    int16
}

type AppConfigDatabase struct {
	Path string
	// How many days daily backup files should be stored before they get deleted
	BackupRetentionDays *int `mapstructure:"backup_retention_days"`
}

func (d AppConfigDatabase) GetBackupRetentionDays() int {
	if d.BackupRetentionDays == nil {
		return 90
	}
	return *d.BackupRetentionDays
}

type AppConfigPrice struct {
	// Number of time-of-day tariff zones on the household meter: "1", "2" or "3"
	MeterZones *string `mapstructure:"meter_zones"`
	// Household base tariff in UAH/kWh
	HouseholdTariff float64 `mapstructure:"household_tariff"`
	// Override for the upstream endpoint, useful for tests and mirrors
	BaseUrl *string `mapstructure:"base_url"`
}

func (p AppConfigPrice) GetMeterZones() string {
	if p.MeterZones == nil {
		return "2"
	}
	return *p.MeterZones
}

func (p AppConfigPrice) GetBaseUrl() string {
	if p.BaseUrl == nil {
		return ""
	}
	return *p.BaseUrl
}

type AppConfigMqtt struct {
	Host     string // Leave empty to disable MQTT publishing
	Port     int16
	Username string
	Password string
	// Topic prefix for published readings, default: "damua"
	TopicPrefix *string `mapstructure:"topic_prefix"`
}

func (m AppConfigMqtt) Enabled() bool {
	return m.Host != ""
}

func (m AppConfigMqtt) GetTopicPrefix() string {
	if m.TopicPrefix == nil {
		return "damua"
	}
	return *m.TopicPrefix
}

type AppConfigLogging struct {
	// Min log level for database: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	DbLevel *string `mapstructure:"db_level"`
	// Log attributes format: "TEXT", "JSON", default: "JSON"
	DbAttrsFormat *string `mapstructure:"db_attrs_format"`
	// Maximum number of log entries in the database, default: 10000
	DbMaxEntries *int `mapstructure:"db_max_entries"`
	// Min log level for the console: "DEBUG", "INFO", "WARN", "ERROR", default: "INFO"
	ConsoleLevel *string `mapstructure:"console_level"`
}

func (l AppConfigLogging) GetDbLevel() slog.Level {
	return logging.LevelFromString(l.DbLevel)
}

func (l AppConfigLogging) GetDbAttrsFormat() logging.LogAttrFormat {
	if l.DbAttrsFormat == nil {
		return "JSON"
	}
	if strings.EqualFold(*l.DbAttrsFormat, "text") {
		return "TEXT"
	}
	return "JSON"
}

func (l AppConfigLogging) GetDbMaxEntries() int {
	if l.DbMaxEntries == nil {
		return 10000
	}
	return *l.DbMaxEntries
}

func (l AppConfigLogging) GetConsoleLevel() slog.Level {
	return logging.LevelFromString(l.ConsoleLevel)
}

type AppConfig struct {
	Api      AppConfigApi
	Database AppConfigDatabase
	Price    AppConfigPrice `mapstructure:"price"`
	Mqtt     AppConfigMqtt
	Logging  AppConfigLogging
}

func Load(path string) (*AppConfig, error) {
	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.AddConfigPath("config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c AppConfig

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config file: %w", err)
	}

	return &c, nil
}

// LivePrice holds the price settings that the config watcher may swap at
// runtime while readers keep a stable handle.
type LivePrice struct {
	mu sync.RWMutex
	p  AppConfigPrice
}

func NewLivePrice(p AppConfigPrice) *LivePrice {
	return &LivePrice{p: p}
}

func (l *LivePrice) Get() AppConfigPrice {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.p
}

func (l *LivePrice) Set(p AppConfigPrice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.p = p
}
