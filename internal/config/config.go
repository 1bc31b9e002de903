// Package config loads runtime settings from the environment, an optional
// .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/example/kanjigate/internal/database"
	"github.com/example/kanjigate/internal/scheduler"
	"github.com/example/kanjigate/internal/wanikani"
	"github.com/example/kanjigate/pkg/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys, also the names of the environment variables
const (
	KeyWaniKaniToken         = "wanikani_api_token"
	KeyWaniKaniURL           = "wanikani_api_url"
	KeyDBType                = "db_type"
	KeyDBDSN                 = "db_dsn"
	KeyTelegramToken         = "telegram_bot_token"
	KeyTelegramChatID        = "telegram_chat_id"
	KeyNotificationStartHour = "notification_start_hour"
	KeyNotificationEndHour   = "notification_end_hour"
	KeyHTTPAddr              = "http_addr"
	KeyGateMinimum           = "gate_minimum"
	KeyGateSuccessDelay      = "gate_success_delay"
	KeyGateFailureDelay      = "gate_failure_delay"
)

// Config holds everything the commands need to start
type Config struct {
	WaniKaniToken string
	WaniKaniURL   string

	DBType string
	DBDSN  string

	TelegramToken  string
	TelegramChatID int64

	NotificationStartHour int
	NotificationEndHour   int

	HTTPAddr string

	// Gate seeds the persisted gate settings on first run
	Gate models.GateConfig
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		WaniKaniURL:           wanikani.DefaultBaseURL,
		DBType:                database.TypeSQLite,
		DBDSN:                 defaultDSN(),
		NotificationStartHour: scheduler.DefaultNotificationStartHour,
		NotificationEndHour:   scheduler.DefaultNotificationEndHour,
		HTTPAddr:              ":8080",
		Gate:                  models.DefaultGateConfig(),
	}
}

// Load reads .env (if present), the environment and, when path is not
// empty, a YAML file. Environment variables win over the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env: %v", err)
	}

	v := newViper()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}
	return fromViper(v)
}

func newViper() *viper.Viper {
	def := DefaultConfig()
	v := viper.New()
	v.SetDefault(KeyWaniKaniToken, "")
	v.SetDefault(KeyWaniKaniURL, def.WaniKaniURL)
	v.SetDefault(KeyDBType, def.DBType)
	v.SetDefault(KeyDBDSN, def.DBDSN)
	v.SetDefault(KeyTelegramToken, "")
	v.SetDefault(KeyTelegramChatID, 0)
	v.SetDefault(KeyNotificationStartHour, def.NotificationStartHour)
	v.SetDefault(KeyNotificationEndHour, def.NotificationEndHour)
	v.SetDefault(KeyHTTPAddr, def.HTTPAddr)
	v.SetDefault(KeyGateMinimum, def.Gate.MinimumDaily)
	v.SetDefault(KeyGateSuccessDelay, def.Gate.SuccessDelay)
	v.SetDefault(KeyGateFailureDelay, def.Gate.FailureDelay)
	v.AutomaticEnv()
	return v
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		WaniKaniToken:         v.GetString(KeyWaniKaniToken),
		WaniKaniURL:           v.GetString(KeyWaniKaniURL),
		DBType:                v.GetString(KeyDBType),
		DBDSN:                 v.GetString(KeyDBDSN),
		TelegramToken:         v.GetString(KeyTelegramToken),
		TelegramChatID:        v.GetInt64(KeyTelegramChatID),
		NotificationStartHour: v.GetInt(KeyNotificationStartHour),
		NotificationEndHour:   v.GetInt(KeyNotificationEndHour),
		HTTPAddr:              v.GetString(KeyHTTPAddr),
		Gate: models.GateConfig{
			MinimumDaily: v.GetInt(KeyGateMinimum),
			SuccessDelay: v.GetDuration(KeyGateSuccessDelay),
			FailureDelay: v.GetDuration(KeyGateFailureDelay),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.DBType {
	case database.TypeSQLite, database.TypePostgres:
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	if c.NotificationStartHour < 0 || c.NotificationStartHour > 23 {
		return fmt.Errorf("NOTIFICATION_START_HOUR must be 0-23, got %d", c.NotificationStartHour)
	}
	if c.NotificationEndHour < 0 || c.NotificationEndHour > 23 {
		return fmt.Errorf("NOTIFICATION_END_HOUR must be 0-23, got %d", c.NotificationEndHour)
	}
	if c.Gate.MinimumDaily < 0 {
		return fmt.Errorf("GATE_MINIMUM must not be negative, got %d", c.Gate.MinimumDaily)
	}
	if c.Gate.SuccessDelay < 0 || c.Gate.FailureDelay < 0 {
		return fmt.Errorf("gate delays must not be negative")
	}
	return nil
}

// RequireWaniKani fails when no API token is configured
func (c *Config) RequireWaniKani() error {
	if c.WaniKaniToken == "" {
		return errors.New("WANIKANI_API_TOKEN is not set")
	}
	return nil
}

// RequireTelegram fails when the bot token or chat is missing
func (c *Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is not set")
	}
	if c.TelegramChatID == 0 {
		return errors.New("TELEGRAM_CHAT_ID is not set")
	}
	return nil
}

func defaultDSN() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "kanjigate.db"
	}
	return filepath.Join(dir, "kanjigate", "kanjigate.db")
}

