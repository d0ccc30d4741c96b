package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger       `mapstructure:"logger"`
	DB           Database     `mapstructure:"database"`
	API          API          `mapstructure:"api"`
	Scheduler    Scheduler    `mapstructure:"scheduler"`
	Cache        Cache        `mapstructure:"cache"`
	YahooFinance YahooFinance `mapstructure:"yahoo_finance"`
	Notification Notification `mapstructure:"notification"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// Scheduler controls the background evaluation daemon. CronSpec decides when a
// cycle is attempted; the market-hours window decides whether it actually runs.
type Scheduler struct {
	CronSpec        string        `mapstructure:"cron_spec"`
	Timezone        string        `mapstructure:"timezone"`
	MarketOpenHour  int           `mapstructure:"market_open_hour"`
	MarketCloseHour int           `mapstructure:"market_close_hour"`
	WeekdaysOnly    bool          `mapstructure:"weekdays_only"`
	RunOnStart      bool          `mapstructure:"run_on_start"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
	PriceTTL          time.Duration `mapstructure:"price_ttl"`
	InfoTTL           time.Duration `mapstructure:"info_ttl"`
	SearchTTL         time.Duration `mapstructure:"search_ttl"`
	ValidationTTL     time.Duration `mapstructure:"validation_ttl"`
	OverviewTTL       time.Duration `mapstructure:"overview_ttl"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	SearchBaseURL       string        `mapstructure:"search_base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type Notification struct {
	Email    EmailConfig    `mapstructure:"email"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

type EmailConfig struct {
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	SenderEmail    string `mapstructure:"sender_email"`
	SenderPassword string `mapstructure:"sender_password"`
	RecipientEmail string `mapstructure:"recipient_email"`
}

// Enabled reports whether the email channel is configured. An unconfigured
// channel is skipped, not an error.
func (e EmailConfig) Enabled() bool {
	return e.SenderEmail != "" && e.RecipientEmail != ""
}

type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != 0
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("scheduler.cron_spec", "0 * * * *")
	viper.SetDefault("scheduler.timezone", "America/New_York")
	viper.SetDefault("scheduler.market_open_hour", 9)
	viper.SetDefault("scheduler.market_close_hour", 17)
	viper.SetDefault("scheduler.weekdays_only", true)
	viper.SetDefault("scheduler.run_on_start", true)
	viper.SetDefault("scheduler.timeout_duration", 5*time.Minute)
	viper.SetDefault("scheduler.max_concurrency", 10)
	viper.SetDefault("cache.default_expiration", time.Minute)
	viper.SetDefault("cache.cleanup_interval", 5*time.Minute)
	viper.SetDefault("cache.price_ttl", time.Minute)
	viper.SetDefault("cache.info_ttl", time.Minute)
	viper.SetDefault("cache.search_ttl", 5*time.Minute)
	viper.SetDefault("cache.validation_ttl", time.Hour)
	viper.SetDefault("cache.overview_ttl", 5*time.Minute)
	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.search_base_url", "https://query1.finance.yahoo.com/v1/finance")
	viper.SetDefault("yahoo_finance.timeout", 15*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 60)
}

func Load() (*Config, error) {
	// Local development keeps secrets in .env; absence is fine.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
