package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source names accepted by SOURCE
const (
	SourceLibrary = "library"
	SourceREST    = "rest"
	SourceFeed    = "feed"
)

type Config struct {
	// 数据源配置
	Source         string        `yaml:"source"`
	LibraryBaseURL string        `yaml:"library_base_url"`
	RESTBaseURL    string        `yaml:"rest_base_url"`
	RESTHost       string        `yaml:"rest_host"`
	RapidAPIKey    string        `yaml:"rapidapi_key"`
	FeedURL        string        `yaml:"feed_url"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout"`
	ScoreStyle     string        `yaml:"score_style"`

	// 展示配置
	DisplayTimezone    string `yaml:"display_timezone"`
	AutoRefreshSeconds int    `yaml:"auto_refresh_seconds"`
	ShowDiagnostics    bool   `yaml:"show_diagnostics"`

	// 服务器配置
	Port string `yaml:"port"`

	// 可选存储/消息配置（为空则禁用）
	DatabaseURL  string `yaml:"database_url"`
	RedisURL     string `yaml:"redis_url"`
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`

	// 通知配置
	LarkWebhook    string `yaml:"lark_webhook"`
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	// 其他配置
	Environment string `yaml:"environment"`
	Debug       bool   `yaml:"debug"`
}

// Defaults returns the configuration used when nothing is set
func Defaults() *Config {
	return &Config{
		Source:          SourceREST,
		LibraryBaseURL:  "http://localhost:5001",
		RESTBaseURL:     "https://cricbuzz-cricket.p.rapidapi.com",
		RESTHost:        "cricbuzz-cricket.p.rapidapi.com",
		FeedURL:         "https://static.cricinfo.com/rss/livescores.xml",
		FetchTimeout:    8 * time.Second,
		ScoreStyle:      "dash",
		DisplayTimezone: "Asia/Kolkata",
		Port:            "8080",
		AMQPExchange:    "cricket.refresh",
		Environment:     "development",
	}
}

// Load reads CONFIG_FILE (if set) and then environment overrides
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays a YAML file on the current values
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	// 数据源配置
	c.Source = strings.ToLower(getEnv("SOURCE", c.Source))
	c.LibraryBaseURL = getEnv("LIBRARY_BASE_URL", c.LibraryBaseURL)
	c.RESTBaseURL = getEnv("REST_BASE_URL", c.RESTBaseURL)
	c.RESTHost = getEnv("REST_HOST", c.RESTHost)
	c.RapidAPIKey = getEnv("RAPIDAPI_KEY", c.RapidAPIKey)
	c.FeedURL = getEnv("FEED_URL", c.FeedURL)
	c.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", c.FetchTimeout)
	c.ScoreStyle = getEnv("SCORE_STYLE", c.ScoreStyle)

	// 展示配置
	c.DisplayTimezone = getEnv("DISPLAY_TIMEZONE", c.DisplayTimezone)
	c.AutoRefreshSeconds = getEnvInt("AUTO_REFRESH_SECONDS", c.AutoRefreshSeconds)
	c.ShowDiagnostics = getEnvBool("SHOW_DIAGNOSTICS", c.ShowDiagnostics)

	// 服务器配置
	c.Port = getEnv("PORT", c.Port)

	// 可选存储/消息配置
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)

	// 通知配置
	c.LarkWebhook = getEnv("LARK_WEBHOOK", c.LarkWebhook)
	c.TelegramToken = getEnv("TELEGRAM_TOKEN", c.TelegramToken)
	c.TelegramChatID = getEnvInt64("TELEGRAM_CHAT_ID", c.TelegramChatID)

	// 其他配置
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.Debug = getEnvBool("DEBUG", c.Debug)
}

// Validate checks values that would otherwise fail at first refresh
func (c *Config) Validate() error {
	switch c.Source {
	case SourceLibrary, SourceREST, SourceFeed:
	default:
		return fmt.Errorf("invalid SOURCE %q (want library, rest or feed)", c.Source)
	}
	if c.Source == SourceREST && c.RapidAPIKey == "" {
		return fmt.Errorf("RAPIDAPI_KEY is required for the rest source")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %v", c.FetchTimeout)
	}
	if c.AutoRefreshSeconds < 0 {
		return fmt.Errorf("AUTO_REFRESH_SECONDS must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves DisplayTimezone
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	return loc, nil
}

// AutoRefresh returns the push interval, zero when disabled
func (c *Config) AutoRefresh() time.Duration {
	return time.Duration(c.AutoRefreshSeconds) * time.Second
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return result
}

// getEnvDuration accepts "8s" style durations or plain seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
