package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Backend  BackendConfig  `yaml:"backend"`
	Live     LiveConfig     `yaml:"live"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Telegram TelegramConfig `yaml:"telegram"`
	Ringer   RingerConfig   `yaml:"ringer"`
	Offers   OffersConfig   `yaml:"offers"`
	Payments PaymentsConfig `yaml:"payments"`
	Location LocationConfig `yaml:"location"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LiveConfig struct {
	URL            string        `yaml:"url"`
	ReconnectDelay time.Duration `yaml:"reconnect_delay"`
}

type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	DBName       string `yaml:"dbname"`
	SSLMode      string `yaml:"sslmode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
	// DismissAfter removes an unanswered offer message; the offer itself
	// stays until decided or expired.
	DismissAfter time.Duration `yaml:"dismiss_after"`
}

type RingerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

type OffersConfig struct {
	TTL         time.Duration `yaml:"ttl"`
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
	Buffer      int           `yaml:"buffer"`
}

type PaymentsConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	PollTimeout  time.Duration `yaml:"poll_timeout"`
}

type LocationConfig struct {
	MaxAge time.Duration `yaml:"max_age"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads .env (if present), then the YAML file at path (if present, with
// ${VAR} expansion), then environment overrides, then defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			expanded := []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(expanded, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend.base_url is required"))
	}
	if c.Live.URL == "" {
		errs = append(errs, errors.New("live.url is required"))
	}
	if c.Payments.PollInterval <= 0 {
		errs = append(errs, errors.New("payments.poll_interval must be positive"))
	}
	if c.Payments.PollTimeout <= 0 {
		errs = append(errs, errors.New("payments.poll_timeout must be positive"))
	}
	if c.Live.ReconnectDelay <= 0 {
		errs = append(errs, errors.New("live.reconnect_delay must be positive"))
	}
	if c.Offers.TTL < 0 {
		errs = append(errs, errors.New("offers.ttl must not be negative"))
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		errs = append(errs, errors.New("telegram.chat_id is required when a bot token is set"))
	}
	return errors.Join(errs...)
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Addr, ":8080")
	setDefault(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, "5432")
	setDefault(&c.Database.User, "postgres")
	setDefault(&c.Database.DBName, "partner_dispatch")
	setDefault(&c.Database.SSLMode, "disable")
	setDefault(&c.Redis.Address, "localhost:6379")
	setDefault(&c.Logging.Level, "info")
	setDefault(&c.Logging.Format, "json")

	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 10 * time.Second
	}
	if c.Live.ReconnectDelay == 0 {
		c.Live.ReconnectDelay = 3 * time.Second
	}
	if c.Payments.PollInterval == 0 {
		c.Payments.PollInterval = 4 * time.Second
	}
	if c.Payments.PollTimeout == 0 {
		c.Payments.PollTimeout = 15 * time.Minute
	}
	if c.Telegram.DismissAfter == 0 {
		c.Telegram.DismissAfter = 30 * time.Second
	}
	if c.Offers.SnapshotTTL == 0 {
		c.Offers.SnapshotTTL = 10 * time.Minute
	}
	if c.Offers.Buffer == 0 {
		c.Offers.Buffer = 16
	}
}

func applyEnv(c *Config) error {
	overrideString(&c.Server.Addr, "SERVER_ADDR")
	overrideString(&c.Backend.BaseURL, "BACKEND_BASE_URL")
	overrideString(&c.Live.URL, "LIVE_CHANNEL_URL")
	overrideString(&c.Database.Host, "DB_HOST")
	overrideString(&c.Database.Port, "DB_PORT")
	overrideString(&c.Database.User, "DB_USER")
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.DBName, "DB_NAME")
	overrideString(&c.Database.SSLMode, "DB_SSLMODE")
	overrideString(&c.Redis.Address, "REDIS_ADDR")
	overrideString(&c.Redis.Password, "REDIS_PASSWORD")
	overrideString(&c.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	overrideString(&c.Ringer.Command, "RINGER_COMMAND")
	overrideString(&c.Logging.Level, "LOG_LEVEL")
	overrideString(&c.Logging.Format, "LOG_FORMAT")

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("RINGER_ARGS"); v != "" {
		c.Ringer.Args = strings.Fields(v)
	}

	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"BACKEND_TIMEOUT", &c.Backend.Timeout},
		{"LIVE_RECONNECT_DELAY", &c.Live.ReconnectDelay},
		{"PAYMENT_POLL_INTERVAL", &c.Payments.PollInterval},
		{"PAYMENT_POLL_TIMEOUT", &c.Payments.PollTimeout},
		{"OFFER_TTL", &c.Offers.TTL},
		{"TELEGRAM_DISMISS_AFTER", &c.Telegram.DismissAfter},
		{"LOCATION_MAX_AGE", &c.Location.MaxAge},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDefault(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
