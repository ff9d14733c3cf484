package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	StoreFile  = "file"
	StoreMongo = "mongo"
)

type Config struct {
	Port        string   `env:"PORT,         default=8080"`
	Env         string   `env:"ENV,          default=development"`
	LogLevel    string   `env:"LOG_LEVEL,    default=info"`
	JWTSecret   string   `env:"JWT_SECRET,   required"`
	CORSOrigins []string `env:"CORS_ORIGINS, default=*"`
	BcryptCost  int      `env:"BCRYPT_COST,  default=10"`

	Store     StoreConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Mail      MailConfig
}

type StoreConfig struct {
	Driver   string `env:"STORE_DRIVER, default=file"`
	DataFile string `env:"DATA_FILE,    default=db.json"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=taskly"`
}

// RedisConfig is optional. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type SchedulerConfig struct {
	ScanInterval    time.Duration `env:"SCAN_INTERVAL,             default=1h"`
	// SummaryInterval must not exceed an hour or the summary hour can be
	// skipped entirely.
	SummaryInterval time.Duration `env:"SUMMARY_INTERVAL,          default=1h"`
	SummaryHour     int           `env:"SUMMARY_HOUR,              default=9"`
	SummaryTZ       string        `env:"SUMMARY_TZ"`
	SuppressRepeats bool          `env:"REMINDER_SUPPRESS_REPEATS, default=false"`
}

// MailConfig is optional. An empty Host logs mail instead of sending it.
type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT,     default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM,     default=Taskly <no-reply@taskly.local>"`
	Workers  int    `env:"MAIL_WORKERS,  default=2"`
}

// Load reads a .env file when present, then environment variables.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case StoreFile, StoreMongo:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Scheduler.SummaryHour < 0 || c.Scheduler.SummaryHour > 23 {
		return fmt.Errorf("config: SUMMARY_HOUR must be 0-23, got %d", c.Scheduler.SummaryHour)
	}
	if c.Scheduler.ScanInterval <= 0 {
		return fmt.Errorf("config: SCAN_INTERVAL must be positive")
	}
	if c.Scheduler.SummaryInterval <= 0 || c.Scheduler.SummaryInterval > time.Hour {
		return fmt.Errorf("config: SUMMARY_INTERVAL must be positive and at most 1h, got %s", c.Scheduler.SummaryInterval)
	}
	return nil
}

// IsDevelopment reports whether the service runs with developer defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// SummaryLocation resolves SUMMARY_TZ, falling back to the local zone.
func (c *Config) SummaryLocation() (*time.Location, error) {
	if c.Scheduler.SummaryTZ == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Scheduler.SummaryTZ)
	if err != nil {
		return nil, fmt.Errorf("config: SUMMARY_TZ: %w", err)
	}
	return loc, nil
}
