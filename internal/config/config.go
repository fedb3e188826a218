package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort string

	LogMode  string
	LogLevel string

	DBDriver      string
	MySQLHost     string
	MySQLPort     string
	MySQLDB       string
	MySQLUser     string
	MySQLPass     string
	PostgresDSN   string
	SQLitePath    string
	DBAutoMigrate bool

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	NotifySink    string
	NotifyChannel string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int

	// ScoringSeed seeds the market factor; 0 seeds from the clock.
	ScoringSeed int64
}

const (
	SinkLog   = "log"
	SinkRedis = "redis"
)

var defaults = map[string]any{
	"APP_PORT":                "8080",
	"LOG_MODE":                "development",
	"LOG_LEVEL":               "info",
	"DB_DRIVER":               "mysql",
	"MYSQL_HOST":              "mysql",
	"MYSQL_PORT":              "3306",
	"MYSQL_DB":                "contrack",
	"MYSQL_USER":              "contrack",
	"MYSQL_PASS":              "contrack",
	"POSTGRES_DSN":            "",
	"SQLITE_PATH":             "contrack.db",
	"DB_AUTO_MIGRATE":         true,
	"REDIS_ADDR":              "redis:6379",
	"REDIS_DB":                0,
	"IDEMPOTENCY_TTL_SECONDS": 300,
	"NOTIFY_SINK":             SinkLog,
	"NOTIFY_CHANNEL":          "contrack:notifications",
	"OUTBOX_POLL_INTERVAL":    "2s",
	"OUTBOX_BATCH_SIZE":       50,
	"OUTBOX_MAX_ATTEMPTS":     5,
	"SCORING_SEED":            0,
}

// Load reads the environment, falling back to an optional .env file and then
// to the defaults above.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	c := &Config{
		AppPort:            v.GetString("APP_PORT"),
		LogMode:            v.GetString("LOG_MODE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		MySQLHost:          v.GetString("MYSQL_HOST"),
		MySQLPort:          v.GetString("MYSQL_PORT"),
		MySQLDB:            v.GetString("MYSQL_DB"),
		MySQLUser:          v.GetString("MYSQL_USER"),
		MySQLPass:          v.GetString("MYSQL_PASS"),
		PostgresDSN:        v.GetString("POSTGRES_DSN"),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		DBAutoMigrate:      v.GetBool("DB_AUTO_MIGRATE"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisDB:            v.GetInt("REDIS_DB"),
		IdempTTLSecs:       v.GetInt("IDEMPOTENCY_TTL_SECONDS"),
		NotifySink:         strings.ToLower(v.GetString("NOTIFY_SINK")),
		NotifyChannel:      v.GetString("NOTIFY_CHANNEL"),
		OutboxPollInterval: v.GetDuration("OUTBOX_POLL_INTERVAL"),
		OutboxBatchSize:    v.GetInt("OUTBOX_BATCH_SIZE"),
		OutboxMaxAttempts:  v.GetInt("OUTBOX_MAX_ATTEMPTS"),
		ScoringSeed:        v.GetInt64("SCORING_SEED"),
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DBDriver {
	case "mysql":
		if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
			return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
		}
		if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
			return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return errors.New("DB_DRIVER=postgres needs POSTGRES_DSN")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return errors.New("DB_DRIVER=sqlite needs SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	switch c.NotifySink {
	case SinkLog:
	case SinkRedis:
		if c.NotifyChannel == "" {
			return errors.New("NOTIFY_SINK=redis needs NOTIFY_CHANNEL")
		}
	default:
		return fmt.Errorf("unsupported NOTIFY_SINK %q", c.NotifySink)
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	if c.OutboxPollInterval <= 0 || c.OutboxBatchSize <= 0 || c.OutboxMaxAttempts <= 0 {
		return errors.New("OUTBOX_POLL_INTERVAL, OUTBOX_BATCH_SIZE and OUTBOX_MAX_ATTEMPTS must be positive")
	}
	return nil
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case "postgres":
		return c.PostgresDSN
	case "sqlite":
		return c.SQLitePath
	default:
		return c.MySQLDSN()
	}
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
