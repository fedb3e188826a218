package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "mysql", c.DBDriver)
	assert.Equal(t, SinkLog, c.NotifySink)
	assert.Equal(t, 2*time.Second, c.OutboxPollInterval)
	assert.Equal(t, 5*time.Minute, c.IdempotencyTTL())
	assert.True(t, c.DBAutoMigrate)
	require.NoError(t, c.Validate())
	assert.Equal(t, "contrack:contrack@tcp(mysql:3306)/contrack?multiStatements=true&parseTime=true&charset=utf8mb4,utf8", c.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/ledger.db")
	t.Setenv("NOTIFY_SINK", "redis")
	t.Setenv("OUTBOX_POLL_INTERVAL", "750ms")
	t.Setenv("OUTBOX_MAX_ATTEMPTS", "9")
	t.Setenv("SCORING_SEED", "42")

	c, err := Load()
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, "/tmp/ledger.db", c.DSN())
	assert.Equal(t, SinkRedis, c.NotifySink)
	assert.Equal(t, 750*time.Millisecond, c.OutboxPollInterval)
	assert.Equal(t, 9, c.OutboxMaxAttempts)
	assert.Equal(t, int64(42), c.ScoringSeed)
}

func TestValidate_RejectsUnusableCombinations(t *testing.T) {
	base := func() Config {
		return Config{
			AppPort: "8080", DBDriver: "mysql", MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d", MySQLUser: "u",
			NotifySink: SinkLog, IdempTTLSecs: 60,
			OutboxPollInterval: time.Second, OutboxBatchSize: 10, OutboxMaxAttempts: 3,
		}
	}
	cases := map[string]func(*Config){
		"no port":           func(c *Config) { c.AppPort = "" },
		"bad mysql port":    func(c *Config) { c.MySQLPort = "not-a-port" },
		"postgres sans dsn": func(c *Config) { c.DBDriver = "postgres" },
		"unknown driver":    func(c *Config) { c.DBDriver = "oracle" },
		"unknown sink":      func(c *Config) { c.NotifySink = "sms" },
		"redis sans chan":   func(c *Config) { c.NotifySink = SinkRedis },
		"zero ttl":          func(c *Config) { c.IdempTTLSecs = 0 },
		"zero batch":        func(c *Config) { c.OutboxBatchSize = 0 },
	}
	ok := base()
	require.NoError(t, ok.Validate())
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base()
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
