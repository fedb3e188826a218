package db

import (
	"fmt"
	"time"

	"contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/event"
	"contrack-backend/internal/domain/payment"
	"contrack-backend/internal/domain/pool"
	"contrack-backend/internal/domain/user"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Dialector picks the gorm driver for name.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL, "":
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// Option tweaks the gorm config before the connection is opened.
type Option func(*gorm.Config)

// WithLogger routes gorm's SQL log through zerolog at the given level.
func WithLogger(log zerolog.Logger, level logger.LogLevel) Option {
	return func(c *gorm.Config) {
		c.Logger = logger.New(&log, logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		})
	}
}

func OpenGorm(driver, dsn string, opts ...Option) (*gorm.DB, error) {
	dial, err := Dialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	return OpenGormWithDialector(dial, opts...)
}

func OpenGormWithDialector(dial gorm.Dialector, opts ...Option) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Warn),
		NowFunc:              func() time.Time { return time.Now().UTC() },
		DisableAutomaticPing: true,
		TranslateError:       true,
	}
	for _, o := range opts {
		o(cfg)
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dial.Name() == DriverSQLite {
		// one writer; row locks do not exist, so transactions must queue on the connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(30)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Models lists every persisted entity in migration order.
func Models() []any {
	return []any{
		&user.User{},
		&contract.Contract{},
		&payment.Schedule{},
		&payment.Payment{},
		&pool.Pool{},
		&pool.Unit{},
		&pool.Redemption{},
		&pool.NAVSnapshot{},
		&pool.Exposure{},
		&event.Event{},
		&event.Artifact{},
		&event.OutboxMessage{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
