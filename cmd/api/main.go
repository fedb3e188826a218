package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	gormlogger "gorm.io/gorm/logger"

	httpadp "contrack-backend/internal/adapter/http"
	idem "contrack-backend/internal/adapter/middleware"
	"contrack-backend/internal/adapter/notify"
	"contrack-backend/internal/adapter/repository/mysql"
	"contrack-backend/internal/config"
	"contrack-backend/internal/infrastructure/cache"
	"contrack-backend/internal/infrastructure/db"
	"contrack-backend/internal/infrastructure/logger"
	"contrack-backend/internal/usecase/contract"
	"contrack-backend/internal/usecase/intake"
	"contrack-backend/internal/usecase/notification"
	"contrack-backend/internal/usecase/payment"
	"contrack-backend/internal/usecase/pool"
	"contrack-backend/internal/usecase/reporting"
	"contrack-backend/internal/usecase/scoring"
	"contrack-backend/internal/usecase/user"
	"contrack-backend/internal/usecase/verification"
)

const shutdownGrace = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogMode, cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("contrack stopped")
	}
	log.Info().Msg("contrack stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), db.WithLogger(log.With().Str("component", "gorm").Logger(), gormlogger.Warn))
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}
	if cfg.DBAutoMigrate {
		if err := db.Migrate(gdb); err != nil {
			return err
		}
	}

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		return err
	}
	defer rdb.Close()

	repos := mysql.Repos(gdb)
	tx := mysql.NewGormUoW(gdb)
	v := intake.New()

	pools := pool.NewUsecase(repos.Pools, repos.Exposures, repos.Contracts, tx, v, log)
	scorer := scoring.NewScorer(repos.Contracts, scoring.NewRandMarket(cfg.ScoringSeed), log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = v
	e.Use(middleware.Recover(), requestLogger(log))
	httpadp.Register(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(),
		Users:     httpadp.NewUserHandler(user.NewUsecase(repos.Users, v, log)),
		Contracts: httpadp.NewContractHandler(contract.NewUsecase(repos.Contracts, repos.Exposures, repos.Events, tx, scorer, pools, v, log), verification.NewUsecase(repos.Contracts, repos.Events, tx, v, log), pools),
		Payments:  httpadp.NewPaymentHandler(payment.NewUsecase(repos.Contracts, repos.Payments, tx, log)),
		Pools:     httpadp.NewPoolHandler(pools),
		Reports:   httpadp.NewReportHandler(reporting.NewUsecase(repos.Contracts, repos.Pools, repos.Exposures, log)),
	}, idem.Idempotency(rdb, cfg.IdempotencyTTL(), log))

	dispatcher := notification.NewDispatcher(repos.Events, notifier(cfg, rdb, log), notification.Config{
		BatchSize:    cfg.OutboxBatchSize,
		MaxAttempts:  cfg.OutboxMaxAttempts,
		PollInterval: cfg.OutboxPollInterval,
	}, log.With().Str("component", "dispatcher").Logger())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.AppPort
		log.Info().Str("addr", addr).Str("db_driver", cfg.DBDriver).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return dispatcher.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func notifier(cfg *config.Config, rdb redis.Cmdable, log zerolog.Logger) notification.Notifier {
	if cfg.NotifySink == config.SinkRedis {
		return notify.NewRedisNotifier(rdb, cfg.NotifyChannel)
	}
	return notify.NewLogNotifier(log.With().Str("component", "notify").Logger())
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", c.Request().Header.Get(idem.HeaderRequestID)).
				Str("actor_id", idem.Actor(c)).
				Msg("request")
			return nil
		},
	})
}
