package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/minishop/minishop/internal/adapter/handler"
	"github.com/minishop/minishop/internal/adapter/storage"
	"github.com/minishop/minishop/internal/config"
	"github.com/minishop/minishop/internal/core/service"
	"github.com/minishop/minishop/internal/port"
	"github.com/minishop/minishop/migrations"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	app := &cli.App{
		Name:  "minishop",
		Usage: "point-of-sale backend",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP API",
				Action: func(c *cli.Context) error {
					return serve(log)
				},
			},
			{
				Name:  "migrate",
				Usage: "apply database migrations",
				Action: func(c *cli.Context) error {
					return runMigrations(log)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sqlx.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return errors.Wrap(err, "open mysql")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MySQLMaxOpen)
	db.SetMaxIdleConns(cfg.MySQLMaxIdle)
	db.SetConnMaxLifetime(time.Duration(cfg.MySQLMaxLifetime) * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(err, "ping mysql")
	}
	log.Info("connected to mysql")

	// The product cache is an optimization; run without it if Redis is down.
	var cache port.ProductCache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unavailable, product cache disabled")
		rdb.Close()
	} else {
		cache = storage.NewRedisAdapter(rdb)
		defer rdb.Close()
		log.Info("connected to redis")
	}

	store := storage.NewMySQLAdapter(db)

	inventory := service.NewInventoryService(store, cache, log)
	purchases := service.NewPurchaseService(store, cache, log)
	reports := service.NewReportService(store, log)
	catalog := service.NewCatalogService(store, cache, log)

	httpHandler := handler.NewHTTPHandler(inventory, purchases, reports, catalog, log)
	limiter := rate.NewLimiter(rate.Limit(cfg.PurchaseRateLimit), cfg.PurchaseRateBurst)

	mux := http.NewServeMux()
	httpHandler.Register(mux, handler.RateLimit(limiter, httpHandler.CreatePurchase))

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Error("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http server shutdown")
	}
	log.Info("http server stopped")

	return nil
}

func runMigrations(log *logrus.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return errors.Wrap(err, "load migrations")
	}

	// Migration files hold several statements per file.
	dsn := cfg.MySQLDSN
	if strings.Contains(dsn, "?") {
		dsn += "&multiStatements=true"
	} else {
		dsn += "?multiStatements=true"
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, "mysql://"+dsn)
	if err != nil {
		return errors.Wrap(err, "init migrate")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}

	log.Info("migrations applied")
	return nil
}
