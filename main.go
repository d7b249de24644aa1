package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/gateway"
	"storefront/internal/notifications"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(serve())
}

// serve runs the API until it is signalled or fails and returns the process
// exit code. Deferred cleanup runs before the caller exits.
func serve() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	lg, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Error("Server failed", zap.Error(err))
		return 1
	}
	lg.Info("Server gracefully stopped")
	return 0
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	stores, closeStores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	if cfg.SeedCatalog {
		products := services.NewProductService(stores.Products, lg)
		if _, err := products.SeedCatalog(ctx, services.DefaultCatalog()); err != nil {
			return errors.Wrap(err, "seed catalog")
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	mailer := notifications.NewMailer(cfg.ResendAPIKey, lg)
	var notifier services.OrderNotifier
	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL, Queue: cfg.NotificationQueue}, lg)
		if err != nil {
			return errors.Wrap(err, "connect rabbitmq")
		}
		defer func() {
			if err := mq.Close(); err != nil {
				lg.Warn("Failed to close RabbitMQ client", zap.Error(err))
			}
		}()
		notifier = notifications.NewQueueNotifier(mq)

		worker := notifications.NewWorker(mailer, cfg.MailFrom, lg)
		g.Go(func() error {
			lg.Info("Starting confirmation consumer", zap.String("queue", mq.Queue()))
			return mq.Consume(ctx, worker.Handle)
		})
	} else {
		lg.Info("RABBITMQ_URL not set, sending confirmations inline")
		notifier = notifications.NewDirectNotifier(mailer, cfg.MailFrom, lg)
	}

	processor := gateway.NewStripeProcessor(cfg.StripeSecretKey, lg)
	svc := app.NewServices(stores, notifier, processor, cfg.JWTSecret, lg)
	server := app.New(svc, app.Options{SignInPath: cfg.SignInPath, AccessLog: true}, lg)

	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.AppPort))
		return errors.Wrap(server.Listen(cfg.AppPort), "listen")
	})
	g.Go(func() error {
		<-ctx.Done()
		lg.Info("Shutting down server", zap.Duration("timeout", shutdownTimeout))
		if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openStores returns the configured persistence and a function that
// releases it.
func openStores(cfg *config.Config) (repositories.Stores, func(), error) {
	if cfg.DatabaseDriver == repositories.DriverMemory {
		return repositories.NewMemoryStores(), func() {}, nil
	}
	db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return repositories.Stores{}, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repositories.NewGORMStores(db), closeDB, nil
}
