package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Astemirdum/library-borrow/library/config"
	"github.com/Astemirdum/library-borrow/library/internal/events"
	"github.com/Astemirdum/library-borrow/library/internal/handler"
	"github.com/Astemirdum/library-borrow/library/internal/model"
	"github.com/Astemirdum/library-borrow/library/internal/repository"
	"github.com/Astemirdum/library-borrow/library/internal/seed"
	"github.com/Astemirdum/library-borrow/library/internal/server"
	"github.com/Astemirdum/library-borrow/library/internal/service"
	"github.com/Astemirdum/library-borrow/library/migrations"
	"github.com/Astemirdum/library-borrow/pkg/auth"
	"github.com/Astemirdum/library-borrow/pkg/kafka"
	"github.com/Astemirdum/library-borrow/pkg/logger"
	"github.com/Astemirdum/library-borrow/pkg/postgres"
)

const shutdownTimeout = 5 * time.Second

// Run serves the HTTP API until ctx is done or a termination signal arrives.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "library")
	defer log.Sync() //nolint:errcheck

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log, cfg.Database.AcquireTimeout)
	if err != nil {
		return errors.Wrap(err, "repo")
	}

	if cfg.SeedFile != "" {
		if err := seedAccounts(ctx, repo, cfg.SeedFile, log); err != nil {
			return err
		}
	}

	tokens, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return errors.Wrap(err, "token manager")
	}

	publisher, err := newPublisher(cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer publisher.Close()

	svc := service.NewService(repo, tokens, publisher, log)
	h := handler.New(svc.SlipService, svc.CatalogService, svc.AccountService, log)
	srv := server.NewServer(cfg.Server, h.NewRouter(rate.Limit(cfg.Server.RPS)))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON", zap.String("addr", srv.Addr()))
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown")
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Stop(closeCtx)
	})
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}

// Migrate applies pending migrations, or reverts the latest applied one
// when down is set. The down path never applies pending migrations first.
func Migrate(ctx context.Context, cfg *config.Config, down bool) error {
	log := logger.NewLogger(cfg.Log, "migrate")
	db, err := postgres.Open(ctx, &cfg.Database)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()

	step, action := postgres.Migrate, "migrations applied"
	if down {
		step, action = postgres.Rollback, "rolled back latest migration"
	}
	if err := step(db, migrations.MigrationFiles); err != nil {
		return err
	}
	v, err := postgres.Version(db)
	if err != nil {
		return err
	}
	log.Info(action, zap.Int64("version", v))
	return nil
}

// Seed loads accounts from path into the database.
func Seed(ctx context.Context, cfg *config.Config, path string) error {
	log := logger.NewLogger(cfg.Log, "seed")
	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return errors.Wrap(err, "db init")
	}
	defer db.Close()
	repo, err := repository.NewRepository(db, log, cfg.Database.AcquireTimeout)
	if err != nil {
		return errors.Wrap(err, "repo")
	}
	return seedAccounts(ctx, repo, path, log)
}

func seedAccounts(ctx context.Context, store seed.Store, path string, log *zap.Logger) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}
	n, err := seed.Apply(ctx, store, f, log)
	if err != nil {
		return errors.Wrap(err, "seed accounts")
	}
	log.Info("seed finished", zap.String("file", path), zap.Int("created", n))
	return nil
}

type eventPublisher interface {
	service.Publisher
	io.Closer
}

func newPublisher(cfg kafka.Config, log *zap.Logger) (eventPublisher, error) {
	if !cfg.Enable {
		log.Info("kafka disabled; slip events are not published")
		return events.Noop{}, nil
	}
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "kafka.NewProducer")
	}
	return events.NewPublisher(producer, cfg.Topic, log), nil
}

// Watch consumes the slip event topic and logs every event until ctx is
// done or a termination signal arrives.
func Watch(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "watch")
	defer log.Sync() //nolint:errcheck

	group, err := kafka.NewConsumerGroup(cfg.Kafka, kafka.SlipWatchGroup)
	if err != nil {
		return errors.Wrap(err, "kafka.NewConsumerGroup")
	}
	defer group.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(func(_ context.Context, ev model.SlipEvent) error {
		log.Info("slip event",
			zap.String("event_id", ev.EventID),
			zap.String("type", string(ev.Type)),
			zap.Int64("slip_id", ev.SlipID),
			zap.Int64("user_id", ev.UserID),
			zap.String("status", string(ev.Status)),
			zap.Int("item_count", ev.ItemCount),
			zap.Time("at", ev.Timestamp))
		return nil
	}, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return kafka.Consume(gctx, group, consumer, cfg.Kafka.Topic)
	})
	g.Go(func() error {
		for {
			select {
			case err, ok := <-group.Errors():
				if !ok {
					return nil
				}
				log.Warn("consumer group", zap.Error(err))
			case <-gctx.Done():
				return nil
			}
		}
	})
	return g.Wait()
}
