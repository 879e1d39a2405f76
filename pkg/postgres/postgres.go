package postgres

import (
	"context"
	"embed"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

type DB struct {
	Host              string        `yaml:"host" envconfig:"DB_HOST" default:"localhost"`
	Port              string        `yaml:"port" envconfig:"DB_PORT" default:"5432"`
	Username          string        `yaml:"user" envconfig:"DB_USER" default:"postgres"`
	Password          string        `yaml:"password" envconfig:"DB_PASSWORD" json:"-"`
	NameDB            string        `yaml:"dbname" envconfig:"DB_NAME" default:"library"`
	SSLMode           string        `yaml:"sslmode" envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns          int32         `yaml:"maxConns" envconfig:"DB_MAX_CONNS" default:"10"`
	AcquireTimeout    time.Duration `yaml:"acquireTimeout" envconfig:"DB_ACQUIRE_TIMEOUT" default:"3s"`
	HealthCheckPeriod time.Duration `yaml:"healthCheckPeriod" envconfig:"DB_HEALTH_CHECK_PERIOD" default:"30s"`
}

func (c *DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		c.Username, c.Password, net.JoinHostPort(c.Host, c.Port), c.NameDB, c.SSLMode)
}

const migrationsDir = "."

// NewPostgresDB opens a bounded connection pool, checks it is reachable and
// applies the embedded migrations.
func NewPostgresDB(ctx context.Context, cfg *DB, migrations embed.FS) (*pgxpool.Pool, error) {
	pool, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err = Migrate(pool, migrations); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// Open connects and pings without touching the schema.
func Open(ctx context.Context, cfg *DB) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.NewWithConfig")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping")
	}
	return pool, nil
}

func poolConfig(cfg *DB) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool.ParseConfig")
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	return poolCfg, nil
}

// Migrate applies every pending goose migration found in the embedded FS.
func Migrate(pool *pgxpool.Pool, migrations embed.FS) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose.SetDialect")
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return errors.Wrap(err, "goose.Up")
	}
	return nil
}

// Rollback reverts the latest applied migration.
func Rollback(pool *pgxpool.Pool, migrations embed.FS) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "goose.SetDialect")
	}
	if err := goose.Down(db, migrationsDir); err != nil {
		return errors.Wrap(err, "goose.Down")
	}
	return nil
}

// Version reports the latest applied migration.
func Version(pool *pgxpool.Pool) (int64, error) {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return 0, errors.Wrap(err, "goose.SetDialect")
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, errors.Wrap(err, "goose.GetDBVersion")
	}
	return v, nil
}
