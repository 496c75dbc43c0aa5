package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"lebay/config"
	"lebay/internal/domain/lifecycle"
	"lebay/internal/errors"
	"lebay/internal/infra/persistence/model"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the primary (and replica) connections. The schema is migrated on
// start when env.autoMigrate is set.
func New(params Params) (*gorm.DB, error) {
	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db = db.Session(&gorm.Session{
		// Multi-step writes go through txManager.Execute.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	monitorCtx, cancelMonitor := context.WithCancel(context.Background())

	// Add lifecycle management
	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}

			if params.Config.Env.AutoMigrate {
				if err := Migrate(db.WithContext(ctx)); err != nil {
					return err
				}
				params.Logger.Info("Database schema migrated")
			}

			go monitorDBPool(monitorCtx, params.Logger, sqlDB, dbPoolMonitorInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			cancelMonitor()

			return sqlDB.Close()
		},
	})

	return db, nil
}

// auctionIndexes back the two hot queries AutoMigrate cannot express: the
// settlement sweep over running items and the newest-first bid history.
var auctionIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_items_running ON items (id) WHERE status = 'running'`,
	`CREATE INDEX IF NOT EXISTS idx_bids_auction_created ON bids (auction_event_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_items_title_lower ON items (lower(title))`,
}

// Migrate creates or updates every table and the auction indexes.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return errors.Wrap(err, "failed to migrate schema")
	}

	for _, stmt := range auctionIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return errors.Wrapf(err, "failed to create index: %s", stmt)
		}
	}

	return nil
}

// monitorDBPool reports connection waits; bid bursts on a hot auction queue
// behind the row lock and show up here first.
func monitorDBPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		cur := sqlDB.Stats()
		waits := cur.WaitCount - prev.WaitCount
		waited := cur.WaitDuration - prev.WaitDuration
		prev = cur
		if waits <= 0 {
			continue
		}

		level := slog.LevelDebug
		if waited >= dbPoolWarnDurationThreshold {
			level = slog.LevelWarn
		}
		logger.LogAttrs(ctx, level, "Postgres pool wait",
			slog.Int64("waits", waits),
			slog.Duration("avgWait", waited/time.Duration(waits)),
			slog.Int("inUse", cur.InUse),
			slog.Int("maxOpen", cur.MaxOpenConnections),
		)
	}
}
