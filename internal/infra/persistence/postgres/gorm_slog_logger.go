package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"lebay/config"
	deliverycontext "lebay/internal/delivery/context"
	"lebay/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultGormSlowThreshold = 200 * time.Millisecond

// Row lock waits on a busy auction are expected, so lock statements get a
// longer slow threshold than plain reads.
const lockedQuerySlowFactor = 5

// gormSlogLogger routes GORM output through the request logger in ctx.
//
// Query outcomes map to slog levels as follows: failed statements are errors,
// except constraint violations, which the repositories translate into domain
// errors (duplicate username, second payment) and are logged as warnings. Slow
// statements are warnings. Everything else is debug output, emitted only when
// env.debug is set.
type gormSlogLogger struct {
	logger        *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormSlogLogger(baseLogger *slog.Logger, cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg != nil && cfg.Env.Debug {
		level = logger.Info
	}

	return &gormSlogLogger{
		logger:        baseLogger,
		level:         level,
		slowThreshold: defaultGormSlowThreshold,
	}
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.message(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *gormSlogLogger) message(ctx context.Context, enabledAt logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.logger == nil || l.level < enabledAt {
		return
	}

	l.loggerFor(ctx).LogAttrs(ctx, level, "GORM", slog.String("message", fmt.Sprintf(msg, args...)))
}

func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.logger == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	level, msg, ok := l.classify(err, elapsed, sqlAndRowsFn)
	if !ok {
		return
	}

	sql, rows := sqlAndRowsFn()
	attrs := []slog.Attr{
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}
	if isLockingQuery(sql) {
		attrs = append(attrs, slog.Bool("row_lock", true))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		if name := constraintName(err); name != "" {
			attrs = append(attrs, slog.String("constraint", name))
		}
	}

	l.loggerFor(ctx).LogAttrs(ctx, level, msg, attrs...)
}

// classify picks the level for one statement; ok is false when nothing should
// be logged at the configured GORM level.
func (l *gormSlogLogger) classify(err error, elapsed time.Duration, sqlAndRowsFn func() (string, int64)) (slog.Level, string, bool) {
	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		// Lookups for missing rows surface as NotFound errors.
	case err != nil && isConstraintViolation(err):
		return slog.LevelWarn, "GORM constraint violation", l.level >= logger.Warn
	case err != nil:
		return slog.LevelError, "GORM query failed", l.level >= logger.Error
	}

	if l.level >= logger.Warn && l.slowThreshold > 0 && elapsed > l.slowThreshold {
		threshold := l.slowThreshold
		if sql, _ := sqlAndRowsFn(); isLockingQuery(sql) {
			threshold *= lockedQuerySlowFactor
		}
		if elapsed > threshold {
			return slog.LevelWarn, "GORM slow query", true
		}
	}

	return slog.LevelDebug, "GORM query", l.level >= logger.Info
}

func (l *gormSlogLogger) loggerFor(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return l.logger
	}

	return deliverycontext.GetLoggerOrDefault(ctx, l.logger)
}

func isConstraintViolation(err error) bool {
	return isUniqueConstraintViolation(err) ||
		isForeignKeyConstraintViolation(err) ||
		isNotNullConstraintViolation(err) ||
		isCheckConstraintViolation(err)
}

func isLockingQuery(sql string) bool {
	return strings.Contains(strings.ToUpper(sql), "FOR UPDATE")
}
