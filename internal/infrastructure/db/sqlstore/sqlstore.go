// Package sqlstore persists users, profiles, posts and todos in a relational
// database through gorm. Postgres is the production driver; SQLite backs the
// tests and local development.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver string
	DSN    string
	// Debug logs every statement at debug level.
	Debug bool
	// SlowThreshold marks queries slower than this as warnings. Defaults to 200ms.
	SlowThreshold time.Duration
}

// Open connects to the configured database and migrates the schema.
func Open(cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", cfg.Driver)
	}

	level := gormlogger.Warn
	if cfg.Debug {
		level = gormlogger.Info
	}
	threshold := cfg.SlowThreshold
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log, level, threshold),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", cfg.Driver, err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Driver).Msg("database ready")
	return db, nil
}

// Migrate creates or updates every table owned by this package.
func Migrate(db *gorm.DB) error {
	for _, m := range []interface{}{&userRecord{}, &profileRecord{}, &postRecord{}, &todoRecord{}} {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("sqlstore: automigrate %T: %w", m, err)
		}
	}
	return nil
}

// gormLogger routes gorm's statement log through zerolog.
type gormLogger struct {
	log           zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(log zerolog.Logger, level gormlogger.LogLevel, slow time.Duration) *gormLogger {
	return &gormLogger{
		log:           log.With().Str("component", "gorm").Logger(),
		level:         level,
		slowThreshold: slow,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msgf(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msgf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msgf(msg, args...)
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
