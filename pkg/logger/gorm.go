package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm/logger"
)

// SQLLogger adapts gorm's logger.Interface onto the global slog logger so
// query logs land in the same stream as the rest of the API's output.
// Queries slower than SlowThreshold are raised to warning level.
type SQLLogger struct {
	Level         logger.LogLevel
	SlowThreshold time.Duration
}

// NewSQLLogger creates a gorm logger adapter
func NewSQLLogger(level logger.LogLevel, slowThreshold time.Duration) *SQLLogger {
	return &SQLLogger{Level: level, SlowThreshold: slowThreshold}
}

// LogMode returns a copy at the given level, per the gorm contract
func (l *SQLLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.Level = level
	return &clone
}

func (l *SQLLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.Level >= logger.Info {
		Log.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *SQLLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.Level >= logger.Warn {
		Log.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *SQLLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.Level >= logger.Error {
		Log.Error(fmt.Sprintf(msg, args...))
	}
}

func (l *SQLLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.Level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	attrs := []any{
		slog.String("sql", sql),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && l.Level >= logger.Error:
		Log.Error("SQL Error", append(attrs, slog.String("error", err.Error()))...)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.Level >= logger.Warn:
		Log.Warn("Slow SQL", attrs...)
	case l.Level >= logger.Info:
		Log.Info("SQL", attrs...)
	}
}
