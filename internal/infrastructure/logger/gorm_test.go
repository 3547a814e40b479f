package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func statement(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestNewGormLogger(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Info)
	assert.Equal(t, gormlogger.Info, l.logLevel)
	assert.Equal(t, DefaultSlowThreshold, l.slowThreshold)
	assert.True(t, l.ignoreRecordNotFoundError)

	l, _ = newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)
	assert.Equal(t, 500*time.Millisecond, l.slowThreshold)
	assert.False(t, l.ignoreRecordNotFoundError)
}

func TestGormLogger_LogMode(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Info)
	clone, ok := l.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, l.logLevel)
	assert.Equal(t, gormlogger.Warn, clone.logLevel)
}

func TestGormLogger_Messages(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		level gormlogger.LogLevel
		log   func(l *GormLogger)
		want  string
		lvl   zapcore.Level
	}{
		{"info", gormlogger.Info, func(l *GormLogger) { l.Info(ctx, "migrated %s", "accounts") }, "migrated accounts", zapcore.InfoLevel},
		{"info suppressed", gormlogger.Warn, func(l *GormLogger) { l.Info(ctx, "migrated") }, "", 0},
		{"warn", gormlogger.Warn, func(l *GormLogger) { l.Warn(ctx, "retry %d", 2) }, "retry 2", zapcore.WarnLevel},
		{"error", gormlogger.Error, func(l *GormLogger) { l.Error(ctx, "broken") }, "broken", zapcore.ErrorLevel},
		{"silent", gormlogger.Silent, func(l *GormLogger) { l.Error(ctx, "broken") }, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, recorded := newObservedGormLogger(tt.level)
			tt.log(l)
			if tt.want == "" {
				assert.Empty(t, recorded.All())
				return
			}
			require.Len(t, recorded.All(), 1)
			assert.Equal(t, tt.want, recorded.All()[0].Message)
			assert.Equal(t, tt.lvl, recorded.All()[0].Level)
		})
	}
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		wantMsg string
		wantLvl zapcore.Level
	}{
		{"error", gormlogger.Error, nil, time.Now(), errors.New("connection reset"), "SQL Error", zapcore.ErrorLevel},
		{"duplicate key is a conflict", gormlogger.Warn, nil, time.Now(), gorm.ErrDuplicatedKey, "SQL Conflict", zapcore.WarnLevel},
		{"record not found ignored", gormlogger.Error, nil, time.Now(), gormlogger.ErrRecordNotFound, "", 0},
		{"record not found kept", gormlogger.Error, []GormLoggerOption{WithIgnoreRecordNotFoundError(false)}, time.Now(), gormlogger.ErrRecordNotFound, "SQL Error", zapcore.ErrorLevel},
		{"slow query", gormlogger.Warn, []GormLoggerOption{WithSlowThreshold(time.Nanosecond)}, time.Now().Add(-time.Second), nil, "SLOW SQL >= 1ns", zapcore.WarnLevel},
		{"slow logging disabled", gormlogger.Warn, []GormLoggerOption{WithSlowThreshold(0)}, time.Now().Add(-time.Second), nil, "", 0},
		{"query at info", gormlogger.Info, nil, time.Now(), nil, "SQL Query", zapcore.DebugLevel},
		{"query below info", gormlogger.Warn, nil, time.Now(), nil, "", 0},
		{"silent", gormlogger.Silent, nil, time.Now(), errors.New("x"), "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, recorded := newObservedGormLogger(tt.level, tt.opts...)
			l.Trace(ctx, tt.begin, statement("SELECT * FROM journal_entries", 3), tt.err)

			if tt.wantMsg == "" {
				assert.Empty(t, recorded.All())
				return
			}
			require.Len(t, recorded.All(), 1)
			entry := recorded.All()[0]
			assert.Equal(t, tt.wantMsg, entry.Message)
			assert.Equal(t, tt.wantLvl, entry.Level)
			assert.Equal(t, "SELECT * FROM journal_entries", entry.ContextMap()["sql"])
			assert.Equal(t, int64(3), entry.ContextMap()["rows"])
		})
	}
}

func TestGormLogger_Trace_RowLock(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Info)

	l.Trace(context.Background(), time.Now(), statement(`SELECT * FROM "journals" WHERE id = $1 FOR UPDATE`, 1), nil)
	l.Trace(context.Background(), time.Now(), statement(`SELECT * FROM "journals" WHERE id = $1`, 1), nil)

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, true, logs[0].ContextMap()["row_lock"])
	assert.NotContains(t, logs[1].ContextMap(), "row_lock")
}

func TestGormLogger_Trace_RequestContext(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Info)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	ctx, _ = WithCompanyID(ctx, zap.NewNop(), "company-1")
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx = trace.ContextWithSpanContext(ctx, trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	l.Trace(ctx, time.Now(), statement("UPDATE journals SET next_number = 2", 1), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "company-1", fields["company_id"])
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Warn,
		"INFO":    gormlogger.Warn,
		"debug":   gormlogger.Info,
		"DEBUG":   gormlogger.Info,
		"unknown": gormlogger.Warn,
		"":        gormlogger.Warn,
	}
	for level, want := range tests {
		t.Run(level, func(t *testing.T) {
			assert.Equal(t, want, MapGormLogLevel(level))
		})
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
