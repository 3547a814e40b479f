package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ledgerProbe struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:20"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ledgerProbe{}))
	return db
}

func setupRecorder(t *testing.T) (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tp, recorder
}

func attributesOf(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()

	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestNewDBTracingPlugin_FillsDefaults(t *testing.T) {
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	assert.Equal(t, 200*time.Millisecond, plugin.config.SlowQueryThresh)
	assert.Equal(t, "postgresql", plugin.config.DBSystem)
}

func TestDBTracingPlugin_Register(t *testing.T) {
	t.Run("disabled is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		plugin := NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop())

		require.NoError(t, plugin.Register(db))
		require.NoError(t, plugin.Register(db))
	})

	t.Run("enabled logs its settings", func(t *testing.T) {
		db := setupTestDB(t)
		core, recorded := observer.New(zapcore.InfoLevel)
		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.New(core))

		require.NoError(t, plugin.Register(db))

		logs := recorded.FilterMessage("Database tracing enabled").All()
		require.Len(t, logs, 1)
		assert.Equal(t, "sqlite", logs[0].ContextMap()["db_system"])
	})

	t.Run("double registration fails", func(t *testing.T) {
		db := setupTestDB(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBSystem: "sqlite"}, zap.NewNop())

		require.NoError(t, plugin.Register(db))
		assert.Error(t, plugin.Register(db))
	})

	t.Run("queries still work once registered", func(t *testing.T) {
		db := setupTestDB(t)
		plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, LogFullSQL: true, DBSystem: "sqlite"}, zap.NewNop())
		require.NoError(t, plugin.Register(db))

		require.NoError(t, db.Create(&ledgerProbe{Code: "1200"}).Error)

		var found ledgerProbe
		require.NoError(t, db.First(&found, "code = ?", "1200").Error)
		assert.Equal(t, "1200", found.Code)
	})
}

func TestDBTracingPlugin_AnnotateSpan(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "ledger.PostJournalEntry")
	result := db.WithContext(ctx).Create(&ledgerProbe{Code: "4000"})
	require.NoError(t, result.Error)

	plugin.annotateSpan(result)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := attributesOf(spans[0])
	assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "ledger_probes", attrs["db.sql.table"].AsString())
	_, slow := attrs["db.slow_query"]
	assert.False(t, slow)
}

func TestDBTracingPlugin_AnnotateSpan_SlowQuery(t *testing.T) {
	db := setupTestDB(t)
	tp, recorder := setupRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Millisecond}, zap.NewNop())

	ctx, span := tp.Tracer("test").Start(context.Background(), "slow")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

	var probes []ledgerProbe
	result := db.WithContext(ctx).Find(&probes)
	require.NoError(t, result.Error)

	plugin.annotateSpan(result)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.True(t, attributesOf(spans[0])["db.slow_query"].AsBool())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "slow_query_warning", spans[0].Events()[0].Name)
}

func TestDBTracingPlugin_AnnotateSpan_Errors(t *testing.T) {
	tp, recorder := setupRecorder(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	t.Run("record not found is not an error", func(t *testing.T) {
		db := setupTestDB(t)
		ctx, span := tp.Tracer("test").Start(context.Background(), "not-found")

		var probe ledgerProbe
		result := db.WithContext(ctx).First(&probe, "code = ?", "9999")
		require.ErrorIs(t, result.Error, gorm.ErrRecordNotFound)

		plugin.annotateSpan(result)
		span.End()

		ended := recorder.Ended()
		assert.NotEqual(t, codes.Error, ended[len(ended)-1].Status().Code)
	})

	t.Run("statement failure marks the span", func(t *testing.T) {
		db := setupTestDB(t)
		ctx, span := tp.Tracer("test").Start(context.Background(), "broken")

		result := db.WithContext(ctx).Exec("INSERT INTO missing_table VALUES (1)")
		require.Error(t, result.Error)

		plugin.annotateSpan(result)
		span.End()

		ended := recorder.Ended()
		assert.Equal(t, codes.Error, ended[len(ended)-1].Status().Code)
	})
}

func TestDBTracingPlugin_AnnotateSpan_NonRecording(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, zap.NewNop())

	result := db.WithContext(context.Background()).Create(&ledgerProbe{Code: "1000"})
	require.NoError(t, result.Error)

	assert.NotPanics(t, func() { plugin.annotateSpan(result) })
}
