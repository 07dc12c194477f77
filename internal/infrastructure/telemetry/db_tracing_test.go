package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/agromarket/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint64 `gorm:"primaryKey"`
	Name string
}

func newTracedDB(t *testing.T, cfg config.TelemetryConfig) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	require.NoError(t, NewDBTracing(cfg, nil).Register(db))
	return db
}

func TestNewDBTracing_Defaults(t *testing.T) {
	p := NewDBTracing(config.TelemetryConfig{}, nil)
	assert.Equal(t, 200*time.Millisecond, p.slowThreshold)
	assert.False(t, p.logFullSQL)
}

func TestDBTracing_RecordsQuerySpans(t *testing.T) {
	_, exp := newRecordingProvider(t)
	db := newTracedDB(t, config.TelemetryConfig{DBLogFullSQL: false})

	ctx, parent := otel.Tracer("test").Start(context.Background(), "request")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "wheat"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Where("name = ?", "wheat").Find(&rows).Error)
	parent.End()

	require.Len(t, rows, 1)

	var tables []string
	for _, s := range exp.GetSpans() {
		if v, ok := attrValue(s.Attributes, "db.sql.table"); ok {
			tables = append(tables, v.AsString())
			assert.Equal(t, parent.SpanContext().TraceID(), s.SpanContext.TraceID())
		}
	}
	assert.Contains(t, tables, "traced_rows")
}

func TestDBTracing_SlowQuery(t *testing.T) {
	_, exp := newRecordingProvider(t)
	db := newTracedDB(t, config.TelemetryConfig{DBSlowQueryThresh: time.Nanosecond})

	ctx, parent := otel.Tracer("test").Start(context.Background(), "request")
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	slow := false
	for _, s := range exp.GetSpans() {
		if v, ok := attrValue(s.Attributes, "db.slow_query"); ok && v.AsBool() {
			slow = true
		}
	}
	assert.True(t, slow)
}
