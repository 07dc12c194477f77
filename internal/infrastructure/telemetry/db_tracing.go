package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/agromarket/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

// DBTracing adds otelgorm spans plus slow-query marking to a gorm DB
type DBTracing struct {
	logFullSQL    bool
	slowThreshold time.Duration
	dbSystem      string
	logger        *zap.Logger
}

// NewDBTracing builds the plugin from telemetry configuration
func NewDBTracing(cfg config.TelemetryConfig, logger *zap.Logger) *DBTracing {
	if logger == nil {
		logger = zap.NewNop()
	}
	threshold := cfg.DBSlowQueryThresh
	if threshold <= 0 {
		threshold = 200 * time.Millisecond
	}
	return &DBTracing{
		logFullSQL:    cfg.DBLogFullSQL,
		slowThreshold: threshold,
		dbSystem:      "postgresql",
		logger:        logger,
	}
}

// Register installs the timing callbacks and then otelgorm on db. The
// timing callbacks must be registered first so their after hooks run while
// the otelgorm span is still open.
func (p *DBTracing) Register(db *gorm.DB) error {
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("agro_timing:before_create", p.before),
		cb.Query().Before("gorm:query").Register("agro_timing:before_query", p.before),
		cb.Update().Before("gorm:update").Register("agro_timing:before_update", p.before),
		cb.Delete().Before("gorm:delete").Register("agro_timing:before_delete", p.before),
		cb.Row().Before("gorm:row").Register("agro_timing:before_row", p.before),
		cb.Raw().Before("gorm:raw").Register("agro_timing:before_raw", p.before),
		cb.Create().After("gorm:create").Register("agro_timing:after_create", p.after),
		cb.Query().After("gorm:query").Register("agro_timing:after_query", p.after),
		cb.Update().After("gorm:update").Register("agro_timing:after_update", p.after),
		cb.Delete().After("gorm:delete").Register("agro_timing:after_delete", p.after),
		cb.Row().After("gorm:row").Register("agro_timing:after_row", p.after),
		cb.Raw().After("gorm:raw").Register("agro_timing:after_raw", p.after),
	} {
		if err != nil {
			return err
		}
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.dbSystem)}
	if !p.logFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.logFullSQL),
		zap.Duration("slow_query_threshold", p.slowThreshold),
	)
	return nil
}

func (p *DBTracing) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracing) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))

	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartKey{}).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.slowThreshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
