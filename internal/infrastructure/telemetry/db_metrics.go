package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/agromarket/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type metricsStartKey struct{}

// DBMetrics counts and times gorm statements and samples the connection pool
type DBMetrics struct {
	poolConnections    *Gauge
	poolConnectionsMax *Gauge
	queries            *Counter
	queryDuration      *Histogram
	slowQueries        *Counter

	slowThreshold time.Duration
	poolInterval  time.Duration
	logger        *zap.Logger

	mu       sync.RWMutex
	sqlDB    *sql.DB
	stopCh   chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewDBMetrics creates the instruments on meter
func NewDBMetrics(meter metric.Meter, cfg config.TelemetryConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &DBMetrics{
		slowThreshold: cfg.DBSlowQueryThresh,
		poolInterval:  cfg.DBPoolStatsInterval,
		logger:        logger,
		stopCh:        make(chan struct{}),
	}
	if m.slowThreshold <= 0 {
		m.slowThreshold = 200 * time.Millisecond
	}
	if m.poolInterval <= 0 {
		m.poolInterval = 15 * time.Second
	}

	var err error
	if m.poolConnections, err = NewGauge(meter, "db_pool_connections",
		"Number of connections in the pool by state", "{connection}"); err != nil {
		return nil, err
	}
	if m.poolConnectionsMax, err = NewGauge(meter, "db_pool_connections_max",
		"Maximum number of open connections", "{connection}"); err != nil {
		return nil, err
	}
	if m.queries, err = NewCounter(meter, "db_query_total",
		"Total number of database statements by operation and outcome", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database statement latency distribution in seconds",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.slowQueries, err = NewCounter(meter, "db_slow_query_total",
		"Total number of statements slower than the slow query threshold", "{query}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordQuery records one finished statement. A missing row is a normal
// outcome, not an error.
func (m *DBMetrics) RecordQuery(ctx context.Context, operation, table string, d time.Duration, err error) {
	operation = strings.ToUpper(operation)
	if operation == "" {
		operation = "UNKNOWN"
	}
	outcome := "ok"
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		outcome = "error"
	}

	m.queries.Inc(ctx, AttrDBOperation.String(operation), AttrDBOutcome.String(outcome))
	m.queryDuration.RecordDuration(ctx, d, AttrDBOperation.String(operation))
	if d > m.slowThreshold {
		if table == "" {
			table = "unknown"
		}
		m.slowQueries.Inc(ctx, AttrDBTable.String(table))
	}
}

// Register installs the statement callbacks on db and remembers its pool
func (m *DBMetrics) Register(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sqlDB = sqlDB
	m.mu.Unlock()

	op := func(name string) func(*gorm.DB) {
		return func(tx *gorm.DB) { m.after(tx, name) }
	}
	cb := db.Callback()
	for _, err := range []error{
		cb.Create().Before("gorm:create").Register("agro_metrics:before_create", m.before),
		cb.Query().Before("gorm:query").Register("agro_metrics:before_query", m.before),
		cb.Update().Before("gorm:update").Register("agro_metrics:before_update", m.before),
		cb.Delete().Before("gorm:delete").Register("agro_metrics:before_delete", m.before),
		cb.Row().Before("gorm:row").Register("agro_metrics:before_row", m.before),
		cb.Raw().Before("gorm:raw").Register("agro_metrics:before_raw", m.before),
		cb.Create().After("gorm:create").Register("agro_metrics:after_create", op("INSERT")),
		cb.Query().After("gorm:query").Register("agro_metrics:after_query", op("SELECT")),
		cb.Update().After("gorm:update").Register("agro_metrics:after_update", op("UPDATE")),
		cb.Delete().After("gorm:delete").Register("agro_metrics:after_delete", op("DELETE")),
		cb.Row().After("gorm:row").Register("agro_metrics:after_row", op("")),
		cb.Raw().After("gorm:raw").Register("agro_metrics:after_raw", op("")),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *DBMetrics) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, metricsStartKey{}, time.Now())
	}
}

// after records the statement; raw and row statements take their
// operation from the SQL text
func (m *DBMetrics) after(db *gorm.DB, operation string) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if operation == "" {
		operation = detectOperation(db.Statement.SQL.String())
	}
	var d time.Duration
	if start, ok := ctx.Value(metricsStartKey{}).(time.Time); ok {
		d = time.Since(start)
	}
	m.RecordQuery(ctx, operation, db.Statement.Table, d, db.Error)
}

func detectOperation(query string) string {
	query = strings.ToUpper(strings.TrimSpace(query))
	for _, op := range []string{"SELECT", "INSERT", "UPDATE", "DELETE"} {
		if strings.HasPrefix(query, op) {
			return op
		}
	}
	return "OTHER"
}

// StartPoolStats samples the pool now and then every pool interval until
// Stop is called or ctx ends
func (m *DBMetrics) StartPoolStats(ctx context.Context) {
	m.mu.RLock()
	sqlDB := m.sqlDB
	m.mu.RUnlock()
	if sqlDB == nil {
		m.logger.Warn("Cannot collect pool stats before Register")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.poolInterval)
		defer ticker.Stop()

		m.collectPoolStats(ctx)
		for {
			select {
			case <-ticker.C:
				m.collectPoolStats(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *DBMetrics) collectPoolStats(ctx context.Context) {
	m.mu.RLock()
	sqlDB := m.sqlDB
	m.mu.RUnlock()
	if sqlDB == nil {
		return
	}

	stats := sqlDB.Stats()
	m.poolConnectionsMax.Record(ctx, int64(stats.MaxOpenConnections))
	m.poolConnections.Record(ctx, int64(stats.Idle), AttrDBPoolState.String("idle"))
	m.poolConnections.Record(ctx, int64(stats.InUse), AttrDBPoolState.String("in_use"))
	m.poolConnections.Record(ctx, int64(stats.OpenConnections), AttrDBPoolState.String("open"))
}

// Stop ends pool sampling. Safe to call multiple times.
func (m *DBMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
	})
}

// RegisterDBMetrics instruments db when metrics are exported and
// telemetry.db_metrics_enabled is set. It returns nil otherwise.
func RegisterDBMetrics(ctx context.Context, db *gorm.DB, mp *MeterProvider, cfg config.TelemetryConfig, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.DBMetricsEnabled || !mp.IsEnabled() {
		return nil, nil
	}

	m, err := NewDBMetrics(mp.Meter("db.client"), cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := m.Register(db); err != nil {
		return nil, err
	}
	m.StartPoolStats(ctx)

	logger.Info("Database metrics enabled",
		zap.Duration("slow_query_threshold", m.slowThreshold),
		zap.Duration("pool_stats_interval", m.poolInterval),
	)
	return m, nil
}
