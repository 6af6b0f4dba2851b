package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const queryStartKey = "telemetry:query_start"

// DBConfig controls database instrumentation
type DBConfig struct {
	Tracing         bool
	DBSystem        string // postgres, mysql or sqlite
	LogFullSQL      bool   // include bound variables in spans
	SlowQueryThresh time.Duration
}

// InstrumentDB registers otelgorm (when tracing) and a slow query logger.
// Slow queries are logged even when tracing is off.
func InstrumentDB(db *gorm.DB, cfg DBConfig, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return err
		}
	}

	if cfg.SlowQueryThresh <= 0 {
		return nil
	}

	w := &slowQueryWatcher{thresh: cfg.SlowQueryThresh, logger: logger}
	cb := db.Callback()
	registrations := []struct {
		before, after func() error
	}{
		{
			func() error { return cb.Create().Before("gorm:create").Register("telemetry:before_create", w.before) },
			func() error { return cb.Create().After("gorm:create").Register("telemetry:after_create", w.after) },
		},
		{
			func() error { return cb.Query().Before("gorm:query").Register("telemetry:before_query", w.before) },
			func() error { return cb.Query().After("gorm:query").Register("telemetry:after_query", w.after) },
		},
		{
			func() error { return cb.Update().Before("gorm:update").Register("telemetry:before_update", w.before) },
			func() error { return cb.Update().After("gorm:update").Register("telemetry:after_update", w.after) },
		},
		{
			func() error { return cb.Delete().Before("gorm:delete").Register("telemetry:before_delete", w.before) },
			func() error { return cb.Delete().After("gorm:delete").Register("telemetry:after_delete", w.after) },
		},
		{
			func() error { return cb.Row().Before("gorm:row").Register("telemetry:before_row", w.before) },
			func() error { return cb.Row().After("gorm:row").Register("telemetry:after_row", w.after) },
		},
		{
			func() error { return cb.Raw().Before("gorm:raw").Register("telemetry:before_raw", w.before) },
			func() error { return cb.Raw().After("gorm:raw").Register("telemetry:after_raw", w.after) },
		},
	}
	for _, r := range registrations {
		if err := r.before(); err != nil {
			return err
		}
		if err := r.after(); err != nil {
			return err
		}
	}

	logger.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.Tracing),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

type slowQueryWatcher struct {
	thresh time.Duration
	logger *zap.Logger
}

func (w *slowQueryWatcher) before(db *gorm.DB) {
	db.InstanceSet(queryStartKey, time.Now())
}

func (w *slowQueryWatcher) after(db *gorm.DB) {
	v, ok := db.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)

	var span trace.Span
	if ctx := db.Statement.Context; ctx != nil {
		span = trace.SpanFromContext(ctx)
	}

	if span != nil && span.IsRecording() && db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) && span != nil {
		span.RecordError(db.Error)
	}

	if elapsed < w.thresh {
		return
	}
	if span != nil && span.IsRecording() {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
	w.logger.Warn("Slow query",
		zap.String("table", db.Statement.Table),
		zap.Duration("elapsed", elapsed),
		zap.Duration("threshold", w.thresh),
		zap.Int64("rows", db.Statement.RowsAffected))
}
