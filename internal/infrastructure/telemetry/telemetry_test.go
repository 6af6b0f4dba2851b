package telemetry

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/invoicer/backend/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSetup_AllDisabled(t *testing.T) {
	p, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "invoicer-test"}, "test", zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.TracingEnabled())
	assert.False(t, p.ZapCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestSetup_ProfilingRequiresAddress(t *testing.T) {
	_, err := Setup(context.Background(), config.TelemetryConfig{
		ServiceName:      "invoicer-test",
		ProfilingEnabled: true,
	}, "test", nil)
	assert.Error(t, err)
}

func TestProvider_NilSafe(t *testing.T) {
	var p *Provider
	assert.False(t, p.TracingEnabled())
	assert.NoError(t, p.Shutdown(context.Background()))
	assert.NotNil(t, p.ZapCore(zapcore.DebugLevel))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Equal(t, "AlwaysOffSampler", sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestLevelFilterCore(t *testing.T) {
	core := &levelFilterCore{Core: zapcore.NewNopCore(), minLevel: zapcore.WarnLevel}
	// nop core is never enabled, so the filter can only narrow
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
	assert.IsType(t, &levelFilterCore{}, core.With(nil))
}

func TestEndSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test.span")
	assert.NotNil(t, ctx)
	// global provider is a no-op here; both branches must not panic
	EndSpan(span, nil)
	_, span = StartSpan(ctx, "test.error")
	EndSpan(span, errors.New("boom"))
	assert.Equal(t, "", TraceID(context.Background()))
}

func TestBusinessMetrics_Invoices(t *testing.T) {
	m := NewBusinessMetrics()

	m.InvoiceCreated("CREDIT", decimal.RequireFromString("1180.50"))
	m.InvoiceCreated("PAID", decimal.RequireFromString("200"))
	m.InvoiceCreated("PAID", decimal.Zero)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.invoicesCreated.WithLabelValues("CREDIT")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.invoicesCreated.WithLabelValues("PAID")))
	assert.InDelta(t, 1380.50, testutil.ToFloat64(m.invoicedAmount), 0.001)
}

func TestBusinessMetrics_IdentifierObserver(t *testing.T) {
	m := NewBusinessMetrics()

	m.Attempt("sku", true)
	m.Attempt("sku", false)
	m.Attempt("invoice_number", true)
	m.Exhausted("invoice_number")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.identifierAttempts.WithLabelValues("sku", "collision")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.identifierAttempts.WithLabelValues("sku", "free")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.identifierExhaust.WithLabelValues("invoice_number")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.identifierExhaust.WithLabelValues("sku")))
}

func TestBusinessMetrics_ExportsAndHTTP(t *testing.T) {
	m := NewBusinessMetrics()

	m.InvoiceExported("gofpdf", 120*time.Millisecond, nil)
	m.InvoiceExported("gofpdf", time.Second, errors.New("render failed"))
	m.ObserveHTTP("GET", "/api/v1/invoices", 200, 5*time.Millisecond)
	m.ObserveHTTP("GET", "", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("gofpdf", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("gofpdf", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "invoicer_invoice_exports_total")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestInstrumentDB_SlowQueryCallbacks(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	err = InstrumentDB(db, DBConfig{DBSystem: "sqlite", SlowQueryThresh: time.Nanosecond}, zap.NewNop())
	require.NoError(t, err)

	assert.NotNil(t, db.Callback().Query().Get("telemetry:before_query"))
	assert.NotNil(t, db.Callback().Create().Get("telemetry:after_create"))

	var n int
	require.NoError(t, db.Raw("SELECT 1").Scan(&n).Error)
	assert.Equal(t, 1, n)
}

func TestInstrumentDB_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	require.NoError(t, InstrumentDB(db, DBConfig{}, nil))
	assert.Nil(t, db.Callback().Query().Get("telemetry:before_query"))
}
