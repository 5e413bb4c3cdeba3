package telemetry

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	querySpanKey  = "telemetry:query_span"
	queryStartKey = "telemetry:query_start"

	// Truncate long statements to avoid span bloat.
	maxTracedStatementLen = 500
)

// GORMTracingPlugin returns a GORM plugin that traces read queries. The
// feed service only reads after startup migrations, so write callbacks
// are not instrumented.
func GORMTracingPlugin() gorm.Plugin {
	return &queryTracer{
		tracer: otel.Tracer("gorm"),
	}
}

type queryTracer struct {
	tracer trace.Tracer
	system string
}

func (t *queryTracer) Name() string {
	return "telemetry:query_tracing"
}

func (t *queryTracer) Initialize(db *gorm.DB) error {
	// postgres in production, sqlite in tests
	t.system = db.Dialector.Name()

	if err := db.Callback().Query().Before("gorm:query").Register("telemetry:query_start", t.beforeQuery); err != nil {
		return err
	}
	return db.Callback().Query().After("gorm:query").Register("telemetry:query_end", t.afterQuery)
}

func (t *queryTracer) beforeQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	_, span := t.tracer.Start(ctx, "db.query",
		trace.WithAttributes(
			attribute.String("db.system", t.system),
		),
	)

	db.InstanceSet(querySpanKey, span)
	db.InstanceSet(queryStartKey, time.Now())
}

func (t *queryTracer) afterQuery(db *gorm.DB) {
	raw, ok := db.InstanceGet(querySpanKey)
	if !ok {
		return
	}
	span, ok := raw.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	// The table name is only known once the query has been built.
	if table := db.Statement.Table; table != "" {
		span.SetAttributes(attribute.String("db.table", table))
	}

	if startRaw, ok := db.InstanceGet(queryStartKey); ok {
		if start, ok := startRaw.(time.Time); ok {
			span.SetAttributes(attribute.Int64("db.duration_ms", time.Since(start).Milliseconds()))
		}
	}

	if sql := db.Statement.SQL.String(); sql != "" {
		if len(sql) > maxTracedStatementLen {
			sql = sql[:maxTracedStatementLen] + "... (truncated)"
		}
		span.SetAttributes(attribute.String("db.statement", sql))
	}

	if db.RowsAffected > 0 {
		span.SetAttributes(attribute.Int64("db.rows_returned", db.RowsAffected))
	}

	// A missing row is a routine outcome for lookups, not a span failure.
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}
}
