package telemetry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedNote struct {
	ID   string `gorm:"primaryKey"`
	Body string
}

func setupTracedDB(t *testing.T) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedNote{}))
	require.NoError(t, db.Use(GORMTracingPlugin()))

	return db, recorder
}

func TestGORMTracingPluginRecordsQuerySpans(t *testing.T) {
	db, recorder := setupTracedDB(t)

	require.NoError(t, db.Create(&tracedNote{ID: "n1", Body: "hello"}).Error)

	var notes []tracedNote
	require.NoError(t, db.WithContext(context.Background()).Find(&notes).Error)
	require.Len(t, notes, 1)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)

	span := spans[len(spans)-1]
	assert.Equal(t, "db.query", span.Name())

	attrs := make(map[string]string)
	for _, kv := range span.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "sqlite", attrs["db.system"])
	assert.Equal(t, "traced_notes", attrs["db.table"])
	assert.Contains(t, attrs["db.statement"], "SELECT")
}

func TestGORMTracingPluginSkipsWrites(t *testing.T) {
	db, recorder := setupTracedDB(t)

	require.NoError(t, db.WithContext(context.Background()).Create(&tracedNote{ID: "n2", Body: "write"}).Error)

	for _, span := range recorder.Ended() {
		assert.NotEqual(t, "db.query", span.Name())
	}
}

func TestGORMTracingPluginIgnoresRecordNotFound(t *testing.T) {
	db, recorder := setupTracedDB(t)

	var note tracedNote
	err := db.WithContext(context.Background()).First(&note, "id = ?", "missing").Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	span := spans[len(spans)-1]
	assert.Equal(t, "db.query", span.Name())
	assert.NotEqual(t, "Error", span.Status().Code.String())
}
