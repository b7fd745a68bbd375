package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	Install(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

func TestStartSpan(t *testing.T) {
	recorder := setupRecorder(t)

	t.Run("父子Span共享TraceID", func(t *testing.T) {
		ctx, parent := StartSpan(context.Background(), "booking", "CreateBooking",
			attribute.Int64("room_id", 12))
		_, child := StartSpan(ctx, "booking", "Ledger.Adjust")

		assert.Equal(t, parent.SpanContext().TraceID(), child.SpanContext().TraceID())
		assert.Equal(t, parent.SpanContext().TraceID().String(), ExtractTraceID(ctx))

		child.End()
		parent.End()
	})

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "Ledger.Adjust", ended[0].Name())
	assert.Equal(t, "CreateBooking", ended[1].Name())
	assert.Contains(t, ended[1].Attributes(), attribute.Int64("room_id", 12))
}

func TestEndSpan_RecordsError(t *testing.T) {
	recorder := setupRecorder(t)

	_, span := StartSpan(context.Background(), "booking", "CancelBooking")
	EndSpan(span, errors.New("illegal transition"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "illegal transition", ended[0].Status().Description)
	assert.NotEmpty(t, ended[0].Events(), "错误应作为事件记录")
}

func TestExtractTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, ExtractTraceID(context.Background()))
}
