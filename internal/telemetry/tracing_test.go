package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

// Not parallel: installs the global tracer provider.
func TestSetupProvider_NoEndpoint(t *testing.T) {
	ctx := context.Background()

	provider, shutdown, err := SetupProvider(ctx, TracingConfig{
		ServiceName:    "modelservice-test",
		ServiceVersion: "0.0.0",
		Environment:    "test",
	})
	require.NoError(t, err)
	require.NotNil(t, provider)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	_, span := otel.Tracer("test").Start(ctx, "op")
	defer span.End()

	sc := span.SpanContext()
	assert.True(t, sc.HasTraceID())
	assert.True(t, sc.IsSampled())
	assert.NotNil(t, otel.GetTextMapPropagator())
}

func TestSetupProvider_ShutdownIsIdempotent(t *testing.T) {
	_, shutdown, err := SetupProvider(context.Background(), TracingConfig{ServiceName: "modelservice-test"})
	require.NoError(t, err)

	require.NoError(t, shutdown(context.Background()))
	require.NoError(t, shutdown(context.Background()))
}
