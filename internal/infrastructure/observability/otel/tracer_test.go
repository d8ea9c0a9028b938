package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"wallet-server/internal/infrastructure/config"
)

func TestInitTracer_Disabled(t *testing.T) {
	cfg := &config.OpenTelemetryConfig{
		Enabled: false,
	}

	shutdown, err := InitTracer(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, shutdown)

	err = shutdown(context.Background())
	assert.NoError(t, err)
}

func TestInitTracer_Stdout(t *testing.T) {
	cfg := &config.OpenTelemetryConfig{
		Enabled:        true,
		TraceExporter:  "stdout",
		ServiceName:    "test-service",
		ServiceVersion: "1.0.0",
	}

	shutdown, err := InitTracer(cfg)
	assert.NoError(t, err)
	assert.NotNil(t, shutdown)
}

func TestInitTracer_UnsupportedExporter(t *testing.T) {
	cfg := &config.OpenTelemetryConfig{
		Enabled:       true,
		TraceExporter: "jaeger",
	}

	_, err := InitTracer(cfg)
	assert.Error(t, err)
}

func TestTracer(t *testing.T) {
	tracer := Tracer("test-tracer")
	assert.NotNil(t, tracer)
}
