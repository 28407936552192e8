package otel

import (
	"context"
	"os"
	"testing"
)

func TestConfigFromEnv(t *testing.T) {
	originalServiceName := os.Getenv("OTEL_SERVICE_NAME")
	originalEnabled := os.Getenv("OTEL_ENABLED")
	defer func() {
		os.Setenv("OTEL_SERVICE_NAME", originalServiceName)
		os.Setenv("OTEL_ENABLED", originalEnabled)
	}()

	t.Run("default values", func(t *testing.T) {
		os.Unsetenv("OTEL_SERVICE_NAME")
		os.Unsetenv("OTEL_ENABLED")

		cfg := ConfigFromEnv()

		if cfg.ServiceName != "gst-sense-gateway" {
			t.Errorf("expected ServiceName 'gst-sense-gateway', got %s", cfg.ServiceName)
		}
		if !cfg.Enabled {
			t.Error("expected Enabled to be true by default")
		}
	})

	t.Run("sample ratio from env", func(t *testing.T) {
		t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "0.5")

		cfg := ConfigFromEnv()
		if cfg.SampleRatio != 0.5 {
			t.Errorf("expected SampleRatio 0.5, got %f", cfg.SampleRatio)
		}
	})

	t.Run("invalid sample ratio ignored", func(t *testing.T) {
		t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "2.0")

		cfg := ConfigFromEnv()
		if cfg.SampleRatio != 0.1 {
			t.Errorf("expected default SampleRatio 0.1, got %f", cfg.SampleRatio)
		}
	})
}

func TestInitProvider_Disabled(t *testing.T) {
	cfg := Config{
		ServiceName:  "test",
		Enabled:      false,
		OTLPEndpoint: "http://localhost:4318",
	}

	shutdown, err := InitProvider(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown returned error: %v", err)
	}
}
