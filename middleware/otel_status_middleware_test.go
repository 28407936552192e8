package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	spanRecorder := tracetest.NewSpanRecorder()
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(spanRecorder),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tracerProvider)
	t.Cleanup(func() {
		otel.SetTracerProvider(originalProvider)
	})

	return spanRecorder
}

// traceStatus runs the middleware around handler inside a recorded span and
// returns the ended span plus the handler error.
func traceStatus(t *testing.T, recorder *tracetest.SpanRecorder, path string, handler echo.HandlerFunc) (sdktrace.ReadOnlySpan, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ctx, span := otel.Tracer("test").Start(req.Context(), "gateway-request")
	c.SetRequest(req.WithContext(ctx))

	err := OTelStatusMiddleware()(handler)(c)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	return spans[0], err
}

func statusCodeAttr(t *testing.T, span sdktrace.ReadOnlySpan) int64 {
	t.Helper()
	for _, attr := range span.Attributes() {
		if string(attr.Key) == "http.response.status_code" {
			return attr.Value.AsInt64()
		}
	}
	t.Fatal("http.response.status_code attribute not found")
	return 0
}

func TestOTelStatusMiddleware_2xxResponse_StatusUnset(t *testing.T) {
	recorder := setupTestTracer(t)

	span, err := traceStatus(t, recorder, "/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "healthy")
	})

	require.NoError(t, err)
	assert.Equal(t, codes.Unset, span.Status().Code)
	assert.Equal(t, int64(200), statusCodeAttr(t, span))
}

func TestOTelStatusMiddleware_4xxResponse_StatusUnset(t *testing.T) {
	recorder := setupTestTracer(t)

	span, err := traceStatus(t, recorder, "/validate", func(c echo.Context) error {
		return c.String(http.StatusUnauthorized, "unauthorized")
	})

	require.NoError(t, err)
	assert.Equal(t, codes.Unset, span.Status().Code)
	assert.Equal(t, int64(401), statusCodeAttr(t, span))
}

func TestOTelStatusMiddleware_5xxResponse_StatusError(t *testing.T) {
	recorder := setupTestTracer(t)

	span, err := traceStatus(t, recorder, "/validate", func(c echo.Context) error {
		return c.String(http.StatusInternalServerError, "internal error")
	})

	require.NoError(t, err)
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Equal(t, "Internal Server Error", span.Status().Description)
	assert.Equal(t, int64(500), statusCodeAttr(t, span))
}

func TestOTelStatusMiddleware_5xxWithError_RecordsError(t *testing.T) {
	recorder := setupTestTracer(t)

	jwksErr := errors.New("jwks fetch failed")
	span, err := traceStatus(t, recorder, "/validate", func(c echo.Context) error {
		c.Response().WriteHeader(http.StatusInternalServerError)
		return jwksErr
	})

	assert.Equal(t, jwksErr, err)
	assert.Equal(t, codes.Error, span.Status().Code)

	var exceptionRecorded bool
	for _, event := range span.Events() {
		if event.Name == "exception" {
			exceptionRecorded = true
			break
		}
	}
	assert.True(t, exceptionRecorded, "exception event not found in span")
}

func TestOTelStatusMiddleware_NoSpanInContext(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := OTelStatusMiddleware()(func(c echo.Context) error {
		return c.String(http.StatusOK, "healthy")
	})(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
