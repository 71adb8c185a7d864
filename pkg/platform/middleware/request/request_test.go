package request

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates UUID when no header provided", func(t *testing.T) {
		var capturedID string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedID = GetRequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Len(t, capturedID, 36)
		assert.Equal(t, capturedID, w.Header().Get(HeaderRequestID))
	})

	t.Run("keeps valid client-provided ID", func(t *testing.T) {
		var capturedID string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedID = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(HeaderRequestID, "trace.span_1234")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "trace.span_1234", capturedID)
		assert.Equal(t, "trace.span_1234", w.Header().Get(HeaderRequestID))
	})

	t.Run("replaces unsafe client-provided IDs", func(t *testing.T) {
		for _, id := range []string{"has\nnewline", "has space", strings.Repeat("x", MaxRequestIDLength+1)} {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set(HeaderRequestID, id)
			w := httptest.NewRecorder()
			RequestID(okHandler()).ServeHTTP(w, req)

			assert.NotEqual(t, id, w.Header().Get(HeaderRequestID))
			assert.Len(t, w.Header().Get(HeaderRequestID), 36)
		}
	})

	t.Run("context without id returns empty string", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		assert.Empty(t, GetRequestID(req.Context()))
	})
}

func TestRecovery(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	handler := Recovery(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/kennitala/inspect", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, logs.String(), "panic recovered")
	assert.Contains(t, logs.String(), "/kennitala/inspect")
}

func TestLogger(t *testing.T) {
	t.Run("logs status and anonymized address", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, nil))
		handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		req := httptest.NewRequest(http.MethodGet, "/kennitala/inspect", nil)
		req.RemoteAddr = "192.168.1.47:5555"
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Contains(t, logs.String(), `"status":418`)
		assert.Contains(t, logs.String(), `"client":"chrome desktop"`)
		assert.Contains(t, logs.String(), "192.168.1.0")
		assert.NotContains(t, logs.String(), "192.168.1.47")
	})

	t.Run("skips healthy probes", func(t *testing.T) {
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, nil))
		Logger(logger)(okHandler()).ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodGet, "/health/live", nil))

		assert.Empty(t, logs.String())
	})
}

func TestContentTypeJSON(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, "application/json", http.StatusOK},
		{"json with charset", http.MethodPost, "application/json; charset=utf-8", http.StatusOK},
		{"missing header", http.MethodPost, "", http.StatusOK},
		{"form post", http.MethodPost, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"get ignores header", http.MethodGet, "text/plain", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/kennitala/inspect", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			ContentTypeJSON(okHandler()).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestBodyLimit(t *testing.T) {
	read := func(limit int64, body string) error {
		var readErr error
		handler := BodyLimit(limit)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		}))
		handler.ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body)))
		return readErr
	}

	t.Run("at the limit passes", func(t *testing.T) {
		require.NoError(t, read(100, strings.Repeat("x", 100)))
	})

	t.Run("over the limit fails on read", func(t *testing.T) {
		err := read(100, strings.Repeat("x", 101))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "request body too large")
	})

	t.Run("non-positive limit uses default", func(t *testing.T) {
		require.NoError(t, read(0, strings.Repeat("x", 1024)))
	})
}

func TestLatencyMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)

	handler := LatencyMiddleware(m)(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/kennitala/random", nil))

	count, err := testutil.GatherAndCount(reg, "kennitala_endpoint_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	t.Run("labels by chi route pattern", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := NewMetricsWith(reg)
		r := chi.NewRouter()
		r.Use(LatencyMiddleware(m))
		r.Post("/kennitala/{op}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/kennitala/inspect", nil))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/kennitala/random", nil))

		assert.Equal(t, 1, testutil.CollectAndCount(m.EndpointLatency, "kennitala_endpoint_latency_seconds"))
	})

	assert.NotPanics(t, func() {
		LatencyMiddleware(nil)(okHandler()).ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
