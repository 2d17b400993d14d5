package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func serveLogged(t *testing.T, level zapcore.Level, register func(*gin.Engine), req *http.Request) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(level)
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, recorded
}

func accessLine(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("request handled").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/projects", nil)
	w, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
		r.GET("/projects", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"data": []string{}})
		})
	}, req)

	assert.Equal(t, http.StatusOK, w.Code)
	entry := accessLine(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
}

func TestGinMiddleware_CarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-7f3a")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/records", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/records", nil)
	router.ServeHTTP(w, req)

	entry := accessLine(t, recorded)
	assert.Equal(t, "req-7f3a", entry.ContextMap()["request_id"])
}

func TestGinMiddleware_StatusDrivesLevel(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"2xx logs at info", http.StatusCreated, zapcore.InfoLevel},
		{"4xx logs at warn", http.StatusNotFound, zapcore.WarnLevel},
		{"5xx logs at error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/status", nil)
			_, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
				r.GET("/status", func(c *gin.Context) {
					c.JSON(tt.status, gin.H{})
				})
			}, req)

			assert.Equal(t, tt.level, accessLine(t, recorded).Level)
		})
	}
}

func TestGinMiddleware_QueryAndActor(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, "/records?status=PENDING&page=2", nil)
	req.Header.Set("X-User-ID", "usr-approver-1")

	_, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
		r.GET("/records", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})
	}, req)

	fields := accessLine(t, recorded).ContextMap()
	assert.Contains(t, fields["query"], "status=PENDING")
	assert.Equal(t, "usr-approver-1", fields["actor"])
}

func TestGinMiddleware_FieldSet(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "/scans/verify", nil)
	req.Header.Set("User-Agent", "gate-tablet/2.1")

	_, recorded := serveLogged(t, zapcore.InfoLevel, func(r *gin.Engine) {
		r.POST("/scans/verify", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"outcome": "PASS"})
		})
	}, req)

	fields := accessLine(t, recorded).ContextMap()
	for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path", "response_bytes"} {
		assert.Contains(t, fields, key)
	}
	assert.Equal(t, "gate-tablet/2.1", fields["user_agent"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("unexpected")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := recorded.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap(), "stacktrace")
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, _ := observer.New(zapcore.InfoLevel)
	var got *zap.Logger

	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/records", func(c *gin.Context) {
		got = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/records", nil)
	router.ServeHTTP(w, req)

	assert.NotNil(t, got)
}

func TestGetGinLogger_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got *zap.Logger
	router := gin.New()
	router.GET("/health", func(c *gin.Context) {
		got = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	require.NotNil(t, got)
	assert.NotPanics(t, func() {
		got.Info("no-op")
	})
}
