package logging

import (
	"errors"
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

func capture(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(prev) })
	return logs
}

func TestLogKV_Levels(t *testing.T) {
	logs := capture(t)

	LogKV("warn", "slow query", map[string]interface{}{"table": "customers", "ms": 812})
	LogKV("bogus", "fallback", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "slow query", entries[0].Message)
	assert.Equal(t, "customers", entries[0].ContextMap()["table"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
}

func TestJSONLogger_RecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := capture(t)

	r := gin.New()
	r.Use(JSONLogger())
	r.GET("/api/salesmen/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("kaput"))
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/salesmen/S1?x=1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)

	ok := entries[0].ContextMap()
	assert.Equal(t, "GET", ok["method"])
	assert.Equal(t, "/api/salesmen/S1", ok["path"])
	assert.Equal(t, "/api/salesmen/:id", ok["route"])
	assert.Equal(t, "x=1", ok["query"])
	assert.EqualValues(t, http.StatusOK, ok["status"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Contains(t, entries[1].ContextMap()["error"], "kaput")
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("loud")
	assert.Error(t, err)
}
