package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	if l == nil {
		t.Fatalf("nil logger")
	}
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Infow("info", map[string]any{"rows": 3})
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLogger_StructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter(&buf, "trainer", zerolog.InfoLevel)
	l.Debugf("hidden")
	l.Infow("model selected", map[string]any{"winner": "LinearRegression"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "trainer", line["component"])
	assert.Equal(t, "LinearRegression", line["winner"])
	assert.Equal(t, "model selected", line["message"])
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, zerolog.WarnLevel, levelFromEnv())
	t.Setenv("LOG_LEVEL", "bogus")
	assert.Equal(t, zerolog.InfoLevel, levelFromEnv())
}

func TestConfigure(t *testing.T) {
	defer func() { require.NoError(t, Configure("", false)) }()
	assert.Error(t, Configure("loud", false))
	require.NoError(t, Configure("error", false))
	mu.RLock()
	require.NotNil(t, configured)
	assert.Equal(t, zerolog.ErrorLevel, *configured)
	mu.RUnlock()
	assert.NotNil(t, New("configured"))
}
