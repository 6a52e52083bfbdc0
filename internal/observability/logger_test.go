// internal/observability/logger_test.go
package observability

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/docpilot/docpilot/internal/config"
)

// memSink is a minimal WriteSyncer capturing log output in memory.
type memSink struct {
	strings.Builder
}

func (m *memSink) Sync() error { return nil }

func TestInitialize_JSONFormat(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink := &memSink{}
	Initialize(config.LoggerConfig{Level: "debug", Format: "json", ServiceName: "docpilot-test"}, zapcore.AddSync(sink))

	GetLogger().Info("hello", zap.String("k", "v"))

	line := strings.TrimSpace(sink.String())
	require.NotEmpty(t, line)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "v", entry["k"])
	assert.Equal(t, "docpilot-test", entry["logger"])
}

func TestInitialize_ConsoleFormatColorizesLevel(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink := &memSink{}
	Initialize(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "docpilot-test"}, zapcore.AddSync(sink))

	GetLogger().Warn("drift detected")

	out := sink.String()
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "\x1b[33m", "warn level should be yellow")
	assert.Contains(t, out, "drift detected")
}

func TestInitialize_RespectsLevel(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	sink := &memSink{}
	Initialize(config.LoggerConfig{Level: "warn", Format: "json", ServiceName: "docpilot-test"}, zapcore.AddSync(sink))

	GetLogger().Info("suppressed")
	assert.Empty(t, strings.TrimSpace(sink.String()))

	GetLogger().Error("kept")
	assert.Contains(t, sink.String(), "kept")
}

func TestInitialize_OnlyOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	first := &memSink{}
	second := &memSink{}
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "first"}, zapcore.AddSync(first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "second"}, zapcore.AddSync(second))

	GetLogger().Info("routed")
	assert.Contains(t, first.String(), "routed")
	assert.Empty(t, second.String())
}

func TestGetLogger_FallbackBeforeInit(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	logger := GetLogger()
	require.NotNil(t, logger)
}
