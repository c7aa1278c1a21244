package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	return line
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LogOptions{
		Output:      buf,
		Level:       slog.LevelInfo,
		ServiceName: "securelogin",
		MaskFields:  []string{" Password ", "salt", ""},
	})

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "hashing",
		"password", "hunter22",
		slog.Group("demo", "salt", "passhash", "length", 8),
		"payload", map[string]any{"Password": "x", "nested": []any{map[string]any{"salt": "y"}}},
		"headers", map[string]string{"salt": "z", "accept": "*/*"},
	)

	line := decodeLine(t, buf)
	assert.Equal(t, "hashing", line["msg"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "ts")
	assert.Equal(t, "cid-1", line["_cID"])
	assert.Equal(t, "securelogin", line["service"])
	assert.Equal(t, "***", line["password"])
	assert.Equal(t, map[string]any{"salt": "***", "length": float64(8)}, line["demo"])
	assert.Equal(t, map[string]any{
		"Password": "***",
		"nested":   []any{map[string]any{"salt": "***"}},
	}, line["payload"])
	assert.Equal(t, map[string]any{"salt": "***", "accept": "*/*"}, line["headers"])
}

func TestNewLogger_LevelAndAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewLogger(LogOptions{Output: buf, Level: slog.LevelInfo, MaskFields: []string{"salt"}})

	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	logger.With("salt", "s").WithGroup("g").Warn("shown", "k", "v")
	line := decodeLine(t, buf)
	assert.Equal(t, "WARN", line["severity"])
	assert.Equal(t, "***", line["salt"])
	assert.Equal(t, map[string]any{"k": "v"}, line["g"])
	assert.NotContains(t, line, "_cID")
	assert.NotContains(t, line, "service")
}

func TestCorrelationID(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
	assert.Equal(t, "abc", GetCorrelationID(SetCorrelationID(context.Background(), "abc")))
}

func TestNew_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	ins, err := New(context.Background(), &Config{ServiceName: "svc", Debug: true, LogOutput: buf})
	require.NoError(t, err)

	slog.Debug("debug enabled")
	line := decodeLine(t, buf)
	assert.Equal(t, "DEBUG", line["severity"])
	assert.Equal(t, "svc", line["service"])

	_, span := ins.Tracer("test").Start(context.Background(), "span")
	span.End()
	assert.NoError(t, ins.Shutdown(context.Background()))
}
