package logging

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Kamrul101/donate-red-server/internal/platform/timeutil"
)

// captureLogOutput captures the log lines emitted by logFn.
func captureLogOutput(t *testing.T, logFn func(*zap.Logger)) []map[string]any {
	t.Helper()

	resetLoggerForTest()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer func() { _ = r.Close() }()

	origStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	logger := Logger()
	logFn(logger)
	_ = logger.Sync()

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close writer: %v", closeErr)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read log output: %v", err)
	}

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			t.Fatalf("failed to unmarshal log JSON %q: %v", line, err)
		}
		entries = append(entries, payload)
	}
	return entries
}

// captureOne captures exactly one log entry.
func captureOne(t *testing.T, logFn func(*zap.Logger)) map[string]any {
	t.Helper()
	entries := captureLogOutput(t, logFn)
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	return entries[0]
}

// resetLoggerForTest clears the singleton state so tests can capture fresh log output.
func resetLoggerForTest() {
	loggerOnce = sync.Once{}
	baseLogger = nil
	loggerErr = nil
	level.SetLevel(zapcore.InfoLevel)
}

func TestLoggerStructuredOutput(t *testing.T) {
	payload := captureOne(t, func(l *zap.Logger) {
		l.Info("GET /users")
	})

	if got := payload["severity"]; got != "INFO" {
		t.Fatalf("expected severity INFO, got %v", got)
	}
	if _, exists := payload["level"]; exists {
		t.Fatal("did not expect level field")
	}
	if msg := payload["message"]; msg != "GET /users" {
		t.Fatalf("expected message 'GET /users', got %v", msg)
	}
	ts, ok := payload["timestamp"].(string)
	if !ok {
		t.Fatalf("expected timestamp string, got %T", payload["timestamp"])
	}
	if _, err := time.Parse(timeutil.RFC3339Micros, ts); err != nil {
		t.Fatalf("timestamp is not RFC3339Micros: %v", err)
	}
}

func TestEncodeSeverityMapping(t *testing.T) {
	tests := []struct {
		level    zapcore.Level
		expected string
	}{
		{zapcore.DebugLevel, "DEBUG"},
		{zapcore.InfoLevel, "INFO"},
		{zapcore.WarnLevel, "WARNING"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.DPanicLevel, "CRITICAL"},
		{zapcore.PanicLevel, "ALERT"},
		{zapcore.FatalLevel, "EMERGENCY"},
		{zapcore.Level(99), "DEFAULT"},
	}

	for _, tt := range tests {
		enc := &captureArrayEncoder{}
		encodeSeverity(tt.level, enc)
		if len(enc.values) != 1 || enc.values[0] != tt.expected {
			t.Fatalf("encodeSeverity(%v) = %v, want %s", tt.level, enc.values, tt.expected)
		}
	}
}

func TestDebugSuppressedByDefault(t *testing.T) {
	entries := captureLogOutput(t, func(l *zap.Logger) {
		l.Debug("hidden")
		l.Info("visible")
	})
	if len(entries) != 1 || entries[0]["message"] != "visible" {
		t.Fatalf("expected only the info entry, got %v", entries)
	}
}

func TestSetLevelEnablesDebug(t *testing.T) {
	entries := captureLogOutput(t, func(l *zap.Logger) {
		if !SetLevel("DEBUG") {
			t.Fatal("expected DEBUG to be accepted")
		}
		l.Debug("now visible")
	})
	if len(entries) != 1 || entries[0]["severity"] != "DEBUG" {
		t.Fatalf("expected one DEBUG entry, got %v", entries)
	}
	resetLoggerForTest()
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	resetLoggerForTest()
	if SetLevel("loud") {
		t.Fatal("expected unknown level to be rejected")
	}
	if level.Level() != zapcore.InfoLevel {
		t.Fatalf("expected level to stay INFO, got %v", level.Level())
	}
}

func TestLoggerSingletonBehavior(t *testing.T) {
	resetLoggerForTest()

	if Logger() != Logger() {
		t.Fatal("expected Logger() to return the same instance")
	}
	if err := Err(); err != nil {
		t.Fatalf("expected nil init error, got %v", err)
	}
}

type captureArrayEncoder struct {
	values []string
}

func (c *captureArrayEncoder) AppendBool(bool)              {}
func (c *captureArrayEncoder) AppendByteString([]byte)      {}
func (c *captureArrayEncoder) AppendComplex128(complex128)  {}
func (c *captureArrayEncoder) AppendComplex64(complex64)    {}
func (c *captureArrayEncoder) AppendFloat64(float64)        {}
func (c *captureArrayEncoder) AppendFloat32(float32)        {}
func (c *captureArrayEncoder) AppendInt(int)                {}
func (c *captureArrayEncoder) AppendInt64(int64)            {}
func (c *captureArrayEncoder) AppendInt32(int32)            {}
func (c *captureArrayEncoder) AppendInt16(int16)            {}
func (c *captureArrayEncoder) AppendInt8(int8)              {}
func (c *captureArrayEncoder) AppendString(v string)        { c.values = append(c.values, v) }
func (c *captureArrayEncoder) AppendUint(uint)              {}
func (c *captureArrayEncoder) AppendUint64(uint64)          {}
func (c *captureArrayEncoder) AppendUint32(uint32)          {}
func (c *captureArrayEncoder) AppendUint16(uint16)          {}
func (c *captureArrayEncoder) AppendUint8(uint8)            {}
func (c *captureArrayEncoder) AppendUintptr(uintptr)        {}
