package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"go.trai.ch/memo/internal/adapters/logger"
	"go.trai.ch/memo/internal/core/ports"
	"go.trai.ch/zerr"
)

func TestNew_ReturnsPort(t *testing.T) {
	var lg ports.Logger = logger.New()
	if lg == nil {
		t.Fatal("Expected New() to return a non-nil logger")
	}
	var dbg ports.Logger = logger.NewDebug()
	if dbg == nil {
		t.Fatal("Expected NewDebug() to return a non-nil logger")
	}
}

func TestLogger_Info(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(&buf)

	lg.Info("cache hit", "key", "abc123")

	out := buf.String()
	if !strings.Contains(out, "cache hit") {
		t.Errorf("Expected output to contain 'cache hit', got: %s", out)
	}
	if !strings.Contains(out, "INFO") {
		t.Errorf("Expected output to contain 'INFO', got: %s", out)
	}
	if !strings.Contains(out, "abc123") {
		t.Errorf("Expected output to contain the key attribute, got: %s", out)
	}
}

func TestLogger_Error(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(&buf)

	lg.Error(zerr.New("store unavailable"))

	out := buf.String()
	if !strings.Contains(out, "store unavailable") {
		t.Errorf("Expected output to contain the error, got: %s", out)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("Expected output to contain 'ERROR', got: %s", out)
	}
}

func TestLogger_DebugSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(&buf)

	lg.Debug("key built", "key", "abc")

	// SetOutput switches to debug level, so this should appear.
	if !strings.Contains(buf.String(), "key built") {
		t.Errorf("Expected debug output after SetOutput, got: %s", buf.String())
	}
}
