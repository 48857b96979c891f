package logx

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func newCaptureLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{
		component: component,
		logger:    log.New(&buf, "", 0),
	}, &buf
}

func TestInfoIncludesComponentAndLevel(t *testing.T) {
	logger, buf := newCaptureLogger("pipeline")

	logger.Info("processing message %s", "m1")

	out := buf.String()
	if !strings.Contains(out, "[INFO]") {
		t.Errorf("expected INFO level in output, got %q", out)
	}
	if !strings.Contains(out, "pipeline:") {
		t.Errorf("expected component tag in output, got %q", out)
	}
	if !strings.Contains(out, "processing message m1") {
		t.Errorf("expected formatted message in output, got %q", out)
	}
}

func TestWarnAndErrorLevels(t *testing.T) {
	logger, buf := newCaptureLogger("kaiten")

	logger.Warn("slow response")
	logger.Error("request failed: %v", "timeout")

	out := buf.String()
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "[ERROR]") {
		t.Errorf("expected WARN and ERROR lines, got %q", out)
	}
}

func TestDebugSuppressedByDefault(t *testing.T) {
	logger, buf := newCaptureLogger("triage")

	// DEBUG is not set in the test environment.
	debugOnce.Do(func() {})
	if debugEnabled {
		t.Skip("DEBUG enabled in environment")
	}

	logger.Debug("noisy detail")
	if buf.Len() != 0 {
		t.Errorf("expected no debug output, got %q", buf.String())
	}
}
