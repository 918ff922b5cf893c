package logger

import (
	"bytes"
	"os"
	"testing"
)

func capture(t *testing.T, verboseOn bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseOn)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	capture(t, false)
	if IsVerbose() {
		t.Error("expected verbose to be false")
	}
	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}
}

func TestVerboseOutput(t *testing.T) {
	buf := capture(t, true)

	Section("Classify")
	Debug("family=%s", "algebra")
	Info("saved %d entries", 2)

	want := "\n=== Classify ===\n[DEBUG] family=algebra\n[INFO] saved 2 entries\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestQuietOutput(t *testing.T) {
	buf := capture(t, false)

	Section("Classify")
	Debug("hidden")
	Info("hidden")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestWarnAlwaysPrints(t *testing.T) {
	for _, v := range []bool{false, true} {
		buf := capture(t, v)
		Warn("low OCR confidence %.2f", 0.41)
		if got := buf.String(); got != "warning: low OCR confidence 0.41\n" {
			t.Errorf("verbose=%v: output = %q", v, got)
		}
	}
}
