package utils

import (
	"os"
	"strings"
	"testing"
)

func TestLogger_WritesOnlyWhenVerbose(t *testing.T) {
	LogDir = t.TempDir()
	t.Cleanup(CloseLogger)

	InitLogger(false)
	Log("dropped %d", 1)
	if LogPath() != "" {
		t.Fatalf("expected no log file when not verbose")
	}

	InitLogger(true)
	Log("moved task %s", "t1")
	path := LogPath()
	CloseLogger()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "moved task t1") {
		t.Fatalf("expected message in log, got %q", data)
	}
	if strings.Contains(string(data), "dropped") {
		t.Fatalf("expected quiet mode message to be discarded")
	}
}

func TestWarn_WritesWithoutVerbose(t *testing.T) {
	var buf strings.Builder
	prev := WarnOutput
	WarnOutput = &buf
	t.Cleanup(func() { WarnOutput = prev })

	Warn("bad state %q", "default")
	if got := buf.String(); got != "warning: bad state \"default\"\n" {
		t.Fatalf("unexpected warning %q", got)
	}
}
