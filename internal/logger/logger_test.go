package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathEnv(t *testing.T) {
	t.Setenv("NOTEMAP_LOG_FILE", "/tmp/custom.log")
	if p, _ := Path(); p != "/tmp/custom.log" {
		t.Fatalf("Path = %q, want %q", p, "/tmp/custom.log")
	}

	t.Setenv("NOTEMAP_LOG_FILE", "")
	t.Setenv("NOTEMAP_CONFIG_HOME", "/tmp/nm")
	if p, _ := Path(); p != "/tmp/nm/notemap.log" {
		t.Fatalf("Path = %q, want %q", p, "/tmp/nm/notemap.log")
	}

	t.Setenv("NOTEMAP_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if p, _ := Path(); p != "/tmp/xdg/notemap/notemap.log" {
		t.Fatalf("Path = %q, want %q", p, "/tmp/xdg/notemap/notemap.log")
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "notemap.log")
	t.Setenv("NOTEMAP_LOG_FILE", path)

	if err := Init(true); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	Debug("section added", "index", 3)
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "logger initialized") || !strings.Contains(out, "section added") {
		t.Fatalf("log = %q", out)
	}
	L, S = nil, nil
}

func TestWrappersBeforeInit(t *testing.T) {
	L, S = nil, nil
	Info("ignored")
	Error("ignored", "err", "x")
}
