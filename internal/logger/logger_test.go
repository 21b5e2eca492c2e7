package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"bogus": zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
	} {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	log := NewWithFileConfig("debug", DefaultFileConfig(path), false)
	log.Info("hello from the generator")
	if err := log.Sync(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello from the generator") {
		t.Errorf("log file content %q", data)
	}
}

func TestNoSinksIsNop(t *testing.T) {
	log := NewWithFileConfig("info", FileConfig{}, false)
	// Must not panic or write anywhere.
	log.Warn("dropped")
}
