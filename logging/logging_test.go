package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"readinghall-dashboard/config"
)

func TestNew_WritesToConfiguredFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dashboard.log")
	cfg := &config.Config{AppEnv: config.EnvProduction, LogLevel: "warn", LogFile: path}

	logger, err := New(cfg, true)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	logger.Info("hidden")
	logger.Warn("refresh failed")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file, got %v", err)
	}
	content := string(data)
	if strings.Contains(content, "hidden") {
		t.Fatalf("expected info to be filtered at warn level: %s", content)
	}
	if !strings.Contains(content, `"msg":"refresh failed"`) || !strings.Contains(content, `"env":"production"`) {
		t.Fatalf("expected JSON warn entry, got %s", content)
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(&config.Config{LogLevel: "loud"}, false); err == nil {
		t.Fatal("expected error")
	}
}
