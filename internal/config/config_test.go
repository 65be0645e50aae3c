package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("FOCUSFLOW_CONFIG_PATH", dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageBackend != BackendSQLite || cfg.StoragePath != "focusflow.db" {
		t.Fatalf("unexpected storage defaults: %+v", cfg)
	}
	if cfg.UndoWindow != DefaultUndoWindow {
		t.Fatalf("undo window = %v", cfg.UndoWindow)
	}
	if cfg.DigestInterval != 0 {
		t.Fatalf("digest interval = %v", cfg.DigestInterval)
	}
	if err := cfg.RequireTelegram(); err == nil {
		t.Fatal("expected missing token error")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("FOCUSFLOW_STORAGE_BACKEND", "diskv")
	t.Setenv("FOCUSFLOW_TELEGRAM_TOKEN", "abc")
	t.Setenv("FOCUSFLOW_TELEGRAM_CHAT_ID", "42")
	t.Setenv("FOCUSFLOW_DIGEST_INTERVAL_HOURS", "6")
	t.Setenv("FOCUSFLOW_UNDO_WINDOW", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageBackend != BackendDiskv || cfg.StoragePath != "focusflow.d" {
		t.Fatalf("unexpected storage: %+v", cfg)
	}
	if cfg.TelegramChatID != 42 || cfg.RequireTelegram() != nil {
		t.Fatalf("unexpected telegram settings: %+v", cfg)
	}
	if cfg.DigestInterval != 6*time.Hour {
		t.Fatalf("digest interval = %v", cfg.DigestInterval)
	}
	if cfg.UndoWindow != 2*time.Second {
		t.Fatalf("undo window = %v", cfg.UndoWindow)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	data := []byte("storage:\n  backend: memory\ndigest:\n  time: \"08:30\"\n")
	if err := os.WriteFile(filepath.Join(dir, ".focusflow.yaml"), data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageBackend != BackendMemory || cfg.DigestTime != "08:30" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	isolate(t)
	t.Setenv("FOCUSFLOW_STORAGE_BACKEND", "postgres")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestParseInterval(t *testing.T) {
	cases := map[string]time.Duration{"": 0, "5": 5 * time.Hour, "-1": 0, "x": 0}
	for raw, want := range cases {
		if got := parseInterval(raw); got != want {
			t.Errorf("parseInterval(%q) = %v, want %v", raw, got, want)
		}
	}
}
