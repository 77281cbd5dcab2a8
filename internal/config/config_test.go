package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()
	if cfg.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want screenshots", cfg.ScreenshotDir)
	}
	if cfg.ExportDir != "exports" {
		t.Errorf("ExportDir = %q, want exports", cfg.ExportDir)
	}
	if cfg.LaunchWait != 30*time.Second {
		t.Errorf("LaunchWait = %s, want 30s", cfg.LaunchWait)
	}
	if cfg.Monitor != "" {
		t.Errorf("Monitor = %q, want empty", cfg.Monitor)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
monitor: 127.0.0.1:9464
screenshot_dir: /tmp/shots
launch_wait: 5s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Monitor != "127.0.0.1:9464" {
		t.Errorf("Monitor = %q", cfg.Monitor)
	}
	if cfg.ScreenshotDir != "/tmp/shots" {
		t.Errorf("ScreenshotDir = %q", cfg.ScreenshotDir)
	}
	if cfg.LaunchWait != 5*time.Second {
		t.Errorf("LaunchWait = %s, want 5s", cfg.LaunchWait)
	}
	// Unset fields keep their defaults.
	if cfg.ExportDir != "exports" {
		t.Errorf("ExportDir = %q, want exports", cfg.ExportDir)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("SAPMCP_TEST_SHOTS", "/data/captures")

	path := writeConfig(t, `
screenshot_dir: ${SAPMCP_TEST_SHOTS}
export_dir: ${SAPMCP_TEST_UNSET_VALUE:-/data/exports}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ScreenshotDir != "/data/captures" {
		t.Errorf("ScreenshotDir = %q, want /data/captures", cfg.ScreenshotDir)
	}
	if cfg.ExportDir != "/data/exports" {
		t.Errorf("ExportDir = %q, want /data/exports", cfg.ExportDir)
	}
}

func TestLoadUnresolvedVariable(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "export_dir: ${SAPMCP_TEST_DEFINITELY_UNSET}\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() succeeded with unresolved variable")
	}
	if !strings.Contains(err.Error(), "SAPMCP_TEST_DEFINITELY_UNSET") {
		t.Errorf("error %q does not name the unresolved variable", err)
	}
}

func TestLoadBadDuration(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "launch_wait: soon\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() accepted a bad duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("Load() succeeded on a missing file")
	}
}
