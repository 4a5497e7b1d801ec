package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if os.Getenv("LOOKOUT_RUNTIME_URL") == "" && cfg.RuntimeURL != "http://127.0.0.1:7878" {
		t.Errorf("unexpected default runtime url: %s", cfg.RuntimeURL)
	}
	if cfg.Health.IntervalSeconds != 10 {
		t.Errorf("unexpected default health interval: %d", cfg.Health.IntervalSeconds)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to %s: %v", path, err)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	t.Setenv("LOOKOUT_RUNTIME_URL", "http://127.0.0.1:9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RuntimeURL != "http://127.0.0.1:9999" {
		t.Errorf("env override not applied: %s", cfg.RuntimeURL)
	}
}

func TestSetGetValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if _, err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := SetValue(path, "ui.last_section", "automations"); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, err := GetValue(path, "ui.last_section")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if val != "automations" {
		t.Errorf("expected automations, got %v", val)
	}

	if err := SetValue(path, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestSetValueCoercesNumbers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if _, err := Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := SetValue(path, "health.interval_seconds", "30"); err != nil {
		t.Fatalf("set: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Health.IntervalSeconds != 30 {
		t.Errorf("expected 30, got %d", cfg.Health.IntervalSeconds)
	}
}

func TestMaskSecrets(t *testing.T) {
	flat := map[string]any{
		"notify.telegram_token": "1234567890:secret",
		"runtime_url":           "http://127.0.0.1:7878",
	}
	masked := MaskSecrets(flat)
	if masked["notify.telegram_token"] != "***cret" {
		t.Errorf("token not masked: %v", masked["notify.telegram_token"])
	}
	if masked["runtime_url"] != flat["runtime_url"] {
		t.Error("non-secret value should be untouched")
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	nested := map[string]any{
		"ui": map[string]any{"last_section": "threads"},
	}
	flat := Flatten(nested)
	if flat["ui.last_section"] != "threads" {
		t.Fatalf("flatten: %v", flat)
	}
	back := Unflatten(flat)
	inner, ok := back["ui"].(map[string]any)
	if !ok || inner["last_section"] != "threads" {
		t.Errorf("unflatten: %v", back)
	}
}
