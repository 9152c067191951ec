package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ifbridge.conf")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeTempConfig(t, `
[engine]
verbose = true

[api]
listen = "0.0.0.0:9000"

[tools]
ip = "/usr/sbin/ip"
networkd_dir = "/run/systemd/network"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.Engine.Verbose {
		t.Errorf("verbose not loaded")
	}
	if cfg.API.Listen != "0.0.0.0:9000" {
		t.Errorf("listen = %q", cfg.API.Listen)
	}

	opts := cfg.PlatformOptions()
	if opts.IPPath != "/usr/sbin/ip" || opts.NetworkdDir != "/run/systemd/network" {
		t.Errorf("platform options = %+v", opts)
	}
	// Unset tools stay empty here; the platform layer applies defaults.
	if opts.NmcliPath != "" {
		t.Errorf("nmcli should be unset, got %q", opts.NmcliPath)
	}
}

func TestLoadConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeTempConfig(t, "[engine]\nverbose = false\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.Listen != Default().API.Listen {
		t.Errorf("listen should fall back to default, got %q", cfg.API.Listen)
	}
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	path := writeTempConfig(t, "[engine\nverbose = maybe")

	if _, err := LoadConfig(path); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.API.Listen == "" {
		t.Errorf("defaults should include a listen address")
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.ValidateConfig(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}

	cfg.API.Listen = "not a hostport"
	err := cfg.ValidateConfig()
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(err.Error(), "listen") {
		t.Errorf("error should name the toml key: %v", err)
	}
}
