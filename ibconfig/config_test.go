package ibconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := "host: 192.168.1.5\nport: 7497\nbuffer_size: 4096\ntimeout: 60s\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("IBTWS_HOST", "10.0.0.1")
	t.Setenv("IBTWS_PORT", "4002")
	t.Setenv("IBTWS_CLIENT_ID", "9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Host != "10.0.0.1" {
		t.Errorf("Host = %q, want env override", cfg.Host)
	}
	if cfg.Port != 4002 {
		t.Errorf("Port = %d, want env override", cfg.Port)
	}
	if cfg.ClientID != 9 {
		t.Errorf("ClientID = %d, want env override", cfg.ClientID)
	}
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Default()
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil, want error for out-of-range port")
	}
}
