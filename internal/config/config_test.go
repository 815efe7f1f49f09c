package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_YAMLThenEnvOverlay(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9000"
  cors_origins: ["https://a.example"]
jwt:
  secret: from-yaml
storage:
  signing_secret: sign
auth:
  admin_emails: ["root@college.edu"]
`)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("AUTH_ADMIN_EMAILS", " Dean@College.edu , tpo@college.edu ,")
	t.Setenv("WEBHOOK_RATE_PER_SECOND", "2.5")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("jwt secret = %q, want env override", cfg.JWT.Secret)
	}
	if len(cfg.Auth.AdminEmails) != 2 {
		t.Fatalf("admin emails = %v", cfg.Auth.AdminEmails)
	}
	if !cfg.IsAdminEmail("dean@college.edu") || cfg.IsAdminEmail("root@college.edu") {
		t.Errorf("allow-list = %v", cfg.Auth.AdminEmails)
	}
	if cfg.Webhook.RatePerSecond != 2.5 {
		t.Errorf("rate = %v", cfg.Webhook.RatePerSecond)
	}
	if cfg.Database.DBName != "placementprep" {
		t.Errorf("default db name lost: %q", cfg.Database.DBName)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing jwt secret", "storage:\n  signing_secret: s\n"},
		{"missing signing secret", "jwt:\n  secret: s\n"},
		{"bad duration", "jwt:\n  secret: s\nstorage:\n  signing_secret: s\nwebhook:\n  timeout: soon\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			os.Unsetenv("JWT_SECRET")
			if _, err := LoadConfig(writeConfig(t, tc.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSetFieldFromEnv_Unsupported(t *testing.T) {
	var target struct {
		Ports []int `env:"TEST_PORTS"`
	}
	t.Setenv("TEST_PORTS", "1,2")
	if err := processStructFields(&target); err == nil {
		t.Error("expected error for []int field")
	}
}
