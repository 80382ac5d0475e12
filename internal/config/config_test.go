package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regforms.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: 127.0.0.1:9090
  session_ttl: 5m
log:
  level: debug
  development: true
forms:
  default: form-two
  presets: presets.yaml
  document: forms.json
  templates: ./templates
  messages:
    invalid_email: Bad email
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := Default()
	want.Server.Addr = "127.0.0.1:9090"
	want.Server.SessionTTL = 5 * time.Minute
	want.Log = Log{Level: "debug", Development: true}
	want.Forms.Default = "form-two"
	want.Forms.Presets = "presets.yaml"
	want.Forms.Document = "forms.json"
	want.Forms.Templates = "./templates"
	want.Forms.Messages.InvalidEmail = "Bad email"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: :9000\n")
	t.Setenv("REGFORMS_ADDR", ":7000")
	t.Setenv("REGFORMS_SHUTDOWN_GRACE", "3s")
	t.Setenv("REGFORMS_LOG_DEVELOPMENT", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":7000" {
		t.Fatalf("expected env addr, got %q", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownGrace != 3*time.Second {
		t.Fatalf("expected env grace, got %v", cfg.Server.ShutdownGrace)
	}
	if !cfg.Log.Development {
		t.Fatalf("expected development logging from env")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "serverr:\n  addr: x\n")); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := Load(writeConfig(t, "forms:\n  default: contact\n")); err == nil || !strings.Contains(err.Error(), "forms.default") {
		t.Fatalf("expected unknown form error, got %v", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = " "
	cfg.Server.SessionTTL = 0
	cfg.Server.ShutdownGrace = -time.Second

	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, fragment := range []string{"server.addr", "server.session_ttl", "server.shutdown_grace"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %v", fragment, err)
		}
	}
}
