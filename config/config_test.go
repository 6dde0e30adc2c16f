package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mqttsn-go/gateway"
)

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadGateway_Defaults(t *testing.T) {
	path := writeTemp(t, "gateway.yaml", "gw_id: 1\n")
	cfg, err := LoadGateway(path)
	if err != nil {
		t.Fatalf("LoadGateway: %v", err)
	}
	if cfg.Bind != ":1883" {
		t.Errorf("Bind = %q, want default", cfg.Bind)
	}
	if cfg.Timers.MaxRetries != mqttsn.NRetry {
		t.Errorf("MaxRetries = %d, want default %d", cfg.Timers.MaxRetries, mqttsn.NRetry)
	}
	if cfg.RetryInterval() != mqttsn.TRetry {
		t.Errorf("RetryInterval() = %v, want default %v", cfg.RetryInterval(), mqttsn.TRetry)
	}
	if cfg.DefaultKeepAlive() != mqttsn.DefaultKeepAlive {
		t.Errorf("DefaultKeepAlive() = %v, want default %v", cfg.DefaultKeepAlive(), mqttsn.DefaultKeepAlive)
	}
}

func TestLoadGateway_Overrides(t *testing.T) {
	path := writeTemp(t, "gateway.yaml", `
gw_id: 2
bind: ":2000"
timers:
  retry_secs: 10
  keepalive_secs: 60
`)
	cfg, err := LoadGateway(path)
	if err != nil {
		t.Fatalf("LoadGateway: %v", err)
	}
	if cfg.Bind != ":2000" {
		t.Errorf("Bind = %q, want :2000", cfg.Bind)
	}
	if cfg.RetryInterval() != 10*time.Second {
		t.Errorf("RetryInterval() = %v, want 10s", cfg.RetryInterval())
	}
	if cfg.DefaultKeepAlive() != 60*time.Second {
		t.Errorf("DefaultKeepAlive() = %v, want 60s", cfg.DefaultKeepAlive())
	}
}

func TestLoadGateway_MissingFile(t *testing.T) {
	if _, err := LoadGateway(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadClient_Defaults(t *testing.T) {
	path := writeTemp(t, "client.yaml", "gateway: \"127.0.0.1:1883\"\n")
	cfg, err := LoadClient(path)
	if err != nil {
		t.Fatalf("LoadClient: %v", err)
	}
	if cfg.Gateway != "127.0.0.1:1883" {
		t.Errorf("Gateway = %q, want 127.0.0.1:1883", cfg.Gateway)
	}
	if cfg.Keepalive != int(mqttsn.DefaultKeepAlive/time.Second) {
		t.Errorf("Keepalive = %d, want default", cfg.Keepalive)
	}
}
