package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Store.Driver != DriverSQLite || c.Store.DSN != "brewery.db" {
		t.Fatalf("store = %+v", c.Store)
	}
	if c.HTTP.Addr != ":8080" || !c.Metrics.Enabled {
		t.Fatalf("http/metrics = %+v %+v", c.HTTP, c.Metrics)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brew.yaml")
	data := []byte("app:\n  env: dev\nstore:\n  driver: memory\nhttp:\n  addr: 127.0.0.1:9000\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BREW_HTTP_ADDR", ":9999")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.App.Env != "dev" || c.Store.Driver != DriverMemory {
		t.Fatalf("config = %+v", c)
	}
	if c.HTTP.Addr != ":9999" {
		t.Fatalf("http.addr = %q, env override not applied", c.HTTP.Addr)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("BREW_STORE_DRIVER", "mongo")
	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
