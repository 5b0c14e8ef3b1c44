package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_ACCESS_SECRET", "access-secret")
	t.Setenv("AUTH_REFRESH_SECRET", "refresh-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != "8080" {
		t.Errorf("default http_port = %q", cfg.Server.HTTPPort)
	}
	if cfg.Auth.AccessTTL != 15*time.Minute {
		t.Errorf("default access_ttl = %v", cfg.Auth.AccessTTL)
	}
	if cfg.Auth.RefreshTTL != 14*24*time.Hour {
		t.Errorf("default refresh_ttl = %v", cfg.Auth.RefreshTTL)
	}
	if cfg.Storage.Driver != "" {
		t.Errorf("default storage.driver = %q", cfg.Storage.Driver)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AUTH_ACCESS_SECRET", "access-secret")
	t.Setenv("AUTH_REFRESH_SECRET", "refresh-secret")
	t.Setenv("SERVER_HTTP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.HTTPPort != "9090" {
		t.Errorf("http_port override = %q", cfg.Server.HTTPPort)
	}
	if cfg.Auth.AccessTTL != 5*time.Minute {
		t.Errorf("access_ttl override = %v", cfg.Auth.AccessTTL)
	}
}

func TestLoadRejectsSharedSecret(t *testing.T) {
	t.Setenv("AUTH_ACCESS_SECRET", "same")
	t.Setenv("AUTH_REFRESH_SECRET", "same")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "must differ") {
		t.Fatalf("expected shared-secret validation failure, got %v", err)
	}
}

func TestLoadRejectsMissingDSN(t *testing.T) {
	t.Setenv("AUTH_ACCESS_SECRET", "access-secret")
	t.Setenv("AUTH_REFRESH_SECRET", "refresh-secret")
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("STORAGE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing DSN to fail validation")
	}
}
