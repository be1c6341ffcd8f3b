package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("PROFILE_CACHE_TTL_SECONDS", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("METRICS_ENABLED", "true")

	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "9090" || cfg.JWTSecretKey != "s3cret" || cfg.Redis.Addr != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.ProfileCacheTTL != 30*time.Second {
		t.Fatalf("ttl=%v", cfg.ProfileCacheTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins=%v", cfg.CORSOrigins)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("metrics not enabled")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("REDIS_ADDR", "")
	cfg := LoadConfig(logger.Nop())
	if cfg.Port != "8080" || cfg.JWTSecretKey != "defaultsecret" || cfg.Redis.Addr != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadCatalog(t *testing.T) {
	c, err := loadCatalog("")
	if err != nil || c == nil {
		t.Fatalf("embedded catalog: %v", err)
	}

	if _, err := loadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("questions: [}"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadCatalog(bad); err == nil {
		t.Fatalf("expected error for malformed catalog")
	}
}

func TestWireClientsWithoutRedis(t *testing.T) {
	clients, err := wireClients(logger.Nop(), Config{})
	if err != nil {
		t.Fatalf("wireClients: %v", err)
	}
	if clients.Cache != nil || clients.Metrics != nil || clients.Catalog == nil {
		t.Fatalf("unexpected clients: %+v", clients)
	}
}
