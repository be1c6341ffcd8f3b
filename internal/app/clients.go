package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/jumak-backend/internal/observability"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
	"github.com/yungbote/jumak-backend/internal/platform/rediscache"
	"github.com/yungbote/jumak-backend/internal/taste"
)

type Clients struct {
	// Cache is nil when REDIS_ADDR is unset.
	Cache   rediscache.Cache
	Metrics *observability.Metrics
	Catalog *taste.Catalog
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var cache rediscache.Cache
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		c, err := rediscache.New(cfg.Redis, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		cache = c
	} else {
		log.Info("REDIS_ADDR not set; profile cache disabled")
	}

	// Metrics
	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	// Catalog
	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		if cache != nil {
			_ = cache.Close()
		}
		return Clients{}, err
	}

	return Clients{Cache: cache, Metrics: metrics, Catalog: catalog}, nil
}

func loadCatalog(path string) (*taste.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return taste.DefaultCatalog(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taste catalog %s: %w", path, err)
	}
	catalog, err := taste.NewCatalog(raw)
	if err != nil {
		return nil, fmt.Errorf("load taste catalog %s: %w", path, err)
	}
	return catalog, nil
}

func (c Clients) Close() {
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
}
