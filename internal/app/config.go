package app

import (
	"strings"
	"time"

	"github.com/yungbote/jumak-backend/internal/data/db"
	"github.com/yungbote/jumak-backend/internal/observability"
	"github.com/yungbote/jumak-backend/internal/platform/envutil"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
	"github.com/yungbote/jumak-backend/internal/platform/rediscache"
)

const serviceName = "jumak-taste"

type Config struct {
	Port         string
	Environment  string
	Version      string
	JWTSecretKey string

	Postgres db.PostgresConfig
	Redis    rediscache.Config
	Otel     observability.OtelConfig

	MetricsEnabled  bool
	CORSOrigins     []string
	ProfileCacheTTL time.Duration
	ImageBaseURL    string
	CardFontPath    string
	// CatalogPath optionally replaces the embedded taste catalog.
	CatalogPath     string
	ShutdownTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	env := envutil.String("APP_ENV", "development")
	version := envutil.String("APP_VERSION", "dev")
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", "")
	if jwtSecretKey == "" {
		jwtSecretKey = "defaultsecret"
		log.Warn("JWT_SECRET_KEY not set; using insecure default")
	}
	return Config{
		Port:         envutil.String("PORT", "8080"),
		Environment:  env,
		Version:      version,
		JWTSecretKey: jwtSecretKey,
		Postgres:     db.PostgresConfigFromEnv(),
		Redis: rediscache.Config{
			Addr:      envutil.String("REDIS_ADDR", ""),
			Password:  envutil.String("REDIS_PASSWORD", ""),
			DB:        envutil.Int("REDIS_DB", 0),
			KeyPrefix: envutil.String("REDIS_KEY_PREFIX", "jumak:"),
		},
		Otel:            observability.OtelConfigFromEnv(serviceName, env, version),
		MetricsEnabled:  envutil.Bool("METRICS_ENABLED", false),
		CORSOrigins:     splitList(envutil.String("CORS_ALLOWED_ORIGINS", "")),
		ProfileCacheTTL: envutil.Seconds("PROFILE_CACHE_TTL_SECONDS", 10*time.Minute),
		ImageBaseURL:    envutil.String("TASTE_IMAGE_BASE_URL", ""),
		CardFontPath:    envutil.String("TASTE_CARD_FONT", ""),
		CatalogPath:     envutil.String("TASTE_CATALOG_PATH", ""),
		ShutdownTimeout: envutil.Seconds("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
