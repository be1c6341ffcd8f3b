package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/jumak-backend/internal/data/aggregates"
	"github.com/yungbote/jumak-backend/internal/data/repos"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
	"github.com/yungbote/jumak-backend/internal/services"
)

type Services struct {
	Taste services.TasteService
	Token services.TokenVerifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repoSet repos.Set, clients Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Taste: services.NewTasteService(
			log,
			clients.Catalog,
			repoSet,
			aggregates.NewGormTxRunner(db),
			clients.Cache,
			services.TasteServiceConfig{
				ProfileCacheTTL: cfg.ProfileCacheTTL,
				ImageBaseURL:    cfg.ImageBaseURL,
				CardFontPath:    cfg.CardFontPath,
				Metrics:         clients.Metrics,
			},
		),
		Token: services.NewTokenVerifier(log, cfg.JWTSecretKey),
	}
}
