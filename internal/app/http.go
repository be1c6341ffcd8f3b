package app

import (
	"github.com/yungbote/jumak-backend/internal/http"
	httpH "github.com/yungbote/jumak-backend/internal/http/handlers"
	httpMW "github.com/yungbote/jumak-backend/internal/http/middleware"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health *httpH.HealthHandler
	Taste  *httpH.TasteHandler
	Review *httpH.ReviewHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, services.Token)}
}

func wireHandlers(log *logger.Logger, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Taste:  httpH.NewTasteHandler(services.Taste),
		Review: httpH.NewReviewHandler(services.Taste),
	}
}

func wireServer(log *logger.Logger, cfg Config, clients Clients, handlers Handlers, middleware Middleware) *http.Server {
	routerCfg := http.RouterConfig{
		Log:            log,
		CORSOrigins:    cfg.CORSOrigins,
		Metrics:        clients.Metrics,
		AuthMiddleware: middleware.Auth,
		TasteHandler:   handlers.Taste,
		ReviewHandler:  handlers.Review,
		HealthHandler:  handlers.Health,
	}
	if cfg.Otel.Enabled {
		routerCfg.ServiceName = cfg.Otel.ServiceName
	}
	return http.NewServer(routerCfg)
}
