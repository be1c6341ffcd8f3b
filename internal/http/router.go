package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/jumak-backend/internal/http/handlers"
	httpMW "github.com/yungbote/jumak-backend/internal/http/middleware"
	"github.com/yungbote/jumak-backend/internal/observability"
	"github.com/yungbote/jumak-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	Metrics        *observability.Metrics
	AuthMiddleware *httpMW.AuthMiddleware

	TasteHandler  *httpH.TasteHandler
	ReviewHandler *httpH.ReviewHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	if cfg.Log != nil {
		r.Use(httpMW.RequestLogger(cfg.Log))
	}
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api/taste")
	{
		// Catalog (public)
		if cfg.TasteHandler != nil {
			api.GET("/questions", cfg.TasteHandler.ListQuestions)
			api.GET("/types", cfg.TasteHandler.ListTypes)
			api.GET("/types/:label", cfg.TasteHandler.GetType)
			api.POST("/classify", cfg.TasteHandler.Classify)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Quiz and profile
		if cfg.TasteHandler != nil {
			protected.POST("/quiz", cfg.TasteHandler.SubmitQuiz)
			protected.POST("/retake/preview", cfg.TasteHandler.PreviewRetake)
			protected.POST("/retake", cfg.TasteHandler.CommitRetake)
			protected.GET("/profile", cfg.TasteHandler.GetProfile)
			protected.GET("/profile/card.png", cfg.TasteHandler.GetCard)
		}

		// Review signals
		if cfg.ReviewHandler != nil {
			protected.POST("/reviews", cfg.ReviewHandler.Incorporate)
			protected.DELETE("/reviews/:review_id", cfg.ReviewHandler.Remove)
		}
	}

	return r
}
