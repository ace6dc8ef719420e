package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crease/config"
	"github.com/DhavalSuthar-24/crease/internal/auth"
	"github.com/DhavalSuthar-24/crease/internal/events"
	"github.com/DhavalSuthar-24/crease/internal/live"
	"github.com/DhavalSuthar-24/crease/internal/match"
	"github.com/DhavalSuthar-24/crease/internal/stats"
	"github.com/DhavalSuthar-24/crease/internal/team"
)

// App is the assembled HTTP surface plus the services main needs to run
// background work.
type App struct {
	Engine  *gin.Engine
	Scoring *match.ScoringService
	Stats   *stats.Service
}

func SetupRoutes(db *gorm.DB, cfg *config.Config, hub *live.HubManager, broker events.Broker, log *zap.Logger) *App {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "crease", "docs": "/swagger/index.html"})
	})
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Spectators
	live.RegisterRoutes(r, hub)

	// API routes
	api := r.Group("/api")
	secret := cfg.JWT.AccessTokenSecret
	authRepo := auth.RegisterAuthRoutes(api, db, cfg, log)
	teamRepo := team.TeamRoutes(api, db, secret, log)

	matchRepo := match.NewGormMatchRepository(db)
	scoringSvc := match.NewScoringService(matchRepo, teamRepo, cfg.DefaultFormat(), hub, broker, log)
	hub.SetSource(scoringSvc)
	match.MatchRoutes(api, db, secret, authRepo, scoringSvc, log)

	statsSvc := stats.NewService(matchRepo, stats.NewGormStatsRepository(db), log)
	stats.CareerRoutes(api, db, secret, authRepo, statsSvc, log)

	return &App{Engine: r, Scoring: scoringSvc, Stats: statsSvc}
}
