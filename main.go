package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/config"
	_ "github.com/DhavalSuthar-24/crease/docs"
	"github.com/DhavalSuthar-24/crease/internal/events"
	"github.com/DhavalSuthar-24/crease/internal/live"
	"github.com/DhavalSuthar-24/crease/internal/match"
	"github.com/DhavalSuthar-24/crease/internal/stats"
	"github.com/DhavalSuthar-24/crease/internal/team"
	"github.com/DhavalSuthar-24/crease/internal/user"
	"github.com/DhavalSuthar-24/crease/routes"
)

// @title Crease Live Scoring API
// @version 1.0
// @description Ball-by-ball cricket scoring with live spectator feeds.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		config.Log.Fatal("failed to initialize application", zap.Error(err))
	}
	log := config.Log
	defer log.Sync() //nolint:errcheck

	cfg := config.GetConfig()

	err := config.DB.AutoMigrate(
		&user.User{}, &user.Role{}, &user.UserRole{},
		&team.Team{}, &team.TeamMember{},
		&match.Match{}, &match.MatchTeam{}, &match.MatchPlayer{},
		&match.BallDelivery{}, &match.MatchSnapshot{},
		&stats.PlayerOverallCricketStat{},
	)
	if err != nil {
		log.Fatal("AutoMigrate failed", zap.Error(err))
	}
	if err := user.SeedRoles(config.DB); err != nil {
		log.Fatal("seeding roles failed", zap.Error(err))
	}
	log.Info("AutoMigrate successful")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache live.StateCache = live.NewMemoryStateCache()
	if cfg.Redis.Enabled {
		rc, err := live.NewRedisStateCache(cfg.Redis.URL, cfg.Redis.StateTTL)
		if err != nil {
			log.Fatal("connecting to redis failed", zap.Error(err))
		}
		defer rc.Close()
		cache = rc
		log.Info("live state cached in redis", zap.Duration("ttl", cfg.Redis.StateTTL))
	}

	amqpURL := ""
	if cfg.AMQP.Enabled {
		amqpURL = cfg.AMQP.URL
	}
	broker, err := events.Open(amqpURL, cfg.AMQP.Exchange, log)
	if err != nil {
		log.Fatal("opening event broker failed", zap.Error(err))
	}
	defer broker.Close()

	hub := live.NewHubManager(cache, nil, []string{cfg.App.FrontendURL}, log)
	app := routes.SetupRoutes(config.DB, cfg, hub, broker, log)

	workerDone, err := stats.NewWorker(broker, app.Stats, log).Start(ctx)
	if err != nil {
		log.Fatal("starting stats worker failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           app.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("starting server", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to run server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	<-workerDone
}
