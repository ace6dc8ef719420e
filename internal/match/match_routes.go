package match

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/pkg/rmiddleware"
)

// MatchRoutes sets up all match-related routes. Reads are public; scoring
// requires the scorer or admin role.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string, roles rmiddleware.RoleLookup, svc *ScoringService, log *zap.Logger) {
	matchController := NewMatchController(svc, log)

	router.GET("/matches", matchController.GetMatches)
	router.GET("/matches/:id", matchController.GetMatchByID)
	router.GET("/matches/:id/state", matchController.GetState)
	router.GET("/matches/:id/balls", matchController.GetBalls)
	router.GET("/matches/:id/scorecard", matchController.GetScorecard)

	scorerRoutes := router.Group("/matches")
	scorerRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	scorerRoutes.Use(rmiddleware.ScorerMiddleware(roles))
	{
		scorerRoutes.POST("", matchController.CreateMatch)
		scorerRoutes.POST("/:id/innings", matchController.StartInnings)
		scorerRoutes.POST("/:id/balls", matchController.RecordBall)
		scorerRoutes.DELETE("/:id/balls/last", matchController.UndoLastBall)
		scorerRoutes.POST("/:id/batsman", matchController.SetNewBatsman)
		scorerRoutes.POST("/:id/bowler", matchController.SetNewBowler)
		scorerRoutes.POST("/:id/end", matchController.EndMatch)
	}
}
