package team

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
)

// TeamRoutes sets up all team-related routes and returns the repository for
// other features to share.
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string, log *zap.Logger) TeamRepository {
	teamRepo := NewTeamRepository(db)
	teamController := NewTeamController(teamRepo, log)

	router.GET("/teams", teamController.GetAllTeams)
	router.GET("/teams/:team_id", teamController.GetTeamByID)
	router.GET("/teams/:team_id/members", teamController.GetTeamMembers)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	{
		authRoutes.POST("/teams", teamController.CreateTeam)
		authRoutes.POST("/teams/:team_id/members", teamController.AddTeamMember)
	}
	return teamRepo
}
