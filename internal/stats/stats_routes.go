package stats

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	mw "github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/pkg/rmiddleware"
)

// CareerRoutes mounts the player career endpoints. Reads are public; a manual
// refresh needs the admin role.
func CareerRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string, roles rmiddleware.RoleLookup, svc *Service, log *zap.Logger) {
	careerController := NewCareerController(svc, log)

	router.GET("/players/:id/career", careerController.GetCareer)

	adminRoutes := router.Group("/players")
	adminRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	adminRoutes.Use(rmiddleware.AdminMiddleware(roles))
	{
		adminRoutes.POST("/:id/career/refresh", careerController.RefreshCareer)
	}
}
