package stats

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/internal/logger"
	"github.com/DhavalSuthar-24/crease/pkg/responses"
)

type CareerController struct {
	svc *Service
	log *zap.Logger
}

func NewCareerController(svc *Service, log *zap.Logger) *CareerController {
	return &CareerController{svc: svc, log: logger.OrNop(log)}
}

func parseUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		responses.Error(c, http.StatusBadRequest, "Invalid player ID")
		return 0, false
	}
	return uint(id), true
}

// GetCareer godoc
// @Summary Career aggregates of a player
// @Tags Players
// @Produce json
// @Param id path int true "User ID of the player"
// @Success 200 {object} responses.Body{data=PlayerOverallCricketStat} "Career"
// @Failure 400 {object} responses.Body "Invalid player ID"
// @Router /players/{id}/career [get]
func (cc *CareerController) GetCareer(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	stat, err := cc.svc.Career(c.Request.Context(), userID)
	if err != nil {
		cc.log.Error("career lookup failed", zap.Uint("user_id", userID), zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Failed to fetch career")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"career":       stat,
		"best_bowling": stat.BestBowling(),
	})
}

// RefreshCareer godoc
// @Summary Recompute a player's career from the ball log
// @Tags Players
// @Produce json
// @Param id path int true "User ID of the player"
// @Success 200 {object} responses.Body{data=PlayerOverallCricketStat} "Career"
// @Security ApiKeyAuth
// @Router /players/{id}/career/refresh [post]
func (cc *CareerController) RefreshCareer(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}
	stat, err := cc.svc.RefreshPlayer(c.Request.Context(), userID)
	if err != nil {
		cc.log.Error("career refresh failed", zap.Uint("user_id", userID), zap.Error(err))
		responses.Error(c, http.StatusInternalServerError, "Failed to refresh career")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"message": "Career refreshed",
		"career":  stat,
	})
}
