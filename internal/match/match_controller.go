package match

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/DhavalSuthar-24/crease/internal/logger"
	"github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/internal/scoring"
	"github.com/DhavalSuthar-24/crease/pkg/responses"
)

// MatchController handles match-related HTTP requests
type MatchController struct {
	svc *ScoringService
	log *zap.Logger
}

func NewMatchController(svc *ScoringService, log *zap.Logger) *MatchController {
	return &MatchController{svc: svc, log: logger.OrNop(log)}
}

func parseMatchID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		responses.Error(c, http.StatusBadRequest, "Invalid match ID")
		return 0, false
	}
	return uint(id), true
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps service and engine errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case isAny(err, ErrMatchNotFound, ErrTeamNotFound):
		return http.StatusNotFound
	case isAny(err,
		ErrMatchFinished, ErrInningsLimit, ErrInningsInProgress, ErrWrongBattingSide,
		scoring.ErrConsecutiveOvers, scoring.ErrDuplicateBatsman, scoring.ErrBatsmanDismissed,
		scoring.ErrInningsComplete, scoring.ErrMatchSettled,
	):
		return http.StatusConflict
	case isAny(err,
		ErrTeamNotInMatch, ErrPlayerNotInSquad, ErrSquadTooSmall, ErrSquadOverlap, ErrUnknownFormat,
		scoring.ErrNoActiveInnings, scoring.ErrBowlerRequired, scoring.ErrBatsmanRequired,
		scoring.ErrInvalidDelivery, scoring.ErrInvalidLineup, scoring.ErrInvalidPlayer, scoring.ErrEmptyBallLog,
	):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (mc *MatchController) fail(c *gin.Context, action string, matchID uint, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		mc.log.Error(action, zap.Uint("match_id", matchID), zap.Error(err))
	}
	responses.Error(c, status, action+": "+err.Error())
}

// CreateMatch godoc
// @Summary Create a match
// @Description Registers a pending match between two teams. Squads default to the teams' active members.
// @Tags Matches
// @Accept json
// @Produce json
// @Param match body CreateMatchRequest true "Teams and format"
// @Success 201 {object} responses.Body{data=Match} "Match created"
// @Failure 400 {object} responses.Body "Invalid request payload"
// @Failure 404 {object} responses.Body "Team not found"
// @Security ApiKeyAuth
// @Router /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	match, err := mc.svc.CreateMatch(c.Request.Context(), userID, req)
	if err != nil {
		mc.fail(c, "Failed to create match", 0, err)
		return
	}

	responses.Success(c, http.StatusCreated, gin.H{
		"message": "Match created successfully",
		"match":   match,
	})
}

// GetMatches godoc
// @Summary List matches
// @Tags Matches
// @Produce json
// @Param status query string false "pending, live, completed or abandoned"
// @Param team_id query int false "Only matches of this team"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} responses.Page{data=[]Match} "Matches"
// @Router /matches [get]
func (mc *MatchController) GetMatches(c *gin.Context) {
	page, pageSize := responses.PageParams(c)
	var teamID uint
	if v := c.Query("team_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, "Invalid team ID")
			return
		}
		teamID = uint(id)
	}

	matches, total, err := mc.svc.ListMatches(c.Request.Context(), MatchStatus(c.Query("status")), teamID, page, pageSize)
	if err != nil {
		mc.fail(c, "Failed to fetch matches", 0, err)
		return
	}
	responses.Paginated(c, http.StatusOK, matches, page, pageSize, total)
}

// GetMatchByID godoc
// @Summary Get a match with its squads
// @Tags Matches
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.Body{data=Match} "Match"
// @Failure 404 {object} responses.Body "Match not found"
// @Router /matches/{id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	match, err := mc.svc.GetMatch(c.Request.Context(), id)
	if err != nil {
		mc.fail(c, "Failed to fetch match", id, err)
		return
	}
	responses.Success(c, http.StatusOK, match)
}

// StartInnings godoc
// @Summary Start an innings
// @Description Opens the first or second innings with the opening batsmen and bowler.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param innings body StartInningsRequest true "Sides and opening players"
// @Success 200 {object} responses.Body{data=scoring.DerivedState} "Innings started"
// @Failure 409 {object} responses.Body "Innings cannot start now"
// @Security ApiKeyAuth
// @Router /matches/{id}/innings [post]
func (mc *MatchController) StartInnings(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	var req StartInningsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	st, err := mc.svc.StartInnings(c.Request.Context(), id, req)
	if err != nil {
		mc.fail(c, "Failed to start innings", id, err)
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"message": "Innings started",
		"state":   st,
	})
}

// RecordBall godoc
// @Summary Record a delivery
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param ball body RecordBallRequest true "Delivery"
// @Success 201 {object} responses.Body{data=scoring.BallResult} "Ball recorded"
// @Failure 400 {object} responses.Body "Invalid delivery or missing player"
// @Failure 409 {object} responses.Body "Match or innings finished"
// @Security ApiKeyAuth
// @Router /matches/{id}/balls [post]
func (mc *MatchController) RecordBall(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	var req RecordBallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	res, err := mc.svc.RecordBall(c.Request.Context(), id, req)
	if err != nil {
		mc.fail(c, "Failed to record ball", id, err)
		return
	}
	responses.Success(c, http.StatusCreated, gin.H{
		"message": "Ball recorded",
		"ball":    res.Ball,
		"state":   res.State,
		"actions": res.Actions,
	})
}

// UndoLastBall godoc
// @Summary Undo the last delivery
// @Tags Scoring
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.Body{data=scoring.DerivedState} "Ball undone"
// @Failure 400 {object} responses.Body "Nothing to undo"
// @Security ApiKeyAuth
// @Router /matches/{id}/balls/last [delete]
func (mc *MatchController) UndoLastBall(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	st, err := mc.svc.UndoLastBall(c.Request.Context(), id)
	if err != nil {
		mc.fail(c, "Failed to undo ball", id, err)
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"message": "Last ball undone",
		"state":   st,
	})
}

// SetNewBatsman godoc
// @Summary Send in a new batsman
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param batsman body SetBatsmanRequest true "Batsman and end"
// @Success 200 {object} responses.Body{data=scoring.DerivedState} "Batsman set"
// @Failure 409 {object} responses.Body "Batsman already at the crease or dismissed"
// @Security ApiKeyAuth
// @Router /matches/{id}/batsman [post]
func (mc *MatchController) SetNewBatsman(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	var req SetBatsmanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	st, err := mc.svc.SetNewBatsman(c.Request.Context(), id, req)
	if err != nil {
		mc.fail(c, "Failed to set batsman", id, err)
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"message": "Batsman set",
		"state":   st,
	})
}

// SetNewBowler godoc
// @Summary Assign the bowler of the next over
// @Tags Scoring
// @Accept json
// @Produce json
// @Param id path int true "Match ID"
// @Param bowler body SetBowlerRequest true "Bowler"
// @Success 200 {object} responses.Body{data=scoring.DerivedState} "Bowler set"
// @Failure 409 {object} responses.Body "Bowler bowled the previous over"
// @Security ApiKeyAuth
// @Router /matches/{id}/bowler [post]
func (mc *MatchController) SetNewBowler(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	var req SetBowlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationError(c, err)
		return
	}

	st, err := mc.svc.SetNewBowler(c.Request.Context(), id, req)
	if err != nil {
		mc.fail(c, "Failed to set bowler", id, err)
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"message": "Bowler set",
		"state":   st,
	})
}

// EndMatch godoc
// @Summary End a match
// @Description Settles the result now. Matches with fewer than two innings are abandoned.
// @Tags Scoring
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.Body{data=scoring.MatchResult} "Match ended"
// @Security ApiKeyAuth
// @Router /matches/{id}/end [post]
func (mc *MatchController) EndMatch(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	res, err := mc.svc.EndMatch(c.Request.Context(), id)
	if err != nil {
		mc.fail(c, "Failed to end match", id, err)
		return
	}
	responses.Success(c, http.StatusOK, gin.H{
		"message": "Match ended",
		"result":  res,
	})
}

// GetState godoc
// @Summary Current match state
// @Description Derived state with the actions the scorer must take next.
// @Tags Scoring
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.Body{data=live.Update} "State"
// @Failure 404 {object} responses.Body "Match not found"
// @Router /matches/{id}/state [get]
func (mc *MatchController) GetState(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	u, err := mc.svc.State(c.Request.Context(), id)
	if err != nil {
		mc.fail(c, "Failed to fetch state", id, err)
		return
	}
	responses.Success(c, http.StatusOK, u)
}

// GetBalls godoc
// @Summary Ball-by-ball log
// @Tags Scoring
// @Produce json
// @Param id path int true "Match ID"
// @Success 200 {object} responses.Body{data=[]BallDelivery} "Deliveries"
// @Router /matches/{id}/balls [get]
func (mc *MatchController) GetBalls(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	balls, err := mc.svc.Balls(c.Request.Context(), id)
	if err != nil {
		mc.fail(c, "Failed to fetch balls", id, err)
		return
	}
	responses.Success(c, http.StatusOK, balls)
}

// GetScorecard godoc
// @Summary Plain-text scorecard
// @Tags Scoring
// @Produce plain
// @Param id path int true "Match ID"
// @Success 200 {string} string "Scorecard"
// @Router /matches/{id}/scorecard [get]
func (mc *MatchController) GetScorecard(c *gin.Context) {
	id, ok := parseMatchID(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := mc.svc.Scorecard(c.Request.Context(), id, &buf); err != nil {
		mc.fail(c, "Failed to render scorecard", id, err)
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
}
