package team

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crease/internal/logger"
	"github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/pkg/responses"
)

// TeamController handles team-related HTTP requests
type TeamController struct {
	repo TeamRepository
	log  *zap.Logger
}

func NewTeamController(repo TeamRepository, log *zap.Logger) *TeamController {
	return &TeamController{repo: repo, log: logger.OrNop(log)}
}

// isTeamManager reports whether userID created the team or captains it.
func (tc *TeamController) isTeamManager(teamID, userID uint) (bool, error) {
	isCreator, err := tc.repo.IsUserTeamCreator(teamID, userID)
	if err != nil || isCreator {
		return isCreator, err
	}
	member, err := tc.repo.GetTeamMember(teamID, userID)
	if err != nil || member == nil || !member.IsActive {
		return false, err
	}
	return member.IsCaptain || member.Role == RoleCaptain, nil
}

func parseTeamID(c *gin.Context) (uint, bool) {
	teamID, err := strconv.ParseUint(c.Param("team_id"), 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid team ID")
		return 0, false
	}
	return uint(teamID), true
}

// CreateTeam godoc
// @Summary Create a team
// @Description Creates a team; the caller becomes its captain.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team body CreateTeamRequest true "Team details"
// @Success 201 {object} responses.Body{data=Team} "Team created"
// @Failure 400 {object} responses.Body "Invalid request payload"
// @Failure 409 {object} responses.Body "Team name already exists"
// @Security ApiKeyAuth
// @Router /teams [post]
func (tc *TeamController) CreateTeam(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if existing, _ := tc.repo.GetTeamByName(req.Name); existing != nil {
		responses.Error(c, http.StatusConflict, "Team name already exists")
		return
	}

	team := Team{Name: req.Name, ShortName: req.ShortName, CreatedByID: userID}
	err = tc.repo.WithTransaction(func(repo TeamRepository) error {
		if err := repo.CreateTeam(&team); err != nil {
			return err
		}
		return repo.AddTeamMember(&TeamMember{
			TeamID:    team.ID,
			UserID:    userID,
			Role:      RoleCaptain,
			IsCaptain: true,
			IsActive:  true,
			JoinedAt:  time.Now(),
		})
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			responses.Error(c, http.StatusConflict, "Team name already exists")
			return
		}
		responses.InternalServerError(c, "Failed to create team: "+err.Error())
		return
	}

	tc.log.Info("team created", zap.Uint("team_id", team.ID), zap.Uint("created_by", userID))
	responses.Success(c, http.StatusCreated, team)
}

// GetTeamByID godoc
// @Summary Get a team by its ID
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.Body{data=Team} "Team details"
// @Failure 404 {object} responses.Body "Team not found"
// @Router /teams/{team_id} [get]
func (tc *TeamController) GetTeamByID(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}
	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team: "+err.Error())
		return
	}
	if team == nil {
		responses.NotFound(c, "Team")
		return
	}
	responses.Success(c, http.StatusOK, team)
}

// GetAllTeams godoc
// @Summary List teams
// @Tags Teams
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param name query string false "Filter by name"
// @Success 200 {object} responses.Page{data=[]Team} "Teams"
// @Router /teams [get]
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	page, limit := responses.PageParams(c)
	teams, total, err := tc.repo.GetAllTeams(page, limit, c.Query("name"))
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve teams: "+err.Error())
		return
	}
	responses.Paginated(c, http.StatusOK, teams, page, limit, total)
}

// GetTeamMembers godoc
// @Summary List the squad of a team
// @Tags Teams
// @Produce json
// @Param team_id path uint true "Team ID"
// @Success 200 {object} responses.Page{data=[]TeamMember} "Members"
// @Failure 404 {object} responses.Body "Team not found"
// @Router /teams/{team_id}/members [get]
func (tc *TeamController) GetTeamMembers(c *gin.Context) {
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}
	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		responses.NotFound(c, "Team")
		return
	}

	page, limit := responses.PageParams(c)
	members, total, err := tc.repo.GetTeamMembers(teamID, page, limit)
	if err != nil {
		responses.InternalServerError(c, "Failed to retrieve team members: "+err.Error())
		return
	}
	responses.Paginated(c, http.StatusOK, members, page, limit, total)
}

// AddTeamMember godoc
// @Summary Add a player to a squad
// @Description Only the team creator or captain may add members.
// @Tags Teams
// @Accept json
// @Produce json
// @Param team_id path uint true "Team ID"
// @Param member body AddMemberRequest true "Member"
// @Success 201 {object} responses.Body{data=TeamMember} "Member added"
// @Failure 403 {object} responses.Body "Not a team manager"
// @Failure 404 {object} responses.Body "Team not found"
// @Security ApiKeyAuth
// @Router /teams/{team_id}/members [post]
func (tc *TeamController) AddTeamMember(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return
	}
	teamID, ok := parseTeamID(c)
	if !ok {
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	team, err := tc.repo.GetTeamByID(teamID)
	if err != nil || team == nil {
		responses.NotFound(c, "Team")
		return
	}
	isManager, err := tc.isTeamManager(teamID, userID)
	if err != nil {
		responses.InternalServerError(c, "Failed to check permissions: "+err.Error())
		return
	}
	if !isManager {
		responses.Forbidden(c, "Only the team creator or captain can add members")
		return
	}

	role := req.Role
	if role == "" {
		role = RolePlayer
	}
	member := TeamMember{
		TeamID:       teamID,
		UserID:       req.UserID,
		DisplayName:  req.DisplayName,
		Role:         role,
		JerseyNumber: req.JerseyNumber,
		IsCaptain:    role == RoleCaptain,
		IsActive:     true,
		JoinedAt:     time.Now(),
	}
	if err := tc.repo.AddTeamMember(&member); err != nil {
		responses.InternalServerError(c, "Failed to add member: "+err.Error())
		return
	}
	responses.Success(c, http.StatusCreated, member)
}
