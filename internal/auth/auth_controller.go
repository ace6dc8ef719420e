package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crease/config"
	"github.com/DhavalSuthar-24/crease/internal/logger"
	"github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/internal/user"
	"github.com/DhavalSuthar-24/crease/pkg/token"
	"github.com/DhavalSuthar-24/crease/pkg/utils"
)

const DefaultUserRole = user.RolePlayer

type AuthController struct {
	repo   AuthRepository
	config *config.Config
	log    *zap.Logger
}

func NewAuthController(repo AuthRepository, cfg *config.Config, log *zap.Logger) *AuthController {
	return &AuthController{
		repo:   repo,
		config: cfg,
		log:    logger.OrNop(log),
	}
}

// primaryRole picks the most privileged role for the token claim.
func primaryRole(roles []string) string {
	best := ""
	rank := map[string]int{user.RolePlayer: 1, user.RoleScorer: 2, user.RoleAdmin: 3}
	for _, r := range roles {
		if rank[r] > rank[best] {
			best = r
		}
	}
	return best
}

func (ac *AuthController) issue(u *user.User) (string, error) {
	return token.GenerateJWT(u.ID, primaryRole(u.RoleNames()), ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
}

// @Summary      Register a new user
// @Description  Create a user with username, email and password. Roles default to player; scorers may record matches.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "User registration details"
// @Success      201   {object} AuthResponse "User registered, returns token and user info"
// @Failure      400   {object} map[string]string "Validation error or invalid input"
// @Failure      409   {object} map[string]string "User with this email or username already exists"
// @Failure      500   {object} map[string]string "Internal server error"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := ac.repo.GetUserByEmail(email); !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
		return
	}
	if _, err := ac.repo.GetUserByUsername(req.Username); !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusConflict, gin.H{"error": "User with this username already exists"})
		return
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{DefaultUserRole}
	}

	hashedPassword, err := utils.HashPassword(req.Password, ac.config.Auth.BcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	newUser := &user.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    email,
		Password: hashedPassword,
	}
	if err := ac.repo.CreateUser(newUser, roles); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
			return
		}
		if errors.Is(err, ErrRoleNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ac.log.Error("create user failed", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	created, err := ac.repo.GetUserByID(newUser.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
		return
	}
	accessToken, err := ac.issue(created)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "access token generation failed"})
		return
	}

	ac.log.Info("user registered", zap.Uint("user_id", created.ID), zap.Strings("roles", roles))
	c.JSON(http.StatusCreated, AuthResponse{AccessToken: accessToken, User: FilterUserRecord(created)})
}

// @Summary      Log in
// @Description  Authenticate with email or username and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials body LoginRequest true "Login credentials"
// @Success      200   {object} AuthResponse "Returns access token and user info"
// @Failure      400   {object} map[string]string "Invalid input"
// @Failure      401   {object} map[string]string "Invalid credentials"
// @Failure      500   {object} map[string]string "Internal server error"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	foundUser, err := ac.repo.GetUserByEmail(strings.ToLower(req.LoginIdentifier))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		foundUser, err = ac.repo.GetUserByUsername(req.LoginIdentifier)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		return
	}

	if !utils.CheckPassword(foundUser.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	accessToken, err := ac.issue(foundUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "access token generation failed"})
		return
	}
	c.JSON(http.StatusOK, AuthResponse{AccessToken: accessToken, User: FilterUserRecord(foundUser)})
}

// @Summary      Get current user
// @Tags         Auth
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} UserResponse "User profile data"
// @Failure      401 {object} map[string]string "Unauthorized"
// @Failure      404 {object} map[string]string "User not found"
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
		return
	}

	currentUser, err := ac.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, FilterUserRecord(currentUser))
}
