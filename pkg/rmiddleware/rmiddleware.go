package rmiddleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/crease/internal/middleware"
	"github.com/DhavalSuthar-24/crease/internal/user"
	"github.com/DhavalSuthar-24/crease/pkg/responses"
)

const UserRolesKey = "user_roles"

// RoleLookup returns the role names held by a user.
type RoleLookup interface {
	GetUserRoles(userID uint) ([]string, error)
}

// RoleMiddleware admits authenticated users holding any of requiredRoles.
// It must run after middleware.AuthMiddleware.
func RoleMiddleware(lookup RoleLookup, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := middleware.GetUserIDFromContext(c)
		if err != nil {
			responses.Unauthorized(c, "Unauthorized: "+err.Error())
			return
		}

		userRoles, err := lookup.GetUserRoles(userID)
		if err != nil {
			responses.InternalServerError(c, "Failed to get user roles")
			return
		}

		if !hasAnyRole(userRoles, requiredRoles) {
			responses.Forbidden(c, "Requires one of the roles: "+strings.Join(requiredRoles, ", "))
			return
		}

		c.Set(UserRolesKey, userRoles)
		c.Next()
	}
}

func hasAnyRole(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// ScorerMiddleware admits scorers and admins.
func ScorerMiddleware(lookup RoleLookup) gin.HandlerFunc {
	return RoleMiddleware(lookup, user.RoleScorer, user.RoleAdmin)
}

// AdminMiddleware is a convenience middleware for admin-only access
func AdminMiddleware(lookup RoleLookup) gin.HandlerFunc {
	return RoleMiddleware(lookup, user.RoleAdmin)
}
