package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crease/internal/user"
)

var ErrRoleNotFound = errors.New("role not found")

type AuthRepository interface {
	CreateUser(u *user.User, roles []string) error
	GetUserByEmail(email string) (*user.User, error)
	GetUserByUsername(username string) (*user.User, error)
	GetUserByID(id uint) (*user.User, error)

	AssignRoleToUser(userID uint, role string) error
	GetUserRoles(userID uint) ([]string, error)
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts u and links roles in one transaction.
func (r *authRepository) CreateUser(u *user.User, roles []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		for _, name := range roles {
			if err := assignRole(tx, u.ID, name); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *authRepository) GetUserByEmail(email string) (*user.User, error) {
	var u user.User
	if err := r.db.Preload("UserRoles.Role").Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByUsername(username string) (*user.User, error) {
	var u user.User
	if err := r.db.Preload("UserRoles.Role").Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByID(id uint) (*user.User, error) {
	var u user.User
	if err := r.db.Preload("UserRoles.Role").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) AssignRoleToUser(userID uint, roleName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var u user.User
		if err := tx.First(&u, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d not found", userID)
			}
			return fmt.Errorf("failed to find user: %w", err)
		}
		return assignRole(tx, userID, roleName)
	})
}

func assignRole(tx *gorm.DB, userID uint, roleName string) error {
	var role user.Role
	if err := tx.Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %q", ErrRoleNotFound, roleName)
		}
		return fmt.Errorf("failed to find role: %w", err)
	}

	var existing user.UserRole
	err := tx.Where("user_id = ? AND role_id = ?", userID, role.ID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing user role: %w", err)
	}

	if err := tx.Create(&user.UserRole{UserID: userID, RoleID: role.ID}).Error; err != nil {
		return fmt.Errorf("failed to assign role to user: %w", err)
	}
	return nil
}

func (r *authRepository) GetUserRoles(userID uint) ([]string, error) {
	var roles []string
	err := r.db.Model(&user.UserRole{}).
		Joins("JOIN roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Pluck("roles.name", &roles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	return roles, nil
}
