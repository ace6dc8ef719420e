package user

import "gorm.io/gorm"

const (
	RolePlayer = "player"
	RoleScorer = "scorer"
	RoleAdmin  = "admin"
)

// DefaultRoles are seeded on startup.
var DefaultRoles = []string{RolePlayer, RoleScorer, RoleAdmin}

type User struct {
	gorm.Model
	Name      string     `gorm:"not null" json:"name"`
	Username  string     `gorm:"uniqueIndex;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `json:"-"`
	UserRoles []UserRole `json:"-"`
}

type Role struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type UserRole struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex:idx_user_role;not null"`
	RoleID uint `gorm:"uniqueIndex:idx_user_role;not null"`
	Role   Role
}

// RoleNames lists the names of the preloaded roles of u.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.UserRoles))
	for _, ur := range u.UserRoles {
		names = append(names, ur.Role.Name)
	}
	return names
}

// SeedRoles creates any missing DefaultRoles.
func SeedRoles(db *gorm.DB) error {
	for _, name := range DefaultRoles {
		if err := db.Where(Role{Name: name}).FirstOrCreate(&Role{}).Error; err != nil {
			return err
		}
	}
	return nil
}
