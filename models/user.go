package models

import "gorm.io/gorm"

// Application roles, derived from directory group membership at login.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleUser    = "user"
)

// User is a local account row. Directory users (LDAP / Azure AD) get one on
// first login; PasswordHash is only set for the local fallback admin.
type User struct {
	gorm.Model
	Username     string `json:"username" gorm:"unique;not null"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	Roles []UserRole `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
}

// UserRole joins a user to one of the application roles.
type UserRole struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"userId"`
	Role   string `gorm:"size:20;not null" json:"role"`
}

// HasRole reports whether the user carries the given role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}
