// Package auth talks to the school's directory services. Both backends
// return the same Identity; the handlers only ever see that plus the derived
// application role.
package auth

import (
	"errors"
	"strings"

	"wechselplan/models"
)

// ErrInvalidCredentials is returned for a failed bind or token exchange.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity is what a directory lookup yields for a user.
type Identity struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Groups    []string
}

// RoleGroups holds the directory group names that map to application roles.
type RoleGroups struct {
	Admin   string
	Teacher string
	Student string
}

// RoleFromGroups derives the application role from directory membership.
// Admin wins over teacher, teacher over student; anything else is a plain
// user. Matching is case-insensitive and accepts full DNs that contain the
// configured group name.
func RoleFromGroups(groups []string, rg RoleGroups) string {
	if matchGroup(groups, rg.Admin) {
		return models.RoleAdmin
	}
	if matchGroup(groups, rg.Teacher) {
		return models.RoleTeacher
	}
	if matchGroup(groups, rg.Student) {
		return models.RoleStudent
	}
	return models.RoleUser
}

func matchGroup(groups []string, want string) bool {
	if want == "" {
		return false
	}
	want = strings.ToLower(want)
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g), want) {
			return true
		}
	}
	return false
}
