package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"wechselplan/models"
)

func TestRoleFromGroups(t *testing.T) {
	rg := RoleGroups{Admin: "WP-Admins", Teacher: "WP-Teachers", Student: "WP-Students"}

	tests := []struct {
		name   string
		groups []string
		want   string
	}{
		{"admin wins over teacher", []string{"CN=WP-Teachers,OU=x", "CN=WP-Admins,OU=x"}, models.RoleAdmin},
		{"teacher", []string{"CN=WP-Teachers,OU=Groups,DC=school"}, models.RoleTeacher},
		{"student", []string{"wp-students"}, models.RoleStudent},
		{"no match falls back to user", []string{"CN=Printers"}, models.RoleUser},
		{"empty membership", nil, models.RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, RoleFromGroups(tt.groups, rg))
		})
	}
}

func TestRoleFromGroupsUnconfiguredMapping(t *testing.T) {
	// An empty configured group name must never match everything.
	role := RoleFromGroups([]string{"CN=Anything"}, RoleGroups{})
	require.Equal(t, models.RoleUser, role)
}
