package auth

import (
	"fmt"
	"log/slog"

	"github.com/go-ldap/ldap/v3"

	"wechselplan/config"
)

// LDAPAuthenticator verifies credentials against the school directory. The
// configuration is injected once at startup; nothing here reads the
// environment.
type LDAPAuthenticator struct {
	cfg config.LDAPConfig
}

func NewLDAPAuthenticator(cfg config.LDAPConfig) *LDAPAuthenticator {
	return &LDAPAuthenticator{cfg: cfg}
}

// RoleGroups exposes the configured group-to-role mapping.
func (a *LDAPAuthenticator) RoleGroups() RoleGroups {
	return RoleGroups{
		Admin:   a.cfg.AdminGroup,
		Teacher: a.cfg.TeacherGroup,
		Student: a.cfg.StudentGroup,
	}
}

// Authenticate binds with the service account, locates the user entry and
// re-binds with the user's own credentials. A wrong password surfaces as
// ErrInvalidCredentials, everything else as a plain error.
func (a *LDAPAuthenticator) Authenticate(username, password string) (*Identity, error) {
	if a.cfg.URL == "" {
		return nil, fmt.Errorf("ldap is not configured")
	}
	if password == "" {
		// An empty password would trigger an anonymous bind and succeed.
		return nil, ErrInvalidCredentials
	}

	conn, err := ldap.DialURL(a.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ldap dial: %w", err)
	}
	defer conn.Close()

	if err := conn.Bind(a.cfg.BindDN, a.cfg.BindPassword); err != nil {
		return nil, fmt.Errorf("ldap service bind: %w", err)
	}

	filter := fmt.Sprintf(a.cfg.UserFilter, ldap.EscapeFilter(username))
	result, err := conn.Search(ldap.NewSearchRequest(
		a.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 0, 0, false,
		filter,
		[]string{"dn", "givenName", "sn", "mail", "memberOf"},
		nil,
	))
	if err != nil {
		return nil, fmt.Errorf("ldap search: %w", err)
	}
	if len(result.Entries) != 1 {
		slog.Warn("LDAP user lookup did not yield exactly one entry", "username", username, "count", len(result.Entries))
		return nil, ErrInvalidCredentials
	}

	entry := result.Entries[0]
	if err := conn.Bind(entry.DN, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{
		Username:  username,
		FirstName: entry.GetAttributeValue("givenName"),
		LastName:  entry.GetAttributeValue("sn"),
		Email:     entry.GetAttributeValue("mail"),
		Groups:    entry.GetAttributeValues("memberOf"),
	}, nil
}
