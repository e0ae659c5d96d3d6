package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"wechselplan/config"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// AzureAuthenticator exchanges an OAuth authorization code against Azure AD
// and reads profile and group membership from Microsoft Graph.
type AzureAuthenticator struct {
	cfg   config.AzureConfig
	oauth oauth2.Config
}

func NewAzureAuthenticator(cfg config.AzureConfig) *AzureAuthenticator {
	return &AzureAuthenticator{
		cfg: cfg,
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     microsoft.AzureADEndpoint(cfg.TenantID),
			Scopes:       []string{"openid", "profile", "email", "User.Read"},
		},
	}
}

// RoleGroups exposes the configured group-to-role mapping.
func (a *AzureAuthenticator) RoleGroups() RoleGroups {
	return RoleGroups{
		Admin:   a.cfg.AdminGroup,
		Teacher: a.cfg.TeacherGroup,
		Student: a.cfg.StudentGroup,
	}
}

// AuthCodeURL starts the login flow.
func (a *AzureAuthenticator) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and resolves the identity.
func (a *AzureAuthenticator) Exchange(ctx context.Context, code string) (*Identity, error) {
	if a.cfg.ClientID == "" {
		return nil, fmt.Errorf("azure ad is not configured")
	}

	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	client := a.oauth.Client(ctx, token)

	var profile struct {
		UserPrincipalName string `json:"userPrincipalName"`
		GivenName         string `json:"givenName"`
		Surname           string `json:"surname"`
		Mail              string `json:"mail"`
	}
	if err := graphGet(client, "/me", &profile); err != nil {
		return nil, fmt.Errorf("graph profile: %w", err)
	}

	var membership struct {
		Value []struct {
			DisplayName string `json:"displayName"`
		} `json:"value"`
	}
	if err := graphGet(client, "/me/memberOf", &membership); err != nil {
		return nil, fmt.Errorf("graph membership: %w", err)
	}

	groups := make([]string, 0, len(membership.Value))
	for _, g := range membership.Value {
		groups = append(groups, g.DisplayName)
	}

	return &Identity{
		Username:  profile.UserPrincipalName,
		FirstName: profile.GivenName,
		LastName:  profile.Surname,
		Email:     profile.Mail,
		Groups:    groups,
	}, nil
}

func graphGet(client *http.Client, path string, out any) error {
	resp, err := client.Get(graphBaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graph returned %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
