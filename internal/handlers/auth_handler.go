package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"wechselplan/config"
	"wechselplan/internal/auth"
	"wechselplan/internal/middleware"
	"wechselplan/models"
)

// AuthHandler owns the login flows. The directory backends are injected so
// handlers never touch the environment.
type AuthHandler struct {
	LDAP        *auth.LDAPAuthenticator
	Azure       *auth.AzureAuthenticator
	TokenExpiry time.Duration
}

func NewAuthHandler(ldapAuth *auth.LDAPAuthenticator, azureAuth *auth.AzureAuthenticator, tokenExpiry time.Duration) *AuthHandler {
	return &AuthHandler{LDAP: ldapAuth, Azure: azureAuth, TokenExpiry: tokenExpiry}
}

type loginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates against LDAP. Accounts with a local password hash (the
// fallback admin) are checked locally first so the school stays administrable
// during a directory outage.
func (h *AuthHandler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	var local models.User
	err := config.DB.Preload("Roles").Where("username = ?", input.Username).First(&local).Error
	if err == nil && local.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(local.PasswordHash), []byte(input.Password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.issueSession(c, &local)
		return
	}

	identity, err := h.LDAP.Authenticate(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		slog.Error("LDAP authentication failed", "error", err, "username", input.Username)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Directory service unavailable"})
		return
	}

	role := auth.RoleFromGroups(identity.Groups, h.LDAP.RoleGroups())
	user, err := upsertDirectoryUser(identity, role)
	if err != nil {
		slog.Error("Failed to persist directory user", "error", err, "username", identity.Username)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store user"})
		return
	}
	h.issueSession(c, user)
}

// AzureLogin redirects the browser into the Azure AD code flow.
func (h *AuthHandler) AzureLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie("oauth_state", state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.Azure.AuthCodeURL(state))
}

// AzureCallback completes the code flow and opens a session.
func (h *AuthHandler) AzureCallback(c *gin.Context) {
	state, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	identity, err := h.Azure.Exchange(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token exchange rejected"})
			return
		}
		slog.Error("Azure token exchange failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Directory service unavailable"})
		return
	}

	role := auth.RoleFromGroups(identity.Groups, h.Azure.RoleGroups())
	user, err := upsertDirectoryUser(identity, role)
	if err != nil {
		slog.Error("Failed to persist directory user", "error", err, "username", identity.Username)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not store user"})
		return
	}

	h.setSessionCookie(c, user)
	c.Redirect(http.StatusTemporaryRedirect, "/")
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the authenticated caller as resolved by the middleware.
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"userId":   c.GetUint("userID"),
		"username": c.GetString("username"),
		"role":     c.GetString("role"),
	})
}

func (h *AuthHandler) issueSession(c *gin.Context, user *models.User) {
	h.setSessionCookie(c, user)
	c.JSON(http.StatusOK, gin.H{
		"userId":   user.ID,
		"username": user.Username,
		"role":     primaryRoleOf(user),
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, user *models.User) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(h.TokenExpiry).Unix(),
	})
	signed, err := token.SignedString(config.JwtKey)
	if err != nil {
		slog.Error("Failed to sign session token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}
	c.SetCookie("auth_token", signed, int(h.TokenExpiry.Seconds()), "/", "", false, true)
}

// upsertDirectoryUser stores the directory identity locally and replaces the
// user's role with the freshly derived one.
func upsertDirectoryUser(identity *auth.Identity, role string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("username = ?", identity.Username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username:  identity.Username,
			FirstName: identity.FirstName,
			LastName:  identity.LastName,
			Email:     identity.Email,
		}
		if err := config.DB.Create(&user).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		user.FirstName = identity.FirstName
		user.LastName = identity.LastName
		user.Email = identity.Email
		if err := config.DB.Save(&user).Error; err != nil {
			return nil, err
		}
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRole{UserID: user.ID, Role: role}).Error
	})
	if err != nil {
		return nil, err
	}

	middleware.InvalidateUserCache(user.ID)
	user.Roles = []models.UserRole{{UserID: user.ID, Role: role}}
	return &user, nil
}

func primaryRoleOf(user *models.User) string {
	for _, role := range []string{models.RoleAdmin, models.RoleTeacher, models.RoleStudent} {
		if user.HasRole(role) {
			return role
		}
	}
	return models.RoleUser
}
