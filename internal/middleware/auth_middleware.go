package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"wechselplan/config"
	"wechselplan/models"
)

// CachedUserData is the per-user record kept in Redis between requests.
type CachedUserData struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuthMiddleware validates the session token (cookie or bearer header) and
// resolves the user's role, preferring the Redis cache over the database.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				abortUnauthorized(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				abortUnauthorized(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return config.JwtKey, nil
		})
		if err != nil || !token.Valid {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, "Invalid token claims")
			return
		}
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			abortUnauthorized(c, "Invalid user id in token")
			return
		}
		userID := uint(userIDFloat)

		cacheKey := fmt.Sprintf("user:%d:data", userID)
		if config.RDB != nil {
			cached, err := config.RDB.Get(config.Ctx, cacheKey).Result()
			if err == nil {
				var userData CachedUserData
				if json.Unmarshal([]byte(cached), &userData) == nil {
					setContextAndProceed(c, &userData)
					return
				}
				slog.Warn("Dropping unreadable cached user data", "user_id", userID)
			} else if err != redis.Nil {
				slog.Error("Redis GET failed", "error", err, "user_id", userID)
			}
		}

		var user models.User
		if err := config.DB.Preload("Roles").First(&user, userID).Error; err != nil {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			abortUnauthorized(c, "User from token no longer exists")
			return
		}

		userData := CachedUserData{
			UserID:   user.ID,
			Username: user.Username,
			Role:     primaryRole(user),
		}
		if config.RDB != nil {
			if payload, err := json.Marshal(userData); err == nil {
				if err := config.RDB.Set(config.Ctx, cacheKey, payload, 15*time.Minute).Err(); err != nil {
					slog.Error("Redis SET failed", "error", err, "user_id", userID)
				}
			}
		}

		setContextAndProceed(c, &userData)
	}
}

// RequireRole gates a route group to the given roles. Admins pass everywhere.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
	}
}

// InvalidateUserCache drops the cached record after a role change.
func InvalidateUserCache(userID uint) {
	if config.RDB == nil {
		return
	}
	key := fmt.Sprintf("user:%d:data", userID)
	if err := config.RDB.Del(config.Ctx, key).Err(); err != nil {
		slog.Error("Redis DEL failed", "error", err, "user_id", userID)
	}
}

func primaryRole(user models.User) string {
	// Highest role wins, mirroring the directory mapping.
	for _, role := range []string{models.RoleAdmin, models.RoleTeacher, models.RoleStudent} {
		if user.HasRole(role) {
			return role
		}
	}
	return models.RoleUser
}

func setContextAndProceed(c *gin.Context, data *CachedUserData) {
	c.Set("userID", data.UserID)
	c.Set("username", data.Username)
	c.Set("role", data.Role)
	c.Next()
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}
