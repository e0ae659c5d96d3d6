package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup. The Auth section
// is handed by value to the auth service so no request ever reads the
// environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Admin    AdminConfig
}

// AdminConfig seeds the local fallback admin account at startup. The account
// keeps the system administrable while the directory is down.
type AdminConfig struct {
	Username string
	Password string
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	URL        string
	SQLitePath string
}

type RedisConfig struct {
	Addr string
}

type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// AuthConfig covers both directory backends. Group DNs map directory
// membership to application roles.
type AuthConfig struct {
	LDAP  LDAPConfig
	Azure AzureConfig
}

type LDAPConfig struct {
	URL          string
	BindDN       string
	BindPassword string
	BaseDN       string
	UserFilter   string
	AdminGroup   string
	TeacherGroup string
	StudentGroup string
}

type AzureConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AdminGroup   string
	TeacherGroup string
	StudentGroup string
}

// Load reads the .env file (if present) and the environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on the environment")
	}

	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			URL:        os.Getenv("DB_URL"),
			SQLitePath: getEnv("SQLITE_PATH", "./wechselplan.db"),
		},
		Redis: RedisConfig{
			Addr: os.Getenv("REDIS_ADDR"),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me"),
			TokenExpiry: parseDuration(getEnv("JWT_EXPIRY", "8h")),
		},
		Auth: AuthConfig{
			LDAP: LDAPConfig{
				URL:          os.Getenv("LDAP_URL"),
				BindDN:       os.Getenv("LDAP_BIND_DN"),
				BindPassword: os.Getenv("LDAP_BIND_PASSWORD"),
				BaseDN:       os.Getenv("LDAP_BASE_DN"),
				UserFilter:   getEnv("LDAP_USER_FILTER", "(sAMAccountName=%s)"),
				AdminGroup:   os.Getenv("LDAP_ADMIN_GROUP"),
				TeacherGroup: os.Getenv("LDAP_TEACHER_GROUP"),
				StudentGroup: os.Getenv("LDAP_STUDENT_GROUP"),
			},
			Azure: AzureConfig{
				TenantID:     os.Getenv("AZURE_TENANT_ID"),
				ClientID:     os.Getenv("AZURE_CLIENT_ID"),
				ClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
				RedirectURL:  os.Getenv("AZURE_REDIRECT_URL"),
				AdminGroup:   os.Getenv("AZURE_ADMIN_GROUP"),
				TeacherGroup: os.Getenv("AZURE_TEACHER_GROUP"),
				StudentGroup: os.Getenv("AZURE_STUDENT_GROUP"),
			},
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}
}

// JwtKey is the signing key shared by login handler and auth middleware.
var JwtKey []byte

// SetJwtKey stores the signing key once at startup.
func SetJwtKey(secret string) {
	JwtKey = []byte(strings.TrimSpace(secret))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		slog.Warn("Invalid duration, falling back to 8h", "value", s)
		return 8 * time.Hour
	}
	return d
}
