package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"wechselplan/models"
)

var DB *gorm.DB

// ConnectDB opens the database. With DB_URL set it talks to Postgres,
// otherwise it falls back to a local SQLite file (development and tests).
func ConnectDB(cfg *Config) {
	var dialector gorm.Dialector
	if cfg.Database.URL != "" {
		dialector = postgres.Open(cfg.Database.URL)
	} else {
		slog.Warn("DB_URL not set, using local SQLite file", "path", cfg.Database.SQLitePath)
		dialector = sqlite.Open(cfg.Database.SQLitePath)
	}

	logLevel := logger.Silent
	if cfg.Server.Environment == "development" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}

	DB = db
	slog.Info("Database connection established")
}

// SeedLocalAdmin ensures the fallback admin account exists when
// ADMIN_PASSWORD is configured. The password hash is refreshed on every
// start so a rotated secret takes effect immediately.
func SeedLocalAdmin(cfg *Config) error {
	if cfg.Admin.Password == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var user models.User
	err = DB.Where("username = ?", cfg.Admin.Username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Username:     cfg.Admin.Username,
			PasswordHash: string(hash),
			Roles:        []models.UserRole{{Role: models.RoleAdmin}},
		}
		return DB.Create(&user).Error
	}
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return DB.Save(&user).Error
}

// MigrateDB auto-migrates every persisted model.
func MigrateDB() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Teacher{},
		&models.Class{},
		&models.Student{},
		&models.Subject{},
		&models.Room{},
		&models.LearningContent{},
		&models.SchoolHoliday{},
		&models.Schedule{},
		&models.ScheduleTurn{},
		&models.ScheduleWeek{},
		&models.ScheduleTurnHoliday{},
		&models.TeacherAssignment{},
		&models.TeacherRotation{},
		&models.Grade{},
	)
}
