package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wechselplan/config"
	"wechselplan/models"
)

// ListTeachersHandler returns all teachers ordered by name.
func ListTeachersHandler(c *gin.Context) {
	var teachers []models.Teacher
	if err := config.DB.Order("last_name, first_name").Find(&teachers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load teachers"})
		return
	}
	c.JSON(http.StatusOK, teachers)
}

// GetTeacherHandler returns one teacher.
func GetTeacherHandler(c *gin.Context) {
	var teacher models.Teacher
	err := config.DB.First(&teacher, c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, teacher)
}

// CreateTeacherHandler creates a teacher.
func CreateTeacherHandler(c *gin.Context) {
	var input models.TeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	teacher := models.Teacher{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		Email:     input.Email,
	}
	if err := config.DB.Create(&teacher).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create teacher"})
		return
	}
	c.JSON(http.StatusCreated, teacher)
}

// UpdateTeacherHandler updates a teacher.
func UpdateTeacherHandler(c *gin.Context) {
	var teacher models.Teacher
	if err := config.DB.First(&teacher, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input models.TeacherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	teacher.FirstName = input.FirstName
	teacher.LastName = input.LastName
	teacher.Username = input.Username
	teacher.Email = input.Email
	if err := config.DB.Save(&teacher).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update teacher"})
		return
	}
	c.JSON(http.StatusOK, teacher)
}

// DeleteTeacherHandler removes a teacher.
func DeleteTeacherHandler(c *gin.Context) {
	var teacher models.Teacher
	if err := config.DB.First(&teacher, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Teacher not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if err := config.DB.Delete(&teacher).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete teacher"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Teacher deleted"})
}
