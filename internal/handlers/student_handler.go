package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wechselplan/config"
	"wechselplan/models"
)

// ListStudentsHandler returns students, optionally filtered by class and
// search term, paginated unless ?all=true.
func ListStudentsHandler(c *gin.Context) {
	query := config.DB.Model(&models.Student{})

	if classID := c.Query("classId"); classID != "" {
		query = query.Where("class_id = ?", classID)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(last_name) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(username) LIKE ?",
			pattern, pattern, pattern)
	}

	var students []models.Student
	if c.Query("all") == "true" {
		if err := query.Order("last_name, first_name").Find(&students).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load students"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": students})
		return
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count students"})
		return
	}
	if err := query.Scopes(Paginate(c)).Order("last_name, first_name").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load students"})
		return
	}
	if students == nil {
		students = make([]models.Student, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, students, totalRows))
}

// GetStudentHandler returns one student.
func GetStudentHandler(c *gin.Context) {
	var student models.Student
	err := config.DB.Preload("Class").First(&student, c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// CreateStudentHandler creates a student.
func CreateStudentHandler(c *gin.Context) {
	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	student := models.Student{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		ClassID:   input.ClassID,
		GroupID:   input.GroupID,
	}
	if err := config.DB.Create(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create student"})
		return
	}
	c.JSON(http.StatusCreated, student)
}

// UpdateStudentHandler updates a student.
func UpdateStudentHandler(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input models.StudentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	student.FirstName = input.FirstName
	student.LastName = input.LastName
	student.Username = input.Username
	student.ClassID = input.ClassID
	student.GroupID = input.GroupID
	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update student"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// UpdateStudentGroupHandler moves a student into another workshop group.
func UpdateStudentGroupHandler(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input struct {
		GroupID *int `json:"groupId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.GroupID != nil && *input.GroupID < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Group id must be positive"})
		return
	}

	student.GroupID = input.GroupID
	if err := config.DB.Save(&student).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update group"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// DeleteStudentHandler removes a student and their grades.
func DeleteStudentHandler(c *gin.Context) {
	var student models.Student
	if err := config.DB.First(&student, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", student.ID).Delete(&models.Grade{}).Error; err != nil {
			return err
		}
		return tx.Delete(&student).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete student"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}
