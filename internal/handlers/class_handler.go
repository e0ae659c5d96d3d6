package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wechselplan/config"
	"wechselplan/models"
)

// ListClassesHandler returns all classes with student counts and the names of
// class head and class lead.
func ListClassesHandler(c *gin.Context) {
	var classes []models.Class
	if err := config.DB.Preload("ClassHead").Preload("ClassLead").Order("name").Find(&classes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load classes"})
		return
	}

	response := make([]models.ClassResponse, 0, len(classes))
	for _, class := range classes {
		var count int64
		config.DB.Model(&models.Student{}).Where("class_id = ?", class.ID).Count(&count)

		entry := models.ClassResponse{
			ID:           class.ID,
			Name:         class.Name,
			Description:  class.Description,
			StudentCount: int(count),
		}
		if class.ClassHead != nil {
			entry.ClassHead = class.ClassHead.FullName()
		}
		if class.ClassLead != nil {
			entry.ClassLead = class.ClassLead.FullName()
		}
		response = append(response, entry)
	}
	c.JSON(http.StatusOK, response)
}

// GetClassHandler returns one class with its students.
func GetClassHandler(c *gin.Context) {
	var class models.Class
	err := config.DB.Preload("Students").Preload("ClassHead").Preload("ClassLead").First(&class, c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.JSON(http.StatusOK, class)
}

// CreateClassHandler creates a class.
func CreateClassHandler(c *gin.Context) {
	var input models.ClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	class := models.Class{
		Name:        input.Name,
		Description: input.Description,
		ClassHeadID: input.ClassHeadID,
		ClassLeadID: input.ClassLeadID,
	}
	if err := config.DB.Create(&class).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create class"})
		return
	}
	c.JSON(http.StatusCreated, class)
}

// UpdateClassHandler updates name, description and leadership of a class.
func UpdateClassHandler(c *gin.Context) {
	var class models.Class
	if err := config.DB.First(&class, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input models.ClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	class.Name = input.Name
	class.Description = input.Description
	class.ClassHeadID = input.ClassHeadID
	class.ClassLeadID = input.ClassLeadID
	if err := config.DB.Save(&class).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update class"})
		return
	}
	c.JSON(http.StatusOK, class)
}

// DeleteClassHandler removes a class together with its students, schedules,
// assignments and rotations.
func DeleteClassHandler(c *gin.Context) {
	var class models.Class
	if err := config.DB.First(&class, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", class.ID).Delete(&models.TeacherRotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", class.ID).Delete(&models.TeacherAssignment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", class.ID).Delete(&models.Grade{}).Error; err != nil {
			return err
		}
		if err := deleteSchedulesForClass(tx, class.ID, nil); err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", class.ID).Delete(&models.Student{}).Error; err != nil {
			return err
		}
		return tx.Delete(&class).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete class"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Class deleted"})
}

// ListClassStudentsHandler returns the roster of one class.
func ListClassStudentsHandler(c *gin.Context) {
	var class models.Class
	if err := config.DB.First(&class, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var students []models.Student
	if err := config.DB.Where("class_id = ?", class.ID).
		Order("last_name, first_name").Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load students"})
		return
	}
	c.JSON(http.StatusOK, students)
}
