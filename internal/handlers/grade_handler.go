package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"wechselplan/config"
	"wechselplan/models"
)

// GradeEntry is one student's mark within a save request.
type GradeEntry struct {
	StudentID uint     `json:"studentId" binding:"required"`
	Grade     *float64 `json:"grade"`
}

// SaveGradesInput upserts a teacher's marks for one class and semester.
type SaveGradesInput struct {
	ClassID   uint         `json:"classId" binding:"required"`
	TeacherID uint         `json:"teacherId" binding:"required"`
	Semester  string       `json:"semester" binding:"required"`
	Grades    []GradeEntry `json:"grades" binding:"required"`
}

// ListGradesHandler returns grades filtered by class, teacher and semester.
func ListGradesHandler(c *gin.Context) {
	classID, ok := queryUint(c, "classId")
	if !ok {
		return
	}

	query := config.DB.Where("class_id = ?", classID).Preload("Student").Preload("Teacher")
	if teacherID := c.Query("teacherId"); teacherID != "" {
		query = query.Where("teacher_id = ?", teacherID)
	}
	if semester := c.Query("semester"); semester != "" {
		if semester != models.SemesterFirst && semester != models.SemesterSecond {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Semester must be first or second"})
			return
		}
		query = query.Where("semester = ?", semester)
	}

	var grades []models.Grade
	if err := query.Find(&grades).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load grades"})
		return
	}
	c.JSON(http.StatusOK, grades)
}

// SaveGradesHandler upserts one row per student. A grade outside the
// half-step scale 1..5 is rejected; nil clears the mark.
func SaveGradesHandler(c *gin.Context) {
	var input SaveGradesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if input.Semester != models.SemesterFirst && input.Semester != models.SemesterSecond {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Semester must be first or second"})
		return
	}
	for _, entry := range input.Grades {
		if entry.Grade != nil && !models.ValidGradeValue(*entry.Grade) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Grades must be between 1 and 5 in half steps"})
			return
		}
	}

	rows := make([]models.Grade, 0, len(input.Grades))
	for _, entry := range input.Grades {
		rows = append(rows, models.Grade{
			StudentID: entry.StudentID,
			TeacherID: input.TeacherID,
			ClassID:   input.ClassID,
			Semester:  input.Semester,
			Grade:     entry.Grade,
		})
	}
	if len(rows) == 0 {
		c.JSON(http.StatusOK, rows)
		return
	}

	err := config.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "teacher_id"}, {Name: "class_id"}, {Name: "semester"}},
		DoUpdates: clause.AssignmentColumns([]string{"grade", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save grades"})
		return
	}
	c.JSON(http.StatusOK, rows)
}
