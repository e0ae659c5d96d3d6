package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wechselplan/config"
	"wechselplan/internal/plan"
	"wechselplan/models"
)

// AssignmentInput is one base assignment line sent by the admin UI.
type AssignmentInput struct {
	GroupID           int   `json:"groupId" binding:"required,min=1"`
	TeacherID         uint  `json:"teacherId" binding:"required"`
	SubjectID         *uint `json:"subjectId"`
	LearningContentID *uint `json:"learningContentId"`
	RoomID            *uint `json:"roomId"`
}

// SaveAssignmentsInput replaces the whole assignment set of one period.
type SaveAssignmentsInput struct {
	ClassID     uint              `json:"classId" binding:"required"`
	Period      string            `json:"period" binding:"required"`
	Assignments []AssignmentInput `json:"assignments"`
}

// ListAssignmentsHandler returns the stored assignments of a class,
// optionally narrowed to one period.
func ListAssignmentsHandler(c *gin.Context) {
	classID, ok := queryUint(c, "classId")
	if !ok {
		return
	}

	query := config.DB.Where("class_id = ?", classID).
		Preload("Teacher").Preload("Subject").Preload("LearningContent").Preload("Room").
		Order("period, group_id, id")
	if period := c.Query("period"); period != "" {
		if period != models.PeriodAM && period != models.PeriodPM {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Period must be AM or PM"})
			return
		}
		query = query.Where("period = ?", period)
	}

	var assignments []models.TeacherAssignment
	if err := query.Find(&assignments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load assignments"})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

// SaveAssignmentsHandler replaces the assignment set for (class, period)
// wholesale: prior rows are deleted and the new set inserted in one
// transaction. Volumes are tens of rows, so no diffing.
func SaveAssignmentsHandler(c *gin.Context) {
	var input SaveAssignmentsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if input.Period != models.PeriodAM && input.Period != models.PeriodPM {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Period must be AM or PM"})
		return
	}

	var class models.Class
	if err := config.DB.First(&class, input.ClassID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	rows := make([]models.TeacherAssignment, 0, len(input.Assignments))
	for _, a := range input.Assignments {
		rows = append(rows, models.TeacherAssignment{
			ClassID:           input.ClassID,
			GroupID:           a.GroupID,
			Period:            input.Period,
			TeacherID:         a.TeacherID,
			SubjectID:         a.SubjectID,
			LearningContentID: a.LearningContentID,
			RoomID:            a.RoomID,
		})
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ? AND period = ?", input.ClassID, input.Period).
			Delete(&models.TeacherAssignment{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		slog.Error("Failed to save assignments", "error", err, "class_id", input.ClassID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save assignments"})
		return
	}
	c.JSON(http.StatusCreated, rows)
}

// BuildRotationHandler computes the rotation matrix for both periods from the
// stored assignments and the class's current schedule, then persists it,
// replacing any prior matrix of the class.
func BuildRotationHandler(c *gin.Context) {
	var input struct {
		ClassID uint `json:"classId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "classId is required"})
		return
	}

	schedule, err := findSchedule(input.ClassID, nil)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class has no schedule"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	turnIDs := make([]uint, 0, len(schedule.Turns))
	for _, turn := range schedule.Turns {
		turnIDs = append(turnIDs, turn.ID)
	}
	groupIDs, err := classGroupIDs(input.ClassID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load groups"})
		return
	}

	var allRows []models.TeacherRotation
	for _, period := range []string{models.PeriodAM, models.PeriodPM} {
		var assignments []models.TeacherAssignment
		if err := config.DB.Where("class_id = ? AND period = ?", input.ClassID, period).
			Order("group_id, id").Find(&assignments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load assignments"})
			return
		}

		cells := plan.BuildRotation(groupIDs, turnIDs, plan.DistinctTeacherIDs(assignments))
		allRows = append(allRows, plan.RotationRecords(input.ClassID, period, cells)...)
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", input.ClassID).Delete(&models.TeacherRotation{}).Error; err != nil {
			return err
		}
		if len(allRows) == 0 {
			return nil
		}
		return tx.Create(&allRows).Error
	})
	if err != nil {
		slog.Error("Failed to save rotation", "error", err, "class_id", input.ClassID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save rotation"})
		return
	}
	c.JSON(http.StatusCreated, allRows)
}

// GetRotationHandler returns the persisted matrix of a class.
func GetRotationHandler(c *gin.Context) {
	classID, ok := queryUint(c, "classId")
	if !ok {
		return
	}

	var rotations []models.TeacherRotation
	if err := config.DB.Where("class_id = ?", classID).
		Preload("Teacher").Preload("Turn").
		Order("period, turn_id, group_id").Find(&rotations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load rotation"})
		return
	}
	c.JSON(http.StatusOK, rotations)
}

// classGroupIDs returns the distinct workshop group ids of a class's
// students, ascending.
func classGroupIDs(classID uint) ([]int, error) {
	var groupIDs []int
	err := config.DB.Model(&models.Student{}).
		Where("class_id = ? AND group_id IS NOT NULL", classID).
		Distinct().Order("group_id").Pluck("group_id", &groupIDs).Error
	return groupIDs, err
}
