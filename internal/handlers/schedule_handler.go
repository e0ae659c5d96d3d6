package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wechselplan/config"
	"wechselplan/internal/plan"
	"wechselplan/models"
)

// ScheduleInput binds the save payload. ScheduleData is the legacy blob shape
// the admin UI still sends; it is normalized into turn rows on save.
type ScheduleInput struct {
	ClassID         uint            `json:"classId" binding:"required"`
	SelectedWeekday *int            `json:"selectedWeekday" binding:"required"`
	ScheduleData    json.RawMessage `json:"scheduleData"`
	AdditionalInfo  string          `json:"additionalInfo"`
}

// GetScheduleHandler returns the authoritative schedule for a class and
// weekday, with the turn data reconstituted into the legacy JSON shape.
func GetScheduleHandler(c *gin.Context) {
	classID, ok := queryUint(c, "classId")
	if !ok {
		return
	}
	weekday, ok := queryWeekday(c)
	if !ok {
		return
	}

	schedule, err := findSchedule(classID, weekday)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
		return
	}
	if err != nil {
		slog.Error("Failed to load schedule", "error", err, "class_id", classID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":              schedule.ID,
		"classId":         schedule.ClassID,
		"selectedWeekday": schedule.SelectedWeekday,
		"additionalInfo":  schedule.AdditionalInfo,
		"scheduleData":    scheduleDataJSON(schedule),
	})
}

// CreateScheduleHandler saves a schedule. The prior schedule for the same
// (class, weekday) pair is superseded: one transaction deletes it together
// with its turns, weeks, holiday links and rotation rows, then inserts the
// new set, so no reader ever sees the gap in between.
func CreateScheduleHandler(c *gin.Context) {
	var input ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if *input.SelectedWeekday < 0 || *input.SelectedWeekday > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Weekday must be between 0 and 6"})
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

	schedule := models.Schedule{
		ClassID:         input.ClassID,
		SelectedWeekday: *input.SelectedWeekday,
		ScheduleData:    string(input.ScheduleData),
		AdditionalInfo:  input.AdditionalInfo,
	}
	for order, turn := range plan.ParseScheduleJSON(input.ScheduleData) {
		schedule.Turns = append(schedule.Turns, plan.TurnRecord(turn, order))
	}

	weekday := *input.SelectedWeekday
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteSchedulesForClass(tx, input.ClassID, &weekday); err != nil {
			return err
		}
		return tx.Create(&schedule).Error
	})
	if err != nil {
		slog.Error("Failed to save schedule", "error", err, "class_id", input.ClassID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save schedule"})
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// DeleteScheduleHandler removes one schedule with everything hanging off it.
func DeleteScheduleHandler(c *gin.Context) {
	var schedule models.Schedule
	if err := config.DB.First(&schedule, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return deleteScheduleRows(tx, []uint{schedule.ID})
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule deleted"})
}

// findSchedule returns the latest schedule for a class, optionally narrowed
// to one weekday, with turns, weeks and holiday details preloaded.
func findSchedule(classID uint, weekday *int) (*models.Schedule, error) {
	query := config.DB.Where("class_id = ?", classID)
	if weekday != nil {
		query = query.Where("selected_weekday = ?", *weekday)
	}

	var schedule models.Schedule
	err := query.
		Preload("Turns", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("Turns.Weeks").
		Preload("Turns.HolidayLinks.Holiday").
		Order("id DESC").
		First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// scheduleDataJSON prefers the normalized rows and falls back to the stored
// blob for rows migrated before normalization existed.
func scheduleDataJSON(schedule *models.Schedule) any {
	if len(schedule.Turns) > 0 {
		return plan.LegacyScheduleJSON(schedule.Turns)
	}
	var blob any
	if err := json.Unmarshal([]byte(schedule.ScheduleData), &blob); err != nil {
		slog.Warn("Stored schedule blob is not valid JSON", "schedule_id", schedule.ID)
		return map[string]any{}
	}
	return blob
}

// deleteSchedulesForClass removes every schedule of a class (optionally only
// one weekday) including turns, weeks, holiday links and rotation rows.
func deleteSchedulesForClass(tx *gorm.DB, classID uint, weekday *int) error {
	query := tx.Model(&models.Schedule{}).Where("class_id = ?", classID)
	if weekday != nil {
		query = query.Where("selected_weekday = ?", *weekday)
	}

	var scheduleIDs []uint
	if err := query.Pluck("id", &scheduleIDs).Error; err != nil {
		return err
	}
	if len(scheduleIDs) == 0 {
		return nil
	}
	return deleteScheduleRows(tx, scheduleIDs)
}

func deleteScheduleRows(tx *gorm.DB, scheduleIDs []uint) error {
	var turnIDs []uint
	if err := tx.Model(&models.ScheduleTurn{}).Where("schedule_id IN ?", scheduleIDs).Pluck("id", &turnIDs).Error; err != nil {
		return err
	}

	if len(turnIDs) > 0 {
		if err := tx.Where("turn_id IN ?", turnIDs).Delete(&models.TeacherRotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("turn_id IN ?", turnIDs).Delete(&models.ScheduleTurnHoliday{}).Error; err != nil {
			return err
		}
		if err := tx.Where("turn_id IN ?", turnIDs).Delete(&models.ScheduleWeek{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", turnIDs).Delete(&models.ScheduleTurn{}).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", scheduleIDs).Delete(&models.Schedule{}).Error
}

// queryUint reads a required positive integer query parameter, answering 400
// itself when it is missing or malformed.
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameter: " + name})
		return 0, false
	}
	value, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || value == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parameter: " + name})
		return 0, false
	}
	return uint(value), true
}

// queryWeekday reads the optional weekday parameter (0-6).
func queryWeekday(c *gin.Context) (*int, bool) {
	raw := c.Query("weekday")
	if raw == "" {
		return nil, true
	}
	weekday, err := strconv.Atoi(raw)
	if err != nil || weekday < 0 || weekday > 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Weekday must be between 0 and 6"})
		return nil, false
	}
	return &weekday, true
}
