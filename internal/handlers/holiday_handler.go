package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wechselplan/config"
	"wechselplan/models"
)

// ListHolidaysHandler returns all school holidays in calendar order.
func ListHolidaysHandler(c *gin.Context) {
	var holidays []models.SchoolHoliday
	if err := config.DB.Order("start_date").Find(&holidays).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load holidays"})
		return
	}
	c.JSON(http.StatusOK, holidays)
}

// CreateHolidayHandler creates a school holiday.
func CreateHolidayHandler(c *gin.Context) {
	var input models.SchoolHolidayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if input.EndDate.Before(input.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not be before start date"})
		return
	}

	holiday := models.SchoolHoliday{
		Name:      input.Name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := config.DB.Create(&holiday).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create holiday"})
		return
	}
	c.JSON(http.StatusCreated, holiday)
}

// UpdateHolidayHandler updates a school holiday.
func UpdateHolidayHandler(c *gin.Context) {
	var holiday models.SchoolHoliday
	if err := config.DB.First(&holiday, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Holiday not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var input models.SchoolHolidayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	if input.EndDate.Before(input.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "End date must not be before start date"})
		return
	}

	holiday.Name = input.Name
	holiday.StartDate = input.StartDate
	holiday.EndDate = input.EndDate
	if err := config.DB.Save(&holiday).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update holiday"})
		return
	}
	c.JSON(http.StatusOK, holiday)
}

// DeleteHolidayHandler removes a school holiday and its turn links.
func DeleteHolidayHandler(c *gin.Context) {
	var holiday models.SchoolHoliday
	if err := config.DB.First(&holiday, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Holiday not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("holiday_id = ?", holiday.ID).Delete(&models.ScheduleTurnHoliday{}).Error; err != nil {
			return err
		}
		return tx.Delete(&holiday).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete holiday"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Holiday deleted"})
}
