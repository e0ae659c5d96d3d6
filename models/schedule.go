package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule is the rotation plan of one class for one weekday. ScheduleData
// carries the legacy JSON blob; newer rows store the same information as
// ScheduleTurn children instead. Only the latest row per (class, weekday) is
// authoritative; saving a new one deletes its predecessors.
type Schedule struct {
	gorm.Model
	ClassID         uint   `json:"classId" gorm:"not null"`
	SelectedWeekday int    `json:"selectedWeekday" gorm:"not null"`
	ScheduleData    string `json:"scheduleData" gorm:"type:json"`
	AdditionalInfo  string `json:"additionalInfo"`

	Class *Class         `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	Turns []ScheduleTurn `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE" json:"turns,omitempty"`
}

// ScheduleTurn is one rotation block ("Turnus") of a schedule. Order defines
// the sequence the rotation walks through.
type ScheduleTurn struct {
	gorm.Model
	ScheduleID   uint   `json:"scheduleId" gorm:"not null"`
	Name         string `json:"name" gorm:"not null"`
	Order        int    `json:"order" gorm:"column:sort_order;not null"`
	CustomLength *int   `json:"customLength"`

	Weeks        []ScheduleWeek        `gorm:"foreignKey:TurnID;constraint:OnDelete:CASCADE" json:"weeks,omitempty"`
	HolidayLinks []ScheduleTurnHoliday `gorm:"foreignKey:TurnID;constraint:OnDelete:CASCADE" json:"holidayLinks,omitempty"`
}

// ScheduleWeek is a single dated row within a turn. Date keeps the source
// string form (DD.MM.YY or ISO, depending on where the row came from).
type ScheduleWeek struct {
	gorm.Model
	TurnID    uint   `json:"turnId" gorm:"not null"`
	Date      string `json:"date"`
	Week      string `json:"week"`
	IsHoliday bool   `json:"isHoliday"`
}

// ScheduleTurnHoliday links a turn to a school holiday that falls into it.
type ScheduleTurnHoliday struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TurnID    uint `gorm:"not null" json:"turnId"`
	HolidayID uint `gorm:"not null" json:"holidayId"`

	Holiday SchoolHoliday `gorm:"foreignKey:HolidayID" json:"holiday"`
}

// SchoolHoliday is maintained school-wide, independent of any schedule.
type SchoolHoliday struct {
	gorm.Model
	Name      string    `json:"name" gorm:"not null"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// SchoolHolidayInput binds the JSON body for create and update requests.
type SchoolHolidayInput struct {
	Name      string    `json:"name" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required"`
}
