package models

import "time"

// Periods of the school day. Morning and afternoon are scheduled independently.
const (
	PeriodAM = "AM"
	PeriodPM = "PM"
)

// TeacherAssignment is the administrator's base assignment: which teacher
// covers which group of a class in one period, with subject, learning content
// and room. Saving replaces the whole set for the (class, period) pair.
type TeacherAssignment struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	ClassID           uint      `gorm:"not null" json:"classId"`
	GroupID           int       `gorm:"not null" json:"groupId"`
	Period            string    `gorm:"size:2;not null" json:"period"`
	TeacherID         uint      `gorm:"not null" json:"teacherId"`
	SubjectID         *uint     `json:"subjectId"`
	LearningContentID *uint     `json:"learningContentId"`
	RoomID            *uint     `json:"roomId"`
	CreatedAt         time.Time `json:"createdAt"`

	Teacher         Teacher          `gorm:"foreignKey:TeacherID" json:"teacher"`
	Subject         *Subject         `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	LearningContent *LearningContent `gorm:"foreignKey:LearningContentID" json:"learningContent,omitempty"`
	Room            *Room            `gorm:"foreignKey:RoomID" json:"room,omitempty"`
}

// TeacherRotation is one cell of the computed rotation matrix: in this turn
// and period, this group is taught by this teacher. A nil TeacherID means the
// group is unassigned for that turn.
type TeacherRotation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClassID   uint      `gorm:"not null" json:"classId"`
	GroupID   int       `gorm:"not null" json:"groupId"`
	TeacherID *uint     `json:"teacherId"`
	TurnID    uint      `gorm:"not null" json:"turnId"`
	Period    string    `gorm:"size:2;not null" json:"period"`
	CreatedAt time.Time `json:"createdAt"`

	Teacher *Teacher     `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Turn    ScheduleTurn `gorm:"foreignKey:TurnID" json:"turn"`
}
